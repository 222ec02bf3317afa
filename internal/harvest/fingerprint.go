package harvest

import (
	"crypto/sha1" //nolint:gosec // non-cryptographic fingerprint
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/samvad-hq/samvad-character-harvester/internal/domain"
)

// Fingerprint identifies a character snapshot. It changes when the fields a
// downstream consumer cares about change: status, whereabouts, episode count.
func Fingerprint(c domain.Character) string {
	parts := []string{
		c.Status,
		c.Location.URL,
		c.Location.Name,
		strconv.Itoa(len(c.Episode)),
	}
	sum := sha1.Sum([]byte(strings.Join(parts, "\x00")))
	return strconv.Itoa(c.ID) + ":" + hex.EncodeToString(sum[:])
}
