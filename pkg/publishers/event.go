package publishers

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/samvad-hq/samvad-character-harvester/internal/domain"
)

// Event represents the payload published downstream for one character snapshot.
type Event struct {
	ID           string           `json:"id"`
	ProviderID   string           `json:"provider_id"`
	ProviderName string           `json:"provider_name"`
	Character    domain.Character `json:"character"`
	CollectedAt  time.Time        `json:"collected_at"`
}

// NewEvent constructs an Event for the given provider + character.
func NewEvent(providerID, providerName string, character domain.Character) Event {
	return Event{
		ID:           uuid.NewString(),
		ProviderID:   providerID,
		ProviderName: providerName,
		Character:    character,
		CollectedAt:  time.Now().UTC(),
	}
}

// attributes are the routing attributes attached to queue/topic messages.
func (e Event) attributes() map[string]string {
	return map[string]string{
		"event_id":     e.ID,
		"provider_id":  e.ProviderID,
		"character_id": strconv.Itoa(e.Character.ID),
	}
}
