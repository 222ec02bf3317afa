package providers

import (
	"context"

	"github.com/samvad-hq/samvad-character-harvester/internal/domain"
	"github.com/samvad-hq/samvad-character-harvester/pkg/httpclient"
)

// Fetcher is responsible for retrieving characters for a provider.
// Concrete implementations live in type-specific files (e.g., character_list.go).
type Fetcher interface {
	ID() string
	Fetch(ctx context.Context, cfg Provider) ([]domain.Character, error)
}

// FetcherRegistry resolves the fetcher implementation for a given provider config.
type FetcherRegistry interface {
	FetcherFor(cfg Provider) (Fetcher, error)
}

// HTTPClient aliases the shared httpclient.Client interface for clarity within providers.
type HTTPClient = httpclient.Client
