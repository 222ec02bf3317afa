package providers

import (
	"context"
	"fmt"
	"strings"

	"github.com/samvad-hq/samvad-character-harvester/internal/domain"
)

// characterListFetcher implements Fetcher for providers that read the first
// page of the character collection.
type characterListFetcher struct {
	client  HTTPClient
	baseURL string
}

// NewCharacterListFetcher returns the fetcher for character_list providers.
func NewCharacterListFetcher(client HTTPClient, baseURL string) Fetcher {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return &characterListFetcher{client: client, baseURL: baseURL}
}

func (f *characterListFetcher) ID() string {
	return TypeCharacterList
}

func (f *characterListFetcher) Fetch(ctx context.Context, cfg Provider) ([]domain.Character, error) {
	if !strings.EqualFold(cfg.Type, TypeCharacterList) {
		return nil, fmt.Errorf("character list fetcher received incompatible provider type %q", cfg.Type)
	}

	page, err := apiFor(f.client, f.baseURL, cfg).GetCharacterList(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch %s character list: %w", cfg.ID, err)
	}
	if len(page.Results) == 0 {
		return nil, fmt.Errorf("%s character list returned no records", cfg.ID)
	}
	return page.Results, nil
}
