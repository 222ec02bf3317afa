package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samvad-hq/samvad-character-harvester/internal/domain"
)

// characterDetailFetcher fetches each configured character id in turn,
// throttled by the provider's request delay.
type characterDetailFetcher struct {
	client  HTTPClient
	baseURL string
}

// NewCharacterDetailFetcher returns the fetcher for character_detail providers.
func NewCharacterDetailFetcher(client HTTPClient, baseURL string) Fetcher {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return &characterDetailFetcher{client: client, baseURL: baseURL}
}

func (f *characterDetailFetcher) ID() string {
	return TypeCharacterDetail
}

// Fetch returns the characters that could be fetched. Failed ids are joined
// into the returned error; the successful ones are still returned.
func (f *characterDetailFetcher) Fetch(ctx context.Context, cfg Provider) ([]domain.Character, error) {
	if !strings.EqualFold(cfg.Type, TypeCharacterDetail) {
		return nil, fmt.Errorf("character detail fetcher received incompatible provider type %q", cfg.Type)
	}
	if len(cfg.CharacterIDs) == 0 {
		return nil, fmt.Errorf("provider %q has no character_ids", cfg.ID)
	}

	api := apiFor(f.client, f.baseURL, cfg)
	delay := cfg.RequestDelay()

	out := make([]domain.Character, 0, len(cfg.CharacterIDs))
	var errs []error
	for i, id := range cfg.CharacterIDs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		c, err := api.GetCharacterDetail(ctx, id)
		if err != nil {
			errs = append(errs, fmt.Errorf("fetch %s character %s: %w", cfg.ID, id, err))
		} else {
			out = append(out, c)
		}

		if delay > 0 && i < len(cfg.CharacterIDs)-1 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				errs = append(errs, ctx.Err())
				return out, errors.Join(errs...)
			case <-timer.C:
			}
		}
	}

	return out, errors.Join(errs...)
}
