package harvest

import (
	"context"
	"errors"
	"fmt"

	"github.com/samvad-hq/samvad-character-harvester/internal/domain"
	"github.com/samvad-hq/samvad-character-harvester/internal/logger"
	"github.com/samvad-hq/samvad-character-harvester/pkg/providers"
	"github.com/samvad-hq/samvad-character-harvester/pkg/publishers"
)

// ProviderProcessor runs fetch, dedupe and publish for one provider.
type ProviderProcessor struct {
	registry  providers.FetcherRegistry
	publisher EventPublisher
	log       logger.Logger
	deduper   Deduper
	recorder  Recorder
}

// NewProviderProcessor wires a processor. Nil log, deduper or recorder are
// replaced with no-op implementations.
func NewProviderProcessor(reg providers.FetcherRegistry, pub EventPublisher, log logger.Logger, deduper Deduper, rec Recorder) *ProviderProcessor {
	if log == nil {
		log = &logger.NopLogger{}
	}
	if rec == nil {
		rec = nopRecorder{}
	}
	return &ProviderProcessor{
		registry:  reg,
		publisher: pub,
		log:       log,
		deduper:   deduper,
		recorder:  rec,
	}
}

// Process fetches characters for cfg and publishes the ones not seen before.
// A partial fetch still publishes what arrived; the fetch error is returned
// alongside any publish errors.
func (p *ProviderProcessor) Process(ctx context.Context, cfg providers.Provider) error {
	fetcher, err := p.registry.FetcherFor(cfg)
	if err != nil {
		return fmt.Errorf("resolve fetcher for provider %s: %w", cfg.ID, err)
	}

	characters, fetchErr := fetcher.Fetch(ctx, cfg)
	p.recorder.ObserveFetch(cfg.ID, len(characters), fetchErr)
	if fetchErr != nil && len(characters) == 0 {
		return fmt.Errorf("fetch provider %s: %w", cfg.ID, fetchErr)
	}

	fresh := p.filterNew(ctx, cfg, characters)
	published, publishErr := p.publishAll(ctx, cfg, fresh)

	p.log.InfoObj("provider harvest completed", "provider_result", map[string]any{
		"provider_id":          cfg.ID,
		"characters_fetched":   len(characters),
		"characters_new":       len(fresh),
		"characters_published": published,
	})

	var errs []error
	if fetchErr != nil {
		errs = append(errs, fmt.Errorf("fetch provider %s: %w", cfg.ID, fetchErr))
	}
	if publishErr != nil {
		errs = append(errs, publishErr)
	}
	return errors.Join(errs...)
}

// filterNew drops characters whose fingerprint is already recorded. Lookup
// failures keep the character so it is not silently lost.
func (p *ProviderProcessor) filterNew(ctx context.Context, cfg providers.Provider, characters []domain.Character) []domain.Character {
	if p.deduper == nil {
		return characters
	}

	out := make([]domain.Character, 0, len(characters))
	for _, c := range characters {
		seen, err := p.deduper.Seen(ctx, Fingerprint(c))
		if err != nil {
			p.log.WarnObj("dedupe lookup failed", "dedupe_error", map[string]any{
				"provider_id":  cfg.ID,
				"character_id": c.ID,
				"error":        err.Error(),
			})
			out = append(out, c)
			continue
		}
		if !seen {
			out = append(out, c)
		}
	}
	return out
}

func (p *ProviderProcessor) publishAll(ctx context.Context, cfg providers.Provider, characters []domain.Character) (int, error) {
	if p.publisher == nil || len(characters) == 0 {
		return 0, nil
	}

	var errs []error
	published := 0
	for _, c := range characters {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		evt := publishers.NewEvent(cfg.ID, cfg.Name, c)
		delivered, err := p.publisher.Publish(ctx, evt)
		p.recorder.ObservePublish(cfg.ID, err)
		if err != nil {
			errs = append(errs, fmt.Errorf("publish character %d: %w", c.ID, err))
		}
		if delivered == 0 {
			continue
		}
		published++

		if p.deduper != nil {
			if err := p.deduper.Mark(ctx, Fingerprint(c)); err != nil {
				p.log.WarnObj("dedupe mark failed", "dedupe_error", map[string]any{
					"provider_id":  cfg.ID,
					"character_id": c.ID,
					"error":        err.Error(),
				})
			}
		}
	}
	return published, errors.Join(errs...)
}
