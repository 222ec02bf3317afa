package harvest

import (
	"context"
	"errors"
	"fmt"

	"github.com/samvad-hq/samvad-character-harvester/internal/logger"
	"github.com/samvad-hq/samvad-character-harvester/pkg/providers"
)

// Service coordinates harvesting across multiple providers.
type Service struct {
	processor *ProviderProcessor
	log       logger.Logger
}

// NewService wires a harvest service.
func NewService(reg providers.FetcherRegistry, pub EventPublisher, log logger.Logger, deduper Deduper, rec Recorder) *Service {
	if log == nil {
		log = &logger.NopLogger{}
	}
	return &Service{
		processor: NewProviderProcessor(reg, pub, log, deduper, rec),
		log:       log,
	}
}

// Run executes a harvest pass for all configured providers.
func (s *Service) Run(ctx context.Context, cfgs []providers.Provider) error {
	if s == nil || s.processor == nil || s.processor.registry == nil {
		return fmt.Errorf("harvest service is not initialized")
	}
	if len(cfgs) == 0 {
		return fmt.Errorf("no providers configured for harvesting")
	}

	if errs := s.runAll(ctx, cfgs); len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// runAll processes providers in order and stops early once ctx is done.
func (s *Service) runAll(ctx context.Context, cfgs []providers.Provider) []error {
	errs := make([]error, 0, len(cfgs))

	for _, cfg := range cfgs {
		if ctx.Err() != nil {
			break
		}
		if err := s.processor.Process(ctx, cfg); err != nil {
			errs = append(errs, err)
			s.log.ErrorObj("provider harvest failed", "provider_error", map[string]any{
				"provider_id": cfg.ID,
				"error":       err.Error(),
			})
		}
	}

	return errs
}
