package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samvad-hq/samvad-character-harvester/internal/config"
	"github.com/samvad-hq/samvad-character-harvester/internal/harvest"
	"github.com/samvad-hq/samvad-character-harvester/internal/logger"
	"github.com/samvad-hq/samvad-character-harvester/internal/metrics"
	"github.com/samvad-hq/samvad-character-harvester/internal/storage"
	"github.com/samvad-hq/samvad-character-harvester/pkg/httpclient"
	"github.com/samvad-hq/samvad-character-harvester/pkg/providers"
	"github.com/samvad-hq/samvad-character-harvester/pkg/publishers"
)

// Harvester represents the character harvester runtime. It manages the sync
// loop, coordinating between providers, the harvest service, and publishers.
// It also owns the dedupe store and the metrics listener.
type Harvester struct {
	cfg          *config.Config
	providerReg  *providers.Registry
	fanout       *publishers.Fanout
	service      *harvest.Service
	syncInterval time.Duration
	log          logger.Logger
	store        storage.Store
	metrics      *metrics.Metrics
}

// NewHarvester builds a harvester runtime from config files.
func NewHarvester(ctx context.Context, cfg *config.Config, log logger.Logger) (*Harvester, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	providerReg, err := providers.LoadRegistry(cfg.ProvidersFile)
	if err != nil {
		return nil, fmt.Errorf("load providers registry: %w", err)
	}
	providerList := providerReg.All()
	providerIDs := make([]string, 0, len(providerList))
	for _, p := range providerList {
		providerIDs = append(providerIDs, p.ID)
	}
	log.InfoObj("providers registry loaded", "providers_meta", map[string]any{
		"count": len(providerIDs),
		"ids":   providerIDs,
	})

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabledPublishers := publisherReg.Enabled()
	if len(enabledPublishers) == 0 {
		return nil, fmt.Errorf("no publishers configured")
	}

	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabledPublishers, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	fanout := publishers.NewFanout(pubClients)
	publisherSummaries := make([]map[string]string, 0, len(enabledPublishers))
	for _, pubCfg := range enabledPublishers {
		publisherSummaries = append(publisherSummaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(publisherSummaries),
		"publishers": publisherSummaries,
	})

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		TTL:             cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
		RedisAddr:       cfg.RedisAddr,
		RedisPassword:   cfg.RedisPassword,
		RedisDB:         cfg.RedisDB,
	})
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"ttl_seconds":              int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	m := metrics.New()
	client := httpclient.NewRestyClient(cfg.HTTPTimeout)
	fetchers := providers.DefaultFetcherRegistry(client, cfg.APIBaseURL)

	return &Harvester{
		cfg:          cfg,
		providerReg:  providerReg,
		fanout:       fanout,
		service:      harvest.NewService(fetchers, fanout, log, store, m),
		syncInterval: cfg.SyncInterval,
		log:          log,
		store:        store,
		metrics:      m,
	}, nil
}

// Run starts the sync loop until the context is cancelled.
func (h *Harvester) Run(ctx context.Context) error {
	if h == nil || h.service == nil {
		return fmt.Errorf("harvester is not initialized")
	}
	defer h.close()

	if h.cfg.MetricsAddr != "" {
		go func() {
			if err := h.metrics.Serve(ctx, h.cfg.MetricsAddr); err != nil {
				h.log.ErrorObj("metrics listener stopped", "error", err)
			}
		}()
	}

	providerList := h.providerReg.All()
	if len(providerList) == 0 {
		h.log.WarnObj("no providers configured; harvester idle", "providers_file", h.cfg.ProvidersFile)
		<-ctx.Done()
		return ctx.Err()
	}

	h.log.InfoObj("harvester loop starting", "harvester_state", map[string]any{
		"providers_count":  len(providerList),
		"publishers_count": h.fanout.Size(),
		"sync_interval":    h.syncInterval.String(),
		"api_base_url":     h.cfg.APIBaseURL,
	})

	if err := h.runOnce(ctx, providerList); err != nil {
		h.log.ErrorObj("initial harvest failed", "error", err)
	}

	ticker := time.NewTicker(h.syncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.log.InfoObj("harvester loop exiting", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			if err := h.runOnce(ctx, providerList); err != nil {
				h.log.ErrorObj("scheduled harvest failed", "error", err)
			}
		}
	}
}

// RunOnce performs a single harvest pass and releases resources afterwards.
func (h *Harvester) RunOnce(ctx context.Context) error {
	if h == nil || h.service == nil {
		return fmt.Errorf("harvester is not initialized")
	}
	defer h.close()
	return h.runOnce(ctx, h.providerReg.All())
}

func (h *Harvester) runOnce(ctx context.Context, providerList []providers.Provider) error {
	start := time.Now()
	h.log.InfoObj("harvest started", "harvest_meta", map[string]any{
		"providers_count": len(providerList),
		"started_at":      start.UTC(),
	})
	err := h.service.Run(ctx, providerList)
	h.metrics.ObservePass(time.Since(start))
	if err != nil {
		return err
	}
	h.log.InfoObj("harvest completed", "harvest_meta", map[string]any{
		"providers_count": len(providerList),
		"elapsed_ms":      time.Since(start).Milliseconds(),
	})
	return nil
}

// close releases the store and any connection-holding publishers.
func (h *Harvester) close() {
	if h == nil {
		return
	}
	var errs []error
	if h.store != nil {
		errs = append(errs, h.store.Close())
	}
	if h.fanout != nil {
		errs = append(errs, h.fanout.Close())
	}
	if err := errors.Join(errs...); err != nil {
		h.log.ErrorObj("harvester shutdown failed", "error", err)
	}
}
