package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIBaseURL != "https://rickandmortyapi.com/api" {
		t.Fatalf("unexpected api_base_url %q", cfg.APIBaseURL)
	}
	if cfg.HTTPTimeout != 0 {
		t.Fatalf("expected no default http timeout, got %v", cfg.HTTPTimeout)
	}
	if cfg.SyncInterval != 900*time.Second {
		t.Fatalf("unexpected sync interval %v", cfg.SyncInterval)
	}
	if cfg.StorageTTL != 5*24*time.Hour {
		t.Fatalf("unexpected storage ttl %v", cfg.StorageTTL)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://localhost:9999/api")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "3")
	t.Setenv("SYNC_INTERVAL", "60")
	t.Setenv("STORAGE_TYPE", "none")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIBaseURL != "http://localhost:9999/api" {
		t.Fatalf("unexpected api_base_url %q", cfg.APIBaseURL)
	}
	if cfg.HTTPTimeout != 3*time.Second {
		t.Fatalf("unexpected http timeout %v", cfg.HTTPTimeout)
	}
	if cfg.SyncInterval != time.Minute {
		t.Fatalf("unexpected sync interval %v", cfg.SyncInterval)
	}
	if cfg.StorageType != "none" {
		t.Fatalf("unexpected storage type %q", cfg.StorageType)
	}
}

func TestLoadRejectsNonPositiveInterval(t *testing.T) {
	t.Setenv("SYNC_INTERVAL", "0")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for zero sync_interval")
	}
}

func TestNormalizeRejectsNegativeTimeout(t *testing.T) {
	cfg := Config{
		APIBaseURL:            "https://example.com",
		HTTPTimeoutSeconds:    -1,
		SyncIntervalSecs:      1,
		StorageTTLSeconds:     1,
		StorageCleanupSeconds: 1,
	}
	if err := cfg.normalize(); err == nil {
		t.Fatalf("expected error for negative timeout")
	}
}
