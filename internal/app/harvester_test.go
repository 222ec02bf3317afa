package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/samvad-hq/samvad-character-harvester/internal/config"
	"github.com/samvad-hq/samvad-character-harvester/pkg/publishers"
)

const apiList = `{
  "info": {"count": 2, "pages": 1, "next": null, "prev": null},
  "results": [
    {"id": 1, "name": "Rick Sanchez", "status": "Alive", "episode": ["https://example/episode/1"]},
    {"id": 2, "name": "Morty Smith", "status": "Alive", "episode": ["https://example/episode/1"]}
  ]
}`

type sink struct {
	mu     sync.Mutex
	events []publishers.Event
}

func (s *sink) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var evt publishers.Event
		if err := json.NewDecoder(r.Body).Decode(&evt); err != nil {
			t.Errorf("decode event: %v", err)
		}
		s.mu.Lock()
		s.events = append(s.events, evt)
		s.mu.Unlock()
		w.WriteHeader(http.StatusAccepted)
	})
}

func (s *sink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func testConfig(t *testing.T, apiURL, sinkURL string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		LogLevel:   "error",
		APIBaseURL: apiURL + "/api",
		ProvidersFile: writeFile(t, dir, "providers.yaml", `
providers:
  - id: all-characters
    name: Character index
    type: character_list
`),
		PublishersFile: writeFile(t, dir, "publishers.yaml", `
publishers:
  - id: hook
    type: http
    http:
      url: `+sinkURL+`
`),
		SyncInterval:           time.Hour,
		StorageType:            "bbolt",
		BBoltPath:              filepath.Join(dir, "data", "characters.db"),
		StorageTTL:             time.Hour,
		StorageCleanupInterval: time.Hour,
	}
}

func TestHarvesterRunOncePublishesAndDedupes(t *testing.T) {
	var apiHits int
	var apiMu sync.Mutex
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiMu.Lock()
		apiHits++
		apiMu.Unlock()
		if r.URL.Path != "/api/character" || r.URL.RawQuery != "" {
			t.Errorf("unexpected request %s", r.URL.String())
		}
		_, _ = w.Write([]byte(apiList))
	}))
	defer api.Close()

	s := &sink{}
	hook := httptest.NewServer(s.handler(t))
	defer hook.Close()

	cfg := testConfig(t, api.URL, hook.URL)

	h, err := NewHarvester(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("NewHarvester: %v", err)
	}
	if err := h.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if s.count() != 2 {
		t.Fatalf("expected 2 events, got %d", s.count())
	}
	if s.events[0].Character.Name != "Rick Sanchez" || s.events[0].ProviderID != "all-characters" {
		t.Fatalf("unexpected first event %+v", s.events[0])
	}

	// Second pass reopens the same store: nothing changed, nothing published.
	h2, err := NewHarvester(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("NewHarvester (second): %v", err)
	}
	if err := h2.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce (second): %v", err)
	}
	if s.count() != 2 {
		t.Fatalf("expected no new events on unchanged data, got %d", s.count())
	}
	if apiHits != 2 {
		t.Fatalf("expected one API request per pass, got %d", apiHits)
	}
}

func TestHarvesterRunStopsOnCancel(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(apiList))
	}))
	defer api.Close()
	s := &sink{}
	hook := httptest.NewServer(s.handler(t))
	defer hook.Close()

	h, err := NewHarvester(context.Background(), testConfig(t, api.URL, hook.URL), nil)
	if err != nil {
		t.Fatalf("NewHarvester: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.Run(ctx) }()

	deadline := time.Now().Add(5 * time.Second)
	for s.count() < 2 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not stop after cancel")
	}
	if s.count() != 2 {
		t.Fatalf("expected initial pass to publish 2 events, got %d", s.count())
	}
}

func TestNewHarvesterRequiresConfig(t *testing.T) {
	if _, err := NewHarvester(context.Background(), nil, nil); err == nil {
		t.Fatalf("expected error for nil config")
	}
}

func TestNewHarvesterRejectsMissingProvidersFile(t *testing.T) {
	cfg := &config.Config{ProvidersFile: filepath.Join(t.TempDir(), "missing.yaml")}
	if _, err := NewHarvester(context.Background(), cfg, nil); err == nil {
		t.Fatalf("expected error for missing providers file")
	}
}
