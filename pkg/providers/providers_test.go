package providers

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadRegistryYAML(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "providers.yaml")
	content := `
providers:
  - id: all-characters
    name: Character index
    type: character_list
  - id: main-cast
    name: Main cast
    type: Character_Detail
    base_url: https://mirror.example/api
    character_ids: ["1", " 2 ", ""]
    request_delay_ms: 750
    config:
      user_agent: harvester/1.0
`
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatalf("write providers file: %v", err)
	}

	reg, err := LoadRegistry(file)
	if err != nil {
		t.Fatalf("LoadRegistry returned error: %v", err)
	}

	if got := len(reg.All()); got != 2 {
		t.Fatalf("expected 2 providers, got %d", got)
	}

	p, ok := reg.ByID("main-cast")
	if !ok {
		t.Fatalf("expected provider id main-cast to be loaded")
	}
	if p.Type != TypeCharacterDetail {
		t.Fatalf("type not normalized: %s", p.Type)
	}
	if len(p.CharacterIDs) != 2 || p.CharacterIDs[1] != "2" {
		t.Fatalf("unexpected character ids: %v", p.CharacterIDs)
	}
	if p.RequestDelay() != 750*time.Millisecond {
		t.Fatalf("unexpected request delay: %v", p.RequestDelay())
	}
	if ua := Headers(p)["User-Agent"]; ua != "harvester/1.0" {
		t.Fatalf("unexpected user agent header %q", ua)
	}

	list, _ := reg.ByID("all-characters")
	if list.RequestDelay() != time.Duration(defaultRequestDelayMs)*time.Millisecond {
		t.Fatalf("expected default delay, got %v", list.RequestDelay())
	}
}

func TestRequestDelayZeroDisablesThrottle(t *testing.T) {
	content := `
providers:
  - id: fast
    name: Fast cast
    type: character_detail
    character_ids: ["1", "2"]
    request_delay_ms: 0
  - id: default
    name: Default cast
    type: character_detail
    character_ids: ["1"]
`
	reg, err := ParseRegistry([]byte(content), ".yaml")
	if err != nil {
		t.Fatalf("ParseRegistry returned error: %v", err)
	}

	fast, _ := reg.ByID("fast")
	if fast.RequestDelay() != 0 {
		t.Fatalf("expected explicit zero delay to disable throttling, got %v", fast.RequestDelay())
	}
	def, _ := reg.ByID("default")
	if def.RequestDelay() != 500*time.Millisecond {
		t.Fatalf("expected default delay when unset, got %v", def.RequestDelay())
	}
	if (Provider{}).RequestDelay() != 500*time.Millisecond {
		t.Fatalf("expected default delay on zero-value provider")
	}
}

func TestLoadRegistryDuplicateID(t *testing.T) {
	content := `
providers:
  - id: duplicate
    name: Provider One
    type: character_list
  - id: duplicate
    name: Provider Two
    type: character_list
`
	if _, err := ParseRegistry([]byte(content), ".yaml"); err == nil {
		t.Fatalf("expected duplicate provider error, got nil")
	}
}

func TestParseRegistryJSON(t *testing.T) {
	content := `{"providers":[{"id":"rick","name":"Rick","type":"character_detail","character_ids":["1"]}]}`
	reg, err := ParseRegistry([]byte(content), ".json")
	if err != nil {
		t.Fatalf("ParseRegistry: %v", err)
	}
	if _, ok := reg.ByID("rick"); !ok {
		t.Fatalf("expected rick provider")
	}
}

func TestValidateProviderRequiresIDsForDetail(t *testing.T) {
	err := validateProvider(Provider{ID: "x", Name: "X", Type: TypeCharacterDetail})
	if err == nil {
		t.Fatalf("expected error for detail provider without ids")
	}
}

func TestHeadersMergesFreeFormMap(t *testing.T) {
	p := Provider{Config: map[string]any{
		ConfigHeadersKey: map[string]any{"X-Trace": "abc", "": "skip"},
		ConfigAcceptKey:  "application/json; charset=utf-8",
	}}
	h := Headers(p)
	if h["X-Trace"] != "abc" {
		t.Fatalf("missing free-form header: %v", h)
	}
	if h["Accept"] != "application/json; charset=utf-8" {
		t.Fatalf("named accept should win: %v", h)
	}
	if _, ok := h[""]; ok {
		t.Fatalf("empty header key kept: %v", h)
	}
}
