package providers

import (
	"fmt"
	"strings"
	"sync"

	"github.com/samvad-hq/samvad-character-harvester/pkg/characters"
	"github.com/samvad-hq/samvad-character-harvester/pkg/httpclient"
)

// fetcherRegistry implements FetcherRegistry.
type fetcherRegistry struct {
	fetchersByID   map[string]Fetcher
	fetchersByType map[string]Fetcher
	mu             sync.RWMutex
}

// NewFetcherRegistry builds a registry for the provided fetcher implementations keyed by provider id.
func NewFetcherRegistry(fetchers ...Fetcher) FetcherRegistry {
	return NewTypeFetcherRegistry(nil, fetchers...)
}

// NewTypeFetcherRegistry builds a registry with optional type-based fetchers and provider-specific fetchers.
func NewTypeFetcherRegistry(typeFetchers map[string]Fetcher, fetchers ...Fetcher) FetcherRegistry {
	reg := &fetcherRegistry{
		fetchersByID:   make(map[string]Fetcher),
		fetchersByType: make(map[string]Fetcher),
	}

	for _, f := range fetchers {
		if f == nil {
			continue
		}
		reg.register(reg.fetchersByID, f.ID(), f)
	}
	for typ, f := range typeFetchers {
		reg.register(reg.fetchersByType, typ, f)
	}

	return reg
}

func (r *fetcherRegistry) register(into map[string]Fetcher, key string, f Fetcher) {
	if f == nil {
		return
	}
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return
	}

	r.mu.Lock()
	into[key] = f
	r.mu.Unlock()
}

// FetcherFor selects the fetcher for the given provider based on its id or type.
func (r *fetcherRegistry) FetcherFor(cfg Provider) (Fetcher, error) {
	if r == nil {
		return nil, fmt.Errorf("fetcher registry is nil")
	}
	if strings.TrimSpace(cfg.ID) == "" {
		return nil, fmt.Errorf("provider id is empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	idKey := strings.ToLower(strings.TrimSpace(cfg.ID))
	if f, ok := r.fetchersByID[idKey]; ok {
		return f, nil
	}

	typeKey := strings.ToLower(strings.TrimSpace(cfg.Type))
	if typeKey != "" {
		if f, ok := r.fetchersByType[typeKey]; ok {
			return f, nil
		}
	}

	return nil, fmt.Errorf("no fetcher registered for provider %q (type %q)", cfg.ID, cfg.Type)
}

// DefaultHTTPClient returns the resty-backed client used when callers pass none.
func DefaultHTTPClient() HTTPClient { return httpclient.NewRestyClient(0) }

// DefaultFetcherRegistry wires up the character list and detail fetchers.
// baseURL is used for providers that do not set base_url.
func DefaultFetcherRegistry(client HTTPClient, baseURL string) FetcherRegistry {
	if client == nil {
		client = DefaultHTTPClient()
	}

	typeFetchers := map[string]Fetcher{
		TypeCharacterList:   NewCharacterListFetcher(client, baseURL),
		TypeCharacterDetail: NewCharacterDetailFetcher(client, baseURL),
	}

	return NewTypeFetcherRegistry(typeFetchers)
}

// apiFor builds a character API for a provider, preferring its base_url override.
func apiFor(client HTTPClient, defaultBase string, cfg Provider) *characters.API {
	base := cfg.BaseURL
	if base == "" {
		base = defaultBase
	}
	return characters.New(client, characters.WithBaseURL(base), characters.WithHeaders(Headers(cfg)))
}
