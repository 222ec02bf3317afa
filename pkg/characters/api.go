package characters

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/samvad-hq/samvad-character-harvester/internal/domain"
	"github.com/samvad-hq/samvad-character-harvester/pkg/httpclient"
)

// DefaultBaseURL is the public character API root.
const DefaultBaseURL = "https://rickandmortyapi.com/api"

const characterResource = "/character"

// API issues requests against the character endpoints. It keeps no state
// between calls; every call is one GET.
type API struct {
	client  httpclient.Client
	baseURL string
	headers map[string]string
}

// Option customizes an API.
type Option func(*API)

// WithBaseURL points the API at a different root (mirrors, test servers).
func WithBaseURL(base string) Option {
	return func(a *API) {
		if base = strings.TrimRight(strings.TrimSpace(base), "/"); base != "" {
			a.baseURL = base
		}
	}
}

// WithHeaders sets request headers sent with every call.
func WithHeaders(headers map[string]string) Option {
	return func(a *API) {
		a.headers = headers
	}
}

// New builds an API on top of client. A nil client falls back to a resty
// client without a timeout.
func New(client httpclient.Client, opts ...Option) *API {
	if client == nil {
		client = httpclient.NewRestyClient(0)
	}
	a := &API{client: client, baseURL: DefaultBaseURL}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// BaseURL returns the API root in use.
func (a *API) BaseURL() string { return a.baseURL }

// DetailURL returns the endpoint for a single character. The id is inserted verbatim.
func (a *API) DetailURL(id string) string {
	return a.baseURL + characterResource + "/" + id
}

// ListURL returns the endpoint for the character collection.
func (a *API) ListURL() string {
	return a.baseURL + characterResource
}

// GetCharacterDetail fetches one character by id. Client errors are
// returned as-is.
func (a *API) GetCharacterDetail(ctx context.Context, id string) (domain.Character, error) {
	return getJSON[domain.Character](ctx, a, a.DetailURL(id), "character")
}

// GetCharacterList fetches the first page of the character collection.
// Client errors are returned as-is.
func (a *API) GetCharacterList(ctx context.Context) (domain.APIResponse, error) {
	return getJSON[domain.APIResponse](ctx, a, a.ListURL(), "character list")
}

func getJSON[T any](ctx context.Context, a *API, target, what string) (T, error) {
	var out T
	resp, err := a.client.Get(ctx, target, a.headers)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return out, fmt.Errorf("decode %s: %w", what, err)
	}
	return out, nil
}
