package providers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/samvad-hq/samvad-character-harvester/pkg/httpclient"
)

type stubResponse struct {
	body []byte
}

func (s stubResponse) Body() []byte    { return s.body }
func (s stubResponse) StatusCode() int { return http.StatusOK }

// routeClient answers by URL suffix and records every request.
type routeClient struct {
	mu      sync.Mutex
	routes  map[string]string
	fail    map[string]error
	urls    []string
	headers []map[string]string
}

func (c *routeClient) Get(_ context.Context, url string, headers map[string]string) (httpclient.Response, error) {
	c.mu.Lock()
	c.urls = append(c.urls, url)
	c.headers = append(c.headers, headers)
	c.mu.Unlock()

	for suffix, err := range c.fail {
		if strings.HasSuffix(url, suffix) {
			return nil, err
		}
	}
	for suffix, body := range c.routes {
		if strings.HasSuffix(url, suffix) {
			return stubResponse{body: []byte(body)}, nil
		}
	}
	return nil, &httpclient.StatusError{URL: url, StatusCode: http.StatusNotFound}
}

func TestCharacterListFetcherReturnsResults(t *testing.T) {
	client := &routeClient{routes: map[string]string{
		"/character": `{"info":{"count":2,"pages":1,"next":null,"prev":null},"results":[{"id":1,"name":"Rick Sanchez"},{"id":2,"name":"Morty Smith"}]}`,
	}}
	f := NewCharacterListFetcher(client, "https://rickandmortyapi.com/api")

	got, err := f.Fetch(context.Background(), Provider{ID: "all", Type: TypeCharacterList})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(got) != 2 || got[1].Name != "Morty Smith" {
		t.Fatalf("unexpected characters %+v", got)
	}
	if client.urls[0] != "https://rickandmortyapi.com/api/character" {
		t.Fatalf("unexpected url %s", client.urls[0])
	}
	if client.headers[0]["Accept"] != "application/json" {
		t.Fatalf("missing default accept header: %v", client.headers[0])
	}
}

func TestCharacterListFetcherUsesProviderBaseURL(t *testing.T) {
	client := &routeClient{routes: map[string]string{"/character": `{"results":[{"id":1}]}`}}
	f := NewCharacterListFetcher(client, "https://rickandmortyapi.com/api")

	if _, err := f.Fetch(context.Background(), Provider{ID: "m", Type: TypeCharacterList, BaseURL: "https://mirror.example/api/"}); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if client.urls[0] != "https://mirror.example/api/character" {
		t.Fatalf("base_url override ignored: %s", client.urls[0])
	}
}

func TestCharacterListFetcherRejectsEmptyPage(t *testing.T) {
	client := &routeClient{routes: map[string]string{"/character": `{"results":[]}`}}
	f := NewCharacterListFetcher(client, "https://rickandmortyapi.com/api")
	if _, err := f.Fetch(context.Background(), Provider{ID: "all", Type: TypeCharacterList}); err == nil {
		t.Fatalf("expected error on empty result page")
	}
}

func TestCharacterDetailFetcherJoinsFailures(t *testing.T) {
	boom := errors.New("connection reset")
	client := &routeClient{
		routes: map[string]string{
			"/character/1": `{"id":1,"name":"Rick Sanchez"}`,
			"/character/3": `{"id":3,"name":"Summer Smith"}`,
		},
		fail: map[string]error{"/character/2": boom},
	}
	f := NewCharacterDetailFetcher(client, "https://rickandmortyapi.com/api")

	got, err := f.Fetch(context.Background(), Provider{
		ID:             "cast",
		Type:           TypeCharacterDetail,
		CharacterIDs:   []string{"1", "2", "3"},
		RequestDelayMs: intPtr(1),
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected joined error to wrap client error, got %v", err)
	}
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 3 {
		t.Fatalf("unexpected characters %+v", got)
	}
	if len(client.urls) != 3 {
		t.Fatalf("expected 3 requests, got %v", client.urls)
	}
}

func TestCharacterDetailFetcherStopsOnCancel(t *testing.T) {
	client := &routeClient{routes: map[string]string{"/character/1": `{"id":1}`}}
	f := NewCharacterDetailFetcher(client, "https://rickandmortyapi.com/api")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.Fetch(ctx, Provider{ID: "cast", Type: TypeCharacterDetail, CharacterIDs: []string{"1", "2"}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(client.urls) != 0 {
		t.Fatalf("expected no requests after cancel, got %v", client.urls)
	}
}

func TestDefaultFetcherRegistryResolvesByType(t *testing.T) {
	reg := DefaultFetcherRegistry(&routeClient{}, "https://rickandmortyapi.com/api")

	f, err := reg.FetcherFor(Provider{ID: "x", Type: "CHARACTER_LIST"})
	if err != nil {
		t.Fatalf("FetcherFor: %v", err)
	}
	if f.ID() != TypeCharacterList {
		t.Fatalf("unexpected fetcher %s", f.ID())
	}
	if _, err := reg.FetcherFor(Provider{ID: "x", Type: "episodes"}); err == nil {
		t.Fatalf("expected error for unknown type")
	}
	if _, err := reg.FetcherFor(Provider{Type: TypeCharacterList}); err == nil {
		t.Fatalf("expected error for empty id")
	}
}

func TestNewFetcherRegistryPrefersID(t *testing.T) {
	custom := NewCharacterDetailFetcher(&routeClient{}, "")
	reg := NewTypeFetcherRegistry(map[string]Fetcher{
		TypeCharacterList: NewCharacterListFetcher(&routeClient{}, ""),
	}, custom, nil)

	f, err := reg.FetcherFor(Provider{ID: TypeCharacterDetail, Type: TypeCharacterList})
	if err != nil {
		t.Fatalf("FetcherFor: %v", err)
	}
	if f != custom {
		t.Fatalf("expected id match to win over type")
	}
}

func intPtr(v int) *int { return &v }
