package httpclient

import (
	"context"
	"fmt"
	"strings"
)

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
// Implementations report non-2xx responses as errors.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
}

// StatusError is returned when the server answers with a non-success status.
type StatusError struct {
	URL        string
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	snippet := strings.TrimSpace(string(e.Body))
	if len(snippet) > 512 {
		snippet = snippet[:512] + "..."
	}
	if snippet == "" {
		return fmt.Sprintf("GET %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("GET %s: status %d body: %s", e.URL, e.StatusCode, snippet)
}
