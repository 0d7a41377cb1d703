package resource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultHTTPTimeout bounds a single remote resource fetch.
const DefaultHTTPTimeout = 30 * time.Second

// HTTPLoader fetches resources over http and https.
type HTTPLoader struct {
	client *http.Client
}

// NewHTTPLoader creates a loader with the given request timeout.
func NewHTTPLoader(timeout time.Duration) *HTTPLoader {
	return &HTTPLoader{client: &http.Client{Timeout: timeout}}
}

// Load issues a GET for the URI and returns the body.
func (l *HTTPLoader) Load(ctx context.Context, uri *url.URL) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", uri, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", uri, resp.Status)
	}
	return io.ReadAll(resp.Body)
}
