package sources

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/url"
	"sync"

	"github.com/cametumbling/discovery-pipeline/internal/discovery"
)

// mockFetcher is a mock implementation of the Fetcher interface for testing.
type mockFetcher struct {
	responses map[string][]byte
	errors    map[string]error
	// fn is an optional callback for custom behavior
	fn func(u *url.URL) ([]byte, error)

	mu        sync.Mutex
	requested []string
}

func (m *mockFetcher) Fetch(ctx context.Context, rawURL string) (*discovery.FetchResult, error) {
	m.mu.Lock()
	m.requested = append(m.requested, rawURL)
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := m.errors[rawURL]; ok {
		return nil, err
	}
	if body, ok := m.responses[rawURL]; ok {
		return &discovery.FetchResult{Body: body, FinalURL: rawURL, StatusCode: 200}, nil
	}
	if m.fn != nil {
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, err
		}
		body, err := m.fn(u)
		if err != nil {
			return nil, err
		}
		return &discovery.FetchResult{Body: body, FinalURL: rawURL, StatusCode: 200}, nil
	}
	return nil, &discovery.HTTPError{StatusCode: 404, URL: rawURL}
}

var errUnreachable = errors.New("unreachable")

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func urlsOf(records []discovery.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.URL
	}
	return out
}
