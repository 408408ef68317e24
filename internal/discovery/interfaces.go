package discovery

import (
	"context"
	"fmt"
)

// Source is a single independent discovery method.
// Discover returns the records it found; an error or a timeout makes the
// source contribute zero records without affecting the other sources.
type Source interface {
	// Name identifies the source in logs and run summaries
	Name() string
	// Discover produces candidate records. Implementations should honor ctx.
	Discover(ctx context.Context) ([]Record, error)
}

// SourceFunc adapts a plain function into a Source.
type SourceFunc struct {
	SourceName string
	Fn         func(ctx context.Context) ([]Record, error)
}

func (s SourceFunc) Name() string { return s.SourceName }

func (s SourceFunc) Discover(ctx context.Context) ([]Record, error) {
	return s.Fn(ctx)
}

// NewSource wraps fn as a named Source.
func NewSource(name string, fn func(ctx context.Context) ([]Record, error)) Source {
	return SourceFunc{SourceName: name, Fn: fn}
}

// FetchResult contains the result of an HTTP fetch operation.
type FetchResult struct {
	// Body is the response body content
	Body []byte
	// FinalURL is the URL after following redirects
	FinalURL string
	// ContentType is the Content-Type header value
	ContentType string
	// StatusCode is the HTTP status of the final response
	StatusCode int
}

// Fetcher is the interface network-bound sources use to retrieve pages.
// This abstraction allows for testing with mock implementations.
type Fetcher interface {
	// Fetch retrieves the content from the given URL.
	// The context can be used for cancellation and timeouts.
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}

// HTTPError is returned by fetchers for non-2xx responses.
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	switch {
	case e.StatusCode == 404:
		return fmt.Sprintf("not found (%d)", e.StatusCode)
	case e.StatusCode >= 500:
		return fmt.Sprintf("server error (%d)", e.StatusCode)
	case e.StatusCode >= 400:
		return fmt.Sprintf("client error (%d)", e.StatusCode)
	case e.StatusCode >= 300:
		return fmt.Sprintf("redirect not followed (%d)", e.StatusCode)
	default:
		return fmt.Sprintf("unexpected status (%d)", e.StatusCode)
	}
}

// Category buckets the failure for log output.
func (e *HTTPError) Category() string {
	switch e.StatusCode {
	case 404:
		return "dead link"
	case 408, 504:
		return "timeout"
	}
	if e.StatusCode >= 500 {
		return "server error (retry-able)"
	}
	return "http error"
}
