package sources

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cametumbling/discovery-pipeline/internal/discovery"
)

const resultsPage = `<html><body>
	<div class="g"><a href="https://www.kry-health.de/?utm=1&ved=abc"><h3>Kry</h3></a></div>
	<div class="g"><a href="https://www.youtube.com/watch?v=1">Video</a></div>
	<div class="g"><a href="https://example.org/">Org</a></div>
	<h3><a href="https://www.oviva.com/de/">Oviva</a></h3>
</body></html>`

func TestSearch_Discover(t *testing.T) {
	var queries []string
	f := &mockFetcher{
		fn: func(u *url.URL) ([]byte, error) {
			queries = append(queries, u.Query().Get("q"))
			return []byte(resultsPage), nil
		},
	}

	s := &Search{
		Fetcher: f,
		BaseURL: "https://search.test/search",
		Logger:  quietLogger(),
		Groups: []QueryGroup{
			{Queries: []string{"q1", "q2"}, Confidence: 7, Category: "German Health Tech", Country: "Germany"},
		},
	}

	records, err := s.Discover(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"q1", "q2"}, queries)

	// second query yields the same links, which are dropped
	require.Equal(t, []string{"https://www.kry-health.de/?utm=1", "https://www.oviva.com/de/"}, urlsOf(records))

	kry, oviva := records[0], records[1]
	require.Equal(t, "Google: q1", kry.Source)
	require.Equal(t, discovery.MethodGoogleSearch, kry.Method)
	require.Equal(t, "Germany", kry.Country)
	require.Equal(t, 8, kry.Confidence, "one health keyword in host")
	require.Equal(t, 7, oviva.Confidence)
}

func TestSearch_AllQueriesFail(t *testing.T) {
	s := &Search{
		Fetcher: &mockFetcher{},
		BaseURL: "https://search.test/search",
		Logger:  quietLogger(),
		Groups:  []QueryGroup{{Queries: []string{"q1"}, Confidence: 5}},
	}

	_, err := s.Discover(context.Background())
	require.Error(t, err)
}

func TestSearch_PartialFailure(t *testing.T) {
	f := &mockFetcher{
		fn: func(u *url.URL) ([]byte, error) {
			if u.Query().Get("q") == "bad" {
				return nil, errUnreachable
			}
			return []byte(resultsPage), nil
		},
	}
	s := &Search{
		Fetcher: f,
		BaseURL: "https://search.test/search",
		Logger:  quietLogger(),
		Groups:  []QueryGroup{{Queries: []string{"bad", "good"}, Confidence: 5}},
	}

	records, err := s.Discover(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
}

func TestBoostConfidence(t *testing.T) {
	tests := []struct {
		name string
		base int
		host string
		want int
	}{
		{"no keywords", 6, "www.oviva.com", 6},
		{"one keyword", 6, "www.nia-health.de", 7},
		{"substring keywords count", 6, "www.kaia-health.com", 8},
		{"several keywords", 7, "medical-data-platform.ai", 10},
		{"capped at ten", 9, "health-clinic-data.ai", 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := boostConfidence(tt.base, tt.host); got != tt.want {
				t.Errorf("boostConfidence(%d, %q) = %d, want %d", tt.base, tt.host, got, tt.want)
			}
		})
	}
}
