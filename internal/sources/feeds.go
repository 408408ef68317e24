package sources

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/cametumbling/discovery-pipeline/internal/discovery"
	"github.com/cametumbling/discovery-pipeline/internal/platform/htmlparser"
)

// Feeds turns outbound links in health-tech news feeds into homepage candidates.
// Links back to the publisher and to social platforms are ignored.
type Feeds struct {
	Fetcher discovery.Fetcher
	URLs    []string
	Logger  *slog.Logger
}

func (f *Feeds) Name() string { return NameFeeds }

// Discover parses every feed and returns one record per mentioned host per feed.
// It fails only when no feed could be read.
func (f *Feeds) Discover(ctx context.Context) ([]discovery.Record, error) {
	logger := f.Logger
	if logger == nil {
		logger = slog.Default()
	}

	parser := gofeed.NewParser()
	var (
		records   []discovery.Record
		succeeded int
		lastErr   error
	)

	for _, feedURL := range f.URLs {
		found, err := f.readFeed(ctx, parser, feedURL)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Warn("feed unavailable", "feed", feedURL, "error", err)
			lastErr = err
			continue
		}
		succeeded++
		records = append(records, found...)
	}

	if succeeded == 0 && lastErr != nil {
		return nil, fmt.Errorf("no feed could be read: %w", lastErr)
	}
	return records, nil
}

func (f *Feeds) readFeed(ctx context.Context, parser *gofeed.Parser, feedURL string) ([]discovery.Record, error) {
	res, err := f.Fetcher.Fetch(ctx, feedURL)
	if err != nil {
		return nil, err
	}
	feed, err := parser.Parse(bytes.NewReader(res.Body))
	if err != nil {
		return nil, fmt.Errorf("parsing feed: %w", err)
	}

	source := strings.TrimSpace(feed.Title)
	if source == "" {
		source = feedURL
	}

	publishers := []string{bareHost(discovery.Hostname(feedURL)), bareHost(discovery.Hostname(feed.Link))}
	seen := make(map[string]struct{})
	var records []discovery.Record

	for _, item := range feed.Items {
		base, err := url.Parse(item.Link)
		if err != nil || item.Link == "" {
			base, _ = url.Parse(feedURL)
		}
		itemHost := bareHost(base.Hostname())

		for _, body := range []string{item.Content, item.Description} {
			if body == "" {
				continue
			}
			links, err := htmlparser.ExtractLinks(strings.NewReader(body))
			if err != nil {
				continue
			}
			for _, href := range links {
				abs, ok := discovery.ResolveLink(href, base)
				if !ok {
					continue
				}
				u, err := url.Parse(abs)
				if err != nil {
					continue
				}
				host := strings.ToLower(u.Hostname())
				if host == "" || bareHost(host) == itemHost || slices.Contains(publishers, bareHost(host)) {
					continue
				}
				if discovery.HostMatchesAny(host, platformHosts) {
					continue
				}
				if _, dup := seen[host]; dup {
					continue
				}
				seen[host] = struct{}{}

				records = append(records, discovery.NewRecord(u.Scheme+"://"+u.Host, discovery.Provenance{
					Source:     source,
					Confidence: 5,
					Category:   "News Mention",
					Country:    "Various",
					Method:     discovery.MethodRSSFeed,
					Notes:      strings.TrimSpace(item.Title),
				}))
			}
		}
	}
	return records, nil
}

func bareHost(host string) string {
	return strings.TrimPrefix(host, "www.")
}
