// Package sources builds the discovery sources enabled by a configuration.
package sources

import (
	"log/slog"

	"github.com/cametumbling/discovery-pipeline/internal/config"
	"github.com/cametumbling/discovery-pipeline/internal/discovery"
	"github.com/cametumbling/discovery-pipeline/internal/platform/httpclient"
)

// Source names as they appear in logs and run summaries.
const (
	NameHardcoded = "hardcoded"
	NameCurated   = "curated"
	NameEnhanced  = "enhanced"
	NameSearch    = "google"
	NameFeeds     = "feeds"
)

// Deps carries collaborators shared by network-bound sources.
type Deps struct {
	// Fetcher is used by network-bound sources; nil builds a rate-limited
	// client from the configuration
	Fetcher discovery.Fetcher
	Logger  *slog.Logger
}

// Build returns the sources enabled in cfg, in a fixed order: hardcoded,
// curated, enhanced, search, feeds. Disabled sources are absent.
func Build(cfg config.Config, deps Deps) []discovery.Source {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	var sources []discovery.Source

	if cfg.IncludeHardcoded {
		sources = append(sources, Hardcoded())
	}
	if cfg.IncludeCurated {
		sources = append(sources, Curated(cfg.CuratedURLs))
	}

	if !cfg.UseEnhanced && !cfg.UseGoogle && !(cfg.UseFeeds && len(cfg.Feeds) > 0) {
		return sources
	}

	fetcher := deps.Fetcher
	if fetcher == nil {
		fetcher = NewFetcher(cfg)
	}

	if cfg.UseEnhanced {
		sources = append(sources, &Enhanced{
			Fetcher: fetcher,
			Logger:  deps.Logger.With("source", NameEnhanced),
		})
	}
	if cfg.UseGoogle {
		sources = append(sources, &Search{
			Fetcher: fetcher,
			BaseURL: cfg.SearchBaseURL,
			Logger:  deps.Logger.With("source", NameSearch),
		})
	}
	if cfg.UseFeeds && len(cfg.Feeds) > 0 {
		sources = append(sources, &Feeds{
			Fetcher: fetcher,
			URLs:    cfg.Feeds,
			Logger:  deps.Logger.With("source", NameFeeds),
		})
	}

	return sources
}

// NewFetcher builds the shared HTTP client used by network-bound sources.
// One client means rate_limit_per_sec holds across all of them.
func NewFetcher(cfg config.Config) *httpclient.Client {
	return httpclient.New(httpclient.Config{
		Timeout:       cfg.RequestTimeout(),
		UserAgent:     cfg.UserAgent,
		RateLimit:     cfg.RateLimitPerSec,
		RespectRobots: cfg.RespectRobots,
	})
}
