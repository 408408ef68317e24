// Package pipeline runs the discovery sources and turns their combined
// output into one validated, de-duplicated and ranked report.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cametumbling/discovery-pipeline/internal/config"
	"github.com/cametumbling/discovery-pipeline/internal/discovery"
	"github.com/cametumbling/discovery-pipeline/internal/report"
	"github.com/cametumbling/discovery-pipeline/internal/sources"
)

// Files are the artifacts written by a run.
type Files struct {
	CSV      string `json:"csv"`
	JSON     string `json:"json"`
	Report   string `json:"report"`
	Manifest string `json:"manifest"`
	Docx     string `json:"docx,omitempty"`
}

// Summary describes a completed run.
type Summary struct {
	RunID     string `json:"run_id"`
	TotalURLs int    `json:"total_urls"`
	// Duplicates is the number of records collapsed by de-duplication
	Duplicates int `json:"duplicates"`
	// Invalid is the number of records dropped by URL validation
	Invalid int `json:"invalid"`
	// Filtered is the number of valid records dropped by configured filters
	Filtered int `json:"filtered"`
	// PerSource is the number of records each source yielded
	PerSource map[string]int `json:"per_source"`
	// SourceErrors holds the final error of each failed source
	SourceErrors map[string]string `json:"source_errors,omitempty"`
	Analysis     discovery.Analysis `json:"analysis"`
	Files        Files              `json:"files"`
}

// Options customize collaborators of a Pipeline. The zero value is ready to use.
type Options struct {
	// Sources builds the sources for a run (default: sources.Build)
	Sources func(config.Config) []discovery.Source
	// Fetcher is handed to the default source builder
	Fetcher discovery.Fetcher
	// Logger defaults to slog.Default()
	Logger *slog.Logger
	// RetryDelay is the base delay between source retries (default: 1s)
	RetryDelay time.Duration
	// Now defaults to time.Now
	Now func() time.Time
}

// Pipeline runs discovery for one configuration.
type Pipeline struct {
	cfg    config.Config
	opts   Options
	logger *slog.Logger
}

// New validates cfg and returns a Pipeline ready to Run.
func New(cfg config.Config, opts Options) (*Pipeline, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Sources == nil {
		deps := sources.Deps{Fetcher: opts.Fetcher, Logger: opts.Logger}
		opts.Sources = func(c config.Config) []discovery.Source {
			return sources.Build(c, deps)
		}
	}

	return &Pipeline{cfg: cfg, opts: opts, logger: opts.Logger}, nil
}

// Run executes a pipeline for cfg with default collaborators.
func Run(ctx context.Context, cfg config.Config) (*Summary, error) {
	p, err := New(cfg, Options{})
	if err != nil {
		return nil, err
	}
	return p.Run(ctx)
}

// Run invokes every source, then validates, filters, de-duplicates and ranks
// the combined records and writes the run artifacts.
// Source failures only reduce the result; output errors are returned.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	start := p.opts.Now()
	runID := p.cfg.RunID
	if runID == "" {
		runID = NewRunID(start)
	}
	paths := report.NewPaths(p.cfg.OutputDir, runID, p.cfg.DocxReport)

	// Fail before any network work if the artifacts cannot be written.
	if err := checkWritable(paths.Dir); err != nil {
		return nil, err
	}

	srcs := p.opts.Sources(p.cfg)
	p.logger.Info("starting discovery", "run_id", runID, "sources", len(srcs))

	results := discovery.RunSources(ctx, srcs, discovery.RunnerConfig{
		Concurrency: p.cfg.MaxConcurrency,
		Timeout:     p.cfg.SourceTimeout(),
		MaxRetries:  p.cfg.Retries(),
		RetryDelay:  p.opts.RetryDelay,
		Logger:      p.logger,
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	summary := &Summary{
		RunID:        runID,
		PerSource:    make(map[string]int, len(results)),
		SourceErrors: make(map[string]string),
	}

	var all []discovery.Record
	for _, res := range results {
		summary.PerSource[res.Name] = len(res.Records)
		if res.Err != nil {
			summary.SourceErrors[res.Name] = res.Err.Error()
			p.logger.Warn("source failed",
				"source", res.Name,
				"attempts", res.Attempts,
				"duration", res.Duration,
				"error", res.Err,
			)
			continue
		}
		p.logger.Info("source finished",
			"source", res.Name,
			"records", len(res.Records),
			"duration", res.Duration,
		)
		all = append(all, res.Records...)
	}

	var kept []discovery.Record
	for _, rec := range all {
		if !discovery.IsValidHTTPURL(rec.NormalizedURL()) {
			summary.Invalid++
			continue
		}
		if !p.accept(rec) {
			summary.Filtered++
			continue
		}
		kept = append(kept, rec)
	}

	priority := p.cfg.Priority()
	unique, duplicates := discovery.Deduplicate(kept, priority)
	ranked := discovery.Rank(unique, priority)

	summary.Duplicates = duplicates
	summary.TotalURLs = len(ranked)
	summary.Analysis = discovery.Analyze(ranked, duplicates, summary.Invalid)

	run := report.Run{ID: runID, Timestamp: start, Records: ranked, Analysis: summary.Analysis}
	if err := report.WriteAll(paths, run); err != nil {
		return nil, err
	}
	summary.Files = Files{
		CSV:      paths.CSV,
		JSON:     paths.JSON,
		Report:   paths.Report,
		Manifest: paths.Manifest,
		Docx:     paths.Docx,
	}

	p.logger.Info("discovery complete",
		"run_id", runID,
		"total_urls", summary.TotalURLs,
		"duplicates", duplicates,
		"invalid", summary.Invalid,
		"filtered", summary.Filtered,
		"elapsed", p.opts.Now().Sub(start),
	)
	return summary, nil
}

// accept applies the configured domain, confidence, category and country filters.
func (p *Pipeline) accept(rec discovery.Record) bool {
	norm := rec.NormalizedURL()
	if len(p.cfg.AllowDomains) > 0 && !containsAny(norm, p.cfg.AllowDomains) {
		return false
	}
	if containsAny(norm, p.cfg.BlockDomains) {
		return false
	}
	if p.cfg.MinConfidence != nil && rec.Confidence < *p.cfg.MinConfidence {
		return false
	}
	if len(p.cfg.CategoryFilters) > 0 && !slices.Contains(p.cfg.CategoryFilters, rec.Category) {
		return false
	}
	if len(p.cfg.CountryFilters) > 0 && !slices.Contains(p.cfg.CountryFilters, rec.Country) {
		return false
	}
	return true
}

func containsAny(s string, fragments []string) bool {
	for _, f := range fragments {
		if f != "" && strings.Contains(s, f) {
			return true
		}
	}
	return false
}

// NewRunID returns a sortable, collision-resistant run identifier.
func NewRunID(t time.Time) string {
	return t.Format(report.TimestampFormat) + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// checkWritable creates dir and proves a file can be written in it.
func checkWritable(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("output directory not writable: %w", err)
	}
	f, err := os.CreateTemp(dir, ".write-check-*")
	if err != nil {
		return fmt.Errorf("output directory not writable: %w", err)
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}
