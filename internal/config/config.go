package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/cametumbling/discovery-pipeline/internal/discovery"
)

var (
	// ErrNoOutputDir is returned when the configuration does not name an output directory.
	ErrNoOutputDir = errors.New("output_dir is required")
	// ErrInvalidRunID is returned when run_id is not a single path element.
	ErrInvalidRunID = errors.New("run_id must be a single file name")
)

const (
	DefaultRateLimitPerSec = 1.0
	DefaultTimeoutS        = 15.0
	DefaultSourceTimeoutS  = 120.0
	DefaultMaxConcurrency  = discovery.DefaultConcurrency
	DefaultMaxRetries      = 2
	DefaultSearchBaseURL   = "https://www.google.com/search"
	DefaultLogLevel        = "info"
)

// Config drives source composition, filtering and output of a discovery run.
// Toggles that are absent from a config file stay false.
type Config struct {
	OutputDir string `json:"output_dir"`

	IncludeHardcoded bool `json:"include_hardcoded"`
	IncludeCurated   bool `json:"include_curated"`
	UseEnhanced      bool `json:"use_enhanced"`
	UseGoogle        bool `json:"use_google"`
	UseFeeds         bool `json:"use_feeds"`

	// RateLimitPerSec caps outbound requests made by network-bound sources
	RateLimitPerSec float64 `json:"rate_limit_per_sec"`
	// MaxRetries is the number of extra attempts per source; nil means DefaultMaxRetries
	MaxRetries *int `json:"max_retries"`
	// TimeoutS is the per-request HTTP timeout in seconds
	TimeoutS float64 `json:"timeout_s"`
	// SourceTimeoutS bounds a whole source, retries included
	SourceTimeoutS float64 `json:"source_timeout_s"`
	MaxConcurrency int     `json:"max_concurrency"`

	CountryFilters  []string `json:"country_filters"`
	CategoryFilters []string `json:"category_filters"`
	// MinConfidence drops records below the threshold; nil disables the filter
	MinConfidence *int     `json:"min_confidence"`
	AllowDomains  []string `json:"allow_domains"`
	BlockDomains  []string `json:"block_domains"`

	MethodPriority map[string]int `json:"method_priority"`

	CuratedURLs   []string `json:"curated_urls"`
	Feeds         []string `json:"feeds"`
	SearchBaseURL string   `json:"search_base_url"`
	UserAgent     string   `json:"user_agent"`
	RespectRobots bool     `json:"respect_robots"`

	DocxReport bool   `json:"docx_report"`
	LogLevel   string `json:"log_level"`
	JSONLogs   bool   `json:"json_logs"`
	RunID      string `json:"run_id"`
}

// WithDefaults returns a copy of c with zero numeric settings replaced by defaults.
func (c Config) WithDefaults() Config {
	if c.RateLimitPerSec == 0 {
		c.RateLimitPerSec = DefaultRateLimitPerSec
	}
	if c.TimeoutS == 0 {
		c.TimeoutS = DefaultTimeoutS
	}
	if c.SourceTimeoutS == 0 {
		c.SourceTimeoutS = DefaultSourceTimeoutS
	}
	if c.MaxConcurrency == 0 {
		c.MaxConcurrency = DefaultMaxConcurrency
	}
	if c.MaxRetries == nil {
		retries := DefaultMaxRetries
		c.MaxRetries = &retries
	}
	if c.SearchBaseURL == "" {
		c.SearchBaseURL = DefaultSearchBaseURL
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if len(c.MethodPriority) == 0 {
		c.MethodPriority = discovery.DefaultMethodPriority()
	}
	return c
}

// Validate reports the first configuration problem found.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return ErrNoOutputDir
	}
	if c.RateLimitPerSec < 0 {
		return fmt.Errorf("rate_limit_per_sec must not be negative, got %v", c.RateLimitPerSec)
	}
	if c.MaxRetries != nil && *c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must not be negative, got %d", *c.MaxRetries)
	}
	if c.MaxConcurrency < 0 {
		return fmt.Errorf("max_concurrency must not be negative, got %d", c.MaxConcurrency)
	}
	if c.TimeoutS < 0 || c.SourceTimeoutS < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	if id := c.RunID; id != "" && (id == "." || id == ".." || filepath.Base(id) != id) {
		return fmt.Errorf("%w: %q", ErrInvalidRunID, id)
	}
	return nil
}

// Retries is the number of extra attempts per source.
func (c Config) Retries() int {
	if c.MaxRetries == nil {
		return DefaultMaxRetries
	}
	return *c.MaxRetries
}

// Priority returns the method priority table, falling back to the built-in one.
func (c Config) Priority() discovery.MethodPriority {
	if len(c.MethodPriority) == 0 {
		return discovery.DefaultMethodPriority()
	}
	return discovery.MethodPriority(c.MethodPriority)
}

// RequestTimeout is the per-request HTTP timeout.
func (c Config) RequestTimeout() time.Duration {
	return seconds(c.TimeoutS)
}

// SourceTimeout is the time budget of one source across all its attempts.
func (c Config) SourceTimeout() time.Duration {
	return seconds(c.SourceTimeoutS)
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
