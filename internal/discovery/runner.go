package discovery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

var (
	// ErrSourceTimeout is reported when a source exceeds its time budget.
	ErrSourceTimeout = errors.New("source timed out")
	// ErrSourcePanic wraps the value recovered from a panicking source.
	ErrSourcePanic = errors.New("source panicked")
)

const (
	DefaultConcurrency   = 4
	DefaultSourceTimeout = 2 * time.Minute
	DefaultRetryDelay    = time.Second
)

// RunnerConfig bounds how sources are invoked.
type RunnerConfig struct {
	// Concurrency is the number of sources running at once (default: 4)
	Concurrency int
	// Timeout is the budget for one source across all its attempts (default: 2m)
	Timeout time.Duration
	// MaxRetries is the number of extra attempts after a failed one
	MaxRetries int
	// RetryDelay is multiplied by the attempt number between retries (default: 1s)
	RetryDelay time.Duration
	// Logger receives per-attempt failures (default: slog.Default())
	Logger *slog.Logger
}

// SourceResult is the outcome of running one Source.
// Records is empty whenever Err is set.
type SourceResult struct {
	Name     string
	Records  []Record
	Err      error
	Attempts int
	Duration time.Duration
}

type workItem struct {
	index  int
	source Source
}

type indexedResult struct {
	index  int
	result SourceResult
}

// RunSources invokes every source on a bounded worker pool and returns one
// SourceResult per source, in the same order as sources. Completion order
// never affects the returned order. Failures, panics and timeouts are isolated
// to the source that caused them.
func RunSources(ctx context.Context, sources []Source, cfg RunnerConfig) []SourceResult {
	cfg = cfg.withDefaults()
	results := make([]SourceResult, len(sources))
	if len(sources) == 0 {
		return results
	}

	workers := cfg.Concurrency
	if workers > len(sources) {
		workers = len(sources)
	}

	workCh := make(chan workItem, len(sources))
	resultsCh := make(chan indexedResult)

	var workerWg sync.WaitGroup
	for i := 0; i < workers; i++ {
		workerWg.Add(1)
		go func() {
			defer workerWg.Done()
			worker(ctx, workCh, resultsCh, cfg)
		}()
	}

	// Close resultsCh once every worker has drained workCh
	go func() {
		workerWg.Wait()
		close(resultsCh)
	}()

	for i, src := range sources {
		workCh <- workItem{index: i, source: src}
	}
	close(workCh)

	for r := range resultsCh {
		results[r.index] = r.result
	}
	return results
}

// worker processes items until workCh is closed.
// Exactly one result is sent per item, even when the context is already cancelled.
func worker(ctx context.Context, workCh <-chan workItem, resultsCh chan<- indexedResult, cfg RunnerConfig) {
	for item := range workCh {
		resultsCh <- indexedResult{
			index:  item.index,
			result: runSource(ctx, item.source, cfg),
		}
	}
}

// runSource runs a single source with retries under its own time budget.
func runSource(ctx context.Context, src Source, cfg RunnerConfig) SourceResult {
	start := time.Now()
	res := SourceResult{Name: src.Name()}

	srcCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	for attempt := 1; ; attempt++ {
		res.Attempts = attempt

		records, err := invoke(srcCtx, ctx, src)
		if err == nil {
			res.Records = records
			res.Duration = time.Since(start)
			return res
		}

		cfg.Logger.Warn("source attempt failed",
			"source", res.Name,
			"attempt", attempt,
			"error", err,
		)

		if attempt > cfg.MaxRetries || srcCtx.Err() != nil || errors.Is(err, ErrSourceTimeout) {
			res.Err = err
			res.Duration = time.Since(start)
			return res
		}

		select {
		case <-time.After(time.Duration(attempt) * cfg.RetryDelay):
		case <-srcCtx.Done():
			res.Err = timeoutOrCancel(srcCtx, ctx)
			res.Duration = time.Since(start)
			return res
		}
	}
}

type outcome struct {
	records []Record
	err     error
}

// invoke calls Discover in its own goroutine so a source that ignores its
// context still cannot hold the caller past the deadline.
func invoke(srcCtx, parent context.Context, src Source) ([]Record, error) {
	if err := srcCtx.Err(); err != nil {
		return nil, timeoutOrCancel(srcCtx, parent)
	}

	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("%w: %v", ErrSourcePanic, r)}
			}
		}()
		records, err := src.Discover(srcCtx)
		done <- outcome{records: records, err: err}
	}()

	select {
	case o := <-done:
		if o.err != nil {
			if srcCtx.Err() != nil {
				return nil, timeoutOrCancel(srcCtx, parent)
			}
			return nil, o.err
		}
		return o.records, nil
	case <-srcCtx.Done():
		return nil, timeoutOrCancel(srcCtx, parent)
	}
}

func timeoutOrCancel(srcCtx, parent context.Context) error {
	if parent.Err() != nil {
		return parent.Err()
	}
	if errors.Is(srcCtx.Err(), context.DeadlineExceeded) {
		return ErrSourceTimeout
	}
	return srcCtx.Err()
}

func (c RunnerConfig) withDefaults() RunnerConfig {
	if c.Concurrency <= 0 {
		c.Concurrency = DefaultConcurrency
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultSourceTimeout
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = DefaultRetryDelay
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}
