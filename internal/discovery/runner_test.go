package discovery

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedSource(name string, urls ...string) Source {
	return NewSource(name, func(ctx context.Context) ([]Record, error) {
		out := make([]Record, 0, len(urls))
		for _, u := range urls {
			out = append(out, makeRecord(u, 5, MethodHardcoded, name))
		}
		return out, nil
	})
}

func TestRunSources_PreservesSourceOrder(t *testing.T) {
	slow := NewSource("slow", func(ctx context.Context) ([]Record, error) {
		time.Sleep(30 * time.Millisecond)
		return []Record{makeRecord("https://slow.com", 5, MethodHardcoded, "slow")}, nil
	})
	sources := []Source{slow, fixedSource("fast1", "https://f1.com"), fixedSource("fast2", "https://f2.com")}

	results := RunSources(context.Background(), sources, RunnerConfig{Concurrency: 3, Logger: quietLogger()})

	require.Len(t, results, 3)
	require.Equal(t, "slow", results[0].Name)
	require.Equal(t, "fast1", results[1].Name)
	require.Equal(t, "fast2", results[2].Name)
	for _, r := range results {
		require.NoError(t, r.Err)
		require.Len(t, r.Records, 1)
		require.Equal(t, 1, r.Attempts)
	}
}

func TestRunSources_ErrorIsIsolated(t *testing.T) {
	boom := errors.New("boom")
	sources := []Source{
		fixedSource("good", "https://a.com", "https://b.com"),
		NewSource("bad", func(ctx context.Context) ([]Record, error) {
			return []Record{makeRecord("https://partial.com", 5, MethodHardcoded, "bad")}, boom
		}),
	}

	results := RunSources(context.Background(), sources, RunnerConfig{Logger: quietLogger()})

	require.NoError(t, results[0].Err)
	require.Len(t, results[0].Records, 2)
	require.ErrorIs(t, results[1].Err, boom)
	require.Empty(t, results[1].Records, "a failed source contributes nothing")
}

func TestRunSources_PanicIsRecovered(t *testing.T) {
	sources := []Source{
		NewSource("panicky", func(ctx context.Context) ([]Record, error) {
			panic("kaboom")
		}),
		fixedSource("good", "https://a.com"),
	}

	results := RunSources(context.Background(), sources, RunnerConfig{Logger: quietLogger()})

	require.ErrorIs(t, results[0].Err, ErrSourcePanic)
	require.Contains(t, results[0].Err.Error(), "kaboom")
	require.Len(t, results[1].Records, 1)
}

func TestRunSources_TimeoutOnUncooperativeSource(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	sources := []Source{
		NewSource("stuck", func(ctx context.Context) ([]Record, error) {
			<-release // ignores ctx
			return nil, nil
		}),
		fixedSource("good", "https://a.com"),
	}

	start := time.Now()
	results := RunSources(context.Background(), sources, RunnerConfig{
		Timeout: 50 * time.Millisecond,
		Logger:  quietLogger(),
	})

	require.Less(t, time.Since(start), 2*time.Second)
	require.ErrorIs(t, results[0].Err, ErrSourceTimeout)
	require.Empty(t, results[0].Records)
	require.Len(t, results[1].Records, 1)
}

func TestRunSources_RetriesUntilSuccess(t *testing.T) {
	var calls atomic.Int32
	flaky := NewSource("flaky", func(ctx context.Context) ([]Record, error) {
		if calls.Add(1) < 3 {
			return nil, errors.New("temporary")
		}
		return []Record{makeRecord("https://a.com", 5, MethodHardcoded, "flaky")}, nil
	})

	results := RunSources(context.Background(), []Source{flaky}, RunnerConfig{
		MaxRetries: 2,
		RetryDelay: time.Millisecond,
		Logger:     quietLogger(),
	})

	require.NoError(t, results[0].Err)
	require.Equal(t, 3, results[0].Attempts)
	require.Len(t, results[0].Records, 1)
}

func TestRunSources_RetriesExhausted(t *testing.T) {
	var calls atomic.Int32
	failing := NewSource("failing", func(ctx context.Context) ([]Record, error) {
		calls.Add(1)
		return nil, errors.New("always")
	})

	results := RunSources(context.Background(), []Source{failing}, RunnerConfig{
		MaxRetries: 1,
		RetryDelay: time.Millisecond,
		Logger:     quietLogger(),
	})

	require.Error(t, results[0].Err)
	require.Equal(t, 2, results[0].Attempts)
	require.EqualValues(t, 2, calls.Load())
}

func TestRunSources_ParentCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := RunSources(ctx, []Source{fixedSource("a", "https://a.com")}, RunnerConfig{Logger: quietLogger()})

	require.ErrorIs(t, results[0].Err, context.Canceled)
	require.Empty(t, results[0].Records)
}

func TestRunSources_RespectsConcurrencyLimit(t *testing.T) {
	var mu sync.Mutex
	running, peak := 0, 0

	mk := func(name string) Source {
		return NewSource(name, func(ctx context.Context) ([]Record, error) {
			mu.Lock()
			running++
			peak = max(peak, running)
			mu.Unlock()

			time.Sleep(10 * time.Millisecond)

			mu.Lock()
			running--
			mu.Unlock()
			return nil, nil
		})
	}

	sources := []Source{mk("a"), mk("b"), mk("c"), mk("d"), mk("e")}
	RunSources(context.Background(), sources, RunnerConfig{Concurrency: 2, Logger: quietLogger()})

	require.LessOrEqual(t, peak, 2)
}

func TestRunSources_Empty(t *testing.T) {
	require.Empty(t, RunSources(context.Background(), nil, RunnerConfig{}))
}
