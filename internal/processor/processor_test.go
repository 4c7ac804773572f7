package processor

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func items(n int) []Item[int] {
	out := make([]Item[int], 0, n)
	for i := 0; i < n; i++ {
		out = append(out, Item[int]{ID: fmt.Sprintf("item-%d", i), Data: i})
	}
	return out
}

func TestProcess_AllSucceed(t *testing.T) {
	p := New[int, int](Options{Concurrency: 4, RetryDelay: time.Millisecond})
	res, err := p.Process(context.Background(), "double", items(10), func(_ context.Context, it Item[int]) (int, error) {
		return it.Data * 2, nil
	})
	require.NoError(t, err)

	assert.NotEmpty(t, res.OperationID)
	assert.Equal(t, "double", res.OperationType)
	assert.Equal(t, 10, res.TotalItems)
	assert.Equal(t, 10, res.SuccessCount)
	assert.Equal(t, 0, res.FailureCount)
	assert.Len(t, res.Results, 10)
	assert.Equal(t, StateCompleted, p.State())

	sort.Slice(res.Results, func(i, j int) bool { return res.Results[i].ItemID < res.Results[j].ItemID })
	assert.Equal(t, 0, res.Results[0].Result)
	assert.Equal(t, 2, res.Results[1].Result)
}

func TestProcess_PartialFailure(t *testing.T) {
	p := New[int, int](Options{Concurrency: 2, RetryAttempts: 1, RetryDelay: time.Millisecond})
	res, err := p.Process(context.Background(), "mixed", items(6), func(_ context.Context, it Item[int]) (int, error) {
		if it.Data%2 == 1 {
			return 0, errors.New("odd item rejected")
		}
		return it.Data, nil
	})
	require.NoError(t, err)

	assert.Equal(t, 6, res.TotalItems)
	assert.Equal(t, 3, res.SuccessCount)
	assert.Equal(t, 3, res.FailureCount)
	assert.Equal(t, res.TotalItems, res.SuccessCount+res.FailureCount)
	assert.Len(t, res.Results, res.TotalItems)
	assert.Equal(t, StateCompleted, p.State())

	for _, ir := range res.Results {
		if !ir.Success {
			assert.Contains(t, ir.Error, "odd item rejected")
		}
	}
}

func TestProcess_AllFailSettlesError(t *testing.T) {
	p := New[int, int](Options{Concurrency: 2, RetryAttempts: 1, RetryDelay: time.Millisecond})
	res, err := p.Process(context.Background(), "doomed", items(3), func(_ context.Context, _ Item[int]) (int, error) {
		return 0, errors.New("boom")
	})
	require.NoError(t, err)

	assert.Equal(t, 3, res.FailureCount)
	assert.Equal(t, StateError, p.State())
}

func TestProcess_EmptyBatch(t *testing.T) {
	p := New[int, int](Options{})
	res, err := p.Process(context.Background(), "noop", nil, func(_ context.Context, _ Item[int]) (int, error) {
		return 0, nil
	})
	require.NoError(t, err)

	assert.Equal(t, 0, res.TotalItems)
	assert.Empty(t, res.Results)
	assert.Equal(t, StateCompleted, p.State())
}

func TestProcess_ConcurrencyBound(t *testing.T) {
	const limit = 3
	var inFlight, peak int64
	p := New[int, int](Options{Concurrency: limit, RetryDelay: time.Millisecond})
	res, err := p.Process(context.Background(), "bounded", items(20), func(_ context.Context, it Item[int]) (int, error) {
		n := atomic.AddInt64(&inFlight, 1)
		for {
			old := atomic.LoadInt64(&peak)
			if n <= old || atomic.CompareAndSwapInt64(&peak, old, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt64(&inFlight, -1)
		return it.Data, nil
	})
	require.NoError(t, err)

	assert.Equal(t, 20, res.SuccessCount)
	assert.LessOrEqual(t, atomic.LoadInt64(&peak), int64(limit))
}

func TestProcess_RetriesThenSucceeds(t *testing.T) {
	var calls int64
	p := New[int, string](Options{Concurrency: 1, RetryAttempts: 2, RetryDelay: time.Millisecond})
	res, err := p.Process(context.Background(), "flaky", items(1), func(_ context.Context, _ Item[int]) (string, error) {
		if atomic.AddInt64(&calls, 1) < 3 {
			return "", errors.New("transient")
		}
		return "ok", nil
	})
	require.NoError(t, err)

	assert.Equal(t, int64(3), atomic.LoadInt64(&calls))
	assert.Equal(t, 1, res.SuccessCount)
	assert.Equal(t, "ok", res.Results[0].Result)
}

func TestProcess_RetriesExhausted(t *testing.T) {
	var calls int64
	p := New[int, string](Options{Concurrency: 1, RetryAttempts: 2, RetryDelay: time.Millisecond})
	res, err := p.Process(context.Background(), "flaky", items(1), func(_ context.Context, _ Item[int]) (string, error) {
		atomic.AddInt64(&calls, 1)
		return "", errors.New("still broken")
	})
	require.NoError(t, err)

	assert.Equal(t, int64(3), atomic.LoadInt64(&calls), "initial attempt plus two retries")
	assert.Equal(t, 1, res.FailureCount)
	assert.Contains(t, res.Results[0].Error, "still broken")
}

func TestProcess_AttemptTimeout(t *testing.T) {
	p := New[int, int](Options{Concurrency: 1, RetryAttempts: 1, RetryDelay: time.Millisecond, Timeout: 20 * time.Millisecond})
	res, err := p.Process(context.Background(), "slow", items(1), func(ctx context.Context, _ Item[int]) (int, error) {
		select {
		case <-time.After(time.Second):
			return 0, nil
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	})
	require.NoError(t, err)

	assert.Equal(t, 1, res.FailureCount)
	assert.Contains(t, res.Results[0].Error, "timed out")
}

func TestProcess_CancelSkipsPendingItems(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once

	p := New[int, int](Options{Concurrency: 1, RetryAttempts: 1, RetryDelay: time.Millisecond})
	done := make(chan *Result[int], 1)
	go func() {
		res, err := p.Process(context.Background(), "cancellable", items(5), func(_ context.Context, it Item[int]) (int, error) {
			once.Do(func() { close(started) })
			<-release
			return it.Data, nil
		})
		require.NoError(t, err)
		done <- res
	}()

	<-started
	p.Cancel()
	close(release)
	res := <-done

	assert.Equal(t, StateCancelled, p.State())
	assert.Equal(t, 5, res.TotalItems)
	assert.Len(t, res.Results, 5, "skipped items still settle")
	assert.Equal(t, res.TotalItems, res.SuccessCount+res.FailureCount)
	assert.GreaterOrEqual(t, res.FailureCount, 4)

	var cancelled int
	for _, ir := range res.Results {
		if strings.Contains(ir.Error, "cancelled") {
			cancelled++
		}
	}
	assert.GreaterOrEqual(t, cancelled, 4)
}

func TestProcess_RejectsConcurrentRun(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once

	p := New[int, int](Options{Concurrency: 1})
	go func() {
		_, _ = p.Process(context.Background(), "first", items(1), func(_ context.Context, it Item[int]) (int, error) {
			once.Do(func() { close(started) })
			<-release
			return it.Data, nil
		})
	}()

	<-started
	assert.Equal(t, StateRunning, p.State())
	_, err := p.Process(context.Background(), "second", items(1), func(_ context.Context, it Item[int]) (int, error) {
		return it.Data, nil
	})
	assert.ErrorIs(t, err, ErrAlreadyRunning)
	close(release)
}

func TestProcess_ProgressMonotonic(t *testing.T) {
	var mu sync.Mutex
	var percents []float64
	p := New[int, int](Options{
		Concurrency: 4,
		RetryDelay:  time.Millisecond,
		OnProgress: func(percent float64, status string) {
			mu.Lock()
			percents = append(percents, percent)
			mu.Unlock()
			assert.Contains(t, status, "items processed")
		},
	})
	_, err := p.Process(context.Background(), "progress", items(8), func(_ context.Context, it Item[int]) (int, error) {
		return it.Data, nil
	})
	require.NoError(t, err)

	require.Len(t, percents, 8)
	for i := 1; i < len(percents); i++ {
		assert.GreaterOrEqual(t, percents[i], percents[i-1])
	}
	assert.InDelta(t, 100.0, percents[len(percents)-1], 0.001)
}

func TestOptions_Defaults(t *testing.T) {
	opts := Options{}.withDefaults()
	assert.Equal(t, DefaultConcurrency, opts.Concurrency)
	assert.Equal(t, DefaultRetryAttempts, opts.RetryAttempts)
	assert.Equal(t, DefaultRetryDelay, opts.RetryDelay)
	assert.Equal(t, DefaultTimeout, opts.Timeout)

	custom := Options{Concurrency: 8, RetryAttempts: 5, RetryDelay: 2 * time.Second, Timeout: time.Minute}.withDefaults()
	assert.Equal(t, 8, custom.Concurrency)
	assert.Equal(t, 5, custom.RetryAttempts)
}
