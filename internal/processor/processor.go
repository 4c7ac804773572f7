package processor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/gametrans/batchloc/pkg/log"
)

// Processor runs batches of homogeneous items with bounded concurrency,
// per-attempt timeouts and retry with linear backoff. A Processor runs
// one batch at a time; concurrent Process calls are rejected with
// ErrAlreadyRunning.
type Processor[T, R any] struct {
	opts Options

	mu        sync.Mutex
	state     State
	cancelled bool
	results   []ItemResult[R]
	completed int
	successes int
	failures  int
	total     int
}

// New builds a Processor. Zero-valued Options fields fall back to the
// package defaults.
func New[T, R any](opts Options) *Processor[T, R] {
	return &Processor[T, R]{
		opts:  opts.withDefaults(),
		state: StateIdle,
	}
}

// State reports the current lifecycle state.
func (p *Processor[T, R]) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Cancel requests cooperative cancellation of the running batch. Items
// already in flight run to completion; items not yet started settle as
// failed with a cancellation reason. Cancel is safe to call at any time
// and is a no-op when nothing is running.
func (p *Processor[T, R]) Cancel() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == StateRunning {
		p.cancelled = true
	}
}

// Process runs fn over every item and blocks until all items settle.
// Every item yields exactly one ItemResult, including items skipped by
// cancellation, so the returned Result always accounts for the whole
// input. The error return is reserved for run-level refusals such as
// ErrAlreadyRunning; item failures are reported inside the Result.
func (p *Processor[T, R]) Process(ctx context.Context, operationType string, items []Item[T], fn Func[T, R]) (*Result[R], error) {
	p.mu.Lock()
	if p.state == StateRunning {
		p.mu.Unlock()
		return nil, ErrAlreadyRunning
	}
	p.state = StateRunning
	p.cancelled = false
	p.results = make([]ItemResult[R], 0, len(items))
	p.completed = 0
	p.successes = 0
	p.failures = 0
	p.total = len(items)
	p.mu.Unlock()

	opID := uuid.NewString()
	start := time.Now()
	log.Info("batch %s (%s) started: %d items, concurrency %d", opID, operationType, len(items), p.opts.Concurrency)

	// Weighted semaphore hands permits to waiters in FIFO order, so
	// queued items start roughly in submission order.
	sem := semaphore.NewWeighted(int64(p.opts.Concurrency))
	var wg sync.WaitGroup
	for _, item := range items {
		wg.Add(1)
		go func(item Item[T]) {
			defer wg.Done()
			if err := sem.Acquire(ctx, 1); err != nil {
				var zero R
				p.record(item.ID, zero, false, fmt.Sprintf("cancelled: %v", err))
				return
			}
			defer sem.Release(1)
			if p.isCancelled() || ctx.Err() != nil {
				var zero R
				p.record(item.ID, zero, false, "cancelled before start")
				return
			}
			res, err := p.runWithRetry(ctx, item, fn)
			if err != nil {
				var zero R
				p.record(item.ID, zero, false, err.Error())
				return
			}
			p.record(item.ID, res, true, "")
		}(item)
	}
	wg.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()
	switch {
	case p.cancelled:
		p.state = StateCancelled
	case p.total > 0 && p.failures == p.total:
		p.state = StateError
	default:
		p.state = StateCompleted
	}
	result := &Result[R]{
		OperationID:   opID,
		OperationType: operationType,
		TotalItems:    p.total,
		SuccessCount:  p.successes,
		FailureCount:  p.failures,
		Results:       append([]ItemResult[R](nil), p.results...),
		Duration:      time.Since(start),
		CompletedAt:   time.Now(),
	}
	log.Info("batch %s finished: %d ok, %d failed in %v", opID, result.SuccessCount, result.FailureCount, result.Duration)
	return result, nil
}

func (p *Processor[T, R]) isCancelled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancelled
}

// runWithRetry attempts an item up to RetryAttempts+1 times, sleeping
// RetryDelay*attempt between tries. Cancellation short-circuits both
// the backoff sleep and further attempts.
func (p *Processor[T, R]) runWithRetry(ctx context.Context, item Item[T], fn Func[T, R]) (R, error) {
	var zero R
	var lastErr error
	attempts := p.opts.RetryAttempts + 1
	for attempt := 1; attempt <= attempts; attempt++ {
		res, err := p.runOnce(ctx, item, fn)
		if err == nil {
			return res, nil
		}
		lastErr = err
		if attempt == attempts || p.isCancelled() {
			break
		}
		log.Warn("item %s attempt %d/%d failed: %v", item.ID, attempt, attempts, err)
		select {
		case <-time.After(p.opts.RetryDelay * time.Duration(attempt)):
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}
	return zero, lastErr
}

// runOnce applies the per-attempt timeout. A timed-out fn keeps running
// on its goroutine until it observes the context; its eventual return
// value is discarded.
func (p *Processor[T, R]) runOnce(ctx context.Context, item Item[T], fn Func[T, R]) (R, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, p.opts.Timeout)
	defer cancel()

	type outcome struct {
		res R
		err error
	}
	ch := make(chan outcome, 1)
	go func() {
		res, err := fn(attemptCtx, item)
		ch <- outcome{res: res, err: err}
	}()

	select {
	case o := <-ch:
		return o.res, o.err
	case <-attemptCtx.Done():
		var zero R
		return zero, fmt.Errorf("item %s timed out after %v: %w", item.ID, p.opts.Timeout, attemptCtx.Err())
	}
}

// record settles one item. The progress callback runs under the lock so
// observed percentages are strictly ordered.
func (p *Processor[T, R]) record(id string, res R, success bool, errMsg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.results = append(p.results, ItemResult[R]{
		ItemID:  id,
		Success: success,
		Result:  res,
		Error:   errMsg,
	})
	if success {
		p.successes++
	} else {
		p.failures++
	}
	p.completed++
	if p.opts.OnProgress != nil {
		percent := float64(p.completed) / float64(p.total) * 100
		p.opts.OnProgress(percent, fmt.Sprintf("%d/%d items processed", p.completed, p.total))
	}
}
