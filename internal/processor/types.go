package processor

import (
	"context"
	"errors"
	"time"
)

// State is the lifecycle of one batch run.
type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateError     State = "error"
	StateCancelled State = "cancelled"
)

// ErrAlreadyRunning rejects a Process call made while a run is in flight.
// There is no queueing; the caller gets the error synchronously, before
// any work starts.
var ErrAlreadyRunning = errors.New("batch processor is already running")

// Item is one unit of work with an opaque payload.
type Item[T any] struct {
	ID   string
	Data T
}

// ItemResult records how one item settled.
type ItemResult[R any] struct {
	ItemID  string
	Success bool
	Result  R
	Error   string
}

// Result is the full report of one batch run. Results appear in
// completion order, not submission order; callers needing the original
// order re-sort by ItemID. SuccessCount+FailureCount always equals
// TotalItems and len(Results) always equals TotalItems.
type Result[R any] struct {
	OperationID   string
	OperationType string
	TotalItems    int
	SuccessCount  int
	FailureCount  int
	Results       []ItemResult[R]
	Duration      time.Duration
	CompletedAt   time.Time
}

// Func processes a single item. The context carries the per-attempt
// timeout; implementations abandoned by a timeout are responsible for
// their own cleanup.
type Func[T, R any] func(ctx context.Context, item Item[T]) (R, error)

// ProgressFunc observes batch progress after every item settles. Percent
// is monotonically non-decreasing across a run. The callback runs on a
// worker goroutine and must return quickly.
type ProgressFunc func(percent float64, status string)

// Options tunes one processor instance.
type Options struct {
	Concurrency   int
	RetryAttempts int
	RetryDelay    time.Duration
	Timeout       time.Duration
	OnProgress    ProgressFunc
}

const (
	DefaultConcurrency   = 3
	DefaultRetryAttempts = 2
	DefaultRetryDelay    = time.Second
	DefaultTimeout       = 30 * time.Second
)

func (o Options) withDefaults() Options {
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
	if o.RetryAttempts <= 0 {
		o.RetryAttempts = DefaultRetryAttempts
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = DefaultRetryDelay
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return o
}
