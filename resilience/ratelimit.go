package resilience

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiterConfig configures the rate limiter.
type RateLimiterConfig struct {
	// Rate is the number of dispatches allowed per second. Required.
	Rate float64

	// Name identifies the API surface the limiter serializes.
	Name string
}

// RateLimiter is a FIFO task queue that dispatches one task at a time and
// never starts two tasks closer than 1/Rate seconds apart.
//
// Contract:
//   - Concurrency: safe for concurrent use; one dispatcher goroutine owns the
//     queue order and the last dispatch time.
//   - Ordering: tasks start in Schedule order.
//   - Errors: a task's error is returned to its own caller unchanged.
type RateLimiter struct {
	config  RateLimiterConfig
	limiter *rate.Limiter

	mu      sync.Mutex
	queue   []*task
	closed  bool
	wake    chan struct{}
	stopped chan struct{}

	dispatched atomic.Int64
	failed     atomic.Int64
}

// Task states.
const (
	taskQueued int32 = iota
	taskRunning
	taskAbandoned
)

type task struct {
	ctx    context.Context
	op     func(context.Context) error
	result chan error
	state  atomic.Int32
}

// NewRateLimiter creates a rate limiter and starts its dispatcher.
// Call Close to stop it.
func NewRateLimiter(config RateLimiterConfig) (*RateLimiter, error) {
	if !(config.Rate > 0) || math.IsInf(config.Rate, 0) {
		return nil, ErrInvalidRate
	}

	rl := &RateLimiter{
		config:  config,
		limiter: rate.NewLimiter(rate.Limit(config.Rate), 1),
		wake:    make(chan struct{}, 1),
		stopped: make(chan struct{}),
	}
	go rl.dispatch()
	return rl, nil
}

// Schedule queues op and blocks until it has run or ctx is done.
//
// If ctx ends before op is dispatched, op never runs and ctx.Err() is
// returned. Once dispatched, op receives ctx and Schedule waits for it to
// return, so op never outlives the call.
func (rl *RateLimiter) Schedule(ctx context.Context, op func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t := &task{ctx: ctx, op: op, result: make(chan error, 1)}

	rl.mu.Lock()
	if rl.closed {
		rl.mu.Unlock()
		return ErrLimiterClosed
	}
	rl.queue = append(rl.queue, t)
	rl.mu.Unlock()

	select {
	case rl.wake <- struct{}{}:
	default:
	}

	select {
	case err := <-t.result:
		return err
	case <-ctx.Done():
		if t.state.CompareAndSwap(taskQueued, taskAbandoned) {
			return ctx.Err()
		}
		return <-t.result
	}
}

// Execute is Schedule under the name shared by the other patterns.
func (rl *RateLimiter) Execute(ctx context.Context, op func(context.Context) error) error {
	return rl.Schedule(ctx, op)
}

// Close stops the dispatcher. Queued tasks fail with ErrLimiterClosed; a
// task already running is allowed to finish.
func (rl *RateLimiter) Close() error {
	rl.mu.Lock()
	if rl.closed {
		rl.mu.Unlock()
		return nil
	}
	rl.closed = true
	rl.mu.Unlock()

	select {
	case rl.wake <- struct{}{}:
	default:
	}
	<-rl.stopped
	return nil
}

func (rl *RateLimiter) dispatch() {
	defer close(rl.stopped)

	for {
		t, closed := rl.next()
		if closed {
			rl.drain()
			return
		}
		if t == nil {
			<-rl.wake
			continue
		}
		rl.run(t)
	}
}

// next pops the head of the queue.
func (rl *RateLimiter) next() (*task, bool) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if rl.closed {
		return nil, true
	}
	if len(rl.queue) == 0 {
		return nil, false
	}
	t := rl.queue[0]
	rl.queue[0] = nil
	rl.queue = rl.queue[1:]
	return t, false
}

func (rl *RateLimiter) run(t *task) {
	if t.state.Load() == taskAbandoned {
		return
	}
	if err := rl.limiter.Wait(t.ctx); err != nil {
		// Wait also fails early when the deadline is too close to wait out.
		if ctxErr := t.ctx.Err(); ctxErr != nil {
			err = ctxErr
		} else {
			err = context.DeadlineExceeded
		}
		t.result <- err
		return
	}
	if !t.state.CompareAndSwap(taskQueued, taskRunning) {
		return
	}

	rl.dispatched.Add(1)
	err := t.op(t.ctx)
	if err != nil {
		rl.failed.Add(1)
	}
	t.result <- err
}

func (rl *RateLimiter) drain() {
	rl.mu.Lock()
	pending := rl.queue
	rl.queue = nil
	rl.mu.Unlock()

	for _, t := range pending {
		t.result <- ErrLimiterClosed
	}
}

// Interval returns the minimum spacing between two dispatches.
func (rl *RateLimiter) Interval() time.Duration {
	return time.Duration(float64(time.Second) / rl.config.Rate)
}

// Name returns the configured surface name.
func (rl *RateLimiter) Name() string {
	return rl.config.Name
}

// LimiterStats is a snapshot of limiter activity.
type LimiterStats struct {
	Dispatched int64
	Failed     int64
	Pending    int
}

// Stats returns a snapshot of limiter activity.
func (rl *RateLimiter) Stats() LimiterStats {
	rl.mu.Lock()
	pending := len(rl.queue)
	rl.mu.Unlock()

	return LimiterStats{
		Dispatched: rl.dispatched.Load(),
		Failed:     rl.failed.Load(),
		Pending:    pending,
	}
}

// Do schedules fn on rl and returns its value.
func Do[T any](ctx context.Context, rl *RateLimiter, fn func(context.Context) (T, error)) (T, error) {
	var out T
	err := rl.Schedule(ctx, func(ctx context.Context) error {
		v, err := fn(ctx)
		out = v
		return err
	})
	return out, err
}
