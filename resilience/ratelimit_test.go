package resilience

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func newTestLimiter(t *testing.T, rate float64) *RateLimiter {
	t.Helper()
	rl, err := NewRateLimiter(RateLimiterConfig{Rate: rate, Name: "test"})
	if err != nil {
		t.Fatalf("NewRateLimiter() error = %v", err)
	}
	t.Cleanup(func() { _ = rl.Close() })
	return rl
}

func TestNewRateLimiter_InvalidRate(t *testing.T) {
	for _, r := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, err := NewRateLimiter(RateLimiterConfig{Rate: r}); !errors.Is(err, ErrInvalidRate) {
			t.Errorf("NewRateLimiter(%v) error = %v, want ErrInvalidRate", r, err)
		}
	}
}

func TestRateLimiter_Interval(t *testing.T) {
	rl := newTestLimiter(t, 10)
	if got := rl.Interval(); got != 100*time.Millisecond {
		t.Errorf("Interval() = %v, want 100ms", got)
	}
	if rl.Name() != "test" {
		t.Errorf("Name() = %q, want test", rl.Name())
	}
}

func TestRateLimiter_SpacingAndFIFO(t *testing.T) {
	const rate = 20 // 50ms interval
	rl := newTestLimiter(t, rate)

	var mu sync.Mutex
	var order []int
	var starts []time.Time

	const n = 6
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = rl.Schedule(context.Background(), func(ctx context.Context) error {
				mu.Lock()
				order = append(order, i)
				starts = append(starts, time.Now())
				mu.Unlock()
				return nil
			})
		}(i)
		// Stagger admission so the intended FIFO order is unambiguous.
		time.Sleep(5 * time.Millisecond)
	}
	wg.Wait()

	for i := range order {
		if order[i] != i {
			t.Fatalf("dispatch order = %v, want FIFO", order)
		}
	}

	minGap := rl.Interval() - 5*time.Millisecond // scheduler jitter allowance
	for i := 1; i < len(starts); i++ {
		if gap := starts[i].Sub(starts[i-1]); gap < minGap {
			t.Errorf("gap %d = %v, want >= %v", i, gap, rl.Interval())
		}
	}
}

func TestRateLimiter_OneTaskAtATime(t *testing.T) {
	rl := newTestLimiter(t, 1000)

	var running, maxRunning atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = rl.Schedule(context.Background(), func(ctx context.Context) error {
				n := running.Add(1)
				for {
					m := maxRunning.Load()
					if n <= m || maxRunning.CompareAndSwap(m, n) {
						break
					}
				}
				time.Sleep(2 * time.Millisecond)
				running.Add(-1)
				return nil
			})
		}()
	}
	wg.Wait()

	if maxRunning.Load() != 1 {
		t.Errorf("max concurrent tasks = %d, want 1", maxRunning.Load())
	}
}

func TestRateLimiter_ErrorsAreIndependent(t *testing.T) {
	rl := newTestLimiter(t, 1000)
	boom := errors.New("boom")

	if err := rl.Schedule(context.Background(), func(context.Context) error { return boom }); err != boom {
		t.Errorf("first error = %v, want boom", err)
	}
	if err := rl.Schedule(context.Background(), func(context.Context) error { return nil }); err != nil {
		t.Errorf("second error = %v, want nil", err)
	}

	stats := rl.Stats()
	if stats.Dispatched != 2 || stats.Failed != 1 || stats.Pending != 0 {
		t.Errorf("Stats() = %+v", stats)
	}
}

func TestRateLimiter_CancelledBeforeDispatch(t *testing.T) {
	rl := newTestLimiter(t, 1000)

	block := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = rl.Schedule(context.Background(), func(context.Context) error {
			close(started)
			<-block
			return nil
		})
	}()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	var ran atomic.Bool
	done := make(chan error, 1)
	go func() {
		done <- rl.Schedule(ctx, func(context.Context) error {
			ran.Store(true)
			return nil
		})
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}

	close(block)
	// A later task still runs, proving the abandoned one did not wedge the queue.
	if err := rl.Schedule(context.Background(), func(context.Context) error { return nil }); err != nil {
		t.Fatal(err)
	}
	if ran.Load() {
		t.Error("abandoned task must never run")
	}
}

func TestRateLimiter_Close(t *testing.T) {
	rl, err := NewRateLimiter(RateLimiterConfig{Rate: 1})
	if err != nil {
		t.Fatal(err)
	}

	// Consume the only burst token, then queue a task that must wait ~1s.
	_ = rl.Schedule(context.Background(), func(context.Context) error { return nil })

	block := make(chan struct{})
	go func() {
		_ = rl.Schedule(context.Background(), func(context.Context) error {
			<-block
			return nil
		})
	}()
	time.Sleep(10 * time.Millisecond)

	queued := make(chan error, 1)
	go func() {
		queued <- rl.Schedule(context.Background(), func(context.Context) error { return nil })
	}()
	time.Sleep(10 * time.Millisecond)

	closed := make(chan struct{})
	go func() {
		_ = rl.Close()
		close(closed)
	}()
	close(block)
	<-closed

	if err := <-queued; !errors.Is(err, ErrLimiterClosed) {
		t.Errorf("queued task error = %v, want ErrLimiterClosed", err)
	}
	if err := rl.Schedule(context.Background(), func(context.Context) error { return nil }); !errors.Is(err, ErrLimiterClosed) {
		t.Errorf("Schedule after Close error = %v, want ErrLimiterClosed", err)
	}
	if err := rl.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestDo_ReturnsValue(t *testing.T) {
	rl := newTestLimiter(t, 1000)

	got, err := Do(context.Background(), rl, func(context.Context) (string, error) {
		return "sim", nil
	})
	if err != nil || got != "sim" {
		t.Errorf("Do() = (%q, %v), want (sim, nil)", got, err)
	}
}
