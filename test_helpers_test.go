package workerpool_test

import (
	"context"
	"runtime"
	"sync"
	"testing"
	"time"

	wp "github.com/azargarov/fixedpool"
)

var fastRetry = wp.RetryPolicy{Attempts: 3, Initial: 2 * time.Millisecond, Max: 5 * time.Millisecond}

func newTestOptions(workers int) wp.Options {
	return wp.Options{
		Workers:       workers,
		QueueCapacity: 64,
		Retry:         fastRetry,
	}
}

func newTestPool(t *testing.T, workers int) *wp.Pool[*wp.AtomicMetrics] {
	t.Helper()

	p, err := wp.NewPool(&wp.AtomicMetrics{}, newTestOptions(workers))
	if err != nil {
		t.Fatalf("NewPool(%d): %v", workers, err)
	}
	t.Cleanup(p.Stop)
	return p
}

func waitUntil(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		runtime.Gosched()
	}
	t.Fatal("condition not satisfied before timeout")
}

func shutdownWithin(t *testing.T, p interface{ Shutdown(context.Context) error }, d time.Duration) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	if err := p.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

// errorSink collects errors passed to the pool handlers.
type errorSink struct {
	mu   sync.Mutex
	errs []error
}

func (s *errorSink) add(err error) {
	s.mu.Lock()
	s.errs = append(s.errs, err)
	s.mu.Unlock()
}

func (s *errorSink) snapshot() []error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]error(nil), s.errs...)
}
