package ratelimit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Ham12-3/info-hunter/internal/domain"
)

func newTestLimiter(maxRequests int, window, acquireTimeout time.Duration) *Limiter {
	return New(maxRequests, window, acquireTimeout, nil, zap.NewNop())
}

func TestAcquire_UnderLimit(t *testing.T) {
	l := newTestLimiter(3, time.Minute, time.Second)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := l.Acquire(ctx); err != nil {
			t.Fatalf("acquire %d: unexpected error: %v", i, err)
		}
	}
}

func TestAcquire_TimeoutWhenSaturated(t *testing.T) {
	l := newTestLimiter(1, time.Minute, 50*time.Millisecond)
	ctx := context.Background()

	if err := l.Acquire(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := l.Acquire(ctx)
	if !errors.Is(err, domain.ErrRateLimitTimeout) {
		t.Fatalf("expected ErrRateLimitTimeout, got %v", err)
	}
}

func TestAcquire_ContextCancelled(t *testing.T) {
	l := newTestLimiter(1, time.Minute, 0)

	if err := l.Acquire(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- l.Acquire(ctx)
	}()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("acquire did not return after cancel")
	}
}

func TestAcquire_CallerDeadlineNotReportedAsLimiterTimeout(t *testing.T) {
	// Caller deadline fires well before the limiter's own acquire timeout;
	// the returned error must be the caller's, not ErrRateLimitTimeout.
	l := newTestLimiter(1, time.Minute, time.Second)

	if err := l.Acquire(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := l.Acquire(ctx)
	if errors.Is(err, domain.ErrRateLimitTimeout) {
		t.Fatalf("caller deadline misreported as limiter timeout: %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context.DeadlineExceeded, got %v", err)
	}
}

func TestAcquire_SlotFreesAfterWindow(t *testing.T) {
	l := newTestLimiter(1, 30*time.Millisecond, time.Second)
	ctx := context.Background()

	if err := l.Acquire(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Second acquire must block until the first falls out of the window.
	start := time.Now()
	if err := l.Acquire(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Fatalf("expected acquire to wait for window, returned after %v", elapsed)
	}
}

func TestAcquire_PrunesExpiredRequests(t *testing.T) {
	l := newTestLimiter(2, time.Minute, time.Second)

	base := time.Now()
	current := base
	l.now = func() time.Time { return current }

	ctx := context.Background()
	if err := l.Acquire(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := l.Acquire(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Advance past the window: both recorded requests expire.
	current = base.Add(2 * time.Minute)
	if ok, _ := l.tryAcquire(); !ok {
		t.Fatal("expected slot after window elapsed")
	}
	if len(l.requests) != 1 {
		t.Fatalf("expected 1 tracked request after prune, got %d", len(l.requests))
	}
}

func TestAcquire_Concurrent(t *testing.T) {
	l := newTestLimiter(50, time.Minute, time.Second)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- l.Acquire(ctx)
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if len(l.requests) != 50 {
		t.Fatalf("expected 50 tracked requests, got %d", len(l.requests))
	}
}
