// Package ratelimit provides a sliding-window limiter for outbound AI
// provider calls.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/Ham12-3/info-hunter/internal/domain"
)

// Limiter enforces a maximum number of acquisitions per sliding time
// window. Callers block in Acquire until a slot frees up or the context
// or acquire timeout expires.
type Limiter struct {
	maxRequests    int
	window         time.Duration
	acquireTimeout time.Duration

	mu       sync.Mutex
	requests []time.Time

	waitDuration prometheus.Histogram
	logger       *zap.Logger

	// now is swappable in tests.
	now func() time.Time
}

// New creates a limiter allowing maxRequests per window. acquireTimeout
// bounds how long Acquire waits for a slot; zero means wait until the
// caller's context expires. waitDuration may be nil.
func New(
	maxRequests int,
	window time.Duration,
	acquireTimeout time.Duration,
	waitDuration prometheus.Histogram,
	logger *zap.Logger,
) *Limiter {
	return &Limiter{
		maxRequests:    maxRequests,
		window:         window,
		acquireTimeout: acquireTimeout,
		waitDuration:   waitDuration,
		logger:         logger,
		now:            time.Now,
	}
}

// Acquire blocks until a request slot is available. It returns
// domain.ErrRateLimitTimeout when the acquire timeout elapses first, and
// the context error when the caller's context is done.
func (l *Limiter) Acquire(ctx context.Context) error {
	start := l.now()

	// The caller's context is kept separate so its expiry is never
	// reported as the limiter's own timeout.
	parent := ctx
	if l.acquireTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.acquireTimeout)
		defer cancel()
	}

	for {
		ok, wait := l.tryAcquire()
		if ok {
			if l.waitDuration != nil {
				l.waitDuration.Observe(l.now().Sub(start).Seconds())
			}
			return nil
		}

		l.logger.Debug("Rate limit reached, waiting for slot",
			zap.Duration("wait", wait))

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			if err := parent.Err(); err != nil {
				return err
			}
			if l.acquireTimeout > 0 && ctx.Err() == context.DeadlineExceeded {
				return fmt.Errorf("acquire slot after %s: %w", l.acquireTimeout, domain.ErrRateLimitTimeout)
			}
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// tryAcquire records a request if a slot is free. Otherwise it reports
// how long until the oldest in-window request leaves the window.
func (l *Limiter) tryAcquire() (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	windowStart := now.Add(-l.window)

	// Prune requests that fell out of the window. The slice is
	// append-ordered, so the first in-window entry marks the cut.
	cut := 0
	for cut < len(l.requests) && !l.requests[cut].After(windowStart) {
		cut++
	}
	l.requests = l.requests[cut:]

	if len(l.requests) < l.maxRequests {
		l.requests = append(l.requests, now)
		return true, 0
	}

	wait := l.requests[0].Add(l.window).Sub(now)
	if wait <= 0 {
		wait = time.Millisecond
	}
	return false, wait
}
