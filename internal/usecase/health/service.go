// Package health aggregates dependency availability checks.
package health

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks. Checks run concurrently: one slow
// dependency must not serialize the others.
type Service struct {
	index    IndexPinger
	cache    CachePinger
	provider ProviderChecker
}

// New creates a Service. cache and provider can be nil.
func New(index IndexPinger, cache CachePinger, provider ProviderChecker) *Service {
	return &Service{index: index, cache: cache, provider: provider}
}

// Check runs health checks against all configured components.
func (s *Service) Check(ctx context.Context) Report {
	var mu sync.Mutex
	checks := make(map[string]CheckResult)

	record := func(name string, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			checks[name] = CheckError
		} else {
			checks[name] = CheckOK
		}
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		record("index", s.index.Ping(ctx))
		return nil
	})
	if s.cache != nil {
		g.Go(func() error {
			record("cache", s.cache.Ping(ctx))
			return nil
		})
	}
	if s.provider != nil {
		g.Go(func() error {
			record("provider", s.provider.HealthCheck(ctx))
			return nil
		})
	}

	_ = g.Wait()

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}
