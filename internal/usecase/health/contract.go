package health

import "context"

// IndexPinger checks search index availability.
type IndexPinger interface {
	Ping(ctx context.Context) error
}

// CachePinger checks key-value cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// ProviderChecker checks AI provider availability.
type ProviderChecker interface {
	HealthCheck(ctx context.Context) error
}
