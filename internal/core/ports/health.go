package ports

import "context"

// HealthChecker reports on a backing store the ledger depends on.
type HealthChecker interface {
	// Ping returns nil when the dependency is reachable.
	Ping(ctx context.Context) error
	// Name is reported in the /health payload ("postgresql", "redis", "memory").
	Name() string
}
