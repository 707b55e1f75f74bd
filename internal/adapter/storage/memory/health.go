package memory

import "context"

// HealthCheck implements ports.HealthChecker for the in-memory store.
type HealthCheck struct{}

// NewHealthCheck creates a memory store health checker.
func NewHealthCheck() *HealthCheck {
	return &HealthCheck{}
}

// Ping always succeeds; the store lives in this process.
func (h *HealthCheck) Ping(_ context.Context) error {
	return nil
}

func (h *HealthCheck) Name() string {
	return "memory"
}
