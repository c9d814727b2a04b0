package services

import (
	"context"
)

// Checker reports whether a dependency the service relies on is usable
type Checker interface {
	// Name identifies the dependency in readiness reports
	Name() string

	// HealthCheck returns nil when the dependency is available
	HealthCheck(ctx context.Context) error
}

// BaseChecker provides common functionality for checkers
type BaseChecker struct {
	name string
}

// Name returns the checker name
func (c *BaseChecker) Name() string {
	return c.name
}
