package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChecker struct {
	BaseChecker
	err error
}

func (c *stubChecker) HealthCheck(context.Context) error {
	return c.err
}

type counter int

func (c counter) Len() int { return int(c) }

func TestRegistryReady(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Ready(context.Background()), "an empty registry is ready")

	r.Register(&stubChecker{BaseChecker: BaseChecker{name: "redis"}})
	r.Register(NewCatalogChecker(counter(2)))
	assert.Equal(t, []string{"catalogs", "redis"}, r.List())
	require.NoError(t, r.Ready(context.Background()))

	down := errors.New("connection refused")
	r.Register(&stubChecker{BaseChecker: BaseChecker{name: "redis"}, err: down})
	err := r.Ready(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, down))
	assert.Contains(t, err.Error(), "redis: connection refused")

	results := r.HealthCheckAll(context.Background())
	assert.Len(t, results, 2)
	assert.NoError(t, results["catalogs"])
}

func TestCatalogChecker(t *testing.T) {
	err := NewCatalogChecker(counter(0)).HealthCheck(context.Background())
	assert.True(t, errors.Is(err, ErrNoCatalogs))
	assert.NoError(t, NewCatalogChecker(counter(1)).HealthCheck(context.Background()))
}
