package services

import (
	"context"
	"errors"
)

var ErrNoCatalogs = errors.New("no catalogs loaded")

// CatalogCounter is satisfied by catalog.Loader
type CatalogCounter interface {
	Len() int
}

// CatalogChecker is ready once at least one catalog has loaded
type CatalogChecker struct {
	BaseChecker
	catalogs CatalogCounter
}

// NewCatalogChecker creates a checker over the loaded catalogs
func NewCatalogChecker(catalogs CatalogCounter) *CatalogChecker {
	return &CatalogChecker{
		BaseChecker: BaseChecker{name: "catalogs"},
		catalogs:    catalogs,
	}
}

// HealthCheck fails while the catalog set is empty
func (c *CatalogChecker) HealthCheck(context.Context) error {
	if c.catalogs.Len() == 0 {
		return ErrNoCatalogs
	}
	return nil
}
