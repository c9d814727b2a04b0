package services

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// PostgresChecker pings PostgreSQL through database/sql
type PostgresChecker struct {
	BaseChecker
	db *sql.DB
}

// NewPostgresChecker opens a small connection pool for readiness pings. It
// does not connect until the first check.
func NewPostgresChecker(dsn string) (*PostgresChecker, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	return &PostgresChecker{
		BaseChecker: BaseChecker{name: "postgres"},
		db:          db,
	}, nil
}

// HealthCheck verifies PostgreSQL connectivity
func (c *PostgresChecker) HealthCheck(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// Close closes the connection pool
func (c *PostgresChecker) Close() error {
	return c.db.Close()
}
