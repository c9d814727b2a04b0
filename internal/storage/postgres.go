package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/terra-clan/travel-catalog/internal/catalog"
	"github.com/terra-clan/travel-catalog/internal/models"
)

// PostgresRepository implements Repository using PostgreSQL
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// PostgresConfig holds PostgreSQL connection configuration
type PostgresConfig struct {
	DSN         string
	MaxConns    int32
	MaxLifetime time.Duration
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(ctx context.Context, cfg PostgresConfig) (*PostgresRepository, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	} else {
		poolConfig.MaxConns = 4
	}

	if cfg.MaxLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxLifetime
	} else {
		poolConfig.MaxConnLifetime = 30 * time.Minute
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{pool: pool}, nil
}

// Pool exposes the connection pool for migrations
func (r *PostgresRepository) Pool() *pgxpool.Pool {
	return r.pool
}

// Ping checks database connectivity
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close closes the database connection pool
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

// ListCatalogs returns every catalog header
func (r *PostgresRepository) ListCatalogs(ctx context.Context) ([]catalog.Document, error) {
	query := `
		SELECT name, title, categories, spotlight_id, spotlight_title, spotlight_subtitle, meta
		FROM catalogs
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query catalogs: %w", err)
	}
	defer rows.Close()

	var docs []catalog.Document
	for rows.Next() {
		var doc catalog.Document
		var spotlightID *int
		var spotlightTitle, spotlightSubtitle string

		if err := rows.Scan(
			&doc.Name,
			&doc.Title,
			&doc.Categories,
			&spotlightID,
			&spotlightTitle,
			&spotlightSubtitle,
			&doc.Meta,
		); err != nil {
			return nil, fmt.Errorf("failed to scan catalog: %w", err)
		}

		if spotlightID != nil {
			doc.Spotlight = &models.Spotlight{ID: *spotlightID, Title: spotlightTitle, Subtitle: spotlightSubtitle}
		}
		docs = append(docs, doc)
	}

	return docs, rows.Err()
}

// ListItems returns the raw item rows of a catalog in insertion order
func (r *PostgresRepository) ListItems(ctx context.Context, catalogName string) ([]catalog.RawItem, error) {
	query := `
		SELECT id, name, description, long_description, category, price_range, price, rating, reviews,
		       best_season, activities, location, duration, image, alt, badges, attractions
		FROM catalog_items
		WHERE catalog = $1
		ORDER BY position, id
	`

	rows, err := r.pool.Query(ctx, query, catalogName)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (catalog.RawItem, error) {
		var item catalog.RawItem
		err := row.Scan(
			&item.ID,
			&item.Name,
			&item.Description,
			&item.LongDescription,
			&item.Category,
			&item.PriceRange,
			&item.Price,
			&item.Rating,
			&item.Reviews,
			&item.BestSeason,
			&item.Activities,
			&item.Location,
			&item.Duration,
			&item.Image,
			&item.Alt,
			&item.Badges,
			&item.Attractions,
		)
		return item, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan items: %w", err)
	}

	return items, nil
}

// ListTestimonials returns a catalog's testimonials in insertion order
func (r *PostgresRepository) ListTestimonials(ctx context.Context, catalogName string) ([]models.Testimonial, error) {
	query := `
		SELECT id, name, location, avatar, rating, comment
		FROM catalog_testimonials
		WHERE catalog = $1
		ORDER BY position, id
	`

	rows, err := r.pool.Query(ctx, query, catalogName)
	if err != nil {
		return nil, fmt.Errorf("failed to query testimonials: %w", err)
	}

	testimonials, err := pgx.CollectRows(rows, pgx.RowToStructByPos[models.Testimonial])
	if err != nil {
		return nil, fmt.Errorf("failed to scan testimonials: %w", err)
	}

	return testimonials, nil
}
