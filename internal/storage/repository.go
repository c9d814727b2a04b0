package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/terra-clan/travel-catalog/internal/catalog"
	"github.com/terra-clan/travel-catalog/internal/models"
)

// Repository reads catalogs from a database. It never writes.
type Repository interface {
	// ListCatalogs returns catalog headers without items or testimonials
	ListCatalogs(ctx context.Context) ([]catalog.Document, error)
	ListItems(ctx context.Context, catalogName string) ([]catalog.RawItem, error)
	ListTestimonials(ctx context.Context, catalogName string) ([]models.Testimonial, error)

	// Health
	Ping(ctx context.Context) error
	Close() error
}

// Source adapts a Repository to catalog.Source
type Source struct {
	repo Repository
}

// NewSource creates a catalog source over repo
func NewSource(repo Repository) *Source {
	return &Source{repo: repo}
}

// Documents implements catalog.Source. A catalog whose rows cannot be read
// is skipped; only a failure to list catalogs is returned.
func (s *Source) Documents(ctx context.Context) ([]catalog.Document, error) {
	headers, err := s.repo.ListCatalogs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list catalogs: %w", err)
	}

	docs := make([]catalog.Document, 0, len(headers))
	for _, doc := range headers {
		items, err := s.repo.ListItems(ctx, doc.Name)
		if err != nil {
			slog.Warn("skipping catalog", "catalog", doc.Name, "error", err)
			continue
		}
		testimonials, err := s.repo.ListTestimonials(ctx, doc.Name)
		if err != nil {
			slog.Warn("catalog loaded without testimonials", "catalog", doc.Name, "error", err)
		}

		doc.Items = items
		doc.Testimonials = testimonials
		docs = append(docs, doc)
	}
	return docs, nil
}
