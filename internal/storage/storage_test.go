package storage

import (
	"context"
	"errors"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terra-clan/travel-catalog/internal/catalog"
	"github.com/terra-clan/travel-catalog/internal/models"
)

func TestPendingMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"002_seed.sql":     {Data: []byte("SELECT 1")},
		"001_catalogs.sql": {Data: []byte("SELECT 1")},
		"README.md":        {Data: []byte("docs")},
		"old/000.sql":      {Data: []byte("SELECT 1")},
	}

	pending, err := pendingMigrations(fsys, map[string]bool{})
	require.NoError(t, err)
	assert.Equal(t, []string{"001_catalogs.sql", "002_seed.sql"}, pending)

	pending, err = pendingMigrations(fsys, map[string]bool{"001_catalogs.sql": true})
	require.NoError(t, err)
	assert.Equal(t, []string{"002_seed.sql"}, pending)
}

func TestEmbeddedMigrations(t *testing.T) {
	fsys := Migrations("")
	pending, err := pendingMigrations(fsys, nil)
	require.NoError(t, err)
	require.NotEmpty(t, pending)

	content, err := fs.ReadFile(fsys, pending[0])
	require.NoError(t, err)
	assert.Contains(t, string(content), "CREATE TABLE IF NOT EXISTS catalog_items")
}

func TestMigrationsPrefersExistingDir(t *testing.T) {
	dir := t.TempDir()
	pending, err := pendingMigrations(Migrations(dir), nil)
	require.NoError(t, err)
	assert.Empty(t, pending, "an existing but empty dir overrides the embedded set")
}

type fakeRepository struct {
	docs         []catalog.Document
	items        map[string][]catalog.RawItem
	testimonials map[string][]models.Testimonial
	itemErr      map[string]error
	listErr      error
}

func (f *fakeRepository) ListCatalogs(context.Context) ([]catalog.Document, error) {
	return f.docs, f.listErr
}

func (f *fakeRepository) ListItems(_ context.Context, name string) ([]catalog.RawItem, error) {
	return f.items[name], f.itemErr[name]
}

func (f *fakeRepository) ListTestimonials(_ context.Context, name string) ([]models.Testimonial, error) {
	return f.testimonials[name], nil
}

func (f *fakeRepository) Ping(context.Context) error { return nil }
func (f *fakeRepository) Close() error               { return nil }

func TestSourceDocuments(t *testing.T) {
	repo := &fakeRepository{
		docs: []catalog.Document{
			{Name: "destinations", Title: "Iconic Destinations", Spotlight: &models.Spotlight{ID: 1}},
			{Name: "trips"},
		},
		items: map[string][]catalog.RawItem{
			"destinations": {{ID: 1, Name: "Kyoto", PriceRange: "$$"}},
		},
		testimonials: map[string][]models.Testimonial{
			"destinations": {{ID: 1, Name: "Ana", Rating: 5, Comment: "Lovely"}},
		},
		itemErr: map[string]error{"trips": errors.New("relation does not exist")},
	}

	docs, err := NewSource(repo).Documents(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 1, "a catalog whose items fail to load is skipped")
	assert.Equal(t, "destinations", docs[0].Name)
	assert.Len(t, docs[0].Items, 1)
	assert.Len(t, docs[0].Testimonials, 1)

	loader := catalog.NewLoader()
	require.NoError(t, loader.LoadFrom(context.Background(), NewSource(repo)))
	c, err := loader.Get("destinations")
	require.NoError(t, err)
	spot, err := c.SpotlightItem()
	require.NoError(t, err)
	assert.Equal(t, "Kyoto", spot.Name)
}

func TestSourceListError(t *testing.T) {
	repo := &fakeRepository{listErr: errors.New("connection refused")}
	_, err := NewSource(repo).Documents(context.Background())
	assert.Error(t, err)
}
