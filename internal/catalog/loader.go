package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/terra-clan/travel-catalog/internal/models"
)

// Source produces catalog documents from some backing store
type Source interface {
	Documents(ctx context.Context) ([]Document, error)
}

// Loader loads catalogs once and serves them read-only
type Loader struct {
	mu       sync.RWMutex
	catalogs map[string]*Catalog
}

// NewLoader creates an empty loader
func NewLoader() *Loader {
	return &Loader{
		catalogs: make(map[string]*Catalog),
	}
}

// LoadFromDir loads every YAML/JSON catalog document in dir. Files that fail
// to parse are skipped; the error is only returned when dir is unreadable.
func (l *Loader) LoadFromDir(dir string) error {
	slog.Info("loading catalogs from directory", "dir", dir)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read catalog dir: %w", err)
	}

	loaded := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".yaml", ".yml", ".json":
		default:
			continue
		}

		if err := l.LoadFromFile(filepath.Join(dir, entry.Name())); err != nil {
			slog.Warn("failed to load catalog", "file", entry.Name(), "error", err)
			continue
		}
		loaded++
	}

	slog.Info("catalogs loaded", "count", loaded)
	return nil
}

// LoadFromFile loads a single catalog document. The catalog name defaults
// to the file name without extension.
func (l *Loader) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	base := filepath.Base(path)
	doc, err := ParseDocument(data, strings.TrimSuffix(base, filepath.Ext(base)))
	if err != nil {
		return err
	}

	l.Add(doc)
	return nil
}

// LoadFrom adds every document the source yields
func (l *Loader) LoadFrom(ctx context.Context, src Source) error {
	docs, err := src.Documents(ctx)
	if err != nil {
		return fmt.Errorf("failed to read catalog source: %w", err)
	}
	for _, doc := range docs {
		l.Add(doc)
	}
	return nil
}

// Add validates and registers a document, replacing any catalog of the same name
func (l *Loader) Add(doc Document) *Catalog {
	c, skipped := Build(doc)

	l.mu.Lock()
	l.catalogs[c.Name] = c
	l.mu.Unlock()

	slog.Info("catalog loaded", "name", c.Name, "items", len(c.Items),
		"testimonials", len(c.Testimonials), "skipped", skipped)
	return c
}

// Get returns a catalog by name
func (l *Loader) Get(name string) (*Catalog, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	c, ok := l.catalogs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCatalogNotFound, name)
	}
	return c, nil
}

// List returns all catalogs ordered by name
func (l *Loader) List() []*Catalog {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make([]*Catalog, 0, len(l.catalogs))
	for _, c := range l.catalogs {
		result = append(result, c)
	}
	slices.SortFunc(result, func(a, b *Catalog) int { return strings.Compare(a.Name, b.Name) })
	return result
}

// Len returns the number of loaded catalogs
func (l *Loader) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.catalogs)
}

// ParseDocument decodes a YAML or JSON catalog document. Records are decoded
// one by one so a malformed record does not discard its siblings.
func ParseDocument(data []byte, defaultName string) (Document, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Document{}, fmt.Errorf("failed to parse catalog: %w", err)
	}

	doc := Document{
		Name:       f.Name,
		Title:      f.Title,
		Categories: f.Categories,
		Spotlight:  f.Spotlight,
		Meta:       f.Meta,
	}
	if doc.Name == "" {
		doc.Name = defaultName
	}
	if doc.Name == "" {
		return Document{}, fmt.Errorf("catalog name is required")
	}

	var nodes []yaml.Node
	for _, list := range [][]yaml.Node{f.Items, f.Destinations, f.Trips, f.FeaturedDestinations} {
		nodes = append(nodes, list...)
	}
	doc.Items = decodeEach[RawItem](doc.Name, "item", nodes)
	doc.Testimonials = decodeEach[models.Testimonial](doc.Name, "testimonial", f.Testimonials)

	return doc, nil
}

func decodeEach[T any](catalogName, kind string, nodes []yaml.Node) []T {
	result := make([]T, 0, len(nodes))
	for i := range nodes {
		var v T
		if err := nodes[i].Decode(&v); err != nil {
			slog.Warn("skipping malformed record", "catalog", catalogName, "kind", kind,
				"line", nodes[i].Line, "error", err)
			continue
		}
		result = append(result, v)
	}
	return result
}

// catalogFile is the on-disk document. Item lists are accepted under the
// keys used by the site's data files.
type catalogFile struct {
	Name                 string            `yaml:"name"`
	Title                string            `yaml:"title"`
	Categories           []string          `yaml:"categories"`
	Items                []yaml.Node       `yaml:"items"`
	Destinations         []yaml.Node       `yaml:"destinations"`
	Trips                []yaml.Node       `yaml:"trips"`
	FeaturedDestinations []yaml.Node       `yaml:"featuredDestinations"`
	Testimonials         []yaml.Node       `yaml:"testimonials"`
	Spotlight            *models.Spotlight `yaml:"spotlight"`
	Meta                 map[string]any    `yaml:"meta"`
}
