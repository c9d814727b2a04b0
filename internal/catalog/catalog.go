package catalog

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strings"

	"github.com/terra-clan/travel-catalog/internal/models"
)

var (
	ErrCatalogNotFound = errors.New("catalog not found")
	ErrItemNotFound    = errors.New("item not found")
)

// Catalog is a read-only collection of items plus its display metadata
type Catalog struct {
	Name         string
	Title        string
	Categories   []string
	Items        []models.CatalogItem
	Testimonials []models.Testimonial
	Spotlight    *models.Spotlight
	Meta         map[string]any

	index map[int]int
}

// RawItem is a catalog record as found in a source document, before validation
type RawItem struct {
	ID              int      `yaml:"id"`
	Name            string   `yaml:"name"`
	Title           string   `yaml:"title"`
	Description     string   `yaml:"description"`
	LongDescription string   `yaml:"longdesc"`
	Category        string   `yaml:"category"`
	Continent       string   `yaml:"continent"`
	PriceRange      string   `yaml:"priceRange"`
	Price           float64  `yaml:"price"`
	Rating          float64  `yaml:"rating"`
	Reviews         int      `yaml:"reviews"`
	BestSeason      []string `yaml:"bestSeason"`
	Activities      []string `yaml:"activities"`
	Location        string   `yaml:"location"`
	Duration        string   `yaml:"duration"`
	Image           string   `yaml:"image"`
	Alt             string   `yaml:"alt"`
	Badges          []string `yaml:"badges"`
	Attractions     []string `yaml:"attractions"`
}

// Document is the source-independent shape of a catalog
type Document struct {
	Name         string
	Title        string
	Categories   []string
	Items        []RawItem
	Testimonials []models.Testimonial
	Spotlight    *models.Spotlight
	Meta         map[string]any
}

// Build validates a document into a Catalog. Malformed records are skipped
// and counted; they never fail the whole catalog.
func Build(doc Document) (*Catalog, int) {
	c := &Catalog{
		Name:       doc.Name,
		Title:      doc.Title,
		Categories: doc.Categories,
		Spotlight:  doc.Spotlight,
		Meta:       doc.Meta,
		index:      make(map[int]int, len(doc.Items)),
	}
	if c.Title == "" {
		c.Title = c.Name
	}

	skipped := 0
	for i, raw := range doc.Items {
		item, err := raw.toItem(doc.Categories)
		if err == nil {
			if _, dup := c.index[item.ID]; dup {
				err = fmt.Errorf("duplicate id %d", item.ID)
			}
		}
		if err != nil {
			slog.Warn("skipping catalog record", "catalog", doc.Name, "position", i, "error", err)
			skipped++
			continue
		}
		c.index[item.ID] = len(c.Items)
		c.Items = append(c.Items, item)
	}

	for _, t := range doc.Testimonials {
		if t.Comment == "" || t.Rating < 0 || t.Rating > int(models.MaxRating) {
			slog.Warn("skipping testimonial", "catalog", doc.Name, "id", t.ID)
			skipped++
			continue
		}
		c.Testimonials = append(c.Testimonials, t)
	}

	return c, skipped
}

func (r RawItem) toItem(categories []string) (models.CatalogItem, error) {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		name = strings.TrimSpace(r.Title)
	}
	category := strings.TrimSpace(r.Category)
	if category == "" {
		category = strings.TrimSpace(r.Continent)
	}

	switch {
	case !finite(r.Rating) || !finite(r.Price):
		return models.CatalogItem{}, fmt.Errorf("item %d: rating and price must be finite numbers", r.ID)
	case r.ID <= 0:
		return models.CatalogItem{}, fmt.Errorf("id must be positive, got %d", r.ID)
	case name == "":
		return models.CatalogItem{}, fmt.Errorf("item %d: name is required", r.ID)
	case r.Rating < 0 || r.Rating > models.MaxRating:
		return models.CatalogItem{}, fmt.Errorf("item %d: rating %.2f out of range", r.ID, r.Rating)
	case r.Reviews < 0:
		return models.CatalogItem{}, fmt.Errorf("item %d: negative review count", r.ID)
	case r.Price < 0:
		return models.CatalogItem{}, fmt.Errorf("item %d: negative price", r.ID)
	}
	if len(categories) > 0 && !slices.Contains(categories, category) {
		return models.CatalogItem{}, fmt.Errorf("item %d: category %q not in catalog", r.ID, category)
	}

	tier, err := models.ParsePriceTier(r.PriceRange)
	if err != nil {
		return models.CatalogItem{}, fmt.Errorf("item %d: %w", r.ID, err)
	}

	return models.CatalogItem{
		ID:              r.ID,
		Name:            name,
		Description:     r.Description,
		LongDescription: r.LongDescription,
		Category:        category,
		Tier:            tier,
		Price:           r.Price,
		Rating:          r.Rating,
		Reviews:         r.Reviews,
		Seasons:         r.BestSeason,
		Activities:      r.Activities,
		Location:        r.Location,
		Duration:        r.Duration,
		Image:           r.Image,
		Alt:             r.Alt,
		Badges:          r.Badges,
		Attractions:     r.Attractions,
	}, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Get resolves an item by ID
func (c *Catalog) Get(id int) (models.CatalogItem, error) {
	i, ok := c.index[id]
	if !ok {
		return models.CatalogItem{}, fmt.Errorf("%w: %s/%d", ErrItemNotFound, c.Name, id)
	}
	return c.Items[i], nil
}

// SpotlightItem resolves the catalog's spotlight, if any
func (c *Catalog) SpotlightItem() (models.CatalogItem, error) {
	if c.Spotlight == nil {
		return models.CatalogItem{}, fmt.Errorf("%w: %s has no spotlight", ErrItemNotFound, c.Name)
	}
	return c.Get(c.Spotlight.ID)
}

// Query returns the filtered and sorted view of the catalog
func (c *Catalog) Query(criteria Criteria, key SortKey) []models.CatalogItem {
	return Apply(c.Items, criteria, key)
}

// Facets collects the distinct filter values present in the catalog
func (c *Catalog) Facets() models.Facets {
	f := models.Facets{
		Categories: slices.Clone(c.Categories),
		Tiers:      []string{},
		Seasons:    []string{},
		Activities: []string{},
	}
	declared := len(f.Categories) > 0

	tiers := map[models.PriceTier]bool{}
	for _, item := range c.Items {
		if !declared && item.Category != "" && !slices.Contains(f.Categories, item.Category) {
			f.Categories = append(f.Categories, item.Category)
		}
		if item.Tier != models.TierUnset {
			tiers[item.Tier] = true
		}
		for _, s := range item.Seasons {
			if !slices.Contains(f.Seasons, s) {
				f.Seasons = append(f.Seasons, s)
			}
		}
		for _, a := range item.Activities {
			if !slices.Contains(f.Activities, a) {
				f.Activities = append(f.Activities, a)
			}
		}
	}
	for _, t := range models.AllPriceTiers() {
		if tiers[t] {
			f.Tiers = append(f.Tiers, t.String())
		}
	}
	if f.Categories == nil {
		f.Categories = []string{}
	}
	slices.Sort(f.Activities)
	return f
}

// Summary returns the list view of the catalog
func (c *Catalog) Summary() models.CatalogSummary {
	return models.CatalogSummary{
		Name:         c.Name,
		Title:        c.Title,
		ItemsCount:   len(c.Items),
		Testimonials: len(c.Testimonials),
	}
}
