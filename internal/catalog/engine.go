package catalog

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/terra-clan/travel-catalog/internal/models"
)

var (
	ErrUnknownDimension = errors.New("unknown filter dimension")
	ErrInvalidSortKey   = errors.New("invalid sort key")
)

// Dimension names a single-select filter
type Dimension string

const (
	DimCategory Dimension = "category"
	DimTier     Dimension = "tier"
	DimSeason   Dimension = "season"
	DimActivity Dimension = "activity"
)

// ParseDimension validates a dimension name
func ParseDimension(s string) (Dimension, error) {
	switch d := Dimension(strings.ToLower(strings.TrimSpace(s))); d {
	case DimCategory, DimTier, DimSeason, DimActivity:
		return d, nil
	case "continent":
		return DimCategory, nil
	case "pricerange", "price":
		return DimTier, nil
	case "bestseason":
		return DimSeason, nil
	case "activities":
		return DimActivity, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDimension, s)
}

// Criteria holds the active filter selections. An empty field is unset;
// the effective predicate is the AND of every set field.
type Criteria struct {
	Category string `json:"category,omitempty"`
	Tier     string `json:"tier,omitempty"`
	Season   string `json:"season,omitempty"`
	Activity string `json:"activity,omitempty"`
	Query    string `json:"query,omitempty"`
}

// IsZero reports whether no dimension is set
func (c Criteria) IsZero() bool {
	return c == Criteria{}
}

// Get returns the selected value of a dimension
func (c Criteria) Get(d Dimension) string {
	switch d {
	case DimCategory:
		return c.Category
	case DimTier:
		return c.Tier
	case DimSeason:
		return c.Season
	case DimActivity:
		return c.Activity
	}
	return ""
}

func (c *Criteria) set(d Dimension, v string) {
	switch d {
	case DimCategory:
		c.Category = v
	case DimTier:
		c.Tier = v
	case DimSeason:
		c.Season = v
	case DimActivity:
		c.Activity = v
	}
}

// Matches reports whether item satisfies every set dimension.
// Values outside the catalog's domain never match and are not an error.
func (c Criteria) Matches(item models.CatalogItem) bool {
	if q := strings.ToLower(strings.TrimSpace(c.Query)); q != "" {
		if !strings.Contains(strings.ToLower(item.Name), q) &&
			!strings.Contains(strings.ToLower(item.Description), q) &&
			!strings.Contains(strings.ToLower(item.Category), q) {
			return false
		}
	}
	if c.Category != "" && item.Category != c.Category {
		return false
	}
	if c.Tier != "" {
		tier, err := models.ParsePriceTier(c.Tier)
		if err != nil || tier == models.TierUnset || item.Tier != tier {
			return false
		}
	}
	if c.Season != "" && !item.HasSeason(c.Season) {
		return false
	}
	if c.Activity != "" && !item.HasActivity(c.Activity) {
		return false
	}
	return true
}

// SortKey selects the total order applied to a filtered view
type SortKey string

const (
	SortPopularity SortKey = "popularity"
	SortPriceAsc   SortKey = "price-asc"
	SortPriceDesc  SortKey = "price-desc"
	SortNewest     SortKey = "newest"
)

// DefaultSortKey is used when no sort has been chosen
const DefaultSortKey = SortPopularity

var sortAliases = map[string]SortKey{
	"":           SortPopularity,
	"popularity": SortPopularity,
	"price-asc":  SortPriceAsc,
	"price-low":  SortPriceAsc,
	"pricelow":   SortPriceAsc,
	"price-desc": SortPriceDesc,
	"price-high": SortPriceDesc,
	"pricehigh":  SortPriceDesc,
	"newest":     SortNewest,
}

// ParseSortKey accepts the canonical keys and the labels used by the site
func ParseSortKey(s string) (SortKey, error) {
	if k, ok := sortAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSortKey, s)
}

// Valid reports whether k is one of the canonical keys
func (k SortKey) Valid() bool {
	switch k {
	case SortPopularity, SortPriceAsc, SortPriceDesc, SortNewest:
		return true
	}
	return false
}

// Filter returns the items matching c in their original order.
// The input slice is never modified.
func Filter(items []models.CatalogItem, c Criteria) []models.CatalogItem {
	result := make([]models.CatalogItem, 0, len(items))
	for _, item := range items {
		if c.Matches(item) {
			result = append(result, item)
		}
	}
	return result
}

// Sort returns a stably sorted copy of items. An invalid key sorts by popularity.
func Sort(items []models.CatalogItem, key SortKey) []models.CatalogItem {
	result := slices.Clone(items)
	slices.SortStableFunc(result, comparator(key))
	return result
}

// Apply filters then sorts; it is a pure function of its inputs.
func Apply(items []models.CatalogItem, c Criteria, key SortKey) []models.CatalogItem {
	result := Filter(items, c)
	slices.SortStableFunc(result, comparator(key))
	return result
}

func comparator(key SortKey) func(a, b models.CatalogItem) int {
	switch key {
	case SortPriceAsc:
		return func(a, b models.CatalogItem) int { return comparePrice(a, b, false) }
	case SortPriceDesc:
		return func(a, b models.CatalogItem) int { return comparePrice(a, b, true) }
	case SortNewest:
		// assumes IDs are assigned in creation order
		return func(a, b models.CatalogItem) int { return cmp.Compare(b.ID, a.ID) }
	default:
		return comparePopularity
	}
}

func comparePopularity(a, b models.CatalogItem) int {
	if c := cmp.Compare(b.Rating, a.Rating); c != 0 {
		return c
	}
	return cmp.Compare(b.Reviews, a.Reviews)
}

// comparePrice orders items with a numeric price by that price (tier rank
// breaks ties) and items without one by tier rank. Items without a price
// come after every priced item in both directions.
func comparePrice(a, b models.CatalogItem, desc bool) int {
	aPriced, bPriced := a.Price > 0, b.Price > 0
	if aPriced != bPriced {
		if aPriced {
			return -1
		}
		return 1
	}

	c := cmp.Compare(a.Tier.Rank(), b.Tier.Rank())
	if aPriced {
		if p := cmp.Compare(a.Price, b.Price); p != 0 {
			c = p
		}
	}
	if desc {
		return -c
	}
	return c
}
