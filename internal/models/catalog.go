package models

import (
	"fmt"
	"strings"
)

// PriceTier is an explicit price ordinal. Tiers compare by rank, never by
// the length of their display symbol.
type PriceTier int

const (
	TierUnset    PriceTier = iota
	TierBudget             // $
	TierModerate           // $$
	TierPremium            // $$$
	TierLuxury             // $$$$
)

var tierSymbols = map[PriceTier]string{
	TierBudget:   "$",
	TierModerate: "$$",
	TierPremium:  "$$$",
	TierLuxury:   "$$$$",
}

var tierBySymbol = map[string]PriceTier{
	"$":        TierBudget,
	"$$":       TierModerate,
	"$$$":      TierPremium,
	"$$$$":     TierLuxury,
	"budget":   TierBudget,
	"moderate": TierModerate,
	"premium":  TierPremium,
	"luxury":   TierLuxury,
}

// ParsePriceTier maps a tier symbol ("$".."$$$$") or name to its ordinal.
// An empty string is TierUnset.
func ParsePriceTier(s string) (PriceTier, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return TierUnset, nil
	}
	if t, ok := tierBySymbol[s]; ok {
		return t, nil
	}
	return TierUnset, fmt.Errorf("unknown price tier %q", s)
}

// Rank returns the ordinal used for price comparisons.
func (t PriceTier) Rank() int {
	return int(t)
}

// String returns the display symbol, or "" for TierUnset.
func (t PriceTier) String() string {
	return tierSymbols[t]
}

// MarshalText renders the tier as its symbol.
func (t PriceTier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText accepts a tier symbol or name.
func (t *PriceTier) UnmarshalText(b []byte) error {
	parsed, err := ParsePriceTier(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// AllPriceTiers lists the set tiers in ascending order.
func AllPriceTiers() []PriceTier {
	return []PriceTier{TierBudget, TierModerate, TierPremium, TierLuxury}
}

// MaxRating is the upper bound of the rating scale.
const MaxRating = 5.0

// CatalogItem is an immutable destination or trip record
type CatalogItem struct {
	ID              int       `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	LongDescription string    `json:"longDescription,omitempty"`
	Category        string    `json:"category"`
	Tier            PriceTier `json:"priceRange,omitempty"`
	Price           float64   `json:"price,omitempty"` // 0 = unknown
	Rating          float64   `json:"rating"`
	Reviews         int       `json:"reviews"`
	Seasons         []string  `json:"bestSeason,omitempty"`
	Activities      []string  `json:"activities,omitempty"`

	// Display-only fields
	Location    string   `json:"location,omitempty"`
	Duration    string   `json:"duration,omitempty"`
	Image       string   `json:"image,omitempty"`
	Alt         string   `json:"alt,omitempty"`
	Badges      []string `json:"badges,omitempty"`
	Attractions []string `json:"attractions,omitempty"`
}

// Detail returns the long description, falling back to the short one
func (i CatalogItem) Detail() string {
	if i.LongDescription != "" {
		return i.LongDescription
	}
	return i.Description
}

// HasSeason reports whether the item is available in the given season
func (i CatalogItem) HasSeason(season string) bool {
	return contains(i.Seasons, season)
}

// HasActivity reports whether the item offers the given activity
func (i CatalogItem) HasActivity(activity string) bool {
	return contains(i.Activities, activity)
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

// Testimonial is a traveler review shown in a rotating carousel
type Testimonial struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
}

// Spotlight highlights one catalog item by ID
type Spotlight struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
}

// Facets lists the filter values present in a catalog
type Facets struct {
	Categories []string `json:"categories"`
	Tiers      []string `json:"tiers"`
	Seasons    []string `json:"seasons"`
	Activities []string `json:"activities"`
}

// CatalogSummary is the list view of a catalog
type CatalogSummary struct {
	Name         string `json:"name"`
	Title        string `json:"title"`
	ItemsCount   int    `json:"itemsCount"`
	Testimonials int    `json:"testimonialsCount"`
}
