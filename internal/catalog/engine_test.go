package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terra-clan/travel-catalog/internal/models"
)

func scenarioItems() []models.CatalogItem {
	return []models.CatalogItem{
		{ID: 1, Name: "Paris", Category: "romantic", Rating: 4.8, Reviews: 120},
		{ID: 2, Name: "Bali", Category: "adventure", Rating: 4.9, Reviews: 80},
	}
}

func destinations() []models.CatalogItem {
	return []models.CatalogItem{
		{ID: 1, Name: "Santorini", Description: "Whitewashed cliffs", Category: "Europe", Tier: models.TierPremium,
			Rating: 4.8, Reviews: 300, Seasons: []string{"May", "June"}, Activities: []string{"Beach", "Romantic"}},
		{ID: 2, Name: "Kyoto", Description: "Temples and gardens", Category: "Asia", Tier: models.TierModerate,
			Rating: 4.8, Reviews: 500, Seasons: []string{"April", "November"}, Activities: []string{"Cultural", "Historical"}},
		{ID: 3, Name: "Banff", Description: "Rocky mountain lakes", Category: "North America", Tier: models.TierModerate,
			Rating: 4.7, Reviews: 210, Seasons: []string{"July", "January"}, Activities: []string{"Nature", "Winter Sports"}},
		{ID: 4, Name: "Marrakech", Description: "Souks of the old medina", Category: "Africa", Tier: models.TierBudget,
			Rating: 4.5, Reviews: 150, Seasons: []string{"March"}, Activities: []string{"Cultural", "Urban"}},
		{ID: 5, Name: "Maldives", Description: "Overwater villas", Category: "Asia", Tier: models.TierLuxury,
			Rating: 4.8, Reviews: 300, Seasons: []string{"January", "February"}, Activities: []string{"Beach", "Romantic"}},
	}
}

func ids(items []models.CatalogItem) []int {
	out := make([]int, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}

func TestScenarioCategoryAndPopularity(t *testing.T) {
	items := scenarioItems()

	romantic := Apply(items, Criteria{Category: "romantic"}, SortPopularity)
	require.Len(t, romantic, 1)
	assert.Equal(t, "Paris", romantic[0].Name)

	popular := Apply(items, Criteria{}, SortPopularity)
	assert.Equal(t, []string{"Bali", "Paris"}, []string{popular[0].Name, popular[1].Name})
}

func TestFreeTextQuery(t *testing.T) {
	items := scenarioItems()

	got := Filter(items, Criteria{Query: "par"})
	require.Len(t, got, 1)
	assert.Equal(t, "Paris", got[0].Name)

	assert.Len(t, Filter(items, Criteria{Query: "PAR"}), 1)
	assert.Len(t, Filter(items, Criteria{Query: "advent"}), 1, "category is searched")

	none := Filter(items, Criteria{Query: "xyz"})
	assert.NotNil(t, none)
	assert.Empty(t, none)

	assert.Len(t, Filter(destinations(), Criteria{Query: "  temples "}), 1, "description is searched, whitespace trimmed")
}

func TestFilterUnsetReturnsCatalog(t *testing.T) {
	items := destinations()
	assert.Equal(t, items, Filter(items, Criteria{}))
}

func TestFilterDimensions(t *testing.T) {
	items := destinations()

	cases := []struct {
		name     string
		criteria Criteria
		want     []int
	}{
		{"category", Criteria{Category: "Asia"}, []int{2, 5}},
		{"tier symbol", Criteria{Tier: "$$"}, []int{2, 3}},
		{"tier name", Criteria{Tier: "luxury"}, []int{5}},
		{"season membership", Criteria{Season: "January"}, []int{3, 5}},
		{"activity membership", Criteria{Activity: "Cultural"}, []int{2, 4}},
		{"conjunction", Criteria{Category: "Asia", Activity: "Beach"}, []int{5}},
		{"conjunction with query", Criteria{Activity: "Beach", Query: "santo"}, []int{1}},
		{"unknown category", Criteria{Category: "Antarctica"}, []int{}},
		{"unknown tier", Criteria{Tier: "$$$$$"}, []int{}},
		{"category is exact", Criteria{Category: "asia"}, []int{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ids(Filter(items, tc.criteria)))
		})
	}
}

func TestFilterIsSubsetWithoutDuplicates(t *testing.T) {
	items := destinations()
	all := map[int]bool{}
	for _, item := range items {
		all[item.ID] = true
	}

	for _, c := range []Criteria{{}, {Category: "Asia"}, {Season: "January"}, {Query: "a"}, {Tier: "$"}} {
		seen := map[int]bool{}
		for _, item := range Apply(items, c, SortNewest) {
			assert.True(t, all[item.ID])
			assert.False(t, seen[item.ID], "duplicate %d", item.ID)
			seen[item.ID] = true
		}
	}
}

func TestSortPopularityTieBreaks(t *testing.T) {
	// 1 and 5 tie on rating and reviews; input order must be kept
	got := Sort(destinations(), SortPopularity)
	assert.Equal(t, []int{2, 1, 5, 3, 4}, ids(got))
}

func TestSortPriceUsesTierOrdinal(t *testing.T) {
	assert.Equal(t, []int{4, 2, 3, 1, 5}, ids(Sort(destinations(), SortPriceAsc)))
	assert.Equal(t, []int{5, 1, 2, 3, 4}, ids(Sort(destinations(), SortPriceDesc)))
}

func TestSortPriceUsesAmount(t *testing.T) {
	trips := []models.CatalogItem{
		{ID: 1, Name: "Tuscany", Price: 1200},
		{ID: 2, Name: "Iceland", Price: 950},
		{ID: 3, Name: "Patagonia", Price: 10000},
		{ID: 4, Name: "Lisbon", Price: 950},
	}
	assert.Equal(t, []int{2, 4, 1, 3}, ids(Sort(trips, SortPriceAsc)))
	assert.Equal(t, []int{3, 1, 2, 4}, ids(Sort(trips, SortPriceDesc)))
}

func TestSortPricePrefersAmountOverTier(t *testing.T) {
	items := []models.CatalogItem{
		{ID: 1, Name: "Lake Como", Tier: models.TierModerate, Price: 5000},
		{ID: 2, Name: "Amalfi", Tier: models.TierPremium, Price: 3000},
		{ID: 3, Name: "Dolomites", Price: 9000},
		{ID: 4, Name: "Sicily", Tier: models.TierBudget},
		{ID: 5, Name: "Capri", Tier: models.TierLuxury},
		{ID: 6, Name: "Puglia", Tier: models.TierBudget, Price: 3000},
	}

	// equal amounts fall back to the tier; unpriced items trail, ordered by tier
	assert.Equal(t, []int{6, 2, 1, 3, 4, 5}, ids(Sort(items, SortPriceAsc)))
	assert.Equal(t, []int{3, 1, 2, 6, 5, 4}, ids(Sort(items, SortPriceDesc)))
}

func TestSortNewest(t *testing.T) {
	assert.Equal(t, []int{5, 4, 3, 2, 1}, ids(Sort(destinations(), SortNewest)))
}

func TestSortDoesNotMutateInput(t *testing.T) {
	items := destinations()
	before := ids(items)
	_ = Sort(items, SortNewest)
	_ = Apply(items, Criteria{}, SortPriceDesc)
	assert.Equal(t, before, ids(items))
}

func TestApplyIsIdempotent(t *testing.T) {
	items := destinations()
	c := Criteria{Activity: "Beach"}
	first := Apply(items, c, SortPriceAsc)
	second := Apply(items, c, SortPriceAsc)
	assert.Equal(t, first, second)
	assert.Equal(t, first, Apply(first, c, SortPriceAsc))
}

func TestParseSortKey(t *testing.T) {
	cases := map[string]SortKey{
		"":           SortPopularity,
		"popularity": SortPopularity,
		"price-low":  SortPriceAsc,
		"priceLow":   SortPriceAsc,
		"price-high": SortPriceDesc,
		"priceHigh":  SortPriceDesc,
		"price-desc": SortPriceDesc,
		"Newest":     SortNewest,
	}
	for in, want := range cases {
		got, err := ParseSortKey(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseSortKey("cheapest")
	assert.True(t, errors.Is(err, ErrInvalidSortKey))
}

func TestParseDimension(t *testing.T) {
	d, err := ParseDimension("continent")
	require.NoError(t, err)
	assert.Equal(t, DimCategory, d)

	d, err = ParseDimension("priceRange")
	require.NoError(t, err)
	assert.Equal(t, DimTier, d)

	_, err = ParseDimension("colour")
	assert.True(t, errors.Is(err, ErrUnknownDimension))
}
