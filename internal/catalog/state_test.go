package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterStateToggleLaw(t *testing.T) {
	for _, d := range []Dimension{DimCategory, DimTier, DimSeason, DimActivity} {
		s := NewFilterState()
		require.NoError(t, s.Select(d, "value"))
		assert.Equal(t, "value", s.Criteria().Get(d))
		require.NoError(t, s.Select(d, "value"))
		assert.Equal(t, "", s.Criteria().Get(d), "second select of %s clears it", d)
	}
}

func TestFilterStateSingleSelectReplaces(t *testing.T) {
	s := NewFilterState()
	require.NoError(t, s.Select(DimCategory, "Asia"))
	require.NoError(t, s.Select(DimCategory, "Europe"))
	assert.Equal(t, "Europe", s.Criteria().Category)

	// dimensions are independent
	require.NoError(t, s.Select(DimSeason, "May"))
	require.NoError(t, s.Select(DimSeason, "May"))
	assert.Equal(t, "Europe", s.Criteria().Category)
}

func TestFilterStateUnknownDimension(t *testing.T) {
	s := NewFilterState()
	err := s.Select(Dimension("colour"), "red")
	assert.True(t, errors.Is(err, ErrUnknownDimension))
	assert.True(t, s.Criteria().IsZero())
}

func TestFilterStateSortAndReset(t *testing.T) {
	s := NewFilterState()
	assert.Equal(t, SortPopularity, s.SortKey())

	require.NoError(t, s.SetSort(SortNewest))
	assert.Equal(t, SortNewest, s.SortKey())
	assert.True(t, errors.Is(s.SetSort("cheapest"), ErrInvalidSortKey))
	assert.Equal(t, SortNewest, s.SortKey())

	require.NoError(t, s.Select(DimTier, "$$"))
	s.SetQuery("kyo")
	s.Reset()

	assert.True(t, s.Criteria().IsZero())
	assert.Equal(t, SortPopularity, s.SortKey())
}
