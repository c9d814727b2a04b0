package catalog

import "fmt"

// FilterState tracks single-select filter choices and the sort key across
// user interaction. It is not safe for concurrent use; owners serialize access.
type FilterState struct {
	criteria Criteria
	sort     SortKey
}

// NewFilterState returns a state with nothing selected and the default sort
func NewFilterState() *FilterState {
	return &FilterState{sort: DefaultSortKey}
}

// Select sets a dimension to value. Selecting the value that is already
// selected clears the dimension.
func (s *FilterState) Select(d Dimension, value string) error {
	switch d {
	case DimCategory, DimTier, DimSeason, DimActivity:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDimension, d)
	}

	if s.criteria.Get(d) == value {
		s.criteria.set(d, "")
		return nil
	}
	s.criteria.set(d, value)
	return nil
}

// SetQuery replaces the free-text query
func (s *FilterState) SetQuery(q string) {
	s.criteria.Query = q
}

// SetSort replaces the sort key
func (s *FilterState) SetSort(key SortKey) error {
	if !key.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidSortKey, key)
	}
	s.sort = key
	return nil
}

// Reset clears every dimension and the query and restores the default sort
func (s *FilterState) Reset() {
	s.criteria = Criteria{}
	s.sort = DefaultSortKey
}

// Criteria returns the current selections
func (s *FilterState) Criteria() Criteria {
	return s.criteria
}

// SortKey returns the current sort key
func (s *FilterState) SortKey() SortKey {
	return s.sort
}
