// Package view owns the per-view interaction state: filter selections, the
// sort key, the derived item list and the testimonial carousel.
package view

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/terra-clan/travel-catalog/internal/carousel"
	"github.com/terra-clan/travel-catalog/internal/catalog"
	"github.com/terra-clan/travel-catalog/internal/models"
)

var (
	ErrViewNotFound  = errors.New("view not found")
	ErrViewClosed    = errors.New("view is closed")
	ErrUnknownAction = errors.New("unknown action")
)

// Carousel actions
const (
	ActionNext = "next"
	ActionPrev = "prev"
	ActionGoTo = "goto"
)

// State is the derived, filtered-and-sorted projection a view displays
type State struct {
	ID          string               `json:"id"`
	Catalog     string               `json:"catalog"`
	Criteria    catalog.Criteria     `json:"criteria"`
	Sort        catalog.SortKey      `json:"sort"`
	Items       []models.CatalogItem `json:"items"`
	Total       int                  `json:"total"`
	Carousel    carousel.Snapshot    `json:"carousel"`
	Testimonial *models.Testimonial  `json:"testimonial,omitempty"`
	Version     uint64               `json:"version"`
	Closed      bool                 `json:"closed,omitempty"`
}

// Observer receives the new state after every change. Observers run while
// the view is locked and must not call back into it.
type Observer func(State)

// Options configures views
type Options struct {
	CarouselInterval time.Duration
	CarouselCooldown time.Duration
	Clock            carousel.Clock
}

// View is owned by a single client. Every event runs to completion under
// the view's lock before the next one is processed.
type View struct {
	id  string
	cat *catalog.Catalog

	mu        sync.Mutex
	filters   *catalog.FilterState
	items     []models.CatalogItem
	rotator   *carousel.Rotator
	observers map[int]Observer
	nextObs   int
	version   uint64
	closed    bool
}

// New creates a view over cat and starts its carousel
func New(id string, cat *catalog.Catalog, opts Options) *View {
	v := &View{
		id:        id,
		cat:       cat,
		filters:   catalog.NewFilterState(),
		observers: make(map[int]Observer),
	}
	v.rotator = carousel.New(len(cat.Testimonials), carousel.Options{
		Interval: opts.CarouselInterval,
		Cooldown: opts.CarouselCooldown,
		Clock:    opts.Clock,
		OnChange: v.onSlide,
	})
	v.recomputeLocked()
	v.rotator.Start()
	return v
}

// ID returns the view identifier
func (v *View) ID() string {
	return v.id
}

// State returns the current derived state
func (v *View) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.stateLocked()
}

// Subscribe registers an observer; the returned func removes it
func (v *View) Subscribe(fn Observer) (cancel func()) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return func() {}
	}
	id := v.nextObs
	v.nextObs++
	v.observers[id] = fn
	return func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		delete(v.observers, id)
	}
}

// Select toggles a filter dimension
func (v *View) Select(d catalog.Dimension, value string) (State, error) {
	return v.update(func(fs *catalog.FilterState) error {
		return fs.Select(d, value)
	})
}

// SetQuery replaces the free-text query
func (v *View) SetQuery(q string) (State, error) {
	return v.update(func(fs *catalog.FilterState) error {
		fs.SetQuery(q)
		return nil
	})
}

// SetSort replaces the sort key
func (v *View) SetSort(key catalog.SortKey) (State, error) {
	return v.update(func(fs *catalog.FilterState) error {
		return fs.SetSort(key)
	})
}

// Reset clears every filter and restores the default sort
func (v *View) Reset() (State, error) {
	return v.update(func(fs *catalog.FilterState) error {
		fs.Reset()
		return nil
	})
}

// Carousel applies a manual carousel action
func (v *View) Carousel(action string, index int) (State, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return State{}, ErrViewClosed
	}

	switch action {
	case ActionNext:
		v.rotator.Next()
	case ActionPrev:
		v.rotator.Prev()
	case ActionGoTo:
		if _, err := v.rotator.GoTo(index); err != nil {
			return v.stateLocked(), err
		}
	default:
		return v.stateLocked(), fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}

	v.version++
	state := v.stateLocked()
	v.notifyLocked(state)
	return state, nil
}

// Close stops the carousel timers, hands observers a final state with
// Closed set and drops them. It is idempotent.
func (v *View) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.closed = true
	v.rotator.Stop()
	v.version++
	v.notifyLocked(v.stateLocked())
	v.observers = nil
}

// Closed reports whether Close has been called
func (v *View) Closed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.closed
}

func (v *View) update(fn func(*catalog.FilterState) error) (State, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return State{}, ErrViewClosed
	}
	if err := fn(v.filters); err != nil {
		return v.stateLocked(), err
	}

	v.recomputeLocked()
	state := v.stateLocked()
	v.notifyLocked(state)
	return state, nil
}

func (v *View) onSlide(carousel.Snapshot) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.version++
	v.notifyLocked(v.stateLocked())
}

func (v *View) recomputeLocked() {
	v.items = v.cat.Query(v.filters.Criteria(), v.filters.SortKey())
	v.version++
}

func (v *View) stateLocked() State {
	slide := v.rotator.Snapshot()
	s := State{
		ID:       v.id,
		Catalog:  v.cat.Name,
		Criteria: v.filters.Criteria(),
		Sort:     v.filters.SortKey(),
		Items:    v.items,
		Total:    len(v.items),
		Carousel: slide,
		Version:  v.version,
		Closed:   v.closed,
	}
	if slide.Count > 0 {
		t := v.cat.Testimonials[slide.Index]
		s.Testimonial = &t
	}
	return s
}

func (v *View) notifyLocked(s State) {
	for _, fn := range v.observers {
		fn(s)
	}
}
