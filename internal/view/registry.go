package view

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/terra-clan/travel-catalog/internal/catalog"
)

// DefaultIdleTimeout is how long a view may go untouched before it expires
const DefaultIdleTimeout = 30 * time.Minute

// Info describes a registered view
type Info struct {
	ID         string    `json:"id"`
	Catalog    string    `json:"catalog"`
	CreatedAt  time.Time `json:"created_at"`
	LastAccess time.Time `json:"last_access"`
	ExpiresAt  time.Time `json:"expires_at"`
}

type entry struct {
	view       *View
	catalog    string
	createdAt  time.Time
	lastAccess time.Time
}

// Registry tracks live views by ID
type Registry struct {
	mu    sync.RWMutex
	views map[string]*entry
	opts  Options
	idle  time.Duration
	now   func() time.Time
}

// NewRegistry creates a registry whose views expire after idle without access
func NewRegistry(opts Options, idle time.Duration) *Registry {
	if idle <= 0 {
		idle = DefaultIdleTimeout
	}
	return &Registry{
		views: make(map[string]*entry),
		opts:  opts,
		idle:  idle,
		now:   time.Now,
	}
}

// Create opens a new view over cat
func (r *Registry) Create(cat *catalog.Catalog) (*View, Info) {
	id := uuid.New().String()
	v := New(id, cat, r.opts)

	now := r.now()
	e := &entry{view: v, catalog: cat.Name, createdAt: now, lastAccess: now}

	r.mu.Lock()
	r.views[id] = e
	r.mu.Unlock()

	slog.Info("view created", "id", id, "catalog", cat.Name)
	return v, r.info(id, e)
}

// Get returns a view and marks it as accessed
func (r *Registry) Get(id string) (*View, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.views[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrViewNotFound, id)
	}
	e.lastAccess = r.now()
	return e.view, nil
}

// Info returns registry metadata for a view
func (r *Registry) Info(id string) (Info, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.views[id]
	if !ok {
		return Info{}, fmt.Errorf("%w: %s", ErrViewNotFound, id)
	}
	return r.info(id, e), nil
}

// Delete closes and removes a view
func (r *Registry) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	e, ok := r.views[id]
	delete(r.views, id)
	r.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrViewNotFound, id)
	}
	e.view.Close()
	slog.Info("view closed", "id", id, "catalog", e.catalog)
	return nil
}

// DeleteIfIdle closes and removes a view only if it is still idle past the
// timeout. It reports false, and keeps the view, when it was accessed since
// it was listed by Expired.
func (r *Registry) DeleteIfIdle(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	e, ok := r.views[id]
	if !ok {
		r.mu.Unlock()
		return false, fmt.Errorf("%w: %s", ErrViewNotFound, id)
	}
	if r.now().Sub(e.lastAccess) < r.idle {
		r.mu.Unlock()
		return false, nil
	}
	delete(r.views, id)
	r.mu.Unlock()

	e.view.Close()
	slog.Info("idle view closed", "id", id, "catalog", e.catalog)
	return true, nil
}

// Expired lists views idle longer than the registry's timeout
func (r *Registry) Expired(_ context.Context) ([]Info, error) {
	now := r.now()

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Info
	for id, e := range r.views {
		if now.Sub(e.lastAccess) >= r.idle {
			out = append(out, r.info(id, e))
		}
	}
	return out, nil
}

// Len returns the number of live views
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.views)
}

// CloseAll closes every view, used on shutdown
func (r *Registry) CloseAll() {
	r.mu.Lock()
	views := r.views
	r.views = make(map[string]*entry)
	r.mu.Unlock()

	for _, e := range views {
		e.view.Close()
	}
}

func (r *Registry) info(id string, e *entry) Info {
	return Info{
		ID:         id,
		Catalog:    e.catalog,
		CreatedAt:  e.createdAt,
		LastAccess: e.lastAccess,
		ExpiresAt:  e.lastAccess.Add(r.idle),
	}
}
