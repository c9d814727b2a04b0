package cleanup

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terra-clan/travel-catalog/internal/catalog"
	"github.com/terra-clan/travel-catalog/internal/view"
)

type fakeReaper struct {
	expired   []view.Info
	listErr   error
	deleteErr map[string]error
	active    map[string]bool
	deleted   []string
}

func (f *fakeReaper) Expired(context.Context) ([]view.Info, error) {
	return f.expired, f.listErr
}

func (f *fakeReaper) DeleteIfIdle(_ context.Context, id string) (bool, error) {
	if err := f.deleteErr[id]; err != nil {
		return false, err
	}
	if f.active[id] {
		return false, nil
	}
	f.deleted = append(f.deleted, id)
	return true, nil
}

func TestCleanupClosesExpiredViews(t *testing.T) {
	reaper := &fakeReaper{
		expired: []view.Info{
			{ID: "a", Catalog: "destinations"},
			{ID: "b", Catalog: "trips"},
			{ID: "c", Catalog: "trips"},
		},
		deleteErr: map[string]error{"b": view.ErrViewNotFound},
	}

	c := NewCleaner(reaper, time.Second)
	assert.Equal(t, 2, c.cleanup(context.Background()))
	assert.Equal(t, []string{"a", "c"}, reaper.deleted)
}

func TestCleanupKeepsViewsAccessedSinceListing(t *testing.T) {
	reaper := &fakeReaper{
		expired: []view.Info{{ID: "a"}, {ID: "b"}},
		active:  map[string]bool{"a": true},
	}

	c := NewCleaner(reaper, time.Second)
	assert.Equal(t, 1, c.cleanup(context.Background()))
	assert.Equal(t, []string{"b"}, reaper.deleted)
}

func TestCleanupListError(t *testing.T) {
	reaper := &fakeReaper{listErr: errors.New("boom")}
	c := NewCleaner(reaper, 0)
	assert.Equal(t, time.Minute, c.interval)
	assert.Equal(t, 0, c.cleanup(context.Background()))
	assert.Empty(t, reaper.deleted)
}

func TestCleanupWithRegistry(t *testing.T) {
	reg := view.NewRegistry(view.Options{}, time.Millisecond)
	cat, _ := catalog.Build(catalog.Document{Name: "trips", Items: []catalog.RawItem{{ID: 1, Name: "Lisbon"}}})
	v, _ := reg.Create(cat)

	time.Sleep(5 * time.Millisecond)
	c := NewCleaner(reg, time.Hour)
	require.Equal(t, 1, c.cleanup(context.Background()))
	assert.True(t, v.Closed())
	assert.Equal(t, 0, reg.Len())
}
