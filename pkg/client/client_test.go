package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terra-clan/travel-catalog/internal/api"
	"github.com/terra-clan/travel-catalog/internal/carousel"
	"github.com/terra-clan/travel-catalog/internal/catalog"
	"github.com/terra-clan/travel-catalog/internal/config"
	"github.com/terra-clan/travel-catalog/internal/content"
	"github.com/terra-clan/travel-catalog/internal/forms"
	"github.com/terra-clan/travel-catalog/internal/models"
	"github.com/terra-clan/travel-catalog/internal/view"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	loader := catalog.NewLoader()
	loader.Add(catalog.Document{
		Name:      "trips",
		Title:     "Curated Trips",
		Spotlight: &models.Spotlight{ID: 11, Title: "Trip of the month"},
		Items: []catalog.RawItem{
			{ID: 10, Title: "Alpine Trek", Description: "Hut to hut", Category: "Adventure", PriceRange: "$$", Price: 1200, Rating: 4.6, Reviews: 40, Activities: []string{"hiking"}},
			{ID: 11, Title: "Riviera Escape", Description: "Sun and sea", Category: "Relaxation", PriceRange: "$$$", Price: 2400, Rating: 4.8, Reviews: 90},
			{ID: 12, Title: "Desert Nights", Description: "Dunes and stars", Category: "Adventure", PriceRange: "$$", Price: 900, Rating: 4.6, Reviews: 55},
		},
		Testimonials: []models.Testimonial{
			{ID: 1, Name: "Ana", Rating: 5, Comment: "Loved it"},
			{ID: 2, Name: "Bo", Rating: 4, Comment: "Smooth trip"},
			{ID: 3, Name: "Cy", Rating: 5, Comment: "Would book again"},
		},
	})

	views := view.NewRegistry(view.Options{Clock: carousel.NewManualClock()}, time.Hour)
	t.Cleanup(views.CloseAll)

	srv := api.NewServer(config.ServerConfig{}, config.CORSConfig{}, api.Deps{
		Catalogs: loader,
		Pages:    content.NewPages(t.TempDir(), "about"),
		Views:    views,
		Forms:    forms.New(),
	})
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	return NewClient(ts.URL, WithTimeout(5*time.Second))
}

func itemIDs(items []models.CatalogItem) []int {
	ids := make([]int, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}

func TestClientCatalogs(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.Health(ctx))

	routes, err := c.Routes(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, routes)

	catalogs, err := c.ListCatalogs(ctx)
	require.NoError(t, err)
	require.Len(t, catalogs, 1)
	assert.Equal(t, "trips", catalogs[0].Name)

	items, err := c.ListItems(ctx, "trips", ItemFilter{Category: "Adventure"}, "price-low")
	require.NoError(t, err)
	assert.Equal(t, []int{12, 10}, itemIDs(items))

	items, err = c.ListItems(ctx, "trips", ItemFilter{Activity: "hiking"}, "")
	require.NoError(t, err)
	assert.Equal(t, []int{10}, itemIDs(items))

	item, err := c.GetItem(ctx, "trips", 10)
	require.NoError(t, err)
	assert.Equal(t, "Alpine Trek", item.Name)
	assert.Equal(t, "Hut to hut", item.Detail)

	spot, err := c.Spotlight(ctx, "trips")
	require.NoError(t, err)
	assert.Equal(t, 11, spot.ID)

	_, err = c.GetItem(ctx, "trips", 99)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "not_found", apiErr.Code)

	_, err = c.Page(ctx, "about")
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "content_unavailable", apiErr.Code)
}

func TestClientViews(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	v, err := c.CreateView(ctx, "trips")
	require.NoError(t, err)
	require.NotEmpty(t, v.ID)
	assert.Equal(t, []int{11, 12, 10}, itemIDs(v.State.Items))
	assert.Equal(t, 3, v.State.Carousel.Count)

	st, err := c.Select(ctx, v.ID, "category", "Adventure")
	require.NoError(t, err)
	assert.Equal(t, []int{12, 10}, itemIDs(st.Items))
	assert.Equal(t, "Adventure", st.Criteria.Category)

	// selecting the active value clears it
	st, err = c.Select(ctx, v.ID, "category", "Adventure")
	require.NoError(t, err)
	assert.Equal(t, 3, st.Total)

	st, err = c.Sort(ctx, v.ID, "price-high")
	require.NoError(t, err)
	assert.Equal(t, []int{11, 10, 12}, itemIDs(st.Items))

	st, err = c.Query(ctx, v.ID, "dunes")
	require.NoError(t, err)
	assert.Equal(t, []int{12}, itemIDs(st.Items))

	st, err = c.Carousel(ctx, v.ID, "prev", 0)
	require.NoError(t, err)
	assert.Equal(t, 2, st.Carousel.Index)
	assert.Equal(t, "paused", st.Carousel.State)

	st, err = c.Reset(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "popularity", st.Sort)
	assert.Equal(t, 3, st.Total)

	got, err := c.GetView(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, st.Version, got.State.Version)

	require.NoError(t, c.DeleteView(ctx, v.ID))
	_, err = c.GetView(ctx, v.ID)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestClientSubmitForm(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	resp, err := c.SubmitForm(ctx, "contact", map[string]string{
		"name":    "Ana",
		"email":   "ana@example.com",
		"message": "Do you run trips in winter?",
	})
	require.NoError(t, err)
	assert.True(t, resp.Accepted)
	assert.Equal(t, "contact", resp.Form)

	_, err = c.SubmitForm(ctx, "auth", map[string]string{"mode": "signup", "email": "ana@example.com", "password": "123"})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	assert.Equal(t, "is required", apiErr.Fields["name"])
	assert.Equal(t, "Password must be at least 6 characters", apiErr.Fields["password"])
}
