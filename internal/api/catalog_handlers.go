package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/terra-clan/travel-catalog/internal/catalog"
	"github.com/terra-clan/travel-catalog/internal/models"
)

// itemDetail is an item as rendered on its detail page
type itemDetail struct {
	models.CatalogItem
	Detail string `json:"detail"`
}

// Navigation and page handlers

func (s *Server) handleListRoutes(w http.ResponseWriter, r *http.Request) {
	routes := models.Routes()
	respondJSON(w, http.StatusOK, map[string]any{
		"routes": routes,
		"total":  len(routes),
	})
}

func (s *Server) handleGetPage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	page, err := s.pages.Get(name)
	if err != nil {
		respondDomainError(w, r, err, "get page")
		return
	}
	respondJSON(w, http.StatusOK, page)
}

// Catalog handlers

func (s *Server) handleListCatalogs(w http.ResponseWriter, r *http.Request) {
	list := s.catalogs.List()
	summaries := make([]models.CatalogSummary, len(list))
	for i, c := range list {
		summaries[i] = c.Summary()
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"catalogs": summaries,
		"total":    len(summaries),
	})
}

func (s *Server) handleGetCatalog(w http.ResponseWriter, r *http.Request) {
	c := CatalogFromContext(r.Context())
	respondJSON(w, http.StatusOK, map[string]any{
		"catalog":      c.Summary(),
		"facets":       c.Facets(),
		"spotlight":    c.Spotlight,
		"testimonials": c.Testimonials,
		"meta":         c.Meta,
		"sortKeys":     []catalog.SortKey{catalog.SortPopularity, catalog.SortPriceAsc, catalog.SortPriceDesc, catalog.SortNewest},
	})
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	c := CatalogFromContext(r.Context())
	q := r.URL.Query()

	key, err := catalog.ParseSortKey(q.Get("sort"))
	if err != nil {
		respondDomainError(w, r, err, "list items")
		return
	}

	criteria := catalog.Criteria{
		Category: q.Get("category"),
		Tier:     q.Get("tier"),
		Season:   q.Get("season"),
		Activity: q.Get("activity"),
		Query:    q.Get("q"),
	}

	items := c.Query(criteria, key)
	respondJSON(w, http.StatusOK, map[string]any{
		"items":    items,
		"total":    len(items),
		"criteria": criteria,
		"sort":     key,
	})
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	c := CatalogFromContext(r.Context())
	raw := chi.URLParam(r, "itemID")

	id, err := strconv.Atoi(raw)
	if err != nil {
		respondError(w, http.StatusNotFound, "not_found", fmt.Sprintf("no item %q in %s", raw, c.Name))
		return
	}

	item, err := c.Get(id)
	if err != nil {
		respondDomainError(w, r, err, "get item")
		return
	}
	respondJSON(w, http.StatusOK, itemDetail{CatalogItem: item, Detail: item.Detail()})
}

func (s *Server) handleGetSpotlight(w http.ResponseWriter, r *http.Request) {
	c := CatalogFromContext(r.Context())
	item, err := c.SpotlightItem()
	if err != nil {
		respondDomainError(w, r, err, "get spotlight")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"spotlight": c.Spotlight,
		"item":      itemDetail{CatalogItem: item, Detail: item.Detail()},
	})
}
