package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/terra-clan/travel-catalog/internal/catalog"
	"github.com/terra-clan/travel-catalog/internal/view"
)

type contextKey string

const (
	catalogContextKey contextKey = "catalog"
	viewContextKey    contextKey = "view"
)

// CatalogFromContext extracts the catalog resolved by catalogCtx
func CatalogFromContext(ctx context.Context) *catalog.Catalog {
	c, ok := ctx.Value(catalogContextKey).(*catalog.Catalog)
	if !ok {
		return nil
	}
	return c
}

// ContextWithCatalog adds a catalog to context
func ContextWithCatalog(ctx context.Context, c *catalog.Catalog) context.Context {
	return context.WithValue(ctx, catalogContextKey, c)
}

// ViewFromContext extracts the view resolved by viewCtx
func ViewFromContext(ctx context.Context) *view.View {
	v, ok := ctx.Value(viewContextKey).(*view.View)
	if !ok {
		return nil
	}
	return v
}

// ContextWithView adds a view to context
func ContextWithView(ctx context.Context, v *view.View) context.Context {
	return context.WithValue(ctx, viewContextKey, v)
}

// catalogCtx resolves the {catalog} URL parameter
func (s *Server) catalogCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := s.catalogs.Get(chi.URLParam(r, "catalog"))
		if err != nil {
			respondDomainError(w, r, err, "get catalog")
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithCatalog(r.Context(), c)))
	})
}

// viewCtx resolves the {id} URL parameter and refreshes the view's idle timer
func (s *Server) viewCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v, err := s.views.Get(chi.URLParam(r, "id"))
		if err != nil {
			respondDomainError(w, r, err, "get view")
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithView(r.Context(), v)))
	})
}
