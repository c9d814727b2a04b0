package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/terra-clan/travel-catalog/internal/catalog"
	"github.com/terra-clan/travel-catalog/internal/config"
	"github.com/terra-clan/travel-catalog/internal/content"
	"github.com/terra-clan/travel-catalog/internal/forms"
	"github.com/terra-clan/travel-catalog/internal/ratelimit"
	"github.com/terra-clan/travel-catalog/internal/services"
	"github.com/terra-clan/travel-catalog/internal/view"
)

// Deps are the components the server routes to
type Deps struct {
	Catalogs *catalog.Loader
	Pages    *content.Pages
	Views    *view.Registry
	Forms    *forms.Validator
	Checks   *services.Registry
	// Limiter guards form submissions; nil disables rate limiting
	Limiter *ratelimit.Limiter
}

// Server represents the HTTP API server
type Server struct {
	config   config.ServerConfig
	origins  []string
	router   *chi.Mux
	catalogs *catalog.Loader
	pages    *content.Pages
	views    *view.Registry
	forms    *forms.Validator
	checks   *services.Registry
	limiter  *ratelimit.Limiter
}

// NewServer creates a new API server
func NewServer(cfg config.ServerConfig, corsCfg config.CORSConfig, deps Deps) *Server {
	s := &Server{
		config:   cfg,
		origins:  corsCfg.AllowedOrigins,
		catalogs: deps.Catalogs,
		pages:    deps.Pages,
		views:    deps.Views,
		forms:    deps.Forms,
		checks:   deps.Checks,
		limiter:  deps.Limiter,
	}
	if s.checks == nil {
		s.checks = services.NewRegistry()
	}
	if len(s.origins) == 0 {
		s.origins = []string{"*"}
	}
	s.setupRouter()
	return s
}

// Router returns the configured router
func (s *Server) Router() http.Handler {
	return s.router
}

// setupRouter configures all routes and middleware
func (s *Server) setupRouter() {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Route("/api/v1", func(r chi.Router) {
		// The stream is long-lived and must not be cut by the request timeout
		r.With(s.viewCtx).Get("/views/{id}/stream", s.handleViewStream)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(30 * time.Second))

			r.Get("/routes", s.handleListRoutes)
			r.Get("/pages/{name}", s.handleGetPage)

			r.Route("/catalogs", func(r chi.Router) {
				r.Get("/", s.handleListCatalogs)

				r.Route("/{catalog}", func(r chi.Router) {
					r.Use(s.catalogCtx)
					r.Get("/", s.handleGetCatalog)
					r.Get("/items", s.handleListItems)
					r.Get("/items/{itemID}", s.handleGetItem)
					r.Get("/spotlight", s.handleGetSpotlight)
				})
			})

			r.Route("/views", func(r chi.Router) {
				r.Post("/", s.handleCreateView)

				r.Route("/{id}", func(r chi.Router) {
					r.Use(s.viewCtx)
					r.Get("/", s.handleGetView)
					r.Delete("/", s.handleDeleteView)
					r.Post("/select", s.handleViewSelect)
					r.Post("/query", s.handleViewQuery)
					r.Post("/sort", s.handleViewSort)
					r.Post("/reset", s.handleViewReset)
					r.Post("/carousel", s.handleViewCarousel)
				})
			})

			r.Route("/forms", func(r chi.Router) {
				r.Use(s.rateLimitMiddleware)
				r.Post("/{form}", s.handleSubmitForm)
			})
		})
	})

	s.router = r
}

// loggingMiddleware logs HTTP requests using slog
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			slog.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
				"remote_addr", r.RemoteAddr,
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
