package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/terra-clan/travel-catalog/internal/api"
	"github.com/terra-clan/travel-catalog/internal/catalog"
	"github.com/terra-clan/travel-catalog/internal/cleanup"
	"github.com/terra-clan/travel-catalog/internal/config"
	"github.com/terra-clan/travel-catalog/internal/content"
	"github.com/terra-clan/travel-catalog/internal/forms"
	"github.com/terra-clan/travel-catalog/internal/ratelimit"
	"github.com/terra-clan/travel-catalog/internal/services"
	"github.com/terra-clan/travel-catalog/internal/storage"
	"github.com/terra-clan/travel-catalog/internal/view"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Log.Level,
	}))
	slog.SetDefault(logger)

	slog.Info("starting travel-catalog",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"catalog_source", cfg.Catalog.Source,
	)

	// Create context for initialization
	initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer initCancel()

	checks := services.NewRegistry()

	// Load catalogs. A failed load leaves the catalog set empty and /ready
	// reports not ready; the process keeps serving.
	catalogs := catalog.NewLoader()
	if err := loadCatalogs(initCtx, cfg, catalogs); err != nil {
		slog.Error("failed to load catalogs, starting with an empty catalog set",
			"source", cfg.Catalog.Source,
			"error", err,
		)
	}
	slog.Info("catalogs loaded", "count", catalogs.Len())
	checks.Register(services.NewCatalogChecker(catalogs))

	if cfg.Database.DSN != "" {
		if pg, err := services.NewPostgresChecker(cfg.Database.DSN); err != nil {
			slog.Error("failed to create postgres checker", "error", err)
		} else {
			defer pg.Close()
			checks.Register(pg)
		}
	}

	// Rate limiting is only enabled with a Redis backend
	var limiter *ratelimit.Limiter
	if cfg.Redis.Address != "" {
		client := services.NewRedisClient(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
		defer client.Close()
		checks.Register(services.NewRedisChecker(client))
		limiter = ratelimit.New(ratelimit.NewRedisCounter(client), cfg.RateLimit.Requests, cfg.RateLimit.Window)
		slog.Info("form rate limiting enabled",
			"requests", cfg.RateLimit.Requests,
			"window", cfg.RateLimit.Window,
		)
	}

	views := view.NewRegistry(view.Options{
		CarouselInterval: cfg.Carousel.Interval,
		CarouselCooldown: cfg.Carousel.Cooldown,
	}, cfg.Views.IdleTimeout)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start cleanup worker
	cleanup.NewCleaner(views, cfg.Views.CleanupInterval).Start(ctx)

	// Setup HTTP server
	server := api.NewServer(cfg.Server, cfg.CORS, api.Deps{
		Catalogs: catalogs,
		Pages:    content.NewPages(cfg.Catalog.ContentDir, "about", "home"),
		Views:    views,
		Forms:    forms.New(),
		Checks:   checks,
		Limiter:  limiter,
	})
	httpServer := &http.Server{
		Addr:        cfg.Address(),
		Handler:     server.Router(),
		ReadTimeout: 15 * time.Second,
		// no WriteTimeout: view streams are long-lived
		IdleTimeout: 60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("HTTP server starting", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down gracefully...")

	// Cancel context to stop background workers
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	// Stop carousel timers of every open view
	views.CloseAll()

	slog.Info("travel-catalog stopped")
}

// loadCatalogs fills catalogs from the configured source. The postgres
// connection is only held for the one-off load.
func loadCatalogs(ctx context.Context, cfg *config.Config, catalogs *catalog.Loader) error {
	if cfg.Catalog.Source != config.SourcePostgres {
		return catalogs.LoadFromDir(cfg.Catalog.Dir)
	}

	repo, err := storage.NewPostgresRepository(ctx, storage.PostgresConfig{
		DSN:      cfg.Database.DSN,
		MaxConns: int32(cfg.Database.MaxConns),
	})
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer repo.Close()

	slog.Info("running database migrations", "dir", cfg.Database.MigrationsDir)
	if err := storage.RunMigrations(ctx, repo.Pool(), storage.Migrations(cfg.Database.MigrationsDir)); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return catalogs.LoadFrom(ctx, storage.NewSource(repo))
}
