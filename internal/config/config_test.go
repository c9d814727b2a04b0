package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, slog.LevelInfo, cfg.Log.Level)
	assert.Equal(t, SourceFile, cfg.Catalog.Source)
	assert.Equal(t, 5*time.Second, cfg.Carousel.Interval)
	assert.Equal(t, 10*time.Second, cfg.Carousel.Cooldown)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Empty(t, cfg.Redis.Address)
	assert.Equal(t, "0.0.0.0:8080", cfg.Address())
}

func TestLoadFromEnvironment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CATALOG_SOURCE", "Postgres")
	t.Setenv("DATABASE_DSN", "postgres://travel@localhost/travel")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("CAROUSEL_INTERVAL", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, slog.LevelDebug, cfg.Log.Level)
	assert.Equal(t, SourcePostgres, cfg.Catalog.Source)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 5*time.Second, cfg.Carousel.Interval, "unparseable values fall back to defaults")
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("CATALOG_DIR=/srv/catalogs\nVIEW_IDLE_TIMEOUT=5m\n"), 0o644))
	chdir(t, dir)
	t.Cleanup(func() {
		os.Unsetenv("CATALOG_DIR")
		os.Unsetenv("VIEW_IDLE_TIMEOUT")
	})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/srv/catalogs", cfg.Catalog.Dir)
	assert.Equal(t, 5*time.Minute, cfg.Views.IdleTimeout)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: 8080},
			Catalog:  CatalogConfig{Source: SourceFile, Dir: "./data"},
			Database: DatabaseConfig{MaxConns: 4},
			Views:    ViewsConfig{IdleTimeout: time.Minute, CleanupInterval: time.Second},
			Carousel: CarouselConfig{Interval: time.Second, Cooldown: time.Second},
		}
	}
	require.NoError(t, valid().Validate())

	cases := map[string]func(*Config){
		"bad port":             func(c *Config) { c.Server.Port = 0 },
		"unknown source":       func(c *Config) { c.Catalog.Source = "s3" },
		"postgres without dsn": func(c *Config) { c.Catalog.Source = SourcePostgres },
		"redis without limit":  func(c *Config) { c.Redis.Address = "localhost:6379" },
		"zero idle timeout":    func(c *Config) { c.Views.IdleTimeout = 0 },
		"zero cooldown":        func(c *Config) { c.Carousel.Cooldown = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := valid()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

// chdir changes the working directory for the duration of the test,
// matching testing.T.Chdir (Go 1.24+) on older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
