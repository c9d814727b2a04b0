package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Catalog source kinds
const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

// Config holds all configuration for travel-catalog
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Catalog   CatalogConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Views     ViewsConfig
	Carousel  CarouselConfig
	CORS      CORSConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string
	Port int
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level slog.Level
}

// CatalogConfig selects where catalogs and page content come from
type CatalogConfig struct {
	Source     string
	Dir        string
	ContentDir string
}

// DatabaseConfig holds PostgreSQL configuration. An empty DSN disables it.
type DatabaseConfig struct {
	DSN           string
	MigrationsDir string
	MaxConns      int
}

// RedisConfig holds Redis configuration. An empty address disables rate limiting.
type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

// RateLimitConfig bounds form submissions per client
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// ViewsConfig controls view expiry
type ViewsConfig struct {
	IdleTimeout     time.Duration
	CleanupInterval time.Duration
}

// CarouselConfig holds testimonial rotation timings
type CarouselConfig struct {
	Interval time.Duration
	Cooldown time.Duration
}

// CORSConfig holds allowed origins
type CORSConfig struct {
	AllowedOrigins []string
}

// Load loads configuration from an optional .env file and environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Log: LogConfig{
			Level: getEnvAsLevel("LOG_LEVEL", slog.LevelInfo),
		},
		Catalog: CatalogConfig{
			Source:     strings.ToLower(getEnv("CATALOG_SOURCE", SourceFile)),
			Dir:        getEnv("CATALOG_DIR", "./data/catalogs"),
			ContentDir: getEnv("CONTENT_DIR", "./data/content"),
		},
		Database: DatabaseConfig{
			DSN:           getEnv("DATABASE_DSN", ""),
			MigrationsDir: getEnv("DATABASE_MIGRATIONS_DIR", "./migrations"),
			MaxConns:      getEnvAsInt("DATABASE_MAX_CONNS", 4),
		},
		Redis: RedisConfig{
			Address:  getEnv("REDIS_ADDRESS", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		RateLimit: RateLimitConfig{
			Requests: getEnvAsInt("RATE_LIMIT_REQUESTS", 10),
			Window:   getEnvAsDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
		Views: ViewsConfig{
			IdleTimeout:     getEnvAsDuration("VIEW_IDLE_TIMEOUT", 30*time.Minute),
			CleanupInterval: getEnvAsDuration("VIEW_CLEANUP_INTERVAL", time.Minute),
		},
		Carousel: CarouselConfig{
			Interval: getEnvAsDuration("CAROUSEL_INTERVAL", 5*time.Second),
			Cooldown: getEnvAsDuration("CAROUSEL_COOLDOWN", 10*time.Second),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch c.Catalog.Source {
	case SourceFile:
		if c.Catalog.Dir == "" {
			return fmt.Errorf("catalog dir is required for the file source")
		}
	case SourcePostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("database DSN is required for the postgres source")
		}
	default:
		return fmt.Errorf("invalid catalog source: %q", c.Catalog.Source)
	}

	if c.Database.MaxConns < 1 {
		return fmt.Errorf("invalid database max conns: %d", c.Database.MaxConns)
	}

	if c.Redis.Address != "" && (c.RateLimit.Requests < 1 || c.RateLimit.Window <= 0) {
		return fmt.Errorf("rate limit needs positive requests and window, got %d per %s",
			c.RateLimit.Requests, c.RateLimit.Window)
	}

	if c.Views.IdleTimeout <= 0 || c.Views.CleanupInterval <= 0 {
		return fmt.Errorf("view idle timeout and cleanup interval must be positive")
	}

	if c.Carousel.Interval <= 0 || c.Carousel.Cooldown <= 0 {
		return fmt.Errorf("carousel interval and cooldown must be positive")
	}

	return nil
}

// Address returns the host:port the server listens on
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsLevel(key string, defaultValue slog.Level) slog.Level {
	if value, exists := os.LookupEnv(key); exists {
		var level slog.Level
		if err := level.UnmarshalText([]byte(value)); err == nil {
			return level
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
