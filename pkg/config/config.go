package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/datumhub/datumhub/pkg/observability"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Path to the SQLite database file
	DBPath string

	// Auth configuration
	Auth AuthConfig

	// Catalog configuration
	Catalog CatalogConfig

	// Logging
	LogLevel observability.LogLevel

	// Metrics
	MetricsEnabled bool
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// AuthConfig holds credential lifecycle settings
type AuthConfig struct {
	// TokenTTL is the fixed expiry horizon of issued bearer tokens
	TokenTTL time.Duration

	// TokenSweepSchedule is the cron expression for pruning expired tokens
	TokenSweepSchedule string
}

// CatalogConfig holds listing/search pagination bounds
type CatalogConfig struct {
	DefaultPageSize int
	MaxPageSize     int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("DATUMHUB_HOST", "0.0.0.0"),
			Port:            getEnv("DATUMHUB_PORT", "8000"),
			ReadTimeout:     getEnvDuration("DATUMHUB_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvDuration("DATUMHUB_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:     getEnvDuration("DATUMHUB_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvDuration("DATUMHUB_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		DBPath: getEnv("DATUMHUB_DB", "datumhub.db"),
		Auth: AuthConfig{
			TokenTTL:           getEnvDuration("DATUMHUB_TOKEN_TTL", 30*24*time.Hour),
			TokenSweepSchedule: getEnv("DATUMHUB_TOKEN_SWEEP_SCHEDULE", "@hourly"),
		},
		Catalog: CatalogConfig{
			DefaultPageSize: getEnvInt("DATUMHUB_DEFAULT_PAGE_SIZE", 20),
			MaxPageSize:     getEnvInt("DATUMHUB_MAX_PAGE_SIZE", 500),
		},
		LogLevel:       parseLogLevel(getEnv("DATUMHUB_LOG_LEVEL", "info")),
		MetricsEnabled: getEnvBool("DATUMHUB_METRICS_ENABLED", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.DBPath == "" {
		return fmt.Errorf("database path is required")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("token TTL must be positive")
	}
	if c.Catalog.DefaultPageSize < 1 {
		return fmt.Errorf("default page size must be at least 1")
	}
	if c.Catalog.MaxPageSize < c.Catalog.DefaultPageSize {
		return fmt.Errorf("max page size must be at least the default page size")
	}
	return nil
}

// parseLogLevel parses a log level string
func parseLogLevel(level string) observability.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return observability.DebugLevel
	case "info":
		return observability.InfoLevel
	case "warn", "warning":
		return observability.WarnLevel
	case "error":
		return observability.ErrorLevel
	default:
		return observability.InfoLevel
	}
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
