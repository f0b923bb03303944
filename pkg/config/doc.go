// Package config provides application configuration management from environment variables.
//
// # Overview
//
// This package loads and validates configuration from environment variables
// with sensible defaults for all settings.
//
// # Configuration Structure
//
// Server settings:
//
//	DATUMHUB_HOST="0.0.0.0"
//	DATUMHUB_PORT="8000"
//	DATUMHUB_READ_TIMEOUT="15s"
//	DATUMHUB_WRITE_TIMEOUT="15s"
//	DATUMHUB_SHUTDOWN_TIMEOUT="30s"
//
// Storage settings:
//
//	DATUMHUB_DB="datumhub.db"
//
// Auth settings:
//
//	DATUMHUB_TOKEN_TTL="720h"
//	DATUMHUB_TOKEN_SWEEP_SCHEDULE="@hourly"
//
// Catalog settings:
//
//	DATUMHUB_DEFAULT_PAGE_SIZE="20"
//	DATUMHUB_MAX_PAGE_SIZE="500"
//
// Observability settings:
//
//	DATUMHUB_LOG_LEVEL="info"  # debug, info, warn, error
//	DATUMHUB_METRICS_ENABLED="true"
//
// # Usage Example
//
//	cfg, err := config.LoadConfig()
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("Server: %s:%s\n", cfg.Server.Host, cfg.Server.Port)
package config
