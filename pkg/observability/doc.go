// Package observability provides structured logging and Prometheus metrics.
//
// # Overview
//
// The Logger wraps log/slog with a JSON handler and a chainable field API.
// Metrics collects the registry's counters and histograms against an
// explicit prometheus.Registry so tests can create isolated instances.
//
// # Usage Example
//
//	logger := observability.NewLogger(observability.InfoLevel, os.Stdout)
//	logger.WithField("package_id", id).Info("published")
//
//	registry := prometheus.NewRegistry()
//	metrics := observability.NewMetrics(registry)
//	http.Handle("/metrics", observability.MetricsHandler(registry))
package observability
