package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Registry metrics
	PublishesTotal    *prometheus.CounterVec
	UnpublishesTotal  *prometheus.CounterVec
	SearchesTotal     *prometheus.CounterVec
	SearchFallbacks   prometheus.Counter
	SuggestionsTotal  prometheus.Counter
	IndexBackfillRows prometheus.Counter

	// Business metrics
	PackagesTotal prometheus.Gauge
	UsersTotal    prometheus.Gauge
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "datumhub_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "datumhub_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		PublishesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "datumhub_publishes_total",
				Help: "Total number of publish operations",
			},
			[]string{"status"},
		),
		UnpublishesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "datumhub_unpublishes_total",
				Help: "Total number of unpublish operations",
			},
			[]string{"status"},
		),
		SearchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "datumhub_searches_total",
				Help: "Total number of catalog searches",
			},
			[]string{"mode"},
		),
		SearchFallbacks: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "datumhub_search_fallbacks_total",
				Help: "Searches that degraded from the FTS index to a substring scan",
			},
		),
		SuggestionsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "datumhub_suggestions_total",
				Help: "Total number of suggestion lookups",
			},
		),
		IndexBackfillRows: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "datumhub_index_backfill_rows_total",
				Help: "Search documents created by startup backfill",
			},
		),

		PackagesTotal: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "datumhub_packages_total",
				Help: "Total number of published package versions",
			},
		),
		UsersTotal: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "datumhub_users_total",
				Help: "Total number of registered users",
			},
		),
	}

	// Register all metrics
	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.PublishesTotal,
		m.UnpublishesTotal,
		m.SearchesTotal,
		m.SearchFallbacks,
		m.SuggestionsTotal,
		m.IndexBackfillRows,
		m.PackagesTotal,
		m.UsersTotal,
	)

	return m
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// HTTPMetricsMiddleware instruments HTTP requests with Prometheus metrics
func HTTPMetricsMiddleware(metrics *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rw := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rw, r)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(rw.statusCode)

			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(duration)
		})
	}
}

// MetricsHandler returns the /metrics endpoint handler for a registry
func MetricsHandler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
