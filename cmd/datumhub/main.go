package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"

	"github.com/datumhub/datumhub/pkg/api"
	"github.com/datumhub/datumhub/pkg/auth"
	"github.com/datumhub/datumhub/pkg/config"
	"github.com/datumhub/datumhub/pkg/httputil"
	"github.com/datumhub/datumhub/pkg/observability"
	"github.com/datumhub/datumhub/pkg/registry"
	"github.com/datumhub/datumhub/pkg/search"
	"github.com/datumhub/datumhub/pkg/storage"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		observability.NewLogger(observability.ErrorLevel, os.Stderr).
			WithError(err).Error("Failed to load configuration")
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, fts, err := storage.Open(ctx, cfg.DBPath)
	if err != nil {
		logger.WithError(err).WithField("path", cfg.DBPath).Error("Failed to open database")
		os.Exit(1)
	}
	defer db.Close()
	if !fts {
		logger.Warn("Full-text index unavailable, searches will use the fallback scan")
	}

	var (
		promRegistry *prometheus.Registry
		metrics      *observability.Metrics
	)
	if cfg.MetricsEnabled {
		promRegistry = prometheus.NewRegistry()
		metrics = observability.NewMetrics(promRegistry)
	}

	store := registry.NewStore(db, fts, logger)
	backfilled, err := store.Backfill(ctx)
	if err != nil {
		logger.WithError(err).Error("Index backfill failed")
		os.Exit(1)
	}
	if backfilled > 0 {
		logger.WithField("rows", backfilled).Info("Backfilled search index")
	}
	if metrics != nil {
		metrics.IndexBackfillRows.Add(float64(backfilled))
	}

	authSvc := auth.NewService(db, cfg.Auth.TokenTTL, logger)
	searcher := search.NewService(db, fts, logger, metrics)
	searcher.SetLimits(cfg.Catalog.DefaultPageSize, cfg.Catalog.MaxPageSize)
	suggester := search.NewSuggester(store, metrics)

	server := api.NewServer(store, searcher, suggester, authSvc, logger, metrics)

	middlewares := httputil.Chain(
		httputil.RequestIDMiddleware,
		httputil.LoggingMiddleware(logger),
		httputil.RecoveryMiddleware(logger),
	)
	var handler http.Handler = server
	if metrics != nil {
		handler = observability.HTTPMetricsMiddleware(metrics)(handler)
	}
	handler = middlewares(handler)

	root := http.NewServeMux()
	root.Handle("/", handler)
	if promRegistry != nil {
		root.Handle("/metrics", observability.MetricsHandler(promRegistry))
	}

	refreshGauges := func(ctx context.Context) {
		if metrics == nil {
			return
		}
		if stats, err := store.Stats(ctx); err == nil {
			metrics.PackagesTotal.Set(float64(stats.Datasets))
		}
		if users, err := authSvc.CountUsers(ctx); err == nil {
			metrics.UsersTotal.Set(float64(users))
		}
	}
	refreshGauges(ctx)

	// Periodic sweep of expired credentials so the token table doesn't grow
	// without bound. The population gauges piggyback on the same schedule.
	sweeper := cron.New()
	if _, err := sweeper.AddFunc(cfg.Auth.TokenSweepSchedule, func() {
		pruned, err := authSvc.PruneExpired(context.Background())
		if err != nil {
			logger.WithError(err).Error("Token sweep failed")
			return
		}
		if pruned > 0 {
			logger.WithField("pruned", pruned).Info("Removed expired tokens")
		}
		refreshGauges(context.Background())
	}); err != nil {
		logger.WithError(err).WithField("schedule", cfg.Auth.TokenSweepSchedule).
			Error("Invalid token sweep schedule")
		os.Exit(1)
	}
	sweeper.Start()
	defer sweeper.Stop()

	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      root,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithField("addr", addr).Info("Starting datumhub registry server")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("Server failed")
			os.Exit(1)
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Graceful shutdown failed")
		os.Exit(1)
	}
	logger.Info("Server stopped")
}
