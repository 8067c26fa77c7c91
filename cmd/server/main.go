package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/openbudget/adpilot/internal/allocation"
	"github.com/openbudget/adpilot/internal/analytics"
	"github.com/openbudget/adpilot/internal/api"
	"github.com/openbudget/adpilot/internal/config"
	"github.com/openbudget/adpilot/internal/db"
	"github.com/openbudget/adpilot/internal/metricstore"
	"github.com/openbudget/adpilot/internal/middleware"
	"github.com/openbudget/adpilot/internal/observability"
	"github.com/openbudget/adpilot/internal/platforms"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger, err := observability.InitLoggerWithService(cfg.ServiceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}

	defer func() {
		if err := logger.Sync(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to sync logger: %v\n", err)
		}
	}()

	if err := run(logger, cfg); err != nil {
		logger.Error("server error", zap.Error(err))
		os.Exit(1)
	}
}

func run(logger *zap.Logger, cfg config.Config) error {

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.TracingEnabled {
		shutdownTracing, err := observability.InitTracing(ctx, logger, cfg.ServiceName, cfg.OTLPEndpoint, cfg.TracingSampleRate)
		if err != nil {
			return fmt.Errorf("init tracing: %w", err)
		}
		defer shutdownTracing()
	}

	pg, err := db.InitPostgres(cfg.PostgresDSN, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns, cfg.DBConnMaxLifetime, cfg.DBConnMaxIdleTime)
	if err != nil {
		return fmt.Errorf("failed to connect postgres: %w", err)
	}
	defer pg.Close()

	cache, err := db.InitRedis(cfg.RedisAddr, cfg.CacheTTL)
	if err != nil {
		return fmt.Errorf("failed to connect redis: %w", err)
	}
	defer cache.Close()

	store, err := metricstore.InitClickHouse(cfg.ClickHouseDSN, cfg.CHMaxOpenConns, cfg.RetentionDays)
	if err != nil {
		return fmt.Errorf("failed to connect clickhouse: %w", err)
	}
	defer store.Close()

	metricsRegistry := observability.NewPrometheusRegistry()

	adapters := []platforms.Adapter{
		platforms.NewGoogleAds(),
		platforms.NewMetaAds(),
	}

	// Seed campaign records so budget lookups and platform routing work
	// before the first sync cycle completes.
	for _, adapter := range adapters {
		campaigns, err := adapter.ListCampaigns(ctx)
		if err != nil {
			return fmt.Errorf("list %s campaigns: %w", adapter.Platform(), err)
		}
		for _, c := range campaigns {
			if err := pg.UpsertCampaign(ctx, c); err != nil {
				return fmt.Errorf("seed campaign %s: %w", c.ID, err)
			}
		}
	}

	resolver := &db.PerformanceResolver{
		Cache:   cache,
		Store:   store,
		PG:      pg,
		Logger:  logger,
		Metrics: metricsRegistry,
	}

	analyzer := analytics.NewAnalyzer(store, logger, metricsRegistry, cfg.MetricsQueryTimeout)
	engine := allocation.NewEngine(resolver, resolver, logger, metricsRegistry, cfg.MetricsQueryTimeout)

	r := mux.NewRouter()
	srvDeps := api.NewServer(logger, store, cache, pg, analyzer, engine, adapters, metricsRegistry, cfg)
	srvDeps.Routes(r)

	r.Handle("/metrics", promhttp.Handler())
	r.Use(middleware.RequestLogger(logger))

	var handler http.Handler = r
	if cfg.TracingEnabled {
		handler = otelhttp.NewHandler(r, "http.server")
	}

	addr := ":" + cfg.Port

	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	logger.Info("analytics server running", zap.String("addr", addr))

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("listen: %w", err)
		}
	}()

	if cfg.SyncEnabled {
		syncer := &platforms.Syncer{
			Adapters: adapters,
			Store:    store,
			Cache:    cache,
			Sink:     pg,
			Logger:   logger,
			Metrics:  metricsRegistry,
			Interval: cfg.SyncInterval,
		}
		go syncer.Run(ctx)
	}

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	return nil
}
