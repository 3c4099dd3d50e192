package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/angelmondragon/olist-dashboard/api/routes"
	"github.com/angelmondragon/olist-dashboard/internal/analytics"
	"github.com/angelmondragon/olist-dashboard/internal/bootstrap"
	"github.com/angelmondragon/olist-dashboard/internal/pipeline"
	"github.com/angelmondragon/olist-dashboard/pkg/config"
	"github.com/angelmondragon/olist-dashboard/pkg/instance"
	pkgerrors "github.com/angelmondragon/olist-dashboard/pkg/errors"
	"github.com/angelmondragon/olist-dashboard/pkg/logger"
	"github.com/angelmondragon/olist-dashboard/pkg/metrics"
	"github.com/angelmondragon/olist-dashboard/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	source, closeSource, err := bootstrap.Source(ctx, cfg, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap dataset source", err)
		os.Exit(1)
	}
	defer func() {
		if err := closeSource(); err != nil {
			logg.Error(context.Background(), "error closing dataset source", err)
		}
	}()

	store, err := bootstrap.Store(cfg, source, logg, metrics.NewPipelineMetrics(registry))
	if err != nil {
		logg.Error(ctx, "failed to create fact table store", err)
		os.Exit(1)
	}

	sourceCtx := logg.WithSource(ctx, source.Name())
	if _, err := store.Load(ctx); err != nil {
		if dump := pkgerrors.Dump(err); len(dump.Causes) > 0 {
			sourceCtx = logg.WithField(sourceCtx, "causes", dump.Causes)
		}
		logg.Error(sourceCtx, "failed to prepare fact table", err)
		os.Exit(1)
	}

	var (
		redisClient redis.Pinger
		resultCache analytics.ResultCache
	)
	if cfg.Redis.Enabled() {
		client, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := client.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		redisClient = client
		resultCache = client
	}

	dashboardService, err := analytics.NewService(analytics.ServiceParams{
		Tables:   store,
		Cache:    resultCache,
		CacheTTL: cfg.Redis.CacheTTL,
		Logger:   logg,
		Metrics:  metrics.NewQueryMetrics(registry),
	})
	if err != nil {
		logg.Error(ctx, "failed to create dashboard service", err)
		os.Exit(1)
	}

	if cfg.Data.RefreshInterval > 0 {
		refresher, err := pipeline.NewRefresher(store, logg, cfg.Data.RefreshInterval)
		if err != nil {
			logg.Error(ctx, "failed to create refresher", err)
			os.Exit(1)
		}
		go func() {
			if err := refresher.Run(sourceCtx); err != nil && !errors.Is(err, context.Canceled) {
				logg.Error(sourceCtx, "refresher stopped unexpectedly", err)
			}
		}()
	}

	hangups := make(chan os.Signal, 1)
	signal.Notify(hangups, syscall.SIGHUP)
	defer signal.Stop(hangups)
	go func() {
		if err := pipeline.WatchReloads(sourceCtx, store, logg, hangups); err != nil && !errors.Is(err, context.Canceled) {
			logg.Error(sourceCtx, "reload watcher stopped unexpectedly", err)
		}
	}()

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			store,
			redisClient,
			registry,
			metrics.NewHTTPMetrics(registry),
			dashboardService,
		),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
		}
		logg.Info(ctx, "api server shutting down gracefully")
	}
}
