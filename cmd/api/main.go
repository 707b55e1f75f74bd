package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mexared-ledger/config"
	apidocs "mexared-ledger/docs/api"
	"mexared-ledger/internal/adapter/events"
	httpHandler "mexared-ledger/internal/adapter/http/handler"
	"mexared-ledger/internal/adapter/metrics"
	"mexared-ledger/internal/adapter/scheduler"
	redisStorage "mexared-ledger/internal/adapter/storage/redis"
	"mexared-ledger/internal/app"
	"mexared-ledger/internal/core/ports"
	"mexared-ledger/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load configuration
	cfg, err := config.Load(os.Getenv("MXL_CONFIG_FILE"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)
	gin.SetMode(cfg.Server.Mode)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Str("storage", cfg.Storage.Driver).
		Int("port", cfg.Server.Port).
		Msg("Starting MexaRed ledger")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("jwt.secret is required (MXL_JWT_SECRET)")
	}

	ctx := context.Background()

	// Storage: PostgreSQL (schema migrated on boot) or the in-memory store
	st, err := app.OpenStorage(ctx, cfg, true, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open storage")
	}
	defer st.Close()

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// Metrics
	recorder := metrics.NewRecorder(prometheus.DefaultRegisterer)

	// Event fan-out to the Redis stream
	sink := redisStorage.NewEventStreamSink(rdb, cfg.Events.Stream, cfg.Events.MaxLen)
	dispatcher := events.NewDispatcher(sink, cfg.Events.BufferSize, log, events.WithMetrics(recorder))
	dispatcher.Start(ctx)

	// Initialize business services
	svcs, err := app.NewServices(cfg, st, app.Deps{
		Publisher:   dispatcher,
		Idempotency: redisStorage.NewIdempotencyCache(rdb),
		Metrics:     recorder,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}

	// Nightly reconciliation
	var sched *scheduler.Scheduler
	if cfg.Reconcile.Enabled {
		sched, err = scheduler.New(cfg.Reconcile.Schedule, svcs.Recon, cfg.Reconcile.Timeout, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize reconciliation scheduler")
		}
		sched.Start()
	}

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		WalletSvc:      svcs.Wallet,
		TransferSvc:    svcs.Transfer,
		MarginSvc:      svcs.Margin,
		ReconSvc:       svcs.Recon,
		Resolver:       svcs.Resolver,
		TokenSvc:       svcs.Token,
		RateLimitStore: redisStorage.NewRateLimitStore(rdb),
		HealthCheckers: []ports.HealthChecker{st.Health, redisStorage.NewHealthCheck(rdb)},
		Metrics:        promhttp.Handler(),
		OpenAPISpec:    apidocs.OpenAPI,
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	if sched != nil {
		if err := sched.Stop(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Reconciliation run still in progress at shutdown")
		}
	}
	if err := dispatcher.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Int("pending", dispatcher.Pending()).Msg("Events left undelivered at shutdown")
	}

	log.Info().Msg("Server exited")
}
