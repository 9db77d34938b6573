package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/stemsi/ailit-assessment/internal/catalog"
	"github.com/stemsi/ailit-assessment/internal/config"
	"github.com/stemsi/ailit-assessment/internal/database"
	"github.com/stemsi/ailit-assessment/internal/handler"
	"github.com/stemsi/ailit-assessment/internal/logger"
	"github.com/stemsi/ailit-assessment/internal/persistence"
	"github.com/stemsi/ailit-assessment/internal/repository"
	"github.com/stemsi/ailit-assessment/internal/router"
	"github.com/stemsi/ailit-assessment/internal/scoring"
	"github.com/stemsi/ailit-assessment/internal/service"
	"github.com/stemsi/ailit-assessment/internal/validator"
	"github.com/stemsi/ailit-assessment/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting AI literacy assessment service")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	// ─── Load Catalogue ────────────────────────────────────────────────
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.CatalogPath).Msg("Failed to load catalogue")
	}
	log.Info().Int("dimensions", len(cat.Dimensions())).Msg("Catalogue loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	runRepo := repository.NewRunRepository(rdb, cfg.RunTTL)
	resultRepo := repository.NewResultRepository(pool)
	resultQueue := repository.NewResultQueue(rdb)
	dashboardRepo := repository.NewDashboardRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	engine := scoring.NewEngine(cat, log)
	resultService := service.NewResultService(resultQueue, resultRepo, log)

	// The local results store is called directly so participants' saves do
	// not share the public sink's per-IP rate limit.
	var sink persistence.Sink = resultService
	if cfg.SinkURL != "" {
		sink = persistence.NewHTTPSink(cfg.SinkURL, &http.Client{Timeout: cfg.SaveTimeout})
		log.Info().Str("sink_url", cfg.SinkURL).Msg("Using external results sink")
	}
	gateway := persistence.NewGateway(sink, engine, cfg.SaveTimeout, log)

	authService := service.NewAuthService(cfg)
	runService := service.NewRunService(runRepo, engine, gateway, authService, 2*cfg.SaveTimeout, log)
	dashboardService := service.NewDashboardService(dashboardRepo, resultRepo, resultQueue)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:      handler.NewAuthHandler(authService, log),
		Catalog:   handler.NewCatalogHandler(cat),
		Run:       handler.NewRunHandler(runService, cfg.MaxImportBytes, log),
		Result:    handler.NewResultHandler(resultService, cfg.MaxImportBytes, log),
		Admin:     handler.NewAdminHandler(resultService, log),
		Dashboard: handler.NewDashboardHandler(dashboardService, log),
		System:    handler.NewSystemHandler(resultQueue, log),
		WS:        handler.NewWSHandler(runService, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	workerDone := make(chan struct{})

	resultWorker := worker.NewResultWorker(resultQueue, resultRepo, log)
	go func() {
		resultWorker.Start(workerCtx)
		close(workerDone)
	}()

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(ctx, authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests. In-flight finalizations may
	// still be waiting on the sink.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.SaveTimeout+5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the worker and wait for its final flush.
	workerCancel()
	select {
	case <-workerDone:
	case <-time.After(10 * time.Second):
		log.Warn().Msg("Result worker did not stop in time")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
