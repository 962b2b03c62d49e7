// Copyright (c) 2026 Bolgeo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Bolgeo HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Load the webtoon catalog.
//  4. Connect to PostgreSQL (pgxpool) and Redis.
//  5. Run database migrations (idempotent) and mirror the catalog.
//  6. Wire domain services and HTTP handlers.
//  7. Start the change listener and the HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/bolgeo/internal/api"
	"github.com/taibuivan/bolgeo/internal/catalog"
	"github.com/taibuivan/bolgeo/internal/library"
	"github.com/taibuivan/bolgeo/internal/platform/config"
	"github.com/taibuivan/bolgeo/internal/platform/constants"
	"github.com/taibuivan/bolgeo/internal/platform/migration"
	pgstore "github.com/taibuivan/bolgeo/internal/platform/postgres"
	redisstore "github.com/taibuivan/bolgeo/internal/platform/redis"
	"github.com/taibuivan/bolgeo/internal/platform/sec"
	"github.com/taibuivan/bolgeo/internal/recommend"
	"github.com/taibuivan/bolgeo/internal/social"
	"github.com/taibuivan/bolgeo/internal/social/live"
	"github.com/taibuivan/bolgeo/internal/users/preference"
	"github.com/taibuivan/bolgeo/internal/users/session"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String(constants.FieldApp, constants.AppName))
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String(constants.FieldVersion, constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	// A missing GEMINI_API_KEY (or any other required key) stops here.
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String(constants.FieldApp, constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("model", cfg.GeminiModel),
	)

	// ── 3. Catalog ────────────────────────────────────────────────────────
	webtoons, err := catalog.Load(cfg.CatalogPath)
	must(log, err, "load catalog")
	log.Info("catalog_loaded", slog.Int("entries", webtoons.Len()))

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 4. PostgreSQL & Redis ─────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing_redis_client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_failed", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations & Catalog Mirror ────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	catalogService := catalog.NewService(webtoons, catalog.NewPostgresRepository(pool), log)
	must(log, catalogService.Sync(startupCtx), "sync catalog")

	// ── 6. Domain Wiring ──────────────────────────────────────────────────
	tokens, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	sessionService := session.NewService(
		session.NewUserRepository(pool),
		session.NewCodeStore(rdb),
		session.NewRevocationStore(rdb),
		tokens,
		session.NewLogMailer(log),
		log,
	)

	preferenceService := preference.NewService(preference.NewRedisStore(rdb), log)

	socialService := social.NewService(social.NewPostgresRepository(pool), preferenceService, log)
	libraryService := library.NewService(webtoons, socialService, log)

	completer := recommend.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiBaseURL, log)
	recommendService := recommend.NewService(completer, webtoons, log)

	broker := social.NewBroker()

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		},
		CheckCache: func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		},
	}, log)

	handlers := api.Handlers{
		Liveness:   liveness,
		Readiness:  readiness,
		Session:    session.NewHandler(sessionService),
		Preference: preference.NewHandler(preferenceService),
		Catalog:    catalog.NewHandler(catalogService, libraryService),
		Library:    library.NewHandler(libraryService),
		Social:     social.NewHandler(socialService),
		Live:       live.NewHandler(socialService, libraryService, broker, cfg.Origins(), log),
		Recommend:  recommend.NewHandler(recommendService, preferenceService),
	}

	// ── 7. Background Workers & HTTP Server ───────────────────────────────
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	listenerDone := make(chan struct{})
	go func() {
		defer close(listenerDone)
		social.NewListener(pool, broker, log).Run(appCtx)
	}()

	server := api.NewServer(appCtx, cfg, log, sessionService, handlers)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_failed", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("server_shutting_down", slog.Duration("timeout", shutdownTimeout))

	shutdownErr := server.Shutdown(shutdownTimeout)

	appCancel()
	<-listenerDone

	if shutdownErr != nil {
		log.Error("shutdown_failed", slog.Any("error", shutdownErr))
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
