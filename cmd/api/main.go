// Copyright (c) 2026 Averio. All rights reserved.
// Author: nhat.vu.dev@gmail.com

// Command api is the entry point for the Averio HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Connect outbound collaborators (AMQP, blob store).
//  7. Wire domain services and HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/nhatvu/averio/internal/api"
	"github.com/nhatvu/averio/internal/identity/account"
	"github.com/nhatvu/averio/internal/identity/admin"
	"github.com/nhatvu/averio/internal/identity/auth"
	"github.com/nhatvu/averio/internal/identity/profile"
	"github.com/nhatvu/averio/internal/identity/verify"
	"github.com/nhatvu/averio/internal/notify"
	"github.com/nhatvu/averio/internal/platform/config"
	"github.com/nhatvu/averio/internal/platform/constants"
	"github.com/nhatvu/averio/internal/platform/metrics"
	"github.com/nhatvu/averio/internal/platform/migration"
	pgstore "github.com/nhatvu/averio/internal/platform/postgres"
	redisstore "github.com/nhatvu/averio/internal/platform/redis"
	"github.com/nhatvu/averio/internal/storage/blob"
)

// tokenSweepInterval is how often expired bearer tokens are purged.
const tokenSweepInterval = 1 * time.Hour

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("[Averio] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Outbound Collaborators ─────────────────────────────────────────
	var sender notify.Sender
	if cfg.AMQPURL != "" {
		publisher, perr := notify.NewPublisher(cfg.AMQPURL, log)
		must(log, perr, "connect to amqp")
		defer func() {
			if cerr := publisher.Close(); cerr != nil {
				log.Error("amqp close error", slog.Any("error", cerr))
			}
		}()
		sender = publisher
	} else {
		log.Warn("amqp_url_not_set_using_noop_sender")
		sender = notify.NewNoopSender(log)
	}

	blobStore, err := blob.NewS3Store(startupCtx, blob.S3Config{
		Bucket:    cfg.S3Bucket,
		Region:    cfg.S3Region,
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
	})
	must(log, err, "initialize blob store")

	// ── 7. Metrics ────────────────────────────────────────────────────────
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)

	// ── 8. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 9. Domain Wiring ──────────────────────────────────────────────────
	accountRepository := account.NewRepository(pool)
	tokenRepository := auth.NewTokenRepository(pool)
	resetTokenRepository := auth.NewResetTokenRepository(rdb)
	linkCodec := verify.NewCodec(cfg.AppSecret)

	authService := auth.NewService(
		accountRepository,
		tokenRepository,
		resetTokenRepository,
		linkCodec,
		sender,
		collector,
		cfg.AppBaseURL,
	)
	authHandler := auth.NewHandler(authService)

	profileService := profile.NewService(accountRepository, blobStore, log)
	profileHandler := profile.NewHandler(profileService)

	adminService := admin.NewService(accountRepository, tokenRepository, collector, log)
	adminHandler := admin.NewHandler(adminService)

	// ── 10. HTTP Server ───────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      authHandler,
		Profile:   profileHandler,
		Admin:     adminHandler,
	}

	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, authService, collector, registry, handlers)

	// Periodic sweep of expired bearer tokens.
	go sweepExpiredTokens(serverCtx, tokenRepository, log)

	// ── 11. Graceful Shutdown ─────────────────────────────────────────────
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
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// sweepExpiredTokens purges expired bearer tokens until ctx is cancelled.
func sweepExpiredTokens(ctx context.Context, tokens auth.TokenRepository, log *slog.Logger) {
	ticker := time.NewTicker(tokenSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			removed, err := tokens.DeleteExpired(ctx, time.Now())
			if err != nil {
				log.Error("token_sweep_failed", slog.Any("error", err))
				continue
			}
			if removed > 0 {
				log.Info("token_sweep_completed", slog.Int("removed", removed))
			}
		case <-ctx.Done():
			return
		}
	}
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
