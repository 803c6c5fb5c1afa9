// Copyright (c) 2026 Carbongold. All rights reserved.

// Command api is the entry point for the Carbongold documents portal server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Connect to the object store (MinIO / S3).
//  6. Run database migrations (idempotent).
//  7. Wire HTTP handlers.
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

	"github.com/carbongold/documents/internal/api"
	"github.com/carbongold/documents/internal/core/attachment"
	"github.com/carbongold/documents/internal/core/category"
	"github.com/carbongold/documents/internal/core/document"
	"github.com/carbongold/documents/internal/core/review"
	"github.com/carbongold/documents/internal/platform/config"
	"github.com/carbongold/documents/internal/platform/constants"
	"github.com/carbongold/documents/internal/platform/middleware"
	"github.com/carbongold/documents/internal/platform/migration"
	pgstore "github.com/carbongold/documents/internal/platform/postgres"
	redisstore "github.com/carbongold/documents/internal/platform/redis"
	"github.com/carbongold/documents/internal/platform/sec"
	"github.com/carbongold/documents/internal/render"
	"github.com/carbongold/documents/internal/storage"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("service_initializing")

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

	// ── 5. Object Store ───────────────────────────────────────────────────
	blobs, err := storage.NewMinIO(cfg)
	must(log, err, "connect to object store")

	// ── 6. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 7. Token Verification ─────────────────────────────────────────────
	// Tokens are issued by the platform's identity provider; this service
	// only verifies them.
	verifier, err := sec.NewTokenVerifier(cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize token verifier")

	// ── 8. Portal Renderer ────────────────────────────────────────────────
	renderer, err := render.NewHTMLRenderer()
	must(log, err, "parse portal templates")

	// ── 9. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 10. Domain Wiring ─────────────────────────────────────────────────
	categoryRepository := category.NewPostgresRepository(pool)
	categoryService := category.NewService(categoryRepository, log, cfg.CategoryMaxDepth)
	categoryHandler := category.NewHandler(categoryService)

	documentRepository := document.NewPostgresRepository(pool)
	documentService := document.NewService(documentRepository, blobs, categoryService, log, document.Policy{
		MaxUploadBytes: cfg.DocumentMaxUploadBytes,
		AllowZip:       cfg.AllowZipDocuments,
	})
	documentHandler := document.NewHandler(documentService, renderer)

	reviewRepository := review.NewPostgresRepository(pool)
	reviewService := review.NewService(reviewRepository, documentRepository, rdb, log, cfg.ReviewAutoPublish)
	reviewHandler := review.NewHandler(reviewService)

	attachmentRepository := attachment.NewPostgresRepository(pool)
	attachmentService := attachment.NewService(attachmentRepository, blobs, log, cfg.AttachmentMaxUploadBytes)
	attachmentHandler := attachment.NewHandler(attachmentService)

	// ── 11. HTTP Server ───────────────────────────────────────────────────
	limiterStop := make(chan struct{})
	defer close(limiterStop)
	limiter := middleware.NewLimiter(limiterStop)

	handlers := api.Handlers{
		Liveness:   liveness,
		Readiness:  readiness,
		Category:   categoryHandler,
		Document:   documentHandler,
		Review:     reviewHandler,
		Attachment: attachmentHandler,
	}

	server := api.NewServer(cfg, log, verifier, limiter, handlers)

	// ── 12. Graceful Shutdown ─────────────────────────────────────────────
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
