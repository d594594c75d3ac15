// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: huy.dang.dev@gmail.com

// Command api is the entry point for the Inkwell HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Wire HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
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

	"github.com/danghuy/inkwell/internal/access"
	"github.com/danghuy/inkwell/internal/api"
	"github.com/danghuy/inkwell/internal/catalog"
	"github.com/danghuy/inkwell/internal/checkout"
	"github.com/danghuy/inkwell/internal/entitlement"
	"github.com/danghuy/inkwell/internal/platform/config"
	"github.com/danghuy/inkwell/internal/platform/constants"
	"github.com/danghuy/inkwell/internal/platform/middleware"
	"github.com/danghuy/inkwell/internal/platform/migration"
	pgstore "github.com/danghuy/inkwell/internal/platform/postgres"
	redisstore "github.com/danghuy/inkwell/internal/platform/redis"
	"github.com/danghuy/inkwell/internal/platform/sec"
	"github.com/danghuy/inkwell/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", "inkwell"))
	slog.SetDefault(log)

	log.Info("[Inkwell] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "inkwell"))
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

	// ── 6. Security Services ──────────────────────────────────────────────
	jwtSvc, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	backupCipher, err := sec.NewCipher([]byte(cfg.ClaimsBackupSecret))
	must(log, err, "initialize claims backup cipher")

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 8. Identity & Admin Access Gate ───────────────────────────────────
	userRepository := auth.NewUserRepository(pool)
	sessionRepository := auth.NewSessionRepository(pool)
	resetTokenRepository := auth.NewResetTokenRepository(rdb)
	claimsCacheRepository := auth.NewClaimsCacheRepository(rdb)

	claimsSource := auth.NewClaimsSource(userRepository, claimsCacheRepository, log)
	backupStore := access.NewRedisBackupStore(rdb)
	verifier := access.NewVerifier(claimsSource, backupStore, backupCipher, log)
	gatekeeper := access.NewGatekeeper(verifier, access.NewGate(), log)

	authService := auth.NewService(
		userRepository,
		sessionRepository,
		resetTokenRepository,
		claimsCacheRepository,
		jwtSvc,
		gatekeeper,
	)
	authHandler := auth.NewHandler(authService)

	// ── 9. Storefront Domains ─────────────────────────────────────────────
	catalogService := catalog.NewService(catalog.NewPostgresRepository(pool), log)
	catalogHandler := catalog.NewHandler(catalogService)

	entitlementRepository := entitlement.NewPostgresRepository(pool)
	entitlementChecker := entitlement.NewChecker(entitlementRepository, log)
	entitlementHandler := entitlement.NewHandler(entitlementChecker, catalogService)

	checkoutService := checkout.NewService(
		checkout.NewPostgresRepository(pool),
		catalogService,
		entitlementRepository,
		log,
	)
	checkoutHandler := checkout.NewHandler(checkoutService)

	// ── 10. HTTP Server ───────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:    liveness,
		Readiness:   readiness,
		Auth:        authHandler,
		Catalog:     catalogHandler,
		Entitlement: entitlementHandler,
		Checkout:    checkoutHandler,
		Dashboard:   api.NewDashboardHandler(pool, log),
	}

	adminGate := middleware.AdminGate(gatekeeper, sessionRepository)

	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, jwtSvc, adminGate, handlers)

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
