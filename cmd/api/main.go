// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/partnerdesk/agreements-api/internal/admin"
	"github.com/partnerdesk/agreements-api/internal/agreement"
	"github.com/partnerdesk/agreements-api/internal/bank"
	"github.com/partnerdesk/agreements-api/internal/config"
	"github.com/partnerdesk/agreements-api/internal/core"
	"github.com/partnerdesk/agreements-api/internal/health"
	"github.com/partnerdesk/agreements-api/internal/identity"
	"github.com/partnerdesk/agreements-api/internal/middleware"
	"github.com/partnerdesk/agreements-api/internal/server"
	"github.com/partnerdesk/agreements-api/internal/storage"
	"github.com/partnerdesk/agreements-api/internal/user"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	core.SetProductionCheck(cfg.IsProduction)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	verifier, err := identity.NewVerifier(ctx, cfg.Auth0)
	if err != nil {
		return err
	}
	logger.Info("token verifier initialized",
		"issuer", cfg.Auth0.Issuer(),
	)

	idClient := identity.NewClient(cfg.Auth0)

	uploader, err := storage.NewCloudinaryStore(cfg.Cloudinary)
	if err != nil {
		return err
	}
	logger.Info("object store client initialized",
		"cloud", cfg.Cloudinary.CloudName,
	)

	stateStore := identity.NewStateStore(redis.Client)

	userRepo := user.NewRepository(db.DB)
	userSvc := user.NewService(userRepo, logger)
	userHandler := user.NewHandler(
		userSvc,
		idClient,
		stateStore,
		cfg.Auth0,
		cfg.Frontend.URL,
	)

	bankRepo := bank.NewRepository(db.DB)
	bankSvc := bank.NewService(bankRepo, logger)
	bankHandler := bank.NewHandler(bankSvc)

	agreementRepo := agreement.NewRepository(db.DB)
	agreementSvc := agreement.NewService(
		agreementRepo,
		bankRepo,
		uploader,
		logger,
	)
	agreementHandler := agreement.NewHandler(agreementSvc)

	healthHandler := health.NewHandler()
	healthHandler.AddDependency("database", db)
	healthHandler.AddDependency("redis", redis)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DBStats:    db.Stats,
		RedisStats: redis.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
		Counters: admin.EntityCounters{
			Users:              userRepo.Count,
			UsersByRole:        userRepo.CountByRole,
			Banks:              bankRepo.Count,
			Agreements:         agreementRepo.Count,
			AgreementsByStatus: agreementRepo.CountByStatus,
		},
	})

	srv := server.New(server.Config{
		ServerConfig: cfg.Server,
		Readiness:    healthHandler,
		Logger:       logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
			FailOpen: true,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	verifyOnly := middleware.VerifyOnly(verifier)
	authenticator := middleware.Authenticate(verifier, userSvc)
	adminOnly := middleware.RequireAdmin

	router.Route("/v1", func(r chi.Router) {
		userHandler.RegisterRoutes(r, verifyOnly, authenticator)
		userHandler.RegisterAdminRoutes(r, authenticator, adminOnly)
		bankHandler.RegisterRoutes(r, authenticator, adminOnly)
		agreementHandler.RegisterRoutes(r, authenticator, adminOnly)
		adminHandler.RegisterRoutes(r, authenticator, adminOnly)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
