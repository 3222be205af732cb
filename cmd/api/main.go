package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/smartpersona/backend/internal/api/http"
	"github.com/smartpersona/backend/internal/api/http/handlers"
	"github.com/smartpersona/backend/internal/auth"
	"github.com/smartpersona/backend/internal/config"
	"github.com/smartpersona/backend/internal/events"
	"github.com/smartpersona/backend/internal/observability"
	"github.com/smartpersona/backend/internal/persistence"
	"github.com/smartpersona/backend/internal/ratelimit"
	"github.com/smartpersona/backend/internal/repository"
	"github.com/smartpersona/backend/internal/service"
	"github.com/smartpersona/backend/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	directory := repository.NewCachedDirectory(
		repository.NewUserDirectory(pg.PoolHandle()),
		redis.Client,
		cfg.Redis.AccountCacheTTL,
		logger,
	)

	secrets := auth.NewSecretRegistry(cfg.Auth)
	issuer := auth.NewTokenIssuer(secrets, nil)
	verifier := auth.NewTokenVerifier(secrets, nil)
	limiter := ratelimit.NewLoginLimiter(ratelimit.DefaultMaxAttempts, ratelimit.DefaultWindow)
	go worker.RunLedgerJanitor(ctx, limiter, worker.DefaultJanitorInterval, logger)

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(service.NewAuditService(dispatcher, logger, metrics))

	authService := service.NewAuthService(service.AuthDependencies{
		Directory:  directory,
		Issuer:     issuer,
		Verifier:   verifier,
		Limiter:    limiter,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	accountService := service.NewAccountService(directory, dispatcher, logger)
	transport := auth.NewSessionTransport(cfg.Cookie, cfg.App.Stage)

	app := fiber.New(fiber.Config{
		AppName:     cfg.App.Name,
		ProxyHeader: cfg.App.ProxyHeader,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		}),
		Auth:           handlers.NewAuthHandler(authService, transport),
		Users:          handlers.NewUsersHandler(accountService),
		Admin:          handlers.NewAdminHandler(accountService),
		AuthMiddleware: auth.NewAuthMiddleware(verifier, logger),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()
	logger.Info("server started",
		zap.String("addr", cfg.App.Addr()),
		zap.String("stage", string(cfg.App.Stage)),
	)

	waitForShutdown(logger)

	cancel()
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
