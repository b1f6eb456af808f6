package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/invoice-service/internal/api/http"
	"github.com/spec-kit/invoice-service/internal/api/http/handlers"
	"github.com/spec-kit/invoice-service/internal/auth"
	"github.com/spec-kit/invoice-service/internal/cache"
	"github.com/spec-kit/invoice-service/internal/config"
	"github.com/spec-kit/invoice-service/internal/observability"
	"github.com/spec-kit/invoice-service/internal/persistence"
	"github.com/spec-kit/invoice-service/internal/repository"
	"github.com/spec-kit/invoice-service/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Env)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(cfg.Postgres.DSN, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
	views := cache.NewViewCache(redis.Client, cfg.Cache.ViewTTL())
	sessions := auth.NewSessionManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL(), auth.NewRedisRevocationStore(redis.Client))

	userRepo := repository.NewUserRepository(pg.Pool)
	invoiceRepo := repository.NewInvoiceRepository(pg.Pool)
	customerRepo := repository.NewCustomerRepository(pg.Pool)

	authService := service.NewAuthService(service.AuthDependencies{
		UserRepo: userRepo,
		Verifier: auth.NewBcryptVerifier(),
		Sessions: sessions,
		Logger:   logger.Named("auth"),
		HashCost: cfg.Auth.BcryptCost,
	})
	invoiceService := service.NewInvoiceService(service.InvoiceDependencies{
		InvoiceRepo:  invoiceRepo,
		CustomerRepo: customerRepo,
		Views:        views,
		Metrics:      metrics,
		Logger:       logger.Named("invoices"),
	})

	app := httptransport.NewApp(httptransport.RouteConfig{
		Health:   handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:     handlers.NewAuthHandler(authService, cfg.Auth.CookieSecure, logger),
		Invoices: handlers.NewInvoicesHandler(invoiceService, views, logger),
		Guard:    auth.NewGuard(sessions, auth.DefaultMatcher(), logger.Named("guard")),
		Metrics:  metrics,
	}, httptransport.MiddlewareConfig{
		AppName: cfg.App.Name,
		Logger:  logger,
		Timeout: cfg.App.RequestTimeout(),
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Warn("shutdown incomplete", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
