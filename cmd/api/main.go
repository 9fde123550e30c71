package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/eventhorizon/marketplace/internal/api/http"
	"github.com/eventhorizon/marketplace/internal/api/http/handlers"
	"github.com/eventhorizon/marketplace/internal/auth"
	"github.com/eventhorizon/marketplace/internal/cart"
	"github.com/eventhorizon/marketplace/internal/checkout"
	"github.com/eventhorizon/marketplace/internal/config"
	"github.com/eventhorizon/marketplace/internal/events"
	"github.com/eventhorizon/marketplace/internal/observability"
	"github.com/eventhorizon/marketplace/internal/persistence"
	"github.com/eventhorizon/marketplace/internal/repository"
	"github.com/eventhorizon/marketplace/internal/service"
	"github.com/eventhorizon/marketplace/internal/worker"
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

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	eventRepo := repository.NewEventRepository(pool)
	resetRepo := repository.NewPasswordResetRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	accountService := service.NewAccountService(*cfg, service.AccountDependencies{
		UserRepo:          userRepo,
		PasswordResetRepo: resetRepo,
		Dispatcher:        dispatcher,
	})
	catalogService := service.NewCatalogService(eventRepo)

	cartStore := cart.NewStore(cart.NewRedisStorage(redis.Client), logger)
	checkoutFlow := checkout.NewFlow(cfg.Checkout, cartStore, dispatcher, logger)
	defer checkoutFlow.Close()

	authMiddleware := auth.NewAuthMiddleware(accountService.TokenManager())
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Metrics:        handlers.NewMetricsHandler(metrics),
		Events:         handlers.NewEventsHandler(catalogService),
		Users:          handlers.NewUsersHandler(accountService, logger),
		Account:        handlers.NewAccountHandler(accountService),
		Cart:           handlers.NewCartHandler(cartStore, catalogService),
		Checkout:       handlers.NewCheckoutHandler(checkoutFlow),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
