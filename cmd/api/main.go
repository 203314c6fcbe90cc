package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/news-portal/internal/api/http"
	"github.com/spec-kit/news-portal/internal/api/http/handlers"
	"github.com/spec-kit/news-portal/internal/auth"
	"github.com/spec-kit/news-portal/internal/config"
	"github.com/spec-kit/news-portal/internal/events"
	"github.com/spec-kit/news-portal/internal/observability"
	"github.com/spec-kit/news-portal/internal/persistence"
	"github.com/spec-kit/news-portal/internal/realtime"
	"github.com/spec-kit/news-portal/internal/repository"
	"github.com/spec-kit/news-portal/internal/service"
	"github.com/spec-kit/news-portal/internal/worker"
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
	articleRepo := repository.NewArticleRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	revocationStore := repository.NewRevocationStore(redis.Client)
	viewCounter := repository.NewViewCounter(redis.Client)

	dispatcher := events.NewInMemoryDispatcher()
	hub := realtime.NewHub(logger)
	worker.StartRealtimeWorker(dispatcher, hub)
	go func() {
		_ = hub.Run(ctx)
	}()

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:        userRepo,
		RevocationStore: revocationStore,
		Dispatcher:      dispatcher,
	}, logger)
	articleService := service.NewArticleService(articleRepo, viewCounter, dispatcher, logger)
	categoryService := service.NewCategoryService(categoryRepo)
	commentService := service.NewCommentService(commentRepo, articleRepo, userRepo, dispatcher)
	adminService := service.NewAdminService(userRepo, articleRepo, commentRepo, viewCounter, logger)

	authMiddleware := auth.NewMiddleware(authService.TokenManager())
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Articles:       handlers.NewArticlesHandler(articleService),
		Categories:     handlers.NewCategoriesHandler(categoryService),
		Comments:       handlers.NewCommentsHandler(commentService),
		Admin:          handlers.NewAdminHandler(adminService),
		Realtime:       handlers.NewRealtimeHandler(hub, cfg.Realtime, logger),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

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
