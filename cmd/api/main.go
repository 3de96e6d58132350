package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/campusfix/complaint-service/internal/api/http"
	"github.com/campusfix/complaint-service/internal/api/http/handlers"
	"github.com/campusfix/complaint-service/internal/auth"
	"github.com/campusfix/complaint-service/internal/classify"
	"github.com/campusfix/complaint-service/internal/config"
	"github.com/campusfix/complaint-service/internal/events"
	"github.com/campusfix/complaint-service/internal/live"
	"github.com/campusfix/complaint-service/internal/observability"
	"github.com/campusfix/complaint-service/internal/persistence"
	"github.com/campusfix/complaint-service/internal/repository"
	"github.com/campusfix/complaint-service/internal/service"
	"github.com/campusfix/complaint-service/internal/storage"
	"github.com/campusfix/complaint-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := observability.NewMetrics()

	// Generator stays an untyped nil without a key so the classifier reports the
	// missing credential per request instead of failing startup.
	var generator classify.Generator
	if cfg.AI.APIKey == "" {
		logger.Warn("GEMINI_API_KEY not set; /api/classify will report a configuration error")
	} else {
		gemini, err := classify.NewGeminiGenerator(ctx, cfg.AI)
		if err != nil {
			logger.Fatal("failed to init gemini client", zap.Error(err))
		}
		generator = gemini
	}
	classifier := classify.NewService(generator, logger, metrics)

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: cfg.App.BodyLimitBytes,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, httptransport.MiddlewareConfig{
		AllowOrigins: cfg.App.ClientURL,
		Timeout:      cfg.App.RequestTimeout(),
	})

	routes := httptransport.RouteConfig{
		Health:   handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, classifier.Configured(), metrics),
		Classify: handlers.NewClassifyHandler(classifier),
	}

	var digest *worker.DigestWorker
	if pg.Enabled() {
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}

		blobs, err := storage.NewBlobStore(ctx, cfg.Blob, logger)
		if err != nil {
			logger.Fatal("failed to init blob store", zap.Error(err))
		}

		pool := pg.PoolHandle()
		userRepo := repository.NewUserRepository(pool)
		ticketRepo := repository.NewTicketRepository(pool)

		dispatcher := events.NewInMemoryDispatcher(logger)
		if redis.Enabled() {
			bridge := events.NewRedisBridge(redis.Client, cfg.Redis.Channel, dispatcher, logger)
			go func() {
				if err := bridge.Run(ctx); err != nil {
					logger.Error("event bridge stopped", zap.Error(err))
				}
			}()
		}
		worker.StartNotificationWorker(service.NewNotificationService(dispatcher, logger))
		feed := live.NewFeed(ticketRepo, dispatcher, logger)

		authService := service.NewAuthService(cfg.Auth, userRepo, logger)
		ticketService := service.NewTicketService(service.TicketDependencies{
			TicketRepo: ticketRepo,
			Blobs:      blobs,
			Classifier: classifier,
			Dispatcher: dispatcher,
			Logger:     logger,
		})
		assignmentService := service.NewAssignmentService(service.AssignmentDependencies{
			TicketRepo: ticketRepo,
			Dispatcher: dispatcher,
			Logger:     logger,
		})

		routes.AuthMiddleware = auth.NewAuthMiddleware(authService.TokenManager(), authService)
		routes.Users = handlers.NewUsersHandler(authService)
		routes.Tickets = handlers.NewTicketsHandler(ticketService, feed, logger)
		routes.Admin = handlers.NewAdminTicketsHandler(ticketService, assignmentService, feed, cfg.Map, logger)

		digest, err = worker.NewDigestWorker(cfg.Digest.Schedule, ticketService, logger)
		if err != nil {
			logger.Fatal("invalid DIGEST_CRON", zap.Error(err))
		}
		digest.Start()
	} else {
		logger.Warn("running as classification proxy only")
	}

	httptransport.RegisterRoutes(app, routes)

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	if digest != nil {
		digest.Stop()
	}
	_ = app.ShutdownWithTimeout(10 * time.Second)
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
