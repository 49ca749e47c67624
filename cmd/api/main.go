package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/lkn-labs/supportbot/internal/api/http"
	"github.com/lkn-labs/supportbot/internal/api/http/handlers"
	"github.com/lkn-labs/supportbot/internal/auth"
	"github.com/lkn-labs/supportbot/internal/config"
	"github.com/lkn-labs/supportbot/internal/dialog"
	"github.com/lkn-labs/supportbot/internal/events"
	"github.com/lkn-labs/supportbot/internal/notify"
	"github.com/lkn-labs/supportbot/internal/observability"
	"github.com/lkn-labs/supportbot/internal/persistence"
	"github.com/lkn-labs/supportbot/internal/repository"
	"github.com/lkn-labs/supportbot/internal/service"
	"github.com/lkn-labs/supportbot/internal/session"
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

	var (
		ticketRepo   repository.TicketRepository
		feedbackRepo repository.FeedbackRepository
		ratingRepo   repository.RatingRepository
		ideaRepo     repository.IdeaRepository
	)
	if pool := pg.PoolHandle(); pool != nil {
		ticketRepo = repository.NewTicketRepository(pool)
		feedbackRepo = repository.NewFeedbackRepository(pool)
		ratingRepo = repository.NewRatingRepository(pool)
		ideaRepo = repository.NewIdeaRepository(pool)
	} else {
		logger.Warn("running with in-memory stores; data will not survive restart")
		ticketRepo = repository.NewMemoryTicketRepository()
		feedbackRepo = repository.NewMemoryFeedbackRepository()
		ratingRepo = repository.NewMemoryRatingRepository()
		ideaRepo = repository.NewMemoryIdeaRepository()
	}

	var sessions session.Store
	if err := redis.Ping(ctx); err != nil {
		logger.Warn("redis unavailable; sessions held in process memory", zap.Error(err))
		sessions = session.NewMemoryStore()
	} else {
		sessions = session.NewRedisStore(redis.Client, cfg.Redis.SessionTTL)
	}

	dispatcher := events.NewInMemoryDispatcher()
	notifier := notify.NewManagerNotifier(notify.LogSender{Logger: logger}, cfg.Dialog.ManagerIDs, logger)
	notifier.RegisterHandlers(dispatcher)

	metrics := observability.NewMetrics()

	engine := dialog.NewEngine(cfg.Dialog, dialog.Dependencies{
		Sessions:     sessions,
		TicketRepo:   ticketRepo,
		FeedbackRepo: feedbackRepo,
		RatingRepo:   ratingRepo,
		IdeaRepo:     ideaRepo,
		Dispatcher:   dispatcher,
		Metrics:      metrics,
		Logger:       logger,
	})

	operator := service.NewOperatorService(cfg.Dialog, service.OperatorDependencies{
		TicketRepo:   ticketRepo,
		RatingRepo:   ratingRepo,
		FeedbackRepo: feedbackRepo,
		IdeaRepo:     ideaRepo,
		Notifier:     notifier,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	managerMiddleware := auth.NewManagerMiddleware(tokens, cfg.Dialog)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis)
	eventsHandler := handlers.NewEventsHandler(engine)
	adminHandler := handlers.NewAdminHandler(operator, tokens, cfg.Auth, cfg.Dialog)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:            healthHandler,
		Events:            eventsHandler,
		Admin:             adminHandler,
		ManagerMiddleware: managerMiddleware,
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
