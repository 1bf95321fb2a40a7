package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/deskops/servicedesk/internal/api/http"
	"github.com/deskops/servicedesk/internal/api/http/handlers"
	"github.com/deskops/servicedesk/internal/auth"
	"github.com/deskops/servicedesk/internal/config"
	"github.com/deskops/servicedesk/internal/events"
	"github.com/deskops/servicedesk/internal/observability"
	"github.com/deskops/servicedesk/internal/persistence"
	"github.com/deskops/servicedesk/internal/repository"
	"github.com/deskops/servicedesk/internal/service"
	"github.com/deskops/servicedesk/internal/storage"
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

	saver, err := storage.NewDiskSaver(cfg.Upload.Dir)
	if err != nil {
		logger.Fatal("failed to init upload storage", zap.Error(err))
	}

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	historyRepo := repository.NewTicketHistoryRepository(pool)
	attachmentRepo := repository.NewAttachmentRepository(pool)
	txRunner := repository.NewTxRunner(pool)

	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo:    userRepo,
		SessionRepo: sessionRepo,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		TxRunner:    txRunner,
		TicketRepo:  ticketRepo,
		UserRepo:    userRepo,
		HistoryRepo: historyRepo,
		Dispatcher:  dispatcher,
	})
	commentService := service.NewCommentService(service.CommentDependencies{
		CommentRepo: commentRepo,
		TicketRepo:  ticketRepo,
		Dispatcher:  dispatcher,
	})
	attachmentService := service.NewAttachmentService(service.AttachmentDependencies{
		AttachmentRepo: attachmentRepo,
		TicketRepo:     ticketRepo,
		CommentRepo:    commentRepo,
		Saver:          saver,
	})
	userService := service.NewUserService(service.UserDependencies{
		TxRunner:   txRunner,
		UserRepo:   userRepo,
		BcryptCost: cfg.Auth.BcryptCost,
	})

	notificationService := service.NewNotificationService(dispatcher, redis, logger)
	notificationService.RegisterHandlers()

	authMiddleware := auth.NewMiddleware(authService)
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{
		AppName: cfg.App.Name,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService, attachmentService),
		Comments:       handlers.NewCommentsHandler(commentService, attachmentService),
		Users:          handlers.NewUsersHandler(userService),
		AuthMiddleware: authMiddleware,
		UploadDir:      cfg.Upload.Dir,
		UploadPrefix:   cfg.Upload.URLPrefix,
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
