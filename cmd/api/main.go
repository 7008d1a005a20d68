package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/helpdesk-access/internal/api/http"
	"github.com/spec-kit/helpdesk-access/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-access/internal/auth"
	"github.com/spec-kit/helpdesk-access/internal/authz"
	"github.com/spec-kit/helpdesk-access/internal/config"
	"github.com/spec-kit/helpdesk-access/internal/events"
	"github.com/spec-kit/helpdesk-access/internal/observability"
	"github.com/spec-kit/helpdesk-access/internal/persistence"
	"github.com/spec-kit/helpdesk-access/internal/repository"
	"github.com/spec-kit/helpdesk-access/internal/service"
	"github.com/spec-kit/helpdesk-access/internal/worker"
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
	staffRepo := repository.NewStaffProfileRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	attachmentRepo := repository.NewAttachmentRepository(pool)
	auditRepo := repository.NewAuditRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	sessionStore := newSessionStore(cfg, redis, logger)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:     userRepo,
		StaffRepo:    staffRepo,
		SessionStore: sessionStore,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	auditService := service.NewAuditService(dispatcher, auditRepo, logger)
	worker.StartAuditWorker(auditService)

	engine := authz.NewEngine(dispatcher, metrics, logger)
	sessionMiddleware := auth.NewSessionMiddleware(authService.TokenManager(), sessionStore, dispatcher)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis)
	authHandler := handlers.NewAuthHandler(authService)
	ticketsHandler := handlers.NewTicketsHandler(ticketRepo, attachmentRepo, engine)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:            healthHandler,
		Auth:              authHandler,
		Tickets:           ticketsHandler,
		SessionMiddleware: sessionMiddleware,
		Engine:            engine,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func newSessionStore(cfg *config.Config, redis *persistence.Redis, logger *zap.Logger) auth.SessionStore {
	if strings.EqualFold(cfg.Session.Backend, "memory") {
		logger.Info("using in-memory session store")
		return auth.NewMemorySessionStore(cfg.Session.IdleTimeout())
	}
	return auth.NewRedisSessionStore(redis.Client, cfg.Session.IdleTimeout())
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
