package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/incident-portal/internal/api/http"
	"github.com/spec-kit/incident-portal/internal/api/http/handlers"
	"github.com/spec-kit/incident-portal/internal/auth"
	"github.com/spec-kit/incident-portal/internal/config"
	"github.com/spec-kit/incident-portal/internal/events"
	"github.com/spec-kit/incident-portal/internal/mail"
	"github.com/spec-kit/incident-portal/internal/observability"
	"github.com/spec-kit/incident-portal/internal/persistence"
	"github.com/spec-kit/incident-portal/internal/repository"
	"github.com/spec-kit/incident-portal/internal/service"
	"github.com/spec-kit/incident-portal/internal/worker"
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
	incidentRepo := repository.NewIncidentRepository(pool)

	dispatcher := events.NewQueueDispatcher(256, logger)
	defer dispatcher.Close()

	sender := mail.NewSender(cfg.SMTP, logger)
	notificationService := service.NewNotificationService(service.NotificationDependencies{
		Dispatcher:   dispatcher,
		IncidentRepo: incidentRepo,
		UserRepo:     userRepo,
		Sender:       sender,
	}, logger)
	worker.StartNotificationWorker(notificationService)

	sessions := auth.NewRedisSessionStore(redis.Client, cfg.Session.TTL())
	sessionMiddleware := auth.NewSessionMiddleware(sessions, userRepo, cfg.Session.CookieName)

	authService := service.NewAuthService(userRepo, sessions)
	incidentService := service.NewIncidentService(service.IncidentDependencies{
		IncidentRepo: incidentRepo,
		UserRepo:     userRepo,
		Dispatcher:   dispatcher,
	})

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis)
	authHandler := handlers.NewAuthHandler(authService, cfg.Session.CookieName, cfg.Session.TTL())
	incidentsHandler := handlers.NewIncidentsHandler(incidentService)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:    healthHandler,
		Auth:      authHandler,
		Incidents: incidentsHandler,
		Session:   sessionMiddleware,
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
