package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/phishsim/internal/api/http"
	"github.com/spec-kit/phishsim/internal/api/http/handlers"
	"github.com/spec-kit/phishsim/internal/auth"
	"github.com/spec-kit/phishsim/internal/config"
	"github.com/spec-kit/phishsim/internal/dispatch"
	"github.com/spec-kit/phishsim/internal/events"
	"github.com/spec-kit/phishsim/internal/mailer"
	"github.com/spec-kit/phishsim/internal/observability"
	"github.com/spec-kit/phishsim/internal/persistence"
	"github.com/spec-kit/phishsim/internal/repository"
	"github.com/spec-kit/phishsim/internal/scheduling"
	"github.com/spec-kit/phishsim/internal/service"
	"github.com/spec-kit/phishsim/internal/worker"
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

	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	pool := pg.PoolHandle()
	staffRepo := repository.NewStaffRepository(pool)
	departmentRepo := repository.NewDepartmentRepository(pool)
	sendRepo := repository.NewScheduledSendRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()

	asyncMailer := mailer.NewAsyncMailer(cfg.Mailer, logger)
	asyncMailer.Start(ctx)

	staffService := service.NewStaffService(service.StaffDependencies{
		StaffRepo:      staffRepo,
		DepartmentRepo: departmentRepo,
		Dispatcher:     dispatcher,
		Clock:          clock,
	})
	trackingService := service.NewTrackingService(staffService, staffRepo, dispatcher, clock)
	simulationService := service.NewSimulationService(staffService, sendRepo, clock)
	authService := service.NewAuthService(cfg.Auth, adminRepo, logger)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Mailer)
	notificationService.RegisterHandlers()

	if pool != nil {
		if err := authService.SeedAdmin(ctx); err != nil {
			logger.Fatal("failed to seed admin account", zap.Error(err))
		}
	}

	policy := scheduling.NewPolicy(cfg.Simulation, nil)
	sweeper := scheduling.NewSweeper(scheduling.SweeperDependencies{
		Policy:     policy,
		StaffRepo:  staffRepo,
		SendRepo:   sendRepo,
		Dispatcher: dispatcher,
		Clock:      clock,
		Logger:     logger,
		Metrics:    metrics,
	}, cfg.Simulation.SweepInterval())

	dispatchLoop := dispatch.NewLoop(dispatch.LoopDependencies{
		SendRepo:   sendRepo,
		StaffRepo:  staffRepo,
		Notifier:   asyncMailer,
		Dispatcher: dispatcher,
		Clock:      clock,
		Logger:     logger,
		Metrics:    metrics,
	}, cfg.Simulation.DispatchInterval(), cfg.Simulation.DispatchBatchLimit)

	lease := persistence.NewLease(redis.Client, "phishsim:simulation:loops", uuid.NewString(), cfg.Simulation.LeaseTTL())
	simulation := worker.NewSimulation(sweeper, dispatchLoop, lease, clock, logger, cfg.Simulation.LeaseTTL())
	simulation.Start(ctx)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager())

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Staff:          handlers.NewStaffHandler(staffService),
		Departments:    handlers.NewDepartmentHandler(staffService),
		Reports:        handlers.NewReportHandler(staffService),
		Tracking:       handlers.NewTrackingHandler(trackingService),
		Simulation:     handlers.NewSimulationHandler(simulationService),
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
