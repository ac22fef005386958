package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/fleetdesk/fleetdesk/internal/app"
	"github.com/fleetdesk/fleetdesk/internal/auth"
	"github.com/fleetdesk/fleetdesk/internal/authz"
	"github.com/fleetdesk/fleetdesk/internal/dashboard"
	"github.com/fleetdesk/fleetdesk/internal/fleet/containers"
	"github.com/fleetdesk/fleetdesk/internal/fleet/drivers"
	"github.com/fleetdesk/fleetdesk/internal/fleet/heads"
	"github.com/fleetdesk/fleetdesk/internal/fleet/tails"
	"github.com/fleetdesk/fleetdesk/internal/joblog"
	"github.com/fleetdesk/fleetdesk/internal/observability"
	"github.com/fleetdesk/fleetdesk/internal/permissions"
	"github.com/fleetdesk/fleetdesk/internal/platform/cache"
	"github.com/fleetdesk/fleetdesk/internal/platform/db"
	"github.com/fleetdesk/fleetdesk/internal/shared"
	"github.com/fleetdesk/fleetdesk/internal/tracker"
	"github.com/fleetdesk/fleetdesk/internal/users"
	"github.com/fleetdesk/fleetdesk/internal/workorders"
	"github.com/fleetdesk/fleetdesk/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "fleetdesk_session", cfg.SessionTTL, cfg.IsProduction())
	metrics := observability.NewMetrics()

	policy := authz.DefaultPolicy()
	if cfg.StrictSelfGuard {
		policy = authz.StrictPolicy()
	}
	guard := authz.Middleware{Logger: logger, Policy: policy}

	usersRepo := users.NewRepository(dbpool)
	usersService := users.NewService(usersRepo, policy)
	usersHandler := users.NewHandler(logger, usersService, guard)

	authService := auth.NewService(usersRepo)
	authHandler := auth.NewHandler(logger, authService, sessionManager)

	permissionsService := permissions.NewService(usersRepo)
	permissionsHandler := permissions.NewHandler(logger, permissionsService, guard)

	driversRepo := drivers.NewRepository(dbpool)
	driversHandler := drivers.NewHandler(logger, drivers.NewService(driversRepo), guard)

	headsRepo := heads.NewRepository(dbpool)
	headsHandler := heads.NewHandler(logger, heads.NewService(headsRepo), guard)

	tailsRepo := tails.NewRepository(dbpool)
	tailsHandler := tails.NewHandler(logger, tails.NewService(tailsRepo), guard)

	containersRepo := containers.NewRepository(dbpool)
	containersHandler := containers.NewHandler(logger, containers.NewService(containersRepo), guard)

	workOrdersRepo := workorders.NewRepository(dbpool)
	workOrdersHandler := workorders.NewHandler(logger, workorders.NewService(workOrdersRepo), guard)

	jobLogRepo := joblog.NewRepository(dbpool)
	jobLogHandler := joblog.NewHandler(logger, joblog.NewService(jobLogRepo), guard)

	trackerSessions := tracker.NewSessionStore(redisClient, cfg.TrackerSessionTTL)
	cartrack := tracker.NewCartrackClient(tracker.CartrackConfig{
		URL:      cfg.CartrackURL,
		Account:  cfg.CartrackAccount,
		Username: cfg.CartrackUsername,
		Password: cfg.CartrackPassword,
	}, trackerSessions, logger)
	containerTrack := tracker.NewContainerTrackClient(tracker.ContainerTrackConfig{
		URL:      cfg.ContainerTrackURL,
		Token:    cfg.ContainerTrackToken,
		Username: cfg.ContainerTrackUsername,
		Password: cfg.ContainerTrackPassword,
	}, trackerSessions, logger)
	geocoder := tracker.NewGeocoder("fleetdesk/1.0")
	trackerHandler := tracker.NewHandler(logger, cartrack, containerTrack, geocoder, guard)

	dashboardHandler := dashboard.NewHandler(logger, dashboard.NewService(dbpool), guard)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		SessionManager: sessionManager,
		AuthService:    authService,

		AuthHandler:        authHandler,
		UsersHandler:       usersHandler,
		PermissionsHandler: permissionsHandler,
		DriversHandler:     driversHandler,
		HeadsHandler:       headsHandler,
		TailsHandler:       tailsHandler,
		ContainersHandler:  containersHandler,
		WorkOrdersHandler:  workOrdersHandler,
		JobLogHandler:      jobLogHandler,
		TrackerHandler:     trackerHandler,
		DashboardHandler:   dashboardHandler,
		JobHandler:         jobHandler,

		Metrics: metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
