package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/fleetdesk/fleetdesk/internal/app"
	jobmetrics "github.com/fleetdesk/fleetdesk/internal/jobs"
	"github.com/fleetdesk/fleetdesk/internal/platform/cache"
	"github.com/fleetdesk/fleetdesk/internal/platform/db"
	"github.com/fleetdesk/fleetdesk/internal/tracker"
	"github.com/fleetdesk/fleetdesk/internal/users"
	"github.com/fleetdesk/fleetdesk/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

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

	metrics := jobmetrics.NewMetrics(nil)

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

	renewJob := jobs.NewTrackerSessionRenewJob(map[string]jobs.SessionRefresher{
		jobs.ProviderCartrack:    cartrack,
		jobs.ProviderUContainers: containerTrack,
	}, logger, metrics)

	usersRepo := users.NewRepository(pool)
	backfillJob := jobs.NewPermissionsBackfillJob(usersRepo, logger, metrics)

	renewTask, err := jobs.NewTrackerSessionRenewTask()
	if err != nil {
		logger.Error("build renew task", slog.Any("error", err))
		os.Exit(1)
	}
	backfillTask, err := jobs.NewPermissionsBackfillTask(false)
	if err != nil {
		logger.Error("build backfill task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskTrackerSessionRenew, Handler: renewJob.Handle},
			{Type: jobs.TaskPermissionsBackfill, Handler: backfillJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "*/30 * * * *", Task: renewTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "45 2 * * *", Task: backfillTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
