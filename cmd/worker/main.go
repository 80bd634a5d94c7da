package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/bedolaga/bedolaga-console/internal/app"
	"github.com/bedolaga/bedolaga-console/internal/audit"
	"github.com/bedolaga/bedolaga-console/internal/platform/db"
	"github.com/bedolaga/bedolaga-console/internal/webapi"
	"github.com/bedolaga/bedolaga-console/jobs"
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

	auditService := audit.NewService(pool)

	var apiClient *webapi.Client
	if apiCfg := cfg.WebAPIConfig(); apiCfg.Configured() {
		apiClient, err = webapi.NewClient(apiCfg)
		if err != nil {
			logger.Error("init web API client", slog.Any("error", err))
			os.Exit(1)
		}
	} else {
		logger.Warn("web API credentials missing, statuses sync will be skipped")
	}

	purgeTask, err := jobs.NewAuditPurgeTask(jobs.AuditPurgePayload{
		RetentionHours: int(cfg.AuditRetention.Hours()),
	})
	if err != nil {
		logger.Error("build purge task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskAuditPurge, Handler: jobs.NewAuditPurgeHandler(auditService, logger)},
			{Type: jobs.TaskPanelSyncStatuses, Handler: jobs.NewPanelSyncStatusesHandler(apiClient, logger)},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "45 2 * * *", Task: purgeTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "*/30 * * * *", Task: jobs.NewPanelSyncStatusesTask(), Options: []asynq.Option{asynq.MaxRetry(2)}},
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
