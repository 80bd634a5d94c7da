package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/bedolaga/bedolaga-console/internal/webapi"
)

// NewPanelSyncStatusesHandler builds the handler that reconciles subscription
// statuses with the panel on a schedule. With no configured client the task is
// a no-op rather than an error so the cron entry can stay registered.
func NewPanelSyncStatusesHandler(client *webapi.Client, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		if client == nil {
			logger.Info("statuses sync skipped: web API not configured")
			return nil
		}
		payload, err := client.SyncSubscriptionStatuses(ctx)
		if err != nil {
			logger.Error("statuses sync", slog.Any("error", err))
			return err
		}
		logger.Info("statuses sync finished", slog.String("detail", payload.Detail()))
		return nil
	}
}
