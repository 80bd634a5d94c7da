package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/bedolaga/bedolaga-console/internal/audit"
)

// NewAuditPurgeHandler builds the handler trimming expired activity entries.
func NewAuditPurgeHandler(service *audit.Service, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload AuditPurgePayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		if payload.RetentionHours <= 0 {
			return asynq.SkipRetry
		}
		boundary := time.Now().UTC().Add(-time.Duration(payload.RetentionHours) * time.Hour)
		purged, err := service.DeleteOlderThan(ctx, boundary)
		if err != nil {
			logger.Error("audit purge", slog.Any("error", err))
			return err
		}
		logger.Info("audit purge finished",
			slog.Int64("purged", purged),
			slog.Time("boundary", boundary),
		)
		return nil
	}
}
