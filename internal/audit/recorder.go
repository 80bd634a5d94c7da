package audit

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Recorder writes activity entries to PostgreSQL. Recording is best effort:
// failures are logged and swallowed so an unavailable log never blocks the
// action pipeline.
type Recorder struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewRecorder constructs a Recorder.
func NewRecorder(pool *pgxpool.Pool, logger *slog.Logger) *Recorder {
	return &Recorder{pool: pool, logger: logger}
}

// Record inserts one entry.
func (r *Recorder) Record(ctx context.Context, entry Entry) {
	var payload []byte
	if entry.Payload != nil {
		data, err := json.Marshal(entry.Payload)
		if err != nil {
			r.logger.Warn("marshal audit payload", slog.String("action", entry.Action), slog.Any("error", err))
		} else {
			payload = data
		}
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO admin_activity_log
		        (admin_id, action, status, message, target_type, target_id, payload, ip, user_agent, created_at)
		 VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), $7, NULLIF($8, ''), NULLIF($9, ''), $10)`,
		entry.AdminID,
		entry.Action,
		entry.Status,
		entry.Message,
		entry.TargetType,
		entry.TargetID,
		payload,
		entry.IP,
		entry.UserAgent,
		entry.CreatedAt,
	)
	if err != nil {
		r.logger.Error("record admin action",
			slog.Int64("admin_id", entry.AdminID),
			slog.String("action", entry.Action),
			slog.Any("error", err),
		)
	}
}
