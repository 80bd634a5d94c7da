package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// Service reads the activity timeline.
type Service struct {
	pool *pgxpool.Pool
}

// NewService constructs a Service.
func NewService(pool *pgxpool.Pool) *Service {
	return &Service{pool: pool}
}

// Timeline returns entries matching the filter, newest first.
func (s *Service) Timeline(ctx context.Context, filter Filter) ([]Entry, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := `SELECT id, admin_id, action, status, COALESCE(message, ''),
	                 COALESCE(target_type, ''), COALESCE(target_id, ''),
	                 payload, COALESCE(ip, ''), COALESCE(user_agent, ''), created_at
	            FROM admin_activity_log`
	args := []any{}
	clause := func(condition string, value any) {
		args = append(args, value)
		if len(args) == 1 {
			query += " WHERE "
		} else {
			query += " AND "
		}
		query += fmt.Sprintf(condition, len(args))
	}
	if filter.AdminID > 0 {
		clause("admin_id = $%d", filter.AdminID)
	}
	if filter.Action != "" {
		clause("action = $%d", filter.Action)
	}
	if filter.Status != "" {
		clause("status = $%d", filter.Status)
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var payload []byte
		if err := rows.Scan(
			&entry.ID, &entry.AdminID, &entry.Action, &entry.Status, &entry.Message,
			&entry.TargetType, &entry.TargetID, &payload, &entry.IP, &entry.UserAgent, &entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		if len(payload) > 0 {
			// malformed rows keep a nil payload rather than failing the page
			_ = json.Unmarshal(payload, &entry.Payload)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// DeleteOlderThan removes entries created before the boundary and reports how
// many rows were purged.
func (s *Service) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM admin_activity_log WHERE created_at < $1`, before)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
