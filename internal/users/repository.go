package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bedolaga/bedolaga-console/internal/shared"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// Repository reads bot users from PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const userColumns = `id, telegram_id, COALESCE(username, ''), COALESCE(first_name, ''),
	COALESCE(last_name, ''), status, language, balance_kopeks, created_at,
	COALESCE(last_activity, created_at)`

// List returns users matching the filter, newest first.
func (r *Repository) List(ctx context.Context, filter Filter) ([]BotUser, error) {
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

	query := `SELECT ` + userColumns + ` FROM users`
	args := []any{}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(` WHERE (username ILIKE $%d OR first_name ILIKE $%d OR last_name ILIKE $%d OR telegram_id::text LIKE $%d)`,
			len(args), len(args), len(args), len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		if len(args) == 1 {
			query += fmt.Sprintf(" WHERE status = $%d", len(args))
		} else {
			query += fmt.Sprintf(" AND status = $%d", len(args))
		}
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BotUser
	for rows.Next() {
		var user BotUser
		if err := rows.Scan(
			&user.ID, &user.TelegramID, &user.Username, &user.FirstName, &user.LastName,
			&user.Status, &user.Language, &user.BalanceKopeks, &user.CreatedAt, &user.LastActivity,
		); err != nil {
			return nil, err
		}
		out = append(out, user)
	}
	return out, rows.Err()
}

// ByID fetches a single bot user.
func (r *Repository) ByID(ctx context.Context, id int64) (*BotUser, error) {
	var user BotUser
	err := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id).Scan(
		&user.ID, &user.TelegramID, &user.Username, &user.FirstName, &user.LastName,
		&user.Status, &user.Language, &user.BalanceKopeks, &user.CreatedAt, &user.LastActivity,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// CountByStatus aggregates the user base for the dashboard.
func (r *Repository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, count(*) FROM users GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}
