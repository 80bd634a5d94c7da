// Package subscriptions reads bot subscription records for the action
// pipeline and the user detail views.
package subscriptions

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bedolaga/bedolaga-console/internal/shared"
)

// Subscription is a bot user's subscription record.
type Subscription struct {
	ID        int64
	UserID    int64
	Status    string
	StartDate time.Time
	EndDate   time.Time
}

// Repository reads subscriptions from PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ActiveSubscriptionID returns the id of the user's current subscription, or
// shared.ErrNotFound when the user holds none.
func (r *Repository) ActiveSubscriptionID(ctx context.Context, userID int64) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`SELECT id FROM subscriptions WHERE user_id = $1 ORDER BY id DESC LIMIT 1`,
		userID,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, shared.ErrNotFound
		}
		return 0, err
	}
	return id, nil
}

// ByUser returns the user's subscription with its dates for display.
func (r *Repository) ByUser(ctx context.Context, userID int64) (*Subscription, error) {
	var sub Subscription
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, status, start_date, end_date
		   FROM subscriptions
		  WHERE user_id = $1
		  ORDER BY id DESC
		  LIMIT 1`,
		userID,
	).Scan(&sub.ID, &sub.UserID, &sub.Status, &sub.StartDate, &sub.EndDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}
