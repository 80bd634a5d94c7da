package security

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/singleflight"
)

// Repository persists the singleton settings row. All reads go through Get,
// which lazily creates the row with defaults, so implicit creation never
// spreads across call sites.
type Repository struct {
	pool  *pgxpool.Pool
	group singleflight.Group
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Get returns the current settings, creating the row with defaults when it
// does not exist yet. Concurrent callers share one fetch.
func (r *Repository) Get(ctx context.Context) (Settings, error) {
	value, err, _ := r.group.Do("settings", func() (any, error) {
		return r.fetch(ctx)
	})
	if err != nil {
		return Settings{}, err
	}
	return value.(Settings), nil
}

// Update overwrites the singleton row.
func (r *Repository) Update(ctx context.Context, s Settings) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE admin_security_settings
		SET balance_soft_limit_rub = $1,
		    balance_hard_limit_rub = $2,
		    require_balance_confirmation = $3,
		    require_block_confirmation = $4,
		    rate_limit_count = $5,
		    rate_limit_period_seconds = $6,
		    updated_at = NOW()
		WHERE id = 1`,
		s.BalanceSoftLimitRub,
		s.BalanceHardLimitRub,
		s.RequireBalanceConfirmation,
		s.RequireBlockConfirmation,
		s.RateLimitCount,
		s.RateLimitWindowSeconds,
	)
	return err
}

func (r *Repository) fetch(ctx context.Context) (Settings, error) {
	defaults := Defaults()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO admin_security_settings (
			id, balance_soft_limit_rub, balance_hard_limit_rub,
			require_balance_confirmation, require_block_confirmation,
			rate_limit_count, rate_limit_period_seconds
		) VALUES (1, $1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING`,
		defaults.BalanceSoftLimitRub,
		defaults.BalanceHardLimitRub,
		defaults.RequireBalanceConfirmation,
		defaults.RequireBlockConfirmation,
		defaults.RateLimitCount,
		defaults.RateLimitWindowSeconds,
	)
	if err != nil {
		return Settings{}, err
	}

	var s Settings
	err = r.pool.QueryRow(ctx, `
		SELECT balance_soft_limit_rub, balance_hard_limit_rub,
		       require_balance_confirmation, require_block_confirmation,
		       rate_limit_count, rate_limit_period_seconds, updated_at
		FROM admin_security_settings WHERE id = 1`).Scan(
		&s.BalanceSoftLimitRub,
		&s.BalanceHardLimitRub,
		&s.RequireBalanceConfirmation,
		&s.RequireBlockConfirmation,
		&s.RateLimitCount,
		&s.RateLimitWindowSeconds,
		&s.UpdatedAt,
	)
	if err != nil {
		return Settings{}, err
	}
	return s, nil
}
