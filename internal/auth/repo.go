package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bedolaga/bedolaga-console/internal/shared"
)

// Repository defines persistence operations for the auth module.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*Admin, error)
	FindByID(ctx context.Context, id int64) (*Admin, error)
	Create(ctx context.Context, admin *Admin) (int64, error)
	Count(ctx context.Context) (int64, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const adminColumns = `id, email, COALESCE(full_name, ''), hashed_password, is_active, is_superuser, created_at`

// FindByEmail fetches an admin by email, case-insensitively.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*Admin, error) {
	return r.scanOne(r.pool.QueryRow(ctx,
		`SELECT `+adminColumns+` FROM admin_users WHERE lower(email) = lower($1)`,
		strings.TrimSpace(email),
	))
}

// FindByID fetches an admin by primary key.
func (r *PGRepository) FindByID(ctx context.Context, id int64) (*Admin, error) {
	return r.scanOne(r.pool.QueryRow(ctx,
		`SELECT `+adminColumns+` FROM admin_users WHERE id = $1`,
		id,
	))
}

// Create inserts a new admin account and returns its id.
func (r *PGRepository) Create(ctx context.Context, admin *Admin) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO admin_users (email, full_name, hashed_password, is_active, is_superuser, created_at)
		 VALUES ($1, NULLIF($2, ''), $3, $4, $5, now())
		 RETURNING id`,
		strings.TrimSpace(admin.Email),
		admin.FullName,
		admin.PasswordHash,
		admin.IsActive,
		admin.IsSuperuser,
	).Scan(&id)
	return id, err
}

// Count reports how many admin accounts exist.
func (r *PGRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM admin_users`).Scan(&count)
	return count, err
}

func (r *PGRepository) scanOne(row pgx.Row) (*Admin, error) {
	var admin Admin
	err := row.Scan(
		&admin.ID, &admin.Email, &admin.FullName, &admin.PasswordHash,
		&admin.IsActive, &admin.IsSuperuser, &admin.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &admin, nil
}

var _ Repository = (*PGRepository)(nil)
