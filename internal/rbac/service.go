package rbac

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// defaultRoles are seeded at startup so a fresh installation always has the
// three standard roles available for assignment.
var defaultRoles = []struct {
	Slug        string
	Name        string
	Description string
}{
	{RoleSuperadmin, "Superadmin", "Full access including role and security settings management."},
	{"manager", "Manager", "Read access plus safe actions: extend, balance, sync."},
	{"viewer", "Viewer", "Read-only access to console data."},
}

// Service resolves role assignments from PostgreSQL.
type Service struct {
	pool *pgxpool.Pool
}

// NewService constructs a Service backed by the provided pool.
func NewService(pool *pgxpool.Pool) *Service {
	return &Service{pool: pool}
}

// RolesOf returns the role slugs assigned to an admin account.
func (s *Service) RolesOf(ctx context.Context, adminID int64) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT r.slug
		FROM admin_roles r
		JOIN admin_user_roles ur ON ur.role_id = r.id
		WHERE ur.admin_id = $1
		ORDER BY r.slug`, adminID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var slugs []string
	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return nil, err
		}
		slugs = append(slugs, strings.TrimSpace(slug))
	}
	return slugs, rows.Err()
}

// EffectivePermissions resolves the admin's roles into a permission set.
func (s *Service) EffectivePermissions(ctx context.Context, adminID int64) (PermissionSet, error) {
	slugs, err := s.RolesOf(ctx, adminID)
	if err != nil {
		return nil, err
	}
	return Resolve(slugs), nil
}

// IsSuperadmin reports whether the admin holds the superadmin role.
func (s *Service) IsSuperadmin(ctx context.Context, adminID int64) (bool, error) {
	slugs, err := s.RolesOf(ctx, adminID)
	if err != nil {
		return false, err
	}
	return slices.Contains(slugs, RoleSuperadmin), nil
}

// ListRoles returns all roles ordered by slug.
func (s *Service) ListRoles(ctx context.Context) ([]Role, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, slug, name, description, created_at
		FROM admin_roles ORDER BY slug`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var roles []Role
	for rows.Next() {
		var role Role
		if err := rows.Scan(&role.ID, &role.Slug, &role.Name, &role.Description, &role.CreatedAt); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

// AssignRole grants a role to an admin by slug. Repeated grants are no-ops.
func (s *Service) AssignRole(ctx context.Context, adminID int64, slug string) error {
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO admin_user_roles (admin_id, role_id)
		SELECT $1, id FROM admin_roles WHERE slug = $2
		ON CONFLICT (admin_id, role_id) DO NOTHING`, adminID, slug)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := s.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM admin_roles WHERE slug = $1)`, slug).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("rbac: unknown role %q", slug)
		}
	}
	return nil
}

// EnsureDefaultRoles creates or refreshes the standard roles.
func (s *Service) EnsureDefaultRoles(ctx context.Context) error {
	for _, role := range defaultRoles {
		_, err := s.pool.Exec(ctx, `
			INSERT INTO admin_roles (slug, name, description)
			VALUES ($1, $2, $3)
			ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description`,
			role.Slug, role.Name, role.Description)
		if err != nil {
			return err
		}
	}
	return nil
}
