package rbac

import "time"

// Role represents an administrator role grouping permissions.
type Role struct {
	ID          int64
	Slug        string
	Name        string
	Description string
	CreatedAt   time.Time
}

// PermissionSet is the flat set of capability strings held by a principal.
type PermissionSet map[string]struct{}

// Has reports whether the set grants the required permission.
func (p PermissionSet) Has(required string) bool {
	_, ok := p[required]
	return ok
}

// Slice returns the permissions in unspecified order.
func (p PermissionSet) Slice() []string {
	out := make([]string, 0, len(p))
	for perm := range p {
		out = append(out, perm)
	}
	return out
}
