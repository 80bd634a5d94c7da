package rbac

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/bedolaga/bedolaga-console/internal/shared"
)

// PermissionSource resolves the effective permission set for an admin.
type PermissionSource interface {
	EffectivePermissions(ctx context.Context, adminID int64) (PermissionSet, error)
}

// Middleware wires permission checks into HTTP handlers.
type Middleware struct {
	Source PermissionSource
	Logger *slog.Logger
}

// Require ensures the current admin holds the required permission.
func (m Middleware) Require(perm string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			adminID, ok := m.currentAdminID(r)
			if !ok {
				http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
				return
			}
			granted, err := m.Source.EffectivePermissions(r.Context(), adminID)
			if err != nil {
				if m.Logger != nil {
					m.Logger.Error("resolve permissions", slog.Any("error", err))
				}
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			if !granted.Has(perm) {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuthenticated only checks that a logged-in admin session exists.
func (m Middleware) RequireAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := m.currentAdminID(r); !ok {
			http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m Middleware) currentAdminID(r *http.Request) (int64, bool) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		return 0, false
	}
	raw := strings.TrimSpace(sess.Admin())
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		if m.Logger != nil {
			m.Logger.Error("parse admin id in session", slog.String("value", raw))
		}
		return 0, false
	}
	return id, true
}

// CurrentAdminID exposes the session admin ID for handlers.
func CurrentAdminID(r *http.Request) (int64, bool) {
	return Middleware{}.currentAdminID(r)
}
