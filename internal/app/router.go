package app

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/bedolaga/bedolaga-console/internal/actions"
	"github.com/bedolaga/bedolaga-console/internal/audit"
	"github.com/bedolaga/bedolaga-console/internal/auth"
	"github.com/bedolaga/bedolaga-console/internal/observability"
	"github.com/bedolaga/bedolaga-console/internal/overview"
	"github.com/bedolaga/bedolaga-console/internal/rbac"
	"github.com/bedolaga/bedolaga-console/internal/security"
	"github.com/bedolaga/bedolaga-console/internal/shared"
	"github.com/bedolaga/bedolaga-console/internal/users"
	"github.com/bedolaga/bedolaga-console/web"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger          *slog.Logger
	Config          *Config
	SessionManager  *shared.SessionManager
	AuthHandler     *auth.Handler
	OverviewHandler *overview.Handler
	ActionsHandler  *actions.Handler
	AuditHandler    *audit.Handler
	SecurityHandler *security.Handler
	UsersHandler    *users.Handler
	RBACMiddleware  rbac.Middleware
	Metrics         *observability.Metrics
}

// NewRouter constructs the chi.Router for the console.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)

	r.Group(func(r chi.Router) {
		r.Use(params.RBACMiddleware.RequireAuthenticated)
		params.OverviewHandler.MountRoutes(r)
		r.Route("/actions", params.ActionsHandler.MountRoutes)
	})
	r.Route("/audit", func(r chi.Router) {
		r.Use(params.RBACMiddleware.Require(rbac.PermViewAudit))
		params.AuditHandler.MountRoutes(r)
	})
	r.Route("/security", func(r chi.Router) {
		r.Use(params.RBACMiddleware.Require(rbac.PermManageSecurity))
		params.SecurityHandler.MountRoutes(r)
	})
	r.Route("/users", func(r chi.Router) {
		r.Use(params.RBACMiddleware.Require(rbac.PermViewReadonly))
		params.UsersHandler.MountRoutes(r)
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		params.Logger.Error("create static sub filesystem", slog.Any("error", err))
	} else {
		fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
		r.Handle("/static/*", staticCacheHandler(fileServer))
	}

	return r
}

// staticCacheHandler wraps a file server with Cache-Control headers.
func staticCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
