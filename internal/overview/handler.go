// Package overview renders the console dashboard.
package overview

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bedolaga/bedolaga-console/internal/audit"
	"github.com/bedolaga/bedolaga-console/internal/i18n"
	"github.com/bedolaga/bedolaga-console/internal/shared"
	"github.com/bedolaga/bedolaga-console/internal/users"
	"github.com/bedolaga/bedolaga-console/internal/view"
)

// Handler serves the dashboard page.
type Handler struct {
	logger        *slog.Logger
	users         *users.Repository
	audit         *audit.Service
	templates     *view.Engine
	apiConfigured bool
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, userRepo *users.Repository, auditService *audit.Service, templates *view.Engine, apiConfigured bool) *Handler {
	return &Handler{
		logger:        logger,
		users:         userRepo,
		audit:         auditService,
		templates:     templates,
		apiConfigured: apiConfigured,
	}
}

// MountRoutes registers the dashboard route on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.showDashboard)
}

type dashboardData struct {
	TotalUsers    int64
	ActiveUsers   int64
	BlockedUsers  int64
	RecentActions []audit.Entry
	APIConfigured bool
}

func (h *Handler) showDashboard(w http.ResponseWriter, r *http.Request) {
	counts, err := h.users.CountByStatus(r.Context())
	if err != nil {
		h.logger.Error("count bot users", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	var total int64
	for _, count := range counts {
		total += count
	}
	recent, err := h.audit.Timeline(r.Context(), audit.Filter{Limit: 10})
	if err != nil {
		h.logger.Error("load recent actions", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	sess := shared.SessionFromContext(r.Context())
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       "Dashboard",
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Locale:      i18n.LocaleFromContext(r.Context()),
		Data: dashboardData{
			TotalUsers:    total,
			ActiveUsers:   counts["active"],
			BlockedUsers:  counts["blocked"],
			RecentActions: recent,
			APIConfigured: h.apiConfigured,
		},
	}
	if err := h.templates.Render(w, "pages/home.html", viewData); err != nil {
		h.logger.Error("render dashboard", slog.Any("error", err))
	}
}
