package audit

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bedolaga/bedolaga-console/internal/i18n"
	"github.com/bedolaga/bedolaga-console/internal/shared"
	"github.com/bedolaga/bedolaga-console/internal/view"
)

// Handler serves the activity timeline page.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	templates *view.Engine
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, templates *view.Engine) *Handler {
	return &Handler{logger: logger, service: service, templates: templates}
}

// MountRoutes registers the audit routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.showTimeline)
}

type timelinePageData struct {
	Entries  []Entry
	Filter   Filter
	Page     int
	PageSize int
	HasNext  bool
}

func (h *Handler) showTimeline(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))
	paging := shared.NewPagination(page, defaultPageSize, 0)
	adminID, _ := strconv.ParseInt(query.Get("admin_id"), 10, 64)
	filter := Filter{
		AdminID: adminID,
		Action:  query.Get("action"),
		Status:  query.Get("status"),
		Limit:   paging.PerPage + 1,
		Offset:  paging.Offset(),
	}

	entries, err := h.service.Timeline(r.Context(), filter)
	if err != nil {
		h.logger.Error("load audit timeline", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	paging = shared.NewPagination(page, defaultPageSize, len(entries))
	if paging.HasNext {
		entries = entries[:paging.PerPage]
	}

	sess := shared.SessionFromContext(r.Context())
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       "Audit log",
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Locale:      i18n.LocaleFromContext(r.Context()),
		Data: timelinePageData{
			Entries:  entries,
			Filter:   filter,
			Page:     paging.Page,
			PageSize: paging.PerPage,
			HasNext:  paging.HasNext,
		},
	}
	if err := h.templates.Render(w, "pages/audit.html", viewData); err != nil {
		h.logger.Error("render audit timeline", slog.Any("error", err))
	}
}
