package users

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bedolaga/bedolaga-console/internal/i18n"
	"github.com/bedolaga/bedolaga-console/internal/shared"
	"github.com/bedolaga/bedolaga-console/internal/subscriptions"
	"github.com/bedolaga/bedolaga-console/internal/view"
)

// Handler serves the read-only bot user pages.
type Handler struct {
	logger        *slog.Logger
	repo          *Repository
	subscriptions *subscriptions.Repository
	templates     *view.Engine
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, repo *Repository, subs *subscriptions.Repository, templates *view.Engine) *Handler {
	return &Handler{logger: logger, repo: repo, subscriptions: subs, templates: templates}
}

// MountRoutes registers user routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.showList)
	r.Get("/{id}", h.showDetail)
}

type listPageData struct {
	Users   []BotUser
	Search  string
	Status  string
	Page    int
	HasNext bool
}

type detailPageData struct {
	User         *BotUser
	Subscription *subscriptions.Subscription
}

func (h *Handler) showList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))
	paging := shared.NewPagination(page, defaultPageSize, 0)
	filter := Filter{
		Search: query.Get("q"),
		Status: query.Get("status"),
		Limit:  paging.PerPage + 1,
		Offset: paging.Offset(),
	}
	list, err := h.repo.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("list bot users", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	paging = shared.NewPagination(page, defaultPageSize, len(list))
	if paging.HasNext {
		list = list[:paging.PerPage]
	}
	h.render(w, r, "pages/users.html", "Users", listPageData{
		Users:   list,
		Search:  filter.Search,
		Status:  filter.Status,
		Page:    paging.Page,
		HasNext: paging.HasNext,
	})
}

func (h *Handler) showDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		http.NotFound(w, r)
		return
	}
	user, err := h.repo.ByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		h.logger.Error("load bot user", slog.Int64("user_id", id), slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	sub, err := h.subscriptions.ByUser(r.Context(), id)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		h.logger.Error("load subscription", slog.Int64("user_id", id), slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h.render(w, r, "pages/user_detail.html", user.DisplayName(), detailPageData{User: user, Subscription: sub})
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, page, title string, data any) {
	sess := shared.SessionFromContext(r.Context())
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       title,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Locale:      i18n.LocaleFromContext(r.Context()),
		Data:        data,
	}
	if err := h.templates.Render(w, page, viewData); err != nil {
		h.logger.Error("render users page", slog.String("page", page), slog.Any("error", err))
	}
}
