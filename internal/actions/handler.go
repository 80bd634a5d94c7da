package actions

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bedolaga/bedolaga-console/internal/i18n"
	"github.com/bedolaga/bedolaga-console/internal/rbac"
	"github.com/bedolaga/bedolaga-console/internal/shared"
	"github.com/bedolaga/bedolaga-console/internal/view"
)

// Handler serves the actions page and routes submissions into the executor.
type Handler struct {
	logger      *slog.Logger
	registry    *Registry
	executor    *Executor
	permissions PermissionSource
	templates   *view.Engine
	csrfManager *shared.CSRFManager
	secure      bool
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, registry *Registry, executor *Executor, permissions PermissionSource, templates *view.Engine, csrf *shared.CSRFManager, secure bool) *Handler {
	return &Handler{
		logger:      logger,
		registry:    registry,
		executor:    executor,
		permissions: permissions,
		templates:   templates,
		csrfManager: csrf,
		secure:      secure,
	}
}

// MountRoutes registers the actions routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.showActions)
	r.Post("/", h.handleSubmit)
}

type actionsPageData struct {
	Actions         []Definition
	Allowed         map[string]bool
	APIConfigured   bool
	Result          *Outcome
	SubmittedAction string
	FormValues      map[string]string
}

func (h *Handler) showActions(w http.ResponseWriter, r *http.Request) {
	adminID, ok := rbac.CurrentAdminID(r)
	if !ok {
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}
	perms, err := h.permissions.EffectivePermissions(r.Context(), adminID)
	if err != nil {
		h.logger.Error("resolve permissions", slog.Int64("admin_id", adminID), slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	data := actionsPageData{
		Actions:       h.registry.All(),
		Allowed:       h.registry.Allowed(perms),
		APIConfigured: h.executor.Configured(),
		FormValues:    map[string]string{},
	}
	h.render(w, r, data)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	adminID, ok := rbac.CurrentAdminID(r)
	if !ok {
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	actionKey := r.PostFormValue("action")
	outcome := h.executor.Execute(r.Context(), Request{
		AdminID:   adminID,
		ActionKey: actionKey,
		CSRFToken: h.csrfManager.TokenFromRequest(r),
		Form:      r.PostForm,
		Locale:    i18n.LocaleFromContext(r.Context()),
		IP:        r.RemoteAddr,
		UserAgent: r.UserAgent(),
	})

	perms, err := h.permissions.EffectivePermissions(r.Context(), adminID)
	if err != nil {
		h.logger.Error("resolve permissions", slog.Int64("admin_id", adminID), slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	submitted := actionKey
	if _, known := h.registry.Lookup(actionKey); !known {
		submitted = ""
	}
	formValues := make(map[string]string)
	if def, known := h.registry.Lookup(actionKey); known {
		for _, field := range def.Fields {
			formValues[field.Name] = r.PostFormValue(field.Name)
		}
	}

	data := actionsPageData{
		Actions:         h.registry.All(),
		Allowed:         h.registry.Allowed(perms),
		APIConfigured:   h.executor.Configured(),
		Result:          &outcome,
		SubmittedAction: submitted,
		FormValues:      formValues,
	}
	h.render(w, r, data)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, data actionsPageData) {
	sess := shared.SessionFromContext(r.Context())
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	token := h.csrfManager.IssueCookie(w, h.secure)
	viewData := view.TemplateData{
		Title:       "Actions",
		CSRFToken:   token,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Locale:      i18n.LocaleFromContext(r.Context()),
		Data:        data,
	}
	if err := h.templates.Render(w, "pages/actions.html", viewData); err != nil {
		h.logger.Error("render actions", slog.Any("error", err))
	}
}
