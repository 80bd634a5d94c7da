package security

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/bedolaga/bedolaga-console/internal/i18n"
	"github.com/bedolaga/bedolaga-console/internal/shared"
	"github.com/bedolaga/bedolaga-console/internal/view"
)

// Handler serves the security settings page.
type Handler struct {
	logger      *slog.Logger
	service     *Service
	templates   *view.Engine
	csrfManager *shared.CSRFManager
	validator   *validator.Validate
	secure      bool
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, templates *view.Engine, csrf *shared.CSRFManager, secure bool) *Handler {
	return &Handler{
		logger:      logger,
		service:     service,
		templates:   templates,
		csrfManager: csrf,
		validator:   validator.New(),
		secure:      secure,
	}
}

// MountRoutes registers the settings routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.showSettings)
	r.Post("/", h.handleUpdate)
}

type settingsForm struct {
	BalanceSoftLimitRub        int64 `validate:"gte=0"`
	BalanceHardLimitRub        int64 `validate:"gte=0"`
	RequireBalanceConfirmation bool
	RequireBlockConfirmation   bool
	RateLimitCount             int `validate:"gte=0"`
	RateLimitWindowSeconds     int `validate:"gte=0"`
}

type settingsPageData struct {
	Form   settingsForm
	Errors map[string]string
}

func (h *Handler) showSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.service.Snapshot(r.Context())
	if err != nil {
		h.logger.Error("load security settings", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	form := settingsForm{
		BalanceSoftLimitRub:        settings.BalanceSoftLimitRub,
		BalanceHardLimitRub:        settings.BalanceHardLimitRub,
		RequireBalanceConfirmation: settings.RequireBalanceConfirmation,
		RequireBlockConfirmation:   settings.RequireBlockConfirmation,
		RateLimitCount:             settings.RateLimitCount,
		RateLimitWindowSeconds:     settings.RateLimitWindowSeconds,
	}
	h.render(w, r, http.StatusOK, settingsPageData{Form: form})
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	if err := h.csrfManager.Validate(h.csrfManager.TokenFromRequest(r)); err != nil {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}

	form, errors := parseSettingsForm(r)
	if len(errors) == 0 {
		if err := h.validator.Struct(form); err != nil {
			for _, fieldErr := range err.(validator.ValidationErrors) {
				errors[fieldErr.Field()] = fieldErr.Error()
			}
		}
	}

	if len(errors) > 0 {
		h.render(w, r, http.StatusBadRequest, settingsPageData{Form: form, Errors: errors})
		return
	}

	settings := Settings{
		BalanceSoftLimitRub:        form.BalanceSoftLimitRub,
		BalanceHardLimitRub:        form.BalanceHardLimitRub,
		RequireBalanceConfirmation: form.RequireBalanceConfirmation,
		RequireBlockConfirmation:   form.RequireBlockConfirmation,
		RateLimitCount:             form.RateLimitCount,
		RateLimitWindowSeconds:     form.RateLimitWindowSeconds,
		UpdatedAt:                  time.Now().UTC(),
	}
	if err := h.service.Update(r.Context(), settings); err != nil {
		h.logger.Error("update security settings", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		if form.BalanceSoftLimitRub > form.BalanceHardLimitRub && form.BalanceHardLimitRub > 0 {
			sess.AddFlash(shared.FlashMessage{Kind: "warning", Message: "Soft limit exceeds the hard limit; the hard limit will reject first"})
		}
		sess.AddFlash(shared.FlashMessage{Kind: "success", Message: "Settings saved"})
	}
	http.Redirect(w, r, "/security", http.StatusSeeOther)
}

func parseSettingsForm(r *http.Request) (settingsForm, map[string]string) {
	errors := make(map[string]string)
	form := settingsForm{
		RequireBalanceConfirmation: r.PostFormValue("require_balance_confirmation") != "",
		RequireBlockConfirmation:   r.PostFormValue("require_block_confirmation") != "",
	}
	var err error
	if form.BalanceSoftLimitRub, err = strconv.ParseInt(r.PostFormValue("balance_soft_limit_rub"), 10, 64); err != nil {
		errors["BalanceSoftLimitRub"] = "a whole number is expected"
	}
	if form.BalanceHardLimitRub, err = strconv.ParseInt(r.PostFormValue("balance_hard_limit_rub"), 10, 64); err != nil {
		errors["BalanceHardLimitRub"] = "a whole number is expected"
	}
	if form.RateLimitCount, err = strconv.Atoi(r.PostFormValue("rate_limit_count")); err != nil {
		errors["RateLimitCount"] = "a whole number is expected"
	}
	if form.RateLimitWindowSeconds, err = strconv.Atoi(r.PostFormValue("rate_limit_period_seconds")); err != nil {
		errors["RateLimitWindowSeconds"] = "a whole number is expected"
	}
	return form, errors
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, data settingsPageData) {
	sess := shared.SessionFromContext(r.Context())
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	token := h.csrfManager.IssueCookie(w, h.secure)
	viewData := view.TemplateData{
		Title:       "Security",
		CSRFToken:   token,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Locale:      i18n.LocaleFromContext(r.Context()),
		Data:        data,
	}
	if status != http.StatusOK {
		// Headers are flushed by WriteHeader, so the type must be set first.
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
	}
	if err := h.templates.Render(w, "pages/security.html", viewData); err != nil {
		h.logger.Error("render security settings", slog.Any("error", err))
	}
}
