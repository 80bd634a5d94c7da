package actions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/bedolaga/bedolaga-console/internal/audit"
	"github.com/bedolaga/bedolaga-console/internal/i18n"
	"github.com/bedolaga/bedolaga-console/internal/ratelimit"
	"github.com/bedolaga/bedolaga-console/internal/rbac"
	"github.com/bedolaga/bedolaga-console/internal/security"
	"github.com/bedolaga/bedolaga-console/internal/shared"
	"github.com/bedolaga/bedolaga-console/internal/webapi"
)

// Outcome codes describing how a submission ended.
const (
	CodeSuccess           = "success"
	CodeUnknownAction     = "unknown_action"
	CodePermissionDenied  = "permission_denied"
	CodeAPIUnconfigured   = "webapi_not_configured"
	CodeRateLimited       = "rate_limit"
	CodeCSRFFailed        = "csrf_failed"
	CodeValidationFailed  = "validation"
	CodeWebAPIUnavailable = "webapi_configuration"
	CodeWebAPIError       = "webapi_response"
	CodeUnexpected        = "unexpected"
)

// Outcome is the shaped result of a submission, ready for rendering.
type Outcome struct {
	Success bool
	Code    string
	Title   string
	Message string
	Field   string
}

// Request is one action submission.
type Request struct {
	AdminID   int64
	ActionKey string
	CSRFToken string
	Form      url.Values
	Locale    string
	IP        string
	UserAgent string
}

// PermissionSource resolves an admin's effective permissions.
type PermissionSource interface {
	EffectivePermissions(ctx context.Context, adminID int64) (rbac.PermissionSet, error)
	IsSuperadmin(ctx context.Context, adminID int64) (bool, error)
}

// SettingsSource supplies the current security settings.
type SettingsSource interface {
	Snapshot(ctx context.Context) (security.Settings, error)
}

// SubscriptionSource looks up a bot user's subscription for the extend action.
// It returns shared.ErrNotFound when the user holds none.
type SubscriptionSource interface {
	ActiveSubscriptionID(ctx context.Context, userID int64) (int64, error)
}

// RemoteAPI is the slice of the web API client the executor needs.
type RemoteAPI interface {
	ExtendSubscription(ctx context.Context, subscriptionID int64, days int) (webapi.Payload, error)
	UpdateBalance(ctx context.Context, userID, amountKopeks int64, description string, createTransaction bool) (webapi.Payload, error)
	UpdateUserStatus(ctx context.Context, userID int64, status string) (webapi.Payload, error)
	SyncToPanel(ctx context.Context) (webapi.Payload, error)
	SyncFromPanel(ctx context.Context, mode string) (webapi.Payload, error)
	SyncSubscriptionStatuses(ctx context.Context) (webapi.Payload, error)
}

// AuditSink receives activity entries. Recording is best effort and must not
// fail the pipeline.
type AuditSink interface {
	Record(ctx context.Context, entry audit.Entry)
}

// auditMeta accompanies an outcome into the activity log.
type auditMeta struct {
	targetType string
	targetID   string
	payload    map[string]any
}

// Executor runs the authorization and execution pipeline for one submission.
// api is nil when the web API credentials are not configured.
type Executor struct {
	logger        *slog.Logger
	registry      *Registry
	permissions   PermissionSource
	settings      SettingsSource
	limiter       *ratelimit.Limiter
	csrf          *shared.CSRFManager
	api           RemoteAPI
	subscriptions SubscriptionSource
	audit         AuditSink
	observe       func(action, code string)
	now           func() time.Time
}

// SetObserver registers a callback receiving the outcome code of every
// submission, used for metrics.
func (e *Executor) SetObserver(fn func(action, code string)) {
	e.observe = fn
}

// NewExecutor wires the pipeline dependencies.
func NewExecutor(
	logger *slog.Logger,
	registry *Registry,
	permissions PermissionSource,
	settings SettingsSource,
	limiter *ratelimit.Limiter,
	csrf *shared.CSRFManager,
	api RemoteAPI,
	subscriptions SubscriptionSource,
	sink AuditSink,
) *Executor {
	return &Executor{
		logger:        logger,
		registry:      registry,
		permissions:   permissions,
		settings:      settings,
		limiter:       limiter,
		csrf:          csrf,
		api:           api,
		subscriptions: subscriptions,
		audit:         sink,
		now:           time.Now,
	}
}

// Configured reports whether the web API client is available.
func (e *Executor) Configured() bool {
	return e.api != nil
}

// Execute runs the full pipeline. Submissions naming an unrecognized action
// are rejected without an audit entry; every recognized action is logged with
// its outcome.
func (e *Executor) Execute(ctx context.Context, req Request) Outcome {
	loc := req.Locale
	def, ok := e.registry.Lookup(req.ActionKey)
	if !ok {
		if e.observe != nil {
			e.observe(req.ActionKey, CodeUnknownAction)
		}
		return Outcome{
			Code:    CodeUnknownAction,
			Title:   i18n.T(loc, "actions.unknown.title"),
			Message: i18n.T(loc, "actions.unknown.message"),
		}
	}

	// A client disconnect or request timeout must not abort an in-flight
	// remote call or drop the audit entry for it.
	ctx = context.WithoutCancel(ctx)

	outcome, meta := e.run(ctx, req, def)
	if e.observe != nil {
		e.observe(req.ActionKey, outcome.Code)
	}
	e.record(ctx, req, outcome, meta)
	return outcome
}

func (e *Executor) run(ctx context.Context, req Request, def Definition) (Outcome, auditMeta) {
	loc := req.Locale

	perms, err := e.permissions.EffectivePermissions(ctx, req.AdminID)
	if err != nil {
		e.logger.Error("resolve permissions", slog.Int64("admin_id", req.AdminID), slog.Any("error", err))
		return e.unexpected(loc, err), auditMeta{payload: map[string]any{"error": "permission_lookup"}}
	}
	if def.Permission != "" && !perms.Has(def.Permission) {
		return Outcome{
			Code:    CodePermissionDenied,
			Title:   i18n.T(loc, "actions.denied.title"),
			Message: i18n.T(loc, "actions.denied.message"),
		}, auditMeta{payload: map[string]any{"form": formSnapshot(def, req.Form), "reason": "permission_denied"}}
	}

	if e.api == nil {
		return Outcome{
			Code:    CodeAPIUnconfigured,
			Title:   i18n.T(loc, "actions.api_unconfigured.title"),
			Message: i18n.T(loc, "actions.api_unconfigured.message"),
		}, auditMeta{payload: map[string]any{"reason": "webapi_not_configured"}}
	}

	settings, err := e.settings.Snapshot(ctx)
	if err != nil {
		e.logger.Error("load security settings", slog.Any("error", err))
		return e.unexpected(loc, err), auditMeta{payload: map[string]any{"error": "security_settings"}}
	}

	if err := e.applyRateLimit(ctx, req, settings); err != nil {
		return Outcome{
			Code:    CodeRateLimited,
			Title:   i18n.T(loc, "actions.rate_limited.title"),
			Message: i18n.T(loc, "actions.rate_limited.message"),
		}, auditMeta{payload: map[string]any{"form": formSnapshot(def, req.Form), "error": "rate_limit"}}
	}

	if err := e.csrf.Validate(req.CSRFToken); err != nil {
		return Outcome{
			Code:    CodeCSRFFailed,
			Title:   i18n.T(loc, "actions.csrf.title"),
			Message: i18n.T(loc, csrfMessageKey(err)),
		}, auditMeta{payload: map[string]any{"form": formSnapshot(def, req.Form), "error": "csrf_failed"}}
	}

	values, err := ParseFields(def, req.Form, loc)
	if err != nil {
		return e.validationOutcome(loc, err), auditMeta{payload: map[string]any{"form": formSnapshot(def, req.Form), "error": "validation"}}
	}

	var meta auditMeta
	var outcome Outcome
	switch def.Key {
	case KeyExtendSubscription:
		outcome, meta = e.runExtend(ctx, loc, values)
	case KeyRechargeBalance:
		outcome, meta = e.runBalance(ctx, loc, req.Form.Get("confirm_amount"), settings, values)
	case KeyBlockUser:
		outcome, meta = e.runBlock(ctx, loc, req.Form.Get("confirm_block"), settings, values)
	case KeySyncAccess:
		outcome, meta = e.runSync(ctx, loc, values)
	default:
		outcome = e.unexpected(loc, fmt.Errorf("unhandled action %s", def.Key))
	}
	if meta.payload == nil {
		meta.payload = map[string]any{"form": formSnapshot(def, req.Form)}
	}
	return outcome, meta
}

func (e *Executor) applyRateLimit(ctx context.Context, req Request, settings security.Settings) error {
	if e.limiter == nil || settings.RateLimitCount <= 0 || settings.RateLimitWindowSeconds <= 0 {
		return nil
	}
	super, err := e.permissions.IsSuperadmin(ctx, req.AdminID)
	if err != nil {
		e.logger.Warn("superadmin lookup", slog.Int64("admin_id", req.AdminID), slog.Any("error", err))
	} else if super {
		return nil
	}
	key := ratelimit.Key{AdminID: strconv.FormatInt(req.AdminID, 10), Action: req.ActionKey}
	return e.limiter.Hit(key, settings.RateLimitCount, time.Duration(settings.RateLimitWindowSeconds)*time.Second)
}

func (e *Executor) runExtend(ctx context.Context, loc string, values Values) (Outcome, auditMeta) {
	userID := values.Int("user_id")
	days := values.Int("days")

	subscriptionID, err := e.subscriptions.ActiveSubscriptionID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return Outcome{
				Code:    CodeValidationFailed,
				Title:   i18n.T(loc, "actions.validation.title"),
				Message: i18n.T(loc, "actions.extend.missing"),
			}, auditMeta{targetType: "user", targetID: strconv.FormatInt(userID, 10), payload: map[string]any{"error": "validation"}}
		}
		e.logger.Error("subscription lookup", slog.Int64("user_id", userID), slog.Any("error", err))
		return e.unexpected(loc, err), auditMeta{payload: map[string]any{"error": "subscription_lookup"}}
	}

	payload, err := e.api.ExtendSubscription(ctx, subscriptionID, int(days))
	if err != nil {
		return e.remoteFailure(loc, err)
	}

	message := i18n.T(loc, "actions.extend.message", userID, days)
	if endDate := payload.String("end_date"); endDate != "" {
		message += i18n.T(loc, "actions.extend.end_date", endDate)
	}
	return Outcome{
			Success: true,
			Code:    CodeSuccess,
			Title:   i18n.T(loc, "actions.extend.title"),
			Message: message,
		}, auditMeta{
			targetType: "subscription",
			targetID:   strconv.FormatInt(subscriptionID, 10),
			payload: map[string]any{
				"input":    map[string]any{"user_id": userID, "days": days},
				"response": map[string]any(payload),
			},
		}
}

func (e *Executor) runBalance(ctx context.Context, loc, confirmRaw string, settings security.Settings, values Values) (Outcome, auditMeta) {
	userID := values.Int("user_id")
	kopeks := values.Kopeks("amount_rub")
	description := values.Text("description")
	if description == "" {
		description = i18n.T(loc, "actions.balance.default_desc")
	}
	createTransaction := values.Bool("create_transaction")
	confirmed := isChecked(confirmRaw)

	abs := kopeks
	if abs < 0 {
		abs = -abs
	}
	if hard := settings.HardLimitKopeks(); hard > 0 && abs > hard {
		return Outcome{
			Code:    CodeValidationFailed,
			Title:   i18n.T(loc, "actions.validation.title"),
			Message: i18n.T(loc, "validate.hard_limit", formatKopeks(abs), formatKopeks(hard)),
		}, auditMeta{targetType: "user", targetID: strconv.FormatInt(userID, 10), payload: map[string]any{"error": "validation"}}
	}
	if soft := settings.SoftLimitKopeks(); settings.RequireBalanceConfirmation && soft > 0 && abs > soft && !confirmed {
		return Outcome{
			Code:    CodeValidationFailed,
			Title:   i18n.T(loc, "actions.confirm.title"),
			Message: i18n.T(loc, "validate.confirm_amount"),
		}, auditMeta{targetType: "user", targetID: strconv.FormatInt(userID, 10), payload: map[string]any{"error": "validation"}}
	}

	payload, err := e.api.UpdateBalance(ctx, userID, kopeks, description, createTransaction)
	if err != nil {
		return e.remoteFailure(loc, err)
	}

	message := i18n.T(loc, "actions.balance.message", userID, formatSignedKopeks(kopeks))
	if balance, ok := balanceFromPayload(payload); ok {
		message += i18n.T(loc, "actions.balance.current", balance)
	}
	return Outcome{
			Success: true,
			Code:    CodeSuccess,
			Title:   i18n.T(loc, "actions.balance.title"),
			Message: message,
		}, auditMeta{
			targetType: "user",
			targetID:   strconv.FormatInt(userID, 10),
			payload: map[string]any{
				"input": map[string]any{
					"amount_kopeks":      kopeks,
					"amount_rub":         formatKopeks(kopeks),
					"description":        description,
					"create_transaction": createTransaction,
					"confirmed":          confirmed,
				},
				"response": map[string]any(payload),
				"limits": map[string]any{
					"soft_limit_rub": settings.BalanceSoftLimitRub,
					"hard_limit_rub": settings.BalanceHardLimitRub,
				},
			},
		}
}

func (e *Executor) runBlock(ctx context.Context, loc, confirmRaw string, settings security.Settings, values Values) (Outcome, auditMeta) {
	userID := values.Int("user_id")
	mode := values.Text("mode")
	confirmed := isChecked(confirmRaw)

	if settings.RequireBlockConfirmation && !confirmed {
		return Outcome{
			Code:    CodeValidationFailed,
			Title:   i18n.T(loc, "actions.confirm.title"),
			Message: i18n.T(loc, "validate.confirm_block"),
		}, auditMeta{targetType: "user", targetID: strconv.FormatInt(userID, 10), payload: map[string]any{"error": "validation"}}
	}

	status := UserStatusBlocked
	actionKey := "actions.block.blocked"
	if mode == BlockModeUnblock {
		status = UserStatusActive
		actionKey = "actions.block.unblocked"
	}

	payload, err := e.api.UpdateUserStatus(ctx, userID, status)
	if err != nil {
		return e.remoteFailure(loc, err)
	}

	newStatus := payload.String("status")
	if newStatus == "" {
		newStatus = status
	}
	return Outcome{
			Success: true,
			Code:    CodeSuccess,
			Title:   i18n.T(loc, "actions.block.title"),
			Message: i18n.T(loc, "actions.block.message", userID, newStatus, i18n.T(loc, actionKey)),
		}, auditMeta{
			targetType: "user",
			targetID:   strconv.FormatInt(userID, 10),
			payload: map[string]any{
				"input":    map[string]any{"mode": mode, "status": status, "confirmed": confirmed},
				"response": map[string]any(payload),
			},
		}
}

func (e *Executor) runSync(ctx context.Context, loc string, values Values) (Outcome, auditMeta) {
	mode := values.Text("mode")

	var payload webapi.Payload
	var err error
	var defaultKey string
	switch mode {
	case SyncToPanel:
		payload, err = e.api.SyncToPanel(ctx)
		defaultKey = "actions.sync.to_panel"
	case SyncFromPanelAll:
		payload, err = e.api.SyncFromPanel(ctx, "all")
		defaultKey = "actions.sync.from_panel_all"
	case SyncFromPanelUpdate:
		payload, err = e.api.SyncFromPanel(ctx, "update_only")
		defaultKey = "actions.sync.from_panel_upd"
	case SyncStatuses:
		payload, err = e.api.SyncSubscriptionStatuses(ctx)
		defaultKey = "actions.sync.statuses"
	default:
		return Outcome{
			Code:    CodeValidationFailed,
			Title:   i18n.T(loc, "actions.validation.title"),
			Message: i18n.T(loc, "validate.sync_mode"),
		}, auditMeta{targetType: "remnawave_sync", targetID: mode, payload: map[string]any{"error": "validation"}}
	}
	if err != nil {
		return e.remoteFailure(loc, err)
	}

	return Outcome{
			Success: true,
			Code:    CodeSuccess,
			Title:   i18n.T(loc, "actions.sync.title"),
			Message: syncMessage(payload, i18n.T(loc, defaultKey)),
		}, auditMeta{
			targetType: "remnawave_sync",
			targetID:   mode,
			payload: map[string]any{
				"input":    map[string]any{"mode": mode},
				"response": map[string]any(payload),
			},
		}
}

func (e *Executor) remoteFailure(loc string, err error) (Outcome, auditMeta) {
	var confErr *webapi.ConfigurationError
	if errors.As(err, &confErr) {
		return Outcome{
			Code:    CodeWebAPIUnavailable,
			Title:   i18n.T(loc, "actions.webapi_config.title"),
			Message: confErr.Error(),
		}, auditMeta{payload: map[string]any{"error": "webapi_configuration"}}
	}
	var reqErr *webapi.RequestError
	if errors.As(err, &reqErr) {
		return Outcome{
			Code:    CodeWebAPIError,
			Title:   i18n.T(loc, "actions.webapi_error.title"),
			Message: reqErr.Error(),
		}, auditMeta{payload: map[string]any{"error": "webapi_response", "response": map[string]any(reqErr.Payload)}}
	}
	e.logger.Error("web API call", slog.Any("error", err))
	return e.unexpected(loc, err), auditMeta{payload: map[string]any{"error": "unexpected_exception"}}
}

func (e *Executor) validationOutcome(loc string, err error) Outcome {
	outcome := Outcome{
		Code:    CodeValidationFailed,
		Title:   i18n.T(loc, "actions.validation.title"),
		Message: err.Error(),
	}
	var valErr *ValidationError
	if errors.As(err, &valErr) {
		outcome.Field = valErr.Field
	}
	return outcome
}

func (e *Executor) unexpected(loc string, err error) Outcome {
	return Outcome{
		Code:    CodeUnexpected,
		Title:   i18n.T(loc, "actions.unexpected.title"),
		Message: i18n.T(loc, "actions.unexpected.message") + " " + err.Error(),
	}
}

func (e *Executor) record(ctx context.Context, req Request, outcome Outcome, meta auditMeta) {
	if e.audit == nil {
		return
	}
	status := audit.StatusError
	if outcome.Success {
		status = audit.StatusSuccess
	}
	e.audit.Record(ctx, audit.Entry{
		AdminID:    req.AdminID,
		Action:     req.ActionKey,
		Status:     status,
		Message:    outcome.Message,
		TargetType: meta.targetType,
		TargetID:   meta.targetID,
		Payload:    meta.payload,
		IP:         req.IP,
		UserAgent:  req.UserAgent,
		CreatedAt:  e.now().UTC(),
	})
}

// formSnapshot captures the submitted values of the declared fields for the
// audit trail. Checkbox values are normalized to "on"/"".
func formSnapshot(def Definition, form url.Values) map[string]any {
	snapshot := make(map[string]any, len(def.Fields))
	for _, field := range def.Fields {
		if field.Type == FieldBoolean {
			if isChecked(form.Get(field.Name)) {
				snapshot[field.Name] = "on"
			} else {
				snapshot[field.Name] = ""
			}
			continue
		}
		snapshot[field.Name] = form.Get(field.Name)
	}
	return snapshot
}

func csrfMessageKey(err error) string {
	switch {
	case errors.Is(err, shared.ErrCSRFTokenMissing):
		return "actions.csrf.missing"
	case errors.Is(err, shared.ErrCSRFInvalidFormat):
		return "actions.csrf.format"
	case errors.Is(err, shared.ErrCSRFInvalidLength):
		return "actions.csrf.length"
	case errors.Is(err, shared.ErrCSRFExpired):
		return "actions.csrf.expired"
	default:
		return "actions.csrf.signature"
	}
}

// syncMessage appends the payload's data or stats pairs to the detail line.
func syncMessage(payload webapi.Payload, fallback string) string {
	detail := payload.Detail()
	if detail == "" {
		detail = fallback
	}
	data, ok := payload["data"].(map[string]any)
	if !ok {
		data, ok = payload["stats"].(map[string]any)
	}
	if !ok || len(data) == 0 {
		return detail
	}
	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, fmt.Sprintf("%s: %v", key, data[key]))
	}
	out := detail + " ("
	for i, pair := range pairs {
		if i > 0 {
			out += ", "
		}
		out += pair
	}
	return out + ")"
}

func balanceFromPayload(payload webapi.Payload) (string, bool) {
	switch v := payload["balance_rubles"].(type) {
	case string:
		return v, true
	case float64:
		return fmt.Sprintf("%.2f", v), true
	}
	if v, ok := payload["balance_kopeks"].(float64); ok {
		return formatKopeks(int64(v)), true
	}
	return "", false
}
