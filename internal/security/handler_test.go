package security

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/bedolaga/bedolaga-console/internal/shared"
	_ "github.com/bedolaga/bedolaga-console/internal/testing/guard"
	"github.com/bedolaga/bedolaga-console/internal/view"
)

func newSettingsHandler(t *testing.T) (*Handler, *shared.CSRFManager) {
	t.Helper()
	templates, err := view.NewEngine()
	if err != nil {
		t.Fatalf("template engine: %v", err)
	}
	csrf := shared.NewCSRFManager("0123456789abcdef0123456789abcdef", "bedolaga_csrf", "X-CSRF-Token", time.Hour)
	return NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), nil, templates, csrf, false), csrf
}

func postSettings(h *Handler, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/security", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	res := httptest.NewRecorder()
	h.handleUpdate(res, req)
	return res
}

func TestHandleUpdateInvalidInputRendersHTMLPage(t *testing.T) {
	h, csrf := newSettingsHandler(t)

	res := postSettings(h, url.Values{
		shared.CSRFFormField:        {csrf.Issue()},
		"balance_soft_limit_rub":    {"not-a-number"},
		"balance_hard_limit_rub":    {"1000"},
		"rate_limit_count":          {"10"},
		"rate_limit_period_seconds": {"60"},
	})

	if res.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", res.Code, http.StatusBadRequest)
	}
	if got := res.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/html") {
		t.Fatalf("Content-Type = %q, want text/html", got)
	}
	if !strings.Contains(res.Body.String(), "a whole number is expected") {
		t.Fatal("expected the field error to be rendered")
	}
}

func TestHandleUpdateRejectsMissingCSRF(t *testing.T) {
	h, _ := newSettingsHandler(t)

	res := postSettings(h, url.Values{
		"balance_soft_limit_rub":    {"500"},
		"balance_hard_limit_rub":    {"1000"},
		"rate_limit_count":          {"10"},
		"rate_limit_period_seconds": {"60"},
	})

	if res.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", res.Code, http.StatusForbidden)
	}
}
