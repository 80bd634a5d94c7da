package shared_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/bedolaga/bedolaga-console/internal/shared"
	_ "github.com/bedolaga/bedolaga-console/internal/testing/guard"
)

func newSessionManager(t *testing.T) *shared.SessionManager {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return shared.NewSessionManager(client, "test_session", "session-signing-secret", time.Hour, false)
}

func sessionCookie(t *testing.T, res *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range res.Result().Cookies() {
		if c.Name == "test_session" {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestSessionRoundTrip(t *testing.T) {
	sm := newSessionManager(t)
	ctx := context.Background()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := sm.Load(ctx, req)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	sess.SetAdmin("42")
	sess.Set("locale", "ru")

	res := httptest.NewRecorder()
	if err := sm.Commit(ctx, res, sess); err != nil {
		t.Fatalf("commit session: %v", err)
	}
	cookie := sessionCookie(t, res)

	second := httptest.NewRequest(http.MethodGet, "/", nil)
	second.AddCookie(cookie)
	reloaded, err := sm.Load(ctx, second)
	if err != nil {
		t.Fatalf("reload session: %v", err)
	}
	if reloaded.Admin() != "42" {
		t.Fatalf("expected admin 42, got %q", reloaded.Admin())
	}
	if reloaded.Get("locale") != "ru" {
		t.Fatalf("expected locale value to survive, got %q", reloaded.Get("locale"))
	}
}

func TestSessionRejectsTamperedCookie(t *testing.T) {
	sm := newSessionManager(t)
	ctx := context.Background()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := sm.Load(ctx, req)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	sess.SetAdmin("42")
	res := httptest.NewRecorder()
	if err := sm.Commit(ctx, res, sess); err != nil {
		t.Fatalf("commit session: %v", err)
	}
	cookie := sessionCookie(t, res)

	for name, value := range map[string]string{
		"swapped id":        "other-id." + cookie.Value[strings.IndexByte(cookie.Value, '.')+1:],
		"missing signature": sess.ID,
		"garbage signature": sess.ID + ".not-base64!",
	} {
		forged := httptest.NewRequest(http.MethodGet, "/", nil)
		forged.AddCookie(&http.Cookie{Name: "test_session", Value: value})
		reloaded, err := sm.Load(ctx, forged)
		if err != nil {
			t.Fatalf("%s: load session: %v", name, err)
		}
		if reloaded.Admin() != "" {
			t.Fatalf("%s: expected anonymous session, got admin %q", name, reloaded.Admin())
		}
		if reloaded.ID == sess.ID {
			t.Fatalf("%s: expected a fresh session ID", name)
		}
	}
}

func TestSessionFlashConsumedOnce(t *testing.T) {
	sm := newSessionManager(t)
	ctx := context.Background()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := sm.Load(ctx, req)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	sess.AddFlash(shared.FlashMessage{Kind: "success", Message: "Settings saved"})

	res := httptest.NewRecorder()
	if err := sm.Commit(ctx, res, sess); err != nil {
		t.Fatalf("commit session: %v", err)
	}
	cookie := sessionCookie(t, res)

	second := httptest.NewRequest(http.MethodGet, "/", nil)
	second.AddCookie(cookie)
	reloaded, err := sm.Load(ctx, second)
	if err != nil {
		t.Fatalf("reload session: %v", err)
	}
	msg := reloaded.PopFlash()
	if msg == nil || msg.Message != "Settings saved" {
		t.Fatalf("expected queued flash, got %+v", msg)
	}
	if reloaded.PopFlash() != nil {
		t.Fatal("expected flash to be consumed")
	}
}

func TestSessionDestroyExpiresCookie(t *testing.T) {
	sm := newSessionManager(t)
	ctx := context.Background()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := sm.Load(ctx, req)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	sess.SetAdmin("42")
	res := httptest.NewRecorder()
	if err := sm.Commit(ctx, res, sess); err != nil {
		t.Fatalf("commit session: %v", err)
	}
	cookie := sessionCookie(t, res)

	sm.Destroy(sess)
	res = httptest.NewRecorder()
	if err := sm.Commit(ctx, res, sess); err != nil {
		t.Fatalf("commit destroy: %v", err)
	}
	expired := sessionCookie(t, res)
	if expired.MaxAge != -1 {
		t.Fatalf("expected expired cookie, got MaxAge %d", expired.MaxAge)
	}

	second := httptest.NewRequest(http.MethodGet, "/", nil)
	second.AddCookie(cookie)
	reloaded, err := sm.Load(ctx, second)
	if err != nil {
		t.Fatalf("reload session: %v", err)
	}
	if reloaded.Admin() != "" {
		t.Fatalf("expected anonymous session after destroy, got %q", reloaded.Admin())
	}
}
