package webapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewClient(Config{BaseURL: srv.URL, APIKey: "test-key", Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestNewClientRequiresConfiguration(t *testing.T) {
	_, err := NewClient(Config{BaseURL: "", APIKey: "key"})
	var confErr *ConfigurationError
	if !errors.As(err, &confErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if (Config{BaseURL: "http://x", APIKey: ""}).Configured() {
		t.Fatalf("missing key must not count as configured")
	}
}

func TestExtendSubscriptionSendsDaysAndKey(t *testing.T) {
	var gotPath, gotKey string
	var gotBody map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("X-API-Key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]any{"end_date": "2026-09-06"})
	})

	payload, err := client.ExtendSubscription(context.Background(), 55, 7)
	if err != nil {
		t.Fatalf("extend: %v", err)
	}
	if gotPath != "/subscriptions/55/extend" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Fatalf("missing API key header")
	}
	if gotBody["days"] != float64(7) {
		t.Fatalf("expected days=7 in body, got %v", gotBody)
	}
	if payload.String("end_date") != "2026-09-06" {
		t.Fatalf("expected end_date passthrough, got %v", payload)
	}
}

func TestRequestErrorCarriesStatusAndDetail(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]any{"detail": "balance would go negative"})
	})

	_, err := client.UpdateBalance(context.Background(), 3, -100000, "test", true)
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected RequestError, got %v", err)
	}
	if reqErr.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", reqErr.StatusCode)
	}
	if reqErr.Message != "balance would go negative" {
		t.Fatalf("expected detail message, got %q", reqErr.Message)
	}
}

func TestNonObjectResponseIsWrapped(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]int{1, 2, 3})
	})
	payload, err := client.SyncToPanel(context.Background())
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if _, ok := payload["data"]; !ok {
		t.Fatalf("expected array wrapped under data, got %v", payload)
	}
}

func TestSyncFromPanelMode(t *testing.T) {
	var gotBody map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]any{"detail": "ok"})
	})
	if _, err := client.SyncFromPanel(context.Background(), "update_only"); err != nil {
		t.Fatalf("sync from panel: %v", err)
	}
	if gotBody["mode"] != "update_only" {
		t.Fatalf("expected mode=update_only, got %v", gotBody)
	}
}
