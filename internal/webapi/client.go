// Package webapi wraps the bot's web API: the remote collaborator the console
// invokes for subscription, balance, status and panel-sync operations.
package webapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ConfigurationError indicates the client cannot be used because the base URL
// or API key is missing.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "webapi not configured: " + e.Reason
}

// RequestError carries the upstream status code and decoded payload of a
// failed call. A status code of zero means the request never reached the API.
type RequestError struct {
	Message    string
	StatusCode int
	Payload    Payload
}

func (e *RequestError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (HTTP %d)", e.Message, e.StatusCode)
	}
	return e.Message
}

// Payload is a decoded JSON object returned by the web API. Responses are
// passed through to result shaping and the audit trail without a fixed schema.
type Payload map[string]any

// String returns the value under key when it is a string.
func (p Payload) String(key string) string {
	if v, ok := p[key].(string); ok {
		return v
	}
	return ""
}

// Detail extracts a human-readable message from common error shapes.
func (p Payload) Detail() string {
	switch detail := p["detail"].(type) {
	case string:
		return detail
	case map[string]any:
		if msg, ok := detail["message"].(string); ok {
			return msg
		}
		return fmt.Sprint(detail)
	}
	if errMsg, ok := p["error"]; ok {
		return fmt.Sprint(errMsg)
	}
	return ""
}

// Client calls the bot web API using key-based authentication.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Config collects the settings needed to reach the web API.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Configured reports whether both the base URL and key are present.
func (c Config) Configured() bool {
	return strings.TrimSpace(c.BaseURL) != "" && strings.TrimSpace(c.APIKey) != ""
}

// NewClient constructs a client, or a ConfigurationError when the base URL or
// key is absent.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" || strings.TrimSpace(cfg.APIKey) == "" {
		return nil, &ConfigurationError{Reason: "WEBAPI_BASE_URL or WEBAPI_API_KEY not set"}
	}
	timeout := cfg.Timeout
	if timeout < time.Second {
		timeout = time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// ExtendSubscription adds days to an existing subscription.
func (c *Client) ExtendSubscription(ctx context.Context, subscriptionID int64, days int) (Payload, error) {
	return c.request(ctx, http.MethodPost, fmt.Sprintf("/subscriptions/%d/extend", subscriptionID), map[string]any{
		"days": days,
	})
}

// UpdateBalance adjusts a bot user's balance by a signed amount in kopeks.
func (c *Client) UpdateBalance(ctx context.Context, userID, amountKopeks int64, description string, createTransaction bool) (Payload, error) {
	return c.request(ctx, http.MethodPost, fmt.Sprintf("/users/%d/balance", userID), map[string]any{
		"amount_kopeks":      amountKopeks,
		"description":        description,
		"create_transaction": createTransaction,
	})
}

// UpdateUserStatus sets a bot user's status value.
func (c *Client) UpdateUserStatus(ctx context.Context, userID int64, status string) (Payload, error) {
	return c.request(ctx, http.MethodPatch, fmt.Sprintf("/users/%d", userID), map[string]any{
		"status": status,
	})
}

// SyncToPanel pushes bot data to the RemnaWave panel.
func (c *Client) SyncToPanel(ctx context.Context) (Payload, error) {
	return c.request(ctx, http.MethodPost, "/remnawave/sync/to-panel", nil)
}

// SyncFromPanel pulls data from the panel; mode is "all" or "update_only".
func (c *Client) SyncFromPanel(ctx context.Context, mode string) (Payload, error) {
	return c.request(ctx, http.MethodPost, "/remnawave/sync/from-panel", map[string]any{
		"mode": mode,
	})
}

// SyncSubscriptionStatuses reconciles subscription statuses with the panel.
func (c *Client) SyncSubscriptionStatuses(ctx context.Context) (Payload, error) {
	return c.request(ctx, http.MethodPost, "/remnawave/sync/subscriptions/statuses", nil)
}

func (c *Client) request(ctx context.Context, method, path string, body map[string]any) (Payload, error) {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-Key", c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RequestError{Message: fmt.Sprintf("web API unreachable: %v", err)}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	payload := decodePayload(resp)
	if resp.StatusCode >= 400 {
		message := payload.Detail()
		if message == "" {
			message = "web API returned an error"
		}
		return nil, &RequestError{Message: message, StatusCode: resp.StatusCode, Payload: payload}
	}
	return payload, nil
}

func decodePayload(resp *http.Response) Payload {
	var raw any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return Payload{}
	}
	if obj, ok := raw.(map[string]any); ok {
		return Payload(obj)
	}
	return Payload{"data": raw}
}
