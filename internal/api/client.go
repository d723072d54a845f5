// Package api is the HTTP client for the TaskSphere REST backend.
//
// Every response arrives in a {success, data} envelope; do unwraps it and
// returns the raw data payload for the endpoint wrappers to decode. A 401
// from any endpoint clears the durable session keys before the error is
// returned, so a stale token discovered mid-session always tears the local
// session down no matter which operation tripped it.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tasksphere/tasksphere/internal/store"
)

// Client talks to the TaskSphere backend
type Client struct {
	baseURL  string
	http     *http.Client
	settings *store.Store
}

// New creates a client for the backend at baseURL. The settings store
// provides the bearer token and receives the purge on 401 responses.
func New(baseURL string, settings *store.Store) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: 30 * time.Second},
		settings: settings,
	}
}

// envelope is the backend's uniform response wrapper
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Err     string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func (e envelope) message() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err
}

// doJSON sends a JSON-encoded payload. A nil payload sends an empty body.
func (c *Client) doJSON(ctx context.Context, method, path string, payload any) (json.RawMessage, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(data)
	}
	return c.do(ctx, method, path, body, "application/json")
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token, err := c.settings.Get(store.KeyToken); err == nil && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var env envelope
	// A body that is not an envelope still produces a useful status error below
	_ = json.Unmarshal(data, &env)

	if resp.StatusCode == http.StatusUnauthorized {
		c.purgeSession()
		return nil, &Error{Status: resp.StatusCode, Message: messageOr(env, "session expired")}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{Status: resp.StatusCode, Message: messageOr(env, "request failed")}
	}

	if !env.Success {
		return nil, &Error{Status: resp.StatusCode, Message: messageOr(env, "request failed")}
	}

	return env.Data, nil
}

func messageOr(env envelope, fallback string) string {
	if msg := env.message(); msg != "" {
		return msg
	}
	return fallback
}

// purgeSession clears the token and user keys. The refresh token is left in
// place; a full logout removes it.
func (c *Client) purgeSession() {
	_ = c.settings.Delete(store.KeyToken)
	_ = c.settings.Delete(store.KeyUser)
}
