package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/tasksphere/tasksphere/internal/models"
)

// Credentials is the payload of a successful login or registration
type Credentials struct {
	User         models.User `json:"user"`
	Token        string      `json:"token"`
	RefreshToken string      `json:"refreshToken"`
}

// Login authenticates with email and password
func (c *Client) Login(ctx context.Context, email, password string) (*Credentials, error) {
	payload := map[string]string{"email": email, "password": password}
	data, err := c.doJSON(ctx, http.MethodPost, "/auth/login", payload)
	if err != nil {
		return nil, err
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

// Register creates a new account and returns its credentials
func (c *Client) Register(ctx context.Context, name, email, password string) (*Credentials, error) {
	payload := map[string]string{"name": name, "email": email, "password": password}
	data, err := c.doJSON(ctx, http.MethodPost, "/auth/register", payload)
	if err != nil {
		return nil, err
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

// Logout tells the backend to invalidate the session. Callers treat this as
// best-effort; local teardown never waits on it.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.doJSON(ctx, http.MethodPost, "/auth/logout", nil)
	return err
}
