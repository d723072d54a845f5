// Package session owns the authenticated user's identity and credentials.
//
// A session is three durable key/value entries (token, refreshToken, user)
// plus an in-memory mirror of the user. The token and user are always
// written and cleared together; a partial session is invalid and purged.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tasksphere/tasksphere/internal/api"
	"github.com/tasksphere/tasksphere/internal/models"
	"github.com/tasksphere/tasksphere/internal/store"
)

// ErrNotAuthenticated is returned by operations that require a session
var ErrNotAuthenticated = errors.New("not logged in")

// Store holds the current session
type Store struct {
	settings *store.Store
	client   *api.Client
	user     *models.User
}

func NewStore(settings *store.Store, client *api.Client) *Store {
	return &Store{settings: settings, client: client}
}

// Restore loads a stored session into memory. It runs once at startup,
// before the UI; anything partial, unparsable, or already expired is purged
// so the app starts cleanly unauthenticated.
func (s *Store) Restore() error {
	token, err := s.settings.Get(store.KeyToken)
	if err != nil {
		return err
	}
	refresh, err := s.settings.Get(store.KeyRefreshToken)
	if err != nil {
		return err
	}
	userJSON, err := s.settings.Get(store.KeyUser)
	if err != nil {
		return err
	}

	if token == "" || refresh == "" || userJSON == "" {
		return s.purge()
	}

	var user models.User
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil || user.ID == "" {
		return s.purge()
	}

	if tokenExpired(token, time.Now()) {
		return s.purge()
	}

	s.user = &user
	return nil
}

// tokenExpired reports whether token is a JWT whose exp claim has passed.
// Tokens that don't parse or carry no exp are kept; the 401 safety net in
// the API client catches those once the backend rejects them.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}

// Login authenticates and persists the session. Failures come back as
// errors with a user-displayable message; nothing is persisted unless the
// response carried a complete session.
func (s *Store) Login(ctx context.Context, email, password string) error {
	creds, err := s.client.Login(ctx, email, password)
	if err != nil {
		return err
	}
	return s.adopt(creds)
}

// Register creates an account and persists its session
func (s *Store) Register(ctx context.Context, name, email, password string) error {
	creds, err := s.client.Register(ctx, name, email, password)
	if err != nil {
		return err
	}
	return s.adopt(creds)
}

// adopt validates and persists credentials. A malformed response (missing
// user, token, or refresh token) is rejected without touching storage.
func (s *Store) adopt(creds *api.Credentials) error {
	if creds == nil || creds.User.ID == "" || creds.Token == "" || creds.RefreshToken == "" {
		return errors.New("invalid response from server")
	}

	userJSON, err := json.Marshal(creds.User)
	if err != nil {
		return err
	}

	if err := s.settings.Set(store.KeyToken, creds.Token); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	if err := s.settings.Set(store.KeyRefreshToken, creds.RefreshToken); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	if err := s.settings.Set(store.KeyUser, string(userJSON)); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	user := creds.User
	s.user = &user
	return nil
}

// Logout tears the local session down and tells the backend afterwards.
// The backend call is best-effort: its failure never blocks local teardown.
func (s *Store) Logout(ctx context.Context) {
	_ = s.purge()
	_ = s.client.Logout(ctx)
}

// Purge drops the session without calling the backend. The API client's
// 401 handler already cleared the token and user keys by the time the
// router sees the rejection; this removes the rest.
func (s *Store) Purge() {
	_ = s.purge()
}

func (s *Store) purge() error {
	s.user = nil
	errToken := s.settings.Delete(store.KeyToken)
	errRefresh := s.settings.Delete(store.KeyRefreshToken)
	errUser := s.settings.Delete(store.KeyUser)
	return errors.Join(errToken, errRefresh, errUser)
}

// IsAuthenticated reports whether a user is logged in. The route guard
// reads this before rendering anything but the login view.
func (s *Store) IsAuthenticated() bool {
	return s.user != nil
}

// CurrentUser returns the logged-in user, or nil
func (s *Store) CurrentUser() *models.User {
	return s.user
}
