package views

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/tasksphere/tasksphere/internal/api"
	"github.com/tasksphere/tasksphere/internal/session"
	"github.com/tasksphere/tasksphere/internal/store"
)

// newTestBackend returns an API client wired to a test server, plus a flag
// that records whether any request reached the backend.
func newTestBackend(t *testing.T, handler http.Handler) (*api.Client, *store.Store, *bool) {
	t.Helper()
	settings, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = settings.Close() })

	hit := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hit = true
		if handler != nil {
			handler.ServeHTTP(w, r)
			return
		}
		w.Write([]byte(`{"success":true,"data":{}}`))
	}))
	t.Cleanup(server.Close)

	return api.New(server.URL, settings), settings, &hit
}

func TestLoginRejectsBadInputWithoutNetworkCall(t *testing.T) {
	client, settings, hit := newTestBackend(t, nil)
	sess := session.NewStore(settings, client)

	tests := []struct {
		name        string
		registering bool
		formName    string
		email       string
		password    string
		want        string
	}{
		{"missing name", true, "", "ana@example.com", "secret1", "Name is required"},
		{"bad email", false, "", "not-an-email", "secret1", "Invalid email format"},
		{"short password", false, "", "ana@example.com", "abc", "Password must be at least 6 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewLoginView(sess)
			v.registering = tt.registering
			v.name.SetValue(tt.formName)
			v.email.SetValue(tt.email)
			v.password.SetValue(tt.password)

			cmd := v.submit()
			if cmd == nil {
				t.Fatal("expected a notice command")
			}
			notice, ok := cmd().(Notice)
			if !ok {
				t.Fatalf("expected a Notice, got %T", cmd())
			}
			if !notice.IsError || notice.Text != tt.want {
				t.Fatalf("notice = %+v, want error %q", notice, tt.want)
			}
			if v.submitting {
				t.Fatal("rejected submit must not enter the submitting state")
			}
			if *hit {
				t.Fatal("client-side rejection must not reach the backend")
			}
		})
	}
}

func TestLoginSubmitEmitsLoggedIn(t *testing.T) {
	client, settings, _ := newTestBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":{
			"user":{"id":"u1","name":"Ana","email":"ana@example.com"},
			"token":"tok","refreshToken":"refresh"}}`))
	}))
	sess := session.NewStore(settings, client)

	v := NewLoginView(sess)
	v.email.SetValue("ana@example.com")
	v.password.SetValue("secret1")

	cmd := v.submit()
	if cmd == nil {
		t.Fatal("expected a login command")
	}
	if !v.submitting {
		t.Fatal("expected the submitting state during the request")
	}

	done, ok := cmd().(loginDoneMsg)
	if !ok {
		t.Fatalf("expected loginDoneMsg, got %T", cmd())
	}
	if done.err != nil {
		t.Fatalf("login: %v", done.err)
	}
	if !sess.IsAuthenticated() {
		t.Fatal("expected an authenticated session")
	}

	_, batch := v.Update(done)
	if batch == nil {
		t.Fatal("expected follow-up messages after login")
	}
}
