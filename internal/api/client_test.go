package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/tasksphere/tasksphere/internal/store"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *store.Store) {
	t.Helper()
	settings, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = settings.Close() })

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return New(server.URL, settings), settings
}

func TestBearerTokenAttachedWhenPresent(t *testing.T) {
	var gotAuth string
	client, settings := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"success":true,"data":[]}`))
	}))

	if _, err := client.ListProjects(context.Background()); err != nil {
		t.Fatalf("list projects: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("expected no auth header without a token, got %q", gotAuth)
	}

	if err := settings.Set(store.KeyToken, "tok123"); err != nil {
		t.Fatalf("set token: %v", err)
	}
	if _, err := client.ListProjects(context.Background()); err != nil {
		t.Fatalf("list projects with token: %v", err)
	}
	if gotAuth != "Bearer tok123" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
}

func TestUnauthorizedPurgesTokenAndUser(t *testing.T) {
	client, settings := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"message":"token expired"}`))
	}))

	settings.Set(store.KeyToken, "stale")
	settings.Set(store.KeyRefreshToken, "refresh")
	settings.Set(store.KeyUser, `{"id":"u1"}`)

	_, err := client.GetTask(context.Background(), "t1")
	if !IsUnauthorized(err) {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
	if err.Error() != "token expired" {
		t.Fatalf("expected backend message, got %q", err.Error())
	}

	if token, _ := settings.Get(store.KeyToken); token != "" {
		t.Fatalf("expected token purged, got %q", token)
	}
	if user, _ := settings.Get(store.KeyUser); user != "" {
		t.Fatalf("expected user purged, got %q", user)
	}
	// The refresh token survives; only a full logout removes it
	if refresh, _ := settings.Get(store.KeyRefreshToken); refresh != "refresh" {
		t.Fatalf("expected refresh token kept, got %q", refresh)
	}
}

func TestErrorCarriesStatusAndBodyMessage(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"success":false,"error":"user is already a collaborator"}`))
	}))

	_, err := client.AddCollaborator(context.Background(), "p1", "dup@example.com")
	if StatusOf(err) != http.StatusConflict {
		t.Fatalf("expected 409, got %v", err)
	}
	if err.Error() != "user is already a collaborator" {
		t.Fatalf("expected body message, got %q", err.Error())
	}
}

func TestUnsuccessfulEnvelopeIsAnError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"message":"upload failed"}`))
	}))

	_, err := client.ListProjects(context.Background())
	if err == nil {
		t.Fatal("expected error for success=false envelope")
	}
	if err.Error() != "upload failed" {
		t.Fatalf("expected envelope message, got %q", err.Error())
	}
}

func TestNonEnvelopeErrorBodyFallsBack(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))

	err := client.DeleteProject(context.Background(), "p1")
	if StatusOf(err) != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %v", err)
	}
	if err.Error() != "request failed" {
		t.Fatalf("expected fallback message, got %q", err.Error())
	}
}

func TestListTasksUnwrapsNestedList(t *testing.T) {
	var gotQuery string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"success":true,"data":{"tasks":[
			{"_id":"t1","title":"First","status":"todo"},
			{"_id":"t2","title":"Second","status":"done"}
		]}}`))
	}))

	tasks, err := client.ListTasks(context.Background(), TaskQuery{ProjectID: "p1", Limit: ScopeLimit})
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if tasks[0].ID != "t1" || tasks[1].Status != "done" {
		t.Fatalf("unexpected tasks: %+v", tasks)
	}
	if gotQuery != "limit=1000&project_id=p1" {
		t.Fatalf("unexpected query: %q", gotQuery)
	}
}

func TestListUserProjectsUnwrapsNestedList(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":{"projects":[{"_id":"p1","name":"Alpha"}]}}`))
	}))

	projects, err := client.ListUserProjects(context.Background())
	if err != nil {
		t.Fatalf("list user projects: %v", err)
	}
	if len(projects) != 1 || projects[0].Name != "Alpha" {
		t.Fatalf("unexpected projects: %+v", projects)
	}
}

func TestUploadTaskImage(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		file, header, err := r.FormFile("image")
		if err != nil {
			t.Errorf("form file: %v", err)
		} else {
			file.Close()
			if header.Filename != "photo.png" {
				t.Errorf("expected filename photo.png, got %q", header.Filename)
			}
		}
		w.Write([]byte(`{"success":true,"data":{"url":"https://cdn.example.com/x.png","public_id":"x"}}`))
	}))

	path := filepath.Join(t.TempDir(), "photo.png")
	if err := os.WriteFile(path, []byte("not-really-a-png"), 0o644); err != nil {
		t.Fatalf("write image: %v", err)
	}

	upload, err := client.UploadTaskImage(context.Background(), path)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if upload.URL != "https://cdn.example.com/x.png" || upload.PublicID != "x" {
		t.Fatalf("unexpected upload result: %+v", upload)
	}
}

func TestCreateTaskSendsMultipartFields(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if got := r.FormValue("title"); got != "Ship it" {
			t.Errorf("expected title field, got %q", got)
		}
		if got := r.FormValue("image_url"); got != "https://cdn.example.com/x.png" {
			t.Errorf("expected image_url field, got %q", got)
		}
		w.Write([]byte(`{"success":true,"data":{"_id":"t9","title":"Ship it","status":"todo"}}`))
	}))

	task, err := client.CreateTask(context.Background(), TaskInput{
		Title:     "Ship it",
		Status:    "todo",
		ProjectID: "p1",
		CreatorID: "u1",
		ImageURL:  "https://cdn.example.com/x.png",
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if task.ID != "t9" {
		t.Fatalf("unexpected task: %+v", task)
	}
}
