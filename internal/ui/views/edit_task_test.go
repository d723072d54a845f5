package views

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/tasksphere/tasksphere/internal/models"
	"github.com/tasksphere/tasksphere/internal/session"
	"github.com/tasksphere/tasksphere/internal/store"
)

func taskBackendHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":{"_id":"t1","title":"Write the report","status":"todo"}}`))
	})
}

func seedAuthenticated(t *testing.T, settings *store.Store, sess *session.Store) {
	t.Helper()
	settings.Set(store.KeyToken, "opaque-token")
	settings.Set(store.KeyRefreshToken, "refresh")
	settings.Set(store.KeyUser, `{"id":"u1","name":"Ana","email":"ana@example.com"}`)
	if err := sess.Restore(); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if !sess.IsAuthenticated() {
		t.Fatal("expected an authenticated session")
	}
}

func TestSaveTaskWithoutUploadIsRejectedLocally(t *testing.T) {
	client, settings, hit := newTestBackend(t, nil)
	sess := session.NewStore(settings, client)

	v := NewEditTaskView(client, sess, nil, "p1", false)
	v.title.SetValue("Write the report")
	v.dueDate.SetValue(time.Now().AddDate(0, 0, 7).Format(dueDateLayout))

	cmd := v.save()
	if cmd == nil {
		t.Fatal("expected a notice command")
	}
	notice, ok := cmd().(Notice)
	if !ok {
		t.Fatalf("expected a Notice, got %T", cmd())
	}
	if !notice.IsError || notice.Text != "Upload an image first" {
		t.Fatalf("notice = %+v, want the upload guard message", notice)
	}
	if v.saving {
		t.Fatal("rejected save must not enter the saving state")
	}
	if *hit {
		t.Fatal("save without an uploaded image must not reach the backend")
	}
}

func TestSaveTaskValidation(t *testing.T) {
	client, settings, hit := newTestBackend(t, nil)
	sess := session.NewStore(settings, client)

	future := time.Now().AddDate(0, 0, 7).Format(dueDateLayout)
	past := time.Now().AddDate(0, 0, -7).Format(dueDateLayout)

	tests := []struct {
		name    string
		title   string
		dueDate string
		want    string
	}{
		{"short title", "ab", future, "Task title must be at least 3 characters"},
		{"bad date", "Write the report", "next tuesday", "Due date must look like " + dueDateLayout},
		{"past date for new task", "Write the report", past, "Due date must be in the future"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewEditTaskView(client, sess, nil, "p1", false)
			v.title.SetValue(tt.title)
			v.dueDate.SetValue(tt.dueDate)

			notice, ok := v.save()().(Notice)
			if !ok || !notice.IsError || notice.Text != tt.want {
				t.Fatalf("notice = %+v, want error %q", notice, tt.want)
			}
			if *hit {
				t.Fatal("client-side rejection must not reach the backend")
			}
		})
	}
}

func TestEditKeepsStoredDescription(t *testing.T) {
	var sent url.Values
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse form: %v", err)
		}
		sent = r.MultipartForm.Value
		w.Write([]byte(`{"success":true,"data":{"_id":"t1","title":"Write the report","status":"todo"}}`))
	})

	client, settings, _ := newTestBackend(t, handler)
	sess := session.NewStore(settings, client)
	seedAuthenticated(t, settings, sess)

	task := &models.Task{
		ID:          "t1",
		Title:       "Write the report",
		Description: "important details",
		Status:      models.StatusTodo,
		DueDate:     time.Now().AddDate(0, 0, 7),
		ImageURL:    "https://cdn.example.com/report.png",
	}
	v := NewEditTaskView(client, sess, task, "p1", false)

	if _, ok := v.save()().(taskSavedMsg); !ok {
		t.Fatal("expected the task write to succeed")
	}
	if got := sent.Get("description"); got != "important details" {
		t.Fatalf("description sent = %q, want the stored description", got)
	}
}

func TestUploadThenSaveSendsTask(t *testing.T) {
	client, settings, _ := newTestBackend(t, taskBackendHandler())
	sess := session.NewStore(settings, client)
	seedAuthenticated(t, settings, sess)

	v := NewEditTaskView(client, sess, nil, "p1", false)
	v.title.SetValue("Write the report")
	v.dueDate.SetValue(time.Now().AddDate(0, 0, 7).Format(dueDateLayout))
	v.imageURL = "https://cdn.example.com/report.png"

	cmd := v.save()
	if cmd == nil {
		t.Fatal("expected a save command")
	}
	if _, ok := cmd().(taskSavedMsg); !ok {
		t.Fatal("expected the task write to succeed")
	}

	_, after := v.Update(taskSavedMsg{})
	if after == nil {
		t.Fatal("expected navigation after save")
	}
}
