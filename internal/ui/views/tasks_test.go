package views

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tasksphere/tasksphere/internal/api"
	"github.com/tasksphere/tasksphere/internal/session"
)

func TestProjectLoadFailureSettlesBrowser(t *testing.T) {
	client, settings, _ := newTestBackend(t, nil)
	sess := session.NewStore(settings, client)

	v := NewTaskListView(client, sess)
	v.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	_, cmd := v.Update(RequestFailed{
		Op:  "load projects",
		Err: &api.Error{Status: 500, Message: "boom"},
	})

	if cmd == nil {
		t.Fatal("expected an error notice")
	}
	notice, ok := cmd().(Notice)
	if !ok || !notice.IsError {
		t.Fatalf("expected an error notice, got %+v", cmd())
	}
	if !v.browser.loaded {
		t.Fatal("expected the browser to settle after a failed project load")
	}
	if strings.Contains(v.View(), "Loading tasks...") {
		t.Fatal("view must not stay in the loading state after the failure")
	}
}
