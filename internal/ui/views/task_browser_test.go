package views

import (
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tasksphere/tasksphere/internal/models"
	"github.com/tasksphere/tasksphere/internal/ui/styles"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func browserTasks(n int) []models.Task {
	tasks := make([]models.Task, n)
	for i := range tasks {
		status := models.StatusTodo
		if i%2 == 1 {
			status = models.StatusDone
		}
		tasks[i] = models.Task{
			ID:      fmt.Sprintf("t%d", i+1),
			Title:   fmt.Sprintf("Task %d", i+1),
			Status:  status,
			Creator: models.Ref{ID: "u1", Name: "Ana"},
			Project: models.Ref{ID: "p1", Name: "Apollo"},
		}
	}
	return tasks
}

func newTestBrowser(n int) taskBrowser {
	b := newTaskBrowser(styles.NewStyles())
	b.setTasks(browserTasks(n))
	return b
}

func TestBrowserPaginationKeys(t *testing.T) {
	b := newTestBrowser(25)

	if got := b.totalPages(); got != 3 {
		t.Fatalf("total pages = %d, want 3", got)
	}

	b.handleKey(tea.KeyMsg{Type: tea.KeyRight})
	if b.fs.Page != 2 {
		t.Fatalf("page after right = %d, want 2", b.fs.Page)
	}
	if got := b.visible()[0].ID; got != "t11" {
		t.Fatalf("first visible on page 2 = %s, want t11", got)
	}

	b.handleKey(tea.KeyMsg{Type: tea.KeyRight})
	b.handleKey(tea.KeyMsg{Type: tea.KeyRight})
	if b.fs.Page != 3 {
		t.Fatalf("page clamped = %d, want 3", b.fs.Page)
	}
	if got := len(b.visible()); got != 5 {
		t.Fatalf("last page size = %d, want 5", got)
	}

	b.handleKey(tea.KeyMsg{Type: tea.KeyLeft})
	if b.fs.Page != 2 {
		t.Fatalf("page after left = %d, want 2", b.fs.Page)
	}
}

func TestBrowserSearchResetsPage(t *testing.T) {
	b := newTestBrowser(25)
	b.handleKey(tea.KeyMsg{Type: tea.KeyRight})
	if b.fs.Page != 2 {
		t.Fatalf("page = %d, want 2", b.fs.Page)
	}

	// "/" opens the search box; typing updates the facet per keystroke
	b.handleKey(keyRunes("/"))
	if !b.searching {
		t.Fatal("expected search mode after /")
	}
	b.handleKey(keyRunes("Task 2"))

	if b.fs.Search != "Task 2" {
		t.Fatalf("search facet = %q, want %q", b.fs.Search, "Task 2")
	}
	if b.fs.Page != 1 {
		t.Fatalf("page after search = %d, want 1", b.fs.Page)
	}

	// 2, 20..25
	if got := len(b.visible()); got != 7 {
		t.Fatalf("matches = %d, want 7", got)
	}

	b.handleKey(tea.KeyMsg{Type: tea.KeyEsc})
	if b.searching {
		t.Fatal("expected esc to leave search mode")
	}
	if b.fs.Search != "Task 2" {
		t.Fatal("expected the search facet to survive leaving search mode")
	}
}

func TestBrowserStatusCycle(t *testing.T) {
	b := newTestBrowser(4)

	want := []string{models.StatusTodo, models.StatusInProgress, models.StatusDone, ""}
	for _, status := range want {
		b.handleKey(keyRunes("s"))
		if b.fs.Status != status {
			t.Fatalf("status facet = %q, want %q", b.fs.Status, status)
		}
	}

	b.handleKey(keyRunes("s"))
	if got := len(b.visible()); got != 2 {
		t.Fatalf("todo tasks = %d, want 2", got)
	}
}

func TestBrowserFacetChangeResetsPageButKeepsOtherFacets(t *testing.T) {
	b := newTestBrowser(25)
	b.handleKey(keyRunes("/"))
	b.handleKey(keyRunes("Task"))
	b.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	b.handleKey(tea.KeyMsg{Type: tea.KeyRight})

	b.handleKey(keyRunes("s"))

	if b.fs.Page != 1 {
		t.Fatalf("page after status change = %d, want 1", b.fs.Page)
	}
	if b.fs.Search != "Task" {
		t.Fatalf("search facet lost: %q", b.fs.Search)
	}
}
