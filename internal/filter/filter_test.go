package filter

import (
	"fmt"
	"testing"

	"github.com/tasksphere/tasksphere/internal/models"
)

func makeTasks(n int) []models.Task {
	tasks := make([]models.Task, n)
	for i := range tasks {
		tasks[i] = models.Task{
			ID:      fmt.Sprintf("t%d", i+1),
			Title:   fmt.Sprintf("Task %d", i+1),
			Status:  models.StatusTodo,
			Project: models.Ref{ID: "p1", Name: "Alpha"},
			Creator: models.Ref{ID: "u1", Name: "Ana"},
		}
	}
	return tasks
}

func TestFacetSettersResetPage(t *testing.T) {
	cases := []struct {
		name string
		set  func(*State)
	}{
		{"search", func(s *State) { s.SetSearch("abc") }},
		{"status", func(s *State) { s.SetStatus(models.StatusDone) }},
		{"project", func(s *State) { s.SetProject("p2") }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewState()
			s.SetPage(4)
			tc.set(&s)
			if s.Page != 1 {
				t.Fatalf("expected page reset to 1, got %d", s.Page)
			}
		})
	}
}

func TestSetPageDoesNotResetFacets(t *testing.T) {
	s := NewState()
	s.SetSearch("abc")
	s.SetPage(3)
	if s.Search != "abc" || s.Page != 3 {
		t.Fatalf("unexpected state: %+v", s)
	}

	s.SetPage(0)
	if s.Page != 1 {
		t.Fatalf("expected page clamped to 1, got %d", s.Page)
	}
}

func TestEmptyFilterReturnsFirstPageInOrder(t *testing.T) {
	tasks := makeTasks(25)
	got := Apply(tasks, State{Page: 1, Limit: 10})

	if len(got) != 10 {
		t.Fatalf("expected 10 tasks, got %d", len(got))
	}
	for i, task := range got {
		if task.ID != tasks[i].ID {
			t.Fatalf("expected input order preserved, got %s at %d", task.ID, i)
		}
	}
}

func TestSearchMatchesAllFieldsCaseInsensitively(t *testing.T) {
	tasks := []models.Task{
		{ID: "t1", Title: "Fix ABC widget"},
		{ID: "t2", Title: "Other", Description: "relates to aBc"},
		{ID: "t3", Title: "Other", Project: models.Ref{Name: "ABC project"}},
		{ID: "t4", Title: "Other", Creator: models.Ref{Name: "Abc Silva"}},
		{ID: "t5", Title: "Unrelated"},
	}

	s := NewState()
	s.SetSearch("abc")
	got := Apply(tasks, s)

	if len(got) != 4 {
		t.Fatalf("expected 4 matches, got %d", len(got))
	}
	for _, task := range got {
		if task.ID == "t5" {
			t.Fatal("t5 should not match")
		}
	}
}

func TestStatusFilterIsExact(t *testing.T) {
	tasks := []models.Task{
		{ID: "t1", Status: models.StatusTodo},
		{ID: "t2", Status: models.StatusDone},
		{ID: "t3", Status: models.StatusInProgress},
		{ID: "t4", Status: models.StatusDone},
	}

	s := NewState()
	s.SetStatus(models.StatusDone)
	got := Apply(tasks, s)

	if len(got) != 2 || got[0].ID != "t2" || got[1].ID != "t4" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestPagination(t *testing.T) {
	tasks := makeTasks(25)

	if pages := TotalPages(len(tasks), 10); pages != 3 {
		t.Fatalf("expected 3 pages, got %d", pages)
	}

	page3 := Apply(tasks, State{Page: 3, Limit: 10})
	if len(page3) != 5 {
		t.Fatalf("expected 5 tasks on page 3, got %d", len(page3))
	}
	if page3[0].ID != "t21" || page3[4].ID != "t25" {
		t.Fatalf("unexpected page 3 contents: %+v", page3)
	}

	if got := Apply(tasks, State{Page: 4, Limit: 10}); got != nil {
		t.Fatalf("expected past-the-end page to be empty, got %d tasks", len(got))
	}
}

func TestTotalPagesEdgeCases(t *testing.T) {
	if got := TotalPages(0, 10); got != 0 {
		t.Fatalf("expected 0 pages for empty scope, got %d", got)
	}
	if got := TotalPages(10, 10); got != 1 {
		t.Fatalf("expected 1 page, got %d", got)
	}
	if got := TotalPages(11, 10); got != 2 {
		t.Fatalf("expected 2 pages, got %d", got)
	}
}

func TestSearchAndStatusCombine(t *testing.T) {
	tasks := []models.Task{
		{ID: "t1", Title: "deploy service", Status: models.StatusDone},
		{ID: "t2", Title: "deploy docs", Status: models.StatusTodo},
		{ID: "t3", Title: "write tests", Status: models.StatusDone},
	}

	s := NewState()
	s.SetSearch("deploy")
	s.SetStatus(models.StatusDone)
	got := Apply(tasks, s)

	if len(got) != 1 || got[0].ID != "t1" {
		t.Fatalf("unexpected result: %+v", got)
	}
}
