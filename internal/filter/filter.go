// Package filter derives the visible page of a task list from an in-memory
// scope snapshot. Both the global task view and the per-project view run
// their snapshots through the same projection.
package filter

import (
	"strings"

	"github.com/tasksphere/tasksphere/internal/models"
)

// DefaultLimit is the page size used by the list views
const DefaultLimit = 10

// State is the current filter selection. Mutate it through the setters:
// changing any facet re-pages to the first page.
type State struct {
	Search  string
	Status  string
	Project string
	Page    int
	Limit   int
}

// NewState returns a state showing the first page with the default limit
func NewState() State {
	return State{Page: 1, Limit: DefaultLimit}
}

// SetSearch updates the free-text search and resets to page 1
func (s *State) SetSearch(search string) {
	s.Search = search
	s.Page = 1
}

// SetStatus updates the status facet and resets to page 1
func (s *State) SetStatus(status string) {
	s.Status = status
	s.Page = 1
}

// SetProject updates the project facet and resets to page 1
func (s *State) SetProject(projectID string) {
	s.Project = projectID
	s.Page = 1
}

// SetPage moves to page, clamped to at least 1
func (s *State) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	s.Page = page
}

// Apply projects tasks through the filter: free-text search, then status,
// then the page slice. The project facet selects the scope fetch and is not
// re-applied here. Input order is preserved.
func Apply(tasks []models.Task, s State) []models.Task {
	filtered := tasks
	if s.Search != "" {
		search := strings.ToLower(s.Search)
		filtered = make([]models.Task, 0, len(tasks))
		for _, task := range tasks {
			if matches(task, search) {
				filtered = append(filtered, task)
			}
		}
	}

	if s.Status != "" {
		kept := filtered[:0:0]
		for _, task := range filtered {
			if task.Status == s.Status {
				kept = append(kept, task)
			}
		}
		filtered = kept
	}

	limit := s.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	page := s.Page
	if page < 1 {
		page = 1
	}

	start := (page - 1) * limit
	if start >= len(filtered) {
		return nil
	}
	end := start + limit
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end]
}

// matches reports whether any searchable field contains search
// (already lowercased).
func matches(task models.Task, search string) bool {
	return strings.Contains(strings.ToLower(task.Title), search) ||
		strings.Contains(strings.ToLower(task.Description), search) ||
		strings.Contains(strings.ToLower(task.Project.Name), search) ||
		strings.Contains(strings.ToLower(task.Creator.Name), search)
}

// TotalPages returns the page count for n tasks. Both list views compute it
// over the unfiltered scope snapshot.
func TotalPages(n, limit int) int {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if n <= 0 {
		return 0
	}
	return (n + limit - 1) / limit
}
