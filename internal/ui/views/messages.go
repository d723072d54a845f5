package views

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tasksphere/tasksphere/internal/models"
)

// Navigation messages emitted by views and handled by the app router.

// LoggedIn signals a successful login or registration
type LoggedIn struct{}

// LoggedOut signals a user-initiated logout
type LoggedOut struct{}

// ShowDashboard navigates to the dashboard
type ShowDashboard struct{}

// ShowProjects navigates to the project list
type ShowProjects struct{}

// ShowTasks navigates to the global task list
type ShowTasks struct{}

// SelectedProject opens a project's detail view. A skeleton project with
// just the ID set is enough; the view fetches the rest.
type SelectedProject struct {
	Project models.Project
}

// BackToProjects returns to the project list
type BackToProjects struct{}

// OpenEditProject opens the project form. Project is nil when creating.
type OpenEditProject struct {
	Project *models.Project
}

// OpenEditTask opens the task form. Task is nil when creating; ProjectID is
// the project scope the form returns to.
type OpenEditTask struct {
	Task      *models.Task
	ProjectID string
	// FromTasks routes back to the global task list instead of the project
	FromTasks bool
}

// TaskSaved signals a completed task create/update
type TaskSaved struct {
	ProjectID string
	FromTasks bool
}

// OpenCollaborators opens collaborator management for a project
type OpenCollaborators struct {
	Project models.Project
}

// Notice is a transient status-line message (the toast analogue). It clears
// on the next keypress.
type Notice struct {
	Text    string
	IsError bool
}

// ThemeToggled tells the active view to rebuild its styles
type ThemeToggled struct{}

// RequestFailed wraps an API failure. The router inspects it for 401 before
// the owning view translates the status into a user-facing notice.
type RequestFailed struct {
	Op  string
	Err error
}

func (m RequestFailed) Error() string { return m.Err.Error() }

func notify(text string) tea.Cmd {
	return func() tea.Msg { return Notice{Text: text} }
}

func notifyError(text string) tea.Cmd {
	return func() tea.Msg { return Notice{Text: text, IsError: true} }
}

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}
