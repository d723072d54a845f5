package views

import (
	"context"
	"fmt"
	"net/http"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tasksphere/tasksphere/internal/api"
	"github.com/tasksphere/tasksphere/internal/models"
	"github.com/tasksphere/tasksphere/internal/session"
	"github.com/tasksphere/tasksphere/internal/ui/keys"
	"github.com/tasksphere/tasksphere/internal/ui/styles"
)

// TaskListView is the global task list: one project scope at a time,
// selected through a dropdown, with the shared filter/pagination browser on
// top of the fetched snapshot.
type TaskListView struct {
	client  *api.Client
	session *session.Store
	styles  *styles.Styles
	keys    keys.KeyMap

	projects []models.Project
	browser  taskBrowser

	width  int
	height int

	// Project dropdown state
	dropdownOpen   bool
	dropdownCursor int

	confirmingDelete bool
	deleteTargetID   string
	deleteTargetName string
}

// NewTaskListView creates the global task list
func NewTaskListView(client *api.Client, sess *session.Store) *TaskListView {
	s := styles.NewStyles()
	return &TaskListView{
		client:  client,
		session: sess,
		styles:  s,
		keys:    keys.DefaultKeyMap(),
		browser: newTaskBrowser(s),
	}
}

func (v *TaskListView) Init() tea.Cmd {
	return v.loadProjects
}

type taskProjectsMsg struct {
	projects []models.Project
}

type scopeTasksMsg struct {
	projectID string
	tasks     []models.Task
}

func (v *TaskListView) loadProjects() tea.Msg {
	projects, err := v.client.ListProjects(context.Background())
	if err != nil {
		return RequestFailed{Op: "load projects", Err: err}
	}
	return taskProjectsMsg{projects: projects}
}

// loadScope fetches the full task list for one project; everything else is
// derived locally.
func (v *TaskListView) loadScope(projectID string) tea.Cmd {
	return func() tea.Msg {
		tasks, err := v.client.ListTasks(context.Background(), api.TaskQuery{
			ProjectID: projectID,
			Limit:     api.ScopeLimit,
		})
		if err != nil {
			return RequestFailed{Op: "load tasks", Err: err}
		}
		return scopeTasksMsg{projectID: projectID, tasks: tasks}
	}
}

func (v *TaskListView) deleteTask(id string) tea.Cmd {
	return func() tea.Msg {
		if err := v.client.DeleteTask(context.Background(), id); err != nil {
			return RequestFailed{Op: "delete task", Err: err}
		}
		return taskDeletedMsg{}
	}
}

// selectProject switches the scope facet and refetches the snapshot
func (v *TaskListView) selectProject(projectID string) tea.Cmd {
	v.browser.fs.SetProject(projectID)
	v.browser.setTasks(nil)
	v.browser.loaded = false
	return v.loadScope(projectID)
}

func (v *TaskListView) currentProjectName() string {
	for _, project := range v.projects {
		if project.ID == v.browser.fs.Project {
			return project.Name
		}
	}
	return "Select a project"
}

func (v *TaskListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.browser.width = msg.Width
		return v, nil

	case ThemeToggled:
		v.styles = styles.NewStyles()
		v.browser.setStyles(v.styles)
		return v, nil

	case taskProjectsMsg:
		v.projects = msg.projects
		// Preselect the first project when no scope is chosen yet
		if v.browser.fs.Project == "" && len(v.projects) > 0 {
			return v, v.selectProject(v.projects[0].ID)
		}
		return v, nil

	case scopeTasksMsg:
		if msg.projectID == v.browser.fs.Project {
			v.browser.setTasks(msg.tasks)
		}
		return v, nil

	case taskDeletedMsg:
		return v, tea.Batch(v.loadScope(v.browser.fs.Project), notify("Task deleted"))

	case RequestFailed:
		return v.handleFailure(msg)

	case tea.KeyMsg:
		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}

		if v.dropdownOpen {
			return v.updateDropdown(msg)
		}

		if handled, cmd := v.browser.handleKey(msg); handled {
			return v, cmd
		}

		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit

		case key.Matches(msg, v.keys.Back):
			return v, func() tea.Msg { return ShowDashboard{} }

		case msg.String() == "p":
			if len(v.projects) > 0 {
				v.dropdownOpen = true
				v.dropdownCursor = 0
			}
			return v, nil

		case key.Matches(msg, v.keys.New):
			if v.browser.fs.Project != "" {
				projectID := v.browser.fs.Project
				return v, func() tea.Msg {
					return OpenEditTask{ProjectID: projectID, FromTasks: true}
				}
			}
			return v, notifyError("Select a project first")

		case key.Matches(msg, v.keys.Enter), key.Matches(msg, v.keys.Edit):
			if task := v.browser.selected(); task != nil {
				t := *task
				projectID := v.browser.fs.Project
				return v, func() tea.Msg {
					return OpenEditTask{Task: &t, ProjectID: projectID, FromTasks: true}
				}
			}

		case key.Matches(msg, v.keys.Delete):
			if task := v.browser.selected(); task != nil {
				v.confirmingDelete = true
				v.deleteTargetID = task.ID
				v.deleteTargetName = task.Title
			}
			return v, nil

		case key.Matches(msg, v.keys.Refresh):
			if v.browser.fs.Project != "" {
				return v, tea.Batch(v.loadProjects, v.loadScope(v.browser.fs.Project))
			}
			return v, v.loadProjects
		}
	}

	return v, nil
}

func (v *TaskListView) handleFailure(msg RequestFailed) (tea.Model, tea.Cmd) {
	switch msg.Op {
	case "load projects":
		// Settle the browser so the view shows its empty state instead of
		// loading forever
		v.browser.setTasks(nil)
		return v, notifyError("Could not load projects")
	case "load tasks":
		v.browser.setTasks(nil)
		return v, notifyError("Could not load tasks")
	case "delete task":
		switch api.StatusOf(msg.Err) {
		case http.StatusNotFound:
			return v, notifyError("Task not found")
		case http.StatusForbidden, http.StatusInternalServerError:
			return v, notifyError("You don't have permission to delete this task")
		}
		return v, notifyError("Could not delete the task. Try again later")
	}
	return v, notifyError("Could not " + msg.Op)
}

func (v *TaskListView) updateDropdown(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.dropdownOpen = false
		return v, nil

	case key.Matches(msg, v.keys.Up):
		if v.dropdownCursor > 0 {
			v.dropdownCursor--
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.dropdownCursor < len(v.projects)-1 {
			v.dropdownCursor++
		}
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		v.dropdownOpen = false
		return v, v.selectProject(v.projects[v.dropdownCursor].ID)
	}
	return v, nil
}

func (v *TaskListView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.confirmingDelete = false
		return v, v.deleteTask(v.deleteTargetID)
	case "n", "N", "esc":
		v.confirmingDelete = false
		return v, nil
	}
	return v, nil
}

func (v *TaskListView) View() string {
	s := v.styles

	if v.confirmingDelete {
		return v.renderDeleteConfirm()
	}

	if v.dropdownOpen {
		return v.renderDropdown()
	}

	header := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Tasks"),
		s.TitleMuted.Render("p: project: "+v.currentProjectName()),
	)

	content := lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		v.browser.renderFilterBar(),
		"",
		v.browser.renderRows(true),
		v.renderHelp(),
	)
	return styles.CenterView(content, v.width, v.height)
}

func (v *TaskListView) renderDropdown() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	rows := []string{s.Title.Render("Choose a project"), ""}
	for i, project := range v.projects {
		if i == v.dropdownCursor {
			rows = append(rows, s.ListSelected.Render(project.Name))
		} else {
			rows = append(rows, s.ListItem.Render(project.Name))
		}
	}
	rows = append(rows, "", s.TitleMuted.Render("↵: select • esc: cancel"))

	content := lipgloss.JoinVertical(lipgloss.Left, rows...)
	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		s.FilterBar.Render(content),
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TaskListView) renderDeleteConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Delete Task?"),
		"",
		s.TitleMuted.Render(fmt.Sprintf("\"%s\" will be removed.", v.deleteTargetName)),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TaskListView) renderHelp() string {
	s := v.styles
	return s.Help.Render(
		fmt.Sprintf("%s edit • %s new • %s del • %s project • %s search • %s status • %s page • %s back",
			s.HelpKey.Render("↵"),
			s.HelpKey.Render("n"),
			s.HelpKey.Render("d"),
			s.HelpKey.Render("p"),
			s.HelpKey.Render("/"),
			s.HelpKey.Render("s"),
			s.HelpKey.Render("←/→"),
			s.HelpKey.Render("esc"),
		),
	)
}
