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

// maxDescription is how much of the project description shows before the
// expand toggle kicks in.
const maxDescription = 50

// ProjectDetailView shows one project with its filterable task list
type ProjectDetailView struct {
	client  *api.Client
	session *session.Store
	styles  *styles.Styles
	keys    keys.KeyMap

	project  models.Project
	browser  taskBrowser
	notFound bool

	width  int
	height int

	descExpanded bool

	confirmingDelete bool
	deleteTargetID   string
	deleteTargetName string
}

// NewProjectDetailView creates the detail view. A project with only the ID
// set is enough; Init fetches the full record.
func NewProjectDetailView(client *api.Client, sess *session.Store, project models.Project) *ProjectDetailView {
	s := styles.NewStyles()
	return &ProjectDetailView{
		client:  client,
		session: sess,
		styles:  s,
		keys:    keys.DefaultKeyMap(),
		project: project,
		browser: newTaskBrowser(s),
	}
}

func (v *ProjectDetailView) Init() tea.Cmd {
	return tea.Batch(v.loadProject, v.loadTasks)
}

type projectLoadedMsg struct {
	project *models.Project
}

type projectTasksMsg struct {
	tasks []models.Task
}

type taskDeletedMsg struct{}

func (v *ProjectDetailView) loadProject() tea.Msg {
	project, err := v.client.GetProject(context.Background(), v.project.ID)
	if err != nil {
		return RequestFailed{Op: "load project", Err: err}
	}
	return projectLoadedMsg{project: project}
}

// loadTasks fetches the whole project scope once; filtering and paging
// happen client-side on the snapshot.
func (v *ProjectDetailView) loadTasks() tea.Msg {
	tasks, err := v.client.ListTasks(context.Background(), api.TaskQuery{
		ProjectID: v.project.ID,
		Limit:     api.ScopeLimit,
	})
	if err != nil {
		return RequestFailed{Op: "load tasks", Err: err}
	}
	return projectTasksMsg{tasks: tasks}
}

func (v *ProjectDetailView) deleteTask(id string) tea.Cmd {
	return func() tea.Msg {
		if err := v.client.DeleteTask(context.Background(), id); err != nil {
			return RequestFailed{Op: "delete task", Err: err}
		}
		return taskDeletedMsg{}
	}
}

func (v *ProjectDetailView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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

	case projectLoadedMsg:
		v.project = *msg.project
		return v, nil

	case projectTasksMsg:
		v.browser.setTasks(msg.tasks)
		return v, nil

	case taskDeletedMsg:
		// The snapshot is a read-through copy; refetch after any mutation
		return v, tea.Batch(v.loadTasks, notify("Task deleted"))

	case RequestFailed:
		return v.handleFailure(msg)

	case tea.KeyMsg:
		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}

		if handled, cmd := v.browser.handleKey(msg); handled {
			return v, cmd
		}

		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit

		case key.Matches(msg, v.keys.Back):
			return v, func() tea.Msg { return BackToProjects{} }

		case key.Matches(msg, v.keys.New):
			projectID := v.project.ID
			return v, func() tea.Msg { return OpenEditTask{ProjectID: projectID} }

		case key.Matches(msg, v.keys.Enter), key.Matches(msg, v.keys.Edit):
			if task := v.browser.selected(); task != nil {
				t := *task
				return v, func() tea.Msg {
					return OpenEditTask{Task: &t, ProjectID: v.project.ID}
				}
			}

		case key.Matches(msg, v.keys.Delete):
			if task := v.browser.selected(); task != nil {
				v.confirmingDelete = true
				v.deleteTargetID = task.ID
				v.deleteTargetName = task.Title
			}
			return v, nil

		case msg.String() == "c":
			project := v.project
			return v, func() tea.Msg { return OpenCollaborators{Project: project} }

		case msg.String() == "v":
			v.descExpanded = !v.descExpanded
			return v, nil

		case key.Matches(msg, v.keys.Refresh):
			return v, tea.Batch(v.loadProject, v.loadTasks)
		}
	}

	return v, nil
}

func (v *ProjectDetailView) handleFailure(msg RequestFailed) (tea.Model, tea.Cmd) {
	status := api.StatusOf(msg.Err)

	switch msg.Op {
	case "load project":
		if status == http.StatusNotFound {
			v.notFound = true
			return v, nil
		}
		return v, notifyError("Could not load the project")

	case "load tasks":
		v.browser.setTasks(nil)
		return v, notifyError("Could not load tasks")

	case "delete task":
		switch status {
		case http.StatusNotFound:
			return v, notifyError("Task not found")
		case http.StatusForbidden, http.StatusInternalServerError:
			return v, notifyError("You don't have permission to delete this task")
		}
		return v, notifyError("Could not delete the task. Try again later")
	}

	return v, notifyError("Could not " + msg.Op)
}

func (v *ProjectDetailView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
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

func (v *ProjectDetailView) View() string {
	if v.notFound {
		return v.renderNotFound()
	}

	if v.confirmingDelete {
		return v.renderDeleteConfirm()
	}

	header := v.renderHeader()
	content := lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		v.browser.renderFilterBar(),
		"",
		v.browser.renderRows(false),
		v.renderHelp(),
	)
	return styles.CenterView(content, v.width, v.height)
}

func (v *ProjectDetailView) renderHeader() string {
	s := v.styles

	desc := v.project.Description
	if desc == "" {
		desc = "No description provided"
	} else if !v.descExpanded && len(desc) > maxDescription {
		desc = desc[:maxDescription] + "...  (v: more)"
	}

	creator := v.project.Creator.Name
	if creator == "" {
		creator = "unknown"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(v.project.Name),
		s.TitleMuted.Render(desc),
		s.TaskMeta.Render("Creator: "+creator),
	)
}

func (v *ProjectDetailView) renderNotFound() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Render("Project not found"),
		"",
		s.TitleMuted.Render("The project you're looking for doesn't exist or you don't have access to it."),
		"",
		s.Button.Render(" esc - Back to Projects "),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *ProjectDetailView) renderDeleteConfirm() string {
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

func (v *ProjectDetailView) renderHelp() string {
	s := v.styles
	return s.Help.Render(
		fmt.Sprintf("%s edit • %s new • %s del • %s collab • %s search • %s status • %s page • %s back",
			s.HelpKey.Render("↵"),
			s.HelpKey.Render("n"),
			s.HelpKey.Render("d"),
			s.HelpKey.Render("c"),
			s.HelpKey.Render("/"),
			s.HelpKey.Render("s"),
			s.HelpKey.Render("←/→"),
			s.HelpKey.Render("esc"),
		),
	)
}
