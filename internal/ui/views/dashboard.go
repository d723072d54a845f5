package views

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tasksphere/tasksphere/internal/api"
	"github.com/tasksphere/tasksphere/internal/models"
	"github.com/tasksphere/tasksphere/internal/session"
	"github.com/tasksphere/tasksphere/internal/ui/keys"
	"github.com/tasksphere/tasksphere/internal/ui/styles"
)

// DashboardView shows an overview of the user's projects and created tasks
type DashboardView struct {
	client  *api.Client
	session *session.Store
	styles  *styles.Styles
	keys    keys.KeyMap

	width  int
	height int

	projects       []models.Project
	tasks          []models.Task
	projectsLoaded bool
	tasksLoaded    bool
}

// NewDashboardView creates the dashboard
func NewDashboardView(client *api.Client, sess *session.Store) *DashboardView {
	return &DashboardView{
		client:  client,
		session: sess,
		styles:  styles.NewStyles(),
		keys:    keys.DefaultKeyMap(),
	}
}

func (v *DashboardView) Init() tea.Cmd {
	return tea.Batch(v.loadProjects, v.loadTasks)
}

type dashboardProjectsMsg struct {
	projects []models.Project
}

type dashboardTasksMsg struct {
	tasks []models.Task
}

func (v *DashboardView) loadProjects() tea.Msg {
	projects, err := v.client.ListUserProjects(context.Background())
	if err != nil {
		return RequestFailed{Op: "load projects", Err: err}
	}
	return dashboardProjectsMsg{projects: projects}
}

func (v *DashboardView) loadTasks() tea.Msg {
	user := v.session.CurrentUser()
	if user == nil {
		return dashboardTasksMsg{}
	}
	tasks, err := v.client.ListTasks(context.Background(), api.TaskQuery{CreatorID: user.ID})
	if err != nil {
		return RequestFailed{Op: "load tasks", Err: err}
	}
	return dashboardTasksMsg{tasks: tasks}
}

func (v *DashboardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case ThemeToggled:
		v.styles = styles.NewStyles()
		return v, nil

	case dashboardProjectsMsg:
		v.projects = msg.projects
		v.projectsLoaded = true
		return v, nil

	case dashboardTasksMsg:
		v.tasks = msg.tasks
		v.tasksLoaded = true
		return v, nil

	case RequestFailed:
		v.projectsLoaded = true
		v.tasksLoaded = true
		return v, notifyError("Could not " + msg.Op)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		case msg.String() == "p":
			return v, func() tea.Msg { return ShowProjects{} }
		case msg.String() == "t":
			return v, func() tea.Msg { return ShowTasks{} }
		case key.Matches(msg, v.keys.Refresh):
			v.projectsLoaded = false
			v.tasksLoaded = false
			return v, tea.Batch(v.loadProjects, v.loadTasks)
		}
	}

	return v, nil
}

func (v *DashboardView) View() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	if !v.projectsLoaded || !v.tasksLoaded {
		return s.TitleMuted.Render("Loading...")
	}

	user := v.session.CurrentUser()
	greeting := "Welcome back"
	if user != nil {
		name := user.Name
		if name == "" {
			name = user.Email
		}
		greeting = "Welcome back, " + name
	}

	var done, todo int
	for _, task := range v.tasks {
		switch task.Status {
		case models.StatusDone:
			done++
		case models.StatusTodo:
			todo++
		}
	}

	stats := lipgloss.JoinHorizontal(lipgloss.Top,
		v.statCard("Projects", len(v.projects)),
		" ",
		v.statCard("Tasks", len(v.tasks)),
		" ",
		v.statCard("Done", done),
		" ",
		v.statCard("To Do", todo),
	)

	rows := []string{
		s.Title.Render(greeting),
		s.TitleMuted.Render("An overview of your projects and tasks"),
		"",
		stats,
		"",
	}

	rows = append(rows, s.Title.Render("Recent Projects"))
	if len(v.projects) == 0 {
		rows = append(rows, s.TitleMuted.Render("No projects yet. Press p, then n"))
	}
	for i, project := range v.projects {
		if i == 3 {
			break
		}
		rows = append(rows, s.ListItem.Render(project.Name))
	}

	rows = append(rows, "", s.Title.Render("Recent Tasks"))
	if len(v.tasks) == 0 {
		rows = append(rows, s.TitleMuted.Render("No tasks yet"))
	}
	for i, task := range v.tasks {
		if i == 5 {
			break
		}
		badge := s.Badge(task.Status).Render(models.StatusLabel(task.Status))
		rows = append(rows, s.ListItem.Render(task.Title)+badge)
	}

	rows = append(rows, v.renderHelp())

	content := lipgloss.JoinVertical(lipgloss.Left, rows...)
	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *DashboardView) statCard(label string, count int) string {
	s := v.styles
	return s.FilterBar.Render(lipgloss.JoinVertical(lipgloss.Center,
		s.TitleMuted.Render(label),
		s.Title.Render(fmt.Sprintf("%d", count)),
	))
}

func (v *DashboardView) renderHelp() string {
	s := v.styles
	return s.Help.Render(
		fmt.Sprintf("%s projects • %s tasks • %s refresh • %s logout • %s quit",
			s.HelpKey.Render("p"),
			s.HelpKey.Render("t"),
			s.HelpKey.Render("r"),
			s.HelpKey.Render("ctrl+l"),
			s.HelpKey.Render("q"),
		),
	)
}
