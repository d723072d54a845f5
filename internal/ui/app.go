package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tasksphere/tasksphere/internal/api"
	"github.com/tasksphere/tasksphere/internal/models"
	"github.com/tasksphere/tasksphere/internal/session"
	"github.com/tasksphere/tasksphere/internal/store"
	"github.com/tasksphere/tasksphere/internal/ui/styles"
	"github.com/tasksphere/tasksphere/internal/ui/views"
)

// Currently active view
type View int

const (
	ViewLogin View = iota
	ViewDashboard
	ViewProjects
	ViewProjectDetail
	ViewTasks
	ViewEditProject
	ViewEditTask
	ViewCollaborators
)

// routeNames maps persistable top-level routes for session restore. Detail
// and form views are not restored; their parent list is.
var routeNames = map[View]string{
	ViewDashboard: "dashboard",
	ViewProjects:  "projects",
	ViewTasks:     "tasks",
}

type App struct {
	settings *store.Store
	client   *api.Client
	session  *session.Store

	currentView View
	active      tea.Model

	// pending holds the navigation the user attempted before being sent to
	// login, replayed after a successful sign-in
	pending tea.Msg

	notice    string
	noticeErr bool

	width  int
	height int
}

// Creates a new application. Call session.Restore before handing the store in.
func NewApp(settings *store.Store, client *api.Client, sess *session.Store) *App {
	a := &App{
		settings: settings,
		client:   client,
		session:  sess,
	}

	if mode, err := settings.Get(store.KeyDarkMode); err == nil && mode == "0" {
		styles.SetDark(false)
	}

	if !sess.IsAuthenticated() {
		a.currentView = ViewLogin
		a.active = views.NewLoginView(sess)
		return a
	}

	a.openRoute(a.lastRoute())
	return a
}

// lastRoute returns the persisted top-level route, defaulting to the dashboard
func (a *App) lastRoute() View {
	name, err := a.settings.Get(store.KeyLastRoute)
	if err != nil {
		return ViewDashboard
	}
	for view, routeName := range routeNames {
		if routeName == name {
			return view
		}
	}
	return ViewDashboard
}

// openRoute swaps in a fresh view for a top-level route and persists it
func (a *App) openRoute(view View) {
	a.currentView = view
	switch view {
	case ViewProjects:
		a.active = views.NewProjectListView(a.client, a.session)
	case ViewTasks:
		a.active = views.NewTaskListView(a.client, a.session)
	default:
		a.currentView = ViewDashboard
		a.active = views.NewDashboardView(a.client, a.session)
	}
	if name, ok := routeNames[a.currentView]; ok {
		a.settings.Set(store.KeyLastRoute, name)
	}
}

func (a *App) Init() tea.Cmd {
	return a.active.Init()
}

// startView initializes the active view and replays the window size so it
// lays out immediately
func (a *App) startView() tea.Cmd {
	return tea.Batch(
		a.active.Init(),
		func() tea.Msg {
			return tea.WindowSizeMsg{Width: a.width, Height: a.height}
		},
	)
}

func (a *App) open(view View, model tea.Model) tea.Cmd {
	a.currentView = view
	a.active = model
	if name, ok := routeNames[view]; ok {
		a.settings.Set(store.KeyLastRoute, name)
	}
	return a.startView()
}

// toLogin drops the user on the sign-in screen, remembering where they were
// headed so a successful login can resume it
func (a *App) toLogin(intended tea.Msg) tea.Cmd {
	a.pending = intended
	return a.open(ViewLogin, views.NewLoginView(a.session))
}

func (a *App) logout() tea.Cmd {
	sess := a.session
	return func() tea.Msg {
		sess.Logout(context.Background())
		return views.LoggedOut{}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case tea.KeyMsg:
		// A keypress dismisses the status line before the view sees the key
		a.notice = ""
		a.noticeErr = false

		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "ctrl+t":
			dark := !styles.IsDark()
			styles.SetDark(dark)
			if dark {
				a.settings.Set(store.KeyDarkMode, "1")
			} else {
				a.settings.Set(store.KeyDarkMode, "0")
			}
			var cmd tea.Cmd
			a.active, cmd = a.active.Update(views.ThemeToggled{})
			return a, cmd
		case "ctrl+l":
			if a.currentView != ViewLogin {
				return a, a.logout()
			}
		}

	case views.Notice:
		a.notice = msg.Text
		a.noticeErr = msg.IsError
		return a, nil

	case views.RequestFailed:
		// Expired sessions route to login; every other failure belongs to
		// the view that issued the request.
		if api.IsUnauthorized(msg.Err) {
			a.session.Purge()
			a.notice = "Session expired. Please sign in again."
			a.noticeErr = true
			return a, a.toLogin(nil)
		}

	case views.LoggedIn:
		pending := a.pending
		a.pending = nil
		if pending != nil {
			cmd := a.route(pending)
			return a, cmd
		}
		return a, a.open(ViewDashboard, views.NewDashboardView(a.client, a.session))

	case views.LoggedOut:
		a.pending = nil
		a.notice = "Signed out"
		a.noticeErr = false
		return a, a.open(ViewLogin, views.NewLoginView(a.session))
	}

	if cmd := a.route(msg); cmd != nil {
		return a, cmd
	}

	var cmd tea.Cmd
	a.active, cmd = a.active.Update(msg)
	return a, cmd
}

// route handles navigation messages, returning nil when msg is not one
func (a *App) route(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case views.ShowDashboard:
		return a.guarded(msg, ViewDashboard, func() tea.Model {
			return views.NewDashboardView(a.client, a.session)
		})

	case views.ShowProjects:
		return a.guarded(msg, ViewProjects, func() tea.Model {
			return views.NewProjectListView(a.client, a.session)
		})

	case views.ShowTasks:
		return a.guarded(msg, ViewTasks, func() tea.Model {
			return views.NewTaskListView(a.client, a.session)
		})

	case views.SelectedProject:
		return a.guarded(msg, ViewProjectDetail, func() tea.Model {
			return views.NewProjectDetailView(a.client, a.session, msg.Project)
		})

	case views.BackToProjects:
		return a.guarded(msg, ViewProjects, func() tea.Model {
			return views.NewProjectListView(a.client, a.session)
		})

	case views.OpenEditProject:
		return a.guarded(msg, ViewEditProject, func() tea.Model {
			return views.NewEditProjectView(a.client, msg.Project)
		})

	case views.OpenEditTask:
		return a.guarded(msg, ViewEditTask, func() tea.Model {
			return views.NewEditTaskView(a.client, a.session, msg.Task, msg.ProjectID, msg.FromTasks)
		})

	case views.TaskSaved:
		if msg.FromTasks {
			return a.guarded(msg, ViewTasks, func() tea.Model {
				return views.NewTaskListView(a.client, a.session)
			})
		}
		return a.guarded(msg, ViewProjectDetail, func() tea.Model {
			return views.NewProjectDetailView(a.client, a.session, models.Project{ID: msg.ProjectID})
		})

	case views.OpenCollaborators:
		return a.guarded(msg, ViewCollaborators, func() tea.Model {
			return views.NewCollaboratorsView(a.client, a.session, msg.Project)
		})
	}

	return nil
}

// guarded opens a view when authenticated, or parks the navigation and shows
// the login screen when not
func (a *App) guarded(msg tea.Msg, view View, build func() tea.Model) tea.Cmd {
	if !a.session.IsAuthenticated() {
		return a.toLogin(msg)
	}
	return a.open(view, build())
}

func (a *App) View() string {
	body := a.active.View()
	if a.notice == "" {
		return body
	}

	s := styles.NewStyles()
	line := s.Notice.Render(a.notice)
	if a.noticeErr {
		line = s.NoticeError.Render(a.notice)
	}
	return body + "\n" + line
}
