package views

import (
	"context"
	"net/http"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tasksphere/tasksphere/internal/api"
	"github.com/tasksphere/tasksphere/internal/models"
	"github.com/tasksphere/tasksphere/internal/ui/keys"
	"github.com/tasksphere/tasksphere/internal/ui/styles"
)

// EditProjectView is the create/edit form for a project
type EditProjectView struct {
	client *api.Client
	styles *styles.Styles
	keys   keys.KeyMap

	// nil when creating
	project *models.Project

	width  int
	height int
	saving bool

	name     textinput.Model
	desc     textinput.Model
	focusIdx int // 0=name, 1=desc, 2=save
}

// NewEditProjectView creates the project form. Pass nil to create a new
// project.
func NewEditProjectView(client *api.Client, project *models.Project) *EditProjectView {
	name := textinput.New()
	name.Placeholder = "Project name"
	name.CharLimit = 100
	name.Focus()

	desc := textinput.New()
	desc.Placeholder = "Description (optional)"
	desc.CharLimit = 500

	if project != nil {
		name.SetValue(project.Name)
		desc.SetValue(project.Description)
	}

	return &EditProjectView{
		client:  client,
		styles:  styles.NewStyles(),
		keys:    keys.DefaultKeyMap(),
		project: project,
		name:    name,
		desc:    desc,
	}
}

func (v *EditProjectView) Init() tea.Cmd {
	return textinput.Blink
}

type projectSavedMsg struct {
	project models.Project
}

func (v *EditProjectView) save() tea.Cmd {
	name := strings.TrimSpace(v.name.Value())
	desc := strings.TrimSpace(v.desc.Value())

	if len(name) < 3 {
		return notifyError("Project name must be at least 3 characters")
	}

	v.saving = true
	input := api.ProjectInput{Name: name, Description: desc}
	editing := v.project

	return func() tea.Msg {
		var (
			project *models.Project
			err     error
		)
		if editing != nil {
			project, err = v.client.UpdateProject(context.Background(), editing.ID, input)
		} else {
			project, err = v.client.CreateProject(context.Background(), input)
		}
		if err != nil {
			return RequestFailed{Op: "save project", Err: err}
		}
		return projectSavedMsg{project: *project}
	}
}

func (v *EditProjectView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case ThemeToggled:
		v.styles = styles.NewStyles()
		return v, nil

	case projectSavedMsg:
		v.saving = false
		project := msg.project
		return v, tea.Batch(
			func() tea.Msg { return SelectedProject{Project: project} },
			notify("Project saved"),
		)

	case RequestFailed:
		v.saving = false
		switch api.StatusOf(msg.Err) {
		case http.StatusBadRequest:
			return v, notifyError("Invalid project data")
		case http.StatusNotFound:
			return v, notifyError("Project not found")
		case http.StatusForbidden, http.StatusInternalServerError:
			return v, notifyError("You don't have permission to edit this project")
		}
		return v, notifyError("Could not save the project. Try again later")

	case tea.KeyMsg:
		if v.saving {
			return v, nil
		}

		switch {
		case key.Matches(msg, v.keys.Back):
			return v, func() tea.Msg { return BackToProjects{} }

		case msg.String() == "ctrl+s":
			return v, v.save()

		case msg.String() == "shift+tab":
			v.focusIdx = (v.focusIdx + 2) % 3
			v.updateFocus()
			return v, nil

		case key.Matches(msg, v.keys.Tab):
			v.focusIdx = (v.focusIdx + 1) % 3
			v.updateFocus()
			return v, nil

		case key.Matches(msg, v.keys.Enter):
			if v.focusIdx < 2 {
				v.focusIdx++
				v.updateFocus()
				return v, nil
			}
			return v, v.save()
		}
	}

	var cmd tea.Cmd
	switch v.focusIdx {
	case 0:
		v.name, cmd = v.name.Update(msg)
	case 1:
		v.desc, cmd = v.desc.Update(msg)
	}
	return v, cmd
}

func (v *EditProjectView) updateFocus() {
	v.name.Blur()
	v.desc.Blur()
	switch v.focusIdx {
	case 0:
		v.name.Focus()
	case 1:
		v.desc.Focus()
	}
}

func (v *EditProjectView) View() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	title := "New Project"
	action := " Create "
	if v.project != nil {
		title = "Edit Project"
		action = " Save "
	}

	nameStyle := s.Input
	descStyle := s.Input
	btnStyle := s.Button

	switch v.focusIdx {
	case 0:
		nameStyle = s.InputFocused
	case 1:
		descStyle = s.InputFocused
	case 2:
		btnStyle = s.ButtonFocused
	}

	inputWidth := clamp(contentWidth-6, 20, 50)

	button := btnStyle.Render(action)
	if v.saving {
		button = s.TitleMuted.Render("Saving...")
	}

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(title),
		"",
		"Name:",
		nameStyle.Width(inputWidth).Render(v.name.View()),
		"",
		"Description:",
		descStyle.Width(inputWidth).Render(v.desc.View()),
		"",
		button,
		"",
		s.TitleMuted.Render("Tab: next • Ctrl+S: save • Esc: cancel"),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}
