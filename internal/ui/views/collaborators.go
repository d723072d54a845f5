package views

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tasksphere/tasksphere/internal/api"
	"github.com/tasksphere/tasksphere/internal/models"
	"github.com/tasksphere/tasksphere/internal/session"
	"github.com/tasksphere/tasksphere/internal/ui/keys"
	"github.com/tasksphere/tasksphere/internal/ui/styles"
)

// CollaboratorsView manages a project's collaborators. Only the project
// creator can use it; everyone else gets an access-denied screen.
type CollaboratorsView struct {
	client  *api.Client
	session *session.Store
	styles  *styles.Styles
	keys    keys.KeyMap

	project models.Project

	width  int
	height int

	cursor   int
	adding   bool
	busy     bool
	email    textinput.Model
}

// NewCollaboratorsView creates the collaborator management view
func NewCollaboratorsView(client *api.Client, sess *session.Store, project models.Project) *CollaboratorsView {
	email := textinput.New()
	email.Placeholder = "collaborator@example.com"
	email.CharLimit = 200

	return &CollaboratorsView{
		client:  client,
		session: sess,
		styles:  styles.NewStyles(),
		keys:    keys.DefaultKeyMap(),
		project: project,
		email:   email,
	}
}

// isCreator reports whether the current user created the project
func (v *CollaboratorsView) isCreator() bool {
	user := v.session.CurrentUser()
	return user != nil && user.ID == v.project.Creator.ID
}

func (v *CollaboratorsView) Init() tea.Cmd {
	return v.loadProject
}

type collaboratorsProjectMsg struct {
	project *models.Project
}

func (v *CollaboratorsView) loadProject() tea.Msg {
	project, err := v.client.GetProject(context.Background(), v.project.ID)
	if err != nil {
		return RequestFailed{Op: "load project", Err: err}
	}
	return collaboratorsProjectMsg{project: project}
}

func (v *CollaboratorsView) addCollaborator() tea.Cmd {
	email := strings.TrimSpace(v.email.Value())
	if !strings.Contains(email, "@") {
		return notifyError("Invalid email format")
	}

	v.busy = true
	return func() tea.Msg {
		project, err := v.client.AddCollaborator(context.Background(), v.project.ID, email)
		if err != nil {
			return RequestFailed{Op: "add collaborator", Err: err}
		}
		return collaboratorsProjectMsg{project: project}
	}
}

func (v *CollaboratorsView) removeCollaborator(userID string) tea.Cmd {
	v.busy = true
	return func() tea.Msg {
		project, err := v.client.RemoveCollaborator(context.Background(), v.project.ID, userID)
		if err != nil {
			return RequestFailed{Op: "remove collaborator", Err: err}
		}
		return collaboratorsProjectMsg{project: project}
	}
}

func (v *CollaboratorsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case ThemeToggled:
		v.styles = styles.NewStyles()
		return v, nil

	case collaboratorsProjectMsg:
		wasBusy := v.busy
		v.busy = false
		v.project = *msg.project
		if v.cursor >= len(v.project.Collaborators) {
			v.cursor = max(0, len(v.project.Collaborators)-1)
		}
		if wasBusy {
			v.adding = false
			v.email.Reset()
			v.email.Blur()
			return v, notify("Collaborators updated")
		}
		return v, nil

	case RequestFailed:
		v.busy = false
		return v, notifyError(collaboratorMessage(msg))

	case tea.KeyMsg:
		if v.busy {
			return v, nil
		}

		back := func() tea.Msg {
			return SelectedProject{Project: v.project}
		}

		if !v.isCreator() {
			if key.Matches(msg, v.keys.Back) || key.Matches(msg, v.keys.Enter) {
				return v, back
			}
			return v, nil
		}

		if v.adding {
			switch {
			case key.Matches(msg, v.keys.Back):
				v.adding = false
				v.email.Blur()
				return v, nil
			case key.Matches(msg, v.keys.Enter):
				return v, v.addCollaborator()
			}
			var cmd tea.Cmd
			v.email, cmd = v.email.Update(msg)
			return v, cmd
		}

		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit

		case key.Matches(msg, v.keys.Back):
			return v, back

		case msg.String() == "a":
			v.adding = true
			v.email.Focus()
			return v, textinput.Blink

		case key.Matches(msg, v.keys.Up):
			if v.cursor > 0 {
				v.cursor--
			}
			return v, nil

		case key.Matches(msg, v.keys.Down):
			if v.cursor < len(v.project.Collaborators)-1 {
				v.cursor++
			}
			return v, nil

		case key.Matches(msg, v.keys.Delete):
			if v.cursor < len(v.project.Collaborators) {
				return v, v.removeCollaborator(v.project.Collaborators[v.cursor].ID)
			}
			return v, nil

		case key.Matches(msg, v.keys.Refresh):
			return v, v.loadProject
		}
	}

	return v, nil
}

// collaboratorMessage maps an API failure to user-facing wording
func collaboratorMessage(msg RequestFailed) string {
	switch msg.Op {
	case "add collaborator":
		switch api.StatusOf(msg.Err) {
		case http.StatusNotFound:
			return "User not found"
		case http.StatusBadRequest:
			return "Invalid collaborator data"
		case http.StatusConflict:
			return "This user is already a collaborator on the project"
		case http.StatusForbidden, http.StatusInternalServerError:
			return "You don't have permission to add collaborators"
		}
		return "Could not add the collaborator. Try again later"

	case "remove collaborator":
		if text := msg.Err.Error(); text != "" && text != "request failed" {
			return text
		}
		return "Could not remove the collaborator"
	}

	return "Could not " + msg.Op
}

func (v *CollaboratorsView) View() string {
	if !v.isCreator() {
		return v.renderAccessDenied()
	}

	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	rows := []string{
		s.Title.Render("Collaborators: " + v.project.Name),
		"",
	}

	if len(v.project.Collaborators) == 0 {
		rows = append(rows, s.TitleMuted.Render("No collaborators yet"))
	}
	for i, collab := range v.project.Collaborators {
		line := fmt.Sprintf("%s  %s", collab.Name, s.TaskMeta.Render(collab.Email))
		if i == v.cursor && !v.adding {
			rows = append(rows, s.ListSelected.Render(line))
		} else {
			rows = append(rows, s.ListItem.Render(line))
		}
	}

	rows = append(rows, "")
	if v.adding {
		inputWidth := clamp(contentWidth-6, 20, 50)
		rows = append(rows,
			"Add by email:",
			s.InputFocused.Width(inputWidth).Render(v.email.View()),
		)
	}
	if v.busy {
		rows = append(rows, s.TitleMuted.Render("Working..."))
	}
	rows = append(rows, v.renderHelp())

	content := lipgloss.JoinVertical(lipgloss.Left, rows...)
	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *CollaboratorsView) renderAccessDenied() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Access Denied"),
		"",
		s.TitleMuted.Render("Only the project creator can manage collaborators."),
		"",
		s.Button.Render(" esc - Back to the project "),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *CollaboratorsView) renderHelp() string {
	s := v.styles
	if v.adding {
		return s.Help.Render(
			fmt.Sprintf("%s add • %s cancel",
				s.HelpKey.Render("↵"),
				s.HelpKey.Render("esc"),
			),
		)
	}
	return s.Help.Render(
		fmt.Sprintf("%s add • %s remove • %s refresh • %s back",
			s.HelpKey.Render("a"),
			s.HelpKey.Render("d"),
			s.HelpKey.Render("r"),
			s.HelpKey.Render("esc"),
		),
	)
}
