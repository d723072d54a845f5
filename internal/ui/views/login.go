package views

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tasksphere/tasksphere/internal/session"
	"github.com/tasksphere/tasksphere/internal/ui/keys"
	"github.com/tasksphere/tasksphere/internal/ui/styles"
)

// LoginView is the entry screen: login by default, registration behind a
// mode toggle. It is the only view reachable without a session.
type LoginView struct {
	session *session.Store
	styles  *styles.Styles
	keys    keys.KeyMap

	width  int
	height int

	registering bool
	submitting  bool

	name     textinput.Model
	email    textinput.Model
	password textinput.Model
	focusIdx int
}

// NewLoginView creates the login view
func NewLoginView(sess *session.Store) *LoginView {
	name := textinput.New()
	name.Placeholder = "Your name"
	name.CharLimit = 100

	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 200
	email.Focus()

	password := textinput.New()
	password.Placeholder = "Password"
	password.CharLimit = 200
	password.EchoMode = textinput.EchoPassword

	return &LoginView{
		session:  sess,
		styles:   styles.NewStyles(),
		keys:     keys.DefaultKeyMap(),
		name:     name,
		email:    email,
		password: password,
	}
}

func (v *LoginView) Init() tea.Cmd {
	return textinput.Blink
}

type loginDoneMsg struct{ err error }

func (v *LoginView) submit() tea.Cmd {
	email := strings.TrimSpace(v.email.Value())
	password := v.password.Value()
	name := strings.TrimSpace(v.name.Value())
	registering := v.registering

	// Client-side checks run before any network call
	if registering && name == "" {
		return notifyError("Name is required")
	}
	if !strings.Contains(email, "@") {
		return notifyError("Invalid email format")
	}
	if len(password) < 6 {
		return notifyError("Password must be at least 6 characters")
	}

	v.submitting = true
	return func() tea.Msg {
		var err error
		if registering {
			err = v.session.Register(context.Background(), name, email, password)
		} else {
			err = v.session.Login(context.Background(), email, password)
		}
		return loginDoneMsg{err: err}
	}
}

func (v *LoginView) fieldCount() int {
	if v.registering {
		return 3
	}
	return 2
}

func (v *LoginView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case ThemeToggled:
		v.styles = styles.NewStyles()
		return v, nil

	case loginDoneMsg:
		v.submitting = false
		if msg.err != nil {
			text := "Failed to login"
			if v.registering {
				text = "Failed to register"
			}
			if msg.err.Error() != "" {
				text = msg.err.Error()
			}
			return v, notifyError(text)
		}
		return v, tea.Batch(
			func() tea.Msg { return LoggedIn{} },
			notify("Welcome!"),
		)

	case tea.KeyMsg:
		if v.submitting {
			return v, nil
		}

		switch {
		case msg.String() == "ctrl+c":
			return v, tea.Quit

		case msg.String() == "ctrl+r":
			v.registering = !v.registering
			v.focusIdx = 0
			v.updateFocus()
			return v, nil

		case key.Matches(msg, v.keys.Tab):
			v.focusIdx = (v.focusIdx + 1) % v.fieldCount()
			v.updateFocus()
			return v, nil

		case msg.String() == "shift+tab":
			n := v.fieldCount()
			v.focusIdx = (v.focusIdx + n - 1) % n
			v.updateFocus()
			return v, nil

		case key.Matches(msg, v.keys.Enter):
			if v.focusIdx < v.fieldCount()-1 {
				v.focusIdx++
				v.updateFocus()
				return v, nil
			}
			return v, v.submit()
		}
	}

	var cmd tea.Cmd
	switch v.activeField() {
	case &v.name:
		v.name, cmd = v.name.Update(msg)
	case &v.email:
		v.email, cmd = v.email.Update(msg)
	case &v.password:
		v.password, cmd = v.password.Update(msg)
	}
	return v, cmd
}

// activeField maps focusIdx to an input, accounting for the name field only
// existing in register mode.
func (v *LoginView) activeField() *textinput.Model {
	if v.registering {
		switch v.focusIdx {
		case 0:
			return &v.name
		case 1:
			return &v.email
		}
		return &v.password
	}
	if v.focusIdx == 0 {
		return &v.email
	}
	return &v.password
}

func (v *LoginView) updateFocus() {
	v.name.Blur()
	v.email.Blur()
	v.password.Blur()
	v.activeField().Focus()
}

func (v *LoginView) View() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	inputWidth := clamp(contentWidth-6, 20, 50)

	title := "Sign in to TaskSphere"
	action := " Sign In "
	toggleHint := "Ctrl+R: create an account"
	if v.registering {
		title = "Create your TaskSphere account"
		action = " Register "
		toggleHint = "Ctrl+R: back to sign in"
	}

	fieldStyle := func(idx int) lipgloss.Style {
		if idx == v.focusIdx {
			return s.InputFocused
		}
		return s.Input
	}

	rows := []string{s.Title.Render(title), ""}
	idx := 0
	if v.registering {
		rows = append(rows,
			"Name:",
			fieldStyle(idx).Width(inputWidth).Render(v.name.View()),
			"")
		idx++
	}
	rows = append(rows,
		"Email:",
		fieldStyle(idx).Width(inputWidth).Render(v.email.View()),
		"",
		"Password:",
		fieldStyle(idx+1).Width(inputWidth).Render(v.password.View()),
		"")

	if v.submitting {
		rows = append(rows, s.TitleMuted.Render("Signing in..."))
	} else {
		rows = append(rows, s.ButtonPrimary.Render(action))
	}
	rows = append(rows, "", s.TitleMuted.Render("Tab: next • ↵: submit • "+toggleHint))

	form := lipgloss.JoinVertical(lipgloss.Left, rows...)
	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}
