package views

import (
	"context"
	"net/http"
	"strings"
	"time"

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

const dueDateLayout = "2006-01-02"

// EditTaskView is the create/edit form for a task. Every task carries an
// image: the image is uploaded first (from a local file path) and the task
// write only goes out once an upload has succeeded.
type EditTaskView struct {
	client  *api.Client
	session *session.Store
	styles  *styles.Styles
	keys    keys.KeyMap

	// nil when creating
	task      *models.Task
	projectID string
	fromTasks bool

	width  int
	height int

	title     textinput.Model
	statusIdx int
	dueDate   textinput.Model
	imagePath textinput.Model
	focusIdx  int // 0=title, 1=status, 2=due date, 3=image, 4=save

	// Set by a successful upload; the submit guard checks this
	imageURL  string
	uploading bool
	saving    bool
}

// NewEditTaskView creates the task form. Pass a nil task to create one in
// projectID.
func NewEditTaskView(client *api.Client, sess *session.Store, task *models.Task, projectID string, fromTasks bool) *EditTaskView {
	title := textinput.New()
	title.Placeholder = "Task title"
	title.CharLimit = 200
	title.Focus()

	dueDate := textinput.New()
	dueDate.Placeholder = dueDateLayout
	dueDate.CharLimit = 10

	imagePath := textinput.New()
	imagePath.Placeholder = "Path to an image file"
	imagePath.CharLimit = 500

	v := &EditTaskView{
		client:    client,
		session:   sess,
		styles:    styles.NewStyles(),
		keys:      keys.DefaultKeyMap(),
		task:      task,
		projectID: projectID,
		fromTasks: fromTasks,
		title:     title,
		dueDate:   dueDate,
		imagePath: imagePath,
	}

	if task != nil {
		v.title.SetValue(task.Title)
		v.statusIdx = statusIndex(task.Status)
		if !task.DueDate.IsZero() {
			v.dueDate.SetValue(task.DueDate.Format(dueDateLayout))
		}
		v.imageURL = task.ImageURL
	}

	return v
}

func statusIndex(status string) int {
	for i, s := range models.Statuses {
		if s == status {
			return i
		}
	}
	return 0
}

func (v *EditTaskView) Init() tea.Cmd {
	return textinput.Blink
}

type imageUploadedMsg struct {
	upload *api.Upload
}

type taskSavedMsg struct{}

// uploadImage sends the local file at the image path to the backend
func (v *EditTaskView) uploadImage() tea.Cmd {
	path := strings.TrimSpace(v.imagePath.Value())
	if path == "" {
		return notifyError("Enter the path of an image file first")
	}

	v.uploading = true
	return func() tea.Msg {
		upload, err := v.client.UploadTaskImage(context.Background(), path)
		if err != nil {
			return RequestFailed{Op: "upload image", Err: err}
		}
		return imageUploadedMsg{upload: upload}
	}
}

// save validates the form and issues the task write. Submitting without a
// prior successful image upload is rejected here, before any network call.
func (v *EditTaskView) save() tea.Cmd {
	title := strings.TrimSpace(v.title.Value())
	if len(title) < 3 {
		return notifyError("Task title must be at least 3 characters")
	}

	due, err := time.Parse(dueDateLayout, strings.TrimSpace(v.dueDate.Value()))
	if err != nil {
		return notifyError("Due date must look like " + dueDateLayout)
	}
	if v.task == nil && due.Before(time.Now().Truncate(24*time.Hour)) {
		return notifyError("Due date must be in the future")
	}

	if v.imageURL == "" {
		return notifyError("Upload an image first")
	}

	user := v.session.CurrentUser()
	if user == nil {
		return notifyError("Not logged in")
	}

	v.saving = true
	input := api.TaskInput{
		Title:     title,
		Status:    models.Statuses[v.statusIdx],
		DueDate:   due,
		ProjectID: v.projectID,
		CreatorID: user.ID,
		ImageURL:  v.imageURL,
	}
	// The form has no description field; keep the stored one on edits so a
	// save does not blank it.
	if v.task != nil {
		input.Description = v.task.Description
	}
	editing := v.task

	return func() tea.Msg {
		var err error
		if editing != nil {
			_, err = v.client.UpdateTask(context.Background(), editing.ID, input)
		} else {
			_, err = v.client.CreateTask(context.Background(), input)
		}
		if err != nil {
			return RequestFailed{Op: "save task", Err: err}
		}
		return taskSavedMsg{}
	}
}

func (v *EditTaskView) back() tea.Cmd {
	projectID := v.projectID
	fromTasks := v.fromTasks
	return func() tea.Msg {
		return TaskSaved{ProjectID: projectID, FromTasks: fromTasks}
	}
}

func (v *EditTaskView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case ThemeToggled:
		v.styles = styles.NewStyles()
		return v, nil

	case imageUploadedMsg:
		v.uploading = false
		v.imageURL = msg.upload.URL
		return v, notify("Image uploaded")

	case taskSavedMsg:
		v.saving = false
		return v, tea.Batch(v.back(), notify("Task saved"))

	case RequestFailed:
		return v.handleFailure(msg)

	case tea.KeyMsg:
		if v.saving || v.uploading {
			return v, nil
		}

		switch {
		case key.Matches(msg, v.keys.Back):
			return v, v.back()

		case msg.String() == "ctrl+s":
			return v, v.save()

		case msg.String() == "ctrl+u":
			return v, v.uploadImage()

		case msg.String() == "shift+tab":
			v.focusIdx = (v.focusIdx + 4) % 5
			v.updateFocus()
			return v, nil

		case key.Matches(msg, v.keys.Tab):
			v.focusIdx = (v.focusIdx + 1) % 5
			v.updateFocus()
			return v, nil

		case key.Matches(msg, v.keys.Enter):
			switch v.focusIdx {
			case 1:
				// Cycle the status on enter
				v.statusIdx = (v.statusIdx + 1) % len(models.Statuses)
				return v, nil
			case 3:
				return v, v.uploadImage()
			case 4:
				return v, v.save()
			default:
				v.focusIdx++
				v.updateFocus()
				return v, nil
			}

		case msg.String() == " " && v.focusIdx == 1:
			v.statusIdx = (v.statusIdx + 1) % len(models.Statuses)
			return v, nil
		}
	}

	var cmd tea.Cmd
	switch v.focusIdx {
	case 0:
		v.title, cmd = v.title.Update(msg)
	case 2:
		v.dueDate, cmd = v.dueDate.Update(msg)
	case 3:
		v.imagePath, cmd = v.imagePath.Update(msg)
	}
	return v, cmd
}

func (v *EditTaskView) handleFailure(msg RequestFailed) (tea.Model, tea.Cmd) {
	v.saving = false
	v.uploading = false

	if msg.Op == "upload image" {
		// Surface the backend's own wording when it gave any
		text := msg.Err.Error()
		if text == "" || text == "request failed" {
			text = "Failed to upload image"
		}
		return v, notifyError(text)
	}

	switch api.StatusOf(msg.Err) {
	case http.StatusBadRequest:
		return v, notifyError("Invalid task data")
	case http.StatusNotFound:
		return v, notifyError("Task not found")
	case http.StatusForbidden, http.StatusInternalServerError:
		return v, notifyError("You don't have permission to change this task")
	}
	return v, notifyError("Could not save the task. Try again later")
}

func (v *EditTaskView) updateFocus() {
	v.title.Blur()
	v.dueDate.Blur()
	v.imagePath.Blur()
	switch v.focusIdx {
	case 0:
		v.title.Focus()
	case 2:
		v.dueDate.Focus()
	case 3:
		v.imagePath.Focus()
	}
}

func (v *EditTaskView) View() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	inputWidth := clamp(contentWidth-6, 20, 50)

	title := "New Task"
	action := " Create "
	if v.task != nil {
		title = "Edit Task"
		action = " Save "
	}

	style := func(idx int) lipgloss.Style {
		if idx == v.focusIdx {
			return s.InputFocused
		}
		return s.Input
	}

	statusBox := style(1).Width(inputWidth).Render(
		s.Badge(models.Statuses[v.statusIdx]).Render(models.StatusLabel(models.Statuses[v.statusIdx])) +
			s.TitleMuted.Render("  (↵ to cycle)"),
	)

	imageState := s.TitleMuted.Render("no image uploaded yet")
	if v.uploading {
		imageState = s.TitleMuted.Render("uploading...")
	} else if v.imageURL != "" {
		imageState = s.Notice.Render("image: " + v.imageURL)
	}

	button := s.Button.Render(action)
	if v.focusIdx == 4 {
		button = s.ButtonFocused.Render(action)
	}
	if v.saving {
		button = s.TitleMuted.Render("Saving...")
	}

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(title),
		s.TitleMuted.Render("Upload the image before saving"),
		"",
		"Title:",
		style(0).Width(inputWidth).Render(v.title.View()),
		"",
		"Status:",
		statusBox,
		"",
		"Due date:",
		style(2).Width(inputWidth).Render(v.dueDate.View()),
		"",
		"Image file:",
		style(3).Width(inputWidth).Render(v.imagePath.View()),
		imageState,
		"",
		button,
		"",
		s.TitleMuted.Render("Tab: next • Ctrl+U: upload • Ctrl+S: save • Esc: cancel"),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}
