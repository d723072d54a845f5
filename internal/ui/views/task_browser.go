package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tasksphere/tasksphere/internal/filter"
	"github.com/tasksphere/tasksphere/internal/models"
	"github.com/tasksphere/tasksphere/internal/ui/keys"
	"github.com/tasksphere/tasksphere/internal/ui/styles"
)

// taskBrowser is the filterable, paginated task list shared by the global
// task view and the project detail view. It holds the full scope snapshot
// in memory and derives the visible page on every render.
type taskBrowser struct {
	styles *styles.Styles
	keys   keys.KeyMap

	allTasks []models.Task
	fs       filter.State
	cursor   int
	loaded   bool

	searchInput textinput.Model
	searching   bool

	width int
}

func newTaskBrowser(s *styles.Styles) taskBrowser {
	search := textinput.New()
	search.Placeholder = "Search tasks..."
	search.CharLimit = 100

	return taskBrowser{
		styles:      s,
		keys:        keys.DefaultKeyMap(),
		fs:          filter.NewState(),
		searchInput: search,
		width:       80,
	}
}

func (b *taskBrowser) setStyles(s *styles.Styles) {
	b.styles = s
}

// setTasks replaces the scope snapshot, keeping the filter but resetting
// the cursor.
func (b *taskBrowser) setTasks(tasks []models.Task) {
	b.allTasks = tasks
	b.loaded = true
	b.cursor = 0
}

func (b *taskBrowser) visible() []models.Task {
	return filter.Apply(b.allTasks, b.fs)
}

func (b *taskBrowser) totalPages() int {
	return filter.TotalPages(len(b.allTasks), b.fs.Limit)
}

func (b *taskBrowser) selected() *models.Task {
	visible := b.visible()
	if len(visible) == 0 || b.cursor >= len(visible) {
		return nil
	}
	return &visible[b.cursor]
}

// cycleStatus advances the status facet: all → todo → in_progress → done
func (b *taskBrowser) cycleStatus() {
	switch b.fs.Status {
	case "":
		b.fs.SetStatus(models.StatusTodo)
	case models.StatusTodo:
		b.fs.SetStatus(models.StatusInProgress)
	case models.StatusInProgress:
		b.fs.SetStatus(models.StatusDone)
	default:
		b.fs.SetStatus("")
	}
	b.cursor = 0
}

// handleKey processes list navigation and filtering keys. It reports
// whether the key was consumed so the owning view can run its own bindings
// otherwise.
func (b *taskBrowser) handleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	if b.searching {
		switch msg.String() {
		case "esc", "enter":
			b.searching = false
			b.searchInput.Blur()
			return true, nil
		}
		var cmd tea.Cmd
		b.searchInput, cmd = b.searchInput.Update(msg)
		b.fs.SetSearch(strings.TrimSpace(b.searchInput.Value()))
		b.cursor = 0
		return true, cmd
	}

	switch {
	case key.Matches(msg, b.keys.Search):
		b.searching = true
		b.searchInput.Focus()
		return true, textinput.Blink

	case key.Matches(msg, b.keys.Filter):
		b.cycleStatus()
		return true, nil

	case key.Matches(msg, b.keys.Up):
		if b.cursor > 0 {
			b.cursor--
		}
		return true, nil

	case key.Matches(msg, b.keys.Down):
		if b.cursor < len(b.visible())-1 {
			b.cursor++
		}
		return true, nil

	case key.Matches(msg, b.keys.Left):
		if b.fs.Page > 1 {
			b.fs.SetPage(b.fs.Page - 1)
			b.cursor = 0
		}
		return true, nil

	case key.Matches(msg, b.keys.Right):
		if b.fs.Page < b.totalPages() {
			b.fs.SetPage(b.fs.Page + 1)
			b.cursor = 0
		}
		return true, nil
	}

	return false, nil
}

func (b *taskBrowser) statusLabel() string {
	if b.fs.Status == "" {
		return "All"
	}
	return models.StatusLabel(b.fs.Status)
}

func (b *taskBrowser) renderFilterBar() string {
	s := b.styles

	var searchBox string
	switch {
	case b.searching:
		searchBox = s.InputFocused.Render(b.searchInput.View())
	case b.fs.Search == "":
		searchBox = s.FilterButton.Render("/ search")
	default:
		searchBox = s.FilterInput.Render("/ " + b.fs.Search)
	}

	status := s.FilterButton.Render("s: " + b.statusLabel())

	pages := b.totalPages()
	page := s.FilterButton.Render(fmt.Sprintf("page %d/%d", b.fs.Page, max(pages, 1)))

	return s.FilterBar.Width(styles.ContentWidth(b.width) - 2).Render(
		lipgloss.JoinHorizontal(lipgloss.Center, searchBox, " ", status, " ", page),
	)
}

func (b *taskBrowser) renderRows(showProject bool) string {
	s := b.styles
	visible := b.visible()

	if !b.loaded {
		return s.TitleMuted.Render("Loading tasks...")
	}
	if len(visible) == 0 {
		if b.fs.Search != "" || b.fs.Status != "" {
			return s.TitleMuted.Render("No tasks match the current filters")
		}
		return s.TitleMuted.Render("No tasks yet. Press 'n' to create one")
	}

	width := max(styles.ContentWidth(b.width)-4, 20)
	rows := make([]string, 0, len(visible))
	for i, task := range visible {
		badge := s.Badge(task.Status).Render(models.StatusLabel(task.Status))

		meta := task.Creator.Name
		if showProject && task.Project.Name != "" {
			meta = task.Project.Name + " • " + meta
		}
		if !task.DueDate.IsZero() {
			meta += " • due " + task.DueDate.Format("2006-01-02")
		}

		line := lipgloss.JoinHorizontal(lipgloss.Center,
			badge,
			" ",
			task.Title,
		)
		if i == b.cursor {
			rows = append(rows, s.ListSelected.Width(width).Render(line))
		} else {
			rows = append(rows, s.ListItem.Width(width).Render(line))
		}
		rows = append(rows, s.TaskMeta.PaddingLeft(4).Render(meta))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
