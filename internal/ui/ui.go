package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"tasklist/internal/config"
	"tasklist/internal/logging"
	"tasklist/internal/task"
	"tasklist/internal/view"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeEdit
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	doneStyle    = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#8B93A1"})
	pendingStyle = lipgloss.NewStyle()
	cursorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	noticeStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("9")).
			Padding(0, 1)
	hintStyle = lipgloss.NewStyle().Faint(true)
)

// live holds the latest collection pushed by the store. The model is copied
// on every Update, so the subscription writes through this pointer.
type live struct {
	tasks task.Collection
}

type Model struct {
	store   *task.Store
	cfg     config.Config
	logger  *log.Logger
	live    *live
	session view.Session
	cursor  int
	mode    mode
	input   textinput.Model
	status  string
	notice  string
}

// New builds the model and subscribes it to store changes. Call the returned
// func to unsubscribe.
func New(store *task.Store, cfg config.Config, logger *log.Logger) (Model, func()) {
	if logger == nil {
		logger = logging.Discard()
	}
	ti := textinput.New()
	ti.Placeholder = "Enter a new task"
	ti.CharLimit = 0
	ti.Width = 40

	l := &live{tasks: store.Tasks()}
	cancel := store.Subscribe(func(c task.Collection) { l.tasks = c })

	m := Model{
		store:   store,
		cfg:     cfg,
		logger:  logger,
		live:    l,
		session: view.NewSession(cfg.Filter(), cfg.Sort()),
		input:   ti,
		mode:    modeList,
		status:  fmt.Sprintf("Press '%s' to add, space to toggle, '%s' to delete.", cfg.Keys.Add, cfg.Keys.Delete),
	}
	return m, cancel
}

func Run(store *task.Store, cfg config.Config, logger *log.Logger) error {
	m, cancel := New(store, cfg, logger)
	defer cancel()

	program := tea.NewProgram(m)
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.notice != "" {
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			m.notice = ""
			return m, nil
		}
		switch m.mode {
		case modeAdd:
			return m.updateAddMode(msg.String(), msg)
		case modeEdit:
			return m.updateEditMode(msg.String(), msg)
		}
		return m.updateListMode(msg.String())
	case tea.WindowSizeMsg:
		m.input.Width = msg.Width - 10
	}
	return m, nil
}

func (m Model) visible() []task.Task {
	return m.session.Visible(m.live.tasks)
}

func (m Model) current() (task.Task, bool) {
	v := m.visible()
	if len(v) == 0 {
		return task.Task{}, false
	}
	return v[clampCursor(m.cursor, len(v))], true
}

func (m Model) updateAddMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel:
		m.mode = modeList
		m.input.SetValue("")
		m.input.Blur()
		m.status = "Cancelled"
		return m, nil
	case m.cfg.Keys.Confirm:
		added, err := m.store.Add(m.input.Value())
		if err != nil {
			var ve *task.ValidationError
			if errors.As(err, &ve) {
				m.notice = ve.Error()
				return m, nil
			}
			m.status = fmt.Sprintf("add failed: %v", err)
			return m, nil
		}
		m.logger.Debug("added from ui", "id", added.ID)
		m.status = "Added task"
		m.cursor = 0
		m.input.SetValue("")
		m.input.Blur()
		m.mode = modeList
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

// updateEditMode commits on confirm and on anything that moves focus away
// from the input.
func (m Model) updateEditMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Confirm, m.cfg.Keys.Cancel, "tab", "shift+tab":
		return m.commitEdit(), nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if m.session.Edit != nil {
			m.session.Edit.Draft = m.input.Value()
		}
		return m, cmd
	}
}

func (m Model) commitEdit() Model {
	if m.session.Edit != nil {
		m.store.CommitEdit(m.session.Edit.ID, m.input.Value())
		m.status = "Saved task"
	}
	m.session.ClearEdit()
	m.input.SetValue("")
	m.input.Blur()
	m.input.Placeholder = "Enter a new task"
	m.mode = modeList
	m.cursor = clampCursor(m.cursor, len(m.visible()))
	return m
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", m.cfg.Keys.Quit:
		return m, tea.Quit
	case m.cfg.Keys.Down, "down":
		m.cursor = clampCursor(m.cursor+1, len(m.visible()))
	case m.cfg.Keys.Up, "up":
		m.cursor = clampCursor(m.cursor-1, len(m.visible()))
	case m.cfg.Keys.Add:
		m.mode = modeAdd
		m.input.Placeholder = "Enter a new task"
		m.input.Focus()
		m.status = "Add mode: type a task and press Enter"
	case m.cfg.Keys.Toggle:
		t, ok := m.current()
		if !ok {
			return m, nil
		}
		m.store.Toggle(t.ID)
		m.cursor = clampCursor(m.cursor, len(m.visible()))
		m.status = "Toggled task"
	case m.cfg.Keys.Delete:
		t, ok := m.current()
		if !ok {
			return m, nil
		}
		m.store.Delete(t.ID)
		m.cursor = clampCursor(m.cursor, len(m.visible()))
		m.status = "Deleted task"
	case m.cfg.Keys.Edit:
		t, ok := m.current()
		if !ok {
			m.status = "No tasks to edit"
			return m, nil
		}
		m.session.BeginEdit(t.ID, t.Text)
		m.input.SetValue(t.Text)
		m.input.CursorEnd()
		m.input.Placeholder = ""
		m.input.Focus()
		m.mode = modeEdit
		m.status = "Editing: Enter or Esc to save"
	case m.cfg.Keys.Filter:
		m.session.Filter = m.session.Filter.Next()
		m.cursor = clampCursor(m.cursor, len(m.visible()))
		m.status = "Filter: " + string(m.session.Filter)
	case m.cfg.Keys.Sort:
		m.session.Sort = m.session.Sort.Next()
		m.status = "Sort: " + string(m.session.Sort)
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("To-Do List"))
	b.WriteString("  ")
	b.WriteString(hintStyle.Render(fmt.Sprintf("filter:%s • sort:%s", m.session.Filter, sortLabel(m.session.Sort))))
	b.WriteString("\n\n")

	if m.mode == modeAdd {
		b.WriteString("New task: ")
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
	}

	tasks := m.visible()
	if len(tasks) == 0 {
		b.WriteString(fmt.Sprintf("No tasks here. Press '%s' to add one.", m.cfg.Keys.Add))
		b.WriteString("\n")
	} else {
		b.WriteString(m.renderTaskList(tasks))
	}

	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(noticeStyle.Render(m.notice + "\n" + hintStyle.Render("press any key")))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.status)
	b.WriteString("\n")
	b.WriteString(hintStyle.Render(renderHelp(m.cfg.Keys)))

	return b.String()
}

func (m Model) renderTaskList(tasks []task.Task) string {
	var b strings.Builder
	cur := clampCursor(m.cursor, len(tasks))
	for i, t := range tasks {
		cursor := " "
		if i == cur && m.mode != modeAdd {
			cursor = cursorStyle.Render(">")
		}

		checkbox := "[ ]"
		style := pendingStyle
		if t.Completed {
			checkbox = "[x]"
			style = doneStyle
		}

		body := style.Render(t.Text)
		if m.session.Editing(t.ID) {
			body = m.input.View()
		}
		b.WriteString(fmt.Sprintf("%s %s %s\n", cursor, checkbox, body))
	}
	return b.String()
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s move • %s add • %s toggle • %s edit • %s delete • %s filter • %s sort • %s quit",
		k.Up, k.Down, k.Add, keyLabel(k.Toggle), k.Edit, k.Delete, k.Filter, k.Sort, k.Quit)
}

func keyLabel(k string) string {
	if k == " " {
		return "space"
	}
	return k
}

func sortLabel(s view.Sort) string {
	if s == view.SortOldest {
		return "oldest first"
	}
	return "newest first"
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
