package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/josephgoksu/taskdeck/internal/coordinator"
	"github.com/josephgoksu/taskdeck/internal/push"
	"github.com/josephgoksu/taskdeck/internal/view"
	"github.com/josephgoksu/taskdeck/models"
	"github.com/josephgoksu/taskdeck/store"
)

// boardMode selects which input surface owns the keyboard.
type boardMode int

const (
	modeList boardMode = iota
	modeSearch
	modeForm
	modeConfirmDelete
)

// dueDateLayout is the format the form accepts for due dates.
const dueDateLayout = "2006-01-02"

// Messages flowing through the board's update loop.
type (
	tasksChangedMsg struct{}
	opDoneMsg       struct {
		action string
		err    error
	}
	toastExpireMsg struct{ id int }
)

// toast is a transient status line shown under the header.
type toast struct {
	id      int
	text    string
	isError bool
}

// BoardOptions wires the board to its collaborators.
type BoardOptions struct {
	Coordinator *coordinator.Coordinator
	Store       store.TaskStore
	Push        *push.Manager // nil disables the live channel indicator
	Version     string

	// Integration is a preformatted upstream-tracker badge for the header,
	// e.g. "jira ✓". Empty hides it.
	Integration string
}

// BoardModel is the interactive task board. The store is the single source
// of truth for records; the board re-derives its rows from a store snapshot
// whenever the store signals a change, regardless of which writer caused it.
type BoardModel struct {
	coord       *coordinator.Coordinator
	tasks       store.TaskStore
	push        *push.Manager
	version     string
	integration string

	filters view.Filters
	rows    []models.Task
	cursor  int

	mode   boardMode
	search textinput.Model
	form   taskEditor

	spin     spinner.Model
	toast    *toast
	toastSeq int

	width    int
	height   int
	quitting bool
}

// NewBoardModel builds the board in list mode with default filters.
func NewBoardModel(opts BoardOptions) BoardModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = StylePrimary

	search := textinput.New()
	search.Placeholder = "search title or description"
	search.Prompt = "/ "
	search.CharLimit = 80

	return BoardModel{
		coord:       opts.Coordinator,
		tasks:       opts.Store,
		push:        opts.Push,
		version:     opts.Version,
		integration: opts.Integration,
		filters:     view.DefaultFilters(),
		search:      search,
		spin:        s,
	}
}

func (m BoardModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spin.Tick, m.watchStore(), m.runOp("fetch", func(ctx context.Context) error {
		return m.coord.Fetch(ctx)
	})}
	if m.push != nil {
		m.push.Connect()
	}
	return tea.Batch(cmds...)
}

// watchStore blocks on the store's coalesced change channel and wakes the
// board when any writer mutates it.
func (m BoardModel) watchStore() tea.Cmd {
	ch := m.tasks.Changes()
	return func() tea.Msg {
		<-ch
		return tasksChangedMsg{}
	}
}

// runOp executes one coordinator call off the update loop.
func (m BoardModel) runOp(action string, op func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		err := op(context.Background())
		return opDoneMsg{action: action, err: err}
	}
}

func (m BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tasksChangedMsg:
		m.refreshRows()
		return m, m.watchStore()

	case opDoneMsg:
		return m.handleOpDone(msg)

	case toastExpireMsg:
		if m.toast != nil && m.toast.id == msg.id {
			m.toast = nil
		}
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeForm:
			return m.updateForm(msg)
		case modeConfirmDelete:
			return m.updateConfirm(msg)
		default:
			return m.updateList(msg)
		}
	}
	return m, nil
}

func (m BoardModel) handleOpDone(msg opDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		// The coordinator has already distilled the user-facing message.
		text := m.coord.Snapshot().Err
		if text == "" {
			text = msg.err.Error()
		}
		return m.showToast(text, true)
	}
	switch msg.action {
	case "create":
		return m.showToast("Task created", false)
	case "update":
		return m.showToast("Task updated", false)
	case "delete":
		return m.showToast("Task deleted", false)
	case "toggle":
		return m.showToast("Task status updated", false)
	}
	return m, nil
}

func (m BoardModel) showToast(text string, isError bool) (tea.Model, tea.Cmd) {
	m.toastSeq++
	m.toast = &toast{id: m.toastSeq, text: text, isError: isError}
	id := m.toastSeq
	return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return toastExpireMsg{id: id}
	})
}

// refreshRows re-derives the projection from the store and clamps the cursor.
func (m *BoardModel) refreshRows() {
	m.rows = view.Apply(m.tasks.List(), m.filters)
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m BoardModel) selected() (models.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return models.Task{}, false
	}
	return m.rows[m.cursor], true
}

func (m BoardModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		if m.push != nil {
			m.push.Disconnect()
		}
		m.coord.Close()
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}

	case "/":
		m.mode = modeSearch
		m.search.SetValue(m.filters.Search)
		m.search.Focus()
		return m, textinput.Blink

	case "f":
		m.filters.Status = nextStatusFilter(m.filters.Status)
		m.refreshRows()

	case "s":
		m.filters.SortField = nextSortField(m.filters.SortField)
		m.refreshRows()

	case "o":
		if m.filters.SortOrder == view.Ascending {
			m.filters.SortOrder = view.Descending
		} else {
			m.filters.SortOrder = view.Ascending
		}
		m.refreshRows()

	case "n":
		m.mode = modeForm
		m.form = newTaskEditor(nil)
		return m, textinput.Blink

	case "e":
		if task, ok := m.selected(); ok {
			m.mode = modeForm
			m.form = newTaskEditor(&task)
			return m, textinput.Blink
		}

	case "d", " ":
		if task, ok := m.selected(); ok {
			id := task.ID
			return m, m.runOp("toggle", func(ctx context.Context) error {
				return m.coord.ToggleDone(ctx, id)
			})
		}

	case "x":
		if _, ok := m.selected(); ok {
			m.mode = modeConfirmDelete
		}

	case "r":
		return m, m.runOp("fetch", func(ctx context.Context) error {
			return m.coord.Fetch(ctx)
		})

	case "p":
		if m.push != nil {
			if m.push.State() == push.StateDisconnected {
				m.push.Connect()
			} else {
				m.push.Disconnect()
			}
		}

	case "c", "esc":
		m.coord.ClearError()
		m.toast = nil
	}
	return m, nil
}

func (m BoardModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.filters.Search = strings.TrimSpace(m.search.Value())
		m.search.Blur()
		m.mode = modeList
		m.cursor = 0
		m.refreshRows()
		return m, nil
	case "esc":
		m.search.Blur()
		m.mode = modeList
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m BoardModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = modeList
	if msg.String() != "y" {
		return m, nil
	}
	task, ok := m.selected()
	if !ok {
		return m, nil
	}
	id := task.ID
	return m, m.runOp("delete", func(ctx context.Context) error {
		return m.coord.Delete(ctx, id)
	})
}

func (m BoardModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeList
		return m, nil

	case "tab", "down":
		m.form.focusNext()
		return m, textinput.Blink
	case "shift+tab", "up":
		m.form.focusPrev()
		return m, textinput.Blink

	case "left":
		if m.form.focus == fieldStatus {
			m.form.cycleStatus(-1)
			return m, nil
		}
	case "right":
		if m.form.focus == fieldStatus {
			m.form.cycleStatus(1)
			return m, nil
		}

	case "enter":
		return m.submitForm()
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	return m, cmd
}

func (m BoardModel) submitForm() (tea.Model, tea.Cmd) {
	form, err := m.form.buildForm()
	if err != nil {
		m.form.errMsg = err.Error()
		return m, nil
	}
	if err := models.ValidateStruct(form); err != nil {
		m.form.errMsg = formatFormError(err)
		return m, nil
	}

	m.mode = modeList
	if m.form.editingID != "" {
		id := m.form.editingID
		patch := formToPatch(form)
		return m, m.runOp("update", func(ctx context.Context) error {
			return m.coord.Update(ctx, id, patch)
		})
	}
	return m, m.runOp("create", func(ctx context.Context) error {
		return m.coord.Create(ctx, form)
	})
}

func (m BoardModel) View() string {
	if m.quitting {
		return ""
	}

	var s strings.Builder
	s.WriteString(m.headerView())
	s.WriteString("\n")

	if m.toast != nil {
		style := StyleSuccess
		if m.toast.isError {
			style = StyleError
		}
		s.WriteString(" " + style.Render(m.toast.text) + "\n")
	}
	if errMsg := m.coord.Snapshot().Err; errMsg != "" && m.toast == nil {
		s.WriteString(" " + StyleError.Render(errMsg) + StyleSubtle.Render("  (c to dismiss)") + "\n")
	}

	switch m.mode {
	case modeForm:
		s.WriteString(m.form.view())
	case modeConfirmDelete:
		if task, ok := m.selected(); ok {
			s.WriteString(fmt.Sprintf("\n Delete %q? %s\n",
				task.Title, StyleWarning.Render("y to confirm, any other key to cancel")))
		}
	default:
		s.WriteString(m.listView())
	}

	s.WriteString("\n" + m.footerView())
	return s.String()
}

func (m BoardModel) headerView() string {
	var parts []string
	parts = append(parts, StyleHeader.Render("taskdeck"))
	if m.version != "" {
		parts = append(parts, StyleSubtle.Render(m.version))
	}
	if m.coord.Snapshot().Loading {
		parts = append(parts, m.spin.View()+StyleSubtle.Render("loading"))
	}
	if m.push != nil {
		parts = append(parts, pushBadge(m.push.State()))
	}
	if m.integration != "" {
		parts = append(parts, StyleSubtle.Render(m.integration))
	}
	return strings.Join(parts, " ")
}

func pushBadge(state push.ConnState) string {
	switch state {
	case push.StateConnected:
		return StyleSuccess.Render("● live")
	case push.StateConnecting:
		return StyleWarning.Render("● connecting")
	default:
		return StyleSubtle.Render("○ offline")
	}
}

func (m BoardModel) listView() string {
	var s strings.Builder

	s.WriteString(" " + m.filterLine() + "\n\n")

	if m.mode == modeSearch {
		s.WriteString(" " + m.search.View() + "\n\n")
	}

	if len(m.rows) == 0 {
		s.WriteString(StyleSubtle.Render("  no tasks match\n"))
		return s.String()
	}

	for i, task := range m.rows {
		marker := "  "
		if i == m.cursor {
			marker = StyleCursor.Render("> ")
		}

		title := StyleTitle.Render(task.Title)
		if task.Completed {
			title = StyleDone.Render(task.Title)
		}

		due := ""
		if task.DueDate != nil {
			due = StyleSubtle.Render(" due " + task.DueDate.Format(dueDateLayout))
		}

		s.WriteString(fmt.Sprintf("%s%s %s%s %s\n",
			marker, StatusIcon(task.Status), title, due,
			StatusStyle(task.Status).Render(string(task.Status))))
	}
	return s.String()
}

func (m BoardModel) filterLine() string {
	status := "all"
	if m.filters.Status != nil {
		status = string(*m.filters.Status)
	}
	line := fmt.Sprintf("%d tasks • status:%s • sort:%s %s",
		len(m.rows), status, m.filters.SortField, m.filters.SortOrder)
	if m.filters.Search != "" {
		line += fmt.Sprintf(" • search:%q", m.filters.Search)
	}
	return StyleSubtle.Render(line)
}

func (m BoardModel) footerView() string {
	switch m.mode {
	case modeForm:
		return StyleSubtle.Render(" tab next field • ←/→ status • enter save • esc cancel")
	case modeSearch:
		return StyleSubtle.Render(" enter apply • esc cancel")
	default:
		return StyleSubtle.Render(" n new • e edit • d done • x delete • / search • f filter • s sort • o order • r refresh • q quit")
	}
}

// nextStatusFilter cycles nil → PENDING → ... → CANCELLED → nil.
func nextStatusFilter(current *models.TaskStatus) *models.TaskStatus {
	all := models.AllStatuses()
	if current == nil {
		s := all[0]
		return &s
	}
	for i, s := range all {
		if s == *current {
			if i == len(all)-1 {
				return nil
			}
			next := all[i+1]
			return &next
		}
	}
	return nil
}

func nextSortField(current view.SortField) view.SortField {
	order := []view.SortField{view.SortByCreatedAt, view.SortByTitle, view.SortByDueDate, view.SortByStatus}
	for i, f := range order {
		if f == current {
			return order[(i+1)%len(order)]
		}
	}
	return view.SortByCreatedAt
}

// formToPatch lifts every form field into a patch. Edits always send the
// full field set; the backend response remains authoritative.
func formToPatch(form models.TaskForm) models.TaskPatch {
	title := form.Title
	desc := form.Description
	status := form.Status
	return models.TaskPatch{
		Title:       &title,
		Description: &desc,
		DueDate:     form.DueDate,
		Status:      &status,
	}
}

// formatFormError flattens a validator error into a single toast-sized line.
func formatFormError(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, ";"); i > 0 {
		msg = msg[:i]
	}
	return msg
}
