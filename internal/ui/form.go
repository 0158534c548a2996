package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/josephgoksu/taskdeck/models"
)

// Form field indexes. The status selector sits after the text inputs.
const (
	fieldTitle = iota
	fieldDescription
	fieldDueDate
	fieldStatus
	fieldCount
)

// taskEditor is the inline create/edit form. A non-empty editingID means
// the submit becomes an update instead of a create.
type taskEditor struct {
	inputs    []textinput.Model
	statusIdx int
	focus     int
	editingID string
	errMsg    string
}

// newTaskEditor builds the form, prefilled from an existing task when
// editing.
func newTaskEditor(existing *models.Task) taskEditor {
	title := textinput.New()
	title.Placeholder = "what needs doing? (3-80 chars)"
	title.CharLimit = 80
	title.Width = 50

	desc := textinput.New()
	desc.Placeholder = "details (optional, up to 500 chars)"
	desc.CharLimit = 500
	desc.Width = 50

	due := textinput.New()
	due.Placeholder = dueDateLayout
	due.CharLimit = len(dueDateLayout)
	due.Width = 12

	ed := taskEditor{inputs: []textinput.Model{title, desc, due}}

	if existing != nil {
		ed.editingID = existing.ID
		ed.inputs[fieldTitle].SetValue(existing.Title)
		ed.inputs[fieldDescription].SetValue(existing.Description)
		if existing.DueDate != nil {
			ed.inputs[fieldDueDate].SetValue(existing.DueDate.Format(dueDateLayout))
		}
		for i, s := range models.AllStatuses() {
			if s == existing.Status {
				ed.statusIdx = i
				break
			}
		}
	}

	ed.inputs[fieldTitle].Focus()
	return ed
}

func (e *taskEditor) focusNext() {
	e.setFocus((e.focus + 1) % fieldCount)
}

func (e *taskEditor) focusPrev() {
	e.setFocus((e.focus + fieldCount - 1) % fieldCount)
}

func (e *taskEditor) setFocus(idx int) {
	e.focus = idx
	for i := range e.inputs {
		if i == idx {
			e.inputs[i].Focus()
		} else {
			e.inputs[i].Blur()
		}
	}
}

func (e *taskEditor) cycleStatus(dir int) {
	all := models.AllStatuses()
	e.statusIdx = (e.statusIdx + dir + len(all)) % len(all)
}

func (e taskEditor) update(msg tea.KeyMsg) (taskEditor, tea.Cmd) {
	if e.focus >= len(e.inputs) {
		return e, nil
	}
	var cmd tea.Cmd
	e.inputs[e.focus], cmd = e.inputs[e.focus].Update(msg)
	return e, cmd
}

// buildForm assembles a TaskForm from the current field values. Date parse
// failures surface here; validation-tag failures surface in the caller.
func (e taskEditor) buildForm() (models.TaskForm, error) {
	form := models.TaskForm{
		Title:       strings.TrimSpace(e.inputs[fieldTitle].Value()),
		Description: strings.TrimSpace(e.inputs[fieldDescription].Value()),
		Status:      models.AllStatuses()[e.statusIdx],
	}

	raw := strings.TrimSpace(e.inputs[fieldDueDate].Value())
	if raw == "" {
		return form, fmt.Errorf("due date is required (%s)", dueDateLayout)
	}
	due, err := time.Parse(dueDateLayout, raw)
	if err != nil {
		return form, fmt.Errorf("due date must be %s", dueDateLayout)
	}
	form.DueDate = &due
	return form, nil
}

func (e taskEditor) view() string {
	var s strings.Builder

	heading := " New task"
	if e.editingID != "" {
		heading = " Edit task"
	}
	s.WriteString(StyleTitle.Render(heading) + "\n\n")

	labels := []string{"Title", "Description", "Due date"}
	for i, label := range labels {
		s.WriteString(" " + StyleSubtle.Render(label) + "\n")
		s.WriteString(" " + e.inputs[i].View() + "\n")
	}

	s.WriteString(" " + StyleSubtle.Render("Status") + "\n ")
	for i, status := range models.AllStatuses() {
		label := string(status)
		if i == e.statusIdx {
			if e.focus == fieldStatus {
				s.WriteString(StylePrimary.Render("[" + label + "]"))
			} else {
				s.WriteString(StyleTitle.Render("[" + label + "]"))
			}
		} else {
			s.WriteString(StyleSubtle.Render(" " + label + " "))
		}
		if i < len(models.AllStatuses())-1 {
			s.WriteString(" ")
		}
	}
	s.WriteString("\n")

	if e.errMsg != "" {
		s.WriteString("\n " + StyleError.Render(e.errMsg) + "\n")
	}
	return s.String()
}
