package ui

import (
	"strings"
	"testing"

	"github.com/josephgoksu/taskdeck/internal/view"
	"github.com/josephgoksu/taskdeck/models"
)

func TestNextStatusFilter_CyclesThroughAllAndBackToNil(t *testing.T) {
	var current *models.TaskStatus

	seen := make(map[models.TaskStatus]bool)
	for range models.AllStatuses() {
		current = nextStatusFilter(current)
		if current == nil {
			t.Fatal("cycle returned to nil before visiting every status")
		}
		seen[*current] = true
	}

	if len(seen) != len(models.AllStatuses()) {
		t.Errorf("visited %d statuses, want %d", len(seen), len(models.AllStatuses()))
	}

	if next := nextStatusFilter(current); next != nil {
		t.Errorf("after last status the filter must wrap to nil, got %v", *next)
	}
}

func TestNextSortField_Cycles(t *testing.T) {
	field := view.SortByCreatedAt
	for i := 0; i < 4; i++ {
		field = nextSortField(field)
	}
	if field != view.SortByCreatedAt {
		t.Errorf("four steps must return to createdAt, got %s", field)
	}
}

func TestTaskEditor_BuildFormRequiresDueDate(t *testing.T) {
	ed := newTaskEditor(nil)
	ed.inputs[fieldTitle].SetValue("Write quarterly report")

	if _, err := ed.buildForm(); err == nil {
		t.Error("empty due date must be rejected")
	}

	ed.inputs[fieldDueDate].SetValue("not-a-date")
	if _, err := ed.buildForm(); err == nil {
		t.Error("unparseable due date must be rejected")
	}

	ed.inputs[fieldDueDate].SetValue("2026-09-15")
	form, err := ed.buildForm()
	if err != nil {
		t.Fatalf("valid form rejected: %v", err)
	}
	if form.DueDate == nil || form.DueDate.Format(dueDateLayout) != "2026-09-15" {
		t.Errorf("due date not carried into the form: %v", form.DueDate)
	}
	if err := models.ValidateStruct(form); err != nil {
		t.Errorf("form should pass validation: %v", err)
	}
}

func TestTaskEditor_PrefillsFromExistingTask(t *testing.T) {
	task := models.Task{
		ID:          "t-1",
		Title:       "Existing task",
		Description: "with details",
		Status:      models.StatusBlocked,
	}
	ed := newTaskEditor(&task)

	if ed.editingID != "t-1" {
		t.Errorf("editingID = %q, want t-1", ed.editingID)
	}
	if got := ed.inputs[fieldTitle].Value(); got != "Existing task" {
		t.Errorf("title prefill = %q", got)
	}
	if models.AllStatuses()[ed.statusIdx] != models.StatusBlocked {
		t.Errorf("status prefill = %v, want BLOCKED", models.AllStatuses()[ed.statusIdx])
	}
}

func TestFormToPatch_CarriesEveryField(t *testing.T) {
	due := mustDate(t, "2026-10-01")
	form := models.TaskForm{
		Title:       "Patched title",
		Description: "patched text",
		DueDate:     &due,
		Status:      models.StatusInProgress,
	}

	patch := formToPatch(form)
	if patch.Title == nil || *patch.Title != form.Title {
		t.Error("title missing from patch")
	}
	if patch.Status == nil || *patch.Status != models.StatusInProgress {
		t.Error("status missing from patch")
	}
	if patch.DueDate == nil {
		t.Error("due date missing from patch")
	}
	if patch.IsEmpty() {
		t.Error("full form must never produce an empty patch")
	}
}

func TestFormatFormError_KeepsFirstFailureOnly(t *testing.T) {
	err := models.ValidateStruct(models.TaskForm{Title: "x"})
	if err == nil {
		t.Fatal("expected validation failure")
	}
	msg := formatFormError(err)
	if strings.Contains(msg, ";") {
		t.Errorf("toast message must hold a single failure, got %q", msg)
	}
}
