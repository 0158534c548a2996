package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestTaskForm_ValidateStruct(t *testing.T) {
	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		form    TaskForm
		wantErr bool
	}{
		{
			name: "valid form",
			form: TaskForm{
				Title:   "Ship the release notes",
				DueDate: &due,
				Status:  StatusPending,
			},
			wantErr: false,
		},
		{
			name: "empty title",
			form: TaskForm{
				Title:   "",
				DueDate: &due,
				Status:  StatusPending,
			},
			wantErr: true,
		},
		{
			name: "title too short",
			form: TaskForm{
				Title:   "ab",
				DueDate: &due,
				Status:  StatusPending,
			},
			wantErr: true,
		},
		{
			name: "title too long",
			form: TaskForm{
				Title:   strings.Repeat("x", 81),
				DueDate: &due,
				Status:  StatusPending,
			},
			wantErr: true,
		},
		{
			name: "missing due date",
			form: TaskForm{
				Title:  "Ship the release notes",
				Status: StatusPending,
			},
			wantErr: true,
		},
		{
			name: "status outside enum",
			form: TaskForm{
				Title:   "Ship the release notes",
				DueDate: &due,
				Status:  TaskStatus("SOMEDAY"),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.form)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateStruct() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    TaskStatus
		wantErr bool
	}{
		{"PENDING", StatusPending, false},
		{"TODO", StatusPending, false},
		{"todo", StatusPending, false},
		{" in_progress ", StatusInProgress, false},
		{"DONE", StatusDone, false},
		{"BLOCKED", StatusBlocked, false},
		{"CANCELLED", StatusCancelled, false},
		{"bogus", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseStatus(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseStatus(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseStatus(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTask_CompletedInvariant(t *testing.T) {
	task := Task{ID: "1", Title: "Check invariants", Status: StatusPending}
	task.Normalize()
	if task.Completed {
		t.Error("pending task should not be completed")
	}

	task.SetStatus(StatusDone)
	if !task.Completed {
		t.Error("SetStatus(DONE) must set Completed")
	}

	task.SetCompleted(false)
	if task.Status != StatusPending {
		t.Errorf("un-completing should fall back to PENDING, got %q", task.Status)
	}
	if task.Completed {
		t.Error("un-completed task must not report Completed")
	}

	task.SetCompleted(true)
	if task.Status != StatusDone || !task.Completed {
		t.Errorf("SetCompleted(true) must yield DONE/completed, got %q/%v", task.Status, task.Completed)
	}
}

func TestTaskPatch_Apply(t *testing.T) {
	due := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	task := Task{
		ID:          "7",
		Title:       "Original title",
		Description: "Original description",
		Status:      StatusPending,
		Priority:    PriorityMedium,
	}
	task.Normalize()

	newTitle := "Patched title"
	doneStatus := StatusDone
	patch := TaskPatch{Title: &newTitle, Status: &doneStatus, DueDate: &due}
	patch.Apply(&task)

	if task.Title != newTitle {
		t.Errorf("title not patched: %q", task.Title)
	}
	if task.Description != "Original description" {
		t.Error("untouched field must be preserved")
	}
	if task.Priority != PriorityMedium {
		t.Error("untouched priority must be preserved")
	}
	if task.DueDate == nil || !task.DueDate.Equal(due) {
		t.Errorf("due date not patched: %v", task.DueDate)
	}
	if !task.Completed {
		t.Error("patching status to DONE must re-derive Completed")
	}

	if !(TaskPatch{}).IsEmpty() {
		t.Error("zero patch should be empty")
	}
	if patch.IsEmpty() {
		t.Error("populated patch should not be empty")
	}
}

func TestEnvelope_Parse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
		want    string
	}{
		{"task created", `{"type":"TASK_CREATED","task":{"id":"1","title":"Write docs","description":"","status":"PENDING"}}`, false, EventTaskCreated},
		{"task deleted", `{"type":"TASK_DELETED","id":"5"}`, false, EventTaskDeleted},
		{"jira webhook", `{"type":"JIRA_ISSUE_UPDATED"}`, false, EventJiraIssueUpdated},
		{"missing type", `{"id":"5"}`, true, ""},
		{"malformed", `{"type":`, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := ParseEnvelope([]byte(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseEnvelope() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && env.Type != tt.want {
				t.Errorf("type = %q, want %q", env.Type, tt.want)
			}
		})
	}
}

func TestEnvelope_DecodeTaskNormalizes(t *testing.T) {
	env, err := ParseEnvelope([]byte(`{"type":"TASK_CREATED","task":{"id":"9","title":"Close sprint","description":"","status":"DONE","completed":false}}`))
	if err != nil {
		t.Fatalf("ParseEnvelope() failed: %v", err)
	}
	task, err := env.DecodeTask()
	if err != nil {
		t.Fatalf("DecodeTask() failed: %v", err)
	}
	if !task.Completed {
		t.Error("decoded DONE task must have Completed re-derived to true")
	}
}

func TestEnvelope_DecodePatch(t *testing.T) {
	env, err := ParseEnvelope([]byte(`{"type":"TASK_UPDATED","task":{"id":"3","status":"IN_PROGRESS"}}`))
	if err != nil {
		t.Fatalf("ParseEnvelope() failed: %v", err)
	}
	if env.IsFullRecord() {
		t.Error("partial payload must not be treated as a full record")
	}
	id, patch, err := env.DecodePatch()
	if err != nil {
		t.Fatalf("DecodePatch() failed: %v", err)
	}
	if id != "3" {
		t.Errorf("id = %q, want 3", id)
	}
	if patch.Status == nil || *patch.Status != StatusInProgress {
		t.Errorf("patch status = %v", patch.Status)
	}
	if patch.Title != nil {
		t.Error("absent fields must decode as nil")
	}
}

func TestEnvelope_IsFullRecord(t *testing.T) {
	full := Envelope{Type: EventTaskUpdated, Task: json.RawMessage(`{"id":"1","title":"t","description":"","status":"PENDING"}`)}
	if !full.IsFullRecord() {
		t.Error("payload with all canonical fields should be full")
	}
	partial := Envelope{Type: EventTaskUpdated, Task: json.RawMessage(`{"id":"1","status":"DONE"}`)}
	if partial.IsFullRecord() {
		t.Error("payload missing fields should not be full")
	}
}
