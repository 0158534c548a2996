package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// TaskStatus represents the possible statuses of a task.
// The set mirrors the backend's canonical enum; the legacy UI label "TODO"
// is accepted on decode as an alias for PENDING.
type TaskStatus string

const (
	StatusPending    TaskStatus = "PENDING"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusDone       TaskStatus = "DONE"
	StatusBlocked    TaskStatus = "BLOCKED"
	StatusCancelled  TaskStatus = "CANCELLED"
)

// AllStatuses returns the closed set of valid statuses in display order.
func AllStatuses() []TaskStatus {
	return []TaskStatus{StatusPending, StatusInProgress, StatusDone, StatusBlocked, StatusCancelled}
}

// ParseStatus normalizes a wire or user-supplied status string.
// "TODO" maps to PENDING for compatibility with older payloads.
func ParseStatus(s string) (TaskStatus, error) {
	switch TaskStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case StatusPending, "TODO":
		return StatusPending, nil
	case StatusInProgress:
		return StatusInProgress, nil
	case StatusDone:
		return StatusDone, nil
	case StatusBlocked:
		return StatusBlocked, nil
	case StatusCancelled:
		return StatusCancelled, nil
	}
	return "", fmt.Errorf("unknown task status %q", s)
}

// TaskPriority represents the priority levels of a task.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "Low"
	PriorityMedium TaskPriority = "Medium"
	PriorityHigh   TaskPriority = "High"
)

// Task represents a single task record as held by the entity store.
//
// Completed is stored denormalized but is never set independently: every
// mutation path goes through Normalize, SetStatus or SetCompleted, which keep
// Completed == (Status == DONE) as an invariant.
type Task struct {
	ID          string       `json:"id" validate:"required"`
	Title       string       `json:"title" validate:"required,min=3,max=80"`
	Description string       `json:"description,omitempty" validate:"max=500"`
	DueDate     *time.Time   `json:"dueDate,omitempty"`
	Status      TaskStatus   `json:"status" validate:"required,oneof=PENDING IN_PROGRESS DONE BLOCKED CANCELLED"`
	Priority    TaskPriority `json:"priority,omitempty"`
	Completed   bool         `json:"completed"`
	CreatedAt   time.Time    `json:"createdAt,omitempty"`
	UpdatedAt   time.Time    `json:"updatedAt,omitempty"`
}

// Normalize re-derives the denormalized Completed flag from Status.
// It must be called after any write that may have changed Status.
func (t *Task) Normalize() {
	t.Completed = t.Status == StatusDone
}

// SetStatus updates the status and keeps Completed in sync.
func (t *Task) SetStatus(s TaskStatus) {
	t.Status = s
	t.Normalize()
}

// SetCompleted toggles the completed flag and keeps Status in sync:
// completing a task sets DONE, un-completing it falls back to PENDING.
func (t *Task) SetCompleted(done bool) {
	if done {
		t.Status = StatusDone
	} else {
		t.Status = StatusPending
	}
	t.Normalize()
}

// TaskForm carries the user-entered fields of the creation form.
// Validation rules match the original form: title 3-80 chars, description up
// to 500 chars, due date required, status from the closed enum.
type TaskForm struct {
	Title       string     `json:"title" validate:"required,min=3,max=80"`
	Description string     `json:"description" validate:"max=500"`
	DueDate     *time.Time `json:"dueDate" validate:"required"`
	Status      TaskStatus `json:"status" validate:"required,oneof=PENDING IN_PROGRESS DONE BLOCKED CANCELLED"`
	Priority    TaskPriority
}

// TaskPatch is a partial update: nil fields are left untouched when the
// patch is applied. It is used both for PATCH request bodies and for
// push update events that carry only changed fields.
type TaskPatch struct {
	Title       *string       `json:"title,omitempty"`
	Description *string       `json:"description,omitempty"`
	DueDate     *time.Time    `json:"dueDate,omitempty"`
	Status      *TaskStatus   `json:"status,omitempty"`
	Priority    *TaskPriority `json:"priority,omitempty"`
}

// Apply merges the patch into the task, preserving unspecified fields, and
// restores the completed/status invariant.
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.DueDate != nil {
		t.DueDate = p.DueDate
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	t.Normalize()
}

// IsEmpty reports whether the patch carries no fields at all.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.DueDate == nil && p.Status == nil && p.Priority == nil
}

// global validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ValidateStruct performs validation on any struct that has validation tags.
func ValidateStruct(s interface{}) error {
	if validate == nil {
		validate = validator.New()
	}
	err := validate.Struct(s)
	if err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		var errorMessages []string
		for _, e := range validationErrors {
			errorMessages = append(errorMessages, fmt.Sprintf("Validation failed on field '%s': rule '%s' (value: '%v')", e.StructNamespace(), e.Tag(), e.Value()))
		}
		return fmt.Errorf("%s", strings.Join(errorMessages, "; "))
	}
	return nil
}
