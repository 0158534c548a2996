// Package coordinator drives backend CRUD and is one of the two writers
// into the task store. The store is mutated only after the backend confirms
// a mutation; there is no optimistic apply, no automatic retry.
package coordinator

import (
	"context"
	"sync"

	"github.com/josephgoksu/taskdeck/internal/api"
	"github.com/josephgoksu/taskdeck/models"
	"github.com/josephgoksu/taskdeck/store"
)

// Backend is the slice of the API client the coordinator needs. Tests
// substitute a fake.
type Backend interface {
	ListTasks(ctx context.Context) ([]models.Task, error)
	CreateTask(ctx context.Context, form models.TaskForm) (models.Task, error)
	UpdateTask(ctx context.Context, id string, patch models.TaskPatch) (models.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// State is a snapshot of the coordinator's user-visible request state.
type State struct {
	Loading bool
	Err     string
}

// Coordinator tracks loading/error state across CRUD calls and applies
// confirmed results to the store. After Close, results of in-flight calls
// are discarded so a torn-down view is never updated.
type Coordinator struct {
	backend Backend
	tasks   store.TaskStore

	mu      sync.Mutex
	loading bool
	err     string
	closed  bool
}

// New wires a coordinator to its backend and store.
func New(backend Backend, tasks store.TaskStore) *Coordinator {
	return &Coordinator{backend: backend, tasks: tasks}
}

// Snapshot returns the current loading/error state.
func (c *Coordinator) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{Loading: c.loading, Err: c.err}
}

// ClearError resets the user-visible error message.
func (c *Coordinator) ClearError() {
	c.mu.Lock()
	c.err = ""
	c.mu.Unlock()
}

// Close marks the coordinator torn down. Results from calls started before
// Close no longer touch the store or the state.
func (c *Coordinator) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

// Fetch loads the full task list and replaces the store contents on
// success. On failure the store is left untouched and the error message is
// surfaced.
func (c *Coordinator) Fetch(ctx context.Context) error {
	if !c.begin() {
		return nil
	}
	tasks, err := c.backend.ListTasks(ctx)
	return c.finish(err, "Failed to fetch tasks", func() {
		c.tasks.ReplaceAll(tasks)
	})
}

// Create submits the form and upserts the confirmed record.
func (c *Coordinator) Create(ctx context.Context, form models.TaskForm) error {
	if err := models.ValidateStruct(form); err != nil {
		return err
	}
	if !c.begin() {
		return nil
	}
	created, err := c.backend.CreateTask(ctx, form)
	return c.finish(err, "Failed to create task", func() {
		c.tasks.Upsert(created)
	})
}

// Update applies a partial update and replaces the local record with the
// confirmed response in full.
func (c *Coordinator) Update(ctx context.Context, id string, patch models.TaskPatch) error {
	if !c.begin() {
		return nil
	}
	updated, err := c.backend.UpdateTask(ctx, id, patch)
	return c.finish(err, "Failed to update task", func() {
		c.tasks.Upsert(updated)
	})
}

// ToggleDone flips a task's completed flag through a status PATCH, keeping
// the completed/status invariant on the round trip.
func (c *Coordinator) ToggleDone(ctx context.Context, id string) error {
	task, ok := c.tasks.Get(id)
	if !ok {
		return nil
	}
	status := models.StatusDone
	if task.Completed {
		status = models.StatusPending
	}
	return c.Update(ctx, id, models.TaskPatch{Status: &status})
}

// Delete removes the record locally only after the backend confirms.
func (c *Coordinator) Delete(ctx context.Context, id string) error {
	if !c.begin() {
		return nil
	}
	err := c.backend.DeleteTask(ctx, id)
	return c.finish(err, "Failed to delete task", func() {
		c.tasks.Remove(id)
	})
}

// begin marks a request in flight and clears the previous error. It returns
// false when the coordinator is already closed.
func (c *Coordinator) begin() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	c.loading = true
	c.err = ""
	return true
}

// finish applies the success mutation or records the failure message, and
// always clears the loading flag. A coordinator closed mid-flight discards
// the result entirely.
func (c *Coordinator) finish(err error, fallback string, apply func()) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return err
	}
	c.loading = false
	if err != nil {
		c.err = api.UserMessage(err, fallback)
		c.mu.Unlock()
		return err
	}
	c.err = ""
	c.mu.Unlock()
	apply()
	return nil
}
