package coordinator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/josephgoksu/taskdeck/internal/api"
	"github.com/josephgoksu/taskdeck/models"
	"github.com/josephgoksu/taskdeck/store"
)

// fakeBackend scripts responses per operation.
type fakeBackend struct {
	listTasks  []models.Task
	listErr    error
	createTask models.Task
	createErr  error
	updateTask models.Task
	updateErr  error
	deleteErr  error

	updatedID    string
	updatedPatch models.TaskPatch
}

func (f *fakeBackend) ListTasks(ctx context.Context) ([]models.Task, error) {
	return f.listTasks, f.listErr
}

func (f *fakeBackend) CreateTask(ctx context.Context, form models.TaskForm) (models.Task, error) {
	return f.createTask, f.createErr
}

func (f *fakeBackend) UpdateTask(ctx context.Context, id string, patch models.TaskPatch) (models.Task, error) {
	f.updatedID = id
	f.updatedPatch = patch
	return f.updateTask, f.updateErr
}

func (f *fakeBackend) DeleteTask(ctx context.Context, id string) error {
	return f.deleteErr
}

func validForm() models.TaskForm {
	due := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	return models.TaskForm{Title: "A valid task title", DueDate: &due, Status: models.StatusPending}
}

func confirmed(id, title string, status models.TaskStatus) models.Task {
	t := models.Task{ID: id, Title: title, Status: status}
	t.Normalize()
	return t
}

func TestFetch_ReplacesStoreOnSuccess(t *testing.T) {
	s := store.NewMemoryTaskStore()
	s.Upsert(confirmed("stale", "Stale entry", models.StatusPending))

	backend := &fakeBackend{listTasks: []models.Task{
		confirmed("1", "Fetched one", models.StatusPending),
		confirmed("2", "Fetched two", models.StatusDone),
	}}
	c := New(backend, s)

	if err := c.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if s.Len() != 2 {
		t.Errorf("store should hold exactly the fetched set, len=%d", s.Len())
	}
	if _, ok := s.Get("stale"); ok {
		t.Error("stale record should be gone after fetch")
	}
	if st := c.Snapshot(); st.Loading || st.Err != "" {
		t.Errorf("clean snapshot expected, got %+v", st)
	}
}

func TestFetch_FailureLeavesStoreAndSetsError(t *testing.T) {
	s := store.NewMemoryTaskStore()
	s.Upsert(confirmed("keep", "Keep me", models.StatusPending))

	backend := &fakeBackend{listErr: &api.RequestError{StatusCode: 500, Message: "Database unavailable"}}
	c := New(backend, s)

	if err := c.Fetch(context.Background()); err == nil {
		t.Fatal("expected fetch error")
	}
	if s.Len() != 1 {
		t.Error("failed fetch must leave the store untouched")
	}
	st := c.Snapshot()
	if st.Loading {
		t.Error("loading must clear on failure")
	}
	if st.Err != "Database unavailable" {
		t.Errorf("error message = %q", st.Err)
	}
}

func TestCreate_FailureWith500SurfacesFallback(t *testing.T) {
	s := store.NewMemoryTaskStore()
	backend := &fakeBackend{createErr: errors.New("connection reset")}
	c := New(backend, s)

	if err := c.Create(context.Background(), validForm()); err == nil {
		t.Fatal("expected create error")
	}
	if s.Len() != 0 {
		t.Error("failed create must not touch the store")
	}
	if st := c.Snapshot(); st.Err != "Failed to create task" {
		t.Errorf("fallback message expected, got %q", st.Err)
	}
}

func TestCreate_AppliesConfirmedRecordOnly(t *testing.T) {
	s := store.NewMemoryTaskStore()
	backend := &fakeBackend{createTask: confirmed("server-id", "A valid task title", models.StatusPending)}
	c := New(backend, s)

	if err := c.Create(context.Background(), validForm()); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	got, ok := s.Get("server-id")
	if !ok {
		t.Fatal("confirmed record should be in store under the server id")
	}
	if got.Title != "A valid task title" {
		t.Errorf("unexpected stored record: %+v", got)
	}
}

func TestCreate_RejectsInvalidFormWithoutCalling(t *testing.T) {
	s := store.NewMemoryTaskStore()
	c := New(&fakeBackend{}, s)

	err := c.Create(context.Background(), models.TaskForm{Title: "x"})
	if err == nil {
		t.Fatal("invalid form must fail validation")
	}
	if st := c.Snapshot(); st.Loading {
		t.Error("validation failure must not mark loading")
	}
}

func TestUpdate_ReplacesRecordWithConfirmedResponse(t *testing.T) {
	s := store.NewMemoryTaskStore()
	s.Upsert(confirmed("7", "Before update", models.StatusPending))

	backend := &fakeBackend{updateTask: confirmed("7", "After update", models.StatusInProgress)}
	c := New(backend, s)

	title := "After update"
	if err := c.Update(context.Background(), "7", models.TaskPatch{Title: &title}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	got, _ := s.Get("7")
	if got.Title != "After update" || got.Status != models.StatusInProgress {
		t.Errorf("store should hold the confirmed record, got %+v", got)
	}
	if backend.updatedID != "7" {
		t.Errorf("backend called with id %q", backend.updatedID)
	}
}

func TestToggleDone_RoundTripsThroughStatusPatch(t *testing.T) {
	s := store.NewMemoryTaskStore()
	s.Upsert(confirmed("5", "Toggle me", models.StatusPending))

	backend := &fakeBackend{updateTask: confirmed("5", "Toggle me", models.StatusDone)}
	c := New(backend, s)

	if err := c.ToggleDone(context.Background(), "5"); err != nil {
		t.Fatalf("ToggleDone failed: %v", err)
	}
	if backend.updatedPatch.Status == nil || *backend.updatedPatch.Status != models.StatusDone {
		t.Errorf("expected DONE status patch, got %+v", backend.updatedPatch)
	}
	got, _ := s.Get("5")
	if !got.Completed {
		t.Error("store should reflect the confirmed DONE record")
	}

	// Toggling a completed task goes back to PENDING.
	backend.updateTask = confirmed("5", "Toggle me", models.StatusPending)
	if err := c.ToggleDone(context.Background(), "5"); err != nil {
		t.Fatalf("second ToggleDone failed: %v", err)
	}
	if *backend.updatedPatch.Status != models.StatusPending {
		t.Errorf("un-completing should patch PENDING, got %q", *backend.updatedPatch.Status)
	}
}

func TestDelete_RemovesOnlyAfterConfirmation(t *testing.T) {
	s := store.NewMemoryTaskStore()
	s.Upsert(confirmed("9", "Delete me", models.StatusPending))

	backend := &fakeBackend{deleteErr: &api.RequestError{StatusCode: 500, Message: "Cannot delete"}}
	c := New(backend, s)

	if err := c.Delete(context.Background(), "9"); err == nil {
		t.Fatal("expected delete error")
	}
	if _, ok := s.Get("9"); !ok {
		t.Error("failed delete must leave the record in place")
	}

	backend.deleteErr = nil
	if err := c.Delete(context.Background(), "9"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok := s.Get("9"); ok {
		t.Error("confirmed delete must remove the record")
	}
}

func TestClose_DiscardsLateResults(t *testing.T) {
	s := store.NewMemoryTaskStore()
	backend := &fakeBackend{listTasks: []models.Task{confirmed("1", "Late arrival", models.StatusPending)}}
	c := New(backend, s)

	c.Close()
	if err := c.Fetch(context.Background()); err != nil {
		t.Fatalf("fetch after close should be a silent no-op, got %v", err)
	}
	if s.Len() != 0 {
		t.Error("closed coordinator must not write to the store")
	}
}
