package store

import (
	"sort"
	"testing"

	"github.com/josephgoksu/taskdeck/models"
)

func newTask(id, title string, status models.TaskStatus) models.Task {
	t := models.Task{ID: id, Title: title, Status: status}
	t.Normalize()
	return t
}

func ids(tasks []models.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	sort.Strings(out)
	return out
}

func TestMemoryTaskStore_UpsertAndRemoveMembership(t *testing.T) {
	s := NewMemoryTaskStore()

	s.Upsert(newTask("1", "First task", models.StatusPending))
	s.Upsert(newTask("2", "Second task", models.StatusPending))
	s.Upsert(newTask("3", "Third task", models.StatusPending))

	if got := ids(s.List()); len(got) != 3 {
		t.Fatalf("expected 3 tasks, got %v", got)
	}

	s.Remove("2")
	got := ids(s.List())
	if len(got) != 2 || got[0] != "1" || got[1] != "3" {
		t.Fatalf("after Remove(2) expected [1 3], got %v", got)
	}

	// Removing an absent id is a no-op, not an error.
	s.Remove("2")
	if s.Len() != 2 {
		t.Fatalf("duplicate remove must not change membership, len=%d", s.Len())
	}

	s.Upsert(newTask("2", "Second again", models.StatusPending))
	got = ids(s.List())
	if len(got) != 3 || got[1] != "2" {
		t.Fatalf("after re-upsert expected [1 2 3], got %v", got)
	}
}

func TestMemoryTaskStore_UpsertReplacesNotDuplicates(t *testing.T) {
	s := NewMemoryTaskStore()
	s.Upsert(newTask("1", "Original", models.StatusPending))
	s.Upsert(newTask("1", "Replaced", models.StatusInProgress))

	if s.Len() != 1 {
		t.Fatalf("upsert must replace, not duplicate; len=%d", s.Len())
	}
	got, ok := s.Get("1")
	if !ok || got.Title != "Replaced" || got.Status != models.StatusInProgress {
		t.Fatalf("unexpected record after replace: %+v", got)
	}
}

func TestMemoryTaskStore_ReplaceAll(t *testing.T) {
	s := NewMemoryTaskStore()
	s.Upsert(newTask("old", "Stale record", models.StatusPending))

	s.ReplaceAll([]models.Task{
		newTask("a", "Fetched A", models.StatusPending),
		newTask("b", "Fetched B", models.StatusDone),
	})

	got := ids(s.List())
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("ReplaceAll must install exactly the fetched set, got %v", got)
	}
}

func TestMemoryTaskStore_CompletedInvariantOnEveryMutation(t *testing.T) {
	s := NewMemoryTaskStore()

	// Upsert with a payload that lies about the completed flag.
	lying := models.Task{ID: "1", Title: "Lying payload", Status: models.StatusDone, Completed: false}
	s.Upsert(lying)

	// ReplaceAll with another inconsistent record.
	inconsistent := models.Task{ID: "2", Title: "Also lying", Status: models.StatusPending, Completed: true}
	s.ReplaceAll([]models.Task{lying, inconsistent})

	// Patch a status change.
	done := models.StatusDone
	s.ApplyPatch("2", models.TaskPatch{Status: &done})

	for _, task := range s.List() {
		if task.Completed != (task.Status == models.StatusDone) {
			t.Errorf("invariant broken for %s: status=%q completed=%v", task.ID, task.Status, task.Completed)
		}
	}
}

func TestMemoryTaskStore_ApplyPatchMerges(t *testing.T) {
	s := NewMemoryTaskStore()
	full := newTask("1", "Keep my description", models.StatusPending)
	full.Description = "important details"
	full.Priority = models.PriorityHigh
	s.Upsert(full)

	title := "Patched title"
	s.ApplyPatch("1", models.TaskPatch{Title: &title})

	got, _ := s.Get("1")
	if got.Title != title {
		t.Errorf("title not merged: %q", got.Title)
	}
	if got.Description != "important details" || got.Priority != models.PriorityHigh {
		t.Errorf("merge must preserve untouched fields: %+v", got)
	}
}

func TestMemoryTaskStore_ApplyPatchInsertsWhenAbsent(t *testing.T) {
	s := NewMemoryTaskStore()
	title := "Arrived before create"
	status := models.StatusInProgress
	s.ApplyPatch("ghost", models.TaskPatch{Title: &title, Status: &status})

	got, ok := s.Get("ghost")
	if !ok {
		t.Fatal("patch for an unknown id should insert a record")
	}
	if got.Title != title || got.Status != status {
		t.Errorf("unexpected inserted record: %+v", got)
	}
}

func TestMemoryTaskStore_ApplyPatchIgnoresEmpty(t *testing.T) {
	s := NewMemoryTaskStore()
	s.ApplyPatch("1", models.TaskPatch{})
	if s.Len() != 0 {
		t.Error("empty patch must not create records")
	}
}

func TestMemoryTaskStore_ListReturnsCopies(t *testing.T) {
	s := NewMemoryTaskStore()
	s.Upsert(newTask("1", "Immutable from outside", models.StatusPending))

	list := s.List()
	list[0].Title = "mutated"

	got, _ := s.Get("1")
	if got.Title != "Immutable from outside" {
		t.Error("List must hand out copies, not shared state")
	}
}

func TestMemoryTaskStore_ChangeNotificationCoalesces(t *testing.T) {
	s := NewMemoryTaskStore()

	// Several writes with no reader must not block and must coalesce.
	for i := 0; i < 10; i++ {
		s.Upsert(newTask("1", "Busy writer", models.StatusPending))
	}

	select {
	case <-s.Changes():
	default:
		t.Fatal("expected a pending change signal")
	}
	select {
	case <-s.Changes():
		t.Fatal("signals should have coalesced into one")
	default:
	}
}
