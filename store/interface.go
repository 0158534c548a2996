package store

import "github.com/josephgoksu/taskdeck/models"

// TaskStore defines the contract for the in-memory entity store shared by
// the fetch coordinator and the push channel manager. Both may write
// concurrently; the store serializes individual mutations and the last
// write observed wins. No revision token exists to reject stale writes.
type TaskStore interface {
	// ReplaceAll discards all prior contents and installs the given set.
	// Called after each successful list fetch. It never fails.
	ReplaceAll(tasks []models.Task)

	// Upsert installs the record as-is, fully replacing any record with the
	// same id. Used when the source is a complete record (confirmed
	// create/update responses, full push payloads).
	Upsert(task models.Task)

	// ApplyPatch merges a partial record into the stored record with the
	// given id, preserving unspecified fields. If no record exists the
	// patch is installed as a new record (a push update can arrive before
	// the create was observed locally).
	ApplyPatch(id string, patch models.TaskPatch)

	// Remove deletes the record if present; removing an absent id is a
	// no-op, not an error.
	Remove(id string)

	// Get returns a copy of the record with the given id.
	Get(id string) (models.Task, bool)

	// List returns a copy of all records. Order is not meaningful; callers
	// sort through the view stage.
	List() []models.Task

	// Len returns the number of records currently held.
	Len() int

	// Changes returns a coalesced notification channel that receives a
	// signal after mutations. Intended for a single UI consumer.
	Changes() <-chan struct{}
}
