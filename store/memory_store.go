package store

import (
	"sync"

	"github.com/josephgoksu/taskdeck/models"
)

// MemoryTaskStore implements TaskStore with a mutex-guarded map. The store
// has process lifetime: it starts empty, is repopulated wholesale on each
// successful list fetch, and is never persisted.
type MemoryTaskStore struct {
	mu      sync.RWMutex
	tasks   map[string]models.Task
	changes chan struct{}
}

// NewMemoryTaskStore creates an empty store.
func NewMemoryTaskStore() *MemoryTaskStore {
	return &MemoryTaskStore{
		tasks:   make(map[string]models.Task),
		changes: make(chan struct{}, 1),
	}
}

// ReplaceAll discards prior contents and installs the given set. Records are
// normalized on the way in so the completed/status invariant holds no matter
// what the fetch returned.
func (s *MemoryTaskStore) ReplaceAll(tasks []models.Task) {
	s.mu.Lock()
	s.tasks = make(map[string]models.Task, len(tasks))
	for _, t := range tasks {
		t.Normalize()
		s.tasks[t.ID] = t
	}
	s.mu.Unlock()
	s.notify()
}

// Upsert fully replaces the record with the same id, or inserts it.
func (s *MemoryTaskStore) Upsert(task models.Task) {
	task.Normalize()
	s.mu.Lock()
	s.tasks[task.ID] = task
	s.mu.Unlock()
	s.notify()
}

// ApplyPatch merges a partial record into the stored one, preserving
// unspecified fields. An absent record is created from the patch so that a
// push update arriving before its create is not lost.
func (s *MemoryTaskStore) ApplyPatch(id string, patch models.TaskPatch) {
	if id == "" || patch.IsEmpty() {
		return
	}
	s.mu.Lock()
	task, ok := s.tasks[id]
	if !ok {
		task = models.Task{ID: id, Status: models.StatusPending}
	}
	patch.Apply(&task)
	s.tasks[id] = task
	s.mu.Unlock()
	s.notify()
}

// Remove deletes the record if present. Removing an absent id is a no-op.
func (s *MemoryTaskStore) Remove(id string) {
	s.mu.Lock()
	_, ok := s.tasks[id]
	if ok {
		delete(s.tasks, id)
	}
	s.mu.Unlock()
	if ok {
		s.notify()
	}
}

// Get returns a copy of the record with the given id.
func (s *MemoryTaskStore) Get(id string) (models.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	return t, ok
}

// List returns a copy of all records in unspecified order.
func (s *MemoryTaskStore) List() []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, t)
	}
	return out
}

// Len returns the number of records currently held.
func (s *MemoryTaskStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// Changes returns the coalesced change-notification channel.
func (s *MemoryTaskStore) Changes() <-chan struct{} {
	return s.changes
}

// notify signals the change channel without blocking; pending signals
// coalesce into one.
func (s *MemoryTaskStore) notify() {
	select {
	case s.changes <- struct{}{}:
	default:
	}
}
