// Package view derives the filtered, sorted projection of the task store
// that the board and list command render. It is a pure function of a store
// snapshot and a filter config; it never mutates its input.
package view

import (
	"sort"
	"strings"
	"time"

	"github.com/josephgoksu/taskdeck/models"
)

// SortField selects the comparator used to order the projection.
type SortField string

const (
	SortByTitle     SortField = "title"
	SortByDueDate   SortField = "dueDate"
	SortByStatus    SortField = "status"
	SortByCreatedAt SortField = "createdAt"
)

// SortOrder flips comparator polarity.
type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// Filters is the ephemeral filter/sort configuration. The zero value means
// "show everything, newest first" to match the original default.
type Filters struct {
	Search    string
	Status    *models.TaskStatus
	SortField SortField
	SortOrder SortOrder
}

// DefaultFilters returns the configuration the board starts with.
func DefaultFilters() Filters {
	return Filters{SortField: SortByCreatedAt, SortOrder: Descending}
}

// Matches reports whether a single task passes the search and status
// predicates. Search is a case-insensitive substring match on title or
// description; empty search matches all. Both predicates are ANDed.
func (f Filters) Matches(t models.Task) bool {
	if f.Status != nil && t.Status != *f.Status {
		return false
	}
	if f.Search == "" {
		return true
	}
	needle := strings.ToLower(f.Search)
	return strings.Contains(strings.ToLower(t.Title), needle) ||
		strings.Contains(strings.ToLower(t.Description), needle)
}

// Apply returns a new slice holding the tasks that pass the filters, stably
// sorted by the configured field and order. The input slice is left intact.
func Apply(tasks []models.Task, f Filters) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Matches(t) {
			out = append(out, t)
		}
	}

	field := f.SortField
	if field == "" {
		field = SortByCreatedAt
	}
	less := comparator(field)
	if f.SortOrder == Descending {
		inner := less
		less = func(a, b models.Task) bool { return inner(b, a) }
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func comparator(field SortField) func(a, b models.Task) bool {
	switch field {
	case SortByTitle:
		return func(a, b models.Task) bool {
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		}
	case SortByStatus:
		return func(a, b models.Task) bool { return a.Status < b.Status }
	case SortByDueDate:
		return func(a, b models.Task) bool {
			return dateOrZero(a.DueDate).Before(dateOrZero(b.DueDate))
		}
	default: // SortByCreatedAt
		return func(a, b models.Task) bool { return a.CreatedAt.Before(b.CreatedAt) }
	}
}

// dateOrZero maps a missing due date to epoch zero so undated tasks sort
// earliest, matching the original comparator.
func dateOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
