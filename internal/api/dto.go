package api

import (
	"time"

	"github.com/josephgoksu/taskdeck/models"
)

// issueDTO is the wire shape of a record on /api/issues:
// {id, title, description, dueDate, status, priority}. Dates travel as
// strings because the backend emits either full timestamps or bare calendar
// dates depending on the field's origin.
type issueDTO struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate,omitempty"`
	Status      string `json:"status"`
	Priority    string `json:"priority,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

// issueRequestDTO is the body of POST /api/issues and PATCH /api/issues/{id}.
type issueRequestDTO struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	DueDate     *string `json:"dueDate,omitempty"`
	Status      *string `json:"status,omitempty"`
	Priority    *string `json:"priority,omitempty"`
}

// dateLayouts are the accepted inbound date encodings, most specific first.
var dateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"}

func parseDate(s string) *time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	// Unparseable dates degrade to "no date"; the view stage sorts those
	// as epoch zero.
	return nil
}

func parseTimestamp(s string) time.Time {
	if t := parseDate(s); t != nil {
		return *t
	}
	return time.Time{}
}

// toModel translates a wire record into the local shape. The status string
// is normalized through ParseStatus (accepting the TODO alias) and the
// completed flag is re-derived, so the invariant holds on every inbound
// translation.
func (d issueDTO) toModel() models.Task {
	status, err := models.ParseStatus(d.Status)
	if err != nil {
		status = models.StatusPending
	}
	t := models.Task{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Status:      status,
		Priority:    models.TaskPriority(d.Priority),
		CreatedAt:   parseTimestamp(d.CreatedAt),
		UpdatedAt:   parseTimestamp(d.UpdatedAt),
	}
	if d.DueDate != "" {
		t.DueDate = parseDate(d.DueDate)
	}
	t.Normalize()
	return t
}

// formToRequest builds the creation body. Priority defaults to Medium as
// the original client did.
func formToRequest(form models.TaskForm) issueRequestDTO {
	priority := string(form.Priority)
	if priority == "" {
		priority = string(models.PriorityMedium)
	}
	status := string(form.Status)
	req := issueRequestDTO{
		Title:       &form.Title,
		Description: &form.Description,
		Status:      &status,
		Priority:    &priority,
	}
	if form.DueDate != nil {
		due := form.DueDate.Format(time.RFC3339)
		req.DueDate = &due
	}
	return req
}

// patchToRequest builds a partial update body carrying only the fields the
// patch sets.
func patchToRequest(patch models.TaskPatch) issueRequestDTO {
	var req issueRequestDTO
	req.Title = patch.Title
	req.Description = patch.Description
	if patch.DueDate != nil {
		due := patch.DueDate.Format(time.RFC3339)
		req.DueDate = &due
	}
	if patch.Status != nil {
		status := string(*patch.Status)
		req.Status = &status
	}
	if patch.Priority != nil {
		priority := string(*patch.Priority)
		req.Priority = &priority
	}
	return req
}

// IntegrationStatus is the payload of GET /api/integration, describing the
// upstream issue-tracker link.
type IntegrationStatus struct {
	Provider  string `json:"provider"`
	Connected bool   `json:"connected"`
	ProjectID string `json:"projectId,omitempty"`
}
