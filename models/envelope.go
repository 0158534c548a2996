package models

import (
	"encoding/json"
	"fmt"
)

// Event types carried on the push topic. TASK_* events originate from this
// backend and embed a task payload; JIRA_ISSUE_* events are relayed upstream
// webhooks whose payload shape is not guaranteed, so consumers refetch
// instead of patching locally.
const (
	EventTaskCreated      = "TASK_CREATED"
	EventTaskUpdated      = "TASK_UPDATED"
	EventTaskDeleted      = "TASK_DELETED"
	EventJiraIssueCreated = "JIRA_ISSUE_CREATED"
	EventJiraIssueUpdated = "JIRA_ISSUE_UPDATED"
	EventJiraIssueDeleted = "JIRA_ISSUE_DELETED"
)

// Envelope is the tagged wire message delivered over the push topic:
// {"type": string, "task"?: record, "id"?: string}.
//
// Task is kept raw so the consumer can decode it either as a full record
// (create events) or as a partial patch (update events).
type Envelope struct {
	Type string          `json:"type"`
	Task json.RawMessage `json:"task,omitempty"`
	ID   string          `json:"id,omitempty"`
}

// ParseEnvelope decodes a raw topic message. A decode failure means the
// single message is dropped by the caller; it never tears down the channel.
func ParseEnvelope(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("decode event envelope: %w", err)
	}
	if env.Type == "" {
		return Envelope{}, fmt.Errorf("event envelope missing type")
	}
	return env, nil
}

// DecodeTask decodes the embedded payload as a full task record.
func (e Envelope) DecodeTask() (Task, error) {
	var t Task
	if len(e.Task) == 0 {
		return Task{}, fmt.Errorf("%s event carries no task payload", e.Type)
	}
	if err := json.Unmarshal(e.Task, &t); err != nil {
		return Task{}, fmt.Errorf("decode task payload: %w", err)
	}
	t.Normalize()
	return t, nil
}

// DecodePatch decodes the embedded payload as a partial patch, together with
// the id of the record it targets. The id may live in the payload itself or
// on the envelope.
func (e Envelope) DecodePatch() (string, TaskPatch, error) {
	if len(e.Task) == 0 {
		return "", TaskPatch{}, fmt.Errorf("%s event carries no task payload", e.Type)
	}
	var withID struct {
		ID string `json:"id"`
		TaskPatch
	}
	if err := json.Unmarshal(e.Task, &withID); err != nil {
		return "", TaskPatch{}, fmt.Errorf("decode task patch: %w", err)
	}
	id := withID.ID
	if id == "" {
		id = e.ID
	}
	if id == "" {
		return "", TaskPatch{}, fmt.Errorf("%s event carries no task id", e.Type)
	}
	return id, withID.TaskPatch, nil
}

// IsFullRecord reports whether the embedded payload declares a complete
// record (all canonical fields present), in which case an update event is
// applied as a full replace rather than a merge.
func (e Envelope) IsFullRecord() bool {
	if len(e.Task) == 0 {
		return false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(e.Task, &fields); err != nil {
		return false
	}
	for _, key := range []string{"id", "title", "description", "status"} {
		if _, ok := fields[key]; !ok {
			return false
		}
	}
	return true
}
