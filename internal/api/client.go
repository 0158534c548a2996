// Package api implements the HTTP client for the task middleware backend:
// CRUD on /api/issues plus the integration status endpoint. Bearer auth is
// attached from the token store when a token is present; a 401 clears the
// stored token. Every call is bounded by the client timeout.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/josephgoksu/taskdeck/models"
)

// DefaultTimeout bounds every request; a timeout surfaces through the same
// failure path as any other transport error.
const DefaultTimeout = 10 * time.Second

// Client talks to the middleware backend. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  *TokenStore
}

// NewClient builds a client for the given base URL. A nil token store means
// requests go out unauthenticated. A zero timeout falls back to the default.
func NewClient(baseURL string, timeout time.Duration, tokens *TokenStore) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
	}
}

// ListTasks fetches the full task collection.
func (c *Client) ListTasks(ctx context.Context) ([]models.Task, error) {
	var dtos []issueDTO
	if err := c.do(ctx, http.MethodGet, "/api/issues", nil, &dtos); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	tasks := make([]models.Task, 0, len(dtos))
	for _, d := range dtos {
		tasks = append(tasks, d.toModel())
	}
	return tasks, nil
}

// CreateTask submits the creation form and returns the confirmed record.
func (c *Client) CreateTask(ctx context.Context, form models.TaskForm) (models.Task, error) {
	var dto issueDTO
	if err := c.do(ctx, http.MethodPost, "/api/issues", formToRequest(form), &dto); err != nil {
		return models.Task{}, fmt.Errorf("create task: %w", err)
	}
	return dto.toModel(), nil
}

// UpdateTask applies a partial update and returns the confirmed record.
func (c *Client) UpdateTask(ctx context.Context, id string, patch models.TaskPatch) (models.Task, error) {
	var dto issueDTO
	path := "/api/issues/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodPatch, path, patchToRequest(patch), &dto); err != nil {
		return models.Task{}, fmt.Errorf("update task %s: %w", id, err)
	}
	return dto.toModel(), nil
}

// DeleteTask removes a record. The backend replies with a success status
// and no body.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	path := "/api/issues/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	return nil
}

// Integration fetches the upstream issue-tracker link status.
func (c *Client) Integration(ctx context.Context) (IntegrationStatus, error) {
	var status IntegrationStatus
	if err := c.do(ctx, http.MethodGet, "/api/integration", nil, &status); err != nil {
		return IntegrationStatus{}, fmt.Errorf("integration status: %w", err)
	}
	return status, nil
}

// do issues one request. A 401 clears the stored token before the error is
// returned, mirroring the original client's response interceptor.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.tokens != nil {
		if token := c.tokens.Load(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := decodeError(resp)
		if resp.StatusCode == http.StatusUnauthorized && c.tokens != nil {
			_ = c.tokens.Clear()
		}
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}
