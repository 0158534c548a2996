package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrUnauthorized is returned on a 401. The client clears the stored token
// before returning it; callers surface a login-required message.
var ErrUnauthorized = errors.New("authentication required")

// ErrNotFound is returned when an update or delete targets an id the
// backend no longer knows.
var ErrNotFound = errors.New("task not found")

// errorResponse mirrors the backend's structured error payload.
type errorResponse struct {
	Message   string `json:"message"`
	Error     string `json:"error"`
	Status    int    `json:"status"`
	Timestamp string `json:"timestamp"`
	Path      string `json:"path"`
}

// RequestError carries the backend's message for a non-2xx response so the
// coordinator can surface it to the user.
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// decodeError turns a non-2xx response into an error, preferring the
// structured payload's message field when one is present.
func decodeError(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, requestMessage(resp))
	}
	return &RequestError{StatusCode: resp.StatusCode, Message: requestMessage(resp)}
}

func requestMessage(resp *http.Response) string {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return ""
	}
	var payload errorResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Message
}

// UserMessage extracts a short user-facing message from an error, falling
// back to the given generic string when the error carries none.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var reqErr *RequestError
	if errors.As(err, &reqErr) && reqErr.Message != "" {
		return reqErr.Message
	}
	if errors.Is(err, ErrUnauthorized) {
		return "Session expired, please log in again"
	}
	if errors.Is(err, ErrNotFound) {
		return "Task no longer exists"
	}
	return fallback
}
