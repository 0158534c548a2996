package telemetry

import (
	"runtime"
	"sync"
	"testing"

	"github.com/posthog/posthog-go"
)

// mockEnqueuer captures events for testing.
type mockEnqueuer struct {
	mu     sync.Mutex
	events []posthog.Capture
	closed bool
}

func (m *mockEnqueuer) Enqueue(msg posthog.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if capture, ok := msg.(posthog.Capture); ok {
		m.events = append(m.events, capture)
	}
	return nil
}

func (m *mockEnqueuer) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockEnqueuer) getEvents() []posthog.Capture {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]posthog.Capture, len(m.events))
	copy(result, m.events)
	return result
}

func (m *mockEnqueuer) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func newTestClient(cfg *Config, version string) (*PostHogClient, *mockEnqueuer) {
	mock := &mockEnqueuer{}
	client := newPostHogClientWithEnqueuer(mock, cfg, version)
	return client, mock
}

func TestPostHogClient_Track_WhenEnabled(t *testing.T) {
	cfg := &Config{
		Enabled:      true,
		ConsentAsked: true,
		AnonymousID:  "test-anon-id-123",
	}

	client, mock := newTestClient(cfg, "1.2.3")

	client.Track(EventCommandExecuted, CommandProps("list", 42, true))

	events := mock.getEvents()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}

	event := events[0]
	if event.Event != EventCommandExecuted {
		t.Errorf("event name = %q, want %q", event.Event, EventCommandExecuted)
	}
	if event.DistinctId != "test-anon-id-123" {
		t.Errorf("distinct_id = %q, want %q", event.DistinctId, "test-anon-id-123")
	}
	if event.Properties["command"] != "list" {
		t.Errorf("command = %v, want %q", event.Properties["command"], "list")
	}
	if event.Properties["success"] != true {
		t.Errorf("success = %v, want true", event.Properties["success"])
	}

	// Standard properties are always added.
	if event.Properties["os"] != runtime.GOOS {
		t.Errorf("os = %v, want %q", event.Properties["os"], runtime.GOOS)
	}
	if event.Properties["cli_version"] != "1.2.3" {
		t.Errorf("cli_version = %v, want %q", event.Properties["cli_version"], "1.2.3")
	}
}

func TestPostHogClient_Track_WhenDisabled(t *testing.T) {
	cfg := &Config{
		Enabled:      false,
		ConsentAsked: true,
		AnonymousID:  "test-anon-id-123",
	}

	client, mock := newTestClient(cfg, "1.2.3")
	client.Track(EventCommandExecuted, CommandProps("list", 1, true))

	if events := mock.getEvents(); len(events) != 0 {
		t.Errorf("expected 0 events when disabled, got %d", len(events))
	}
}

func TestPostHogClient_Track_NotInitialized(t *testing.T) {
	client := &PostHogClient{
		config:      &Config{Enabled: true},
		initialized: false,
	}

	// Must not panic.
	client.Track("test_event", nil)
}

func TestPostHogClient_Track_NilConfig(t *testing.T) {
	mock := &mockEnqueuer{}
	client := &PostHogClient{
		client:      mock,
		config:      nil,
		initialized: true,
	}

	client.Track("test_event", nil)

	if events := mock.getEvents(); len(events) != 0 {
		t.Errorf("expected 0 events with nil config, got %d", len(events))
	}
}

func TestPostHogClient_Close(t *testing.T) {
	cfg := &Config{Enabled: true, ConsentAsked: true, AnonymousID: "test-anon-id"}
	client, mock := newTestClient(cfg, "1.0.0")

	if err := client.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if !mock.isClosed() {
		t.Error("underlying client should be closed")
	}
}

func TestNoopClient(t *testing.T) {
	client := NewNoopClient()
	client.Track("event", Properties{"key": "value"})
	if err := client.Close(); err != nil {
		t.Errorf("NoopClient.Close() error = %v", err)
	}
}

func TestNewPostHogClient_EmptyAPIKey(t *testing.T) {
	client, err := NewPostHogClient(ClientConfig{
		APIKey:  "",
		Version: "1.0.0",
		Config:  &Config{Enabled: true},
	})
	if err != nil {
		t.Errorf("should not error with empty API key, got %v", err)
	}
	if client.initialized {
		t.Error("should not be initialized with empty API key")
	}

	// Track should be a no-op, not panic.
	client.Track("event", nil)
}

func TestPostHogClient_Track_Concurrent(t *testing.T) {
	cfg := &Config{Enabled: true, ConsentAsked: true, AnonymousID: "test-anon-id"}
	client, mock := newTestClient(cfg, "1.0.0")

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			client.Track("concurrent_event", Properties{"iteration": n})
		}(i)
	}
	wg.Wait()

	if events := mock.getEvents(); len(events) != 100 {
		t.Errorf("expected 100 events, got %d", len(events))
	}
}
