// Package push maintains the subscription to the backend's change-event
// topic and is the second writer into the task store. It owns the
// reconnect/backoff policy: exponential backoff from a base delay, a
// bounded attempt budget, and a terminal disconnected state once the
// budget is spent.
package push

import (
	"context"
	"sync"
	"time"

	"github.com/josephgoksu/taskdeck/internal/logger"
	"github.com/josephgoksu/taskdeck/models"
	"github.com/josephgoksu/taskdeck/store"
)

// ConnState is the channel connection state.
type ConnState string

const (
	StateDisconnected ConnState = "DISCONNECTED"
	StateConnecting   ConnState = "CONNECTING"
	StateConnected    ConnState = "CONNECTED"
)

const (
	// DefaultBaseDelay is the first reconnect delay; it doubles per attempt.
	DefaultBaseDelay = 1 * time.Second

	// DefaultMaxAttempts is the consecutive-failure budget before the
	// manager stops retrying.
	DefaultMaxAttempts = 5
)

// Options configures a Manager.
type Options struct {
	URL         string
	Transport   Transport
	BaseDelay   time.Duration
	MaxAttempts int

	// Refetch is invoked for upstream webhook events whose payload shape
	// is not guaranteed; the caller wires it to a coordinator list fetch.
	Refetch func()

	// Logf receives diagnostic lines (dropped messages, retry scheduling).
	// Nil means silent.
	Logf func(format string, args ...any)
}

// Manager is the process-wide owner of the single channel connection. Only
// the manager opens or closes it; Connect on a live connection is a no-op.
type Manager struct {
	tasks     store.TaskStore
	transport Transport
	url       string
	baseDelay time.Duration
	maxTries  int
	refetch   func()
	logf      func(string, ...any)

	mu       sync.Mutex
	state    ConnState
	attempts int
	conn     Conn
	timer    *time.Timer
	gen      int
}

// NewManager builds a disconnected manager. Connect starts the channel.
func NewManager(tasks store.TaskStore, opts Options) *Manager {
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = DefaultBaseDelay
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	logf := opts.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}
	refetch := opts.Refetch
	if refetch == nil {
		refetch = func() {}
	}
	return &Manager{
		tasks:     tasks,
		transport: opts.Transport,
		url:       opts.URL,
		baseDelay: opts.BaseDelay,
		maxTries:  opts.MaxAttempts,
		refetch:   refetch,
		logf:      logf,
		state:     StateDisconnected,
	}
}

// State returns the current connection state.
func (m *Manager) State() ConnState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// GaveUp reports whether the manager spent its retry budget and went
// terminally disconnected. A backoff wait between attempts is not giving up.
func (m *Manager) GaveUp() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == StateDisconnected && m.attempts >= m.maxTries
}

// Connect moves DISCONNECTED to CONNECTING and dials. An explicit call
// resets the retry counter, so a manager that exhausted its budget can be
// resumed. Calling while connecting or connected is a no-op.
func (m *Manager) Connect() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateDisconnected {
		return
	}
	m.stopTimerLocked()
	m.attempts = 0
	m.dialLocked()
}

// Disconnect deactivates the transport, cancels any pending reconnect and
// resets the retry counter. It is idempotent and safe to call in any state.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gen++
	m.stopTimerLocked()
	if m.conn != nil {
		_ = m.conn.Close()
		m.conn = nil
	}
	m.attempts = 0
	m.state = StateDisconnected
}

func (m *Manager) stopTimerLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

// dialLocked transitions to CONNECTING and dials on a fresh goroutine.
func (m *Manager) dialLocked() {
	m.state = StateConnecting
	m.gen++
	gen := m.gen
	go m.dial(gen)
}

func (m *Manager) dial(gen int) {
	conn, err := m.transport.Dial(context.Background(), m.url)

	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen || m.state != StateConnecting {
		// Disconnect raced the dial; discard the result.
		if err == nil {
			_ = conn.Close()
		}
		return
	}
	if err != nil {
		m.logf("push: connect failed: %v", err)
		m.dropLocked()
		return
	}
	m.state = StateConnected
	m.attempts = 0
	m.conn = conn
	go m.readLoop(gen, conn)
}

func (m *Manager) readLoop(gen int, conn Conn) {
	for {
		data, err := conn.ReadMessage()
		if err != nil {
			m.mu.Lock()
			if gen == m.gen && m.state == StateConnected {
				m.logf("push: connection dropped: %v", err)
				m.conn = nil
				m.dropLocked()
			}
			m.mu.Unlock()
			return
		}
		m.handleMessage(data)
	}
}

// dropLocked handles a transport-level failure from CONNECTED or
// CONNECTING: back to DISCONNECTED, then a scheduled retry while budget
// remains. After maxTries consecutive failures the state is terminal until
// an explicit Connect.
func (m *Manager) dropLocked() {
	m.state = StateDisconnected
	m.attempts++
	if m.attempts >= m.maxTries {
		m.logf("push: giving up after %d failed attempts", m.attempts)
		return
	}
	delay := m.baseDelay << (m.attempts - 1)
	m.logf("push: reconnecting in %s (attempt %d/%d)", delay, m.attempts, m.maxTries)
	m.timer = time.AfterFunc(delay, m.retry)
}

// retry fires from the reconnect timer.
func (m *Manager) retry() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateDisconnected {
		return
	}
	m.timer = nil
	m.dialLocked()
}

// handleMessage dispatches one decoded envelope into store mutations. A
// malformed message is dropped and logged; the connection stays up.
func (m *Manager) handleMessage(data []byte) {
	env, err := models.ParseEnvelope(data)
	if err != nil {
		m.logf("push: dropping message: %v", err)
		return
	}
	logger.SetLastEvent(env.Type)

	switch env.Type {
	case models.EventTaskCreated:
		task, err := env.DecodeTask()
		if err != nil {
			m.logf("push: dropping %s: %v", env.Type, err)
			return
		}
		m.tasks.Upsert(task)

	case models.EventTaskUpdated:
		if env.IsFullRecord() {
			task, err := env.DecodeTask()
			if err != nil {
				m.logf("push: dropping %s: %v", env.Type, err)
				return
			}
			m.tasks.Upsert(task)
			return
		}
		id, patch, err := env.DecodePatch()
		if err != nil {
			m.logf("push: dropping %s: %v", env.Type, err)
			return
		}
		m.tasks.ApplyPatch(id, patch)

	case models.EventTaskDeleted:
		if env.ID == "" {
			m.logf("push: dropping %s without id", env.Type)
			return
		}
		m.tasks.Remove(env.ID)

	case models.EventJiraIssueCreated, models.EventJiraIssueUpdated, models.EventJiraIssueDeleted:
		// Upstream webhook payloads don't match the local record shape;
		// refetch instead of patching.
		go m.refetch()

	default:
		m.logf("push: ignoring unknown event type %q", env.Type)
	}
}
