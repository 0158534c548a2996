package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/josephgoksu/taskdeck/internal/api"
	"github.com/josephgoksu/taskdeck/internal/config"
	"github.com/josephgoksu/taskdeck/internal/coordinator"
	"github.com/josephgoksu/taskdeck/internal/push"
	"github.com/josephgoksu/taskdeck/internal/telemetry"
	"github.com/josephgoksu/taskdeck/models"
	"github.com/josephgoksu/taskdeck/store"
)

func isJSON() bool {
	return viper.GetBool("json")
}

func isVerbose() bool {
	return viper.GetBool("verbose")
}

func printJSON(v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(output))
	return nil
}

func confirmOrAbort(prompt string) bool {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	response, _ := reader.ReadString('\n')
	response = strings.TrimSpace(strings.ToLower(response))
	if response != "y" && response != "yes" {
		fmt.Println("Cancelled.")
		return false
	}
	return true
}

// newTokenStore opens the bearer-token store at its configured location.
func newTokenStore() *api.TokenStore {
	return api.NewTokenStore(afero.NewOsFs(), config.GetTokenFilePath())
}

// newBackendClient builds the HTTP client from the loaded configuration.
func newBackendClient() *api.Client {
	cfg := GetConfig()
	timeout := time.Duration(cfg.API.TimeoutSeconds) * time.Second
	return api.NewClient(cfg.API.BaseURL, timeout, newTokenStore())
}

// session bundles the wired store, coordinator and push manager a command
// needs. Push is only dialed when the caller connects it.
type session struct {
	Store       *store.MemoryTaskStore
	Coordinator *coordinator.Coordinator
	Push        *push.Manager
}

// newSession wires the full client stack: store, CRUD coordinator and push
// manager, with the manager's refetch pointing back at the coordinator.
func newSession() *session {
	cfg := GetConfig()
	s := store.NewMemoryTaskStore()
	coord := coordinator.New(newBackendClient(), s)

	var logf func(string, ...any)
	if isVerbose() {
		logf = func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}
	}

	mgr := push.NewManager(s, push.Options{
		URL:         cfg.WS.URL,
		Transport:   push.NewWebSocketTransport(),
		BaseDelay:   time.Duration(cfg.WS.ReconnectBaseDelayMillis) * time.Millisecond,
		MaxAttempts: cfg.WS.MaxReconnectAttempts,
		Refetch: func() {
			_ = coord.Fetch(context.Background())
		},
		Logf: logf,
	})

	return &session{Store: s, Coordinator: coord, Push: mgr}
}

// fetchTasks loads the board once and surfaces the coordinator's
// user-facing message on failure.
func fetchTasks(sess *session) error {
	if err := sess.Coordinator.Fetch(context.Background()); err != nil {
		return opError(sess, err)
	}
	return nil
}

// opError prefixes a failed coordinator call with its user-facing message.
// Validation failures never reach the coordinator state and pass through.
func opError(sess *session, err error) error {
	if msg := sess.Coordinator.Snapshot().Err; msg != "" {
		return fmt.Errorf("%s: %w", msg, err)
	}
	return err
}

// resolveTaskID expands a full or prefix task ID against the store. List
// output truncates IDs, so prefixes are the common case.
func resolveTaskID(s store.TaskStore, idOrPrefix string) (string, error) {
	if _, ok := s.Get(idOrPrefix); ok {
		return idOrPrefix, nil
	}
	var matches []string
	for _, t := range s.List() {
		if strings.HasPrefix(t.ID, idOrPrefix) {
			matches = append(matches, t.ID)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", fmt.Errorf("no task found with ID %q", idOrPrefix)
	default:
		return "", fmt.Errorf("ID %q is ambiguous (%d matches)", idOrPrefix, len(matches))
	}
}

// parseDueDate parses the YYYY-MM-DD flag value.
func parseDueDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	due, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, fmt.Errorf("due date must be YYYY-MM-DD, got %q", raw)
	}
	return &due, nil
}

// parseStatusFlag parses the --status flag value, accepting any case.
func parseStatusFlag(raw string) (*models.TaskStatus, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	status, err := models.ParseStatus(raw)
	if err != nil {
		return nil, fmt.Errorf("%w (valid: %s)", err, statusList())
	}
	return &status, nil
}

func statusList() string {
	all := models.AllStatuses()
	parts := make([]string, len(all))
	for i, s := range all {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}

// Telemetry is initialized lazily so commands that fail config loading
// never touch it.
var (
	telemetryOnce   sync.Once
	telemetryClient telemetry.Client = telemetry.NewNoopClient()
)

// getTelemetry activates the PostHog client only when an API key is
// configured, the telemetry.enabled kill-switch is on and the user opted in
// through `taskdeck telemetry enable`. Anything else stays a no-op.
func getTelemetry() telemetry.Client {
	telemetryOnce.Do(func() {
		cfg := GetConfig()
		if !cfg.Telemetry.Enabled || cfg.Telemetry.APIKey == "" {
			return
		}
		tcfg, err := telemetry.Load()
		if err != nil {
			LogError("telemetry config load failed", err)
			return
		}
		if !tcfg.IsEnabled() {
			return
		}
		client, err := telemetry.NewPostHogClient(telemetry.ClientConfig{
			APIKey:  cfg.Telemetry.APIKey,
			Version: version,
			Config:  tcfg,
		})
		if err != nil {
			LogError("telemetry client init failed", err)
			return
		}
		telemetryClient = client
	})
	return telemetryClient
}

// trackCommand records one command execution and flushes the queue. A
// failed command additionally emits an error event carrying only the error's
// type, never its message.
func trackCommand(name string, start time.Time, err error) {
	client := getTelemetry()
	client.Track(telemetry.EventCommandExecuted,
		telemetry.CommandProps(name, time.Since(start).Milliseconds(), err == nil))
	if err != nil {
		client.Track(telemetry.EventCommandError, telemetry.ErrorProps(name, err))
	}
	_ = client.Close()
}
