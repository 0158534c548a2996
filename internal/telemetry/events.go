package telemetry

import "fmt"

// Event names tracked by taskdeck. Only command names and counts are
// recorded; task titles and descriptions never leave the machine.
const (
	EventCommandExecuted = "command_executed"
	EventCommandError    = "command_error"
	EventBoardOpened     = "board_opened"
	EventPushConnected   = "push_connected"
	EventPushGaveUp      = "push_gave_up"
)

// CommandProps builds the standard property set for a command event.
func CommandProps(command string, durationMs int64, success bool) Properties {
	return Properties{
		"command":     command,
		"duration_ms": durationMs,
		"success":     success,
	}
}

// ErrorProps builds the property set for a command error event. Only the
// error's Go type is recorded; messages may contain task content or paths.
func ErrorProps(command string, err error) Properties {
	return Properties{
		"command":    command,
		"error_type": fmt.Sprintf("%T", err),
	}
}
