package cmd

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/josephgoksu/taskdeck/internal/logger"
	"github.com/josephgoksu/taskdeck/internal/telemetry"
	"github.com/josephgoksu/taskdeck/internal/ui"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Open the interactive task board",
	Long: `Open the full-screen task board. The board fetches the current list,
subscribes to the push channel and reflects every change live, whether it
came from you, a teammate or the upstream issue tracker.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBoard(cmd)
	},
}

func runBoard(cmd *cobra.Command) error {
	logger.SetCommand("board")
	start := time.Now()

	sess := newSession()
	defer sess.Push.Disconnect()
	defer sess.Coordinator.Close()

	getTelemetry().Track(telemetry.EventBoardOpened, nil)

	model := ui.NewBoardModel(ui.BoardOptions{
		Coordinator: sess.Coordinator,
		Store:       sess.Store,
		Push:        sess.Push,
		Version:     version,
		Integration: integrationBadge(),
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	trackCommand("board", start, err)
	if err != nil {
		return fmt.Errorf("board: %w", err)
	}
	return nil
}

// integrationBadge fetches the upstream-tracker link state for the board
// header. Best effort: an unreachable endpoint just hides the badge.
func integrationBadge() string {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	status, err := newBackendClient().Integration(ctx)
	if err != nil || status.Provider == "" {
		LogError("integration status unavailable", err)
		return ""
	}
	if status.Connected {
		return status.Provider + " ✓"
	}
	return status.Provider + " ✗"
}

func init() {
	rootCmd.AddCommand(boardCmd)
}
