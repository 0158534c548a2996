package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/taskdeck/internal/logger"
	"github.com/josephgoksu/taskdeck/internal/telemetry"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream board changes to the terminal",
	Long: `Subscribe to the push channel and print the board every time it
changes, until interrupted. Reconnects with exponential backoff and gives
up after the configured number of consecutive failures.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.SetCommand("watch")
		start := time.Now()
		err := runWatch(cmd)
		trackCommand("watch", start, err)
		return err
	},
}

func runWatch(cmd *cobra.Command) error {
	sess := newSession()
	defer sess.Coordinator.Close()
	defer sess.Push.Disconnect()

	if err := fetchTasks(sess); err != nil {
		return err
	}

	sess.Push.Connect()
	getTelemetry().Track(telemetry.EventPushConnected, nil)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	printBoardSnapshot(sess)

	changes := sess.Store.Changes()
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			fmt.Println("\nStopped watching.")
			return nil
		case <-changes:
			printBoardSnapshot(sess)
		case <-ticker.C:
			// A backoff wait is fine; a spent retry budget is not.
			if sess.Push.GaveUp() {
				getTelemetry().Track(telemetry.EventPushGaveUp, nil)
				return fmt.Errorf("push channel gave up after repeated failures; run watch again to reconnect")
			}
		}
	}
}

func printBoardSnapshot(sess *session) {
	tasks := sess.Store.List()
	fmt.Printf("\n[%s] %d tasks (push: %s)\n", time.Now().Format("15:04:05"), len(tasks), sess.Push.State())
	for _, t := range tasks {
		mark := " "
		if t.Completed {
			mark = "x"
		}
		fmt.Printf("  [%s] %-40s %s\n", mark, t.Title, t.Status)
	}
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
