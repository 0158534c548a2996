package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/taskdeck/internal/logger"
)

var doneCmd = &cobra.Command{
	Use:   "done <task-id>",
	Short: "Toggle a task's completed state",
	Long: `Mark a task DONE, or set a completed task back to PENDING. The status
and completed flag always move together.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.SetCommand("done")
		start := time.Now()
		err := runDone(args)
		trackCommand("done", start, err)
		return err
	},
}

func runDone(args []string) error {
	sess := newSession()
	defer sess.Coordinator.Close()

	if err := fetchTasks(sess); err != nil {
		return err
	}
	id, err := resolveTaskID(sess.Store, args[0])
	if err != nil {
		return err
	}

	if err := sess.Coordinator.ToggleDone(context.Background(), id); err != nil {
		return opError(sess, err)
	}

	if task, ok := sess.Store.Get(id); ok {
		if task.Completed {
			fmt.Printf("Done: %s\n", task.Title)
		} else {
			fmt.Printf("Reopened: %s [%s]\n", task.Title, task.Status)
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(doneCmd)
}
