package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/taskdeck/internal/logger"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <task-id>",
	Short: "Delete a task",
	Long: `Delete a task from the board. The local mirror drops the record only
after the backend confirms the deletion.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.SetCommand("delete")
		start := time.Now()
		err := runDelete(cmd, args)
		trackCommand("delete", start, err)
		return err
	},
}

func runDelete(cmd *cobra.Command, args []string) error {
	sess := newSession()
	defer sess.Coordinator.Close()

	if err := fetchTasks(sess); err != nil {
		return err
	}
	id, err := resolveTaskID(sess.Store, args[0])
	if err != nil {
		return err
	}

	task, _ := sess.Store.Get(id)
	yes, _ := cmd.Flags().GetBool("yes")
	if !yes && !confirmOrAbort(fmt.Sprintf("Delete %q? [y/N] ", task.Title)) {
		return nil
	}

	if err := sess.Coordinator.Delete(context.Background(), id); err != nil {
		return opError(sess, err)
	}

	fmt.Printf("Deleted task %s.\n", id)
	return nil
}

func init() {
	rootCmd.AddCommand(deleteCmd)

	deleteCmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")
}
