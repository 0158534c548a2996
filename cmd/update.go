package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/taskdeck/internal/logger"
	"github.com/josephgoksu/taskdeck/models"
)

var updateCmd = &cobra.Command{
	Use:   "update <task-id>",
	Short: "Update fields of a task",
	Long: `Apply a partial update to a task. Only the flags you pass are sent;
everything else is left untouched. The task ID may be a unique prefix.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.SetCommand("update")
		start := time.Now()
		err := runUpdate(cmd, args)
		trackCommand("update", start, err)
		return err
	},
}

func runUpdate(cmd *cobra.Command, args []string) error {
	patch, err := patchFromFlags(cmd)
	if err != nil {
		return err
	}
	if patch.IsEmpty() {
		return fmt.Errorf("nothing to update: pass at least one of --title, --description, --due, --status")
	}

	sess := newSession()
	defer sess.Coordinator.Close()

	if err := fetchTasks(sess); err != nil {
		return err
	}
	id, err := resolveTaskID(sess.Store, args[0])
	if err != nil {
		return err
	}

	if err := sess.Coordinator.Update(context.Background(), id, patch); err != nil {
		return opError(sess, err)
	}

	if task, ok := sess.Store.Get(id); ok {
		fmt.Printf("Updated task %s: %s [%s]\n", task.ID, task.Title, task.Status)
	}
	return nil
}

// patchFromFlags builds a partial update from the flags that were set.
func patchFromFlags(cmd *cobra.Command) (models.TaskPatch, error) {
	var patch models.TaskPatch

	if cmd.Flags().Changed("title") {
		title, _ := cmd.Flags().GetString("title")
		patch.Title = &title
	}
	if cmd.Flags().Changed("description") {
		desc, _ := cmd.Flags().GetString("description")
		patch.Description = &desc
	}
	if cmd.Flags().Changed("due") {
		dueFlag, _ := cmd.Flags().GetString("due")
		due, err := parseDueDate(dueFlag)
		if err != nil {
			return models.TaskPatch{}, err
		}
		patch.DueDate = due
	}
	if cmd.Flags().Changed("status") {
		statusFlag, _ := cmd.Flags().GetString("status")
		status, err := parseStatusFlag(statusFlag)
		if err != nil {
			return models.TaskPatch{}, err
		}
		patch.Status = status
	}
	return patch, nil
}

func init() {
	rootCmd.AddCommand(updateCmd)

	updateCmd.Flags().String("title", "", "new title (3-80 chars)")
	updateCmd.Flags().StringP("description", "d", "", "new description")
	updateCmd.Flags().String("due", "", "new due date, YYYY-MM-DD")
	updateCmd.Flags().String("status", "", "new status ("+statusList()+")")
}
