package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/taskdeck/internal/logger"
	"github.com/josephgoksu/taskdeck/models"
)

var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a new task",
	Long: `Create a task on the board. The title is 3-80 characters and the due
date is required. The local mirror is only updated once the backend
confirms the creation.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.SetCommand("add")
		start := time.Now()
		err := runAdd(cmd, args)
		trackCommand("add", start, err)
		return err
	},
}

func runAdd(cmd *cobra.Command, args []string) error {
	title := strings.TrimSpace(strings.Join(args, " "))
	description, _ := cmd.Flags().GetString("description")
	dueFlag, _ := cmd.Flags().GetString("due")
	statusFlag, _ := cmd.Flags().GetString("status")

	due, err := parseDueDate(dueFlag)
	if err != nil {
		return err
	}
	if due == nil {
		return fmt.Errorf("a due date is required (--due YYYY-MM-DD)")
	}

	status := models.StatusPending
	if parsed, err := parseStatusFlag(statusFlag); err != nil {
		return err
	} else if parsed != nil {
		status = *parsed
	}

	form := models.TaskForm{
		Title:       title,
		Description: description,
		DueDate:     due,
		Status:      status,
	}

	sess := newSession()
	defer sess.Coordinator.Close()

	if err := sess.Coordinator.Create(context.Background(), form); err != nil {
		return opError(sess, err)
	}

	created := sess.Store.List()
	if len(created) == 1 {
		fmt.Printf("Created task %s: %s\n", created[0].ID, created[0].Title)
	} else {
		fmt.Println("Task created.")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().StringP("description", "d", "", "task description (up to 500 chars)")
	addCmd.Flags().String("due", "", "due date, YYYY-MM-DD (required)")
	addCmd.Flags().String("status", string(models.StatusPending), "initial status ("+statusList()+")")
}
