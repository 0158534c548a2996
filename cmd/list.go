package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/josephgoksu/taskdeck/internal/logger"
	"github.com/josephgoksu/taskdeck/internal/ui"
	"github.com/josephgoksu/taskdeck/internal/view"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Long: `Fetch the board and print the tasks that match the given filters.
Search matches title and description case-insensitively; filters are ANDed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.SetCommand("list")
		start := time.Now()
		err := runList(cmd)
		trackCommand("list", start, err)
		return err
	},
}

func runList(cmd *cobra.Command) error {
	sess := newSession()
	defer sess.Coordinator.Close()

	spin := ui.NewSpinner("fetching tasks...")
	if !isJSON() {
		spin.Start()
	}
	err := fetchTasks(sess)
	spin.Stop()
	if err != nil {
		return err
	}

	filters := view.DefaultFilters()
	filters.Search, _ = cmd.Flags().GetString("search")

	statusFlag, _ := cmd.Flags().GetString("status")
	status, err := parseStatusFlag(statusFlag)
	if err != nil {
		return err
	}
	filters.Status = status

	if sortFlag, _ := cmd.Flags().GetString("sort"); sortFlag != "" {
		switch view.SortField(sortFlag) {
		case view.SortByTitle, view.SortByDueDate, view.SortByStatus, view.SortByCreatedAt:
			filters.SortField = view.SortField(sortFlag)
		default:
			return fmt.Errorf("unknown sort field %q (valid: title, dueDate, status, createdAt)", sortFlag)
		}
	}
	if orderFlag, _ := cmd.Flags().GetString("order"); orderFlag != "" {
		switch view.SortOrder(orderFlag) {
		case view.Ascending, view.Descending:
			filters.SortOrder = view.SortOrder(orderFlag)
		default:
			return fmt.Errorf("unknown sort order %q (valid: asc, desc)", orderFlag)
		}
	}

	tasks := view.Apply(sess.Store.List(), filters)

	if isJSON() {
		return printJSON(tasks)
	}

	if len(tasks) == 0 {
		fmt.Println("No tasks match.")
		return nil
	}
	fmt.Print(ui.RenderTaskTable(tasks))
	return nil
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().String("search", "", "filter by substring of title or description")
	listCmd.Flags().String("status", "", "filter by status ("+statusList()+")")
	listCmd.Flags().String("sort", "", "sort field: title, dueDate, status, createdAt")
	listCmd.Flags().String("order", "", "sort order: asc, desc")
	listCmd.Flags().Bool("json", false, "output as JSON")
	_ = viper.BindPFlag("json", listCmd.Flags().Lookup("json"))
}
