package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/josephgoksu/taskdeck/internal/logger"
	"github.com/josephgoksu/taskdeck/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the upstream issue-tracker integration status",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.SetCommand("status")
		start := time.Now()
		err := runStatus()
		trackCommand("status", start, err)
		return err
	},
}

func runStatus() error {
	client := newBackendClient()
	status, err := client.Integration(context.Background())
	if err != nil {
		return fmt.Errorf("fetch integration status: %w", err)
	}

	if isJSON() {
		return printJSON(status)
	}

	provider := status.Provider
	if provider == "" {
		provider = "none"
	}
	fmt.Printf("Integration: %s\n", provider)
	if status.Connected {
		fmt.Println("Connected:  " + ui.StyleSuccess.Render("yes"))
	} else {
		fmt.Println("Connected:  " + ui.StyleError.Render("no"))
	}
	if status.ProjectID != "" {
		fmt.Printf("Project:    %s\n", status.ProjectID)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().Bool("json", false, "output as JSON")
	_ = viper.BindPFlag("json", statusCmd.Flags().Lookup("json"))
}
