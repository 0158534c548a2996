package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/taskdeck/internal/logger"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored bearer token",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.SetCommand("logout")
		start := time.Now()
		err := runLogout()
		trackCommand("logout", start, err)
		return err
	},
}

func runLogout() error {
	if err := newTokenStore().Clear(); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	fmt.Println("Logged out.")
	return nil
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
