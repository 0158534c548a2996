/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/taskdeck/internal/telemetry"
)

var telemetryCmd = &cobra.Command{
	Use:   "telemetry",
	Short: "Manage anonymous usage telemetry",
	Long: `View and manage taskdeck's anonymous telemetry settings.

Telemetry is off until you opt in. Only command names and counts are
recorded; task titles and descriptions never leave the machine.`,
}

var telemetryStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current telemetry status",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := telemetry.Load()
		if err != nil {
			return fmt.Errorf("read telemetry status: %w", err)
		}

		if cfg.NeedsConsent() {
			fmt.Println("Telemetry: not configured yet")
			fmt.Println("  To enable: taskdeck telemetry enable")
			return nil
		}

		if cfg.IsEnabled() {
			fmt.Println("Telemetry: enabled")
			fmt.Printf("  Anonymous ID: %s\n", cfg.AnonymousID)
			fmt.Println("  To disable: taskdeck telemetry disable")
		} else {
			fmt.Println("Telemetry: disabled")
			fmt.Println("  To enable: taskdeck telemetry enable")
		}
		return nil
	},
}

var telemetryEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Enable anonymous telemetry",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := setTelemetryConsent(true); err != nil {
			return fmt.Errorf("enable telemetry: %w", err)
		}
		fmt.Println("Telemetry enabled. Thank you for helping improve taskdeck!")
		return nil
	},
}

var telemetryDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Disable anonymous telemetry",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := setTelemetryConsent(false); err != nil {
			return fmt.Errorf("disable telemetry: %w", err)
		}
		fmt.Println("Telemetry disabled.")
		return nil
	},
}

// setTelemetryConsent records the user's choice in the consent file. Both
// answers mark consent as asked, so the choice sticks either way.
func setTelemetryConsent(enabled bool) error {
	cfg, err := telemetry.Load()
	if err != nil {
		return fmt.Errorf("load telemetry config: %w", err)
	}
	if enabled {
		cfg.Enable()
	} else {
		cfg.Disable()
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("save telemetry config: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(telemetryCmd)
	telemetryCmd.AddCommand(telemetryStatusCmd)
	telemetryCmd.AddCommand(telemetryEnableCmd)
	telemetryCmd.AddCommand(telemetryDisableCmd)
}
