/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/josephgoksu/taskdeck/internal/logger"
)

var (
	// cfgFile is the path to the configuration file.
	cfgFile string
	// verbose enables verbose output.
	verbose bool
	// version is the application version.
	version = "0.1.0"
)

// rootCmd represents the base command when called without any subcommands.
// Running taskdeck bare opens the interactive board.
var rootCmd = &cobra.Command{
	Use:   "taskdeck",
	Short: "taskdeck is a terminal client for your team's task board.",
	Long: `taskdeck is a terminal client for the task middleware. It keeps a live
local mirror of the board over the push channel and lets you list, add,
update and complete tasks from the command line or an interactive TUI.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBoard(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	logger.SetVersion(version)
	if err := rootCmd.Execute(); err != nil {
		HandleFatalError("Error: "+err.Error(), err)
	}
}

func init() {
	cobra.OnInitialize(InitConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is $HOME/.taskdeck.yaml or ./.taskdeck.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}
