package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/taskdeck/internal/config"
	"github.com/josephgoksu/taskdeck/internal/logger"
)

var loginCmd = &cobra.Command{
	Use:   "login [token]",
	Short: "Store the backend bearer token",
	Long: `Store the bearer token used to authenticate against the backend. Pass
it as an argument or enter it at the prompt. A rejected token (401) is
cleared automatically on the next request.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.SetCommand("login")
		start := time.Now()
		err := runLogin(args)
		trackCommand("login", start, err)
		return err
	},
}

func runLogin(args []string) error {
	var token string
	if len(args) == 1 {
		token = strings.TrimSpace(args[0])
	} else {
		fmt.Print("Token: ")
		reader := bufio.NewReader(os.Stdin)
		line, _ := reader.ReadString('\n')
		token = strings.TrimSpace(line)
	}
	if token == "" {
		return fmt.Errorf("no token provided")
	}

	if err := newTokenStore().Save(token); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	fmt.Printf("Token saved to %s\n", config.GetTokenFilePath())
	return nil
}

func init() {
	rootCmd.AddCommand(loginCmd)
}
