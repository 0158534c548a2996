package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// GetGlobalConfigDir returns the path to the global configuration directory
// (~/.taskdeck). This is the source of truth for where global config lives.
// It's a variable to allow overriding in tests.
var GetGlobalConfigDir = func() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".taskdeck"), nil
}

// GetTokenFilePath resolves where the bearer token is stored.
// Resolution order (first match wins):
// 1. Explicit config via "auth.tokenFile" (Viper/env/flag)
// 2. Global fallback: ~/.taskdeck/token
func GetTokenFilePath() string {
	if path := viper.GetString("auth.tokenFile"); path != "" {
		return path
	}
	dir, err := GetGlobalConfigDir()
	if err != nil {
		return TokenFileName
	}
	return filepath.Join(dir, TokenFileName)
}
