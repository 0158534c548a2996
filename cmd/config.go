package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/josephgoksu/taskdeck/internal/config"
	"github.com/josephgoksu/taskdeck/types"
)

const (
	configName = ".taskdeck"
	envPrefix  = "TASKDECK"
)

// GlobalAppConfig holds the global application configuration instance.
var GlobalAppConfig types.AppConfig

// validate is a single instance; it caches struct info.
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// validateAppConfig performs validation on the AppConfig struct.
func validateAppConfig(cfg *types.AppConfig) error {
	return validate.Struct(cfg)
}

// InitConfig reads in config file and ENV variables if set.
func InitConfig() {
	// Load .env file first if present. It's okay if it doesn't exist.
	_ = godotenv.Load()

	// Environment variable handling must be set up BEFORE reading the
	// config file, so env vars can influence config loading.
	viper.SetEnvPrefix(envPrefix) // e.g., TASKDECK_VERBOSE
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // api.baseURL -> TASKDECK_API_BASEURL

	cfgFileFlag := viper.GetString("config") // Value from --config flag

	if cfgFileFlag != "" {
		viper.SetConfigFile(cfgFileFlag)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)
		viper.AddConfigPath(home)       // $HOME/.taskdeck.yaml
		viper.AddConfigPath(".")        // ./.taskdeck.yaml
		viper.SetConfigName(configName) // file named ".taskdeck"
	}

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	} else {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if cfgFileFlag != "" {
				fmt.Fprintln(os.Stderr, "Error: Specified config file not found:", cfgFileFlag)
			} else if viper.GetBool("verbose") {
				fmt.Fprintln(os.Stderr, "No config file found. Using defaults and environment variables.")
			}
		} else {
			fmt.Fprintln(os.Stderr, "Error reading config file:", viper.ConfigFileUsed(), "-", err)
		}
	}

	// Set default values
	viper.SetDefault("api.baseURL", config.DefaultAPIBaseURL)
	viper.SetDefault("api.timeoutSeconds", config.DefaultTimeoutSeconds)
	viper.SetDefault("ws.url", config.DefaultWSURL)
	viper.SetDefault("ws.reconnectBaseDelayMillis", config.DefaultReconnectBaseDelayMillis)
	viper.SetDefault("ws.maxReconnectAttempts", config.DefaultMaxReconnectAttempts)
	viper.SetDefault("auth.tokenFile", "")
	// telemetry.enabled is a kill-switch; the actual opt-in is the consent
	// file written by `taskdeck telemetry enable`.
	viper.SetDefault("telemetry.enabled", true)
	viper.SetDefault("telemetry.apiKey", "")

	// After all sources are configured, unmarshal into GlobalAppConfig
	if err := viper.Unmarshal(&GlobalAppConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Error unmarshaling config: %s\n", err)
		os.Exit(1)
	}

	// Validate the populated configuration
	if err := validateAppConfig(&GlobalAppConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration validation error: %s\n", err)
		os.Exit(1)
	}
}

// GetConfig returns a pointer to the global types.AppConfig instance.
func GetConfig() *types.AppConfig {
	return &GlobalAppConfig
}
