package types

// AppConfig represents the complete application configuration
type AppConfig struct {
	Verbose   bool            `mapstructure:"verbose"`
	Config    string          `mapstructure:"config"`
	API       APIConfig       `mapstructure:"api" validate:"required"`
	WS        WSConfig        `mapstructure:"ws" validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// APIConfig holds settings for the backend HTTP API.
type APIConfig struct {
	BaseURL string `mapstructure:"baseURL" validate:"required,url"`
	// TimeoutSeconds bounds every CRUD request; a timeout surfaces as a
	// plain request failure.
	TimeoutSeconds int `mapstructure:"timeoutSeconds" validate:"omitempty,min=1,max=120"`
}

// WSConfig holds settings for the push-event channel.
type WSConfig struct {
	URL string `mapstructure:"url" validate:"required"`
	// ReconnectBaseDelayMillis is the first reconnect delay; it doubles
	// per failed attempt.
	ReconnectBaseDelayMillis int `mapstructure:"reconnectBaseDelayMillis" validate:"omitempty,min=10"`
	// MaxReconnectAttempts is the consecutive-failure budget before the
	// channel goes terminally disconnected.
	MaxReconnectAttempts int `mapstructure:"maxReconnectAttempts" validate:"omitempty,min=1,max=20"`
}

// AuthConfig holds bearer-token settings.
type AuthConfig struct {
	// TokenFile is where the bearer token lives. Empty means the default
	// location under the config directory.
	TokenFile string `mapstructure:"tokenFile"`
}

// TelemetryConfig holds anonymous usage telemetry settings.
type TelemetryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	APIKey  string `mapstructure:"apiKey"`
}
