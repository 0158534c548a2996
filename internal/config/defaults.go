// Package config provides centralized configuration constants and path
// helpers. All default values live here to keep a single source of truth.
package config

// Backend endpoints. The middleware serves REST and the websocket topic
// from the same host in development.
const (
	// DefaultAPIBaseURL is the backend REST base URL.
	DefaultAPIBaseURL = "http://localhost:8080"

	// DefaultWSURL is the push-event websocket endpoint.
	DefaultWSURL = "ws://localhost:8080/ws"
)

// Request and reconnect policy defaults.
const (
	// DefaultTimeoutSeconds bounds each CRUD request.
	DefaultTimeoutSeconds = 10

	// DefaultReconnectBaseDelayMillis is the first reconnect delay; it
	// doubles per failed attempt.
	DefaultReconnectBaseDelayMillis = 1000

	// DefaultMaxReconnectAttempts is the consecutive-failure budget
	// before the channel stops retrying.
	DefaultMaxReconnectAttempts = 5
)

// TokenFileName is the bearer-token file under the config directory.
const TokenFileName = "token"
