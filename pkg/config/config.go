package config

import "time"

// Config is the root configuration structure for Solace.
// It contains all configuration sections for the HTTP server, the completion
// provider, shared-secret authentication, conversation handling, the optional
// safety screen, the audit trail, and telemetry.
type Config struct {
	// Server contains HTTP server configuration including listen address,
	// timeouts, and CORS.
	Server ServerConfig `yaml:"server"`

	// Provider configures the upstream completion provider.
	Provider ProviderConfig `yaml:"provider"`

	// Auth configures the shared-secret check applied to /chat and /clear.
	Auth AuthConfig `yaml:"auth"`

	// Conversation configures the shared transcript.
	Conversation ConversationConfig `yaml:"conversation"`

	// Safety configures the crisis screen and the reply disclaimer.
	Safety SafetyConfig `yaml:"safety"`

	// Audit configures the exchange audit trail.
	Audit AuditConfig `yaml:"audit"`

	// Telemetry contains logging and metrics configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Watch enables reloading the configuration file when it changes.
	// Only the shared secret is applied live; other fields need a restart.
	// Default: false
	Watch bool `yaml:"watch"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// The PORT environment variable overrides this with ":<PORT>".
	// Default: ":3000"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response. It must exceed the provider timeout or slow replies are cut off.
	// Default: 90s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the keep-alive idle timeout.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes limits request header size.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// MaxBodyBytes limits the request body size accepted by /chat.
	// Default: 1048576 (1MB)
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	// CORS contains Cross-Origin Resource Sharing configuration.
	CORS CORSConfig `yaml:"cors"`
}

// CORSConfig contains CORS (Cross-Origin Resource Sharing) configuration.
type CORSConfig struct {
	// Enabled controls whether CORS headers are emitted.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// AllowedOrigins is a list of allowed origins. ["*"] allows any origin.
	// Default: ["*"]
	AllowedOrigins []string `yaml:"allowed_origins"`

	// AllowedMethods is a list of allowed HTTP methods.
	// Default: ["GET", "POST", "OPTIONS"]
	AllowedMethods []string `yaml:"allowed_methods"`

	// AllowedHeaders is a list of allowed request headers.
	// Default: ["Content-Type", "X-Request-ID", "devkey"]
	AllowedHeaders []string `yaml:"allowed_headers"`

	// ExposedHeaders is a list of headers exposed to the client.
	// Default: ["X-Request-ID"]
	ExposedHeaders []string `yaml:"exposed_headers"`

	// MaxAge is the preflight cache lifetime in seconds.
	// Default: 3600
	MaxAge int `yaml:"max_age"`

	// AllowCredentials controls Access-Control-Allow-Credentials.
	// Default: false
	AllowCredentials bool `yaml:"allow_credentials"`
}

// ProviderConfig configures the completion provider.
type ProviderConfig struct {
	// Type selects the adapter: "openai" or "generic" (OpenAI-compatible).
	// Default: "openai"
	Type string `yaml:"type"`

	// BaseURL is the API base URL.
	// Default: "https://api.openai.com/v1" for openai; required for generic.
	BaseURL string `yaml:"base_url"`

	// APIKey authenticates against the provider. OPENAI_API_KEY overrides it.
	// Required for openai.
	APIKey string `yaml:"api_key"`

	// Model is the model identifier sent with every completion.
	// Default: "gpt-4o"
	Model string `yaml:"model"`

	// Timeout bounds a single provider call. There are no retries.
	// Default: 60s
	Timeout time.Duration `yaml:"timeout"`

	// HealthCheckInterval enables periodic background health checks.
	// Default: 0 (health follows request outcomes only)
	HealthCheckInterval time.Duration `yaml:"health_check_interval"`
}

// AuthConfig configures the shared secret.
type AuthConfig struct {
	// Secret is compared against the credential header.
	// SECRET_KEY overrides it. One of Secret or SecretHash is required.
	Secret string `yaml:"secret"`

	// SecretHash is a bcrypt hash of the secret. When set, Secret is ignored.
	SecretHash string `yaml:"secret_hash"`

	// Header is the request header carrying the credential.
	// Default: "devkey"
	Header string `yaml:"header"`
}

// ConversationConfig configures the shared transcript.
type ConversationConfig struct {
	// SystemPrompt is the persona instruction held in the leading system turn.
	SystemPrompt string `yaml:"system_prompt"`

	// MaxTurns caps the transcript length after every send.
	// Default: 20
	MaxTurns int `yaml:"max_turns"`

	// PreserveSystemTurn keeps the leading system turn when truncating.
	// Default: false (the oldest turns are dropped, system turn included)
	PreserveSystemTurn bool `yaml:"preserve_system_turn"`
}

// SafetyConfig configures the crisis screen and the disclaimer.
type SafetyConfig struct {
	// CrisisDetection answers messages that match a crisis keyword with
	// hotline resources instead of calling the provider.
	// Default: false
	CrisisDetection bool `yaml:"crisis_detection"`

	// CrisisKeywords overrides the built-in keyword list.
	CrisisKeywords []string `yaml:"crisis_keywords"`

	// Disclaimer adds a "not a licensed professional" notice to /chat replies.
	// Default: false
	Disclaimer bool `yaml:"disclaimer"`
}

// AuditConfig configures the exchange audit trail.
type AuditConfig struct {
	// Enabled turns audit recording on.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Backend is "memory" or "sqlite".
	// Default: "memory"
	Backend string `yaml:"backend"`

	// BufferSize is the async recording queue length.
	// Default: 1000
	BufferSize int `yaml:"buffer_size"`

	// SQLite configures the sqlite backend.
	SQLite SQLiteConfig `yaml:"sqlite"`

	// Retention configures record pruning.
	Retention RetentionConfig `yaml:"retention"`
}

// SQLiteConfig configures the SQLite audit backend.
type SQLiteConfig struct {
	// Path is the database file path.
	// Default: "data/audit.db"
	Path string `yaml:"path"`

	// Driver is "sqlite3" (mattn, cgo) or "sqlite" (modernc, pure Go).
	// Default: "sqlite"
	Driver string `yaml:"driver"`

	// MaxOpenConns bounds the connection pool.
	// Default: 4
	MaxOpenConns int `yaml:"max_open_conns"`

	// WALMode enables write-ahead logging.
	// Default: true
	WALMode bool `yaml:"wal_mode"`

	// BusyTimeout is how long to wait on a locked database.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// RetentionConfig configures audit pruning.
type RetentionConfig struct {
	// Days keeps records newer than this many days. 0 disables age pruning.
	// Default: 30
	Days int `yaml:"days"`

	// Schedule is a standard cron expression. Empty disables scheduled pruning.
	// Default: "0 3 * * *"
	Schedule string `yaml:"schedule"`

	// MaxRecords keeps at most this many records. 0 means unlimited.
	// Default: 0
	MaxRecords int64 `yaml:"max_records"`
}

// TelemetryConfig contains logging and metrics configuration.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is "json" or "text".
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`

	// Redact scrubs secrets and contact details from log attributes.
	// Default: true
	Redact bool `yaml:"redact"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected and served.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path of the metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace prefixes every metric name.
	// Default: "solace"
	Namespace string `yaml:"namespace"`

	// RequestDurationBuckets are histogram buckets in seconds.
	RequestDurationBuckets []float64 `yaml:"request_duration_buckets"`
}
