package config

import "time"

// Default values for configuration fields.
const (
	// Server defaults
	DefaultListenAddress   = ":3000"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 90 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxHeaderBytes  = 1048576 // 1MB
	DefaultMaxBodyBytes    = int64(1048576)

	// CORS defaults
	DefaultCORSEnabled = true
	DefaultCORSMaxAge  = 3600 // 1 hour

	// Provider defaults
	DefaultProviderType    = "openai"
	DefaultOpenAIBaseURL   = "https://api.openai.com/v1"
	DefaultProviderModel   = "gpt-4o"
	DefaultProviderTimeout = 60 * time.Second

	// Auth defaults
	DefaultAuthHeader = "devkey"

	// Conversation defaults
	DefaultSystemPrompt = "You are a compassionate chatbot designed to support people diagnosed with depression. " +
		"Respond with empathy and encouragement."
	DefaultMaxTurns = 20

	// Audit defaults
	DefaultAuditBackend           = "memory"
	DefaultAuditBufferSize        = 1000
	DefaultAuditSQLitePath        = "data/audit.db"
	DefaultAuditSQLiteDriver      = "sqlite"
	DefaultAuditSQLiteMaxOpen     = 4
	DefaultAuditSQLiteWALMode     = true
	DefaultAuditSQLiteBusyTimeout = 5 * time.Second
	DefaultAuditRetentionDays     = 30
	DefaultAuditRetentionSchedule = "0 3 * * *"

	// Telemetry defaults
	DefaultLoggingLevel     = "info"
	DefaultLoggingFormat    = "json"
	DefaultLoggingRedact    = true
	DefaultMetricsEnabled   = true
	DefaultMetricsPath      = "/metrics"
	DefaultMetricsNamespace = "solace"
)

// Default returns a configuration populated with every default value.
func Default() *Config {
	cfg := newConfig()
	ApplyDefaults(cfg)
	return cfg
}

// newConfig returns an empty configuration with the boolean fields that
// default to true already set. YAML is decoded on top of it, so those fields
// stay true unless the file sets them explicitly.
func newConfig() *Config {
	cfg := &Config{}
	cfg.Server.CORS.Enabled = DefaultCORSEnabled
	cfg.Audit.SQLite.WALMode = DefaultAuditSQLiteWALMode
	cfg.Telemetry.Logging.Redact = DefaultLoggingRedact
	cfg.Telemetry.Metrics.Enabled = DefaultMetricsEnabled
	return cfg
}

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Server defaults
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = DefaultMaxHeaderBytes
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}
	applyCORSDefaults(&cfg.Server.CORS)

	// Provider defaults
	if cfg.Provider.Type == "" {
		cfg.Provider.Type = DefaultProviderType
	}
	if cfg.Provider.BaseURL == "" && cfg.Provider.Type == "openai" {
		cfg.Provider.BaseURL = DefaultOpenAIBaseURL
	}
	if cfg.Provider.Model == "" {
		cfg.Provider.Model = DefaultProviderModel
	}
	if cfg.Provider.Timeout == 0 {
		cfg.Provider.Timeout = DefaultProviderTimeout
	}

	// Auth defaults
	if cfg.Auth.Header == "" {
		cfg.Auth.Header = DefaultAuthHeader
	}

	// Conversation defaults
	if cfg.Conversation.SystemPrompt == "" {
		cfg.Conversation.SystemPrompt = DefaultSystemPrompt
	}
	if cfg.Conversation.MaxTurns == 0 {
		cfg.Conversation.MaxTurns = DefaultMaxTurns
	}

	// Audit defaults
	if cfg.Audit.Backend == "" {
		cfg.Audit.Backend = DefaultAuditBackend
	}
	if cfg.Audit.BufferSize == 0 {
		cfg.Audit.BufferSize = DefaultAuditBufferSize
	}
	if cfg.Audit.SQLite.Path == "" {
		cfg.Audit.SQLite.Path = DefaultAuditSQLitePath
	}
	if cfg.Audit.SQLite.Driver == "" {
		cfg.Audit.SQLite.Driver = DefaultAuditSQLiteDriver
	}
	if cfg.Audit.SQLite.MaxOpenConns == 0 {
		cfg.Audit.SQLite.MaxOpenConns = DefaultAuditSQLiteMaxOpen
	}
	if cfg.Audit.SQLite.BusyTimeout == 0 {
		cfg.Audit.SQLite.BusyTimeout = DefaultAuditSQLiteBusyTimeout
	}
	if cfg.Audit.Retention.Days == 0 {
		cfg.Audit.Retention.Days = DefaultAuditRetentionDays
	}
	if cfg.Audit.Retention.Schedule == "" {
		cfg.Audit.Retention.Schedule = DefaultAuditRetentionSchedule
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if len(cfg.Telemetry.Metrics.RequestDurationBuckets) == 0 {
		// Completion latencies sit between a few hundred ms and tens of seconds
		cfg.Telemetry.Metrics.RequestDurationBuckets = []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60}
	}
}

func applyCORSDefaults(cors *CORSConfig) {
	if len(cors.AllowedOrigins) == 0 {
		cors.AllowedOrigins = []string{"*"}
	}
	if len(cors.AllowedMethods) == 0 {
		cors.AllowedMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(cors.AllowedHeaders) == 0 {
		cors.AllowedHeaders = []string{"Content-Type", "X-Request-ID", DefaultAuthHeader}
	}
	if len(cors.ExposedHeaders) == 0 {
		cors.ExposedHeaders = []string{"X-Request-ID"}
	}
	if cors.MaxAge == 0 {
		cors.MaxAge = DefaultCORSMaxAge
	}
}
