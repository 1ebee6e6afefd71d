package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/subosito/gotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of SECTION_FIELD environment overrides.
const EnvPrefix = "SOLACE_"

// DefaultConfigPath is the configuration file used when none is named.
const DefaultConfigPath = "solace.yaml"

// Parse decodes YAML configuration and applies default values.
// It does not validate; callers decide when validation runs.
func Parse(data []byte) (*Config, error) {
	cfg := newConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	ApplyDefaults(cfg)
	return cfg, nil
}

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// The configuration is not modified by environment variables; use LoadConfigWithEnvOverrides
// for that functionality.
func LoadConfig(path string) (*Config, error) {
	cfg, err := loadFile(path)
	if err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. An empty path skips the file and starts
// from defaults.
//
// The loading sequence is:
// 1. Load YAML from file (if any)
// 2. Apply default values
// 3. Apply well-known variables: PORT, OPENAI_API_KEY, SECRET_KEY
// 4. Apply SOLACE_SECTION_FIELD overrides
// 5. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	var cfg *Config
	if path == "" {
		cfg = Default()
	} else {
		var err error
		if cfg, err = loadFile(path); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadDotEnv loads KEY=VALUE pairs from a .env file into the process
// environment. Variables that are already set are left untouched. A missing
// file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to stat env file %q: %w", path, err)
	}
	if err := gotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %q: %w", path, err)
	}
	return nil
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// SOLACE_* variables are applied last and win over the well-known names.
func applyEnvOverrides(cfg *Config) {
	// Deployment variables shared with other hosting setups
	if val := os.Getenv("PORT"); val != "" {
		cfg.Server.ListenAddress = ":" + strings.TrimPrefix(val, ":")
	}
	if val := os.Getenv("OPENAI_API_KEY"); val != "" {
		cfg.Provider.APIKey = val
	}
	if val := os.Getenv("SECRET_KEY"); val != "" {
		cfg.Auth.Secret = val
	}

	// Server overrides
	envString("SERVER_LISTEN_ADDRESS", &cfg.Server.ListenAddress)
	envDuration("SERVER_READ_TIMEOUT", &cfg.Server.ReadTimeout)
	envDuration("SERVER_WRITE_TIMEOUT", &cfg.Server.WriteTimeout)
	envDuration("SERVER_IDLE_TIMEOUT", &cfg.Server.IdleTimeout)
	envDuration("SERVER_SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout)
	envInt("SERVER_MAX_HEADER_BYTES", &cfg.Server.MaxHeaderBytes)
	envBool("SERVER_CORS_ENABLED", &cfg.Server.CORS.Enabled)

	// Provider overrides
	envString("PROVIDER_TYPE", &cfg.Provider.Type)
	envString("PROVIDER_BASE_URL", &cfg.Provider.BaseURL)
	envString("PROVIDER_API_KEY", &cfg.Provider.APIKey)
	envString("PROVIDER_MODEL", &cfg.Provider.Model)
	envDuration("PROVIDER_TIMEOUT", &cfg.Provider.Timeout)

	// Auth overrides
	envString("AUTH_SECRET", &cfg.Auth.Secret)
	envString("AUTH_SECRET_HASH", &cfg.Auth.SecretHash)
	envString("AUTH_HEADER", &cfg.Auth.Header)

	// Conversation overrides
	envString("CONVERSATION_SYSTEM_PROMPT", &cfg.Conversation.SystemPrompt)
	envInt("CONVERSATION_MAX_TURNS", &cfg.Conversation.MaxTurns)
	envBool("CONVERSATION_PRESERVE_SYSTEM_TURN", &cfg.Conversation.PreserveSystemTurn)

	// Safety overrides
	envBool("SAFETY_CRISIS_DETECTION", &cfg.Safety.CrisisDetection)
	envBool("SAFETY_DISCLAIMER", &cfg.Safety.Disclaimer)

	// Audit overrides
	envBool("AUDIT_ENABLED", &cfg.Audit.Enabled)
	envString("AUDIT_BACKEND", &cfg.Audit.Backend)
	envString("AUDIT_SQLITE_PATH", &cfg.Audit.SQLite.Path)
	envString("AUDIT_SQLITE_DRIVER", &cfg.Audit.SQLite.Driver)
	envInt("AUDIT_RETENTION_DAYS", &cfg.Audit.Retention.Days)
	envString("AUDIT_RETENTION_SCHEDULE", &cfg.Audit.Retention.Schedule)

	// Telemetry overrides
	envString("TELEMETRY_LOGGING_LEVEL", &cfg.Telemetry.Logging.Level)
	envString("TELEMETRY_LOGGING_FORMAT", &cfg.Telemetry.Logging.Format)
	envBool("TELEMETRY_LOGGING_REDACT", &cfg.Telemetry.Logging.Redact)
	envBool("TELEMETRY_METRICS_ENABLED", &cfg.Telemetry.Metrics.Enabled)
	envString("TELEMETRY_METRICS_PATH", &cfg.Telemetry.Metrics.Path)

	envBool("WATCH", &cfg.Watch)
}

// Unparseable values are ignored and the file or default value stays.

func envString(key string, dst *string) {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		*dst = val
	}
}

func envInt(key string, dst *int) {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			*dst = i
		}
	}
}

func envBool(key string, dst *bool) {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = b
		}
	}
}

func envDuration(key string, dst *time.Duration) {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			*dst = d
		}
	}
}
