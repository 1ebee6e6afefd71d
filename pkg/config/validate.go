package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "server.listen_address").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateProvider(&cfg.Provider)...)
	errs = append(errs, validateAuth(&cfg.Auth)...)
	errs = append(errs, validateConversation(&cfg.Conversation)...)
	errs = append(errs, validateAudit(&cfg.Audit)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

// validateServer validates server configuration.
func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: "listen address is required",
		})
	}

	if cfg.ReadTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.read_timeout",
			Message: "read timeout must be positive",
		})
	}
	if cfg.WriteTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.write_timeout",
			Message: "write timeout must be positive",
		})
	}
	if cfg.IdleTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.idle_timeout",
			Message: "idle timeout must be positive",
		})
	}
	if cfg.ShutdownTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.shutdown_timeout",
			Message: "shutdown timeout must be positive",
		})
	}
	if cfg.MaxHeaderBytes < 0 {
		errs = append(errs, FieldError{
			Field:   "server.max_header_bytes",
			Message: "max header bytes must be non-negative",
		})
	}
	if cfg.MaxBodyBytes < 0 {
		errs = append(errs, FieldError{
			Field:   "server.max_body_bytes",
			Message: "max body bytes must be non-negative",
		})
	}

	if cfg.CORS.MaxAge < 0 {
		errs = append(errs, FieldError{
			Field:   "server.cors.max_age",
			Message: "max age must be non-negative",
		})
	}

	return errs
}

// validateProvider validates the completion provider configuration.
func validateProvider(cfg *ProviderConfig) []FieldError {
	var errs []FieldError

	switch cfg.Type {
	case "openai":
		if cfg.APIKey == "" {
			errs = append(errs, FieldError{
				Field:   "provider.api_key",
				Message: "API key is required for the openai provider (set OPENAI_API_KEY)",
			})
		}
	case "generic":
	default:
		errs = append(errs, FieldError{
			Field:   "provider.type",
			Message: fmt.Sprintf("unsupported provider type %q: must be 'openai' or 'generic'", cfg.Type),
		})
	}

	if cfg.BaseURL == "" {
		errs = append(errs, FieldError{
			Field:   "provider.base_url",
			Message: "base URL is required",
		})
	} else if u, err := url.Parse(cfg.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, FieldError{
			Field:   "provider.base_url",
			Message: fmt.Sprintf("invalid URL %q", cfg.BaseURL),
		})
	}

	if cfg.Model == "" {
		errs = append(errs, FieldError{
			Field:   "provider.model",
			Message: "model is required",
		})
	}

	if cfg.Timeout < 0 {
		errs = append(errs, FieldError{
			Field:   "provider.timeout",
			Message: "timeout must be positive",
		})
	}
	if cfg.HealthCheckInterval < 0 {
		errs = append(errs, FieldError{
			Field:   "provider.health_check_interval",
			Message: "health check interval must be non-negative",
		})
	}

	return errs
}

// validateAuth validates the shared-secret configuration.
func validateAuth(cfg *AuthConfig) []FieldError {
	var errs []FieldError

	// An unset secret is rejected here rather than treated as "no auth"
	if cfg.Secret == "" && cfg.SecretHash == "" {
		errs = append(errs, FieldError{
			Field:   "auth.secret",
			Message: "shared secret is required (set SECRET_KEY or auth.secret_hash)",
		})
	}
	if cfg.SecretHash != "" && !strings.HasPrefix(cfg.SecretHash, "$2") {
		errs = append(errs, FieldError{
			Field:   "auth.secret_hash",
			Message: "secret hash must be a bcrypt hash",
		})
	}
	if cfg.Header == "" {
		errs = append(errs, FieldError{
			Field:   "auth.header",
			Message: "credential header name is required",
		})
	}

	return errs
}

// validateConversation validates transcript settings.
func validateConversation(cfg *ConversationConfig) []FieldError {
	var errs []FieldError

	if cfg.MaxTurns < 1 {
		errs = append(errs, FieldError{
			Field:   "conversation.max_turns",
			Message: "max turns must be at least 1",
		})
	}
	if cfg.PreserveSystemTurn && cfg.MaxTurns < 2 {
		errs = append(errs, FieldError{
			Field:   "conversation.max_turns",
			Message: "max turns must be at least 2 when preserving the system turn",
		})
	}

	return errs
}

// validateAudit validates audit trail configuration.
func validateAudit(cfg *AuditConfig) []FieldError {
	var errs []FieldError

	if !cfg.Enabled {
		return errs
	}

	switch cfg.Backend {
	case "memory":
	case "sqlite":
		if cfg.SQLite.Path == "" {
			errs = append(errs, FieldError{
				Field:   "audit.sqlite.path",
				Message: "path is required for the sqlite backend",
			})
		}
		if cfg.SQLite.Driver != "sqlite" && cfg.SQLite.Driver != "sqlite3" {
			errs = append(errs, FieldError{
				Field:   "audit.sqlite.driver",
				Message: fmt.Sprintf("invalid driver %q: must be 'sqlite' or 'sqlite3'", cfg.SQLite.Driver),
			})
		}
		if cfg.SQLite.MaxOpenConns < 1 {
			errs = append(errs, FieldError{
				Field:   "audit.sqlite.max_open_conns",
				Message: "max open connections must be at least 1",
			})
		}
	default:
		errs = append(errs, FieldError{
			Field:   "audit.backend",
			Message: fmt.Sprintf("invalid backend %q: must be 'memory' or 'sqlite'", cfg.Backend),
		})
	}

	if cfg.BufferSize < 1 {
		errs = append(errs, FieldError{
			Field:   "audit.buffer_size",
			Message: "buffer size must be at least 1",
		})
	}
	if cfg.Retention.Days < 0 {
		errs = append(errs, FieldError{
			Field:   "audit.retention.days",
			Message: "retention days must be non-negative",
		})
	}
	if cfg.Retention.MaxRecords < 0 {
		errs = append(errs, FieldError{
			Field:   "audit.retention.max_records",
			Message: "max records must be non-negative",
		})
	}
	if cfg.Retention.Schedule != "" {
		if _, err := cron.ParseStandard(cfg.Retention.Schedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "audit.retention.schedule",
				Message: fmt.Sprintf("invalid cron expression: %v", err),
			})
		}
	}

	return errs
}

// validateTelemetry validates telemetry configuration.
func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid logging level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.Logging.Level),
		})
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[cfg.Logging.Format] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid logging format %q: must be 'json' or 'text'", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.Enabled {
		if cfg.Metrics.Path == "" || cfg.Metrics.Path[0] != '/' {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.path",
				Message: "metrics path must start with /",
			})
		}
		for i := 1; i < len(cfg.Metrics.RequestDurationBuckets); i++ {
			if cfg.Metrics.RequestDurationBuckets[i] <= cfg.Metrics.RequestDurationBuckets[i-1] {
				errs = append(errs, FieldError{
					Field:   "telemetry.metrics.request_duration_buckets",
					Message: "buckets must be strictly increasing",
				})
				break
			}
		}
	}

	return errs
}
