// Package config provides configuration management for Solace.
//
// Configuration is read from a YAML file, completed with defaults and then
// overridden from the environment:
//
//	cfg, err := config.LoadConfigWithEnvOverrides("solace.yaml")
//
// # Environment Variables
//
// The deployment variables PORT, OPENAI_API_KEY and SECRET_KEY are honoured
// directly. Every other field can be set with SOLACE_SECTION_FIELD, for
// example:
//
//   - SOLACE_SERVER_LISTEN_ADDRESS overrides server.listen_address
//   - SOLACE_PROVIDER_MODEL overrides provider.model
//   - SOLACE_CONVERSATION_MAX_TURNS overrides conversation.max_turns
//
// LoadDotEnv reads a .env file into the environment first without replacing
// variables that are already set.
//
// # Configuration Precedence
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. PORT, OPENAI_API_KEY, SECRET_KEY
//  4. SOLACE_* overrides
//  5. Validation (fails fast if invalid)
//
// # Validation
//
// Validation collects every problem into a ValidationError. A missing shared
// secret and a missing OpenAI API key are errors: the proxy never starts
// with authentication silently disabled.
//
// # Reloading
//
// Watcher reloads the file on change and hands the new configuration to a
// callback. Only the shared secret is applied without a restart.
package config
