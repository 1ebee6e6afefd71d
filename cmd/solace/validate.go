package main

import (
	"errors"

	"github.com/spf13/cobra"

	"mercator-hq/solace/pkg/cli"
	"mercator-hq/solace/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Long: `Load the configuration exactly as "solace run" would and report every
invalid field. Nothing is started and no provider is contacted.

Examples:
  # Validate solace.yaml plus environment
  solace validate

  # Validate a specific file
  solace validate --config deploy/solace.yaml`,
	RunE: validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validateConfig(cmd *cobra.Command, args []string) error {
	p := cli.NewPrinter(cmd.OutOrStdout())

	cfg, path, err := loadConfig(cmd)
	if err != nil {
		for _, ce := range cli.ConfigErrors(err) {
			p.Fail("%s: %s", ce.Field, ce.Message)
		}
		return errors.New("configuration is invalid")
	}

	if path == "" {
		p.Warn("No config file found, validated defaults and environment")
	} else {
		p.Success("Configuration valid: %s", path)
	}
	printSummary(p, cfg)
	return nil
}

func printSummary(p *cli.Printer, cfg *config.Config) {
	p.Field("Listen address", cfg.Server.ListenAddress)
	p.Field("Provider", cfg.Provider.Type+" "+cfg.Provider.BaseURL)
	p.Field("Model", cfg.Provider.Model)
	p.Field("Credential header", cfg.Auth.Header)
	if cfg.Auth.SecretHash != "" {
		p.Field("Shared secret", "bcrypt hash")
	} else {
		p.Field("Shared secret", "plain")
	}
	p.Field("Max turns", cfg.Conversation.MaxTurns)
	p.Field("Preserve system turn", cfg.Conversation.PreserveSystemTurn)
	p.Field("Crisis screen", cfg.Safety.CrisisDetection)
	if cfg.Audit.Enabled {
		p.Field("Audit backend", cfg.Audit.Backend)
	} else {
		p.Field("Audit backend", "disabled")
	}
	p.Field("Metrics", cfg.Telemetry.Metrics.Enabled)
	p.Field("Watch", cfg.Watch)
}
