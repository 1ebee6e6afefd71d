package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/solace/pkg/cli"
	"mercator-hq/solace/pkg/config"
)

var (
	// Global flags
	cfgFile string
	envFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "solace",
	Short: "Solace - supportive-chat completion proxy",
	Long: `Solace is a small HTTP proxy in front of an OpenAI-compatible completion API.

It keeps one shared conversation transcript, sends it with every message and
returns the model's reply. Callers authenticate with a shared secret in the
devkey header.

Configuration comes from solace.yaml, a .env file and the environment
(PORT, OPENAI_API_KEY, SECRET_KEY and SOLACE_* overrides).`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return config.LoadDotEnv(envFile)
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		cli.NewPrinter(os.Stderr).Fail("%v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", config.DefaultConfigPath, "config file path")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the environment is read")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig loads the configuration named by --config. When the default
// file does not exist the proxy runs from defaults and the environment; a
// file named explicitly must exist.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	path := cfgFile
	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, fs.ErrNotExist) || cmd.Flags().Changed("config") {
			return nil, "", cli.NewConfigError("--config", fmt.Sprintf("cannot read %s: %v", path, err))
		}
		path = ""
	}

	cfg, err := config.LoadConfigWithEnvOverrides(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}
