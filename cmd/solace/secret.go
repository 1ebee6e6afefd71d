package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mercator-hq/solace/pkg/cli"
	"mercator-hq/solace/pkg/security/auth"
)

var secretFlags struct {
	cost int
}

var secretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Manage the shared secret",
}

var secretHashCmd = &cobra.Command{
	Use:   "hash [SECRET]",
	Short: "Print a bcrypt hash for auth.secret_hash",
	Long: `Hash a shared secret with bcrypt so the config file never holds it in
plain text. The secret is read from the argument or, when omitted, from the
first line of standard input.

Examples:
  solace secret hash abc123
  echo -n "$SECRET_KEY" | solace secret hash`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		secret, err := readSecret(cmd, args)
		if err != nil {
			return cli.NewCommandError("secret hash", err)
		}

		hash, err := auth.Hash(secret, secretFlags.cost)
		if err != nil {
			return cli.NewCommandError("secret hash", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

func init() {
	secretHashCmd.Flags().IntVar(&secretFlags.cost, "cost", 0, "bcrypt cost (0 selects the default)")
	secretCmd.AddCommand(secretHashCmd)
	rootCmd.AddCommand(secretCmd)
}

func readSecret(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("failed to read secret: %w", err)
		}
		return "", auth.ErrNoSecret
	}
	return strings.TrimRight(scanner.Text(), "\r"), nil
}
