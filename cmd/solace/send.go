package main

import (
	"strings"

	"github.com/spf13/cobra"

	"mercator-hq/solace/pkg/cli"
)

var sendFlags clientFlags

var sendCmd = &cobra.Command{
	Use:   "send MESSAGE...",
	Short: "Send a message to a running proxy",
	Long: `Send one message to POST /chat on a running proxy and print the reply.
The message joins the shared conversation like any other client's.

Examples:
  solace send "I had a rough day" --secret abc123
  SECRET_KEY=abc123 solace send --url http://chat.internal:3000 "hello"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := sendFlags.client().Send(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return cli.NewCommandError("send", err)
		}

		p := cli.NewPrinter(cmd.OutOrStdout())
		p.Println(resp.Reply)
		if resp.Disclaimer != "" {
			p.Warn("%s", resp.Disclaimer)
		}
		return nil
	},
}

var clearFlags clientFlags

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the conversation on a running proxy",
	Long: `Reset the shared conversation on a running proxy to its system prompt.

Examples:
  solace clear --secret abc123`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := clearFlags.client().Clear(cmd.Context())
		if err != nil {
			return cli.NewCommandError("clear", err)
		}
		cli.NewPrinter(cmd.OutOrStdout()).Success("%s", resp.Message)
		return nil
	},
}

func init() {
	sendFlags.register(sendCmd)
	clearFlags.register(clearCmd)
	rootCmd.AddCommand(sendCmd, clearCmd)
}
