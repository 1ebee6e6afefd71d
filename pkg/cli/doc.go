/*
Package cli provides command-line interface utilities for Solace.

The cli package includes output formatters, colored status lines, signal
handling and the error types used by the solace command.

Output Formatting:

Results are written as text, JSON or CSV. Tabular results implement
Tabular and render as aligned columns in text mode:

	format, err := cli.ParseFormat(flagValue)
	if err != nil {
		return err
	}
	if err := cli.NewFormatter(format).FormatTo(os.Stdout, records); err != nil {
		return err
	}

Status Lines:

	p := cli.NewPrinter(cmd.OutOrStdout())
	p.Success("Configuration valid")
	p.Field("listen", cfg.Server.ListenAddress)

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
*/
package cli
