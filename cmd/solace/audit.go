package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/solace/pkg/audit"
	"mercator-hq/solace/pkg/audit/retention"
	"mercator-hq/solace/pkg/audit/storage"
	"mercator-hq/solace/pkg/cli"
	"mercator-hq/solace/pkg/config"
)

var auditFlags struct {
	db        string
	driver    string
	since     time.Duration
	operation string
	status    string
	limit     int
	offset    int
	format    string
	output    string
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect the audit trail",
	Long: `Read and prune the SQLite audit trail written by "solace run".

Audit records describe each exchange (operation, status, sizes, token usage,
latency). They never contain message or reply text.

Subcommands:
  list   - List audit records with filters
  prune  - Apply the retention policy once

Examples:
  # Last day of failed sends
  solace audit list --since 24h --status upstream_error

  # Export everything as CSV
  solace audit list --limit 0 --format csv -o audit.csv`,
}

var auditListCmd = &cobra.Command{
	Use:   "list",
	Short: "List audit records",
	Args:  cobra.NoArgs,
	RunE:  listAudit,
}

var auditPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete records outside the retention policy",
	Long: `Delete audit records older than audit.retention.days and beyond
audit.retention.max_records, the same pass the scheduler runs.`,
	Args: cobra.NoArgs,
	RunE: pruneAudit,
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditListCmd, auditPruneCmd)

	auditCmd.PersistentFlags().StringVar(&auditFlags.db, "db", "", "audit database path (default audit.sqlite.path)")
	auditCmd.PersistentFlags().StringVar(&auditFlags.driver, "driver", "", "sqlite driver: sqlite or sqlite3 (default audit.sqlite.driver)")

	auditListCmd.Flags().DurationVar(&auditFlags.since, "since", 0, "only records newer than this, e.g. 24h")
	auditListCmd.Flags().StringVar(&auditFlags.operation, "operation", "", "filter by operation (send, clear)")
	auditListCmd.Flags().StringVar(&auditFlags.status, "status", "", "filter by status (success, unauthorized, bad_request, upstream_error, crisis)")
	auditListCmd.Flags().IntVar(&auditFlags.limit, "limit", 100, "max results (0 for all)")
	auditListCmd.Flags().IntVar(&auditFlags.offset, "offset", 0, "pagination offset")
	auditListCmd.Flags().StringVar(&auditFlags.format, "format", "text", "output format: text, json, csv")
	auditListCmd.Flags().StringVarP(&auditFlags.output, "output", "o", "", "output file (default: stdout)")
}

// auditConfig reads the audit section without validating the rest of the
// configuration, so the trail can be read on a host without provider
// credentials.
func auditConfig() (*config.AuditConfig, error) {
	cfg := config.Default()

	data, err := os.ReadFile(cfgFile)
	switch {
	case err == nil:
		if cfg, err = config.Parse(data); err != nil {
			return nil, cli.NewConfigError(cfgFile, err.Error())
		}
	case !errors.Is(err, fs.ErrNotExist):
		return nil, cli.NewConfigError("--config", err.Error())
	}

	ac := cfg.Audit
	ac.Backend = "sqlite"
	if auditFlags.db != "" {
		ac.SQLite.Path = auditFlags.db
	}
	if auditFlags.driver != "" {
		ac.SQLite.Driver = auditFlags.driver
	}
	return &ac, nil
}

func openAuditStorage() (audit.Storage, *config.AuditConfig, error) {
	ac, err := auditConfig()
	if err != nil {
		return nil, nil, err
	}
	if _, err := os.Stat(ac.SQLite.Path); err != nil {
		return nil, nil, fmt.Errorf("audit database %s: %w", ac.SQLite.Path, err)
	}

	store, err := storage.New(ac)
	if err != nil {
		return nil, nil, err
	}
	return store, ac, nil
}

func listAudit(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(auditFlags.format)
	if err != nil {
		return err
	}

	store, _, err := openAuditStorage()
	if err != nil {
		return cli.NewCommandError("audit list", err)
	}
	defer store.Close()

	query := &audit.Query{
		Operation: auditFlags.operation,
		Status:    auditFlags.status,
		Limit:     auditFlags.limit,
		Offset:    auditFlags.offset,
	}
	if auditFlags.since > 0 {
		start := time.Now().Add(-auditFlags.since)
		query.StartTime = &start
	}

	records, err := store.Query(cmd.Context(), query)
	if err != nil {
		return cli.NewCommandError("audit list", err)
	}

	var out io.Writer = cmd.OutOrStdout()
	if auditFlags.output != "" {
		f, err := os.Create(auditFlags.output)
		if err != nil {
			return cli.NewCommandError("audit list", err)
		}
		defer f.Close()
		out = f
	}

	if err := cli.NewFormatter(format).FormatTo(out, recordTable(records)); err != nil {
		return cli.NewCommandError("audit list", err)
	}
	if auditFlags.output != "" {
		cli.NewPrinter(cmd.OutOrStdout()).Success("Wrote %d records to %s", len(records), auditFlags.output)
	}
	return nil
}

func pruneAudit(cmd *cobra.Command, args []string) error {
	store, ac, err := openAuditStorage()
	if err != nil {
		return cli.NewCommandError("audit prune", err)
	}
	defer store.Close()

	deleted, err := retention.NewPruner(store, retention.FromConfig(ac.Retention)).Prune(cmd.Context())
	if err != nil {
		return cli.NewCommandError("audit prune", err)
	}

	cli.NewPrinter(cmd.OutOrStdout()).Success("Deleted %d audit records", deleted)
	return nil
}

// recordTable renders audit records as rows; it marshals to JSON as a
// plain array.
type recordTable []*audit.Record

func (t recordTable) Header() []string {
	return []string{"TIME", "REQUEST_ID", "OPERATION", "STATUS", "MSG_LEN", "REPLY_LEN", "TURNS", "TOKENS", "LATENCY"}
}

func (t recordTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, r := range t {
		rows = append(rows, []string{
			r.Timestamp.UTC().Format(time.RFC3339),
			r.RequestID,
			r.Operation,
			r.Status,
			strconv.Itoa(r.MessageLength),
			strconv.Itoa(r.ReplyLength),
			strconv.Itoa(r.TranscriptTurns),
			strconv.Itoa(r.TotalTokens),
			r.Duration.Round(time.Millisecond).String(),
		})
	}
	return rows
}
