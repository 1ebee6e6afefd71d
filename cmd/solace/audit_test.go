package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"mercator-hq/solace/pkg/audit"
	"mercator-hq/solace/pkg/audit/storage"
)

func seedAuditDB(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "audit.db")
	cfg := storage.DefaultSQLiteConfig()
	cfg.Path = path
	store, err := storage.NewSQLiteStorage(cfg)
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	defer store.Close()

	now := time.Now()
	records := []*audit.Record{
		{ID: "old", RequestID: "req-old", Timestamp: now.Add(-90 * 24 * time.Hour), Operation: "send", Status: "success", MessageLength: 5},
		{ID: "fail", RequestID: "req-fail", Timestamp: now.Add(-2 * time.Hour), Operation: "send", Status: "upstream_error", MessageLength: 7},
		{ID: "ok", RequestID: "req-ok", Timestamp: now.Add(-time.Hour), Operation: "send", Status: "success", MessageLength: 9, TotalTokens: 42},
	}
	for _, r := range records {
		if err := store.Store(context.Background(), r); err != nil {
			t.Fatalf("failed to store record: %v", err)
		}
	}
	return path
}

func withAuditFlags(t *testing.T, db string) {
	t.Helper()
	orig := auditFlags
	t.Cleanup(func() { auditFlags = orig })

	auditFlags = orig
	auditFlags.db = db
	auditFlags.limit = 100
	auditFlags.format = "text"
	withConfigFile(t, filepath.Join(t.TempDir(), "missing.yaml"))
}

func TestAuditList_Text(t *testing.T) {
	withAuditFlags(t, seedAuditDB(t))

	cmd, buf := newTestCommand()
	if err := listAudit(cmd, nil); err != nil {
		t.Fatalf("audit list failed: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want header + 3:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "TIME") {
		t.Errorf("header = %q", lines[0])
	}
	// Newest first
	if !strings.Contains(lines[1], "req-ok") || !strings.Contains(lines[3], "req-old") {
		t.Errorf("unexpected order:\n%s", buf.String())
	}
}

func TestAuditList_FiltersJSON(t *testing.T) {
	withAuditFlags(t, seedAuditDB(t))
	auditFlags.since = 24 * time.Hour
	auditFlags.status = "success"
	auditFlags.format = "json"

	cmd, buf := newTestCommand()
	if err := listAudit(cmd, nil); err != nil {
		t.Fatalf("audit list failed: %v", err)
	}

	var got []audit.Record
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if len(got) != 1 || got[0].ID != "ok" || got[0].TotalTokens != 42 {
		t.Errorf("got %+v", got)
	}
}

func TestAuditList_CSVToFile(t *testing.T) {
	withAuditFlags(t, seedAuditDB(t))
	auditFlags.format = "csv"
	auditFlags.output = filepath.Join(t.TempDir(), "audit.csv")

	cmd, buf := newTestCommand()
	if err := listAudit(cmd, nil); err != nil {
		t.Fatalf("audit list failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Wrote 3 records") {
		t.Errorf("output = %q", buf.String())
	}

	f, err := os.Open(auditFlags.output)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}
	if len(rows) != 4 || rows[0][1] != "REQUEST_ID" {
		t.Errorf("rows = %v", rows)
	}
}

func TestAuditList_BadFormat(t *testing.T) {
	withAuditFlags(t, seedAuditDB(t))
	auditFlags.format = "xml"

	cmd, _ := newTestCommand()
	if err := listAudit(cmd, nil); err == nil {
		t.Error("expected an error for an unknown format")
	}
}

func TestAuditList_MissingDatabase(t *testing.T) {
	withAuditFlags(t, filepath.Join(t.TempDir(), "nope.db"))

	cmd, _ := newTestCommand()
	if err := listAudit(cmd, nil); err == nil {
		t.Error("expected an error for a missing database")
	}
}

func TestAuditPrune(t *testing.T) {
	db := seedAuditDB(t)
	withAuditFlags(t, db)

	cmd, buf := newTestCommand()
	if err := pruneAudit(cmd, nil); err != nil {
		t.Fatalf("audit prune failed: %v", err)
	}
	// Default retention is 30 days
	if !strings.Contains(buf.String(), "Deleted 1 audit records") {
		t.Errorf("output = %q", buf.String())
	}

	buf.Reset()
	if err := listAudit(cmd, nil); err != nil {
		t.Fatalf("audit list failed: %v", err)
	}
	if strings.Contains(buf.String(), "req-old") {
		t.Errorf("old record survived pruning:\n%s", buf.String())
	}
}
