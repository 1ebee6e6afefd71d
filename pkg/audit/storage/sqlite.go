package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"mercator-hq/solace/pkg/audit"
)

// Driver names registered by the two SQLite implementations.
const (
	DriverModernc = "sqlite"  // modernc.org/sqlite, pure Go
	DriverCGO     = "sqlite3" // github.com/mattn/go-sqlite3, requires cgo
)

// SQLiteConfig contains configuration for the SQLite storage backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// Driver selects the database/sql driver: "sqlite" or "sqlite3".
	// Default: "sqlite"
	Driver string

	// MaxOpenConns is the maximum number of open connections.
	// Default: 4
	MaxOpenConns int

	// WALMode enables Write-Ahead Logging.
	// Default: true
	WALMode bool

	// BusyTimeout is how long a connection waits on a locked database.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/audit.db",
		Driver:       DriverModernc,
		MaxOpenConns: 4,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStorage implements the audit Storage interface on SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStorage opens the database, applies pragmas and creates the schema.
func NewSQLiteStorage(config *SQLiteConfig) (*SQLiteStorage, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}
	if config.Driver == "" {
		config.Driver = DriverModernc
	}
	if config.MaxOpenConns <= 0 {
		config.MaxOpenConns = 4
	}
	if config.BusyTimeout <= 0 {
		config.BusyTimeout = 5 * time.Second
	}

	dsn, err := buildDSN(config)
	if err != nil {
		return nil, audit.NewStorageError("sqlite", "open", err)
	}

	db, err := sql.Open(config.Driver, dsn)
	if err != nil {
		return nil, audit.NewStorageError("sqlite", "open", err)
	}
	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxOpenConns)

	s := &SQLiteStorage{
		db:     db,
		config: config,
		logger: slog.Default().With("component", "audit.storage.sqlite", "driver", config.Driver),
	}

	if config.WALMode {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, audit.NewStorageError("sqlite", "enable_wal", err)
		}
	}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	s.logger.Info("sqlite audit storage initialized",
		"path", config.Path,
		"wal_mode", config.WALMode)

	return s, nil
}

// buildDSN sets the busy timeout on every pooled connection. The two
// drivers spell connection pragmas differently.
func buildDSN(config *SQLiteConfig) (string, error) {
	if config.Path == "" {
		return "", fmt.Errorf("database path is required")
	}
	ms := config.BusyTimeout.Milliseconds()

	switch config.Driver {
	case DriverModernc:
		return fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)", config.Path, ms), nil
	case DriverCGO:
		return fmt.Sprintf("file:%s?_busy_timeout=%d", config.Path, ms), nil
	default:
		return "", fmt.Errorf("unsupported sqlite driver %q", config.Driver)
	}
}

func (s *SQLiteStorage) initSchema() error {
	if _, err := s.db.Exec(schema); err != nil {
		return audit.NewStorageError("sqlite", "init_schema", err)
	}

	var version int
	err := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version)
	if err != nil {
		return audit.NewStorageError("sqlite", "check_schema_version", err)
	}

	if version < SchemaVersion {
		_, err := s.db.Exec("INSERT INTO schema_version (version, applied_at) VALUES (?, ?)",
			SchemaVersion, time.Now().UnixNano())
		if err != nil {
			return audit.NewStorageError("sqlite", "record_schema_version", err)
		}
		s.logger.Info("audit schema initialized", "version", SchemaVersion)
	}

	return nil
}

// Store inserts a record.
func (s *SQLiteStorage) Store(ctx context.Context, record *audit.Record) error {
	if record == nil {
		return audit.NewStorageError("sqlite", "store", fmt.Errorf("record is nil"))
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO audit_records ("+recordColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		record.ID,
		record.RequestID,
		record.Timestamp.UnixNano(),
		record.Operation,
		record.Status,
		record.Provider,
		record.Model,
		record.MessageLength,
		record.ReplyLength,
		record.TranscriptTurns,
		record.Truncated,
		record.PromptTokens,
		record.CompletionTokens,
		record.TotalTokens,
		int64(record.ProviderLatency),
		int64(record.Duration),
		record.ErrorType,
	)
	if err != nil {
		return audit.NewStorageError("sqlite", "store", err)
	}
	return nil
}

// Query returns records matching the query.
func (s *SQLiteStorage) Query(ctx context.Context, query *audit.Query) ([]*audit.Record, error) {
	if query == nil {
		query = &audit.Query{}
	}

	where, args := buildWhereClause(query)

	var sb strings.Builder
	sb.WriteString("SELECT " + recordColumns + " FROM audit_records")
	sb.WriteString(where)
	if query.Ascending {
		sb.WriteString(" ORDER BY timestamp_ns ASC")
	} else {
		sb.WriteString(" ORDER BY timestamp_ns DESC")
	}

	// SQLite needs a LIMIT before OFFSET; -1 means no limit
	if query.Limit > 0 || query.Offset > 0 {
		limit := query.Limit
		if limit <= 0 {
			limit = -1
		}
		sb.WriteString(" LIMIT ? OFFSET ?")
		args = append(args, limit, query.Offset)
	}

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, audit.NewStorageError("sqlite", "query", err)
	}
	defer rows.Close()

	results := make([]*audit.Record, 0)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, audit.NewStorageError("sqlite", "scan", err)
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, audit.NewStorageError("sqlite", "query", err)
	}

	return results, nil
}

// Count returns the number of records matching the query.
func (s *SQLiteStorage) Count(ctx context.Context, query *audit.Query) (int64, error) {
	if query == nil {
		query = &audit.Query{}
	}

	where, args := buildWhereClause(query)

	var count int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM audit_records"+where, args...).Scan(&count); err != nil {
		return 0, audit.NewStorageError("sqlite", "count", err)
	}
	return count, nil
}

// Delete removes records matching the query.
func (s *SQLiteStorage) Delete(ctx context.Context, query *audit.Query) (int64, error) {
	if query == nil {
		query = &audit.Query{}
	}

	where, args := buildWhereClause(query)

	result, err := s.db.ExecContext(ctx, "DELETE FROM audit_records"+where, args...)
	if err != nil {
		return 0, audit.NewStorageError("sqlite", "delete", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, audit.NewStorageError("sqlite", "delete", err)
	}
	if deleted > 0 {
		s.logger.Info("deleted audit records", "count", deleted)
	}
	return deleted, nil
}

// Ping checks the database connection.
func (s *SQLiteStorage) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return audit.NewStorageError("sqlite", "ping", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStorage) Close() error {
	if err := s.db.Close(); err != nil {
		return audit.NewStorageError("sqlite", "close", err)
	}
	s.logger.Info("sqlite audit storage closed")
	return nil
}

func buildWhereClause(query *audit.Query) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if query.StartTime != nil {
		conditions = append(conditions, "timestamp_ns >= ?")
		args = append(args, query.StartTime.UnixNano())
	}
	if query.EndTime != nil {
		conditions = append(conditions, "timestamp_ns <= ?")
		args = append(args, query.EndTime.UnixNano())
	}
	if query.Operation != "" {
		conditions = append(conditions, "operation = ?")
		args = append(args, query.Operation)
	}
	if query.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, query.Status)
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func scanRecord(rows *sql.Rows) (*audit.Record, error) {
	var (
		record      audit.Record
		timestampNs int64
		latencyNs   int64
		durationNs  int64
	)

	err := rows.Scan(
		&record.ID,
		&record.RequestID,
		&timestampNs,
		&record.Operation,
		&record.Status,
		&record.Provider,
		&record.Model,
		&record.MessageLength,
		&record.ReplyLength,
		&record.TranscriptTurns,
		&record.Truncated,
		&record.PromptTokens,
		&record.CompletionTokens,
		&record.TotalTokens,
		&latencyNs,
		&durationNs,
		&record.ErrorType,
	)
	if err != nil {
		return nil, err
	}

	record.Timestamp = time.Unix(0, timestampNs).UTC()
	record.ProviderLatency = time.Duration(latencyNs)
	record.Duration = time.Duration(durationNs)
	return &record, nil
}
