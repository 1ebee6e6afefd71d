package storage

import (
	"fmt"

	"mercator-hq/solace/pkg/audit"
	"mercator-hq/solace/pkg/config"
)

// New creates the storage backend named in the audit configuration.
func New(cfg *config.AuditConfig) (audit.Storage, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemoryStorage(), nil
	case "sqlite":
		return NewSQLiteStorage(&SQLiteConfig{
			Path:         cfg.SQLite.Path,
			Driver:       cfg.SQLite.Driver,
			MaxOpenConns: cfg.SQLite.MaxOpenConns,
			WALMode:      cfg.SQLite.WALMode,
			BusyTimeout:  cfg.SQLite.BusyTimeout,
		})
	default:
		return nil, fmt.Errorf("unsupported audit backend %q", cfg.Backend)
	}
}
