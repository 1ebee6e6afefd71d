// Package audit keeps a metadata-only trail of conversation operations.
//
// Recorder is registered as a conversation.Observer. For each send or clear
// it builds a Record holding the outcome, sizes, token usage and latency, and
// hands it to a background writer. No message or reply text is stored.
//
//	store, err := storage.NewSQLiteStorage(&storage.SQLiteConfig{Path: "data/audit.db"})
//	recorder := audit.NewRecorder(store, audit.RecorderConfig{BufferSize: 1000})
//	defer recorder.Close()
//
// Storage backends live in pkg/audit/storage and retention pruning in
// pkg/audit/retention.
package audit
