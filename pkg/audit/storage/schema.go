package storage

// SchemaVersion is the current audit schema version.
const SchemaVersion = 1

// Timestamps and durations are stored as integer nanoseconds so both SQLite
// drivers read them back identically.
const schema = `
CREATE TABLE IF NOT EXISTS audit_records (
    id TEXT PRIMARY KEY,
    request_id TEXT NOT NULL DEFAULT '',
    timestamp_ns INTEGER NOT NULL,
    operation TEXT NOT NULL,
    status TEXT NOT NULL,
    provider TEXT NOT NULL DEFAULT '',
    model TEXT NOT NULL DEFAULT '',
    message_length INTEGER NOT NULL DEFAULT 0,
    reply_length INTEGER NOT NULL DEFAULT 0,
    transcript_turns INTEGER NOT NULL DEFAULT 0,
    truncated INTEGER NOT NULL DEFAULT 0,
    prompt_tokens INTEGER NOT NULL DEFAULT 0,
    completion_tokens INTEGER NOT NULL DEFAULT 0,
    total_tokens INTEGER NOT NULL DEFAULT 0,
    provider_latency_ns INTEGER NOT NULL DEFAULT 0,
    duration_ns INTEGER NOT NULL DEFAULT 0,
    error_type TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_audit_timestamp ON audit_records(timestamp_ns);
CREATE INDEX IF NOT EXISTS idx_audit_status ON audit_records(status);
CREATE INDEX IF NOT EXISTS idx_audit_operation ON audit_records(operation);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at INTEGER NOT NULL
);
`

const recordColumns = `id, request_id, timestamp_ns, operation, status, provider, model,
    message_length, reply_length, transcript_turns, truncated,
    prompt_tokens, completion_tokens, total_tokens,
    provider_latency_ns, duration_ns, error_type`
