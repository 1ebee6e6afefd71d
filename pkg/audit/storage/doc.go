// Package storage provides audit storage backends.
//
// MemoryStorage keeps records in a map and is the default. SQLiteStorage
// persists them through either SQLite driver: "sqlite" (modernc.org/sqlite,
// pure Go) or "sqlite3" (github.com/mattn/go-sqlite3, cgo).
package storage
