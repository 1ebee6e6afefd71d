package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"mercator-hq/solace/pkg/audit"
)

// MemoryStorage implements the audit Storage interface in memory.
// It is the default backend and is used in tests.
// Records are lost when the process exits.
type MemoryStorage struct {
	records map[string]*audit.Record
	mu      sync.RWMutex
	closed  bool
}

// NewMemoryStorage creates a new in-memory storage backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		records: make(map[string]*audit.Record),
	}
}

// Store stores a copy of the record in memory.
func (s *MemoryStorage) Store(ctx context.Context, record *audit.Record) error {
	if record == nil {
		return audit.NewStorageError("memory", "store", fmt.Errorf("record is nil"))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return audit.NewStorageError("memory", "store", fmt.Errorf("storage is closed"))
	}

	stored := *record
	s.records[record.ID] = &stored
	return nil
}

// Query returns copies of the records matching the query.
func (s *MemoryStorage) Query(ctx context.Context, query *audit.Query) ([]*audit.Record, error) {
	if query == nil {
		query = &audit.Query{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, audit.NewStorageError("memory", "query", fmt.Errorf("storage is closed"))
	}

	results := make([]*audit.Record, 0)
	for _, record := range s.records {
		if matchesQuery(record, query) {
			cp := *record
			results = append(results, &cp)
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if query.Ascending {
			return results[i].Timestamp.Before(results[j].Timestamp)
		}
		return results[i].Timestamp.After(results[j].Timestamp)
	})

	if query.Offset > 0 {
		if query.Offset >= len(results) {
			return []*audit.Record{}, nil
		}
		results = results[query.Offset:]
	}
	if query.Limit > 0 && query.Limit < len(results) {
		results = results[:query.Limit]
	}

	return results, nil
}

// Count returns the number of records matching the query.
func (s *MemoryStorage) Count(ctx context.Context, query *audit.Query) (int64, error) {
	if query == nil {
		query = &audit.Query{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, audit.NewStorageError("memory", "count", fmt.Errorf("storage is closed"))
	}

	var count int64
	for _, record := range s.records {
		if matchesQuery(record, query) {
			count++
		}
	}
	return count, nil
}

// Delete removes the records matching the query.
func (s *MemoryStorage) Delete(ctx context.Context, query *audit.Query) (int64, error) {
	if query == nil {
		query = &audit.Query{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, audit.NewStorageError("memory", "delete", fmt.Errorf("storage is closed"))
	}

	var deleted int64
	for id, record := range s.records {
		if matchesQuery(record, query) {
			delete(s.records, id)
			deleted++
		}
	}
	return deleted, nil
}

// Ping reports an error once the storage is closed.
func (s *MemoryStorage) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return audit.NewStorageError("memory", "ping", fmt.Errorf("storage is closed"))
	}
	return nil
}

// Close marks the storage closed and drops all records.
func (s *MemoryStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.records = make(map[string]*audit.Record)
	return nil
}

func matchesQuery(record *audit.Record, query *audit.Query) bool {
	if query.StartTime != nil && record.Timestamp.Before(*query.StartTime) {
		return false
	}
	if query.EndTime != nil && record.Timestamp.After(*query.EndTime) {
		return false
	}
	if query.Operation != "" && record.Operation != query.Operation {
		return false
	}
	if query.Status != "" && record.Status != query.Status {
		return false
	}
	return true
}
