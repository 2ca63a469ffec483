package storage

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore is an in-memory Store for tests and ephemeral deployments.
// Records are copied on both append and read so callers cannot mutate
// stored history through shared slices.
type MemoryStore struct {
	mu      sync.RWMutex
	records []*Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Append persists a record.
func (s *MemoryStore) Append(ctx context.Context, rec *Record) error {
	if rec == nil {
		return NewStorageError("memory", "append", fmt.Errorf("record cannot be nil"))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.records {
		if existing.Sequence == rec.Sequence {
			return NewStorageError("memory", "append",
				fmt.Errorf("duplicate sequence %d", rec.Sequence))
		}
	}

	s.records = append(s.records, copyRecord(rec))
	return nil
}

// Count returns the number of stored records.
func (s *MemoryStore) Count(ctx context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return uint64(len(s.records)), nil
}

// List returns all records in ascending sequence order.
func (s *MemoryStore) List(ctx context.Context) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Record, len(s.records))
	for i, rec := range s.records {
		out[i] = copyRecord(rec)
	}
	return out, nil
}

// Recent returns the last n records in ascending sequence order.
func (s *MemoryStore) Recent(ctx context.Context, n int) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n <= 0 {
		return nil, nil
	}
	start := len(s.records) - n
	if start < 0 {
		start = 0
	}

	out := make([]*Record, 0, len(s.records)-start)
	for _, rec := range s.records[start:] {
		out = append(out, copyRecord(rec))
	}
	return out, nil
}

// Tail returns the most recently appended record, or nil if empty.
func (s *MemoryStore) Tail(ctx context.Context) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.records) == 0 {
		return nil, nil
	}
	return copyRecord(s.records[len(s.records)-1]), nil
}

// Close releases store resources. It is a no-op for the memory store.
func (s *MemoryStore) Close() error {
	return nil
}

func copyRecord(rec *Record) *Record {
	dup := *rec
	dup.Payload = make([]byte, len(rec.Payload))
	copy(dup.Payload, rec.Payload)
	return &dup
}
