package storage

import (
	"context"
	"fmt"
)

// Record is a single persisted ledger entry. Payload holds the canonical
// JSON encoding of the typed payload; the timestamp is kept as the exact
// RFC 3339 string that participated in the hash so that reloading a store
// reproduces hashes byte for byte.
type Record struct {
	Sequence  uint64
	Timestamp string
	EventType string
	AgentDID  string
	Payload   []byte
	PrevHash  string
	Hash      string
}

// Store is an append-only record store. Implementations must reject
// duplicate sequences and must never mutate or delete a stored record.
type Store interface {
	// Append persists a record. It fails if a record with the same
	// sequence already exists.
	Append(ctx context.Context, rec *Record) error

	// Count returns the number of stored records.
	Count(ctx context.Context) (uint64, error)

	// List returns all records in ascending sequence order.
	List(ctx context.Context) ([]*Record, error)

	// Recent returns the last n records in ascending sequence order.
	// Fewer records are returned if the store holds fewer than n.
	Recent(ctx context.Context, n int) ([]*Record, error)

	// Tail returns the record with the highest sequence, or nil if the
	// store is empty.
	Tail(ctx context.Context) (*Record, error)

	// Close releases store resources.
	Close() error
}

// StorageError represents an error from a storage backend.
type StorageError struct {
	Backend   string // Storage backend type ("sqlite", "memory")
	Operation string // Operation that failed ("append", "list", "count", ...)
	Cause     error  // Underlying error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("ledger storage error [backend=%s, operation=%s]: %v", e.Backend, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError creates a new StorageError.
func NewStorageError(backend, operation string, cause error) *StorageError {
	return &StorageError{Backend: backend, Operation: operation, Cause: cause}
}
