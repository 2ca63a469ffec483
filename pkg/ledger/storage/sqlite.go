package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Schema contains the SQL statements to create the ledger schema.
//
// The table is append-only by construction: the only statements this
// backend ever issues against it are INSERT and SELECT.
const Schema = `
CREATE TABLE IF NOT EXISTS ledger_entries (
    sequence   INTEGER PRIMARY KEY,
    timestamp  TEXT NOT NULL,
    event_type TEXT NOT NULL,
    agent_did  TEXT NOT NULL,
    payload    BLOB NOT NULL,
    prev_hash  TEXT NOT NULL,
    hash       TEXT NOT NULL
);
`

// SQLiteConfig contains configuration for the SQLite storage backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:        "data/ledger.db",
		BusyTimeout: 5 * time.Second,
	}
}

// SQLiteStore implements Store using SQLite. A single connection is used:
// the ledger is single-writer by design and WAL mode keeps readers cheap.
type SQLiteStore struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStore opens (creating if necessary) the ledger database at the
// configured path and initializes the schema.
func NewSQLiteStore(config *SQLiteConfig) (*SQLiteStore, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}

	logger := slog.Default().With("component", "ledger.storage.sqlite")

	if dir := filepath.Dir(config.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, NewStorageError("sqlite", "mkdir", err)
		}
	}

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, NewStorageError("sqlite", "open", err)
	}

	s := &SQLiteStore{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite ledger store initialized", "path", config.Path)

	return s, nil
}

// initialize enables WAL mode, sets the busy timeout, and creates the
// schema.
func (s *SQLiteStore) initialize() error {
	if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return NewStorageError("sqlite", "enable_wal", err)
	}

	busyTimeoutMs := s.config.BusyTimeout.Milliseconds()
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs)); err != nil {
		return NewStorageError("sqlite", "set_busy_timeout", err)
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return NewStorageError("sqlite", "create_schema", err)
	}

	return nil
}

// Append persists a record. The primary key on sequence rejects duplicates.
func (s *SQLiteStore) Append(ctx context.Context, rec *Record) error {
	if rec == nil {
		return NewStorageError("sqlite", "append", fmt.Errorf("record cannot be nil"))
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO ledger_entries (sequence, timestamp, event_type, agent_did, payload, prev_hash, hash)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.Sequence, rec.Timestamp, rec.EventType, rec.AgentDID, rec.Payload, rec.PrevHash, rec.Hash,
	)
	if err != nil {
		return NewStorageError("sqlite", "append", err)
	}

	return nil
}

// Count returns the number of stored records.
func (s *SQLiteStore) Count(ctx context.Context) (uint64, error) {
	var count uint64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ledger_entries`).Scan(&count)
	if err != nil {
		return 0, NewStorageError("sqlite", "count", err)
	}
	return count, nil
}

// List returns all records in ascending sequence order.
func (s *SQLiteStore) List(ctx context.Context) ([]*Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT sequence, timestamp, event_type, agent_did, payload, prev_hash, hash
		 FROM ledger_entries ORDER BY sequence ASC`)
	if err != nil {
		return nil, NewStorageError("sqlite", "list", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// Recent returns the last n records in ascending sequence order.
func (s *SQLiteStore) Recent(ctx context.Context, n int) ([]*Record, error) {
	if n <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT sequence, timestamp, event_type, agent_did, payload, prev_hash, hash
		 FROM (
		     SELECT * FROM ledger_entries ORDER BY sequence DESC LIMIT ?
		 ) ORDER BY sequence ASC`, n)
	if err != nil {
		return nil, NewStorageError("sqlite", "recent", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// Tail returns the record with the highest sequence, or nil if empty.
func (s *SQLiteStore) Tail(ctx context.Context) (*Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT sequence, timestamp, event_type, agent_did, payload, prev_hash, hash
		 FROM ledger_entries ORDER BY sequence DESC LIMIT 1`)

	rec := &Record{}
	err := row.Scan(&rec.Sequence, &rec.Timestamp, &rec.EventType, &rec.AgentDID,
		&rec.Payload, &rec.PrevHash, &rec.Hash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, NewStorageError("sqlite", "tail", err)
	}

	return rec, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func scanRecords(rows *sql.Rows) ([]*Record, error) {
	var records []*Record
	for rows.Next() {
		rec := &Record{}
		if err := rows.Scan(&rec.Sequence, &rec.Timestamp, &rec.EventType, &rec.AgentDID,
			&rec.Payload, &rec.PrevHash, &rec.Hash); err != nil {
			return nil, NewStorageError("sqlite", "scan", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, NewStorageError("sqlite", "scan", err)
	}
	return records, nil
}
