package storage

import (
	"context"
	"testing"
)

func testRecord(seq uint64, hash string) *Record {
	return &Record{
		Sequence:  seq,
		Timestamp: "2026-08-30T12:00:00Z",
		EventType: "test.event",
		AgentDID:  "did:aegis:test",
		Payload:   []byte(`{"n":1}`),
		PrevHash:  "prev",
		Hash:      hash,
	}
}

// TestMemoryStore_AppendAndList tests basic append and ordered listing.
func TestMemoryStore_AppendAndList(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	for i := uint64(1); i <= 3; i++ {
		if err := store.Append(ctx, testRecord(i, "h")); err != nil {
			t.Fatalf("Append() failed: %v", err)
		}
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count() failed: %v", err)
	}
	if count != 3 {
		t.Errorf("Expected 3 records, got %d", count)
	}

	records, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	for i, rec := range records {
		if rec.Sequence != uint64(i+1) {
			t.Errorf("Expected sequence %d at position %d, got %d", i+1, i, rec.Sequence)
		}
	}
}

// TestMemoryStore_RejectsDuplicateSequence tests that appending an existing
// sequence fails.
func TestMemoryStore_RejectsDuplicateSequence(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.Append(ctx, testRecord(1, "h1")); err != nil {
		t.Fatalf("Append() failed: %v", err)
	}
	if err := store.Append(ctx, testRecord(1, "h2")); err == nil {
		t.Error("Expected error appending duplicate sequence, got nil")
	}
}

// TestMemoryStore_Tail tests tail retrieval on empty and populated stores.
func TestMemoryStore_Tail(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	tail, err := store.Tail(ctx)
	if err != nil {
		t.Fatalf("Tail() failed: %v", err)
	}
	if tail != nil {
		t.Errorf("Expected nil tail on empty store, got %+v", tail)
	}

	if err := store.Append(ctx, testRecord(1, "h1")); err != nil {
		t.Fatalf("Append() failed: %v", err)
	}
	if err := store.Append(ctx, testRecord(2, "h2")); err != nil {
		t.Fatalf("Append() failed: %v", err)
	}

	tail, err = store.Tail(ctx)
	if err != nil {
		t.Fatalf("Tail() failed: %v", err)
	}
	if tail == nil || tail.Sequence != 2 {
		t.Errorf("Expected tail sequence 2, got %+v", tail)
	}
}

// TestMemoryStore_Recent tests recent-window retrieval.
func TestMemoryStore_Recent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	for i := uint64(1); i <= 5; i++ {
		if err := store.Append(ctx, testRecord(i, "h")); err != nil {
			t.Fatalf("Append() failed: %v", err)
		}
	}

	tests := []struct {
		name      string
		n         int
		wantLen   int
		wantFirst uint64
	}{
		{name: "window smaller than store", n: 2, wantLen: 2, wantFirst: 4},
		{name: "window larger than store", n: 10, wantLen: 5, wantFirst: 1},
		{name: "zero window", n: 0, wantLen: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := store.Recent(ctx, tt.n)
			if err != nil {
				t.Fatalf("Recent() failed: %v", err)
			}
			if len(records) != tt.wantLen {
				t.Fatalf("Expected %d records, got %d", tt.wantLen, len(records))
			}
			if tt.wantLen > 0 && records[0].Sequence != tt.wantFirst {
				t.Errorf("Expected first sequence %d, got %d", tt.wantFirst, records[0].Sequence)
			}
		})
	}
}

// TestMemoryStore_CopiesRecords tests that callers cannot mutate stored
// history through returned records.
func TestMemoryStore_CopiesRecords(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.Append(ctx, testRecord(1, "h1")); err != nil {
		t.Fatalf("Append() failed: %v", err)
	}

	records, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	records[0].Hash = "forged"
	records[0].Payload[0] = 'X'

	fresh, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if fresh[0].Hash != "h1" {
		t.Errorf("Stored hash mutated through returned record: %q", fresh[0].Hash)
	}
	if fresh[0].Payload[0] == 'X' {
		t.Error("Stored payload mutated through returned record")
	}
}
