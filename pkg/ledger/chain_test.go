package ledger

import (
	"context"
	"errors"
	"testing"

	"aegis-hq/aegis/pkg/ledger/storage"
	"aegis-hq/aegis/pkg/secrets"
)

type notePayload struct {
	Note string `json:"note"`
	Seq  int    `json:"seq"`
}

func newTestChain(t *testing.T) (*Chain[notePayload], *storage.MemoryStore) {
	t.Helper()

	store := storage.NewMemoryStore()
	provider := secrets.NewStaticProvider(map[string]string{
		"ledger-secret": "test-chain-secret",
	})

	chain := New[notePayload](store, provider, "ledger-secret")
	if err := chain.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() failed: %v", err)
	}
	return chain, store
}

// TestChain_GenesisOnInitialize tests that a fresh chain contains exactly
// the genesis entry after initialization.
func TestChain_GenesisOnInitialize(t *testing.T) {
	chain, _ := newTestChain(t)

	count, err := chain.EntryCount(context.Background())
	if err != nil {
		t.Fatalf("EntryCount() failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 entry after initialize, got %d", count)
	}

	entries, err := chain.RecentEntries(context.Background(), 1)
	if err != nil {
		t.Fatalf("RecentEntries() failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 recent entry, got %d", len(entries))
	}
	if entries[0].EventType != GenesisEventType {
		t.Errorf("Expected genesis event type %q, got %q", GenesisEventType, entries[0].EventType)
	}
	if entries[0].Sequence != 1 {
		t.Errorf("Expected genesis sequence 1, got %d", entries[0].Sequence)
	}
}

// TestChain_AppendLinksToTail tests that appended entries chain from the
// current tail and that the full chain verifies.
func TestChain_AppendLinksToTail(t *testing.T) {
	chain, _ := newTestChain(t)
	ctx := context.Background()

	first, err := chain.Append(ctx, "test.event", "did:aegis:test", notePayload{Note: "one", Seq: 1})
	if err != nil {
		t.Fatalf("Append() failed: %v", err)
	}
	second, err := chain.Append(ctx, "test.event", "did:aegis:test", notePayload{Note: "two", Seq: 2})
	if err != nil {
		t.Fatalf("Append() failed: %v", err)
	}

	if first.Sequence != 2 || second.Sequence != 3 {
		t.Errorf("Expected sequences 2 and 3, got %d and %d", first.Sequence, second.Sequence)
	}
	if second.PrevHash != first.Hash {
		t.Errorf("Second entry prev hash %q does not match first entry hash %q",
			second.PrevHash, first.Hash)
	}

	count, err := chain.EntryCount(ctx)
	if err != nil {
		t.Fatalf("EntryCount() failed: %v", err)
	}
	if count != 3 {
		t.Errorf("Expected 3 entries, got %d", count)
	}

	intact, err := chain.VerifyChain(ctx)
	if err != nil {
		t.Fatalf("VerifyChain() failed: %v", err)
	}
	if !intact {
		t.Error("Expected untampered chain to verify")
	}
}

// TestChain_AppendRequiresInitialize tests that appends before Initialize
// fail with NotInitializedError.
func TestChain_AppendRequiresInitialize(t *testing.T) {
	store := storage.NewMemoryStore()
	provider := secrets.NewStaticProvider(map[string]string{"ledger-secret": "s"})
	chain := New[notePayload](store, provider, "ledger-secret")

	_, err := chain.Append(context.Background(), "test.event", "did:aegis:test", notePayload{})
	if err == nil {
		t.Fatal("Expected error appending to uninitialized chain, got nil")
	}
	var notInit *NotInitializedError
	if !errors.As(err, &notInit) {
		t.Errorf("Expected NotInitializedError, got %T: %v", err, err)
	}
}

// TestChain_VerifyDetectsTamper tests that altering any persisted field
// breaks full-chain verification at the altered entry.
func TestChain_VerifyDetectsTamper(t *testing.T) {
	tests := []struct {
		name   string
		tamper func(rec *storage.Record)
	}{
		{
			name: "payload modified",
			tamper: func(rec *storage.Record) {
				rec.Payload = []byte(`{"note":"forged","seq":2}`)
			},
		},
		{
			name: "agent did modified",
			tamper: func(rec *storage.Record) {
				rec.AgentDID = "did:aegis:intruder"
			},
		},
		{
			name: "timestamp modified",
			tamper: func(rec *storage.Record) {
				rec.Timestamp = "2026-01-01T00:00:00Z"
			},
		},
		{
			name: "hash replaced",
			tamper: func(rec *storage.Record) {
				rec.Hash = "0000000000000000000000000000000000000000000000000000000000000000"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			chain, store := newTestChain(t)

			for i := 1; i <= 3; i++ {
				if _, err := chain.Append(ctx, "test.event", "did:aegis:test", notePayload{Note: "n", Seq: i}); err != nil {
					t.Fatalf("Append() failed: %v", err)
				}
			}

			records, err := store.List(ctx)
			if err != nil {
				t.Fatalf("List() failed: %v", err)
			}
			tt.tamper(records[2])

			forged := storage.NewMemoryStore()
			for _, rec := range records {
				if err := forged.Append(ctx, rec); err != nil {
					t.Fatalf("Append() to forged store failed: %v", err)
				}
			}

			provider := secrets.NewStaticProvider(map[string]string{
				"ledger-secret": "test-chain-secret",
			})
			reopened := New[notePayload](forged, provider, "ledger-secret")
			if err := reopened.Initialize(ctx); err != nil {
				t.Fatalf("Initialize() on forged store failed: %v", err)
			}

			err = reopened.Verify(ctx)
			if err == nil {
				t.Fatal("Expected verification failure on tampered chain, got nil")
			}
			var integrity *IntegrityError
			if !errors.As(err, &integrity) {
				t.Fatalf("Expected IntegrityError, got %T: %v", err, err)
			}
			if integrity.Sequence != 3 {
				t.Errorf("Expected failure at sequence 3, got %d", integrity.Sequence)
			}

			intact, err := reopened.VerifyChain(ctx)
			if err != nil {
				t.Fatalf("VerifyChain() failed: %v", err)
			}
			if intact {
				t.Error("Expected tampered chain to fail verification")
			}
		})
	}
}

// TestChain_VerifyDetectsWrongSecret tests that a chain written with one
// secret does not verify under another.
func TestChain_VerifyDetectsWrongSecret(t *testing.T) {
	ctx := context.Background()
	chain, store := newTestChain(t)

	if _, err := chain.Append(ctx, "test.event", "did:aegis:test", notePayload{Note: "n", Seq: 1}); err != nil {
		t.Fatalf("Append() failed: %v", err)
	}

	provider := secrets.NewStaticProvider(map[string]string{
		"ledger-secret": "a-different-secret",
	})
	reopened := New[notePayload](store, provider, "ledger-secret")
	if err := reopened.Initialize(ctx); err != nil {
		t.Fatalf("Initialize() failed: %v", err)
	}

	intact, err := reopened.VerifyChain(ctx)
	if err != nil {
		t.Fatalf("VerifyChain() failed: %v", err)
	}
	if intact {
		t.Error("Expected chain to fail verification under a different secret")
	}
}

// TestChain_ReopenPreservesChain tests that a chain reopened over existing
// records does not write a second genesis and still verifies.
func TestChain_ReopenPreservesChain(t *testing.T) {
	ctx := context.Background()
	chain, store := newTestChain(t)

	if _, err := chain.Append(ctx, "test.event", "did:aegis:test", notePayload{Note: "n", Seq: 1}); err != nil {
		t.Fatalf("Append() failed: %v", err)
	}

	provider := secrets.NewStaticProvider(map[string]string{
		"ledger-secret": "test-chain-secret",
	})
	reopened := New[notePayload](store, provider, "ledger-secret")
	if err := reopened.Initialize(ctx); err != nil {
		t.Fatalf("Initialize() failed: %v", err)
	}

	count, err := reopened.EntryCount(ctx)
	if err != nil {
		t.Fatalf("EntryCount() failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 entries after reopen, got %d", count)
	}

	intact, err := reopened.VerifyChain(ctx)
	if err != nil {
		t.Fatalf("VerifyChain() failed: %v", err)
	}
	if !intact {
		t.Error("Expected reopened chain to verify")
	}
}
