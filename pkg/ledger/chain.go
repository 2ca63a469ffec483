package ledger

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"aegis-hq/aegis/pkg/ledger/storage"
	"aegis-hq/aegis/pkg/secrets"
)

// GenesisEventType is the event type of the chain's first entry.
const GenesisEventType = "ledger.genesis"

// genesisSeed is the fixed predecessor hash for the genesis entry. It is
// public and constant; tamper evidence comes from the injected secret, not
// from the seed.
const genesisSeed = "aegis.hashchain.genesis.v1"

// Entry is a single hash-chained ledger entry with a typed payload.
type Entry[P any] struct {
	Sequence  uint64    `json:"sequence"`
	Timestamp time.Time `json:"timestamp"`
	EventType string    `json:"event_type"`
	AgentDID  string    `json:"agent_did"`
	Payload   P         `json:"payload"`
	PrevHash  string    `json:"prev_hash"`
	Hash      string    `json:"hash"`
}

// Chain is an append-only hash-chained log with payload type P.
//
// State machine: uninitialized -> initialized (genesis present) ->
// appending. Entries are never removed or rewritten. Appends are strictly
// serialized by an internal mutex so concurrent callers can never break
// the prev-hash linkage.
type Chain[P any] struct {
	store      storage.Store
	provider   secrets.Provider
	secretName string

	// mu serializes the read-tail/compute-hash/append sequence.
	mu          sync.Mutex
	secret      string
	initialized bool

	logger *slog.Logger
}

// New creates a chain over the given store. The chain secret is resolved
// from the provider at Initialize time and cached for the process lifetime;
// rotating the secret requires re-initialization against a fresh store.
func New[P any](store storage.Store, provider secrets.Provider, secretName string) *Chain[P] {
	return &Chain[P]{
		store:      store,
		provider:   provider,
		secretName: secretName,
		logger:     slog.Default().With("component", "ledger.chain"),
	}
}

// Initialize resolves the chain secret and creates the genesis entry if the
// store is empty. After Initialize returns, EntryCount is at least 1.
func (c *Chain[P]) Initialize(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return nil
	}

	secret, err := c.provider.GetSecret(ctx, c.secretName)
	if err != nil {
		return fmt.Errorf("failed to resolve chain secret %q: %w", c.secretName, err)
	}
	c.secret = secret

	count, err := c.store.Count(ctx)
	if err != nil {
		return err
	}

	if count == 0 {
		var zero P
		if _, err := c.appendLocked(ctx, GenesisEventType, "did:aegis:ledger", zero); err != nil {
			return fmt.Errorf("failed to create genesis entry: %w", err)
		}
		c.logger.Info("ledger genesis entry created")
	} else {
		c.logger.Info("ledger opened", "entries", count)
	}

	c.initialized = true
	return nil
}

// Append computes the next entry's hash from the current tail and persists
// it. The whole sequence runs under the chain mutex.
func (c *Chain[P]) Append(ctx context.Context, eventType, agentDID string, payload P) (*Entry[P], error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return nil, NewNotInitializedError("Append")
	}
	if eventType == "" {
		return nil, fmt.Errorf("event type cannot be empty")
	}

	return c.appendLocked(ctx, eventType, agentDID, payload)
}

// appendLocked performs the actual append. Callers must hold c.mu.
func (c *Chain[P]) appendLocked(ctx context.Context, eventType, agentDID string, payload P) (*Entry[P], error) {
	tail, err := c.store.Tail(ctx)
	if err != nil {
		return nil, err
	}

	prevHash := seedHash()
	var sequence uint64 = 1
	if tail != nil {
		prevHash = tail.Hash
		sequence = tail.Sequence + 1
	}

	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	payloadJSON, err := CanonicalJSON(payload)
	if err != nil {
		return nil, err
	}

	hash, err := c.entryHash(sequence, timestamp, eventType, agentDID, payloadJSON, prevHash)
	if err != nil {
		return nil, err
	}

	rec := &storage.Record{
		Sequence:  sequence,
		Timestamp: timestamp,
		EventType: eventType,
		AgentDID:  agentDID,
		Payload:   payloadJSON,
		PrevHash:  prevHash,
		Hash:      hash,
	}
	if err := c.store.Append(ctx, rec); err != nil {
		return nil, err
	}

	return &Entry[P]{
		Sequence:  sequence,
		Timestamp: now,
		EventType: eventType,
		AgentDID:  agentDID,
		Payload:   payload,
		PrevHash:  prevHash,
		Hash:      hash,
	}, nil
}

// entryHash computes SHA-256(prevHash || canonical(entry) || secret).
func (c *Chain[P]) entryHash(sequence uint64, timestamp, eventType, agentDID string, payloadJSON []byte, prevHash string) (string, error) {
	body, err := CanonicalJSON(map[string]any{
		"sequence":   sequence,
		"timestamp":  timestamp,
		"event_type": eventType,
		"agent_did":  agentDID,
		"payload":    json.RawMessage(payloadJSON),
	})
	if err != nil {
		return "", err
	}

	h := sha256.New()
	h.Write([]byte(prevHash))
	h.Write(body)
	h.Write([]byte(c.secret))
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Verify walks every entry from genesis, recomputing each hash from its
// predecessor. It returns an IntegrityError describing the first entry
// that fails, or nil when the whole chain is intact. Verification is never
// sampled or partial.
func (c *Chain[P]) Verify(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return NewNotInitializedError("Verify")
	}

	records, err := c.store.List(ctx)
	if err != nil {
		return err
	}

	prevHash := seedHash()
	var expectedSeq uint64 = 1

	for _, rec := range records {
		if rec.Sequence != expectedSeq {
			return NewIntegrityError(rec.Sequence,
				fmt.Sprintf("sequence gap: expected %d", expectedSeq))
		}
		if rec.PrevHash != prevHash {
			return NewIntegrityError(rec.Sequence, "previous-hash link broken")
		}

		hash, err := c.entryHash(rec.Sequence, rec.Timestamp, rec.EventType, rec.AgentDID, rec.Payload, rec.PrevHash)
		if err != nil {
			return err
		}
		if hash != rec.Hash {
			return NewIntegrityError(rec.Sequence, "hash mismatch")
		}

		prevHash = rec.Hash
		expectedSeq++
	}

	return nil
}

// VerifyChain reports whether the full chain is intact. Storage errors are
// returned separately from integrity failures.
func (c *Chain[P]) VerifyChain(ctx context.Context) (bool, error) {
	err := c.Verify(ctx)
	if err == nil {
		return true, nil
	}
	var integrity *IntegrityError
	if errors.As(err, &integrity) {
		return false, nil
	}
	return false, err
}

// EntryCount returns the number of entries, including genesis.
func (c *Chain[P]) EntryCount(ctx context.Context) (uint64, error) {
	return c.store.Count(ctx)
}

// RecentEntries returns the most recent n entries in ascending sequence
// order, decoding payloads into P. The genesis entry decodes to the zero
// payload.
func (c *Chain[P]) RecentEntries(ctx context.Context, n int) ([]*Entry[P], error) {
	records, err := c.store.Recent(ctx, n)
	if err != nil {
		return nil, err
	}

	entries := make([]*Entry[P], 0, len(records))
	for _, rec := range records {
		entry, err := decodeRecord[P](rec)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Close closes the underlying store.
func (c *Chain[P]) Close() error {
	return c.store.Close()
}

func decodeRecord[P any](rec *storage.Record) (*Entry[P], error) {
	var payload P
	if err := json.Unmarshal(rec.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode payload at sequence %d: %w", rec.Sequence, err)
	}

	ts, err := time.Parse(time.RFC3339Nano, rec.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("failed to parse timestamp at sequence %d: %w", rec.Sequence, err)
	}

	return &Entry[P]{
		Sequence:  rec.Sequence,
		Timestamp: ts,
		EventType: rec.EventType,
		AgentDID:  rec.AgentDID,
		Payload:   payload,
		PrevHash:  rec.PrevHash,
		Hash:      rec.Hash,
	}, nil
}

// seedHash derives the genesis predecessor from the fixed seed.
func seedHash() string {
	sum := sha256.Sum256([]byte(genesisSeed))
	return hex.EncodeToString(sum[:])
}
