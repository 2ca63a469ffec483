package governor

import (
	"fmt"
	"testing"
	"time"
)

func idemRecord(id string, createdAt time.Time) *idempotencyRecord {
	return &idempotencyRecord{
		requestID:   id,
		fingerprint: "fp-" + id,
		createdAt:   createdAt,
	}
}

// TestIdempotencyTable_LookupInsert tests basic binding semantics.
func TestIdempotencyTable_LookupInsert(t *testing.T) {
	table := newIdempotencyTable(10, time.Hour)

	if _, ok := table.lookup("req-1"); ok {
		t.Error("Expected miss on empty table")
	}

	table.insert(idemRecord("req-1", time.Now()))
	rec, ok := table.lookup("req-1")
	if !ok {
		t.Fatal("Expected hit after insert")
	}
	if rec.fingerprint != "fp-req-1" {
		t.Errorf("Expected fingerprint fp-req-1, got %q", rec.fingerprint)
	}
	if table.size() != 1 {
		t.Errorf("Expected size 1, got %d", table.size())
	}
}

// TestIdempotencyTable_EvictsOldestWhenFull tests the bounded-capacity
// eviction order.
func TestIdempotencyTable_EvictsOldestWhenFull(t *testing.T) {
	table := newIdempotencyTable(3, time.Hour)

	for i := 1; i <= 4; i++ {
		table.insert(idemRecord(fmt.Sprintf("req-%d", i), time.Now()))
	}

	if table.size() != 3 {
		t.Errorf("Expected size capped at 3, got %d", table.size())
	}
	if _, ok := table.lookup("req-1"); ok {
		t.Error("Expected oldest record to be evicted")
	}
	for i := 2; i <= 4; i++ {
		if _, ok := table.lookup(fmt.Sprintf("req-%d", i)); !ok {
			t.Errorf("Expected req-%d to be retained", i)
		}
	}
}

// TestIdempotencyTable_SweepExpiresByTTL tests TTL-based expiry.
func TestIdempotencyTable_SweepExpiresByTTL(t *testing.T) {
	table := newIdempotencyTable(10, time.Minute)
	now := time.Now()

	table.insert(idemRecord("req-old", now.Add(-2*time.Minute)))
	table.insert(idemRecord("req-stale", now.Add(-90*time.Second)))
	table.insert(idemRecord("req-fresh", now))

	removed := table.sweep(now)
	if removed != 2 {
		t.Errorf("Expected 2 records swept, got %d", removed)
	}
	if _, ok := table.lookup("req-old"); ok {
		t.Error("Expected expired record to be swept")
	}
	if _, ok := table.lookup("req-fresh"); !ok {
		t.Error("Expected fresh record to survive sweep")
	}
	if table.size() != 1 {
		t.Errorf("Expected size 1 after sweep, got %d", table.size())
	}
}

// TestIdempotencyTable_SweepDisabledWithZeroTTL tests that a zero TTL
// retains records indefinitely.
func TestIdempotencyTable_SweepDisabledWithZeroTTL(t *testing.T) {
	table := newIdempotencyTable(10, 0)
	table.insert(idemRecord("req-1", time.Now().Add(-24*time.Hour)))

	if removed := table.sweep(time.Now()); removed != 0 {
		t.Errorf("Expected no records swept with zero TTL, got %d", removed)
	}
	if _, ok := table.lookup("req-1"); !ok {
		t.Error("Expected record to survive with expiry disabled")
	}
}

// TestPayloadFingerprint tests that the fingerprint covers action, path,
// and content and is stable for equal payloads.
func TestPayloadFingerprint(t *testing.T) {
	base := &DecisionRequest{
		RequestID:  "req-1",
		ActorID:    "agent-1",
		Action:     ActionWrite,
		TargetPath: "src/x.go",
		Content:    "body",
	}

	same := *base
	same.RequestID = "req-2"
	same.ActorID = "agent-2"
	if payloadFingerprint(base) != payloadFingerprint(&same) {
		t.Error("Fingerprint should not depend on request or actor identity")
	}

	tests := []struct {
		name   string
		mutate func(r *DecisionRequest)
	}{
		{name: "action changes fingerprint", mutate: func(r *DecisionRequest) { r.Action = ActionExecute }},
		{name: "path changes fingerprint", mutate: func(r *DecisionRequest) { r.TargetPath = "src/y.go" }},
		{name: "content changes fingerprint", mutate: func(r *DecisionRequest) { r.Content = "other" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			changed := *base
			tt.mutate(&changed)
			if payloadFingerprint(base) == payloadFingerprint(&changed) {
				t.Error("Expected differing fingerprints")
			}
		})
	}
}

// TestPayloadFingerprint_FieldBoundaries tests that field concatenation
// cannot collide across boundaries.
func TestPayloadFingerprint_FieldBoundaries(t *testing.T) {
	a := &DecisionRequest{Action: "write", TargetPath: "ab", Content: "c"}
	b := &DecisionRequest{Action: "write", TargetPath: "a", Content: "bc"}
	if payloadFingerprint(a) == payloadFingerprint(b) {
		t.Error("Expected boundary-shifted payloads to differ")
	}
}
