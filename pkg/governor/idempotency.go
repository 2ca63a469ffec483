package governor

import (
	"container/list"
	"time"
)

// idempotencyRecord binds a request ID to its payload fingerprint and the
// canonical response. Records are never mutated once created; a mismatch
// is a conflict, not an update.
type idempotencyRecord struct {
	requestID   string
	fingerprint string
	response    DecisionResponse
	createdAt   time.Time
}

// idempotencyTable is a bounded, TTL'd map of request ID to record.
//
// The source system left retention unspecified; unbounded growth in a
// long-lived process is a real risk, so the table is capped: when full,
// the oldest record is evicted, and a sweep drops records past their TTL.
// An evicted request ID replayed later is treated as a new request. The
// trade-off is documented in DESIGN.md.
//
// The table is not internally synchronized: the service accesses it only
// inside its evaluation critical section.
type idempotencyTable struct {
	maxEntries int
	ttl        time.Duration

	records map[string]*list.Element
	order   *list.List // *idempotencyRecord, oldest at front
}

func newIdempotencyTable(maxEntries int, ttl time.Duration) *idempotencyTable {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &idempotencyTable{
		maxEntries: maxEntries,
		ttl:        ttl,
		records:    make(map[string]*list.Element),
		order:      list.New(),
	}
}

// lookup returns the record bound to requestID, if any.
func (t *idempotencyTable) lookup(requestID string) (*idempotencyRecord, bool) {
	elem, ok := t.records[requestID]
	if !ok {
		return nil, false
	}
	return elem.Value.(*idempotencyRecord), true
}

// insert binds requestID to a record, evicting the oldest record if the
// table is full. Callers must have ruled out an existing binding first.
func (t *idempotencyTable) insert(rec *idempotencyRecord) {
	if t.order.Len() >= t.maxEntries {
		oldest := t.order.Front()
		if oldest != nil {
			t.order.Remove(oldest)
			delete(t.records, oldest.Value.(*idempotencyRecord).requestID)
		}
	}
	t.records[rec.requestID] = t.order.PushBack(rec)
}

// sweep removes records older than the TTL and returns how many were
// dropped. A zero or negative TTL disables expiry.
func (t *idempotencyTable) sweep(now time.Time) int {
	if t.ttl <= 0 {
		return 0
	}

	cutoff := now.Add(-t.ttl)
	removed := 0
	for {
		front := t.order.Front()
		if front == nil {
			break
		}
		rec := front.Value.(*idempotencyRecord)
		if !rec.createdAt.Before(cutoff) {
			break
		}
		t.order.Remove(front)
		delete(t.records, rec.requestID)
		removed++
	}
	return removed
}

// size returns the number of retained records.
func (t *idempotencyTable) size() int {
	return t.order.Len()
}
