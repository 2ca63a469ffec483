package intent

import (
	"context"
	"fmt"
	"log/slog"

	"aegis-hq/aegis/pkg/ledger"
	"aegis-hq/aegis/pkg/ledger/storage"
	"aegis-hq/aegis/pkg/secrets"
)

// Stage is a lifecycle stage of a captured intent.
type Stage string

const (
	StageCaptured  Stage = "captured"
	StageTriaged   Stage = "triaged"
	StageDecided   Stage = "decided"
	StageExecuted  Stage = "executed"
	StageAbandoned Stage = "abandoned"
)

// next lists the permitted stage transitions.
var next = map[Stage][]Stage{
	StageCaptured: {StageTriaged, StageAbandoned},
	StageTriaged:  {StageDecided, StageAbandoned},
	StageDecided:  {StageExecuted, StageAbandoned},
}

// TransitionEventType is the ledger event type for intent transitions.
const TransitionEventType = "intent.transition"

// Transition is the history payload for one lifecycle step.
type Transition struct {
	IntentID string `json:"intent_id"`
	From     string `json:"from"`
	To       string `json:"to"`
	Note     string `json:"note,omitempty"`
}

// History is an append-only, hash-chained intent lifecycle log.
type History struct {
	chain  *ledger.Chain[Transition]
	logger *slog.Logger
}

// NewHistory creates a history log over the given store. The chain secret
// is resolved through the provider, exactly as for the decision ledger.
func NewHistory(store storage.Store, provider secrets.Provider, secretName string) *History {
	return &History{
		chain:  ledger.New[Transition](store, provider, secretName),
		logger: slog.Default().With("component", "intent.history"),
	}
}

// Initialize opens the log, creating the genesis entry if empty.
func (h *History) Initialize(ctx context.Context) error {
	return h.chain.Initialize(ctx)
}

// Record appends a lifecycle transition. The empty stage is the implicit
// predecessor of "captured"; all other transitions must be permitted.
func (h *History) Record(ctx context.Context, agentDID string, t Transition) (*ledger.Entry[Transition], error) {
	if t.IntentID == "" {
		return nil, fmt.Errorf("intent id cannot be empty")
	}
	if !validTransition(Stage(t.From), Stage(t.To)) {
		return nil, fmt.Errorf("invalid intent transition %q -> %q", t.From, t.To)
	}

	entry, err := h.chain.Append(ctx, TransitionEventType, agentDID, t)
	if err != nil {
		return nil, err
	}

	h.logger.Debug("intent transition recorded",
		"intent_id", t.IntentID,
		"from", t.From,
		"to", t.To,
		"sequence", entry.Sequence,
	)
	return entry, nil
}

// Recent returns the most recent n transitions in ascending order.
func (h *History) Recent(ctx context.Context, n int) ([]*ledger.Entry[Transition], error) {
	return h.chain.RecentEntries(ctx, n)
}

// Verify walks the whole history chain.
func (h *History) Verify(ctx context.Context) error {
	return h.chain.Verify(ctx)
}

// Close closes the underlying store.
func (h *History) Close() error {
	return h.chain.Close()
}

func validTransition(from, to Stage) bool {
	if from == "" {
		return to == StageCaptured
	}
	for _, allowed := range next[from] {
		if to == allowed {
			return true
		}
	}
	return false
}
