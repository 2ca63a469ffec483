package router

import (
	"time"

	"aegis-hq/aegis/pkg/policy"
)

// Level is a coarse low/medium/high label used for novelty and confidence.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// Event is a routing input: one proposed action with its upstream risk
// classification.
type Event struct {
	// Category is the action category (read, write, execute, tool_call).
	Category string

	// ActorID identifies the acting agent.
	ActorID string

	// TargetPath is the resource the action addresses.
	TargetPath string

	// ContentSize is the size in bytes of the action's content, used by
	// the novelty fallback heuristic.
	ContentSize int

	// Grade is the risk grade assigned by the policy engine.
	Grade policy.RiskGrade

	// Confidence is the classification confidence, derived from how the
	// grade was produced (explicit rule vs. default fallback).
	Confidence Level
}

// Triage is the transient risk/novelty/confidence assessment computed per
// request. It is never persisted independently of the decision.
type Triage struct {
	Risk       policy.RiskGrade `json:"risk"`
	Novelty    Level            `json:"novelty"`
	Confidence Level            `json:"confidence"`
}

// Result is the routing outcome for one event.
type Result struct {
	// Tier is the evaluation tier (1-3).
	Tier int

	// Triage is the per-request assessment.
	Triage Triage

	// InvokeDeepEval requests the deep evaluation path. Always set at
	// tier 3.
	InvokeDeepEval bool

	// WriteLedger requests an audit ledger write. Always set at tier 3.
	WriteLedger bool

	// EnforceSentinel requests sentinel enforcement. Always set at
	// tier 3.
	EnforceSentinel bool

	// RequiredActions are obligations attached by routing rules, in
	// order.
	RequiredActions []string

	// SensitiveMatch is the sensitive pattern that forced tier 3, empty
	// otherwise.
	SensitiveMatch string
}

// RouteEvent is published on the bus after each routing decision.
type RouteEvent struct {
	Event     Event
	Result    Result
	Timestamp time.Time
}
