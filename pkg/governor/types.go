package governor

import (
	"time"

	"aegis-hq/aegis/pkg/policy"
	"aegis-hq/aegis/pkg/router"
)

// Action is the kind of operation an agent proposes.
type Action string

const (
	ActionRead     Action = "read"
	ActionWrite    Action = "write"
	ActionExecute  Action = "execute"
	ActionToolCall Action = "tool_call"
)

// Known reports whether the action is a recognized kind. Unknown actions
// are not rejected; they are treated as mutating so classification fails
// closed.
func (a Action) Known() bool {
	switch a {
	case ActionRead, ActionWrite, ActionExecute, ActionToolCall:
		return true
	}
	return false
}

// Mutating reports whether the action can change state. Unknown actions
// count as mutating.
func (a Action) Mutating() bool {
	return a != ActionRead
}

// Decision is the verdict rendered for a request.
type Decision string

const (
	DecisionAllow    Decision = "ALLOW"
	DecisionDeny     Decision = "DENY"
	DecisionEscalate Decision = "ESCALATE"
)

// DecisionRequest describes one proposed agent action.
type DecisionRequest struct {
	// RequestID is the caller-supplied correlation key, unique per
	// logical action and stable across the caller's retries of that
	// action.
	RequestID string `json:"request_id"`

	// ActorID identifies the acting agent.
	ActorID string `json:"actor_id"`

	// Action is the proposed operation.
	Action Action `json:"action"`

	// TargetPath is the resource the action addresses.
	TargetPath string `json:"target_path"`

	// Content optionally carries text used for keyword classification.
	Content string `json:"content,omitempty"`

	// Timestamp optionally records when the adapter observed the action.
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// DecisionResponse is the verdict with its audit linkage. For a given
// request ID with unchanged payload, every field is stable across repeated
// calls.
type DecisionResponse struct {
	// Decision is the verdict: ALLOW, DENY, or ESCALATE.
	Decision Decision `json:"decision"`

	// RiskGrade is the classified sensitivity of the target/content.
	RiskGrade policy.RiskGrade `json:"risk_grade"`

	// EvaluationTier is the routing depth applied (1-3).
	EvaluationTier int `json:"evaluation_tier"`

	// Triage is the per-request risk/novelty/confidence assessment.
	Triage router.Triage `json:"triage"`

	// PolicyVersion identifies the rule set that produced the decision.
	PolicyVersion string `json:"policy_version"`

	// DecisionID is globally unique per ledger write.
	DecisionID string `json:"decision_id"`

	// AuditEventID identifies the ledger entry backing this decision.
	AuditEventID string `json:"audit_event_id"`

	// RequiredActions are ordered obligations attached to the decision.
	RequiredActions []string `json:"required_actions,omitempty"`
}

// Health reports service liveness for probes.
type Health struct {
	// Initialized is true once the service reached the ready state.
	Initialized bool `json:"initialized"`

	// PolicyLoaded is true once policy definitions loaded successfully.
	PolicyLoaded bool `json:"policy_loaded"`

	// State is the service state name, for operators.
	State string `json:"state"`
}

// DecisionOutcome is the ledger payload recorded for every decision.
// Fields are integers, strings, and lists only so the canonical encoding
// is stable.
type DecisionOutcome struct {
	RequestID       string   `json:"request_id"`
	ActorID         string   `json:"actor_id"`
	Action          string   `json:"action"`
	TargetPath      string   `json:"target_path"`
	Fingerprint     string   `json:"fingerprint"`
	Decision        string   `json:"decision"`
	RiskGrade       string   `json:"risk_grade"`
	EvaluationTier  int      `json:"evaluation_tier"`
	Novelty         string   `json:"novelty"`
	Confidence      string   `json:"confidence"`
	PolicyVersion   string   `json:"policy_version"`
	DecisionID      string   `json:"decision_id"`
	RequiredActions []string `json:"required_actions"`
}

// DecisionEventType is the ledger event type for decision outcomes.
const DecisionEventType = "governance.decision"
