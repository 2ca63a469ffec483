package governor

import (
	"aegis-hq/aegis/pkg/policy"
	"aegis-hq/aegis/pkg/router"
)

// MutationReviewObligation is attached when a mutating action escalates.
const MutationReviewObligation = "mutating_action_requires_review"

// escalationPolicy holds the configurable boundary between ESCALATE and
// DENY. The boundary is policy, not a constant baked into the resolver.
type escalationPolicy struct {
	// denyHighestTier resolves mutating actions at L3/tier 3 to DENY
	// instead of ESCALATE.
	denyHighestTier bool
}

// resolve applies the fail-closed escalation rules to a classified, routed
// request.
//
// Mutating actions at L2 or above never resolve to a bare ALLOW: L2
// escalates with a review obligation, L3 escalates or denies depending on
// the configured boundary. Reads at low risk resolve to ALLOW; reads
// routed to tier 3 escalate.
func (p escalationPolicy) resolve(action Action, grade policy.RiskGrade, route router.Result) (Decision, []string) {
	obligations := append([]string(nil), route.RequiredActions...)

	if action.Mutating() {
		switch {
		case grade.Rank() >= policy.GradeL3.Rank():
			obligations = appendUnique(obligations, MutationReviewObligation)
			if p.denyHighestTier && route.Tier == 3 {
				return DecisionDeny, obligations
			}
			return DecisionEscalate, obligations

		case grade.Rank() >= policy.GradeL2.Rank():
			obligations = appendUnique(obligations, MutationReviewObligation)
			return DecisionEscalate, obligations
		}

		// L1 mutation on a non-sensitive path is allowed, but a
		// sensitive-path match still forces review.
		if route.Tier == 3 {
			obligations = appendUnique(obligations, MutationReviewObligation)
			return DecisionEscalate, obligations
		}
		return DecisionAllow, obligations
	}

	// Reads: low-risk resolves to ALLOW, tier 3 fails closed.
	if route.Tier == 3 {
		obligations = appendUnique(obligations, router.ReviewObligation)
		return DecisionEscalate, obligations
	}
	return DecisionAllow, obligations
}

func appendUnique(list []string, item string) []string {
	for _, existing := range list {
		if existing == item {
			return list
		}
	}
	return append(list, item)
}
