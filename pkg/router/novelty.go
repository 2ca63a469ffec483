package router

import "aegis-hq/aegis/pkg/policy"

// ComputeNovelty assesses how unfamiliar an event is.
//
// No historical signal is available in-process, so this is an explicit
// content-size fallback, reproducible from (event, grade, confidence)
// alone: small, unremarkable artifacts default to low novelty, anything
// large or high-risk defaults to high. Low-confidence classifications are
// bumped one level because an uncertain grade is itself a novelty signal.
func (r *Router) ComputeNovelty(event Event, grade policy.RiskGrade, confidence Level) Level {
	var novelty Level
	switch {
	case event.ContentSize <= r.noveltySmallBytes && grade == policy.GradeL1:
		novelty = LevelLow
	case event.ContentSize <= r.noveltyMediumBytes && grade.Rank() < policy.GradeL3.Rank():
		novelty = LevelMedium
	default:
		novelty = LevelHigh
	}

	if confidence == LevelLow && novelty != LevelHigh {
		novelty = bump(novelty)
	}
	return novelty
}

func bump(l Level) Level {
	switch l {
	case LevelLow:
		return LevelMedium
	default:
		return LevelHigh
	}
}
