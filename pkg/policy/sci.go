package policy

import "strings"

// CalculateSCI scores a list of cited sources in [0, 1].
//
// Each source maps to the highest-weighted credibility tier whose patterns
// match it; sources matching no tier receive the configured unknown-source
// weight. The score is the mean of per-source weights, which makes it
// monotonic: replacing any source with a higher-tier one can never lower
// the score.
//
// An empty source list scores 0: absence of evidence is not evidence.
func (e *Engine) CalculateSCI(sources []string) float64 {
	if len(sources) == 0 {
		return 0
	}

	var total float64
	for _, source := range sources {
		total += e.sourceWeight(source)
	}

	score := total / float64(len(sources))
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// sourceWeight maps a single source to its tier weight. Tiers are ordered
// by descending weight, so the first match is the best match.
func (e *Engine) sourceWeight(source string) float64 {
	normalized := strings.ToLower(strings.TrimSpace(source))
	for _, tier := range e.def.SourceTiers {
		for _, pattern := range tier.Patterns {
			if strings.Contains(normalized, pattern) {
				return tier.Weight
			}
		}
	}
	return e.def.UnknownSourceWeight
}
