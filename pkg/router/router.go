package router

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"aegis-hq/aegis/pkg/config"
	"aegis-hq/aegis/pkg/policy"
)

// ReviewObligation is attached to every tier 3 routing result.
const ReviewObligation = "human_review_required"

// Router assigns evaluation tiers to events. It is constructed from
// configuration and is immutable afterwards, so Route is deterministic and
// safe for concurrent use.
type Router struct {
	sensitivePatterns  []string
	noveltySmallBytes  int
	noveltyMediumBytes int

	bus    *Bus
	logger *slog.Logger
}

// FromConfig builds a Router from configuration. The bus is optional; pass
// nil to disable routing event publication.
func FromConfig(cfg config.RouterConfig, bus *Bus) (*Router, error) {
	for _, p := range cfg.SensitivePatterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid sensitive pattern %q", p)
		}
	}

	return &Router{
		sensitivePatterns:  cfg.SensitivePatterns,
		noveltySmallBytes:  cfg.NoveltySmallBytes,
		noveltyMediumBytes: cfg.NoveltyMediumBytes,
		bus:                bus,
		logger:             slog.Default().With("component", "router"),
	}, nil
}

// Route maps an event to an evaluation tier and triage.
//
// Sensitive target paths force tier 3 regardless of category or grade.
// Otherwise the tier follows the risk grade (L1 -> 1, L2 -> 2, L3 -> 3).
// Tier 3 always sets InvokeDeepEval, WriteLedger, and EnforceSentinel and
// attaches the review obligation.
func (r *Router) Route(event Event) Result {
	result := Result{
		Triage: Triage{
			Risk:       event.Grade,
			Novelty:    r.ComputeNovelty(event, event.Grade, event.Confidence),
			Confidence: event.Confidence,
		},
	}

	normalized := filepath.ToSlash(event.TargetPath)
	for _, pattern := range r.sensitivePatterns {
		if matched, _ := doublestar.Match(pattern, normalized); matched {
			result.SensitiveMatch = pattern
			break
		}
	}

	switch {
	case result.SensitiveMatch != "":
		result.Tier = 3
	case event.Grade.Rank() >= policy.GradeL3.Rank():
		result.Tier = 3
	case event.Grade == policy.GradeL2:
		result.Tier = 2
	default:
		result.Tier = 1
	}

	if result.Tier >= 2 {
		result.WriteLedger = true
	}
	if result.Tier == 3 {
		result.InvokeDeepEval = true
		result.EnforceSentinel = true
		result.RequiredActions = append(result.RequiredActions, ReviewObligation)
	}

	if r.bus != nil {
		r.bus.Publish(RouteEvent{
			Event:     event,
			Result:    result,
			Timestamp: time.Now(),
		})
	}

	return result
}
