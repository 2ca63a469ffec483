package policy

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Engine classifies actions against a loaded Definition. The definition is
// immutable, so every method is a deterministic function of its inputs and
// safe for concurrent use.
type Engine struct {
	def    *Definition
	logger *slog.Logger
}

// NewEngine creates an engine over a loaded definition.
func NewEngine(def *Definition) *Engine {
	return &Engine{
		def:    def,
		logger: slog.Default().With("component", "policy.engine"),
	}
}

// Definition returns the loaded rule set.
func (e *Engine) Definition() *Definition {
	return e.def
}

// ClassifyRisk classifies a (path, content) pair.
//
// Path-pattern rules are checked first; the longest matching pattern wins.
// Keyword rules are then applied to both the path and the content and can
// only escalate the grade: a documentation path naming credential logic
// still classifies L3. When nothing matches, the default grade applies.
func (e *Engine) ClassifyRisk(path, content string) Classification {
	cls := Classification{
		Grade: e.def.DefaultGrade,
		Basis: BasisDefault,
	}

	normalized := filepath.ToSlash(path)
	for _, rule := range e.def.PathRules {
		if matched, _ := doublestar.Match(rule.Pattern, normalized); matched {
			cls.Grade = rule.Grade
			cls.Basis = BasisPath
			cls.RuleID = rule.ID
			break
		}
	}

	haystack := strings.ToLower(normalized) + "\x00" + strings.ToLower(content)
	for _, rule := range e.def.KeywordRules {
		if rule.Grade.Rank() <= cls.Grade.Rank() {
			continue
		}
		for _, kw := range rule.Keywords {
			if strings.Contains(haystack, kw) {
				cls.Grade = rule.Grade
				if cls.Basis == BasisDefault {
					cls.Basis = BasisKeyword
				}
				cls.RuleID = rule.ID
				break
			}
		}
	}

	return cls
}
