package policy

// RiskGrade is the coarse sensitivity classification of a target/content
// pair.
type RiskGrade string

const (
	// GradeL1 marks low-sensitivity targets such as documentation.
	GradeL1 RiskGrade = "L1"

	// GradeL2 marks ordinary code and data paths.
	GradeL2 RiskGrade = "L2"

	// GradeL3 marks sensitive domains: authentication, credentials,
	// secrets.
	GradeL3 RiskGrade = "L3"
)

// Rank returns the grade's ordering (L1 < L2 < L3). Unknown grades rank
// highest so that a corrupted grade value fails closed.
func (g RiskGrade) Rank() int {
	switch g {
	case GradeL1:
		return 1
	case GradeL2:
		return 2
	case GradeL3:
		return 3
	default:
		return 4
	}
}

// Valid reports whether g is a known grade label.
func (g RiskGrade) Valid() bool {
	switch g {
	case GradeL1, GradeL2, GradeL3:
		return true
	}
	return false
}

// MaxGrade returns the higher-ranked of two grades.
func MaxGrade(a, b RiskGrade) RiskGrade {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// PathRule maps a path pattern (doublestar glob) to a risk grade.
type PathRule struct {
	// ID identifies the rule in classifications and audit payloads.
	ID string

	// Pattern is a doublestar glob matched against the target path.
	Pattern string

	// Grade is the risk grade assigned on match.
	Grade RiskGrade
}

// KeywordRule escalates the grade when any of its keywords appears in the
// target path or content.
type KeywordRule struct {
	// ID identifies the rule in classifications and audit payloads.
	ID string

	// Keywords are matched case-insensitively as substrings.
	Keywords []string

	// Grade is the minimum grade enforced on match.
	Grade RiskGrade
}

// SourceTier maps source citations to a credibility weight for SCI
// scoring. Higher weight means more credible.
type SourceTier struct {
	// Name labels the tier (primary, peer_reviewed, reputable, general).
	Name string

	// Weight is the tier's credibility weight in [0, 1].
	Weight float64

	// Patterns are case-insensitive substrings matched against a cited
	// source (typically domain fragments).
	Patterns []string
}

// MatchBasis records which kind of rule produced a classification.
type MatchBasis string

const (
	// BasisPath means an explicit path-pattern rule matched.
	BasisPath MatchBasis = "path"

	// BasisKeyword means only keyword escalation applied.
	BasisKeyword MatchBasis = "keyword"

	// BasisDefault means no rule matched and the default grade applied.
	BasisDefault MatchBasis = "default"
)

// Classification is the result of classifying a (path, content) pair.
type Classification struct {
	// Grade is the assigned risk grade.
	Grade RiskGrade

	// Basis records what kind of rule determined the grade.
	Basis MatchBasis

	// RuleID is the ID of the decisive rule, empty on default fallback.
	RuleID string
}

// Definition is a loaded, validated, immutable policy rule set.
type Definition struct {
	// Version is the declared policy version from the definition files.
	Version string

	// Checksum is the SHA-256 hex digest of the definition files,
	// making the effective rule set auditable.
	Checksum string

	// PathRules are ordered longest-pattern-first so the most specific
	// rule wins.
	PathRules []PathRule

	// KeywordRules escalate grades on sensitive-domain keywords.
	KeywordRules []KeywordRule

	// SourceTiers are ordered by descending weight.
	SourceTiers []SourceTier

	// DefaultGrade applies when no rule matches.
	DefaultGrade RiskGrade

	// UnknownSourceWeight is the SCI weight for sources matching no tier.
	UnknownSourceWeight float64
}

// PolicyVersion returns the version string recorded on decisions:
// the declared version plus a checksum prefix.
func (d *Definition) PolicyVersion() string {
	if len(d.Checksum) >= 8 {
		return d.Version + "+" + d.Checksum[:8]
	}
	return d.Version
}
