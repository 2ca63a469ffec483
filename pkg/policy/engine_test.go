package policy

import "testing"

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(loadTestDefinition(t))
}

// TestClassifyRisk tests grade assignment across path rules, keyword
// escalation, and the default fallback.
func TestClassifyRisk(t *testing.T) {
	engine := newTestEngine(t)

	tests := []struct {
		name      string
		path      string
		content   string
		wantGrade RiskGrade
		wantBasis MatchBasis
	}{
		{
			name:      "documentation path",
			path:      "docs/api/readme.md",
			content:   "Updated endpoint documentation.",
			wantGrade: GradeL1,
			wantBasis: BasisPath,
		},
		{
			name:      "authentication path",
			path:      "src/auth/credential-service.ts",
			content:   "export function rotateKeys() {}",
			wantGrade: GradeL3,
			wantBasis: BasisPath,
		},
		{
			name:      "secrets path",
			path:      "config/secrets/prod.env",
			content:   "",
			wantGrade: GradeL3,
			wantBasis: BasisPath,
		},
		{
			name:      "keyword in content escalates default",
			path:      "src/billing/invoice.go",
			content:   "reads the password from the vault",
			wantGrade: GradeL3,
			wantBasis: BasisKeyword,
		},
		{
			name:      "keyword in path escalates default",
			path:      "src/billing/token-refresh.go",
			content:   "",
			wantGrade: GradeL3,
			wantBasis: BasisKeyword,
		},
		{
			name:      "unmatched path falls back to default",
			path:      "src/billing/invoice.go",
			content:   "computes line item totals",
			wantGrade: GradeL2,
			wantBasis: BasisDefault,
		},
		{
			name:      "keyword case insensitive",
			path:      "src/billing/invoice.go",
			content:   "handles the API Token header",
			wantGrade: GradeL3,
			wantBasis: BasisKeyword,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cls := engine.ClassifyRisk(tt.path, tt.content)
			if cls.Grade != tt.wantGrade {
				t.Errorf("Expected grade %q, got %q", tt.wantGrade, cls.Grade)
			}
			if cls.Basis != tt.wantBasis {
				t.Errorf("Expected basis %q, got %q", tt.wantBasis, cls.Basis)
			}
		})
	}
}

// TestClassifyRisk_KeywordOnlyEscalates tests that a keyword match never
// lowers a grade set by a path rule.
func TestClassifyRisk_KeywordOnlyEscalates(t *testing.T) {
	engine := newTestEngine(t)

	// Doc path naming credential logic: keyword L3 beats path L1.
	cls := engine.ClassifyRisk("docs/security.md", "how credential rotation works")
	if cls.Grade != GradeL3 {
		t.Errorf("Expected keyword escalation to L3, got %q", cls.Grade)
	}

	// L3 path with benign content stays L3.
	cls = engine.ClassifyRisk("src/auth/session.go", "plain session bookkeeping")
	if cls.Grade != GradeL3 {
		t.Errorf("Expected L3 from path rule, got %q", cls.Grade)
	}
}

// TestClassifyRisk_LongestPatternWins tests that the most specific path
// rule takes precedence.
func TestClassifyRisk_LongestPatternWins(t *testing.T) {
	dir := writePolicyDir(t, map[string]string{
		"rules.yaml": "path_rules:\n" +
			"  - id: broad\n    pattern: \"src/**\"\n    grade: L1\n" +
			"  - id: narrow\n    pattern: \"src/payments/**\"\n    grade: L3\n",
	})
	def, err := LoadPolicies(dir, LoadOptions{})
	if err != nil {
		t.Fatalf("LoadPolicies() failed: %v", err)
	}
	engine := NewEngine(def)

	cls := engine.ClassifyRisk("src/payments/charge.go", "")
	if cls.RuleID != "narrow" || cls.Grade != GradeL3 {
		t.Errorf("Expected narrow rule to win, got rule %q grade %q", cls.RuleID, cls.Grade)
	}

	cls = engine.ClassifyRisk("src/widgets/button.go", "")
	if cls.RuleID != "broad" || cls.Grade != GradeL1 {
		t.Errorf("Expected broad rule to match, got rule %q grade %q", cls.RuleID, cls.Grade)
	}
}

// TestClassifyRisk_Deterministic tests that repeated classification of the
// same input yields identical results.
func TestClassifyRisk_Deterministic(t *testing.T) {
	engine := newTestEngine(t)

	first := engine.ClassifyRisk("src/auth/login.go", "validates passwords")
	for i := 0; i < 100; i++ {
		cls := engine.ClassifyRisk("src/auth/login.go", "validates passwords")
		if cls != first {
			t.Fatalf("Classification changed on iteration %d: %+v vs %+v", i, cls, first)
		}
	}
}

// TestMaxGrade tests grade ordering.
func TestMaxGrade(t *testing.T) {
	tests := []struct {
		a, b, want RiskGrade
	}{
		{GradeL1, GradeL2, GradeL2},
		{GradeL3, GradeL1, GradeL3},
		{GradeL2, GradeL2, GradeL2},
		{GradeL1, "garbage", "garbage"},
	}

	for _, tt := range tests {
		if got := MaxGrade(tt.a, tt.b); got != tt.want {
			t.Errorf("MaxGrade(%q, %q) = %q, want %q", tt.a, tt.b, got, tt.want)
		}
	}
}
