package router

import (
	"testing"

	"aegis-hq/aegis/pkg/policy"
)

// TestComputeNovelty tests the content-size fallback and the
// low-confidence bump.
func TestComputeNovelty(t *testing.T) {
	router := newTestRouter(t, nil)

	tests := []struct {
		name       string
		size       int
		grade      policy.RiskGrade
		confidence Level
		want       Level
	}{
		{
			name:       "small low-risk artifact",
			size:       512,
			grade:      policy.GradeL1,
			confidence: LevelHigh,
			want:       LevelLow,
		},
		{
			name:       "medium artifact",
			size:       32 * 1024,
			grade:      policy.GradeL2,
			confidence: LevelHigh,
			want:       LevelMedium,
		},
		{
			name:       "large artifact",
			size:       1 << 20,
			grade:      policy.GradeL2,
			confidence: LevelHigh,
			want:       LevelHigh,
		},
		{
			name:       "high risk is high novelty regardless of size",
			size:       10,
			grade:      policy.GradeL3,
			confidence: LevelHigh,
			want:       LevelHigh,
		},
		{
			name:       "low confidence bumps low to medium",
			size:       512,
			grade:      policy.GradeL1,
			confidence: LevelLow,
			want:       LevelMedium,
		},
		{
			name:       "low confidence bumps medium to high",
			size:       32 * 1024,
			grade:      policy.GradeL2,
			confidence: LevelLow,
			want:       LevelHigh,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := Event{ContentSize: tt.size}
			got := router.ComputeNovelty(event, tt.grade, tt.confidence)
			if got != tt.want {
				t.Errorf("Expected novelty %q, got %q", tt.want, got)
			}
		})
	}
}
