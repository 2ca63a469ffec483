package policy

import "testing"

// TestCalculateSCI tests corroboration scoring across tier mixes.
func TestCalculateSCI(t *testing.T) {
	engine := newTestEngine(t)

	tests := []struct {
		name    string
		sources []string
		want    float64
	}{
		{
			name:    "no sources",
			sources: nil,
			want:    0,
		},
		{
			name:    "single primary source",
			sources: []string{"https://www.nist.gov/publications/standard"},
			want:    1.0,
		},
		{
			name:    "primary and peer reviewed",
			sources: []string{"https://www.nist.gov/x", "https://doi.org/10.1000/182"},
			want:    0.925,
		},
		{
			name:    "general sources only",
			sources: []string{"https://medium.com/post", "https://en.wikipedia.org/wiki/X"},
			want:    0.3,
		},
		{
			name:    "unmatched source gets unknown weight",
			sources: []string{"https://random-forum.example"},
			want:    0.2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.CalculateSCI(tt.sources)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("CalculateSCI(%v) = %v, want %v", tt.sources, got, tt.want)
			}
		})
	}
}

// TestCalculateSCI_HighTierMixScoresHigh tests that a fully corroborated
// claim clears the review threshold.
func TestCalculateSCI_HighTierMixScoresHigh(t *testing.T) {
	engine := newTestEngine(t)

	sources := []string{
		"https://www.nist.gov/publications/x",
		"https://dl.acm.org/doi/10.1145/1",
		"https://www.rfc-editor.org/rfc/rfc9110",
	}
	if got := engine.CalculateSCI(sources); got <= 0.7 {
		t.Errorf("Expected score above 0.7 for high-tier sources, got %v", got)
	}
}

// TestCalculateSCI_Monotonic tests that upgrading any single source never
// lowers the score.
func TestCalculateSCI_Monotonic(t *testing.T) {
	engine := newTestEngine(t)

	base := []string{"https://medium.com/post", "https://reuters.com/article"}
	upgraded := []string{"https://www.nist.gov/report", "https://reuters.com/article"}

	low := engine.CalculateSCI(base)
	high := engine.CalculateSCI(upgraded)
	if high < low {
		t.Errorf("Upgrading a source lowered the score: %v -> %v", low, high)
	}
}

// TestCalculateSCI_Bounded tests that scores stay within [0, 1].
func TestCalculateSCI_Bounded(t *testing.T) {
	engine := newTestEngine(t)

	sources := []string{
		"https://www.nist.gov/a",
		"https://www.example.edu/b",
		"https://www.iso.org/c",
	}
	got := engine.CalculateSCI(sources)
	if got < 0 || got > 1 {
		t.Errorf("Score %v outside [0, 1]", got)
	}
}
