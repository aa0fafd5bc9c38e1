package report

import "testing"

func TestSectionCounter_NumberSequence(t *testing.T) {
	// Advancing a shallower level must reset all deeper counters.
	levels := []int{1, 2, 2, 1, 2}
	want := []string{"1", "1.1", "1.2", "2", "2.1"}

	sec := &sectionCounter{}
	for i, level := range levels {
		got := sec.advance(level)
		if got != want[i] {
			t.Errorf("advance(%d) step %d: expected %q, got %q", level, i, want[i], got)
		}
	}
}

func TestSectionCounter_DeepReset(t *testing.T) {
	sec := &sectionCounter{}
	sec.advance(1)
	sec.advance(2)
	sec.advance(3)
	sec.advance(3)
	if got := sec.advance(1); got != "2" {
		t.Errorf("expected %q after level-1 advance, got %q", "2", got)
	}
	// A level-3 advance with no intervening level-2 keeps the zero in
	// the middle of the joined number.
	if got := sec.advance(3); got != "2.0.1" {
		t.Errorf("expected %q, got %q", "2.0.1", got)
	}
}

func TestSectionCounter_RejectsOutOfRange(t *testing.T) {
	sec := &sectionCounter{}
	sec.advance(1)
	for _, level := range []int{0, 4, -1} {
		if got := sec.advance(level); got != "" {
			t.Errorf("advance(%d): expected empty number, got %q", level, got)
		}
	}
	// State must be untouched by rejected levels.
	if got := sec.advance(2); got != "1.1" {
		t.Errorf("expected %q, got %q", "1.1", got)
	}
}

func TestAnchorKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Introduction", "introduction"},
		{"Market Share Analysis", "market_share_analysis"},
		{"Q4 Results (2024)", "q4_results_2024"},
		{"C++ & Go!", "c__go"},
	}
	for _, tt := range tests {
		if got := anchorKey(tt.in); got != tt.want {
			t.Errorf("anchorKey(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestAnchorKey_CollisionsNotDeduplicated(t *testing.T) {
	// "Results" and "results" normalize identically; that is accepted.
	if anchorKey("Results") != anchorKey("results") {
		t.Error("expected identical anchors for case-variant headings")
	}
}
