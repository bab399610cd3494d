package adapt

import "testing"

func TestRecommendedLagStepsUpOnHighGlitchRate(t *testing.T) {
	got := RecommendedLag(0.05, 2)
	if got != 3 {
		t.Errorf("RecommendedLag(0.05, 2) = %d, want 3", got)
	}
}

func TestRecommendedLagStepsDownOnLowGlitchRate(t *testing.T) {
	got := RecommendedLag(0.0, 2)
	if got != 1 {
		t.Errorf("RecommendedLag(0.0, 2) = %d, want 1", got)
	}
}

func TestRecommendedLagHoldsInBetween(t *testing.T) {
	got := RecommendedLag(0.01, 2)
	if got != 2 {
		t.Errorf("RecommendedLag(0.01, 2) = %d, want 2 (hold)", got)
	}
}

func TestRecommendedLagCannotExceedMax(t *testing.T) {
	got := RecommendedLag(1.0, maxLag)
	if got != maxLag {
		t.Errorf("RecommendedLag(1.0, %d) = %d, want %d", maxLag, got, maxLag)
	}
}

func TestRecommendedLagCannotGoBelowMin(t *testing.T) {
	got := RecommendedLag(0.0, minLag)
	if got != minLag {
		t.Errorf("RecommendedLag(0.0, %d) = %d, want %d", minLag, got, minLag)
	}
}
