package channelstate

import "testing"

func TestHistoryDepthClamp(t *testing.T) {
	cases := []struct {
		fpp  int
		want int
	}{
		{fpp: 32, want: 6},
		{fpp: 64, want: 3},
		{fpp: 192, want: 1},
		{fpp: 1024, want: 1},
		{fpp: 1, want: 6},
	}
	for _, c := range cases {
		if got := HistoryDepth(c.fpp); got != c.want {
			t.Errorf("HistoryDepth(%d) = %d, want %d", c.fpp, got, c.want)
		}
	}
}

func TestNewAllocatesExactLengths(t *testing.T) {
	s := New(4, 3)
	if len(s.LastPackets) != 3 {
		t.Fatalf("len(LastPackets) = %d, want 3", len(s.LastPackets))
	}
	for i, p := range s.LastPackets {
		if len(p) != 4 {
			t.Errorf("LastPackets[%d] len = %d, want 4", i, len(p))
		}
	}
	wantOrder := 3*4 - 1
	if len(s.Coeffs) != wantOrder || len(s.Prediction) != wantOrder {
		t.Errorf("order-length buffers wrong: coeffs=%d prediction=%d, want %d", len(s.Coeffs), len(s.Prediction), wantOrder)
	}
	if len(s.TrainingWindow) != 12 {
		t.Errorf("TrainingWindow len = %d, want 12", len(s.TrainingWindow))
	}
	if len(s.NextPred) != 4 || len(s.XfadedPred) != 4 || len(s.LastGoodPacket) != 4 || len(s.Truth) != 4 {
		t.Errorf("FPP-length buffers have wrong size")
	}
}

func TestShiftHistoryAndCommitTruth(t *testing.T) {
	s := New(2, 3)
	s.LastPackets[0][0], s.LastPackets[0][1] = 1, 1
	s.LastPackets[1][0], s.LastPackets[1][1] = 2, 2
	s.LastPackets[2][0], s.LastPackets[2][1] = 3, 3

	s.ShiftHistory()

	if s.LastPackets[1][0] != 1 || s.LastPackets[2][0] != 2 {
		t.Errorf("shift did not move entries down: %+v", s.LastPackets)
	}

	s.Truth[0], s.Truth[1] = 9, 9
	s.Commit(false, false)
	if s.LastPackets[0][0] != 9 || s.LastPackets[0][1] != 9 {
		t.Errorf("Commit(clean) should write truth into slot 0, got %+v", s.LastPackets[0])
	}
}

func TestCommitGlitchWarmUsesPrediction(t *testing.T) {
	s := New(2, 3)
	s.Prediction[0], s.Prediction[1] = 5, 5
	s.Truth[0], s.Truth[1] = 9, 9

	s.Commit(true, false) // glitch, not early -> prediction
	if s.LastPackets[0][0] != 5 {
		t.Errorf("Commit(glitch, warm) should use prediction, got %+v", s.LastPackets[0])
	}
}

func TestCommitGlitchEarlyUsesTruth(t *testing.T) {
	s := New(2, 3)
	s.Prediction[0], s.Prediction[1] = 5, 5
	s.Truth[0], s.Truth[1] = 9, 9

	s.Commit(true, true) // glitch, but early (warm-up) -> truth
	if s.LastPackets[0][0] != 9 {
		t.Errorf("Commit(glitch, early) should use truth, got %+v", s.LastPackets[0])
	}
}

// At history depth 1, Order = FPP-1 is one short of FPP: Commit must not
// index Prediction out of bounds when filling the full FPP-length history
// slot.
func TestCommitGlitchWarmHistoryDepthOneDoesNotPanic(t *testing.T) {
	s := New(4, 1) // H=1 -> Order=3, Prediction has 3 elements, FPP=4
	for i := range s.Prediction {
		s.Prediction[i] = float64(i + 1)
	}
	s.Truth[0], s.Truth[1], s.Truth[2], s.Truth[3] = 9, 9, 9, 9

	s.Commit(true, false) // glitch, warm -> prediction, clamped past Order-1

	want := []float64{1, 2, 3, 3} // last index clamped to len(Prediction)-1
	for i, w := range want {
		if s.LastPackets[0][i] != w {
			t.Errorf("LastPackets[0][%d] = %f, want %f", i, s.LastPackets[0][i], w)
		}
	}
}

func TestBuildTrainingWindowOldestFirst(t *testing.T) {
	s := New(2, 3)
	s.LastPackets[0][0] = 0 // newest
	s.LastPackets[1][0] = 1
	s.LastPackets[2][0] = 2 // oldest

	s.BuildTrainingWindow()

	// oldest (index 2) should land at TrainingWindow[0:2], newest at the end.
	if s.TrainingWindow[0] != 2 {
		t.Errorf("TrainingWindow[0] = %f, want oldest packet value 2", s.TrainingWindow[0])
	}
	if s.TrainingWindow[4] != 0 {
		t.Errorf("TrainingWindow[4] = %f, want newest packet value 0", s.TrainingWindow[4])
	}
}
