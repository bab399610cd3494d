// Package channelstate holds the per-channel DSP state the concealment
// engine needs across packets: a rolling history of recent frames, the
// Burg predictor's working buffers, and the cross-fade buffers used to
// smooth the transition back to truth after a glitch.
package channelstate

// History depth bounds, derived from FPP so that H*FPP is approximately 192
// training samples at standard frame sizes. Preserved from the original
// reference's clamp (mHist in [1,6]), which in turn bounds the predictor's
// order and keeps Burg training cost bounded.
const (
	minHistory = 1
	maxHistory = 6
	// targetTrainingSamples is the original reference's fixed training
	// window size at FPP=32 (6*32 = 192 samples), divided by the actual FPP
	// to get a history depth in packets.
	targetTrainingSamples = 6 * 32
)

// HistoryDepth derives H from framesPerPacket per the original reference:
// H = floor(192/FPP), clamped to [1,6] and never zero.
func HistoryDepth(framesPerPacket int) int {
	if framesPerPacket <= 0 {
		return minHistory
	}
	h := targetTrainingSamples / framesPerPacket
	if h < minHistory {
		h = minHistory
	} else if h > maxHistory {
		h = maxHistory
	}
	return h
}

// State is the per-channel concealment state described in spec §3.
type State struct {
	FPP   int
	H     int
	Order int // H*FPP - 1

	// LastPackets[i] is the i-th most recent truth-or-predicted frame,
	// newest at index 0.
	LastPackets [][]float64

	// TrainingWindow is the flattened oldest-to-newest view fed to the
	// predictor; length H*FPP.
	TrainingWindow []float64

	Coeffs     []float64 // length Order
	Prediction []float64 // length Order
	NextPred   []float64 // length FPP
	XfadedPred []float64 // length FPP

	LastGoodPacket []float64 // length FPP
	Truth          []float64 // length FPP
}

// New allocates a State for the given frames-per-packet and history depth.
// All buffers are sized once and never reallocated on the hot path.
func New(framesPerPacket, history int) *State {
	if history < minHistory {
		history = minHistory
	}
	lastPackets := make([][]float64, history)
	for i := range lastPackets {
		lastPackets[i] = make([]float64, framesPerPacket)
	}
	order := history*framesPerPacket - 1
	if order < 1 {
		order = 1
	}
	return &State{
		FPP:            framesPerPacket,
		H:              history,
		Order:          order,
		LastPackets:    lastPackets,
		TrainingWindow: make([]float64, history*framesPerPacket),
		Coeffs:         make([]float64, order),
		Prediction:     make([]float64, order),
		NextPred:       make([]float64, framesPerPacket),
		XfadedPred:     make([]float64, framesPerPacket),
		LastGoodPacket: make([]float64, framesPerPacket),
		Truth:          make([]float64, framesPerPacket),
	}
}

// BuildTrainingWindow fills TrainingWindow from LastPackets, oldest-first:
// for i in [0,H), LastPackets[i] (i frames back) is placed at
// TrainingWindow[(H-1-i)*FPP : +FPP].
func (s *State) BuildTrainingWindow() {
	for i := 0; i < s.H; i++ {
		copy(s.TrainingWindow[(s.H-1-i)*s.FPP:], s.LastPackets[i])
	}
}

// ShiftHistory slides LastPackets down by one slot, discarding the oldest
// entry and leaving index 0 ready to receive the newest frame via Commit.
func (s *State) ShiftHistory() {
	for i := s.H - 1; i > 0; i-- {
		copy(s.LastPackets[i], s.LastPackets[i-1])
	}
}

// Commit writes history slot 0 after a cycle's processing. Rule: slot 0
// receives truth unless the cycle was a glitch and the predictor is warm
// (not early), in which case it receives the predicted first-packet tail
// (prediction[0:FPP]) instead — feeding the predictor coherent history
// rather than poisoning it with stale bytes.
//
// Prediction has length Order = H*FPP-1, which falls short of FPP whenever
// H==1 (any FPP of 97 or more, where targetTrainingSamples/FPP truncates to
// 1). In that case the read index is
// clamped to the last available sample rather than indexed out of bounds.
func (s *State) Commit(wasGlitch, early bool) {
	if !wasGlitch || early {
		copy(s.LastPackets[0], s.Truth)
		return
	}
	last := len(s.Prediction) - 1
	for f := 0; f < s.FPP; f++ {
		idx := f
		if idx > last {
			idx = last
		}
		s.LastPackets[0][f] = s.Prediction[idx]
	}
}
