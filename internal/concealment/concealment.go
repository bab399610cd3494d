// Package concealment implements the per-channel loss-concealment modes: a
// Burg-predictor-driven extrapolation, a cross-fade back to truth after a
// glitch, and the simpler hold-last/mute/passthrough fallbacks, selectable
// at runtime via Mode.
package concealment

import (
	"jitterpool/internal/channelstate"
	"jitterpool/internal/codec"
	"jitterpool/internal/fade"
	"jitterpool/internal/predictor"
)

// Mode selects how a channel's samples are produced once per packet cycle.
// The zero value is ModePassthrough.
type Mode int

const (
	// ModePassthrough always outputs the decoded truth, glitch or not — no
	// concealment at all. Useful as a baseline for A/B comparison.
	ModePassthrough Mode = 0
	// ModeHoldLast repeats the last glitch-free packet verbatim on a glitch.
	ModeHoldLast Mode = 1
	// ModeMute outputs silence on a glitch.
	ModeMute Mode = 2
	// ModeSmoothedLPC conceals a glitch with the Burg prediction, and
	// cross-fades the packet immediately following a glitch between the
	// previous cycle's forecast and truth. This is the default.
	ModeSmoothedLPC Mode = 3
	// ModeRawLPC conceals a glitch with the Burg prediction but performs no
	// cross-fade on recovery.
	ModeRawLPC Mode = 4
	// ModeDiagnostic always outputs the prediction, glitch or not, so the
	// predictor's output can be compared directly against truth.
	ModeDiagnostic Mode = 5
)

// Valid reports whether m is one of the six defined modes.
func (m Mode) Valid() bool {
	switch m {
	case ModePassthrough, ModeHoldLast, ModeMute, ModeSmoothedLPC, ModeRawLPC, ModeDiagnostic:
		return true
	}
	return false
}

// Engine runs concealment across all channels of one packet at a time. It
// owns one channelstate.State and one predictor.Predictor per channel, and a
// shared set of cross-fade tables. The zero value is not usable; use New.
type Engine struct {
	mode Mode

	fpp      int
	channels int

	states     []*channelstate.State
	predictors []*predictor.Predictor
	fadeTables fade.Tables
	codec      *codec.Codec

	packetCnt     int
	lastWasGlitch bool
}

// New returns an Engine for the given channel count, frames-per-packet and
// history depth (see channelstate.HistoryDepth), using c to decode/encode
// samples in place within the packet buffer passed to Process.
func New(channels, framesPerPacket, history int, c *codec.Codec, mode Mode) *Engine {
	states := make([]*channelstate.State, channels)
	predictors := make([]*predictor.Predictor, channels)
	for i := range states {
		states[i] = channelstate.New(framesPerPacket, history)
		predictors[i] = predictor.New()
	}
	return &Engine{
		mode:       mode,
		fpp:        framesPerPacket,
		channels:   channels,
		states:     states,
		predictors: predictors,
		fadeTables: fade.New(framesPerPacket),
		codec:      c,
	}
}

// SetMode changes the active concealment mode. Safe to call at any time
// between Process calls; the caller (jitterpool.Engine) is responsible for
// validating m.Valid() before accepting it from external configuration.
func (e *Engine) SetMode(m Mode) { e.mode = m }

// Mode returns the active concealment mode.
func (e *Engine) Mode() Mode { return e.mode }

// PacketCnt returns the number of packets processed so far, the same warm-up
// counter Process uses to decide when a channel's history is primed.
func (e *Engine) PacketCnt() int { return e.packetCnt }

// Process conceals/passes through one packet's worth of samples in buf,
// in place, across all channels, given whether this cycle's pool pull was a
// glitch. On the very first call (packet count 0) buf is left untouched —
// there is no history yet to predict from, so the raw decoded truth is the
// only sensible output, and it is already present in buf.
func (e *Engine) Process(buf []byte, glitch bool) {
	for ch := 0; ch < e.channels; ch++ {
		e.processChannel(ch, buf, glitch)
	}
	e.lastWasGlitch = glitch
	e.packetCnt++
}

func (e *Engine) processChannel(ch int, buf []byte, glitch bool) {
	s := e.states[ch]
	for f := 0; f < e.fpp; f++ {
		s.Truth[f] = e.codec.Decode(buf, ch, f)
	}

	early := e.packetCnt < s.H

	if e.packetCnt > 0 {
		s.BuildTrainingWindow()
		coeffs := e.predictors[ch].Train(s.TrainingWindow)
		copy(s.Coeffs, coeffs)

		extended := predictor.Predict(s.Coeffs, s.TrainingWindow)
		trainSamps := len(s.TrainingWindow)
		for i := 0; i < s.Order; i++ {
			s.Prediction[i] = extended[i+trainSamps]
		}

		for f := 0; f < e.fpp; f++ {
			s.XfadedPred[f] = s.Truth[f]*e.fadeTables.Up[f] + s.NextPred[f]*e.fadeTables.Down[f]
		}

		for f := 0; f < e.fpp; f++ {
			e.codec.Encode(e.selectSample(s, f, glitch), buf, ch, f)
		}

		// NextPred[f] = Prediction[f+FPP]: the forecast for the packet after
		// this one. The highest index read is 2*FPP-1, but when history
		// depth is 1 or 2, Order (H*FPP-1) is less than 2*FPP, so this index
		// is clamped to the last available prediction sample rather than
		// read out of bounds.
		for f := 0; f < e.fpp; f++ {
			s.NextPred[f] = s.Prediction[predIndex(f+e.fpp, len(s.Prediction))]
		}
	}

	s.ShiftHistory()
	s.Commit(glitch, early)
	if !glitch {
		copy(s.LastGoodPacket, s.Truth)
	}
}

// selectSample applies the mode table to one frame of one channel.
func (e *Engine) selectSample(s *channelstate.State, f int, glitch bool) float64 {
	pred := s.Prediction[predIndex(f, len(s.Prediction))]
	switch e.mode {
	case ModePassthrough:
		return s.Truth[f]
	case ModeHoldLast:
		if glitch {
			return s.LastGoodPacket[f]
		}
		return s.Truth[f]
	case ModeMute:
		if glitch {
			return 0
		}
		return s.Truth[f]
	case ModeSmoothedLPC:
		if glitch {
			return pred
		}
		if e.lastWasGlitch {
			return s.XfadedPred[f]
		}
		return s.Truth[f]
	case ModeRawLPC:
		if glitch {
			return pred
		}
		return s.Truth[f]
	case ModeDiagnostic:
		return pred
	default:
		return s.Truth[f]
	}
}

// predIndex clamps idx into [0, n) — a defensive guard against the reference
// design's Order=H*FPP-1 being shorter than the 2*FPP samples the NextPred
// refresh reads when history depth is 1 or 2.
func predIndex(idx, n int) int {
	if idx >= n {
		return n - 1
	}
	return idx
}
