// Package jitterpool implements a receive-side jitter buffer with linear-
// predictive loss concealment for fixed-format PCM audio streams. Callers
// push arriving network packets and pull fixed-size packets on the audio
// thread's cadence; underrun (late or missing arrivals) is concealed rather
// than left as silence or discontinuity, using a Burg-algorithm linear
// predictor trained on each channel's recent history.
package jitterpool

import (
	"fmt"

	"jitterpool/internal/channelstate"
	"jitterpool/internal/codec"
	"jitterpool/internal/concealment"
	"jitterpool/internal/pool"
)

// Mode re-exports concealment.Mode so callers never need to import the
// internal package directly.
type Mode = concealment.Mode

const (
	ModePassthrough = concealment.ModePassthrough
	ModeHoldLast    = concealment.ModeHoldLast
	ModeMute        = concealment.ModeMute
	ModeSmoothedLPC = concealment.ModeSmoothedLPC
	ModeRawLPC      = concealment.ModeRawLPC
	ModeDiagnostic  = concealment.ModeDiagnostic
)

// Config describes one stream's fixed audio format and buffering policy.
// All fields are required; see New for validation rules.
type Config struct {
	SampleRate int
	Channels   int
	// BitResolution is 1 (8-bit), 2 (16-bit), 3 (24-bit) or 4 (32-bit float).
	BitResolution int
	// FramesPerPacket is the number of audio frames carried by one network
	// packet (and consumed by one Pull call).
	FramesPerPacket int
	// PoolSize is the number of packet slots held in the receive pool;
	// must be large enough to cover RcvLag plus expected jitter.
	PoolSize int
	// RcvLag is the configured playback delay, in packets.
	RcvLag int
	// Mode selects the initial concealment strategy. Zero value is
	// ModePassthrough; callers wanting concealment must set this explicitly
	// or call SetMode after New.
	Mode Mode
}

// Engine is a single stream's jitter buffer and concealment pipeline. The
// zero value is not usable; use New. An *Engine is safe for concurrent use
// by one Push-calling goroutine and one Pull-calling goroutine, per the
// concurrency model in internal/pool.
type Engine struct {
	cfg   Config
	codec *codec.Codec
	pool  *pool.Pool
	conc  *concealment.Engine
}

// New validates cfg and constructs an Engine ready to Push/Pull.
func New(cfg Config) (*Engine, error) {
	if cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("jitterpool: sample rate must be positive, got %d", cfg.SampleRate)
	}
	if cfg.Channels <= 0 {
		return nil, fmt.Errorf("jitterpool: channels must be positive, got %d", cfg.Channels)
	}
	res := codec.Resolution(cfg.BitResolution)
	if !res.Valid() {
		return nil, fmt.Errorf("jitterpool: bit resolution must be 1, 2, 3 or 4, got %d", cfg.BitResolution)
	}
	if cfg.FramesPerPacket <= 0 {
		return nil, fmt.Errorf("jitterpool: frames per packet must be positive, got %d", cfg.FramesPerPacket)
	}
	if cfg.PoolSize <= 0 {
		return nil, fmt.Errorf("jitterpool: pool size must be positive, got %d", cfg.PoolSize)
	}
	if cfg.RcvLag < 0 {
		return nil, fmt.Errorf("jitterpool: rcv lag must be non-negative, got %d", cfg.RcvLag)
	}
	if !cfg.Mode.Valid() {
		return nil, fmt.Errorf("jitterpool: invalid mode %d", cfg.Mode)
	}
	if cfg.PoolSize < cfg.RcvLag+1 {
		return nil, fmt.Errorf("jitterpool: pool size (%d) must be at least rcv lag + 1 (%d)", cfg.PoolSize, cfg.RcvLag+1)
	}

	c := codec.New(cfg.Channels, res)
	bytesPerPacket := c.PacketBytes(cfg.FramesPerPacket)
	history := channelstate.HistoryDepth(cfg.FramesPerPacket)
	glitchMax := history * 2 * cfg.FramesPerPacket

	return &Engine{
		cfg:   cfg,
		codec: c,
		pool:  pool.New(cfg.PoolSize, bytesPerPacket, cfg.RcvLag, glitchMax),
		conc:  concealment.New(cfg.Channels, cfg.FramesPerPacket, history, c, cfg.Mode),
	}, nil
}

// Push enqueues one arriving packet's raw bytes. buf must be exactly
// e.PacketBytes() long; a mismatched length is rejected without modifying
// pool state. Never blocks beyond a mutex acquisition.
func (e *Engine) Push(buf []byte) bool {
	if len(buf) != e.PacketBytes() {
		return false
	}
	return e.pool.Push(buf)
}

// Pull writes one packet's worth of concealed/passthrough audio into out,
// which must be exactly e.PacketBytes() long. Before the pool has started
// (no packet has ever triggered the health monitor's resync — see
// internal/pool), Pull writes silence.
func (e *Engine) Pull(out []byte) {
	if len(out) != e.PacketBytes() {
		return
	}
	glitch := e.pool.Pull()
	if !e.pool.Started() {
		for i := range out {
			out[i] = 0
		}
		return
	}
	copy(out, e.pool.Bytes())
	e.conc.Process(out, glitch)
}

// SetMode changes the active concealment strategy.
func (e *Engine) SetMode(m Mode) error {
	if !m.Valid() {
		return fmt.Errorf("jitterpool: invalid mode %d", m)
	}
	e.conc.SetMode(m)
	return nil
}

// Diagnostics returns a snapshot of the pool's monitor counters plus the
// concealment engine's packet count (spec §3's PacketCnt, tracked by
// concealment rather than pool since it drives the per-channel warm-up rule,
// not pool eviction/resync).
func (e *Engine) Diagnostics() pool.Diagnostics {
	d := e.pool.Diagnostics()
	d.PacketCnt = e.conc.PacketCnt()
	return d
}

// PacketBytes returns the exact byte length Push expects and Pull produces.
func (e *Engine) PacketBytes() int { return e.pool.BytesPerPacket() }
