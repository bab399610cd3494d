package jitterpool

import (
	"math"
	"testing"

	"jitterpool/internal/channelstate"
)

// forceStart drives enough Pull misses to push glitchCnt past glitchMax,
// then one Push to trigger the resync check (which lives in Push, not
// Pull — see internal/pool.Push), flipping started=true.
func forceStart(e *Engine) {
	history := channelstate.HistoryDepth(e.cfg.FramesPerPacket)
	glitchMax := history * 2 * e.cfg.FramesPerPacket
	for i := 0; i < glitchMax+1; i++ {
		e.Pull(make([]byte, e.PacketBytes()))
	}
	e.Push(make([]byte, e.PacketBytes()))
}

func validConfig() Config {
	return Config{
		SampleRate:      48000,
		Channels:        1,
		BitResolution:   4,
		FramesPerPacket: 16,
		PoolSize:        4,
		RcvLag:          1,
		Mode:            ModeSmoothedLPC,
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cases := []struct {
		name string
		mod  func(c *Config)
	}{
		{"sample rate", func(c *Config) { c.SampleRate = 0 }},
		{"channels", func(c *Config) { c.Channels = 0 }},
		{"bit resolution", func(c *Config) { c.BitResolution = 5 }},
		{"frames per packet", func(c *Config) { c.FramesPerPacket = 0 }},
		{"pool size", func(c *Config) { c.PoolSize = 0 }},
		{"rcv lag", func(c *Config) { c.RcvLag = -1 }},
		{"mode", func(c *Config) { c.Mode = Mode(99) }},
		{"pool too small for lag", func(c *Config) { c.PoolSize = 1; c.RcvLag = 3 }},
	}
	for _, tc := range cases {
		cfg := validConfig()
		tc.mod(&cfg)
		if _, err := New(cfg); err == nil {
			t.Errorf("%s: expected error, got none", tc.name)
		}
	}
}

func TestNewAcceptsValidConfig(t *testing.T) {
	if _, err := New(validConfig()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestColdStartProducesSilence(t *testing.T) {
	e, err := New(validConfig())
	if err != nil {
		t.Fatal(err)
	}
	out := make([]byte, e.PacketBytes())
	for i := range out {
		out[i] = 0xAA
	}
	e.Pull(out)
	for i, b := range out {
		if b != 0 {
			t.Fatalf("byte %d = %#x, want 0 (cold start silence)", i, b)
		}
	}
}

func TestPushPullRoundTripAfterStart(t *testing.T) {
	e, err := New(validConfig())
	if err != nil {
		t.Fatal(err)
	}
	n := e.cfg.FramesPerPacket

	send := func(v float64) []byte {
		buf := make([]byte, e.PacketBytes())
		for f := 0; f < n; f++ {
			e.codec.Encode(v, buf, 0, f)
		}
		return buf
	}

	// Force the resync that flips started=true, then confirm a push/pull
	// after start yields a decodable (non-NaN) sample.
	forceStart(e)
	if !e.pool.Started() {
		t.Fatal("expected pool to have started after sustained misses")
	}

	e.Push(send(0.5))
	out := make([]byte, e.PacketBytes())
	e.Pull(out)
	got := e.codec.Decode(out, 0, 0)
	if math.IsNaN(got) {
		t.Fatalf("decoded NaN")
	}
}

func TestPushRejectsWrongLength(t *testing.T) {
	e, err := New(validConfig())
	if err != nil {
		t.Fatal(err)
	}
	if e.Push(make([]byte, 3)) {
		t.Error("expected Push to reject a mismatched buffer length")
	}
}

func TestDiagnosticsReportsPacketCnt(t *testing.T) {
	e, err := New(validConfig())
	if err != nil {
		t.Fatal(err)
	}
	n := e.cfg.FramesPerPacket
	send := func(v float64) []byte {
		buf := make([]byte, e.PacketBytes())
		for f := 0; f < n; f++ {
			e.codec.Encode(v, buf, 0, f)
		}
		return buf
	}

	if d := e.Diagnostics(); d.PacketCnt != 0 {
		t.Fatalf("PacketCnt = %d, want 0 before the pool has started", d.PacketCnt)
	}
	forceStart(e)
	if d := e.Diagnostics(); d.PacketCnt != 0 {
		t.Fatalf("PacketCnt = %d, want 0 immediately after resync (no started pull ran concealment yet)", d.PacketCnt)
	}

	e.Push(send(0.5))
	e.Pull(make([]byte, e.PacketBytes()))
	e.Push(send(0.5))
	e.Pull(make([]byte, e.PacketBytes()))

	if d := e.Diagnostics(); d.PacketCnt != 2 {
		t.Errorf("PacketCnt = %d, want 2 after two started pulls", d.PacketCnt)
	}
}

func TestSetModeRejectsInvalid(t *testing.T) {
	e, err := New(validConfig())
	if err != nil {
		t.Fatal(err)
	}
	if err := e.SetMode(Mode(42)); err == nil {
		t.Error("expected error for invalid mode")
	}
	if err := e.SetMode(ModeMute); err != nil {
		t.Errorf("unexpected error setting valid mode: %v", err)
	}
}
