package main

import (
	"time"

	"jitterpool/internal/codec"
)

// codecFor returns a codec.Codec for the given channel count and bit
// resolution (1,2,3,4), matching jitterpool.Engine's own wire format.
func codecFor(channels, bitRes int) *codec.Codec {
	return codec.New(channels, codec.Resolution(bitRes))
}

// decodeInterleavedFloat32 converts a raw packet buffer into interleaved
// float32 frames suitable for a PortAudio output stream.
func decodeInterleavedFloat32(src []byte, dst []float32, channels, bitRes int) {
	c := codecFor(channels, bitRes)
	frames := len(dst) / channels
	for f := 0; f < frames; f++ {
		for ch := 0; ch < channels; ch++ {
			dst[f*channels+ch] = float32(c.Decode(src, ch, f))
		}
	}
}

// encodeInterleavedFloat32 converts interleaved float32 frames captured from
// a PortAudio input stream into a raw packet buffer.
func encodeInterleavedFloat32(src []float32, dst []byte, channels, bitRes int) {
	c := codecFor(channels, bitRes)
	frames := len(src) / channels
	for f := 0; f < frames; f++ {
		for ch := 0; ch < channels; ch++ {
			c.Encode(float64(src[f*channels+ch]), dst, ch, f)
		}
	}
}

// frameTicker fires once per packet's worth of audio time, used to pace
// Pull calls against wall-clock time when there is no hardware output
// stream driving the cadence directly.
type frameTicker struct {
	c      <-chan time.Time
	ticker *time.Ticker
}

func newFrameTicker(sampleRate, framesPerPacket int) frameTicker {
	d := time.Duration(framesPerPacket) * time.Second / time.Duration(sampleRate)
	t := time.NewTicker(d)
	return frameTicker{c: t.C, ticker: t}
}

func (f frameTicker) stop() { f.ticker.Stop() }
