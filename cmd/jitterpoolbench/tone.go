package main

import (
	"fmt"
	"math"
	"math/rand"

	"jitterpool"
)

const toneFreqHz = 440.0 // A4, matches the reference test-signal frequency

type toneParams struct {
	sampleRate int
	fpp        int
	poolSize   int
	rcvLag     int
	lossPct    float64
	cycles     int
	mode       int
}

type toneReport struct {
	cycles     int
	glitches   int
	glitchRate float64
	meanSqErr  float64
}

// runTone drives a jitterpool.Engine with a synthetic sine wave, dropping
// packets at the requested rate, and reports the resulting glitch rate and
// mean squared error between the concealed output and the true waveform —
// the same comparison spec §8 scenario 6 describes by hand.
func runTone(p toneParams) (toneReport, error) {
	cfg := jitterpool.Config{
		SampleRate:      p.sampleRate,
		Channels:        1,
		BitResolution:   4,
		FramesPerPacket: p.fpp,
		PoolSize:        p.poolSize,
		RcvLag:          p.rcvLag,
		Mode:            jitterpool.Mode(p.mode),
	}
	e, err := jitterpool.New(cfg)
	if err != nil {
		return toneReport{}, fmt.Errorf("jitterpool.New: %w", err)
	}

	rng := rand.New(rand.NewSource(1))
	buf := make([]byte, e.PacketBytes())
	out := make([]byte, e.PacketBytes())

	var glitches int
	var sqErr float64
	var samples int
	phase := 0

	for i := 0; i < p.cycles; i++ {
		truth := make([]float64, p.fpp)
		for f := 0; f < p.fpp; f++ {
			truth[f] = math.Sin(2 * math.Pi * toneFreqHz * float64(phase+f) / float64(p.sampleRate))
		}
		phase += p.fpp

		if rng.Float64()*100 >= p.lossPct {
			encodeTone(truth, buf)
			e.Push(buf)
		}

		e.Pull(out)
		d := e.Diagnostics()
		if d.GlitchCnt > glitches {
			glitches = d.GlitchCnt
		}

		if d.Started {
			for f := 0; f < p.fpp; f++ {
				got := decodeToneSample(out, f)
				diff := got - truth[f]
				sqErr += diff * diff
				samples++
			}
		}
	}

	report := toneReport{cycles: p.cycles, glitches: glitches}
	if p.cycles > 0 {
		report.glitchRate = float64(glitches) / float64(p.cycles)
	}
	if samples > 0 {
		report.meanSqErr = sqErr / float64(samples)
	}
	return report, nil
}

func encodeTone(samples []float64, dst []byte) {
	for f, v := range samples {
		off := f * 4
		bits := math.Float32bits(float32(v))
		dst[off] = byte(bits)
		dst[off+1] = byte(bits >> 8)
		dst[off+2] = byte(bits >> 16)
		dst[off+3] = byte(bits >> 24)
	}
}

func decodeToneSample(src []byte, frame int) float64 {
	off := frame * 4
	bits := uint32(src[off]) | uint32(src[off+1])<<8 | uint32(src[off+2])<<16 | uint32(src[off+3])<<24
	return float64(math.Float32frombits(bits))
}
