// Package adapt advises on jitter-buffer depth (rcv_lag) based on observed
// concealment activity. It is advisory only: the core pool/concealment
// engine never mutates its own rcv_lag (it is fixed at construction time),
// so a caller that wants to act on a recommendation must reconstruct its
// Engine with a new Config carrying the suggested lag.
package adapt

// minLag/maxLag bound the range RecommendedLag will ever suggest.
const (
	minLag = 0
	maxLag = 8
)

// Glitch-rate thresholds (glitches per pull, measured over a recent window)
// that trigger a one-packet adjustment.
const (
	highGlitchRate = 0.02  // buffer too shallow for the observed jitter
	lowGlitchRate  = 0.002 // slack available to trade for lower latency
)

// RecommendedLag suggests a new rcv_lag, in packets, given the glitch rate
// observed since the last adjustment and the currently configured lag.
//
// Step UP one packet when glitchRate exceeds highGlitchRate. Step DOWN one
// packet when glitchRate is below lowGlitchRate. Otherwise hold. This is
// distinct from sender-side rate adaptation (out of scope): it only ever
// adjusts local receive-side buffering depth, never anything the sender
// transmits.
func RecommendedLag(glitchRate float64, currentLag int) int {
	lag := currentLag
	switch {
	case glitchRate > highGlitchRate:
		lag++
	case glitchRate < lowGlitchRate && lag > minLag:
		lag--
	}
	if lag < minLag {
		lag = minLag
	}
	if lag > maxLag {
		lag = maxLag
	}
	return lag
}
