// Package predictor implements a Burg-algorithm linear predictor used to
// extrapolate an audio signal's recent history forward by one packet's
// worth of samples, for loss concealment.
//
// The implementation follows the classic Burg recursion (Press, Teukolsky,
// Vetterling & Flannery, "Numerical Recipes in C", §13.6, procedure
// memcof) — the same derivation the original jitter-concealment core
// (JackTrip's PoolBuffer, via its BurgAlgorithm helper) is built on.
package predictor

import "math"

// Predictor trains and extrapolates an all-pole (autoregressive) model over
// a fixed-size working buffer. The zero value is ready to use; working
// arrays are allocated lazily on the first Train call for the observed
// window size and reused while the window size stays the same. The slices
// returned by Train and by Predict are freshly allocated on every call.
type Predictor struct {
	n     int // last-seen training window length
	wk1   []float64
	wk2   []float64
	wkm   []float64
	coefs []float64
}

// New returns a ready-to-use Predictor.
func New() *Predictor {
	return &Predictor{}
}

// ensure grows the working arrays for a training window of length n
// (order = n-1). Called from Train; never reallocates on repeated calls
// with the same n.
func (p *Predictor) ensure(n int) {
	if p.n == n {
		return
	}
	p.n = n
	m := n - 1
	if m < 1 {
		m = 1
	}
	p.wk1 = make([]float64, n+1)
	p.wk2 = make([]float64, n+1)
	p.wkm = make([]float64, m+1)
	p.coefs = make([]float64, m+1)
}

// Train computes autoregressive coefficients of order N-1 from the N-sample
// training window. Returns a coefficient slice of length N-1. Numerically
// stable for N up to 6*1024; degenerate windows (e.g. all-silence, where the
// recursion's denominator vanishes) yield all-zero coefficients rather than
// NaN/Inf, satisfying the PredictorDegeneracy fallback.
func (p *Predictor) Train(window []float64) []float64 {
	n := len(window)
	m := n - 1
	if m < 1 {
		return nil
	}
	p.ensure(n)

	wk1, wk2, wkm, d := p.wk1, p.wk2, p.wkm, p.coefs
	wk1[1] = window[0]
	wk2[n-1] = window[n-1]
	for j := 2; j <= n-1; j++ {
		wk1[j] = window[j-1]
		wk2[j-1] = window[j-1]
	}

	for i := range d {
		d[i] = 0
	}
	for i := range wkm {
		wkm[i] = 0
	}

	for k := 1; k <= m; k++ {
		var num, denom float64
		for j := 1; j <= n-k; j++ {
			num += wk1[j] * wk2[j]
			denom += wk1[j]*wk1[j] + wk2[j]*wk2[j]
		}
		if denom == 0 || math.IsNaN(denom) || math.IsInf(denom, 0) {
			d[k] = 0
		} else {
			d[k] = 2.0 * num / denom
			if math.IsNaN(d[k]) || math.IsInf(d[k], 0) {
				d[k] = 0
			}
		}
		for i := 1; i <= k-1; i++ {
			d[i] = wkm[i] - d[k]*wkm[k-i]
		}
		if k == m {
			break
		}
		for i := 1; i <= k; i++ {
			wkm[i] = d[i]
		}
		for j := 1; j <= n-k-1; j++ {
			wk1[j] -= wkm[k] * wk2[j]
			wk2[j] = wk2[j+1] - wkm[k]*wk1[j+1]
		}
	}

	out := make([]float64, m)
	copy(out, d[1:])
	return out
}

// Predict extends seed (length N) forward by len(coeffs) samples using the
// given AR coefficients (order = N-1), returning seed concatenated with the
// extrapolated tail — a slice of length N+len(coeffs).
//
// Note on the reference: the C++ original's code comment claims the
// extended buffer is resized to "TRAINSAMPS-2+TRAINSAMPS" (2N-2) samples,
// but the caller then reads tail[i+TRAINSAMPS] for i in [0, ORDER), i.e. up
// to index 2N-2 inclusive — which requires a length of 2N-1, not 2N-2. This
// implementation returns the length the access pattern actually requires
// (N + order = 2N-1 when order = N-1); see DESIGN.md.
func Predict(coeffs []float64, seed []float64) []float64 {
	order := len(coeffs)
	n := len(seed)
	out := make([]float64, n+order)
	copy(out, seed)
	for t := n; t < n+order; t++ {
		var pred float64
		for i := 1; i <= order; i++ {
			pred += coeffs[i-1] * out[t-i]
		}
		if math.IsNaN(pred) || math.IsInf(pred, 0) {
			pred = 0
		}
		out[t] = pred
	}
	return out
}
