// SPDX-License-Identifier: MIT

package divergence

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/integrate"

	"github.com/katalvlaran/lvlspec/spectrum"
)

const opKL = "KL"

// KL returns ∫ p(s)·(log p(s) + s) ds, the divergence of the density p sampled
// at the bin centres s from the unit-rate Poisson density.
//
// Implementation:
//   - Stage 1: validate shape, finiteness and ordering of s.
//   - Stage 2: optional smoothing; integrand p⁺·(log max(p, ε) + s).
//   - Stage 3: quadrature by the selected rule.
//
// Errors:
//   - spectrum.ErrBadShape when len(s) != len(p).
//   - spectrum.ErrInsufficientData for fewer than 2 points, unless a bin width
//     is given and the rule is Midpoint.
//   - ErrUnsortedGrid when s is not strictly increasing.
//   - spectrum.ErrNonFiniteResult on NaN/Inf input or result.
//
// Complexity: O(len(s)).
func KL(s, p []float64, opts ...Option) (float64, error) {
	cfg := gatherOptions(opts)

	// Stage 1 (Validate)
	if len(s) != len(p) {
		return 0, fmt.Errorf("divergence: %s: %d centres, %d densities: %w", opKL, len(s), len(p), spectrum.ErrBadShape)
	}
	n := len(s)
	if n == 0 || (n == 1 && (cfg.binWidth == 0 || cfg.rule != Midpoint)) {
		return 0, fmt.Errorf("divergence: %s: %d points: %w", opKL, n, spectrum.ErrInsufficientData)
	}
	if !spectrum.AllFinite(s) || !spectrum.AllFinite(p) {
		return 0, fmt.Errorf("divergence: %s: %w", opKL, spectrum.ErrNonFiniteResult)
	}
	for k := 1; k < n; k++ {
		if s[k] <= s[k-1] {
			return 0, fmt.Errorf("divergence: %s: s[%d]=%g ≤ s[%d]=%g: %w", opKL, k, s[k], k-1, s[k-1], ErrUnsortedGrid)
		}
	}

	// Stage 2 (Prepare)
	dens := p
	if cfg.smooth {
		dens = Smooth(p)
	}
	f := make([]float64, n)
	for k := range f {
		f[k] = math.Max(dens[k], 0) * (math.Log(math.Max(dens[k], cfg.eps)) + s[k])
	}

	// Stage 3 (Execute)
	var d float64
	switch {
	case cfg.rule == Midpoint:
		d = midpoint(s, f, cfg.binWidth)
	case cfg.rule == Simpson && n >= 3:
		d = integrate.Simpsons(s, f)
	default:
		d = integrate.Trapezoidal(s, f)
	}
	if !spectrum.IsFinite(d) {
		return 0, fmt.Errorf("divergence: %s: %w", opKL, spectrum.ErrNonFiniteResult)
	}

	return d, nil
}

// midpoint sums f_k·Δ_k. With width > 0 every Δ_k is width; otherwise Δ_k is
// the distance between the midpoints around s_k (end bins mirror their neighbour).
func midpoint(s, f []float64, width float64) float64 {
	n := len(s)
	var sum, delta float64
	for k := 0; k < n; k++ {
		switch {
		case width > 0:
			delta = width
		case k == 0:
			delta = s[1] - s[0]
		case k == n-1:
			delta = s[n-1] - s[n-2]
		default:
			delta = 0.5 * (s[k+1] - s[k-1])
		}
		sum += f[k] * delta
	}

	return sum
}

// Smooth returns the 3-point moving average of p. The span shrinks at the
// ends, so the first and last values are kept.
func Smooth(p []float64) []float64 {
	n := len(p)
	out := make([]float64, n)
	copy(out, p)
	for k := 1; k < n-1; k++ {
		out[k] = (p[k-1] + p[k] + p[k+1]) / 3
	}

	return out
}
