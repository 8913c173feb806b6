// SPDX-License-Identifier: MIT

package spacing

import "math"

// golden-section search settings for FitBrody.
const (
	brodyIterations = 80
	invPhi          = 0.6180339887498949 // 1/φ
)

// Poisson is the unit-rate Poisson spacing density exp(−s).
func Poisson(s float64) float64 { return math.Exp(-s) }

// Wigner is the GOE Wigner surmise (π s/2)·exp(−π s²/4).
func Wigner(s float64) float64 { return 0.5 * math.Pi * s * math.Exp(-0.25*math.Pi*s*s) }

// Brody is the Brody spacing density interpolating Poisson (β=0) and the
// Wigner surmise (β=1): (β+1)·b·s^β·exp(−b·s^(β+1)), b = Γ((β+2)/(β+1))^(β+1).
func Brody(s, beta float64) float64 {
	b := math.Pow(math.Gamma((beta+2)/(beta+1)), beta+1)

	return (beta + 1) * b * math.Pow(s, beta) * math.Exp(-b*math.Pow(s, beta+1))
}

// FitBrody returns the β ∈ [0, 1] minimizing Σ (p(c) − Brody(c, β))² over the
// bin centres of res, and the attained sum of squared errors.
// Complexity: O(iterations · nbins).
func FitBrody(res Result) (beta, sse float64) {
	cost := func(b float64) float64 {
		var sum, d float64
		for k, c := range res.BinCenters {
			d = res.Density[k] - Brody(c, b)
			sum += d * d
		}
		return sum
	}

	lo, hi := 0.0, 1.0
	x1 := hi - invPhi*(hi-lo)
	x2 := lo + invPhi*(hi-lo)
	f1, f2 := cost(x1), cost(x2)
	for i := 0; i < brodyIterations; i++ {
		if f1 < f2 {
			hi, x2, f2 = x2, x1, f1
			x1 = hi - invPhi*(hi-lo)
			f1 = cost(x1)
		} else {
			lo, x1, f1 = x1, x2, f2
			x2 = lo + invPhi*(hi-lo)
			f2 = cost(x2)
		}
	}
	beta = 0.5 * (lo + hi)
	// the optimum may sit on a boundary of [0, 1]
	for _, edge := range []float64{0, 1} {
		if cost(edge) < cost(beta) {
			beta = edge
		}
	}

	return beta, cost(beta)
}
