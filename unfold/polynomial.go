// SPDX-License-Identifier: MIT

package unfold

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/lvlspec/spectrum"
)

// PolynomialResult is the outcome of an ensemble polynomial unfolding.
type PolynomialResult struct {
	// Unfolded holds each sample's unfolded eigenvalues in ascending order,
	// scaled by N so the mean spacing is close to 1.
	Unfolded [][]float64

	// Spacings pools the nearest-neighbour spacings of every unfolded sample.
	Spacings []float64

	Grid         []float64 // grid the cumulative distribution was sampled on
	Cumulative   []float64 // fraction of pooled eigenvalues strictly below each grid point
	Fitted       []float64 // polynomial evaluated on Grid
	Coefficients []float64 // ascending powers of the mapped variable t ∈ [−1, 1]
}

// Polynomial unfolds an ensemble by fitting one polynomial to the pooled
// cumulative eigenvalue distribution.
//
// Implementation:
//   - Stage 1: validate (≥ 1 sample, equal lengths ≥ 2, finite, grid > degree).
//   - Stage 2: sample the pooled cumulative fraction on a uniform grid over
//     [min(0, minE), maxE].
//   - Stage 3: least-squares fit of degree deg in the variable mapped to
//     [−1, 1] (QR solve), evaluated on every eigenvalue and scaled by N.
//   - Stage 4: per-sample isotonic correction, pooled spacings.
//
// Errors:
//   - spectrum.ErrInsufficientData for empty input, N < 2 or zero spread.
//   - spectrum.ErrBadShape for ragged samples.
//   - spectrum.ErrBadOption when the grid has no more points than the degree.
//   - spectrum.ErrNonFiniteResult on NaN/Inf input or output.
//
// Complexity:
//   - Time O(G·deg² + N·S·(deg + log(N·S))), Space O(N·S + G·deg).
func Polynomial(samples [][]float64, opts ...Option) (PolynomialResult, error) {
	cfg := gatherOptions(opts)

	// Stage 1 (Validate)
	if len(samples) == 0 || len(samples[0]) < 2 {
		return PolynomialResult{}, unfoldErrorf(opPolynomial, spectrum.ErrInsufficientData)
	}
	n := len(samples[0])
	if cfg.gridPoints <= cfg.degree {
		return PolynomialResult{}, unfoldErrorf(opPolynomial, fmt.Errorf("grid %d ≤ degree %d: %w", cfg.gridPoints, cfg.degree, spectrum.ErrBadOption))
	}
	pooled := make([]float64, 0, n*len(samples))
	for j, s := range samples {
		if len(s) != n {
			return PolynomialResult{}, unfoldErrorf(opPolynomial, fmt.Errorf("sample %d has %d values, want %d: %w", j, len(s), n, spectrum.ErrBadShape))
		}
		if !spectrum.AllFinite(s) {
			return PolynomialResult{}, unfoldErrorf(opPolynomial, spectrum.ErrNonFiniteResult)
		}
		pooled = append(pooled, s...)
	}
	sort.Float64s(pooled)
	lo, hi := math.Min(0, pooled[0]), pooled[len(pooled)-1]
	if hi <= lo {
		return PolynomialResult{}, unfoldErrorf(opPolynomial, fmt.Errorf("zero spread: %w", spectrum.ErrInsufficientData))
	}

	// Stage 2 (Prepare): cumulative fraction on the grid
	g := cfg.gridPoints
	grid := floats.Span(make([]float64, g), lo, hi)
	cum := make([]float64, g)
	total := float64(len(pooled))
	var k int
	for k = 0; k < g; k++ {
		cum[k] = float64(sort.SearchFloat64s(pooled, grid[k])) / total
	}

	// Stage 3 (Execute): Vandermonde least squares in t = (2y − lo − hi)/(hi − lo)
	deg := cfg.degree
	mapT := func(v float64) float64 { return (2*v - lo - hi) / (hi - lo) }
	vander := mat.NewDense(g, deg+1, nil)
	var p int
	for k = 0; k < g; k++ {
		t, pow := mapT(grid[k]), 1.0
		for p = 0; p <= deg; p++ {
			vander.Set(k, p, pow)
			pow *= t
		}
	}
	var coef mat.VecDense
	if err := coef.SolveVec(vander, mat.NewVecDense(g, cum)); err != nil {
		return PolynomialResult{}, unfoldErrorf(opPolynomial, fmt.Errorf("least squares: %v: %w", err, spectrum.ErrNonFiniteResult))
	}
	coefficients := make([]float64, deg+1)
	for p = 0; p <= deg; p++ {
		coefficients[p] = coef.AtVec(p)
	}
	eval := func(v float64) float64 {
		t := mapT(v)
		acc := 0.0
		for q := deg; q >= 0; q-- { // Horner
			acc = acc*t + coefficients[q]
		}
		return acc
	}

	fitted := make([]float64, g)
	for k = 0; k < g; k++ {
		fitted[k] = eval(grid[k])
	}

	// Stage 4 (Finalize): per-sample evaluation, monotone correction, spacings
	unfolded := make([][]float64, len(samples))
	spacings := make([]float64, 0, (n-1)*len(samples))
	scale := float64(n)
	var i int
	for j, s := range samples {
		sorted := append([]float64(nil), s...)
		sort.Float64s(sorted)
		u := make([]float64, n)
		for i = 0; i < n; i++ {
			u[i] = scale * eval(sorted[i])
		}
		u = Isotonic(u, nil)
		if !spectrum.AllFinite(u) {
			return PolynomialResult{}, unfoldErrorf(opPolynomial, fmt.Errorf("sample %d: %w", j, spectrum.ErrNonFiniteResult))
		}
		for i = 1; i < n; i++ {
			spacings = append(spacings, u[i]-u[i-1])
		}
		unfolded[j] = u
	}

	return PolynomialResult{
		Unfolded:     unfolded,
		Spacings:     spacings,
		Grid:         grid,
		Cumulative:   cum,
		Fitted:       fitted,
		Coefficients: coefficients,
	}, nil
}
