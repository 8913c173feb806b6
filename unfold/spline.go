// SPDX-License-Identifier: MIT
// Package: unfold
//
// Purpose:
//   - Fit a weighted cubic smoothing spline to the spectral staircase
//     (eigenvalue, rank) and evaluate it at every eigenvalue.
//
// Formulation (Reinsch, Green & Silverman):
//   - Unique knots x_0 < … < x_{m-1}, staircase means y_i, multiplicities w_i.
//   - Minimize Σ w_i (y_i − g_i)² + λ ∫ g''².
//   - With band matrices Q (m×(m−2)) and R ((m−2)×(m−2)):
//     (R + λ Qᵀ W⁻¹ Q) γ = Qᵀ y,   g = y − λ W⁻¹ Q γ.
//   - Effective degrees of freedom tr(S_λ) = 2 + tr((R + λB)⁻¹ R), B = Qᵀ W⁻¹ Q,
//     which falls monotonically from m (λ→0) to 2 (λ→∞); λ is found by
//     bisection over log λ.

package unfold

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/lvlspec/spectrum"
)

// Operation tags for error wrapping.
const (
	opSpline     = "Spline"
	opPolynomial = "Polynomial"
	opNormalize  = "NormalizeUnitMean"
)

// logLambdaSpan is the half-width (natural log units) of the λ search window
// around the scale-matched starting point tr(R)/tr(B).
const logLambdaSpan = 35.0

// Result is the outcome of a spline unfolding.
// Unfolded and Staircase are aligned with the input slice (same order).
type Result struct {
	Unfolded  []float64 // fitted, non-decreasing staircase evaluated at each eigenvalue
	Staircase []float64 // empirical staircase C = rank (1-based, ties by index)
	Residual  float64   // RMS of Staircase − Unfolded
	Lambda    float64   // selected smoothing parameter (0 means interpolation)
	DoF       float64   // achieved effective degrees of freedom
}

// unfoldErrorf wraps err with an operation tag.
func unfoldErrorf(op string, err error) error {
	return fmt.Errorf("unfold: %s: %w", op, err)
}

// Spline unfolds eigs with a cubic smoothing spline of roughly smoothingBins
// effective degrees of freedom.
//
// Implementation:
//   - Stage 1: validate (N ≥ 4, finite, smoothingBins > 0).
//   - Stage 2: rank the eigenvalues, build the staircase, collapse ties and
//     near-ties (WithKnotTolerance) into weighted knots, so no vanishing gap
//     is ever divided by.
//   - Stage 3: pick λ for the target DoF, solve for the fitted knot values.
//   - Stage 4: isotonic correction, scatter back to input order, residual.
//
// Errors:
//   - spectrum.ErrInsufficientData when len(eigs) < 4.
//   - spectrum.ErrBadOption when smoothingBins ≤ 0.
//   - spectrum.ErrNonFiniteResult on NaN/Inf input or output.
//
// Complexity:
//   - Time O(K·m³), Space O(m²), m = number of distinct eigenvalues.
func Spline(eigs []float64, smoothingBins int, opts ...Option) (Result, error) {
	// Stage 1 (Validate)
	n := len(eigs)
	if n < MinSplinePoints {
		return Result{}, unfoldErrorf(opSpline, fmt.Errorf("%d eigenvalues, need %d: %w", n, MinSplinePoints, spectrum.ErrInsufficientData))
	}
	if smoothingBins <= 0 {
		return Result{}, unfoldErrorf(opSpline, fmt.Errorf("smoothingBins=%d: %w", smoothingBins, spectrum.ErrBadOption))
	}
	if !spectrum.AllFinite(eigs) {
		return Result{}, unfoldErrorf(opSpline, spectrum.ErrNonFiniteResult)
	}
	cfg := gatherOptions(opts)

	// Stage 2 (Prepare): rank order, stable so ties keep input order.
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return eigs[order[a]] < eigs[order[b]] })

	// Eigenvalues within mergeTol of a knot's first value join that knot, so
	// every knot gap exceeds mergeTol and Q stays bounded.
	mergeTol := cfg.knotTol * (eigs[order[n-1]] - eigs[order[0]]) / float64(n-1)
	staircase := make([]float64, n)
	knotOf := make([]int, n) // rank → knot index
	var x, y, w []float64
	var r int
	for r = 0; r < n; r++ {
		v := eigs[order[r]]
		c := float64(r + 1)
		staircase[order[r]] = c
		if len(x) > 0 && v-x[len(x)-1] <= mergeTol {
			// tie or near-tie: accumulate into the current knot
			y[len(y)-1] += c
			w[len(w)-1]++
		} else {
			x = append(x, v)
			y = append(y, c)
			w = append(w, 1)
		}
		knotOf[r] = len(x) - 1
	}
	for k := range y {
		y[k] /= w[k] // mean rank of the tie group
	}

	// Stage 3 (Execute)
	fit, err := smooth(x, y, w, float64(smoothingBins), cfg)
	if err != nil {
		return Result{}, unfoldErrorf(opSpline, err)
	}

	// Stage 4 (Finalize)
	mono := Isotonic(fit.values, w)
	unfolded := make([]float64, n)
	var ss, d float64
	for r = 0; r < n; r++ {
		unfolded[order[r]] = mono[knotOf[r]]
		d = float64(r+1) - mono[knotOf[r]]
		ss += d * d
	}
	if !spectrum.AllFinite(unfolded) {
		return Result{}, unfoldErrorf(opSpline, spectrum.ErrNonFiniteResult)
	}

	return Result{
		Unfolded:  unfolded,
		Staircase: staircase,
		Residual:  math.Sqrt(ss / float64(n)),
		Lambda:    fit.lambda,
		DoF:       fit.dof,
	}, nil
}

// splineFit carries the fitted knot values and the selected smoothing level.
type splineFit struct {
	values []float64
	lambda float64
	dof    float64
}

// smooth fits the weighted smoothing spline through (x, y, w) aiming at target DoF.
func smooth(x, y, w []float64, target float64, cfg Options) (splineFit, error) {
	m := len(x)
	if m < 3 {
		// Two knots are interpolated exactly by a line, one knot by a constant.
		return splineFit{values: linearFit(x, y, w), dof: float64(m)}, nil
	}
	target = math.Max(2, math.Min(target, float64(m)))
	if target >= float64(m)-cfg.tol {
		out := make([]float64, m)
		copy(out, y)
		return splineFit{values: out, dof: float64(m)}, nil
	}
	if target <= 2+cfg.tol {
		return splineFit{values: linearFit(x, y, w), lambda: math.Inf(1), dof: 2}, nil
	}

	sys := newSplineSystem(x, y, w)

	// λ search over log λ; DoF decreases as λ grows.
	center := math.Log(mat.Trace(sys.r) / mat.Trace(sys.b))
	lo, hi := center-logLambdaSpan, center+logLambdaSpan
	var (
		mid, dof float64
		err      error
		iter     int
	)
	for iter = 0; iter < cfg.maxIter; iter++ {
		mid = 0.5 * (lo + hi)
		dof, err = sys.dof(math.Exp(mid))
		if err != nil {
			return splineFit{}, err
		}
		if math.Abs(dof-target) < cfg.tol {
			break
		}
		if dof > target {
			lo = mid // too flexible: increase λ
		} else {
			hi = mid
		}
	}

	lambda := math.Exp(mid)
	values, err := sys.solve(lambda)
	if err != nil {
		return splineFit{}, err
	}

	return splineFit{values: values, lambda: lambda, dof: dof}, nil
}

// splineSystem holds the band matrices of the Reinsch formulation.
type splineSystem struct {
	m   int
	y   []float64
	w   []float64
	h   []float64     // knot gaps, len m−1, all > 0
	r   *mat.SymDense // R, (m−2)×(m−2) tridiagonal
	b   *mat.SymDense // B = Qᵀ W⁻¹ Q, pentadiagonal
	qty *mat.VecDense // Qᵀ y
}

func newSplineSystem(x, y, w []float64) *splineSystem {
	m := len(x)
	h := make([]float64, m-1)
	for i := 0; i < m-1; i++ {
		h[i] = x[i+1] - x[i]
	}
	s := &splineSystem{m: m, y: y, w: w, h: h}

	k := m - 2
	s.r = mat.NewSymDense(k, nil)
	s.b = mat.NewSymDense(k, nil)
	s.qty = mat.NewVecDense(k, nil)

	var i, a, c int
	for a = 0; a < k; a++ {
		// column a of Q is centred on interior knot a+1
		s.r.SetSym(a, a, (h[a]+h[a+1])/3)
		if a+1 < k {
			s.r.SetSym(a, a+1, h[a+1]/6)
		}
		s.qty.SetVec(a, s.q(a, a)*y[a]+s.q(a+1, a)*y[a+1]+s.q(a+2, a)*y[a+2])
	}
	// B[a][c] = Σ_i Q[i][a] Q[i][c] / w_i over the three rows column a touches.
	for a = 0; a < k; a++ {
		for c = a; c < k && c <= a+2; c++ {
			var sum float64
			for i = c; i <= a+2; i++ {
				sum += s.q(i, a) * s.q(i, c) / w[i]
			}
			s.b.SetSym(a, c, sum)
		}
	}

	return s
}

// q returns Q[i][a]; non-zero only for i ∈ {a, a+1, a+2}.
func (s *splineSystem) q(i, a int) float64 {
	switch i - a {
	case 0:
		return 1 / s.h[a]
	case 1:
		return -1/s.h[a] - 1/s.h[a+1]
	case 2:
		return 1 / s.h[a+1]
	default:
		return 0
	}
}

// factorize returns the Cholesky factor of R + λB.
func (s *splineSystem) factorize(lambda float64) (*mat.Cholesky, error) {
	var lb, a mat.SymDense
	lb.ScaleSym(lambda, s.b)
	a.AddSym(s.r, &lb)

	var chol mat.Cholesky
	if ok := chol.Factorize(&a); !ok {
		return nil, fmt.Errorf("R+λB not positive definite at λ=%g: %w", lambda, spectrum.ErrNonFiniteResult)
	}

	return &chol, nil
}

// dof returns 2 + tr((R + λB)⁻¹ R).
func (s *splineSystem) dof(lambda float64) (float64, error) {
	chol, err := s.factorize(lambda)
	if err != nil {
		return 0, err
	}
	var x mat.Dense
	if err = chol.SolveTo(&x, s.r); err != nil {
		return 0, fmt.Errorf("solve: %v: %w", err, spectrum.ErrNonFiniteResult)
	}
	d := 2 + mat.Trace(&x)
	if !spectrum.IsFinite(d) {
		return 0, spectrum.ErrNonFiniteResult
	}

	return d, nil
}

// solve returns g = y − λ W⁻¹ Q γ with (R + λB) γ = Qᵀ y.
func (s *splineSystem) solve(lambda float64) ([]float64, error) {
	chol, err := s.factorize(lambda)
	if err != nil {
		return nil, err
	}
	var gamma mat.VecDense
	if err = chol.SolveVecTo(&gamma, s.qty); err != nil {
		return nil, fmt.Errorf("solve: %v: %w", err, spectrum.ErrNonFiniteResult)
	}

	g := make([]float64, s.m)
	k := s.m - 2
	var i, a int
	for i = 0; i < s.m; i++ {
		var qg float64
		for a = i - 2; a <= i; a++ {
			if a >= 0 && a < k {
				qg += s.q(i, a) * gamma.AtVec(a)
			}
		}
		g[i] = s.y[i] - lambda*qg/s.w[i]
	}

	return g, nil
}

// linearFit returns the weighted least-squares line through (x, y) evaluated at x.
func linearFit(x, y, w []float64) []float64 {
	out := make([]float64, len(x))
	var sw, sx, sy float64
	for i := range x {
		sw += w[i]
		sx += w[i] * x[i]
		sy += w[i] * y[i]
	}
	mx, my := sx/sw, sy/sw
	var sxx, sxy float64
	for i := range x {
		dx := x[i] - mx
		sxx += w[i] * dx * dx
		sxy += w[i] * dx * (y[i] - my)
	}
	slope := 0.0
	if sxx > 0 {
		slope = sxy / sxx
	}
	for i := range x {
		out[i] = my + slope*(x[i]-mx)
	}

	return out
}
