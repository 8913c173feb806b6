// SPDX-License-Identifier: MIT

package unfold

import "math"

// Defaults for the smoothing-parameter search and polynomial unfolding.
const (
	// DefaultTolerance is the accepted |DoF − target| gap of the λ search.
	DefaultTolerance = 1e-3

	// DefaultMaxIter caps the bisection steps over log λ.
	DefaultMaxIter = 200

	// DefaultGridPoints is the number of grid points the pooled cumulative
	// distribution is sampled on (typical range 10..40).
	DefaultGridPoints = 32

	// DefaultDegree is the polynomial degree of the ensemble fit (typical 7..15).
	DefaultDegree = 12

	// MinSplinePoints is the smallest spectrum a cubic fit is defined for.
	MinSplinePoints = 4

	// DefaultKnotTolerance is the knot-merging distance as a fraction of the
	// mean eigenvalue gap (max−min)/(n−1).
	DefaultKnotTolerance = 1e-6
)

const (
	panicToleranceInvalid = "unfold: WithTolerance: tol must be finite and > 0"
	panicMaxIterInvalid   = "unfold: WithMaxIter: n must be > 0"
	panicGridInvalid      = "unfold: WithGridPoints: n must be ≥ 2"
	panicDegreeInvalid    = "unfold: WithDegree: deg must be ≥ 1"
	panicKnotTolInvalid   = "unfold: WithKnotTolerance: tol must be finite and ≥ 0"
)

// Option mutates Options. Constructors panic only on nonsensical values.
type Option func(*Options)

// Options holds the effective configuration of an unfolding call.
type Options struct {
	tol        float64 // DefaultTolerance
	maxIter    int     // DefaultMaxIter
	gridPoints int     // DefaultGridPoints
	degree     int     // DefaultDegree
	knotTol    float64 // DefaultKnotTolerance
}

// WithTolerance sets the degrees-of-freedom tolerance of the λ search.
func WithTolerance(tol float64) Option {
	if math.IsNaN(tol) || math.IsInf(tol, 0) || tol <= 0 {
		panic(panicToleranceInvalid)
	}

	return func(o *Options) { o.tol = tol }
}

// WithMaxIter caps the number of bisection steps of the λ search.
func WithMaxIter(n int) Option {
	if n <= 0 {
		panic(panicMaxIterInvalid)
	}

	return func(o *Options) { o.maxIter = n }
}

// WithGridPoints sets the grid size used by Polynomial.
func WithGridPoints(n int) Option {
	if n < 2 {
		panic(panicGridInvalid)
	}

	return func(o *Options) { o.gridPoints = n }
}

// WithDegree sets the polynomial degree used by Polynomial.
func WithDegree(deg int) Option {
	if deg < 1 {
		panic(panicDegreeInvalid)
	}

	return func(o *Options) { o.degree = deg }
}

// WithKnotTolerance sets the relative distance under which neighbouring
// eigenvalues share one spline knot. Zero merges exact ties only.
func WithKnotTolerance(tol float64) Option {
	if math.IsNaN(tol) || math.IsInf(tol, 0) || tol < 0 {
		panic(panicKnotTolInvalid)
	}

	return func(o *Options) { o.knotTol = tol }
}

func gatherOptions(opts []Option) Options {
	o := Options{
		tol:        DefaultTolerance,
		maxIter:    DefaultMaxIter,
		gridPoints: DefaultGridPoints,
		degree:     DefaultDegree,
		knotTol:    DefaultKnotTolerance,
	}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}
