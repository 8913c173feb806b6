// SPDX-License-Identifier: MIT

package eigen

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/lvlspec/spectrum"
)

// Solver returns the eigenvalues of a symmetric matrix, sorted ascending.
type Solver interface {
	Eigenvalues(a mat.Symmetric) ([]float64, error)
}

const (
	// DefaultTolerance is the relative off-diagonal Frobenius threshold.
	DefaultTolerance = 1e-12

	// DefaultMaxSweeps caps the number of full Jacobi sweeps.
	DefaultMaxSweeps = 100
)

const (
	panicTolInvalid    = "eigen: WithTolerance: tol must be finite and > 0"
	panicSweepsInvalid = "eigen: WithMaxSweeps: sweeps must be ≥ 1"
)

// Option configures a Jacobi solver.
type Option func(*Jacobi)

// WithTolerance sets the relative convergence threshold.
func WithTolerance(tol float64) Option {
	if math.IsNaN(tol) || math.IsInf(tol, 0) || tol <= 0 {
		panic(panicTolInvalid)
	}

	return func(j *Jacobi) { j.tol = tol }
}

// WithMaxSweeps sets the sweep cap.
func WithMaxSweeps(n int) Option {
	if n < 1 {
		panic(panicSweepsInvalid)
	}

	return func(j *Jacobi) { j.maxSweeps = n }
}

// Jacobi is a cyclic Jacobi eigenvalue solver. The zero value is not usable;
// construct with NewJacobi.
type Jacobi struct {
	tol       float64
	maxSweeps int
}

// NewJacobi returns a Jacobi solver with defaults overridden by opts.
func NewJacobi(opts ...Option) *Jacobi {
	j := &Jacobi{tol: DefaultTolerance, maxSweeps: DefaultMaxSweeps}
	for _, opt := range opts {
		opt(j)
	}

	return j
}

// Eigenvalues diagonalizes a copy of a by cyclic Jacobi rotations.
//
// Implementation:
//   - Stage 1: validate shape and finiteness; copy into a flat row-major buffer.
//   - Stage 2: sweep all (p,q) pairs, zeroing a_pq with a plane rotation,
//     until the off-diagonal Frobenius norm drops below tol·‖A‖_F.
//   - Stage 3: read the diagonal and sort ascending.
//
// Complexity: O(n³) per sweep; Memory: O(n²).
func (j *Jacobi) Eigenvalues(a mat.Symmetric) ([]float64, error) {
	// Stage 1 (Validate)
	w, n, err := flatten("Jacobi", a)
	if err != nil {
		return nil, err
	}

	// Stage 2 (Execute)
	var (
		p, q, k        int
		apq, theta, t  float64
		c, s, akp, akq float64
		off, total     float64
		converged      bool
	)
	for sweep := 0; sweep < j.maxSweeps; sweep++ {
		off, total = norms(w, n)
		if off <= j.tol*j.tol*total || off == 0 {
			converged = true
			break
		}
		for p = 0; p < n-1; p++ {
			for q = p + 1; q < n; q++ {
				apq = w[p*n+q]
				if apq == 0 {
					continue
				}
				theta = (w[q*n+q] - w[p*n+p]) / (2 * apq)
				t = 1 / (math.Abs(theta) + math.Sqrt(theta*theta+1))
				if theta < 0 {
					t = -t
				}
				c = 1 / math.Sqrt(t*t+1)
				s = t * c

				// columns p and q
				for k = 0; k < n; k++ {
					akp, akq = w[k*n+p], w[k*n+q]
					w[k*n+p] = c*akp - s*akq
					w[k*n+q] = s*akp + c*akq
				}
				// rows p and q
				for k = 0; k < n; k++ {
					akp, akq = w[p*n+k], w[q*n+k]
					w[p*n+k] = c*akp - s*akq
					w[q*n+k] = s*akp + c*akq
				}
				w[p*n+q], w[q*n+p] = 0, 0
			}
		}
	}
	if !converged {
		off, total = norms(w, n)
		if off > j.tol*j.tol*total {
			return nil, fmt.Errorf("eigen: Jacobi: %d sweeps: %w", j.maxSweeps, ErrNotConverged)
		}
	}

	// Stage 3 (Finalize)
	vals := make([]float64, n)
	for k = 0; k < n; k++ {
		vals[k] = w[k*n+k]
	}
	sort.Float64s(vals)

	return vals, nil
}

// norms returns the squared off-diagonal and total Frobenius norms.
func norms(w []float64, n int) (off, total float64) {
	for i := 0; i < n; i++ {
		for k := 0; k < n; k++ {
			v := w[i*n+k] * w[i*n+k]
			total += v
			if i != k {
				off += v
			}
		}
	}

	return off, total
}

// Gonum wraps gonum mat.EigenSym.
type Gonum struct{}

// Eigenvalues factorizes a with mat.EigenSym (values only) and sorts ascending.
// Complexity: O(n³).
func (Gonum) Eigenvalues(a mat.Symmetric) ([]float64, error) {
	if _, _, err := flatten("Gonum", a); err != nil {
		return nil, err
	}

	var es mat.EigenSym
	if ok := es.Factorize(a, false); !ok {
		return nil, fmt.Errorf("eigen: Gonum: %w", ErrFactorize)
	}
	vals := es.Values(nil)
	sort.Float64s(vals)

	return vals, nil
}

// flatten validates a and returns a row-major copy.
func flatten(op string, a mat.Symmetric) ([]float64, int, error) {
	if a == nil {
		return nil, 0, fmt.Errorf("eigen: %s: nil matrix: %w", op, spectrum.ErrBadShape)
	}
	n := a.SymmetricDim()
	if n == 0 {
		return nil, 0, fmt.Errorf("eigen: %s: empty matrix: %w", op, spectrum.ErrBadShape)
	}
	w := make([]float64, n*n)
	var v float64
	for i := 0; i < n; i++ {
		for k := i; k < n; k++ {
			v = a.At(i, k)
			if !spectrum.IsFinite(v) {
				return nil, 0, fmt.Errorf("eigen: %s: a[%d,%d]=%v: %w", op, i, k, v, spectrum.ErrNonFiniteResult)
			}
			w[i*n+k], w[k*n+i] = v, v
		}
	}

	return w, n, nil
}
