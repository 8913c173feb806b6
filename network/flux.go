// SPDX-License-Identifier: MIT

package network

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/lvlspec/spectrum"
)

// NewFlux validates rows as a square, finite, non-negative flux matrix and
// returns it as a *mat.Dense copy.
func NewFlux(rows [][]float64) (*mat.Dense, error) {
	n := len(rows)
	if n == 0 {
		return nil, fmt.Errorf("network: NewFlux: empty: %w", spectrum.ErrBadShape)
	}
	f := mat.NewDense(n, n, nil)
	for i, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("network: NewFlux: row %d has %d entries, want %d: %w", i, len(row), n, ErrNotSquare)
		}
		for j, v := range row {
			if !spectrum.IsFinite(v) {
				return nil, fmt.Errorf("network: NewFlux: F[%d,%d]=%v: %w", i, j, v, spectrum.ErrNonFiniteResult)
			}
			if v < 0 {
				return nil, fmt.Errorf("network: NewFlux: F[%d,%d]=%g: %w", i, j, v, ErrNegativeWeight)
			}
			f.Set(i, j, v)
		}
	}

	return f, nil
}

// Infectivity returns the symmetrized, population-normalized infectivity
// matrix of the flux matrix f.
//
// Implementation:
//   - Stage 1: validate squareness, finiteness and signs.
//   - Stage 2: L = F + Fᵀ with diag p; scale row i by 1/p_i (0 when p_i = 0).
//   - Stage 3: symmetrize, then apply banding and diagonal zeroing.
//
// Complexity: O(n²).
func Infectivity(f mat.Matrix, opts ...Option) (*mat.SymDense, error) {
	cfg := gatherOptions(opts)

	// Stage 1 (Validate)
	r, c := f.Dims()
	if r != c {
		return nil, fmt.Errorf("network: Infectivity: %dx%d: %w", r, c, ErrNotSquare)
	}
	n := r
	var i, j int
	var v float64
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			v = f.At(i, j)
			if !spectrum.IsFinite(v) {
				return nil, fmt.Errorf("network: Infectivity: F[%d,%d]=%v: %w", i, j, v, spectrum.ErrNonFiniteResult)
			}
			if v < 0 {
				return nil, fmt.Errorf("network: Infectivity: F[%d,%d]=%g: %w", i, j, v, ErrNegativeWeight)
			}
		}
	}

	// Stage 2 (Prepare)
	pinv := make([]float64, n)
	for i = 0; i < n; i++ {
		if p := f.At(i, i); p > 0 {
			pinv[i] = 1 / p
		}
	}
	l := mat.NewDense(n, n, nil)
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			if i == j {
				v = f.At(i, i)
			} else {
				v = f.At(i, j) + f.At(j, i)
			}
			l.Set(i, j, v*pinv[i])
		}
	}

	// Stage 3 (Finalize)
	out := mat.NewSymDense(n, nil)
	for i = 0; i < n; i++ {
		for j = i; j < n; j++ {
			if cfg.Band >= 0 && j-i > cfg.Band {
				continue
			}
			if i == j && cfg.ZeroDiagonal {
				continue
			}
			out.SetSym(i, j, 0.5*(l.At(i, j)+l.At(j, i)))
		}
	}

	return out, nil
}

// RandomFlux draws an n×n flux matrix: populations on the diagonal uniform in
// [1, 2)·n, each off-diagonal flux present with probability density and
// exponentially distributed otherwise. Deterministic for a given rng.
func RandomFlux(rng *rand.Rand, n int, density float64) *mat.Dense {
	f := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		f.Set(i, i, (1+rng.Float64())*float64(n))
		for j := 0; j < n; j++ {
			if i != j && rng.Float64() < density {
				f.Set(i, j, rng.ExpFloat64())
			}
		}
	}

	return f
}
