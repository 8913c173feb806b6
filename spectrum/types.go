// SPDX-License-Identifier: MIT

package spectrum

import (
	"fmt"
	"math"
	"sort"
)

// Spectrum is the ordered eigenvalue sequence of one sample at one removal step.
// Values may repeat (degeneracy); consumers sort before computing spacings.
type Spectrum []float64

// Sorted returns an ascending copy of s. The receiver is not modified.
// Complexity: O(N log N).
func (s Spectrum) Sorted() Spectrum {
	out := make(Spectrum, len(s))
	copy(out, s)
	sort.Float64s(out)

	return out
}

// IsSorted reports whether s is non-decreasing.
func (s Spectrum) IsSorted() bool {
	return sort.Float64sAreSorted(s)
}

// Ensemble is an N×S array of eigenvalues for one removal step, plus one toll
// scalar per sample. Row i holds the i-th eigenvalue of every sample; column j
// is sample j. Storage is row-major in a flat slice of length N*S.
type Ensemble struct {
	n, s int       // eigenvalues per sample, number of samples
	data []float64 // row-major, len == n*s

	// Toll holds the auxiliary per-sample scalar (len == S).
	Toll []float64
}

// NewEnsemble builds an Ensemble from per-sample spectra and toll values.
// Each samples[j] must have the same length N > 0 and len(toll) must equal
// len(samples). Inputs are copied.
//
// Errors:
//   - ErrBadShape for empty input, ragged samples or a toll length mismatch.
//
// Complexity: O(N·S).
func NewEnsemble(samples [][]float64, toll []float64) (*Ensemble, error) {
	// Validate shape
	if len(samples) == 0 || len(samples[0]) == 0 {
		return nil, fmt.Errorf("NewEnsemble: %w", ErrBadShape)
	}
	s, n := len(samples), len(samples[0])
	if len(toll) != s {
		return nil, fmt.Errorf("NewEnsemble: toll length %d, samples %d: %w", len(toll), s, ErrBadShape)
	}

	// Copy into row-major storage
	data := make([]float64, n*s)
	var i, j int
	for j = 0; j < s; j++ {
		if len(samples[j]) != n {
			return nil, fmt.Errorf("NewEnsemble: sample %d has %d values, want %d: %w", j, len(samples[j]), n, ErrBadShape)
		}
		for i = 0; i < n; i++ {
			data[i*s+j] = samples[j][i]
		}
	}
	t := make([]float64, s)
	copy(t, toll)

	return &Ensemble{n: n, s: s, data: data, Toll: t}, nil
}

// N returns the number of eigenvalues per sample.
func (e *Ensemble) N() int { return e.n }

// S returns the number of samples.
func (e *Ensemble) S() int { return e.s }

// At returns eigenvalue i of sample j. Panics on out-of-range indices.
func (e *Ensemble) At(i, j int) float64 {
	return e.data[e.index(i, j)]
}

// Set assigns eigenvalue i of sample j. Panics on out-of-range indices.
func (e *Ensemble) Set(i, j int, v float64) {
	e.data[e.index(i, j)] = v
}

func (e *Ensemble) index(i, j int) int {
	if i < 0 || i >= e.n || j < 0 || j >= e.s {
		panic(fmt.Sprintf("spectrum: index (%d,%d) out of range %dx%d", i, j, e.n, e.s))
	}

	return i*e.s + j
}

// Sample returns a copy of column j as a Spectrum.
// Complexity: O(N).
func (e *Ensemble) Sample(j int) Spectrum {
	out := make(Spectrum, e.n)
	for i := 0; i < e.n; i++ {
		out[i] = e.data[e.index(i, j)]
	}

	return out
}

// Samples returns copies of all columns, in sample order.
func (e *Ensemble) Samples() []Spectrum {
	out := make([]Spectrum, e.s)
	for j := 0; j < e.s; j++ {
		out[j] = e.Sample(j)
	}

	return out
}

// Clone returns a deep copy of the ensemble.
func (e *Ensemble) Clone() *Ensemble {
	data := make([]float64, len(e.data))
	copy(data, e.data)
	t := make([]float64, len(e.Toll))
	copy(t, e.Toll)

	return &Ensemble{n: e.n, s: e.s, data: data, Toll: t}
}

// Validate checks shape consistency and that every eigenvalue and toll is finite.
//
// Errors:
//   - ErrBadShape if the toll length differs from S.
//   - ErrNonFiniteResult on NaN/±Inf (first offending position reported).
func (e *Ensemble) Validate() error {
	if e == nil || e.n <= 0 || e.s <= 0 || len(e.data) != e.n*e.s {
		return fmt.Errorf("Validate: %w", ErrBadShape)
	}
	if len(e.Toll) != e.s {
		return fmt.Errorf("Validate: toll length %d, samples %d: %w", len(e.Toll), e.s, ErrBadShape)
	}
	for k, v := range e.data {
		if !IsFinite(v) {
			return fmt.Errorf("Validate: eigenvalue (%d,%d)=%v: %w", k/e.s, k%e.s, v, ErrNonFiniteResult)
		}
	}
	for j, v := range e.Toll {
		if !IsFinite(v) {
			return fmt.Errorf("Validate: toll[%d]=%v: %w", j, v, ErrNonFiniteResult)
		}
	}

	return nil
}

// IsFinite reports whether v is neither NaN nor ±Inf.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// AllFinite reports whether every element of xs is finite.
func AllFinite(xs []float64) bool {
	for _, v := range xs {
		if !IsFinite(v) {
			return false
		}
	}

	return true
}

// ValidateSteps checks that steps is non-empty, starts at ≥ 1 and is strictly increasing.
func ValidateSteps(steps []int) error {
	if len(steps) == 0 {
		return fmt.Errorf("ValidateSteps: empty: %w", ErrBadSteps)
	}
	for k, n := range steps {
		if n < 1 {
			return fmt.Errorf("ValidateSteps: steps[%d]=%d < 1: %w", k, n, ErrBadSteps)
		}
		if k > 0 && n <= steps[k-1] {
			return fmt.Errorf("ValidateSteps: steps[%d]=%d not above %d: %w", k, n, steps[k-1], ErrBadSteps)
		}
	}

	return nil
}
