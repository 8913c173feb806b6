// SPDX-License-Identifier: MIT

package unfold

import (
	"fmt"

	vecmath "github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/lvlspec/spectrum"
)

// NormalizeUnitMean rescales values so that the mean nearest-neighbour spacing
// of their sorted order equals 1. Input order is preserved in the output.
//
// Errors:
//   - spectrum.ErrInsufficientData for fewer than 2 values or zero spread.
//   - spectrum.ErrNonFiniteResult on NaN/Inf input.
func NormalizeUnitMean(values []float64) ([]float64, error) {
	n := len(values)
	if n < 2 {
		return nil, unfoldErrorf(opNormalize, fmt.Errorf("%d values: %w", n, spectrum.ErrInsufficientData))
	}
	if !spectrum.AllFinite(values) {
		return nil, unfoldErrorf(opNormalize, spectrum.ErrNonFiniteResult)
	}

	// mean of sorted spacings telescopes to (max − min)/(n − 1)
	mean := (floats.Max(values) - floats.Min(values)) / float64(n-1)
	if mean <= 0 {
		return nil, unfoldErrorf(opNormalize, fmt.Errorf("zero spread: %w", spectrum.ErrInsufficientData))
	}

	out := make([]float64, n)
	vecmath.ScaleBlock(out, values, 1/mean)

	return out, nil
}
