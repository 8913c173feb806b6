// SPDX-License-Identifier: MIT

package spacing

import "errors"

// ErrNegativeSpacing indicates a precomputed spacing set contains a value < 0.
var ErrNegativeSpacing = errors.New("spacing: negative spacing")

// MinEigenvalues is the smallest eigenvalue set with a defined spacing.
const MinEigenvalues = 2

// Result is the spacing distribution of one (possibly pooled) spacing set.
// Density, BinCenters, WeightedDensity and Poisson are paired arrays of
// length nbins.
type Result struct {
	Density         []float64 // histogram density, Σ Density·BinWidth = 1
	BinCenters      []float64 // centre of each bin
	BinWidth        float64   // common bin width
	MeanSpacing     float64   // sample mean of the (normalized) spacings
	NormResidual    float64   // 1 − Σ c·p(c)·BinWidth, nominal vs binned unit mean
	WeightedDensity []float64 // s·p(s) at the bin centres
	Poisson         []float64 // exp(−s) at the bin centres
	Spacings        []float64 // the (normalized) spacings, ascending
}

// Integral returns Σ Density·BinWidth (1 up to rounding for a valid result).
func (r Result) Integral() float64 {
	var sum float64
	for _, p := range r.Density {
		sum += p * r.BinWidth
	}

	return sum
}
