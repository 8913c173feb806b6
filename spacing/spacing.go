// SPDX-License-Identifier: MIT

package spacing

import (
	"fmt"
	"math"
	"sort"

	vecmath "github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/lvlspec/spectrum"
)

// Operation tags for error wrapping.
const (
	opStats        = "Stats"
	opPooled       = "Pooled"
	opFromSpacings = "FromSpacings"
)

func spacingErrorf(op string, err error) error {
	return fmt.Errorf("spacing: %s: %w", op, err)
}

// Stats computes the spacing distribution of one eigenvalue set.
//
// Implementation:
//   - Stage 1: validate (≥ 2 finite eigenvalues, nbins ≥ 1).
//   - Stage 2: sort a copy, difference neighbours.
//   - Stage 3: delegate to FromSpacings.
//
// Errors:
//   - spectrum.ErrInsufficientData for fewer than 2 eigenvalues.
//   - spectrum.ErrBadOption for nbins < 1.
//   - spectrum.ErrNonFiniteResult on NaN/Inf input or density.
func Stats(eigs []float64, nbins int, normalize bool) (Result, error) {
	if len(eigs) < MinEigenvalues {
		return Result{}, spacingErrorf(opStats, fmt.Errorf("%d eigenvalues: %w", len(eigs), spectrum.ErrInsufficientData))
	}
	if !spectrum.AllFinite(eigs) {
		return Result{}, spacingErrorf(opStats, spectrum.ErrNonFiniteResult)
	}
	res, err := FromSpacings(diffs(eigs), nbins, normalize)
	if err != nil {
		return Result{}, spacingErrorf(opStats, err)
	}

	return res, nil
}

// Pooled computes one spacing distribution from the spacings of every sample.
// Spacings are taken within each sample; samples are never merged before
// differencing.
//
// Errors:
//   - spectrum.ErrInsufficientData when there are no samples or a sample has
//     fewer than 2 eigenvalues.
//   - as Stats otherwise.
func Pooled(samples [][]float64, nbins int, normalize bool) (Result, error) {
	if len(samples) == 0 {
		return Result{}, spacingErrorf(opPooled, spectrum.ErrInsufficientData)
	}
	var all []float64
	for j, s := range samples {
		if len(s) < MinEigenvalues {
			return Result{}, spacingErrorf(opPooled, fmt.Errorf("sample %d: %d eigenvalues: %w", j, len(s), spectrum.ErrInsufficientData))
		}
		if !spectrum.AllFinite(s) {
			return Result{}, spacingErrorf(opPooled, fmt.Errorf("sample %d: %w", j, spectrum.ErrNonFiniteResult))
		}
		all = append(all, diffs(s)...)
	}
	res, err := FromSpacings(all, nbins, normalize)
	if err != nil {
		return Result{}, spacingErrorf(opPooled, err)
	}

	return res, nil
}

// FromSpacings builds the spacing distribution of a precomputed spacing set.
//
// Implementation:
//   - Stage 1: validate, optionally rescale to unit mean.
//   - Stage 2: histogram with nbins equal bins over [min, max]; a zero-width
//     range is widened around the common value so a single bin holds it.
//   - Stage 3: density = count/(total·width), mean, residual, s·p(s), exp(−s).
//
// Errors:
//   - spectrum.ErrInsufficientData for an empty set, or a zero mean when normalize is set.
//   - spectrum.ErrBadOption for nbins < 1.
//   - ErrNegativeSpacing for a value < 0.
//   - spectrum.ErrNonFiniteResult on NaN/Inf input or density.
//
// Complexity: O(n log n + nbins).
func FromSpacings(d []float64, nbins int, normalize bool) (Result, error) {
	// Stage 1 (Validate)
	if len(d) == 0 {
		return Result{}, spacingErrorf(opFromSpacings, spectrum.ErrInsufficientData)
	}
	if nbins < 1 {
		return Result{}, spacingErrorf(opFromSpacings, fmt.Errorf("nbins=%d: %w", nbins, spectrum.ErrBadOption))
	}
	if !spectrum.AllFinite(d) {
		return Result{}, spacingErrorf(opFromSpacings, spectrum.ErrNonFiniteResult)
	}
	s := make([]float64, len(d))
	copy(s, d)
	sort.Float64s(s)
	if s[0] < 0 {
		return Result{}, spacingErrorf(opFromSpacings, fmt.Errorf("%g: %w", s[0], ErrNegativeSpacing))
	}
	if normalize {
		mean := stat.Mean(s, nil)
		if mean <= 0 {
			return Result{}, spacingErrorf(opFromSpacings, fmt.Errorf("zero mean spacing: %w", spectrum.ErrInsufficientData))
		}
		vecmath.ScaleBlock(s, s, 1/mean)
	}

	// Stage 2 (Histogram)
	lo, hi := s[0], s[len(s)-1]
	if hi <= lo {
		// single-value range: widen to [v/2, 3v/2] (or [0, 1] for v = 0)
		if v := lo; v > 0 {
			lo, hi = 0.5*v, 1.5*v
		} else {
			lo, hi = 0, 1
		}
	}
	width := (hi - lo) / float64(nbins)
	dividers := floats.Span(make([]float64, nbins+1), lo, hi)
	dividers[nbins] = math.Nextafter(hi, math.Inf(1)) // include the maximum
	counts := stat.Histogram(nil, dividers, s, nil)

	// Stage 3 (Finalize)
	total := float64(len(s))
	density := make([]float64, nbins)
	centers := make([]float64, nbins)
	weighted := make([]float64, nbins)
	poisson := make([]float64, nbins)
	var binnedMean float64
	for k := 0; k < nbins; k++ {
		centers[k] = lo + (float64(k)+0.5)*width
		density[k] = counts[k] / (total * width)
		weighted[k] = centers[k] * density[k]
		poisson[k] = Poisson(centers[k])
		binnedMean += weighted[k] * width
	}
	if !spectrum.AllFinite(density) {
		return Result{}, spacingErrorf(opFromSpacings, spectrum.ErrNonFiniteResult)
	}

	return Result{
		Density:         density,
		BinCenters:      centers,
		BinWidth:        width,
		MeanSpacing:     stat.Mean(s, nil),
		NormResidual:    1 - binnedMean,
		WeightedDensity: weighted,
		Poisson:         poisson,
		Spacings:        s,
	}, nil
}

// diffs returns the nearest-neighbour spacings of a sorted copy of eigs.
func diffs(eigs []float64) []float64 {
	sorted := make([]float64, len(eigs))
	copy(sorted, eigs)
	sort.Float64s(sorted)
	out := make([]float64, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		out[i-1] = sorted[i] - sorted[i-1]
	}

	return out
}
