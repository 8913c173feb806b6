// SPDX-License-Identifier: MIT

package pipeline

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/lvlspec/divergence"
	"github.com/katalvlaran/lvlspec/spacing"
	"github.com/katalvlaran/lvlspec/spectrum"
	"github.com/katalvlaran/lvlspec/unfold"
)

// Evaluate computes the StepResult of one ensemble (stages b–g). It is a
// pure function of its inputs; cfg must come from Config.Resolve.
func Evaluate(step int, e *spectrum.Ensemble, cfg Config) (StepResult, error) {
	if err := e.Validate(); err != nil {
		return StepResult{}, err
	}
	if e.N() != cfg.Size || e.S() != cfg.Samples {
		return StepResult{}, fmt.Errorf("ensemble %dx%d, configured %dx%d: %w", e.N(), e.S(), cfg.Size, cfg.Samples, spectrum.ErrBadShape)
	}

	samples := make([][]float64, e.S())
	for j := range samples {
		samples[j] = e.Sample(j)
	}

	// b. raw pooled statistics
	raw, err := spacing.Pooled(samples, cfg.BinsRaw, true)
	if err != nil {
		return StepResult{}, fmt.Errorf("raw: %w", err)
	}
	klRaw, err := kl(raw.BinCenters, raw.Density, raw.BinWidth, cfg.Rule)
	if err != nil {
		return StepResult{}, fmt.Errorf("raw: %w", err)
	}

	// c. per-sample spline unfolding, pooled
	unfolded := make([][]float64, len(samples))
	var residual float64
	for j, s := range samples {
		u, err := unfold.Spline(s, cfg.SmoothingBins)
		if err != nil {
			return StepResult{}, fmt.Errorf("sample %d: %w", j, err)
		}
		unfolded[j] = u.Unfolded
		residual += u.Residual
	}
	pooled, err := spacing.Pooled(unfolded, cfg.BinsUnfolded, true)
	if err != nil {
		return StepResult{}, fmt.Errorf("unfolded: %w", err)
	}
	beta, _ := spacing.FitBrody(pooled)

	// d–e. pooled divergence
	density := pooled.Density
	if cfg.SmoothUnfolded {
		density = divergence.Smooth(density)
	}
	klPooled, err := kl(pooled.BinCenters, density, pooled.BinWidth, cfg.Rule)
	if err != nil {
		return StepResult{}, fmt.Errorf("pooled: %w", err)
	}

	// f. per-sample divergence, averaged
	var klSum float64
	for j, u := range unfolded {
		norm, err := unfold.NormalizeUnitMean(u)
		if err != nil {
			return StepResult{}, fmt.Errorf("sample %d: %w", j, err)
		}
		st, err := spacing.Stats(norm, cfg.BinsUnfolded, false)
		if err != nil {
			return StepResult{}, fmt.Errorf("sample %d: %w", j, err)
		}
		d := st.Density
		if cfg.SmoothUnfolded {
			d = divergence.Smooth(d)
		}
		v, err := kl(st.BinCenters, d, st.BinWidth, cfg.Rule)
		if err != nil {
			return StepResult{}, fmt.Errorf("sample %d: %w", j, err)
		}
		klSum += v
	}

	res := StepResult{
		Step:                 step,
		KLPooled:             klPooled,
		KLPerSample:          klSum / float64(len(unfolded)),
		KLRaw:                klRaw,
		MeanToll:             stat.Mean(e.Toll, nil),
		RawMeanSpacing:       raw.MeanSpacing,
		RawNormResidual:      raw.NormResidual,
		UnfoldedNormResidual: pooled.NormResidual,
		UnfoldResidual:       residual / float64(len(unfolded)),
		Brody:                beta,
		BinCenters:           pooled.BinCenters,
		Density:              density,
		Eigenvalues:          samples,
		Toll:                 append([]float64(nil), e.Toll...),
	}

	// polynomial ensemble unfolding diagnostic
	if cfg.Polynomial {
		pr, err := unfold.Polynomial(samples)
		if err != nil {
			return StepResult{}, fmt.Errorf("polynomial: %w", err)
		}
		ps, err := spacing.FromSpacings(pr.Spacings, cfg.BinsUnfolded, false)
		if err != nil {
			return StepResult{}, fmt.Errorf("polynomial: %w", err)
		}
		if res.KLPolynomial, err = kl(ps.BinCenters, ps.Density, ps.BinWidth, cfg.Rule); err != nil {
			return StepResult{}, fmt.Errorf("polynomial: %w", err)
		}
	}

	if !spectrum.IsFinite(res.KLPerSample) || !spectrum.IsFinite(res.MeanToll) {
		return StepResult{}, spectrum.ErrNonFiniteResult
	}

	return res, nil
}

func kl(s, p []float64, width float64, rule divergence.Rule) (float64, error) {
	return divergence.KL(s, p, divergence.WithBinWidth(width), divergence.WithRule(rule))
}
