// SPDX-License-Identifier: MIT

package pipeline

import (
	"fmt"
	"math"

	"github.com/katalvlaran/lvlspec/divergence"
	"github.com/katalvlaran/lvlspec/spectrum"
	"github.com/katalvlaran/lvlspec/unfold"
)

// DefaultSmoothingBins is the spline's effective degrees of freedom when
// Config.SmoothingBins is zero.
const DefaultSmoothingBins = 10

// Config is the run-wide configuration.
type Config struct {
	Samples int `json:"samples"` // S
	Size    int `json:"size"`    // N

	BinsRaw       int `json:"bins_raw"`       // 0: ceil(2·√(N·S))
	BinsUnfolded  int `json:"bins_unfolded"`  // 0: ceil(2·√N)
	SmoothingBins int `json:"smoothing_bins"` // 0: DefaultSmoothingBins

	// Steps is the strictly increasing removal-step selection.
	Steps []int `json:"steps"`

	SmoothUnfolded bool `json:"smooth_unfolded"`

	// ZeroDiagonal is the source's diagonal policy; the core never reads it.
	ZeroDiagonal bool `json:"zero_diagonal"`

	// Polynomial enables the KLPolynomial diagnostic.
	Polynomial bool `json:"polynomial"`

	Rule divergence.Rule `json:"rule"`
}

// Resolve validates c and fills derived defaults. The receiver is not modified.
//
// Errors:
//   - spectrum.ErrBadShape for S < 1 or N < 4.
//   - spectrum.ErrBadOption for negative bin counts or an unknown rule.
//   - spectrum.ErrBadSteps for an invalid step sequence.
func (c Config) Resolve() (Config, error) {
	if c.Samples < 1 || c.Size < unfold.MinSplinePoints {
		return c, fmt.Errorf("pipeline: Config: %d samples of size %d: %w", c.Samples, c.Size, spectrum.ErrBadShape)
	}
	if c.BinsRaw < 0 || c.BinsUnfolded < 0 || c.SmoothingBins < 0 {
		return c, fmt.Errorf("pipeline: Config: negative bin count: %w", spectrum.ErrBadOption)
	}
	if c.Rule < divergence.Midpoint || c.Rule > divergence.Simpson {
		return c, fmt.Errorf("pipeline: Config: rule %d: %w", c.Rule, spectrum.ErrBadOption)
	}
	if err := spectrum.ValidateSteps(c.Steps); err != nil {
		return c, fmt.Errorf("pipeline: Config: %w", err)
	}

	out := c
	out.Steps = append([]int(nil), c.Steps...)
	if out.BinsRaw == 0 {
		out.BinsRaw = int(math.Ceil(2 * math.Sqrt(float64(c.Size*c.Samples))))
	}
	if out.BinsUnfolded == 0 {
		out.BinsUnfolded = int(math.Ceil(2 * math.Sqrt(float64(c.Size))))
	}
	if out.SmoothingBins == 0 {
		out.SmoothingBins = DefaultSmoothingBins
	}

	return out, nil
}
