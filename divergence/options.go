// SPDX-License-Identifier: MIT

package divergence

import (
	"errors"
	"math"
)

// ErrUnsortedGrid indicates the abscissae are not strictly increasing.
var ErrUnsortedGrid = errors.New("divergence: grid not strictly increasing")

// Rule selects the quadrature rule.
type Rule int

const (
	// Midpoint sums f(s_k)·Δ_k over bins.
	Midpoint Rule = iota

	// Trapezoid applies the composite trapezoid rule over the centres.
	Trapezoid

	// Simpson applies the composite Simpson rule over the centres
	// (trapezoid for fewer than three points).
	Simpson
)

// String implements fmt.Stringer.
func (r Rule) String() string {
	switch r {
	case Midpoint:
		return "midpoint"
	case Trapezoid:
		return "trapezoid"
	case Simpson:
		return "simpson"
	default:
		return "unknown"
	}
}

// DefaultEpsilon is the floor applied to densities before the logarithm.
const DefaultEpsilon = 1e-12

const (
	panicEpsilonInvalid  = "divergence: WithEpsilon: eps must be finite and > 0"
	panicRuleInvalid     = "divergence: WithRule: unknown rule"
	panicBinWidthInvalid = "divergence: WithBinWidth: width must be finite and > 0"
)

// Option mutates Options.
type Option func(*Options)

// Options holds the effective KL configuration.
type Options struct {
	rule     Rule
	eps      float64
	smooth   bool
	binWidth float64 // 0: derive from the centres
}

// WithRule selects the quadrature rule.
func WithRule(r Rule) Option {
	if r < Midpoint || r > Simpson {
		panic(panicRuleInvalid)
	}

	return func(o *Options) { o.rule = r }
}

// WithEpsilon sets the density floor used inside the logarithm.
func WithEpsilon(eps float64) Option {
	if math.IsNaN(eps) || math.IsInf(eps, 0) || eps <= 0 {
		panic(panicEpsilonInvalid)
	}

	return func(o *Options) { o.eps = eps }
}

// WithSmoothing enables the 3-point moving average before the logarithm.
func WithSmoothing(on bool) Option {
	return func(o *Options) { o.smooth = on }
}

// WithBinWidth fixes the midpoint bin width; required for a single-bin density.
func WithBinWidth(w float64) Option {
	if math.IsNaN(w) || math.IsInf(w, 0) || w <= 0 {
		panic(panicBinWidthInvalid)
	}

	return func(o *Options) { o.binWidth = w }
}

func gatherOptions(opts []Option) Options {
	o := Options{rule: Midpoint, eps: DefaultEpsilon}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}
