// SPDX-License-Identifier: MIT

package network

const panicBandInvalid = "network: WithBand: k must be ≥ 0"

// Option configures Infectivity.
type Option func(*Options)

// Options holds the effective preprocessing settings.
type Options struct {
	ZeroDiagonal bool
	Band         int // −1: no banding
}

// DefaultOptions returns the transform without diagonal zeroing or banding.
func DefaultOptions() Options {
	return Options{Band: -1}
}

// WithZeroDiagonal clears the diagonal of the transformed matrix.
func WithZeroDiagonal(on bool) Option {
	return func(o *Options) { o.ZeroDiagonal = on }
}

// WithBand keeps entries with |i−j| ≤ k and zeroes the rest.
func WithBand(k int) Option {
	if k < 0 {
		panic(panicBandInvalid)
	}

	return func(o *Options) { o.Band = k }
}

func gatherOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return o
}
