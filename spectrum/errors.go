// SPDX-License-Identifier: MIT
// Package spectrum: sentinel error set shared by the analysis packages.
// All numerical packages return these sentinels, wrapped with an operation
// tag via fmt.Errorf("Op: %w", err); callers match them with errors.Is.

package spectrum

import "errors"

var (
	// ErrInsufficientData is returned when fewer eigenvalues are supplied than
	// the operation needs (4 for a cubic spline fit, 2 for a spacing set).
	ErrInsufficientData = errors.New("spectrum: insufficient data")

	// ErrMissingStepData is returned when a spectrum source holds no ensemble
	// for the requested removal step.
	ErrMissingStepData = errors.New("spectrum: missing step data")

	// ErrNonFiniteResult is returned when a density, divergence or spline
	// evaluation yields NaN or ±Inf, or when such a value is ingested.
	ErrNonFiniteResult = errors.New("spectrum: non-finite result")

	// ErrBadShape is returned when ensemble dimensions are non-positive or the
	// samples and toll arrays disagree in length.
	ErrBadShape = errors.New("spectrum: invalid ensemble shape")

	// ErrBadSteps is returned when a removal-step sequence is empty, contains
	// an index < 1, or is not strictly increasing.
	ErrBadSteps = errors.New("spectrum: invalid removal-step sequence")

	// ErrBadOption is returned when a configuration value is nonsensical
	// (e.g. a non-positive bin count).
	ErrBadOption = errors.New("spectrum: invalid option")
)
