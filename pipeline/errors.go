// SPDX-License-Identifier: MIT

package pipeline

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/lvlspec/spectrum"
)

// ErrFinalized is returned when a step is committed to a finalized result.
var ErrFinalized = errors.New("pipeline: result already finalized")

// ErrorKind classifies a step failure.
type ErrorKind int

const (
	// KindOther covers configuration, I/O and cancellation failures.
	KindOther ErrorKind = iota

	// KindInsufficientData: too few eigenvalues for a fit or spacing set.
	KindInsufficientData

	// KindMissingStepData: the source holds no ensemble for the step.
	KindMissingStepData

	// KindNonFiniteResult: NaN/Inf in input, density or divergence.
	KindNonFiniteResult
)

// String implements fmt.Stringer.
func (k ErrorKind) String() string {
	switch k {
	case KindInsufficientData:
		return "insufficient data"
	case KindMissingStepData:
		return "missing step data"
	case KindNonFiniteResult:
		return "non-finite result"
	default:
		return "other"
	}
}

// StepError reports the removal step that aborted a run.
type StepError struct {
	Step int
	Kind ErrorKind
	Err  error
}

// Error implements error.
func (e *StepError) Error() string {
	return fmt.Sprintf("pipeline: step %d: %s: %v", e.Step, e.Kind, e.Err)
}

// Unwrap exposes the underlying sentinel to errors.Is.
func (e *StepError) Unwrap() error { return e.Err }

func newStepError(step int, err error) *StepError {
	var se *StepError
	if errors.As(err, &se) {
		return se
	}

	return &StepError{Step: step, Kind: classify(err), Err: err}
}

func classify(err error) ErrorKind {
	switch {
	case errors.Is(err, spectrum.ErrMissingStepData):
		return KindMissingStepData
	case errors.Is(err, spectrum.ErrInsufficientData):
		return KindInsufficientData
	case errors.Is(err, spectrum.ErrNonFiniteResult):
		return KindNonFiniteResult
	default:
		return KindOther
	}
}
