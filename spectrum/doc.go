// Package spectrum defines the data model shared by the level-spacing
// analysis: a single eigenvalue spectrum, an N×S ensemble of spectra for one
// removal step together with its per-sample toll scalars, and the error
// taxonomy every other package reports through.
//
// What & Why:
//
//	An Ensemble is the unit of work of the removal-step pipeline. Each of its
//	S columns holds the N eigenvalues of one independent sample; Toll holds
//	one auxiliary scalar per sample. N and S are fixed for a run, so the
//	storage is a flat row-major buffer and column access is a strided copy.
//
// Errors:
//
//	ErrInsufficientData  - too few eigenvalues for a spline fit or spacing set.
//	ErrMissingStepData   - a spectrum source has no ensemble for a step.
//	ErrNonFiniteResult   - NaN or ±Inf produced or ingested.
//	ErrBadShape          - ensemble dimensions are invalid or inconsistent.
//	ErrBadSteps          - the step sequence is empty or not strictly increasing.
//	ErrBadOption         - an option or configuration value is nonsensical.
//
// Complexity:
//
//	At and Set are O(1); Sample and Clone are O(N) and O(N·S).
package spectrum
