// Package pipeline runs the removal-step analysis: for every selected step it
// fetches the ensemble, builds raw and unfolded spacing distributions, and
// measures their KL divergence from Poisson.
//
// Per step n (ascending):
//
//	a. Fetch the N×S ensemble (absent → ErrMissingStepData).
//	b. Raw pooled spacing statistics (BinsRaw bins, unit mean).
//	c. Spline-unfold each sample; pooled unfolded statistics (BinsUnfolded).
//	d. Optional 3-point smoothing of the unfolded density.
//	e. KLPooled from the pooled unfolded density.
//	f. KLPerSample: unfold → unit mean → per-sample density → KL, averaged.
//	g. Mean toll and the full eigenvalue/toll arrays.
//
// Both divergence estimates are kept as separate fields. KLRaw, KLPolynomial
// (ensemble polynomial unfolding) and the Brody parameter are diagnostics.
//
// Failure policy: the first failing step aborts the run with a *StepError
// naming the step and error kind; the returned *RunResult keeps every step
// committed before it. With WithWorkers(k) steps are evaluated concurrently
// and committed in ascending order, so the committed set is always a prefix
// of Config.Steps.
package pipeline
