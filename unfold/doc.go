// Package unfold maps raw eigenvalues to unfolded eigenvalues whose local
// mean density is one, so that nearest-neighbour spacing statistics become
// comparable across samples, matrix scales and removal steps.
//
// 🚀 What is unfolding?
//
//	The cumulative eigenvalue count (the spectral staircase) mixes a smooth
//	system-specific part with universal fluctuations. Fitting a smooth,
//	non-decreasing curve through the staircase and evaluating it at every
//	eigenvalue removes the smooth part.
//
// ✨ Methods:
//   - Spline      – weighted cubic smoothing spline through (eigenvalue, rank)
//     with the smoothing parameter chosen to reach a requested number of
//     effective degrees of freedom, followed by isotonic correction.
//   - Polynomial  – ensemble method: polynomial fit of the pooled cumulative
//     distribution sampled on a uniform grid, evaluated on every sample.
//   - NormalizeUnitMean – plain rescale to unit mean spacing.
//
// ⚙️ Usage:
//
//	res, err := unfold.Spline(eigs, 10)
//	if err != nil {
//	    // errors.Is(err, spectrum.ErrInsufficientData) for N < 4
//	}
//	unit, _ := unfold.NormalizeUnitMean(res.Unfolded)
//
// The smoothing trade-off: too few degrees of freedom over-smooth the
// staircase and erase genuine fluctuations; too many reproduce the raw
// density noise in the unfolded spectrum.
//
// Complexity:
//
//	Spline: O(K·m³) time with m unique eigenvalues and K bisection steps,
//	O(m²) memory. Polynomial: O(n·deg² + N·S·deg).
package unfold
