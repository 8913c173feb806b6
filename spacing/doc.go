// Package spacing builds nearest-neighbour level-spacing distributions from
// eigenvalue sets and derives the summary scalars used to compare them with
// the Poisson reference.
//
// What & Why:
//
//	Sorting a spectrum and differencing neighbours gives its level spacings.
//	Rescaling them to unit mean makes spectra of different matrix scale and
//	removal step comparable; a histogram turned into a density (integral 1)
//	is the input of the divergence evaluator.
//
// Exposed API:
//   - Stats(eigs, nbins, normalize)         -> Result  // one spectrum
//   - Pooled(samples, nbins, normalize)     -> Result  // spacings of all samples pooled
//   - FromSpacings(d, nbins, normalize)     -> Result  // precomputed spacings
//   - FitBrody(res)                         -> β, SSE  // Brody interpolation parameter
//   - Poisson(s), Wigner(s), Brody(s, β)    // reference densities
//
// Degenerate ranges (all spacings equal, in particular a single spacing)
// produce a single-bin spike that still integrates to one.
//
// Complexity:
//
//	O(N log N) for sorting plus O(N + nbins) for the histogram.
package spacing
