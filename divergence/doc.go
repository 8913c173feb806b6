// Package divergence evaluates the Kullback–Leibler divergence of an empirical
// level-spacing density from the unit-rate Poisson density exp(−s).
//
// Definition:
//
//	KL(p‖Poisson) = ∫ p(s)·log(p(s)/exp(−s)) ds = ∫ p(s)·(log p(s) + s) ds
//
// integrated numerically over the sampled (s, p(s)) pairs. Density values
// ≤ 0 are floor-clamped to a small epsilon inside the logarithm so that the
// integral stays finite; this biases the estimate slightly upwards.
//
// Rules:
//   - Midpoint  – Σ f(s_k)·Δ_k with Δ_k the bin width (default; exact
//     integration of a piecewise-constant histogram density).
//   - Trapezoid – gonum integrate.Trapezoidal over the bin centres.
//   - Simpson   – gonum integrate.Simpsons over the bin centres.
//
// An optional 3-point moving average (WithSmoothing) suppresses binning noise
// before the logarithm.
package divergence
