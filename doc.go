// Package lvlspec measures how the level-spacing statistics of a network's
// spectrum drift from Poisson toward random-matrix behaviour (and back) as
// the network is dismantled edge by edge.
//
// 🚀 What is lvlspec?
//
//	A small, layered toolkit that brings together:
//		• Sources: synthetic ensembles, pruned flux networks, SQLite replay
//		• Unfolding: weighted smoothing spline (default) or polynomial fit
//		• Spacing statistics: raw and unfolded histograms, Brody fit
//		• Divergence: KL(P ‖ Poisson) with midpoint/trapezoid/Simpson rules
//		• Pipeline: ordered removal steps, sequential or bounded-parallel
//
// ✨ Why lvlspec?
//
//   - Deterministic – seeded sources, results independent of worker count
//   - Fail-soft – a failing step keeps every earlier step's result
//   - Observable – slog logging, Prometheus metrics, JSON/SQLite snapshots
//
// Packages:
//
//	spectrum/   — Spectrum, Ensemble and the shared sentinel errors
//	unfold/     — spline and polynomial unfolding, isotonic correction
//	spacing/    — spacing histograms, Poisson/Wigner/Brody densities
//	divergence/ — Kullback–Leibler divergence against Poisson
//	eigen/      — symmetric eigenvalue solvers (gonum, cyclic Jacobi)
//	network/    — infectivity matrices, edge betweenness, removal schedules
//	source/     — Source implementations and the LRU cache
//	pipeline/   — step evaluation, Run, snapshots and reporters
//	store/      — SQLite ensemble store and run archive
//	metrics/    — Prometheus collector
//	config/     — YAML + env configuration and logger setup
//	cmd/        — the lvlspec CLI (run, synth, runs)
//
// Quick start:
//
//	lvlspec synth --db spec.db --kind goe --steps 1-5
//	LVLSPEC_SOURCE_KIND=store LVLSPEC_STORE_PATH=spec.db lvlspec run
//
// See each package's documentation for details and runnable examples.
package lvlspec
