// Package source supplies per-step eigenvalue ensembles to the pipeline.
//
// A Source maps a removal-step index to an N×S Ensemble plus its toll array.
// Fetch must be idempotent: repeated calls for the same step return equal
// data, and an absent step fails with spectrum.ErrMissingStepData.
//
// Implementations:
//
//   - Memory    – in-process map, typically filled by tests or loaders.
//   - Synthetic – deterministic uniform (Poisson) or GOE spectra by seed.
//   - Network   – prunes betweenness-ranked edges of per-sample infectivity
//     matrices and diagonalizes them with an eigen.Solver.
//   - Cached    – LRU memoization around any Source, with concurrent fetches
//     of one step collapsed into a single call.
//
// The SQLite-backed store.DB also satisfies Source.
package source
