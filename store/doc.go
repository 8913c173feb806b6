// Package store persists ensembles and run results in SQLite
// (modernc.org/sqlite, pure Go).
//
// Tables:
//
//	ensembles(step PK, n, s, eigenvalues BLOB, toll BLOB)
//	runs(id PK, created_at, finished_at, complete, config JSON)
//	run_steps(run_id, step, kl_pooled, kl_per_sample, kl_raw, kl_polynomial,
//	          mean_toll, brody, result JSON)
//
// Eigenvalue tensors are stored as gonum mat.Dense (N×S) and toll arrays as
// mat.VecDense binary encodings. DB satisfies source.Source (Fetch) and
// pipeline.Reporter (Report), so one database file can feed a run and
// receive its results.
package store
