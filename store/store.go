package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"
	_ "modernc.org/sqlite"

	"github.com/katalvlaran/lvlspec/pipeline"
	"github.com/katalvlaran/lvlspec/spectrum"
)

// ErrRunNotFound indicates an unknown run identifier.
var ErrRunNotFound = errors.New("store: run not found")

// ErrBadRunID indicates a run identifier that is not a UUID.
var ErrBadRunID = errors.New("store: malformed run id")

const schema = `
CREATE TABLE IF NOT EXISTS ensembles (
	step        INTEGER PRIMARY KEY,
	n           INTEGER NOT NULL,
	s           INTEGER NOT NULL,
	eigenvalues BLOB    NOT NULL,
	toll        BLOB    NOT NULL
);
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	created_at  INTEGER NOT NULL,
	finished_at INTEGER,
	complete    INTEGER NOT NULL,
	config      TEXT    NOT NULL
);
CREATE TABLE IF NOT EXISTS run_steps (
	run_id        TEXT    NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	step          INTEGER NOT NULL,
	kl_pooled     REAL    NOT NULL,
	kl_per_sample REAL    NOT NULL,
	kl_raw        REAL    NOT NULL,
	kl_polynomial REAL    NOT NULL,
	mean_toll     REAL    NOT NULL,
	brody         REAL    NOT NULL,
	result        TEXT    NOT NULL,
	PRIMARY KEY (run_id, step)
);
`

// DB is a SQLite-backed ensemble and result store.
type DB struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies the schema.
func Open(ctx context.Context, path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	if _, err = db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: pragma: %w", err)
	}
	if _, err = db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database.
func (d *DB) Close() error { return d.db.Close() }

// PutEnsemble stores e for step, replacing any previous ensemble.
func (d *DB) PutEnsemble(ctx context.Context, step int, e *spectrum.Ensemble) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("store: PutEnsemble step %d: %w", step, err)
	}
	eig := mat.NewDense(e.N(), e.S(), nil)
	for i := 0; i < e.N(); i++ {
		for j := 0; j < e.S(); j++ {
			eig.Set(i, j, e.At(i, j))
		}
	}
	eigBlob, err := eig.MarshalBinary()
	if err != nil {
		return fmt.Errorf("store: PutEnsemble step %d: %w", step, err)
	}
	tollBlob, err := mat.NewVecDense(e.S(), append([]float64(nil), e.Toll...)).MarshalBinary()
	if err != nil {
		return fmt.Errorf("store: PutEnsemble step %d: %w", step, err)
	}

	_, err = d.db.ExecContext(ctx,
		`INSERT INTO ensembles (step, n, s, eigenvalues, toll) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(step) DO UPDATE SET n = excluded.n, s = excluded.s,
		 eigenvalues = excluded.eigenvalues, toll = excluded.toll`,
		step, e.N(), e.S(), eigBlob, tollBlob)
	if err != nil {
		return fmt.Errorf("store: PutEnsemble step %d: %w", step, err)
	}

	return nil
}

// Fetch implements source.Source.
func (d *DB) Fetch(ctx context.Context, step int) (*spectrum.Ensemble, error) {
	var eigBlob, tollBlob []byte
	err := d.db.QueryRowContext(ctx,
		`SELECT eigenvalues, toll FROM ensembles WHERE step = ?`, step).Scan(&eigBlob, &tollBlob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("store: Fetch step %d: %w", step, spectrum.ErrMissingStepData)
	}
	if err != nil {
		return nil, fmt.Errorf("store: Fetch step %d: %w", step, err)
	}

	var eig mat.Dense
	if err = eig.UnmarshalBinary(eigBlob); err != nil {
		return nil, fmt.Errorf("store: Fetch step %d: eigenvalues: %w", step, err)
	}
	var toll mat.VecDense
	if err = toll.UnmarshalBinary(tollBlob); err != nil {
		return nil, fmt.Errorf("store: Fetch step %d: toll: %w", step, err)
	}
	_, s := eig.Dims()
	samples := make([][]float64, s)
	for j := range samples {
		samples[j] = mat.Col(nil, j, &eig)
	}

	return spectrum.NewEnsemble(samples, mat.Col(nil, 0, &toll))
}

// Steps returns the stored step indices in ascending order.
func (d *DB) Steps(ctx context.Context) ([]int, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT step FROM ensembles ORDER BY step`)
	if err != nil {
		return nil, fmt.Errorf("store: Steps: %w", err)
	}
	defer rows.Close()

	var out []int
	for rows.Next() {
		var n int
		if err = rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("store: Steps: %w", err)
		}
		out = append(out, n)
	}

	return out, rows.Err()
}

// Report implements pipeline.Reporter: the snapshot replaces any stored run
// with the same ID.
func (d *DB) Report(ctx context.Context, s pipeline.Snapshot) error {
	if _, err := uuid.Parse(s.ID); err != nil {
		return fmt.Errorf("store: Report %q: %w", s.ID, ErrBadRunID)
	}
	cfg, err := json.Marshal(s.Config)
	if err != nil {
		return fmt.Errorf("store: Report: %w", err)
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: Report: %w", err)
	}
	defer tx.Rollback()

	var finished sql.NullInt64
	if s.Finished != nil {
		finished = sql.NullInt64{Int64: s.Finished.UnixNano(), Valid: true}
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, s.ID); err != nil {
		return fmt.Errorf("store: Report: %w", err)
	}
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, finished_at, complete, config) VALUES (?, ?, ?, ?, ?)`,
		s.ID, s.Started.UnixNano(), finished, s.Complete, string(cfg)); err != nil {
		return fmt.Errorf("store: Report: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO run_steps (run_id, step, kl_pooled, kl_per_sample, kl_raw, kl_polynomial, mean_toll, brody, result)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("store: Report: %w", err)
	}
	defer stmt.Close()
	for _, st := range s.Steps {
		blob, err := json.Marshal(st)
		if err != nil {
			return fmt.Errorf("store: Report step %d: %w", st.Step, err)
		}
		if _, err = stmt.ExecContext(ctx, s.ID, st.Step, st.KLPooled, st.KLPerSample, st.KLRaw,
			st.KLPolynomial, st.MeanToll, st.Brody, string(blob)); err != nil {
			return fmt.Errorf("store: Report step %d: %w", st.Step, err)
		}
	}

	return tx.Commit()
}

// RunInfo summarizes a stored run.
type RunInfo struct {
	ID       string
	Created  time.Time
	Complete bool
	Steps    int
}

// Runs lists stored runs, newest first.
func (d *DB) Runs(ctx context.Context) ([]RunInfo, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT r.id, r.created_at, r.complete, COUNT(s.step)
		 FROM runs r LEFT JOIN run_steps s ON s.run_id = r.id
		 GROUP BY r.id ORDER BY r.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("store: Runs: %w", err)
	}
	defer rows.Close()

	var out []RunInfo
	for rows.Next() {
		var (
			ri      RunInfo
			created int64
		)
		if err = rows.Scan(&ri.ID, &created, &ri.Complete, &ri.Steps); err != nil {
			return nil, fmt.Errorf("store: Runs: %w", err)
		}
		ri.Created = time.Unix(0, created)
		out = append(out, ri)
	}

	return out, rows.Err()
}

// Run loads a stored snapshot.
func (d *DB) Run(ctx context.Context, id string) (pipeline.Snapshot, error) {
	if _, err := uuid.Parse(id); err != nil {
		return pipeline.Snapshot{}, fmt.Errorf("store: Run %q: %w", id, ErrBadRunID)
	}
	var (
		snap     = pipeline.Snapshot{ID: id}
		created  int64
		finished sql.NullInt64
		cfg      string
	)
	err := d.db.QueryRowContext(ctx,
		`SELECT created_at, finished_at, complete, config FROM runs WHERE id = ?`, id).
		Scan(&created, &finished, &snap.Complete, &cfg)
	if errors.Is(err, sql.ErrNoRows) {
		return pipeline.Snapshot{}, fmt.Errorf("store: Run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return pipeline.Snapshot{}, fmt.Errorf("store: Run %s: %w", id, err)
	}
	snap.Started = time.Unix(0, created)
	if finished.Valid {
		t := time.Unix(0, finished.Int64)
		snap.Finished = &t
	}
	if err = json.Unmarshal([]byte(cfg), &snap.Config); err != nil {
		return pipeline.Snapshot{}, fmt.Errorf("store: Run %s: config: %w", id, err)
	}

	rows, err := d.db.QueryContext(ctx, `SELECT result FROM run_steps WHERE run_id = ? ORDER BY step`, id)
	if err != nil {
		return pipeline.Snapshot{}, fmt.Errorf("store: Run %s: %w", id, err)
	}
	defer rows.Close()
	for rows.Next() {
		var blob string
		if err = rows.Scan(&blob); err != nil {
			return pipeline.Snapshot{}, fmt.Errorf("store: Run %s: %w", id, err)
		}
		var st pipeline.StepResult
		if err = json.Unmarshal([]byte(blob), &st); err != nil {
			return pipeline.Snapshot{}, fmt.Errorf("store: Run %s: step: %w", id, err)
		}
		snap.Steps = append(snap.Steps, st)
	}

	return snap, rows.Err()
}
