package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvlspec/pipeline"
	"github.com/katalvlaran/lvlspec/source"
	"github.com/katalvlaran/lvlspec/spectrum"
	"github.com/katalvlaran/lvlspec/store"
)

var (
	_ source.Source     = (*store.DB)(nil)
	_ pipeline.Reporter = (*store.DB)(nil)
)

func openTemp(t *testing.T) *store.DB {
	t.Helper()
	db, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "spectra.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func TestEnsemble_RoundTrip(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)

	e, err := spectrum.NewEnsemble([][]float64{{0.1, 0.2, 0.7}, {1.5, 2.25, 3}}, []float64{0.3, 0.6})
	require.NoError(t, err)
	require.NoError(t, db.PutEnsemble(ctx, 4, e))

	got, err := db.Fetch(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, e, got)

	_, err = db.Fetch(ctx, 5)
	assert.ErrorIs(t, err, spectrum.ErrMissingStepData)

	e2, err := spectrum.NewEnsemble([][]float64{{9, 10}}, []float64{1})
	require.NoError(t, err)
	require.NoError(t, db.PutEnsemble(ctx, 4, e2), "replace")
	require.NoError(t, db.PutEnsemble(ctx, 1, e2))
	got, err = db.Fetch(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, e2, got)

	steps, err := db.Steps(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 4}, steps)
}

func TestPutEnsemble_RejectsInvalid(t *testing.T) {
	db := openTemp(t)
	e, err := spectrum.NewEnsemble([][]float64{{1, 2}}, []float64{0})
	require.NoError(t, err)
	e.Toll = nil
	assert.ErrorIs(t, db.PutEnsemble(context.Background(), 1, e), spectrum.ErrBadShape)
}

// TestRun_FromAndIntoStore feeds a pipeline run from the store and reports
// its snapshot back.
func TestRun_FromAndIntoStore(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)
	gen := &source.Synthetic{Kind: source.Uniform, N: 20, S: 4, Seed: 9}
	for _, n := range []int{1, 2, 3} {
		e, err := gen.Fetch(ctx, n)
		require.NoError(t, err)
		require.NoError(t, db.PutEnsemble(ctx, n, e))
	}

	res, err := pipeline.Run(ctx, db, pipeline.Config{Samples: 4, Size: 20, Steps: []int{1, 2, 3}},
		pipeline.WithReporter(db))
	require.NoError(t, err)

	want := res.Snapshot()
	got, err := db.Run(ctx, res.ID())
	require.NoError(t, err)
	assert.Equal(t, want.Steps, got.Steps)
	assert.Equal(t, want.Config, got.Config)
	assert.True(t, got.Complete)
	assert.Equal(t, want.Started.UnixNano(), got.Started.UnixNano())
	require.NotNil(t, got.Finished)
	assert.Equal(t, want.Finished.UnixNano(), got.Finished.UnixNano())

	runs, err := db.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, res.ID(), runs[0].ID)
	assert.Equal(t, 3, runs[0].Steps)

	// a repeated report replaces the run
	require.NoError(t, db.Report(ctx, want))
	runs, err = db.Runs(ctx)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestRun_Errors(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)

	_, err := db.Run(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, store.ErrBadRunID)

	_, err = db.Run(ctx, "1b4e28ba-2fa1-11d2-883f-0016d3cca427")
	assert.ErrorIs(t, err, store.ErrRunNotFound)

	err = db.Report(ctx, pipeline.Snapshot{ID: "x"})
	assert.ErrorIs(t, err, store.ErrBadRunID)
}
