package source_test

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/lvlspec/eigen"
	"github.com/katalvlaran/lvlspec/network"
	"github.com/katalvlaran/lvlspec/source"
	"github.com/katalvlaran/lvlspec/spectrum"
)

func TestMemory_FetchAndMissing(t *testing.T) {
	ctx := context.Background()
	m := source.NewMemory()
	e, err := spectrum.NewEnsemble([][]float64{{1, 2, 3}}, []float64{0.5})
	require.NoError(t, err)
	require.NoError(t, m.Put(2, e))
	assert.Equal(t, 1, m.Steps())

	got, err := m.Fetch(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, e, got)

	got.Set(0, 0, 100)
	again, err := m.Fetch(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 1.0, again.At(0, 0), "fetch returns copies")

	_, err = m.Fetch(ctx, 3)
	assert.ErrorIs(t, err, spectrum.ErrMissingStepData)

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	_, err = m.Fetch(cctx, 2)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSynthetic_Deterministic(t *testing.T) {
	ctx := context.Background()
	g := &source.Synthetic{Kind: source.Uniform, N: 50, S: 10, Seed: 7, MaxStep: 3}

	a, err := g.Fetch(ctx, 2)
	require.NoError(t, err)
	b, err := g.Fetch(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, a, b, "idempotent")

	c, err := g.Fetch(ctx, 3)
	require.NoError(t, err)
	assert.NotEqual(t, a, c, "steps differ")

	require.Equal(t, 50, a.N())
	require.Equal(t, 10, a.S())
	for j := 0; j < a.S(); j++ {
		s := a.Sample(j)
		assert.True(t, s.IsSorted())
		assert.GreaterOrEqual(t, s[0], 0.0)
		assert.Less(t, s[len(s)-1], 50.0)
	}

	_, err = g.Fetch(ctx, 4)
	assert.ErrorIs(t, err, spectrum.ErrMissingStepData)
	_, err = g.Fetch(ctx, 0)
	assert.ErrorIs(t, err, spectrum.ErrMissingStepData)

	_, err = (&source.Synthetic{N: 0, S: 1}).Fetch(ctx, 1)
	assert.ErrorIs(t, err, spectrum.ErrBadShape)
}

func TestSynthetic_GOE(t *testing.T) {
	g := &source.Synthetic{Kind: source.GOE, N: 40, S: 2, Seed: 1}
	e, err := g.Fetch(context.Background(), 1)
	require.NoError(t, err)
	for j := 0; j < e.S(); j++ {
		s := e.Sample(j)
		assert.True(t, sort.Float64sAreSorted(s))
		assert.Greater(t, s[0], -2.0, "semicircle edge near −√2")
		assert.Less(t, s[len(s)-1], 2.0)
	}
}

func TestParseKind(t *testing.T) {
	k, err := source.ParseKind("goe")
	require.NoError(t, err)
	assert.Equal(t, source.GOE, k)
	assert.Equal(t, "uniform", source.Uniform.String())

	_, err = source.ParseKind("gue")
	assert.ErrorIs(t, err, spectrum.ErrBadOption)
}

func TestNetwork_Fetch(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	fluxes := []mat.Matrix{network.RandomFlux(rng, 8, 0.5), network.RandomFlux(rng, 8, 0.5)}
	nw, err := source.NewNetwork(fluxes, eigen.NewJacobi(), network.WithZeroDiagonal(true))
	require.NoError(t, err)
	require.Greater(t, nw.MaxStep(), 2)

	ctx := context.Background()
	e0, err := nw.Fetch(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 8, e0.N())
	assert.Equal(t, []float64{0, 0}, e0.Toll)

	e2, err := nw.Fetch(ctx, 2)
	require.NoError(t, err)
	for j := 0; j < 2; j++ {
		assert.Greater(t, e2.Toll[j], 0.0)
		assert.Less(t, e2.Toll[j], 1.0)
		var sum float64
		for _, v := range e2.Sample(j) {
			sum += v
		}
		assert.InDelta(t, 0, sum, 1e-9, "zero diagonal keeps a zero trace")
	}

	_, err = nw.Fetch(ctx, nw.MaxStep()+100)
	assert.ErrorIs(t, err, spectrum.ErrMissingStepData)
}

func TestNewNetwork_Errors(t *testing.T) {
	_, err := source.NewNetwork(nil, nil)
	assert.ErrorIs(t, err, spectrum.ErrBadShape)

	rng := rand.New(rand.NewSource(1))
	_, err = source.NewNetwork([]mat.Matrix{network.RandomFlux(rng, 3, 1), network.RandomFlux(rng, 4, 1)}, nil)
	assert.ErrorIs(t, err, spectrum.ErrBadShape)
}

func TestCached_Memoizes(t *testing.T) {
	var calls atomic.Int32
	inner := source.Func(func(ctx context.Context, step int) (*spectrum.Ensemble, error) {
		calls.Add(1)
		if step > 5 {
			return nil, spectrum.ErrMissingStepData
		}

		return spectrum.NewEnsemble([][]float64{{float64(step), 10}}, []float64{0})
	})
	c, err := source.NewCached(inner, 2)
	require.NoError(t, err)

	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e, err := c.Fetch(ctx, 1)
			assert.NoError(t, err)
			assert.Equal(t, 1.0, e.At(0, 0))
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, calls.Load(), int32(8))

	before := calls.Load()
	e, err := c.Fetch(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, before, calls.Load(), "hit does not reach inner source")
	e.Set(0, 0, 42)
	e, err = c.Fetch(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1.0, e.At(0, 0), "hits are copies")

	_, err = c.Fetch(ctx, 9)
	assert.ErrorIs(t, err, spectrum.ErrMissingStepData)
	_, err = c.Fetch(ctx, 9)
	assert.ErrorIs(t, err, spectrum.ErrMissingStepData)
	assert.Equal(t, 1, c.Len(), "errors are not cached")

	_, _ = c.Fetch(ctx, 2)
	_, _ = c.Fetch(ctx, 3)
	assert.Equal(t, 2, c.Len(), "bounded by size")
}

// TestCached_CancelledCallerDoesNotFailOthers shares one slow load between
// two callers and cancels the one that started it.
func TestCached_CancelledCallerDoesNotFailOthers(t *testing.T) {
	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})
	inner := source.Func(func(ctx context.Context, step int) (*spectrum.Ensemble, error) {
		calls.Add(1)
		close(started)
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		return spectrum.NewEnsemble([][]float64{{float64(step), 10}}, []float64{0})
	})
	c, err := source.NewCached(inner, 4)
	require.NoError(t, err)

	firstCtx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := c.Fetch(firstCtx, 7)
		firstErr <- err
	}()
	<-started

	type outcome struct {
		e   *spectrum.Ensemble
		err error
	}
	second := make(chan outcome, 1)
	go func() {
		e, err := c.Fetch(context.Background(), 7)
		second <- outcome{e, err}
	}()

	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(release)
	got := <-second
	require.NoError(t, got.err)
	assert.Equal(t, 7.0, got.e.At(0, 0))
	assert.Equal(t, int32(1), calls.Load(), "one shared load")
	assert.Equal(t, 1, c.Len())

	_, err = c.Fetch(firstCtx, 8)
	assert.ErrorIs(t, err, context.Canceled, "cancelled callers never start a load")
}
