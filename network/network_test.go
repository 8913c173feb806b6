package network_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/lvlspec/network"
	"github.com/katalvlaran/lvlspec/spectrum"
)

// path4 is the unit-weight path 0-1-2-3.
func path4() *mat.SymDense {
	w := mat.NewSymDense(4, nil)
	w.SetSym(0, 1, 1)
	w.SetSym(1, 2, 1)
	w.SetSym(2, 3, 1)

	return w
}

func betweennessOf(edges []network.Edge) map[[2]int]float64 {
	out := make(map[[2]int]float64, len(edges))
	for _, e := range edges {
		out[[2]int{e.U, e.V}] = e.Betweenness
	}

	return out
}

func TestInfectivity_Transform(t *testing.T) {
	f := mat.NewDense(2, 2, []float64{2, 1, 3, 4})
	l, err := network.Infectivity(f)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, l.At(0, 0), 1e-15)
	assert.InDelta(t, 1.5, l.At(0, 1), 1e-15)
	assert.InDelta(t, 1.0, l.At(1, 1), 1e-15)

	l, err = network.Infectivity(f, network.WithZeroDiagonal(true))
	require.NoError(t, err)
	assert.Zero(t, l.At(0, 0))
	assert.Zero(t, l.At(1, 1))
	assert.InDelta(t, 1.5, l.At(1, 0), 1e-15)
}

func TestInfectivity_ZeroPopulation(t *testing.T) {
	// node 1 has no population: its row is dropped before symmetrization
	f := mat.NewDense(2, 2, []float64{2, 2, 2, 0})
	l, err := network.Infectivity(f)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, l.At(0, 0), 1e-15)
	assert.InDelta(t, 1.0, l.At(0, 1), 1e-15, "½·(4/2 + 0)")
	assert.Zero(t, l.At(1, 1))
}

func TestInfectivity_Band(t *testing.T) {
	f := network.RandomFlux(rand.New(rand.NewSource(1)), 6, 1)
	l, err := network.Infectivity(f, network.WithBand(1))
	require.NoError(t, err)
	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			if j-i > 1 || i-j > 1 {
				assert.Zero(t, l.At(i, j), "(%d,%d)", i, j)
			}
		}
	}
	assert.NotZero(t, l.At(2, 3))
	assert.Panics(t, func() { network.WithBand(-1) })
}

func TestInfectivity_Errors(t *testing.T) {
	_, err := network.Infectivity(mat.NewDense(2, 3, nil))
	assert.ErrorIs(t, err, network.ErrNotSquare)

	_, err = network.Infectivity(mat.NewDense(2, 2, []float64{1, -1, 0, 1}))
	assert.ErrorIs(t, err, network.ErrNegativeWeight)

	_, err = network.Infectivity(mat.NewDense(2, 2, []float64{1, math.NaN(), 0, 1}))
	assert.ErrorIs(t, err, spectrum.ErrNonFiniteResult)
}

func TestNewFlux(t *testing.T) {
	f, err := network.NewFlux([][]float64{{1, 2}, {3, 4}})
	require.NoError(t, err)
	assert.Equal(t, 3.0, f.At(1, 0))

	_, err = network.NewFlux(nil)
	assert.ErrorIs(t, err, spectrum.ErrBadShape)
	_, err = network.NewFlux([][]float64{{1, 2}, {3}})
	assert.ErrorIs(t, err, network.ErrNotSquare)
	_, err = network.NewFlux([][]float64{{-1}})
	assert.ErrorIs(t, err, network.ErrNegativeWeight)
}

func TestEdgeBetweenness_Path(t *testing.T) {
	edges, err := network.EdgeBetweenness(path4())
	require.NoError(t, err)
	require.Len(t, edges, 3)
	bc := betweennessOf(edges)
	assert.InDelta(t, 3.0, bc[[2]int{0, 1}], 1e-12)
	assert.InDelta(t, 4.0, bc[[2]int{1, 2}], 1e-12)
	assert.InDelta(t, 3.0, bc[[2]int{2, 3}], 1e-12)
}

// TestEdgeBetweenness_WeakShortcut checks that a weak edge (long distance
// 1/w) carries no shortest path.
func TestEdgeBetweenness_WeakShortcut(t *testing.T) {
	w := mat.NewSymDense(3, nil)
	w.SetSym(0, 1, 1)
	w.SetSym(1, 2, 1)
	w.SetSym(0, 2, 0.1)

	edges, err := network.EdgeBetweenness(w)
	require.NoError(t, err)
	bc := betweennessOf(edges)
	assert.InDelta(t, 0.0, bc[[2]int{0, 2}], 1e-12)
	assert.InDelta(t, 2.0, bc[[2]int{0, 1}], 1e-12)
	assert.InDelta(t, 2.0, bc[[2]int{1, 2}], 1e-12)
}

// TestEdgeBetweenness_SplitPaths checks path counting on a 4-cycle where
// opposite corners have two equal shortest paths.
func TestEdgeBetweenness_SplitPaths(t *testing.T) {
	w := mat.NewSymDense(4, nil)
	w.SetSym(0, 1, 2)
	w.SetSym(1, 2, 2)
	w.SetSym(2, 3, 2)
	w.SetSym(0, 3, 2)
	w.SetSym(0, 0, 99) // diagonal ignored

	edges, err := network.EdgeBetweenness(w)
	require.NoError(t, err)
	require.Len(t, edges, 4)
	for _, e := range edges {
		assert.InDelta(t, 2.0, e.Betweenness, 1e-12, "edge %d-%d", e.U, e.V)
	}
}

// TestEdgeBetweenness_StarWithIsolatedNode checks a star whose leaves only
// reach each other through the hub, next to a node with no edges.
func TestEdgeBetweenness_StarWithIsolatedNode(t *testing.T) {
	w := mat.NewSymDense(5, nil)
	w.SetSym(0, 1, 1)
	w.SetSym(0, 2, 1)
	w.SetSym(0, 3, 1)
	w.SetSym(4, 4, 9) // diagonal only

	edges, err := network.EdgeBetweenness(w)
	require.NoError(t, err)
	require.Len(t, edges, 3)
	for _, e := range edges {
		assert.Equal(t, 0, e.U)
		assert.InDelta(t, 3.0, e.Betweenness, 1e-12, "edge %d-%d", e.U, e.V)
	}

	s, err := network.NewSchedule(w)
	require.NoError(t, err)
	got := s.Edges()
	assert.Equal(t, []int{1, 2, 3}, []int{got[0].V, got[1].V, got[2].V}, "ties keep (U, V) order")

	none, err := network.EdgeBetweenness(mat.NewSymDense(3, nil))
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestEdgeBetweenness_Errors(t *testing.T) {
	_, err := network.EdgeBetweenness(nil)
	assert.ErrorIs(t, err, spectrum.ErrBadShape)

	w := mat.NewSymDense(2, []float64{0, -1, -1, 0})
	_, err = network.EdgeBetweenness(w)
	assert.ErrorIs(t, err, network.ErrNegativeWeight)
}

func TestSchedule_PruneAndToll(t *testing.T) {
	w := path4()
	s, err := network.NewSchedule(w)
	require.NoError(t, err)
	require.Equal(t, 3, s.Len())

	order := s.Edges()
	assert.Equal(t, [2]int{1, 2}, [2]int{order[0].U, order[0].V}, "bridge first")
	assert.Equal(t, [2]int{0, 1}, [2]int{order[1].U, order[1].V}, "ties by index")
	assert.Equal(t, [2]int{2, 3}, [2]int{order[2].U, order[2].V})

	p0, err := s.Prune(0)
	require.NoError(t, err)
	assert.True(t, mat.Equal(w, p0))

	p1, err := s.Prune(1)
	require.NoError(t, err)
	assert.Zero(t, p1.At(1, 2))
	assert.Zero(t, p1.At(2, 1))
	assert.Equal(t, 1.0, p1.At(0, 1))

	p3, err := s.Prune(3)
	require.NoError(t, err)
	assert.Zero(t, mat.Sum(p3))

	toll, err := s.Toll(1)
	require.NoError(t, err)
	assert.InDelta(t, 1.0/3, toll, 1e-15)

	_, err = s.Prune(4)
	assert.ErrorIs(t, err, spectrum.ErrMissingStepData)
	_, err = s.Toll(-1)
	assert.ErrorIs(t, err, network.ErrStepOutOfRange)

	w.SetSym(0, 1, 7)
	p0, err = s.Prune(0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, p0.At(0, 1), "schedule holds its own copy")
}
