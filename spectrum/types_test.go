package spectrum_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvlspec/spectrum"
)

func TestNewEnsemble_Layout(t *testing.T) {
	e, err := spectrum.NewEnsemble([][]float64{{1, 2, 3}, {4, 5, 6}}, []float64{0.1, 0.2})
	require.NoError(t, err)
	assert.Equal(t, 3, e.N())
	assert.Equal(t, 2, e.S())
	assert.Equal(t, 5.0, e.At(1, 1))
	assert.Equal(t, spectrum.Spectrum{4, 5, 6}, e.Sample(1))
	assert.Len(t, e.Samples(), 2)
	assert.NoError(t, e.Validate())

	e.Set(0, 0, 9)
	assert.Equal(t, 9.0, e.At(0, 0))
	assert.Panics(t, func() { e.At(3, 0) })
	assert.Panics(t, func() { e.Set(0, 2, 1) })
}

func TestNewEnsemble_CopiesInput(t *testing.T) {
	in := [][]float64{{1, 2}}
	toll := []float64{7}
	e, err := spectrum.NewEnsemble(in, toll)
	require.NoError(t, err)

	in[0][0] = 100
	toll[0] = 100
	assert.Equal(t, 1.0, e.At(0, 0))
	assert.Equal(t, 7.0, e.Toll[0])
}

func TestNewEnsemble_BadShape(t *testing.T) {
	_, err := spectrum.NewEnsemble(nil, nil)
	assert.ErrorIs(t, err, spectrum.ErrBadShape)

	_, err = spectrum.NewEnsemble([][]float64{{1, 2}, {3}}, []float64{0, 0})
	assert.ErrorIs(t, err, spectrum.ErrBadShape, "ragged samples")

	_, err = spectrum.NewEnsemble([][]float64{{1, 2}}, []float64{0, 0})
	assert.ErrorIs(t, err, spectrum.ErrBadShape, "toll mismatch")
}

func TestEnsemble_CloneIsDeep(t *testing.T) {
	e, err := spectrum.NewEnsemble([][]float64{{1, 2}}, []float64{3})
	require.NoError(t, err)

	c := e.Clone()
	c.Set(0, 0, 42)
	c.Toll[0] = 42
	assert.Equal(t, 1.0, e.At(0, 0))
	assert.Equal(t, 3.0, e.Toll[0])
}

func TestEnsemble_ValidateNonFinite(t *testing.T) {
	e, err := spectrum.NewEnsemble([][]float64{{1, math.NaN()}}, []float64{0})
	require.NoError(t, err)
	assert.ErrorIs(t, e.Validate(), spectrum.ErrNonFiniteResult)

	e, err = spectrum.NewEnsemble([][]float64{{1, 2}}, []float64{math.Inf(1)})
	require.NoError(t, err)
	assert.ErrorIs(t, e.Validate(), spectrum.ErrNonFiniteResult)

	e.Toll = e.Toll[:0]
	assert.ErrorIs(t, e.Validate(), spectrum.ErrBadShape)

	var nilEns *spectrum.Ensemble
	assert.ErrorIs(t, nilEns.Validate(), spectrum.ErrBadShape)
}

func TestSpectrum_Sorted(t *testing.T) {
	s := spectrum.Spectrum{3, 1, 2, 1}
	assert.Equal(t, spectrum.Spectrum{1, 1, 2, 3}, s.Sorted())
	assert.False(t, s.IsSorted(), "receiver untouched")
	assert.True(t, s.Sorted().IsSorted())
}

func TestValidateSteps(t *testing.T) {
	cases := []struct {
		name  string
		steps []int
		ok    bool
	}{
		{"single", []int{1}, true},
		{"sparse", []int{1, 5, 40}, true},
		{"empty", nil, false},
		{"zero", []int{0, 1}, false},
		{"repeat", []int{1, 2, 2}, false},
		{"descending", []int{3, 2}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := spectrum.ValidateSteps(tc.steps)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, spectrum.ErrBadSteps)
			}
		})
	}
}
