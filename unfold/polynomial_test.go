package unfold_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/lvlspec/spectrum"
	"github.com/katalvlaran/lvlspec/unfold"
)

// TestPolynomial_UniformEnsemble: a uniform ensemble has a linear cumulative
// distribution, so unfolded spacings average close to one.
func TestPolynomial_UniformEnsemble(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	samples := make([][]float64, 10)
	for j := range samples {
		samples[j] = uniformSpectrum(rng, 50, 50)
	}

	res, err := unfold.Polynomial(samples, unfold.WithDegree(5))
	require.NoError(t, err)
	require.Len(t, res.Unfolded, 10)
	assert.Len(t, res.Spacings, 10*49)
	assert.Len(t, res.Grid, unfold.DefaultGridPoints)
	assert.Len(t, res.Coefficients, 6)

	for _, u := range res.Unfolded {
		for i := 1; i < len(u); i++ {
			assert.GreaterOrEqual(t, u[i], u[i-1])
		}
	}
	for _, d := range res.Spacings {
		assert.GreaterOrEqual(t, d, 0.0)
	}
	assert.InDelta(t, 1.0, stat.Mean(res.Spacings, nil), 0.1)
	assert.InDelta(t, 0.0, res.Cumulative[0], 1e-12)
}

// TestPolynomial_Errors covers the validation paths.
func TestPolynomial_Errors(t *testing.T) {
	_, err := unfold.Polynomial(nil)
	assert.ErrorIs(t, err, spectrum.ErrInsufficientData)

	_, err = unfold.Polynomial([][]float64{{1, 2, 3}, {1, 2}})
	assert.ErrorIs(t, err, spectrum.ErrBadShape)

	_, err = unfold.Polynomial([][]float64{{1, 2, 3}}, unfold.WithGridPoints(4), unfold.WithDegree(4))
	assert.ErrorIs(t, err, spectrum.ErrBadOption)

	_, err = unfold.Polynomial([][]float64{{0, 0, 0}})
	assert.ErrorIs(t, err, spectrum.ErrInsufficientData)
}
