// SPDX-License-Identifier: MIT

package source

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/lvlspec/eigen"
	"github.com/katalvlaran/lvlspec/spectrum"
)

// Kind selects the synthetic ensemble.
type Kind int

const (
	// Uniform draws N sorted uniform values in [0, Scale): Poisson spacings.
	Uniform Kind = iota

	// GOE diagonalizes N×N Gaussian orthogonal matrices: Wigner spacings.
	GOE
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case Uniform:
		return "uniform"
	case GOE:
		return "goe"
	default:
		return "unknown"
	}
}

// ParseKind maps "uniform" / "goe" to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "uniform", "":
		return Uniform, nil
	case "goe":
		return GOE, nil
	default:
		return 0, fmt.Errorf("source: unknown kind %q: %w", s, spectrum.ErrBadOption)
	}
}

// Synthetic generates ensembles deterministically from (Seed, step, sample).
// Toll values are uniform in [0, 1).
type Synthetic struct {
	Kind    Kind
	N, S    int
	Scale   float64 // Uniform range; defaults to N
	Seed    int64
	MaxStep int          // steps above MaxStep are missing; 0 means unbounded
	Solver  eigen.Solver // GOE solver; defaults to eigen.Gonum
}

// Fetch builds the ensemble of step. Each (step, sample) pair has its own
// random stream, so results do not depend on fetch order.
func (g *Synthetic) Fetch(ctx context.Context, step int) (*spectrum.Ensemble, error) {
	if g.N < 1 || g.S < 1 {
		return nil, fmt.Errorf("source: Synthetic %dx%d: %w", g.N, g.S, spectrum.ErrBadShape)
	}
	if step < 1 || (g.MaxStep > 0 && step > g.MaxStep) {
		return nil, fmt.Errorf("source: Synthetic step %d: %w", step, spectrum.ErrMissingStepData)
	}

	samples := make([][]float64, g.S)
	toll := make([]float64, g.S)
	for j := 0; j < g.S; j++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rng := rand.New(rand.NewSource(streamSeed(g.Seed, step, j)))
		toll[j] = rng.Float64()

		var err error
		switch g.Kind {
		case GOE:
			samples[j], err = g.goe(rng)
		default:
			samples[j] = g.uniform(rng)
		}
		if err != nil {
			return nil, fmt.Errorf("source: Synthetic step %d sample %d: %w", step, j, err)
		}
	}

	return spectrum.NewEnsemble(samples, toll)
}

func (g *Synthetic) uniform(rng *rand.Rand) []float64 {
	scale := g.Scale
	if scale <= 0 {
		scale = float64(g.N)
	}
	out := make([]float64, g.N)
	for i := range out {
		out[i] = rng.Float64() * scale
	}
	sort.Float64s(out)

	return out
}

// goe draws A with N(0,1) off-diagonal and N(0,2) diagonal entries, scaled
// by 1/√(2N) so the semicircle has radius √2.
func (g *Synthetic) goe(rng *rand.Rand) ([]float64, error) {
	solver := g.Solver
	if solver == nil {
		solver = eigen.Gonum{}
	}
	a := mat.NewSymDense(g.N, nil)
	scale := 1 / math.Sqrt(2*float64(g.N))
	for i := 0; i < g.N; i++ {
		a.SetSym(i, i, math.Sqrt2*rng.NormFloat64()*scale)
		for k := i + 1; k < g.N; k++ {
			a.SetSym(i, k, rng.NormFloat64()*scale)
		}
	}

	return solver.Eigenvalues(a)
}

// streamSeed mixes the run seed with the (step, sample) coordinates
// (splitmix64 finalizer).
func streamSeed(seed int64, step, sample int) int64 {
	z := uint64(seed) + uint64(step)*0x9E3779B97F4A7C15 + uint64(sample)*0xBF58476D1CE4E5B9
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB

	return int64(z ^ (z >> 31))
}
