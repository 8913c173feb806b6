// SPDX-License-Identifier: MIT

package source

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/lvlspec/eigen"
	"github.com/katalvlaran/lvlspec/network"
	"github.com/katalvlaran/lvlspec/spectrum"
)

// Network serves the spectra of betweenness-pruned infectivity matrices,
// one flux matrix per sample. Step n removes the n highest-betweenness
// edges of every sample; the toll is the removed weight fraction.
type Network struct {
	schedules []*network.Schedule
	solver    eigen.Solver
}

// NewNetwork transforms every flux matrix to its infectivity matrix (opts
// select the diagonal policy) and ranks its edges. All fluxes must share
// one dimension.
//
// Complexity: O(S·V·(V+E)·log V) up front.
func NewNetwork(fluxes []mat.Matrix, solver eigen.Solver, opts ...network.Option) (*Network, error) {
	if len(fluxes) == 0 {
		return nil, fmt.Errorf("source: NewNetwork: no samples: %w", spectrum.ErrBadShape)
	}
	if solver == nil {
		solver = eigen.Gonum{}
	}
	nw := &Network{solver: solver, schedules: make([]*network.Schedule, len(fluxes))}
	for j, f := range fluxes {
		l, err := network.Infectivity(f, opts...)
		if err != nil {
			return nil, fmt.Errorf("source: NewNetwork sample %d: %w", j, err)
		}
		if j > 0 && l.SymmetricDim() != nw.schedules[0].Dim() {
			return nil, fmt.Errorf("source: NewNetwork sample %d: dim %d, want %d: %w",
				j, l.SymmetricDim(), nw.schedules[0].Dim(), spectrum.ErrBadShape)
		}
		if nw.schedules[j], err = network.NewSchedule(l); err != nil {
			return nil, fmt.Errorf("source: NewNetwork sample %d: %w", j, err)
		}
	}

	return nw, nil
}

// MaxStep returns the largest step every sample can serve.
func (nw *Network) MaxStep() int {
	m := nw.schedules[0].Len()
	for _, s := range nw.schedules[1:] {
		m = min(m, s.Len())
	}

	return m
}

// Fetch prunes every sample to step and diagonalizes it.
func (nw *Network) Fetch(ctx context.Context, step int) (*spectrum.Ensemble, error) {
	samples := make([][]float64, len(nw.schedules))
	toll := make([]float64, len(nw.schedules))
	for j, s := range nw.schedules {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		a, err := s.Prune(step)
		if err != nil {
			return nil, fmt.Errorf("source: Network sample %d: %w", j, err)
		}
		if samples[j], err = nw.solver.Eigenvalues(a); err != nil {
			return nil, fmt.Errorf("source: Network sample %d step %d: %w", j, step, err)
		}
		if toll[j], err = s.Toll(step); err != nil {
			return nil, fmt.Errorf("source: Network sample %d: %w", j, err)
		}
	}

	return spectrum.NewEnsemble(samples, toll)
}
