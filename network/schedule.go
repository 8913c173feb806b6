// SPDX-License-Identifier: MIT

package network

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/lvlspec/spectrum"
)

// Schedule is the betweenness-ranked edge-removal order of one matrix.
// It is immutable after construction and safe for concurrent use.
type Schedule struct {
	base  *mat.SymDense
	order []Edge
	total float64 // Σ of all edge weights
}

// NewSchedule computes edge betweenness on w once and ranks the edges,
// highest betweenness first. w is copied.
//
// Complexity: O(V·(V+E)·log V + E log E).
func NewSchedule(w mat.Symmetric) (*Schedule, error) {
	edges, err := EdgeBetweenness(w)
	if err != nil {
		return nil, fmt.Errorf("network: NewSchedule: %w", err)
	}
	rank(edges)

	base := mat.NewSymDense(w.SymmetricDim(), nil)
	base.CopySym(w)

	var total float64
	for _, e := range edges {
		total += e.Weight
	}

	return &Schedule{base: base, order: edges, total: total}, nil
}

// Len returns the number of removable edges (the largest valid step).
func (s *Schedule) Len() int { return len(s.order) }

// Dim returns the matrix dimension.
func (s *Schedule) Dim() int { return s.base.SymmetricDim() }

// Edges returns a copy of the removal order.
func (s *Schedule) Edges() []Edge {
	out := make([]Edge, len(s.order))
	copy(out, s.order)

	return out
}

// Prune returns a fresh copy of the matrix with the first step edges of the
// order removed. Step 0 returns the unmodified matrix.
//
// Errors:
//   - ErrStepOutOfRange for step < 0.
//   - spectrum.ErrMissingStepData for step > Len().
func (s *Schedule) Prune(step int) (*mat.SymDense, error) {
	if err := s.check(step); err != nil {
		return nil, err
	}
	out := mat.NewSymDense(s.Dim(), nil)
	out.CopySym(s.base)
	for _, e := range s.order[:step] {
		out.SetSym(e.U, e.V, 0)
	}

	return out, nil
}

// Toll returns the fraction of total edge weight removed after step edges.
// An edgeless matrix has toll 0 at step 0.
func (s *Schedule) Toll(step int) (float64, error) {
	if err := s.check(step); err != nil {
		return 0, err
	}
	if s.total == 0 {
		return 0, nil
	}
	var removed float64
	for _, e := range s.order[:step] {
		removed += e.Weight
	}

	return removed / s.total, nil
}

func (s *Schedule) check(step int) error {
	if step < 0 {
		return fmt.Errorf("network: step %d: %w", step, ErrStepOutOfRange)
	}
	if step > len(s.order) {
		return fmt.Errorf("network: step %d beyond %d edges: %w", step, len(s.order), spectrum.ErrMissingStepData)
	}

	return nil
}
