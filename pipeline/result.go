// SPDX-License-Identifier: MIT

package pipeline

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// StepResult is everything recorded for one removal step.
type StepResult struct {
	Step int `json:"step"`

	// KLPooled is the divergence of the pooled unfolded density.
	KLPooled float64 `json:"kl_pooled"`

	// KLPerSample is the per-sample divergence averaged over samples.
	KLPerSample float64 `json:"kl_per_sample"`

	KLRaw        float64 `json:"kl_raw"`
	KLPolynomial float64 `json:"kl_polynomial,omitempty"`

	MeanToll float64 `json:"mean_toll"`

	RawMeanSpacing       float64 `json:"raw_mean_spacing"`
	RawNormResidual      float64 `json:"raw_norm_residual"`
	UnfoldedNormResidual float64 `json:"unfolded_norm_residual"`
	UnfoldResidual       float64 `json:"unfold_residual"` // mean spline RMS residual
	Brody                float64 `json:"brody"`

	// Pooled unfolded density (after optional smoothing).
	BinCenters []float64 `json:"bin_centers"`
	Density    []float64 `json:"density"`

	// Eigenvalues[j] is sample j's spectrum as fetched; Toll[j] its toll.
	Eigenvalues [][]float64 `json:"eigenvalues"`
	Toll        []float64   `json:"toll"`
}

func (s StepResult) clone() StepResult {
	out := s
	out.BinCenters = append([]float64(nil), s.BinCenters...)
	out.Density = append([]float64(nil), s.Density...)
	out.Toll = append([]float64(nil), s.Toll...)
	out.Eigenvalues = make([][]float64, len(s.Eigenvalues))
	for j, e := range s.Eigenvalues {
		out.Eigenvalues[j] = append([]float64(nil), e...)
	}

	return out
}

// RunResult accumulates step results in ascending step order. It is created
// by Run, appended to while the run progresses and frozen by Finalize.
type RunResult struct {
	mu        sync.RWMutex
	id        string
	cfg       Config
	started   time.Time
	finished  time.Time
	steps     []StepResult
	finalized bool
}

func newRunResult(cfg Config) *RunResult {
	return &RunResult{id: uuid.NewString(), cfg: cfg, started: time.Now()}
}

// ID returns the run identifier.
func (r *RunResult) ID() string { return r.id }

// Len returns the number of committed steps.
func (r *RunResult) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.steps)
}

// Step returns a copy of the result recorded for removal step n.
func (r *RunResult) Step(n int) (StepResult, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.steps {
		if s.Step == n {
			return s.clone(), true
		}
	}

	return StepResult{}, false
}

// Finalized reports whether Finalize has been called.
func (r *RunResult) Finalized() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.finalized
}

// commit appends s; steps must arrive in ascending order.
func (r *RunResult) commit(s StepResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.finalized {
		return ErrFinalized
	}
	if k := len(r.steps); k > 0 && r.steps[k-1].Step >= s.Step {
		return fmt.Errorf("pipeline: commit step %d after %d", s.Step, r.steps[k-1].Step)
	}
	r.steps = append(r.steps, s)

	return nil
}

// Finalize freezes the result. Further commits fail with ErrFinalized.
func (r *RunResult) Finalize() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.finalized {
		r.finalized = true
		r.finished = time.Now()
	}
}

// Snapshot is a deep, read-only copy of a RunResult for reporting.
type Snapshot struct {
	ID       string       `json:"id"`
	Config   Config       `json:"config"`
	Started  time.Time    `json:"started"`
	Finished *time.Time   `json:"finished,omitempty"` // nil until finalized
	Complete bool         `json:"complete"`
	Steps    []StepResult `json:"steps"`
}

// Snapshot returns a deep copy of the current state.
func (r *RunResult) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	steps := make([]StepResult, len(r.steps))
	for k, s := range r.steps {
		steps[k] = s.clone()
	}

	var finished *time.Time
	if r.finalized {
		t := r.finished
		finished = &t
	}

	return Snapshot{
		ID:       r.id,
		Config:   r.cfg,
		Started:  r.started,
		Finished: finished,
		Complete: r.finalized && len(r.steps) == len(r.cfg.Steps),
		Steps:    steps,
	}
}

// StepIndices returns the committed step indices.
func (s Snapshot) StepIndices() []int {
	out := make([]int, len(s.Steps))
	for k, st := range s.Steps {
		out[k] = st.Step
	}

	return out
}

// KLPooled returns the pooled divergence series.
func (s Snapshot) KLPooled() []float64 {
	return s.series(func(st StepResult) float64 { return st.KLPooled })
}

// KLPerSample returns the per-sample divergence series.
func (s Snapshot) KLPerSample() []float64 {
	return s.series(func(st StepResult) float64 { return st.KLPerSample })
}

// MeanToll returns the mean-toll series.
func (s Snapshot) MeanToll() []float64 {
	return s.series(func(st StepResult) float64 { return st.MeanToll })
}

func (s Snapshot) series(f func(StepResult) float64) []float64 {
	out := make([]float64, len(s.Steps))
	for k, st := range s.Steps {
		out[k] = f(st)
	}

	return out
}
