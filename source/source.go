// SPDX-License-Identifier: MIT

package source

import (
	"context"
	"fmt"
	"sync"

	"github.com/katalvlaran/lvlspec/spectrum"
)

// Source returns the ensemble recorded for a removal step.
type Source interface {
	Fetch(ctx context.Context, step int) (*spectrum.Ensemble, error)
}

// Func adapts a plain function to Source.
type Func func(ctx context.Context, step int) (*spectrum.Ensemble, error)

// Fetch calls f.
func (f Func) Fetch(ctx context.Context, step int) (*spectrum.Ensemble, error) { return f(ctx, step) }

// Memory is a map-backed Source safe for concurrent use.
type Memory struct {
	mu    sync.RWMutex
	steps map[int]*spectrum.Ensemble
}

// NewMemory returns an empty Memory source.
func NewMemory() *Memory {
	return &Memory{steps: make(map[int]*spectrum.Ensemble)}
}

// Put stores a copy of e for step after validating it.
func (m *Memory) Put(step int, e *spectrum.Ensemble) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("source: Memory.Put step %d: %w", step, err)
	}
	m.mu.Lock()
	m.steps[step] = e.Clone()
	m.mu.Unlock()

	return nil
}

// Steps returns the number of stored steps.
func (m *Memory) Steps() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.steps)
}

// Fetch returns a copy of the ensemble stored for step.
func (m *Memory) Fetch(ctx context.Context, step int) (*spectrum.Ensemble, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	e, ok := m.steps[step]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("source: Memory.Fetch step %d: %w", step, spectrum.ErrMissingStepData)
	}

	return e.Clone(), nil
}
