package cmd

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/lvlspec/config"
	"github.com/katalvlaran/lvlspec/eigen"
	"github.com/katalvlaran/lvlspec/network"
	"github.com/katalvlaran/lvlspec/pipeline"
	"github.com/katalvlaran/lvlspec/source"
	"github.com/katalvlaran/lvlspec/spectrum"
	"github.com/katalvlaran/lvlspec/store"
)

// newSolver maps a solver name to an eigen.Solver.
func newSolver(name string) (eigen.Solver, error) {
	switch strings.ToLower(name) {
	case "", "gonum":
		return eigen.Gonum{}, nil
	case "jacobi":
		return eigen.NewJacobi(), nil
	default:
		return nil, fmt.Errorf("unknown solver %q: %w", name, spectrum.ErrBadOption)
	}
}

// buildSource assembles the configured source. db may be nil unless the
// source kind is "store".
func buildSource(cfg *config.Config, pc pipeline.Config, db *store.DB) (source.Source, error) {
	var src source.Source
	switch cfg.Source.Kind {
	case config.SourceSynthetic:
		kind, err := source.ParseKind(cfg.Source.Synthetic.Ensemble)
		if err != nil {
			return nil, err
		}
		solver, err := newSolver(cfg.Source.Network.Solver)
		if err != nil {
			return nil, err
		}
		src = &source.Synthetic{
			Kind:    kind,
			N:       pc.Size,
			S:       pc.Samples,
			Scale:   cfg.Source.Synthetic.Scale,
			Seed:    cfg.Source.Synthetic.Seed,
			MaxStep: cfg.Source.Synthetic.MaxStep,
			Solver:  solver,
		}
	case config.SourceNetwork:
		nc := cfg.Source.Network
		solver, err := newSolver(nc.Solver)
		if err != nil {
			return nil, err
		}
		rng := rand.New(rand.NewSource(nc.Seed))
		fluxes := make([]mat.Matrix, pc.Samples)
		for j := range fluxes {
			fluxes[j] = network.RandomFlux(rng, pc.Size, nc.Density)
		}
		opts := []network.Option{network.WithZeroDiagonal(pc.ZeroDiagonal)}
		if nc.Band >= 0 {
			opts = append(opts, network.WithBand(nc.Band))
		}
		nw, err := source.NewNetwork(fluxes, solver, opts...)
		if err != nil {
			return nil, err
		}
		if last := pc.Steps[len(pc.Steps)-1]; last > nw.MaxStep() {
			return nil, fmt.Errorf("step %d exceeds the %d removable edges: %w",
				last, nw.MaxStep(), spectrum.ErrBadSteps)
		}
		src = nw
	case config.SourceStore:
		if db == nil {
			return nil, fmt.Errorf("store source without database: %w", spectrum.ErrBadOption)
		}
		src = db
	default:
		return nil, fmt.Errorf("unknown source kind %q: %w", cfg.Source.Kind, spectrum.ErrBadOption)
	}

	if cfg.Source.CacheSize > 0 {
		return source.NewCached(src, cfg.Source.CacheSize)
	}

	return src, nil
}

// openStore opens the configured database, or returns nil when no path is set.
func openStore(ctx context.Context, cfg *config.Config) (*store.DB, error) {
	if cfg.Store.Path == "" {
		return nil, nil
	}

	return store.Open(ctx, cfg.Store.Path)
}
