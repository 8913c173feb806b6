// SPDX-License-Identifier: MIT

package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/lvlspec/source"
)

// Run processes cfg.Steps against src.
//
// Returns:
//   - (result, nil) after every step succeeded; result is finalized and was
//     handed to the reporter, if any.
//   - (result, *StepError) when a step failed; result holds the steps
//     committed before the failing one and is not finalized.
//   - (nil, err) when cfg is invalid.
//
// Cancellation of ctx is observed between steps and reported as a
// *StepError of KindOther for the first step not started.
func Run(ctx context.Context, src source.Source, cfg Config, opts ...Option) (*RunResult, error) {
	// Stage 1 (Validate)
	rc, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}
	o := gatherOptions(opts)
	r := &runner{src: src, cfg: rc, opts: o, res: newRunResult(rc)}
	o.logger.Info("run started",
		slog.String("run", r.res.ID()),
		slog.Int("steps", len(rc.Steps)),
		slog.Int("samples", rc.Samples),
		slog.Int("size", rc.Size),
		slog.Int("workers", o.workers))

	// Stage 2 (Execute)
	if o.workers > 1 {
		err = r.parallel(ctx)
	} else {
		err = r.sequential(ctx)
	}
	if err != nil {
		o.logger.Error("run failed", slog.String("run", r.res.ID()), slog.Any("error", err))
		return r.res, err
	}

	// Stage 3 (Finalize)
	r.res.Finalize()
	o.logger.Info("run finished", slog.String("run", r.res.ID()), slog.Int("steps", r.res.Len()))
	if o.reporter != nil {
		if err = o.reporter.Report(ctx, r.res.Snapshot()); err != nil {
			return r.res, fmt.Errorf("pipeline: report: %w", err)
		}
	}

	return r.res, nil
}

// runner holds the state of one Run call.
type runner struct {
	src  source.Source
	cfg  Config
	opts runOptions
	res  *RunResult
}

func (r *runner) sequential(ctx context.Context) error {
	for _, n := range r.cfg.Steps {
		sr, err := r.guardedStep(ctx, n)
		if err != nil {
			return err
		}
		if err = r.res.commit(sr); err != nil {
			return newStepError(n, err)
		}
	}

	return nil
}

// parallel evaluates steps with an errgroup and commits the successful
// prefix in ascending order. Once step k fails, steps above k are skipped
// but steps below it still run, so the reported failure is always the
// lowest failing step, exactly as in a sequential run.
func (r *runner) parallel(ctx context.Context) error {
	steps := r.cfg.Steps
	slots := make([]StepResult, len(steps))
	errs := make([]error, len(steps))
	var firstFail atomic.Int64
	firstFail.Store(int64(len(steps)))

	var g errgroup.Group
	g.SetLimit(r.opts.workers)
	for k, n := range steps {
		g.Go(func() error {
			if int64(k) > firstFail.Load() {
				return nil
			}
			sr, err := r.guardedStep(ctx, n)
			if err != nil {
				errs[k] = err
				lowerTo(&firstFail, int64(k))

				return err
			}
			slots[k] = sr

			return nil
		})
	}
	_ = g.Wait() // per-slot errors are inspected in step order below

	for k := range steps {
		if errs[k] != nil {
			return errs[k]
		}
		if err := r.res.commit(slots[k]); err != nil {
			return newStepError(steps[k], err)
		}
	}

	return nil
}

// guardedStep runs step n unless ctx is already done.
func (r *runner) guardedStep(ctx context.Context, n int) (StepResult, error) {
	if err := ctx.Err(); err != nil {
		return StepResult{}, newStepError(n, err)
	}

	return r.step(ctx, n)
}

// lowerTo sets v to min(v, k).
func lowerTo(v *atomic.Int64, k int64) {
	for {
		cur := v.Load()
		if k >= cur || v.CompareAndSwap(cur, k) {
			return
		}
	}
}

// step fetches and evaluates removal step n.
func (r *runner) step(ctx context.Context, n int) (StepResult, error) {
	start := time.Now()
	fail := func(err error) (StepResult, error) {
		se := newStepError(n, err)
		if r.opts.observer != nil {
			r.opts.observer.StepFailed(n, time.Since(start), se.Kind)
		}
		r.opts.logger.Warn("step failed", slog.Int("step", n), slog.String("kind", se.Kind.String()), slog.Any("error", err))

		return StepResult{}, se
	}

	e, err := r.src.Fetch(ctx, n)
	if err != nil {
		return fail(fmt.Errorf("fetch: %w", err))
	}
	sr, err := Evaluate(n, e, r.cfg)
	if err != nil {
		return fail(err)
	}

	elapsed := time.Since(start)
	if r.opts.observer != nil {
		view := sr.clone()
		r.opts.observer.StepDone(n, elapsed, &view)
	}
	r.opts.logger.Info("step done",
		slog.Int("step", n),
		slog.Float64("kl_pooled", sr.KLPooled),
		slog.Float64("kl_per_sample", sr.KLPerSample),
		slog.Float64("mean_toll", sr.MeanToll),
		slog.Duration("elapsed", elapsed))

	return sr, nil
}
