// SPDX-License-Identifier: MIT

package pipeline

import (
	"log/slog"
	"time"
)

const panicWorkersInvalid = "pipeline: WithWorkers: k must be ≥ 1"

// Observer receives per-step outcomes; implementations must be safe for
// concurrent use when WithWorkers(k > 1) is set. StepDone gets a private
// copy of the result; changing it does not affect the RunResult.
type Observer interface {
	StepDone(step int, elapsed time.Duration, res *StepResult)
	StepFailed(step int, elapsed time.Duration, kind ErrorKind)
}

// Option configures Run.
type Option func(*runOptions)

type runOptions struct {
	workers  int
	logger   *slog.Logger
	observer Observer
	reporter Reporter
}

// WithWorkers evaluates up to k steps concurrently (default 1).
func WithWorkers(k int) Option {
	if k < 1 {
		panic(panicWorkersInvalid)
	}

	return func(o *runOptions) { o.workers = k }
}

// WithLogger sets the progress logger (default: discard).
func WithLogger(l *slog.Logger) Option {
	return func(o *runOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithObserver attaches a step observer, e.g. metrics.Collector.
func WithObserver(obs Observer) Option {
	return func(o *runOptions) { o.observer = obs }
}

// WithReporter hands the finalized snapshot to r after a successful run.
func WithReporter(r Reporter) Option {
	return func(o *runOptions) { o.reporter = r }
}

func gatherOptions(opts []Option) runOptions {
	o := runOptions{workers: 1, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}
