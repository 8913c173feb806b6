// Package metrics exposes pipeline progress as Prometheus collectors.
//
// Collector implements pipeline.Observer. Batch runs either serve /metrics
// while they execute (StartServer) or dump the registry to a node-exporter
// textfile when done (WriteTextfile).
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/katalvlaran/lvlspec/pipeline"
)

// Collector holds the Prometheus collectors of one process.
type Collector struct {
	Registry *prometheus.Registry

	StepsTotal   *prometheus.CounterVec
	StepDuration prometheus.Histogram
	KLPooled     prometheus.Gauge
	KLPerSample  prometheus.Gauge
	MeanToll     prometheus.Gauge
	LastStep     prometheus.Gauge
}

// New creates the collectors and registers them on a fresh registry.
func New() *Collector {
	c := &Collector{
		Registry: prometheus.NewRegistry(),
		StepsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lvlspec_steps_total",
				Help: "Removal steps evaluated, by outcome (ok, failed) and error kind.",
			},
			[]string{"outcome", "kind"},
		),
		StepDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "lvlspec_step_duration_seconds",
				Help:    "Fetch plus evaluation time of one removal step.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
		),
		KLPooled: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "lvlspec_kl_pooled",
				Help: "Pooled unfolded KL divergence from Poisson of the last completed step.",
			},
		),
		KLPerSample: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "lvlspec_kl_per_sample",
				Help: "Per-sample averaged KL divergence of the last completed step.",
			},
		),
		MeanToll: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "lvlspec_mean_toll",
				Help: "Mean toll of the last completed step.",
			},
		),
		LastStep: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "lvlspec_last_step",
				Help: "Index of the last completed removal step.",
			},
		),
	}

	c.Registry.MustRegister(
		c.StepsTotal,
		c.StepDuration,
		c.KLPooled,
		c.KLPerSample,
		c.MeanToll,
		c.LastStep,
	)

	return c
}

// StepDone implements pipeline.Observer.
func (c *Collector) StepDone(step int, elapsed time.Duration, res *pipeline.StepResult) {
	c.StepsTotal.WithLabelValues("ok", "").Inc()
	c.StepDuration.Observe(elapsed.Seconds())
	c.KLPooled.Set(res.KLPooled)
	c.KLPerSample.Set(res.KLPerSample)
	c.MeanToll.Set(res.MeanToll)
	c.LastStep.Set(float64(step))
}

// StepFailed implements pipeline.Observer.
func (c *Collector) StepFailed(_ int, elapsed time.Duration, kind pipeline.ErrorKind) {
	c.StepsTotal.WithLabelValues("failed", kind.String()).Inc()
	c.StepDuration.Observe(elapsed.Seconds())
}

// WriteTextfile writes the registry in the text exposition format to path.
func (c *Collector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.Registry)
}
