package pipeline_test

import (
	"context"
	"testing"

	"github.com/katalvlaran/lvlspec/pipeline"
	"github.com/katalvlaran/lvlspec/source"
)

// BenchmarkEvaluate_50x10 evaluates one step of a 50×10 ensemble.
func BenchmarkEvaluate_50x10(b *testing.B) {
	e, err := uniformSource(0).Fetch(context.Background(), 1)
	if err != nil {
		b.Fatal(err)
	}
	cfg, err := baseConfig(1).Resolve()
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := pipeline.Evaluate(1, e, cfg); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkRun_Workers compares sequential and parallel step evaluation.
func BenchmarkRun_Workers(b *testing.B) {
	src, err := source.NewCached(uniformSource(0), 16)
	if err != nil {
		b.Fatal(err)
	}
	cfg := baseConfig(1, 2, 3, 4, 5, 6, 7, 8)
	for _, k := range []int{1, 4} {
		b.Run(map[int]string{1: "sequential", 4: "workers4"}[k], func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := pipeline.Run(context.Background(), src, cfg, pipeline.WithWorkers(k)); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
