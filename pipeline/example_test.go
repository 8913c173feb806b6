package pipeline_test

import (
	"context"
	"fmt"

	"github.com/katalvlaran/lvlspec/pipeline"
	"github.com/katalvlaran/lvlspec/source"
)

// ExampleRun analyses three removal steps of a synthetic Poisson ensemble.
func ExampleRun() {
	src := &source.Synthetic{Kind: source.Uniform, N: 50, S: 10, Seed: 1}
	cfg := pipeline.Config{Samples: 10, Size: 50, Steps: []int{1, 2, 3}}

	res, err := pipeline.Run(context.Background(), src, cfg)
	if err != nil {
		fmt.Println(err)
		return
	}
	snap := res.Snapshot()
	fmt.Println(snap.StepIndices(), snap.Complete)
	for _, st := range snap.Steps {
		fmt.Println(st.Step, st.KLPooled >= 0, st.KLPerSample >= 0)
	}
	// Output:
	// [1 2 3] true
	// 1 true true
	// 2 true true
	// 3 true true
}
