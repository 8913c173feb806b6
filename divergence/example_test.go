package divergence_test

import (
	"fmt"

	"github.com/katalvlaran/lvlspec/divergence"
)

// ExampleKL integrates a flat density on [0, 2] against exp(−s).
func ExampleKL() {
	s := []float64{0.25, 0.75, 1.25, 1.75}
	p := []float64{0.5, 0.5, 0.5, 0.5}

	d, err := divergence.KL(s, p)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("%.4f\n", d)
	// Output: 0.3069
}
