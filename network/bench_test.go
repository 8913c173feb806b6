package network_test

import (
	"math/rand"
	"testing"

	"github.com/katalvlaran/lvlspec/network"
)

// BenchmarkNewSchedule_50 ranks the edges of a dense 50-node infectivity matrix.
func BenchmarkNewSchedule_50(b *testing.B) {
	l, err := network.Infectivity(network.RandomFlux(rand.New(rand.NewSource(1)), 50, 0.3))
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := network.NewSchedule(l); err != nil {
			b.Fatal(err)
		}
	}
}
