package unfold_test

import (
	"math/rand"
	"testing"

	"github.com/katalvlaran/lvlspec/unfold"
)

// benchmarkSpline unfolds a random spectrum of size n targeting bins DoF.
func benchmarkSpline(b *testing.B, n, bins int) {
	eigs := uniformSpectrum(rand.New(rand.NewSource(1)), n, float64(n))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := unfold.Spline(eigs, bins); err != nil {
			b.Fatalf("Spline failed: %v", err)
		}
	}
}

// BenchmarkSpline_50 benchmarks a typical per-sample spectrum.
func BenchmarkSpline_50(b *testing.B) { benchmarkSpline(b, 50, 10) }

// BenchmarkSpline_200 benchmarks a larger spectrum.
func BenchmarkSpline_200(b *testing.B) { benchmarkSpline(b, 200, 20) }
