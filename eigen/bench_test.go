package eigen_test

import (
	"math/rand"
	"testing"

	"github.com/katalvlaran/lvlspec/eigen"
)

func benchmarkSolver(b *testing.B, s eigen.Solver, n int) {
	a := randomSym(rand.New(rand.NewSource(1)), n)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.Eigenvalues(a); err != nil {
			b.Fatalf("Eigenvalues failed: %v", err)
		}
	}
}

func BenchmarkJacobi_50(b *testing.B) { benchmarkSolver(b, eigen.NewJacobi(), 50) }
func BenchmarkGonum_50(b *testing.B)  { benchmarkSolver(b, eigen.Gonum{}, 50) }
