package network_test

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/lvlspec/network"
)

// ExampleNewSchedule ranks the edges of a small weighted path.
func ExampleNewSchedule() {
	w := mat.NewSymDense(4, nil)
	w.SetSym(0, 1, 1)
	w.SetSym(1, 2, 1)
	w.SetSym(2, 3, 1)

	s, err := network.NewSchedule(w)
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, e := range s.Edges() {
		fmt.Printf("%d-%d %.0f\n", e.U, e.V, e.Betweenness)
	}
	// Output:
	// 1-2 4
	// 0-1 3
	// 2-3 3
}
