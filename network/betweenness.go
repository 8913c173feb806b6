// SPDX-License-Identifier: MIT

package network

import (
	"fmt"
	"math"
	"sort"

	gnetwork "gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/lvlspec/spectrum"
)

// tieTol is the relative tolerance under which two betweenness values tie.
const tieTol = 1e-12

// Edge is an undirected edge (U < V) with its weight and betweenness.
type Edge struct {
	U, V        int
	Weight      float64
	Betweenness float64
}

// distanceGraph builds the undirected graph of the off-diagonal positive
// entries of w with edge length 1/w, and lists its edges in (U, V) order.
func distanceGraph(w mat.Symmetric) (*simple.WeightedUndirectedGraph, []Edge, error) {
	if w == nil || w.SymmetricDim() == 0 {
		return nil, nil, fmt.Errorf("network: graph: empty matrix: %w", spectrum.ErrBadShape)
	}
	n := w.SymmetricDim()
	g := simple.NewWeightedUndirectedGraph(0, math.Inf(1))
	for i := 0; i < n; i++ {
		g.AddNode(simple.Node(i))
	}
	var edges []Edge
	var v float64
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			v = w.At(i, j)
			if !spectrum.IsFinite(v) {
				return nil, nil, fmt.Errorf("network: graph: W[%d,%d]=%v: %w", i, j, v, spectrum.ErrNonFiniteResult)
			}
			if v < 0 {
				return nil, nil, fmt.Errorf("network: graph: W[%d,%d]=%g: %w", i, j, v, ErrNegativeWeight)
			}
			if v == 0 {
				continue
			}
			g.SetWeightedEdge(g.NewWeightedEdge(simple.Node(i), simple.Node(j), 1/v))
			edges = append(edges, Edge{U: i, V: j, Weight: v})
		}
	}

	return g, edges, nil
}

// EdgeBetweenness returns every edge of the weighted graph w (off-diagonal
// entries > 0) with its shortest-path edge betweenness, in (U, V) order.
// Path length is Σ 1/w along the path; each unordered vertex pair counts once.
//
// Errors:
//   - spectrum.ErrBadShape for a nil or empty matrix.
//   - spectrum.ErrNonFiniteResult / ErrNegativeWeight on invalid weights.
//
// Complexity: O(V·(V+E)·log V) for the all-pairs Dijkstra plus the path
// enumeration of every vertex pair.
func EdgeBetweenness(w mat.Symmetric) ([]Edge, error) {
	g, edges, err := distanceGraph(w)
	if err != nil {
		return nil, err
	}
	if len(edges) == 0 {
		return edges, nil
	}

	// Ordered pairs are counted in both directions; halve to count each
	// unordered pair once. Edges on no shortest path are absent from bc.
	bc := gnetwork.EdgeBetweennessWeighted(g, path.DijkstraAllPaths(g))
	for k := range edges {
		edges[k].Betweenness = bc[[2]int64{int64(edges[k].U), int64(edges[k].V)}] / 2
	}

	return edges, nil
}

func sameValue(a, b float64) bool {
	return math.Abs(a-b) <= tieTol*math.Max(math.Abs(a), math.Abs(b))
}

// rank sorts edges by betweenness descending; ties by (U, V) ascending.
func rank(edges []Edge) {
	sort.SliceStable(edges, func(i, j int) bool {
		bi, bj := edges[i].Betweenness, edges[j].Betweenness
		if !sameValue(bi, bj) {
			return bi > bj
		}
		if edges[i].U != edges[j].U {
			return edges[i].U < edges[j].U
		}

		return edges[i].V < edges[j].V
	})
}
