// Package network builds the symmetric matrices whose spectra are analysed:
// flux matrices, their infectivity transform, weighted edge betweenness and
// the betweenness-ranked edge-removal schedule.
//
// Flux → infectivity:
//
//	L = F + Fᵀ, diag(L) = diag(F) = p
//	L_ij ← L_ij / p_i   (rows with p_i = 0 are zeroed)
//	L ← (L + Lᵀ)/2
//
// Edge betweenness comes from gonum's graph/network over all-pairs Dijkstra
// shortest paths (graph/path), the distance of an edge being 1/w (strong
// flux = short hop).
// A Schedule ranks edges by betweenness once, descending, and Prune(n)
// returns the matrix with the first n edges removed (both (i,j) and (j,i)
// entries zeroed).
//
// Complexity:
//
//   - Infectivity:     O(n²)
//   - EdgeBetweenness: O(V·(V+E)·log V) plus shortest-path enumeration
//   - Prune:           O(n² + step)
//
// Diagonal policy: WithZeroDiagonal clears diag(L) after the transform and
// WithBand(k) keeps only |i−j| ≤ k. Both are preprocessing choices of the
// matrix source; betweenness ignores the diagonal either way.
package network
