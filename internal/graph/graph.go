// Package graph adapts arbitrary flow-graph-shaped values to a uniform
// vertex/successor/predecessor interface and implements the generic,
// iterative depth-first search every analysis in this module is built on.
package graph

// Traits adapts a graph value of type G, with vertex handles of type V, to
// the uniform interface the algorithms in this module need. A *BasicBlock
// pointer is the vertex handle for a *ir.Function's CFG; Reverse swaps the
// adjacency direction so the same DFS/dominator/loop-tree machinery can walk
// the reversed graph without duplicating any of it.
type Traits[G any, V comparable] struct {
	NVertices        func(g G) int
	Vertices         func(g G) []V
	AdjacentVertices func(g G, v V) []V
	Predecessors     func(g G, v V) []V
	Source           func(g G) V
}

// Reverse returns traits for the same graph with successors and
// predecessors swapped. Source is reused unchanged, matching
// original_source's ReverseGraphTraits: a reversed view of the same graph,
// not a separately materialized structure.
func Reverse[G any, V comparable](t Traits[G, V]) Traits[G, V] {
	return Traits[G, V]{
		NVertices:        t.NVertices,
		Vertices:         t.Vertices,
		AdjacentVertices: t.Predecessors,
		Predecessors:     t.AdjacentVertices,
		Source:           t.Source,
	}
}
