// Package looptree constructs the nested natural-loop hierarchy of a flow
// graph: back-edge detection over a dominator tree, followed by a
// reverse-CFG DFS per back edge to build each loop's body.
package looptree

import (
	"github.com/dshills/bjac/internal/dominator"
	"github.com/dshills/bjac/internal/graph"
)

// Loop is one natural loop: a header vertex, its body (the header plus
// every vertex that reaches the latch without passing back through the
// header), and the loops nested directly inside it.
type Loop[V comparable] struct {
	header    V
	vertices  map[V]struct{}
	inner     map[V]*Loop[V]
	parent    *Loop[V]
	hasParent bool
}

// Header returns the loop's header vertex.
func (l *Loop[V]) Header() V { return l.header }

// ParentLoop returns the loop directly enclosing this one, if any.
func (l *Loop[V]) ParentLoop() (*Loop[V], bool) { return l.parent, l.hasParent }

// VerticesCount returns the number of vertices in the loop body.
func (l *Loop[V]) VerticesCount() int { return len(l.vertices) }

// Vertices returns the loop's body, header included, in unspecified order.
func (l *Loop[V]) Vertices() []V {
	out := make([]V, 0, len(l.vertices))
	for v := range l.vertices {
		out = append(out, v)
	}
	return out
}

// ContainsVertex reports whether v is in the loop body.
func (l *Loop[V]) ContainsVertex(v V) bool {
	_, ok := l.vertices[v]
	return ok
}

// InnerLoopsCount returns the number of loops nested directly inside this one.
func (l *Loop[V]) InnerLoopsCount() int { return len(l.inner) }

// InnerLoops returns the loops nested directly inside this one, in
// unspecified order.
func (l *Loop[V]) InnerLoops() []*Loop[V] {
	out := make([]*Loop[V], 0, len(l.inner))
	for _, inner := range l.inner {
		out = append(out, inner)
	}
	return out
}

// GetInnerLoop looks up a directly-nested loop by its header.
func (l *Loop[V]) GetInnerLoop(header V) (*Loop[V], bool) {
	inner, ok := l.inner[header]
	return inner, ok
}

// Tree is the top-level set of natural loops of one flow graph, keyed by
// header vertex.
type Tree[G any, V comparable] struct {
	headerToLoop map[V]*Loop[V]
}

type backEdge[V comparable] struct {
	latch, header V
}

// New computes the natural-loop tree of g. It runs one DFS and one
// dominator-tree computation from the entry, finds every back edge in DFS
// pre-order, and for each back edge runs a reverse-CFG DFS from the latch
// (seeded with the header as already-visited) to build that loop's body,
// nesting loops whose header was discovered inside a later, enclosing loop.
func New[G any, V comparable](t graph.Traits[G, V], g G) *Tree[G, V] {
	dfs := graph.New(t, g, t.Source(g), nil)
	domTree := dominator.New(t, g)
	reverse := graph.Reverse(t)

	tr := &Tree[G, V]{headerToLoop: make(map[V]*Loop[V])}

	for _, latch := range dfs.PreOrder() {
		for _, header := range backEdgeTargets(t, g, latch, domTree) {
			already := map[V]bool{header: true}
			body := graph.New(reverse, g, latch, already)

			loop := &Loop[V]{
				header:   header,
				vertices: map[V]struct{}{header: {}},
				inner:    make(map[V]*Loop[V]),
			}
			for _, v := range body.PostOrder() {
				loop.vertices[v] = struct{}{}
				if inner, ok := tr.headerToLoop[v]; ok {
					inner.parent, inner.hasParent = loop, true
					loop.inner[v] = inner
					delete(tr.headerToLoop, v)
				}
			}
			tr.headerToLoop[header] = loop
		}
	}

	return tr
}

// backEdgeTargets returns the headers of every back edge v -> u out of v,
// i.e. every successor u of v that dominates v.
func backEdgeTargets[G any, V comparable](t graph.Traits[G, V], g G, v V, domTree *dominator.Tree[G, V]) []V {
	var out []V
	for _, u := range t.AdjacentVertices(g, v) {
		if domTree.Dominates(u, v) {
			out = append(out, u)
		}
	}
	return out
}

// LoopsCount returns the number of top-level loops.
func (tr *Tree[G, V]) LoopsCount() int { return len(tr.headerToLoop) }

// Loops returns the top-level loops, in unspecified order.
func (tr *Tree[G, V]) Loops() []*Loop[V] {
	out := make([]*Loop[V], 0, len(tr.headerToLoop))
	for _, l := range tr.headerToLoop {
		out = append(out, l)
	}
	return out
}

// GetLoop looks up a top-level loop by its header.
func (tr *Tree[G, V]) GetLoop(header V) (*Loop[V], bool) {
	l, ok := tr.headerToLoop[header]
	return l, ok
}
