// Package dominator computes immediate dominators with the Lengauer-Tarjan
// algorithm: semidominators first, then immediate dominators in two
// further passes over the DFS search order.
package dominator

import "github.com/dshills/bjac/internal/graph"

type sdomEntry[V comparable] struct {
	vertex V
	time   int
}

// Tree is an immediate-dominator map computed for one flow graph. The
// source vertex has no entry: it is dominated by nothing.
type Tree[G any, V comparable] struct {
	idom map[V]V
}

// New computes the dominator tree of g using traits t, whose Source(g) is
// the entry vertex.
func New[G any, V comparable](t graph.Traits[G, V], g G) *Tree[G, V] {
	source := t.Source(g)
	dfs := graph.New(t, g, source, nil)
	sdom := computeSemidominators(t, g, dfs)
	idom := computeIdoms(dfs, sdom)
	return &Tree[G, V]{idom: idom}
}

func computeSemidominators[G any, V comparable](t graph.Traits[G, V], g G, dfs *graph.DFS[G, V]) map[V]sdomEntry[V] {
	order := dfs.SearchOrder()
	vToSdom := make(map[V]sdomEntry[V], len(order))
	visited := make([]V, 0, len(order))

	best := func(candidates []V) (V, int) {
		var bv V
		bt := -1
		found := false
		for _, c := range candidates {
			ci, _ := dfs.Info(c)
			if !found || ci.Discovery < bt {
				bv, bt, found = c, ci.Discovery, true
			}
		}
		return bv, bt
	}

	for i := len(order) - 1; i >= 1; i-- {
		w := order[i]
		wInfo, _ := dfs.Info(w)
		preds := t.Predecessors(g, w)

		var candidates1 []V
		for _, v := range preds {
			vi, ok := dfs.Info(v)
			if ok && vi.Discovery < wInfo.Discovery {
				candidates1 = append(candidates1, v)
			}
		}

		var candidates2 []V
		for _, u := range visited {
			for _, v := range preds {
				if dfs.IsAncestorOf(u, v) {
					candidates2 = append(candidates2, vToSdom[u].vertex)
					break
				}
			}
		}

		v1, t1 := best(candidates1)
		v2, t2 := best(candidates2)

		var sv V
		var st int
		switch {
		case len(candidates1) == 0:
			sv, st = v2, t2
		case len(candidates2) == 0:
			sv, st = v1, t1
		case t1 <= t2:
			sv, st = v1, t1
		default:
			sv, st = v2, t2
		}

		vToSdom[w] = sdomEntry[V]{vertex: sv, time: st}
		visited = append(visited, w)
	}

	return vToSdom
}

func computeIdoms[G any, V comparable](dfs *graph.DFS[G, V], sdom map[V]sdomEntry[V]) map[V]V {
	order := dfs.SearchOrder()
	idom := make(map[V]V, len(order))

	for i := len(order) - 1; i >= 1; i-- {
		w := order[i]
		sdomW := sdom[w].vertex

		var u V
		bestTime := -1
		found := false
		for cand := range dfs.AncestorsUntil(w, sdomW) {
			ct := sdom[cand].time
			if !found || ct < bestTime {
				u, bestTime, found = cand, ct, true
			}
		}

		if sdom[u].vertex == sdomW {
			idom[w] = sdomW
		} else {
			idom[w] = u
		}
	}

	for i := 1; i < len(order); i++ {
		w := order[i]
		if iw := idom[w]; iw != sdom[w].vertex {
			idom[w] = idom[iw]
		}
	}

	return idom
}

// Contains reports whether v has a recorded immediate dominator (false for
// the entry vertex and for any vertex outside the graph this tree was built
// from).
func (tr *Tree[G, V]) Contains(v V) bool {
	_, ok := tr.idom[v]
	return ok
}

// Idom returns v's immediate dominator, if any.
func (tr *Tree[G, V]) Idom(v V) (V, bool) {
	u, ok := tr.idom[v]
	return u, ok
}

// Dominates reports whether dominator dominates v, reflexively: every
// vertex dominates itself.
func (tr *Tree[G, V]) Dominates(dominator, v V) bool {
	if dominator == v {
		return true
	}
	cur := v
	for {
		p, ok := tr.idom[cur]
		if !ok {
			return false
		}
		if p == dominator {
			return true
		}
		cur = p
	}
}

// All iterates every (vertex, immediate dominator) pair. The entry vertex
// is never yielded.
func (tr *Tree[G, V]) All(yield func(v, idom V) bool) {
	for v, idom := range tr.idom {
		if !yield(v, idom) {
			return
		}
	}
}
