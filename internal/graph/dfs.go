package graph

import "iter"

// VertexInfo records the discovery/finish times and spanning-tree parent
// assigned to one vertex by a DFS traversal.
type VertexInfo[V comparable] struct {
	Vertex    V
	Discovery int
	Finished  int

	predecessor    V
	hasPredecessor bool
}

// Predecessor returns the vertex's parent in the DFS spanning tree, and
// whether it has one (the traversal source never does).
func (vi VertexInfo[V]) Predecessor() (V, bool) { return vi.predecessor, vi.hasPredecessor }

// DFS is an iterative, non-recursive depth-first traversal of a graph from
// a single source, producing discovery/finish times, pre-order, post-order,
// and a spanning tree recoverable via each vertex's predecessor link.
//
// Vertices named in alreadyVisited are treated as already discovered: they
// are excluded from the traversal (neither visited nor present in any
// output), which is how internal/looptree seeds a reverse-CFG search that
// must not cross the loop header.
type DFS[G any, V comparable] struct {
	source    V
	info      map[V]*VertexInfo[V]
	preOrder  []V
	postOrder []V
}

// New runs a DFS over g starting at source, using traits t to discover
// adjacency. Discovery marks each vertex visited when it is first pushed,
// guaranteeing each vertex appears at most once in PreOrder and PostOrder.
func New[G any, V comparable](t Traits[G, V], g G, source V, alreadyVisited map[V]bool) *DFS[G, V] {
	d := &DFS[G, V]{source: source, info: make(map[V]*VertexInfo[V])}

	if alreadyVisited[source] {
		return d
	}

	visited := make(map[V]bool, t.NVertices(g))
	for v := range alreadyVisited {
		visited[v] = true
	}

	type frame struct {
		v        V
		children []V
		idx      int
	}

	time := 0
	rootInfo := &VertexInfo[V]{Vertex: source}
	d.info[source] = rootInfo
	visited[source] = true
	time++
	rootInfo.Discovery = time
	d.preOrder = append(d.preOrder, source)

	stack := []*frame{{v: source, children: t.AdjacentVertices(g, source)}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.idx < len(top.children) {
			c := top.children[top.idx]
			top.idx++
			if visited[c] {
				continue
			}
			visited[c] = true
			time++
			cInfo := &VertexInfo[V]{Vertex: c, predecessor: top.v, hasPredecessor: true}
			d.info[c] = cInfo
			cInfo.Discovery = time
			d.preOrder = append(d.preOrder, c)
			stack = append(stack, &frame{v: c, children: t.AdjacentVertices(g, c)})
			continue
		}

		time++
		d.info[top.v].Finished = time
		d.postOrder = append(d.postOrder, top.v)
		stack = stack[:len(stack)-1]
	}

	return d
}

// Size returns the number of vertices discovered by the traversal.
func (d *DFS[G, V]) Size() int { return len(d.preOrder) }

// Contains reports whether v was visited.
func (d *DFS[G, V]) Contains(v V) bool {
	_, ok := d.info[v]
	return ok
}

// Info returns the recorded VertexInfo for v; ok is false if v was not
// visited.
func (d *DFS[G, V]) Info(v V) (VertexInfo[V], bool) {
	i, ok := d.info[v]
	if !ok {
		return VertexInfo[V]{}, false
	}
	return *i, true
}

// PreOrder returns visited vertices in discovery order.
func (d *DFS[G, V]) PreOrder() []V { return d.preOrder }

// PostOrder returns visited vertices in finish order.
func (d *DFS[G, V]) PostOrder() []V { return d.postOrder }

// SearchOrder returns visited vertices in the order the Lengauer-Tarjan
// algorithm processes them against: discovery order, i.e. the same sequence
// as PreOrder.
func (d *DFS[G, V]) SearchOrder() []V { return d.preOrder }

// IsAncestorOf reports whether v is an ancestor of u in the DFS spanning
// tree: the standard parenthesized-interval test, true when v's discovery
// is at or before u's and v's finish is at or after u's. A visited vertex
// counts as its own ancestor.
func (d *DFS[G, V]) IsAncestorOf(v, u V) bool {
	vi, ok := d.info[v]
	if !ok {
		return false
	}
	ui, ok := d.info[u]
	if !ok {
		return false
	}
	return vi.Discovery <= ui.Discovery && ui.Finished <= vi.Finished
}

// AncestorsUntil iterates v, then v's spanning-tree parent, then its
// parent's parent, and so on, stopping before yielding stop. If the chain
// reaches the traversal source before meeting stop, the source is yielded
// and iteration ends there (the source has no parent).
func (d *DFS[G, V]) AncestorsUntil(v, stop V) iter.Seq[V] {
	return func(yield func(V) bool) {
		cur := v
		for {
			if cur == stop {
				return
			}
			if !yield(cur) {
				return
			}
			info, ok := d.info[cur]
			if !ok || !info.hasPredecessor {
				return
			}
			cur = info.predecessor
		}
	}
}
