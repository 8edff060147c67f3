package ir

import "github.com/dshills/bjac/internal/graph"

// CFG adapts a *Function to graph.Traits so the generic DFS, dominator-tree,
// and loop-tree algorithms can walk its control-flow graph. Vertex handles
// are *BasicBlock pointers: identity is the block's address.
func CFG() graph.Traits[*Function, *BasicBlock] {
	return graph.Traits[*Function, *BasicBlock]{
		NVertices: func(f *Function) int { return f.Len() },
		Vertices: func(f *Function) []*BasicBlock {
			out := make([]*BasicBlock, 0, f.Len())
			f.Blocks(func(bb *BasicBlock) bool { out = append(out, bb); return true })
			return out
		},
		AdjacentVertices: func(_ *Function, v *BasicBlock) []*BasicBlock { return v.Successors() },
		Predecessors:     func(_ *Function, v *BasicBlock) []*BasicBlock { return v.Predecessors() },
		Source:           func(f *Function) *BasicBlock { return f.Front() },
	}
}
