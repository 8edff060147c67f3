// Package passes implements the rewriting passes built on top of the IR and
// its graph analyses: constant folding, peephole simplification, and
// dead-code elimination.
package passes

import (
	"github.com/dshills/bjac/internal/graph"
	"github.com/dshills/bjac/internal/ir"
)

// reversePostOrder walks f's CFG from the entry block and returns its
// blocks in reverse post-order: a topological order that visits each block
// after every non-back-edge predecessor, as used by ConstantFold and
// Peephole.
func reversePostOrder(f *ir.Function) []*ir.BasicBlock {
	entry := f.Front()
	if entry == nil {
		return nil
	}
	dfs := graph.New(ir.CFG(), f, entry, nil)
	post := dfs.PostOrder()
	out := make([]*ir.BasicBlock, len(post))
	for i, bb := range post {
		out[len(post)-1-i] = bb
	}
	return out
}
