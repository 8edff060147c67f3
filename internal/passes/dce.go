package passes

import (
	"github.com/dshills/bjac/internal/graph"
	"github.com/dshills/bjac/internal/ir"
)

// DCE removes dead code in two phases: first every block
// unreachable from the entry, then every remaining instruction whose
// result type is neither Void nor None and whose use-list is empty, iterated to a
// fixpoint (removing one dead def can make its operands dead in turn).
func DCE(f *ir.Function) {
	removeUnreachableBlocks(f)
	removeUnusedDefs(f)
}

func removeUnreachableBlocks(f *ir.Function) {
	entry := f.Front()
	if entry == nil {
		return
	}
	dfs := graph.New(ir.CFG(), f, entry, nil)

	f.BlockPositions(func(pos ir.BlockPos) bool {
		if !dfs.Contains(pos.Value) {
			f.Erase(pos)
		}
		return true
	})
}

// removeUnusedDefs removes every instruction with an unused result whose
// type is neither Void nor None, iterating to a fixpoint: erasing a dead def retracts its
// use-list edges on its own operands, which can make those operands dead
// in turn.
func removeUnusedDefs(f *ir.Function) {
	for {
		removedAny := false
		f.Blocks(func(bb *ir.BasicBlock) bool {
			bb.Positions(func(pos ir.Pos) bool {
				instr := pos.Value
				if instr.Type() != ir.TypeVoid && instr.Type() != ir.TypeNone && instr.UsersCount() == 0 {
					bb.Erase(pos)
					removedAny = true
				}
				return true
			})
			return true
		})
		if !removedAny {
			return
		}
	}
}
