package looptree_test

import (
	"testing"

	"github.com/dshills/bjac/internal/ir"
	"github.com/dshills/bjac/internal/looptree"
)

// blockMap builds len(names) blocks and returns them keyed by name,
// mirroring the fixtures in test/graphs/src/loop_tree.cpp.
func blockMap(f *ir.Function, names ...string) map[string]*ir.BasicBlock {
	m := make(map[string]*ir.BasicBlock, len(names))
	for _, n := range names {
		m[n] = f.PushBlock()
	}
	return m
}

func mustBranch(t *testing.T, from, to *ir.BasicBlock) {
	t.Helper()
	if _, err := from.EmplaceBranch(nil, to); err != nil {
		t.Fatal(err)
	}
}

func mustCondBranch(t *testing.T, from *ir.BasicBlock, cond ir.Instruction, trueTarget, falseTarget *ir.BasicBlock) {
	t.Helper()
	if _, err := from.EmplaceCondBranch(nil, cond, trueTarget, falseTarget); err != nil {
		t.Fatal(err)
	}
}

func wantVertices(t *testing.T, l *looptree.Loop[*ir.BasicBlock], bb map[string]*ir.BasicBlock, names ...string) {
	t.Helper()
	if l.VerticesCount() != len(names) {
		t.Errorf("vertices count = %d, want %d", l.VerticesCount(), len(names))
	}
	for _, n := range names {
		if !l.ContainsVertex(bb[n]) {
			t.Errorf("loop headed %v missing vertex %s", l.Header(), n)
		}
	}
}

// TestSingleLoopWithTail is Mandatory_1: a single loop B-D-E with a tail
// edge B->C out of the loop.
func TestSingleLoopWithTail(t *testing.T) {
	f := ir.New("foo", ir.TypeVoid, nil)
	bb := blockMap(f, "A", "B", "C", "D", "E")
	cond, err := bb["A"].EmplaceConst(nil, ir.TypeI1, 0)
	if err != nil {
		t.Fatal(err)
	}
	mustBranch(t, bb["A"], bb["B"])
	mustCondBranch(t, bb["B"], cond, bb["C"], bb["D"])
	mustBranch(t, bb["D"], bb["E"])
	mustBranch(t, bb["E"], bb["B"])

	tree := looptree.New(ir.CFG(), f)
	if tree.LoopsCount() != 1 {
		t.Fatalf("loops count = %d, want 1", tree.LoopsCount())
	}
	loop, ok := tree.GetLoop(bb["B"])
	if !ok {
		t.Fatal("expected a loop headed by B")
	}
	if loop.InnerLoopsCount() != 0 {
		t.Errorf("inner loops count = %d, want 0", loop.InnerLoopsCount())
	}
	if _, ok := loop.ParentLoop(); ok {
		t.Error("top-level loop should have no parent")
	}
	wantVertices(t, loop, bb, "B", "D", "E")
}

// TestSingleLoopWithDiamondLatch is Mandatory_2: loop B-C-D-E with a single
// latch E branching back to B, and exits from both C and D to a shared tail
// target F outside it.
func TestSingleLoopWithDiamondLatch(t *testing.T) {
	f := ir.New("foo", ir.TypeVoid, nil)
	bb := blockMap(f, "A", "B", "C", "D", "E", "F")
	cond, err := bb["A"].EmplaceConst(nil, ir.TypeI1, 0)
	if err != nil {
		t.Fatal(err)
	}
	mustBranch(t, bb["A"], bb["B"])
	mustBranch(t, bb["B"], bb["C"])
	mustCondBranch(t, bb["C"], cond, bb["F"], bb["D"])
	mustCondBranch(t, bb["D"], cond, bb["F"], bb["E"])
	mustBranch(t, bb["E"], bb["B"])

	tree := looptree.New(ir.CFG(), f)
	if tree.LoopsCount() != 1 {
		t.Fatalf("loops count = %d, want 1", tree.LoopsCount())
	}
	loop, ok := tree.GetLoop(bb["B"])
	if !ok {
		t.Fatal("expected a loop headed by B")
	}
	if loop.InnerLoopsCount() != 0 {
		t.Errorf("inner loops count = %d, want 0", loop.InnerLoopsCount())
	}
	wantVertices(t, loop, bb, "B", "C", "D", "E")
}

// TestNestedLoops is Mandatory_3: an outer loop headed A containing an
// inner loop headed B.
func TestNestedLoops(t *testing.T) {
	f := ir.New("foo", ir.TypeVoid, nil)
	bb := blockMap(f, "A", "B", "C", "D", "E", "F", "G", "H")
	cond, err := bb["A"].EmplaceConst(nil, ir.TypeI1, 0)
	if err != nil {
		t.Fatal(err)
	}
	mustBranch(t, bb["A"], bb["B"])
	mustCondBranch(t, bb["B"], cond, bb["C"], bb["D"])
	mustCondBranch(t, bb["C"], cond, bb["E"], bb["F"])
	mustBranch(t, bb["D"], bb["F"])
	mustBranch(t, bb["F"], bb["G"])
	mustCondBranch(t, bb["G"], cond, bb["H"], bb["B"])
	mustBranch(t, bb["H"], bb["A"])

	tree := looptree.New(ir.CFG(), f)
	if tree.LoopsCount() != 1 {
		t.Fatalf("loops count = %d, want 1", tree.LoopsCount())
	}

	aLoop, ok := tree.GetLoop(bb["A"])
	if !ok {
		t.Fatal("expected a loop headed by A")
	}
	if aLoop.InnerLoopsCount() != 1 {
		t.Errorf("A's inner loops count = %d, want 1", aLoop.InnerLoopsCount())
	}
	wantVertices(t, aLoop, bb, "A", "B", "C", "D", "F", "G", "H")

	bLoop, ok := aLoop.GetInnerLoop(bb["B"])
	if !ok {
		t.Fatal("expected A to have an inner loop headed by B")
	}
	if bLoop.InnerLoopsCount() != 0 {
		t.Errorf("B's inner loops count = %d, want 0", bLoop.InnerLoopsCount())
	}
	parent, ok := bLoop.ParentLoop()
	if !ok || parent != aLoop {
		t.Error("B's parent loop should be A's loop")
	}
	wantVertices(t, bLoop, bb, "B", "C", "D", "F", "G")
}

// TestNoLoop is Mandatory_4: an acyclic CFG with a diamond merge, no back
// edges anywhere.
func TestNoLoop(t *testing.T) {
	f := ir.New("foo", ir.TypeVoid, nil)
	bb := blockMap(f, "A", "B", "C", "D", "E", "F", "G")
	cond, err := bb["A"].EmplaceConst(nil, ir.TypeI1, 0)
	if err != nil {
		t.Fatal(err)
	}
	mustBranch(t, bb["A"], bb["B"])
	mustCondBranch(t, bb["B"], cond, bb["C"], bb["F"])
	mustBranch(t, bb["C"], bb["D"])
	mustBranch(t, bb["E"], bb["D"])
	mustCondBranch(t, bb["F"], cond, bb["E"], bb["G"])
	mustBranch(t, bb["G"], bb["D"])

	tree := looptree.New(ir.CFG(), f)
	if tree.LoopsCount() != 0 {
		t.Fatalf("loops count = %d, want 0", tree.LoopsCount())
	}
}

// TestLoopWithTwoInnerLoops is Mandatory_5: outer loop headed B with two
// sibling inner loops headed C and E.
func TestLoopWithTwoInnerLoops(t *testing.T) {
	f := ir.New("foo", ir.TypeVoid, nil)
	bb := blockMap(f, "A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K")
	cond, err := bb["A"].EmplaceConst(nil, ir.TypeI1, 0)
	if err != nil {
		t.Fatal(err)
	}
	mustBranch(t, bb["A"], bb["B"])
	mustCondBranch(t, bb["B"], cond, bb["C"], bb["J"])
	mustBranch(t, bb["C"], bb["D"])
	mustCondBranch(t, bb["D"], cond, bb["C"], bb["E"])
	mustBranch(t, bb["E"], bb["F"])
	mustCondBranch(t, bb["F"], cond, bb["E"], bb["G"])
	mustCondBranch(t, bb["G"], cond, bb["H"], bb["I"])
	mustBranch(t, bb["H"], bb["B"])
	mustBranch(t, bb["I"], bb["K"])
	mustBranch(t, bb["J"], bb["C"])

	tree := looptree.New(ir.CFG(), f)
	if tree.LoopsCount() != 1 {
		t.Fatalf("loops count = %d, want 1", tree.LoopsCount())
	}

	bLoop, ok := tree.GetLoop(bb["B"])
	if !ok {
		t.Fatal("expected a loop headed by B")
	}
	if bLoop.InnerLoopsCount() != 2 {
		t.Errorf("B's inner loops count = %d, want 2", bLoop.InnerLoopsCount())
	}
	wantVertices(t, bLoop, bb, "B", "C", "D", "E", "F", "G", "H", "J")

	cLoop, ok := bLoop.GetInnerLoop(bb["C"])
	if !ok {
		t.Fatal("expected B to have an inner loop headed by C")
	}
	wantVertices(t, cLoop, bb, "C", "D")
	if parent, ok := cLoop.ParentLoop(); !ok || parent != bLoop {
		t.Error("C's parent loop should be B's loop")
	}

	eLoop, ok := bLoop.GetInnerLoop(bb["E"])
	if !ok {
		t.Fatal("expected B to have an inner loop headed by E")
	}
	wantVertices(t, eLoop, bb, "E", "F")
	if parent, ok := eLoop.ParentLoop(); !ok || parent != bLoop {
		t.Error("E's parent loop should be B's loop")
	}
}

// TestIrreducibleShapedCFGYieldsSingleLoop is Mandatory_6: B and E form
// overlapping cycles, but only one natural loop (headed B, body {B,E,F})
// is reported; the C->G->C path never nests since C does not dominate G.
func TestIrreducibleShapedCFGYieldsSingleLoop(t *testing.T) {
	f := ir.New("foo", ir.TypeVoid, nil)
	bb := blockMap(f, "A", "B", "C", "D", "E", "F", "G", "H", "I")
	cond, err := bb["A"].EmplaceConst(nil, ir.TypeI1, 0)
	if err != nil {
		t.Fatal(err)
	}
	mustBranch(t, bb["A"], bb["B"])
	mustCondBranch(t, bb["B"], cond, bb["E"], bb["C"])
	mustBranch(t, bb["C"], bb["D"])
	mustBranch(t, bb["D"], bb["G"])
	mustCondBranch(t, bb["E"], cond, bb["F"], bb["D"])
	mustCondBranch(t, bb["F"], cond, bb["B"], bb["H"])
	mustCondBranch(t, bb["G"], cond, bb["C"], bb["I"])
	mustCondBranch(t, bb["H"], cond, bb["G"], bb["I"])

	tree := looptree.New(ir.CFG(), f)
	if tree.LoopsCount() != 1 {
		t.Fatalf("loops count = %d, want 1", tree.LoopsCount())
	}

	loop, ok := tree.GetLoop(bb["B"])
	if !ok {
		t.Fatal("expected a loop headed by B")
	}
	if loop.InnerLoopsCount() != 0 {
		t.Errorf("inner loops count = %d, want 0", loop.InnerLoopsCount())
	}
	wantVertices(t, loop, bb, "B", "E", "F")
}
