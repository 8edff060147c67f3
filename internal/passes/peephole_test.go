package passes_test

import (
	"testing"

	"github.com/dshills/bjac/internal/ir"
	"github.com/dshills/bjac/internal/passes"
)

func buildArgBinOpFunction(t *testing.T, op ir.Opcode, argOnLeft bool, constVal uint64) (*ir.Function, *ir.BasicBlock, *ir.ArgInstruction) {
	t.Helper()
	f := ir.New("foo", ir.TypeI64, []ir.Type{ir.TypeI64})
	bb := f.PushBlock()
	arg, err := bb.EmplaceArg(nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	c, err := bb.EmplaceConst(nil, ir.TypeI64, constVal)
	if err != nil {
		t.Fatal(err)
	}
	var bin *ir.BinOpInstruction
	if argOnLeft {
		bin, err = bb.EmplaceBinOp(nil, op, arg, c)
	} else {
		bin, err = bb.EmplaceBinOp(nil, op, c, arg)
	}
	if err != nil {
		t.Fatal(err)
	}
	if _, err := bb.EmplaceReturnValue(nil, bin); err != nil {
		t.Fatal(err)
	}
	return f, bb, arg
}

// TestPeepholeAndWithZero checks that "arg AND 0" -> Return consumes 0
// directly and the And is erased.
func TestPeepholeAndWithZero(t *testing.T) {
	for _, argOnLeft := range []bool{true, false} {
		f, bb, arg := buildArgBinOpFunction(t, ir.OpAnd, argOnLeft, 0)
		passes.Peephole(f)

		if f.Len() != 1 {
			t.Fatalf("function has %d blocks, want 1: %s", f.Len(), f.String())
		}
		if bb.Len() != 3 {
			t.Fatalf("block has %d instructions, want 3: %s", bb.Len(), f.String())
		}
		if nth(t, bb, 0) != ir.Instruction(arg) {
			t.Error("arg should survive unchanged")
		}
		zero := nth(t, bb, 1).(*ir.ConstInstruction)
		if !zero.IsZero() {
			t.Errorf("expected the zero constant to survive, got %d", zero.Value())
		}
		if zero.UsersCount() != 1 || !zero.HasUser(nth(t, bb, 2)) {
			t.Error("zero constant should be used directly by the return")
		}
		ret := nth(t, bb, 2).(*ir.ReturnInstruction)
		if ret.Value() != ir.Instruction(zero) {
			t.Error("return should consume the zero constant directly")
		}
		if arg.UsersCount() != 0 {
			t.Errorf("arg should have no users left, got %d", arg.UsersCount())
		}
	}
}

// TestPeepholeAndWithAllOnes mirrors scenario 6 symmetrically: "arg AND
// allOnes" rewrites Return to consume arg.
func TestPeepholeAndWithAllOnes(t *testing.T) {
	for _, argOnLeft := range []bool{true, false} {
		f, bb, arg := buildArgBinOpFunction(t, ir.OpAnd, argOnLeft, ir.TypeI64.MaxValue())
		passes.Peephole(f)

		if bb.Len() != 3 {
			t.Fatalf("block has %d instructions, want 3: %s", bb.Len(), f.String())
		}
		ret := nth(t, bb, 2).(*ir.ReturnInstruction)
		if ret.Value() != ir.Instruction(arg) {
			t.Error("return should consume arg directly")
		}
	}
}

func TestPeepholeAndSameOperand(t *testing.T) {
	f := ir.New("foo", ir.TypeI64, []ir.Type{ir.TypeI64})
	bb := f.PushBlock()
	arg, err := bb.EmplaceArg(nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	bin, err := bb.EmplaceBinOp(nil, ir.OpAnd, arg, arg)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := bb.EmplaceReturnValue(nil, bin); err != nil {
		t.Fatal(err)
	}

	passes.Peephole(f)

	if bb.Len() != 2 {
		t.Fatalf("block has %d instructions, want 2: %s", bb.Len(), f.String())
	}
	ret := nth(t, bb, 1).(*ir.ReturnInstruction)
	if ret.Value() != ir.Instruction(arg) {
		t.Error("x AND x should reduce to x")
	}
}

func TestPeepholeOrWithZero(t *testing.T) {
	f, bb, arg := buildArgBinOpFunction(t, ir.OpOr, true, 0)
	passes.Peephole(f)
	ret := nth(t, bb, bb.Len()-1).(*ir.ReturnInstruction)
	if ret.Value() != ir.Instruction(arg) {
		t.Errorf("x OR 0 should reduce to x: %s", f.String())
	}
}

func TestPeepholeOrWithAllOnes(t *testing.T) {
	f, bb, _ := buildArgBinOpFunction(t, ir.OpOr, true, ir.TypeI64.MaxValue())
	passes.Peephole(f)
	ret := nth(t, bb, bb.Len()-1).(*ir.ReturnInstruction)
	c, ok := ret.Value().(*ir.ConstInstruction)
	if !ok || !c.IsAllOnes() {
		t.Errorf("x OR allOnes should reduce to allOnes: %s", f.String())
	}
}

func TestPeepholeXorWithZero(t *testing.T) {
	f, bb, arg := buildArgBinOpFunction(t, ir.OpXor, true, 0)
	passes.Peephole(f)
	ret := nth(t, bb, bb.Len()-1).(*ir.ReturnInstruction)
	if ret.Value() != ir.Instruction(arg) {
		t.Errorf("x XOR 0 should reduce to x: %s", f.String())
	}
}

func TestPeepholeXorSameOperand(t *testing.T) {
	f := ir.New("foo", ir.TypeI64, []ir.Type{ir.TypeI64})
	bb := f.PushBlock()
	arg, err := bb.EmplaceArg(nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	bin, err := bb.EmplaceBinOp(nil, ir.OpXor, arg, arg)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := bb.EmplaceReturnValue(nil, bin); err != nil {
		t.Fatal(err)
	}

	passes.Peephole(f)

	ret := nth(t, bb, bb.Len()-1).(*ir.ReturnInstruction)
	c, ok := ret.Value().(*ir.ConstInstruction)
	if !ok || !c.IsZero() {
		t.Errorf("x XOR x should reduce to a fresh zero constant: %s", f.String())
	}
}

func TestPeepholeAddWithZero(t *testing.T) {
	f, bb, arg := buildArgBinOpFunction(t, ir.OpAdd, true, 0)
	passes.Peephole(f)
	ret := nth(t, bb, bb.Len()-1).(*ir.ReturnInstruction)
	if ret.Value() != ir.Instruction(arg) {
		t.Errorf("x + 0 should reduce to x: %s", f.String())
	}
}

// TestPeepholeAddNegatedOperand covers "(0 - w) + other -> other - w".
func TestPeepholeAddNegatedOperand(t *testing.T) {
	f := ir.New("foo", ir.TypeI64, []ir.Type{ir.TypeI64})
	bb := f.PushBlock()
	arg, err := bb.EmplaceArg(nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	w, err := bb.EmplaceConst(nil, ir.TypeI64, 7)
	if err != nil {
		t.Fatal(err)
	}
	zero, err := bb.EmplaceConst(nil, ir.TypeI64, 0)
	if err != nil {
		t.Fatal(err)
	}
	negated, err := bb.EmplaceBinOp(nil, ir.OpSub, zero, w)
	if err != nil {
		t.Fatal(err)
	}
	add, err := bb.EmplaceBinOp(nil, ir.OpAdd, negated, arg)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := bb.EmplaceReturnValue(nil, add); err != nil {
		t.Fatal(err)
	}

	passes.Peephole(f)

	ret := nth(t, bb, bb.Len()-1).(*ir.ReturnInstruction)
	sub, ok := ret.Value().(*ir.BinOpInstruction)
	if !ok || sub.Opcode() != ir.OpSub {
		t.Fatalf("(0-w)+arg should rewrite to a Sub: %s", f.String())
	}
	if sub.LHS() != ir.Instruction(arg) || sub.RHS() != ir.Instruction(w) {
		t.Errorf("expected sub to be arg - w, got %s: %s", sub, f.String())
	}
}

func TestPeepholeShrLByZero(t *testing.T) {
	f, bb, arg := buildArgBinOpFunction(t, ir.OpShrL, true, 0)
	passes.Peephole(f)
	ret := nth(t, bb, bb.Len()-1).(*ir.ReturnInstruction)
	if ret.Value() != ir.Instruction(arg) {
		t.Errorf("x >> 0 should reduce to x: %s", f.String())
	}
}

func TestPeepholeShrLOfZero(t *testing.T) {
	f, bb, _ := buildArgBinOpFunction(t, ir.OpShrL, false, 0)
	// buildArgBinOpFunction with argOnLeft=false builds (const, arg): here we
	// want (0, arg) i.e. 0 >> arg, so the const 0 is the shifted value.
	passes.Peephole(f)
	ret := nth(t, bb, bb.Len()-1).(*ir.ReturnInstruction)
	c, ok := ret.Value().(*ir.ConstInstruction)
	if !ok || !c.IsZero() {
		t.Errorf("0 >> x should reduce to 0: %s", f.String())
	}
}

// TestPeepholeAndChainMerge covers the "k1 AND (k2 AND v)" constant
// chain-merge: k1 AND k2 are combined and the instruction is rewritten to
// operate directly on v.
func TestPeepholeAndChainMerge(t *testing.T) {
	f := ir.New("foo", ir.TypeI64, []ir.Type{ir.TypeI64})
	bb := f.PushBlock()
	v, err := bb.EmplaceArg(nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	k2, err := bb.EmplaceConst(nil, ir.TypeI64, 0xff)
	if err != nil {
		t.Fatal(err)
	}
	inner, err := bb.EmplaceBinOp(nil, ir.OpAnd, k2, v)
	if err != nil {
		t.Fatal(err)
	}
	k1, err := bb.EmplaceConst(nil, ir.TypeI64, 0x0f)
	if err != nil {
		t.Fatal(err)
	}
	outer, err := bb.EmplaceBinOp(nil, ir.OpAnd, k1, inner)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := bb.EmplaceReturnValue(nil, outer); err != nil {
		t.Fatal(err)
	}

	passes.Peephole(f)

	if outer.LHS() != ir.Instruction(v) {
		t.Errorf("expected merged AND's lhs to be v, got %s", outer.LHS())
	}
	rhs, ok := outer.RHS().(*ir.ConstInstruction)
	if !ok || rhs.Value() != 0x0f {
		t.Errorf("expected merged constant 0x0f & 0xff = 0x0f, got %v", outer.RHS())
	}
}

// TestPeepholeIsIdempotentAfterConstantFold checks that running the pass
// twice after constant folding produces byte-identical output.
func TestPeepholeIsIdempotentAfterConstantFold(t *testing.T) {
	f, _, _ := buildArgBinOpFunction(t, ir.OpAnd, true, 0)
	passes.ConstantFold(f)
	passes.Peephole(f)
	once := f.String()
	passes.Peephole(f)
	twice := f.String()
	if once != twice {
		t.Errorf("peephole is not idempotent after constant folding:\nonce:  %s\ntwice: %s", once, twice)
	}
}
