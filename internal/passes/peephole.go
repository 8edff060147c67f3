package passes

import "github.com/dshills/bjac/internal/ir"

// Peephole walks f's blocks in reverse post-order and, within each block,
// dispatches each instruction on its opcode for the algebraic
// absorbing/identity-element simplifications for And/Or/Xor/Add,
// shift-by-zero and shift-of-zero for ShrL, the (0-w)+other -> other-w
// rewrite for Add, and constant chain-merging for And/Or/Xor. Every
// successful rewrite either replaces the instruction outright (redirecting
// its users) or mutates its operands in place; iteration then continues to
// the instruction's successor.
func Peephole(f *ir.Function) {
	for _, bb := range reversePostOrder(f) {
		bb.Positions(func(pos ir.Pos) bool {
			bin, ok := pos.Value.(*ir.BinOpInstruction)
			if !ok {
				return true
			}
			switch bin.Opcode() {
			case ir.OpAnd:
				peepholeAnd(bb, pos, bin)
			case ir.OpOr:
				peepholeOr(bb, pos, bin)
			case ir.OpXor:
				peepholeXor(bb, pos, bin)
			case ir.OpAdd:
				peepholeAdd(bb, pos, bin)
			case ir.OpShrL:
				peepholeShrL(bb, pos, bin)
			}
			return true
		})
	}
}

func asConst(i ir.Instruction) (*ir.ConstInstruction, bool) {
	c, ok := i.(*ir.ConstInstruction)
	return c, ok
}

func peepholeAnd(bb *ir.BasicBlock, pos ir.Pos, bin *ir.BinOpInstruction) {
	lhs, rhs := bin.LHS(), bin.RHS()
	if lc, ok := asConst(lhs); ok && lc.IsZero() {
		bb.ReplaceInstruction(pos, lc)
		return
	}
	if rc, ok := asConst(rhs); ok && rc.IsZero() {
		bb.ReplaceInstruction(pos, rc)
		return
	}
	if lc, ok := asConst(lhs); ok && lc.IsAllOnes() {
		bb.ReplaceInstruction(pos, rhs)
		return
	}
	if rc, ok := asConst(rhs); ok && rc.IsAllOnes() {
		bb.ReplaceInstruction(pos, lhs)
		return
	}
	if lhs == rhs {
		bb.ReplaceInstruction(pos, lhs)
		return
	}
	mergeConstChain(bb, pos, bin, ir.OpAnd, func(a, b uint64) uint64 { return a & b })
}

func peepholeOr(bb *ir.BasicBlock, pos ir.Pos, bin *ir.BinOpInstruction) {
	lhs, rhs := bin.LHS(), bin.RHS()
	if lc, ok := asConst(lhs); ok && lc.IsZero() {
		bb.ReplaceInstruction(pos, rhs)
		return
	}
	if rc, ok := asConst(rhs); ok && rc.IsZero() {
		bb.ReplaceInstruction(pos, lhs)
		return
	}
	if lc, ok := asConst(lhs); ok && lc.IsAllOnes() {
		bb.ReplaceInstruction(pos, lc)
		return
	}
	if rc, ok := asConst(rhs); ok && rc.IsAllOnes() {
		bb.ReplaceInstruction(pos, rc)
		return
	}
	if lhs == rhs {
		bb.ReplaceInstruction(pos, lhs)
		return
	}
	mergeConstChain(bb, pos, bin, ir.OpOr, func(a, b uint64) uint64 { return a | b })
}

func peepholeXor(bb *ir.BasicBlock, pos ir.Pos, bin *ir.BinOpInstruction) {
	lhs, rhs := bin.LHS(), bin.RHS()
	if lc, ok := asConst(lhs); ok && lc.IsZero() {
		bb.ReplaceInstruction(pos, rhs)
		return
	}
	if rc, ok := asConst(rhs); ok && rc.IsZero() {
		bb.ReplaceInstruction(pos, lhs)
		return
	}
	if lhs == rhs {
		zero, _ := bb.EmplaceConst(pos, bin.Type(), 0)
		bb.ReplaceInstruction(pos, zero)
		return
	}
	// One C++ revision this is ported from dispatched XOR chain-merging
	// through the OR merge kind by mistake; treated as a bug and fixed to
	// merge against XOR here.
	mergeConstChain(bb, pos, bin, ir.OpXor, func(a, b uint64) uint64 { return a ^ b })
}

func peepholeAdd(bb *ir.BasicBlock, pos ir.Pos, bin *ir.BinOpInstruction) {
	lhs, rhs := bin.LHS(), bin.RHS()
	if lc, ok := asConst(lhs); ok && lc.IsZero() {
		bb.ReplaceInstruction(pos, rhs)
		return
	}
	if rc, ok := asConst(rhs); ok && rc.IsZero() {
		bb.ReplaceInstruction(pos, lhs)
		return
	}
	if w, ok := negatedOperand(lhs); ok {
		newSub, _ := bb.EmplaceBinOp(pos, ir.OpSub, rhs, w)
		bb.ReplaceInstruction(pos, newSub)
		return
	}
	if w, ok := negatedOperand(rhs); ok {
		newSub, _ := bb.EmplaceBinOp(pos, ir.OpSub, lhs, w)
		bb.ReplaceInstruction(pos, newSub)
		return
	}
}

// negatedOperand reports whether operand is a Sub of a zero constant and
// some value w (i.e. "0 - w"), returning w.
func negatedOperand(operand ir.Instruction) (ir.Instruction, bool) {
	sub, isSub := operand.(*ir.BinOpInstruction)
	if !isSub || sub.Opcode() != ir.OpSub {
		return nil, false
	}
	if c, isConst := asConst(sub.LHS()); isConst && c.IsZero() {
		return sub.RHS(), true
	}
	return nil, false
}

func peepholeShrL(bb *ir.BasicBlock, pos ir.Pos, bin *ir.BinOpInstruction) {
	lhs, rhs := bin.LHS(), bin.RHS()
	if rc, ok := asConst(rhs); ok && rc.IsZero() {
		bb.ReplaceInstruction(pos, lhs)
		return
	}
	if lc, ok := asConst(lhs); ok && lc.IsZero() {
		bb.ReplaceInstruction(pos, lc)
		return
	}
}

// mergeConstChain implements the "k1 OP (k2 OP v)" chain-merge shared by
// And/Or/Xor: if bin is a constant OP'd with an inner OP
// instruction that itself has one constant operand, in any commutative
// rotation, the two constants are combined with apply and the instruction
// is rewritten to (v, new_const).
func mergeConstChain(bb *ir.BasicBlock, pos ir.Pos, bin *ir.BinOpInstruction, opcode ir.Opcode, apply func(a, b uint64) uint64) {
	k1, inner, ok := splitConstAndInner(bin.LHS(), bin.RHS(), opcode)
	if !ok {
		return
	}
	k2, v, ok := splitConstAndInner2(inner)
	if !ok {
		return
	}
	merged := apply(k1.Value(), k2.Value())
	newConst, err := bb.EmplaceConst(pos, bin.Type(), bin.Type().Wrap(merged))
	if err != nil {
		return
	}
	bin.SetLHS(v)
	bin.SetRHS(newConst)
}

// splitConstAndInner finds, among lhs/rhs, the one that is a Const and the
// one that is a BinOp of opcode, in either order.
func splitConstAndInner(lhs, rhs ir.Instruction, opcode ir.Opcode) (*ir.ConstInstruction, *ir.BinOpInstruction, bool) {
	if c, ok := asConst(lhs); ok {
		if inner, ok := rhs.(*ir.BinOpInstruction); ok && inner.Opcode() == opcode {
			return c, inner, true
		}
	}
	if c, ok := asConst(rhs); ok {
		if inner, ok := lhs.(*ir.BinOpInstruction); ok && inner.Opcode() == opcode {
			return c, inner, true
		}
	}
	return nil, nil, false
}

// splitConstAndInner2 finds, among an inner BinOp's operands, the one that
// is a Const and the one that is not.
func splitConstAndInner2(inner *ir.BinOpInstruction) (*ir.ConstInstruction, ir.Instruction, bool) {
	if c, ok := asConst(inner.LHS()); ok {
		return c, inner.RHS(), true
	}
	if c, ok := asConst(inner.RHS()); ok {
		return c, inner.LHS(), true
	}
	return nil, nil, false
}
