package passes

import "github.com/dshills/bjac/internal/ir"

// ConstantFold walks f's blocks in reverse post-order and, within each
// block, its instructions front to back. Every BinOp or ICmp whose operands
// are both Const is folded: a new Const carrying the result is inserted
// immediately before the instruction, and the instruction is replaced by
// it (every user redirected, then the original erased). The original
// source instructions stay in the block otherwise unchanged; division and
// remainder by zero, and shifts by a count at or beyond the operand width,
// are left unfolded.
func ConstantFold(f *ir.Function) {
	for _, bb := range reversePostOrder(f) {
		bb.Positions(func(pos ir.Pos) bool {
			instr := pos.Value
			value, typ, ok := foldableValue(instr)
			if !ok {
				return true
			}
			newConst, _ := bb.EmplaceConst(pos, typ, value)
			bb.ReplaceInstruction(pos, newConst)
			return true
		})
	}
}

// foldableValue reports the folded result of instr, if it is a BinOp or
// ICmp over two Const operands and the fold is defined.
func foldableValue(instr ir.Instruction) (value uint64, typ ir.Type, ok bool) {
	switch v := instr.(type) {
	case *ir.BinOpInstruction:
		lhs, lok := v.LHS().(*ir.ConstInstruction)
		rhs, rok := v.RHS().(*ir.ConstInstruction)
		if !lok || !rok {
			return 0, 0, false
		}
		result, folded := foldBinOp(v.Opcode(), v.Type(), lhs.Value(), rhs.Value())
		return result, v.Type(), folded
	case *ir.ICmpInstruction:
		lhs, lok := v.LHS().(*ir.ConstInstruction)
		rhs, rok := v.RHS().(*ir.ConstInstruction)
		if !lok || !rok {
			return 0, 0, false
		}
		return foldICmp(v.Kind(), lhs, rhs), ir.TypeI1, true
	default:
		return 0, 0, false
	}
}

// foldBinOp computes the result of applying op to two constant operands of
// type typ, wrapping arithmetic to typ's declared width. Division/remainder
// by zero and out-of-width shifts are reported as not-folded.
func foldBinOp(op ir.Opcode, typ ir.Type, lhs, rhs uint64) (uint64, bool) {
	switch op {
	case ir.OpAdd:
		return typ.Wrap(lhs + rhs), true
	case ir.OpSub:
		return typ.Wrap(lhs - rhs), true
	case ir.OpMul:
		return typ.Wrap(lhs * rhs), true
	case ir.OpUDiv:
		if rhs == 0 {
			return 0, false
		}
		return typ.Wrap(lhs / rhs), true
	case ir.OpSDiv:
		if rhs == 0 {
			return 0, false
		}
		sl, sr := typ.SignExtend(lhs), typ.SignExtend(rhs)
		return typ.Wrap(uint64(sl / sr)), true
	case ir.OpURem:
		if rhs == 0 {
			return 0, false
		}
		return typ.Wrap(lhs % rhs), true
	case ir.OpSRem:
		if rhs == 0 {
			return 0, false
		}
		sl, sr := typ.SignExtend(lhs), typ.SignExtend(rhs)
		return typ.Wrap(uint64(sl % sr)), true
	case ir.OpShl:
		if rhs >= uint64(typ.Width()) {
			return 0, false
		}
		return typ.Wrap(lhs << rhs), true
	case ir.OpShrL:
		if rhs >= uint64(typ.Width()) {
			return 0, false
		}
		return typ.Wrap(lhs >> rhs), true
	case ir.OpShrA:
		if rhs >= uint64(typ.Width()) {
			return 0, false
		}
		sl := typ.SignExtend(lhs)
		return typ.Wrap(uint64(sl >> rhs)), true
	case ir.OpAnd:
		return typ.Wrap(lhs & rhs), true
	case ir.OpOr:
		return typ.Wrap(lhs | rhs), true
	case ir.OpXor:
		return typ.Wrap(lhs ^ rhs), true
	default:
		return 0, false
	}
}

// foldICmp evaluates a comparison over two Const operands, producing an I1
// (0 or 1) result.
func foldICmp(kind ir.ICmpKind, lhs, rhs *ir.ConstInstruction) uint64 {
	var result bool
	switch kind {
	case ir.ICmpEQ:
		result = lhs.Value() == rhs.Value()
	case ir.ICmpNE:
		result = lhs.Value() != rhs.Value()
	case ir.ICmpUGT:
		result = lhs.Value() > rhs.Value()
	case ir.ICmpUGE:
		result = lhs.Value() >= rhs.Value()
	case ir.ICmpULT:
		result = lhs.Value() < rhs.Value()
	case ir.ICmpULE:
		result = lhs.Value() <= rhs.Value()
	case ir.ICmpSGT:
		result = lhs.SignedValue() > rhs.SignedValue()
	case ir.ICmpSGE:
		result = lhs.SignedValue() >= rhs.SignedValue()
	case ir.ICmpSLT:
		result = lhs.SignedValue() < rhs.SignedValue()
	case ir.ICmpSLE:
		result = lhs.SignedValue() <= rhs.SignedValue()
	}
	if result {
		return 1
	}
	return 0
}
