package ir

import (
	"sort"
	"strconv"
	"strings"

	"github.com/dshills/bjac/internal/ilist"
)

// BasicBlock is an ordered, owning sequence of instructions: a maximal
// straight-line run of code ending in at most one terminator. Its
// predecessor set is maintained by Branch construction/removal and by
// Function when a predecessor block itself is erased.
type BasicBlock struct {
	Value
	body        *ilist.List[Instruction]
	parent      *Function
	id          int
	nextInstrID int
	preds       map[*BasicBlock]struct{}
}

func newBasicBlock(parent *Function, id int) *BasicBlock {
	return &BasicBlock{
		Value:  Value{typ: TypeNone},
		body:   ilist.New[Instruction](),
		parent: parent,
		id:     id,
		preds:  make(map[*BasicBlock]struct{}),
	}
}

// ID returns the block's id, unique within its function.
func (bb *BasicBlock) ID() int { return bb.id }

// Parent returns the function that owns this block.
func (bb *BasicBlock) Parent() *Function { return bb.parent }

// Len returns the number of instructions in the block.
func (bb *BasicBlock) Len() int { return bb.body.Len() }

// Empty reports whether the block has no instructions.
func (bb *BasicBlock) Empty() bool { return bb.body.Empty() }

func (bb *BasicBlock) addPredecessor(p *BasicBlock)    { bb.preds[p] = struct{}{} }
func (bb *BasicBlock) removePredecessor(p *BasicBlock) { delete(bb.preds, p) }

// Predecessors returns the block's predecessors sorted by id, so textual
// dumps and tests observe a stable order.
func (bb *BasicBlock) Predecessors() []*BasicBlock {
	out := make([]*BasicBlock, 0, len(bb.preds))
	for p := range bb.preds {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// Terminator returns the block's last instruction iff it is a terminator,
// else nil.
func (bb *BasicBlock) Terminator() Instruction {
	back := bb.body.Back()
	if back == nil {
		return nil
	}
	if back.Value.Opcode().IsTerminator() {
		return back.Value
	}
	return nil
}

// Successors returns the terminator's targets, or nil if the block has no
// terminator.
func (bb *BasicBlock) Successors() []*BasicBlock {
	term := bb.Terminator()
	br, ok := term.(*BranchInstruction)
	if !ok {
		return nil
	}
	return br.successors()
}

// Front returns the first instruction, or nil if the block is empty.
func (bb *BasicBlock) Front() Instruction { return frontValue(bb.body) }

// Back returns the last instruction, or nil if the block is empty.
func (bb *BasicBlock) Back() Instruction {
	if n := bb.body.Back(); n != nil {
		return n.Value
	}
	return nil
}

func frontValue(l *ilist.List[Instruction]) Instruction {
	if n := l.Front(); n != nil {
		return n.Value
	}
	return nil
}

// Pos is a stable position within a basic block's instruction list: nil
// means "at the end" when passed to an Emplace* method, or "the position
// past the last instruction" when returned by iteration.
type Pos = *ilist.Node[Instruction]

// Instructions iterates the block's instructions front to back. It is safe
// to erase the current instruction during iteration.
func (bb *BasicBlock) Instructions(yield func(Instruction) bool) { bb.body.Values(yield) }

// Positions iterates the block's instruction positions front to back,
// giving passes a handle usable with Erase/ReplaceInstruction/Emplace*'s
// pos argument. It is safe to erase the current position during iteration.
func (bb *BasicBlock) Positions(yield func(Pos) bool) { bb.body.All(yield) }

// attach finalizes instr's id/parent and, for a Branch, registers this
// block as a predecessor of its targets. Shared by every Emplace* method.
func (bb *BasicBlock) attach(instr Instruction) {
	instr.attach(bb, bb.nextInstrID)
	bb.nextInstrID++
	if br, ok := instr.(*BranchInstruction); ok {
		br.trueBB.addPredecessor(bb)
		if br.IsConditional() {
			br.falseBB.addPredecessor(bb)
		}
	}
}

func (bb *BasicBlock) insert(pos Pos, instr Instruction) Pos {
	bb.attach(instr)
	return bb.body.InsertBefore(pos, instr)
}

// EmplaceArg inserts an Arg instruction reading the p-th parameter of the
// containing function, before pos (nil appends).
func (bb *BasicBlock) EmplaceArg(pos Pos, p int) (*ArgInstruction, error) {
	a, err := newArg(bb.parent, p)
	if err != nil {
		return nil, err
	}
	bb.insert(pos, a)
	return a, nil
}

// EmplaceConst inserts an integer constant before pos (nil appends).
func (bb *BasicBlock) EmplaceConst(pos Pos, typ Type, value uint64) (*ConstInstruction, error) {
	c, err := newConst(typ, value)
	if err != nil {
		return nil, err
	}
	bb.insert(pos, c)
	return c, nil
}

// EmplaceBinOp inserts a binary operator before pos (nil appends).
func (bb *BasicBlock) EmplaceBinOp(pos Pos, op Opcode, lhs, rhs Instruction) (*BinOpInstruction, error) {
	b, err := newBinOp(op, lhs, rhs)
	if err != nil {
		return nil, err
	}
	bb.insert(pos, b)
	return b, nil
}

// EmplaceICmp inserts a comparison before pos (nil appends).
func (bb *BasicBlock) EmplaceICmp(pos Pos, kind ICmpKind, lhs, rhs Instruction) (*ICmpInstruction, error) {
	i, err := newICmp(kind, lhs, rhs)
	if err != nil {
		return nil, err
	}
	bb.insert(pos, i)
	return i, nil
}

// EmplaceBranch inserts an unconditional branch before pos (nil appends).
func (bb *BasicBlock) EmplaceBranch(pos Pos, target *BasicBlock) (*BranchInstruction, error) {
	b, err := newBranch(target)
	if err != nil {
		return nil, err
	}
	bb.insert(pos, b)
	return b, nil
}

// EmplaceCondBranch inserts a conditional branch before pos (nil appends).
func (bb *BasicBlock) EmplaceCondBranch(pos Pos, cond Instruction, trueTarget, falseTarget *BasicBlock) (*BranchInstruction, error) {
	b, err := newCondBranch(cond, trueTarget, falseTarget)
	if err != nil {
		return nil, err
	}
	bb.insert(pos, b)
	return b, nil
}

// EmplaceReturn inserts a void return before pos (nil appends).
func (bb *BasicBlock) EmplaceReturn(pos Pos) (*ReturnInstruction, error) {
	r, err := newRet(bb.parent)
	if err != nil {
		return nil, err
	}
	bb.insert(pos, r)
	return r, nil
}

// EmplaceReturnValue inserts a value-returning return before pos (nil appends).
func (bb *BasicBlock) EmplaceReturnValue(pos Pos, value Instruction) (*ReturnInstruction, error) {
	r, err := newRetValue(bb.parent, value)
	if err != nil {
		return nil, err
	}
	bb.insert(pos, r)
	return r, nil
}

// EmplacePHI inserts a PHI of the given result type before pos (nil appends).
func (bb *BasicBlock) EmplacePHI(pos Pos, typ Type) (*PHIInstruction, error) {
	p, err := newPHI(typ)
	if err != nil {
		return nil, err
	}
	bb.insert(pos, p)
	return p, nil
}

// detach retracts instr's use-list edges on its operands and, for a
// Branch, its targets' predecessor registrations — the common teardown
// shared by Erase and block/function destruction.
func (bb *BasicBlock) detach(instr Instruction) {
	instr.removeAsUser()
	if br, ok := instr.(*BranchInstruction); ok {
		br.trueBB.removePredecessor(bb)
		if br.IsConditional() {
			br.falseBB.removePredecessor(bb)
		}
	}
}

// Erase retracts pos's use-list edges (and, for a Branch, predecessor
// registrations) then removes it from the block.
func (bb *BasicBlock) Erase(pos Pos) {
	bb.detach(pos.Value)
	bb.body.Erase(pos)
}

// ReplaceInstruction redirects every user of pos's instruction to other,
// then erases pos.
func (bb *BasicBlock) ReplaceInstruction(pos Pos, other Instruction) {
	ReplaceWith(pos.Value, other)
	bb.Erase(pos)
}

// PopFront removes the first instruction, if any.
func (bb *BasicBlock) PopFront() {
	if f := bb.body.Front(); f != nil {
		bb.Erase(f)
	}
}

// PopBack removes the last instruction, if any.
func (bb *BasicBlock) PopBack() {
	if b := bb.body.Back(); b != nil {
		bb.Erase(b)
	}
}

// clear erases every instruction front to back, retracting use-list and
// predecessor edges along the way. Used when the whole block is destroyed.
func (bb *BasicBlock) clear() {
	for pos := bb.body.Front(); pos != nil; {
		next := pos.Next()
		bb.detach(pos.Value)
		bb.body.Erase(pos)
		pos = next
	}
}

// String renders the block's label line plus its instructions, matching
// its predecessor list and instructions in order.
func (bb *BasicBlock) String() string {
	var sb strings.Builder
	sb.WriteString("%bb")
	sb.WriteString(strconv.Itoa(bb.id))
	sb.WriteString(":")
	if preds := bb.Predecessors(); len(preds) > 0 {
		sb.WriteString(" preds: ")
		names := make([]string, len(preds))
		for i, p := range preds {
			names[i] = "%bb" + strconv.Itoa(p.id)
		}
		sb.WriteString(strings.Join(names, ", "))
	}
	sb.WriteString("\n")
	bb.Instructions(func(instr Instruction) bool {
		sb.WriteString("    ")
		sb.WriteString(instr.String())
		sb.WriteString("\n")
		return true
	})
	return sb.String()
}
