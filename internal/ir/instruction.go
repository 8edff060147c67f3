package ir

// Instruction is satisfied by every IR instruction variant (Arg, Const,
// BinOp, ICmp, Branch, Return, PHI). Its two unexported methods are
// mutation-protocol internals (attach assigns parent/id at insertion time,
// removeAsUser retracts the instruction from its operands' use-lists at
// removal time); keeping them unexported confines the set of Instruction
// implementations to this package, matching the closed variant set in the
// data model.
type Instruction interface {
	Opcode() Opcode
	Type() Type
	Parent() *BasicBlock
	ID() int
	Users() []Instruction
	UsersCount() int
	HasUser(Instruction) bool
	String() string

	addUser(Instruction)
	removeUser(Instruction)
	removeAsUser()
	attach(bb *BasicBlock, id int)
	ssaName() string
}

// base is the common header embedded by every instruction variant: it
// supplies Value's type/use-list bookkeeping plus opcode, parent, and id.
type base struct {
	Value
	opcode Opcode
	parent *BasicBlock
	id     int
	hasID  bool
}

func (b *base) Opcode() Opcode { return b.opcode }

func (b *base) Parent() *BasicBlock { return b.parent }

func (b *base) ID() int { return b.id }

func (b *base) attach(bb *BasicBlock, id int) {
	b.parent = bb
	b.id = id
	b.hasID = true
}

// ssaName returns the "%block.instr" name used in textual output.
func (b *base) ssaName() string {
	blockID := 0
	if b.parent != nil {
		blockID = b.parent.id
	}
	return formatSSA(blockID, b.id)
}

// ReplaceWith redirects every current user of this to reference other
// instead, through each user's own typed setter so operand types stay
// consistent and use-lists stay balanced. After it returns, this has an
// empty use-list and other has absorbed every redirected edge.
func ReplaceWith(this, other Instruction) {
	for _, user := range this.Users() {
		switch u := user.(type) {
		case *BinOpInstruction:
			if u.lhs == this && u.rhs == this {
				u.SetLHS(other)
				u.SetRHS(other)
			} else if u.lhs == this {
				u.SetLHS(other)
			} else if u.rhs == this {
				u.SetRHS(other)
			}
		case *ICmpInstruction:
			if u.lhs == this && u.rhs == this {
				u.SetLHS(other)
				u.SetRHS(other)
			} else if u.lhs == this {
				u.SetLHS(other)
			} else if u.rhs == this {
				u.SetRHS(other)
			}
		case *ReturnInstruction:
			u.SetValue(other)
		case *BranchInstruction:
			u.SetCondition(other)
		case *PHIInstruction:
			u.ReplaceValue(this, other)
		}
	}
}
