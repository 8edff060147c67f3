package ir

import (
	"strings"

	"github.com/dshills/bjac/internal/ilist"
)

// Function is a name, a return type, a parameter-type signature, and an
// ordered, owning list of basic blocks.
type Function struct {
	Value
	name        string
	returnType  Type
	params      []Type
	blocks      *ilist.List[*BasicBlock]
	nextBlockID int
}

// New constructs an empty function. params is copied; the function owns no
// blocks until EmplaceBlock is called.
func New(name string, returnType Type, params []Type) *Function {
	ps := make([]Type, len(params))
	copy(ps, params)
	return &Function{
		Value:      Value{typ: TypeNone},
		name:       name,
		returnType: returnType,
		params:     ps,
		blocks:     ilist.New[*BasicBlock](),
	}
}

// Name returns the function's name.
func (f *Function) Name() string { return f.name }

// ReturnType returns the function's declared return type.
func (f *Function) ReturnType() Type { return f.returnType }

// Arguments returns the function's parameter types, in declaration order.
func (f *Function) Arguments() []Type {
	out := make([]Type, len(f.params))
	copy(out, f.params)
	return out
}

// Len returns the number of blocks in the function.
func (f *Function) Len() int { return f.blocks.Len() }

// BlockPos is a stable position within a function's block list.
type BlockPos = *ilist.Node[*BasicBlock]

// EmplaceBlock creates a new, empty block before pos (nil appends),
// assigning it the next block id.
func (f *Function) EmplaceBlock(pos BlockPos) *BasicBlock {
	bb := newBasicBlock(f, f.nextBlockID)
	f.nextBlockID++
	f.blocks.InsertBefore(pos, bb)
	return bb
}

// PushBlock appends a new, empty block.
func (f *Function) PushBlock() *BasicBlock { return f.EmplaceBlock(nil) }

// Front returns the function's first block, or nil if it has none.
func (f *Function) Front() *BasicBlock {
	if n := f.blocks.Front(); n != nil {
		return n.Value
	}
	return nil
}

// Back returns the function's last block, or nil if it has none.
func (f *Function) Back() *BasicBlock {
	if n := f.blocks.Back(); n != nil {
		return n.Value
	}
	return nil
}

// Blocks iterates the function's blocks front to back. It is safe to erase
// the current block during iteration.
func (f *Function) Blocks(yield func(*BasicBlock) bool) { f.blocks.Values(yield) }

// BlockPositions iterates the function's block positions front to back.
// It is safe to erase the current position during iteration.
func (f *Function) BlockPositions(yield func(BlockPos) bool) { f.blocks.All(yield) }

// Erase destroys the block at pos: every instruction it contains is
// detached first (retracting use-list edges and, for branches, the
// targets' predecessor registrations), then the block itself is removed.
func (f *Function) Erase(pos BlockPos) {
	pos.Value.clear()
	f.blocks.Erase(pos)
}

// String renders the function's signature followed by every block, per
// its signature followed by every block.
func (f *Function) String() string {
	var sb strings.Builder
	sb.WriteString(f.returnType.String())
	sb.WriteString(" ")
	sb.WriteString(f.name)
	sb.WriteString("(")
	argTypes := make([]string, len(f.params))
	for i, t := range f.params {
		argTypes[i] = t.String()
	}
	sb.WriteString(strings.Join(argTypes, ", "))
	sb.WriteString("):\n")
	f.Blocks(func(bb *BasicBlock) bool {
		sb.WriteString(bb.String())
		return true
	})
	return sb.String()
}
