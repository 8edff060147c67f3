package ir

import (
	"fmt"
	"sort"
	"strings"
)

// PHIInstruction selects, per predecessor block, the incoming value that
// flows into the containing block from that predecessor.
type PHIInstruction struct {
	base
	records map[*BasicBlock]Instruction
}

func newPHI(typ Type) (*PHIInstruction, error) {
	return &PHIInstruction{
		base:    base{Value: Value{typ: typ}, opcode: OpPHI},
		records: make(map[*BasicBlock]Instruction),
	}, nil
}

// AddPath records that value flows in from pred. value's type must match
// the PHI's declared type.
func (p *PHIInstruction) AddPath(pred *BasicBlock, value Instruction) error {
	if value.Type() != p.typ {
		return wrap(&PHITypeMismatchError{Expected: p.typ, Got: value.Type()})
	}
	if old, ok := p.records[pred]; ok {
		old.removeUser(p)
	}
	p.records[pred] = value
	value.addUser(p)
	return nil
}

// RemovePath drops the incoming record for pred, if any, retracting the
// use-list edge to the value it carried.
func (p *PHIInstruction) RemovePath(pred *BasicBlock) {
	if v, ok := p.records[pred]; ok {
		v.removeUser(p)
		delete(p.records, pred)
	}
}

// ValueFor returns the instruction recorded for pred, if any.
func (p *PHIInstruction) ValueFor(pred *BasicBlock) (Instruction, bool) {
	v, ok := p.records[pred]
	return v, ok
}

// Count returns the number of incoming records.
func (p *PHIInstruction) Count() int { return len(p.records) }

// sortedPreds returns the PHI's predecessor keys sorted by block id, for
// deterministic iteration and printing.
func (p *PHIInstruction) sortedPreds() []*BasicBlock {
	preds := make([]*BasicBlock, 0, len(p.records))
	for bb := range p.records {
		preds = append(preds, bb)
	}
	sort.Slice(preds, func(i, j int) bool { return preds[i].id < preds[j].id })
	return preds
}

// Sources iterates the PHI's predecessor blocks in block-id order.
func (p *PHIInstruction) Sources(yield func(*BasicBlock) bool) {
	for _, bb := range p.sortedPreds() {
		if !yield(bb) {
			return
		}
	}
}

// Values iterates the PHI's incoming instructions, in the same order as
// Sources.
func (p *PHIInstruction) Values(yield func(Instruction) bool) {
	for _, bb := range p.sortedPreds() {
		if !yield(p.records[bb]) {
			return
		}
	}
}

// ReplaceValue rewrites every record currently pointing at from to point at
// to instead, maintaining use-lists.
func (p *PHIInstruction) ReplaceValue(from, to Instruction) {
	for bb, v := range p.records {
		if v == from {
			from.removeUser(p)
			p.records[bb] = to
			to.addUser(p)
		}
	}
}

func (p *PHIInstruction) removeAsUser() {
	for _, v := range p.records {
		v.removeUser(p)
	}
}

// Validate reports InsufficientPHIRecordsError if the PHI has fewer than
// two incoming records. Printing a PHI is defined only once it validates;
// callers that build a PHI incrementally call this once all AddPath calls
// are done.
func (p *PHIInstruction) Validate() error {
	if len(p.records) < 2 {
		return wrap(&InsufficientPHIRecordsError{Count: len(p.records)})
	}
	return nil
}

func (p *PHIInstruction) String() string {
	preds := p.sortedPreds()
	parts := make([]string, len(preds))
	for i, bb := range preds {
		parts[i] = fmt.Sprintf("[%%bb%d, %s]", bb.id, p.records[bb].ssaName())
	}
	return fmt.Sprintf("%s = %s %s %s%s", p.ssaName(), p.typ, p.opcode, strings.Join(parts, ", "), usersToString(p))
}
