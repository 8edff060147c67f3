package ir

import "fmt"

// ConstInstruction is an integer constant of a declared type.
type ConstInstruction struct {
	base
	value uint64
}

func newConst(typ Type, value uint64) (*ConstInstruction, error) {
	if !typ.IsInteger() {
		return nil, wrap(&InvalidConstantTypeError{Type: typ})
	}
	if value > typ.MaxValue() {
		return nil, wrap(&ConstantOutOfRangeError{Type: typ, Value: value})
	}
	c := &ConstInstruction{value: value}
	c.opcode = OpConst
	c.typ = typ
	return c, nil
}

// Value returns the constant's unsigned magnitude.
func (c *ConstInstruction) Value() uint64 { return c.value }

// SignedValue returns the magnitude reinterpreted as a signed integer of
// the constant's declared width.
func (c *ConstInstruction) SignedValue() int64 { return c.typ.signExtend(c.value) }

// IsZero reports whether the constant's value is zero.
func (c *ConstInstruction) IsZero() bool { return c.value == 0 }

// IsAllOnes reports whether the constant's value has every bit of its
// declared width set.
func (c *ConstInstruction) IsAllOnes() bool { return c.value == c.typ.MaxValue() }

func (c *ConstInstruction) removeAsUser() {}

func (c *ConstInstruction) String() string {
	return fmt.Sprintf("%s = %s %s %d%s", c.ssaName(), c.typ, c.opcode, c.value, usersToString(c))
}
