package ir

import (
	"fmt"

	"github.com/pkg/errors"
)

// InvalidBinaryOperatorOpcodeError reports a BinOp constructed with an
// opcode outside the Binary range.
type InvalidBinaryOperatorOpcodeError struct {
	Opcode Opcode
}

func (e *InvalidBinaryOperatorOpcodeError) Error() string {
	return fmt.Sprintf("ir: %s is not a binary operator opcode", e.Opcode)
}

// OperandsTypeMismatchError reports a BinOp or ICmp whose operands have
// different types.
type OperandsTypeMismatchError struct {
	Opcode   Opcode
	LHS, RHS Type
}

func (e *OperandsTypeMismatchError) Error() string {
	return fmt.Sprintf("ir: %s operand type mismatch: lhs %s, rhs %s", e.Opcode, e.LHS, e.RHS)
}

// InvalidConditionTypeError reports a Branch condition that is not I1.
type InvalidConditionTypeError struct {
	Got Type
}

func (e *InvalidConditionTypeError) Error() string {
	return fmt.Sprintf("ir: branch condition must be i1, got %s", e.Got)
}

// InvalidConstantTypeError reports a Const created with Void or None type.
type InvalidConstantTypeError struct {
	Type Type
}

func (e *InvalidConstantTypeError) Error() string {
	return fmt.Sprintf("ir: constant cannot have type %s", e.Type)
}

// ConstantOutOfRangeError reports a Const magnitude that does not fit its
// declared integer width.
type ConstantOutOfRangeError struct {
	Type  Type
	Value uint64
}

func (e *ConstantOutOfRangeError) Error() string {
	return fmt.Sprintf("ir: constant value %d does not fit in %s", e.Value, e.Type)
}

// ArgOutOfRangeError reports an Arg position at or beyond the function's
// parameter count.
type ArgOutOfRangeError struct {
	Pos, NumParams int
}

func (e *ArgOutOfRangeError) Error() string {
	return fmt.Sprintf("ir: argument position %d out of range (function has %d parameters)", e.Pos, e.NumParams)
}

// PHITypeMismatchError reports a PHI incoming value whose type differs from
// the PHI's declared type.
type PHITypeMismatchError struct {
	Expected, Got Type
}

func (e *PHITypeMismatchError) Error() string {
	return fmt.Sprintf("ir: phi incoming value type %s does not match declared type %s", e.Got, e.Expected)
}

// InvalidReturnTypeError reports a Return whose operand type (or absence)
// does not match the containing function's return type.
type InvalidReturnTypeError struct {
	Expected, Got Type
}

func (e *InvalidReturnTypeError) Error() string {
	return fmt.Sprintf("ir: trying to create ret %s in a function returning %s", e.Got, e.Expected)
}

// InsufficientPHIRecordsError reports an attempt to print or finalize a PHI
// with fewer than two incoming records.
type InsufficientPHIRecordsError struct {
	Count int
}

func (e *InsufficientPHIRecordsError) Error() string {
	return fmt.Sprintf("ir: phi instruction has %d incoming record(s), need at least 2", e.Count)
}

func wrap(err error) error { return errors.WithStack(err) }
