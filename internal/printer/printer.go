// Package printer renders a Function as the textual form described in
// textual form. It exists to give the constant-folding and peephole
// passes' idempotence properties and the demo command something concrete
// to compare and display.
package printer

import (
	"fmt"
	"io"

	"github.com/dshills/bjac/internal/ir"
)

// Print validates every PHI in f (a PHI with fewer than two incoming
// records cannot be printed), then writes f's textual dump to w.
func Print(w io.Writer, f *ir.Function) error {
	if err := validatePHIs(f); err != nil {
		return err
	}
	_, err := io.WriteString(w, f.String())
	return err
}

// Sprint is Print rendering to a string, for tests that compare dumps
// byte-for-byte across repeated passes.
func Sprint(f *ir.Function) (string, error) {
	if err := validatePHIs(f); err != nil {
		return "", err
	}
	return f.String(), nil
}

func validatePHIs(f *ir.Function) error {
	var firstErr error
	f.Blocks(func(bb *ir.BasicBlock) bool {
		bb.Instructions(func(instr ir.Instruction) bool {
			phi, ok := instr.(*ir.PHIInstruction)
			if !ok {
				return true
			}
			if err := phi.Validate(); err != nil && firstErr == nil {
				firstErr = fmt.Errorf("printing %s: %w", phi, err)
			}
			return true
		})
		return true
	})
	return firstErr
}
