package ir

import (
	"fmt"
	"strings"
)

// formatSSA renders the "%block.instr" name of an instruction at the given
// block and instruction ids.
func formatSSA(blockID, instrID int) string {
	return fmt.Sprintf("%%%d.%d", blockID, instrID)
}

// usersToString renders the trailing " ; used by: %b.i, %b.i" suffix
// shared by every instruction's String() method. It returns "" when the
// instruction has no users.
func usersToString(i Instruction) string {
	users := i.Users()
	if len(users) == 0 {
		return ""
	}
	names := make([]string, len(users))
	for idx, u := range users {
		names[idx] = u.ssaName()
	}
	return " ; used by: " + strings.Join(names, ", ")
}
