package ir

// Value is the root identity of every named SSA datum: a Type plus the
// use-list of instructions that reference it as an operand. Values are
// never copied after creation; identity is the address of the concrete
// instruction embedding this struct.
type Value struct {
	typ   Type
	users []Instruction
}

// Type returns the value's result type.
func (v *Value) Type() Type { return v.typ }

// addUser registers i as a user of v. Adding the same user twice (e.g. an
// instruction using the same operand in two slots) records it twice, so
// removeUser's single-slot removal in replace/erase paths stays balanced.
func (v *Value) addUser(i Instruction) {
	v.users = append(v.users, i)
}

// removeUser retracts one occurrence of i from v's use-list.
func (v *Value) removeUser(i Instruction) {
	for idx, u := range v.users {
		if u == i {
			v.users = append(v.users[:idx], v.users[idx+1:]...)
			return
		}
	}
}

// Users returns the instructions currently using v, in first-added order.
func (v *Value) Users() []Instruction {
	out := make([]Instruction, len(v.users))
	copy(out, v.users)
	return out
}

// UsersCount returns the size of the use-list.
func (v *Value) UsersCount() int { return len(v.users) }

// HasUser reports whether i is in v's use-list.
func (v *Value) HasUser(i Instruction) bool {
	for _, u := range v.users {
		if u == i {
			return true
		}
	}
	return false
}
