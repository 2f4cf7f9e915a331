package ssa

import "fmt"

// Variable identifies a source-level mutable variable for the SSA builder.
// It is unrelated to Value identity: a single Variable corresponds to zero
// or more Values over the lifetime of a method, one per definition point:
// any mutable source variable a front end chooses to declare, not just a
// function-local.
type Variable uint32

// String implements fmt.Stringer.
func (v Variable) String() string { return fmt.Sprintf("var%d", v) }
