package ssa

import "fmt"

// Location identifies the source position a value or diagnostic should be
// attributed to, for use by diagnostics and debug printing. It is opaque to
// this package beyond formatting: front-end readers populate it from their
// own host-bytecode position tracking.
type Location struct {
	File string
	Line int
	Col  int
}

// String implements fmt.Stringer.
func (l Location) String() string {
	if l.File == "" {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Col)
}

// NoLocation is used when a caller has no meaningful source position, e.g.
// values synthesized purely by the rebuilder.
var NoLocation = Location{}
