package ssa

import "strings"

// MethodDecl declares the shape of a method: its name (used for idempotent
// re-declaration) and its parameter/return types. It is the input to
// IRContext.DeclareMethod.
type MethodDecl struct {
	Name       string
	ParamTypes []TypeRef
	ReturnType TypeRef
}

// String implements fmt.Stringer for debug printing.
func (d MethodDecl) String() string {
	var b strings.Builder
	b.WriteString(d.Name)
	b.WriteByte('(')
	for i, p := range d.ParamTypes {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(typeRefDebugString(p))
	}
	b.WriteByte(')')
	return b.String()
}

// typeRefDebugString renders a TypeRef without a TypeContext, for contexts
// (like MethodDecl.String used in panics) where one may not be at hand.
func typeRefDebugString(t TypeRef) string {
	if t == TypeRefInvalid {
		return "<invalid>"
	}
	return "t" + itoa(uint32(t))
}

func itoa(v uint32) string {
	if v == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}
