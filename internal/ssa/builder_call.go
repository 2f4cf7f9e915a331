package ssa

// CreateCall invokes callee with args, in declaration order, and returns its
// result (ValueInvalid if callee's declared return type is TypeRefInvalid,
// i.e. it is void). Calls are never interned: two calls with identical
// arguments are kept distinct since a callee may have observable side
// effects.
func (mb *MethodBuilder) CreateCall(loc Location, callee *Method, args []Value) Value {
	if len(args) != len(callee.Decl.ParamTypes) {
		invariantViolation(loc, "call to %s given %d arguments, wants %d", callee.Decl, len(args), len(callee.Decl.ParamTypes))
	}
	resolved := make([]Value, len(args))
	for i, a := range args {
		resolved[i] = mb.resolve(a)
		if !mb.Types().Equal(resolved[i].Type(), callee.Decl.ParamTypes[i]) {
			typeMismatchPanic(loc, "call to %s: argument %d type mismatch", callee.Decl, i)
		}
	}
	instr := mb.allocInstruction()
	*instr = Instruction{Opcode: OpCall, loc: loc, args: resolved, callee: callee}
	if callee.Decl.ReturnType == TypeRefInvalid {
		mb.placeEffect(instr)
		return ValueInvalid
	}
	return mb.placeEffectResult(instr, callee.Decl.ReturnType)
}
