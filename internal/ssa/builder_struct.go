package ssa

// This file covers the aggregate construction API: structures and small
// value-semantics arrays behave as pure SSA values with functional update
// (GetField/SetField, GetArrayElement/SetArrayElement), while ArrayAddress
// computes a linearized pointer offset into a memory-backed buffer for
// callers that hold a pointer/view rather than a value array.

// CreateCreateStructure builds a structure value from its field values, in
// declaration order. The structure's type is derived from the field values'
// types via the Type context.
func (mb *MethodBuilder) CreateCreateStructure(loc Location, fields []Value) Value {
	resolved := make([]Value, len(fields))
	fieldTypes := make([]TypeRef, len(fields))
	for i, f := range fields {
		resolved[i] = mb.resolve(f)
		fieldTypes[i] = resolved[i].Type()
	}
	typ := mb.Types().CreateStructure(fieldTypes)
	instr := mb.allocInstruction()
	*instr = Instruction{Opcode: OpCreateStructure, loc: loc, args: resolved}
	return mb.place(instr, typ)
}

// CreateGetField reads field fieldIndex of base, resolving back through any
// SetField chain that provably wrote (or did not write) that field before
// emitting a real GetField, per the configured FieldChainResolutionPolicy.
func (mb *MethodBuilder) CreateGetField(loc Location, base Value, fieldIndex int) Value {
	base = mb.resolve(base)
	fields, ok := mb.Types().AsStructure(base.Type())
	if !ok || fieldIndex < 0 || fieldIndex >= len(fields) {
		typeMismatchPanic(loc, "GetField index %d out of range for %s", fieldIndex, mb.Types().String(base.Type()))
	}

	cur := base
	for {
		def, ok := mb.definingInstruction(cur)
		if !ok || def.Opcode != OpSetField {
			break
		}
		if def.fieldIndex == fieldIndex {
			return mb.resolve(def.arg1)
		}
		cur = mb.resolve(def.arg0)
	}
	if mb.config.FieldChainResolve == FieldChainResolveThroughUnknownBase {
		if def, ok := mb.definingInstruction(cur); ok && def.Opcode == OpCreateStructure && fieldIndex < len(def.args) {
			return mb.resolve(def.args[fieldIndex])
		}
	}

	instr := mb.allocInstruction()
	*instr = Instruction{Opcode: OpGetField, loc: loc, arg0: cur, fieldIndex: fieldIndex}
	return mb.place(instr, fields[fieldIndex].Type)
}

// CreateSetField returns a new structure value equal to base except that
// field fieldIndex now holds val.
func (mb *MethodBuilder) CreateSetField(loc Location, base Value, fieldIndex int, val Value) Value {
	base, val = mb.resolve(base), mb.resolve(val)
	fields, ok := mb.Types().AsStructure(base.Type())
	if !ok || fieldIndex < 0 || fieldIndex >= len(fields) {
		typeMismatchPanic(loc, "SetField index %d out of range for %s", fieldIndex, mb.Types().String(base.Type()))
	}
	if !mb.Types().Equal(fields[fieldIndex].Type, val.Type()) {
		typeMismatchPanic(loc, "SetField value type does not match field %d", fieldIndex)
	}
	instr := mb.allocInstruction()
	*instr = Instruction{Opcode: OpSetField, loc: loc, arg0: base, arg1: val, fieldIndex: fieldIndex}
	return mb.place(instr, base.Type())
}

// CreateGetFieldChain desugars a nested field access [i0, i1, ..., ik] into
// the obvious sequence of CreateGetField calls; an empty chain is the
// identity and returns base unchanged.
func (mb *MethodBuilder) CreateGetFieldChain(loc Location, base Value, indices []int) Value {
	cur := mb.resolve(base)
	for _, idx := range indices {
		cur = mb.CreateGetField(loc, cur, idx)
	}
	return cur
}

// CreateSetFieldChain desugars a nested field update [i0, i1, ..., ik] = val
// into the obvious sequence of CreateGetField/CreateSetField calls, rebuilding
// each enclosing structure outward from the innermost field; an empty chain
// is the identity and returns val unchanged.
func (mb *MethodBuilder) CreateSetFieldChain(loc Location, base Value, indices []int, val Value) Value {
	if len(indices) == 0 {
		return mb.resolve(val)
	}
	base = mb.resolve(base)
	head, rest := indices[0], indices[1:]
	if len(rest) == 0 {
		return mb.CreateSetField(loc, base, head, val)
	}
	inner := mb.CreateGetField(loc, base, head)
	updated := mb.CreateSetFieldChain(loc, inner, rest, val)
	return mb.CreateSetField(loc, base, head, updated)
}

// CreateCreateArray builds a fixed-rank value-semantics array of elemType
// with every element initialized to Undef.
func (mb *MethodBuilder) CreateCreateArray(loc Location, elemType TypeRef, dims []int) Value {
	typ := mb.Types().CreateArray(elemType, dims)
	d := append([]int(nil), dims...)
	instr := mb.allocInstruction()
	*instr = Instruction{Opcode: OpCreateArray, loc: loc, dims: d}
	return mb.place(instr, typ)
}

// CreateGetArrayExtent returns the static extent of arr along dim, folded
// directly from its type (array dimensions never change at runtime).
func (mb *MethodBuilder) CreateGetArrayExtent(loc Location, arr Value, dim int) Value {
	_, dims, ok := mb.Types().AsArray(arr.Type())
	if !ok || dim < 0 || dim >= len(dims) {
		typeMismatchPanic(loc, "GetArrayExtent dimension %d out of range", dim)
	}
	return mb.CreateIntConstant(loc, BasicValueTypeInt32, int64(dims[dim]))
}

// CreateGetArrayLength returns the total element count of arr, the product
// of its extents across every dimension.
func (mb *MethodBuilder) CreateGetArrayLength(loc Location, arr Value) Value {
	_, dims, ok := mb.Types().AsArray(arr.Type())
	if !ok {
		typeMismatchPanic(loc, "GetArrayLength requires an array value")
	}
	total := 1
	for _, d := range dims {
		total *= d
	}
	return mb.CreateIntConstant(loc, BasicValueTypeInt32, int64(total))
}

// linearIndex computes a flat offset for an index list against dims,
// reusing the arithmetic construction API (and therefore its
// power-of-two-multiply-to-shift peephole) rather than folding strides by
// hand. Arrays are currently restricted to rank <= 1; a higher rank is a
// declared implementation constraint, not a permanent design limit, and
// raises UnsupportedOperation rather than silently linearizing.
func (mb *MethodBuilder) linearIndex(loc Location, dims []int, indices []Value) Value {
	if len(indices) != len(dims) {
		typeMismatchPanic(loc, "expected %d indices, got %d", len(dims), len(indices))
	}
	if len(dims) >= 2 {
		unsupportedPanic(loc, "arrays are restricted to one dimension, got rank %d", len(dims))
	}
	stride := make([]int, len(dims))
	acc := 1
	for i := len(dims) - 1; i >= 0; i-- {
		stride[i] = acc
		acc *= dims[i]
	}
	idxType := mb.scalarTypeOf(loc, indices[0])
	total := mb.CreateIntConstant(loc, idxType, 0)
	for i, idx := range indices {
		strideConst := mb.CreateIntConstant(loc, idxType, int64(stride[i]))
		term := mb.CreateBinaryArith(loc, BinaryArithMul, mb.resolve(idx), strideConst, ArithmeticFlagNone)
		total = mb.CreateBinaryArith(loc, BinaryArithAdd, total, term, ArithmeticFlagNone)
	}
	return total
}

// CreateGetArrayElement reads the element of arr at the multi-dimensional
// index, resolving back through any SetArrayElement chain at the same
// linearized offset, mirroring CreateGetField's chain resolution.
func (mb *MethodBuilder) CreateGetArrayElement(loc Location, arr Value, indices []Value) Value {
	arr = mb.resolve(arr)
	_, dims, ok := mb.Types().AsArray(arr.Type())
	if !ok {
		typeMismatchPanic(loc, "GetArrayElement requires an array value")
	}
	linear := mb.linearIndex(loc, dims, indices)
	return mb.getArrayElementByLinearIndex(loc, arr, linear)
}

// getArrayElementByLinearIndex is CreateGetArrayElement's core, taking an
// already-linearized offset directly. Factored out so the rebuilder can
// replay a GetArrayElement without re-deriving strides from the original
// multi-dimensional index list, which it does not retain.
func (mb *MethodBuilder) getArrayElementByLinearIndex(loc Location, arr, linear Value) Value {
	elemType, _, ok := mb.Types().AsArray(arr.Type())
	if !ok {
		typeMismatchPanic(loc, "GetArrayElement requires an array value")
	}
	cur := arr
	for {
		def, ok := mb.definingInstruction(cur)
		if !ok || def.Opcode != OpSetArrayElement {
			break
		}
		if constIndicesEqual(mb, def.args[0], linear) {
			return mb.resolve(def.arg1)
		}
		cur = mb.resolve(def.arg0)
	}
	instr := mb.allocInstruction()
	*instr = Instruction{Opcode: OpGetArrayElement, loc: loc, arg0: cur, args: []Value{linear}}
	return mb.place(instr, elemType)
}

// CreateSetArrayElement returns a new array value equal to arr except that
// the element at the multi-dimensional index now holds val.
func (mb *MethodBuilder) CreateSetArrayElement(loc Location, arr Value, indices []Value, val Value) Value {
	arr, val = mb.resolve(arr), mb.resolve(val)
	_, dims, ok := mb.Types().AsArray(arr.Type())
	if !ok {
		typeMismatchPanic(loc, "SetArrayElement requires an array value")
	}
	linear := mb.linearIndex(loc, dims, indices)
	return mb.setArrayElementByLinearIndex(loc, arr, linear, val)
}

// setArrayElementByLinearIndex is CreateSetArrayElement's core, taking an
// already-linearized offset directly (see getArrayElementByLinearIndex).
func (mb *MethodBuilder) setArrayElementByLinearIndex(loc Location, arr, linear, val Value) Value {
	elemType, _, ok := mb.Types().AsArray(arr.Type())
	if !ok {
		typeMismatchPanic(loc, "SetArrayElement requires an array value")
	}
	if !mb.Types().Equal(elemType, val.Type()) {
		typeMismatchPanic(loc, "SetArrayElement value type does not match element type")
	}
	instr := mb.allocInstruction()
	*instr = Instruction{Opcode: OpSetArrayElement, loc: loc, arg0: arr, arg1: val, args: []Value{linear}}
	return mb.place(instr, arr.Type())
}

// constIndicesEqual reports whether a and b are provably the same linear
// index. Because constants and every other pure value are interned, two
// expressions that compute the same linear offset collapse to the same
// Value identity; a plain ID comparison is therefore a sound (if
// conservative for unintern-able cases) provable-equality check, used to
// decide whether a SetArrayElement chain link definitely aliases the
// element being read.
func constIndicesEqual(mb *MethodBuilder, a, b Value) bool {
	return mb.resolve(a).ID() == mb.resolve(b).ID()
}

// CreateArrayAddress computes a pointer into a memory-backed buffer at a
// multi-dimensional index, for callers addressing a GPU buffer (a pointer or
// view parameter) rather than a value-semantics array built with
// CreateCreateArray. dims describes the buffer's declared shape; indices
// are linearized the same way CreateGetArrayElement linearizes them, so the
// two addressing schemes agree on layout.
func (mb *MethodBuilder) CreateArrayAddress(loc Location, base Value, dims []int, indices []Value) Value {
	base = mb.resolve(base)
	linear := mb.linearIndex(loc, dims, indices)
	return mb.arrayAddressByLinearIndex(loc, base, linear)
}

// arrayAddressByLinearIndex is CreateArrayAddress's core, taking an
// already-linearized offset directly (see getArrayElementByLinearIndex).
func (mb *MethodBuilder) arrayAddressByLinearIndex(loc Location, base, linear Value) Value {
	elem, addrSpace, ok := mb.Types().AsPointer(base.Type())
	if !ok {
		typeMismatchPanic(loc, "ArrayAddress requires a pointer or view base")
	}
	resultType := mb.Types().SpecializeAddressSpace(mb.Types().CreatePointer(elem, addrSpace), addrSpace)
	instr := mb.allocInstruction()
	*instr = Instruction{Opcode: OpArrayAddress, loc: loc, arg0: base, args: []Value{linear}}
	return mb.place(instr, resultType)
}
