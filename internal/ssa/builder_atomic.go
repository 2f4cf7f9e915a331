package ssa

// This file covers the GPU-hierarchy side-effecting operations: atomics,
// barriers, and warp-level data movement. None of these opcodes are pure
// (Opcode.isPure reports false for all of them), so they are never looked
// up in or recorded into the interner: two syntactically identical atomics
// at different program points are never the same value.

// CreateAtomicRMW performs a read-modify-write of ptr with val and returns
// the value ptr held immediately before the operation.
func (mb *MethodBuilder) CreateAtomicRMW(loc Location, ptr, val Value, kind AtomicRMWKind, flags ArithmeticFlags) Value {
	ptr, val = mb.resolve(ptr), mb.resolve(val)
	elem, _, ok := mb.Types().AsPointer(ptr.Type())
	if !ok {
		typeMismatchPanic(loc, "AtomicRMW requires a pointer or view target")
	}
	if !mb.Types().Equal(elem, val.Type()) {
		typeMismatchPanic(loc, "AtomicRMW value type does not match pointee type")
	}
	instr := mb.allocInstruction()
	*instr = Instruction{Opcode: OpAtomicRMW, loc: loc, arg0: ptr, arg1: val, atomicKind: kind, arithFlags: flags}
	return mb.place(instr, elem)
}

// CreateAtomicCAS performs a compare-and-swap: if ptr currently holds
// compare, it is replaced with newVal. Either way, the value ptr held
// immediately before the operation is returned.
func (mb *MethodBuilder) CreateAtomicCAS(loc Location, ptr, compare, newVal Value) Value {
	ptr, compare, newVal = mb.resolve(ptr), mb.resolve(compare), mb.resolve(newVal)
	elem, _, ok := mb.Types().AsPointer(ptr.Type())
	if !ok {
		typeMismatchPanic(loc, "AtomicCAS requires a pointer or view target")
	}
	if !mb.Types().Equal(elem, compare.Type()) || !mb.Types().Equal(elem, newVal.Type()) {
		typeMismatchPanic(loc, "AtomicCAS operand type does not match pointee type")
	}
	instr := mb.allocInstruction()
	*instr = Instruction{Opcode: OpAtomicCAS, loc: loc, arg0: ptr, arg1: compare, arg2: newVal}
	return mb.place(instr, elem)
}

// CreateBarrier emits a group synchronization or memory fence of the given
// kind. It produces no value.
func (mb *MethodBuilder) CreateBarrier(loc Location, kind BarrierKind) {
	instr := mb.allocInstruction()
	*instr = Instruction{Opcode: OpBarrier, loc: loc, barrierKind: kind}
	mb.placeEffect(instr)
}

// CreatePredicateBarrier synchronizes the group and returns whether cond
// held in every participating thread (kind selects the aggregation: group
// sync vs memory fence scoping, mirroring CreateBarrier).
func (mb *MethodBuilder) CreatePredicateBarrier(loc Location, cond Value, kind BarrierKind) Value {
	cond = mb.resolve(cond)
	instr := mb.allocInstruction()
	*instr = Instruction{Opcode: OpPredicateBarrier, loc: loc, arg0: cond, barrierKind: kind}
	return mb.placeEffectResult(instr, mb.Types().Primitive(BasicValueTypeInt1))
}

// CreateBroadcast returns val as observed in originLane, read by every lane
// in the warp.
func (mb *MethodBuilder) CreateBroadcast(loc Location, val, originLane Value, kind WarpOpKind) Value {
	val, originLane = mb.resolve(val), mb.resolve(originLane)
	instr := mb.allocInstruction()
	*instr = Instruction{Opcode: OpBroadcast, loc: loc, arg0: val, arg1: originLane, warpKind: kind}
	return mb.placeEffectResult(instr, val.Type())
}

// CreateWarpShuffle exchanges val across the full warp according to kind's
// addressing mode and delta (a lane offset, xor mask, or absolute index,
// depending on kind).
func (mb *MethodBuilder) CreateWarpShuffle(loc Location, val, delta Value, kind WarpOpKind) Value {
	val, delta = mb.resolve(val), mb.resolve(delta)
	instr := mb.allocInstruction()
	*instr = Instruction{Opcode: OpWarpShuffle, loc: loc, arg0: val, arg1: delta, warpKind: kind}
	return mb.placeEffectResult(instr, val.Type())
}

// CreateSubWarpShuffle exchanges val across partitions of width lanes each.
// When width is provably the full warp size (it is exactly the result of a
// CreateWarpSize call in this generation), it collapses to a plain
// CreateWarpShuffle rather than emitting a redundant partition width.
func (mb *MethodBuilder) CreateSubWarpShuffle(loc Location, val, delta, width Value, kind WarpOpKind) Value {
	val, delta, width = mb.resolve(val), mb.resolve(delta), mb.resolve(width)
	if def, ok := mb.definingInstruction(width); ok && def.Opcode == OpWarpSize {
		return mb.CreateWarpShuffle(loc, val, delta, kind)
	}
	instr := mb.allocInstruction()
	*instr = Instruction{Opcode: OpSubWarpShuffle, loc: loc, arg0: val, arg1: delta, arg2: width, warpKind: kind}
	return mb.placeEffectResult(instr, val.Type())
}

// CreateWriteToOutput writes value to the kernel's output slot identified by
// slot (an opaque handle value; typically a pointer/view into the output
// buffer). It produces no value.
func (mb *MethodBuilder) CreateWriteToOutput(loc Location, slot, value Value) {
	slot, value = mb.resolve(slot), mb.resolve(value)
	instr := mb.allocInstruction()
	*instr = Instruction{Opcode: OpWriteToOutput, loc: loc, arg0: slot, arg1: value}
	mb.placeEffect(instr)
}

// placeEffect appends a side-effecting, value-less instruction to the
// current block, bypassing the interner entirely.
func (mb *MethodBuilder) placeEffect(instr *Instruction) {
	instr.result = ValueInvalid
	mb.current.append(instr)
}

// placeEffectResult appends a side-effecting instruction that does produce a
// value, bypassing the interner (repeated calls are never unified).
func (mb *MethodBuilder) placeEffectResult(instr *Instruction, typ TypeRef) Value {
	v := mb.defineResult(instr, typ)
	mb.current.append(instr)
	return v
}
