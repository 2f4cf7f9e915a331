package ssa

import (
	"fmt"
	"strings"
)

// internKey canonically encodes everything that makes two pure instructions
// interchangeable: opcode, result type, and operands/immediates. Built as a
// string rather than a fixed struct because several opcodes (create_array,
// create_structure, the array element accessors) carry a variadic tail that
// doesn't fit a comparable struct key.
type internKey string

func makeInternKey(i *Instruction) internKey {
	var b strings.Builder
	fmt.Fprintf(&b, "%d|%d|", i.Opcode, i.typ)
	switch i.Opcode {
	case OpConstant:
		fmt.Fprintf(&b, "%d|%d", i.bvt, i.raw)
	case OpUnaryArith:
		fmt.Fprintf(&b, "%d|%d|%d", i.unaryKind, i.arithFlags, i.arg0.id)
	case OpBinaryArith:
		fmt.Fprintf(&b, "%d|%d|%d|%d", i.binaryKind, i.arithFlags, i.arg0.id, i.arg1.id)
	case OpTernaryArith:
		fmt.Fprintf(&b, "%d|%d|%d|%d|%d", i.ternaryKind, i.arithFlags, i.arg0.id, i.arg1.id, i.arg2.id)
	case OpCompare:
		fmt.Fprintf(&b, "%d|%d|%d|%d", i.cmpKind, i.cmpFlags, i.arg0.id, i.arg1.id)
	case OpConvert:
		fmt.Fprintf(&b, "%d", i.arg0.id)
	case OpPredicate:
		fmt.Fprintf(&b, "%d|%d|%d", i.arg0.id, i.arg1.id, i.arg2.id)
	case OpGetField:
		fmt.Fprintf(&b, "%d|%d", i.fieldIndex, i.arg0.id)
	case OpSetField:
		fmt.Fprintf(&b, "%d|%d|%d", i.fieldIndex, i.arg0.id, i.arg1.id)
	case OpCreateStructure, OpCreateArray:
		for _, a := range i.args {
			fmt.Fprintf(&b, "%d,", a.id)
		}
		for _, d := range i.dims {
			fmt.Fprintf(&b, "%d,", d)
		}
	case OpGetArrayLength, OpArrayAddress, OpGetArrayElement, OpGetArrayExtent:
		fmt.Fprintf(&b, "%d", i.arg0.id)
		for _, a := range i.args {
			fmt.Fprintf(&b, ",%d", a.id)
		}
	case OpSetArrayElement:
		fmt.Fprintf(&b, "%d|%d", i.arg0.id, i.arg1.id)
		for _, a := range i.args {
			fmt.Fprintf(&b, ",%d", a.id)
		}
	case OpSizeOf:
		fmt.Fprintf(&b, "%d", i.queryType)
	case OpGridDim, OpGroupDim:
		fmt.Fprintf(&b, "%d", i.dimAxis)
	case OpNull, OpUndef, OpWarpSize, OpLaneIdx:
		// type alone, already written above, fully determines identity
	}
	return internKey(b.String())
}

// interner unifies structurally identical pure values within one generation,
// so that e.g. two requests to add the same pair of values produce one SSA
// value rather than two. Memory values, terminators, parameters and phis
// are never looked up or recorded here.
type interner struct {
	table map[internKey]Value
}

func newInterner() *interner {
	return &interner{table: make(map[internKey]Value)}
}

// lookup reports an existing value equivalent to the not-yet-placed
// instruction i, if this generation has already constructed one.
func (in *interner) lookup(i *Instruction) (Value, bool) {
	if !i.Opcode.isPure() {
		return ValueInvalid, false
	}
	v, ok := in.table[makeInternKey(i)]
	return v, ok
}

// record registers i's result as the canonical value for its shape, once i
// has been assigned a result and placed in a block.
func (in *interner) record(i *Instruction) {
	if !i.Opcode.isPure() {
		return
	}
	in.table[makeInternKey(i)] = i.result
}
