package ssa

// Opcode identifies the kind of an Instruction. It is a closed set: the
// extensibility a virtual-dispatch hierarchy would otherwise give is
// replaced by adding a new tag to this enum plus a new case in every
// switch that dispatches on it (fold, rebuild, format).
type Opcode uint16

const (
	// Constants and intrinsic GPU-hierarchy values.
	OpConstant Opcode = iota + 1
	OpNull
	OpUndef
	OpSizeOf
	OpWarpSize
	OpLaneIdx
	OpGridDim
	OpGroupDim

	// Arithmetic, comparison, conversion.
	OpUnaryArith
	OpBinaryArith
	OpTernaryArith
	OpCompare
	OpConvert
	OpPredicate

	// Structures and arrays.
	OpGetField
	OpSetField
	OpCreateStructure
	OpCreateArray
	OpGetArrayExtent
	OpGetArrayElement
	OpSetArrayElement
	OpGetArrayLength
	OpArrayAddress

	// Atomics, barriers, warp/thread-hierarchy ops, I/O.
	OpAtomicRMW
	OpAtomicCAS
	OpBarrier
	OpPredicateBarrier
	OpBroadcast
	OpWarpShuffle
	OpSubWarpShuffle
	OpWriteToOutput

	// Calls and phis.
	OpCall
	OpPhi

	// Terminators.
	OpReturn
	OpBranch
	OpIfBranch
	OpSwitchBranch
	// OpBuilderTerminator is a placeholder terminator used only while a
	// block is under SSA construction and has not yet received its real
	// terminator; never observed after a method builder disposes.
	OpBuilderTerminator
)

func (o Opcode) String() string {
	switch o {
	case OpConstant:
		return "constant"
	case OpNull:
		return "null"
	case OpUndef:
		return "undef"
	case OpSizeOf:
		return "size_of"
	case OpWarpSize:
		return "warp_size"
	case OpLaneIdx:
		return "lane_idx"
	case OpGridDim:
		return "grid_dim"
	case OpGroupDim:
		return "group_dim"
	case OpUnaryArith:
		return "unary"
	case OpBinaryArith:
		return "binary"
	case OpTernaryArith:
		return "ternary"
	case OpCompare:
		return "compare"
	case OpConvert:
		return "convert"
	case OpPredicate:
		return "predicate"
	case OpGetField:
		return "get_field"
	case OpSetField:
		return "set_field"
	case OpCreateStructure:
		return "create_structure"
	case OpCreateArray:
		return "create_array"
	case OpGetArrayExtent:
		return "get_array_extent"
	case OpGetArrayElement:
		return "get_array_element"
	case OpSetArrayElement:
		return "set_array_element"
	case OpGetArrayLength:
		return "get_array_length"
	case OpArrayAddress:
		return "array_address"
	case OpAtomicRMW:
		return "atomic_rmw"
	case OpAtomicCAS:
		return "atomic_cas"
	case OpBarrier:
		return "barrier"
	case OpPredicateBarrier:
		return "predicate_barrier"
	case OpBroadcast:
		return "broadcast"
	case OpWarpShuffle:
		return "warp_shuffle"
	case OpSubWarpShuffle:
		return "sub_warp_shuffle"
	case OpWriteToOutput:
		return "write_to_output"
	case OpCall:
		return "call"
	case OpPhi:
		return "phi"
	case OpReturn:
		return "return"
	case OpBranch:
		return "branch"
	case OpIfBranch:
		return "if_branch"
	case OpSwitchBranch:
		return "switch_branch"
	case OpBuilderTerminator:
		return "builder_terminator"
	default:
		return "invalid-opcode"
	}
}

// isPure reports whether values of this opcode may be unified by the
// interner. Memory values, terminators, parameters and phis are never
// interned.
func (o Opcode) isPure() bool {
	switch o {
	case OpConstant, OpNull, OpUndef, OpSizeOf, OpWarpSize, OpLaneIdx, OpGridDim, OpGroupDim,
		OpUnaryArith, OpBinaryArith, OpTernaryArith, OpCompare, OpConvert, OpPredicate,
		OpGetField, OpSetField, OpCreateStructure, OpCreateArray,
		OpGetArrayExtent, OpGetArrayElement, OpSetArrayElement, OpGetArrayLength, OpArrayAddress:
		return true
	default:
		return false
	}
}

// isTerminator reports whether this opcode ends a basic block.
func (o Opcode) isTerminator() bool {
	switch o {
	case OpReturn, OpBranch, OpIfBranch, OpSwitchBranch, OpBuilderTerminator:
		return true
	default:
		return false
	}
}

// AtomicRMWKind is the closed set of atomic read-modify-write operations.
type AtomicRMWKind byte

const (
	AtomicRMWAdd AtomicRMWKind = iota + 1
	AtomicRMWSub
	AtomicRMWAnd
	AtomicRMWOr
	AtomicRMWXor
	AtomicRMWExchange
	AtomicRMWMin
	AtomicRMWMax
)

func (k AtomicRMWKind) String() string {
	switch k {
	case AtomicRMWAdd:
		return "add"
	case AtomicRMWSub:
		return "sub"
	case AtomicRMWAnd:
		return "and"
	case AtomicRMWOr:
		return "or"
	case AtomicRMWXor:
		return "xor"
	case AtomicRMWExchange:
		return "xchg"
	case AtomicRMWMin:
		return "min"
	case AtomicRMWMax:
		return "max"
	default:
		return "invalid-atomic-rmw"
	}
}

// WarpOpKind is the closed set of warp data-movement addressing modes used
// by Broadcast/WarpShuffle/SubWarpShuffle.
type WarpOpKind byte

const (
	WarpOpIdx WarpOpKind = iota + 1
	WarpOpUp
	WarpOpDown
	WarpOpXor
)

func (k WarpOpKind) String() string {
	switch k {
	case WarpOpIdx:
		return "idx"
	case WarpOpUp:
		return "up"
	case WarpOpDown:
		return "down"
	case WarpOpXor:
		return "xor"
	default:
		return "invalid-warp-op"
	}
}

// BarrierKind is the closed set of execution/memory barrier scopes.
type BarrierKind byte

const (
	BarrierGroupSync BarrierKind = iota + 1
	BarrierMemoryFence
)

func (k BarrierKind) String() string {
	switch k {
	case BarrierGroupSync:
		return "group_sync"
	case BarrierMemoryFence:
		return "memory_fence"
	default:
		return "invalid-barrier"
	}
}

// DimAxis selects which axis of the GPU execution
// hierarchy an intrinsic constant reads.
type DimAxis byte

const (
	DimAxisX DimAxis = iota
	DimAxisY
	DimAxisZ
)

// phiArg is one (predecessor block, incoming value) pair of a phi.
type phiArg struct {
	pred  *BasicBlock
	value Value
}

// Instruction is the single flattened representation of every IR node that
// is not a bare Parameter. Which fields are meaningful is determined by
// Opcode: one struct with tag-based dispatch, rather than an open class
// hierarchy with virtual dispatch per value kind.
type Instruction struct {
	Opcode Opcode
	loc    Location
	typ    TypeRef
	result Value // ValueInvalid if this instruction produces no value
	parent *BasicBlock

	// Fixed operands, used by unary/binary/ternary/compare/convert/predicate/
	// field/array/atomic/branch instructions. Not all are valid for every
	// opcode; see the builder_*.go constructors for which are populated.
	arg0, arg1, arg2 Value

	// Variadic tail: call arguments, return values, switch branch values,
	// structure fields, and the linear index of an array element/address.
	args []Value

	// Block operands for terminators.
	blockArg0, blockArg1 *BasicBlock // if/else or single-target branch
	blockArgs            []*BasicBlock

	// Immediate payload; meaning depends on Opcode.
	unaryKind   UnaryArithKind
	binaryKind  BinaryArithKind
	ternaryKind TernaryArithKind
	cmpKind     CompareKind
	arithFlags  ArithmeticFlags
	cmpFlags    CompareFlags
	atomicKind  AtomicRMWKind
	warpKind    WarpOpKind
	barrierKind BarrierKind
	dimAxis     DimAxis
	fieldIndex  int
	raw         uint64         // constant bit pattern
	bvt         BasicValueType // declared scalar type of a constant
	dims        []int          // array dims for create_array
	queryType   TypeRef        // the type SizeOf reports the size of

	// Call payload.
	callee *Method

	// Phi payload. A phi under construction accumulates phiArgs via
	// AddArgument until Seal is called.
	phiArgs   []phiArg
	phiSealed bool
}

// Location returns the source location this instruction was constructed at.
func (i *Instruction) Location() Location { return i.loc }

// Type returns the type of the value this instruction produces, or
// TypeRefInvalid if it produces none.
func (i *Instruction) Type() TypeRef { return i.typ }

// Result returns the Value this instruction produces, or ValueInvalid.
func (i *Instruction) Result() Value { return i.result }

// ParentBlock returns the block this instruction has been placed in, or nil
// if it has not yet been appended. A phi is placed in its block's phi list
// as soon as it is created, before any argument is added.
func (i *Instruction) ParentBlock() *BasicBlock { return i.parent }

// Targets returns the basic blocks a terminator instruction may transfer
// control to, in a stable order. It panics if i is not a terminator.
func (i *Instruction) Targets() []*BasicBlock {
	switch i.Opcode {
	case OpBranch:
		return []*BasicBlock{i.blockArg0}
	case OpIfBranch:
		return []*BasicBlock{i.blockArg0, i.blockArg1}
	case OpSwitchBranch:
		return i.blockArgs
	case OpReturn, OpBuilderTerminator:
		return nil
	default:
		invariantViolation(i.loc, "Targets called on non-terminator opcode %s", i.Opcode)
		return nil
	}
}

// operands returns every Value this instruction reads, for use by dead-code
// liveness walks and the rebuilder. Phi arguments are included.
func (i *Instruction) operands() []Value {
	var ops []Value
	switch i.Opcode {
	case OpPhi:
		for _, a := range i.phiArgs {
			ops = append(ops, a.value)
		}
		return ops
	case OpCall, OpSwitchBranch:
		ops = append(ops, i.args...)
		if i.arg0.Valid() {
			ops = append([]Value{i.arg0}, ops...)
		}
		return ops
	case OpWriteToOutput:
		return []Value{i.arg0, i.arg1}
	}
	if i.arg0.Valid() {
		ops = append(ops, i.arg0)
	}
	if i.arg1.Valid() {
		ops = append(ops, i.arg1)
	}
	if i.arg2.Valid() {
		ops = append(ops, i.arg2)
	}
	ops = append(ops, i.args...)
	return ops
}
