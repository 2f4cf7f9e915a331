package ssa

// This file is the core of the construction API: typed value construction
// with constant folding and the mandated algebraic peepholes. Every
// exported Create* method places its instruction in mb.CurrentBlock()
// unless a *BasicBlock is given explicitly, via an implicit current block.

// CreateConstant returns (interning) a constant of the given scalar type and
// raw bit pattern.
func (mb *MethodBuilder) CreateConstant(loc Location, bvt BasicValueType, raw uint64) Value {
	width := bvt.BitWidth()
	if !bvt.IsFloat() {
		raw = truncateToWidth(raw, width)
	}
	instr := mb.allocInstruction()
	*instr = Instruction{Opcode: OpConstant, loc: loc, bvt: bvt, raw: raw}
	return mb.place(instr, mb.Types().Primitive(bvt))
}

// CreateIntConstant is a convenience wrapper over CreateConstant for integer
// scalar types, taking a signed value and truncating/sign-wrapping it to bvt.
func (mb *MethodBuilder) CreateIntConstant(loc Location, bvt BasicValueType, v int64) Value {
	return mb.CreateConstant(loc, bvt, uint64(v))
}

// CreateFloatConstant is a convenience wrapper over CreateConstant for
// BasicValueTypeFloat32/Float64.
func (mb *MethodBuilder) CreateFloatConstant(loc Location, bvt BasicValueType, v float64) Value {
	return mb.CreateConstant(loc, bvt, floatToRaw(v, bvt))
}

// CreateNull returns the null pointer/view value of typ, which must be a
// pointer or view type.
func (mb *MethodBuilder) CreateNull(loc Location, typ TypeRef) Value {
	if _, _, ok := mb.Types().AsPointer(typ); !ok {
		typeMismatchPanic(loc, "Null requires a pointer or view type")
	}
	instr := mb.allocInstruction()
	*instr = Instruction{Opcode: OpNull, loc: loc}
	return mb.place(instr, typ)
}

// CreateUndef returns an unspecified-value placeholder of typ.
func (mb *MethodBuilder) CreateUndef(loc Location, typ TypeRef) Value {
	instr := mb.allocInstruction()
	*instr = Instruction{Opcode: OpUndef, loc: loc}
	return mb.place(instr, typ)
}

// CreateSizeOf returns the byte size of typ as an Int64 constant-shaped
// value (its exact value is supplied by the Type context, not computed
// here, since layout policy belongs to that collaborator).
func (mb *MethodBuilder) CreateSizeOf(loc Location, typ TypeRef) Value {
	instr := mb.allocInstruction()
	*instr = Instruction{Opcode: OpSizeOf, loc: loc, queryType: typ}
	return mb.place(instr, mb.Types().Primitive(BasicValueTypeInt64))
}

// CreateWarpSize returns the number of lanes in a warp as an Int32 value.
func (mb *MethodBuilder) CreateWarpSize(loc Location) Value {
	instr := mb.allocInstruction()
	*instr = Instruction{Opcode: OpWarpSize, loc: loc}
	return mb.place(instr, mb.Types().Primitive(BasicValueTypeInt32))
}

// CreateLaneIdx returns the calling thread's lane index within its warp.
func (mb *MethodBuilder) CreateLaneIdx(loc Location) Value {
	instr := mb.allocInstruction()
	*instr = Instruction{Opcode: OpLaneIdx, loc: loc}
	return mb.place(instr, mb.Types().Primitive(BasicValueTypeInt32))
}

// CreateGridDim returns the extent of the grid along axis.
func (mb *MethodBuilder) CreateGridDim(loc Location, axis DimAxis) Value {
	instr := mb.allocInstruction()
	*instr = Instruction{Opcode: OpGridDim, loc: loc, dimAxis: axis}
	return mb.place(instr, mb.Types().Primitive(BasicValueTypeInt32))
}

// CreateGroupDim returns the extent of the thread group along axis.
func (mb *MethodBuilder) CreateGroupDim(loc Location, axis DimAxis) Value {
	instr := mb.allocInstruction()
	*instr = Instruction{Opcode: OpGroupDim, loc: loc, dimAxis: axis}
	return mb.place(instr, mb.Types().Primitive(BasicValueTypeInt32))
}

func (mb *MethodBuilder) scalarTypeOf(loc Location, v Value) BasicValueType {
	bvt, ok := mb.Types().AsPrimitive(v.Type())
	if !ok {
		typeMismatchPanic(loc, "expected a primitive scalar operand, got %s", mb.Types().String(v.Type()))
	}
	return bvt
}

func typeMismatchPanic(loc Location, format string, args ...any) {
	panic(typeMismatch(loc, format, args...))
}

func unsupportedPanic(loc Location, format string, args ...any) {
	panic(unsupported(loc, format, args...))
}

// CreateUnaryArith applies kind to x, folding it if x is constant and
// applying the standard algebraic peepholes: Not(Not(x)) -> x,
// Not(Compare) -> the inverted Compare, Neg(Int1 x) -> Not(x),
// Abs(unsigned x) -> x.
func (mb *MethodBuilder) CreateUnaryArith(loc Location, kind UnaryArithKind, x Value, flags ArithmeticFlags) Value {
	x = mb.resolve(x)
	bvt := mb.scalarTypeOf(loc, x)
	if kind.isFloatOnly() && !bvt.IsFloat() {
		unsupportedPanic(loc, "%s requires a float operand", kind)
	}

	if kind == UnaryArithNot {
		if def, ok := mb.definingInstruction(x); ok && def.Opcode == OpUnaryArith && def.unaryKind == UnaryArithNot {
			return mb.resolve(def.arg0)
		}
		if v, ok := mb.invertCompareValue(loc, x); ok {
			return v
		}
	}
	if kind == UnaryArithNeg && bvt == BasicValueTypeInt1 {
		return mb.CreateUnaryArith(loc, UnaryArithNot, x, flags)
	}
	if kind == UnaryArithAbs && flags.has(ArithmeticFlagUnsigned) {
		return x
	}

	if raw, cbvt, ok := asConstant(mb, x); ok {
		if result, ok := foldUnary(kind, cbvt, raw, flags, mb.config.AbsIntMin); ok {
			return mb.CreateConstant(loc, cbvt, result)
		}
	}

	instr := mb.allocInstruction()
	*instr = Instruction{Opcode: OpUnaryArith, loc: loc, unaryKind: kind, arithFlags: flags, arg0: x}
	return mb.place(instr, x.Type())
}

// CreateBinaryArith applies kind to (x, y), folding it if both are constant
// and applying the standard algebraic peepholes: Add/Sub by 0 -> x,
// Mul/Div by a power of two -> Shl/Shr (with sign handling for division),
// Div(1.0, x) -> RcpF(x).
func (mb *MethodBuilder) CreateBinaryArith(loc Location, kind BinaryArithKind, x, y Value, flags ArithmeticFlags) Value {
	x, y = mb.resolve(x), mb.resolve(y)
	bvt := mb.scalarTypeOf(loc, x)
	if kind.isFloatOnly() && !bvt.IsFloat() {
		unsupportedPanic(loc, "%s requires float operands", kind)
	}
	if kind.isBitwise() && bvt.IsFloat() {
		unsupportedPanic(loc, "%s is not defined on float operands", kind)
	}

	if xc, xbvt, xok := asConstant(mb, x); xok {
		if yc, _, yok := asConstant(mb, y); yok {
			if result, ok := foldBinary(kind, xbvt, xc, yc, flags); ok {
				return mb.CreateConstant(loc, xbvt, result)
			}
		}
	}

	if !bvt.IsFloat() {
		if v, ok := mb.tryIntegerIdentityPeephole(loc, kind, x, y, bvt, flags); ok {
			return v
		}
	} else if kind == BinaryArithDiv {
		if raw, _, ok := asConstant(mb, x); ok && floatBits(raw, bvt) == 1.0 {
			return mb.CreateUnaryArith(loc, UnaryArithRcpF, y, flags)
		}
	}

	instr := mb.allocInstruction()
	*instr = Instruction{Opcode: OpBinaryArith, loc: loc, binaryKind: kind, arithFlags: flags, arg0: x, arg1: y}
	return mb.place(instr, x.Type())
}

func (mb *MethodBuilder) tryIntegerIdentityPeephole(loc Location, kind BinaryArithKind, x, y Value, bvt BasicValueType, flags ArithmeticFlags) (Value, bool) {
	width := bvt.BitWidth()
	if raw, _, ok := asConstant(mb, y); ok {
		switch kind {
		case BinaryArithAdd, BinaryArithSub:
			if uintBits(raw, width) == 0 {
				return x, true
			}
		case BinaryArithMul:
			if n, pow2 := log2IfPowerOfTwo(raw, width); pow2 {
				shift := mb.CreateIntConstant(loc, bvt, int64(n))
				return mb.CreateBinaryArith(loc, BinaryArithShl, x, shift, flags), true
			}
		case BinaryArithDiv:
			if flags.has(ArithmeticFlagUnsigned) {
				if n, pow2 := log2IfPowerOfTwo(raw, width); pow2 {
					shift := mb.CreateIntConstant(loc, bvt, int64(n))
					return mb.CreateBinaryArith(loc, BinaryArithShr, x, shift, flags), true
				}
			} else if mb.config.SignedDivRewrite == SignedDivRewriteRoundTowardZero {
				if n, pow2 := log2IfPowerOfTwo(raw, width); pow2 && n > 0 {
					return mb.signedDivPowerOfTwo(loc, x, n, bvt, flags), true
				}
			}
		}
	}
	if raw, _, ok := asConstant(mb, x); ok && kind == BinaryArithAdd && uintBits(raw, width) == 0 {
		return y, true
	}
	return ValueInvalid, false
}

// signedDivPowerOfTwo rewrites x / 2**n (signed) as a round-toward-zero
// shift sequence: (x + ((x >> (width-1)) >>> (width-n))) >> n, the standard
// bias-then-shift expansion, used only when Config opts into the rewrite.
func (mb *MethodBuilder) signedDivPowerOfTwo(loc Location, x Value, n int, bvt BasicValueType, flags ArithmeticFlags) Value {
	width := bvt.BitWidth()
	signFlags := flags &^ ArithmeticFlagUnsigned
	unsignedFlags := flags | ArithmeticFlagUnsigned
	signShiftAmt := mb.CreateIntConstant(loc, bvt, int64(width-1))
	sign := mb.CreateBinaryArith(loc, BinaryArithShr, x, signShiftAmt, signFlags)
	biasShiftAmt := mb.CreateIntConstant(loc, bvt, int64(width-n))
	bias := mb.CreateBinaryArith(loc, BinaryArithShr, sign, biasShiftAmt, unsignedFlags)
	biased := mb.CreateBinaryArith(loc, BinaryArithAdd, x, bias, signFlags)
	shiftAmt := mb.CreateIntConstant(loc, bvt, int64(n))
	return mb.CreateBinaryArith(loc, BinaryArithShr, biased, shiftAmt, signFlags)
}

// CreateTernaryArith applies kind to (a, b, c). It always desugars to two
// binary operations, K(a,b,c) = R(L(a,b), c), so both the folding and
// peephole machinery of CreateBinaryArith apply uniformly.
func (mb *MethodBuilder) CreateTernaryArith(loc Location, kind TernaryArithKind, a, b, c Value, flags ArithmeticFlags) Value {
	left, right := kind.decompose()
	lhs := mb.CreateBinaryArith(loc, left, a, b, flags)
	return mb.CreateBinaryArith(loc, right, lhs, c, flags)
}

// CreateCompare compares x and y with kind, folding it if both are constant.
// The "Not of Compare" rewrite lives in CreateUnaryArith/invertCompareValue
// instead, since it triggers on Not, not on Compare itself.
func (mb *MethodBuilder) CreateCompare(loc Location, kind CompareKind, x, y Value, flags CompareFlags) Value {
	x, y = mb.resolve(x), mb.resolve(y)
	bvt := mb.scalarTypeOf(loc, x)

	if xraw, _, xok := asConstant(mb, x); xok {
		if yraw, _, yok := asConstant(mb, y); yok {
			result := foldCompare(kind, bvt, xraw, yraw, flags)
			return mb.CreateConstant(loc, BasicValueTypeInt1, boolRaw(result))
		}
	}

	instr := mb.allocInstruction()
	*instr = Instruction{Opcode: OpCompare, loc: loc, cmpKind: kind, cmpFlags: flags, arg0: x, arg1: y}
	return mb.place(instr, mb.Types().Primitive(BasicValueTypeInt1))
}

// invertCompareValue returns a value equal to Not(cmp) without introducing a
// fresh Compare+Not pair when cmp is itself a direct Compare instruction: it
// rewrites the comparison's kind in place instead of nesting a Not around it.
func (mb *MethodBuilder) invertCompareValue(loc Location, cmp Value) (Value, bool) {
	def, ok := mb.definingInstruction(mb.resolve(cmp))
	if !ok || def.Opcode != OpCompare {
		return ValueInvalid, false
	}
	flags := def.cmpFlags
	if mb.scalarTypeOfOperand(def.arg0).IsFloat() {
		flags = flags.toggleUnorderedOrUnsigned()
	}
	return mb.CreateCompare(loc, def.cmpKind.invert(), def.arg0, def.arg1, flags), true
}

func (mb *MethodBuilder) scalarTypeOfOperand(v Value) BasicValueType {
	bvt, _ := mb.Types().AsPrimitive(v.Type())
	return bvt
}

// CreateNot applies the boolean/bitwise Not peephole that collapses onto an
// inverted Compare when possible, falling back to a plain UnaryArithNot.
func (mb *MethodBuilder) CreateNot(loc Location, x Value) Value {
	if v, ok := mb.invertCompareValue(loc, x); ok {
		return v
	}
	return mb.CreateUnaryArith(loc, UnaryArithNot, x, ArithmeticFlagNone)
}

// CreateConvert converts x to targetType, folding the conversion if x is a
// constant scalar.
func (mb *MethodBuilder) CreateConvert(loc Location, x Value, targetType TypeRef) Value {
	x = mb.resolve(x)
	srcBvt := mb.scalarTypeOf(loc, x)
	dstBvt, ok := mb.Types().AsPrimitive(targetType)
	if !ok {
		typeMismatchPanic(loc, "Convert target must be a primitive scalar type")
	}
	if raw, _, ok := asConstant(mb, x); ok {
		converted := convertConstant(srcBvt, dstBvt, raw)
		return mb.CreateConstant(loc, dstBvt, converted)
	}
	instr := mb.allocInstruction()
	*instr = Instruction{Opcode: OpConvert, loc: loc, arg0: x}
	return mb.place(instr, targetType)
}

func convertConstant(src, dst BasicValueType, raw uint64) uint64 {
	if src.IsFloat() && dst.IsFloat() {
		return floatToRaw(floatBits(raw, src), dst)
	}
	if src.IsFloat() && !dst.IsFloat() {
		return truncateToWidth(uint64(int64(floatBits(raw, src))), dst.BitWidth())
	}
	if !src.IsFloat() && dst.IsFloat() {
		return floatToRaw(float64(intBits(raw, src.BitWidth())), dst)
	}
	return truncateToWidth(uint64(intBits(raw, src.BitWidth())), dst.BitWidth())
}

// CreatePredicate selects onTrue or onFalse according to cond, applying the
// full select simplification chain in order: convert onFalse to onTrue's
// type if they differ, fold a constant cond, collapse onTrue==onFalse,
// specialize Int1 selects against a constant branch (cond?true:f -> Or(cond,
// f), cond?false:f -> And(Not(cond),f), swapping first if only f is
// constant), and finally strip a Not(x) cond by swapping branches rather
// than emitting a canonical Predicate over it.
func (mb *MethodBuilder) CreatePredicate(loc Location, cond, onTrue, onFalse Value) Value {
	cond, onTrue, onFalse = mb.resolve(cond), mb.resolve(onTrue), mb.resolve(onFalse)
	if !mb.Types().Equal(onFalse.Type(), onTrue.Type()) {
		onFalse = mb.CreateConvert(loc, onFalse, onTrue.Type())
	}
	if raw, _, ok := asConstant(mb, cond); ok {
		if raw != 0 {
			return onTrue
		}
		return onFalse
	}
	if onTrue.ID() == onFalse.ID() {
		return onTrue
	}
	if bvt, ok := mb.Types().AsPrimitive(onTrue.Type()); ok && bvt == BasicValueTypeInt1 {
		if tc, _, ok := asConstant(mb, onTrue); ok {
			if tc != 0 {
				return mb.CreateBinaryArith(loc, BinaryArithOr, cond, onFalse, ArithmeticFlagNone)
			}
			notCond := mb.CreateNot(loc, cond)
			return mb.CreateBinaryArith(loc, BinaryArithAnd, notCond, onFalse, ArithmeticFlagNone)
		}
		if _, _, ok := asConstant(mb, onFalse); ok {
			return mb.CreatePredicate(loc, mb.CreateNot(loc, cond), onFalse, onTrue)
		}
	}
	if def, ok := mb.definingInstruction(cond); ok && def.Opcode == OpUnaryArith && def.unaryKind == UnaryArithNot {
		return mb.CreatePredicate(loc, def.arg0, onFalse, onTrue)
	}
	instr := mb.allocInstruction()
	*instr = Instruction{Opcode: OpPredicate, loc: loc, arg0: cond, arg1: onTrue, arg2: onFalse}
	return mb.place(instr, onTrue.Type())
}

// SwitchPredicateBuilder accumulates the (condition, value) arms of a
// multi-way select and reduces it to the narrowest construct that realizes
// it: exactly one value is the value itself, exactly three (one condition,
// two values) collapses to a single CreatePredicate, and anything wider
// desugars into a right-nested chain of Predicates evaluated in argument
// order, matching switch_predicate_builder's "the construction API always
// attempts this collapse" guarantee.
type SwitchPredicateBuilder struct {
	mb    *MethodBuilder
	loc   Location
	conds []Value
	vals  []Value
}

// CreateSwitchPredicateBuilder starts a switch-predicate with capacity hint
// cap for the number of value arms it will receive (purely advisory; the
// builder grows as needed).
func (mb *MethodBuilder) CreateSwitchPredicateBuilder(loc Location, cap int) *SwitchPredicateBuilder {
	return &SwitchPredicateBuilder{
		mb:   mb,
		loc:  loc,
		vals: make([]Value, 0, cap),
	}
}

// AddCase adds a (cond, value) arm: value is selected when cond is the first
// true condition among all arms added so far, evaluated in addition order.
func (b *SwitchPredicateBuilder) AddCase(cond, value Value) *SwitchPredicateBuilder {
	b.conds = append(b.conds, cond)
	b.vals = append(b.vals, value)
	return b
}

// AddDefault sets the value selected when no added condition is true. It
// must be called exactly once, after every AddCase.
func (b *SwitchPredicateBuilder) AddDefault(value Value) *SwitchPredicateBuilder {
	b.vals = append(b.vals, value)
	return b
}

// Seal finishes the switch-predicate and returns its value, collapsing to a
// single CreatePredicate when there are exactly two cases (three values:
// one condition, two results).
func (b *SwitchPredicateBuilder) Seal() Value {
	mb := b.mb
	if len(b.vals) != len(b.conds)+1 {
		invariantViolation(b.loc, "switch predicate sealed with %d conditions and %d values", len(b.conds), len(b.vals))
	}
	result := b.vals[len(b.vals)-1]
	for i := len(b.conds) - 1; i >= 0; i-- {
		result = mb.CreatePredicate(b.loc, b.conds[i], b.vals[i], result)
	}
	return result
}

// place runs a freshly-constructed pure instruction through the interner,
// appends it to the current block if it is genuinely new, and returns its
// result value either way.
func (mb *MethodBuilder) place(instr *Instruction, typ TypeRef) Value {
	instr.typ = typ
	if v, ok := mb.interner.lookup(instr); ok {
		return v
	}
	v := mb.defineResult(instr, typ)
	mb.current.append(instr)
	mb.interner.record(instr)
	return v
}
