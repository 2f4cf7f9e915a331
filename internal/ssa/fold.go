package ssa

import (
	"math"
	"math/bits"
)

// asConstant reports the raw bit pattern and scalar type of v if v is (after
// alias resolution) a constant, so peepholes and the folder can fold
// expressions over it without caring how many redirections away the caller's
// reference to v is.
func asConstant(mb *MethodBuilder, v Value) (raw uint64, bvt BasicValueType, ok bool) {
	v = mb.resolve(v)
	def, ok := mb.definingInstruction(v)
	if !ok || def.Opcode != OpConstant {
		return 0, 0, false
	}
	return def.raw, def.bvt, true
}

// intBits reinterprets raw as a signed integer of the given bit width, with
// sign extension from that width.
func intBits(raw uint64, width int) int64 {
	if width >= 64 {
		return int64(raw)
	}
	mask := uint64(1)<<uint(width) - 1
	v := raw & mask
	sign := uint64(1) << uint(width-1)
	if v&sign != 0 {
		v |= ^mask
	}
	return int64(v)
}

// uintBits reinterprets raw as an unsigned integer of the given bit width.
func uintBits(raw uint64, width int) uint64 {
	if width >= 64 {
		return raw
	}
	return raw & (uint64(1)<<uint(width) - 1)
}

func floatBits(raw uint64, bvt BasicValueType) float64 {
	switch bvt {
	case BasicValueTypeFloat32:
		return float64(math.Float32frombits(uint32(raw)))
	case BasicValueTypeFloat64:
		return math.Float64frombits(raw)
	default:
		return 0
	}
}

func floatToRaw(v float64, bvt BasicValueType) uint64 {
	switch bvt {
	case BasicValueTypeFloat32:
		return uint64(math.Float32bits(float32(v)))
	case BasicValueTypeFloat64:
		return math.Float64bits(v)
	default:
		return 0
	}
}

func truncateToWidth(v uint64, width int) uint64 {
	if width >= 64 {
		return v
	}
	return v & (uint64(1)<<uint(width) - 1)
}

// foldUnary evaluates a unary arithmetic operation over a constant operand,
// reporting ok=false if the kind/type combination is not something this
// function knows how to fold at construction time (e.g. a transcendental
// whose exact rounding this package declines to emulate for non-obvious
// inputs is still folded; only genuinely unknown combinations return false).
func foldUnary(kind UnaryArithKind, bvt BasicValueType, raw uint64, flags ArithmeticFlags, absIntMin AbsIntMinPolicy) (result uint64, ok bool) {
	width := bvt.BitWidth()
	if bvt.IsFloat() {
		f := floatBits(raw, bvt)
		switch kind {
		case UnaryArithNeg:
			return floatToRaw(-f, bvt), true
		case UnaryArithAbs:
			return floatToRaw(math.Abs(f), bvt), true
		case UnaryArithRcpF:
			return floatToRaw(1.0/f, bvt), true
		case UnaryArithSqrt:
			return floatToRaw(math.Sqrt(f), bvt), true
		case UnaryArithSinF:
			return floatToRaw(math.Sin(f), bvt), true
		case UnaryArithCosF:
			return floatToRaw(math.Cos(f), bvt), true
		case UnaryArithExpF:
			return floatToRaw(math.Exp(f), bvt), true
		case UnaryArithLogF:
			return floatToRaw(math.Log(f), bvt), true
		case UnaryArithIsInfF:
			return boolRaw(math.IsInf(f, 0)), true
		case UnaryArithIsNaNF:
			return boolRaw(math.IsNaN(f)), true
		}
		return 0, false
	}
	switch kind {
	case UnaryArithNot:
		return truncateToWidth(^raw, width), true
	case UnaryArithNeg:
		return truncateToWidth(uint64(-intBits(raw, width)), width), true
	case UnaryArithAbs:
		if flags.has(ArithmeticFlagUnsigned) {
			return raw, true
		}
		iv := intBits(raw, width)
		if iv < 0 {
			minForWidth := -(int64(1) << uint(width-1))
			if iv == minForWidth {
				if absIntMin == AbsIntMinSaturate {
					maxForWidth := int64(1)<<uint(width-1) - 1
					return truncateToWidth(uint64(maxForWidth), width), true
				}
				return raw, true // AbsIntMinUnchanged: two's-complement wraparound
			}
			iv = -iv
		}
		return truncateToWidth(uint64(iv), width), true
	}
	return 0, false
}

func boolRaw(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// foldBinary evaluates a binary arithmetic operation over two constant
// operands. It reports ok=false for a div/rem by zero, which the caller then
// emits as an ordinary unfolded instruction.
func foldBinary(kind BinaryArithKind, bvt BasicValueType, a, b uint64, flags ArithmeticFlags) (result uint64, ok bool) {
	width := bvt.BitWidth()
	if bvt.IsFloat() {
		fa, fb := floatBits(a, bvt), floatBits(b, bvt)
		switch kind {
		case BinaryArithAdd:
			return floatToRaw(fa+fb, bvt), true
		case BinaryArithSub:
			return floatToRaw(fa-fb, bvt), true
		case BinaryArithMul:
			return floatToRaw(fa*fb, bvt), true
		case BinaryArithDiv:
			return floatToRaw(fa/fb, bvt), true
		case BinaryArithRem:
			return floatToRaw(math.Mod(fa, fb), bvt), true
		case BinaryArithMin:
			return floatToRaw(math.Min(fa, fb), bvt), true
		case BinaryArithMax:
			return floatToRaw(math.Max(fa, fb), bvt), true
		case BinaryArithPowF:
			return floatToRaw(math.Pow(fa, fb), bvt), true
		case BinaryArithAtan2F:
			return floatToRaw(math.Atan2(fa, fb), bvt), true
		}
		return 0, false
	}
	if flags.has(ArithmeticFlagUnsigned) {
		ua, ub := uintBits(a, width), uintBits(b, width)
		switch kind {
		case BinaryArithAdd:
			return truncateToWidth(ua+ub, width), true
		case BinaryArithSub:
			return truncateToWidth(ua-ub, width), true
		case BinaryArithMul:
			return truncateToWidth(ua*ub, width), true
		case BinaryArithDiv:
			if ub == 0 {
				return 0, false
			}
			return truncateToWidth(ua/ub, width), true
		case BinaryArithRem:
			if ub == 0 {
				return 0, false
			}
			return truncateToWidth(ua%ub, width), true
		case BinaryArithAnd:
			return truncateToWidth(ua&ub, width), true
		case BinaryArithOr:
			return truncateToWidth(ua|ub, width), true
		case BinaryArithXor:
			return truncateToWidth(ua^ub, width), true
		case BinaryArithShl:
			return truncateToWidth(ua<<(ub&63), width), true
		case BinaryArithShr:
			return truncateToWidth(ua>>(ub&63), width), true
		case BinaryArithMin:
			if ua < ub {
				return truncateToWidth(ua, width), true
			}
			return truncateToWidth(ub, width), true
		case BinaryArithMax:
			if ua > ub {
				return truncateToWidth(ua, width), true
			}
			return truncateToWidth(ub, width), true
		}
		return 0, false
	}
	ia, ib := intBits(a, width), intBits(b, width)
	switch kind {
	case BinaryArithAdd:
		return truncateToWidth(uint64(ia+ib), width), true
	case BinaryArithSub:
		return truncateToWidth(uint64(ia-ib), width), true
	case BinaryArithMul:
		return truncateToWidth(uint64(ia*ib), width), true
	case BinaryArithDiv:
		if ib == 0 {
			return 0, false
		}
		return truncateToWidth(uint64(ia/ib), width), true
	case BinaryArithRem:
		if ib == 0 {
			return 0, false
		}
		return truncateToWidth(uint64(ia%ib), width), true
	case BinaryArithAnd:
		return truncateToWidth(uint64(ia&ib), width), true
	case BinaryArithOr:
		return truncateToWidth(uint64(ia|ib), width), true
	case BinaryArithXor:
		return truncateToWidth(uint64(ia^ib), width), true
	case BinaryArithShl:
		return truncateToWidth(uint64(ia<<(uint64(ib)&63)), width), true
	case BinaryArithShr:
		return truncateToWidth(uint64(ia>>(uint64(ib)&63)), width), true
	case BinaryArithMin:
		if ia < ib {
			return truncateToWidth(uint64(ia), width), true
		}
		return truncateToWidth(uint64(ib), width), true
	case BinaryArithMax:
		if ia > ib {
			return truncateToWidth(uint64(ia), width), true
		}
		return truncateToWidth(uint64(ib), width), true
	}
	return 0, false
}

// foldCompare evaluates a comparison over two constant operands.
func foldCompare(kind CompareKind, bvt BasicValueType, a, b uint64, flags CompareFlags) bool {
	width := bvt.BitWidth()
	if bvt.IsFloat() {
		fa, fb := floatBits(a, bvt), floatBits(b, bvt)
		if math.IsNaN(fa) || math.IsNaN(fb) {
			return flags.has(CompareFlagUnorderedOrUnsigned)
		}
		switch kind {
		case CompareEqual:
			return fa == fb
		case CompareNotEqual:
			return fa != fb
		case CompareLess:
			return fa < fb
		case CompareLessEqual:
			return fa <= fb
		case CompareGreater:
			return fa > fb
		case CompareGreaterEqual:
			return fa >= fb
		}
		return false
	}
	if flags.has(CompareFlagUnsigned) {
		ua, ub := uintBits(a, width), uintBits(b, width)
		switch kind {
		case CompareEqual:
			return ua == ub
		case CompareNotEqual:
			return ua != ub
		case CompareLess:
			return ua < ub
		case CompareLessEqual:
			return ua <= ub
		case CompareGreater:
			return ua > ub
		case CompareGreaterEqual:
			return ua >= ub
		}
		return false
	}
	ia, ib := intBits(a, width), intBits(b, width)
	switch kind {
	case CompareEqual:
		return ia == ib
	case CompareNotEqual:
		return ia != ib
	case CompareLess:
		return ia < ib
	case CompareLessEqual:
		return ia <= ib
	case CompareGreater:
		return ia > ib
	case CompareGreaterEqual:
		return ia >= ib
	}
	return false
}

// log2IfPowerOfTwo returns (n, true) if raw, read as an unsigned integer of
// the given width, equals 2**n for some n, used by the power-of-two
// mul/div-to-shift peephole.
func log2IfPowerOfTwo(raw uint64, width int) (int, bool) {
	u := uintBits(raw, width)
	if u == 0 || u&(u-1) != 0 {
		return 0, false
	}
	return bits.TrailingZeros64(u), true
}
