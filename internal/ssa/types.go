package ssa

// BasicValueType is the closed set of primitive scalar types the
// construction API reasons about directly. Pointer, view, array and
// structure types are opaque TypeRef handles owned by the external Type
// context; this package only needs to know when a TypeRef happens to be
// primitive, which TypeContext.Primitive answers.
type BasicValueType byte

const (
	// BasicValueTypeNone is the type of a value that produces no result,
	// e.g. a bare Barrier or a void Return's placeholder argument.
	BasicValueTypeNone BasicValueType = iota
	BasicValueTypeInt1
	BasicValueTypeInt8
	BasicValueTypeInt16
	BasicValueTypeInt32
	BasicValueTypeInt64
	BasicValueTypeFloat16
	BasicValueTypeFloat32
	BasicValueTypeFloat64
)

// String implements fmt.Stringer.
func (t BasicValueType) String() string {
	switch t {
	case BasicValueTypeNone:
		return "none"
	case BasicValueTypeInt1:
		return "i1"
	case BasicValueTypeInt8:
		return "i8"
	case BasicValueTypeInt16:
		return "i16"
	case BasicValueTypeInt32:
		return "i32"
	case BasicValueTypeInt64:
		return "i64"
	case BasicValueTypeFloat16:
		return "f16"
	case BasicValueTypeFloat32:
		return "f32"
	case BasicValueTypeFloat64:
		return "f64"
	default:
		return "invalid"
	}
}

// IsFloat reports whether t is one of the IEEE-754 float kinds.
func (t BasicValueType) IsFloat() bool {
	return t == BasicValueTypeFloat16 || t == BasicValueTypeFloat32 || t == BasicValueTypeFloat64
}

// IsInteger reports whether t is one of the integer kinds, including Int1.
func (t BasicValueType) IsInteger() bool {
	switch t {
	case BasicValueTypeInt1, BasicValueTypeInt8, BasicValueTypeInt16, BasicValueTypeInt32, BasicValueTypeInt64:
		return true
	default:
		return false
	}
}

// BitWidth returns the width in bits of an integer or float BasicValueType;
// it is 0 for BasicValueTypeNone.
func (t BasicValueType) BitWidth() int {
	switch t {
	case BasicValueTypeInt1:
		return 1
	case BasicValueTypeInt8:
		return 8
	case BasicValueTypeInt16, BasicValueTypeFloat16:
		return 16
	case BasicValueTypeInt32, BasicValueTypeFloat32:
		return 32
	case BasicValueTypeInt64, BasicValueTypeFloat64:
		return 64
	default:
		return 0
	}
}

// AddressSpace is an opaque GPU memory space tag (global, shared, local,
// constant, ...); its concrete set is owned by the external Type context,
// this package only threads it through create_pointer/create_view calls.
type AddressSpace uint32

// TypeRef is an opaque handle into the external Type context. Two TypeRefs
// are the same type iff TypeContext.Equal reports true; this package never
// compares them directly because the context may intern distinct handles
// for structurally identical types across generations.
type TypeRef uint32

// TypeRefInvalid is the zero TypeRef; no valid type context handle is ever
// zero (see TypeContext implementations).
const TypeRefInvalid TypeRef = 0

// StructField describes one field of a structure type as reported by the
// Type context's query surface.
type StructField struct {
	Type   TypeRef
	Offset uint32
}

// TypeContext is the narrow interface this package consumes from the
// surrounding repository's Type context. It is intentionally
// small: create/intern a handful of type shapes, and query enough about an
// existing handle to drive folding and field-chain logic. This package
// never constructs a TypeContext; a caller supplies one.
type TypeContext interface {
	// Primitive returns the (interned) TypeRef for a BasicValueType.
	Primitive(bvt BasicValueType) TypeRef
	// CreatePointer returns a pointer-to-T type in the given address space.
	CreatePointer(elem TypeRef, addrSpace AddressSpace) TypeRef
	// CreateView returns a view-of-T type (a bounds-free reference) in the
	// given address space.
	CreateView(elem TypeRef, addrSpace AddressSpace) TypeRef
	// CreateArray returns an array-of-T type with the given per-dimension
	// extents; len(dims) is the array's rank.
	CreateArray(elem TypeRef, dims []int) TypeRef
	// CreateStructure returns a structure type with the given fields, laid
	// out in the given order.
	CreateStructure(fields []TypeRef) TypeRef
	// SpecializeAddressSpace returns t re-tagged with addrSpace if t is a
	// pointer or view type; otherwise it returns t unchanged.
	SpecializeAddressSpace(t TypeRef, addrSpace AddressSpace) TypeRef

	// AsPrimitive reports whether t is a primitive scalar type and, if so,
	// which BasicValueType it is.
	AsPrimitive(t TypeRef) (BasicValueType, bool)
	// AsPointer reports whether t is a pointer type and, if so, its element
	// type and address space.
	AsPointer(t TypeRef) (elem TypeRef, addrSpace AddressSpace, ok bool)
	// AsArray reports whether t is an array type and, if so, its element
	// type and per-dimension extents.
	AsArray(t TypeRef) (elem TypeRef, dims []int, ok bool)
	// AsStructure reports whether t is a structure type and, if so, its
	// fields in declaration order.
	AsStructure(t TypeRef) (fields []StructField, ok bool)
	// Equal reports whether a and b denote the same type.
	Equal(a, b TypeRef) bool
	// String returns a debug representation of t.
	String(t TypeRef) string
}
