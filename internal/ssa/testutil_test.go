package ssa

import "fmt"

// testTypes is a minimal, self-contained TypeContext used only by this
// package's own tests, standing in for the real Type context a front end
// would supply. It interns every shape it creates by a canonical string key,
// mirroring the interning discipline the construction API itself relies on
// (two requests for the same shape must yield the same TypeRef).
type testTypes struct {
	keys    []string
	entries []typeEntry
}

type typeEntryTag byte

const (
	tagPrimitive typeEntryTag = iota + 1
	tagPointer
	tagView
	tagArray
	tagStruct
)

type typeEntry struct {
	tag       typeEntryTag
	bvt       BasicValueType
	elem      TypeRef
	addrSpace AddressSpace
	dims      []int
	fields    []StructField
}

func newTestTypes() *testTypes {
	return &testTypes{}
}

func (tt *testTypes) intern(key string, e typeEntry) TypeRef {
	for i, k := range tt.keys {
		if k == key {
			return TypeRef(i + 1)
		}
	}
	tt.keys = append(tt.keys, key)
	tt.entries = append(tt.entries, e)
	return TypeRef(len(tt.entries))
}

func (tt *testTypes) entry(t TypeRef) (typeEntry, bool) {
	if t == TypeRefInvalid || int(t) > len(tt.entries) {
		return typeEntry{}, false
	}
	return tt.entries[t-1], true
}

func (tt *testTypes) Primitive(bvt BasicValueType) TypeRef {
	return tt.intern(fmt.Sprintf("p%d", bvt), typeEntry{tag: tagPrimitive, bvt: bvt})
}

func (tt *testTypes) CreatePointer(elem TypeRef, addrSpace AddressSpace) TypeRef {
	return tt.intern(fmt.Sprintf("ptr%d@%d", elem, addrSpace), typeEntry{tag: tagPointer, elem: elem, addrSpace: addrSpace})
}

func (tt *testTypes) CreateView(elem TypeRef, addrSpace AddressSpace) TypeRef {
	return tt.intern(fmt.Sprintf("view%d@%d", elem, addrSpace), typeEntry{tag: tagView, elem: elem, addrSpace: addrSpace})
}

func (tt *testTypes) CreateArray(elem TypeRef, dims []int) TypeRef {
	return tt.intern(fmt.Sprintf("arr%d%v", elem, dims), typeEntry{tag: tagArray, elem: elem, dims: append([]int(nil), dims...)})
}

func (tt *testTypes) CreateStructure(fields []TypeRef) TypeRef {
	sf := make([]StructField, len(fields))
	offset := uint32(0)
	for i, f := range fields {
		sf[i] = StructField{Type: f, Offset: offset}
		offset += 8
	}
	return tt.intern(fmt.Sprintf("struct%v", fields), typeEntry{tag: tagStruct, fields: sf})
}

func (tt *testTypes) SpecializeAddressSpace(t TypeRef, addrSpace AddressSpace) TypeRef {
	e, ok := tt.entry(t)
	if !ok {
		return t
	}
	switch e.tag {
	case tagPointer:
		return tt.CreatePointer(e.elem, addrSpace)
	case tagView:
		return tt.CreateView(e.elem, addrSpace)
	default:
		return t
	}
}

func (tt *testTypes) AsPrimitive(t TypeRef) (BasicValueType, bool) {
	e, ok := tt.entry(t)
	if !ok || e.tag != tagPrimitive {
		return 0, false
	}
	return e.bvt, true
}

func (tt *testTypes) AsPointer(t TypeRef) (TypeRef, AddressSpace, bool) {
	e, ok := tt.entry(t)
	if !ok || (e.tag != tagPointer && e.tag != tagView) {
		return TypeRefInvalid, 0, false
	}
	return e.elem, e.addrSpace, true
}

func (tt *testTypes) AsArray(t TypeRef) (TypeRef, []int, bool) {
	e, ok := tt.entry(t)
	if !ok || e.tag != tagArray {
		return TypeRefInvalid, nil, false
	}
	return e.elem, e.dims, true
}

func (tt *testTypes) AsStructure(t TypeRef) ([]StructField, bool) {
	e, ok := tt.entry(t)
	if !ok || e.tag != tagStruct {
		return nil, false
	}
	return e.fields, true
}

func (tt *testTypes) Equal(a, b TypeRef) bool { return a == b }

func (tt *testTypes) String(t TypeRef) string {
	e, ok := tt.entry(t)
	if !ok {
		return "<invalid>"
	}
	switch e.tag {
	case tagPrimitive:
		return e.bvt.String()
	case tagPointer:
		return fmt.Sprintf("ptr<%s>@%d", tt.String(e.elem), e.addrSpace)
	case tagView:
		return fmt.Sprintf("view<%s>@%d", tt.String(e.elem), e.addrSpace)
	case tagArray:
		return fmt.Sprintf("array<%s>%v", tt.String(e.elem), e.dims)
	case tagStruct:
		return fmt.Sprintf("struct%v", e.fields)
	default:
		return "<invalid>"
	}
}

// newTestBuilder returns a fresh MethodBuilder over a fresh in-memory
// Context, for tests that don't care about cross-method interaction.
func newTestBuilder(t interface {
	Helper()
	Fatalf(format string, args ...any)
}, decl MethodDecl, cfg Config) (*MethodBuilder, *Context) {
	t.Helper()
	types := newTestTypes()
	ctx := NewContext(types)
	mb, err := NewMethodBuilder(ctx, decl, cfg, nil)
	if err != nil {
		t.Fatalf("NewMethodBuilder: %v", err)
	}
	return mb, ctx
}
