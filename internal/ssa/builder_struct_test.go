package ssa

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetFieldResolvesThroughSetFieldChain(t *testing.T) {
	mb, _ := newTestBuilder(t, MethodDecl{Name: "f"}, DefaultConfig())
	i32 := mb.Types().Primitive(BasicValueTypeInt32)
	a := mb.CreateIntConstant(NoLocation, BasicValueTypeInt32, 1)
	b := mb.CreateIntConstant(NoLocation, BasicValueTypeInt32, 2)
	s := mb.CreateCreateStructure(NoLocation, []Value{a, b})

	updated := mb.CreateIntConstant(NoLocation, BasicValueTypeInt32, 99)
	s2 := mb.CreateSetField(NoLocation, s, 1, updated)

	gotUpdated := mb.CreateGetField(NoLocation, s2, 1)
	gotUnchanged := mb.CreateGetField(NoLocation, s2, 0)

	require.Equal(t, updated.ID(), gotUpdated.ID())
	require.Equal(t, a.ID(), gotUnchanged.ID())

	def, ok := mb.definingInstruction(gotUnchanged)
	require.True(t, ok, "field 0 should resolve straight through to the CreateStructure arg without a real GetField")
	require.Equal(t, OpConstant, def.Opcode)
	_ = i32
}

func TestGetArrayElementResolvesThroughSetArrayElementChain(t *testing.T) {
	mb, _ := newTestBuilder(t, MethodDecl{Name: "f"}, DefaultConfig())
	i32 := mb.Types().Primitive(BasicValueTypeInt32)
	arr := mb.CreateCreateArray(NoLocation, i32, []int{4})

	idx0 := mb.CreateIntConstant(NoLocation, BasicValueTypeInt32, 0)
	idx1 := mb.CreateIntConstant(NoLocation, BasicValueTypeInt32, 1)
	val := mb.CreateIntConstant(NoLocation, BasicValueTypeInt32, 7)

	arr2 := mb.CreateSetArrayElement(NoLocation, arr, []Value{idx1}, val)
	got := mb.CreateGetArrayElement(NoLocation, arr2, []Value{idx1})
	require.Equal(t, val.ID(), got.ID())

	gotOther := mb.CreateGetArrayElement(NoLocation, arr2, []Value{idx0})
	def, ok := mb.definingInstruction(gotOther)
	require.True(t, ok)
	require.Equal(t, OpGetArrayElement, def.Opcode)
}

func TestGetArrayExtentAndLengthFoldDirectly(t *testing.T) {
	mb, _ := newTestBuilder(t, MethodDecl{Name: "f"}, DefaultConfig())
	i32 := mb.Types().Primitive(BasicValueTypeInt32)
	arr := mb.CreateCreateArray(NoLocation, i32, []int{2, 3})

	extent := mb.CreateGetArrayExtent(NoLocation, arr, 1)
	def, ok := mb.definingInstruction(extent)
	require.True(t, ok)
	require.Equal(t, OpConstant, def.Opcode)
	require.Equal(t, uint64(3), def.raw)

	length := mb.CreateGetArrayLength(NoLocation, arr)
	def, ok = mb.definingInstruction(length)
	require.True(t, ok)
	require.Equal(t, uint64(6), def.raw)
}

func TestArrayAddressComputesLinearizedOffset(t *testing.T) {
	mb, _ := newTestBuilder(t, MethodDecl{Name: "f"}, DefaultConfig())
	i32 := mb.Types().Primitive(BasicValueTypeInt32)
	ptr := mb.Types().CreatePointer(i32, AddressSpace(1))
	i32v := mb.Types().Primitive(BasicValueTypeInt32)
	mb.DeclareVariable(Variable(1), ptr)
	base := mb.ReadVariable(mb.CurrentBlock(), Variable(1))

	idx := mb.CreateIntConstant(NoLocation, BasicValueTypeInt32, 2)
	addr := mb.CreateArrayAddress(NoLocation, base, []int{10}, []Value{idx})

	elem, addrSpace, ok := mb.Types().AsPointer(addr.Type())
	require.True(t, ok)
	require.Equal(t, i32v, elem)
	require.Equal(t, AddressSpace(1), addrSpace)

	adef, aok := mb.definingInstruction(addr)
	require.True(t, aok)
	require.Equal(t, OpArrayAddress, adef.Opcode)
	require.Equal(t, idx.ID(), adef.args[0].ID())
}

func TestArrayAddressRejectsRankTwo(t *testing.T) {
	mb, _ := newTestBuilder(t, MethodDecl{Name: "f"}, DefaultConfig())
	i32 := mb.Types().Primitive(BasicValueTypeInt32)
	ptr := mb.Types().CreatePointer(i32, AddressSpace(0))
	mb.DeclareVariable(Variable(1), ptr)
	base := mb.ReadVariable(mb.CurrentBlock(), Variable(1))
	idx := mb.CreateIntConstant(NoLocation, BasicValueTypeInt32, 0)

	defer func() {
		r := recover()
		d, ok := r.(*Diagnostic)
		require.True(t, ok, "expected a *Diagnostic panic, got %#v", r)
		require.Equal(t, UnsupportedOperation, d.Kind)
	}()
	mb.CreateArrayAddress(NoLocation, base, []int{2, 2}, []Value{idx, idx})
}

func TestGetFieldChainEmptyIsIdentity(t *testing.T) {
	mb, _ := newTestBuilder(t, MethodDecl{Name: "f"}, DefaultConfig())
	a := mb.CreateIntConstant(NoLocation, BasicValueTypeInt32, 1)
	b := mb.CreateIntConstant(NoLocation, BasicValueTypeInt32, 2)
	s := mb.CreateCreateStructure(NoLocation, []Value{a, b})

	require.Equal(t, s.ID(), mb.CreateGetFieldChain(NoLocation, s, nil).ID())
}

func TestGetFieldChainWalksNestedStructures(t *testing.T) {
	mb, _ := newTestBuilder(t, MethodDecl{Name: "f"}, DefaultConfig())
	inner0 := mb.CreateIntConstant(NoLocation, BasicValueTypeInt32, 10)
	inner1 := mb.CreateIntConstant(NoLocation, BasicValueTypeInt32, 20)
	inner := mb.CreateCreateStructure(NoLocation, []Value{inner0, inner1})
	outerOther := mb.CreateIntConstant(NoLocation, BasicValueTypeInt32, 99)
	outer := mb.CreateCreateStructure(NoLocation, []Value{outerOther, inner})

	got := mb.CreateGetFieldChain(NoLocation, outer, []int{1, 1})
	require.Equal(t, inner1.ID(), got.ID())
}

func TestSetFieldChainEmptyIsIdentity(t *testing.T) {
	mb, _ := newTestBuilder(t, MethodDecl{Name: "f"}, DefaultConfig())
	val := mb.CreateIntConstant(NoLocation, BasicValueTypeInt32, 7)
	base := mb.CreateIntConstant(NoLocation, BasicValueTypeInt32, 1)

	require.Equal(t, val.ID(), mb.CreateSetFieldChain(NoLocation, base, nil, val).ID())
}

func TestSetFieldChainWritesNestedStructures(t *testing.T) {
	mb, _ := newTestBuilder(t, MethodDecl{Name: "f"}, DefaultConfig())
	inner0 := mb.CreateIntConstant(NoLocation, BasicValueTypeInt32, 10)
	inner1 := mb.CreateIntConstant(NoLocation, BasicValueTypeInt32, 20)
	inner := mb.CreateCreateStructure(NoLocation, []Value{inner0, inner1})
	outerOther := mb.CreateIntConstant(NoLocation, BasicValueTypeInt32, 99)
	outer := mb.CreateCreateStructure(NoLocation, []Value{outerOther, inner})

	newVal := mb.CreateIntConstant(NoLocation, BasicValueTypeInt32, 42)
	updatedOuter := mb.CreateSetFieldChain(NoLocation, outer, []int{1, 1}, newVal)

	require.Equal(t, newVal.ID(), mb.CreateGetFieldChain(NoLocation, updatedOuter, []int{1, 1}).ID())
	require.Equal(t, inner0.ID(), mb.CreateGetFieldChain(NoLocation, updatedOuter, []int{1, 0}).ID())
	require.Equal(t, outerOther.ID(), mb.CreateGetFieldChain(NoLocation, updatedOuter, []int{0}).ID())
}
