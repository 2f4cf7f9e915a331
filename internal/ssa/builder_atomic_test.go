package ssa

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAtomicRMWIsNeverInterned(t *testing.T) {
	mb, _ := newTestBuilder(t, MethodDecl{Name: "f"}, DefaultConfig())
	i32 := mb.Types().Primitive(BasicValueTypeInt32)
	ptr := mb.Types().CreatePointer(i32, AddressSpace(0))
	mb.DeclareVariable(Variable(1), ptr)
	p := mb.ReadVariable(mb.CurrentBlock(), Variable(1))
	val := mb.CreateIntConstant(NoLocation, BasicValueTypeInt32, 1)

	first := mb.CreateAtomicRMW(NoLocation, p, val, AtomicRMWAdd, ArithmeticFlagNone)
	second := mb.CreateAtomicRMW(NoLocation, p, val, AtomicRMWAdd, ArithmeticFlagNone)

	require.NotEqual(t, first.ID(), second.ID())
	require.Len(t, mb.CurrentBlock().Instructions(), 3)
}

func TestSubWarpShuffleCollapsesWhenWidthIsFullWarp(t *testing.T) {
	mb, _ := newTestBuilder(t, MethodDecl{Name: "f"}, DefaultConfig())
	i32 := mb.Types().Primitive(BasicValueTypeInt32)
	mb.DeclareVariable(Variable(1), i32)
	val := mb.ReadVariable(mb.CurrentBlock(), Variable(1))
	delta := mb.CreateIntConstant(NoLocation, BasicValueTypeInt32, 1)
	width := mb.CreateWarpSize(NoLocation)

	result := mb.CreateSubWarpShuffle(NoLocation, val, delta, width, WarpOpXor)

	def, ok := mb.definingInstruction(result)
	require.True(t, ok)
	require.Equal(t, OpWarpShuffle, def.Opcode)
}

func TestSubWarpShuffleKeepsExplicitWidth(t *testing.T) {
	mb, _ := newTestBuilder(t, MethodDecl{Name: "f"}, DefaultConfig())
	i32 := mb.Types().Primitive(BasicValueTypeInt32)
	mb.DeclareVariable(Variable(1), i32)
	val := mb.ReadVariable(mb.CurrentBlock(), Variable(1))
	delta := mb.CreateIntConstant(NoLocation, BasicValueTypeInt32, 1)
	width := mb.CreateIntConstant(NoLocation, BasicValueTypeInt32, 8)

	result := mb.CreateSubWarpShuffle(NoLocation, val, delta, width, WarpOpXor)

	def, ok := mb.definingInstruction(result)
	require.True(t, ok)
	require.Equal(t, OpSubWarpShuffle, def.Opcode)
}

func TestBarrierProducesNoValue(t *testing.T) {
	mb, _ := newTestBuilder(t, MethodDecl{Name: "f"}, DefaultConfig())
	mb.CreateBarrier(NoLocation, BarrierGroupSync)

	instrs := mb.CurrentBlock().Instructions()
	require.Len(t, instrs, 1)
	require.False(t, instrs[0].Result().Valid())
}
