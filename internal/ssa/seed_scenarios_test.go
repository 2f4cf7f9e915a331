package ssa

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestSeedAlgebraicCollapse: Mul(x,4) then Add(_,0) should leave exactly one
// Shl(x,2) in the block, with Return referencing it directly: no Mul, no Add.
func TestSeedAlgebraicCollapse(t *testing.T) {
	mb, _ := newTestBuilder(t, MethodDecl{Name: "f"}, DefaultConfig())
	i32 := mb.Types().Primitive(BasicValueTypeInt32)
	mb.DeclareVariable(Variable(1), i32)
	x := mb.ReadVariable(mb.CurrentBlock(), Variable(1))

	four := mb.CreateIntConstant(NoLocation, BasicValueTypeInt32, 4)
	a := mb.CreateBinaryArith(NoLocation, BinaryArithMul, x, four, ArithmeticFlagNone)
	zero := mb.CreateIntConstant(NoLocation, BasicValueTypeInt32, 0)
	b := mb.CreateBinaryArith(NoLocation, BinaryArithAdd, a, zero, ArithmeticFlagNone)
	mb.CreateReturn(NoLocation, []Value{b})

	for _, instr := range mb.CurrentBlock().Instructions() {
		require.NotEqual(t, BinaryArithMul, instr.binaryKind, "no Mul should survive")
		require.NotEqual(t, BinaryArithAdd, instr.binaryKind, "no Add should survive")
	}
	term := mb.CurrentBlock().Terminator()
	require.Equal(t, OpReturn, term.Opcode)
	def, ok := mb.definingInstruction(term.args[0])
	require.True(t, ok)
	require.Equal(t, OpBinaryArith, def.Opcode)
	require.Equal(t, BinaryArithShl, def.binaryKind)
	require.Equal(t, x.ID(), def.arg0.ID())
}

// TestSeedPredicateNotSwap: Predicate(Not(c), true, c) hits the Int1
// cond?true:f specialization directly (cond is used as-is, never stripped of
// its Not first, since that special case is tried before the general
// Not(cond) swap rule) and collapses to Or(Not(c), c) rather than emitting a
// canonical Predicate node.
func TestSeedPredicateNotSwap(t *testing.T) {
	mb, _ := newTestBuilder(t, MethodDecl{Name: "f"}, DefaultConfig())
	i1 := mb.Types().Primitive(BasicValueTypeInt1)
	mb.DeclareVariable(Variable(1), i1)
	c := mb.ReadVariable(mb.CurrentBlock(), Variable(1))
	trueConst := mb.CreateIntConstant(NoLocation, BasicValueTypeInt1, 1)
	notC := mb.CreateUnaryArith(NoLocation, UnaryArithNot, c, ArithmeticFlagNone)

	result := mb.CreatePredicate(NoLocation, notC, trueConst, c)

	def, ok := mb.definingInstruction(result)
	require.True(t, ok)
	require.Equal(t, OpBinaryArith, def.Opcode)
	require.Equal(t, BinaryArithOr, def.binaryKind)
	require.Equal(t, notC.ID(), def.arg0.ID())
	require.Equal(t, c.ID(), def.arg1.ID())
}

// TestSeedPredicateGeneralNotSwap: with neither branch constant, Predicate
// strips a Not(cond) by swapping branches instead of emitting a canonical
// node over the negation.
func TestSeedPredicateGeneralNotSwap(t *testing.T) {
	mb, _ := newTestBuilder(t, MethodDecl{Name: "f"}, DefaultConfig())
	i32 := mb.Types().Primitive(BasicValueTypeInt32)
	i1 := mb.Types().Primitive(BasicValueTypeInt1)
	mb.DeclareVariable(Variable(1), i1)
	c := mb.ReadVariable(mb.CurrentBlock(), Variable(1))
	mb.DeclareVariable(Variable(2), i32)
	t1 := mb.ReadVariable(mb.CurrentBlock(), Variable(2))
	mb.DeclareVariable(Variable(3), i32)
	f1 := mb.ReadVariable(mb.CurrentBlock(), Variable(3))
	notC := mb.CreateUnaryArith(NoLocation, UnaryArithNot, c, ArithmeticFlagNone)

	result := mb.CreatePredicate(NoLocation, notC, t1, f1)

	def, ok := mb.definingInstruction(result)
	require.True(t, ok)
	require.Equal(t, OpPredicate, def.Opcode)
	require.Equal(t, c.ID(), def.arg0.ID(), "cond should be c, not Not(c)")
	require.Equal(t, f1.ID(), def.arg1.ID())
	require.Equal(t, t1.ID(), def.arg2.ID())
}

// TestSeedSSADiamond: a diamond CFG where only one arm overwrites the
// variable produces a real phi joining both incoming definitions.
func TestSeedSSADiamond(t *testing.T) {
	mb, _ := newTestBuilder(t, MethodDecl{Name: "f"}, DefaultConfig())
	i32 := mb.Types().Primitive(BasicValueTypeInt32)
	entry := mb.Entry()
	b1 := mb.CreateBlock("b1")
	b2 := mb.CreateBlock("b2")
	join := mb.CreateBlock("join")

	mb.DeclareVariable(Variable(1), i32)
	mb.DeclareVariable(Variable(2), mb.Types().Primitive(BasicValueTypeInt1))
	one := mb.CreateIntConstant(NoLocation, BasicValueTypeInt32, 1)
	mb.WriteVariable(entry, Variable(1), one)
	cond := mb.ReadVariable(entry, Variable(2))
	mb.CreateIfBranch(NoLocation, cond, b1, b2)

	mb.SetCurrentBlock(b1)
	two := mb.CreateIntConstant(NoLocation, BasicValueTypeInt32, 2)
	mb.WriteVariable(b1, Variable(1), two)
	mb.CreateBranch(NoLocation, join)
	mb.Seal(b1)

	mb.SetCurrentBlock(b2)
	mb.CreateBranch(NoLocation, join)
	mb.Seal(b2)

	mb.Seal(join)
	mb.SetCurrentBlock(join)
	joined := mb.ReadVariable(join, Variable(1))

	require.Len(t, join.Phis(), 1)
	phi := join.Phis()[0]
	require.Equal(t, phi.result.ID(), joined.ID())
	require.Len(t, phi.phiArgs, 2)
	for _, a := range phi.phiArgs {
		switch a.pred.ID() {
		case b1.ID():
			require.Equal(t, two.ID(), mb.resolve(a.value).ID())
		case b2.ID():
			require.Equal(t, one.ID(), mb.resolve(a.value).ID())
		default:
			t.Fatalf("unexpected phi predecessor %v", a.pred.ID())
		}
	}
}

// TestSeedTrivialPhiElimination: both diamond arms write the same constant,
// so the join phi must eliminate entirely and reads see the shared constant.
func TestSeedTrivialPhiElimination(t *testing.T) {
	mb, _ := newTestBuilder(t, MethodDecl{Name: "f"}, DefaultConfig())
	i32 := mb.Types().Primitive(BasicValueTypeInt32)
	entry := mb.Entry()
	b1 := mb.CreateBlock("b1")
	b2 := mb.CreateBlock("b2")
	join := mb.CreateBlock("join")

	mb.DeclareVariable(Variable(1), i32)
	mb.CreateBranch(NoLocation, b1)
	_ = entry

	mb.SetCurrentBlock(b1)
	seven1 := mb.CreateIntConstant(NoLocation, BasicValueTypeInt32, 7)
	mb.WriteVariable(b1, Variable(1), seven1)
	mb.CreateBranch(NoLocation, join)
	mb.Seal(b1)

	mb.SetCurrentBlock(b2)
	seven2 := mb.CreateIntConstant(NoLocation, BasicValueTypeInt32, 7)
	mb.WriteVariable(b2, Variable(1), seven2)
	mb.CreateBranch(NoLocation, join)
	mb.Seal(b2)

	mb.Seal(join)
	joined := mb.ReadVariable(join, Variable(1))

	require.Empty(t, join.Phis())
	require.Equal(t, seven1.ID(), seven2.ID(), "constant 7 should intern to one value")
	require.Equal(t, seven1.ID(), mb.resolve(joined).ID())
}

// TestSeedInlineRebuildFoldsConstantArgs: inlining a callee that adds its
// parameters at a call site where both arguments are already constants
// folds the whole callee body down to a single constant.
func TestSeedInlineRebuildFoldsConstantArgs(t *testing.T) {
	ctx := NewContext(newTestTypes())
	i32 := ctx.Types().Primitive(BasicValueTypeInt32)
	calleeDecl := MethodDecl{Name: "add", ParamTypes: []TypeRef{i32, i32}, ReturnType: i32}
	calleeBuilder, err := NewMethodBuilder(ctx, calleeDecl, DefaultConfig(), nil)
	require.NoError(t, err)
	sum := calleeBuilder.CreateBinaryArith(NoLocation, BinaryArithAdd,
		calleeBuilder.Params()[0].Value(), calleeBuilder.Params()[1].Value(), ArithmeticFlagNone)
	calleeBuilder.CreateReturn(NoLocation, []Value{sum})
	calleeBuilder.Seal(calleeBuilder.Entry())
	callee, err := calleeBuilder.Dispose()
	require.NoError(t, err)

	callerDecl := MethodDecl{Name: "caller"}
	caller, err := NewMethodBuilder(ctx, callerDecl, DefaultConfig(), nil)
	require.NoError(t, err)

	three := caller.CreateIntConstant(NoLocation, BasicValueTypeInt32, 3)
	four := caller.CreateIntConstant(NoLocation, BasicValueTypeInt32, 4)
	results := caller.Inline(NoLocation, callee, []Value{three, four})
	require.Len(t, results, 1)

	def, ok := caller.definingInstruction(results[0])
	require.True(t, ok)
	require.Equal(t, OpConstant, def.Opcode)
	require.Equal(t, uint64(7), def.raw)
}

// TestSeedArrayLinearizationOneDimension: a 1-D array index linearizes with
// stride 1, so ArrayAddress's offset traces directly back to the index
// value with no other index folded in.
func TestSeedArrayLinearizationOneDimension(t *testing.T) {
	mb, _ := newTestBuilder(t, MethodDecl{Name: "f"}, DefaultConfig())
	i32 := mb.Types().Primitive(BasicValueTypeInt32)
	ptr := mb.Types().CreatePointer(i32, AddressSpace(0))
	mb.DeclareVariable(Variable(1), ptr)
	base := mb.ReadVariable(mb.CurrentBlock(), Variable(1))
	mb.DeclareVariable(Variable(2), i32)
	idx := mb.ReadVariable(mb.CurrentBlock(), Variable(2))

	addr := mb.CreateArrayAddress(NoLocation, base, []int{8}, []Value{idx})

	def, ok := mb.definingInstruction(addr)
	require.True(t, ok)
	require.Equal(t, OpArrayAddress, def.Opcode)
	linear := def.args[0]
	ldef, ok := mb.definingInstruction(linear)
	require.True(t, ok, "stride-1 offset should trace back to a real instruction rooted at idx")
	require.Equal(t, idx.ID(), ldef.arg0.ID())
}

// TestSeedArrayLinearizationTwoDimensions: arrays are restricted to one
// dimension; a 2-D index list must raise UnsupportedOperation rather than
// silently linearizing, since multi-dimensional support is a declared gap,
// not a permanent design limit.
func TestSeedArrayLinearizationTwoDimensions(t *testing.T) {
	mb, _ := newTestBuilder(t, MethodDecl{Name: "f"}, DefaultConfig())
	i32 := mb.Types().Primitive(BasicValueTypeInt32)
	ptr := mb.Types().CreatePointer(i32, AddressSpace(0))
	mb.DeclareVariable(Variable(1), ptr)
	base := mb.ReadVariable(mb.CurrentBlock(), Variable(1))
	mb.DeclareVariable(Variable(2), i32)
	mb.DeclareVariable(Variable(3), i32)
	i := mb.ReadVariable(mb.CurrentBlock(), Variable(2))
	j := mb.ReadVariable(mb.CurrentBlock(), Variable(3))

	defer func() {
		r := recover()
		d, ok := r.(*Diagnostic)
		require.True(t, ok, "expected a *Diagnostic panic, got %#v", r)
		require.Equal(t, UnsupportedOperation, d.Kind)
	}()
	mb.CreateArrayAddress(NoLocation, base, []int{4, 5}, []Value{i, j})
}
