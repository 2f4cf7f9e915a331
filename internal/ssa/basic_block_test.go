package ssa

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBasicBlockSingleSuccessorBranch(t *testing.T) {
	mb, _ := newTestBuilder(t, MethodDecl{Name: "f"}, DefaultConfig())
	target := mb.CreateBlock("target")
	mb.Seal(target)

	entry := mb.CurrentBlock()
	require.False(t, entry.IsFinalized())
	mb.CreateBranch(NoLocation, target)
	require.True(t, entry.IsFinalized())

	require.Equal(t, []*BasicBlock{target}, entry.Successors())
	require.Equal(t, []*BasicBlock{entry}, target.Predecessors())
	require.Same(t, entry, target.singlePred)
}

func TestBasicBlockAppendRejectsTerminator(t *testing.T) {
	mb, _ := newTestBuilder(t, MethodDecl{Name: "f"}, DefaultConfig())
	bb := mb.CurrentBlock()
	instr := mb.allocInstruction()
	*instr = Instruction{Opcode: OpReturn, loc: NoLocation}

	require.Panics(t, func() { bb.append(instr) })
}

func TestBasicBlockSetTerminatorTwiceViolatesInvariant(t *testing.T) {
	mb, _ := newTestBuilder(t, MethodDecl{Name: "f"}, DefaultConfig())
	target := mb.CreateBlock("target")
	mb.Seal(target)
	mb.CreateBranch(NoLocation, target)

	require.Panics(t, func() { mb.CreateBranch(NoLocation, target) })
}
