package ssa

// This file covers terminator construction. Edges carry no explicit value
// arguments: cross-block value flow is the SSA variable algorithm's job
// (ssavars.go), which reads the predecessor list a terminator installs via
// BasicBlock.setTerminator and resolves each phi's per-predecessor argument
// itself. This is classical Braun-style construction, where values flow
// through named variables rather than explicit block parameters.

// CreateReturn terminates the current block by returning values to the
// method's caller.
func (mb *MethodBuilder) CreateReturn(loc Location, values []Value) {
	resolved := make([]Value, len(values))
	for i, v := range values {
		resolved[i] = mb.resolve(v)
	}
	instr := mb.allocInstruction()
	*instr = Instruction{Opcode: OpReturn, loc: loc, args: resolved}
	mb.current.setTerminator(instr)
}

// CreateBranch terminates the current block with an unconditional jump to
// target.
func (mb *MethodBuilder) CreateBranch(loc Location, target *BasicBlock) {
	instr := mb.allocInstruction()
	*instr = Instruction{Opcode: OpBranch, loc: loc, blockArg0: target}
	mb.current.setTerminator(instr)
}

// CreateIfBranch terminates the current block with a two-way branch on
// cond. A constant cond folds immediately to a CreateBranch of the live
// target, so the other target never gains this block as a predecessor.
func (mb *MethodBuilder) CreateIfBranch(loc Location, cond Value, whenTrue, whenFalse *BasicBlock) {
	cond = mb.resolve(cond)
	if raw, _, ok := asConstant(mb, cond); ok {
		if raw != 0 {
			mb.CreateBranch(loc, whenTrue)
		} else {
			mb.CreateBranch(loc, whenFalse)
		}
		return
	}
	instr := mb.allocInstruction()
	*instr = Instruction{Opcode: OpIfBranch, loc: loc, arg0: cond, blockArg0: whenTrue, blockArg1: whenFalse}
	mb.current.setTerminator(instr)
}

// CreateSwitchBranch terminates the current block with a multi-way branch:
// selector is compared against each of values in order, branching to the
// corresponding entry of targets on a match or to defaultTarget otherwise. A
// single-case switch collapses to CreateIfBranch; a constant selector
// folds directly to the matching CreateBranch.
func (mb *MethodBuilder) CreateSwitchBranch(loc Location, selector Value, values []Value, targets []*BasicBlock, defaultTarget *BasicBlock) {
	selector = mb.resolve(selector)
	if len(values) != len(targets) {
		invariantViolation(loc, "SwitchBranch value/target count mismatch: %d vs %d", len(values), len(targets))
	}

	if len(targets) == 1 {
		cond := mb.CreateCompare(loc, CompareEqual, selector, values[0], CompareFlags(0))
		mb.CreateIfBranch(loc, cond, targets[0], defaultTarget)
		return
	}

	if sraw, sbvt, ok := asConstant(mb, selector); ok {
		for i, v := range values {
			if vraw, _, vok := asConstant(mb, v); vok && foldCompare(CompareEqual, sbvt, sraw, vraw, 0) {
				mb.CreateBranch(loc, targets[i])
				return
			}
		}
		mb.CreateBranch(loc, defaultTarget)
		return
	}

	resolvedVals := make([]Value, len(values))
	for i, v := range values {
		resolvedVals[i] = mb.resolve(v)
	}
	blockArgs := append(append([]*BasicBlock{}, targets...), defaultTarget)
	instr := mb.allocInstruction()
	*instr = Instruction{Opcode: OpSwitchBranch, loc: loc, arg0: selector, args: resolvedVals, blockArgs: blockArgs}
	mb.current.setTerminator(instr)
}
