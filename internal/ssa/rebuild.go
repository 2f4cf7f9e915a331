package ssa

// This file implements rebuilding a finalized Method into a destination
// MethodBuilder by replaying its instructions through the construction API,
// rather than copying them verbatim. Replaying rather than copying means
// every peephole and fold re-triggers in the destination generation, so a
// clone of a method built before a parameter was specialized to a constant
// folds away branches the original could not. The block walk is a plain
// reverse-postorder DFS; no dominance computation is needed since the
// rebuild only remaps values and blocks, it never places anything at a
// dominance frontier.

// RebuildMode selects what a Rebuilder produces.
type RebuildMode byte

const (
	// RebuildModeClone produces an independent copy of the source method in
	// a fresh MethodBuilder, which the caller finishes and disposes itself
	// (e.g. after specializing a parameter).
	RebuildModeClone RebuildMode = iota + 1
	// RebuildModeInline splices the source method's body into an existing
	// MethodBuilder at its current block, converting every Return into an
	// edge to a synthesized continuation block.
	RebuildModeInline
)

type exitPair struct {
	block  *BasicBlock
	values []Value
}

// rebuilder carries the state of one rebuild pass: the source method being
// replayed, the destination builder receiving the replay, and the src-to-dst
// identity maps accumulated along the way.
type rebuilder struct {
	mode RebuildMode
	src  *Method
	dst  *MethodBuilder

	blockMap map[BasicBlockID]*BasicBlock
	valueMap map[ValueID]Value

	exits []exitPair
}

// computeRPO returns m's blocks in reverse postorder: a postorder DFS from
// the entry block, then reversed, so that (for a reducible CFG) every block
// is visited after all of its non-back-edge predecessors.
func computeRPO(m *Method) []*BasicBlock {
	visited := make(map[*BasicBlock]bool)
	var post []*BasicBlock
	var visit func(bb *BasicBlock)
	visit = func(bb *BasicBlock) {
		if visited[bb] {
			return
		}
		visited[bb] = true
		for _, s := range bb.Successors() {
			visit(s)
		}
		post = append(post, bb)
	}
	visit(m.Entry)
	rpo := make([]*BasicBlock, len(post))
	for i, bb := range post {
		rpo[len(post)-1-i] = bb
	}
	return rpo
}

// remapValue translates a source value into its destination counterpart,
// then follows the destination's alias chain. Source aliases are not
// consulted: a source value with no mapping is an invariant violation.
func (r *rebuilder) remapValue(v Value) Value {
	if !v.Valid() {
		return v
	}
	mapped, ok := r.valueMap[v.id]
	if !ok {
		invariantViolation(NoLocation, "rebuild: value %s has no destination mapping", v)
	}
	return r.dst.resolve(mapped)
}

func (r *rebuilder) remapValues(vs []Value) []Value {
	out := make([]Value, len(vs))
	for i, v := range vs {
		out[i] = r.remapValue(v)
	}
	return out
}

// run replays every block of r.src into r.dst, reusing any destination block
// already pre-seeded in r.blockMap, and seals every destination block it
// replayed into. It returns nothing; dst's current block is left at the
// last block replayed.
func (r *rebuilder) run() {
	order := computeRPO(r.src)

	for _, bb := range order {
		if _, ok := r.blockMap[bb.ID()]; !ok {
			r.blockMap[bb.ID()] = r.dst.CreateBlock(bb.Name())
		}
	}
	for _, bb := range order {
		dstBlock := r.blockMap[bb.ID()]
		for _, phi := range bb.Phis() {
			dstPhi := r.dst.createPhi(dstBlock, phi.typ)
			r.valueMap[phi.result.id] = dstPhi.result
		}
	}
	for _, bb := range order {
		r.dst.SetCurrentBlock(r.blockMap[bb.ID()])
		for _, instr := range bb.Instructions() {
			if instr.Opcode.isTerminator() {
				r.rebuildTerminator(instr)
				continue
			}
			r.rebuildInstruction(instr)
		}
	}
	for _, bb := range order {
		for _, phi := range bb.Phis() {
			dstPhi, _ := r.dst.definingInstruction(r.valueMap[phi.result.id])
			for _, a := range phi.phiArgs {
				dstPhi.phiArgs = append(dstPhi.phiArgs, phiArg{
					pred:  r.blockMap[a.pred.ID()],
					value: r.remapValue(a.value),
				})
			}
		}
	}
	for _, bb := range order {
		dstBlock := r.blockMap[bb.ID()]
		dstBlock.seal()
		for _, phi := range dstBlock.phis {
			r.dst.tryRemoveTrivialPhi(phi)
		}
	}
}

func (r *rebuilder) rebuildTerminator(instr *Instruction) {
	loc := instr.loc
	switch instr.Opcode {
	case OpReturn:
		values := r.remapValues(instr.args)
		if r.mode == RebuildModeClone {
			r.dst.CreateReturn(loc, values)
			return
		}
		current := r.dst.CurrentBlock()
		r.exits = append(r.exits, exitPair{block: current, values: values})
		placeholder := r.dst.allocInstruction()
		*placeholder = Instruction{Opcode: OpBuilderTerminator, loc: loc}
		current.setTerminator(placeholder)
	case OpBranch:
		r.dst.CreateBranch(loc, r.blockMap[instr.blockArg0.ID()])
	case OpIfBranch:
		r.dst.CreateIfBranch(loc, r.remapValue(instr.arg0), r.blockMap[instr.blockArg0.ID()], r.blockMap[instr.blockArg1.ID()])
	case OpSwitchBranch:
		targets := make([]*BasicBlock, len(instr.blockArgs)-1)
		for i, t := range instr.blockArgs[:len(instr.blockArgs)-1] {
			targets[i] = r.blockMap[t.ID()]
		}
		defaultTarget := r.blockMap[instr.blockArgs[len(instr.blockArgs)-1].ID()]
		r.dst.CreateSwitchBranch(loc, r.remapValue(instr.arg0), r.remapValues(instr.args), targets, defaultTarget)
	default:
		invariantViolation(loc, "rebuild: unexpected terminator opcode %s", instr.Opcode)
	}
}

func (r *rebuilder) rebuildInstruction(instr *Instruction) {
	loc := instr.loc
	dst := r.dst
	var result Value
	switch instr.Opcode {
	case OpConstant:
		result = dst.CreateConstant(loc, instr.bvt, instr.raw)
	case OpNull:
		result = dst.CreateNull(loc, instr.typ)
	case OpUndef:
		result = dst.CreateUndef(loc, instr.typ)
	case OpSizeOf:
		result = dst.CreateSizeOf(loc, instr.queryType)
	case OpWarpSize:
		result = dst.CreateWarpSize(loc)
	case OpLaneIdx:
		result = dst.CreateLaneIdx(loc)
	case OpGridDim:
		result = dst.CreateGridDim(loc, instr.dimAxis)
	case OpGroupDim:
		result = dst.CreateGroupDim(loc, instr.dimAxis)
	case OpUnaryArith:
		result = dst.CreateUnaryArith(loc, instr.unaryKind, r.remapValue(instr.arg0), instr.arithFlags)
	case OpBinaryArith:
		result = dst.CreateBinaryArith(loc, instr.binaryKind, r.remapValue(instr.arg0), r.remapValue(instr.arg1), instr.arithFlags)
	case OpTernaryArith:
		result = dst.CreateTernaryArith(loc, instr.ternaryKind, r.remapValue(instr.arg0), r.remapValue(instr.arg1), r.remapValue(instr.arg2), instr.arithFlags)
	case OpCompare:
		result = dst.CreateCompare(loc, instr.cmpKind, r.remapValue(instr.arg0), r.remapValue(instr.arg1), instr.cmpFlags)
	case OpConvert:
		result = dst.CreateConvert(loc, r.remapValue(instr.arg0), instr.typ)
	case OpPredicate:
		result = dst.CreatePredicate(loc, r.remapValue(instr.arg0), r.remapValue(instr.arg1), r.remapValue(instr.arg2))
	case OpGetField:
		result = dst.CreateGetField(loc, r.remapValue(instr.arg0), instr.fieldIndex)
	case OpSetField:
		result = dst.CreateSetField(loc, r.remapValue(instr.arg0), instr.fieldIndex, r.remapValue(instr.arg1))
	case OpCreateStructure:
		result = dst.CreateCreateStructure(loc, r.remapValues(instr.args))
	case OpCreateArray:
		elem, _, _ := dst.Types().AsArray(instr.typ)
		result = dst.CreateCreateArray(loc, elem, instr.dims)
	case OpGetArrayElement:
		result = dst.getArrayElementByLinearIndex(loc, r.remapValue(instr.arg0), r.remapValue(instr.args[0]))
	case OpSetArrayElement:
		result = dst.setArrayElementByLinearIndex(loc, r.remapValue(instr.arg0), r.remapValue(instr.args[0]), r.remapValue(instr.arg1))
	case OpArrayAddress:
		result = dst.arrayAddressByLinearIndex(loc, r.remapValue(instr.arg0), r.remapValue(instr.args[0]))
	case OpAtomicRMW:
		result = dst.CreateAtomicRMW(loc, r.remapValue(instr.arg0), r.remapValue(instr.arg1), instr.atomicKind, instr.arithFlags)
	case OpAtomicCAS:
		result = dst.CreateAtomicCAS(loc, r.remapValue(instr.arg0), r.remapValue(instr.arg1), r.remapValue(instr.arg2))
	case OpBarrier:
		dst.CreateBarrier(loc, instr.barrierKind)
		return
	case OpPredicateBarrier:
		result = dst.CreatePredicateBarrier(loc, r.remapValue(instr.arg0), instr.barrierKind)
	case OpBroadcast:
		result = dst.CreateBroadcast(loc, r.remapValue(instr.arg0), r.remapValue(instr.arg1), instr.warpKind)
	case OpWarpShuffle:
		result = dst.CreateWarpShuffle(loc, r.remapValue(instr.arg0), r.remapValue(instr.arg1), instr.warpKind)
	case OpSubWarpShuffle:
		result = dst.CreateSubWarpShuffle(loc, r.remapValue(instr.arg0), r.remapValue(instr.arg1), r.remapValue(instr.arg2), instr.warpKind)
	case OpWriteToOutput:
		dst.CreateWriteToOutput(loc, r.remapValue(instr.arg0), r.remapValue(instr.arg1))
		return
	case OpCall:
		result = dst.CreateCall(loc, instr.callee, r.remapValues(instr.args))
	default:
		invariantViolation(loc, "rebuild: unexpected opcode %s", instr.Opcode)
	}
	r.valueMap[instr.result.id] = result
}

// CloneMethod returns a fresh MethodBuilder whose blocks and values replay
// src's, in the same IR context. The caller finishes the clone (optionally
// calling ReplaceParameter to specialize it first) and disposes it itself.
func CloneMethod(ctx IRContext, src *Method, newDecl MethodDecl, cfg Config, logger Logger) (*MethodBuilder, error) {
	dst, err := NewMethodBuilder(ctx, newDecl, cfg, logger)
	if err != nil {
		return nil, err
	}
	r := &rebuilder{
		mode:     RebuildModeClone,
		src:      src,
		dst:      dst,
		blockMap: make(map[BasicBlockID]*BasicBlock),
		valueMap: make(map[ValueID]Value),
	}
	for i, p := range src.Params {
		r.valueMap[p.Value().ID()] = dst.params[i].value
	}
	r.blockMap[src.Entry.ID()] = dst.entry
	r.run()
	return dst, nil
}

// Inline splices callee's body into mb at its current block, with args
// bound to callee's parameters, and returns the value(s) callee's Return
// instructions produced (merged across every exit path via a phi in a
// synthesized continuation block, which becomes mb's new current block).
// mb's current block must not already be finalized.
func (mb *MethodBuilder) Inline(loc Location, callee *Method, args []Value) []Value {
	if len(args) != len(callee.Params) {
		invariantViolation(loc, "inline of %s given %d arguments, wants %d", callee.Decl, len(args), len(callee.Params))
	}
	r := &rebuilder{
		mode:     RebuildModeInline,
		src:      callee,
		dst:      mb,
		blockMap: make(map[BasicBlockID]*BasicBlock),
		valueMap: make(map[ValueID]Value),
	}
	for i, p := range callee.Params {
		r.valueMap[p.Value().ID()] = mb.resolve(args[i])
	}

	entryTarget := mb.CreateBlock("inline.entry")
	mb.CreateBranch(loc, entryTarget)
	mb.SetCurrentBlock(entryTarget)

	// Pre-seed the callee's entry block onto entryTarget so run()'s block
	// creation pass reuses it instead of minting a second, unreachable block:
	// entryTarget is already the sole successor of the branch above.
	r.blockMap[callee.Entry.ID()] = entryTarget

	r.run()

	continuation := mb.CreateBlock("inline.cont")
	var results []Value
	if len(r.exits) > 0 {
		numReturns := len(r.exits[0].values)
		results = make([]Value, numReturns)
		for slot := 0; slot < numReturns; slot++ {
			phi := mb.createPhi(continuation, r.exits[0].values[slot].Type())
			for _, e := range r.exits {
				phi.phiArgs = append(phi.phiArgs, phiArg{pred: e.block, value: e.values[slot]})
			}
			results[slot] = mb.tryRemoveTrivialPhi(phi)
		}
	}
	for _, e := range r.exits {
		branch := mb.allocInstruction()
		*branch = Instruction{Opcode: OpBranch, loc: loc, blockArg0: continuation}
		e.block.setTerminator(branch)
	}
	continuation.seal()
	mb.SetCurrentBlock(continuation)
	return results
}
