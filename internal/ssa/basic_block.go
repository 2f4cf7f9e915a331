package ssa

// BasicBlockID is the generation-scoped identity of a BasicBlock, stable for
// the lifetime of the MethodBuilder that created it.
type BasicBlockID uint32

// blockPredecessor records one incoming control-flow edge: the predecessor
// block and the terminator instruction inside it that targets us.
type blockPredecessor struct {
	block  *BasicBlock
	branch *Instruction
}

// BasicBlock is one node of a method's control-flow graph: an append-only
// list of phis followed by an append-only list of instructions, closed off
// by exactly one terminator once the block is finalized. Phis are kept in a
// list distinct from the general instruction list so that readers never need
// to scan past ordinary instructions to enumerate a block's incoming-value
// merges.
type BasicBlock struct {
	id   BasicBlockID
	name string
	loc  Location

	owner *MethodBuilder

	phis []*Instruction
	body []*Instruction
	term *Instruction

	preds      []blockPredecessor
	succs      []*BasicBlock
	singlePred *BasicBlock // cached fast path; nil once a block has != 1 predecessor

	sealed    bool
	processed bool // scratch flag for RPO/dominance/rebuild walks

	// Per-block SSA construction state (ssavars.go).
	lastDefs       map[Variable]Value
	incompletePhis map[Variable]*Instruction
}

// ID returns the block's identity.
func (bb *BasicBlock) ID() BasicBlockID { return bb.id }

// Name returns the block's debug name.
func (bb *BasicBlock) Name() string { return bb.name }

// Location returns where this block was created.
func (bb *BasicBlock) Location() Location { return bb.loc }

// IsSealed reports whether all of this block's predecessors are known.
func (bb *BasicBlock) IsSealed() bool { return bb.sealed }

// IsFinalized reports whether this block already has a real terminator.
func (bb *BasicBlock) IsFinalized() bool {
	return bb.term != nil && bb.term.Opcode != OpBuilderTerminator
}

// Predecessors returns the blocks with an edge into this one, in the order
// those edges were discovered.
func (bb *BasicBlock) Predecessors() []*BasicBlock {
	preds := make([]*BasicBlock, len(bb.preds))
	for i, p := range bb.preds {
		preds[i] = p.block
	}
	return preds
}

// Successors returns the blocks this block's terminator may transfer control
// to, in a stable order.
func (bb *BasicBlock) Successors() []*BasicBlock { return bb.succs }

// Phis returns this block's phi instructions, in creation order.
func (bb *BasicBlock) Phis() []*Instruction { return bb.phis }

// Instructions returns every non-phi instruction in this block in program
// order, including the terminator if one has been set.
func (bb *BasicBlock) Instructions() []*Instruction {
	if bb.term == nil {
		return bb.body
	}
	all := make([]*Instruction, 0, len(bb.body)+1)
	all = append(all, bb.body...)
	all = append(all, bb.term)
	return all
}

// Terminator returns the block's terminator, or nil if it has none yet.
func (bb *BasicBlock) Terminator() *Instruction { return bb.term }

// append places instr at the end of the block's non-phi instruction list. It
// must not be called with a terminator or phi opcode; use setTerminator and
// createPhi respectively.
func (bb *BasicBlock) append(instr *Instruction) {
	if instr.Opcode.isTerminator() {
		invariantViolation(instr.loc, "append called with terminator opcode %s; use setTerminator", instr.Opcode)
	}
	instr.parent = bb
	bb.body = append(bb.body, instr)
}

// addPhi places instr (which must have Opcode OpPhi) into the block's phi
// list. Phis are always read before ordinary instructions, regardless of
// their relative creation time.
func (bb *BasicBlock) addPhi(instr *Instruction) {
	instr.parent = bb
	bb.phis = append(bb.phis, instr)
}

// setTerminator closes the block off with instr and wires up the successor
// and predecessor edges it implies. It may be called exactly once per block
// with a real (non-placeholder) terminator.
func (bb *BasicBlock) setTerminator(instr *Instruction) {
	if bb.IsFinalized() {
		invariantViolation(instr.loc, "block %s already has a terminator", bb.name)
	}
	instr.parent = bb
	bb.term = instr
	if instr.Opcode == OpBuilderTerminator {
		return
	}
	for _, t := range instr.Targets() {
		bb.succs = append(bb.succs, t)
		t.addPredecessor(bb, instr)
	}
}

// addPredecessor records that pred transfers control to bb via branch. It is
// called only while bb is unsealed or while wiring a rebuild target that
// pre-creates all of its edges up front.
func (bb *BasicBlock) addPredecessor(pred *BasicBlock, branch *Instruction) {
	bb.preds = append(bb.preds, blockPredecessor{block: pred, branch: branch})
	if len(bb.preds) == 1 {
		bb.singlePred = pred
	} else {
		bb.singlePred = nil
	}
}

// seal marks bb as having no further predecessors to discover. It does not
// itself resolve incomplete phis; the SSA builder's sealBlock does that by
// walking bb.incompletePhis before it calls seal.
func (bb *BasicBlock) seal() { bb.sealed = true }
