package ssa

// This file implements the Braun, Buchwald, Hack SSA-construction algorithm
// ("Simple and Efficient Construction of Static Single Assignment Form"):
// reading a source-level variable looks up its last local definition or, if
// none exists in this block yet, recurses into predecessors, inserting an
// incomplete phi when a block's predecessor set isn't known yet and
// resolving it once the block is sealed.

// DeclareVariable registers v's type ahead of any WriteVariable/ReadVariable
// call involving it. A variable must be declared exactly once.
func (mb *MethodBuilder) DeclareVariable(v Variable, typ TypeRef) {
	if _, exists := mb.variableTypes[v]; exists {
		invariantViolation(NoLocation, "variable %s declared twice", v)
	}
	mb.variableTypes[v] = typ
}

// WriteVariable records that v's current value in bb is value.
func (mb *MethodBuilder) WriteVariable(bb *BasicBlock, v Variable, value Value) {
	bb.lastDefs[v] = mb.resolve(value)
}

// ReadVariable returns v's current value as observed from bb, inserting phis
// as needed to merge definitions along bb's predecessor paths.
func (mb *MethodBuilder) ReadVariable(bb *BasicBlock, v Variable) Value {
	if val, ok := bb.lastDefs[v]; ok {
		return mb.resolve(val)
	}
	typ, ok := mb.variableTypes[v]
	if !ok {
		invariantViolation(NoLocation, "read of undeclared variable %s", v)
	}
	return mb.readVariableRecursive(bb, v, typ)
}

func (mb *MethodBuilder) readVariableRecursive(bb *BasicBlock, v Variable, typ TypeRef) Value {
	var val Value
	switch {
	case !bb.sealed:
		// The predecessor set isn't complete yet: park an incomplete phi and
		// resolve its operands once sealBlock runs.
		phi := mb.createPhi(bb, typ)
		bb.incompletePhis[v] = phi
		val = phi.result
	case len(bb.preds) == 1:
		val = mb.ReadVariable(bb.preds[0].block, v)
	default:
		// Break a potential cycle (e.g. a loop header reading a variable
		// defined only inside the loop) by writing the phi's own result
		// before recursing into predecessors.
		phi := mb.createPhi(bb, typ)
		mb.WriteVariable(bb, v, phi.result)
		val = mb.addPhiOperands(bb, v, phi)
	}
	mb.WriteVariable(bb, v, val)
	return val
}

// addPhiOperands fills in phi's incoming-value list from bb's (now fully
// known) predecessors and immediately attempts trivial-phi elimination.
func (mb *MethodBuilder) addPhiOperands(bb *BasicBlock, v Variable, phi *Instruction) Value {
	for _, pred := range bb.preds {
		arg := mb.ReadVariable(pred.block, v)
		phi.phiArgs = append(phi.phiArgs, phiArg{pred: pred.block, value: arg})
	}
	return mb.tryRemoveTrivialPhi(phi)
}

// sealBlock marks bb as having no further predecessors to discover and
// resolves every phi that was left incomplete while it was open.
func sealBlock(mb *MethodBuilder, bb *BasicBlock) {
	for v, phi := range bb.incompletePhis {
		mb.addPhiOperands(bb, v, phi)
	}
	bb.incompletePhis = make(map[Variable]*Instruction)
	bb.seal()
}

// createPhi allocates a fresh, argument-less phi in bb, for the automatic
// incomplete-phi mechanism ReadVariable drives.
func (mb *MethodBuilder) createPhi(bb *BasicBlock, typ TypeRef) *Instruction {
	return mb.CreatePhi(NoLocation, bb, typ, 0).instr
}

// PhiBuilder accumulates a phi's incoming (predecessor, value) arguments,
// anchored at the head of the block it was created in (phis are always
// conceptually first). It is the explicit counterpart to the automatic
// incomplete-phi mechanism ReadVariable drives, for a caller that tracks its
// own predecessor discovery and wants to add phi arguments directly.
type PhiBuilder struct {
	mb    *MethodBuilder
	bb    *BasicBlock
	instr *Instruction
}

// CreatePhi starts a phi builder of type typ anchored at the head of bb,
// with capacity hint cap for the number of arguments it will receive.
func (mb *MethodBuilder) CreatePhi(loc Location, bb *BasicBlock, typ TypeRef, cap int) *PhiBuilder {
	instr := mb.allocInstruction()
	*instr = Instruction{Opcode: OpPhi, loc: loc, typ: typ, phiArgs: make([]phiArg, 0, cap)}
	v := mb.mintValue(typ)
	instr.result = v
	mb.valueDefs[v.id] = instr
	bb.addPhi(instr)
	return &PhiBuilder{mb: mb, bb: bb, instr: instr}
}

// AddArgument records value as the incoming definition along pred, a
// predecessor of the phi's block. If the phi's type is primitive and
// differs from value's type, value is converted in pred's own builder
// context before being recorded, mirroring setup_phi_arguments.
func (b *PhiBuilder) AddArgument(pred *BasicBlock, value Value) *PhiBuilder {
	value = b.mb.resolve(value)
	if bvt, ok := b.mb.Types().AsPrimitive(b.instr.typ); ok {
		if vbvt, vok := b.mb.Types().AsPrimitive(value.Type()); vok && vbvt != bvt {
			prevBlock := b.mb.current
			b.mb.current = pred
			value = b.mb.CreateConvert(b.instr.loc, value, b.instr.typ)
			b.mb.current = prevBlock
		}
	}
	b.instr.phiArgs = append(b.instr.phiArgs, phiArg{pred: pred, value: value})
	return b
}

// Seal finishes the phi: once every predecessor has an argument, it attempts
// trivial-phi elimination (a phi whose arguments all equal the same value,
// or the phi itself, is replaced by that value) and returns the result.
func (b *PhiBuilder) Seal() Value {
	if len(b.instr.phiArgs) != len(b.bb.preds) {
		invariantViolation(b.instr.loc, "phi sealed with %d arguments, block has %d predecessors", len(b.instr.phiArgs), len(b.bb.preds))
	}
	return b.mb.tryRemoveTrivialPhi(b.instr)
}

// tryRemoveTrivialPhi implements the paper's trivial-phi elimination: a phi
// that (ignoring references to itself) names only one distinct incoming
// value is redundant and is replaced everywhere by that value. Eliminating
// one phi can make another phi that used it trivial too, so elimination
// recurses into phi's users.
func (mb *MethodBuilder) tryRemoveTrivialPhi(phi *Instruction) Value {
	var same Value
	for _, a := range phi.phiArgs {
		v := mb.resolve(a.value)
		if v.ID() == phi.result.ID() || (same.Valid() && v.ID() == same.ID()) {
			continue // ignore self-reference and repeats of the same value
		}
		if same.Valid() {
			return phi.result // merges >1 distinct value: genuinely not trivial
		}
		same = v
	}
	if !same.Valid() {
		// Every operand was a self-reference: phi is unreachable from any
		// real definition (e.g. a variable read before ever being written
		// along every path). Undef is the closest honest answer.
		same = mb.CreateUndef(NoLocation, phi.typ)
	}

	users := mb.phiUsers(phi)
	removePhiFromBlock(phi.parent, phi)
	mb.alias(phi.result, same)

	for _, userPhi := range users {
		mb.tryRemoveTrivialPhi(userPhi)
	}
	return same
}

// phiUsers returns every other phi in the method whose operand list
// references phi's result, pre-elimination.
func (mb *MethodBuilder) phiUsers(phi *Instruction) []*Instruction {
	var users []*Instruction
	for _, bb := range mb.blocks {
		for _, p := range bb.phis {
			if p == phi {
				continue
			}
			for _, a := range p.phiArgs {
				if a.value.ID() == phi.result.ID() {
					users = append(users, p)
					break
				}
			}
		}
	}
	return users
}

func removePhiFromBlock(bb *BasicBlock, phi *Instruction) {
	for i, p := range bb.phis {
		if p == phi {
			bb.phis = append(bb.phis[:i], bb.phis[i+1:]...)
			return
		}
	}
}
