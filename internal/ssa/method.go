package ssa

import "fmt"

// MethodBuilder assembles one method's control-flow graph and value space.
// It owns the monotonic ValueID/BasicBlockID counters for its generation, the
// block list, the parameter list, and the global value-replacement map that
// parameter replacement and phi simplification write into. Method assembly and value
// construction are split across this file and the builder_*.go files, all
// bridged by MethodBuilder.
type MethodBuilder struct {
	ctx    IRContext
	decl   MethodDecl
	config Config
	logger Logger

	nextValueID ValueID
	nextBlockID BasicBlockID

	params []*Parameter
	entry  *BasicBlock
	blocks []*BasicBlock
	current *BasicBlock

	interner *interner

	instrPool pool[Instruction]
	blockPool pool[BasicBlock]

	// aliases is the global value-replacement map: reads of a key resolve to
	// its value instead, transitively. Written by ReplaceParameter and by
	// trivial phi elimination.
	aliases map[ValueID]Value

	// valueDefs maps a value back to the instruction that produced it, so
	// folding and field-chain resolution can inspect a value's definition.
	// Phis are recorded too (the rebuilder looks them up here); parameters
	// are absent, so looking one up finds nothing.
	valueDefs map[ValueID]*Instruction

	// variableTypes records the declared type of every Variable the SSA
	// builder (ssavars.go) has been told about, so ReadVariable does not
	// need its caller to repeat the type on every call.
	variableTypes map[Variable]TypeRef

	disposed bool
}

// NewMethodBuilder declares decl against ctx and returns a fresh builder for
// it, or an error if decl names a method that was already finalized.
func NewMethodBuilder(ctx IRContext, decl MethodDecl, cfg Config, logger Logger) (*MethodBuilder, error) {
	if logger == nil {
		logger = noopLogger{}
	}
	method, created := ctx.DeclareMethod(decl)
	if !created && method.Entry != nil {
		return nil, &Diagnostic{Kind: InvariantViolation, Message: "method already finalized: " + decl.String()}
	}
	mb := &MethodBuilder{
		ctx:           ctx,
		decl:          decl,
		config:        cfg,
		logger:        logger,
		aliases:       make(map[ValueID]Value),
		valueDefs:     make(map[ValueID]*Instruction),
		variableTypes: make(map[Variable]TypeRef),
	}
	mb.interner = newInterner()
	mb.instrPool = newPool[Instruction](ctx.CurrentGeneration())
	mb.blockPool = newPool[BasicBlock](ctx.CurrentGeneration())
	mb.entry = mb.CreateBlock("entry")
	mb.current = mb.entry
	for i, pt := range decl.ParamTypes {
		p := &Parameter{index: i, typ: pt, name: fmt.Sprintf("p%d", i)}
		p.value = mb.mintValue(pt)
		mb.params = append(mb.params, p)
	}
	logger.Tracef("declared method %s with %d parameters", decl, len(mb.params))
	return mb, nil
}

// Decl returns the method signature this builder is assembling.
func (mb *MethodBuilder) Decl() MethodDecl { return mb.decl }

// Generation returns the generation this builder's values and blocks are
// stamped with, as recorded by its instruction pool.
func (mb *MethodBuilder) Generation() Generation { return mb.instrPool.Generation() }

// Config returns the policy configuration this builder resolves its open
// construction choices against.
func (mb *MethodBuilder) Config() Config { return mb.config }

// Logger returns the trace logger this builder was constructed with.
func (mb *MethodBuilder) Logger() Logger { return mb.logger }

// Types returns the Type context backing this builder's IRContext.
func (mb *MethodBuilder) Types() TypeContext { return mb.ctx.Types() }

// Params returns the method's parameter list in declaration order.
func (mb *MethodBuilder) Params() []*Parameter { return mb.params }

// Entry returns the method's entry block.
func (mb *MethodBuilder) Entry() *BasicBlock { return mb.entry }

// Blocks returns every block created so far, in creation order.
func (mb *MethodBuilder) Blocks() []*BasicBlock { return mb.blocks }

// CurrentBlock returns the block new instructions are appended to by the
// construction API methods that don't take an explicit block.
func (mb *MethodBuilder) CurrentBlock() *BasicBlock { return mb.current }

// SetCurrentBlock redirects subsequent construction-API calls to bb.
func (mb *MethodBuilder) SetCurrentBlock(bb *BasicBlock) { mb.current = bb }

// CreateBlock allocates a new, empty, unsealed block owned by this builder.
func (mb *MethodBuilder) CreateBlock(name string) *BasicBlock {
	id := mb.nextBlockID
	mb.nextBlockID++
	bb := mb.allocBlock()
	*bb = BasicBlock{
		id:             id,
		name:           name,
		owner:          mb,
		lastDefs:       make(map[Variable]Value),
		incompletePhis: make(map[Variable]*Instruction),
	}
	mb.blocks = append(mb.blocks, bb)
	return bb
}

// allocInstruction returns a fresh, zero-valued Instruction from this
// builder's arena, to be filled in by the caller.
func (mb *MethodBuilder) allocInstruction() *Instruction {
	return mb.instrPool.Allocate()
}

// allocBlock returns a fresh, zero-valued BasicBlock from this builder's
// arena, to be filled in by the caller.
func (mb *MethodBuilder) allocBlock() *BasicBlock {
	return mb.blockPool.Allocate()
}

// ReplaceParameter marks the idx'th parameter to be dropped on finalization,
// with every remaining read of it redirected to with. Used when a caller
// specializes a parameter to a known constant before inlining.
func (mb *MethodBuilder) ReplaceParameter(idx int, with Value) {
	p := mb.params[idx]
	p.replacedBy = &with
	mb.alias(p.value, with)
}

// mintValue allocates a fresh, never-before-used Value of type typ in this
// builder's generation.
func (mb *MethodBuilder) mintValue(typ TypeRef) Value {
	id := mb.nextValueID
	mb.nextValueID++
	return Value{id: id, typ: typ}
}

// defineResult mints a fresh value of type typ, binds it as instr's result,
// and records instr as its defining instruction.
func (mb *MethodBuilder) defineResult(instr *Instruction, typ TypeRef) Value {
	v := mb.mintValue(typ)
	instr.typ = typ
	instr.result = v
	mb.valueDefs[v.id] = instr
	return v
}

// definingInstruction returns the instruction that produced v, if v was
// produced by one (a phi included; a parameter has none).
func (mb *MethodBuilder) definingInstruction(v Value) (*Instruction, bool) {
	i, ok := mb.valueDefs[v.id]
	return i, ok
}

// alias records that reads of old should be redirected to with. The
// redirection is resolved lazily, at the next read of old, rather than by
// eagerly rewriting every existing operand list.
func (mb *MethodBuilder) alias(old, with Value) {
	if old.id == with.id {
		return
	}
	mb.aliases[old.id] = with
}

// resolve follows the alias chain starting at v to the value current readers
// should observe. It panics via invariantViolation if the chain does not
// terminate within a bounded number of hops, which can only happen if two
// aliases were recorded so as to cycle, a bug in this package.
func (mb *MethodBuilder) resolve(v Value) Value {
	for hops := 0; hops <= len(mb.aliases)+1; hops++ {
		r, ok := mb.aliases[v.id]
		if !ok || r.id == v.id {
			return v
		}
		v = r
	}
	invariantViolation(NoLocation, "alias cycle detected resolving %s", v)
	return v
}

// Seal marks bb as having no further predecessors to discover and resolves
// any phis that were left incomplete while it was open.
func (mb *MethodBuilder) Seal(bb *BasicBlock) {
	sealBlock(mb, bb)
}

// Dispose finalizes this builder's product: it requires every block to have
// been sealed and to have a real terminator, runs the configured optimization
// sweeps, re-indexes surviving parameters, and registers the finished method
// with the IR context. The builder must not be used again afterward.
func (mb *MethodBuilder) Dispose() (*Method, error) {
	if mb.disposed {
		invariantViolation(NoLocation, "method builder for %s disposed twice", mb.decl)
	}
	for _, bb := range mb.blocks {
		if !bb.sealed {
			invariantViolation(NoLocation, "block %s finalized while unsealed", bb.name)
		}
		if !bb.IsFinalized() {
			invariantViolation(NoLocation, "block %s finalized without a terminator", bb.name)
		}
	}
	if mb.config.RunDeadBlockSweep {
		runDeadBlockSweep(mb)
	}
	if mb.config.RunDeadCodeSweep {
		runDeadCodeSweep(mb)
	}

	survivors := mb.params[:0:0]
	for _, p := range mb.params {
		if p.replacedBy == nil {
			p.index = len(survivors)
			survivors = append(survivors, p)
		}
	}
	mb.params = survivors

	method, err := mb.ctx.FinalizeMethodBuilder(mb.decl, mb.entry, mb.blocks, mb.params)
	if err != nil {
		return nil, err
	}
	mb.disposed = true
	mb.logger.Tracef("finalized method %s: %d blocks, %d parameters", mb.decl, len(mb.blocks), len(mb.params))
	return method, nil
}
