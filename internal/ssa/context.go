package ssa

import (
	"github.com/sasha-s/go-deadlock"
	"github.com/segmentio/ksuid"
)

// Generation is a monotonic counter stamped into every Method and into each
// builder's allocation pools. Values themselves carry no generation tag.
type Generation uint64

// Marker is a monotonically increasing integer handed out by
// IRContext.NewNodeMarker, used by the SSA builder to break recursion when
// walking predecessor cycles.
type Marker int64

// MethodHandle is the stable identity of a declared Method. It is minted as
// a KSUID rather than a bare incrementing integer so that handles stay
// stable, sortable by creation time, and safe to hand across process/context
// boundaries (e.g. a cross-context import performed by the rebuilder).
type MethodHandle struct{ id ksuid.KSUID }

// String implements fmt.Stringer.
func (h MethodHandle) String() string { return h.id.String() }

// Valid reports whether h was actually minted by DeclareMethod.
func (h MethodHandle) Valid() bool { return h.id != ksuid.Nil }

// Method is an IR method owned by the IR context registry. Its parameter
// list is immutable after the owning MethodBuilder is disposed.
type Method struct {
	Handle     MethodHandle
	Generation Generation
	Decl       MethodDecl
	Params     []*Parameter
	Entry      *BasicBlock
	Blocks     []*BasicBlock
}

// Parameter is a method-level input, indexed and belonging to the method's
// entry block.
type Parameter struct {
	index int
	typ   TypeRef
	name  string
	value Value
	// replacedBy is set when a MethodBuilder.ReplaceParameter call marks
	// this parameter for removal on finalization.
	replacedBy *Value
}

// Index returns p's position in its method's parameter list.
func (p *Parameter) Index() int { return p.index }

// Type returns p's declared type.
func (p *Parameter) Type() TypeRef { return p.typ }

// Name returns p's debug name.
func (p *Parameter) Name() string { return p.name }

// Value returns the Value readers should use to reference this parameter.
func (p *Parameter) Value() Value { return p.value }

// IRContext is the narrow interface this package consumes from the
// surrounding repository's method registry. It owns method identities,
// generations, and the marker sequence used by the SSA builder, and is
// safe for concurrent use by a bounded number of writers.
type IRContext interface {
	// DeclareMethod interns a method by (name, signature): if an equal
	// declaration already exists it is returned with created=false,
	// otherwise a fresh, entry-less Method is registered and created=true.
	DeclareMethod(decl MethodDecl) (method *Method, created bool)
	// CurrentGeneration returns the generation newly started builders
	// should stamp their values with.
	CurrentGeneration() Generation
	// NewNodeMarker returns a marker distinct from every marker returned so
	// far by this IRContext.
	NewNodeMarker() Marker
	// FinalizeMethodBuilder freezes a MethodBuilder's product into the
	// registry, replacing the placeholder Method created by DeclareMethod.
	FinalizeMethodBuilder(decl MethodDecl, entry *BasicBlock, blocks []*BasicBlock, params []*Parameter) (*Method, error)
	// Types exposes the Type context this IRContext was constructed with.
	Types() TypeContext
}

// Context is the default IRContext implementation: a single mutex around
// the registry's mutable maps is sufficient here since method declaration
// and finalization are rare compared to value construction within one
// method, which never touches the registry. The mutex is go-deadlock's
// rather than sync's so that a future regression introducing a
// construction-time deadlock fails loudly in tests instead of hanging CI.
type Context struct {
	mu deadlock.Mutex

	types      TypeContext
	generation Generation
	nextMarker Marker
	methods    map[string]*Method // keyed by MethodDecl.String()
}

// NewContext returns a fresh Context bound to the given Type context.
func NewContext(types TypeContext) *Context {
	return &Context{types: types, methods: make(map[string]*Method)}
}

// Types implements IRContext.Types.
func (c *Context) Types() TypeContext { return c.types }

// CurrentGeneration implements IRContext.CurrentGeneration.
func (c *Context) CurrentGeneration() Generation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// NewNodeMarker implements IRContext.NewNodeMarker.
func (c *Context) NewNodeMarker() Marker {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextMarker++
	return c.nextMarker
}

// DeclareMethod implements IRContext.DeclareMethod.
func (c *Context) DeclareMethod(decl MethodDecl) (*Method, bool) {
	key := decl.String()
	c.mu.Lock()
	defer c.mu.Unlock()
	if m, ok := c.methods[key]; ok {
		return m, false
	}
	m := &Method{
		Handle:     MethodHandle{id: ksuid.New()},
		Generation: c.generation,
		Decl:       decl,
	}
	c.methods[key] = m
	return m, true
}

// FinalizeMethodBuilder implements IRContext.FinalizeMethodBuilder.
func (c *Context) FinalizeMethodBuilder(decl MethodDecl, entry *BasicBlock, blocks []*BasicBlock, params []*Parameter) (*Method, error) {
	key := decl.String()
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.methods[key]
	if !ok {
		return nil, &Diagnostic{Kind: InvariantViolation, Message: "finalize of an undeclared method: " + decl.String()}
	}
	m.Entry = entry
	m.Blocks = blocks
	m.Params = params
	c.generation++
	return m, nil
}

// LookupMethod returns the registered Method for decl, if any. It is
// provided for callers (e.g. the rebuilder's method-mapping lookups, or
// tests) that need read access outside of DeclareMethod's create-or-return
// semantics.
func (c *Context) LookupMethod(decl MethodDecl) (*Method, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.methods[decl.String()]
	return m, ok
}
