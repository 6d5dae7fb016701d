package ir

import (
	"github.com/gogpu/shaderc/symbols"
	"github.com/gogpu/shaderc/types"
)

// Context is the top-level IR arena for one compilation: it owns the
// global scope, the function overload table, every declared variable and
// constant buffer, the extern-variable list, and the node arena, per
// spec.md §5. There are no ownership cycles between nodes (DESIGN NOTES
// "cyclic IR references") — Context.arena is the sole owner of every
// *Node; Block and Payload fields only ever hold non-owning references
// into it.
type Context struct {
	Global    *symbols.Scope
	Functions *symbols.FunctionTable

	// Variables lists every declared global (uniform/extern/in/out/static)
	// in declaration order.
	Variables []*Variable
	// Buffers lists every constant buffer, in declaration order.
	Buffers []*ConstantBuffer
	// Externs lists variables with StorageExtern, which must be emitted
	// even when DCE finds them unused (spec.md §4.5 DCE edge case).
	Externs []*Variable

	// EntryName is the selected entry point's function name.
	EntryName string
	// Params is the entry point's formal parameter list, in declaration
	// order, used by semantic lowering to generate per-parameter copies.
	Params []*Variable
	// ReturnType and ReturnSemantic describe the entry point's return
	// value, used by append_output_copy.
	ReturnType     *types.Type
	ReturnSemantic Semantic
	// ReturnTemp, when set, is the local variable the function body
	// stores its return value into before the trailing return jump;
	// lowering appends the copy from it to the semantic-bound external
	// return half.
	ReturnTemp *Variable

	// Body is the entry point's lowered instruction stream.
	Body *Block

	arena []*Node
}

// NewContext returns an empty Context with a fresh global scope and
// function table, ready for parsing to populate.
func NewContext() *Context {
	return &Context{
		Global:    symbols.NewScope(nil),
		Functions: symbols.NewFunctionTable(),
		Body:      NewBlock(),
	}
}

// NewNode allocates a node owned by c's arena. Passes must use this (or
// a Block's Append/InsertBefore/InsertAfter, which link but do not
// allocate) rather than constructing *Node directly, so every live node
// is reachable from c.Nodes() for debug dumping and arena bookkeeping.
func (c *Context) NewNode(kind Kind, rt *types.Type, p Payload) *Node {
	n := &Node{Kind: kind, ResultType: rt, Payload: p}
	c.arena = append(c.arena, n)
	return n
}

// Nodes returns every node ever allocated through c, including ones no
// longer reachable from Body (already-detached dead nodes awaiting
// arena compaction).
func (c *Context) Nodes() []*Node {
	return c.arena
}

// Compact drops every arena entry that is not reachable from Body,
// whether or not it still has uses, typically called once after
// dead-code elimination has run to a fixed point.
func (c *Context) Compact() {
	reachable := make(map[*Node]bool, len(c.arena))
	c.Body.Walk(func(n *Node) bool {
		reachable[n] = true
		return true
	})
	kept := c.arena[:0]
	for _, n := range c.arena {
		if reachable[n] {
			kept = append(kept, n)
		}
	}
	c.arena = kept
}

// DeclareVariable registers v as a global-scope declaration, adding it to
// Externs too when it carries StorageExtern.
func (c *Context) DeclareVariable(v *Variable) {
	c.Variables = append(c.Variables, v)
	if v.Storage&StorageExtern != 0 {
		c.Externs = append(c.Externs, v)
	}
}

// DeclareBuffer registers a constant buffer.
func (c *Context) DeclareBuffer(b *ConstantBuffer) {
	c.Buffers = append(c.Buffers, b)
}

// DeclareParam appends p to the entry point's formal parameter list.
func (c *Context) DeclareParam(p *Variable) {
	p.IsParam = true
	c.Params = append(c.Params, p)
}
