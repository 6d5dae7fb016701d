package profile

import "github.com/gogpu/shaderc/ir"

// legacyUsage is the sm1-3 fixed-function register a semantic name binds
// to, grounded on hlsl_sm1_register_from_semantic's builtin-vs-auto-
// assigned distinction (spec.md §4.7 pass 3's "profile-specific usage
// table"). Only output semantics have fixed bindings under sm1-3: vertex
// shader inputs are routed through the vertex declaration and always
// auto-assigned, and pixel shader inputs before sm3 are simply the
// interpolator registers, so only the well-known dedicated output
// registers are modeled here; anything absent falls through to
// AllocateSemantics' auto-assigned cursor.
var legacyUsage = map[string]uint32{
	"POSITION": 0,
	"FOG":      1,
	"PSIZE":    2,
	"COLOR0":   3,
	"COLOR1":   4,
	"COLOR2":   5,
	"COLOR3":   6,
	"DEPTH":    7,
}

// LegacySemanticTable implements regalloc.SemanticTable for shader model
// 1-3 profiles (major version < 4): it binds the handful of dedicated
// output semantics and leaves everything else, including every input
// semantic, to auto-assignment.
type LegacySemanticTable struct{}

// Lookup implements regalloc.SemanticTable.
func (LegacySemanticTable) Lookup(name string, index uint32, isOutput bool) (ir.Register, bool) {
	if !isOutput {
		return ir.Register{}, false
	}
	id, ok := legacyUsage[name]
	if !ok {
		return ir.Register{}, false
	}
	return ir.Register{Class: 'o', ID: id, Writemask: ir.MaskAll, Allocated: true}, true
}
