package regalloc

import "github.com/gogpu/shaderc/ir"

// SemanticTable looks up the predefined register bound to an input or
// output semantic name under a particular profile, per spec.md §4.7
// pass 3 ("map its semantic name to either a predefined register via a
// profile-specific usage table, or an auto-assigned index"). The
// profile catalog supplies concrete implementations; passing a nil
// table here means every semantic falls through to auto-assignment.
type SemanticTable interface {
	// Lookup returns the predefined register for name/index (e.g. "SV_Position"),
	// and true if the profile pins one. isOutput distinguishes the input
	// and output usage tables, which are independent per spec.md §6.1.
	Lookup(name string, index uint32, isOutput bool) (ir.Register, bool)
}

// AllocateSemantics implements spec.md §4.7 pass 3: every input and
// output semantic variable is given either the profile's predefined
// register for its semantic name, or the next auto-assigned index in
// its own input/output cursor.
func AllocateSemantics(ctx *ir.Context, table SemanticTable) {
	var inputCursor, outputCursor uint32

	assign := func(v *ir.Variable, isOutput bool) {
		if v.Reg.Allocated {
			return
		}
		// An unused semantic (never read on input, never written on
		// output) gets no register at all, mirroring
		// allocate_semantic_register's early return.
		if (!isOutput && v.LastRead == 0) || (isOutput && v.FirstWrite == 0) {
			return
		}
		if table != nil {
			if reg, ok := table.Lookup(v.Semantic.Name, v.Semantic.Index, isOutput); ok {
				v.Reg = reg
				return
			}
		}
		cursor := &inputCursor
		class := byte('v')
		if isOutput {
			cursor = &outputCursor
			class = 'o'
		}
		width := v.Type.ComponentCount()
		if width == 0 || width > 4 {
			width = 4
		}
		v.Reg = ir.Register{Class: class, ID: *cursor, Writemask: (1 << width) - 1, Allocated: true}
		*cursor++
	}

	for _, v := range ctx.Variables {
		if v.IsInputSemantic {
			assign(v, false)
		}
		if v.IsOutputSemantic {
			assign(v, true)
		}
	}
	for _, p := range ctx.Params {
		if p.IsInputSemantic {
			assign(p, false)
		}
		if p.IsOutputSemantic {
			assign(p, true)
		}
	}
}
