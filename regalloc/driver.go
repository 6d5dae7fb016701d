package regalloc

import (
	"github.com/gogpu/shaderc/diag"
	"github.com/gogpu/shaderc/ir"
)

// Options configures the allocation driver.
type Options struct {
	// Legacy selects the const-register/literal-table allocator (pass 2);
	// when false, uniforms are packed into constant buffers instead
	// (pass 4), per spec.md §4.7.
	Legacy bool
	// SemanticTable supplies the profile's predefined semantic register
	// bindings (pass 3). Nil means every semantic is auto-assigned.
	SemanticTable SemanticTable
}

// Output collects the side tables produced alongside the annotated IR,
// which the core exports to the back end per spec.md §4.7's closing
// paragraph ("{profile, constant-defs, ... temp-register count}").
type Output struct {
	Temps     *LivenessMap
	Constants *LivenessMap
	Literals  *LiteralTable
}

// Allocate runs the five register-allocation passes in spec.md §4.7's
// order: temp registers, then either const-registers (legacy) or
// constant buffers (newer profiles), then semantic registers, then
// objects.
func Allocate(ctx *ir.Context, opts Options) (*Output, *diag.Result) {
	res := diag.NewResult()
	out := &Output{Temps: AllocateTemps(ctx)}

	if opts.Legacy {
		out.Constants, out.Literals = AllocateConstants(ctx)
	} else {
		AllocateConstantBuffers(ctx, res)
	}

	AllocateSemantics(ctx, opts.SemanticTable)
	AllocateObjects(ctx, res)

	return out, res
}
