// Package compiler implements the top-level driver of spec.md §5: given
// an already-parsed entry point, it sequences semantic lowering,
// transformation passes, liveness, register allocation, and back-end
// emission in the pipeline's fixed order. Lexing/parsing of shader
// source text is an external collaborator's job (spec.md §1's scope
// note); Compile is handed the parsed IR directly rather than source
// text, the way the core's own described interface treats front ends
// as opaque upstream producers.
package compiler

import (
	"fmt"

	"github.com/gogpu/shaderc/backend"
	"github.com/gogpu/shaderc/diag"
	"github.com/gogpu/shaderc/ir"
	"github.com/gogpu/shaderc/liveness"
	"github.com/gogpu/shaderc/lower"
	"github.com/gogpu/shaderc/passes"
	"github.com/gogpu/shaderc/profile"
	"github.com/gogpu/shaderc/regalloc"
)

// Flags is the option-flag mask of spec.md §6.1: pack-matrix-row-major,
// pack-matrix-column-major, enable-backwards-compatibility, and
// enable-unbounded-descriptor-arrays. The front end that parses source
// text into a *ir.Context consumes RowMajor/ColumnMajor/
// UnboundedDescriptorArrays itself (they affect type resolution before
// the core ever sees the IR); only Backcompat is read here, since it
// selects the legacy division-lowering pass independently of the
// profile's own major-version check.
type Flags uint8

const (
	FlagPackMatrixRowMajor Flags = 1 << iota
	FlagPackMatrixColumnMajor
	FlagEnableBackwardsCompatibility
	FlagEnableUnboundedDescriptorArrays
)

// Output is the core's export surface to a back end, per spec.md §4.8's
// closing paragraph: the fully annotated IR plus the side tables regalloc
// produced, and the final emitted bytes once a back end has run.
type Output struct {
	Context *ir.Context
	Alloc   *regalloc.Output
	Code    []byte
}

// Compile runs the pipeline of spec.md §5 over ctx's already-parsed
// entry point: semantic lowering, the fixed-point transformation passes,
// liveness assignment, register allocation, and finally emission through
// emit. profileName is looked up against the static catalog (spec.md
// §6.1); an unrecognized name is reported as InternalCompilerError since
// it indicates a misconfigured caller rather than a malformed shader.
//
// Compilation continues past recoverable diagnostics exactly as far as
// the later stages can tolerate; a fatal diagnostic (InternalCompilerError
// or OutOfMemory) from any stage short-circuits the rest of the pipeline.
func Compile(ctx *ir.Context, profileName string, flags Flags, emit backend.Emitter) (*Output, *diag.Result) {
	res := diag.NewResult()

	prof, ok := profile.Lookup(profileName)
	if !ok {
		res.Errorf(diag.KindInternalCompilerError, diag.Location{}, "unrecognized profile %q", profileName)
		return nil, res
	}

	lower.Lower(ctx, res)
	if res.Fatal() {
		return nil, res
	}

	legacy := prof.Legacy() || flags&FlagEnableBackwardsCompatibility != 0
	passes.Run(ctx, passes.Options{
		Legacy:         legacy,
		AssignLiveness: liveness.Assign,
	})

	var semTable regalloc.SemanticTable
	if prof.Legacy() {
		semTable = profile.LegacySemanticTable{}
	}
	alloc, allocRes := regalloc.Allocate(ctx, regalloc.Options{
		Legacy:        prof.Legacy(),
		SemanticTable: semTable,
	})
	mergeDiagnostics(res, allocRes)
	if res.Fatal() {
		return nil, res
	}

	out := &Output{Context: ctx, Alloc: alloc}

	if emit == nil {
		return out, res
	}

	code, emitRes := emit.Emit(&backend.Input{
		Context:  ctx,
		Profile:  prof,
		Alloc:    alloc,
		Buffers:  ctx.Buffers,
		TempRegs: alloc.Temps.Count(),
	})
	mergeDiagnostics(res, emitRes)
	out.Code = code
	return out, res
}

// mergeDiagnostics appends src's diagnostics onto dst and propagates its
// fatal latch, so every stage's errors accumulate into one report (spec.md
// §7 "compilation continues ... so multiple errors can be reported in
// one pass") instead of a later stage's Result silently replacing an
// earlier one.
func mergeDiagnostics(dst, src *diag.Result) {
	if src == nil {
		return
	}
	for _, d := range src.Diagnostics() {
		dst.Report(d)
	}
}

func (f Flags) String() string {
	var names []string
	if f&FlagPackMatrixRowMajor != 0 {
		names = append(names, "pack-matrix-row-major")
	}
	if f&FlagPackMatrixColumnMajor != 0 {
		names = append(names, "pack-matrix-column-major")
	}
	if f&FlagEnableBackwardsCompatibility != 0 {
		names = append(names, "enable-backwards-compatibility")
	}
	if f&FlagEnableUnboundedDescriptorArrays != 0 {
		names = append(names, "enable-unbounded-descriptor-arrays")
	}
	if len(names) == 0 {
		return "none"
	}
	return fmt.Sprintf("%v", names)
}
