// Package backend defines the contract between the compiler core and a
// target-specific code emitter (spec.md §4.8): given the fully
// annotated IR and the exported side tables, an Emitter produces output
// bytes or a diagnostic. Back ends are otherwise opaque to the core.
package backend

import (
	"github.com/gogpu/shaderc/diag"
	"github.com/gogpu/shaderc/ir"
	"github.com/gogpu/shaderc/profile"
	"github.com/gogpu/shaderc/regalloc"
)

// Input is everything the core exports to a back end after register
// allocation, per spec.md §4.8's closing paragraph: "the fully-annotated
// IR plus {profile, constant-defs, input-signature, output-signature,
// buffer-table, temp-register count}".
type Input struct {
	Context  *ir.Context
	Profile  profile.Descriptor
	Alloc    *regalloc.Output
	Buffers  []*ir.ConstantBuffer
	TempRegs uint32
}

// Emitter turns an allocated Input into target-specific output bytes.
// The legacy emitter (major version < 4) and the modern one implement
// this identically from the core's point of view; only their internal
// encodings differ.
type Emitter interface {
	Emit(in *Input) ([]byte, *diag.Result)
}
