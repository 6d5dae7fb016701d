// Command shaderccli drives the compiler core against a constructed
// entry point and writes the emitted bytes to a file. Lexing/parsing of
// real shader source text is an external front end's job (spec.md §1);
// this CLI's demo program stands in for IR a front end would have
// produced, the way ggdemo is a self-contained demonstration of the gg
// library rather than a file-driven tool.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/gogpu/shaderc/backend"
	"github.com/gogpu/shaderc/backend/glsltext"
	"github.com/gogpu/shaderc/backend/legacyasm"
	"github.com/gogpu/shaderc/compiler"
	"github.com/gogpu/shaderc/ir"
	"github.com/gogpu/shaderc/profile"
	"github.com/gogpu/shaderc/types"
)

func main() {
	var (
		profileName = flag.String("profile", "ps_5_0", "target profile (e.g. ps_5_0, vs_3_0, cs_5_0)")
		entryName   = flag.String("entry", "main", "entry point name")
		output      = flag.String("output", "out.bin", "output file for the emitted code")
		backcompat  = flag.Bool("backcompat", false, "enable-backwards-compatibility option flag")
	)
	flag.Parse()

	prof, ok := profile.Lookup(*profileName)
	if !ok {
		log.Fatalf("unrecognized profile %q", *profileName)
	}

	ctx := buildDemoEntryPoint(*entryName)

	var flags compiler.Flags
	if *backcompat {
		flags |= compiler.FlagEnableBackwardsCompatibility
	}

	emit := chooseEmitter(prof)

	out, res := compiler.Compile(ctx, *profileName, flags, emit)
	for _, d := range res.Diagnostics() {
		log.Print(d.Error())
	}
	if res.HasErrors() {
		log.Fatalf("compilation failed: %s", res.Summary())
	}

	if err := os.WriteFile(*output, out.Code, 0o644); err != nil {
		log.Fatalf("failed to write output: %v", err)
	}

	log.Printf("wrote %s (%d bytes, %d temp registers)\n", *output, len(out.Code), out.Alloc.Temps.Count())
}

// chooseEmitter picks the back end a profile targets, mirroring
// backend.Input.Profile.Legacy()'s own major-version split.
func chooseEmitter(prof profile.Descriptor) backend.Emitter {
	if prof.Legacy() {
		return legacyasm.Emitter{}
	}
	return glsltext.Emitter{}
}

// buildDemoEntryPoint constructs a minimal but representative program: a
// uniform tint copied straight through to an SV_Target output, enough to
// exercise every stage of the pipeline end to end.
func buildDemoEntryPoint(entryName string) *ir.Context {
	ctx := ir.NewContext()

	tint := &ir.Variable{Name: "tint", Type: types.NewVector(types.BaseFloat, 4), Storage: ir.StorageUniform}
	ctx.DeclareVariable(tint)

	out := &ir.Variable{Name: "color", Type: types.NewVector(types.BaseFloat, 4), Storage: ir.StorageOut, Semantic: ir.Semantic{Name: "SV_Target"}}
	ctx.DeclareParam(out)

	load := ctx.NewNode(ir.KindLoad, tint.Type, &ir.LoadPayload{Src: ir.Deref{Var: tint}})
	store := ctx.NewNode(ir.KindStore, nil, &ir.StorePayload{Lhs: ir.Deref{Var: out}, Rhs: load, Writemask: ir.MaskAll})
	ret := ctx.NewNode(ir.KindJump, nil, &ir.JumpPayload{Kind: ir.JumpReturn})
	ctx.Body.Append(load)
	ctx.Body.Append(store)
	ctx.Body.Append(ret)

	ctx.EntryName = entryName
	return ctx
}
