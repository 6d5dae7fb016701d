package glsltext

import (
	"strings"
	"testing"

	"github.com/gogpu/shaderc/backend"
	"github.com/gogpu/shaderc/diag"
	"github.com/gogpu/shaderc/ir"
	"github.com/gogpu/shaderc/profile"
	"github.com/gogpu/shaderc/types"
)

func TestEmitWritesVersionDirectiveAndMainWrapper(t *testing.T) {
	ctx := ir.NewContext()
	in := &backend.Input{Context: ctx, Profile: profile.Descriptor{Name: "ps_4_0"}}

	out, res := Emitter{}.Emit(in)
	if res.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", res.Summary())
	}
	text := string(out)
	if !strings.HasPrefix(text, "#version 450\n") {
		t.Fatalf("expected leading version directive, got:\n%s", text)
	}
	if !strings.Contains(text, "void main() {") {
		t.Fatalf("expected a main wrapper, got:\n%s", text)
	}
}

func TestEmitLowersBinaryExprToInfixOperator(t *testing.T) {
	ctx := ir.NewContext()
	a := ctx.NewNode(ir.KindConstant, types.NewScalar(types.BaseFloat), &ir.ConstantPayload{})
	a.Reg = ir.Register{Class: 'c', ID: 1, Writemask: ir.MaskAll, Allocated: true}
	add := ctx.NewNode(ir.KindExpr, types.NewScalar(types.BaseFloat), &ir.ExprPayload{Op: ir.OpAdd, Operands: [3]*ir.Node{a, a}})
	add.Reg = ir.Register{Class: 'r', ID: 0, Writemask: ir.MaskAll, Allocated: true}
	ctx.Body.Append(a)
	ctx.Body.Append(add)

	out, res := Emitter{}.Emit(&backend.Input{Context: ctx, Profile: profile.Descriptor{Name: "ps_4_0"}})
	if res.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", res.Summary())
	}
	text := string(out)
	if !strings.Contains(text, "_r0 = _c1 + _c1;") {
		t.Fatalf("expected infix addition, got:\n%s", text)
	}
}

func TestEmitLowersIntrinsicToFunctionCall(t *testing.T) {
	ctx := ir.NewContext()
	a := ctx.NewNode(ir.KindConstant, types.NewVector(types.BaseFloat, 4), &ir.ConstantPayload{})
	a.Reg = ir.Register{Class: 'r', ID: 1, Writemask: ir.MaskAll, Allocated: true}
	dot := ctx.NewNode(ir.KindExpr, types.NewScalar(types.BaseFloat), &ir.ExprPayload{Op: ir.OpDot, Operands: [3]*ir.Node{a, a}})
	dot.Reg = ir.Register{Class: 'r', ID: 0, Writemask: 0x1, Allocated: true}
	ctx.Body.Append(a)
	ctx.Body.Append(dot)

	out, _ := Emitter{}.Emit(&backend.Input{Context: ctx, Profile: profile.Descriptor{Name: "ps_4_0"}})
	if !strings.Contains(string(out), "_r0_x = dot(_r1, _r1);") {
		t.Fatalf("expected dot() call, got:\n%s", out)
	}
}

func TestEmitReportsInvalidShaderForUnhandledNodeKind(t *testing.T) {
	ctx := ir.NewContext()
	n := ctx.NewNode(ir.Kind(255), types.NewScalar(types.BaseFloat), nil)
	ctx.Body.Append(n)

	_, res := Emitter{}.Emit(&backend.Input{Context: ctx, Profile: profile.Descriptor{Name: "ps_4_0"}})
	if !res.HasErrors() {
		t.Fatalf("expected an InvalidShader diagnostic for an unhandled node kind")
	}
	found := false
	for _, d := range res.Diagnostics() {
		if d.Kind == diag.KindInvalidShader {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected the recorded diagnostic to be KindInvalidShader")
	}
}

func TestEmitReportsInvalidShaderForUnhandledOpcodeButContinues(t *testing.T) {
	ctx := ir.NewContext()
	a := ctx.NewNode(ir.KindConstant, types.NewScalar(types.BaseFloat), &ir.ConstantPayload{})
	a.Reg = ir.Register{Class: 'c', ID: 1, Writemask: ir.MaskAll, Allocated: true}
	unsupported := ctx.NewNode(ir.KindExpr, types.NewScalar(types.BaseFloat), &ir.ExprPayload{Op: ir.OpPreInc, Operands: [3]*ir.Node{a}})
	after := ctx.NewNode(ir.KindExpr, types.NewScalar(types.BaseFloat), &ir.ExprPayload{Op: ir.OpAdd, Operands: [3]*ir.Node{a, a}})
	after.Reg = ir.Register{Class: 'r', ID: 0, Writemask: ir.MaskAll, Allocated: true}
	ctx.Body.Append(a)
	ctx.Body.Append(unsupported)
	ctx.Body.Append(after)

	out, res := Emitter{}.Emit(&backend.Input{Context: ctx, Profile: profile.Descriptor{Name: "ps_4_0"}})
	if !res.HasErrors() {
		t.Fatalf("expected a diagnostic for the unsupported opcode")
	}
	if !strings.Contains(string(out), "_c1 + _c1") {
		t.Fatalf("expected emission to continue past the unsupported node, got:\n%s", out)
	}
}
