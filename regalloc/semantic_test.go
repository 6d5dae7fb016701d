package regalloc

import (
	"testing"

	"github.com/gogpu/shaderc/ir"
	"github.com/gogpu/shaderc/types"
)

type fakeSemanticTable map[string]ir.Register

func (f fakeSemanticTable) Lookup(name string, index uint32, isOutput bool) (ir.Register, bool) {
	reg, ok := f[name]
	return reg, ok
}

func TestAllocateSemanticsUsesProfileTableWhenPresent(t *testing.T) {
	ctx := ir.NewContext()
	pos := &ir.Variable{Name: "pos", Type: types.NewVector(types.BaseFloat, 4), IsOutputSemantic: true, Semantic: ir.Semantic{Name: "SV_Position"}, FirstWrite: 3}
	ctx.DeclareVariable(pos)

	table := fakeSemanticTable{"SV_Position": ir.Register{ID: 0, Writemask: ir.MaskAll, Allocated: true}}
	AllocateSemantics(ctx, table)

	if pos.Reg.ID != 0 || !pos.Reg.Allocated {
		t.Fatalf("expected predefined register from profile table, got %+v", pos.Reg)
	}
}

func TestAllocateSemanticsAutoAssignsWhenNotInTable(t *testing.T) {
	ctx := ir.NewContext()
	a := &ir.Variable{Name: "a", Type: types.NewVector(types.BaseFloat, 4), IsInputSemantic: true, Semantic: ir.Semantic{Name: "TEXCOORD0"}, LastRead: 5}
	b := &ir.Variable{Name: "b", Type: types.NewVector(types.BaseFloat, 4), IsInputSemantic: true, Semantic: ir.Semantic{Name: "TEXCOORD1"}, LastRead: 5}
	ctx.DeclareVariable(a)
	ctx.DeclareVariable(b)

	AllocateSemantics(ctx, nil)

	if a.Reg.ID == b.Reg.ID {
		t.Fatalf("expected distinct auto-assigned indices, both got %d", a.Reg.ID)
	}
}

func TestAllocateSemanticsInputAndOutputCursorsAreIndependent(t *testing.T) {
	ctx := ir.NewContext()
	in := &ir.Variable{Name: "in0", Type: types.NewVector(types.BaseFloat, 4), IsInputSemantic: true, Semantic: ir.Semantic{Name: "TEXCOORD0"}, LastRead: 5}
	out := &ir.Variable{Name: "out0", Type: types.NewVector(types.BaseFloat, 4), IsOutputSemantic: true, Semantic: ir.Semantic{Name: "SV_Target"}, FirstWrite: 3}
	ctx.DeclareVariable(in)
	ctx.DeclareVariable(out)

	AllocateSemantics(ctx, nil)

	if in.Reg.ID != 0 || out.Reg.ID != 0 {
		t.Fatalf("expected input and output cursors to both start at 0 independently, got in=%d out=%d", in.Reg.ID, out.Reg.ID)
	}
}

func TestAllocateSemanticsSkipsUnusedSemanticVariable(t *testing.T) {
	ctx := ir.NewContext()
	dead := &ir.Variable{Name: "unused", Type: types.NewVector(types.BaseFloat, 4), IsInputSemantic: true, Semantic: ir.Semantic{Name: "TEXCOORD0"}}
	ctx.DeclareVariable(dead)

	AllocateSemantics(ctx, nil)

	if dead.Reg.Allocated {
		t.Fatalf("expected a semantic variable with no reads to get no register, got %+v", dead.Reg)
	}
}

func TestAllocateSemanticsPartialWidthGetsNarrowWritemask(t *testing.T) {
	ctx := ir.NewContext()
	v := &ir.Variable{Name: "uv", Type: types.NewVector(types.BaseFloat, 2), IsInputSemantic: true, Semantic: ir.Semantic{Name: "TEXCOORD0"}, LastRead: 5}
	ctx.DeclareVariable(v)

	AllocateSemantics(ctx, nil)

	if v.Reg.Writemask != ir.MaskX|ir.MaskY {
		t.Fatalf("expected a 2-wide semantic to get .xy, got %08b", v.Reg.Writemask)
	}
}
