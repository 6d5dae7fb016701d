package regalloc

import (
	"testing"

	"github.com/gogpu/shaderc/diag"
	"github.com/gogpu/shaderc/ir"
	"github.com/gogpu/shaderc/types"
)

func TestAllocateObjectsGivesSamplersAndTexturesIndependentCursors(t *testing.T) {
	ctx := ir.NewContext()
	samp := &ir.Variable{Name: "samp", Type: types.NewObject(types.BaseSampler, types.SamplerDim2D)}
	tex := &ir.Variable{Name: "tex", Type: types.NewObject(types.BaseTexture, types.SamplerDim2D)}
	ctx.DeclareVariable(samp)
	ctx.DeclareVariable(tex)

	res := diag.NewResult()
	AllocateObjects(ctx, res)

	if res.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", res.Diagnostics())
	}
	if samp.Reg.ID != 0 {
		t.Fatalf("expected sampler cursor to start at s0, got %+v", samp.Reg)
	}
	if tex.Reg.ID != 0 {
		t.Fatalf("expected texture cursor to start independently at t0, got %+v", tex.Reg)
	}
}

func TestAllocateObjectsHonorsReservations(t *testing.T) {
	ctx := ir.NewContext()
	auto := &ir.Variable{Name: "autoTex", Type: types.NewObject(types.BaseTexture, types.SamplerDim2D)}
	pinned := &ir.Variable{Name: "pinnedTex", Type: types.NewObject(types.BaseTexture, types.SamplerDim2D), Reservation: ir.Reservation{Letter: 't', Index: 0, Set: true}}
	ctx.DeclareVariable(auto)
	ctx.DeclareVariable(pinned)

	res := diag.NewResult()
	AllocateObjects(ctx, res)

	if pinned.Reg.ID != 0 {
		t.Fatalf("expected pinned texture to keep t0, got %+v", pinned.Reg)
	}
	if auto.Reg.ID == 0 {
		t.Fatalf("expected auto-assigned texture to skip the reserved index 0, got %+v", auto.Reg)
	}
}

func TestAllocateObjectsReportsOverlappingReservations(t *testing.T) {
	ctx := ir.NewContext()
	a := &ir.Variable{Name: "a", Type: types.NewObject(types.BaseSampler, types.SamplerDim2D), Reservation: ir.Reservation{Letter: 's', Index: 1, Set: true}}
	b := &ir.Variable{Name: "b", Type: types.NewObject(types.BaseSampler, types.SamplerDim2D), Reservation: ir.Reservation{Letter: 's', Index: 1, Set: true}}
	ctx.DeclareVariable(a)
	ctx.DeclareVariable(b)

	res := diag.NewResult()
	AllocateObjects(ctx, res)

	found := false
	for _, d := range res.Diagnostics() {
		if d.Kind == diag.KindOverlappingReservations {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an OverlappingReservations diagnostic, got %v", res.Diagnostics())
	}
}
