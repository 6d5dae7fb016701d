package regalloc

import (
	"testing"

	"github.com/gogpu/shaderc/ir"
	"github.com/gogpu/shaderc/types"
)

func TestAllocateConstantsAssignsRegisterAndLiteral(t *testing.T) {
	ctx := ir.NewContext()
	c := ctx.NewNode(ir.KindConstant, types.NewScalar(types.BaseFloat), &ir.ConstantPayload{
		Components: []ir.ConstantComponent{{Float: 2.5}},
	})
	ctx.Body.Append(c)

	_, table := AllocateConstants(ctx)

	if !c.Reg.Allocated {
		t.Fatalf("expected constant node to receive a register")
	}
	vals := table.Values[c.Reg.ID]
	bit := 0
	for i := 0; i < 4; i++ {
		if c.Reg.Writemask&(1<<uint(i)) != 0 {
			bit = i
			break
		}
	}
	if vals[bit] != 2.5 {
		t.Fatalf("expected literal table to hold 2.5 at component %d, got %v", bit, vals)
	}
}

func TestAllocateConstantsGivesUniformVariablesConstRegisters(t *testing.T) {
	ctx := ir.NewContext()
	u := &ir.Variable{Name: "u", Type: types.NewVector(types.BaseFloat, 4), IsUniform: true}
	ctx.DeclareVariable(u)

	AllocateConstants(ctx)

	if !u.Reg.Allocated {
		t.Fatalf("expected uniform variable to receive a const-register")
	}
}

func TestAllocateConstantsUintReinterpretsBitsAsFloat(t *testing.T) {
	ctx := ir.NewContext()
	c := ctx.NewNode(ir.KindConstant, types.NewScalar(types.BaseUint), &ir.ConstantPayload{
		Components: []ir.ConstantComponent{{Uint: 0x40000000}}, // bit pattern of float32(2.0)
	})
	ctx.Body.Append(c)

	_, table := AllocateConstants(ctx)

	vals := table.Values[c.Reg.ID]
	var found float32
	for i := 0; i < 4; i++ {
		if c.Reg.Writemask&(1<<uint(i)) != 0 {
			found = vals[i]
		}
	}
	if found != 2.0 {
		t.Fatalf("expected uint 0x40000000 reinterpreted as float32 2.0, got %v", found)
	}
}

func TestAllocateConstantsNeverAssignsRegisterZero(t *testing.T) {
	ctx := ir.NewContext()
	c := ctx.NewNode(ir.KindConstant, types.NewScalar(types.BaseFloat), &ir.ConstantPayload{
		Components: []ir.ConstantComponent{{Float: 1}},
	})
	ctx.Body.Append(c)

	AllocateConstants(ctx)

	if c.Reg.ID < 1 {
		t.Fatalf("expected const-register allocation to start at slot 1, got %d", c.Reg.ID)
	}
}
