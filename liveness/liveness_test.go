package liveness

import (
	"testing"

	"github.com/gogpu/shaderc/ir"
	"github.com/gogpu/shaderc/types"
)

func TestAssignIndicesStartAtTwoAndIncrement(t *testing.T) {
	ctx := ir.NewContext()
	a := ctx.NewNode(ir.KindConstant, types.NewScalar(types.BaseFloat), &ir.ConstantPayload{})
	b := ctx.NewNode(ir.KindExpr, types.NewScalar(types.BaseFloat), &ir.ExprPayload{Op: ir.OpNeg, Operands: [3]*ir.Node{a}})
	ctx.Body.Append(a)
	ctx.Body.Append(b)

	Assign(ctx)

	if a.Index != 2 || b.Index != 3 {
		t.Fatalf("expected indices 2,3, got %d,%d", a.Index, b.Index)
	}
	if a.LastRead != b.Index {
		t.Fatalf("expected a.LastRead == b.Index (%d), got %d", b.Index, a.LastRead)
	}
}

func TestUniformVariableGetsFirstWriteOne(t *testing.T) {
	ctx := ir.NewContext()
	u := &ir.Variable{Name: "u", Type: types.NewScalar(types.BaseFloat), IsUniform: true}
	ctx.DeclareVariable(u)
	load := ctx.NewNode(ir.KindLoad, u.Type, &ir.LoadPayload{Src: ir.Deref{Var: u}})
	ctx.Body.Append(load)

	Assign(ctx)

	if u.FirstWrite != 1 {
		t.Fatalf("expected uniform FirstWrite=1, got %d", u.FirstWrite)
	}
}

func TestOutputSemanticVariableGetsInfiniteLastRead(t *testing.T) {
	ctx := ir.NewContext()
	o := &ir.Variable{Name: "o", Type: types.NewScalar(types.BaseFloat), IsOutputSemantic: true}
	ctx.DeclareVariable(o)
	store := ctx.NewNode(ir.KindStore, nil, &ir.StorePayload{Lhs: ir.Deref{Var: o}, Writemask: ir.MaskX})
	ctx.Body.Append(store)

	Assign(ctx)

	if o.LastRead != ir.InfiniteLastRead {
		t.Fatalf("expected output-semantic LastRead=infinite, got %d", o.LastRead)
	}
}

func TestLoopWidensVariableLastReadToPostLoopIndex(t *testing.T) {
	ctx := ir.NewContext()
	temp := &ir.Variable{Name: "t", Type: types.NewScalar(types.BaseFloat)}
	ctx.DeclareVariable(temp)

	// t = 1.0  (before the loop)
	preStore := ctx.NewNode(ir.KindStore, nil, &ir.StorePayload{Lhs: ir.Deref{Var: temp}, Writemask: ir.MaskX})

	// loop body: load t (simulating a use on every iteration)
	body := ir.NewBlock()
	bodyLoad := ctx.NewNode(ir.KindLoad, temp.Type, &ir.LoadPayload{Src: ir.Deref{Var: temp}})
	body.Append(bodyLoad)
	loop := ctx.NewNode(ir.KindLoop, nil, &ir.LoopPayload{Body: body})

	// after the loop: another node, so there's a nonzero next_index
	after := ctx.NewNode(ir.KindConstant, types.NewScalar(types.BaseFloat), &ir.ConstantPayload{})

	ctx.Body.Append(preStore)
	ctx.Body.Append(loop)
	ctx.Body.Append(after)

	Assign(ctx)

	lp := loop.Payload.(*ir.LoopPayload)
	if temp.LastRead < lp.NextIndex {
		t.Fatalf("expected temp.LastRead >= loop.NextIndex (%d), got %d", lp.NextIndex, temp.LastRead)
	}
	if temp.FirstWrite > loop.Index {
		t.Fatalf("expected temp.FirstWrite <= loop.Index (%d), got %d", loop.Index, temp.FirstWrite)
	}
}

func TestConditionalDoesNotWiden(t *testing.T) {
	ctx := ir.NewContext()
	temp := &ir.Variable{Name: "t", Type: types.NewScalar(types.BaseFloat)}
	ctx.DeclareVariable(temp)

	then := ir.NewBlock()
	thenLoad := ctx.NewNode(ir.KindLoad, temp.Type, &ir.LoadPayload{Src: ir.Deref{Var: temp}})
	then.Append(thenLoad)
	cond := ctx.NewNode(ir.KindConditional, nil, &ir.ConditionalPayload{Then: then})
	after := ctx.NewNode(ir.KindConstant, types.NewScalar(types.BaseFloat), &ir.ConstantPayload{})

	ctx.Body.Append(cond)
	ctx.Body.Append(after)

	Assign(ctx)

	if temp.LastRead != thenLoad.Index {
		t.Fatalf("conditional must not widen liveness past its own then-block use; got LastRead=%d want %d", temp.LastRead, thenLoad.Index)
	}
}
