package passes

import (
	"testing"

	"github.com/gogpu/shaderc/ir"
	"github.com/gogpu/shaderc/types"
)

func TestFoldRedundantCastsDropsIdentity(t *testing.T) {
	ctx := ir.NewContext()
	v := &ir.Variable{Name: "x", Type: types.NewScalar(types.BaseFloat)}
	ctx.DeclareVariable(v)
	load := ctx.NewNode(ir.KindLoad, v.Type, &ir.LoadPayload{Src: ir.Deref{Var: v}})
	cast := ctx.NewNode(ir.KindExpr, types.NewScalar(types.BaseFloat), &ir.ExprPayload{Op: ir.OpCast, Operands: [3]*ir.Node{load}})
	ctx.Body.Append(load)
	ctx.Body.Append(cast)

	if !FoldRedundantCasts(ctx) {
		t.Fatal("expected progress")
	}
	nodes := ctx.Body.Nodes()
	if len(nodes) != 1 || nodes[0] != load {
		t.Fatalf("expected cast removed, left with just the load, got %d nodes", len(nodes))
	}
}

func TestLowerBroadcastsExpandsScalarCast(t *testing.T) {
	ctx := ir.NewContext()
	v := &ir.Variable{Name: "s", Type: types.NewScalar(types.BaseFloat)}
	ctx.DeclareVariable(v)
	load := ctx.NewNode(ir.KindLoad, v.Type, &ir.LoadPayload{Src: ir.Deref{Var: v}})
	cast := ctx.NewNode(ir.KindExpr, types.NewVector(types.BaseFloat, 4), &ir.ExprPayload{Op: ir.OpCast, Operands: [3]*ir.Node{load}})
	ctx.Body.Append(load)
	ctx.Body.Append(cast)

	if !LowerBroadcasts(ctx) {
		t.Fatal("expected progress")
	}
	nodes := ctx.Body.Nodes()
	last := nodes[len(nodes)-1]
	if last.Kind != ir.KindSwizzle {
		t.Fatalf("expected trailing swizzle, got %v", last.Kind)
	}
	sp := last.Payload.(*ir.SwizzlePayload)
	if sp.Width != 4 {
		t.Fatalf("expected width 4, got %d", sp.Width)
	}
	for i := uint8(0); i < 4; i++ {
		if sp.Component(i) != 0 {
			t.Fatalf("expected all components to select .x, component %d = %d", i, sp.Component(i))
		}
	}
}

func TestRemoveTrivialSwizzlesReroutesUses(t *testing.T) {
	ctx := ir.NewContext()
	v := &ir.Variable{Name: "v", Type: types.NewVector(types.BaseFloat, 4)}
	ctx.DeclareVariable(v)
	load := ctx.NewNode(ir.KindLoad, v.Type, &ir.LoadPayload{Src: ir.Deref{Var: v}})
	sw := ctx.NewNode(ir.KindSwizzle, v.Type, &ir.SwizzlePayload{
		Src: load, Permutation: ir.MakeSwizzlePermutation(0, 1, 2, 3), Width: 4,
	})
	store := ctx.NewNode(ir.KindStore, nil, &ir.StorePayload{Lhs: ir.Deref{Var: v}, Rhs: sw, Writemask: ir.MaskAll})
	ctx.Body.Append(load)
	ctx.Body.Append(sw)
	ctx.Body.Append(store)

	if !RemoveTrivialSwizzles(ctx) {
		t.Fatal("expected progress")
	}
	st := store.Payload.(*ir.StorePayload)
	if st.Rhs != load {
		t.Fatal("store's RHS should have been rerouted to the original load")
	}
}

func TestFoldConstantsAddsUnsigned(t *testing.T) {
	ctx := ir.NewContext()
	a := ctx.NewNode(ir.KindConstant, types.NewScalar(types.BaseUint), &ir.ConstantPayload{Components: []ir.ConstantComponent{{Uint: 7}}})
	b := ctx.NewNode(ir.KindConstant, types.NewScalar(types.BaseUint), &ir.ConstantPayload{Components: []ir.ConstantComponent{{Uint: 5}}})
	add := ctx.NewNode(ir.KindExpr, types.NewScalar(types.BaseUint), &ir.ExprPayload{Op: ir.OpAdd, Operands: [3]*ir.Node{a, b}})
	ctx.Body.Append(a)
	ctx.Body.Append(b)
	ctx.Body.Append(add)

	if !FoldConstants(ctx) {
		t.Fatal("expected progress")
	}
	nodes := ctx.Body.Nodes()
	last := nodes[len(nodes)-1]
	if last.Kind != ir.KindConstant {
		t.Fatalf("expected folded constant, got %v", last.Kind)
	}
	cp := last.Payload.(*ir.ConstantPayload)
	if cp.Components[0].Uint != 12 {
		t.Fatalf("expected 7+5=12, got %d", cp.Components[0].Uint)
	}
}

func TestCopyPropagationReplacesLoadWithSwizzle(t *testing.T) {
	ctx := ir.NewContext()
	a := &ir.Variable{Name: "a", Type: types.NewVector(types.BaseFloat, 4)}
	v := &ir.Variable{Name: "v", Type: types.NewVector(types.BaseFloat, 4)}
	ctx.DeclareVariable(a)
	ctx.DeclareVariable(v)

	loadA := ctx.NewNode(ir.KindLoad, a.Type, &ir.LoadPayload{Src: ir.Deref{Var: a}})
	storeV := ctx.NewNode(ir.KindStore, nil, &ir.StorePayload{Lhs: ir.Deref{Var: v}, Rhs: loadA, Writemask: ir.MaskAll})
	loadV := ctx.NewNode(ir.KindLoad, v.Type, &ir.LoadPayload{Src: ir.Deref{Var: v}})
	ctx.Body.Append(loadA)
	ctx.Body.Append(storeV)
	ctx.Body.Append(loadV)

	if !CopyPropagation(ctx) {
		t.Fatal("expected progress")
	}
	nodes := ctx.Body.Nodes()
	last := nodes[len(nodes)-1]
	if last.Kind != ir.KindSwizzle {
		t.Fatalf("expected the second load replaced by a swizzle of loadA, got %v", last.Kind)
	}
	sp := last.Payload.(*ir.SwizzlePayload)
	if sp.Src != loadA {
		t.Fatal("swizzle should source from loadA")
	}
}

func TestDCERemovesUnusedConstantAndDeadStore(t *testing.T) {
	ctx := ir.NewContext()
	v := &ir.Variable{Name: "dead", Type: types.NewScalar(types.BaseFloat), LastRead: 0}
	ctx.DeclareVariable(v)

	unused := ctx.NewNode(ir.KindConstant, types.NewScalar(types.BaseFloat), &ir.ConstantPayload{Components: []ir.ConstantComponent{{Float: 1}}})
	unused.Index = 5
	deadStore := ctx.NewNode(ir.KindStore, nil, &ir.StorePayload{Lhs: ir.Deref{Var: v}, Rhs: unused, Writemask: ir.MaskX})
	deadStore.Index = 6
	ctx.Body.Append(unused)
	ctx.Body.Append(deadStore)

	// v.LastRead (0) < deadStore.Index (6): the store is dead.
	toFixedPoint(ctx, DCE)
	if ctx.Body.Len() != 0 {
		t.Fatalf("expected both nodes removed, got %d remaining", ctx.Body.Len())
	}
}

func TestSplitStructuredCopiesExpandsWholeStructStore(t *testing.T) {
	ctx := ir.NewContext()
	st := types.NewStruct("S", []types.Field{
		{Name: "a", Type: types.NewScalar(types.BaseFloat)},
		{Name: "b", Type: types.NewVector(types.BaseFloat, 3)},
	})
	src := &ir.Variable{Name: "src", Type: st}
	dst := &ir.Variable{Name: "dst", Type: st}
	ctx.DeclareVariable(src)
	ctx.DeclareVariable(dst)

	load := ctx.NewNode(ir.KindLoad, st, &ir.LoadPayload{Src: ir.Deref{Var: src}})
	store := ctx.NewNode(ir.KindStore, nil, &ir.StorePayload{Lhs: ir.Deref{Var: dst}, Rhs: load, Writemask: ir.MaskAll})
	ctx.Body.Append(load)
	ctx.Body.Append(store)

	if !SplitStructuredCopies(ctx) {
		t.Fatal("expected progress")
	}
	nodes := ctx.Body.Nodes()
	// original load + store, plus 2 fields x (load+store) = 2 + 4 = 6,
	// minus the removed original store = 5.
	if len(nodes) != 5 {
		t.Fatalf("expected 5 nodes after split (orig load + 2 field load/store pairs), got %d", len(nodes))
	}
}

func TestLowerDivisionRewritesToMulRcp(t *testing.T) {
	ctx := ir.NewContext()
	a := ctx.NewNode(ir.KindConstant, types.NewScalar(types.BaseFloat), &ir.ConstantPayload{Components: []ir.ConstantComponent{{Float: 4}}})
	b := ctx.NewNode(ir.KindConstant, types.NewScalar(types.BaseFloat), &ir.ConstantPayload{Components: []ir.ConstantComponent{{Float: 2}}})
	div := ctx.NewNode(ir.KindExpr, types.NewScalar(types.BaseFloat), &ir.ExprPayload{Op: ir.OpDiv, Operands: [3]*ir.Node{a, b}})
	ctx.Body.Append(a)
	ctx.Body.Append(b)
	ctx.Body.Append(div)

	if !LowerDivision(ctx) {
		t.Fatal("expected progress")
	}
	nodes := ctx.Body.Nodes()
	last := nodes[len(nodes)-1]
	e := exprOf(last)
	if e == nil || e.Op != ir.OpMul {
		t.Fatalf("expected trailing mul, got %v", last.Kind)
	}
	rcp := exprOf(e.Operands[1])
	if rcp == nil || rcp.Op != ir.OpRcp {
		t.Fatal("expected second mul operand to be an rcp expression")
	}
}
