// Package liveness implements spec.md §4.6: assigning every instruction a
// unique monotonic pre-order index and a [first_write, last_read]
// interval to every node and variable, widened across loop bodies.
package liveness

import "github.com/gogpu/shaderc/ir"

// Assign computes liveness for ctx's entry point body: indices start at
// 2 (1 is reserved for the synthetic entry point referenced by
// uniform/input-semantic variables' fixed first_write), node/variable
// last_read is propagated from every use, loop bodies are widened to the
// enclosing loop's [start, next) extent, and uniform/input/output role
// variables get their spec-mandated fixed bounds applied last so no
// later widening can undo them.
func Assign(ctx *ir.Context) {
	next := uint32(2)
	assignIndices(ctx.Body, &next)
	computeUses(ctx.Body)
	widenLoops(ctx.Body)
	applyFixedRoles(ctx)
}

// assignIndices walks b in pre-order, giving every node (including ones
// in nested conditional/loop blocks) a unique, monotonically increasing
// Index, and records each loop's post-loop index.
func assignIndices(b *ir.Block, next *uint32) {
	for _, n := range b.Nodes() {
		n.Index = *next
		n.FirstWrite = *next
		*next++
		switch n.Kind {
		case ir.KindConditional:
			p := n.Payload.(*ir.ConditionalPayload)
			if p.Then != nil {
				assignIndices(p.Then, next)
			}
			if p.Else != nil {
				assignIndices(p.Else, next)
			}
		case ir.KindLoop:
			p := n.Payload.(*ir.LoopPayload)
			if p.Body != nil {
				assignIndices(p.Body, next)
			}
			p.NextIndex = *next
		}
	}
}

// computeUses propagates last_read from every operand reference and
// every variable load/store, per spec.md §4.6's first two bullets.
func computeUses(body *ir.Block) {
	body.Walk(func(n *ir.Node) bool {
		for _, op := range n.Operands() {
			if n.Index > op.LastRead {
				op.LastRead = n.Index
			}
		}
		switch n.Kind {
		case ir.KindLoad:
			mergeRead(n.Payload.(*ir.LoadPayload).Src.Var, n.Index)
		case ir.KindStore:
			mergeWrite(n.Payload.(*ir.StorePayload).Lhs.Var, n.Index)
		case ir.KindResourceLoad:
			p := n.Payload.(*ir.ResourceLoadPayload)
			mergeRead(p.Resource.Var, n.Index)
			mergeRead(p.Sampler.Var, n.Index)
		}
		return true
	})
}

func mergeRead(v *ir.Variable, index uint32) {
	if v != nil {
		v.MergeLiveness(index)
	}
}

func mergeWrite(v *ir.Variable, index uint32) {
	if v != nil {
		v.MergeFirstWrite(index)
		v.MergeLiveness(index)
	}
}

// widenLoops finds every loop node in body (recursively) and widens
// every node and variable access within its body so that
// first_write ≤ loop.start_index and last_read ≥ loop.next_index.
// Conditionals do not widen.
func widenLoops(body *ir.Block) {
	body.Walk(func(n *ir.Node) bool {
		if n.Kind != ir.KindLoop {
			return true
		}
		p := n.Payload.(*ir.LoopPayload)
		if p.Body != nil {
			widenBody(p.Body, n.Index, p.NextIndex)
		}
		return true
	})
}

func widenBody(b *ir.Block, start, next uint32) {
	b.Walk(func(n *ir.Node) bool {
		if n.FirstWrite > start {
			n.FirstWrite = start
		}
		if n.LastRead < next {
			n.LastRead = next
		}
		switch n.Kind {
		case ir.KindLoad:
			widenVar(n.Payload.(*ir.LoadPayload).Src.Var, start, next)
		case ir.KindStore:
			widenVar(n.Payload.(*ir.StorePayload).Lhs.Var, start, next)
		case ir.KindResourceLoad:
			p := n.Payload.(*ir.ResourceLoadPayload)
			widenVar(p.Resource.Var, start, next)
			widenVar(p.Sampler.Var, start, next)
		}
		return true
	})
}

func widenVar(v *ir.Variable, start, next uint32) {
	if v == nil {
		return
	}
	if v.FirstWrite == 0 || v.FirstWrite > start {
		v.FirstWrite = start
	}
	if v.LastRead < next {
		v.LastRead = next
	}
}

// applyFixedRoles enforces spec.md §4.6's last two bullets: uniform and
// input-semantic variables always report first_write = 1, and
// output-semantic variables always report last_read = +∞, regardless of
// what the ordinary flow/widening computed.
func applyFixedRoles(ctx *ir.Context) {
	apply := func(v *ir.Variable) {
		if v.IsUniform || v.IsInputSemantic {
			v.FirstWrite = 1
		}
		if v.IsOutputSemantic {
			v.LastRead = ir.InfiniteLastRead
		}
	}
	for _, v := range ctx.Variables {
		apply(v)
	}
	for _, p := range ctx.Params {
		apply(p)
	}
}
