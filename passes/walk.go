// Package passes implements the fixed-point transformation passes of
// spec.md §4.5, plus the driver that sequences them per spec.md §5.
package passes

import "github.com/gogpu/shaderc/ir"

// walkBlocks applies apply to root and, recursively, to every nested
// conditional.then/else and loop.body block, per spec.md §4.5's "generic
// block walker". It returns true if apply reported progress on any
// block.
func walkBlocks(root *ir.Block, apply func(*ir.Block) bool) bool {
	progress := apply(root)
	for _, n := range root.Nodes() {
		switch n.Kind {
		case ir.KindConditional:
			p := n.Payload.(*ir.ConditionalPayload)
			if p.Then != nil && walkBlocks(p.Then, apply) {
				progress = true
			}
			if p.Else != nil && walkBlocks(p.Else, apply) {
				progress = true
			}
		case ir.KindLoop:
			p := n.Payload.(*ir.LoopPayload)
			if p.Body != nil && walkBlocks(p.Body, apply) {
				progress = true
			}
		}
	}
	return progress
}

// toFixedPoint repeatedly runs pass over ctx until it reports no
// progress on a full sweep, per spec.md §5's fixed-point loop.
func toFixedPoint(ctx *ir.Context, pass func(*ir.Context) bool) {
	for pass(ctx) {
	}
}

// exprOf returns n's ExprPayload, or nil if n is not a KindExpr node.
func exprOf(n *ir.Node) *ir.ExprPayload {
	if n.Kind != ir.KindExpr {
		return nil
	}
	return n.Payload.(*ir.ExprPayload)
}
