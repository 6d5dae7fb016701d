package passes

import (
	"github.com/gogpu/shaderc/ir"
	"github.com/gogpu/shaderc/types"
)

// LowerBroadcasts implements lower_broadcasts (spec.md §4.5, run once): a
// cast from a 1-wide scalar/vector to an N-wide destination becomes
// swizzle(.x×N, cast_to_scalar_of_dst(src)).
func LowerBroadcasts(ctx *ir.Context) bool {
	return walkBlocks(ctx.Body, lowerBroadcastsBlock(ctx))
}

func lowerBroadcastsBlock(ctx *ir.Context) func(*ir.Block) bool {
	return func(b *ir.Block) bool {
		progress := false
		for _, n := range append([]*ir.Node{}, b.Nodes()...) {
			e := exprOf(n)
			if e == nil || e.Op != ir.OpCast {
				continue
			}
			src := e.Operands[0]
			dstWidth := n.ResultType.ComponentCount()
			if src.ResultType.ComponentCount() != 1 || dstWidth <= 1 {
				continue
			}
			scalarDst := types.NewScalar(n.ResultType.Base)
			scalarCast := ctx.NewNode(ir.KindExpr, scalarDst, &ir.ExprPayload{Op: ir.OpCast, Operands: [3]*ir.Node{src}})
			perm := make([]uint8, dstWidth) // all zero: .x broadcast to every component
			sw := ctx.NewNode(ir.KindSwizzle, n.ResultType, &ir.SwizzlePayload{
				Src:         scalarCast,
				Permutation: ir.MakeSwizzlePermutation(perm...),
				Width:       uint8(dstWidth),
			})
			b.InsertBefore(n, scalarCast)
			b.InsertBefore(n, sw)
			ir.ReplaceNode(n, sw)
			b.Remove(n)
			progress = true
		}
		return progress
	}
}
