package passes

import (
	"github.com/gogpu/shaderc/ir"
	"github.com/gogpu/shaderc/types"
)

// FoldRedundantCasts implements fold_redundant_casts (spec.md §4.5, run
// to fixed point): drops casts whose source and destination types are
// equal, or whose base types are equal and both are 1-wide.
func FoldRedundantCasts(ctx *ir.Context) bool {
	return walkBlocks(ctx.Body, foldRedundantCastsBlock)
}

func foldRedundantCastsBlock(b *ir.Block) bool {
	progress := false
	for _, n := range append([]*ir.Node{}, b.Nodes()...) {
		e := exprOf(n)
		if e == nil || e.Op != ir.OpCast {
			continue
		}
		src := e.Operands[0]
		if castIsRedundant(src.ResultType, n.ResultType) {
			ir.ReplaceNode(n, src)
			b.Remove(n)
			progress = true
		}
	}
	return progress
}

func castIsRedundant(src, dst *types.Type) bool {
	if types.Equal(src, dst) {
		return true
	}
	return src.Base == dst.Base && src.ComponentCount() == 1 && dst.ComponentCount() == 1
}

// LowerNarrowingCasts implements lower_narrowing_casts (spec.md §4.5, run
// once): a vector-width-reducing cast becomes
// swizzle(.xyzw truncated to new width, cast_to_wide_vector_of_dst_base(src)).
func LowerNarrowingCasts(ctx *ir.Context) bool {
	return walkBlocks(ctx.Body, lowerNarrowingCastsBlock(ctx))
}

func lowerNarrowingCastsBlock(ctx *ir.Context) func(*ir.Block) bool {
	return func(b *ir.Block) bool {
		progress := false
		for _, n := range append([]*ir.Node{}, b.Nodes()...) {
			e := exprOf(n)
			if e == nil || e.Op != ir.OpCast {
				continue
			}
			src := e.Operands[0]
			srcWidth := src.ResultType.ComponentCount()
			dstWidth := n.ResultType.ComponentCount()
			if dstWidth >= srcWidth || srcWidth <= 1 {
				continue
			}
			wideDst := types.NewVector(n.ResultType.Base, uint8(srcWidth))
			wideCast := ctx.NewNode(ir.KindExpr, wideDst, &ir.ExprPayload{Op: ir.OpCast, Operands: [3]*ir.Node{src}})
			perm := make([]uint8, dstWidth)
			for i := range perm {
				perm[i] = uint8(i)
			}
			sw := ctx.NewNode(ir.KindSwizzle, n.ResultType, &ir.SwizzlePayload{
				Src:         wideCast,
				Permutation: ir.MakeSwizzlePermutation(perm...),
				Width:       uint8(dstWidth),
			})
			b.InsertBefore(n, wideCast)
			b.InsertBefore(n, sw)
			ir.ReplaceNode(n, sw)
			b.Remove(n)
			progress = true
		}
		return progress
	}
}

// RemoveTrivialSwizzles implements remove_trivial_swizzles (spec.md
// §4.5, run once): a swizzle whose output equals its input (identity
// permutation and equal width) is removed by rerouting uses to the
// source.
func RemoveTrivialSwizzles(ctx *ir.Context) bool {
	return walkBlocks(ctx.Body, removeTrivialSwizzlesBlock)
}

func removeTrivialSwizzlesBlock(b *ir.Block) bool {
	progress := false
	for _, n := range append([]*ir.Node{}, b.Nodes()...) {
		if n.Kind != ir.KindSwizzle {
			continue
		}
		s := n.Payload.(*ir.SwizzlePayload)
		if uint32(s.Width) != s.Src.ResultType.ComponentCount() {
			continue
		}
		identity := true
		for i := uint8(0); i < s.Width; i++ {
			if s.Component(i) != i {
				identity = false
				break
			}
		}
		if !identity {
			continue
		}
		ir.ReplaceNode(n, s.Src)
		b.Remove(n)
		progress = true
	}
	return progress
}
