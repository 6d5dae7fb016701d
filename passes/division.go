package passes

import "github.com/gogpu/shaderc/ir"

// LowerDivision implements lower_division (spec.md §4.5, run once,
// legacy profile only): `a / b` becomes `a * rcp(b)`.
func LowerDivision(ctx *ir.Context) bool {
	return walkBlocks(ctx.Body, lowerDivisionBlock(ctx))
}

func lowerDivisionBlock(ctx *ir.Context) func(*ir.Block) bool {
	return func(b *ir.Block) bool {
		progress := false
		for _, n := range append([]*ir.Node{}, b.Nodes()...) {
			e := exprOf(n)
			if e == nil || e.Op != ir.OpDiv {
				continue
			}
			a, bOp := e.Operands[0], e.Operands[1]
			rcp := ctx.NewNode(ir.KindExpr, bOp.ResultType, &ir.ExprPayload{Op: ir.OpRcp, Operands: [3]*ir.Node{bOp}})
			mul := ctx.NewNode(ir.KindExpr, n.ResultType, &ir.ExprPayload{Op: ir.OpMul, Operands: [3]*ir.Node{a, rcp}})
			b.InsertBefore(n, rcp)
			b.InsertBefore(n, mul)
			ir.ReplaceNode(n, mul)
			b.Remove(n)
			progress = true
		}
		return progress
	}
}
