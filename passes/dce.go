package passes

import "github.com/gogpu/shaderc/ir"

// DCE implements dce (spec.md §4.5, run with liveness, to fixed point):
// removes constants, expressions, loads, resource-loads, and swizzles
// whose use list is empty, and stores whose destination variable's
// last_read is before the store's own index (no subsequent read).
// Liveness must already be assigned (node.Index, Variable.LastRead) —
// see the liveness package — before this pass is useful.
func DCE(ctx *ir.Context) bool {
	return walkBlocks(ctx.Body, dceBlock)
}

func dceBlock(b *ir.Block) bool {
	progress := false
	for _, n := range append([]*ir.Node{}, b.Nodes()...) {
		switch n.Kind {
		case ir.KindConstant, ir.KindExpr, ir.KindLoad, ir.KindResourceLoad, ir.KindSwizzle:
			if n.UseCount() == 0 {
				b.Remove(n)
				progress = true
			}
		case ir.KindStore:
			st := n.Payload.(*ir.StorePayload)
			if st.Lhs.Var != nil && st.Lhs.Var.LastRead < n.Index {
				b.Remove(n)
				progress = true
			}
		}
	}
	return progress
}
