package passes

import (
	"github.com/gogpu/shaderc/ir"
	"github.com/gogpu/shaderc/types"
)

// FoldConstants implements fold_constants (spec.md §4.5, run to fixed
// point together with copy propagation): when every operand of an
// expression is a constant, compute its result. At minimum: cast, neg,
// add, mul for unsigned; cast from int/uint to float. Unsupported
// combinations are left alone rather than regressed.
func FoldConstants(ctx *ir.Context) bool {
	return walkBlocks(ctx.Body, foldConstantsBlock(ctx))
}

func foldConstantsBlock(ctx *ir.Context) func(*ir.Block) bool {
	return func(b *ir.Block) bool {
		progress := false
		for _, n := range append([]*ir.Node{}, b.Nodes()...) {
			e := exprOf(n)
			if e == nil {
				continue
			}
			arity := e.Op.Arity()
			ops := e.Operands[:arity]
			allConst := true
			for _, o := range ops {
				if o == nil || o.Kind != ir.KindConstant {
					allConst = false
					break
				}
			}
			if !allConst {
				continue
			}
			folded, ok := foldExpr(e.Op, n.ResultType, ops)
			if !ok {
				continue
			}
			newNode := ctx.NewNode(ir.KindConstant, n.ResultType, folded)
			b.InsertBefore(n, newNode)
			ir.ReplaceNode(n, newNode)
			b.Remove(n)
			progress = true
		}
		return progress
	}
}

func foldExpr(op ir.Op, resultType *types.Type, ops []*ir.Node) (*ir.ConstantPayload, bool) {
	switch op {
	case ir.OpNeg:
		if resultType.Base != types.BaseUint {
			return nil, false
		}
		c := ops[0].Payload.(*ir.ConstantPayload)
		out := make([]ir.ConstantComponent, len(c.Components))
		for i, comp := range c.Components {
			out[i] = ir.ConstantComponent{Uint: uint32(-int32(comp.Uint))}
		}
		return &ir.ConstantPayload{Components: out}, true

	case ir.OpAdd, ir.OpMul:
		if resultType.Base != types.BaseUint {
			return nil, false
		}
		a := ops[0].Payload.(*ir.ConstantPayload)
		c2 := ops[1].Payload.(*ir.ConstantPayload)
		n := len(a.Components)
		if len(c2.Components) != 1 && len(c2.Components) != n {
			return nil, false
		}
		out := make([]ir.ConstantComponent, n)
		for i := 0; i < n; i++ {
			bv := c2.Components[i%len(c2.Components)].Uint
			if op == ir.OpAdd {
				out[i] = ir.ConstantComponent{Uint: a.Components[i].Uint + bv}
			} else {
				out[i] = ir.ConstantComponent{Uint: a.Components[i].Uint * bv}
			}
		}
		return &ir.ConstantPayload{Components: out}, true

	case ir.OpCast:
		src := ops[0].Payload.(*ir.ConstantPayload)
		srcBase := ops[0].ResultType.Base
		out := make([]ir.ConstantComponent, len(src.Components))
		switch {
		case resultType.Base == types.BaseFloat && srcBase == types.BaseInt:
			for i, c := range src.Components {
				out[i] = ir.ConstantComponent{Float: float32(c.Int)}
			}
			return &ir.ConstantPayload{Components: out}, true
		case resultType.Base == types.BaseFloat && srcBase == types.BaseUint:
			for i, c := range src.Components {
				out[i] = ir.ConstantComponent{Float: float32(c.Uint)}
			}
			return &ir.ConstantPayload{Components: out}, true
		case resultType.Base == srcBase:
			copy(out, src.Components)
			return &ir.ConstantPayload{Components: out}, true
		default:
			return nil, false
		}

	default:
		return nil, false
	}
}
