package passes

import (
	"github.com/gogpu/shaderc/ir"
	"github.com/gogpu/shaderc/types"
)

// SplitStructuredCopies implements split_array_copies / split_struct_copies
// together (spec.md §4.5, run to fixed point with each other): any store
// whose RHS is a whole-aggregate load of the same struct or array type is
// replaced by per-element/per-field store+load pairs at computed offsets,
// and the original store is removed.
func SplitStructuredCopies(ctx *ir.Context) bool {
	return walkBlocks(ctx.Body, splitStructuredCopiesBlock(ctx))
}

func splitStructuredCopiesBlock(ctx *ir.Context) func(*ir.Block) bool {
	return func(b *ir.Block) bool {
		progress := false
		for _, n := range append([]*ir.Node{}, b.Nodes()...) {
			if n.Kind != ir.KindStore {
				continue
			}
			st := n.Payload.(*ir.StorePayload)
			if st.Rhs == nil || st.Rhs.Kind != ir.KindLoad {
				continue
			}
			lp := st.Rhs.Payload.(*ir.LoadPayload)
			if st.Lhs.Offset != nil || lp.Src.Offset != nil {
				continue // only whole-aggregate copies split here
			}
			if st.Lhs.Var == nil || lp.Src.Var == nil {
				continue
			}
			srcType := lp.Src.Var.Type
			dstType := st.Lhs.Var.Type
			if srcType.Class != types.ClassStruct && srcType.Class != types.ClassArray {
				continue
			}
			if !types.Equal(srcType, dstType) {
				continue
			}

			var newNodes []*ir.Node
			for _, lf := range flattenAggregate(srcType, 0) {
				load := ctx.NewNode(ir.KindLoad, lf.typ, &ir.LoadPayload{
					Src: ir.Deref{Var: lp.Src.Var, Offset: constOffset(ctx, lf.offset)},
				})
				store := ctx.NewNode(ir.KindStore, nil, &ir.StorePayload{
					Lhs:       ir.Deref{Var: st.Lhs.Var, Offset: constOffset(ctx, lf.offset)},
					Rhs:       load,
					Writemask: maskForWidth(lf.typ.ComponentCount()),
				})
				newNodes = append(newNodes, load, store)
			}
			for _, nn := range newNodes {
				b.InsertBefore(n, nn)
			}
			b.Remove(n)
			progress = true
		}
		return progress
	}
}

type aggregateLeaf struct {
	typ    *types.Type
	offset uint32
}

// flattenAggregate enumerates every non-aggregate leaf of t with its
// offset in register-slot units, recursing through both struct fields
// and array elements.
func flattenAggregate(t *types.Type, base uint32) []aggregateLeaf {
	switch t.Class {
	case types.ClassStruct:
		var out []aggregateLeaf
		for _, f := range t.Fields {
			out = append(out, flattenAggregate(f.Type, base+f.RegOffset)...)
		}
		return out
	case types.ClassArray:
		var out []aggregateLeaf
		elemSize := t.ElementType.RegSize
		for i := uint32(0); i < t.ElementCount; i++ {
			out = append(out, flattenAggregate(t.ElementType, base+i*elemSize)...)
		}
		return out
	default:
		return []aggregateLeaf{{typ: t, offset: base}}
	}
}

func constOffset(ctx *ir.Context, offset uint32) *ir.Node {
	if offset == 0 {
		return nil
	}
	return ctx.NewNode(ir.KindConstant, types.NewScalar(types.BaseUint), &ir.ConstantPayload{
		Components: []ir.ConstantComponent{{Uint: offset}},
	})
}

func maskForWidth(n uint32) uint8 {
	switch n {
	case 1:
		return ir.MaskX
	case 2:
		return ir.MaskX | ir.MaskY
	case 3:
		return ir.MaskX | ir.MaskY | ir.MaskZ
	default:
		return ir.MaskAll
	}
}
