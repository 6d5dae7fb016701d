package passes

import (
	"github.com/gogpu/shaderc/ir"
	"github.com/gogpu/shaderc/types"
)

type componentDef struct {
	node *ir.Node
	src  uint8
}

// CopyPropagation implements copy_propagation (spec.md §4.5, run to
// fixed point together with constant folding): inside a block, tracks
// var -> per-component defining node, and replaces a load whose offset
// resolves statically and whose requested components all trace back to
// the same defining node with a swizzle of that node. The pass aborts
// (conservatively) at the first conditional or loop in a block — its
// own recursion into nested blocks (via walkBlocks) still runs copy
// propagation fresh within each of those, per spec.md §4.5.
func CopyPropagation(ctx *ir.Context) bool {
	return walkBlocks(ctx.Body, copyPropBlock(ctx))
}

func copyPropBlock(ctx *ir.Context) func(*ir.Block) bool {
	return func(b *ir.Block) bool {
		progress := false
		live := map[*ir.Variable]map[uint32]componentDef{}

		for _, n := range append([]*ir.Node{}, b.Nodes()...) {
			switch n.Kind {
			case ir.KindConditional, ir.KindLoop:
				return progress

			case ir.KindStore:
				st := n.Payload.(*ir.StorePayload)
				v := st.Lhs.Var
				if v == nil || st.Rhs == nil {
					continue
				}
				offset, ok := st.Lhs.StaticOffset()
				if !ok {
					delete(live, v)
					continue
				}
				mask := st.Writemask
				if v.Type.Class == types.ClassObject {
					mask = ir.MaskX
				}
				bits := selectedBits(mask)
				defs := live[v]
				if defs == nil {
					defs = map[uint32]componentDef{}
					live[v] = defs
				}
				base := offset * 4
				for k, bitpos := range bits {
					srcNode, srcComp := componentSource(st.Rhs, k)
					defs[base+uint32(bitpos)] = componentDef{node: srcNode, src: srcComp}
				}

			case ir.KindLoad:
				lp := n.Payload.(*ir.LoadPayload)
				v := lp.Src.Var
				if v == nil {
					continue
				}
				offset, ok := lp.Src.StaticOffset()
				if !ok {
					delete(live, v)
					continue
				}
				defs := live[v]
				if defs == nil {
					continue
				}
				width := n.ResultType.ComponentCount()
				base := offset * 4
				comps := make([]componentDef, width)
				complete := true
				for i := uint32(0); i < width; i++ {
					d, found := defs[base+i]
					if !found {
						complete = false
						break
					}
					comps[i] = d
				}
				if !complete {
					continue
				}
				same := comps[0].node
				for _, d := range comps[1:] {
					if d.node != same {
						same = nil
						break
					}
				}
				if same == nil {
					continue
				}
				perm := make([]uint8, width)
				for i, d := range comps {
					perm[i] = d.src
				}
				sw := ctx.NewNode(ir.KindSwizzle, n.ResultType, &ir.SwizzlePayload{
					Src:         same,
					Permutation: ir.MakeSwizzlePermutation(perm...),
					Width:       uint8(width),
				})
				b.InsertBefore(n, sw)
				ir.ReplaceNode(n, sw)
				b.Remove(n)
				progress = true
			}
		}
		return progress
	}
}

func selectedBits(mask uint8) []uint8 {
	var bits []uint8
	for i := uint8(0); i < 4; i++ {
		if mask&(1<<i) != 0 {
			bits = append(bits, i)
		}
	}
	return bits
}

// componentSource returns the node that actually defines the k-th
// selected output component of a store's RHS, and the source-component
// index within that node — unwrapping one level of swizzle, per
// spec.md §4.5's "source-component-index" tracking.
func componentSource(rhs *ir.Node, k int) (*ir.Node, uint8) {
	if rhs.Kind == ir.KindSwizzle {
		sp := rhs.Payload.(*ir.SwizzlePayload)
		return sp.Src, sp.Component(uint8(k))
	}
	return rhs, uint8(k)
}
