package regalloc

import "github.com/gogpu/shaderc/ir"

// AllocateTemps implements spec.md §4.7 pass 1: every expression/load/
// swizzle result with a nonzero last_read and no preassigned register
// gets a register for [instruction.index, last_read], sized by the
// result's component count; every non-uniform/non-semantic variable
// (temporaries) gets the same treatment over [FirstWrite, LastRead].
// All temp values share one LivenessMap, so distinct live ranges never
// collide on the same register component.
func AllocateTemps(ctx *ir.Context) *LivenessMap {
	m := NewLivenessMap()
	ctx.Body.Walk(func(n *ir.Node) bool {
		switch n.Kind {
		case ir.KindExpr, ir.KindLoad, ir.KindSwizzle:
			allocateNode(m, n)
		}
		return true
	})
	for _, v := range ctx.Variables {
		allocateTempVar(m, v)
	}
	for _, p := range ctx.Params {
		allocateTempVar(m, p)
	}
	return m
}

func allocateNode(m *LivenessMap, n *ir.Node) {
	if n.LastRead == 0 || n.Reg.Allocated {
		return
	}
	width := n.ResultType.ComponentCount()
	n.Reg = allocate(m, width, n.Index, n.LastRead)
}

func allocateTempVar(m *LivenessMap, v *ir.Variable) {
	if v.IsUniform || v.IsInputSemantic || v.IsOutputSemantic || v.Reg.Allocated {
		return
	}
	if v.LastRead == 0 {
		return
	}
	width := v.Type.ComponentCount()
	v.Reg = allocate(m, width, v.FirstWrite, v.LastRead)
}

func allocate(m *LivenessMap, width uint32, firstWrite, lastRead uint32) ir.Register {
	if width <= 4 {
		reg := AllocateSingle(m, width, firstWrite, lastRead)
		reg.Class = 'r'
		return reg
	}
	rng := AllocateRange(m, width, firstWrite, lastRead)
	return ir.Register{Class: 'r', ID: rng.Start, Writemask: ir.MaskAll, Count: rng.Count, Allocated: true}
}
