package regalloc

import (
	"math"

	"github.com/gogpu/shaderc/ir"
	"github.com/gogpu/shaderc/types"
)

// LiteralTable holds the 4-float literal value backing each allocated
// constant register, keyed by register ID, per spec.md §4.7 pass 2's
// "parallel table of literal 4-float values ... updated at the assigned
// slot."
type LiteralTable struct {
	Values map[uint32][4]float32
}

// NewLiteralTable returns an empty table.
func NewLiteralTable() *LiteralTable {
	return &LiteralTable{Values: map[uint32][4]float32{}}
}

// AllocateConstants implements spec.md §4.7 pass 2 (legacy profiles):
// every constant node is given a const-register slot [1, +∞), and all
// uniform variables also receive const-registers.
func AllocateConstants(ctx *ir.Context) (*LivenessMap, *LiteralTable) {
	m := NewLivenessMap()
	m.Reserve(0)
	table := NewLiteralTable()

	ctx.Body.Walk(func(n *ir.Node) bool {
		if n.Kind != ir.KindConstant || n.Reg.Allocated {
			return true
		}
		width := n.ResultType.ComponentCount()
		n.Reg = allocate(m, width, 1, ir.InfiniteLastRead)
		n.Reg.Class = 'c'
		writeLiteral(table, n.Reg, n.Payload.(*ir.ConstantPayload), n.ResultType.Base)
		return true
	})

	allocateUniform := func(v *ir.Variable) {
		if !v.IsUniform || v.Reg.Allocated {
			return
		}
		width := v.Type.ComponentCount()
		v.Reg = allocate(m, width, 1, ir.InfiniteLastRead)
		v.Reg.Class = 'c'
	}
	for _, v := range ctx.Variables {
		allocateUniform(v)
	}
	for _, p := range ctx.Params {
		allocateUniform(p)
	}
	return m, table
}

func writeLiteral(table *LiteralTable, reg ir.Register, payload *ir.ConstantPayload, base types.Base) {
	count := reg.Count
	if count == 0 {
		count = 1
	}
	if count > 1 {
		for i := uint32(0); i < count; i++ {
			regID := reg.ID + i
			arr := table.Values[regID]
			for c := 0; c < 4; c++ {
				idx := int(i)*4 + c
				if idx < len(payload.Components) {
					arr[c] = componentFloat(payload.Components[idx], base)
				}
			}
			table.Values[regID] = arr
		}
		return
	}
	arr := table.Values[reg.ID]
	for k, bitpos := range bitsOf(reg.Writemask) {
		if k < len(payload.Components) {
			arr[bitpos] = componentFloat(payload.Components[k], base)
		}
	}
	table.Values[reg.ID] = arr
}

// componentFloat reinterprets a constant component as the raw float4
// bit pattern a legacy constant register slot stores, mirroring
// asfloat/asuint reinterpretation in emitted assembly (spec.md §8
// scenario 5). Double-precision constants are not supported (spec.md
// §1 Non-goals) and fold to 0.
func componentFloat(c ir.ConstantComponent, base types.Base) float32 {
	switch base {
	case types.BaseFloat:
		return c.Float
	case types.BaseHalf:
		return c.Half
	case types.BaseInt:
		return math.Float32frombits(uint32(c.Int))
	case types.BaseUint:
		return math.Float32frombits(c.Uint)
	case types.BaseBool:
		if c.Bool {
			return 1
		}
		return 0
	default:
		return 0
	}
}

func bitsOf(mask uint8) []uint8 {
	var bits []uint8
	for i := uint8(0); i < 4; i++ {
		if mask&(1<<i) != 0 {
			bits = append(bits, i)
		}
	}
	return bits
}
