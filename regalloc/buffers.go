package regalloc

import (
	"github.com/gogpu/shaderc/diag"
	"github.com/gogpu/shaderc/ir"
)

// AllocateConstantBuffers implements spec.md §4.7 pass 4 (newer
// profiles): every non-object uniform is packed into its owning
// constant buffer at an offset computed by 4-component alignment with
// straddle avoidance, then each buffer is assigned a cb<index>
// register, honoring reservations first and falling back to a cursor
// over the unreserved indices.
func AllocateConstantBuffers(ctx *ir.Context, res *diag.Result) {
	for _, buf := range ctx.Buffers {
		packBuffer(buf)
	}
	assignBufferRegisters(ctx.Buffers, res)
}

// packBuffer lays out buf's members in declaration order: a member that
// would straddle a 4-component register boundary is pushed to the start
// of the next register instead, mirroring the packing rule used by
// cbuffer layout in the original toolchain.
func packBuffer(buf *ir.ConstantBuffer) {
	var cursor uint32
	for _, m := range buf.Members {
		size := m.Type.ComponentCount()
		if size > 4 {
			if cursor%4 != 0 {
				cursor = (cursor/4 + 1) * 4
			}
			count := (size + 3) / 4
			m.Reg = ir.Register{Class: 'c', ID: cursor / 4, Writemask: ir.MaskAll, Count: count, Allocated: true}
			cursor += count * 4
			continue
		}
		compInReg := cursor % 4
		if compInReg+size > 4 {
			cursor = (cursor/4 + 1) * 4
			compInReg = 0
		}
		var wm uint8
		for i := uint32(0); i < size; i++ {
			wm |= 1 << (compInReg + i)
		}
		m.Reg = ir.Register{Class: 'c', ID: cursor / 4, Writemask: wm, Allocated: true}
		cursor += size
	}
}

func assignBufferRegisters(buffers []*ir.ConstantBuffer, res *diag.Result) {
	reserved := map[uint32]*ir.ConstantBuffer{}
	var unreserved []*ir.ConstantBuffer

	for _, buf := range buffers {
		if !buf.Reservation.Set {
			unreserved = append(unreserved, buf)
			continue
		}
		if buf.Reservation.Letter != 'b' {
			res.Errorf(diag.KindInvalidReservation, diag.Location{}, "constant buffer %q reserved with letter %q, want 'b'", buf.Name, string(buf.Reservation.Letter))
			unreserved = append(unreserved, buf)
			continue
		}
		if other, ok := reserved[buf.Reservation.Index]; ok {
			res.Errorf(diag.KindOverlappingReservations, diag.Location{}, "constant buffers %q and %q both reserve b%d", other.Name, buf.Name, buf.Reservation.Index)
			continue
		}
		reserved[buf.Reservation.Index] = buf
		buf.Register = ir.Register{Class: 'b', ID: buf.Reservation.Index, Writemask: ir.MaskAll, Allocated: true}
	}

	cursor := uint32(0)
	for _, buf := range unreserved {
		for {
			if _, used := reserved[cursor]; !used {
				break
			}
			cursor++
		}
		buf.Register = ir.Register{Class: 'b', ID: cursor, Writemask: ir.MaskAll, Allocated: true}
		reserved[cursor] = buf
		cursor++
	}
}
