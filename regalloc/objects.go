package regalloc

import (
	"github.com/gogpu/shaderc/diag"
	"github.com/gogpu/shaderc/ir"
	"github.com/gogpu/shaderc/types"
)

// objectLetter returns the reservation letter an object variable's
// register class uses: 's' for samplers, 't' for textures (and other
// non-sampler resource objects).
func objectLetter(v *ir.Variable) byte {
	if v.Type != nil && v.Type.Class == types.ClassObject && v.Type.Base == types.BaseSampler {
		return 's'
	}
	return 't'
}

// AllocateObjects implements spec.md §4.7 pass 5: textures and samplers
// are allocated analogously to constant buffers, except each letter
// class ('s', 't') gets its own independent cursor and reservation
// table.
func AllocateObjects(ctx *ir.Context, res *diag.Result) {
	byLetter := map[byte][]*ir.Variable{}
	classify := func(v *ir.Variable) {
		if v.Type == nil || v.Type.Class != types.ClassObject {
			return
		}
		letter := objectLetter(v)
		byLetter[letter] = append(byLetter[letter], v)
	}
	for _, v := range ctx.Variables {
		classify(v)
	}
	for _, p := range ctx.Params {
		classify(p)
	}

	for letter, vars := range byLetter {
		assignObjectRegisters(letter, vars, res)
	}
}

func assignObjectRegisters(letter byte, vars []*ir.Variable, res *diag.Result) {
	reserved := map[uint32]*ir.Variable{}
	var unreserved []*ir.Variable

	for _, v := range vars {
		if !v.Reservation.Set {
			unreserved = append(unreserved, v)
			continue
		}
		if v.Reservation.Letter != letter {
			res.Errorf(diag.KindInvalidReservation, v.Loc, "object %q reserved with letter %q, want %q", v.Name, string(v.Reservation.Letter), string(letter))
			unreserved = append(unreserved, v)
			continue
		}
		if other, ok := reserved[v.Reservation.Index]; ok {
			res.Errorf(diag.KindOverlappingReservations, v.Loc, "objects %q and %q both reserve %c%d", other.Name, v.Name, letter, v.Reservation.Index)
			continue
		}
		reserved[v.Reservation.Index] = v
		v.Reg = ir.Register{Class: letter, ID: v.Reservation.Index, Writemask: ir.MaskAll, Allocated: true}
	}

	cursor := uint32(0)
	for _, v := range unreserved {
		for {
			if _, used := reserved[cursor]; !used {
				break
			}
			cursor++
		}
		v.Reg = ir.Register{Class: letter, ID: cursor, Writemask: ir.MaskAll, Allocated: true}
		reserved[cursor] = v
		cursor++
	}
}
