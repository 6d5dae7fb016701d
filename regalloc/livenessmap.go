// Package regalloc implements register allocation (spec.md §4.7): a
// writemask-based single-register allocator for ≤4-component values, a
// contiguous-range allocator for larger ones, and the five allocation
// passes (temp, constant, semantic, constant-buffer, object) that use
// them.
package regalloc

import "github.com/gogpu/shaderc/ir"

// LivenessMap is a growable array of per-component last_read slots, per
// spec.md §4.7: "a slot is available at time t for lifetime [w, r] iff
// its current last_read ≤ w; allocation sets its last_read ← r."
type LivenessMap struct {
	regs [][4]uint32
}

// NewLivenessMap returns an empty map; registers are allocated lazily as
// they're scanned.
func NewLivenessMap() *LivenessMap {
	return &LivenessMap{}
}

func (m *LivenessMap) ensure(id uint32) {
	for uint32(len(m.regs)) <= id {
		m.regs = append(m.regs, [4]uint32{})
	}
}

func (m *LivenessMap) slot(id uint32, component int) uint32 {
	if id >= uint32(len(m.regs)) {
		return 0
	}
	return m.regs[id][component]
}

// Count returns the number of distinct register IDs touched so far,
// i.e. the register count a back end must declare for this class.
func (m *LivenessMap) Count() uint32 {
	return uint32(len(m.regs))
}

// Reserve permanently marks register id as unavailable, used to keep
// slot 0 out of the legacy constant-register pool (spec.md §4.7 pass 2
// numbers const-registers starting at 1).
func (m *LivenessMap) Reserve(id uint32) {
	m.ensure(id)
	for c := 0; c < 4; c++ {
		m.regs[id][c] = ir.InfiniteLastRead
	}
}

// AllocateSingle implements the single-register allocator (spec.md
// §4.7, component_count ≤ 4): scans registers in order and, within the
// first one whose four slots together hold at least width available
// components for [firstWrite, lastRead], picks the lowest-numbered
// matching writemask.
func AllocateSingle(m *LivenessMap, width uint32, firstWrite, lastRead uint32) ir.Register {
	if width == 0 || width > 4 {
		width = 4
	}
	for id := uint32(0); ; id++ {
		m.ensure(id)
		var avail uint8
		for c := 0; c < 4; c++ {
			if m.slot(id, c) <= firstWrite {
				avail |= 1 << uint(c)
			}
		}
		if wm := pickLowestBits(avail, int(width)); wm != 0 {
			for c := 0; c < 4; c++ {
				if wm&(1<<uint(c)) != 0 {
					m.regs[id][c] = lastRead
				}
			}
			return ir.Register{ID: id, Writemask: wm, Allocated: true}
		}
	}
}

// pickLowestBits returns a mask made of the lowest n set bits of avail,
// or 0 if avail doesn't have n bits set.
func pickLowestBits(avail uint8, n int) uint8 {
	if ir.PopCount(avail) < n {
		return 0
	}
	var mask uint8
	picked := 0
	for c := 0; c < 4 && picked < n; c++ {
		if avail&(1<<uint(c)) != 0 {
			mask |= 1 << uint(c)
			picked++
		}
	}
	return mask
}

// Range is a reserved run of whole 4-component registers, returned by
// the range allocator for component_count > 4 values.
type Range struct {
	Start uint32
	Count uint32
}

// AllocateRange implements the range allocator (spec.md §4.7,
// component_count > 4): scans for a contiguous run of fully-available
// 4-component registers and reserves the whole run.
func AllocateRange(m *LivenessMap, width uint32, firstWrite, lastRead uint32) Range {
	count := (width + 3) / 4
	for start := uint32(0); ; start++ {
		ok := true
		for i := uint32(0); i < count; i++ {
			id := start + i
			m.ensure(id)
			for c := 0; c < 4; c++ {
				if m.slot(id, c) > firstWrite {
					ok = false
					break
				}
			}
			if !ok {
				break
			}
		}
		if !ok {
			continue
		}
		for i := uint32(0); i < count; i++ {
			id := start + i
			for c := 0; c < 4; c++ {
				m.regs[id][c] = lastRead
			}
		}
		return Range{Start: start, Count: count}
	}
}

// FormatRegister renders a debug string for a single-register allocation
// (e.g. "r3.x", "r3.xz"), mirroring debug_register's notation. It is a
// thin wrapper over ir.Register.String with the class letter attached.
func FormatRegister(class byte, reg ir.Register) string {
	reg.Class = class
	return reg.String()
}

// FormatRange renders a debug string for a range allocation (e.g.
// "r3-r5"), mirroring debug_register's multi-register notation.
func FormatRange(class byte, rng Range) string {
	reg := ir.Register{Class: class, ID: rng.Start, Count: rng.Count, Allocated: true}
	return reg.String()
}
