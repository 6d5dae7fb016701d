package regalloc

import (
	"testing"

	"github.com/gogpu/shaderc/ir"
)

func TestAllocateSinglePicksLowestAvailableComponents(t *testing.T) {
	m := NewLivenessMap()
	reg := AllocateSingle(m, 2, 0, 4)
	if reg.Writemask != ir.MaskX|ir.MaskY {
		t.Fatalf("expected .xy, got %08b", reg.Writemask)
	}
}

func TestAllocateSingleSharesRegisterAcrossNonOverlappingRanges(t *testing.T) {
	m := NewLivenessMap()
	a := AllocateSingle(m, 2, 0, 4)
	b := AllocateSingle(m, 2, 5, 10)
	if a.ID != b.ID {
		t.Fatalf("expected b to reuse a's register once a's range ended, got a.ID=%d b.ID=%d", a.ID, b.ID)
	}
	if a.Writemask != b.Writemask {
		t.Fatalf("expected b to reuse the exact same components, got a=%08b b=%08b", a.Writemask, b.Writemask)
	}
}

func TestAllocateSingleMovesToNextRegisterWhenFull(t *testing.T) {
	m := NewLivenessMap()
	a := AllocateSingle(m, 4, 0, 10)
	b := AllocateSingle(m, 1, 2, 6)
	if a.ID == b.ID {
		t.Fatalf("expected b to land on a different register once a's register is full, both got %d", a.ID)
	}
}

func TestAllocateRangeReservesContiguousRegisters(t *testing.T) {
	m := NewLivenessMap()
	rng := AllocateRange(m, 16, 0, 10) // a 4x4 matrix
	if rng.Count != 4 {
		t.Fatalf("expected a 16-component value to span 4 registers, got %d", rng.Count)
	}
}

func TestFormatRegisterRendersPartialWritemask(t *testing.T) {
	reg := ir.Register{ID: 3, Writemask: ir.MaskX | ir.MaskZ, Allocated: true}
	if got := FormatRegister('r', reg); got != "r3.xz" {
		t.Fatalf("expected r3.xz, got %q", got)
	}
}

func TestFormatRangeRendersMultiRegisterSpan(t *testing.T) {
	rng := Range{Start: 3, Count: 3}
	if got := FormatRange('r', rng); got != "r3-r5" {
		t.Fatalf("expected r3-r5, got %q", got)
	}
}
