package ir

import "testing"

func TestRegisterStringSingleWithPartialWritemask(t *testing.T) {
	r := Register{Class: 'c', ID: 7, Writemask: MaskX | MaskY | MaskZ, Allocated: true}
	if got := r.String(); got != "c7.xyz" {
		t.Fatalf("expected c7.xyz, got %q", got)
	}
}

func TestRegisterStringSingleWithFullWritemaskOmitsSuffix(t *testing.T) {
	r := Register{Class: 't', ID: 0, Writemask: MaskAll, Allocated: true}
	if got := r.String(); got != "t0" {
		t.Fatalf("expected t0, got %q", got)
	}
}

func TestRegisterStringRange(t *testing.T) {
	r := Register{Class: 'r', ID: 3, Count: 3, Writemask: MaskAll, Allocated: true}
	if got := r.String(); got != "r3-r5" {
		t.Fatalf("expected r3-r5, got %q", got)
	}
}

func TestRegisterStringUnallocated(t *testing.T) {
	r := Register{}
	if got := r.String(); got != "<unallocated>" {
		t.Fatalf("expected <unallocated>, got %q", got)
	}
}

func TestRegisterStringDefaultsToTempClass(t *testing.T) {
	r := Register{ID: 2, Writemask: MaskX, Allocated: true}
	if got := r.String(); got != "r2.x" {
		t.Fatalf("expected r2.x default class 'r', got %q", got)
	}
}
