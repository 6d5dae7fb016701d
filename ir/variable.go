package ir

import (
	"github.com/gogpu/shaderc/diag"
	"github.com/gogpu/shaderc/types"
)

// StorageFlags are the declared storage modifiers of a Variable, per
// spec.md §3.
type StorageFlags uint32

const (
	StorageUniform StorageFlags = 1 << iota
	StorageExtern
	StorageIn
	StorageOut
	StorageStatic
	StorageGroupshared
	StorageShared
	StorageVolatile
	StoragePrecise
)

// Semantic is a name+index pair binding a variable to an external
// hardware slot (spec.md GLOSSARY).
type Semantic struct {
	Name  string
	Index uint32
}

// IsZero reports whether no semantic was declared.
func (s Semantic) IsZero() bool { return s.Name == "" }

// Reservation pins a variable or buffer to a specific register, per
// spec.md §6.2.
type Reservation struct {
	Letter byte
	Index  uint32
	Set    bool
}

// ConstantBuffer groups uniforms that are packed and bound together under
// a single `b`-register, per spec.md GLOSSARY "Constant buffer".
type ConstantBuffer struct {
	Name        string
	Reservation Reservation
	Register    Register
	Members     []*Variable
}

// Variable is a declared shader variable, per spec.md §3. It is created
// during parsing and mutated only during semantic lowering (when split
// into uniform/temp or semantic/temp halves) and during liveness /
// register allocation.
type Variable struct {
	Name        string
	Type        *types.Type
	Loc         diag.Location
	Storage     StorageFlags
	Semantic    Semantic
	Reservation Reservation
	Buffer      *ConstantBuffer

	IsInputSemantic  bool
	IsOutputSemantic bool
	IsUniform        bool
	IsParam          bool

	FirstWrite uint32
	LastRead   uint32
	Reg        Register
}

// InfiniteLastRead marks a variable as live until the end of the program,
// used for output-semantic variables per spec.md §4.6.
const InfiniteLastRead = ^uint32(0)

// MergeLiveness widens the variable's [FirstWrite, LastRead] interval to
// include index, mirroring compute_liveness_recurse's treatment of loads
// and stores: FirstWrite is only set on the defining store (via a
// separate call site), LastRead always widens toward the max seen index.
func (v *Variable) MergeLiveness(index uint32) {
	if index > v.LastRead {
		v.LastRead = index
	}
}

// MergeFirstWrite sets FirstWrite the first time a variable is stored to,
// mirroring `if (!var->first_write) var->first_write = ...`.
func (v *Variable) MergeFirstWrite(index uint32) {
	if v.FirstWrite == 0 {
		v.FirstWrite = index
	}
}
