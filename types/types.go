// Package types implements the shader type system: builtin scalar, vector,
// matrix, array, struct and object types, their structural equality, and
// the conversion rules used when building expressions.
package types

// Class is the coarse shape of a type.
type Class uint8

const (
	// ClassScalar is a single-component numeric or boolean value.
	ClassScalar Class = iota
	// ClassVector is a 1xN row of scalars.
	ClassVector
	// ClassMatrix is an MxN grid of scalars.
	ClassMatrix
	// ClassArray is a fixed-length homogeneous sequence.
	ClassArray
	// ClassStruct is an ordered list of named, typed fields.
	ClassStruct
	// ClassObject is a sampler, texture, or other opaque resource type.
	ClassObject
)

func (c Class) String() string {
	switch c {
	case ClassScalar:
		return "scalar"
	case ClassVector:
		return "vector"
	case ClassMatrix:
		return "matrix"
	case ClassArray:
		return "array"
	case ClassStruct:
		return "struct"
	case ClassObject:
		return "object"
	default:
		return "unknown"
	}
}

// LastNumericClass is the highest Class value that is numeric (scalar,
// vector, or matrix), mirroring HLSL_CLASS_LAST_NUMERIC.
const LastNumericClass = ClassMatrix

// Base is the scalar base type carried by numeric and object types.
type Base uint8

const (
	BaseBool Base = iota
	BaseHalf
	BaseFloat
	BaseDouble
	BaseInt
	BaseUint
	BaseSampler
	BaseTexture
)

func (b Base) String() string {
	switch b {
	case BaseBool:
		return "bool"
	case BaseHalf:
		return "half"
	case BaseFloat:
		return "float"
	case BaseDouble:
		return "double"
	case BaseInt:
		return "int"
	case BaseUint:
		return "uint"
	case BaseSampler:
		return "sampler"
	case BaseTexture:
		return "texture"
	default:
		return "unknown"
	}
}

// LastScalarBase is the highest Base value considered a plain numeric
// scalar (as opposed to a resource/object base), mirroring
// HLSL_TYPE_LAST_SCALAR.
const LastScalarBase = BaseUint

// Majority records whether a matrix is stored row-major or column-major.
type Majority uint8

const (
	// MajorityDefault means no explicit majority was declared; callers
	// resolve it via Clone's defaultMajority parameter.
	MajorityDefault Majority = iota
	MajorityRowMajor
	MajorityColumnMajor
)

// Modifiers carries storage and layout modifiers orthogonal to Class/Base.
type Modifiers uint32

const (
	ModifierConst Modifiers = 1 << iota
	ModifierRowMajor
	ModifierColumnMajor
	ModifierPrecise
	ModifierVolatile
)

// SamplerDim distinguishes sampler/texture dimensionality.
type SamplerDim uint8

const (
	SamplerDimUnknown SamplerDim = iota
	SamplerDim1D
	SamplerDim2D
	SamplerDim3D
	SamplerDimCube
	SamplerDimComparison
)

// Field is a single named, typed member of a struct, in declaration order.
type Field struct {
	Name      string
	Type      *Type
	Semantic  string
	SemIndex  uint32
	RegOffset uint32 // in 4-component register slots, set by Struct layout
	Modifiers Modifiers
}

// Type is a fully-resolved shader type. Types are interned per scope (see
// the symbols package) and compared structurally with Equal.
type Type struct {
	Name  string
	Class Class
	Base  Base

	// DimX is the vector width / matrix column count. Scalars are 1.
	DimX uint8
	// DimY is the matrix row count. 1 for non-matrices.
	DimY uint8

	Modifiers  Modifiers
	SamplerDim SamplerDim

	// Array fields (Class == ClassArray).
	ElementType  *Type
	ElementCount uint32

	// Struct fields (Class == ClassStruct), in declaration order.
	Fields []Field

	// RegSize is the size of this type in 4-component register slots,
	// computed by NewX/Clone at construction time.
	RegSize uint32
}

// IsRowMajor reports whether a matrix type is stored row-major. Non-matrix
// types report false.
func (t *Type) IsRowMajor() bool {
	return t.Modifiers&ModifierRowMajor != 0
}

// IsNumeric reports whether t's class is scalar, vector, or matrix.
func (t *Type) IsNumeric() bool {
	return t.Class <= LastNumericClass
}

// IsScalarBase reports whether t's base is a plain numeric scalar base
// (not sampler/texture).
func (t *Type) IsScalarBase() bool {
	return t.Base <= LastScalarBase
}

// ComponentCount returns the total number of scalar leaves. For a matrix
// this is DimX*DimY; for structs and arrays it recurses.
func (t *Type) ComponentCount() uint32 {
	switch t.Class {
	case ClassScalar:
		return 1
	case ClassVector:
		return uint32(t.DimX)
	case ClassMatrix:
		return uint32(t.DimX) * uint32(t.DimY)
	case ClassArray:
		return t.ElementType.ComponentCount() * t.ElementCount
	case ClassStruct:
		var n uint32
		for i := range t.Fields {
			n += t.Fields[i].Type.ComponentCount()
		}
		return n
	default:
		return 0
	}
}

// computeRegSize fills in RegSize per spec.md §3: scalars/vectors are one
// slot, a matrix is its dominant-axis length, an array is element size
// times count, a struct is the sum of its field sizes in declaration
// order (fields are never reordered for packing).
func computeRegSize(t *Type) uint32 {
	switch t.Class {
	case ClassScalar, ClassVector:
		return 1
	case ClassMatrix:
		if t.IsRowMajor() {
			return uint32(t.DimY)
		}
		return uint32(t.DimX)
	case ClassArray:
		return t.ElementType.RegSize * t.ElementCount
	case ClassStruct:
		var size uint32
		for i := range t.Fields {
			t.Fields[i].RegOffset = size
			size += t.Fields[i].Type.RegSize
		}
		return size
	case ClassObject:
		return 1
	default:
		return 0
	}
}

// NewScalar constructs a scalar type of the given base.
func NewScalar(base Base) *Type {
	t := &Type{Class: ClassScalar, Base: base, DimX: 1, DimY: 1}
	t.RegSize = computeRegSize(t)
	return t
}

// NewVector constructs a width-n vector of base, 2 <= n <= 4.
func NewVector(base Base, n uint8) *Type {
	t := &Type{Class: ClassVector, Base: base, DimX: n, DimY: 1}
	t.RegSize = computeRegSize(t)
	return t
}

// NewMatrix constructs a rows x columns matrix of base with the given
// majority. MajorityDefault sets no majority modifier, so the matrix
// reports IsRowMajor false and its RegSize is the column count.
func NewMatrix(base Base, rows, columns uint8, majority Majority) *Type {
	t := &Type{Class: ClassMatrix, Base: base, DimX: columns, DimY: rows}
	if majority == MajorityRowMajor {
		t.Modifiers |= ModifierRowMajor
	} else if majority == MajorityColumnMajor {
		t.Modifiers |= ModifierColumnMajor
	}
	t.RegSize = computeRegSize(t)
	return t
}

// NewArray constructs an array of count elements of elem.
func NewArray(elem *Type, count uint32) *Type {
	t := &Type{Class: ClassArray, ElementType: elem, ElementCount: count, DimX: 1, DimY: 1}
	t.RegSize = computeRegSize(t)
	return t
}

// NewStruct constructs a struct type from fields, in declaration order.
// Field RegOffset values are computed and written in place.
func NewStruct(name string, fields []Field) *Type {
	t := &Type{Name: name, Class: ClassStruct, Fields: fields, DimX: 1, DimY: 1}
	t.RegSize = computeRegSize(t)
	return t
}

// NewObject constructs a sampler or texture type.
func NewObject(base Base, dim SamplerDim) *Type {
	t := &Type{Class: ClassObject, Base: base, SamplerDim: dim, DimX: 1, DimY: 1}
	t.RegSize = computeRegSize(t)
	return t
}

// Clone makes a deep, independent copy of t. If t has no explicit
// row/column-major modifier, defaultMajority is applied, mirroring
// clone_hlsl_type's default_majority parameter.
func Clone(t *Type, defaultMajority Majority) *Type {
	clone := *t
	if clone.Modifiers&(ModifierRowMajor|ModifierColumnMajor) == 0 {
		switch defaultMajority {
		case MajorityRowMajor:
			clone.Modifiers |= ModifierRowMajor
		case MajorityColumnMajor:
			clone.Modifiers |= ModifierColumnMajor
		}
	}
	switch t.Class {
	case ClassArray:
		clone.ElementType = Clone(t.ElementType, defaultMajority)
	case ClassStruct:
		clone.Fields = make([]Field, len(t.Fields))
		for i := range t.Fields {
			clone.Fields[i] = t.Fields[i]
			clone.Fields[i].Type = Clone(t.Fields[i].Type, defaultMajority)
		}
	}
	clone.RegSize = computeRegSize(&clone)
	return &clone
}
