package types

// Equal reports structural equality between a and b, per spec.md §3
// ("equality is structural"), grounded on compare_hlsl_types in hlsl.c.
func Equal(a, b *Type) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return a == b
	}
	if a.Class != b.Class || a.Base != b.Base {
		return false
	}
	if a.Base == BaseSampler && a.SamplerDim != b.SamplerDim {
		return false
	}
	if majorityOf(a) != majorityOf(b) {
		return false
	}
	if a.DimX != b.DimX || a.DimY != b.DimY {
		return false
	}
	switch a.Class {
	case ClassStruct:
		if len(a.Fields) != len(b.Fields) {
			return false
		}
		for i := range a.Fields {
			if a.Fields[i].Name != b.Fields[i].Name {
				return false
			}
			if !Equal(a.Fields[i].Type, b.Fields[i].Type) {
				return false
			}
		}
	case ClassArray:
		return a.ElementCount == b.ElementCount && Equal(a.ElementType, b.ElementType)
	}
	return true
}

func majorityOf(t *Type) Modifiers {
	return t.Modifiers & (ModifierRowMajor | ModifierColumnMajor)
}

// convertible reports whether t may participate in any cast at all; only
// object types (samplers/textures) are excluded, per convertible_data_type.
func convertible(t *Type) bool {
	return t.Class != ClassObject
}

// componentsCount mirrors components_count_type: the flattened scalar leaf
// count, identical to Type.ComponentCount but kept local for parity with
// the original naming in call sites below.
func componentsCount(t *Type) uint32 {
	return t.ComponentCount()
}

// CastCompatible reports whether a value of type src can be explicitly
// cast to dst, per spec.md §4.1 "cast_compatible is strictly looser".
// Grounded on compatible_data_types in hlsl.c.
func CastCompatible(src, dst *Type) bool {
	if !convertible(src) || !convertible(dst) {
		return false
	}

	if src.Class <= LastNumericClass {
		if src.DimX == 1 && src.DimY == 1 {
			return true
		}
		if src.Class == ClassVector && dst.Class == ClassVector {
			return src.DimX >= dst.DimX
		}
	}

	if dst.Class <= LastNumericClass && dst.DimX == 1 && dst.DimY == 1 {
		return true
	}

	if src.Class == ClassArray {
		if Equal(src.ElementType, dst) {
			return true
		}
		if dst.Class == ClassArray || dst.Class == ClassStruct {
			return componentsCount(src) >= componentsCount(dst)
		}
		return componentsCount(src) == componentsCount(dst)
	}

	if src.Class == ClassStruct {
		return componentsCount(src) >= componentsCount(dst)
	}

	if dst.Class == ClassArray || dst.Class == ClassStruct {
		return componentsCount(src) == componentsCount(dst)
	}

	if src.Class == ClassMatrix || dst.Class == ClassMatrix {
		if src.Class == ClassMatrix && dst.Class == ClassMatrix && src.DimX >= dst.DimX && src.DimY >= dst.DimY {
			return true
		}
		if (src.Class == ClassVector || dst.Class == ClassVector) && componentsCount(src) == componentsCount(dst) {
			return true
		}
		return false
	}

	return componentsCount(src) >= componentsCount(dst)
}

// ImplicitCompatible reports whether a value of type src may be used where
// dst is expected without an explicit cast, per spec.md §4.1. Grounded on
// implicit_compatible_data_types in hlsl.c.
func ImplicitCompatible(src, dst *Type) bool {
	if !convertible(src) || !convertible(dst) {
		return false
	}

	if src.Class <= LastNumericClass {
		if src.DimX == 1 && src.DimY == 1 && dst.Class <= LastNumericClass {
			return true
		}
		if dst.DimX == 1 && dst.DimY == 1 && dst.Class <= LastNumericClass {
			return true
		}
	}

	if src.Class == ClassArray && dst.Class == ClassArray {
		return componentsCount(src) == componentsCount(dst)
	}

	if (src.Class == ClassArray && dst.Class <= LastNumericClass) ||
		(src.Class <= LastNumericClass && dst.Class == ClassArray) {
		if src.Class == ClassArray && Equal(src.ElementType, dst) {
			return true
		}
		return componentsCount(src) == componentsCount(dst)
	}

	if src.Class <= ClassVector && dst.Class <= ClassVector {
		return src.DimX >= dst.DimX
	}

	if src.Class == ClassMatrix || dst.Class == ClassMatrix {
		if src.Class == ClassMatrix && dst.Class == ClassMatrix && src.DimX >= dst.DimX && src.DimY >= dst.DimY {
			return true
		}
		if (src.Class == ClassVector || dst.Class == ClassVector) && componentsCount(src) == componentsCount(dst) {
			return true
		}
		return false
	}

	if src.Class == ClassStruct && dst.Class == ClassStruct {
		return Equal(src, dst)
	}

	return false
}

// exprCompatible reports whether a and b may appear together as the
// operands of a binary expression, per expr_compatible_data_types.
func exprCompatible(a, b *Type) bool {
	if a.Base > LastScalarBase || b.Base > LastScalarBase {
		return false
	}

	if (a.DimX == 1 && a.DimY == 1) || (b.DimX == 1 && b.DimY == 1) {
		return true
	}

	if a.Class == ClassVector && b.Class == ClassVector {
		return true
	}

	if a.Class == ClassMatrix || b.Class == ClassMatrix {
		if a.Class == ClassVector || b.Class == ClassVector {
			if componentsCount(a) == componentsCount(b) {
				return true
			}
			return (a.Class == ClassMatrix && (a.DimX == 1 || a.DimY == 1)) ||
				(b.Class == ClassMatrix && (b.DimX == 1 || b.DimY == 1))
		}
		// Both matrices: compatible iff one dominates the other in both axes.
		return (a.DimX >= b.DimX && a.DimY >= b.DimY) || (a.DimX <= b.DimX && a.DimY <= b.DimY)
	}

	return false
}

// baseOrder is the canonical promotion ladder bool < int < uint < half <
// float < double. exprCommonBase ranks half on float's rung and yields
// float whenever half wins, per expr_common_base_type.
var baseOrder = [...]Base{BaseBool, BaseInt, BaseUint, BaseHalf, BaseFloat, BaseDouble}

func exprCommonBase(a, b Base) Base {
	idxOf := func(base Base) int {
		for i, v := range baseOrder {
			if v == base {
				if base == BaseHalf {
					return i + 1
				}
				return i
			}
		}
		return -1
	}
	ai, bi := idxOf(a), idxOf(b)
	if ai == -1 || bi == -1 {
		return BaseFloat
	}
	if ai >= bi {
		if a == BaseHalf {
			return BaseFloat
		}
		return a
	}
	if b == BaseHalf {
		return BaseFloat
	}
	return b
}

// ExprCommonType computes the result type of a binary expression over a
// and b, per spec.md §4.1 / §4.3. ok is false (and the result nil) if the
// operands are not numeric or are not expression-compatible; the caller
// is responsible for reporting the corresponding diagnostic.
func ExprCommonType(a, b *Type) (result *Type, ok bool) {
	if a.Class > LastNumericClass || b.Class > LastNumericClass {
		return nil, false
	}
	if Equal(a, b) {
		return a, true
	}
	if !exprCompatible(a, b) {
		return nil, false
	}

	var base Base
	if a.Base == b.Base {
		base = a.Base
	} else {
		base = exprCommonBase(a.Base, b.Base)
	}

	var class Class
	var dimX, dimY uint8
	switch {
	case a.DimX == 1 && a.DimY == 1:
		class, dimX, dimY = b.Class, b.DimX, b.DimY
	case b.DimX == 1 && b.DimY == 1:
		class, dimX, dimY = a.Class, a.DimX, a.DimY
	case a.Class == ClassMatrix && b.Class == ClassMatrix:
		class = ClassMatrix
		dimX, dimY = minU8(a.DimX, b.DimX), minU8(a.DimY, b.DimY)
	default:
		// Two vectors, or a vector and a vector-shaped (1xn/nx1) matrix.
		if uint32(a.DimX)*uint32(a.DimY) == uint32(b.DimX)*uint32(b.DimY) {
			class = ClassVector
			dimX, dimY = maxU8(a.DimX, b.DimX), 1
		} else if maxU8(a.DimX, a.DimY) <= maxU8(b.DimX, b.DimY) {
			class, dimX, dimY = a.Class, a.DimX, a.DimY
		} else {
			class, dimX, dimY = b.Class, b.DimX, b.DimY
		}
	}

	switch class {
	case ClassScalar:
		return NewScalar(base), true
	case ClassVector:
		return NewVector(base, dimX), true
	case ClassMatrix:
		majority := MajorityColumnMajor
		if a.IsRowMajor() || b.IsRowMajor() {
			majority = MajorityRowMajor
		}
		return NewMatrix(base, dimY, dimX, majority), true
	default:
		return NewScalar(base), true
	}
}

func minU8(a, b uint8) uint8 {
	if a < b {
		return a
	}
	return b
}

func maxU8(a, b uint8) uint8 {
	if a > b {
		return a
	}
	return b
}

// legacyDimYDelta reproduces the legacy dimension-comparator discussed in
// spec.md DESIGN NOTES (i): the original source contains a `dimx - dimx`
// typo in a dimy comparator. Open Question (i) resolves this as a defect;
// the corrected form is implemented here.
func legacyDimYDelta(t1, t2 *Type) int {
	return int(t1.DimY) - int(t2.DimY)
}
