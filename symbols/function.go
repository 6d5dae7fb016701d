package symbols

import "github.com/gogpu/shaderc/types"

// Signature is a function's ordered parameter-type tuple, used as the
// overload-set key.
type Signature []*types.Type

// compareParamTypes orders two parameter types for overload matching. It
// treats scalar and 1-component vector as equal in class (the
// "dimension-insensitive relaxation" of spec.md §4.2). Types that differ
// only in row count are ordered by DimY; compare_param_hlsl_types in the
// original source returns a `dimx - dimx` expression there, which is
// always zero, and that typo is not reproduced.
func compareParamTypes(t1, t2 *types.Type) int {
	if t1.Class != t2.Class {
		scalarVectorPair := (t1.Class == types.ClassScalar && t2.Class == types.ClassVector) ||
			(t1.Class == types.ClassVector && t2.Class == types.ClassScalar)
		if !scalarVectorPair {
			return int(t1.Class) - int(t2.Class)
		}
	}
	if t1.Base != t2.Base {
		return int(t1.Base) - int(t2.Base)
	}
	if t1.Base == types.BaseSampler && t1.SamplerDim != t2.SamplerDim {
		return int(t1.SamplerDim) - int(t2.SamplerDim)
	}
	if t1.DimX != t2.DimX {
		return int(t1.DimX) - int(t2.DimX)
	}
	if t1.DimY != t2.DimY {
		return int(t1.DimY) - int(t2.DimY)
	}
	if t1.Class == types.ClassStruct {
		n := len(t1.Fields)
		if n != len(t2.Fields) {
			if n > len(t2.Fields) {
				return 1
			}
			return -1
		}
		for i := 0; i < n; i++ {
			if r := compareParamTypes(t1.Fields[i].Type, t2.Fields[i].Type); r != 0 {
				return r
			}
			if t1.Fields[i].Name != t2.Fields[i].Name {
				if t1.Fields[i].Name < t2.Fields[i].Name {
					return -1
				}
				return 1
			}
		}
		return 0
	}
	if t1.Class == types.ClassArray {
		if t1.ElementCount != t2.ElementCount {
			return int(t1.ElementCount) - int(t2.ElementCount)
		}
		return compareParamTypes(t1.ElementType, t2.ElementType)
	}
	return 0
}

// signatureEqual reports whether two signatures match under
// compareParamTypes, component by component.
func signatureEqual(a, b Signature) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if compareParamTypes(a[i], b[i]) != 0 {
			return false
		}
	}
	return true
}

// Overload is one declared body for a given Signature.
type Overload struct {
	Signature Signature
	HasBody   bool
	// Opaque handle into the ir package's function table; symbols does not
	// interpret it.
	Handle any
}

// Function is a name's overload set, keyed by parameter-type tuple.
type Function struct {
	Name      string
	Intrinsic bool
	overloads []*Overload
}

// FunctionTable resolves function names to their overload sets.
type FunctionTable struct {
	byName map[string]*Function
}

// NewFunctionTable creates an empty function table.
func NewFunctionTable() *FunctionTable {
	return &FunctionTable{byName: make(map[string]*Function)}
}

// Declare registers decl as an overload of name, following hlsl.c's
// add_function_decl rules:
//   - redeclaring a user function as intrinsic is a hard error (ok=false);
//   - declaring an intrinsic name as a user function quietly clears the
//     existing (intrinsic) overload set and starts a fresh user one;
//   - redeclaring an existing overload (same signature) that now has a
//     body replaces the prior declaration; one with no body and an
//     existing match is dropped (the old declaration wins).
func (ft *FunctionTable) Declare(name string, overload *Overload, intrinsic bool) (ok bool) {
	fn, exists := ft.byName[name]
	if !exists {
		fn = &Function{Name: name, Intrinsic: intrinsic}
		fn.overloads = append(fn.overloads, overload)
		ft.byName[name] = fn
		return true
	}

	if intrinsic != fn.Intrinsic {
		if intrinsic {
			// Redeclaring a user-defined function as an intrinsic.
			return false
		}
		fn.Intrinsic = false
		fn.overloads = nil
	}

	for i, existing := range fn.overloads {
		if signatureEqual(existing.Signature, overload.Signature) {
			if !overload.HasBody {
				// No body: the existing declaration wins.
				return true
			}
			fn.overloads[i] = overload
			return true
		}
	}
	fn.overloads = append(fn.overloads, overload)
	return true
}

// Lookup returns the overload set for name, or nil if undeclared.
func (ft *FunctionTable) Lookup(name string) *Function {
	return ft.byName[name]
}

// Overloads returns fn's current overload set in declaration order.
func (fn *Function) Overloads() []*Overload {
	return fn.overloads
}

// Resolve finds the overload of fn whose signature matches args exactly
// under the dimension-insensitive relaxation, or nil if none match.
func (fn *Function) Resolve(args Signature) *Overload {
	for _, o := range fn.overloads {
		if signatureEqual(o.Signature, args) {
			return o
		}
	}
	return nil
}
