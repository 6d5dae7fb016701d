// Package symbols implements scoped name resolution for variables and
// types, and the function overload table, per spec.md §4.2.
package symbols

import "github.com/gogpu/shaderc/types"

// Variable is a declared name visible in a Scope. The full per-pass
// mutable state (liveness, register, storage flags) lives in the ir
// package; symbols only tracks what name resolution needs.
type Variable struct {
	Name string
	Type *types.Type
}

// Scope is one level of a lexical scope tree. Variable lookup walks up
// through Upper; type lookup only walks up when the caller asks for it
// recursively (spec.md §4.2).
type Scope struct {
	Upper *Scope
	vars  []*Variable
	tys   map[string]*types.Type
}

// NewScope creates a scope nested inside upper (nil for the global scope).
func NewScope(upper *Scope) *Scope {
	return &Scope{Upper: upper, tys: make(map[string]*types.Type)}
}

// Declare adds decl to s. It returns false without modifying s if a
// variable with the same name is already declared directly in this scope,
// or — when local is true and s is a function body's top scope — if the
// name collides with a parameter in the enclosing (parameter) scope,
// mirroring add_declaration's function-parameter shadowing check.
func (s *Scope) Declare(decl *Variable, local bool) bool {
	for _, v := range s.vars {
		if v.Name == decl.Name {
			return false
		}
	}
	if local && s.Upper != nil && s.Upper.Upper != nil && s.Upper.Upper.Upper == nil {
		for _, v := range s.Upper.vars {
			if v.Name == decl.Name {
				return false
			}
		}
	}
	s.vars = append(s.vars, decl)
	return true
}

// Lookup finds a variable by name, walking up through enclosing scopes.
func (s *Scope) Lookup(name string) *Variable {
	for cur := s; cur != nil; cur = cur.Upper {
		for _, v := range cur.vars {
			if v.Name == name {
				return v
			}
		}
	}
	return nil
}

// DeclareType interns a named type in this scope.
func (s *Scope) DeclareType(name string, t *types.Type) {
	s.tys[name] = t
}

// LookupType finds a named type in this scope, optionally walking up
// through enclosing scopes when recursive is true (spec.md §4.2: "type
// lookup also walks up only when requested recursive").
func (s *Scope) LookupType(name string, recursive bool) *types.Type {
	if t, ok := s.tys[name]; ok {
		return t
	}
	if recursive && s.Upper != nil {
		return s.Upper.LookupType(name, recursive)
	}
	return nil
}
