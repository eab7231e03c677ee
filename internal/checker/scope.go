// Package checker binds identifiers, checks statements and
// expressions against internal/types, and emits internal/hir: the
// component spec.md §4.7 describes. Grounded on
// internal/types/typechecker_core.go's phase-split checker (core /
// patterns / operators) and internal/elaborate/elaborate.go's
// AST-to-typed-tree single-pass binding shape, adapted from AILANG's
// Hindley-Milner inference to bryc's nominal type system with
// explicit union-find untyped literals.
package checker

import "github.com/brylang/bryc/internal/hir"

// scope is one lexical block's name->Symbol bindings.
type scope struct {
	vars map[string]*hir.Symbol
}

// scopeStack implements spec.md §4.7.5's identifier lookup order:
// innermost scope outward, then (by the caller, checkIdent, once scopes
// are exhausted) the module symbol table and the core dependency's
// exports. A bare import alias is not looked up there and reports as
// an undefined identifier.
type scopeStack struct {
	frames []*scope
}

func newScopeStack() *scopeStack {
	s := &scopeStack{}
	s.push()
	return s
}

func (s *scopeStack) push() {
	s.frames = append(s.frames, &scope{vars: make(map[string]*hir.Symbol)})
}

func (s *scopeStack) pop() {
	s.frames = s.frames[:len(s.frames)-1]
}

// define binds name in the innermost frame, returning false if name
// is already bound in that exact frame (shadowing an outer scope is
// fine; redeclaring within one block is not).
func (s *scopeStack) define(name string, sym *hir.Symbol) bool {
	top := s.frames[len(s.frames)-1]
	if _, exists := top.vars[name]; exists {
		return false
	}
	top.vars[name] = sym
	return true
}

// lookup searches frames innermost-first.
func (s *scopeStack) lookup(name string) (*hir.Symbol, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if sym, ok := s.frames[i].vars[name]; ok {
			return sym, true
		}
	}
	return nil, false
}
