// ============================================================================
// kthxbye - LOLCODE Interpreter
// ============================================================================
//
// Package:     scope
// Description: Scoped variable environment stored as an index-based arena
// Author:      Mike Stoffels
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package scope

import (
	mdwerror "github.com/msto63/kthxbye/foundation/core/error"
	"github.com/msto63/kthxbye/internal/lolcode/value"
)

// ImplicitName is the always-present binding that receives bare
// expression results
const ImplicitName = "IT"

// ID references a scope in the arena
type ID int

// NoParent marks the root scope
const NoParent ID = -1

// Binding is a named value
type Binding struct {
	Name  string
	Value value.Value
}

type frame struct {
	parent   ID
	bindings map[string]value.Value
	order    []string
}

// Env is a chain of scopes. Scopes live in a slice and refer to their
// parent by index. Child scopes are released in reverse order of entry,
// so the arena behaves as a stack.
type Env struct {
	frames  []frame
	current ID
}

// New creates an environment whose root scope holds IT = Uninitialized
func New() *Env {
	e := &Env{current: 0}
	e.frames = append(e.frames, frame{parent: NoParent, bindings: make(map[string]value.Value)})
	e.Declare(ImplicitName, value.Uninit())
	return e
}

// Current returns the innermost scope
func (e *Env) Current() ID { return e.current }

// Depth returns the number of scopes above the root
func (e *Env) Depth() int { return int(e.current) }

// EnterChild creates a scope whose parent is the current scope and makes
// it current
func (e *Env) EnterChild() ID {
	e.frames = append(e.frames, frame{parent: e.current, bindings: make(map[string]value.Value)})
	e.current = ID(len(e.frames) - 1)
	return e.current
}

// Release discards id, which must be the current non-root scope, and
// returns to its parent
func (e *Env) Release(id ID) error {
	if id != e.current || id == 0 {
		return mdwerror.Newf("scope %d is not the innermost child scope", id).
			WithCode(mdwerror.CodeInternal)
	}
	e.current = e.frames[id].parent
	e.frames[id] = frame{}
	e.frames = e.frames[:id]
	return nil
}

// Declare binds name in the current scope, shadowing any outer binding
func (e *Env) Declare(name string, v value.Value) {
	f := &e.frames[e.current]
	if _, ok := f.bindings[name]; !ok {
		f.order = append(f.order, name)
	}
	f.bindings[name] = v
}

// Assign updates the innermost scope that binds name
func (e *Env) Assign(name string, v value.Value) error {
	id, ok := e.resolve(name)
	if !ok {
		return mdwerror.Newf("Variable '%s' undeclared.", name).
			WithCode(mdwerror.CodeUnknownVariable).
			WithDetail("variable", name)
	}
	e.frames[id].bindings[name] = v
	return nil
}

// Lookup returns the value bound to name. Unbound and uninitialized names
// are errors.
func (e *Env) Lookup(name string) (value.Value, error) {
	id, ok := e.resolve(name)
	if !ok {
		return value.Value{}, mdwerror.Newf("Variable '%s' unknown.", name).
			WithCode(mdwerror.CodeUnknownVariable).
			WithDetail("variable", name)
	}
	v := e.frames[id].bindings[name]
	if v.Tag() == value.Uninitialized {
		return value.Value{}, mdwerror.Newf("Variable '%s' not initialized.", name).
			WithCode(mdwerror.CodeUninitializedVariable).
			WithDetail("variable", name)
	}
	return v, nil
}

// Contains reports whether name is bound anywhere in the chain
func (e *Env) Contains(name string) bool {
	_, ok := e.resolve(name)
	return ok
}

func (e *Env) resolve(name string) (ID, bool) {
	for id := e.current; id != NoParent; id = e.frames[id].parent {
		if _, ok := e.frames[id].bindings[name]; ok {
			return id, true
		}
	}
	return NoParent, false
}

// Globals returns the root scope bindings in declaration order
func (e *Env) Globals() []Binding {
	root := e.frames[0]
	out := make([]Binding, 0, len(root.order))
	for _, name := range root.order {
		out = append(out, Binding{Name: name, Value: root.bindings[name]})
	}
	return out
}
