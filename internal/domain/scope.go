package domain

import (
	"sort"

	m "github.com/mouse-blink/suspect/internal/model"
)

// Var is one binding of a scope.
type Var struct {
	Name  string
	Value m.Value
}

// Scope maps names to their last known value. Scopes form a stack through
// their parent links; a child starts with a copy of its parent's bindings.
type Scope struct {
	parent    *Scope
	variables map[string]m.Value
}

// NewScope returns an empty root scope.
func NewScope() *Scope {
	return &Scope{variables: make(map[string]m.Value)}
}

// Enter pushes a child scope holding a snapshot of the current bindings.
// Writes to the child never reach s.
func (s *Scope) Enter() *Scope {
	child := &Scope{parent: s, variables: make(map[string]m.Value, len(s.variables))}
	for name, value := range s.variables {
		child.variables[name] = value
	}

	return child
}

// Exit returns the parent scope, or s itself at the root.
func (s *Scope) Exit() *Scope {
	if s.parent == nil {
		return s
	}

	return s.parent
}

// Add binds name in this scope only, replacing any previous binding.
func (s *Scope) Add(name string, value m.Value) {
	s.variables[name] = value
}

// Value returns the value bound to name. ok is false when name is unbound.
func (s *Scope) Value(name string) (value m.Value, ok bool) {
	if s == nil {
		return m.Value{}, false
	}

	value, ok = s.variables[name]

	return value, ok
}

// AllVars returns a snapshot of the bindings sorted by name.
func (s *Scope) AllVars() []Var {
	if s == nil {
		return nil
	}

	vars := make([]Var, 0, len(s.variables))
	for name, value := range s.variables {
		vars = append(vars, Var{Name: name, Value: value})
	}

	sort.Slice(vars, func(i, j int) bool { return vars[i].Name < vars[j].Name })

	return vars
}
