package object

import (
	"maps"
	"slices"
)

// Environment is one frame of a lexical scope chain.
type Environment struct {
	store map[string]Value
	outer *Environment
}

// NewEnvironment returns an empty top-level frame.
func NewEnvironment() *Environment {
	return &Environment{store: make(map[string]Value)}
}

// NewEnclosedEnvironment returns an empty frame whose lookups fall back to
// outer.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.outer = outer

	return env
}

// Get resolves name in this frame, then in each enclosing frame.
func (e *Environment) Get(name string) (Value, bool) {
	for env := e; env != nil; env = env.outer {
		if v, ok := env.store[name]; ok {
			return v, true
		}
	}

	return nil, false
}

// Set binds name in this frame only.
func (e *Environment) Set(name string, v Value) Value {
	e.store[name] = v

	return v
}

// Has reports whether name is bound in this frame, ignoring enclosing
// frames.
func (e *Environment) Has(name string) bool {
	_, ok := e.store[name]

	return ok
}

// Outer returns the enclosing frame, or nil for a top-level frame.
func (e *Environment) Outer() *Environment { return e.outer }

// Names returns every name visible from this frame, sorted.
func (e *Environment) Names() []string {
	seen := make(map[string]struct{})

	for env := e; env != nil; env = env.outer {
		for name := range env.store {
			seen[name] = struct{}{}
		}
	}

	return slices.Sorted(maps.Keys(seen))
}
