package interp

import (
	"github.com/cwbudde/go-scheme/internal/ast"
	"github.com/cwbudde/go-scheme/internal/errors"
)

// Environment is a lexical scope frame: a flat name table plus a link to
// the enclosing scope. Lookup and Set walk outward through outer frames;
// Define always creates or overwrites a binding in the current frame.
//
// Unlike the teacher's case-insensitive store, Scheme symbols are already
// canonicalized to lowercase by the reader, so a plain map is sufficient.
type Environment struct {
	vars  map[string]ast.Value
	outer *Environment
}

// NewEnvironment creates a root environment with no outer scope.
func NewEnvironment() *Environment {
	return &Environment{vars: make(map[string]ast.Value)}
}

// NewEnclosedEnvironment creates a child scope of outer, used for procedure
// calls, let-bodies, and do-loop iterations.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	return &Environment{vars: make(map[string]ast.Value), outer: outer}
}

// Get looks up name, searching outward through enclosing scopes.
func (e *Environment) Get(name string) (ast.Value, bool) {
	for env := e; env != nil; env = env.outer {
		if v, ok := env.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Define binds name in this frame, shadowing any outer binding of the same
// name. Re-defining a name already bound in this same frame overwrites it.
func (e *Environment) Define(name string, val ast.Value) {
	e.vars[name] = val
}

// Set assigns to an existing binding, searching outward through enclosing
// scopes, and reports a LookupError if name is unbound anywhere in the
// chain. It returns the value the binding held just before the assignment.
func (e *Environment) Set(name string, val ast.Value) (ast.Value, error) {
	for env := e; env != nil; env = env.outer {
		if old, ok := env.vars[name]; ok {
			env.vars[name] = val
			return old, nil
		}
	}
	return nil, errors.New(errors.Lookup, "unbound variable: %s", name)
}
