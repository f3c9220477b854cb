package interp

import (
	"github.com/cwbudde/go-scheme/internal/ast"
	"github.com/cwbudde/go-scheme/internal/errors"
)

// Apply invokes proc with the given already-evaluated arguments. It is the
// entry point primitives like apply, map, and for-each use to call back
// into user procedures; the evaluator's own application dispatch inlines
// the Procedure case so that calls in tail position stay in the trampoline
// instead of recursing through Apply.
func Apply(proc ast.Value, args []ast.Value) (ast.Value, error) {
	switch p := proc.(type) {
	case *Primitive:
		return p.Fn(args)
	case *Procedure:
		env, err := bindFormals(p.Formals, args, p.Closure)
		if err != nil {
			return nil, err
		}
		return Eval(p.Body, env)
	default:
		return nil, errors.New(errors.Type, "not applicable: %s", proc.String())
	}
}

// bindFormals binds args to a lambda's formals in a new scope enclosed by
// closure, implementing the three formals shapes: a bare symbol (collects
// every argument into one list), a proper list (exact arity), and a dotted
// list (fixed arity plus a collected tail).
func bindFormals(formals ast.Value, args []ast.Value, closure *Environment) (*Environment, error) {
	env := NewEnclosedEnvironment(closure)

	if sym, ok := formals.(*ast.Symbol); ok {
		env.Define(sym.Name, ast.NewList(args...))
		return env, nil
	}

	cur := formals
	i := 0
	for {
		switch c := cur.(type) {
		case *ast.Pair:
			name, ok := c.Car.(*ast.Symbol)
			if !ok {
				return nil, errors.New(errors.Syntax, "malformed formal parameter")
			}
			if i >= len(args) {
				return nil, errors.New(errors.Arity, "too few arguments: expected at least %d, got %d", i+1, len(args))
			}
			env.Define(name.Name, args[i])
			i++
			cur = c.Cdr
		case *ast.Symbol:
			env.Define(c.Name, ast.NewList(args[i:]...))
			return env, nil
		default:
			if !ast.IsEmptyList(cur) {
				return nil, errors.New(errors.Syntax, "malformed formals list")
			}
			if i != len(args) {
				return nil, errors.New(errors.Arity, "expected exactly %d arguments, got %d", i, len(args))
			}
			return env, nil
		}
	}
}
