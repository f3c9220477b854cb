package interp

import (
	"github.com/cwbudde/go-scheme/internal/ast"
	"github.com/cwbudde/go-scheme/internal/errors"
)

func registerPredicatePrimitives(env *Environment) {
	env.Define("pair?", &Primitive{Name: "pair?", Fn: predicate(func(v ast.Value) bool { _, ok := v.(*ast.Pair); return ok })})
	env.Define("null?", &Primitive{Name: "null?", Fn: predicate(ast.IsEmptyList)})
	env.Define("symbol?", &Primitive{Name: "symbol?", Fn: predicate(func(v ast.Value) bool { _, ok := v.(*ast.Symbol); return ok })})
	env.Define("string?", &Primitive{Name: "string?", Fn: predicate(func(v ast.Value) bool { _, ok := v.(*ast.String); return ok })})
	env.Define("boolean?", &Primitive{Name: "boolean?", Fn: predicate(func(v ast.Value) bool { _, ok := v.(*ast.Boolean); return ok })})
	env.Define("procedure?", &Primitive{Name: "procedure?", Fn: predicate(isProcedure)})
	env.Define("list?", &Primitive{Name: "list?", Fn: predicate(ast.IsProperList)})
	env.Define("eof-object?", &Primitive{Name: "eof-object?", Fn: predicate(func(v ast.Value) bool { _, ok := v.(Eof); return ok })})
	env.Define("promise?", &Primitive{Name: "promise?", Fn: predicate(func(v ast.Value) bool { _, ok := v.(*Promise); return ok })})
	env.Define("port?", &Primitive{Name: "port?", Fn: predicate(func(v ast.Value) bool { _, ok := v.(*Port); return ok })})
	env.Define("not", &Primitive{Name: "not", Fn: primNot})

	env.Define("eq?", &Primitive{Name: "eq?", Fn: primEqv})
	env.Define("eqv?", &Primitive{Name: "eqv?", Fn: primEqv})
	env.Define("equal?", &Primitive{Name: "equal?", Fn: primEqual})

	env.Define("promise-forced?", &Primitive{Name: "promise-forced?", Fn: primPromiseForcedP})
	env.Define("promise-value", &Primitive{Name: "promise-value", Fn: primPromiseValue})
}

func isProcedure(v ast.Value) bool {
	switch v.(type) {
	case *Procedure, *Primitive:
		return true
	}
	return false
}

func primNot(args []ast.Value) (ast.Value, error) {
	if len(args) != 1 {
		return nil, errors.New(errors.Arity, "not expects exactly 1 argument")
	}
	return ast.Bool(!ast.IsTruthy(args[0])), nil
}

func primEqv(args []ast.Value) (ast.Value, error) {
	if len(args) != 2 {
		return nil, errors.New(errors.Arity, "eqv? expects exactly 2 arguments")
	}
	return ast.Bool(ast.Eqv(args[0], args[1])), nil
}

func primEqual(args []ast.Value) (ast.Value, error) {
	if len(args) != 2 {
		return nil, errors.New(errors.Arity, "equal? expects exactly 2 arguments")
	}
	return ast.Bool(ast.Equal(args[0], args[1])), nil
}

// promise-forced? and promise-value reach into the memo-thunk's own closure
// to read the already-run?/result cells that memo-proc set up, rather than
// keeping a second, redundant state machine on Promise itself.
func primPromiseForcedP(args []ast.Value) (ast.Value, error) {
	if len(args) != 1 {
		return nil, errors.New(errors.Arity, "promise-forced? expects exactly 1 argument")
	}
	p, ok := args[0].(*Promise)
	if !ok {
		return nil, errors.New(errors.Type, "promise-forced?: not a promise")
	}
	closure, err := promiseThunkClosure(p)
	if err != nil {
		return nil, err
	}
	v, ok := closure.Get("already-run?")
	return ast.Bool(ok && ast.IsTruthy(v)), nil
}

func primPromiseValue(args []ast.Value) (ast.Value, error) {
	if len(args) != 1 {
		return nil, errors.New(errors.Arity, "promise-value expects exactly 1 argument")
	}
	p, ok := args[0].(*Promise)
	if !ok {
		return nil, errors.New(errors.Type, "promise-value: not a promise")
	}
	closure, err := promiseThunkClosure(p)
	if err != nil {
		return nil, err
	}
	ran, ok := closure.Get("already-run?")
	if !ok || !ast.IsTruthy(ran) {
		return nil, errors.New(errors.Runtime, "promise-value: promise has not been forced")
	}
	v, _ := closure.Get("result")
	return v, nil
}

func promiseThunkClosure(p *Promise) (*Environment, error) {
	proc, ok := p.Thunk.(*Procedure)
	if !ok {
		return nil, errors.New(errors.Runtime, "promise-value: promise was not constructed via memo-proc")
	}
	return proc.Closure, nil
}
