package interp

import (
	"github.com/cwbudde/go-scheme/internal/ast"
	"github.com/cwbudde/go-scheme/internal/errors"
)

// Eval interprets a single already-expanded core form. It is a trampoline:
// every form that is in tail position with respect to the form being
// evaluated is handled by rebinding tree/env and looping, rather than by a
// recursive Eval call, so Scheme tail calls never grow the Go call stack.
func Eval(tree ast.Value, env *Environment) (ast.Value, error) {
evalLoop:
	for {
		switch t := tree.(type) {
		case *ast.Symbol:
			v, ok := env.Get(t.Name)
			if !ok {
				return nil, errors.New(errors.Lookup, "unbound variable: %s", t.Name)
			}
			return v, nil

		case *ast.Pair:
			if sym, ok := t.Car.(*ast.Symbol); ok {
				switch sym.Name {
				case "quote":
					args, _ := ast.ToSlice(t.Cdr)
					return args[0], nil

				case "define":
					args, _ := ast.ToSlice(t.Cdr)
					name := args[0].(*ast.Symbol)
					val, err := Eval(args[1], env)
					if err != nil {
						return nil, err
					}
					if proc, ok := val.(*Procedure); ok && proc.Name == "" {
						proc.Name = name.Name
					}
					env.Define(name.Name, val)
					return name, nil

				case "lambda":
					args, _ := ast.ToSlice(t.Cdr)
					return &Procedure{Formals: args[0], Body: args[1], Closure: env}, nil

				case "set!":
					args, _ := ast.ToSlice(t.Cdr)
					name := args[0].(*ast.Symbol)
					val, err := Eval(args[1], env)
					if err != nil {
						return nil, err
					}
					old, err := env.Set(name.Name, val)
					if err != nil {
						return nil, err
					}
					return old, nil

				case "begin":
					args, _ := ast.ToSlice(t.Cdr)
					if len(args) == 0 {
						// Never produced by the expander; handled for any
						// core form constructed directly rather than by it.
						return ast.TheUnspecified, nil
					}
					for _, a := range args[:len(args)-1] {
						if _, err := Eval(a, env); err != nil {
							return nil, err
						}
					}
					tree = args[len(args)-1]
					continue evalLoop

				case "cond":
					clauses, _ := ast.ToSlice(t.Cdr)
					for _, c := range clauses {
						parts, _ := ast.ToSlice(c)
						var testVal ast.Value
						if s, ok := parts[0].(*ast.Symbol); ok && s.Name == "else" {
							// else always matches; no test value to report.
						} else {
							v, err := Eval(parts[0], env)
							if err != nil {
								return nil, err
							}
							if !ast.IsTruthy(v) {
								continue
							}
							testVal = v
						}
						body := parts[1:]
						if len(body) == 0 {
							return testVal, nil
						}
						for _, b := range body[:len(body)-1] {
							if _, err := Eval(b, env); err != nil {
								return nil, err
							}
						}
						tree = body[len(body)-1]
						continue evalLoop
					}
					return ast.TheUnspecified, nil

				case "case":
					args, _ := ast.ToSlice(t.Cdr)
					key, err := Eval(args[0], env)
					if err != nil {
						return nil, err
					}
					for _, c := range args[1:] {
						parts, _ := ast.ToSlice(c)
						matched := false
						if s, ok := parts[0].(*ast.Symbol); ok && s.Name == "else" {
							matched = true
						} else {
							data, err := Eval(parts[0], env)
							if err != nil {
								return nil, err
							}
							items, _ := ast.ToSlice(data)
							for _, d := range items {
								if ast.Eqv(key, d) {
									matched = true
									break
								}
							}
						}
						if !matched {
							continue
						}
						body := parts[1:]
						if len(body) == 0 {
							return ast.TheUnspecified, nil
						}
						for _, b := range body[:len(body)-1] {
							if _, err := Eval(b, env); err != nil {
								return nil, err
							}
						}
						tree = body[len(body)-1]
						continue evalLoop
					}
					return ast.TheUnspecified, nil

				case "do":
					nextTree, nextEnv, result, done, err := evalDo(t.Cdr, env)
					if err != nil {
						return nil, err
					}
					if done {
						return result, nil
					}
					tree, env = nextTree, nextEnv
					continue evalLoop

				case "delay":
					args, _ := ast.ToSlice(t.Cdr)
					thunk, err := Eval(args[0], env)
					if err != nil {
						return nil, err
					}
					return &Promise{Thunk: thunk}, nil

				case "force":
					args, _ := ast.ToSlice(t.Cdr)
					v, err := Eval(args[0], env)
					if err != nil {
						return nil, err
					}
					promise, ok := v.(*Promise)
					if !ok {
						return nil, errors.New(errors.Type, "force: not a promise: %s", v.String())
					}
					switch thunk := promise.Thunk.(type) {
					case *Procedure:
						newEnv, err := bindFormals(thunk.Formals, nil, thunk.Closure)
						if err != nil {
							return nil, err
						}
						tree, env = thunk.Body, newEnv
						continue evalLoop
					case *Primitive:
						return thunk.Fn(nil)
					default:
						return nil, errors.New(errors.Type, "force: promise thunk is not applicable")
					}

				case "quasiquote":
					args, _ := ast.ToSlice(t.Cdr)
					return evalQuasiquote(args[0], 1, env)
				}
			}

			// Application: evaluate the operator and operands, then dispatch.
			fn, err := Eval(t.Car, env)
			if err != nil {
				return nil, err
			}
			argForms, ok := ast.ToSlice(t.Cdr)
			if !ok {
				return nil, errors.New(errors.Syntax, "improper application form")
			}
			args := make([]ast.Value, len(argForms))
			for i, a := range argForms {
				v, err := Eval(a, env)
				if err != nil {
					return nil, err
				}
				args[i] = v
			}
			switch p := fn.(type) {
			case *Primitive:
				return p.Fn(args)
			case *Procedure:
				newEnv, err := bindFormals(p.Formals, args, p.Closure)
				if err != nil {
					return nil, err
				}
				tree, env = p.Body, newEnv
				continue evalLoop
			default:
				return nil, errors.New(errors.Type, "not applicable: %s", fn.String())
			}

		default:
			// Self-evaluating atom: boolean, number, string, the empty list,
			// or the unspecified value.
			return tree, nil
		}
	}
}

// evalDo runs one full do-loop to completion. Binding initializers run in
// the enclosing environment; the test, body, and step expressions run in a
// fresh frame per iteration so a closure captured inside the body sees that
// iteration's values. When the test becomes true and there are result
// expressions, done is false and nextTree/nextEnv are set so the caller can
// tail-continue into the last one, preserving proper tail calls there; with
// no result expressions, done is true and result is the unspecified value.
func evalDo(rest ast.Value, env *Environment) (nextTree ast.Value, nextEnv *Environment, result ast.Value, done bool, err error) {
	parts, _ := ast.ToSlice(rest)
	bindingForms, _ := ast.ToSlice(parts[0])
	testForm, _ := ast.ToSlice(parts[1])
	body := parts[2:]

	names := make([]*ast.Symbol, len(bindingForms))
	inits := make([]ast.Value, len(bindingForms))
	steps := make([]ast.Value, len(bindingForms))
	for i, b := range bindingForms {
		triple, _ := ast.ToSlice(b)
		names[i] = triple[0].(*ast.Symbol)
		inits[i] = triple[1]
		steps[i] = triple[2]
	}

	loopEnv := NewEnclosedEnvironment(env)
	for i, name := range names {
		v, e := Eval(inits[i], env)
		if e != nil {
			return nil, nil, nil, true, e
		}
		loopEnv.Define(name.Name, v)
	}

	test := testForm[0]
	results := testForm[1:]

	for {
		tv, e := Eval(test, loopEnv)
		if e != nil {
			return nil, nil, nil, true, e
		}
		if ast.IsTruthy(tv) {
			if len(results) == 0 {
				return nil, nil, ast.TheUnspecified, true, nil
			}
			for _, r := range results[:len(results)-1] {
				if _, e := Eval(r, loopEnv); e != nil {
					return nil, nil, nil, true, e
				}
			}
			return results[len(results)-1], loopEnv, nil, false, nil
		}

		for _, b := range body {
			if _, e := Eval(b, loopEnv); e != nil {
				return nil, nil, nil, true, e
			}
		}

		newVals := make([]ast.Value, len(names))
		for i, step := range steps {
			v, e := Eval(step, loopEnv)
			if e != nil {
				return nil, nil, nil, true, e
			}
			newVals[i] = v
		}
		next := NewEnclosedEnvironment(env)
		for i, name := range names {
			next.Define(name.Name, newVals[i])
		}
		loopEnv = next
	}
}

// evalQuasiquote walks a quasiquote template at depth, evaluating unquoted
// subexpressions that belong to this quasiquote (depth 1) and leaving
// deeper-nested quasiquote/unquote pairs as literal structure.
func evalQuasiquote(tmpl ast.Value, depth int, env *Environment) (ast.Value, error) {
	p, ok := tmpl.(*ast.Pair)
	if !ok {
		return tmpl, nil
	}

	switch qqHead(p) {
	case "unquote":
		args, _ := ast.ToSlice(p.Cdr)
		if depth == 1 {
			return Eval(args[0], env)
		}
		inner, err := evalQuasiquote(args[0], depth-1, env)
		if err != nil {
			return nil, err
		}
		return ast.NewList(ast.Sym("unquote"), inner), nil

	case "quasiquote":
		args, _ := ast.ToSlice(p.Cdr)
		inner, err := evalQuasiquote(args[0], depth+1, env)
		if err != nil {
			return nil, err
		}
		return ast.NewList(ast.Sym("quasiquote"), inner), nil
	}

	if carPair, ok := p.Car.(*ast.Pair); ok && qqHead(carPair) == "unquote-splicing" {
		args, _ := ast.ToSlice(carPair.Cdr)
		rest, err := evalQuasiquote(p.Cdr, depth, env)
		if err != nil {
			return nil, err
		}
		if depth == 1 {
			spliced, err := Eval(args[0], env)
			if err != nil {
				return nil, err
			}
			items, ok := ast.ToSlice(spliced)
			if !ok {
				return nil, errors.New(errors.Type, "unquote-splicing: value is not a proper list")
			}
			return ast.NewDottedList(rest, items...), nil
		}
		inner, err := evalQuasiquote(args[0], depth-1, env)
		if err != nil {
			return nil, err
		}
		return &ast.Pair{Car: ast.NewList(ast.Sym("unquote-splicing"), inner), Cdr: rest}, nil
	}

	car, err := evalQuasiquote(p.Car, depth, env)
	if err != nil {
		return nil, err
	}
	cdr, err := evalQuasiquote(p.Cdr, depth, env)
	if err != nil {
		return nil, err
	}
	return &ast.Pair{Car: car, Cdr: cdr}, nil
}

func qqHead(p *ast.Pair) string {
	sym, ok := p.Car.(*ast.Symbol)
	if !ok {
		return ""
	}
	return sym.Name
}
