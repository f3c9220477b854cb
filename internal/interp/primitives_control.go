package interp

import (
	"github.com/cwbudde/go-scheme/internal/ast"
	"github.com/cwbudde/go-scheme/internal/errors"
	"github.com/cwbudde/go-scheme/internal/expander"
	"github.com/cwbudde/go-scheme/internal/lexer"
	"github.com/cwbudde/go-scheme/internal/reader"
)

// registerControlPrimitives wires eval, apply, map, and for-each into env.
// These are the only primitives that call back into the evaluator rather
// than operate purely on already-evaluated values; per spec, calls made
// through them are not in tail position.
func registerControlPrimitives(env *Environment, global *Environment) {
	env.Define("eval", &Primitive{Name: "eval", Fn: evalPrimitive(global)})
	env.Define("apply", &Primitive{Name: "apply", Fn: primApply})
	env.Define("map", &Primitive{Name: "map", Fn: primMap})
	env.Define("for-each", &Primitive{Name: "for-each", Fn: primForEach})
}

// evalPrimitive builds the `eval` primitive. Its sole argument is a datum
// (typically produced by `quote` or `read`); it is read from its external
// textual form is not required here since the datum is already a Value —
// it only needs one more pass through the expander before it can run.
func evalPrimitive(global *Environment) PrimitiveFunc {
	return func(args []ast.Value) (ast.Value, error) {
		if len(args) != 1 {
			return nil, errors.New(errors.Arity, "eval expects exactly 1 argument")
		}
		expanded, err := expander.New().Expand(args[0], true)
		if err != nil {
			return nil, err
		}
		return Eval(expanded, global)
	}
}

// primApply requires its last argument to be a list; that list's elements
// are appended to any preceding arguments to form the full argument list
// passed to proc.
func primApply(args []ast.Value) (ast.Value, error) {
	if len(args) < 2 {
		return nil, errors.New(errors.Arity, "apply expects at least 2 arguments")
	}
	proc := args[0]
	tail, ok := ast.ToSlice(args[len(args)-1])
	if !ok {
		return nil, errors.New(errors.Type, "apply: last argument must be a list")
	}
	callArgs := append([]ast.Value{}, args[1:len(args)-1]...)
	callArgs = append(callArgs, tail...)
	return Apply(proc, callArgs)
}

// primMap folds over the shortest of its list arguments, applying proc to
// the corresponding elements of each.
func primMap(args []ast.Value) (ast.Value, error) {
	if len(args) < 2 {
		return nil, errors.New(errors.Arity, "map expects a procedure and at least 1 list")
	}
	proc := args[0]
	lists := make([][]ast.Value, len(args)-1)
	shortest := -1
	for i, l := range args[1:] {
		items, ok := ast.ToSlice(l)
		if !ok {
			return nil, errors.New(errors.Type, "map: argument %d is not a proper list", i+1)
		}
		lists[i] = items
		if shortest < 0 || len(items) < shortest {
			shortest = len(items)
		}
	}
	out := make([]ast.Value, shortest)
	for i := 0; i < shortest; i++ {
		callArgs := make([]ast.Value, len(lists))
		for j, l := range lists {
			callArgs[j] = l[i]
		}
		v, err := Apply(proc, callArgs)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return ast.NewList(out...), nil
}

// primForEach is map's side-effecting sibling: same shortest-list folding,
// but the results are discarded and the unspecified value is returned.
func primForEach(args []ast.Value) (ast.Value, error) {
	if len(args) < 2 {
		return nil, errors.New(errors.Arity, "for-each expects a procedure and at least 1 list")
	}
	proc := args[0]
	lists := make([][]ast.Value, len(args)-1)
	shortest := -1
	for i, l := range args[1:] {
		items, ok := ast.ToSlice(l)
		if !ok {
			return nil, errors.New(errors.Type, "for-each: argument %d is not a proper list", i+1)
		}
		lists[i] = items
		if shortest < 0 || len(items) < shortest {
			shortest = len(items)
		}
	}
	for i := 0; i < shortest; i++ {
		callArgs := make([]ast.Value, len(lists))
		for j, l := range lists {
			callArgs[j] = l[i]
		}
		if _, err := Apply(proc, callArgs); err != nil {
			return nil, err
		}
	}
	return ast.TheUnspecified, nil
}

// readDatum reads a single datum from src, used by the read primitive and
// by string->number to parse its argument.
func readDatum(src string) (ast.Value, error) {
	r := reader.New(lexer.New(src))
	v, ok, err := r.Read()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.New(errors.Syntax, "unexpected end of input")
	}
	return v, nil
}
