package interp

import (
	"github.com/cwbudde/go-scheme/internal/ast"
	"github.com/cwbudde/go-scheme/internal/errors"
)

func registerPairPrimitives(env *Environment) {
	env.Define("cons", &Primitive{Name: "cons", Fn: primCons})
	env.Define("car", &Primitive{Name: "car", Fn: primCar})
	env.Define("cdr", &Primitive{Name: "cdr", Fn: primCdr})
	env.Define("set-car!", &Primitive{Name: "set-car!", Fn: primSetCar})
	env.Define("set-cdr!", &Primitive{Name: "set-cdr!", Fn: primSetCdr})
	env.Define("list", &Primitive{Name: "list", Fn: primList})
	env.Define("length", &Primitive{Name: "length", Fn: primLength})
	env.Define("append", &Primitive{Name: "append", Fn: primAppend})
	env.Define("reverse", &Primitive{Name: "reverse", Fn: primReverse})
	env.Define("list-ref", &Primitive{Name: "list-ref", Fn: primListRef})
	env.Define("list-tail", &Primitive{Name: "list-tail", Fn: primListTail})
	env.Define("list-set!", &Primitive{Name: "list-set!", Fn: primListSet})
	env.Define("make-list", &Primitive{Name: "make-list", Fn: primMakeList})
	env.Define("memq", &Primitive{Name: "memq", Fn: memberWith(ast.Eqv)})
	env.Define("memv", &Primitive{Name: "memv", Fn: memberWith(ast.Eqv)})
	env.Define("member", &Primitive{Name: "member", Fn: memberWith(ast.Equal)})
	env.Define("assq", &Primitive{Name: "assq", Fn: assocWith(ast.Eqv)})
	env.Define("assv", &Primitive{Name: "assv", Fn: assocWith(ast.Eqv)})
	env.Define("assoc", &Primitive{Name: "assoc", Fn: assocWith(ast.Equal)})

	// The c[ad]+r family: every combination of two or three a/d steps.
	for _, path := range []string{"aa", "ad", "da", "dd", "aaa", "aad", "ada", "add", "daa", "dad", "dda", "ddd"} {
		p := path
		name := "c" + p + "r"
		env.Define(name, &Primitive{Name: name, Fn: cxrPrimitive(p)})
	}
}

func asPair(v ast.Value, who string) (*ast.Pair, error) {
	p, ok := v.(*ast.Pair)
	if !ok {
		return nil, errors.New(errors.Type, "%s: not a pair: %s", who, v.String())
	}
	return p, nil
}

func primCons(args []ast.Value) (ast.Value, error) {
	if len(args) != 2 {
		return nil, errors.New(errors.Arity, "cons expects exactly 2 arguments")
	}
	return &ast.Pair{Car: args[0], Cdr: args[1]}, nil
}

func primCar(args []ast.Value) (ast.Value, error) {
	if len(args) != 1 {
		return nil, errors.New(errors.Arity, "car expects exactly 1 argument")
	}
	p, err := asPair(args[0], "car")
	if err != nil {
		return nil, err
	}
	return p.Car, nil
}

func primCdr(args []ast.Value) (ast.Value, error) {
	if len(args) != 1 {
		return nil, errors.New(errors.Arity, "cdr expects exactly 1 argument")
	}
	p, err := asPair(args[0], "cdr")
	if err != nil {
		return nil, err
	}
	return p.Cdr, nil
}

func primSetCar(args []ast.Value) (ast.Value, error) {
	if len(args) != 2 {
		return nil, errors.New(errors.Arity, "set-car! expects exactly 2 arguments")
	}
	p, err := asPair(args[0], "set-car!")
	if err != nil {
		return nil, err
	}
	p.Car = args[1]
	return ast.TheUnspecified, nil
}

func primSetCdr(args []ast.Value) (ast.Value, error) {
	if len(args) != 2 {
		return nil, errors.New(errors.Arity, "set-cdr! expects exactly 2 arguments")
	}
	p, err := asPair(args[0], "set-cdr!")
	if err != nil {
		return nil, err
	}
	p.Cdr = args[1]
	return ast.TheUnspecified, nil
}

func primList(args []ast.Value) (ast.Value, error) {
	return ast.NewList(args...), nil
}

func primLength(args []ast.Value) (ast.Value, error) {
	if len(args) != 1 {
		return nil, errors.New(errors.Arity, "length expects exactly 1 argument")
	}
	n := ast.Length(args[0])
	if n < 0 {
		return nil, errors.New(errors.Type, "length: not a proper list: %s", args[0].String())
	}
	return ast.NewInteger(int64(n)), nil
}

func primAppend(args []ast.Value) (ast.Value, error) {
	if len(args) == 0 {
		return ast.EmptyListVal, nil
	}
	var all []ast.Value
	for _, a := range args[:len(args)-1] {
		items, ok := ast.ToSlice(a)
		if !ok {
			return nil, errors.New(errors.Type, "append: not a proper list: %s", a.String())
		}
		all = append(all, items...)
	}
	return ast.NewDottedList(args[len(args)-1], all...), nil
}

func primReverse(args []ast.Value) (ast.Value, error) {
	if len(args) != 1 {
		return nil, errors.New(errors.Arity, "reverse expects exactly 1 argument")
	}
	items, ok := ast.ToSlice(args[0])
	if !ok {
		return nil, errors.New(errors.Type, "reverse: not a proper list: %s", args[0].String())
	}
	out := make([]ast.Value, len(items))
	for i, v := range items {
		out[len(items)-1-i] = v
	}
	return ast.NewList(out...), nil
}

func primListRef(args []ast.Value) (ast.Value, error) {
	if len(args) != 2 {
		return nil, errors.New(errors.Arity, "list-ref expects exactly 2 arguments")
	}
	idx, err := asExactInteger(args[1])
	if err != nil {
		return nil, err
	}
	items, ok := ast.ToSlice(args[0])
	if !ok || idx < 0 || idx >= int64(len(items)) {
		return nil, errors.New(errors.Runtime, "list-ref: index out of range")
	}
	return items[idx], nil
}

func primListTail(args []ast.Value) (ast.Value, error) {
	if len(args) != 2 {
		return nil, errors.New(errors.Arity, "list-tail expects exactly 2 arguments")
	}
	idx, err := asExactInteger(args[1])
	if err != nil {
		return nil, err
	}
	cur := args[0]
	for i := int64(0); i < idx; i++ {
		p, err := asPair(cur, "list-tail")
		if err != nil {
			return nil, err
		}
		cur = p.Cdr
	}
	return cur, nil
}

func primListSet(args []ast.Value) (ast.Value, error) {
	if len(args) != 3 {
		return nil, errors.New(errors.Arity, "list-set! expects exactly 3 arguments")
	}
	idx, err := asExactInteger(args[1])
	if err != nil {
		return nil, err
	}
	cur := args[0]
	for i := int64(0); i < idx; i++ {
		p, err := asPair(cur, "list-set!")
		if err != nil {
			return nil, err
		}
		cur = p.Cdr
	}
	p, err := asPair(cur, "list-set!")
	if err != nil {
		return nil, err
	}
	p.Car = args[2]
	return ast.TheUnspecified, nil
}

func primMakeList(args []ast.Value) (ast.Value, error) {
	if len(args) != 1 && len(args) != 2 {
		return nil, errors.New(errors.Arity, "make-list expects 1 or 2 arguments")
	}
	n, err := asExactInteger(args[0])
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, errors.New(errors.Runtime, "make-list: negative length")
	}
	var fill ast.Value = ast.False
	if len(args) == 2 {
		fill = args[1]
	}
	items := make([]ast.Value, n)
	for i := range items {
		items[i] = fill
	}
	return ast.NewList(items...), nil
}

func memberWith(eq func(a, b ast.Value) bool) PrimitiveFunc {
	return func(args []ast.Value) (ast.Value, error) {
		if len(args) != 2 {
			return nil, errors.New(errors.Arity, "member expects exactly 2 arguments")
		}
		cur := args[1]
		for {
			p, ok := cur.(*ast.Pair)
			if !ok {
				return ast.False, nil
			}
			if eq(args[0], p.Car) {
				return p, nil
			}
			cur = p.Cdr
		}
	}
}

func assocWith(eq func(a, b ast.Value) bool) PrimitiveFunc {
	return func(args []ast.Value) (ast.Value, error) {
		if len(args) != 2 {
			return nil, errors.New(errors.Arity, "assoc expects exactly 2 arguments")
		}
		items, ok := ast.ToSlice(args[1])
		if !ok {
			return nil, errors.New(errors.Type, "assoc: not a proper list")
		}
		for _, item := range items {
			entry, ok := item.(*ast.Pair)
			if !ok {
				continue
			}
			if eq(args[0], entry.Car) {
				return entry, nil
			}
		}
		return ast.False, nil
	}
}

// cxrPrimitive builds a cadr/caddr/… accessor from a path of 'a'/'d' steps,
// applied right-to-left as R7RS specifies (caddr = car . (cdr . (cdr x))).
func cxrPrimitive(path string) PrimitiveFunc {
	return func(args []ast.Value) (ast.Value, error) {
		if len(args) != 1 {
			return nil, errors.New(errors.Arity, "c%sr expects exactly 1 argument", path)
		}
		v := args[0]
		for i := len(path) - 1; i >= 0; i-- {
			p, err := asPair(v, "c"+path+"r")
			if err != nil {
				return nil, err
			}
			if path[i] == 'a' {
				v = p.Car
			} else {
				v = p.Cdr
			}
		}
		return v, nil
	}
}
