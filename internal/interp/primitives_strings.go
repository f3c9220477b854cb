package interp

import (
	"strconv"
	"strings"

	"github.com/cwbudde/go-scheme/internal/ast"
	"github.com/cwbudde/go-scheme/internal/errors"
)

func registerStringPrimitives(env *Environment) {
	env.Define("string-length", &Primitive{Name: "string-length", Fn: primStringLength})
	env.Define("string-ref", &Primitive{Name: "string-ref", Fn: primStringRef})
	env.Define("substring", &Primitive{Name: "substring", Fn: primSubstring})
	env.Define("string-append", &Primitive{Name: "string-append", Fn: primStringAppend})
	env.Define("string->list", &Primitive{Name: "string->list", Fn: primStringToList})
	env.Define("list->string", &Primitive{Name: "list->string", Fn: primListToString})
	env.Define("string->symbol", &Primitive{Name: "string->symbol", Fn: primStringToSymbol})
	env.Define("symbol->string", &Primitive{Name: "symbol->string", Fn: primSymbolToString})
	env.Define("string->number", &Primitive{Name: "string->number", Fn: primStringToNumber})
	env.Define("number->string", &Primitive{Name: "number->string", Fn: primNumberToString})
	env.Define("string-upcase", &Primitive{Name: "string-upcase", Fn: primStringUpcase})
	env.Define("string-downcase", &Primitive{Name: "string-downcase", Fn: primStringDowncase})
	env.Define("string-copy", &Primitive{Name: "string-copy", Fn: primStringCopy})

	env.Define("string=?", &Primitive{Name: "string=?", Fn: stringCompare(func(a, b string) bool { return a == b })})
	env.Define("string<?", &Primitive{Name: "string<?", Fn: stringCompare(func(a, b string) bool { return a < b })})
	env.Define("string>?", &Primitive{Name: "string>?", Fn: stringCompare(func(a, b string) bool { return a > b })})
	env.Define("string<=?", &Primitive{Name: "string<=?", Fn: stringCompare(func(a, b string) bool { return a <= b })})
	env.Define("string>=?", &Primitive{Name: "string>=?", Fn: stringCompare(func(a, b string) bool { return a >= b })})
}

func asString(v ast.Value, who string) (string, error) {
	s, ok := v.(*ast.String)
	if !ok {
		return "", errors.New(errors.Type, "%s: not a string: %s", who, v.String())
	}
	return s.Value, nil
}

func primStringLength(args []ast.Value) (ast.Value, error) {
	if len(args) != 1 {
		return nil, errors.New(errors.Arity, "string-length expects exactly 1 argument")
	}
	s, err := asString(args[0], "string-length")
	if err != nil {
		return nil, err
	}
	return ast.NewInteger(int64(len([]rune(s)))), nil
}

func primStringRef(args []ast.Value) (ast.Value, error) {
	if len(args) != 2 {
		return nil, errors.New(errors.Arity, "string-ref expects exactly 2 arguments")
	}
	s, err := asString(args[0], "string-ref")
	if err != nil {
		return nil, err
	}
	idx, err := asExactInteger(args[1])
	if err != nil {
		return nil, err
	}
	runes := []rune(s)
	if idx < 0 || idx >= int64(len(runes)) {
		return nil, errors.New(errors.Runtime, "string-ref: index out of range")
	}
	return &ast.String{Value: string(runes[idx])}, nil
}

func primSubstring(args []ast.Value) (ast.Value, error) {
	if len(args) != 2 && len(args) != 3 {
		return nil, errors.New(errors.Arity, "substring expects 2 or 3 arguments")
	}
	s, err := asString(args[0], "substring")
	if err != nil {
		return nil, err
	}
	runes := []rune(s)
	start, err := asExactInteger(args[1])
	if err != nil {
		return nil, err
	}
	end := int64(len(runes))
	if len(args) == 3 {
		end, err = asExactInteger(args[2])
		if err != nil {
			return nil, err
		}
	}
	if start < 0 || end > int64(len(runes)) || start > end {
		return nil, errors.New(errors.Runtime, "substring: index out of range")
	}
	return &ast.String{Value: string(runes[start:end])}, nil
}

func primStringAppend(args []ast.Value) (ast.Value, error) {
	var sb strings.Builder
	for _, a := range args {
		s, err := asString(a, "string-append")
		if err != nil {
			return nil, err
		}
		sb.WriteString(s)
	}
	return &ast.String{Value: sb.String()}, nil
}

func primStringToList(args []ast.Value) (ast.Value, error) {
	if len(args) != 1 {
		return nil, errors.New(errors.Arity, "string->list expects exactly 1 argument")
	}
	s, err := asString(args[0], "string->list")
	if err != nil {
		return nil, err
	}
	runes := []rune(s)
	out := make([]ast.Value, len(runes))
	for i, r := range runes {
		out[i] = &ast.String{Value: string(r)}
	}
	return ast.NewList(out...), nil
}

func primListToString(args []ast.Value) (ast.Value, error) {
	if len(args) != 1 {
		return nil, errors.New(errors.Arity, "list->string expects exactly 1 argument")
	}
	items, ok := ast.ToSlice(args[0])
	if !ok {
		return nil, errors.New(errors.Type, "list->string: not a proper list")
	}
	var sb strings.Builder
	for _, item := range items {
		s, err := asString(item, "list->string")
		if err != nil {
			return nil, err
		}
		sb.WriteString(s)
	}
	return &ast.String{Value: sb.String()}, nil
}

func primStringToSymbol(args []ast.Value) (ast.Value, error) {
	if len(args) != 1 {
		return nil, errors.New(errors.Arity, "string->symbol expects exactly 1 argument")
	}
	s, err := asString(args[0], "string->symbol")
	if err != nil {
		return nil, err
	}
	return ast.Sym(s), nil
}

func primSymbolToString(args []ast.Value) (ast.Value, error) {
	if len(args) != 1 {
		return nil, errors.New(errors.Arity, "symbol->string expects exactly 1 argument")
	}
	sym, ok := args[0].(*ast.Symbol)
	if !ok {
		return nil, errors.New(errors.Type, "symbol->string: not a symbol")
	}
	return &ast.String{Value: sym.Name}, nil
}

// primStringToNumber parses s as a Scheme numeric literal by routing it
// through the reader's own atom classifier, so string->number accepts
// exactly the number syntax the reader does. Returns #f on failure.
func primStringToNumber(args []ast.Value) (ast.Value, error) {
	if len(args) != 1 && len(args) != 2 {
		return nil, errors.New(errors.Arity, "string->number expects 1 or 2 arguments")
	}
	s, err := asString(args[0], "string->number")
	if err != nil {
		return nil, err
	}
	if len(args) == 2 {
		radix, err := asExactInteger(args[1])
		if err != nil {
			return nil, err
		}
		prefix := map[int64]string{2: "#b", 8: "#o", 10: "", 16: "#x"}[radix]
		if radix != 10 && prefix == "" {
			return nil, errors.New(errors.Runtime, "string->number: unsupported radix %d", radix)
		}
		s = prefix + s
	}
	v, err := readDatum(s)
	if err != nil {
		return ast.False, nil
	}
	if _, ok := v.(ast.Number); ok {
		return v, nil
	}
	return ast.False, nil
}

func primNumberToString(args []ast.Value) (ast.Value, error) {
	if len(args) != 1 && len(args) != 2 {
		return nil, errors.New(errors.Arity, "number->string expects 1 or 2 arguments")
	}
	n, err := asNumber(args[0])
	if err != nil {
		return nil, err
	}
	radix := int64(10)
	if len(args) == 2 {
		radix, err = asExactInteger(args[1])
		if err != nil {
			return nil, err
		}
	}
	if radix != 10 {
		i, ok := n.(*ast.Integer)
		if !ok {
			return nil, errors.New(errors.Runtime, "number->string: non-decimal radix requires an exact integer")
		}
		return &ast.String{Value: strconv.FormatInt(i.Value, int(radix))}, nil
	}
	return &ast.String{Value: n.String()}, nil
}

func primStringUpcase(args []ast.Value) (ast.Value, error) {
	if len(args) != 1 {
		return nil, errors.New(errors.Arity, "string-upcase expects exactly 1 argument")
	}
	s, err := asString(args[0], "string-upcase")
	if err != nil {
		return nil, err
	}
	return &ast.String{Value: strings.ToUpper(s)}, nil
}

func primStringDowncase(args []ast.Value) (ast.Value, error) {
	if len(args) != 1 {
		return nil, errors.New(errors.Arity, "string-downcase expects exactly 1 argument")
	}
	s, err := asString(args[0], "string-downcase")
	if err != nil {
		return nil, err
	}
	return &ast.String{Value: strings.ToLower(s)}, nil
}

func primStringCopy(args []ast.Value) (ast.Value, error) {
	if len(args) != 1 {
		return nil, errors.New(errors.Arity, "string-copy expects exactly 1 argument")
	}
	s, err := asString(args[0], "string-copy")
	if err != nil {
		return nil, err
	}
	return &ast.String{Value: s}, nil
}

func stringCompare(cmp func(a, b string) bool) PrimitiveFunc {
	return func(args []ast.Value) (ast.Value, error) {
		if len(args) < 2 {
			return nil, errors.New(errors.Arity, "string comparison expects at least 2 arguments")
		}
		for i := 0; i < len(args)-1; i++ {
			a, err := asString(args[i], "string comparison")
			if err != nil {
				return nil, err
			}
			b, err := asString(args[i+1], "string comparison")
			if err != nil {
				return nil, err
			}
			if !cmp(a, b) {
				return ast.False, nil
			}
		}
		return ast.True, nil
	}
}
