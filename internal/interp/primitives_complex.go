package interp

import (
	"math"

	"github.com/cwbudde/go-scheme/internal/ast"
	"github.com/cwbudde/go-scheme/internal/errors"
)

func registerComplexPrimitives(env *Environment) {
	env.Define("make-rectangular", &Primitive{Name: "make-rectangular", Fn: primMakeRectangular})
	env.Define("real-part", &Primitive{Name: "real-part", Fn: primRealPart})
	env.Define("imag-part", &Primitive{Name: "imag-part", Fn: primImagPart})
	env.Define("magnitude", &Primitive{Name: "magnitude", Fn: primMagnitude})
	env.Define("angle", &Primitive{Name: "angle", Fn: primAngle})
}

// primMakeRectangular always yields a Complex, even when the imaginary
// part is 0: the numeric tower only demotes a tier through arithmetic, not
// through construction.
func primMakeRectangular(args []ast.Value) (ast.Value, error) {
	if len(args) != 2 {
		return nil, errors.New(errors.Arity, "make-rectangular expects exactly 2 arguments")
	}
	re, err := asNumber(args[0])
	if err != nil {
		return nil, err
	}
	im, err := asNumber(args[1])
	if err != nil {
		return nil, err
	}
	return ast.NewComplex(numberToFloat(re), numberToFloat(im)), nil
}

func primRealPart(args []ast.Value) (ast.Value, error) {
	if len(args) != 1 {
		return nil, errors.New(errors.Arity, "real-part expects exactly 1 argument")
	}
	n, err := asNumber(args[0])
	if err != nil {
		return nil, err
	}
	if c, ok := n.(*ast.Complex); ok {
		return ast.NewReal(c.Real), nil
	}
	return n, nil
}

func primImagPart(args []ast.Value) (ast.Value, error) {
	if len(args) != 1 {
		return nil, errors.New(errors.Arity, "imag-part expects exactly 1 argument")
	}
	n, err := asNumber(args[0])
	if err != nil {
		return nil, err
	}
	if c, ok := n.(*ast.Complex); ok {
		return ast.NewReal(c.Imag), nil
	}
	return ast.NewInteger(0), nil
}

func primMagnitude(args []ast.Value) (ast.Value, error) {
	if len(args) != 1 {
		return nil, errors.New(errors.Arity, "magnitude expects exactly 1 argument")
	}
	n, err := asNumber(args[0])
	if err != nil {
		return nil, err
	}
	if c, ok := n.(*ast.Complex); ok {
		return ast.NewReal(math.Hypot(c.Real, c.Imag)), nil
	}
	return primAbs(args)
}

func primAngle(args []ast.Value) (ast.Value, error) {
	if len(args) != 1 {
		return nil, errors.New(errors.Arity, "angle expects exactly 1 argument")
	}
	n, err := asNumber(args[0])
	if err != nil {
		return nil, err
	}
	if c, ok := n.(*ast.Complex); ok {
		return ast.NewReal(math.Atan2(c.Imag, c.Real)), nil
	}
	f := numberToFloat(n)
	if f < 0 {
		return ast.NewReal(math.Pi), nil
	}
	return ast.NewReal(0), nil
}
