package interp

import (
	"math"

	"github.com/cwbudde/go-scheme/internal/ast"
	"github.com/cwbudde/go-scheme/internal/errors"
)

func asNumber(v ast.Value) (ast.Number, error) {
	n, ok := v.(ast.Number)
	if !ok {
		return nil, errors.New(errors.Type, "not a number: %s", v.String())
	}
	return n, nil
}

func asNumbers(args []ast.Value) ([]ast.Number, error) {
	nums := make([]ast.Number, len(args))
	for i, a := range args {
		n, err := asNumber(a)
		if err != nil {
			return nil, err
		}
		nums[i] = n
	}
	return nums, nil
}

// asExactInteger requires v to be an exact Integer, as quotient, remainder,
// modulo, gcd, and lcm all demand per the specification's integer-only
// arithmetic.
func asExactInteger(v ast.Value) (int64, error) {
	n, ok := v.(*ast.Integer)
	if !ok {
		return 0, errors.New(errors.Type, "expected an integer, got %s", v.String())
	}
	return n.Value, nil
}

func registerArithmeticPrimitives(env *Environment) {
	env.Define("+", &Primitive{Name: "+", Fn: primAdd})
	env.Define("-", &Primitive{Name: "-", Fn: primSub})
	env.Define("*", &Primitive{Name: "*", Fn: primMul})
	env.Define("/", &Primitive{Name: "/", Fn: primDiv})
	env.Define("=", &Primitive{Name: "=", Fn: primNumEq})
	env.Define("<", &Primitive{Name: "<", Fn: primLt})
	env.Define(">", &Primitive{Name: ">", Fn: primGt})
	env.Define("<=", &Primitive{Name: "<=", Fn: primLe})
	env.Define(">=", &Primitive{Name: ">=", Fn: primGe})
	env.Define("quotient", &Primitive{Name: "quotient", Fn: primQuotient})
	env.Define("remainder", &Primitive{Name: "remainder", Fn: primRemainder})
	env.Define("modulo", &Primitive{Name: "modulo", Fn: primModulo})
	env.Define("gcd", &Primitive{Name: "gcd", Fn: primGcd})
	env.Define("lcm", &Primitive{Name: "lcm", Fn: primLcm})
	env.Define("abs", &Primitive{Name: "abs", Fn: primAbs})
	env.Define("min", &Primitive{Name: "min", Fn: primMin})
	env.Define("max", &Primitive{Name: "max", Fn: primMax})
	env.Define("sqrt", &Primitive{Name: "sqrt", Fn: primSqrt})
	env.Define("expt", &Primitive{Name: "expt", Fn: primExpt})
	env.Define("exact->inexact", &Primitive{Name: "exact->inexact", Fn: primExactToInexact})
	env.Define("inexact->exact", &Primitive{Name: "inexact->exact", Fn: primInexactToExact})
	env.Define("numerator", &Primitive{Name: "numerator", Fn: primNumerator})
	env.Define("denominator", &Primitive{Name: "denominator", Fn: primDenominator})
	env.Define("1+", &Primitive{Name: "1+", Fn: prim1Plus})
	env.Define("1-", &Primitive{Name: "1-", Fn: prim1Minus})
	env.Define("square", &Primitive{Name: "square", Fn: primSquare})
	env.Define("floor", &Primitive{Name: "floor", Fn: roundingPrimitive(math.Floor)})
	env.Define("ceiling", &Primitive{Name: "ceiling", Fn: roundingPrimitive(math.Ceil)})
	env.Define("truncate", &Primitive{Name: "truncate", Fn: roundingPrimitive(math.Trunc)})
	env.Define("round", &Primitive{Name: "round", Fn: roundingPrimitive(math.RoundToEven)})
	env.Define("sin", &Primitive{Name: "sin", Fn: unaryFloat(math.Sin)})
	env.Define("cos", &Primitive{Name: "cos", Fn: unaryFloat(math.Cos)})
	env.Define("tan", &Primitive{Name: "tan", Fn: unaryFloat(math.Tan)})
	env.Define("asin", &Primitive{Name: "asin", Fn: unaryFloat(math.Asin)})
	env.Define("acos", &Primitive{Name: "acos", Fn: unaryFloat(math.Acos)})
	env.Define("atan", &Primitive{Name: "atan", Fn: primAtan})

	env.Define("number?", &Primitive{Name: "number?", Fn: predicate(func(v ast.Value) bool { _, ok := v.(ast.Number); return ok })})
	env.Define("integer?", &Primitive{Name: "integer?", Fn: predicate(isInteger)})
	env.Define("rational?", &Primitive{Name: "rational?", Fn: predicate(isRational)})
	env.Define("real?", &Primitive{Name: "real?", Fn: predicate(isReal)})
	env.Define("complex?", &Primitive{Name: "complex?", Fn: predicate(func(v ast.Value) bool { _, ok := v.(ast.Number); return ok })})
	env.Define("exact?", &Primitive{Name: "exact?", Fn: predicate(func(v ast.Value) bool { n, ok := v.(ast.Number); return ok && n.Exact() })})
	env.Define("inexact?", &Primitive{Name: "inexact?", Fn: predicate(func(v ast.Value) bool { n, ok := v.(ast.Number); return ok && !n.Exact() })})
	env.Define("zero?", &Primitive{Name: "zero?", Fn: primZeroP})
	env.Define("positive?", &Primitive{Name: "positive?", Fn: primPositiveP})
	env.Define("negative?", &Primitive{Name: "negative?", Fn: primNegativeP})
	env.Define("odd?", &Primitive{Name: "odd?", Fn: primOddP})
	env.Define("even?", &Primitive{Name: "even?", Fn: primEvenP})
}

func isInteger(v ast.Value) bool {
	switch n := v.(type) {
	case *ast.Integer:
		return true
	case *ast.Real:
		return n.Value == math.Trunc(n.Value)
	}
	return false
}

func isRational(v ast.Value) bool {
	switch v.(type) {
	case *ast.Integer, *ast.Rational:
		return true
	case *ast.Real:
		return true
	}
	return false
}

func isReal(v ast.Value) bool {
	switch v.(type) {
	case *ast.Integer, *ast.Rational, *ast.Real:
		return true
	}
	return false
}

func predicate(p func(ast.Value) bool) PrimitiveFunc {
	return func(args []ast.Value) (ast.Value, error) {
		if len(args) != 1 {
			return nil, errors.New(errors.Arity, "predicate expects exactly 1 argument, got %d", len(args))
		}
		return ast.Bool(p(args[0])), nil
	}
}

func primAdd(args []ast.Value) (ast.Value, error) {
	nums, err := asNumbers(args)
	if err != nil {
		return nil, err
	}
	var acc ast.Number = ast.NewInteger(0)
	for _, n := range nums {
		sum, err := ast.Add(acc, n)
		if err != nil {
			return nil, err
		}
		acc = sum
	}
	return acc, nil
}

func primMul(args []ast.Value) (ast.Value, error) {
	nums, err := asNumbers(args)
	if err != nil {
		return nil, err
	}
	var acc ast.Number = ast.NewInteger(1)
	for _, n := range nums {
		prod, err := ast.Mul(acc, n)
		if err != nil {
			return nil, err
		}
		acc = prod
	}
	return acc, nil
}

func primSub(args []ast.Value) (ast.Value, error) {
	nums, err := asNumbers(args)
	if err != nil {
		return nil, err
	}
	if len(nums) == 0 {
		return nil, errors.New(errors.Arity, "- requires at least 1 argument")
	}
	if len(nums) == 1 {
		return ast.Negate(nums[0])
	}
	acc := nums[0]
	for _, n := range nums[1:] {
		diff, err := ast.Sub(acc, n)
		if err != nil {
			return nil, err
		}
		acc = diff
	}
	return acc, nil
}

func primDiv(args []ast.Value) (ast.Value, error) {
	nums, err := asNumbers(args)
	if err != nil {
		return nil, err
	}
	if len(nums) == 0 {
		return nil, errors.New(errors.Arity, "/ requires at least 1 argument")
	}
	if len(nums) == 1 {
		return ast.Reciprocal(nums[0])
	}
	acc := nums[0]
	for _, n := range nums[1:] {
		quot, err := ast.Div(acc, n)
		if err != nil {
			return nil, err
		}
		acc = quot
	}
	return acc, nil
}

func primNumEq(args []ast.Value) (ast.Value, error) {
	nums, err := asNumbers(args)
	if err != nil {
		return nil, err
	}
	for i := 1; i < len(nums); i++ {
		if !ast.NumEqual(nums[i-1], nums[i]) {
			return ast.False, nil
		}
	}
	return ast.True, nil
}

func chainCompare(args []ast.Value, ok func(cmp int) bool) (ast.Value, error) {
	nums, err := asNumbers(args)
	if err != nil {
		return nil, err
	}
	for i := 1; i < len(nums); i++ {
		c, err := ast.Compare(nums[i-1], nums[i])
		if err != nil {
			return nil, err
		}
		if !ok(c) {
			return ast.False, nil
		}
	}
	return ast.True, nil
}

func primLt(args []ast.Value) (ast.Value, error) {
	return chainCompare(args, func(c int) bool { return c < 0 })
}
func primGt(args []ast.Value) (ast.Value, error) {
	return chainCompare(args, func(c int) bool { return c > 0 })
}
func primLe(args []ast.Value) (ast.Value, error) {
	return chainCompare(args, func(c int) bool { return c <= 0 })
}
func primGe(args []ast.Value) (ast.Value, error) {
	return chainCompare(args, func(c int) bool { return c >= 0 })
}

func primQuotient(args []ast.Value) (ast.Value, error) {
	if len(args) != 2 {
		return nil, errors.New(errors.Arity, "quotient expects exactly 2 arguments")
	}
	a, err := asExactInteger(args[0])
	if err != nil {
		return nil, err
	}
	b, err := asExactInteger(args[1])
	if err != nil {
		return nil, err
	}
	if b == 0 {
		return nil, errors.New(errors.Runtime, "quotient: division by zero")
	}
	return ast.NewInteger(a / b), nil
}

func primRemainder(args []ast.Value) (ast.Value, error) {
	if len(args) != 2 {
		return nil, errors.New(errors.Arity, "remainder expects exactly 2 arguments")
	}
	a, err := asExactInteger(args[0])
	if err != nil {
		return nil, err
	}
	b, err := asExactInteger(args[1])
	if err != nil {
		return nil, err
	}
	if b == 0 {
		return nil, errors.New(errors.Runtime, "remainder: division by zero")
	}
	return ast.NewInteger(a % b), nil
}

func primModulo(args []ast.Value) (ast.Value, error) {
	if len(args) != 2 {
		return nil, errors.New(errors.Arity, "modulo expects exactly 2 arguments")
	}
	a, err := asExactInteger(args[0])
	if err != nil {
		return nil, err
	}
	b, err := asExactInteger(args[1])
	if err != nil {
		return nil, err
	}
	if b == 0 {
		return nil, errors.New(errors.Runtime, "modulo: division by zero")
	}
	m := a % b
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return ast.NewInteger(m), nil
}

func gcd2(a, b int64) int64 {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func primGcd(args []ast.Value) (ast.Value, error) {
	acc := int64(0)
	for _, a := range args {
		v, err := asExactInteger(a)
		if err != nil {
			return nil, err
		}
		acc = gcd2(acc, v)
	}
	return ast.NewInteger(acc), nil
}

func primLcm(args []ast.Value) (ast.Value, error) {
	acc := int64(1)
	for _, a := range args {
		v, err := asExactInteger(a)
		if err != nil {
			return nil, err
		}
		if v == 0 {
			return ast.NewInteger(0), nil
		}
		g := gcd2(acc, v)
		acc = acc / g * v
		if acc < 0 {
			acc = -acc
		}
	}
	return ast.NewInteger(acc), nil
}

func primAbs(args []ast.Value) (ast.Value, error) {
	if len(args) != 1 {
		return nil, errors.New(errors.Arity, "abs expects exactly 1 argument")
	}
	n, err := asNumber(args[0])
	if err != nil {
		return nil, err
	}
	c, err := ast.Compare(n, ast.NewInteger(0))
	if err != nil {
		return nil, err
	}
	if c < 0 {
		return ast.Negate(n)
	}
	return n, nil
}

func primMin(args []ast.Value) (ast.Value, error) { return extremum(args, func(c int) bool { return c < 0 }) }
func primMax(args []ast.Value) (ast.Value, error) { return extremum(args, func(c int) bool { return c > 0 }) }

func extremum(args []ast.Value, better func(cmp int) bool) (ast.Value, error) {
	nums, err := asNumbers(args)
	if err != nil {
		return nil, err
	}
	if len(nums) == 0 {
		return nil, errors.New(errors.Arity, "requires at least 1 argument")
	}
	best := nums[0]
	inexact := !best.Exact()
	for _, n := range nums[1:] {
		if !n.Exact() {
			inexact = true
		}
		c, err := ast.Compare(n, best)
		if err != nil {
			return nil, err
		}
		if better(c) {
			best = n
		}
	}
	if inexact && best.Exact() {
		return ast.NewReal(numberToFloat(best)), nil
	}
	return best, nil
}

func numberToFloat(n ast.Number) float64 {
	switch v := n.(type) {
	case *ast.Integer:
		return float64(v.Value)
	case *ast.Rational:
		return float64(v.Num) / float64(v.Den)
	case *ast.Real:
		return v.Value
	}
	return math.NaN()
}

func primSqrt(args []ast.Value) (ast.Value, error) {
	if len(args) != 1 {
		return nil, errors.New(errors.Arity, "sqrt expects exactly 1 argument")
	}
	n, err := asNumber(args[0])
	if err != nil {
		return nil, err
	}
	if c, ok := n.(*ast.Complex); ok {
		return complexSqrt(c), nil
	}
	f := numberToFloat(n)
	if f < 0 {
		return complexSqrt(ast.NewComplex(f, 0)), nil
	}
	return ast.NewReal(math.Sqrt(f)), nil
}

func primExpt(args []ast.Value) (ast.Value, error) {
	if len(args) != 2 {
		return nil, errors.New(errors.Arity, "expt expects exactly 2 arguments")
	}
	base, err := asNumber(args[0])
	if err != nil {
		return nil, err
	}
	exp, err := asNumber(args[1])
	if err != nil {
		return nil, err
	}
	if bi, ok := base.(*ast.Integer); ok {
		if ei, ok := exp.(*ast.Integer); ok && ei.Value >= 0 {
			acc := int64(1)
			for i := int64(0); i < ei.Value; i++ {
				acc *= bi.Value
			}
			return ast.NewInteger(acc), nil
		}
	}
	return ast.NewReal(math.Pow(numberToFloat(base), numberToFloat(exp))), nil
}

func primExactToInexact(args []ast.Value) (ast.Value, error) {
	if len(args) != 1 {
		return nil, errors.New(errors.Arity, "exact->inexact expects exactly 1 argument")
	}
	n, err := asNumber(args[0])
	if err != nil {
		return nil, err
	}
	if c, ok := n.(*ast.Complex); ok {
		return c, nil
	}
	return ast.NewReal(numberToFloat(n)), nil
}

func primInexactToExact(args []ast.Value) (ast.Value, error) {
	if len(args) != 1 {
		return nil, errors.New(errors.Arity, "inexact->exact expects exactly 1 argument")
	}
	switch n := args[0].(type) {
	case *ast.Integer, *ast.Rational:
		return n, nil
	case *ast.Real:
		if n.Value == math.Trunc(n.Value) {
			return ast.NewInteger(int64(n.Value)), nil
		}
		return nil, errors.New(errors.Runtime, "inexact->exact: %v has no exact rational representation", n.Value)
	default:
		return nil, errors.New(errors.Type, "inexact->exact: not a real number")
	}
}

func primNumerator(args []ast.Value) (ast.Value, error) {
	if len(args) != 1 {
		return nil, errors.New(errors.Arity, "numerator expects exactly 1 argument")
	}
	switch n := args[0].(type) {
	case *ast.Integer:
		return n, nil
	case *ast.Rational:
		return ast.NewInteger(n.Num), nil
	}
	return nil, errors.New(errors.Type, "numerator: not an exact rational")
}

func primDenominator(args []ast.Value) (ast.Value, error) {
	if len(args) != 1 {
		return nil, errors.New(errors.Arity, "denominator expects exactly 1 argument")
	}
	switch n := args[0].(type) {
	case *ast.Integer:
		return ast.NewInteger(1), nil
	case *ast.Rational:
		return ast.NewInteger(n.Den), nil
	}
	return nil, errors.New(errors.Type, "denominator: not an exact rational")
}

func prim1Plus(args []ast.Value) (ast.Value, error) {
	if len(args) != 1 {
		return nil, errors.New(errors.Arity, "1+ expects exactly 1 argument")
	}
	n, err := asNumber(args[0])
	if err != nil {
		return nil, err
	}
	return ast.Add(n, ast.NewInteger(1))
}

func prim1Minus(args []ast.Value) (ast.Value, error) {
	if len(args) != 1 {
		return nil, errors.New(errors.Arity, "1- expects exactly 1 argument")
	}
	n, err := asNumber(args[0])
	if err != nil {
		return nil, err
	}
	return ast.Sub(n, ast.NewInteger(1))
}

func primSquare(args []ast.Value) (ast.Value, error) {
	if len(args) != 1 {
		return nil, errors.New(errors.Arity, "square expects exactly 1 argument")
	}
	n, err := asNumber(args[0])
	if err != nil {
		return nil, err
	}
	return ast.Mul(n, n)
}

func primZeroP(args []ast.Value) (ast.Value, error) {
	if len(args) != 1 {
		return nil, errors.New(errors.Arity, "zero? expects exactly 1 argument")
	}
	n, err := asNumber(args[0])
	if err != nil {
		return nil, err
	}
	return ast.Bool(ast.NumEqual(n, ast.NewInteger(0))), nil
}

func primPositiveP(args []ast.Value) (ast.Value, error) {
	if len(args) != 1 {
		return nil, errors.New(errors.Arity, "positive? expects exactly 1 argument")
	}
	n, err := asNumber(args[0])
	if err != nil {
		return nil, err
	}
	c, err := ast.Compare(n, ast.NewInteger(0))
	if err != nil {
		return nil, err
	}
	return ast.Bool(c > 0), nil
}

func primNegativeP(args []ast.Value) (ast.Value, error) {
	if len(args) != 1 {
		return nil, errors.New(errors.Arity, "negative? expects exactly 1 argument")
	}
	n, err := asNumber(args[0])
	if err != nil {
		return nil, err
	}
	c, err := ast.Compare(n, ast.NewInteger(0))
	if err != nil {
		return nil, err
	}
	return ast.Bool(c < 0), nil
}

func primOddP(args []ast.Value) (ast.Value, error) {
	if len(args) != 1 {
		return nil, errors.New(errors.Arity, "odd? expects exactly 1 argument")
	}
	v, err := asExactInteger(args[0])
	if err != nil {
		return nil, err
	}
	return ast.Bool(v%2 != 0), nil
}

func primEvenP(args []ast.Value) (ast.Value, error) {
	if len(args) != 1 {
		return nil, errors.New(errors.Arity, "even? expects exactly 1 argument")
	}
	v, err := asExactInteger(args[0])
	if err != nil {
		return nil, err
	}
	return ast.Bool(v%2 == 0), nil
}

// roundingPrimitive adapts a float->float rounding function (floor, ceiling,
// truncate, round) so that it preserves exactness: an exact integer
// argument is returned unchanged, an exact rational is rounded to an exact
// integer, and an inexact real is rounded as a float and stays inexact.
func roundingPrimitive(f func(float64) float64) PrimitiveFunc {
	return func(args []ast.Value) (ast.Value, error) {
		if len(args) != 1 {
			return nil, errors.New(errors.Arity, "rounding procedure expects exactly 1 argument")
		}
		n, err := asNumber(args[0])
		if err != nil {
			return nil, err
		}
		if i, ok := n.(*ast.Integer); ok {
			return i, nil
		}
		if r, ok := n.(*ast.Rational); ok {
			return ast.NewInteger(int64(f(numberToFloat(r)))), nil
		}
		if !isReal(n) {
			return nil, errors.New(errors.Type, "rounding procedure requires a real number")
		}
		return ast.NewReal(f(numberToFloat(n))), nil
	}
}

func unaryFloat(f func(float64) float64) PrimitiveFunc {
	return func(args []ast.Value) (ast.Value, error) {
		if len(args) != 1 {
			return nil, errors.New(errors.Arity, "procedure expects exactly 1 argument")
		}
		n, err := asNumber(args[0])
		if err != nil {
			return nil, err
		}
		if !isReal(n) {
			return nil, errors.New(errors.Type, "procedure requires a real number")
		}
		return ast.NewReal(f(numberToFloat(n))), nil
	}
}

func primAtan(args []ast.Value) (ast.Value, error) {
	if len(args) != 1 && len(args) != 2 {
		return nil, errors.New(errors.Arity, "atan expects 1 or 2 arguments")
	}
	y, err := asNumber(args[0])
	if err != nil {
		return nil, err
	}
	if len(args) == 1 {
		return ast.NewReal(math.Atan(numberToFloat(y))), nil
	}
	x, err := asNumber(args[1])
	if err != nil {
		return nil, err
	}
	return ast.NewReal(math.Atan2(numberToFloat(y), numberToFloat(x))), nil
}

func complexSqrt(c *ast.Complex) ast.Value {
	re, im := c.Real, c.Imag
	modulus := math.Hypot(re, im)
	newRe := math.Sqrt((modulus + re) / 2)
	newIm := math.Sqrt((modulus - re) / 2)
	if im < 0 {
		newIm = -newIm
	}
	return ast.NewComplex(newRe, newIm)
}
