package ast

import (
	"fmt"
	"math"
	"strconv"

	"github.com/cwbudde/go-scheme/internal/errors"
)

// Number is implemented by the four tiers of the numeric tower: Integer,
// Rational, Real, and Complex. Exactness is a property of the concrete
// type: Integer and Rational are exact, Real and Complex are inexact.
type Number interface {
	Value
	Exact() bool
}

// Integer is an exact whole number.
type Integer struct {
	Value int64
}

func (i *Integer) Type() string     { return "INTEGER" }
func (i *Integer) String() string   { return strconv.FormatInt(i.Value, 10) }
func (i *Integer) Exact() bool      { return true }
func NewInteger(v int64) *Integer   { return &Integer{Value: v} }

// Rational is an exact ratio p/q in lowest terms with q > 0.
type Rational struct {
	Num int64
	Den int64
}

func (r *Rational) Type() string   { return "RATIONAL" }
func (r *Rational) String() string { return fmt.Sprintf("%d/%d", r.Num, r.Den) }
func (r *Rational) Exact() bool    { return true }

func gcd(a, b int64) int64 {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

// NewRational constructs a normalized rational: reduced to lowest terms,
// with a positive denominator. If the result is integral, it is returned
// as an *Integer instead (division of integers that divides evenly yields
// an integer, not a 1/1-denominator rational).
func NewRational(num, den int64) (Value, error) {
	if den == 0 {
		return nil, errors.New(errors.Runtime, "division by zero")
	}
	if den < 0 {
		num, den = -num, -den
	}
	g := gcd(num, den)
	num, den = num/g, den/g
	if den == 1 {
		return &Integer{Value: num}, nil
	}
	return &Rational{Num: num, Den: den}, nil
}

// Real is an inexact floating-point number.
type Real struct {
	Value float64
}

func (f *Real) Type() string   { return "REAL" }
func (f *Real) Exact() bool    { return false }
func (f *Real) String() string {
	return strconv.FormatFloat(f.Value, 'g', -1, 64)
}

func NewReal(v float64) *Real { return &Real{Value: v} }

// Complex is an inexact complex number, stored as a pair of real parts.
type Complex struct {
	Real float64
	Imag float64
}

func (c *Complex) Type() string { return "COMPLEX" }
func (c *Complex) Exact() bool  { return false }
func (c *Complex) String() string {
	re := strconv.FormatFloat(c.Real, 'g', -1, 64)
	im := strconv.FormatFloat(math.Abs(c.Imag), 'g', -1, 64)
	if c.Imag < 0 {
		return re + "-" + im + "i"
	}
	return re + "+" + im + "i"
}

func NewComplex(re, im float64) *Complex { return &Complex{Real: re, Imag: im} }

// toFloat converts any Number to its float64 magnitude. Panics on Complex;
// callers must route complex values through complex arithmetic instead.
func toFloat(n Number) float64 {
	switch v := n.(type) {
	case *Integer:
		return float64(v.Value)
	case *Rational:
		return float64(v.Num) / float64(v.Den)
	case *Real:
		return v.Value
	}
	panic("toFloat: not a real-valued number")
}

// rank orders the tower for promotion: Integer < Rational < Real < Complex.
func rank(n Number) int {
	switch n.(type) {
	case *Integer:
		return 0
	case *Rational:
		return 1
	case *Real:
		return 2
	case *Complex:
		return 3
	}
	return -1
}

func asComplex(n Number) *Complex {
	if c, ok := n.(*Complex); ok {
		return c
	}
	return &Complex{Real: toFloat(n)}
}

// promote returns (a, b) coerced to the same tier, the highest of the two.
func promote(a, b Number) (Number, Number, int) {
	r := rank(a)
	if rb := rank(b); rb > r {
		r = rb
	}
	switch r {
	case 0, 1:
		return a, b, r
	case 2:
		return NewReal(toFloat(a)), NewReal(toFloat(b)), r
	default:
		return asComplex(a), asComplex(b), r
	}
}

// Add implements Scheme's mixed-exactness addition rules: integer/rational
// ops stay exact, any float contaminates to real, any complex contaminates
// to complex.
func Add(a, b Number) (Number, error) {
	pa, pb, r := promote(a, b)
	switch r {
	case 0:
		return NewInteger(pa.(*Integer).Value + pb.(*Integer).Value), nil
	case 1:
		ra, rb := asRational(pa), asRational(pb)
		v, err := NewRational(ra.Num*rb.Den+rb.Num*ra.Den, ra.Den*rb.Den)
		if err != nil {
			return nil, err
		}
		return v.(Number), nil
	case 2:
		return NewReal(pa.(*Real).Value + pb.(*Real).Value), nil
	default:
		ca, cb := pa.(*Complex), pb.(*Complex)
		return NewComplex(ca.Real+cb.Real, ca.Imag+cb.Imag), nil
	}
}

func Sub(a, b Number) (Number, error) {
	neg, err := Negate(b)
	if err != nil {
		return nil, err
	}
	return Add(a, neg)
}

func Mul(a, b Number) (Number, error) {
	pa, pb, r := promote(a, b)
	switch r {
	case 0:
		return NewInteger(pa.(*Integer).Value * pb.(*Integer).Value), nil
	case 1:
		ra, rb := asRational(pa), asRational(pb)
		v, err := NewRational(ra.Num*rb.Num, ra.Den*rb.Den)
		if err != nil {
			return nil, err
		}
		return v.(Number), nil
	case 2:
		return NewReal(pa.(*Real).Value * pb.(*Real).Value), nil
	default:
		ca, cb := pa.(*Complex), pb.(*Complex)
		return NewComplex(ca.Real*cb.Real-ca.Imag*cb.Imag, ca.Real*cb.Imag+ca.Imag*cb.Real), nil
	}
}

// Div implements division: exact integer/rational division that does not
// divide evenly yields a rational, never silently truncating.
func Div(a, b Number) (Number, error) {
	pa, pb, r := promote(a, b)
	switch r {
	case 0, 1:
		ra, rb := asRational(pa), asRational(pb)
		if rb.Num == 0 {
			return nil, errors.New(errors.Runtime, "division by zero")
		}
		v, err := NewRational(ra.Num*rb.Den, ra.Den*rb.Num)
		if err != nil {
			return nil, err
		}
		return v.(Number), nil
	case 2:
		if pb.(*Real).Value == 0 {
			return nil, errors.New(errors.Runtime, "division by zero")
		}
		return NewReal(pa.(*Real).Value / pb.(*Real).Value), nil
	default:
		ca, cb := pa.(*Complex), pb.(*Complex)
		denom := cb.Real*cb.Real + cb.Imag*cb.Imag
		if denom == 0 {
			return nil, errors.New(errors.Runtime, "division by zero")
		}
		return NewComplex(
			(ca.Real*cb.Real+ca.Imag*cb.Imag)/denom,
			(ca.Imag*cb.Real-ca.Real*cb.Imag)/denom,
		), nil
	}
}

func Negate(n Number) (Number, error) {
	switch v := n.(type) {
	case *Integer:
		return NewInteger(-v.Value), nil
	case *Rational:
		return &Rational{Num: -v.Num, Den: v.Den}, nil
	case *Real:
		return NewReal(-v.Value), nil
	case *Complex:
		return NewComplex(-v.Real, -v.Imag), nil
	}
	return nil, errors.New(errors.Type, "negate: not a number")
}

// Reciprocal implements unary /.
func Reciprocal(n Number) (Number, error) {
	return Div(NewInteger(1), n)
}

func asRational(n Number) *Rational {
	switch v := n.(type) {
	case *Integer:
		return &Rational{Num: v.Value, Den: 1}
	case *Rational:
		return v
	}
	panic("asRational: not an exact number")
}

// Compare orders two real-valued (non-complex) numbers. Returns -1, 0, or 1.
// It is an error to compare complex numbers for order.
func Compare(a, b Number) (int, error) {
	if _, ok := a.(*Complex); ok {
		return 0, errors.New(errors.Type, "complex numbers are not orderable")
	}
	if _, ok := b.(*Complex); ok {
		return 0, errors.New(errors.Type, "complex numbers are not orderable")
	}
	pa, pb, r := promote(a, b)
	switch r {
	case 0:
		x, y := pa.(*Integer).Value, pb.(*Integer).Value
		switch {
		case x < y:
			return -1, nil
		case x > y:
			return 1, nil
		default:
			return 0, nil
		}
	case 1:
		ra, rb := asRational(pa), asRational(pb)
		lhs, rhs := ra.Num*rb.Den, rb.Num*ra.Den
		switch {
		case lhs < rhs:
			return -1, nil
		case lhs > rhs:
			return 1, nil
		default:
			return 0, nil
		}
	default:
		x, y := pa.(*Real).Value, pb.(*Real).Value
		switch {
		case x < y:
			return -1, nil
		case x > y:
			return 1, nil
		default:
			return 0, nil
		}
	}
}

// NumEqual implements the `=` primitive: numeric value equality, never
// object identity, across the whole tower including complex numbers.
func NumEqual(a, b Number) bool {
	ca, okA := a.(*Complex)
	cb, okB := b.(*Complex)
	if okA || okB {
		ca, cb = asComplex(a), asComplex(b)
		return ca.Real == cb.Real && ca.Imag == cb.Imag
	}
	cmp, err := Compare(a, b)
	return err == nil && cmp == 0
}
