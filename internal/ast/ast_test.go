package ast

import "testing"

func TestListRoundTrip(t *testing.T) {
	l := NewList(NewInteger(1), NewInteger(2), NewInteger(3))
	if l.String() != "(1 2 3)" {
		t.Fatalf("got %q", l.String())
	}
	slice, ok := ToSlice(l)
	if !ok || len(slice) != 3 {
		t.Fatalf("expected 3-element proper list, got %v ok=%v", slice, ok)
	}
}

func TestDottedPairPrinting(t *testing.T) {
	p := &Pair{Car: NewInteger(1), Cdr: NewInteger(2)}
	if p.String() != "(1 . 2)" {
		t.Fatalf("got %q", p.String())
	}
	if IsProperList(p) {
		t.Fatal("expected improper list")
	}
}

func TestTruthiness(t *testing.T) {
	if !IsTruthy(EmptyListVal) {
		t.Fatal("empty list must be truthy")
	}
	if !IsTruthy(NewInteger(0)) {
		t.Fatal("0 must be truthy")
	}
	if IsTruthy(False) {
		t.Fatal("#f must be falsy")
	}
}

func TestEqvVsEqual(t *testing.T) {
	a := NewList(NewInteger(1), NewInteger(2))
	b := NewList(NewInteger(1), NewInteger(2))
	if Eqv(a, b) {
		t.Fatal("two distinct cons chains must not be eqv?")
	}
	if !Equal(a, b) {
		t.Fatal("two structurally equal lists must be equal?")
	}
}

func TestRationalNormalization(t *testing.T) {
	v, err := NewRational(2, 4)
	if err != nil {
		t.Fatal(err)
	}
	r, ok := v.(*Rational)
	if !ok || r.Num != 1 || r.Den != 2 {
		t.Fatalf("expected 1/2, got %v", v)
	}
}

func TestRationalDividesEvenly(t *testing.T) {
	v, err := NewRational(6, 3)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := v.(*Integer); !ok {
		t.Fatalf("expected integer result for evenly dividing rational, got %T", v)
	}
}

func TestArithmeticExactnessContamination(t *testing.T) {
	sum, err := Add(NewReal(1.0), mustRational(t, 1, 2))
	if err != nil {
		t.Fatal(err)
	}
	if sum.Exact() {
		t.Fatal("float + rational must be inexact")
	}
	if sum.(*Real).Value != 1.5 {
		t.Fatalf("expected 1.5, got %v", sum)
	}
}

func TestDivOfIntegersYieldsRational(t *testing.T) {
	q, err := Div(NewInteger(1), NewInteger(3))
	if err != nil {
		t.Fatal(err)
	}
	if q.Exact() != true {
		t.Fatal("1/3 must be exact")
	}
	if q.String() != "1/3" {
		t.Fatalf("got %s", q.String())
	}
}

func mustRational(t *testing.T, num, den int64) Number {
	t.Helper()
	v, err := NewRational(num, den)
	if err != nil {
		t.Fatal(err)
	}
	return v.(Number)
}
