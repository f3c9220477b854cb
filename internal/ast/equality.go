package ast

// Eqv implements eqv?: identity for pairs, procedures, and other reference
// types; value equality for booleans, symbols, and numbers of the same
// exactness tier.
func Eqv(a, b Value) bool {
	if a == b {
		return true
	}
	switch av := a.(type) {
	case *Boolean:
		bv, ok := b.(*Boolean)
		return ok && av.Value == bv.Value
	case *Symbol:
		bv, ok := b.(*Symbol)
		return ok && av.Name == bv.Name
	case *Integer:
		bv, ok := b.(*Integer)
		return ok && av.Value == bv.Value
	case *Rational:
		bv, ok := b.(*Rational)
		return ok && av.Num == bv.Num && av.Den == bv.Den
	case *Real:
		bv, ok := b.(*Real)
		return ok && av.Value == bv.Value
	case *Complex:
		bv, ok := b.(*Complex)
		return ok && av.Real == bv.Real && av.Imag == bv.Imag
	case *String:
		// R7RS leaves eqv? on strings implementation-defined beyond the
		// agreement-with-eq? requirement; only the canonical empty string
		// compares equal here, distinct non-empty strings never do even
		// with matching contents. equal? compares contents regardless.
		bv, ok := b.(*String)
		return ok && av.Value == bv.Value && av.Value == ""
	case emptyList:
		_, ok := b.(emptyList)
		return ok
	case Unspecified:
		_, ok := b.(Unspecified)
		return ok
	}
	return false
}

// Equal implements equal?: structural equality, recursing through pairs and
// comparing string contents regardless of identity.
func Equal(a, b Value) bool {
	if Eqv(a, b) {
		return true
	}
	switch av := a.(type) {
	case *String:
		bv, ok := b.(*String)
		return ok && av.Value == bv.Value
	case *Pair:
		bv, ok := b.(*Pair)
		return ok && Equal(av.Car, bv.Car) && Equal(av.Cdr, bv.Cdr)
	}
	return false
}
