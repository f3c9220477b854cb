// Package ast defines the Scheme data model: the tagged value universe
// that doubles as both runtime data and, because Scheme is homoiconic,
// the shape of the reader's raw trees and the expander's core-form trees.
package ast

import "strings"

// Value is the universal interface implemented by every Scheme datum that
// can appear in source: booleans, numbers, strings, symbols, pairs, and
// the empty list. The runtime adds further Value implementations
// (procedures, promises, ports, …) in package interp.
type Value interface {
	// Type returns a short uppercase tag for the value's kind, e.g. "PAIR".
	Type() string
	// String returns the external (printed) representation of the value.
	String() string
}

// Boolean is the value #t or #f.
type Boolean struct {
	Value bool
}

func (b *Boolean) Type() string { return "BOOLEAN" }
func (b *Boolean) String() string {
	if b.Value {
		return "#t"
	}
	return "#f"
}

// True and False are the two canonical Boolean singletons. Primitives and
// the evaluator should prefer returning these over allocating a fresh
// *Boolean so that callers may compare by identity when convenient.
var (
	True  = &Boolean{Value: true}
	False = &Boolean{Value: false}
)

// Bool returns the canonical Boolean for a Go bool.
func Bool(v bool) *Boolean {
	if v {
		return True
	}
	return False
}

// IsTruthy implements the spec's truthiness rule: only #f is false, every
// other value — including the empty list, 0, and "" — is true.
func IsTruthy(v Value) bool {
	b, ok := v.(*Boolean)
	return !ok || b.Value
}

// String is an immutable Unicode string.
type String struct {
	Value string
}

func (s *String) Type() string { return "STRING" }

// String renders with JSON-style double-quoted escaping.
func (s *String) String() string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s.Value {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// Symbol is an interned-by-value identifier. Symbols read from source are
// always lowercase (the reader canonicalizes at read time); symbols built
// programmatically (e.g. by the expander) should also be lowercase by
// convention.
type Symbol struct {
	Name string
}

func (s *Symbol) Type() string   { return "SYMBOL" }
func (s *Symbol) String() string { return s.Name }

// Sym is a convenience constructor for a Symbol.
func Sym(name string) *Symbol { return &Symbol{Name: name} }

// emptyList is the type of the unique value (), equal only to itself.
type emptyList struct{}

func (emptyList) Type() string   { return "EMPTY_LIST" }
func (emptyList) String() string { return "()" }

// EmptyListVal is the sole instance of the empty list. Use this rather than
// constructing a new value; the reader, printer, and list predicates all
// compare against this singleton.
var EmptyListVal Value = emptyList{}

// IsEmptyList reports whether v is the empty list.
func IsEmptyList(v Value) bool {
	_, ok := v.(emptyList)
	return ok
}

// Pair is a mutable two-cell (car . cdr). A chain of pairs whose final cdr
// is EmptyListVal is a proper list; any other terminating cdr makes the
// chain an improper (dotted) pair. There is a single representation for
// both: the printer distinguishes proper from dotted form by walking the
// cdr chain, rather than keeping a separate flat "list" view alongside the
// pair chain (see DESIGN.md for why the source's dual Pair/List
// representation was collapsed to this single one).
type Pair struct {
	Car Value
	Cdr Value
}

func (p *Pair) Type() string { return "PAIR" }

// String prints "(a b c)" for a proper list and "(a b . c)" for a dotted
// pair, walking the cdr chain once.
func (p *Pair) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	sb.WriteString(p.Car.String())
	rest := p.Cdr
	for {
		switch v := rest.(type) {
		case *Pair:
			sb.WriteByte(' ')
			sb.WriteString(v.Car.String())
			rest = v.Cdr
		case emptyList:
			sb.WriteByte(')')
			return sb.String()
		default:
			sb.WriteString(" . ")
			sb.WriteString(v.String())
			sb.WriteByte(')')
			return sb.String()
		}
	}
}

// IsProperList reports whether v is EmptyListVal or a chain of pairs whose
// final cdr is EmptyListVal.
func IsProperList(v Value) bool {
	for {
		switch t := v.(type) {
		case emptyList:
			return true
		case *Pair:
			v = t.Cdr
		default:
			return false
		}
	}
}

// NewList builds a proper list from the given values, in order.
func NewList(values ...Value) Value {
	var result Value = EmptyListVal
	for i := len(values) - 1; i >= 0; i-- {
		result = &Pair{Car: values[i], Cdr: result}
	}
	return result
}

// NewDottedList builds a chain of pairs over elements terminated by tail
// instead of the empty list.
func NewDottedList(tail Value, elements ...Value) Value {
	result := tail
	for i := len(elements) - 1; i >= 0; i-- {
		result = &Pair{Car: elements[i], Cdr: result}
	}
	return result
}

// ToSlice flattens a proper list into a Go slice. Returns false if v is not
// a proper list.
func ToSlice(v Value) ([]Value, bool) {
	var out []Value
	for {
		switch t := v.(type) {
		case emptyList:
			return out, true
		case *Pair:
			out = append(out, t.Car)
			v = t.Cdr
		default:
			return nil, false
		}
	}
}

// Length returns the number of elements in a proper list, or -1 if v is not
// a proper list.
func Length(v Value) int {
	n := 0
	for {
		switch t := v.(type) {
		case emptyList:
			return n
		case *Pair:
			n++
			v = t.Cdr
		default:
			return -1
		}
	}
}

// Unspecified is the distinguished value returned by forms that have no
// useful result (e.g. `for-each`, or a one-armed `if` whose test is false).
// It prints as the empty string and satisfies no predicate except its own
// identity check, performed with IsUnspecified.
type Unspecified struct{}

func (Unspecified) Type() string   { return "UNSPECIFIED" }
func (Unspecified) String() string { return "" }

// TheUnspecified is the sole instance of Unspecified.
var TheUnspecified Value = Unspecified{}

// IsUnspecified reports whether v is the unspecified value.
func IsUnspecified(v Value) bool {
	_, ok := v.(Unspecified)
	return ok
}
