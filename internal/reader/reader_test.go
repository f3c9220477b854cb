package reader

import (
	"testing"

	"github.com/cwbudde/go-scheme/internal/ast"
	"github.com/cwbudde/go-scheme/internal/lexer"
)

func readOne(t *testing.T, src string) ast.Value {
	t.Helper()
	r := New(lexer.New(src))
	v, ok, err := r.Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected a datum, got EOF")
	}
	return v
}

func TestReadSimpleList(t *testing.T) {
	v := readOne(t, "(+ 1 2 3)")
	if v.String() != "(+ 1 2 3)" {
		t.Fatalf("got %q", v.String())
	}
}

func TestReadDottedPair(t *testing.T) {
	v := readOne(t, "(1 . 2)")
	if v.String() != "(1 . 2)" {
		t.Fatalf("got %q", v.String())
	}
}

func TestReadQuoteSugar(t *testing.T) {
	v := readOne(t, "'(a b)")
	if v.String() != "(quote (a b))" {
		t.Fatalf("got %q", v.String())
	}
}

func TestReadQuasiquoteUnquoteSplicing(t *testing.T) {
	v := readOne(t, "`(a ,x ,@y)")
	want := "(quasiquote (a (unquote x) (unquote-splicing y)))"
	if v.String() != want {
		t.Fatalf("got %q want %q", v.String(), want)
	}
}

func TestSymbolsLowercased(t *testing.T) {
	v := readOne(t, "FooBar")
	sym, ok := v.(*ast.Symbol)
	if !ok || sym.Name != "foobar" {
		t.Fatalf("expected lowercased symbol, got %v", v)
	}
}

func TestReadNumberTower(t *testing.T) {
	cases := map[string]string{
		"#xFF":  "255",
		"#b101": "5",
		"1/2":   "1/2",
		"2/4":   "1/2",
		"6/3":   "2",
		"3.5":   "3.5",
		"3+4i":  "3+4i",
		"3-4i":  "3-4i",
	}
	for src, want := range cases {
		v := readOne(t, src)
		if v.String() != want {
			t.Errorf("%s: got %q want %q", src, v.String(), want)
		}
	}
}

func TestBareIRejected(t *testing.T) {
	v := readOne(t, "2i")
	if _, ok := v.(*ast.Symbol); !ok {
		t.Fatalf("expected 2i to read as a symbol (bare i rejected), got %T", v)
	}
}

func TestUnmatchedCloseParenIsError(t *testing.T) {
	r := New(lexer.New(")"))
	_, _, err := r.Read()
	if err == nil {
		t.Fatal("expected a syntax error")
	}
}

func TestUnterminatedListIsError(t *testing.T) {
	r := New(lexer.New("(+ 1 2"))
	_, _, err := r.Read()
	if err == nil {
		t.Fatal("expected a syntax error")
	}
}

func TestStringEscapes(t *testing.T) {
	v := readOne(t, `"a\nb\"c"`)
	s, ok := v.(*ast.String)
	if !ok {
		t.Fatalf("expected string, got %T", v)
	}
	if s.Value != "a\nb\"c" {
		t.Fatalf("got %q", s.Value)
	}
}

func TestMultipleTopLevelForms(t *testing.T) {
	r := New(lexer.New("1 2 3"))
	var got []string
	for {
		v, ok, err := r.Read()
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			break
		}
		got = append(got, v.String())
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 datums, got %v", got)
	}
}
