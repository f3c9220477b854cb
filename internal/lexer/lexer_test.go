package lexer

import (
	"testing"

	"github.com/cwbudde/go-scheme/pkg/token"
)

func TestNextTokenStructural(t *testing.T) {
	input := `(+ 1 2)`
	expected := []token.Type{
		token.LPAREN, token.ATOM, token.ATOM, token.ATOM, token.RPAREN, token.EOF,
	}

	l := New(input)
	for i, want := range expected {
		tok := l.NextToken()
		if tok.Type != want {
			t.Fatalf("token %d: got %s, want %s", i, tok.Type, want)
		}
	}
}

func TestNextTokenQuoteSugar(t *testing.T) {
	input := "'x `y ,z ,@w"
	expected := []struct {
		typ     token.Type
		literal string
	}{
		{token.QUOTE, "'"},
		{token.ATOM, "x"},
		{token.QUASIQUOTE, "`"},
		{token.ATOM, "y"},
		{token.UNQUOTE, ","},
		{token.ATOM, "z"},
		{token.UNQUOTE_SPLICING, ",@"},
		{token.ATOM, "w"},
		{token.EOF, ""},
	}

	l := New(input)
	for i, want := range expected {
		tok := l.NextToken()
		if tok.Type != want.typ || tok.Literal != want.literal {
			t.Fatalf("token %d: got %s(%q), want %s(%q)", i, tok.Type, tok.Literal, want.typ, want.literal)
		}
	}
}

func TestNextTokenComment(t *testing.T) {
	input := "; a comment\n(+ 1 2) ; trailing"
	l := New(input)
	tok := l.NextToken()
	if tok.Type != token.LPAREN {
		t.Fatalf("expected LPAREN after comment, got %s", tok.Type)
	}
}

func TestNextTokenString(t *testing.T) {
	input := `"hello \"world\""`
	l := New(input)
	tok := l.NextToken()
	if tok.Type != token.STRING {
		t.Fatalf("expected STRING, got %s", tok.Type)
	}
	if tok.Literal != input {
		t.Fatalf("expected literal to include delimiters, got %q", tok.Literal)
	}
}

func TestUnterminatedString(t *testing.T) {
	l := New(`"abc`)
	tok := l.NextToken()
	if tok.Type != token.ILLEGAL {
		t.Fatalf("expected ILLEGAL for unterminated string, got %s", tok.Type)
	}
	if len(l.Errors()) == 0 {
		t.Fatal("expected a lex error to be recorded")
	}
}

func TestAtLineEnd(t *testing.T) {
	l := New("(+ 1 2)\n")
	for {
		tok := l.NextToken()
		if tok.Type == token.EOF {
			break
		}
	}
	if !l.AtLineEnd() {
		t.Fatal("expected AtLineEnd true after consuming the whole line")
	}
}

func TestPositionTracksLines(t *testing.T) {
	l := New("(+ 1\n2)")
	var last token.Token
	for {
		tok := l.NextToken()
		if tok.Type == token.EOF {
			break
		}
		last = tok
	}
	if last.Pos.Line != 2 {
		t.Fatalf("expected last token on line 2, got %d", last.Pos.Line)
	}
}

func TestUnicodeAtom(t *testing.T) {
	l := New("(set! Δ 1)")
	l.NextToken() // (
	l.NextToken() // set!
	tok := l.NextToken()
	if tok.Literal != "Δ" {
		t.Fatalf("expected unicode atom Δ, got %q", tok.Literal)
	}
}
