package errors

import (
	"strings"
	"testing"

	"github.com/cwbudde/go-scheme/pkg/token"
)

func TestErrorStringForm(t *testing.T) {
	e := New(Lookup, "unbound variable: %s", "foo")
	if e.Error() != "LookupError: unbound variable: foo" {
		t.Fatalf("got %q", e.Error())
	}
}

func TestFormatWithSourceIncludesCaret(t *testing.T) {
	e := NewAt(Syntax, token.Position{Line: 2, Column: 3}, "unexpected )")
	out := e.FormatWithSource("(+ 1 2)\n))", "test.scm")
	if !strings.Contains(out, "test.scm:2:3") {
		t.Fatalf("missing location header: %q", out)
	}
	if !strings.Contains(out, "^") {
		t.Fatalf("missing caret: %q", out)
	}
}

func TestFormatWithSourceFallsBackWithoutPosition(t *testing.T) {
	e := New(Runtime, "division by zero")
	out := e.FormatWithSource("whatever", "file.scm")
	if out != "RuntimeError: division by zero" {
		t.Fatalf("got %q", out)
	}
}

func TestFormatAllMultiple(t *testing.T) {
	errs := []*SchemeError{
		New(Syntax, "bad form"),
		New(Arity, "too many args"),
	}
	out := FormatAll(errs, "", "")
	if !strings.Contains(out, "2 error(s)") {
		t.Fatalf("got %q", out)
	}
}
