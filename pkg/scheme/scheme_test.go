package scheme

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEvalStringReturnsLastValue(t *testing.T) {
	interp, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	result, err := interp.EvalString(`(define x 1) (+ x 1)`)
	if err != nil {
		t.Fatalf("EvalString: %v", err)
	}
	if result.String() != "2" {
		t.Fatalf("got %q, want \"2\"", result.String())
	}
}

func TestEvalStringEmptySourceIsUnspecified(t *testing.T) {
	interp, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	result, err := interp.EvalString("; just a comment\n")
	if err != nil {
		t.Fatalf("EvalString: %v", err)
	}
	if result.String() != "" {
		t.Fatalf("got %q, want the unspecified value's empty printed form", result.String())
	}
}

func TestWithStdoutRedirectsDisplay(t *testing.T) {
	var out bytes.Buffer
	interp, err := New(WithStdout(&out))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := interp.EvalString(`(display "hi")`); err != nil {
		t.Fatalf("EvalString: %v", err)
	}
	if out.String() != "hi" {
		t.Fatalf("got %q, want %q", out.String(), "hi")
	}
}

func TestWithStdinFeedsRead(t *testing.T) {
	interp, err := New(WithStdin(strings.NewReader("(1 2 3)\n")))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	result, err := interp.EvalString(`(read)`)
	if err != nil {
		t.Fatalf("EvalString: %v", err)
	}
	if result.String() != "(1 2 3)" {
		t.Fatalf("got %q, want \"(1 2 3)\"", result.String())
	}
}

func TestLoadFileEvaluatesEveryForm(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "program.scm")
	if err := os.WriteFile(path, []byte("(define (double x) (* x 2))\n(double 21)\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	interp, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	result, err := interp.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if result.String() != "42" {
		t.Fatalf("got %q, want \"42\"", result.String())
	}
}

func TestGlobalAllowsHostDefinitions(t *testing.T) {
	interp, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	env := interp.Global()
	if env == nil {
		t.Fatal("Global returned nil")
	}
	if _, ok := env.Get("car"); !ok {
		t.Fatal("expected car to be bound in the global environment")
	}
}
