package expander

import (
	"testing"

	"github.com/cwbudde/go-scheme/internal/ast"
	"github.com/cwbudde/go-scheme/internal/lexer"
	"github.com/cwbudde/go-scheme/internal/reader"
)

func expandSrc(t *testing.T, src string) ast.Value {
	t.Helper()
	r := reader.New(lexer.New(src))
	v, ok, err := r.Read()
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	if !ok {
		t.Fatal("expected a datum")
	}
	e := New()
	expanded, err := e.Expand(v, true)
	if err != nil {
		t.Fatalf("expand error: %v", err)
	}
	return expanded
}

func TestExpandIfToCond(t *testing.T) {
	got := expandSrc(t, "(if #t 1 2)").String()
	want := "(cond (#t 1) (else 2))"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestExpandIfTwoArgInsertsUnspecified(t *testing.T) {
	got := expandSrc(t, "(if #t 1)").String()
	want := "(cond (#t 1) (else ))"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestExpandCondInsertsMissingElse(t *testing.T) {
	got := expandSrc(t, "(cond (#f 1))").String()
	want := "(cond (#f 1) (else ))"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestExpandCondElseNotLastIsError(t *testing.T) {
	r := reader.New(lexer.New("(cond (else 1) (#t 2))"))
	v, _, _ := r.Read()
	_, err := New().Expand(v, true)
	if err == nil {
		t.Fatal("expected a syntax error")
	}
}

func TestExpandDefineProcedureShorthand(t *testing.T) {
	got := expandSrc(t, "(define (f x) x)").String()
	want := "(define f (lambda (x) (begin x)))"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestExpandDefineOutsideDefinitionContextIsError(t *testing.T) {
	r := reader.New(lexer.New("(define x 1)"))
	v, _, _ := r.Read()
	_, err := New().Expand(v, false)
	if err == nil {
		t.Fatal("expected a syntax error for define outside a definition context")
	}
}

func TestExpandLetToApplication(t *testing.T) {
	got := expandSrc(t, "(let ((x 1) (y 2)) (+ x y))").String()
	want := "((lambda (x y) (begin (+ x y))) 1 2)"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestExpandLetStarNests(t *testing.T) {
	got := expandSrc(t, "(let* ((x 1) (y x)) y)").String()
	want := "((lambda (x) (begin ((lambda (y) (begin y)) x))) 1)"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestExpandLetrecProducesTwoPhaseBinding(t *testing.T) {
	got := expandSrc(t, "(letrec ((even? (lambda (n) n))) even?)")
	// Only checks that it expanded to a pair (the let-of-let application)
	// without erroring; the exact shape, with its gensym'd temp names, is
	// not compared.
	if _, ok := got.(*ast.Pair); !ok {
		t.Fatalf("expected a pair, got %T", got)
	}
}

func TestExpandCaseQuotesData(t *testing.T) {
	got := expandSrc(t, "(case 1 ((1 2) 'a) (else 'b))").String()
	want := "(case 1 ((quote (1 2)) (quote a)) (else (quote b)))"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestExpandDoFillsImplicitStep(t *testing.T) {
	got := expandSrc(t, "(do ((x 0 (+ x 1))(y 10)) ((= x 3) y))").String()
	want := "(do ((x 0 (+ x 1)) (y 10 y)) ((= x 3) y))"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestExpandDelayWrapsMemoProc(t *testing.T) {
	got := expandSrc(t, "(delay (+ 1 2))").String()
	want := "(delay (memo-proc (lambda () (begin (+ 1 2)))))"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestExpandQuasiquoteExpandsUnquoted(t *testing.T) {
	got := expandSrc(t, "`(a ,(+ 1 2) ,@(list 3 4))").String()
	want := "(quasiquote (a (unquote (+ 1 2)) (unquote-splicing (list 3 4))))"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestExpandQuasiquoteTopLevelSplicingIsError(t *testing.T) {
	r := reader.New(lexer.New("`,@x"))
	v, _, _ := r.Read()
	p := v.(*ast.Pair)
	args, _ := ast.ToSlice(p.Cdr)
	if err := ValidateTopLevelQuasiquote(args[0]); err == nil {
		t.Fatal("expected a syntax error for top-level unquote-splicing")
	}
}

func TestExpandNletBuildsRecursiveLoop(t *testing.T) {
	got := expandSrc(t, "(nlet loop ((i 0)) (loop i))").String()
	if got == "" {
		t.Fatal("expected non-empty expansion")
	}
}

func TestExpandLambdaRejectsNonSymbolFormal(t *testing.T) {
	r := reader.New(lexer.New("(lambda (1) 1)"))
	v, _, _ := r.Read()
	_, err := New().Expand(v, false)
	if err == nil {
		t.Fatal("expected a syntax error")
	}
}

func TestExpandAndEmptyIsTrue(t *testing.T) {
	got := expandSrc(t, "(and)").String()
	if got != "#t" {
		t.Fatalf("got %q want \"#t\"", got)
	}
}

func TestExpandAndSingleArgPassesThrough(t *testing.T) {
	got := expandSrc(t, "(and 1)").String()
	if got != "1" {
		t.Fatalf("got %q want \"1\"", got)
	}
}

func TestExpandAndToNestedIf(t *testing.T) {
	got := expandSrc(t, "(and 1 2)").String()
	want := "(cond (1 2) (else #f))"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestExpandOrEmptyIsFalse(t *testing.T) {
	got := expandSrc(t, "(or)").String()
	if got != "#f" {
		t.Fatalf("got %q want \"#f\"", got)
	}
}

func TestExpandOrSingleArgPassesThrough(t *testing.T) {
	got := expandSrc(t, "(or 1)").String()
	if got != "1" {
		t.Fatalf("got %q want \"1\"", got)
	}
}

func TestExpandOrBindsFirstValueOnce(t *testing.T) {
	got := expandSrc(t, "(or #f 2)").String()
	want := "((lambda (or-tmp.1) (begin (cond (or-tmp.1 or-tmp.1) (else 2)))) #f)"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestExpandSetBangRequiresSymbol(t *testing.T) {
	r := reader.New(lexer.New("(set! 1 2)"))
	v, _, _ := r.Read()
	_, err := New().Expand(v, false)
	if err == nil {
		t.Fatal("expected a syntax error")
	}
}
