package interp

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cwbudde/go-scheme/internal/ast"
	"github.com/cwbudde/go-scheme/internal/expander"
	"github.com/cwbudde/go-scheme/internal/lexer"
	"github.com/cwbudde/go-scheme/internal/reader"
)

// evalAllWithIO builds a fresh global environment backed by in/out and
// evaluates every top-level datum in src, returning the last value.
func evalAllWithIO(t *testing.T, src string, out *bytes.Buffer, in *strings.Reader) ast.Value {
	t.Helper()
	if out == nil {
		out = &bytes.Buffer{}
	}
	if in == nil {
		in = strings.NewReader("")
	}
	env, err := NewGlobalEnvironment(out, in)
	if err != nil {
		t.Fatalf("NewGlobalEnvironment: %v", err)
	}
	e := expander.New()
	r := reader.New(lexer.New(src))
	var result ast.Value = ast.TheUnspecified
	for {
		datum, ok, err := r.Read()
		if err != nil {
			t.Fatalf("read error: %v", err)
		}
		if !ok {
			return result
		}
		expanded, err := e.Expand(datum, true)
		if err != nil {
			t.Fatalf("expand error: %v", err)
		}
		result, err = Eval(expanded, env)
		if err != nil {
			t.Fatalf("eval error for %s: %v", src, err)
		}
	}
}

func evalAll(t *testing.T, src string) ast.Value {
	t.Helper()
	return evalAllWithIO(t, src, nil, nil)
}

func evalErr(t *testing.T, src string) error {
	t.Helper()
	env, err := NewStandardGlobalEnvironment()
	if err != nil {
		t.Fatalf("NewStandardGlobalEnvironment: %v", err)
	}
	e := expander.New()
	r := reader.New(lexer.New(src))
	var lastErr error
	for {
		datum, ok, err := r.Read()
		if err != nil {
			return err
		}
		if !ok {
			return lastErr
		}
		expanded, err := e.Expand(datum, true)
		if err != nil {
			return err
		}
		if _, err := Eval(expanded, env); err != nil {
			return err
		}
	}
}

func TestArithmeticSum(t *testing.T) {
	if got := evalAll(t, "(+ 1 2 3)").String(); got != "6" {
		t.Fatalf("got %q want \"6\"", got)
	}
}

func TestFactorialRecursion(t *testing.T) {
	got := evalAll(t, "(define (fact n) (if (<= n 1) 1 (* n (fact (- n 1))))) (fact 10)").String()
	if got != "3628800" {
		t.Fatalf("got %q want \"3628800\"", got)
	}
}

func TestNamedLetLoop(t *testing.T) {
	got := evalAll(t, "(let loop ((i 0) (acc 0)) (if (> i 5) acc (loop (+ i 1) (+ acc i))))").String()
	if got != "15" {
		t.Fatalf("got %q want \"15\"", got)
	}
}

func TestDelayForceRunsThunkOnce(t *testing.T) {
	var out bytes.Buffer
	got := evalAllWithIO(t, `(let ((p (delay (begin (display "x") 42)))) (force p) (force p))`, &out, nil).String()
	if got != "42" {
		t.Fatalf("got %q want \"42\"", got)
	}
	if out.String() != "x" {
		t.Fatalf("thunk ran %d times, want exactly once: output %q", strings.Count(out.String(), "x"), out.String())
	}
}

func TestQuasiquoteSplicing(t *testing.T) {
	got := evalAll(t, "(let ((x 10)) `(a ,x ,@(list 1 2) b))").String()
	if got != "(a 10 1 2 b)" {
		t.Fatalf("got %q want \"(a 10 1 2 b)\"", got)
	}
}

func TestSetCarMutatesInPlace(t *testing.T) {
	got := evalAll(t, "(define xs (list 1 2 3)) (set-car! xs 9) xs").String()
	if got != "(9 2 3)" {
		t.Fatalf("got %q want \"(9 2 3)\"", got)
	}
}

func TestTailCallLoopDoesNotOverflow(t *testing.T) {
	got := evalAll(t, "(define (loop n) (if (= n 0) 'done (loop (- n 1)))) (loop 1000000)").String()
	if got != "done" {
		t.Fatalf("got %q want \"done\"", got)
	}
}

func TestExactnessPreservedThroughArithmetic(t *testing.T) {
	cases := []struct{ src, want string }{
		{"(/ 1 3)", "1/3"},
		{"(* 3 (/ 1 3))", "1"},
		{"(+ 1.0 1/2)", "1.5"},
	}
	for _, c := range cases {
		if got := evalAll(t, c.src).String(); got != c.want {
			t.Fatalf("%s: got %q want %q", c.src, got, c.want)
		}
	}
}

func TestTruthinessOnlyFalseIsFalse(t *testing.T) {
	if got := evalAll(t, "(if '() 1 2)").String(); got != "1" {
		t.Fatalf("got %q want \"1\"", got)
	}
	if got := evalAll(t, "(if 0 1 2)").String(); got != "1" {
		t.Fatalf("got %q want \"1\"", got)
	}
	if got := evalAll(t, "(if #f 1 2)").String(); got != "2" {
		t.Fatalf("got %q want \"2\"", got)
	}
}

func TestEqvVsEqualOnFreshCons(t *testing.T) {
	if got := evalAll(t, "(eqv? (cons 1 2) (cons 1 2))").String(); got != "#f" {
		t.Fatalf("got %q want \"#f\"", got)
	}
	if got := evalAll(t, "(equal? (cons 1 2) (cons 1 2))").String(); got != "#t" {
		t.Fatalf("got %q want \"#t\"", got)
	}
}

func TestLexicalScopeIgnoresDynamicShadow(t *testing.T) {
	got := evalAll(t, "(define x 1) (define (f) x) (let ((x 2)) (f))").String()
	if got != "1" {
		t.Fatalf("got %q want \"1\"", got)
	}
}

func TestLetrecMutualRecursion(t *testing.T) {
	src := `(letrec ((even? (lambda (n) (if (= n 0) #t (odd? (- n 1)))))
	               (odd? (lambda (n) (if (= n 0) #f (even? (- n 1))))))
	          (even? 10))`
	if got := evalAll(t, src).String(); got != "#t" {
		t.Fatalf("got %q want \"#t\"", got)
	}
}

func TestVarargsLambdaCollectsList(t *testing.T) {
	got := evalAll(t, "((lambda args args) 1 2 3)").String()
	if got != "(1 2 3)" {
		t.Fatalf("got %q want \"(1 2 3)\"", got)
	}
}

func TestPairPrimitives(t *testing.T) {
	cases := []struct{ src, want string }{
		{"(car (cons 1 2))", "1"},
		{"(cdr (cons 1 2))", "2"},
		{"(length (list 1 2 3))", "3"},
		{"(append (list 1 2) (list 3 4))", "(1 2 3 4)"},
		{"(reverse (list 1 2 3))", "(3 2 1)"},
		{"(list-ref (list 1 2 3) 1)", "2"},
		{"(list-tail (list 1 2 3) 1)", "(2 3)"},
		{"(make-list 3 'a)", "(a a a)"},
		{"(cadr (list 1 2 3))", "2"},
		{"(caddr (list 1 2 3))", "3"},
		{"(memq 2 (list 1 2 3))", "(2 3)"},
		{"(assq 'b (list (cons 'a 1) (cons 'b 2)))", "(b . 2)"},
	}
	for _, c := range cases {
		if got := evalAll(t, c.src).String(); got != c.want {
			t.Fatalf("%s: got %q want %q", c.src, got, c.want)
		}
	}
}

func TestListSetBangMutates(t *testing.T) {
	got := evalAll(t, "(define xs (list 1 2 3)) (list-set! xs 1 9) xs").String()
	if got != "(1 9 3)" {
		t.Fatalf("got %q want \"(1 9 3)\"", got)
	}
}

func TestStringPrimitives(t *testing.T) {
	cases := []struct{ src, want string }{
		{`(string-length "hello")`, "5"},
		{`(string-append "foo" "bar")`, `"foobar"`},
		{`(substring "hello" 1 3)`, `"el"`},
		{`(string->symbol "abc")`, "abc"},
		{`(symbol->string 'abc)`, `"abc"`},
		{`(string->number "42")`, "42"},
		{`(number->string 42)`, `"42"`},
		{`(string-upcase "abc")`, `"ABC"`},
		{`(string=? "a" "a")`, "#t"},
		{`(string<? "a" "b")`, "#t"},
	}
	for _, c := range cases {
		if got := evalAll(t, c.src).String(); got != c.want {
			t.Fatalf("%s: got %q want %q", c.src, got, c.want)
		}
	}
}

func TestComplexPrimitives(t *testing.T) {
	if got := evalAll(t, "(real-part (make-rectangular 3 4))").String(); got != "3" {
		t.Fatalf("got %q want \"3\"", got)
	}
	if got := evalAll(t, "(magnitude (make-rectangular 3 4))").String(); got != "5" {
		t.Fatalf("got %q want \"5\"", got)
	}
}

func TestControlPrimitives(t *testing.T) {
	if got := evalAll(t, "(apply + (list 1 2 3))").String(); got != "6" {
		t.Fatalf("got %q want \"6\"", got)
	}
	if got := evalAll(t, "(map (lambda (x) (* x x)) (list 1 2 3))").String(); got != "(1 4 9)" {
		t.Fatalf("got %q want \"(1 4 9)\"", got)
	}
	if got := evalAll(t, "(eval '(+ 1 2))").String(); got != "3" {
		t.Fatalf("got %q want \"3\"", got)
	}
}

func TestIOPrimitivesDisplayAndRead(t *testing.T) {
	var out bytes.Buffer
	evalAllWithIO(t, `(display "hi") (newline)`, &out, nil)
	if out.String() != "hi\n" {
		t.Fatalf("got %q want \"hi\\n\"", out.String())
	}

	got := evalAllWithIO(t, "(read)", nil, strings.NewReader("(1 2 3)\n")).String()
	if got != "(1 2 3)" {
		t.Fatalf("got %q want \"(1 2 3)\"", got)
	}
}

func TestStringPortRoundTrip(t *testing.T) {
	got := evalAll(t, `(let ((p (open-output-string)))
	                     (write 42 p)
	                     (get-output-string p))`).String()
	if got != `"42"` {
		t.Fatalf("got %q want \"\\\"42\\\"\"", got)
	}
}

func TestUnboundVariableIsLookupError(t *testing.T) {
	if err := evalErr(t, "nonexistent-name"); err == nil {
		t.Fatal("expected an error for an unbound variable")
	}
}

func TestDefineReturnsTheBoundSymbol(t *testing.T) {
	if got := evalAll(t, "(define x 1)").String(); got != "x" {
		t.Fatalf("got %q want \"x\"", got)
	}
}

func TestSetBangReturnsThePriorValue(t *testing.T) {
	got := evalAll(t, "(define x 1) (set! x 2)").String()
	if got != "1" {
		t.Fatalf("got %q want \"1\"", got)
	}
}

func TestAndOrShortCircuit(t *testing.T) {
	if got := evalAll(t, "(and 1 2 3)").String(); got != "3" {
		t.Fatalf("got %q want \"3\"", got)
	}
	if got := evalAll(t, "(and 1 #f 3)").String(); got != "#f" {
		t.Fatalf("got %q want \"#f\"", got)
	}
	if got := evalAll(t, "(or #f #f 3)").String(); got != "3" {
		t.Fatalf("got %q want \"3\"", got)
	}
	var out bytes.Buffer
	evalAllWithIO(t, `(and #f (display "never"))`, &out, nil)
	if out.String() != "" {
		t.Fatalf("and must short-circuit: got output %q", out.String())
	}
}
