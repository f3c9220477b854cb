package cmd

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/cwbudde/go-scheme/pkg/scheme"
	"github.com/gkampitakis/go-snaps/snaps"
)

// TestEndToEndScenarios runs the six concrete end-to-end scenarios and
// snapshots their printed results, exercising the full lexer/reader/
// expander/evaluator pipeline the way `scheme run` does.
func TestEndToEndScenarios(t *testing.T) {
	scenarios := []struct {
		name string
		src  string
	}{
		{"sum", `(+ 1 2 3)`},
		{"factorial", `(define (fact n) (if (<= n 1) 1 (* n (fact (- n 1))))) (fact 10)`},
		{"named-let-loop", `(let loop ((i 0) (acc 0)) (if (> i 5) acc (loop (+ i 1) (+ acc i))))`},
		{"delay-force-runs-once", `(let ((p (delay (begin (display "x") 42)))) (force p) (force p))`},
		{"quasiquote-splice", "(let ((x 10)) `(a ,x ,@(list 1 2) b))"},
		{"set-car-mutates", `(define xs (list 1 2 3)) (set-car! xs 9) xs`},
	}

	for _, sc := range scenarios {
		t.Run(sc.name, func(t *testing.T) {
			var out bytes.Buffer
			interp, err := scheme.New(scheme.WithStdout(&out))
			if err != nil {
				t.Fatalf("scheme.New: %v", err)
			}
			result, err := interp.EvalString(sc.src)
			if err != nil {
				t.Fatalf("EvalString(%q): %v", sc.src, err)
			}
			snaps.MatchSnapshot(t, fmt.Sprintf("%s_printed", sc.name), out.String())
			snaps.MatchSnapshot(t, fmt.Sprintf("%s_result", sc.name), result.String())
		})
	}
}

// TestTailCallDoesNotGrowStack exercises spec.md's million-iteration tail
// loop. It never touches the Go call stack recursively: the evaluator's
// trampoline must keep this O(1) in stack depth.
func TestTailCallDoesNotGrowStack(t *testing.T) {
	interp, err := scheme.New()
	if err != nil {
		t.Fatalf("scheme.New: %v", err)
	}
	src := `(define (loop n) (if (= n 0) 'done (loop (- n 1)))) (loop 1000000)`
	result, err := interp.EvalString(src)
	if err != nil {
		t.Fatalf("EvalString: %v", err)
	}
	if result.String() != "done" {
		t.Fatalf("got %q, want \"done\"", result.String())
	}
}
