package interp

import (
	"io"
	"os"

	"github.com/cwbudde/go-scheme/internal/expander"
	"github.com/cwbudde/go-scheme/internal/lexer"
	"github.com/cwbudde/go-scheme/internal/reader"
)

// bootstrapSource defines memo-proc, the combinator delay rewrites to. It
// is evaluated once, through the full reader/expander/evaluator pipeline,
// against every fresh global environment — the same way a user's own
// source would be — rather than being hand-built as a Go closure.
const bootstrapSource = `
(define memo-proc
  (lambda (thunk)
    (let ((already-run? #f) (result '()))
      (lambda ()
        (if already-run?
            result
            (begin (set! result (thunk))
                   (set! already-run? #t)
                   result))))))

(define true #t)
(define false #f)
`

// runBootstrap evaluates bootstrapSource's top-level forms against env,
// each read and expanded independently as if typed at a REPL.
func runBootstrap(env *Environment) error {
	e := expander.New()
	r := reader.New(lexer.New(bootstrapSource))
	for {
		datum, ok, err := r.Read()
		if err != nil {
			return err
		}
		if !ok {
			return nil
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

// NewGlobalEnvironment builds a fresh root environment with every
// primitive category registered and the memo-proc bootstrap evaluated
// against it. out/in back the default current-output-port/
// current-input-port.
func NewGlobalEnvironment(out io.Writer, in io.Reader) (*Environment, error) {
	env := NewEnvironment()

	registerArithmeticPrimitives(env)
	registerPredicatePrimitives(env)
	registerPairPrimitives(env)
	registerStringPrimitives(env)
	registerComplexPrimitives(env)
	registerControlPrimitives(env, env)
	registerIOPrimitives(env, NewOutputPort("stdout", out), NewInputPort("stdin", in))

	if err := runBootstrap(env); err != nil {
		return nil, err
	}
	return env, nil
}

// NewStandardGlobalEnvironment builds a global environment wired to the
// process's real stdout/stdin, for command-line entry points.
func NewStandardGlobalEnvironment() (*Environment, error) {
	return NewGlobalEnvironment(os.Stdout, os.Stdin)
}
