// Package scheme is the embeddable entry point: construct an Interpreter,
// feed it source text or files, and read back values and errors without
// touching the internal reader/expander/evaluator packages directly.
package scheme

import (
	"io"
	"os"

	"github.com/cwbudde/go-scheme/internal/ast"
	"github.com/cwbudde/go-scheme/internal/expander"
	"github.com/cwbudde/go-scheme/internal/interp"
	"github.com/cwbudde/go-scheme/internal/lexer"
	"github.com/cwbudde/go-scheme/internal/reader"
)

// Interpreter is a single Scheme world: one global environment, one
// current-output-port/current-input-port pair, and one expander instance
// (the expander itself is stateless across calls except for its gensym
// counter, which must stay shared so labels stay unique across a whole
// session).
type Interpreter struct {
	global *interp.Environment
	expand *expander.Expander
	stdout io.Writer
	stdin  io.Reader
}

// Option configures an Interpreter at construction time.
type Option func(*config)

type config struct {
	stdout io.Writer
	stdin  io.Reader
}

// WithStdout redirects the interpreter's current-output-port.
func WithStdout(w io.Writer) Option {
	return func(c *config) { c.stdout = w }
}

// WithStdin redirects the interpreter's current-input-port.
func WithStdin(r io.Reader) Option {
	return func(c *config) { c.stdin = r }
}

// New builds an Interpreter with a fresh global environment: every
// primitive category registered, and the memo-proc bootstrap evaluated.
func New(opts ...Option) (*Interpreter, error) {
	c := &config{stdout: os.Stdout, stdin: os.Stdin}
	for _, opt := range opts {
		opt(c)
	}
	global, err := interp.NewGlobalEnvironment(c.stdout, c.stdin)
	if err != nil {
		return nil, err
	}
	return &Interpreter{
		global: global,
		expand: expander.New(),
		stdout: c.stdout,
		stdin:  c.stdin,
	}, nil
}

// EvalString reads, expands, and evaluates every top-level datum in src in
// order, returning the value of the last one. An empty or all-comment src
// returns the unspecified value.
func (in *Interpreter) EvalString(src string) (ast.Value, error) {
	r := reader.New(lexer.New(src))
	var result ast.Value = ast.TheUnspecified
	for {
		datum, ok, err := r.Read()
		if err != nil {
			return nil, err
		}
		if !ok {
			return result, nil
		}
		expanded, err := in.expand.Expand(datum, true)
		if err != nil {
			return nil, err
		}
		result, err = interp.Eval(expanded, in.global)
		if err != nil {
			return nil, err
		}
	}
}

// LoadFile reads path and evaluates its contents exactly as EvalString
// would, returning the value of the file's last top-level form.
func (in *Interpreter) LoadFile(path string) (ast.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return in.EvalString(string(data))
}

// Global exposes the interpreter's root environment, for embedders that
// want to define additional bindings before running scripts.
func (in *Interpreter) Global() *interp.Environment {
	return in.global
}
