// Package interp implements the tree-walking evaluator: the runtime values
// the expanded core language. evaluates into, the lexical environment model,
// and the primitive procedure library seeded into every fresh interpreter.
package interp

import (
	"bufio"
	"fmt"
	"io"

	"github.com/cwbudde/go-scheme/internal/ast"
)

// Procedure is a closure produced by evaluating a core `lambda` form: its
// formals, its already-expanded body, and the environment active at the
// point of definition.
type Procedure struct {
	Name    string // best-effort, for display only; "" for anonymous lambdas
	Formals ast.Value
	Body    ast.Value
	Closure *Environment
}

func (p *Procedure) Type() string { return "PROCEDURE" }
func (p *Procedure) String() string {
	if p.Name != "" {
		return fmt.Sprintf("#<procedure %s>", p.Name)
	}
	return "#<procedure>"
}

// PrimitiveFunc is the Go implementation behind a built-in procedure.
type PrimitiveFunc func(args []ast.Value) (ast.Value, error)

// Primitive adapts a host Go function to the Value interface so it can be
// looked up, applied, and passed around exactly like a user-defined
// Procedure.
type Primitive struct {
	Name string
	Fn   PrimitiveFunc
}

func (p *Primitive) Type() string   { return "PRIMITIVE" }
func (p *Primitive) String() string { return fmt.Sprintf("#<primitive %s>", p.Name) }

// Promise is the result of evaluating a core `delay` form. Thunk is the
// already-evaluated result of (memo-proc (lambda () expr)) — a zero-argument
// procedure whose own closure-bound already-run?/result cells implement the
// memoization. force just applies Thunk; the first application runs expr
// and caches it, every later application returns the cached value.
type Promise struct {
	Thunk ast.Value
}

func (p *Promise) Type() string   { return "PROMISE" }
func (p *Promise) String() string { return "#<promise>" }

// Eof is the unique end-of-file sentinel returned by read/read-line once a
// port is exhausted.
type Eof struct{}

func (Eof) Type() string   { return "EOF" }
func (Eof) String() string { return "#<eof>" }

// TheEof is the sole Eof instance.
var TheEof ast.Value = Eof{}

// Port wraps a byte stream for the small set of I/O primitives the
// specification supports: textual input and output ports over any
// io.Reader/io.Writer, plus in-memory string ports.
type Port struct {
	Name   string
	Input  bool
	Reader *bufio.Reader
	Writer io.Writer
	closer io.Closer // underlying file/stream, if any; nil for string ports
	closed bool
}

func (p *Port) Type() string { return "PORT" }
func (p *Port) String() string {
	if p.Input {
		return fmt.Sprintf("#<input-port %s>", p.Name)
	}
	return fmt.Sprintf("#<output-port %s>", p.Name)
}

// Closed reports whether the port has been closed.
func (p *Port) Closed() bool { return p.closed }

// Close closes the underlying stream, if it is closable, and marks the
// port closed. Closing an already-closed port is a no-op.
func (p *Port) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	if p.closer != nil {
		return p.closer.Close()
	}
	return nil
}

// NewInputPort wraps r as a named input Port.
func NewInputPort(name string, r io.Reader) *Port {
	p := &Port{Name: name, Input: true, Reader: bufio.NewReader(r)}
	if c, ok := r.(io.Closer); ok {
		p.closer = c
	}
	return p
}

// NewOutputPort wraps w as a named output Port.
func NewOutputPort(name string, w io.Writer) *Port {
	p := &Port{Name: name, Input: false, Writer: w}
	if c, ok := w.(io.Closer); ok {
		p.closer = c
	}
	return p
}
