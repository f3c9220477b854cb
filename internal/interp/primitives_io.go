package interp

import (
	"fmt"
	"os"
	"strings"

	"github.com/cwbudde/go-scheme/internal/ast"
	"github.com/cwbudde/go-scheme/internal/errors"
)

// registerIOPrimitives wires the textual I/O primitives into env. stdout
// and stdin back the default current-output-port/current-input-port; file
// and string ports are opened on demand by open-input-file et al.
func registerIOPrimitives(env *Environment, stdoutPort, stdinPort *Port) {
	env.Define("current-output-port", &Primitive{Name: "current-output-port", Fn: constPort(stdoutPort)})
	env.Define("current-input-port", &Primitive{Name: "current-input-port", Fn: constPort(stdinPort)})

	env.Define("display", &Primitive{Name: "display", Fn: writerPrimitive(stdoutPort, displayForm)})
	env.Define("write", &Primitive{Name: "write", Fn: writerPrimitive(stdoutPort, ast.Value.String)})
	env.Define("newline", &Primitive{Name: "newline", Fn: primNewline(stdoutPort)})

	env.Define("read", &Primitive{Name: "read", Fn: readerPrimitive(stdinPort, readDatumFromPort)})
	env.Define("read-line", &Primitive{Name: "read-line", Fn: readerPrimitive(stdinPort, readLineFromPort)})
	env.Define("eof-object", &Primitive{Name: "eof-object", Fn: func([]ast.Value) (ast.Value, error) { return TheEof, nil }})

	env.Define("input-port?", &Primitive{Name: "input-port?", Fn: predicate(func(v ast.Value) bool { p, ok := v.(*Port); return ok && p.Input })})
	env.Define("output-port?", &Primitive{Name: "output-port?", Fn: predicate(func(v ast.Value) bool { p, ok := v.(*Port); return ok && !p.Input })})

	env.Define("open-input-file", &Primitive{Name: "open-input-file", Fn: primOpenInputFile})
	env.Define("open-output-file", &Primitive{Name: "open-output-file", Fn: primOpenOutputFile})
	env.Define("close-input-port", &Primitive{Name: "close-input-port", Fn: primClosePort})
	env.Define("close-output-port", &Primitive{Name: "close-output-port", Fn: primClosePort})
	env.Define("close-port", &Primitive{Name: "close-port", Fn: primClosePort})

	env.Define("open-input-string", &Primitive{Name: "open-input-string", Fn: primOpenInputString})
	env.Define("open-output-string", &Primitive{Name: "open-output-string", Fn: primOpenOutputString})
	env.Define("get-output-string", &Primitive{Name: "get-output-string", Fn: primGetOutputString})
}

func constPort(p *Port) PrimitiveFunc {
	return func(args []ast.Value) (ast.Value, error) {
		if len(args) != 0 {
			return nil, errors.New(errors.Arity, "current port accessor expects no arguments")
		}
		return p, nil
	}
}

// displayForm renders a value the way `display` does: strings print their
// raw content rather than their quoted external form. Everything else
// prints exactly as `write` would.
func displayForm(v ast.Value) string {
	if s, ok := v.(*ast.String); ok {
		return s.Value
	}
	return v.String()
}

func outputPort(args []ast.Value, i int, fallback *Port) (*Port, error) {
	if i >= len(args) {
		return fallback, nil
	}
	p, ok := args[i].(*Port)
	if !ok || p.Input {
		return nil, errors.New(errors.Type, "expected an output port")
	}
	if p.Closed() {
		return nil, errors.New(errors.IO, "port is closed")
	}
	return p, nil
}

func writerPrimitive(fallback *Port, render func(ast.Value) string) PrimitiveFunc {
	return func(args []ast.Value) (ast.Value, error) {
		if len(args) != 1 && len(args) != 2 {
			return nil, errors.New(errors.Arity, "expects 1 or 2 arguments")
		}
		port, err := outputPort(args, 1, fallback)
		if err != nil {
			return nil, err
		}
		fmt.Fprint(port.Writer, render(args[0]))
		return ast.TheUnspecified, nil
	}
}

func primNewline(fallback *Port) PrimitiveFunc {
	return func(args []ast.Value) (ast.Value, error) {
		if len(args) != 0 && len(args) != 1 {
			return nil, errors.New(errors.Arity, "newline expects 0 or 1 arguments")
		}
		port, err := outputPort(args, 0, fallback)
		if err != nil {
			return nil, err
		}
		fmt.Fprintln(port.Writer)
		return ast.TheUnspecified, nil
	}
}

func inputPort(args []ast.Value, i int, fallback *Port) (*Port, error) {
	if i >= len(args) {
		return fallback, nil
	}
	p, ok := args[i].(*Port)
	if !ok || !p.Input {
		return nil, errors.New(errors.Type, "expected an input port")
	}
	if p.Closed() {
		return nil, errors.New(errors.IO, "port is closed")
	}
	return p, nil
}

func readDatumFromPort(p *Port) (ast.Value, error) {
	line, err := p.Reader.ReadString('\n')
	if err != nil && line == "" {
		return TheEof, nil
	}
	v, err := readDatum(line)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func readLineFromPort(p *Port) (ast.Value, error) {
	line, err := p.Reader.ReadString('\n')
	if err != nil && line == "" {
		return TheEof, nil
	}
	return &ast.String{Value: strings.TrimRight(line, "\r\n")}, nil
}

func readerPrimitive(fallback *Port, read func(*Port) (ast.Value, error)) PrimitiveFunc {
	return func(args []ast.Value) (ast.Value, error) {
		if len(args) != 0 && len(args) != 1 {
			return nil, errors.New(errors.Arity, "expects 0 or 1 arguments")
		}
		port, err := inputPort(args, 0, fallback)
		if err != nil {
			return nil, err
		}
		return read(port)
	}
}

func primOpenInputFile(args []ast.Value) (ast.Value, error) {
	if len(args) != 1 {
		return nil, errors.New(errors.Arity, "open-input-file expects exactly 1 argument")
	}
	path, err := asString(args[0], "open-input-file")
	if err != nil {
		return nil, err
	}
	f, openErr := os.Open(path)
	if openErr != nil {
		return nil, errors.New(errors.IO, "open-input-file: %v", openErr)
	}
	return NewInputPort(path, f), nil
}

func primOpenOutputFile(args []ast.Value) (ast.Value, error) {
	if len(args) != 1 {
		return nil, errors.New(errors.Arity, "open-output-file expects exactly 1 argument")
	}
	path, err := asString(args[0], "open-output-file")
	if err != nil {
		return nil, err
	}
	f, openErr := os.Create(path)
	if openErr != nil {
		return nil, errors.New(errors.IO, "open-output-file: %v", openErr)
	}
	return NewOutputPort(path, f), nil
}

func primClosePort(args []ast.Value) (ast.Value, error) {
	if len(args) != 1 {
		return nil, errors.New(errors.Arity, "close-port expects exactly 1 argument")
	}
	p, ok := args[0].(*Port)
	if !ok {
		return nil, errors.New(errors.Type, "close-port: not a port")
	}
	if err := p.Close(); err != nil {
		return nil, errors.New(errors.IO, "close-port: %v", err)
	}
	return ast.TheUnspecified, nil
}

func primOpenInputString(args []ast.Value) (ast.Value, error) {
	if len(args) != 1 {
		return nil, errors.New(errors.Arity, "open-input-string expects exactly 1 argument")
	}
	s, err := asString(args[0], "open-input-string")
	if err != nil {
		return nil, err
	}
	return NewInputPort("string", strings.NewReader(s)), nil
}

func primOpenOutputString([]ast.Value) (ast.Value, error) {
	var sb strings.Builder
	return NewOutputPort("string", &sb), nil
}

func primGetOutputString(args []ast.Value) (ast.Value, error) {
	if len(args) != 1 {
		return nil, errors.New(errors.Arity, "get-output-string expects exactly 1 argument")
	}
	p, ok := args[0].(*Port)
	if !ok || p.Input {
		return nil, errors.New(errors.Type, "get-output-string: not an output port")
	}
	sb, ok := p.Writer.(*strings.Builder)
	if !ok {
		return nil, errors.New(errors.Type, "get-output-string: not a string port")
	}
	return &ast.String{Value: sb.String()}, nil
}
