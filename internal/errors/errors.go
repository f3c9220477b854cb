// Package errors defines the interpreter's typed error kinds and a
// source-context formatter for presenting them at the CLI boundary.
package errors

import (
	"fmt"
	"strings"

	"github.com/cwbudde/go-scheme/pkg/token"
)

// Kind names one of the six error categories from the specification.
type Kind string

const (
	Syntax  Kind = "SyntaxError"
	Type    Kind = "TypeError"
	Lookup  Kind = "LookupError"
	Arity   Kind = "ArityError"
	Runtime Kind = "RuntimeError"
	IO      Kind = "IOError"
)

// SchemeError is the single error type produced anywhere in the
// lexer/reader/expander/evaluator pipeline. Every error unwinds to the
// nearest REPL boundary or load caller as a plain Go error; nothing in the
// core recovers from or transforms one.
type SchemeError struct {
	Kind    Kind
	Message string
	Pos     token.Position // zero value when positionless (most runtime errors)
}

// Error implements the mandated "<Kind>: <message>" presentation.
func (e *SchemeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// New constructs a positionless SchemeError, the common case for runtime
// errors raised deep inside the evaluator or a primitive.
func New(kind Kind, format string, args ...any) *SchemeError {
	return &SchemeError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NewAt constructs a SchemeError carrying a source position, used by the
// lexer, reader, and expander.
func NewAt(kind Kind, pos token.Position, format string, args ...any) *SchemeError {
	return &SchemeError{Kind: kind, Message: fmt.Sprintf(format, args...), Pos: pos}
}

// FormatWithSource renders the error with a source line and a caret
// pointing at the offending column, for script-mode CLI failures where the
// whole file is available to quote. Falls back to the terse "<Kind>:
// <message>" form when the error carries no usable position.
func (e *SchemeError) FormatWithSource(src, file string) string {
	if !e.Pos.IsValid() {
		return e.Error()
	}

	var sb strings.Builder
	if file != "" {
		fmt.Fprintf(&sb, "Error in %s:%d:%d\n", file, e.Pos.Line, e.Pos.Column)
	} else {
		fmt.Fprintf(&sb, "Error at %d:%d\n", e.Pos.Line, e.Pos.Column)
	}

	lines := strings.Split(src, "\n")
	if e.Pos.Line >= 1 && e.Pos.Line <= len(lines) {
		line := lines[e.Pos.Line-1]
		prefix := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteByte('\n')
		sb.WriteString(strings.Repeat(" ", len(prefix)+e.Pos.Column-1))
		sb.WriteString("^\n")
	}

	sb.WriteString(e.Error())
	return sb.String()
}

// FormatAll renders a batch of errors (e.g. all reader errors collected
// before expansion stops), one per block, separated by a blank line.
func FormatAll(errs []*SchemeError, src, file string) string {
	if len(errs) == 0 {
		return ""
	}
	if len(errs) == 1 {
		return errs[0].FormatWithSource(src, file)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d error(s):\n\n", len(errs))
	for i, e := range errs {
		fmt.Fprintf(&sb, "[%d/%d] %s", i+1, len(errs), e.FormatWithSource(src, file))
		if i < len(errs)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}
