// Package reader turns a token stream into raw S-expression trees: the
// Value trees defined in package ast, still in their unexpanded, as-written
// shape. The reader desugars quote syntax but performs no macro expansion.
package reader

import (
	"strconv"
	"strings"

	"github.com/cwbudde/go-scheme/internal/ast"
	"github.com/cwbudde/go-scheme/internal/errors"
	"github.com/cwbudde/go-scheme/internal/lexer"
	"github.com/cwbudde/go-scheme/pkg/token"
)

var quoteHeads = map[token.Type]string{
	token.QUOTE:            "quote",
	token.QUASIQUOTE:       "quasiquote",
	token.UNQUOTE:          "unquote",
	token.UNQUOTE_SPLICING: "unquote-splicing",
}

// Reader reads one datum at a time from a Lexer.
type Reader struct {
	lex *lexer.Lexer
	cur token.Token
}

// New creates a Reader over the given Lexer.
func New(lex *lexer.Lexer) *Reader {
	r := &Reader{lex: lex}
	r.advance()
	return r
}

func (r *Reader) advance() {
	r.cur = r.lex.NextToken()
}

// AtEOF reports whether the reader has reached the end of its token stream.
func (r *Reader) AtEOF() bool {
	return r.cur.Type == token.EOF
}

// Offset returns the source byte offset of the reader's current lookahead
// token: the point up to which the most recently returned datum has been
// fully consumed. Callers that accumulate source incrementally (the REPL)
// use it to trim what they've already evaluated from a pending buffer.
func (r *Reader) Offset() int {
	return r.cur.Pos.Offset
}

// Read parses and returns the next top-level datum. ok is false, with a nil
// error, when the stream is exhausted cleanly.
func (r *Reader) Read() (value ast.Value, ok bool, err error) {
	if r.cur.Type == token.EOF {
		return nil, false, nil
	}
	v, err := r.readDatum()
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (r *Reader) readDatum() (ast.Value, error) {
	switch r.cur.Type {
	case token.EOF:
		return nil, errors.NewAt(errors.Syntax, r.cur.Pos, "unexpected end of input")
	case token.LPAREN:
		return r.readList()
	case token.RPAREN:
		return nil, errors.NewAt(errors.Syntax, r.cur.Pos, "unexpected )")
	case token.STRING:
		return r.readString()
	case token.QUOTE, token.QUASIQUOTE, token.UNQUOTE, token.UNQUOTE_SPLICING:
		return r.readQuoteSugar()
	case token.ATOM:
		return r.readAtom()
	default:
		return nil, errors.NewAt(errors.Syntax, r.cur.Pos, "illegal token %q", r.cur.Literal)
	}
}

func (r *Reader) readQuoteSugar() (ast.Value, error) {
	head := quoteHeads[r.cur.Type]
	pos := r.cur.Pos
	r.advance()
	if r.cur.Type == token.EOF {
		return nil, errors.NewAt(errors.Syntax, pos, "quote sugar %q missing a datum", head)
	}
	inner, err := r.readDatum()
	if err != nil {
		return nil, err
	}
	return ast.NewList(ast.Sym(head), inner), nil
}

func (r *Reader) readList() (ast.Value, error) {
	openPos := r.cur.Pos
	r.advance() // consume '('

	var elements []ast.Value
	for {
		if r.cur.Type == token.EOF {
			return nil, errors.NewAt(errors.Syntax, openPos, "unterminated list")
		}
		if r.cur.Type == token.RPAREN {
			r.advance()
			return ast.NewList(elements...), nil
		}
		if r.cur.Type == token.ATOM && r.cur.Literal == "." {
			return r.readDottedTail(openPos, elements)
		}
		d, err := r.readDatum()
		if err != nil {
			return nil, err
		}
		elements = append(elements, d)
	}
}

func (r *Reader) readDottedTail(openPos token.Position, elements []ast.Value) (ast.Value, error) {
	if len(elements) == 0 {
		return nil, errors.NewAt(errors.Syntax, r.cur.Pos, "dotted list missing elements before .")
	}
	r.advance() // consume '.'
	if r.cur.Type == token.EOF || r.cur.Type == token.RPAREN {
		return nil, errors.NewAt(errors.Syntax, r.cur.Pos, "dotted list missing tail after .")
	}
	tail, err := r.readDatum()
	if err != nil {
		return nil, err
	}
	if r.cur.Type != token.RPAREN {
		return nil, errors.NewAt(errors.Syntax, r.cur.Pos, "dotted list has more than one datum after .")
	}
	r.advance() // consume ')'
	return ast.NewDottedList(tail, elements...), nil
}

func (r *Reader) readString() (ast.Value, error) {
	lit := r.cur.Literal
	pos := r.cur.Pos
	r.advance()
	if len(lit) < 2 || lit[0] != '"' || lit[len(lit)-1] != '"' {
		return nil, errors.NewAt(errors.Syntax, pos, "malformed string literal")
	}
	body := lit[1 : len(lit)-1]
	decoded, err := decodeEscapes(body)
	if err != nil {
		return nil, errors.NewAt(errors.Syntax, pos, "%s", err.Error())
	}
	return &ast.String{Value: decoded}, nil
}

func decodeEscapes(body string) (string, error) {
	var sb strings.Builder
	runes := []rune(body)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if c != '\\' {
			sb.WriteRune(c)
			continue
		}
		i++
		if i >= len(runes) {
			return "", errors.New(errors.Syntax, "trailing backslash in string literal")
		}
		switch runes[i] {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case '"':
			sb.WriteByte('"')
		case '\\':
			sb.WriteByte('\\')
		default:
			sb.WriteRune(runes[i])
		}
	}
	return sb.String(), nil
}

func (r *Reader) readAtom() (ast.Value, error) {
	lit := r.cur.Literal
	pos := r.cur.Pos
	r.advance()
	return classifyAtom(lit, pos)
}

// classifyAtom applies the reader's atom-transformation waterfall in the
// order mandated by the specification.
func classifyAtom(lit string, pos token.Position) (ast.Value, error) {
	switch lit {
	case "#t":
		return ast.True, nil
	case "#f":
		return ast.False, nil
	}

	if v, ok := parseRadixInteger(lit); ok {
		return v, nil
	}
	if n, err := strconv.ParseInt(lit, 10, 64); err == nil {
		return ast.NewInteger(n), nil
	}
	if f, err := strconv.ParseFloat(lit, 64); err == nil {
		return ast.NewReal(f), nil
	}
	if c, ok := parseComplex(lit); ok {
		return c, nil
	}
	if v, ok := parseRational(lit); ok {
		return v, nil
	}
	return ast.Sym(strings.ToLower(lit)), nil
}

func parseRadixInteger(lit string) (ast.Value, bool) {
	if len(lit) < 3 || lit[0] != '#' {
		return nil, false
	}
	var base int
	switch lit[1] {
	case 'b', 'B':
		base = 2
	case 'o', 'O':
		base = 8
	case 'd', 'D':
		base = 10
	case 'x', 'X':
		base = 16
	default:
		return nil, false
	}
	n, err := strconv.ParseInt(lit[2:], base, 64)
	if err != nil {
		return nil, false
	}
	return ast.NewInteger(n), true
}

// parseRational accepts exactly "p/q" with p, q integers and q != 0.
func parseRational(lit string) (ast.Value, bool) {
	idx := strings.IndexByte(lit, '/')
	if idx <= 0 || idx == len(lit)-1 {
		return nil, false
	}
	num, err1 := strconv.ParseInt(lit[:idx], 10, 64)
	den, err2 := strconv.ParseInt(lit[idx+1:], 10, 64)
	if err1 != nil || err2 != nil || den == 0 {
		return nil, false
	}
	v, err := ast.NewRational(num, den)
	if err != nil {
		return nil, false
	}
	return v, true
}

// parseComplex accepts the form a+bi / a-bi. Bare "i" and "2i" are
// rejected, matching the specification's retained limitation.
func parseComplex(lit string) (ast.Value, bool) {
	if !strings.HasSuffix(lit, "i") || len(lit) < 2 {
		return nil, false
	}
	body := lit[:len(lit)-1]

	// Find the +/- that separates the real and imaginary parts, scanning
	// from the right so exponents like "1e+10" aren't mistaken for the
	// split point.
	splitAt := -1
	for i := len(body) - 1; i > 0; i-- {
		if body[i] == '+' || body[i] == '-' {
			prev := body[i-1]
			if prev == 'e' || prev == 'E' {
				continue
			}
			splitAt = i
			break
		}
	}
	if splitAt <= 0 {
		return nil, false
	}

	rePart, imPart := body[:splitAt], body[splitAt:]
	if imPart == "+" || imPart == "-" {
		return nil, false // bare "i" with no coefficient, e.g. "3+i"
	}

	re, err1 := strconv.ParseFloat(rePart, 64)
	im, err2 := strconv.ParseFloat(imPart, 64)
	if err1 != nil || err2 != nil {
		return nil, false
	}
	return ast.NewComplex(re, im), true
}
