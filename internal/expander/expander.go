// Package expander lowers derived Scheme forms (let, cond, case, do,
// quasiquote, …) to the small core language the evaluator actually
// interprets: quote, define, lambda, set!, cond, case, do, begin, delay,
// force, quasiquote (with its unquoted parts expanded), and application.
// Expansion is recursive and syntax-checks every
// special form it rewrites.
package expander

import (
	"github.com/cwbudde/go-scheme/internal/ast"
	"github.com/cwbudde/go-scheme/internal/errors"
)

// Expander performs the rewrite pass. It is stateful only in that it hands
// out unique temporary names for letrec's intermediate bindings.
type Expander struct {
	gensymCounter int
}

// New creates an Expander.
func New() *Expander { return &Expander{} }

func (e *Expander) gensym(base string) string {
	e.gensymCounter++
	return base + "." + itoa(e.gensymCounter)
}

// itoa avoids pulling in strconv just for this one call site's worth of
// formatting inside the hot expansion path.
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := [20]byte{}
	i := len(digits)
	for n > 0 {
		i--
		digits[i] = byte('0' + n%10)
		n /= 10
	}
	return string(digits[i:])
}

// Expand lowers a single top-level or nested form to core form.
// definitionContext reports whether a `define` is syntactically legal at
// this position (top level, or the head of a procedure/let body before any
// non-definition expression).
func (e *Expander) Expand(form ast.Value, definitionContext bool) (ast.Value, error) {
	switch v := form.(type) {
	case *ast.Pair:
		return e.expandForm(v, definitionContext)
	default:
		// Symbols and self-evaluating atoms need no rewriting.
		return form, nil
	}
}

// ExpandBody expands a sequence of body forms (a lambda body, a let body,
// a top-level program) honoring the definition-context rule: `define` is
// legal only for a prefix of leading forms; once a non-definition form
// appears, the flag goes off for the rest of the sequence. The result is
// wrapped in a single core `begin`.
func (e *Expander) ExpandBody(forms []ast.Value) (ast.Value, error) {
	if len(forms) == 0 {
		return ast.NewList(ast.Sym("begin"), ast.TheUnspecified), nil
	}
	defCtx := true
	out := make([]ast.Value, 0, len(forms)+1)
	out = append(out, ast.Sym("begin"))
	for _, f := range forms {
		expanded, err := e.Expand(f, defCtx)
		if err != nil {
			return nil, err
		}
		if !isDefine(f) {
			defCtx = false
		}
		out = append(out, expanded)
	}
	return ast.NewList(out...), nil
}

func isDefine(form ast.Value) bool {
	p, ok := form.(*ast.Pair)
	if !ok {
		return false
	}
	sym, ok := p.Car.(*ast.Symbol)
	return ok && sym.Name == "define"
}

// headSymbol returns the symbol at the head of a form, or "" if form is
// not a pair headed by a symbol.
func headSymbol(form *ast.Pair) string {
	sym, ok := form.Car.(*ast.Symbol)
	if !ok {
		return ""
	}
	return sym.Name
}

func (e *Expander) expandForm(form *ast.Pair, defCtx bool) (ast.Value, error) {
	head := headSymbol(form)
	args, properArgs := ast.ToSlice(form.Cdr)
	if !properArgs {
		return nil, errors.New(errors.Syntax, "malformed form %s: improper argument list", form.String())
	}

	switch head {
	case "quote":
		return e.expandQuote(args)
	case "define":
		return e.expandDefine(args, defCtx)
	case "lambda":
		return e.expandLambda(args)
	case "set!":
		return e.expandSet(args)
	case "if":
		return e.expandIf(args)
	case "cond":
		return e.expandCond(args)
	case "case":
		return e.expandCase(args)
	case "let":
		return e.expandLet(form, args)
	case "let*":
		return e.expandLetStar(args)
	case "letrec":
		return e.expandLetrec(args)
	case "nlet":
		return e.expandNlet(args)
	case "do":
		return e.expandDo(args)
	case "and":
		return e.expandAnd(args)
	case "or":
		return e.expandOr(args)
	case "begin":
		return e.expandBegin(args)
	case "delay":
		return e.expandDelay(args)
	case "force":
		return e.expandForce(args)
	case "quasiquote":
		if len(args) != 1 {
			return nil, errors.New(errors.Syntax, "quasiquote expects exactly 1 argument")
		}
		if err := ValidateTopLevelQuasiquote(args[0]); err != nil {
			return nil, err
		}
		tmpl, err := e.expandQuasiquote(args[0], 1)
		if err != nil {
			return nil, err
		}
		return ast.NewList(ast.Sym("quasiquote"), tmpl), nil
	default:
		return e.expandApplication(form)
	}
}

func (e *Expander) expandApplication(form *ast.Pair) (ast.Value, error) {
	items, ok := ast.ToSlice(form)
	if !ok {
		return nil, errors.New(errors.Syntax, "malformed application: improper list")
	}
	out := make([]ast.Value, len(items))
	for i, item := range items {
		expanded, err := e.Expand(item, false)
		if err != nil {
			return nil, err
		}
		out[i] = expanded
	}
	return ast.NewList(out...), nil
}

func (e *Expander) expandQuote(args []ast.Value) (ast.Value, error) {
	if len(args) != 1 {
		return nil, errors.New(errors.Syntax, "quote expects exactly 1 argument, got %d", len(args))
	}
	return ast.NewList(ast.Sym("quote"), args[0]), nil
}

func (e *Expander) expandDefine(args []ast.Value, defCtx bool) (ast.Value, error) {
	if !defCtx {
		return nil, errors.New(errors.Syntax, "define is not allowed here (not a definition context)")
	}
	if len(args) == 0 {
		return nil, errors.New(errors.Syntax, "define requires at least a name")
	}

	switch target := args[0].(type) {
	case *ast.Symbol:
		// (define sym) -> (define sym <unspecified>); (define sym expr)
		if len(args) > 2 {
			return nil, errors.New(errors.Syntax, "define %s: too many arguments", target.Name)
		}
		var value ast.Value = ast.TheUnspecified
		if len(args) == 2 {
			expanded, err := e.Expand(args[1], false)
			if err != nil {
				return nil, err
			}
			value = expanded
		}
		return ast.NewList(ast.Sym("define"), target, value), nil

	case *ast.Pair:
		// (define (f . formals) body...) -> (define f (lambda formals (begin body...)))
		nameVal := target.Car
		name, ok := nameVal.(*ast.Symbol)
		if !ok {
			return nil, errors.New(errors.Syntax, "define: procedure name must be a symbol")
		}
		formals := target.Cdr
		lambdaForm := ast.NewList(ast.Sym("lambda"), formals)
		lambdaForm, _ = appendAll(lambdaForm, args[1:])
		expandedLambda, err := e.Expand(lambdaForm, false)
		if err != nil {
			return nil, err
		}
		return ast.NewList(ast.Sym("define"), name, expandedLambda), nil

	default:
		return nil, errors.New(errors.Syntax, "define: malformed target %s", args[0].String())
	}
}

// appendAll appends extra elements to the end of a proper list `base`.
func appendAll(base ast.Value, extra []ast.Value) (ast.Value, error) {
	items, ok := ast.ToSlice(base)
	if !ok {
		return nil, errors.New(errors.Syntax, "internal error: expected proper list")
	}
	items = append(items, extra...)
	return ast.NewList(items...), nil
}

func (e *Expander) expandLambda(args []ast.Value) (ast.Value, error) {
	if len(args) < 1 {
		return nil, errors.New(errors.Syntax, "lambda requires a formals list and a body")
	}
	formals := args[0]
	if err := validateFormals(formals); err != nil {
		return nil, err
	}
	body, err := e.ExpandBody(args[1:])
	if err != nil {
		return nil, err
	}
	return ast.NewList(ast.Sym("lambda"), formals, body), nil
}

// validateFormals checks that formals is either a single symbol
// (variadic) or a (possibly dotted) list of symbols.
func validateFormals(formals ast.Value) error {
	switch v := formals.(type) {
	case *ast.Symbol:
		return nil
	case ast.Value:
		if ast.IsEmptyList(v) {
			return nil
		}
		cur := v
		for {
			p, ok := cur.(*ast.Pair)
			if !ok {
				if _, ok := cur.(*ast.Symbol); ok || ast.IsEmptyList(cur) {
					return nil
				}
				return errors.New(errors.Syntax, "malformed formals list")
			}
			if _, ok := p.Car.(*ast.Symbol); !ok {
				return errors.New(errors.Syntax, "formal parameters must be symbols")
			}
			cur = p.Cdr
		}
	}
	return errors.New(errors.Syntax, "malformed formals list")
}

func (e *Expander) expandSet(args []ast.Value) (ast.Value, error) {
	if len(args) != 2 {
		return nil, errors.New(errors.Syntax, "set! expects exactly 2 arguments, got %d", len(args))
	}
	name, ok := args[0].(*ast.Symbol)
	if !ok {
		return nil, errors.New(errors.Syntax, "set!: target must be a symbol")
	}
	value, err := e.Expand(args[1], false)
	if err != nil {
		return nil, err
	}
	return ast.NewList(ast.Sym("set!"), name, value), nil
}

// expandIf lowers `if` fully to the two-clause `cond` the evaluator
// actually implements, inserting the unspecified value as the missing
// alternative when the 2-argument form is used.
func (e *Expander) expandIf(args []ast.Value) (ast.Value, error) {
	if len(args) != 2 && len(args) != 3 {
		return nil, errors.New(errors.Syntax, "if expects 2 or 3 arguments, got %d", len(args))
	}
	test, conseq := args[0], args[1]
	var altern ast.Value = ast.TheUnspecified
	if len(args) == 3 {
		altern = args[2]
	}
	clauses := ast.NewList(
		ast.NewList(test, conseq),
		ast.NewList(ast.Sym("else"), altern),
	)
	return e.expandCondClauses(clauses)
}

func (e *Expander) expandCond(args []ast.Value) (ast.Value, error) {
	return e.expandCondClauses(ast.NewList(args...))
}

// expandCondClauses expands a list of cond-shaped clauses, inserting a
// missing else clause and validating that `else` appears only in tail
// position.
func (e *Expander) expandCondClauses(clauseList ast.Value) (ast.Value, error) {
	clauses, ok := ast.ToSlice(clauseList)
	if !ok {
		return nil, errors.New(errors.Syntax, "cond: malformed clause list")
	}

	out := []ast.Value{ast.Sym("cond")}
	sawElse := false
	for i, c := range clauses {
		parts, ok := ast.ToSlice(c)
		if !ok || len(parts) == 0 {
			return nil, errors.New(errors.Syntax, "cond: malformed clause %s", c.String())
		}
		if sawElse {
			return nil, errors.New(errors.Syntax, "cond: else clause must be last")
		}
		isElse := false
		if sym, ok := parts[0].(*ast.Symbol); ok && sym.Name == "else" {
			isElse = true
			sawElse = true
			if i != len(clauses)-1 {
				return nil, errors.New(errors.Syntax, "cond: else clause must be last")
			}
		}
		var test ast.Value
		if isElse {
			test = ast.Sym("else")
		} else {
			expandedTest, err := e.Expand(parts[0], false)
			if err != nil {
				return nil, err
			}
			test = expandedTest
		}
		body := make([]ast.Value, 0, len(parts))
		body = append(body, test)
		for _, b := range parts[1:] {
			expandedB, err := e.Expand(b, false)
			if err != nil {
				return nil, err
			}
			body = append(body, expandedB)
		}
		out = append(out, ast.NewList(body...))
	}
	if !sawElse {
		out = append(out, ast.NewList(ast.Sym("else"), ast.TheUnspecified))
	}
	return ast.NewList(out...), nil
}

func (e *Expander) expandCase(args []ast.Value) (ast.Value, error) {
	if len(args) < 1 {
		return nil, errors.New(errors.Syntax, "case requires a key expression")
	}
	key, err := e.Expand(args[0], false)
	if err != nil {
		return nil, err
	}

	out := []ast.Value{ast.Sym("case"), key}
	clauses := args[1:]
	sawElse := false
	for i, c := range clauses {
		parts, ok := ast.ToSlice(c)
		if !ok || len(parts) == 0 {
			return nil, errors.New(errors.Syntax, "case: malformed clause %s", c.String())
		}
		if sawElse {
			return nil, errors.New(errors.Syntax, "case: else clause must be last")
		}

		if sym, ok := parts[0].(*ast.Symbol); ok && sym.Name == "else" {
			sawElse = true
			if i != len(clauses)-1 {
				return nil, errors.New(errors.Syntax, "case: else clause must be last")
			}
			body := []ast.Value{ast.Sym("else")}
			for _, b := range parts[1:] {
				eb, err := e.Expand(b, false)
				if err != nil {
					return nil, err
				}
				body = append(body, eb)
			}
			out = append(out, ast.NewList(body...))
			continue
		}

		if !ast.IsProperList(parts[0]) {
			return nil, errors.New(errors.Syntax, "case: datum list must be a proper list")
		}
		quotedData := ast.NewList(ast.Sym("quote"), parts[0])
		body := []ast.Value{quotedData}
		for _, b := range parts[1:] {
			eb, err := e.Expand(b, false)
			if err != nil {
				return nil, err
			}
			body = append(body, eb)
		}
		out = append(out, ast.NewList(body...))
	}
	if !sawElse {
		out = append(out, ast.NewList(ast.Sym("else"), ast.TheUnspecified))
	}
	return ast.NewList(out...), nil
}

// expandLet lowers (let ((x e)...) body...) to an immediately-applied
// lambda, and separately supports the named-let shorthand
// (let name ((x e)...) body...) by delegating to nlet.
func (e *Expander) expandLet(form *ast.Pair, args []ast.Value) (ast.Value, error) {
	if len(args) >= 1 {
		if _, ok := args[0].(*ast.Symbol); ok {
			return e.expandNlet(args)
		}
	}
	if len(args) < 1 {
		return nil, errors.New(errors.Syntax, "let requires a binding list")
	}
	names, inits, err := parseBindings(args[0])
	if err != nil {
		return nil, err
	}
	lambdaArgs := append([]ast.Value{ast.NewList(names...)}, args[1:]...)
	lambdaForm, err := e.expandLambda(lambdaArgs)
	if err != nil {
		return nil, err
	}
	// lambdaForm is already fully expanded core form: expand only the init
	// expressions here, rather than routing the whole application through
	// expandApplication (which would re-expand lambdaForm and double-wrap
	// its body in `begin`).
	expandedInits := make([]ast.Value, len(inits))
	for i, init := range inits {
		expanded, err := e.Expand(init, false)
		if err != nil {
			return nil, err
		}
		expandedInits[i] = expanded
	}
	appItems := append([]ast.Value{lambdaForm}, expandedInits...)
	return ast.NewList(appItems...), nil
}

// parseBindings parses a ((x e) (y f) ...) binding list, returning the
// parallel name and init-expression lists (un-expanded).
func parseBindings(bindings ast.Value) (names []ast.Value, inits []ast.Value, err error) {
	items, ok := ast.ToSlice(bindings)
	if !ok {
		return nil, nil, errors.New(errors.Syntax, "malformed binding list")
	}
	for _, b := range items {
		parts, ok := ast.ToSlice(b)
		if !ok || len(parts) != 2 {
			return nil, nil, errors.New(errors.Syntax, "malformed binding %s", b.String())
		}
		name, ok := parts[0].(*ast.Symbol)
		if !ok {
			return nil, nil, errors.New(errors.Syntax, "binding name must be a symbol, got %s", parts[0].String())
		}
		names = append(names, name)
		inits = append(inits, parts[1])
	}
	return names, inits, nil
}

// expandLetStar lowers (let* ((x1 e1) (x2 e2) ...) body) to nested
// single-binding lets, rightmost innermost.
func (e *Expander) expandLetStar(args []ast.Value) (ast.Value, error) {
	if len(args) < 1 {
		return nil, errors.New(errors.Syntax, "let* requires a binding list")
	}
	bindings, ok := ast.ToSlice(args[0])
	if !ok {
		return nil, errors.New(errors.Syntax, "let*: malformed binding list")
	}
	body := args[1:]
	return e.nestLetStar(bindings, body)
}

// nestLetStar builds the core application form directly (rather than
// re-entering expandLet, which expects raw, unexpanded body forms) so that
// each binding's init expression and the final body are expanded exactly
// once.
func (e *Expander) nestLetStar(bindings []ast.Value, body []ast.Value) (ast.Value, error) {
	if len(bindings) == 0 {
		return e.ExpandBody(body)
	}
	names, inits, err := parseBindings(ast.NewList(bindings[0]))
	if err != nil {
		return nil, err
	}
	init, err := e.Expand(inits[0], false)
	if err != nil {
		return nil, err
	}
	var lambdaBody ast.Value
	if len(bindings) == 1 {
		lambdaBody, err = e.ExpandBody(body)
	} else {
		var inner ast.Value
		inner, err = e.nestLetStar(bindings[1:], body)
		lambdaBody = ast.NewList(ast.Sym("begin"), inner)
	}
	if err != nil {
		return nil, err
	}
	lambdaForm := ast.NewList(ast.Sym("lambda"), ast.NewList(names[0]), lambdaBody)
	return ast.NewList(lambdaForm, init), nil
}

// expandLetrec lowers (letrec ((x e)...) body) so that each binding's
// right-hand side can see the others (pre-bound to the unspecified value)
// without yet seeing its own final value, per spec.
func (e *Expander) expandLetrec(args []ast.Value) (ast.Value, error) {
	if len(args) < 1 {
		return nil, errors.New(errors.Syntax, "letrec requires a binding list")
	}
	names, inits, err := parseBindings(args[0])
	if err != nil {
		return nil, err
	}
	body := args[1:]

	tempNames := make([]*ast.Symbol, len(names))
	for i, n := range names {
		sym := n.(*ast.Symbol)
		tempNames[i] = ast.Sym(e.gensym(sym.Name))
	}

	// Outer let: bind each name to <unspecified>.
	outerBindings := make([]ast.Value, len(names))
	for i, n := range names {
		outerBindings[i] = ast.NewList(n, ast.TheUnspecified)
	}

	// Inner let: bind each temp name to the init expression (which may
	// reference the outer names).
	innerBindings := make([]ast.Value, len(inits))
	for i, initExpr := range inits {
		innerBindings[i] = ast.NewList(tempNames[i], initExpr)
	}

	innerBody := make([]ast.Value, 0, len(names)+len(body))
	for i, n := range names {
		innerBody = append(innerBody, ast.NewList(ast.Sym("set!"), n, tempNames[i]))
	}
	innerBody = append(innerBody, body...)

	innerLet := ast.NewList(ast.Sym("let"), ast.NewList(innerBindings...))
	innerLet, _ = appendAll(innerLet, innerBody)

	outerLet := ast.NewList(ast.Sym("let"), ast.NewList(outerBindings...), innerLet)
	return e.Expand(outerLet, false)
}

// expandNlet lowers (nlet name ((x e)...) body) to a letrec-bound
// recursive lambda, immediately applied to the init expressions.
func (e *Expander) expandNlet(args []ast.Value) (ast.Value, error) {
	if len(args) < 2 {
		return nil, errors.New(errors.Syntax, "nlet requires a name, a binding list, and a body")
	}
	name, ok := args[0].(*ast.Symbol)
	if !ok {
		return nil, errors.New(errors.Syntax, "nlet: name must be a symbol")
	}
	names, inits, err := parseBindings(args[1])
	if err != nil {
		return nil, err
	}
	body := args[2:]

	lambdaForm := ast.NewList(ast.Sym("lambda"), ast.NewList(names...))
	lambdaForm, _ = appendAll(lambdaForm, body)

	letrecBindings := ast.NewList(ast.NewList(name, lambdaForm))
	letrecForm := ast.NewList(ast.Sym("letrec"), letrecBindings, name)

	appItems := append([]ast.Value{letrecForm}, inits...)
	return e.Expand(ast.NewList(appItems...), false)
}

// expandDo builds the dedicated core `do` node: (do ((x init step)...)
// (test result...) body...), filling in step with the variable itself
// where omitted.
func (e *Expander) expandDo(args []ast.Value) (ast.Value, error) {
	if len(args) < 2 {
		return nil, errors.New(errors.Syntax, "do requires bindings and a test clause")
	}
	bindingForms, ok := ast.ToSlice(args[0])
	if !ok {
		return nil, errors.New(errors.Syntax, "do: malformed bindings")
	}
	bindings := make([]ast.Value, len(bindingForms))
	for i, b := range bindingForms {
		parts, ok := ast.ToSlice(b)
		if !ok || (len(parts) != 2 && len(parts) != 3) {
			return nil, errors.New(errors.Syntax, "do: malformed binding %s", b.String())
		}
		name, ok := parts[0].(*ast.Symbol)
		if !ok {
			return nil, errors.New(errors.Syntax, "do: binding name must be a symbol")
		}
		init, err := e.Expand(parts[1], false)
		if err != nil {
			return nil, err
		}
		var step ast.Value = name
		if len(parts) == 3 {
			expandedStep, err := e.Expand(parts[2], false)
			if err != nil {
				return nil, err
			}
			step = expandedStep
		}
		bindings[i] = ast.NewList(name, init, step)
	}

	testClause, ok := ast.ToSlice(args[1])
	if !ok || len(testClause) < 1 {
		return nil, errors.New(errors.Syntax, "do: malformed test clause")
	}
	test, err := e.Expand(testClause[0], false)
	if err != nil {
		return nil, err
	}
	results := make([]ast.Value, len(testClause)-1)
	for i, r := range testClause[1:] {
		expandedR, err := e.Expand(r, false)
		if err != nil {
			return nil, err
		}
		results[i] = expandedR
	}

	body := make([]ast.Value, len(args)-2)
	for i, b := range args[2:] {
		expandedB, err := e.Expand(b, false)
		if err != nil {
			return nil, err
		}
		body[i] = expandedB
	}

	out := []ast.Value{
		ast.Sym("do"),
		ast.NewList(bindings...),
		ast.NewList(append([]ast.Value{test}, results...)...),
	}
	out = append(out, body...)
	return ast.NewList(out...), nil
}

// expandAnd lowers (and e1 e2 ...) to nested ifs, short-circuiting on the
// first falsy value: (and) -> #t; (and e) -> e; (and e1 e2...) -> (if e1
// (and e2...) #f).
func (e *Expander) expandAnd(args []ast.Value) (ast.Value, error) {
	if len(args) == 0 {
		return ast.True, nil
	}
	if len(args) == 1 {
		return e.Expand(args[0], false)
	}
	rest := ast.NewList(append([]ast.Value{ast.Sym("and")}, args[1:]...)...)
	return e.expandIf([]ast.Value{args[0], rest, ast.False})
}

// expandOr lowers (or e1 e2 ...) to a let binding the first value once so
// it is tested and returned without re-evaluating it: (or) -> #f;
// (or e) -> e; (or e1 e2...) -> (let ((t e1)) (if t t (or e2...))).
func (e *Expander) expandOr(args []ast.Value) (ast.Value, error) {
	if len(args) == 0 {
		return ast.False, nil
	}
	if len(args) == 1 {
		return e.Expand(args[0], false)
	}
	tmp := ast.Sym(e.gensym("or-tmp"))
	rest := ast.NewList(append([]ast.Value{ast.Sym("or")}, args[1:]...)...)
	letForm := ast.NewList(ast.Sym("let"),
		ast.NewList(ast.NewList(tmp, args[0])),
		ast.NewList(ast.Sym("if"), tmp, tmp, rest))
	return e.Expand(letForm, false)
}

func (e *Expander) expandBegin(args []ast.Value) (ast.Value, error) {
	out := make([]ast.Value, 0, len(args)+1)
	out = append(out, ast.Sym("begin"))
	for _, a := range args {
		expanded, err := e.Expand(a, false)
		if err != nil {
			return nil, err
		}
		out = append(out, expanded)
	}
	if len(args) == 0 {
		out = append(out, ast.TheUnspecified)
	}
	return ast.NewList(out...), nil
}

// expandDelay lowers (delay e) to (delay (memo-proc (lambda () e))).
func (e *Expander) expandDelay(args []ast.Value) (ast.Value, error) {
	if len(args) != 1 {
		return nil, errors.New(errors.Syntax, "delay expects exactly 1 argument")
	}
	thunk := ast.NewList(ast.Sym("lambda"), ast.EmptyListVal, args[0])
	call := ast.NewList(ast.Sym("memo-proc"), thunk)
	expandedCall, err := e.Expand(call, false)
	if err != nil {
		return nil, err
	}
	return ast.NewList(ast.Sym("delay"), expandedCall), nil
}

func (e *Expander) expandForce(args []ast.Value) (ast.Value, error) {
	if len(args) != 1 {
		return nil, errors.New(errors.Syntax, "force expects exactly 1 argument")
	}
	expanded, err := e.Expand(args[0], false)
	if err != nil {
		return nil, err
	}
	return ast.NewList(ast.Sym("force"), expanded), nil
}

// expandQuasiquote walks a quasiquote template, expanding any unquoted
// subexpressions as ordinary code while leaving literal structure alone.
// depth counts nested quasiquotes: an unquote only "fires" (is treated as
// real code) when depth reaches 1; a nested quasiquote increases depth, a
// nested unquote decreases it.
func (e *Expander) expandQuasiquote(tmpl ast.Value, depth int) (ast.Value, error) {
	p, ok := tmpl.(*ast.Pair)
	if !ok {
		return tmpl, nil
	}

	switch headSymbol(p) {
	case "unquote-splicing":
		args, ok := ast.ToSlice(p.Cdr)
		if !ok || len(args) != 1 {
			return nil, errors.New(errors.Syntax, "unquote-splicing expects exactly 1 argument")
		}
		if depth == 1 {
			expanded, err := e.Expand(args[0], false)
			if err != nil {
				return nil, err
			}
			return ast.NewList(ast.Sym("unquote-splicing"), expanded), nil
		}
		inner, err := e.expandQuasiquote(args[0], depth-1)
		if err != nil {
			return nil, err
		}
		return ast.NewList(ast.Sym("unquote-splicing"), inner), nil

	case "unquote":
		args, ok := ast.ToSlice(p.Cdr)
		if !ok || len(args) != 1 {
			return nil, errors.New(errors.Syntax, "unquote expects exactly 1 argument")
		}
		if depth == 1 {
			expanded, err := e.Expand(args[0], false)
			if err != nil {
				return nil, err
			}
			return ast.NewList(ast.Sym("unquote"), expanded), nil
		}
		inner, err := e.expandQuasiquote(args[0], depth-1)
		if err != nil {
			return nil, err
		}
		return ast.NewList(ast.Sym("unquote"), inner), nil

	case "quasiquote":
		args, ok := ast.ToSlice(p.Cdr)
		if !ok || len(args) != 1 {
			return nil, errors.New(errors.Syntax, "quasiquote expects exactly 1 argument")
		}
		inner, err := e.expandQuasiquote(args[0], depth+1)
		if err != nil {
			return nil, err
		}
		return ast.NewList(ast.Sym("quasiquote"), inner), nil

	default:
		car, err := e.expandQuasiquote(p.Car, depth)
		if err != nil {
			return nil, err
		}
		cdr, err := e.expandQuasiquote(p.Cdr, depth)
		if err != nil {
			return nil, err
		}
		return &ast.Pair{Car: car, Cdr: cdr}, nil
	}
}

// ValidateTopLevelQuasiquote rejects `,@x` appearing at the very top of a
// quasiquoted template, where there is no enclosing list to splice into.
func ValidateTopLevelQuasiquote(tmpl ast.Value) error {
	if p, ok := tmpl.(*ast.Pair); ok && headSymbol(p) == "unquote-splicing" {
		return errors.New(errors.Syntax, "unquote-splicing is not valid at the top of a quasiquoted template")
	}
	return nil
}
