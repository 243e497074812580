package interp

import (
	"fmt"
	"strings"

	mdwerror "github.com/msto63/kthxbye/foundation/core/error"
	mdwlog "github.com/msto63/kthxbye/foundation/core/log"
	"github.com/msto63/kthxbye/internal/lolcode/scope"
	"github.com/msto63/kthxbye/internal/lolcode/token"
	"github.com/msto63/kthxbye/internal/lolcode/value"
)

// program recognizes HAI [version] <statement>* KTHXBYE
func (r *run) program() error {
	start := r.cur.current()
	if !start.Is(token.Hai) {
		return r.fail(mdwerror.CodeStructural, start.Line(), "must start with HAI.")
	}
	r.cur.advance()

	if v := r.cur.current(); (v.Is(token.IntLiteral) || v.Is(token.FloatLiteral)) && v.Line() == start.Line() {
		r.cur.advance()
	}

	if err := r.statements(); err != nil {
		return err
	}

	end := r.cur.current()
	if !end.Is(token.Kthxbye) {
		if end.Is(token.EOF) {
			return r.fail(mdwerror.CodeStructural, end.Line(), "must end with KTHXBYE.")
		}
		return r.unrecognized(end)
	}
	r.cur.advance()

	if extra := r.cur.current(); !extra.Is(token.EOF) {
		return r.fail(mdwerror.CodeStructural, extra.Line(), "unexpected '%s' after KTHXBYE.", extra.Text())
	}
	return nil
}

// unrecognized reports a token that starts no statement
func (r *run) unrecognized(t token.Token) error {
	if t.Is(token.Unknown) {
		return r.fail(mdwerror.CodeUnrecognizedStatement, t.Line(), "unrecognized token '%s'.", t.Text())
	}
	return r.fail(mdwerror.CodeUnrecognizedStatement, t.Line(), "'%s' is not a valid statement.", t.Text())
}

// startsStatement reports whether the current token begins a statement
func (r *run) startsStatement() bool {
	cur := r.cur.current()
	switch {
	case cur.Category() == token.CategoryStatementStarter:
		return true
	case cur.Category() == token.CategoryVariable:
		next := r.cur.lookahead()
		return next.Is(token.R) && next.Line() == cur.Line()
	default:
		return cur.Kind().IsOperator()
	}
}

// startsValue reports whether t can begin a value
func startsValue(t token.Token) bool {
	switch t.Category() {
	case token.CategoryLiteral, token.CategoryVariable:
		return true
	}
	return t.Kind().IsOperator()
}

// statements recognizes statements until the current token starts none
func (r *run) statements() error {
	for r.startsStatement() {
		if err := r.statement(); err != nil {
			return err
		}
	}
	return nil
}

func (r *run) statement() error {
	cur := r.cur.current()
	r.logger.Trace("statement", mdwlog.Fields{"kind": cur.Kind().String(), "line": cur.Line(), "depth": r.depth})

	switch {
	case cur.Is(token.IHasA):
		return r.declaration()
	case cur.Is(token.Visible):
		return r.print()
	case cur.Is(token.Gimmeh):
		return r.input()
	case cur.Is(token.ORly):
		return r.conditional()
	case cur.Category() == token.CategoryVariable:
		return r.assignment()
	default:
		return r.implicit()
	}
}

// declaration recognizes I HAS A <identifier> [ITZ <value>]
func (r *run) declaration() error {
	decl := r.cur.current()
	r.cur.advance()

	name := r.cur.current()
	if !name.Is(token.Identifier) || name.Line() != decl.Line() {
		return r.fail(mdwerror.CodeStructural, decl.Line(), "expecting a variable identifier.")
	}
	r.cur.advance()

	itz := r.cur.current()
	if !itz.Is(token.Itz) || itz.Line() != name.Line() {
		r.env.Declare(name.Text(), value.Uninit())
		return nil
	}
	r.cur.advance()

	if next := r.cur.current(); next.Line() != itz.Line() || !startsValue(next) {
		if next.Is(token.Unknown) && next.Line() == itz.Line() {
			return r.unrecognized(next)
		}
		return r.fail(mdwerror.CodeStructural, itz.Line(), "expecting a value for declared variable.")
	}
	v, err := r.value()
	if err != nil {
		return err
	}
	r.env.Declare(name.Text(), v)
	return nil
}

// assignment recognizes <variable> R <value>
func (r *run) assignment() error {
	name := r.cur.current()
	r.cur.advance()
	assign := r.cur.current()
	r.cur.advance()

	if !r.env.Contains(name.Text()) {
		return r.fail(mdwerror.CodeUnknownVariable, name.Line(), "Variable '%s' undeclared.", name.Text())
	}
	if next := r.cur.current(); next.Line() != assign.Line() || !startsValue(next) {
		if next.Is(token.Unknown) && next.Line() == assign.Line() {
			return r.unrecognized(next)
		}
		return r.fail(mdwerror.CodeStructural, assign.Line(), "expecting a value for declared variable.")
	}

	v, err := r.value()
	if err != nil {
		return err
	}
	if err := r.env.Assign(name.Text(), v); err != nil {
		return r.record(err, name.Line())
	}
	return nil
}

// print recognizes VISIBLE <value> <value>* with every value starting on
// the line where the previous one ended
func (r *run) print() error {
	visible := r.cur.current()
	r.cur.advance()

	if next := r.cur.current(); next.Line() != visible.Line() || !startsValue(next) {
		if next.Is(token.Unknown) && next.Line() == visible.Line() {
			return r.unrecognized(next)
		}
		return r.fail(mdwerror.CodeStructural, visible.Line(), "expecting a value to print.")
	}

	var out strings.Builder
	for {
		text, err := r.printValue()
		if err != nil {
			return err
		}
		out.WriteString(text)

		next := r.cur.current()
		if !startsValue(next) || next.Line() != r.cur.previous().Line() {
			break
		}
	}

	fmt.Fprintln(r.opts.Output, out.String())
	return nil
}

func (r *run) printValue() (string, error) {
	t := r.cur.current()
	if t.Category() == token.CategoryLiteral {
		r.cur.advance()
		if t.Is(token.StringLiteral) {
			return unquote(t.Text()), nil
		}
		return t.Text(), nil
	}

	v, err := r.value()
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

// input recognizes GIMMEH <variable>
func (r *run) input() error {
	gimmeh := r.cur.current()
	r.cur.advance()

	name := r.cur.current()
	if name.Category() != token.CategoryVariable || name.Line() != gimmeh.Line() {
		return r.fail(mdwerror.CodeStructural, gimmeh.Line(), "expecting a variable identifier.")
	}
	r.cur.advance()

	if !r.env.Contains(name.Text()) {
		return r.fail(mdwerror.CodeUnknownVariable, name.Line(), "Variable '%s' undeclared.", name.Text())
	}

	word, err := r.opts.Input.NextWord()
	if err != nil {
		return r.fail(mdwerror.CodeInputError, gimmeh.Line(), "Input Error.")
	}
	if err := r.env.Assign(name.Text(), value.Infer(word)); err != nil {
		return r.record(err, name.Line())
	}
	return nil
}

// implicit evaluates a bare expression into IT
func (r *run) implicit() error {
	line := r.cur.current().Line()
	v, err := r.expression(mode{})
	if err != nil {
		return err
	}
	if err := r.env.Assign(scope.ImplicitName, v); err != nil {
		return r.record(err, line)
	}
	return nil
}

// value evaluates a literal, variable or expression at the cursor
func (r *run) value() (value.Value, error) {
	return r.operand(mode{}, false)
}

// literal converts a literal token. String literals holding numeric text
// become numbers.
func literal(t token.Token) value.Value {
	switch t.Kind() {
	case token.StringLiteral:
		return value.Infer(unquote(t.Text()))
	case token.BoolLiteral:
		return value.Bool(t.Text() == "WIN")
	default:
		return value.Infer(t.Text())
	}
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
