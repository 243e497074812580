package interp

import (
	mdwerror "github.com/msto63/kthxbye/foundation/core/error"
	mdwlog "github.com/msto63/kthxbye/foundation/core/log"
	"github.com/msto63/kthxbye/internal/lolcode/scope"
	"github.com/msto63/kthxbye/internal/lolcode/token"
)

// conditional recognizes O RLY? YA RLY <statements> [NO WAI <statements>] OIC.
// The condition is the current value of IT.
func (r *run) conditional() error {
	orly := r.cur.current()
	r.cur.advance()

	it, err := r.env.Lookup(scope.ImplicitName)
	if err != nil {
		return r.record(err, orly.Line())
	}
	cond := it.Truthy()

	if ya := r.cur.current(); !ya.Is(token.YaRly) {
		if ya.Is(token.EOF) || ya.Is(token.Kthxbye) {
			return r.unterminated(ya)
		}
		return r.fail(mdwerror.CodeStructural, ya.Line(), "expecting YA RLY.")
	}
	r.cur.advance()

	if cond {
		err = r.branch(true)
	} else {
		err = r.skip()
	}
	if err != nil {
		return err
	}

	if r.cur.current().Is(token.NoWai) {
		r.cur.advance()
		if cond {
			err = r.skip()
		} else {
			err = r.branch(false)
		}
		if err != nil {
			return err
		}
	}

	end := r.cur.current()
	switch {
	case end.Is(token.Oic):
		r.cur.advance()
		return nil
	case end.Is(token.EOF), end.Is(token.Kthxbye):
		return r.unterminated(end)
	case end.Category() == token.CategoryControlFlow:
		return r.fail(mdwerror.CodeStructural, end.Line(), "expecting OIC.")
	default:
		return r.unrecognized(end)
	}
}

// branch runs a statement sequence in a child scope. A then-branch counts
// toward the nesting limit; an else-branch stays at the outer depth.
func (r *run) branch(nested bool) error {
	if nested {
		r.depth++
		defer func() { r.depth-- }()
		if r.opts.MaxDepth > 0 && r.depth > r.opts.MaxDepth {
			return r.fail(mdwerror.CodeNestingTooDeep, r.cur.previous().Line(),
				"conditional nesting deeper than %d.", r.opts.MaxDepth)
		}
	}

	id := r.env.EnterChild()
	r.logger.Debug("scope entered", mdwlog.Fields{"scope": int(id), "depth": r.depth})
	err := r.statements()
	if rerr := r.env.Release(id); rerr != nil && err == nil {
		err = r.record(rerr, r.cur.current().Line())
	}
	r.logger.Debug("scope released", mdwlog.Fields{"scope": int(id)})
	return err
}

// skip advances past an untaken branch. It stops without consuming on the
// NO WAI or OIC that belongs to the enclosing conditional; markers of
// nested conditionals are passed over.
func (r *run) skip() error {
	from := r.cur.current().Line()
	nested := 0

	for {
		t := r.cur.current()
		switch {
		case t.Is(token.EOF), t.Is(token.Kthxbye):
			return r.unterminated(t)
		case t.Is(token.Unknown):
			return r.unrecognized(t)
		case t.Is(token.ORly):
			nested++
		case t.Is(token.Oic):
			if nested == 0 {
				r.logger.Trace("branch skipped", mdwlog.Fields{"from": from, "to": t.Line()})
				return nil
			}
			nested--
		case t.Is(token.NoWai):
			if nested == 0 {
				r.logger.Trace("branch skipped", mdwlog.Fields{"from": from, "to": t.Line()})
				return nil
			}
		}
		r.cur.advance()
	}
}

func (r *run) unterminated(t token.Token) error {
	return r.fail(mdwerror.CodeUnterminatedControlFlow, t.Line(), "O RLY? without OIC.")
}
