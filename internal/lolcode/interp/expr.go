package interp

import (
	mdwerror "github.com/msto63/kthxbye/foundation/core/error"
	"github.com/msto63/kthxbye/internal/lolcode/token"
	"github.com/msto63/kthxbye/internal/lolcode/value"
)

// mode controls how operands are recognized
type mode struct {
	// nary is set inside ALL OF / ANY OF, where another n-ary operator is illegal
	nary bool

	// dry recognizes grammar only: no lookups and no arithmetic, so
	// short-circuited operands cannot fail semantically
	dry bool
}

var arithOps = map[token.Kind]value.Op{
	token.SumOf:      value.Add,
	token.DiffOf:     value.Sub,
	token.ProduktOf:  value.Mul,
	token.QuoshuntOf: value.Div,
	token.ModOf:      value.Mod,
	token.BiggrOf:    value.Max,
	token.SmallrOf:   value.Min,
}

// expression evaluates the operator expression at the cursor
func (r *run) expression(m mode) (value.Value, error) {
	op := r.cur.current()
	switch op.Category() {
	case token.CategoryArithmeticOp:
		return r.arithmetic(m)
	case token.CategoryComparisonOp:
		return r.comparison(m)
	case token.CategoryBooleanOp:
		return r.boolean(m)
	case token.CategoryBooleanNAryOp:
		if m.nary {
			return value.Value{}, r.fail(mdwerror.CodeIllegalNesting, op.Line(),
				"'%s' cannot be nested inside ALL OF or ANY OF.", op.Text())
		}
		return r.nary(m)
	}
	return value.Value{}, r.fail(mdwerror.CodeUnrecognizedOperand, op.Line(), "'%s' not an expression operator.", op.Text())
}

// operand evaluates a literal, a variable or a nested expression. With
// arithmetic set only arithmetic expressions may nest.
func (r *run) operand(m mode, arithmetic bool) (value.Value, error) {
	t := r.cur.current()
	switch {
	case t.Category() == token.CategoryLiteral:
		r.cur.advance()
		return literal(t), nil

	case t.Category() == token.CategoryVariable:
		r.cur.advance()
		if m.dry {
			return value.Uninit(), nil
		}
		v, err := r.env.Lookup(t.Text())
		if err != nil {
			return value.Value{}, r.record(err, t.Line())
		}
		return v, nil

	case arithmetic && t.Category() == token.CategoryArithmeticOp,
		!arithmetic && t.Kind().IsOperator():
		return r.expression(m)
	}
	return value.Value{}, r.fail(mdwerror.CodeUnrecognizedOperand, t.Line(), "'%s' is not a valid operand.", t.Text())
}

func (r *run) separator() error {
	t := r.cur.current()
	if !t.Is(token.An) {
		return r.fail(mdwerror.CodeMissingSeparator, t.Line(), "separator AN not found.")
	}
	r.cur.advance()
	return nil
}

// operands recognizes <operand> AN <operand>
func (r *run) operands(m mode, arithmetic bool) (a, b value.Value, err error) {
	if a, err = r.operand(m, arithmetic); err != nil {
		return
	}
	if err = r.separator(); err != nil {
		return
	}
	b, err = r.operand(m, arithmetic)
	return
}

func (r *run) arithmetic(m mode) (value.Value, error) {
	op := r.cur.current()
	r.cur.advance()

	a, b, err := r.operands(m, true)
	if err != nil || m.dry {
		return value.Value{}, err
	}

	v, err := value.Arith(arithOps[op.Kind()], a, b)
	if err != nil {
		return value.Value{}, r.record(err, op.Line())
	}
	return v, nil
}

func (r *run) comparison(m mode) (value.Value, error) {
	op := r.cur.current()
	r.cur.advance()

	a, b, err := r.operands(m, false)
	if err != nil || m.dry {
		return value.Value{}, err
	}

	eq := value.Equal(a, b)
	if op.Is(token.Diffrint) {
		return value.Bool(!eq), nil
	}
	return value.Bool(eq), nil
}

func (r *run) boolean(m mode) (value.Value, error) {
	op := r.cur.current()
	r.cur.advance()

	if op.Is(token.Not) {
		a, err := r.operand(m, false)
		if err != nil || m.dry {
			return value.Value{}, err
		}
		return value.Bool(!a.Truthy()), nil
	}

	a, b, err := r.operands(m, false)
	if err != nil || m.dry {
		return value.Value{}, err
	}

	x, y := a.Truthy(), b.Truthy()
	switch op.Kind() {
	case token.BothOf:
		return value.Bool(x && y), nil
	case token.EitherOf:
		return value.Bool(x || y), nil
	default:
		return value.Bool(x != y), nil
	}
}

// nary recognizes ALL OF / ANY OF <operand> [AN <operand>]* MKAY. Every
// operand is recognized; once the result is decided the rest are
// recognized dry.
func (r *run) nary(m mode) (value.Value, error) {
	op := r.cur.current()
	r.cur.advance()

	all := op.Is(token.AllOf)
	result := all
	decided := false

	for {
		if t := r.cur.current(); t.Is(token.Mkay) {
			return value.Value{}, r.fail(mdwerror.CodeMissingOperand, t.Line(), "expecting an operand before MKAY.")
		}

		v, err := r.operand(mode{nary: true, dry: m.dry || decided}, false)
		if err != nil {
			return value.Value{}, err
		}
		if !m.dry && !decided && v.Truthy() != all {
			result = !all
			decided = true
		}

		t := r.cur.current()
		if t.Is(token.Mkay) {
			r.cur.advance()
			break
		}
		if err := r.separator(); err != nil {
			return value.Value{}, err
		}
	}

	if m.dry {
		return value.Value{}, nil
	}
	return value.Bool(result), nil
}
