package value

import (
	"math"

	mdwerror "github.com/msto63/kthxbye/foundation/core/error"
)

// Op is an arithmetic operator
type Op int

const (
	Add Op = iota
	Sub
	Mul
	Div
	Mod
	Max
	Min
)

func (o Op) String() string {
	switch o {
	case Add:
		return "SUM OF"
	case Sub:
		return "DIFF OF"
	case Mul:
		return "PRODUKT OF"
	case Div:
		return "QUOSHUNT OF"
	case Mod:
		return "MOD OF"
	case Max:
		return "BIGGR OF"
	default:
		return "SMALLR OF"
	}
}

// Arith applies op to a and b. The result is Integer when both operands
// are Integer and Float otherwise. Integer results wrap on overflow.
// Errors carry a code but no line.
func Arith(op Op, a, b Value) (Value, error) {
	if !a.IsNumeric() || !b.IsNumeric() {
		return Value{}, mdwerror.New("invalid datatype.").
			WithCode(mdwerror.CodeTypeMismatch).
			WithDetail("left", a.tag.String()).
			WithDetail("right", b.tag.String())
	}

	if a.tag == Integer && b.tag == Integer {
		return intArith(op, a.i, b.i)
	}
	return floatArith(op, a.AsFloat(), b.AsFloat())
}

func intArith(op Op, x, y int64) (Value, error) {
	switch op {
	case Add:
		return Int(x + y), nil
	case Sub:
		return Int(x - y), nil
	case Mul:
		return Int(x * y), nil
	case Div:
		if y == 0 {
			return Value{}, zeroDivision()
		}
		return Int(x / y), nil
	case Mod:
		if y == 0 {
			return Value{}, zeroDivision()
		}
		return Int(x % y), nil
	case Max:
		if x >= y {
			return Int(x), nil
		}
		return Int(y), nil
	default:
		if x <= y {
			return Int(x), nil
		}
		return Int(y), nil
	}
}

func floatArith(op Op, x, y float64) (Value, error) {
	switch op {
	case Add:
		return Flt(x + y), nil
	case Sub:
		return Flt(x - y), nil
	case Mul:
		return Flt(x * y), nil
	case Div:
		if y == 0 {
			return Value{}, zeroDivision()
		}
		return Flt(x / y), nil
	case Mod:
		if y == 0 {
			return Value{}, zeroDivision()
		}
		return Flt(math.Mod(x, y)), nil
	case Max:
		return Flt(math.Max(x, y)), nil
	default:
		return Flt(math.Min(x, y)), nil
	}
}

func zeroDivision() error {
	return mdwerror.New("Zero Division.").WithCode(mdwerror.CodeDivisionByZero)
}
