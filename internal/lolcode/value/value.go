// ============================================================================
// kthxbye - LOLCODE Interpreter
// ============================================================================
//
// Package:     value
// Description: Runtime values, literal inference, truthiness and the
//              arithmetic and equality rules of the language
// Author:      Mike Stoffels
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package value

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Tag identifies the active member of a Value
type Tag int

const (
	Uninitialized Tag = iota
	Integer
	Float
	Text
	Boolean
)

// String returns the language's type name for the tag
func (t Tag) String() string {
	switch t {
	case Integer:
		return "NUMBR"
	case Float:
		return "NUMBAR"
	case Text:
		return "YARN"
	case Boolean:
		return "TROOF"
	default:
		return "NOOB"
	}
}

// Value is a tagged union. The zero Value is Uninitialized.
type Value struct {
	tag Tag
	i   int64
	f   float64
	s   string
	b   bool
}

// Int creates an Integer value
func Int(i int64) Value { return Value{tag: Integer, i: i} }

// Flt creates a Float value
func Flt(f float64) Value { return Value{tag: Float, f: f} }

// Str creates a Text value
func Str(s string) Value { return Value{tag: Text, s: s} }

// Bool creates a Boolean value
func Bool(b bool) Value { return Value{tag: Boolean, b: b} }

// Uninit returns the Uninitialized value
func Uninit() Value { return Value{} }

// Tag returns the active tag
func (v Value) Tag() Tag { return v.tag }

// IsNumeric reports whether the value is Integer or Float
func (v Value) IsNumeric() bool { return v.tag == Integer || v.tag == Float }

// AsInt returns the Integer payload
func (v Value) AsInt() int64 { return v.i }

// AsFloat returns the numeric payload promoted to float64
func (v Value) AsFloat() float64 {
	if v.tag == Integer {
		return float64(v.i)
	}
	return v.f
}

// AsText returns the Text payload
func (v Value) AsText() string { return v.s }

// AsBool returns the Boolean payload
func (v Value) AsBool() bool { return v.b }

// Truthy applies the language's truthiness rule: only a Boolean can be false.
func (v Value) Truthy() bool {
	if v.tag == Boolean {
		return v.b
	}
	return true
}

// String returns the canonical printed form
func (v Value) String() string {
	switch v.tag {
	case Integer:
		return strconv.FormatInt(v.i, 10)
	case Float:
		return FormatFloat(v.f)
	case Text:
		return v.s
	case Boolean:
		if v.b {
			return "WIN"
		}
		return "FAIL"
	default:
		return "NOOB"
	}
}

// FormatFloat renders f as the shortest decimal that round-trips, always
// with a fractional part
func FormatFloat(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

var (
	intText   = regexp.MustCompile(`^-?\d+$`)
	floatText = regexp.MustCompile(`^-?\d*\.\d+$`)
)

// IsIntText reports whether s is written as an integer literal
func IsIntText(s string) bool { return intText.MatchString(s) }

// IsFloatText reports whether s is written as a decimal literal
func IsFloatText(s string) bool { return floatText.MatchString(s) }

// Infer classifies text the way literals are classified: integer text
// becomes Integer, decimal text becomes Float, anything else stays Text.
// Integer text outside the int64 range becomes Float.
func Infer(s string) Value {
	switch {
	case IsIntText(s):
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return Int(i)
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return Flt(f)
		}
	case IsFloatText(s):
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return Flt(f)
		}
	}
	return Str(s)
}

// Equal compares two values. Numbers compare after promotion; otherwise
// tags and payloads must both match.
func Equal(a, b Value) bool {
	if a.IsNumeric() && b.IsNumeric() {
		if a.tag == Integer && b.tag == Integer {
			return a.i == b.i
		}
		return a.AsFloat() == b.AsFloat()
	}
	if a.tag != b.tag {
		return false
	}
	switch a.tag {
	case Text:
		return a.s == b.s
	case Boolean:
		return a.b == b.b
	default:
		return true
	}
}
