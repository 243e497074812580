// ============================================================================
// kthxbye - LOLCODE Interpreter
// ============================================================================
//
// Package:     token
// Description: Token kinds, syntactic categories and the static table that
//              binds every kind to exactly one category
// Author:      Mike Stoffels
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package token

import "fmt"

// Kind is the fine-grained classification of a token
type Kind int

const (
	// Special tokens
	Unknown Kind = iota
	EOF

	// Program delimiters
	Hai     // HAI
	Kthxbye // KTHXBYE

	// Statement starters
	IHasA   // I HAS A
	Visible // VISIBLE
	Gimmeh  // GIMMEH
	ORly    // O RLY?

	// Keywords
	Itz    // ITZ
	R      // R
	An     // AN
	Mkay   // MKAY
	Maek   // MAEK
	A      // A
	Smoosh // SMOOSH

	// Arithmetic operators
	SumOf      // SUM OF
	DiffOf     // DIFF OF
	ProduktOf  // PRODUKT OF
	QuoshuntOf // QUOSHUNT OF
	ModOf      // MOD OF
	BiggrOf    // BIGGR OF
	SmallrOf   // SMALLR OF

	// Comparison operators
	BothSaem // BOTH SAEM
	Diffrint // DIFFRINT

	// Boolean operators
	BothOf   // BOTH OF
	EitherOf // EITHER OF
	WonOf    // WON OF
	Not      // NOT

	// N-ary boolean operators
	AllOf // ALL OF
	AnyOf // ANY OF

	// Control flow markers
	YaRly  // YA RLY
	NoWai  // NO WAI
	Mebbe  // MEBBE
	Oic    // OIC
	Wtf    // WTF?
	Omg    // OMG
	Omgwtf // OMGWTF
	Gtfo   // GTFO

	// Datatypes
	Noob   // NOOB
	Numbr  // NUMBR
	Numbar // NUMBAR
	Yarn   // YARN
	Troof  // TROOF

	// Variables
	Identifier
	It // IT

	// Literals
	IntLiteral
	FloatLiteral
	StringLiteral
	BoolLiteral

	kindCount
)

// Category is the coarse syntactic class of a token
type Category int

const (
	CategoryKeyword Category = iota
	CategoryProgram
	CategoryStatementStarter
	CategoryArithmeticOp
	CategoryComparisonOp
	CategoryBooleanOp
	CategoryBooleanNAryOp
	CategoryControlFlow
	CategoryDatatype
	CategoryVariable
	CategoryLiteral
)

var kindNames = [kindCount]string{
	Unknown:       "UNKNOWN",
	EOF:           "EOF",
	Hai:           "PROGRAM_START",
	Kthxbye:       "PROGRAM_END",
	IHasA:         "VAR_DECLARE",
	Visible:       "PRINT",
	Gimmeh:        "USER_INPUT",
	ORly:          "CTRL_IF_THEN",
	Itz:           "VAR_INITIALIZE",
	R:             "ASSIGNMENT",
	An:            "EXPR_OP_SEPARATOR",
	Mkay:          "BOOL_INF_END",
	Maek:          "TYPECAST",
	A:             "TYPECAST_SEPARATOR",
	Smoosh:        "STR_CONCAT",
	SumOf:         "EXPR_ADD",
	DiffOf:        "EXPR_SUB",
	ProduktOf:     "EXPR_MUL",
	QuoshuntOf:    "EXPR_DIV",
	ModOf:         "EXPR_MOD",
	BiggrOf:       "EXPR_MAX",
	SmallrOf:      "EXPR_MIN",
	BothSaem:      "COMP_EQUAL",
	Diffrint:      "COMP_NOT_EQUAL",
	BothOf:        "BOOL_AND",
	EitherOf:      "BOOL_OR",
	WonOf:         "BOOL_XOR",
	Not:           "BOOL_NOT",
	AllOf:         "BOOL_INF_AND",
	AnyOf:         "BOOL_INF_OR",
	YaRly:         "CTRL_IF",
	NoWai:         "CTRL_ELSE",
	Mebbe:         "CTRL_ELSEIF",
	Oic:           "CTRL_END",
	Wtf:           "CTRL_SWITCH",
	Omg:           "CTRL_CASE",
	Omgwtf:        "CTRL_CASE_DEFAULT",
	Gtfo:          "BREAK",
	Noob:          "DATATYPE_NONE",
	Numbr:         "DATATYPE_INT",
	Numbar:        "DATATYPE_FLOAT",
	Yarn:          "DATATYPE_STRING",
	Troof:         "DATATYPE_BOOLEAN",
	Identifier:    "VAR_IDENTIFIER",
	It:            "VAR_IMPLICIT",
	IntLiteral:    "INT_LITERAL",
	FloatLiteral:  "FLOAT_LITERAL",
	StringLiteral: "STR_LITERAL",
	BoolLiteral:   "BOOL_LITERAL",
}

// categories is the only place a kind is bound to a category. Kinds not
// listed default to CategoryKeyword.
var categories = [kindCount]Category{
	Hai:           CategoryProgram,
	Kthxbye:       CategoryProgram,
	IHasA:         CategoryStatementStarter,
	Visible:       CategoryStatementStarter,
	Gimmeh:        CategoryStatementStarter,
	ORly:          CategoryStatementStarter,
	SumOf:         CategoryArithmeticOp,
	DiffOf:        CategoryArithmeticOp,
	ProduktOf:     CategoryArithmeticOp,
	QuoshuntOf:    CategoryArithmeticOp,
	ModOf:         CategoryArithmeticOp,
	BiggrOf:       CategoryArithmeticOp,
	SmallrOf:      CategoryArithmeticOp,
	BothSaem:      CategoryComparisonOp,
	Diffrint:      CategoryComparisonOp,
	BothOf:        CategoryBooleanOp,
	EitherOf:      CategoryBooleanOp,
	WonOf:         CategoryBooleanOp,
	Not:           CategoryBooleanOp,
	AllOf:         CategoryBooleanNAryOp,
	AnyOf:         CategoryBooleanNAryOp,
	YaRly:         CategoryControlFlow,
	NoWai:         CategoryControlFlow,
	Mebbe:         CategoryControlFlow,
	Oic:           CategoryControlFlow,
	Wtf:           CategoryControlFlow,
	Omg:           CategoryControlFlow,
	Omgwtf:        CategoryControlFlow,
	Gtfo:          CategoryControlFlow,
	Noob:          CategoryDatatype,
	Numbr:         CategoryDatatype,
	Numbar:        CategoryDatatype,
	Yarn:          CategoryDatatype,
	Troof:         CategoryDatatype,
	Identifier:    CategoryVariable,
	It:            CategoryVariable,
	IntLiteral:    CategoryLiteral,
	FloatLiteral:  CategoryLiteral,
	StringLiteral: CategoryLiteral,
	BoolLiteral:   CategoryLiteral,
}

// String returns the kind name used in token dumps
func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Category returns the coarse category bound to the kind
func (k Kind) Category() Category {
	if k < 0 || k >= kindCount {
		return CategoryKeyword
	}
	return categories[k]
}

// IsOperator reports whether the kind belongs to one of the four
// expression operator families
func (k Kind) IsOperator() bool {
	switch k.Category() {
	case CategoryArithmeticOp, CategoryComparisonOp, CategoryBooleanOp, CategoryBooleanNAryOp:
		return true
	}
	return false
}

// Kinds returns every defined kind in declaration order
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// String returns the category name
func (c Category) String() string {
	switch c {
	case CategoryProgram:
		return "PROGRAM"
	case CategoryStatementStarter:
		return "STATEMENT_STARTER"
	case CategoryArithmeticOp:
		return "ARITHMETIC_OPERATOR"
	case CategoryComparisonOp:
		return "COMPARISON_OPERATOR"
	case CategoryBooleanOp:
		return "BOOLEAN_OPERATOR"
	case CategoryBooleanNAryOp:
		return "BOOLEAN_NARY_OPERATOR"
	case CategoryControlFlow:
		return "CONTROL_FLOW"
	case CategoryDatatype:
		return "DATATYPE"
	case CategoryVariable:
		return "VARIABLE"
	case CategoryLiteral:
		return "LITERAL"
	default:
		return "KEYWORD"
	}
}

// Token is a single lexical unit. Its category is derived from its kind
// and cannot be set independently.
type Token struct {
	text string
	kind Kind
	line int
}

// New creates a token
func New(kind Kind, text string, line int) Token {
	return Token{text: text, kind: kind, line: line}
}

// Text returns the raw text. String literals keep their quotes.
func (t Token) Text() string { return t.text }

// Kind returns the fine-grained kind
func (t Token) Kind() Kind { return t.kind }

// Category returns the category bound to the token's kind
func (t Token) Category() Category { return t.kind.Category() }

// Line returns the 1-based source line
func (t Token) Line() int { return t.line }

// Is reports whether the token has the given kind
func (t Token) Is(k Kind) bool { return t.kind == k }

// String returns a debug representation of the token
func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d", t.kind, t.text, t.line)
}

// Entry is the serializable view of a token used by token dumps
type Entry struct {
	Kind     string `json:"kind" yaml:"kind"`
	Category string `json:"category" yaml:"category"`
	Text     string `json:"text" yaml:"text"`
	Line     int    `json:"line" yaml:"line"`
}

// Entry converts the token to its serializable view
func (t Token) Entry() Entry {
	return Entry{
		Kind:     t.kind.String(),
		Category: t.Category().String(),
		Text:     t.text,
		Line:     t.line,
	}
}
