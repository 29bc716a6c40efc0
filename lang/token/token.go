// Package token defines the lexical tokens of the wml language and the
// naming-convention rule that classifies words into keywords, literals,
// and the three identifier classes.
package token

import (
	"strconv"
	"unicode/utf8"
)

// Kind identifies the lexical class of a [Token].
type Kind int

// Token kinds.
const (
	Illegal Kind = iota
	EOF

	// Punctuation.
	Assign
	Colon
	Comma
	Dot
	Semicolon
	LParen
	RParen
	LBrace
	RBrace

	// Operators.
	Plus
	Minus
	Multiplication
	Division
	Modulus
	Not
	Equal
	NotEqual
	LessThan
	LessThanEqual
	GreaterThan
	GreaterThanEqual

	// Literal values.
	IntValue
	FloatValue
	StrValue
	BoolValue

	// Type annotations.
	IntType
	FloatType
	StrType
	BoolType
	AnyType

	// Naming classes.
	Variable
	Constant
	Identifier

	// Structural keywords.
	If
	Else
	Action
	Return
	Model
	None

	numKinds
)

var kindNames = [numKinds]string{
	Illegal:          "illegal",
	EOF:              "eof",
	Assign:           "assign",
	Colon:            "colon",
	Comma:            "comma",
	Dot:              "dot",
	Semicolon:        "semicolon",
	LParen:           "lparen",
	RParen:           "rparen",
	LBrace:           "lbrace",
	RBrace:           "rbrace",
	Plus:             "plus",
	Minus:            "minus",
	Multiplication:   "multiplication",
	Division:         "division",
	Modulus:          "modulus",
	Not:              "not",
	Equal:            "equal",
	NotEqual:         "not_equal",
	LessThan:         "less_than",
	LessThanEqual:    "less_than_equal",
	GreaterThan:      "greater_than",
	GreaterThanEqual: "greater_than_equal",
	IntValue:         "int_value",
	FloatValue:       "float_value",
	StrValue:         "str_value",
	BoolValue:        "bool_value",
	IntType:          "int_type",
	FloatType:        "float_type",
	StrType:          "str_type",
	BoolType:         "bool_type",
	AnyType:          "any_type",
	Variable:         "variable",
	Constant:         "constant",
	Identifier:       "identifier",
	If:               "if",
	Else:             "else",
	Action:           "action",
	Return:           "return",
	Model:            "model",
	None:             "none",
}

// String returns the lowercase name of the kind used in diagnostics.
func (k Kind) String() string {
	if k >= 0 && k < numKinds {
		return kindNames[k]
	}

	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// IsType reports whether k is a type annotation keyword.
func (k Kind) IsType() bool {
	return k >= IntType && k <= AnyType
}

// Token is a single lexical unit with its source position.
//
// Line is the line on which the literal starts. Column is the 1-based column
// immediately after the literal, so the literal starts at Column minus its
// length in runes (see [Token.Pos]).
type Token struct {
	Kind    Kind
	Literal string
	Line    int
	Column  int
}

// New returns a token for a literal that starts at the given line and column.
func New(kind Kind, literal string, line, start int) Token {
	return Token{
		Kind:    kind,
		Literal: literal,
		Line:    line,
		Column:  start + utf8.RuneCountInString(literal),
	}
}

// Pos returns the position of the first rune of the token's literal.
func (t Token) Pos() Pos {
	return Pos{Line: t.Line, Column: t.Column - utf8.RuneCountInString(t.Literal)}
}

// String returns a compact description of the token for debugging.
func (t Token) String() string {
	return t.Pos().String() + " " + t.Kind.String() + " " + strconv.Quote(t.Literal)
}

// Pos is a 1-based line and column position in source text.
type Pos struct {
	Line   int
	Column int
}

// String returns "line:column".
func (p Pos) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}
