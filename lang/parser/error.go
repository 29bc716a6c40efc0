package parser

import (
	"strconv"

	"github.com/ardnew/wml/lang/token"
)

// ErrorKind distinguishes syntax errors from literal and expression errors.
type ErrorKind int

// Parse error kinds.
const (
	// SyntaxError reports a token where another kind was required.
	SyntaxError ErrorKind = iota
	// ParseError reports a token that cannot begin an expression or a
	// literal that cannot be converted.
	ParseError
)

func (k ErrorKind) String() string {
	if k == SyntaxError {
		return "SyntaxError"
	}

	return "ParseError"
}

// Error is a single diagnostic recorded while parsing.
type Error struct {
	Kind    ErrorKind
	Message string
	Pos     token.Pos
}

// Error returns the diagnostic in the form
// "Kind: message at line L, column C".
func (e *Error) Error() string {
	return e.Kind.String() + ": " + e.Message +
		" at line " + strconv.Itoa(e.Pos.Line) +
		", column " + strconv.Itoa(e.Pos.Column)
}
