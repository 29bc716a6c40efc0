package object

import (
	"strconv"

	"github.com/ardnew/wml/lang/token"
)

// ErrorKind classifies evaluation failures.
type ErrorKind int

// Evaluation error kinds.
const (
	NameError ErrorKind = iota
	TypeMismatch
	UnknownInfixOperator
	UnknownPrefixOperator
	InvalidTypeAssignment
	ConstantReassignment
	ModelReassignment
	InvalidNumberOfArguments
	UnsupportedArgumentType
	NotAnAction
	RecursionError
	OverflowError
)

//nolint:gochecknoglobals
var errorKindNames = [...]string{
	NameError:                "NameError",
	TypeMismatch:             "TypeMismatch",
	UnknownInfixOperator:     "UnknownInfixOperator",
	UnknownPrefixOperator:    "UnknownPrefixOperator",
	InvalidTypeAssignment:    "InvalidTypeAssignment",
	ConstantReassignment:     "ConstantReassignmentError",
	ModelReassignment:        "ModelReassignmentError",
	InvalidNumberOfArguments: "InvalidNumberOfArguments",
	UnsupportedArgumentType:  "UnsupportedArgumentType",
	NotAnAction:              "NotAnActionError",
	RecursionError:           "RecursionError",
	OverflowError:            "OverflowError",
}

func (k ErrorKind) String() string {
	if k >= 0 && int(k) < len(errorKindNames) {
		return errorKindNames[k]
	}

	return "Error"
}

// Error is an evaluation failure positioned in the source. A zero Pos means
// the position is unknown, which is the case for errors raised by built-in
// functions until the evaluator attaches the call site.
type Error struct {
	Kind    ErrorKind
	Message string
	Pos     token.Pos
}

// NewError returns an error of kind k at pos.
func NewError(k ErrorKind, pos token.Pos, msg string) *Error {
	return &Error{Kind: k, Message: msg, Pos: pos}
}

// Error renders "Kind: message on line L, column C", or "Kind: message"
// when the position is unknown.
func (e *Error) Error() string {
	s := e.Kind.String() + ": " + e.Message
	if e.Pos.Line > 0 {
		s += " on line " + strconv.Itoa(e.Pos.Line) + ", column " + strconv.Itoa(e.Pos.Column)
	}

	return s
}

// Inspect returns the same text as Error.
func (e *Error) Inspect() string { return e.Error() }

// At returns a copy of e positioned at pos when e has no position.
func (e *Error) At(pos token.Pos) *Error {
	if e.Pos.Line > 0 {
		return e
	}

	c := *e
	c.Pos = pos

	return &c
}

// Is reports whether target is an *Error of the same kind, so callers can
// match kinds with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.Kind == e.Kind && t.Message == "" && t.Pos == (token.Pos{})
}

// Kind sentinels for errors.Is.
var (
	ErrName                    = &Error{Kind: NameError}
	ErrTypeMismatch            = &Error{Kind: TypeMismatch}
	ErrUnknownInfixOperator    = &Error{Kind: UnknownInfixOperator}
	ErrUnknownPrefixOperator   = &Error{Kind: UnknownPrefixOperator}
	ErrInvalidTypeAssignment   = &Error{Kind: InvalidTypeAssignment}
	ErrConstantReassignment    = &Error{Kind: ConstantReassignment}
	ErrModelReassignment       = &Error{Kind: ModelReassignment}
	ErrInvalidNumberOfArgs     = &Error{Kind: InvalidNumberOfArguments}
	ErrUnsupportedArgumentType = &Error{Kind: UnsupportedArgumentType}
	ErrNotAnAction             = &Error{Kind: NotAnAction}
	ErrRecursion               = &Error{Kind: RecursionError}
	ErrOverflow                = &Error{Kind: OverflowError}
)
