package lang

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/ardnew/wml/lang/parser"
)

// Predefined errors (sentinel values).
var (
	ErrParse      = NewError("parse failed")
	ErrEvaluate   = NewError("evaluation failed")
	ErrReadSource = NewError("failed to read source")
	ErrDefine     = NewError("failed to define constant")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error
	attrs []slog.Attr
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// Error implements the error interface.
func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.err == nil && t.msg == e.msg
}

// LogValue implements slog.LogValuer.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{msg: e.msg, err: err, attrs: e.attrs}
}

// With adds attributes to the error for structured logging.
func (e *Error) With(attrs ...slog.Attr) *Error {
	merged := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(merged, e.attrs)
	copy(merged[len(e.attrs):], attrs)

	return &Error{msg: e.msg, err: e.err, attrs: merged}
}

// ParseError aggregates the errors reported while parsing Source.
type ParseError struct {
	Errors []*parser.Error
	Source string
}

// NewParseError returns a ParseError for errs found in source.
func NewParseError(errs []*parser.Error, source string) *ParseError {
	return &ParseError{Errors: errs, Source: source}
}

// Error renders every parser error followed by the offending source line
// and a caret under the reported column.
func (e *ParseError) Error() string {
	if len(e.Errors) == 0 {
		return "parse error"
	}

	lines := strings.Split(e.Source, "\n")

	var buf strings.Builder

	for i, pe := range e.Errors {
		if i > 0 {
			buf.WriteByte('\n')
		}

		buf.WriteString(pe.Error())
		buf.WriteString(excerpt(lines, pe.Pos.Line, pe.Pos.Column))
	}

	return strings.TrimSuffix(buf.String(), "\n")
}

// Unwrap returns the individual parser errors.
func (e *ParseError) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, pe := range e.Errors {
		errs[i] = pe
	}

	return errs
}

// excerpt returns line of lines (1-based) with a caret under col, or an
// empty string if line is out of range.
func excerpt(lines []string, line, col int) string {
	if line < 1 || line > len(lines) {
		return ""
	}

	var buf strings.Builder

	num := strconv.Itoa(line)

	buf.WriteString("\n  ")
	buf.WriteString(num)
	buf.WriteString(" | ")
	buf.WriteString(lines[line-1])
	buf.WriteByte('\n')

	// 2 leading spaces and " | "
	padding := len(num) + 5
	if col > 0 {
		padding += col - 1
	}

	buf.WriteString(strings.Repeat(" ", padding))
	buf.WriteString("^\n")

	return buf.String()
}
