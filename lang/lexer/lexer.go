// Package lexer converts wml source text into a stream of positioned tokens.
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ardnew/wml/lang/token"
)

// singles maps one-character lexemes to their kinds.
//
//nolint:gochecknoglobals
var singles = map[rune]token.Kind{
	'=':  token.Assign,
	':':  token.Colon,
	',':  token.Comma,
	'/':  token.Division,
	'.':  token.Dot,
	'>':  token.GreaterThan,
	'{':  token.LBrace,
	'<':  token.LessThan,
	'(':  token.LParen,
	'-':  token.Minus,
	'%':  token.Modulus,
	'*':  token.Multiplication,
	'!':  token.Not,
	'+':  token.Plus,
	'}':  token.RBrace,
	')':  token.RParen,
	';':  token.Semicolon,
	'\'': token.StrValue,
	'"':  token.StrValue,
}

// doubles maps two-character operators to their kinds.
//
//nolint:gochecknoglobals
var doubles = map[string]token.Kind{
	"==": token.Equal,
	"<=": token.LessThanEqual,
	">=": token.GreaterThanEqual,
	"!=": token.NotEqual,
}

// Lexer produces tokens on demand from a source string.
type Lexer struct {
	input string
	pos   int
	line  int
	col   int
}

// New returns a lexer positioned at the start of src.
func New(src string) *Lexer {
	return &Lexer{input: src, line: 1, col: 1}
}

// NextToken scans and returns the next token. Once the input is exhausted
// every call returns an EOF token.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()

	line, col := l.line, l.col

	if l.eof() {
		return token.Token{Kind: token.EOF, Line: line, Column: col}
	}

	r := l.peek()

	if kind, ok := singles[r]; ok {
		if kind == token.StrValue {
			return l.readString(r, line, col)
		}

		l.advance()

		if pair, ok := doubles[string(r)+string(l.peek())]; ok {
			l.advance()

			return token.New(pair, l.input[l.pos-2:l.pos], line, col)
		}

		return token.New(kind, string(r), line, col)
	}

	if token.IsDigit(r) {
		return l.readNumber(line, col)
	}

	if token.IsWordRune(r) {
		word := l.readWhile(token.IsWordRune)

		return token.New(token.Classify(word), word, line, col)
	}

	l.advance()

	return token.New(token.Illegal, string(r), line, col)
}

// Tokens scans the remaining input and returns every token up to and
// including the first EOF.
func (l *Lexer) Tokens() []token.Token {
	var toks []token.Token

	for {
		tok := l.NextToken()
		toks = append(toks, tok)

		if tok.Kind == token.EOF {
			return toks
		}
	}
}

// readString scans a literal wrapped in quote. A backslash escapes the
// wrapper quote only. A literal missing its closing quote is Illegal.
func (l *Lexer) readString(quote rune, line, col int) token.Token {
	start := l.pos
	l.advance()

	for !l.eof() {
		r := l.peek()
		l.advance()

		switch r {
		case '\\':
			if l.peek() == quote {
				l.advance()
			}
		case quote:
			return token.New(token.StrValue, l.input[start:l.pos], line, col)
		}
	}

	return token.New(token.Illegal, l.input[start:l.pos], line, col)
}

func (l *Lexer) readNumber(line, col int) token.Token {
	lit := l.readWhile(func(r rune) bool { return token.IsDigit(r) || r == '.' })

	switch strings.Count(lit, ".") {
	case 0:
		return token.New(token.IntValue, lit, line, col)
	case 1:
		return token.New(token.FloatValue, lit, line, col)
	default:
		return token.New(token.Illegal, lit, line, col)
	}
}

func (l *Lexer) readWhile(accept func(rune) bool) string {
	start := l.pos
	for !l.eof() && accept(l.peek()) {
		l.advance()
	}

	return l.input[start:l.pos]
}

func (l *Lexer) skipWhitespace() {
	for !l.eof() && unicode.IsSpace(l.peek()) {
		l.advance()
	}
}

func (l *Lexer) peek() rune {
	if l.eof() {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])

	return r
}

func (l *Lexer) advance() {
	if l.eof() {
		return
	}

	r, size := utf8.DecodeRuneInString(l.input[l.pos:])

	l.pos += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

func (l *Lexer) eof() bool { return l.pos >= len(l.input) }
