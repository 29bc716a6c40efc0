// Package parser builds a wml syntax tree from a token stream.
//
// Expressions are parsed with top-down operator precedence: every token kind
// may register a prefix rule and an infix rule, and a precedence table
// decides how far an infix chain extends. Errors are collected rather than
// returned, and parsing resumes at the next statement boundary.
package parser

import (
	"strconv"

	"github.com/ardnew/wml/lang/ast"
	"github.com/ardnew/wml/lang/lexer"
	"github.com/ardnew/wml/lang/token"
)

// Precedence orders binding strength of operators.
type Precedence int

// Operator precedences, from loosest to tightest binding.
const (
	_ Precedence = iota
	Lowest
	Equals      // == !=
	LessGreater // < <= > >=
	Sum         // + -
	Product     // * /
	Prefix      // -x !x
	Call        // f(x)
)

//nolint:gochecknoglobals
var precedences = map[token.Kind]Precedence{
	token.Equal:            Equals,
	token.NotEqual:         Equals,
	token.LessThan:         LessGreater,
	token.LessThanEqual:    LessGreater,
	token.GreaterThan:      LessGreater,
	token.GreaterThanEqual: LessGreater,
	token.Plus:             Sum,
	token.Minus:            Sum,
	token.Multiplication:   Product,
	token.Division:         Product,
	token.LParen:           Call,
}

// PrecedenceOf returns the binding strength of the infix operator k, or
// Lowest if k is not an infix operator.
func PrecedenceOf(k token.Kind) Precedence {
	if p, ok := precedences[k]; ok {
		return p
	}

	return Lowest
}

type (
	prefixFn func() ast.Expression
	infixFn  func(ast.Expression) ast.Expression
)

// Parser holds two tokens of lookahead over a [lexer.Lexer].
type Parser struct {
	lex    *lexer.Lexer
	errors []*Error

	cur  token.Token
	peek token.Token

	prefix map[token.Kind]prefixFn
	infix  map[token.Kind]infixFn
}

// New returns a parser reading from lex.
func New(lex *lexer.Lexer) *Parser {
	p := &Parser{lex: lex}

	p.prefix = map[token.Kind]prefixFn{
		token.Action:     p.parseAction,
		token.BoolValue:  p.parseBoolean,
		token.Constant:   p.parseConstant,
		token.FloatValue: p.parseFloat,
		token.Identifier: p.parseIdentifier,
		token.If:         p.parseIf,
		token.IntValue:   p.parseInteger,
		token.LParen:     p.parseGroup,
		token.Minus:      p.parsePrefix,
		token.Not:        p.parsePrefix,
		token.StrValue:   p.parseString,
		token.Variable:   p.parseVariable,
	}

	p.infix = map[token.Kind]infixFn{
		token.Division:         p.parseInfix,
		token.Equal:            p.parseInfix,
		token.GreaterThan:      p.parseInfix,
		token.GreaterThanEqual: p.parseInfix,
		token.LessThan:         p.parseInfix,
		token.LessThanEqual:    p.parseInfix,
		token.Minus:            p.parseInfix,
		token.Multiplication:   p.parseInfix,
		token.NotEqual:         p.parseInfix,
		token.Plus:             p.parseInfix,
		token.LParen:           p.parseCall,
	}

	p.next()
	p.next()

	return p
}

// Parse is shorthand for New(lexer.New(src)).ParseProgram.
func Parse(src string) (*ast.Program, []*Error) {
	p := New(lexer.New(src))
	prog := p.ParseProgram()

	return prog, p.Errors()
}

// Errors returns the diagnostics recorded so far, in source order.
func (p *Parser) Errors() []*Error { return p.errors }

// ParseProgram consumes the whole token stream. A statement containing an
// error is dropped and parsing resumes at the next statement boundary. The
// program must not be evaluated when Errors is non-empty.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}

	for p.cur.Kind != token.EOF {
		n := len(p.errors)
		stmt := p.parseStatement()

		switch {
		case len(p.errors) > n:
			p.synchronize()
		case stmt != nil:
			prog.Statements = append(prog.Statements, stmt)
		}

		p.next()
	}

	return prog
}

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.lex.NextToken()
}

// synchronize skips to the end of the broken statement: its semicolon, or
// the token before a closing brace or a statement keyword. Braces opened
// inside the broken statement are skipped with it. A closing brace that was
// itself the offending token is left current for the enclosing block.
func (p *Parser) synchronize() {
	if p.curIs(token.RBrace) && p.failedAt(p.cur) {
		return
	}

	depth := 0

	for !p.curIs(token.EOF) {
		if depth == 0 && (p.curIs(token.Semicolon) || p.peekIs(token.RBrace) ||
			startsStatement(p.peek.Kind)) {
			return
		}

		p.next()

		switch {
		case p.curIs(token.LBrace):
			depth++
		case p.curIs(token.RBrace) && depth > 0:
			depth--
		}
	}
}

// failedAt reports whether the most recent error was recorded at tok.
func (p *Parser) failedAt(tok token.Token) bool {
	return len(p.errors) > 0 && p.errors[len(p.errors)-1].Pos == tok.Pos()
}

func startsStatement(k token.Kind) bool {
	return k.IsType() || k == token.Return || k == token.Model
}

func (p *Parser) curIs(k token.Kind) bool  { return p.cur.Kind == k }
func (p *Parser) peekIs(k token.Kind) bool { return p.peek.Kind == k }

// expect advances when the peek token has kind k and records a syntax error
// otherwise.
func (p *Parser) expect(k token.Kind) bool {
	if p.peekIs(k) {
		p.next()

		return true
	}

	p.errorf(SyntaxError, p.peek,
		"Expected next token to be "+k.String()+", got "+p.peek.Kind.String()+" instead")

	return false
}

func (p *Parser) errorf(kind ErrorKind, at token.Token, msg string) {
	p.errors = append(p.errors, &Error{Kind: kind, Message: msg, Pos: at.Pos()})
}

func (p *Parser) peekPrecedence() Precedence { return PrecedenceOf(p.peek.Kind) }
func (p *Parser) curPrecedence() Precedence  { return PrecedenceOf(p.cur.Kind) }

func (p *Parser) skipSemicolon() {
	if p.peekIs(token.Semicolon) {
		p.next()
	}
}

func (p *Parser) parseStatement() ast.Statement {
	switch {
	case p.cur.Kind.IsType():
		return p.parseSet()
	case p.curIs(token.Return):
		return p.parseReturn()
	case p.curIs(token.Model):
		return p.parseModel()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseSet() ast.Statement {
	stmt := &ast.SetStatement{Token: p.cur}

	if !p.expect(token.Variable) {
		return nil
	}

	stmt.Name = &ast.Variable{Name: ast.Name{
		Token:  p.cur,
		Typing: stmt.Token,
		Value:  p.cur.Literal,
	}}

	if !p.expect(token.Assign) {
		return nil
	}

	assign := p.cur

	p.next()

	if stmt.Value = p.require(assign, Lowest); stmt.Value == nil {
		return nil
	}

	p.skipSemicolon()

	return stmt
}

func (p *Parser) parseReturn() ast.Statement {
	stmt := &ast.ReturnStatement{Token: p.cur}

	if p.peekIs(token.Semicolon) || p.peekIs(token.RBrace) || p.peekIs(token.EOF) {
		p.skipSemicolon()

		return stmt
	}

	p.next()

	n := len(p.errors)
	if stmt.Value = p.parseExpression(Lowest); len(p.errors) > n {
		return nil
	}

	p.skipSemicolon()

	return stmt
}

func (p *Parser) parseModel() ast.Statement {
	stmt := &ast.ModelStatement{Token: p.cur}

	if !p.expect(token.Identifier) {
		return nil
	}

	stmt.Name = p.identifier()

	if p.peekIs(token.LParen) {
		p.next()

		if !p.expect(token.Identifier) {
			return nil
		}

		stmt.Parent = p.identifier()

		if !p.expect(token.RParen) {
			return nil
		}
	}

	if !p.expect(token.LBrace) {
		return nil
	}

	stmt.Body = p.parseBlock()

	p.skipSemicolon()

	return stmt
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	stmt := &ast.ExpressionStatement{Token: p.cur}
	if stmt.Expression = p.parseExpression(Lowest); stmt.Expression == nil {
		return nil
	}

	p.skipSemicolon()

	return stmt
}

// parseBlock parses statements up to the closing brace. The current token
// must be the opening brace.
func (p *Parser) parseBlock() *ast.Block {
	block := &ast.Block{Token: p.cur}

	p.next()

	for !p.curIs(token.RBrace) {
		if p.curIs(token.EOF) {
			p.errorf(SyntaxError, p.cur,
				"Expected next token to be "+token.RBrace.String()+", got "+token.EOF.String()+" instead")

			return block
		}

		n := len(p.errors)
		stmt := p.parseStatement()

		switch {
		case len(p.errors) > n:
			p.synchronize()

			if p.curIs(token.RBrace) || p.curIs(token.EOF) {
				continue
			}
		case stmt != nil:
			block.Statements = append(block.Statements, stmt)
		}

		p.next()
	}

	return block
}

// parseExpression returns nil without an error at the end of a statement,
// so an empty statement is not a diagnostic.
func (p *Parser) parseExpression(prec Precedence) ast.Expression {
	if p.curIs(token.Semicolon) || p.curIs(token.EOF) {
		return nil
	}

	prefix := p.prefix[p.cur.Kind]
	if prefix == nil {
		if p.curIs(token.Illegal) {
			p.errorf(ParseError, p.cur, "Illegal token `"+p.cur.Literal+"`")
		} else {
			p.errorf(ParseError, p.cur,
				"No prefix parse function found to parse `"+p.cur.Literal+"`")
		}

		return nil
	}

	left := prefix()

	for left != nil && !p.peekIs(token.Semicolon) && prec < p.peekPrecedence() {
		infix := p.infix[p.peek.Kind]
		if infix == nil {
			return left
		}

		p.next()

		left = infix(left)
	}

	return left
}

// require parses an expression that must be present after the token at.
func (p *Parser) require(at token.Token, prec Precedence) ast.Expression {
	n := len(p.errors)

	expr := p.parseExpression(prec)
	if expr == nil && len(p.errors) == n {
		p.errorf(ParseError, at, "Expected an expression after `"+at.Literal+"`")
	}

	return expr
}

func (p *Parser) identifier() *ast.Identifier {
	return &ast.Identifier{Name: ast.Name{Token: p.cur, Value: p.cur.Literal}}
}

func (p *Parser) parseIdentifier() ast.Expression { return p.identifier() }

func (p *Parser) parseVariable() ast.Expression {
	return &ast.Variable{Name: ast.Name{Token: p.cur, Value: p.cur.Literal}}
}

func (p *Parser) parseConstant() ast.Expression {
	return &ast.Constant{Name: ast.Name{Token: p.cur, Value: p.cur.Literal}}
}

func (p *Parser) parseBoolean() ast.Expression {
	return &ast.Boolean{Token: p.cur, Value: p.cur.Literal == "True"}
}

func (p *Parser) parseInteger() ast.Expression {
	v, err := strconv.ParseInt(p.cur.Literal, 10, 64)
	if err != nil {
		p.errorf(ParseError, p.cur, "Impossible to parse "+p.cur.Literal+" as integer")

		return nil
	}

	return &ast.Integer{Token: p.cur, Value: v}
}

func (p *Parser) parseFloat() ast.Expression {
	v, err := strconv.ParseFloat(p.cur.Literal, 64)
	if err != nil {
		p.errorf(ParseError, p.cur, "Impossible to parse "+p.cur.Literal+" as float")

		return nil
	}

	return &ast.Float{Token: p.cur, Value: v}
}

func (p *Parser) parseString() ast.Expression {
	return &ast.StringLiteral{Token: p.cur, Value: p.cur.Literal}
}

func (p *Parser) parseGroup() ast.Expression {
	open := p.cur

	p.next()

	expr := p.require(open, Lowest)
	if expr == nil || !p.expect(token.RParen) {
		return nil
	}

	return expr
}

func (p *Parser) parsePrefix() ast.Expression {
	expr := &ast.Prefix{Token: p.cur, Operator: p.cur.Literal}

	p.next()

	if expr.Right = p.require(expr.Token, Prefix); expr.Right == nil {
		return nil
	}

	return expr
}

func (p *Parser) parseInfix(left ast.Expression) ast.Expression {
	expr := &ast.Infix{Token: p.cur, Left: left, Operator: p.cur.Literal}
	prec := p.curPrecedence()

	p.next()

	if expr.Right = p.require(expr.Token, prec); expr.Right == nil {
		return nil
	}

	return expr
}

func (p *Parser) parseIf() ast.Expression {
	expr := &ast.If{Token: p.cur}

	if !p.expect(token.LParen) {
		return nil
	}

	open := p.cur

	p.next()

	if expr.Condition = p.require(open, Lowest); expr.Condition == nil {
		return nil
	}

	if !p.expect(token.RParen) || !p.expect(token.LBrace) {
		return nil
	}

	expr.Consequence = p.parseBlock()

	if p.peekIs(token.Else) {
		p.next()

		if !p.expect(token.LBrace) {
			return nil
		}

		expr.Alternative = p.parseBlock()
	}

	return expr
}

func (p *Parser) parseAction() ast.Expression {
	expr := &ast.Action{Token: p.cur}

	if !p.expect(token.LParen) {
		return nil
	}

	params, ok := p.parseParameters()
	if !ok || !p.expect(token.LBrace) {
		return nil
	}

	expr.Parameters = params
	expr.Body = p.parseBlock()

	return expr
}

// parseParameters parses "[type] name, ..." up to the closing parenthesis.
// An unannotated parameter is typed Any.
func (p *Parser) parseParameters() ([]*ast.Variable, bool) {
	var params []*ast.Variable

	if p.peekIs(token.RParen) {
		p.next()

		return params, true
	}

	for {
		typing := token.Token{Kind: token.AnyType, Literal: "Any"}

		if p.peek.Kind.IsType() {
			p.next()

			typing = p.cur
		}

		if !p.expect(token.Variable) {
			return nil, false
		}

		params = append(params, &ast.Variable{Name: ast.Name{
			Token:  p.cur,
			Typing: typing,
			Value:  p.cur.Literal,
		}})

		if !p.peekIs(token.Comma) {
			break
		}

		p.next()
	}

	return params, p.expect(token.RParen)
}

func (p *Parser) parseCall(callee ast.Expression) ast.Expression {
	expr := &ast.Call{Token: p.cur, Callee: callee}

	args, ok := p.parseArguments()
	if !ok {
		return nil
	}

	expr.Arguments = args

	return expr
}

func (p *Parser) parseArguments() ([]ast.Expression, bool) {
	var args []ast.Expression

	if p.peekIs(token.RParen) {
		p.next()

		return args, true
	}

	for {
		sep := p.cur

		p.next()

		arg := p.require(sep, Lowest)
		if arg == nil {
			return nil, false
		}

		args = append(args, arg)

		if !p.peekIs(token.Comma) {
			break
		}

		p.next()
	}

	return args, p.expect(token.RParen)
}
