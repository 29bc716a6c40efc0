// Package ast defines the syntax tree of the wml language.
//
// Every node renders back to source text with String. Rendering a parsed
// program and parsing the result again yields an equivalent tree.
package ast

import (
	"strings"

	"github.com/ardnew/wml/lang/token"
)

// Node is implemented by every syntax tree node.
type Node interface {
	TokenLiteral() string
	Pos() token.Pos
	String() string
}

// Statement is a node that appears in a [Program] or [Block].
type Statement interface {
	Node
	statementNode()
}

// Expression is a node that produces a value.
type Expression interface {
	Node
	expressionNode()
}

// Program is the root node of a parsed source text.
type Program struct {
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}

	return ""
}

func (p *Program) Pos() token.Pos {
	if len(p.Statements) > 0 {
		return p.Statements[0].Pos()
	}

	return token.Pos{Line: 1, Column: 1}
}

func (p *Program) String() string { return joinStatements(p.Statements) }

// Block is a brace-delimited sequence of statements.
type Block struct {
	Token      token.Token // {
	Statements []Statement
}

func (b *Block) statementNode()       {}
func (b *Block) TokenLiteral() string { return b.Token.Literal }
func (b *Block) Pos() token.Pos       { return b.Token.Pos() }
func (b *Block) String() string       { return joinStatements(b.Statements) }

// braced renders the block between braces.
func (b *Block) braced() string {
	if b == nil || len(b.Statements) == 0 {
		return "{ }"
	}

	return "{ " + b.String() + " }"
}

// ExpressionStatement wraps an expression used as a statement.
type ExpressionStatement struct {
	Token      token.Token // first token of the expression
	Expression Expression
}

func (s *ExpressionStatement) statementNode()       {}
func (s *ExpressionStatement) TokenLiteral() string { return s.Token.Literal }
func (s *ExpressionStatement) Pos() token.Pos       { return s.Token.Pos() }

func (s *ExpressionStatement) String() string {
	if s.Expression == nil {
		return ""
	}

	return s.Expression.String() + ";"
}

// SetStatement binds a value to a name under a declared type.
type SetStatement struct {
	Token token.Token // type keyword
	Name  *Variable
	Value Expression
}

func (s *SetStatement) statementNode()       {}
func (s *SetStatement) TokenLiteral() string { return s.Token.Literal }
func (s *SetStatement) Pos() token.Pos       { return s.Token.Pos() }

func (s *SetStatement) String() string {
	var b strings.Builder

	b.WriteString(s.Token.Literal)
	b.WriteByte(' ')
	b.WriteString(s.Name.Value)
	b.WriteString(" = ")

	if s.Value != nil {
		b.WriteString(s.Value.String())
	}

	b.WriteByte(';')

	return b.String()
}

// ReturnStatement leaves the enclosing action with a value.
type ReturnStatement struct {
	Token token.Token // return
	Value Expression  // nil for a bare return
}

func (s *ReturnStatement) statementNode()       {}
func (s *ReturnStatement) TokenLiteral() string { return s.Token.Literal }
func (s *ReturnStatement) Pos() token.Pos       { return s.Token.Pos() }

func (s *ReturnStatement) String() string {
	if s.Value == nil {
		return s.Token.Literal + ";"
	}

	return s.Token.Literal + " " + s.Value.String() + ";"
}

// ModelStatement declares a model with an optional parent model.
type ModelStatement struct {
	Token  token.Token // model
	Name   *Identifier
	Parent *Identifier
	Body   *Block
}

func (s *ModelStatement) statementNode()       {}
func (s *ModelStatement) TokenLiteral() string { return s.Token.Literal }
func (s *ModelStatement) Pos() token.Pos       { return s.Token.Pos() }

func (s *ModelStatement) String() string {
	var b strings.Builder

	b.WriteString(s.Token.Literal)
	b.WriteByte(' ')
	b.WriteString(s.Name.Value)

	if s.Parent != nil {
		b.WriteByte('(')
		b.WriteString(s.Parent.Value)
		b.WriteByte(')')
	}

	b.WriteByte(' ')
	b.WriteString(s.Body.braced())
	b.WriteByte(';')

	return b.String()
}

func joinStatements(stmts []Statement) string {
	var b strings.Builder

	for _, s := range stmts {
		b.WriteString(s.String())
	}

	return b.String()
}
