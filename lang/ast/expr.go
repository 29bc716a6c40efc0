package ast

import (
	"strings"

	"github.com/ardnew/wml/lang/token"
)

// Name holds the fields shared by the three naming classes.
//
// Typing is the type annotation attached to the name, if any. It is the
// type keyword of a [SetStatement] or the annotation of an [Action]
// parameter, and the Any keyword when no annotation was written.
type Name struct {
	Token  token.Token
	Typing token.Token
	Value  string
}

func (n *Name) expressionNode()      {}
func (n *Name) TokenLiteral() string { return n.Token.Literal }
func (n *Name) Pos() token.Pos       { return n.Token.Pos() }
func (n *Name) String() string       { return n.Value }

// Annotated reports whether the name carries a type other than Any.
func (n *Name) Annotated() bool {
	return n.Typing.Kind.IsType() && n.Typing.Kind != token.AnyType
}

// Identifier is a PascalCase name, used for models.
type Identifier struct{ Name }

// Variable is a snake_case name.
type Variable struct{ Name }

// Constant is a SCREAMING_CASE name.
type Constant struct{ Name }

// Boolean is a True or False literal.
type Boolean struct {
	Token token.Token
	Value bool
}

func (e *Boolean) expressionNode()      {}
func (e *Boolean) TokenLiteral() string { return e.Token.Literal }
func (e *Boolean) Pos() token.Pos       { return e.Token.Pos() }
func (e *Boolean) String() string       { return e.Token.Literal }

// Integer is an integer literal.
type Integer struct {
	Token token.Token
	Value int64
}

func (e *Integer) expressionNode()      {}
func (e *Integer) TokenLiteral() string { return e.Token.Literal }
func (e *Integer) Pos() token.Pos       { return e.Token.Pos() }
func (e *Integer) String() string       { return e.Token.Literal }

// Float is a floating-point literal.
type Float struct {
	Token token.Token
	Value float64
}

func (e *Float) expressionNode()      {}
func (e *Float) TokenLiteral() string { return e.Token.Literal }
func (e *Float) Pos() token.Pos       { return e.Token.Pos() }
func (e *Float) String() string       { return e.Token.Literal }

// StringLiteral is a quoted string. Value keeps the surrounding quotes.
type StringLiteral struct {
	Token token.Token
	Value string
}

func (e *StringLiteral) expressionNode()      {}
func (e *StringLiteral) TokenLiteral() string { return e.Token.Literal }
func (e *StringLiteral) Pos() token.Pos       { return e.Token.Pos() }
func (e *StringLiteral) String() string       { return e.Value }

// Prefix applies a unary operator.
type Prefix struct {
	Token    token.Token // operator
	Operator string
	Right    Expression
}

func (e *Prefix) expressionNode()      {}
func (e *Prefix) TokenLiteral() string { return e.Token.Literal }
func (e *Prefix) Pos() token.Pos       { return e.Token.Pos() }

func (e *Prefix) String() string {
	return "(" + e.Operator + e.Right.String() + ")"
}

// Infix applies a binary operator.
type Infix struct {
	Token    token.Token // operator
	Left     Expression
	Operator string
	Right    Expression
}

func (e *Infix) expressionNode()      {}
func (e *Infix) TokenLiteral() string { return e.Token.Literal }
func (e *Infix) Pos() token.Pos       { return e.Token.Pos() }

func (e *Infix) String() string {
	return "(" + e.Left.String() + " " + e.Operator + " " + e.Right.String() + ")"
}

// If is a conditional expression.
type If struct {
	Token       token.Token // if
	Condition   Expression
	Consequence *Block
	Alternative *Block
}

func (e *If) expressionNode()      {}
func (e *If) TokenLiteral() string { return e.Token.Literal }
func (e *If) Pos() token.Pos       { return e.Token.Pos() }

func (e *If) String() string {
	s := "if (" + e.Condition.String() + ") " + e.Consequence.braced()
	if e.Alternative != nil {
		s += " else " + e.Alternative.braced()
	}

	return s
}

// Action is a closure literal.
type Action struct {
	Token      token.Token // action
	Parameters []*Variable
	Body       *Block
}

func (e *Action) expressionNode()      {}
func (e *Action) TokenLiteral() string { return e.Token.Literal }
func (e *Action) Pos() token.Pos       { return e.Token.Pos() }

func (e *Action) String() string {
	return e.Token.Literal + "(" + e.ParameterList() + ") " + e.Body.braced()
}

// ParameterList renders the comma-separated parameters with their
// annotations.
func (e *Action) ParameterList() string {
	params := make([]string, len(e.Parameters))
	for i, p := range e.Parameters {
		if p.Annotated() {
			params[i] = p.Typing.Literal + " " + p.Value
		} else {
			params[i] = p.Value
		}
	}

	return strings.Join(params, ", ")
}

// Call applies a callee to arguments.
type Call struct {
	Token     token.Token // (
	Callee    Expression
	Arguments []Expression
}

func (e *Call) expressionNode()      {}
func (e *Call) TokenLiteral() string { return e.Token.Literal }
func (e *Call) Pos() token.Pos       { return e.Callee.Pos() }

func (e *Call) String() string {
	args := make([]string, len(e.Arguments))
	for i, a := range e.Arguments {
		args[i] = a.String()
	}

	return e.Callee.String() + "(" + strings.Join(args, ", ") + ")"
}
