package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/wml/lang/ast"
	"github.com/ardnew/wml/lang/lexer"
	"github.com/ardnew/wml/lang/parser"
)

// Format writes program as wml source. Blocks are broken over lines and
// indented by indent spaces per level; an indent of zero or less writes the
// whole program on one line. Only the parentheses required by operator
// precedence are kept.
func Format(_ context.Context, w io.Writer, program *ast.Program, indent int) error {
	p := printer{unit: strings.Repeat(" ", max(indent, 0))}

	for i, stmt := range program.Statements {
		if i > 0 {
			p.separate(0)

			if _, ok := program.Statements[i-1].(*ast.ModelStatement); ok && p.unit != "" {
				p.buf.WriteByte('\n')
			}
		}

		p.statement(stmt, 0)
	}

	p.buf.WriteByte('\n')

	_, err := io.WriteString(w, p.buf.String())

	return err
}

// FormatJSON writes the syntax tree of program as JSON.
func FormatJSON(_ context.Context, w io.Writer, program *ast.Program, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(Dump(program), "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(Dump(program))
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatYAML writes the syntax tree of program as YAML.
func FormatYAML(ctx context.Context, w io.Writer, program *ast.Program, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, Dump(program), opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

// FormatTokens writes one line per token of source, including the final
// EOF, in the form "line:column kind literal".
func FormatTokens(_ context.Context, w io.Writer, source string) error {
	for _, tok := range lexer.New(source).Tokens() {
		if _, err := fmt.Fprintln(w, tok.String()); err != nil {
			return err
		}
	}

	return nil
}

type printer struct {
	buf  strings.Builder
	unit string
}

// separate ends a statement. With indentation it starts a new line at
// depth; otherwise it writes a single space.
func (p *printer) separate(depth int) {
	if p.unit == "" {
		p.buf.WriteByte(' ')

		return
	}

	p.buf.WriteByte('\n')
	p.buf.WriteString(strings.Repeat(p.unit, depth))
}

func (p *printer) statement(stmt ast.Statement, depth int) {
	switch s := stmt.(type) {
	case *ast.SetStatement:
		p.buf.WriteString(s.Token.Literal)
		p.buf.WriteByte(' ')
		p.buf.WriteString(s.Name.Value)
		p.buf.WriteString(" = ")
		p.expression(s.Value, depth)

	case *ast.ReturnStatement:
		p.buf.WriteString(s.Token.Literal)

		if s.Value != nil {
			p.buf.WriteByte(' ')
			p.expression(s.Value, depth)
		}

	case *ast.ModelStatement:
		p.buf.WriteString(s.Token.Literal)
		p.buf.WriteByte(' ')
		p.buf.WriteString(s.Name.Value)

		if s.Parent != nil {
			p.buf.WriteString("(" + s.Parent.Value + ")")
		}

		p.buf.WriteByte(' ')
		p.block(s.Body, depth)

	case *ast.ExpressionStatement:
		p.expression(s.Expression, depth)

	case *ast.Block:
		p.block(s, depth)
	}

	p.buf.WriteByte(';')
}

func (p *printer) block(b *ast.Block, depth int) {
	if b == nil || len(b.Statements) == 0 {
		p.buf.WriteString("{ }")

		return
	}

	p.buf.WriteByte('{')

	for _, stmt := range b.Statements {
		p.separate(depth + 1)
		p.statement(stmt, depth+1)
	}

	p.separate(depth)
	p.buf.WriteByte('}')
}

func (p *printer) expression(e ast.Expression, depth int) {
	switch e := e.(type) {
	case nil:

	case *ast.Infix:
		prec := precedence(e)

		p.operand(e.Left, depth, precedence(e.Left) < prec)
		p.buf.WriteString(" " + e.Operator + " ")
		p.operand(e.Right, depth, precedence(e.Right) <= prec)

	case *ast.Prefix:
		p.buf.WriteString(e.Operator)
		p.operand(e.Right, depth, precedence(e.Right) < parser.Prefix)

	case *ast.Call:
		p.operand(e.Callee, depth, precedence(e.Callee) < parser.Call)
		p.buf.WriteByte('(')

		for i, arg := range e.Arguments {
			if i > 0 {
				p.buf.WriteString(", ")
			}

			p.expression(arg, depth)
		}

		p.buf.WriteByte(')')

	case *ast.If:
		p.buf.WriteString(e.Token.Literal + " (")
		p.expression(e.Condition, depth)
		p.buf.WriteString(") ")
		p.block(e.Consequence, depth)

		if e.Alternative != nil {
			p.buf.WriteString(" else ")
			p.block(e.Alternative, depth)
		}

	case *ast.Action:
		p.buf.WriteString(e.Token.Literal + "(" + e.ParameterList() + ") ")
		p.block(e.Body, depth)

	default:
		p.buf.WriteString(e.String())
	}
}

func (p *printer) operand(e ast.Expression, depth int, paren bool) {
	if paren {
		p.buf.WriteByte('(')
	}

	p.expression(e, depth)

	if paren {
		p.buf.WriteByte(')')
	}
}

// precedence returns how tightly e binds as an operand.
func precedence(e ast.Expression) parser.Precedence {
	switch e := e.(type) {
	case *ast.Infix:
		return parser.PrecedenceOf(e.Token.Kind)
	case *ast.Prefix:
		return parser.Prefix
	default:
		return parser.Call
	}
}
