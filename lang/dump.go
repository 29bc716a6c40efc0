package lang

import (
	"github.com/ardnew/wml/lang/ast"
)

// Dump converts a syntax tree to nested maps and slices suitable for JSON
// or YAML encoding. Every node map has a "node" key naming the node type
// and a "pos" key holding its "line:column" position.
func Dump(node ast.Node) any {
	if node == nil {
		return nil
	}

	m := map[string]any{"pos": node.Pos().String()}

	switch n := node.(type) {
	case *ast.Program:
		m["node"] = "Program"
		m["statements"] = dumpStatements(n.Statements)

	case *ast.Block:
		return dumpBlock(n)

	case *ast.ExpressionStatement:
		m["node"] = "ExpressionStatement"
		m["expression"] = Dump(n.Expression)

	case *ast.SetStatement:
		m["node"] = "SetStatement"
		m["type"] = n.Token.Literal
		m["name"] = n.Name.Value
		m["value"] = Dump(n.Value)

	case *ast.ReturnStatement:
		m["node"] = "ReturnStatement"
		m["value"] = Dump(n.Value)

	case *ast.ModelStatement:
		m["node"] = "ModelStatement"
		m["name"] = n.Name.Value

		if n.Parent != nil {
			m["parent"] = n.Parent.Value
		}

		m["body"] = dumpBlock(n.Body)

	case *ast.Identifier:
		dumpName(m, "Identifier", &n.Name)

	case *ast.Variable:
		dumpName(m, "Variable", &n.Name)

	case *ast.Constant:
		dumpName(m, "Constant", &n.Name)

	case *ast.Integer:
		m["node"] = "Integer"
		m["value"] = n.Value

	case *ast.Float:
		m["node"] = "Float"
		m["value"] = n.Value

	case *ast.Boolean:
		m["node"] = "Boolean"
		m["value"] = n.Value

	case *ast.StringLiteral:
		m["node"] = "String"
		m["value"] = n.Value

	case *ast.Prefix:
		m["node"] = "Prefix"
		m["operator"] = n.Operator
		m["right"] = Dump(n.Right)

	case *ast.Infix:
		m["node"] = "Infix"
		m["operator"] = n.Operator
		m["left"] = Dump(n.Left)
		m["right"] = Dump(n.Right)

	case *ast.If:
		m["node"] = "If"
		m["condition"] = Dump(n.Condition)
		m["consequence"] = dumpBlock(n.Consequence)

		if n.Alternative != nil {
			m["alternative"] = dumpBlock(n.Alternative)
		}

	case *ast.Action:
		params := make([]any, len(n.Parameters))
		for i, p := range n.Parameters {
			params[i] = map[string]any{"name": p.Value, "type": p.Typing.Literal}
		}

		m["node"] = "Action"
		m["parameters"] = params
		m["body"] = dumpBlock(n.Body)

	case *ast.Call:
		args := make([]any, len(n.Arguments))
		for i, a := range n.Arguments {
			args[i] = Dump(a)
		}

		m["node"] = "Call"
		m["callee"] = Dump(n.Callee)
		m["arguments"] = args

	default:
		m["node"] = node.TokenLiteral()
	}

	return m
}

func dumpName(m map[string]any, kind string, n *ast.Name) {
	m["node"] = kind
	m["name"] = n.Value

	if n.Annotated() {
		m["type"] = n.Typing.Literal
	}
}

func dumpBlock(b *ast.Block) any {
	if b == nil {
		return nil
	}

	return map[string]any{
		"node":       "Block",
		"pos":        b.Pos().String(),
		"statements": dumpStatements(b.Statements),
	}
}

func dumpStatements(stmts []ast.Statement) []any {
	out := make([]any, len(stmts))
	for i, s := range stmts {
		out[i] = Dump(s)
	}

	return out
}
