package repl

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/wml/lang"
	"github.com/ardnew/wml/lang/ast"
	"github.com/ardnew/wml/lang/object"
)

// builtinParams names the parameters of the default built-in functions.
// Variadic parameters are spelled with a leading "...".
var builtinParams = map[string][]string{
	"length": {"s"},
	"prefix": {"list", "...items"},
	"type":   {"v"},
}

// Signature hint styles.
var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// functionCall represents a detected call in the input.
type functionCall struct {
	name     string // callee name
	argIndex int    // current argument index (0-based)
	inCall   bool   // true if cursor is inside an argument list
}

// isNameByte reports whether c may appear in a wml name.
func isNameByte(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// detectFunctionCall determines whether the cursor is inside the argument
// list of a call to a named function, and which argument it is on.
// Parentheses and commas are ASCII, so scanning bytes is safe for UTF-8
// input.
func detectFunctionCall(input string, cursor int) functionCall {
	if cursor > len(input) {
		cursor = len(input)
	}

	open := -1

	for i, depth := cursor-1, 0; i >= 0 && open < 0; i-- {
		switch input[i] {
		case ')':
			depth++
		case '(':
			if depth == 0 {
				open = i
			}

			depth--
		}
	}

	if open < 0 {
		return functionCall{}
	}

	start := open
	for start > 0 && isNameByte(input[start-1]) {
		start--
	}

	name := input[start:open]
	if name == "" {
		return functionCall{}
	}

	argIndex := 0

	for i, depth := open+1, 0; i < cursor; i++ {
		switch input[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				argIndex++
			}
		}
	}

	return functionCall{name: name, argIndex: argIndex, inCall: true}
}

// getSignature returns the parameter names of the action or built-in bound
// to name. Annotated action parameters keep their type. ok is false if name
// is not callable.
func getSignature(in *lang.Interpreter, name string) (params []string, ok bool) {
	v, bound := in.Env().Get(name)
	if !bound {
		if _, ok := in.Builtins().Lookup(name); !ok {
			return nil, false
		}

		return builtinParams[name], true
	}

	switch fn := v.(type) {
	case *object.Action:
		return actionParams(fn.Parameters), true

	case *object.BuiltIn:
		return builtinParams[fn.Name], true

	default:
		return nil, false
	}
}

func actionParams(vars []*ast.Variable) []string {
	params := make([]string, len(vars))

	for i, p := range vars {
		if p.Annotated() {
			params[i] = p.Typing.Literal + " " + p.Value
		} else {
			params[i] = p.Value
		}
	}

	return params
}

// renderSignatureHint renders the call signature with the current parameter
// highlighted. A variadic parameter stays highlighted for every argument at
// or beyond its position.
func renderSignatureHint(name string, params []string, currentArgIdx int) string {
	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(name))
	b.WriteString(signatureStyle.Render("("))

	for i, param := range params {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		variadic := strings.HasPrefix(param, "...")

		if (variadic && currentArgIdx >= i) || (!variadic && currentArgIdx == i) {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
