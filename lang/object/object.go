// Package object defines the runtime values of the wml language and the
// lexical environment that binds names to them.
package object

import (
	"math"
	"strconv"
	"strings"

	"github.com/ardnew/wml/lang/ast"
	"github.com/ardnew/wml/lang/token"
)

// Kind identifies the variant of a runtime [Value].
type Kind int

// Value kinds.
const (
	IntegerKind Kind = iota
	FloatKind
	StringKind
	BooleanKind
	NullKind
	ActionKind
	BuiltInKind
	ReturnKind
)

//nolint:gochecknoglobals
var kindNames = [...]string{
	IntegerKind: "Integer",
	FloatKind:   "Float",
	StringKind:  "String",
	BooleanKind: "Boolean",
	NullKind:    "Null",
	ActionKind:  "Action",
	BuiltInKind: "BuiltIn",
	ReturnKind:  "Return",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}

	return "Unknown"
}

// Keyword returns the type annotation that accepts values of kind k, or
// the kind name when no annotation names it.
func (k Kind) Keyword() string {
	switch k {
	case IntegerKind:
		return "int"
	case FloatKind:
		return "flt"
	case StringKind:
		return "str"
	case BooleanKind:
		return "bool"
	case NullKind:
		return "None"
	default:
		return k.String()
	}
}

// Accepts reports whether a name annotated with the type keyword kind may
// hold a value of kind k. Any accepts every kind.
func (k Kind) Accepts(annotation token.Kind) bool {
	switch annotation {
	case token.AnyType:
		return true
	case token.IntType:
		return k == IntegerKind
	case token.FloatType:
		return k == FloatKind
	case token.StrType:
		return k == StringKind
	case token.BoolType:
		return k == BooleanKind
	default:
		return false
	}
}

// Value is a runtime value.
type Value interface {
	Kind() Kind
	Inspect() string
}

// Integer is a 64-bit signed integer.
type Integer struct {
	Token token.Token
	Value int64
}

func (v *Integer) Kind() Kind      { return IntegerKind }
func (v *Integer) Inspect() string { return strconv.FormatInt(v.Value, 10) }

// Float is a 64-bit floating-point number.
type Float struct {
	Token token.Token
	Value float64
}

func (v *Float) Kind() Kind      { return FloatKind }
func (v *Float) Inspect() string { return FormatFloat(v.Value) }

// String holds the raw literal text, including its quote characters.
type String struct {
	Token token.Token
	Value string
}

func (v *String) Kind() Kind      { return StringKind }
func (v *String) Inspect() string { return v.Value }

// Quote returns the quote character wrapping the string.
func (v *String) Quote() byte {
	if len(v.Value) == 0 {
		return '"'
	}

	return v.Value[0]
}

// Content returns the text between the quotes with escaped wrapper quotes
// unescaped.
func (v *String) Content() string {
	if len(v.Value) < 2 {
		return ""
	}

	q := string(v.Quote())

	return strings.ReplaceAll(v.Value[1:len(v.Value)-1], `\`+q, q)
}

// Quote wraps s in the quote character that needs no escaping, preferring
// double quotes. When s contains both, its double quotes are escaped.
// Content of the result is s.
func Quote(s string) *String {
	if strings.ContainsRune(s, '"') && !strings.ContainsRune(s, '\'') {
		return &String{Value: "'" + s + "'"}
	}

	return &String{Value: `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`}
}

// Boolean is True or False.
type Boolean struct {
	Token token.Token
	Value bool
}

func (v *Boolean) Kind() Kind { return BooleanKind }

func (v *Boolean) Inspect() string {
	if v.Value {
		return "True"
	}

	return "False"
}

// Null is the absence of a value.
type Null struct {
	Token token.Token
}

func (v *Null) Kind() Kind      { return NullKind }
func (v *Null) Inspect() string { return "Null" }

// Action is a closure: an action literal with the environment it was
// defined in.
type Action struct {
	Token      token.Token
	Parameters []*ast.Variable
	Body       *ast.Block
	Env        *Environment
}

func (v *Action) Kind() Kind { return ActionKind }

func (v *Action) Inspect() string {
	params := (&ast.Action{Parameters: v.Parameters}).ParameterList()

	body := v.Body.String()
	if body == "" {
		return "action(" + params + ") { };"
	}

	return "action(" + params + ") { " + body + " };"
}

// BuiltInFunc is a host function callable from wml.
type BuiltInFunc func(args ...Value) (Value, error)

// BuiltIn wraps a host function.
type BuiltIn struct {
	Name string
	Fn   BuiltInFunc
}

func (v *BuiltIn) Kind() Kind      { return BuiltInKind }
func (v *BuiltIn) Inspect() string { return "Built-in function" }

// Return carries a value out of nested blocks to the enclosing action or
// program. It never escapes evaluation.
type Return struct {
	Token token.Token
	Value Value
}

func (v *Return) Kind() Kind      { return ReturnKind }
func (v *Return) Inspect() string { return v.Value.Inspect() }

// Truthy reports whether v counts as true in a condition. Null and False
// are false, numbers are false when zero, and everything else is true.
func Truthy(v Value) bool {
	switch v := v.(type) {
	case *Null:
		return false
	case *Boolean:
		return v.Value
	case *Integer:
		return v.Value != 0
	case *Float:
		return v.Value != 0
	default:
		return true
	}
}

// Equal reports whether a and b are the same kind holding the same value.
// Strings compare by content and closures by identity.
func Equal(a, b Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}

	switch a := a.(type) {
	case *Integer:
		return a.Value == b.(*Integer).Value
	case *Float:
		return a.Value == b.(*Float).Value
	case *String:
		return a.Content() == b.(*String).Content()
	case *Boolean:
		return a.Value == b.(*Boolean).Value
	case *Null:
		return true
	case *Return:
		return Equal(a.Value, b.(*Return).Value)
	default:
		return a == b
	}
}

// FormatFloat renders f with at least one fractional digit, switching to
// exponent form for very large or very small magnitudes.
func FormatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}

	if abs := math.Abs(f); abs >= 1e16 || (abs != 0 && abs < 1e-4) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}

	return s
}
