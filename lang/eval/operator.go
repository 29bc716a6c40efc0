package eval

import (
	"math"
	"strconv"

	"github.com/ardnew/wml/lang/ast"
	"github.com/ardnew/wml/lang/object"
)

func prefix(node *ast.Prefix, right object.Value) (object.Value, error) {
	switch node.Operator {
	case "!":
		return &object.Boolean{Token: node.Token, Value: !object.Truthy(right)}, nil

	case "-":
		switch r := right.(type) {
		case *object.Integer:
			if r.Value == math.MinInt64 {
				return nil, object.NewError(object.OverflowError, node.Pos(), "-"+r.Inspect())
			}

			return &object.Integer{Token: node.Token, Value: -r.Value}, nil
		case *object.Float:
			return &object.Float{Token: node.Token, Value: -r.Value}, nil
		}
	}

	return nil, object.NewError(object.UnknownPrefixOperator, node.Pos(),
		node.Operator+right.Kind().String())
}

func infix(node *ast.Infix, left, right object.Value) (object.Value, error) {
	li, lInt := left.(*object.Integer)
	ri, rInt := right.(*object.Integer)

	switch {
	case lInt && rInt && node.Operator != "/":
		if v, err := integers(node, li.Value, ri.Value); v != nil || err != nil {
			return v, err
		}

	case isNumber(left) && isNumber(right):
		if v, ok := floats(node, toFloat(left), toFloat(right)); ok {
			return v, nil
		}

	case left.Kind() == object.StringKind && right.Kind() == object.StringKind:
		if v, ok := strs(node, left.(*object.String), right.(*object.String)); ok {
			return v, nil
		}

	case node.Operator == "==":
		return &object.Boolean{Token: node.Token, Value: object.Equal(left, right)}, nil

	case node.Operator == "!=":
		return &object.Boolean{Token: node.Token, Value: !object.Equal(left, right)}, nil
	}

	kind := object.UnknownInfixOperator
	if left.Kind() != right.Kind() {
		kind = object.TypeMismatch
	}

	return nil, object.NewError(kind, node.Pos(),
		left.Kind().String()+" "+node.Operator+" "+right.Kind().String())
}

// integers applies an operator with integer semantics. Arithmetic that does
// not fit in 64 bits is an OverflowError. A nil value and nil error mean the
// operator does not apply.
func integers(node *ast.Infix, l, r int64) (object.Value, error) {
	tok := node.Token

	switch node.Operator {
	case "+", "-", "*":
		n, ok := arithmetic(node.Operator, l, r)
		if !ok {
			return nil, object.NewError(object.OverflowError, node.Pos(),
				strconv.FormatInt(l, 10)+" "+node.Operator+" "+strconv.FormatInt(r, 10))
		}

		return &object.Integer{Token: tok, Value: n}, nil
	case "<":
		return &object.Boolean{Token: tok, Value: l < r}, nil
	case "<=":
		return &object.Boolean{Token: tok, Value: l <= r}, nil
	case ">":
		return &object.Boolean{Token: tok, Value: l > r}, nil
	case ">=":
		return &object.Boolean{Token: tok, Value: l >= r}, nil
	case "==":
		return &object.Boolean{Token: tok, Value: l == r}, nil
	case "!=":
		return &object.Boolean{Token: tok, Value: l != r}, nil
	}

	return nil, nil
}

// arithmetic returns l op r and whether it did not overflow.
func arithmetic(op string, l, r int64) (int64, bool) {
	switch op {
	case "+":
		n := l + r

		return n, (n > l) == (r > 0)
	case "-":
		n := l - r

		return n, (n < l) == (r > 0)
	default:
		if l == 0 || r == 0 {
			return 0, true
		}

		if (l == -1 && r == math.MinInt64) || (r == -1 && l == math.MinInt64) {
			return 0, false
		}

		n := l * r

		return n, n/r == l
	}
}

// floats applies an operator with float semantics. Division by zero follows
// IEEE 754.
func floats(node *ast.Infix, l, r float64) (object.Value, bool) {
	tok := node.Token

	switch node.Operator {
	case "+":
		return &object.Float{Token: tok, Value: l + r}, true
	case "-":
		return &object.Float{Token: tok, Value: l - r}, true
	case "*":
		return &object.Float{Token: tok, Value: l * r}, true
	case "/":
		return &object.Float{Token: tok, Value: l / r}, true
	case "<":
		return &object.Boolean{Token: tok, Value: l < r}, true
	case "<=":
		return &object.Boolean{Token: tok, Value: l <= r}, true
	case ">":
		return &object.Boolean{Token: tok, Value: l > r}, true
	case ">=":
		return &object.Boolean{Token: tok, Value: l >= r}, true
	case "==":
		return &object.Boolean{Token: tok, Value: l == r}, true
	case "!=":
		return &object.Boolean{Token: tok, Value: l != r}, true
	}

	return nil, false
}

// strs supports concatenation and content comparison. A concatenation is
// requoted from the joined content.
func strs(node *ast.Infix, l, r *object.String) (object.Value, bool) {
	lc, rc := l.Content(), r.Content()

	switch node.Operator {
	case "+":
		s := object.Quote(lc + rc)
		s.Token = node.Token

		return s, true
	case "==":
		return &object.Boolean{Token: node.Token, Value: lc == rc}, true
	case "!=":
		return &object.Boolean{Token: node.Token, Value: lc != rc}, true
	}

	return nil, false
}

func isNumber(v object.Value) bool {
	k := v.Kind()

	return k == object.IntegerKind || k == object.FloatKind
}

func toFloat(v object.Value) float64 {
	switch v := v.(type) {
	case *object.Integer:
		return float64(v.Value)
	case *object.Float:
		return v.Value
	}

	return 0
}
