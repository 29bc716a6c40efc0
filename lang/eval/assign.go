package eval

import (
	"strconv"

	"github.com/ardnew/wml/lang/object"
	"github.com/ardnew/wml/lang/token"
)

//nolint:gochecknoglobals
var anyType = token.Token{Kind: token.AnyType, Literal: "Any"}

// Define binds a host value to name in env under the same rules as a
// SetStatement annotated Any. The name must be a valid variable, constant,
// or model name.
func Define(env *object.Environment, name string, v object.Value) error {
	switch token.Classify(name) {
	case token.Variable, token.Constant, token.Identifier:
		return assign(env, name, anyType, v)
	}

	return object.NewError(object.NameError, token.Pos{}, "cannot bind "+strconv.Quote(name))
}

// assign writes v to name in the local frame of env. The annotation must
// accept the kind of v unless v is an action. Names spelled as constants or
// models may only be bound once per frame.
func assign(env *object.Environment, name string, annotation token.Token, v object.Value) error {
	if v.Kind() != object.ActionKind && !v.Kind().Accepts(annotation.Kind) {
		return object.NewError(object.InvalidTypeAssignment, annotation.Pos(),
			annotation.Literal+" != "+v.Kind().Keyword())
	}

	switch token.Classify(name) {
	case token.Constant:
		if env.Has(name) {
			return object.NewError(object.ConstantReassignment, annotation.Pos(), name)
		}
	case token.Identifier:
		if env.Has(name) {
			return object.NewError(object.ModelReassignment, annotation.Pos(), name)
		}
	}

	env.Set(name, v)

	return nil
}
