// Package eval executes wml syntax trees.
//
// Evaluation failures are returned as *object.Error values through the
// error result. They carry the source position of the construct that
// failed and stop evaluation of the enclosing program.
package eval

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/ardnew/wml/lang/ast"
	"github.com/ardnew/wml/lang/builtin"
	"github.com/ardnew/wml/lang/object"
	"github.com/ardnew/wml/lang/token"
)

// DefaultMaxDepth bounds nested action calls.
const DefaultMaxDepth = 10000

// ErrUnsupportedNode is returned for syntax nodes the evaluator does not
// know. It indicates a tree built outside the parser.
var ErrUnsupportedNode = errors.New("unsupported syntax node")

// Evaluator walks syntax trees. It tracks the depth of nested action calls
// and must not be used by more than one goroutine at a time.
type Evaluator struct {
	builtins builtin.Registry
	maxDepth int
	depth    int
}

// Option configures an [Evaluator].
type Option func(*Evaluator)

// WithBuiltins sets the registry consulted for names that are not bound.
func WithBuiltins(r builtin.Registry) Option {
	return func(e *Evaluator) { e.builtins = r }
}

// WithMaxDepth sets the maximum depth of nested action calls. Values less
// than one select [DefaultMaxDepth].
func WithMaxDepth(n int) Option {
	return func(e *Evaluator) {
		if n < 1 {
			n = DefaultMaxDepth
		}

		e.maxDepth = n
	}
}

// New returns an evaluator using the default built-ins.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{maxDepth: DefaultMaxDepth}

	for _, opt := range opts {
		opt(e)
	}

	if e.builtins == nil {
		e.builtins = builtin.Default()
	}

	return e
}

// Eval evaluates node in env with a default evaluator.
func Eval(node ast.Node, env *object.Environment) (object.Value, error) {
	return New().Eval(node, env)
}

// Eval evaluates node in env. Statements that produce nothing, such as
// assignments and model declarations, return a nil value and a nil error.
func (e *Evaluator) Eval(node ast.Node, env *object.Environment) (object.Value, error) {
	switch node := node.(type) {
	case nil:
		return nil, nil

	case *ast.Program:
		v, err := e.statements(node.Statements, env)
		if ret, ok := v.(*object.Return); ok {
			return ret.Value, err
		}

		return v, err

	case *ast.Block:
		return e.statements(node.Statements, env)

	case *ast.ExpressionStatement:
		return e.Eval(node.Expression, env)

	case *ast.SetStatement:
		v, err := e.value(node.Value, node.Token, env)
		if err != nil {
			return nil, err
		}

		return nil, assign(env, node.Name.Value, node.Token, v)

	case *ast.ReturnStatement:
		v, err := e.value(node.Value, node.Token, env)
		if err != nil {
			return nil, err
		}

		return &object.Return{Token: node.Token, Value: v}, nil

	case *ast.ModelStatement:
		return nil, nil

	case *ast.Integer:
		return &object.Integer{Token: node.Token, Value: node.Value}, nil

	case *ast.Float:
		return &object.Float{Token: node.Token, Value: node.Value}, nil

	case *ast.Boolean:
		return &object.Boolean{Token: node.Token, Value: node.Value}, nil

	case *ast.StringLiteral:
		return &object.String{Token: node.Token, Value: node.Value}, nil

	case *ast.Variable:
		return e.resolve(&node.Name, env)

	case *ast.Constant:
		return e.resolve(&node.Name, env)

	case *ast.Identifier:
		return e.resolve(&node.Name, env)

	case *ast.Prefix:
		right, err := e.value(node.Right, node.Token, env)
		if err != nil {
			return nil, err
		}

		return prefix(node, right)

	case *ast.Infix:
		left, err := e.value(node.Left, node.Token, env)
		if err != nil {
			return nil, err
		}

		right, err := e.value(node.Right, node.Token, env)
		if err != nil {
			return nil, err
		}

		return infix(node, left, right)

	case *ast.If:
		return e.conditional(node, env)

	case *ast.Action:
		return &object.Action{
			Token:      node.Token,
			Parameters: node.Parameters,
			Body:       node.Body,
			Env:        env,
		}, nil

	case *ast.Call:
		return e.call(node, env)
	}

	return nil, fmt.Errorf("%w: %T", ErrUnsupportedNode, node)
}

// statements evaluates a statement list, keeping the last value produced.
// A return signal stops evaluation and is passed up unchanged.
func (e *Evaluator) statements(stmts []ast.Statement, env *object.Environment) (object.Value, error) {
	var result object.Value

	for _, stmt := range stmts {
		v, err := e.Eval(stmt, env)
		if err != nil {
			return nil, err
		}

		if ret, ok := v.(*object.Return); ok {
			return ret, nil
		}

		if v != nil {
			result = v
		}
	}

	return result, nil
}

// value evaluates an expression in operand position. A missing result is
// Null and a return signal stands for the value it carries.
func (e *Evaluator) value(node ast.Expression, at token.Token, env *object.Environment) (object.Value, error) {
	v, err := e.Eval(node, env)
	if err != nil {
		return nil, err
	}

	switch v := v.(type) {
	case nil:
		return &object.Null{Token: at}, nil
	case *object.Return:
		return v.Value, nil
	default:
		return v, nil
	}
}

func (e *Evaluator) resolve(name *ast.Name, env *object.Environment) (object.Value, error) {
	if v, ok := env.Get(name.Value); ok {
		return v, nil
	}

	if fn, ok := e.builtins.Lookup(name.Value); ok {
		return fn, nil
	}

	return nil, object.NewError(object.NameError, name.Pos(), name.Value)
}

func (e *Evaluator) conditional(node *ast.If, env *object.Environment) (object.Value, error) {
	cond, err := e.value(node.Condition, node.Token, env)
	if err != nil {
		return nil, err
	}

	block := node.Alternative
	if object.Truthy(cond) {
		block = node.Consequence
	}

	if block == nil {
		return &object.Null{Token: node.Token}, nil
	}

	v, err := e.Eval(block, env)
	if err != nil {
		return nil, err
	}

	if v == nil {
		return &object.Null{Token: node.Token}, nil
	}

	return v, nil
}

func (e *Evaluator) call(node *ast.Call, env *object.Environment) (object.Value, error) {
	callee, err := e.value(node.Callee, node.Token, env)
	if err != nil {
		return nil, err
	}

	args := make([]object.Value, len(node.Arguments))

	for i, arg := range node.Arguments {
		if args[i], err = e.value(arg, node.Token, env); err != nil {
			return nil, err
		}
	}

	switch fn := callee.(type) {
	case *object.Action:
		return e.apply(node, fn, args)

	case *object.BuiltIn:
		v, err := fn.Fn(args...)
		if err != nil {
			if oe := (*object.Error)(nil); errors.As(err, &oe) {
				return nil, oe.At(node.Pos())
			}

			return nil, err
		}

		if v == nil {
			return &object.Null{Token: node.Token}, nil
		}

		return v, nil
	}

	return nil, object.NewError(object.NotAnAction, node.Callee.Pos(), node.Callee.String())
}

// apply invokes a closure in a fresh frame chained to the environment the
// closure was defined in. Parameter i is bound to argument i.
func (e *Evaluator) apply(node *ast.Call, fn *object.Action, args []object.Value) (object.Value, error) {
	if len(args) != len(fn.Parameters) {
		return nil, object.NewError(object.InvalidNumberOfArguments, node.Pos(),
			"Expected "+strconv.Itoa(len(fn.Parameters))+", got "+strconv.Itoa(len(args)))
	}

	if e.depth >= e.maxDepth {
		return nil, object.NewError(object.RecursionError, node.Pos(),
			"maximum call depth "+strconv.Itoa(e.maxDepth)+" exceeded")
	}

	scope := object.NewEnclosedEnvironment(fn.Env)

	for i, param := range fn.Parameters {
		arg := args[i]

		if param.Annotated() && arg.Kind() != object.ActionKind && !arg.Kind().Accepts(param.Typing.Kind) {
			return nil, object.NewError(object.InvalidTypeAssignment, node.Arguments[i].Pos(),
				param.Typing.Literal+" != "+arg.Kind().Keyword())
		}

		scope.Set(param.Value, arg)
	}

	e.depth++
	defer func() { e.depth-- }()

	v, err := e.Eval(fn.Body, scope)
	if err != nil {
		return nil, err
	}

	switch v := v.(type) {
	case nil:
		return &object.Null{Token: node.Token}, nil
	case *object.Return:
		return v.Value, nil
	default:
		return v, nil
	}
}
