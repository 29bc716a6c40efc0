package lang

import (
	"context"
	"log/slog"
	"os"
	"reflect"
	"strconv"

	"github.com/expr-lang/expr"

	"github.com/ardnew/wml/lang/object"
	"github.com/ardnew/wml/lang/token"
)

// ErrNativeType is returned for host values with no runtime counterpart.
var ErrNativeType = NewError("unsupported native value type")

// DefineExpr evaluates the expr-lang expression source and binds its result
// to name. The expression can call env(key) to read process environment
// variables and can refer to global bindings of scalar values by name.
func (in *Interpreter) DefineExpr(ctx context.Context, name, source string) error {
	native, err := expr.Eval(source, in.exprEnv())
	if err != nil {
		return ErrDefine.Wrap(err).With(
			slog.String("name", name),
			slog.String("expr", source),
		)
	}

	in.logger.TraceContext(ctx, "host expression",
		slog.String("name", name),
		slog.String("expr", source),
		slog.Any("result", native),
	)

	v, err := FromNative(native)
	if err != nil {
		return ErrDefine.Wrap(err).With(slog.String("name", name))
	}

	return in.Define(name, v)
}

// exprEnv returns the expr-lang environment: env(key) and every global
// binding that has a native form.
func (in *Interpreter) exprEnv() map[string]any {
	vars := map[string]any{}

	for _, name := range in.env.Names() {
		v, _ := in.env.Get(name)
		if native, ok := ToNative(v); ok {
			vars[name] = native
		}
	}

	vars["env"] = os.Getenv

	return vars
}

// FromNative converts a Go value to a runtime value. Integers, floats,
// strings, booleans and nil are supported.
func FromNative(v any) (object.Value, error) {
	if v == nil {
		return &object.Null{}, nil
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := rv.Int()

		return &object.Integer{
			Token: token.New(token.IntValue, strconv.FormatInt(n, 10), 0, 0),
			Value: n,
		}, nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n := int64(rv.Uint()) //nolint:gosec

		return &object.Integer{
			Token: token.New(token.IntValue, strconv.FormatInt(n, 10), 0, 0),
			Value: n,
		}, nil

	case reflect.Float32, reflect.Float64:
		f := rv.Float()

		return &object.Float{
			Token: token.New(token.FloatValue, object.FormatFloat(f), 0, 0),
			Value: f,
		}, nil

	case reflect.String:
		return object.Quote(rv.String()), nil

	case reflect.Bool:
		b := &object.Boolean{Value: rv.Bool()}
		b.Token = token.New(token.BoolValue, b.Inspect(), 0, 0)

		return b, nil

	default:
		return nil, ErrNativeType.With(slog.String("type", rv.Type().String()))
	}
}

// ToNative returns the Go form of a scalar runtime value.
func ToNative(v object.Value) (any, bool) {
	switch v := v.(type) {
	case *object.Integer:
		return v.Value, true
	case *object.Float:
		return v.Value, true
	case *object.String:
		return v.Content(), true
	case *object.Boolean:
		return v.Value, true
	case *object.Null:
		return nil, true
	default:
		return nil, false
	}
}
