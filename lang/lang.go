package lang

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/wml/lang/ast"
	"github.com/ardnew/wml/lang/builtin"
	"github.com/ardnew/wml/lang/eval"
	"github.com/ardnew/wml/lang/object"
	"github.com/ardnew/wml/log"
)

// DefaultMaxDepth is the default limit on nested action calls.
const DefaultMaxDepth = eval.DefaultMaxDepth

// Interpreter evaluates programs against one persistent global
// environment. Bindings made by one call to [Interpreter.Run] are visible to
// the next. An Interpreter must not be used concurrently.
type Interpreter struct {
	env      *object.Environment
	hosts    []hostBinding
	eval     *eval.Evaluator
	builtins builtin.Registry
	maxDepth int
	cache    bool
	logger   log.Logger
}

// hostBinding is a value bound with [Interpreter.Define].
type hostBinding struct {
	name  string
	value object.Value
}

// Option configures an [Interpreter].
type Option func(*Interpreter)

// WithMaxDepth sets the maximum depth of nested action calls.
func WithMaxDepth(depth int) Option {
	return func(in *Interpreter) {
		in.maxDepth = depth
	}
}

// WithBuiltins replaces the built-in functions available to programs.
func WithBuiltins(r builtin.Registry) Option {
	return func(in *Interpreter) {
		in.builtins = r
	}
}

// WithCache enables or disables the shared parse cache. It is enabled by
// default.
func WithCache(enable bool) Option {
	return func(in *Interpreter) {
		in.cache = enable
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(in *Interpreter) {
		in.logger = logger
	}
}

// New returns an interpreter with an empty global environment.
func New(opts ...Option) *Interpreter {
	in := &Interpreter{
		env:      object.NewEnvironment(),
		maxDepth: DefaultMaxDepth,
		cache:    true,
	}

	for _, opt := range opts {
		opt(in)
	}

	if in.builtins == nil {
		in.builtins = builtin.Default()
	}

	in.eval = eval.New(eval.WithBuiltins(in.builtins), eval.WithMaxDepth(in.maxDepth))

	return in
}

// Env returns the global environment.
func (in *Interpreter) Env() *object.Environment { return in.env }

// Builtins returns the built-in functions available to programs.
func (in *Interpreter) Builtins() builtin.Registry { return in.builtins }

// Reset discards every global binding made by evaluated programs. Values
// bound with [Interpreter.Define] are bound again in the fresh environment.
func (in *Interpreter) Reset() {
	in.env = object.NewEnvironment()

	for _, h := range in.hosts {
		in.env.Set(h.name, h.value)
	}

	in.logger.Trace("reset", slog.Int("hosts", len(in.hosts)))
}

// Define binds v to name in the global environment. Constants and models
// cannot be rebound.
func (in *Interpreter) Define(name string, v object.Value) error {
	if err := eval.Define(in.env, name, v); err != nil {
		return ErrDefine.Wrap(err).With(slog.String("name", name))
	}

	in.hosts = append(in.hosts, hostBinding{name: name, value: v})

	in.logger.Debug("define", slog.String("name", name), slog.String("value", v.Inspect()))

	return nil
}

// Run parses and evaluates source. The result is the value of the last
// statement that produced one, or nil.
func (in *Interpreter) Run(ctx context.Context, source string) (object.Value, error) {
	program, err := in.parse(ctx, source)
	if err != nil {
		return nil, err
	}

	return in.Exec(ctx, program)
}

// RunReader reads the whole of r and evaluates it like [Interpreter.Run].
func (in *Interpreter) RunReader(ctx context.Context, r io.Reader) (object.Value, error) {
	source, err := in.read(ctx, r)
	if err != nil {
		return nil, err
	}

	return in.Run(ctx, source)
}

// Exec evaluates a parsed program. Evaluation errors wrap an
// [*object.Error] describing the failure.
func (in *Interpreter) Exec(ctx context.Context, program *ast.Program) (object.Value, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	in.logger.TraceContext(ctx, "evaluate", slog.Int("statements", len(program.Statements)))

	v, err := in.eval.Eval(program, in.env)
	if err != nil {
		in.logger.DebugContext(ctx, "evaluation failed", slog.String("error", err.Error()))

		return nil, ErrEvaluate.Wrap(err)
	}

	if v != nil {
		in.logger.TraceContext(ctx, "result",
			slog.String("kind", v.Kind().String()),
			slog.String("value", v.Inspect()),
		)
	}

	return v, nil
}
