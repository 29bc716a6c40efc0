package cli

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/wml/cli/cmd"
	"github.com/ardnew/wml/lang"
	"github.com/ardnew/wml/lang/token"
	"github.com/ardnew/wml/log"
	"github.com/ardnew/wml/pkg"
)

// ErrConst indicates a --const flag that could not be defined.
var ErrConst = cmd.NewError("define host constant")

// CLI is the top-level command-line interface for wml.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit." short:"V"`

	Const    map[string]string `help:"Define constant NAME as the result of expr-lang expression EXPR." placeholder:"NAME=EXPR" short:"D"`
	MaxDepth int               `default:"${maxDepth}"                                                    help:"Maximum depth of nested action calls."`

	Run  cmd.Run  `cmd:"" default:"withargs" help:"Evaluate program files"`
	Repl cmd.Repl `cmd:""                    help:"Start an interactive session"`
	Fmt  cmd.Fmt  `cmd:""                    help:"Format program source"`
	Init cmd.Init `cmd:""                    help:"Initialize configuration file"`
}

// Run executes the wml CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	vars := kong.Vars{
		cmd.ConfigIdentifier: configPath(baseConfig + ".yaml"),
		cmd.CacheIdentifier:  cacheDir(),
		"maxDepth":           strconv.Itoa(lang.DefaultMaxDepth),
		"version":            pkg.Name + " " + pkg.Version(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configPath(baseConfig+".json")),
		kong.Configuration(resolve(ctx), configPath(baseConfig+".yaml")),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	cli.Log.start(ctx)

	in, err := cli.interpreter(ctx)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithInterpreter(ctx, in)

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}

// interpreter returns the interpreter shared by all commands, with every
// --const flag defined. Constants are defined in name order, so an
// expression may refer to constants whose names sort before its own.
func (c *CLI) interpreter(ctx context.Context) (*lang.Interpreter, error) {
	in := lang.New(
		lang.WithLogger(log.Default()),
		lang.WithMaxDepth(c.MaxDepth),
	)

	for _, name := range slices.Sorted(maps.Keys(c.Const)) {
		if token.Classify(name) != token.Constant {
			return nil, ErrConst.With(
				slog.String("name", name),
				slog.String("reason", "name is not SCREAMING_CASE"),
			)
		}

		if err := in.DefineExpr(ctx, name, c.Const[name]); err != nil {
			return nil, ErrConst.Wrap(err).With(slog.String("name", name))
		}
	}

	return in, nil
}
