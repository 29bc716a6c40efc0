package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/ardnew/wml/lang"
	"github.com/ardnew/wml/lang/object"
	"github.com/ardnew/wml/log"
)

// Run evaluates program files in order against one shared environment.
type Run struct {
	Files []string `arg:"" default:"-" help:"Program files to evaluate, or '-' for stdin." name:"file" optional:"" type:"path"`
}

// Run executes the run command.
//
// With no files, or only stdin, and a terminal on stdin, Run starts an
// interactive session instead. The result of each file, if any, is printed to stdout. A parse or
// evaluation failure prints its diagnostic to stderr and stops evaluation of
// the remaining files.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if onlyStdin(r.Files) && term.IsTerminal(int(os.Stdin.Fd())) {
		return (&Repl{}).Run(ctx)
	}

	srcs, err := openSources(ctx, r.Files)
	if err != nil {
		return err
	}
	defer srcs.Close()

	in := interpreterFrom(ctx)

	for _, src := range srcs {
		log.DebugContext(ctx, "run", slog.String("file", src.name))

		v, err := in.RunReader(ctx, src)
		if err != nil {
			return report(ctx, src.name, err)
		}

		if v != nil {
			fmt.Fprintln(stdout(ctx), v.Inspect())
		}
	}

	return nil
}

// report writes the language diagnostic carried by err to stderr and
// returns [ErrRun]. Errors that are not diagnostics are returned wrapped.
func report(ctx context.Context, name string, err error) error {
	var (
		perr *lang.ParseError
		oerr *object.Error
	)

	switch {
	case errors.As(err, &perr):
		fmt.Fprintln(stderr(ctx), perr.Error())

	case errors.As(err, &oerr):
		fmt.Fprintln(stderr(ctx), oerr.Error())

	default:
		return ErrRun.Wrap(err).With(slog.String("file", name))
	}

	return ErrRun.With(slog.String("file", name))
}

// onlyStdin reports whether paths names no source other than stdin.
func onlyStdin(paths []string) bool {
	for _, p := range paths {
		if p != stdinSource {
			return false
		}
	}

	return true
}
