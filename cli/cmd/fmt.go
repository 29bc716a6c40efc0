package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/wml/lang"
	"github.com/ardnew/wml/lang/ast"
	"github.com/ardnew/wml/log"
)

// Fmt parses a program and writes it back in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as native wml syntax (default)."`
	JSON   JSON   `cmd:""                    help:"Format the syntax tree as JSON."`
	YAML   YAML   `cmd:""                    help:"Format the syntax tree as YAML."`
	Tokens Tokens `cmd:""                    help:"List the tokens of the source."`
}

// Native formats input as native wml syntax.
type Native struct {
	Indent int `default:"2" help:"Indent width for formatted output, or 0 for one line." short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the fmt command.
func (f *Native) Run(ctx context.Context) (err error) {
	return formatSource(ctx, f.Source, "native", func(w io.Writer, p *ast.Program) error {
		return lang.Format(ctx, w, p, f.Indent)
	})
}

// JSON reads input from stdin, parses it, and outputs the tree as JSON.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) (err error) {
	return formatSource(ctx, j.Source, "json", func(w io.Writer, p *ast.Program) error {
		return lang.FormatJSON(ctx, w, p, j.Indent)
	})
}

// YAML reads input from stdin, parses it, and outputs the tree as YAML.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output, or 0 for flow style." short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) (err error) {
	return formatSource(ctx, y.Source, "yaml", func(w io.Writer, p *ast.Program) error {
		return lang.FormatYAML(ctx, w, p, y.Indent)
	})
}

// Tokens lists the tokens of the input, one per line.
type Tokens struct {
	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the tokens command. The source need not parse.
func (t *Tokens) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	srcs, err := openSources(ctx, []string{t.Source})
	if err != nil {
		return err
	}
	defer srcs.Close()

	b, err := io.ReadAll(srcs[0])
	if err != nil {
		return ErrFormat.Wrap(err).With(slog.String("file", srcs[0].name))
	}

	return lang.FormatTokens(ctx, stdout(ctx), string(b))
}

// formatSource parses the named source and hands the program to write.
func formatSource(
	ctx context.Context,
	name, format string,
	write func(io.Writer, *ast.Program) error,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	srcs, err := openSources(ctx, []string{name})
	if err != nil {
		return err
	}
	defer srcs.Close()

	program, err := lang.ParseReader(ctx, srcs[0], lang.WithLogger(log.Default()))
	if err != nil {
		return report(ctx, srcs[0].name, err)
	}

	if err := write(stdout(ctx), program); err != nil {
		return ErrFormat.Wrap(err).With(slog.String("format", format))
	}

	return nil
}
