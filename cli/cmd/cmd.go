package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/wml/lang"
	"github.com/ardnew/wml/log"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type interpreterKey struct{}

// WithInterpreter returns a new context.Context carrying the interpreter that
// commands evaluate programs with.
func WithInterpreter(ctx context.Context, in *lang.Interpreter) context.Context {
	return context.WithValue(ctx, interpreterKey{}, in)
}

// interpreterFrom returns the interpreter stored by [WithInterpreter], or a
// new one logging to the default logger.
func interpreterFrom(ctx context.Context) *lang.Interpreter {
	if in, ok := ctx.Value(interpreterKey{}).(*lang.Interpreter); ok && in != nil {
		return in
	}

	return lang.New(lang.WithLogger(log.Default()))
}

// stdout returns the output stream of the kong application in ctx.
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// stderr returns the error stream of the kong application in ctx.
func stderr(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stderr != nil {
		return ktx.Stderr
	}

	return os.Stderr
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// source is an opened program file.
type source struct {
	io.Reader

	name  string
	close func() error
}

// sources is an ordered set of opened program files.
type sources []source

// Close closes every opened file.
func (s sources) Close() {
	for _, src := range s {
		if src.close != nil {
			_ = src.close()
		}
	}
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// openSources opens the given paths in order. Files named more than once,
// through any combination of relative paths, absolute paths and symlinks,
// are opened once. All occurrences of "-" collapse into a single stdin
// source placed last. Paths that cannot be opened are logged and skipped;
// if nothing could be opened the result is [ErrNoSource].
func openSources(ctx context.Context, paths []string) (sources, error) {
	if len(paths) == 0 {
		paths = []string{stdinSource}
	}

	var (
		srcs     = make(sources, 0, len(paths))
		seen     = make(map[fileKey]struct{})
		hasStdin bool
	)

	stdinInfo, _ := os.Stdin.Stat()
	stdinKey, stdinOK := makeFileKey(stdinInfo)

	for _, path := range paths {
		if path == stdinSource {
			hasStdin = true

			continue
		}

		src, key, err := openUnique(path, seen)
		if err != nil {
			log.WarnContext(ctx, "skipping source",
				slog.String("file", path),
				slog.String("error", err.Error()),
			)

			continue
		}

		if stdinOK && key == stdinKey {
			if src.close != nil {
				_ = src.close()
			}

			hasStdin = true

			continue
		}

		if src.Reader != nil {
			srcs = append(srcs, src)
		}
	}

	if hasStdin {
		srcs = append(srcs, source{Reader: os.Stdin, name: stdinSource})
	}

	if len(srcs) == 0 {
		return nil, ErrNoSource.With(slog.Any("files", paths))
	}

	return srcs, nil
}

// openUnique opens the file at path unless a file with the same identity
// is already in seen. A duplicate yields a zero source and a nil error.
func openUnique(path string, seen map[fileKey]struct{}) (source, fileKey, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return source{}, fileKey{}, ErrOpenSource.Wrap(err)
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return source{}, fileKey{}, ErrOpenSource.Wrap(err)
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return source{}, fileKey{}, ErrOpenSource.Wrap(err)
	}

	key, ok := makeFileKey(info)
	if ok {
		if _, exists := seen[key]; exists {
			return source{}, key, nil
		}

		seen[key] = struct{}{}
	}

	file, err := os.Open(resolved)
	if err != nil {
		return source{}, key, ErrOpenSource.Wrap(err)
	}

	return source{Reader: file, name: path, close: file.Close}, key, nil
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	if info == nil {
		return key, false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true //nolint:unconvert
}
