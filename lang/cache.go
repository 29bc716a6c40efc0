package lang

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"

	"github.com/ardnew/wml/lang/ast"
	"github.com/ardnew/wml/lang/parser"
)

// CacheSize is the number of programs kept in the parse cache. The oldest
// entry is evicted first.
const CacheSize = 256

// programs caches parsed programs keyed by the xxh3 hash of their source.
// Programs are never modified by evaluation, so one tree may be shared by
// any number of interpreters. cached holds the keys in insertion order.
//
//nolint:gochecknoglobals
var (
	programs sync.Map
	cachedMu sync.Mutex
	cached   []uint64
)

// parsed is a cache entry. The first caller parses the source; concurrent
// callers wait on once.
type parsed struct {
	once    sync.Once
	program *ast.Program
	err     error
}

// ParseString parses source into a program. Results are cached by source
// content unless caching is disabled with [WithCache].
func ParseString(ctx context.Context, source string, opts ...Option) (*ast.Program, error) {
	in := New(opts...)

	return in.parse(ctx, source)
}

// ParseReader reads the whole of r and parses it like [ParseString].
func ParseReader(ctx context.Context, r io.Reader, opts ...Option) (*ast.Program, error) {
	in := New(opts...)

	source, err := in.read(ctx, r)
	if err != nil {
		return nil, err
	}

	return in.parse(ctx, source)
}

// ClearCache removes all cached programs.
func ClearCache() {
	cachedMu.Lock()
	defer cachedMu.Unlock()

	programs.Clear()

	cached = nil
}

// remember records a new cache key and evicts the oldest entries beyond
// [CacheSize].
func remember(hash uint64) {
	cachedMu.Lock()
	defer cachedMu.Unlock()

	cached = append(cached, hash)

	if n := len(cached) - CacheSize; n > 0 {
		for _, old := range cached[:n] {
			programs.Delete(old)
		}

		cached = slices.Delete(cached, 0, n)
	}
}

func (in *Interpreter) read(ctx context.Context, r io.Reader) (string, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return "", ErrReadSource.Wrap(err)
	}

	in.logger.TraceContext(ctx, "read source", slog.Int("source_bytes", len(data)))

	return string(data), nil
}

func (in *Interpreter) parse(ctx context.Context, source string) (*ast.Program, error) {
	if !in.cache {
		in.logger.TraceContext(ctx, "cache bypass")

		return parseUncached(source)
	}

	hash := xxh3.HashString(source)
	entry := new(parsed)

	value, hit := programs.LoadOrStore(hash, entry)
	entry, _ = value.(*parsed)

	if !hit {
		remember(hash)
	}

	in.logger.TraceContext(
		ctx,
		"cache lookup",
		slog.String("source_hash", strconv.FormatUint(hash, 16)),
		slog.Bool("cache_hit", hit),
	)

	entry.once.Do(func() {
		entry.program, entry.err = parseUncached(source)
	})

	return entry.program, entry.err
}

func parseUncached(source string) (*ast.Program, error) {
	program, errs := parser.Parse(source)
	if len(errs) > 0 {
		return nil, ErrParse.Wrap(NewParseError(errs, source)).
			With(slog.Int("errors", len(errs)))
	}

	return program, nil
}
