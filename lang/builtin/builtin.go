// Package builtin provides the host functions reachable from wml programs
// when a name is not bound in the environment.
package builtin

import (
	"maps"
	"os"
	"slices"
	"strconv"
	"sync"
	"unicode/utf8"

	"github.com/ardnew/mung"

	"github.com/ardnew/wml/lang/object"
	"github.com/ardnew/wml/lang/token"
)

// Registry maps names to host functions.
type Registry map[string]*object.BuiltIn

// Lookup returns the built-in bound to name.
func (r Registry) Lookup(name string) (*object.BuiltIn, bool) {
	fn, ok := r[name]

	return fn, ok
}

// Names returns the registered names, sorted.
func (r Registry) Names() []string {
	return slices.Sorted(maps.Keys(r))
}

// Register adds fn under name, replacing any previous binding.
func (r Registry) Register(name string, fn object.BuiltInFunc) {
	r[name] = &object.BuiltIn{Name: name, Fn: fn}
}

//nolint:gochecknoglobals
var (
	defaults     Registry
	defaultsOnce sync.Once
)

// Default returns a copy of the standard registry.
func Default() Registry {
	defaultsOnce.Do(func() {
		defaults = Registry{}
		defaults.Register("length", Length)
		defaults.Register("prefix", Prefix)
		defaults.Register("type", Type)
	})

	return maps.Clone(defaults)
}

// Length returns the number of characters between the quotes of a string.
func Length(args ...object.Value) (object.Value, error) {
	if err := arity(1, args); err != nil {
		return nil, err
	}

	s, err := stringArg(args[0])
	if err != nil {
		return nil, err
	}

	return &object.Integer{
		Token: s.Token,
		Value: int64(utf8.RuneCountInString(s.Content())),
	}, nil
}

// Prefix returns a path list with items placed in front of the entries of
// list, using the host's path list separator.
func Prefix(args ...object.Value) (object.Value, error) {
	if len(args) < 1 {
		return nil, object.NewError(object.InvalidNumberOfArguments, token.Pos{},
			"Expected at least 1, got 0")
	}

	list, err := stringArg(args[0])
	if err != nil {
		return nil, err
	}

	items := make([]string, 0, len(args)-1)

	for _, arg := range args[1:] {
		s, err := stringArg(arg)
		if err != nil {
			return nil, err
		}

		items = append(items, s.Content())
	}

	joined := mung.Make(
		mung.WithSubjectItems(list.Content()),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(items...),
	).String()

	return object.Quote(joined), nil
}

// Type returns the kind name of its argument as a string.
func Type(args ...object.Value) (object.Value, error) {
	if err := arity(1, args); err != nil {
		return nil, err
	}

	return object.Quote(args[0].Kind().String()), nil
}

func arity(want int, args []object.Value) error {
	if len(args) != want {
		return object.NewError(object.InvalidNumberOfArguments, token.Pos{},
			"Expected "+strconv.Itoa(want)+", got "+strconv.Itoa(len(args)))
	}

	return nil
}

func stringArg(v object.Value) (*object.String, error) {
	s, ok := v.(*object.String)
	if !ok {
		return nil, object.NewError(object.UnsupportedArgumentType, token.Pos{},
			"Expected "+object.StringKind.String()+", got "+v.Kind().String())
	}

	return s, nil
}
