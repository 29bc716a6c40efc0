package builtin

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/ardnew/wml/lang/object"
)

func str(raw string) *object.String { return &object.String{Value: raw} }

func TestLength(t *testing.T) {
	tests := []struct {
		name string
		args []object.Value
		want int64
		err  error
	}{
		{"empty", []object.Value{str(`''`)}, 0, nil},
		{"four", []object.Value{str(`"four"`)}, 4, nil},
		{"escaped quote", []object.Value{str(`'it\'s'`)}, 4, nil},
		{"runes", []object.Value{str(`'héllo'`)}, 5, nil},
		{"integer", []object.Value{&object.Integer{Value: 1}}, 0, object.ErrUnsupportedArgumentType},
		{"two", []object.Value{str(`'one'`), str(`'two'`)}, 0, object.ErrInvalidNumberOfArgs},
		{"none", nil, 0, object.ErrInvalidNumberOfArgs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Length(tt.args...)

			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Fatalf("err = %v, want %v", err, tt.err)
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if n := got.(*object.Integer).Value; n != tt.want {
				t.Errorf("Length() = %d, want %d", n, tt.want)
			}
		})
	}
}

func TestLengthMessages(t *testing.T) {
	_, err := Length(&object.Integer{Value: 1})
	if err == nil || err.Error() != "UnsupportedArgumentType: Expected String, got Integer" {
		t.Errorf("err = %v", err)
	}

	_, err = Length(str(`'one'`), str(`'two'`))
	if err == nil || err.Error() != "InvalidNumberOfArguments: Expected 1, got 2" {
		t.Errorf("err = %v", err)
	}
}

func TestType(t *testing.T) {
	got, err := Type(&object.Float{Value: 1})
	if err != nil {
		t.Fatal(err)
	}

	if got.Inspect() != `"Float"` {
		t.Errorf("Type() = %s", got.Inspect())
	}
}

func TestPrefix(t *testing.T) {
	sep := string(os.PathListSeparator)

	got, err := Prefix(str(`'/usr/bin'`), str(`'/opt/bin'`))
	if err != nil {
		t.Fatal(err)
	}

	s, ok := got.(*object.String)
	if !ok {
		t.Fatalf("Prefix() returned %T", got)
	}

	parts := strings.Split(s.Content(), sep)
	if len(parts) < 2 || parts[0] != "/opt/bin" {
		t.Errorf("Prefix() = %s", s.Inspect())
	}

	if _, err := Prefix(); !errors.Is(err, object.ErrInvalidNumberOfArgs) {
		t.Errorf("err = %v", err)
	}

	if _, err := Prefix(str(`'a'`), &object.Boolean{}); !errors.Is(err, object.ErrUnsupportedArgumentType) {
		t.Errorf("err = %v", err)
	}
}

func TestDefault(t *testing.T) {
	r := Default()

	for _, name := range []string{"length", "prefix", "type"} {
		if _, ok := r.Lookup(name); !ok {
			t.Errorf("missing built-in %q", name)
		}
	}

	r.Register("extra", Type)

	if _, ok := Default().Lookup("extra"); ok {
		t.Error("Default() must return a copy")
	}

	if names := r.Names(); names[0] != "extra" {
		t.Errorf("Names() = %v", names)
	}
}
