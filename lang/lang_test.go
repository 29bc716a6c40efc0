package lang

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/wml/lang/builtin"
	"github.com/ardnew/wml/lang/object"
	"github.com/ardnew/wml/log"
)

func TestRun(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"arithmetic", "5 + 5 * 2;", "15"},
		{"mixed numbers", "10 / 4;", "2.5"},
		{"strings", `"wml" + '!';`, `"wml!"`},
		{"length", "length('four');", "4"},
		{"type", "type(1.5);", `"Float"`},
		{"closure", "Any add = action(a) { action(b) { a + b } }; add(2)(3);", "5"},
		{
			name: "recursion",
			input: `Any fib = action(int n) {
				if (n < 2) { return n; };
				return fib(n - 1) + fib(n - 2);
			};
			fib(10);`,
			want: "55",
		},
		{"no result", "int x = 1;", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := New().Run(t.Context(), tt.input)
			if err != nil {
				t.Fatalf("Run(%q) error: %v", tt.input, err)
			}

			var got string
			if v != nil {
				got = v.Inspect()
			}

			if got != tt.want {
				t.Errorf("Run(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRunPersistentEnvironment(t *testing.T) {
	in := New()

	if _, err := in.Run(t.Context(), "int count = 41;"); err != nil {
		t.Fatal(err)
	}

	v, err := in.Run(t.Context(), "count + 1;")
	if err != nil {
		t.Fatal(err)
	}

	if v.Inspect() != "42" {
		t.Errorf("got %s, want 42", v.Inspect())
	}

	in.Reset()

	if _, err := in.Run(t.Context(), "count;"); !errors.Is(err, object.ErrName) {
		t.Errorf("after Reset: err = %v, want NameError", err)
	}
}

func TestRunEvaluationError(t *testing.T) {
	_, err := New().Run(t.Context(), "5 + True;")

	if !errors.Is(err, ErrEvaluate) {
		t.Fatalf("err = %v, want ErrEvaluate", err)
	}

	var oe *object.Error
	if !errors.As(err, &oe) {
		t.Fatalf("err = %v does not wrap *object.Error", err)
	}

	if want := "TypeMismatch: Integer + Boolean on line 1, column 3"; oe.Error() != want {
		t.Errorf("got %q, want %q", oe.Error(), want)
	}
}

func TestRunParseError(t *testing.T) {
	_, err := New().Run(t.Context(), "int x = ;")

	if !errors.Is(err, ErrParse) {
		t.Fatalf("err = %v, want ErrParse", err)
	}

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v does not wrap *ParseError", err)
	}

	if len(pe.Errors) != 1 {
		t.Fatalf("got %d errors, want 1", len(pe.Errors))
	}

	want := "ParseError: Expected an expression after `=` at line 1, column 7\n" +
		"  1 | int x = ;\n" +
		strings.Repeat(" ", 12) + "^"

	if pe.Error() != want {
		t.Errorf("got\n%s\nwant\n%s", pe.Error(), want)
	}
}

func TestParseErrorMultiline(t *testing.T) {
	_, err := ParseString(t.Context(), "int a = 1;\nint B = 2;\n", WithCache(false))

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want *ParseError", err)
	}

	if !strings.Contains(pe.Error(), "\n  2 | int B = 2;\n") {
		t.Errorf("missing source excerpt:\n%s", pe.Error())
	}
}

func TestDefine(t *testing.T) {
	in := New()

	if err := in.Define("MAX", &object.Integer{Value: 3}); err != nil {
		t.Fatal(err)
	}

	v, err := in.Run(t.Context(), "MAX * 2;")
	if err != nil || v.Inspect() != "6" {
		t.Fatalf("got %v, %v", v, err)
	}

	err = in.Define("MAX", &object.Integer{Value: 4})
	if !errors.Is(err, ErrDefine) || !errors.Is(err, object.ErrConstantReassignment) {
		t.Errorf("rebinding constant: err = %v", err)
	}

	if err := in.Define("not-a-name", &object.Null{}); !errors.Is(err, object.ErrName) {
		t.Errorf("invalid name: err = %v", err)
	}
}

func TestResetKeepsDefinitions(t *testing.T) {
	in := New()

	if err := in.DefineExpr(t.Context(), "PI", "3.14"); err != nil {
		t.Fatal(err)
	}

	if _, err := in.Run(t.Context(), "flt area = PI * 2;"); err != nil {
		t.Fatal(err)
	}

	in.Reset()

	v, err := in.Run(t.Context(), "PI;")
	if err != nil || v.Inspect() != "3.14" {
		t.Fatalf("PI after Reset = %v, %v", v, err)
	}

	if _, err := in.Run(t.Context(), "area;"); !errors.Is(err, object.ErrName) {
		t.Errorf("area after Reset: err = %v, want NameError", err)
	}

	if err := in.Define("PI", &object.Float{Value: 3}); !errors.Is(err, object.ErrConstantReassignment) {
		t.Errorf("rebinding PI after Reset: err = %v", err)
	}
}

func TestDefineExpr(t *testing.T) {
	t.Setenv("WML_TEST_ROOT", "/srv/wml")

	tests := []struct {
		name, expr, want string
	}{
		{"BASE", "40 + 2", "42"},
		{"DOUBLE", "BASE * 2", "84"},
		{"RATIO", "1.5", "1.5"},
		{"ROOT", `env("WML_TEST_ROOT")`, `"/srv/wml"`},
		{"ENABLED", "BASE > 10", "True"},
		{"NOTHING", "nil", "Null"},
	}

	in := New()

	for _, tt := range tests {
		if err := in.DefineExpr(t.Context(), tt.name, tt.expr); err != nil {
			t.Fatalf("DefineExpr(%s, %q): %v", tt.name, tt.expr, err)
		}

		v, err := in.Run(t.Context(), tt.name+";")
		if err != nil {
			t.Fatal(err)
		}

		if v.Inspect() != tt.want {
			t.Errorf("%s = %s, want %s", tt.name, v.Inspect(), tt.want)
		}
	}

	if err := in.DefineExpr(t.Context(), "BAD", "1 +"); !errors.Is(err, ErrDefine) {
		t.Errorf("invalid expression: err = %v", err)
	}

	if err := in.DefineExpr(t.Context(), "LIST", "[1, 2]"); !errors.Is(err, ErrNativeType) {
		t.Errorf("list result: err = %v", err)
	}
}

func TestFromNative(t *testing.T) {
	tests := []struct {
		in   any
		kind object.Kind
		want string
	}{
		{int8(-4), object.IntegerKind, "-4"},
		{uint16(7), object.IntegerKind, "7"},
		{float32(0.5), object.FloatKind, "0.5"},
		{2.0, object.FloatKind, "2.0"},
		{`say "hi"`, object.StringKind, `'say "hi"'`},
		{false, object.BooleanKind, "False"},
		{nil, object.NullKind, "Null"},
	}

	for _, tt := range tests {
		v, err := FromNative(tt.in)
		if err != nil {
			t.Fatalf("FromNative(%v): %v", tt.in, err)
		}

		if v.Kind() != tt.kind || v.Inspect() != tt.want {
			t.Errorf("FromNative(%v) = %s %s, want %s %s", tt.in, v.Kind(), v.Inspect(), tt.kind, tt.want)
		}

		if native, ok := ToNative(v); !ok || (tt.in != nil && native == nil) {
			t.Errorf("ToNative(%s) = %v, %v", v.Inspect(), native, ok)
		}
	}

	if _, err := FromNative(struct{}{}); !errors.Is(err, ErrNativeType) {
		t.Errorf("struct: err = %v", err)
	}
}

func TestWithBuiltins(t *testing.T) {
	r := builtin.Registry{}
	r.Register("answer", func(...object.Value) (object.Value, error) {
		return &object.Integer{Value: 42}, nil
	})

	in := New(WithBuiltins(r))

	v, err := in.Run(t.Context(), "answer();")
	if err != nil || v.Inspect() != "42" {
		t.Fatalf("got %v, %v", v, err)
	}

	if _, err := in.Run(t.Context(), "length('x');"); !errors.Is(err, object.ErrName) {
		t.Errorf("default built-in still visible: err = %v", err)
	}
}

func TestWithMaxDepth(t *testing.T) {
	in := New(WithMaxDepth(20))

	_, err := in.Run(t.Context(), "Any loop = action(n) { loop(n + 1) }; loop(0);")
	if !errors.Is(err, object.ErrRecursion) {
		t.Errorf("err = %v, want RecursionError", err)
	}
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer

	logger := log.Make(&buf, log.WithLevel(log.LevelTrace), log.WithFormat(log.FormatJSON))

	if _, err := New(WithLogger(logger), WithCache(false)).Run(t.Context(), "1 + 1;"); err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{`"msg":"evaluate"`, `"msg":"result"`, `"value":"2"`} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("log output missing %s:\n%s", want, buf.String())
		}
	}
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	if _, err := New().Run(ctx, "1;"); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
