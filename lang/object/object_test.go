package object

import (
	"errors"
	"testing"

	"github.com/ardnew/wml/lang/token"
)

func TestInspect(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  string
	}{
		{"integer", &Integer{Value: -42}, "-42"},
		{"float", &Float{Value: 10.5}, "10.5"},
		{"integral float", &Float{Value: 1}, "1.0"},
		{"large float", &Float{Value: 1e20}, "1e+20"},
		{"string", &String{Value: `'foo'`}, `'foo'`},
		{"true", &Boolean{Value: true}, "True"},
		{"false", &Boolean{}, "False"},
		{"null", &Null{}, "Null"},
		{"builtin", &BuiltIn{Name: "length"}, "Built-in function"},
		{"return", &Return{Value: &Integer{Value: 7}}, "7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.value.Inspect(); got != tt.want {
				t.Errorf("Inspect() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStringContent(t *testing.T) {
	tests := []struct {
		raw     string
		quote   byte
		content string
	}{
		{`'foo'`, '\'', "foo"},
		{`"bar"`, '"', "bar"},
		{`'it\'s'`, '\'', "it's"},
		{`"say \"hi\""`, '"', `say "hi"`},
		{`''`, '\'', ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			s := &String{Value: tt.raw}
			if s.Quote() != tt.quote || s.Content() != tt.content {
				t.Errorf("got %c %q, want %c %q", s.Quote(), s.Content(), tt.quote, tt.content)
			}
		})
	}
}

func TestQuote(t *testing.T) {
	tests := []struct{ in, want string }{
		{"plain", `"plain"`},
		{`say "hi"`, `'say "hi"'`},
		{`it's "x"`, `"it's \"x\""`},
		{`a\"bit's`, `"a\\"bit's"`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := Quote(tt.in)
			if got.Value != tt.want {
				t.Errorf("Quote(%q) = %s, want %s", tt.in, got.Value, tt.want)
			}

			if got.Content() != tt.in {
				t.Errorf("Quote(%q).Content() = %q", tt.in, got.Content())
			}
		})
	}
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  bool
	}{
		{"null", &Null{}, false},
		{"true", &Boolean{Value: true}, true},
		{"false", &Boolean{}, false},
		{"zero", &Integer{}, false},
		{"nonzero", &Integer{Value: 5}, true},
		{"zero float", &Float{}, false},
		{"float", &Float{Value: 0.1}, true},
		{"empty string", &String{Value: `''`}, true},
		{"builtin", &BuiltIn{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truthy(tt.value); got != tt.want {
				t.Errorf("Truthy() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	fn := &Action{}

	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"integers", &Integer{Value: 1}, &Integer{Value: 1}, true},
		{"different integers", &Integer{Value: 1}, &Integer{Value: 2}, false},
		{"mixed kinds", &Integer{Value: 1}, &Float{Value: 1}, false},
		{"strings by content", &String{Value: `"Hello"`}, &String{Value: `'Hello'`}, true},
		{"booleans", &Boolean{Value: true}, &Boolean{Value: true}, true},
		{"nulls", &Null{}, &Null{}, true},
		{"same action", fn, fn, true},
		{"different actions", fn, &Action{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAccepts(t *testing.T) {
	if !IntegerKind.Accepts(token.IntType) || IntegerKind.Accepts(token.FloatType) {
		t.Error("int annotation")
	}

	if !ActionKind.Accepts(token.AnyType) || ActionKind.Accepts(token.StrType) {
		t.Error("Any annotation")
	}

	if got := FloatKind.Keyword(); got != "flt" {
		t.Errorf("Keyword() = %q", got)
	}
}

func TestEnvironment(t *testing.T) {
	outer := NewEnvironment()
	outer.Set("a", &Integer{Value: 1})
	outer.Set("b", &Integer{Value: 2})

	inner := NewEnclosedEnvironment(outer)
	inner.Set("b", &Integer{Value: 20})
	inner.Set("c", &Integer{Value: 30})

	if v, ok := inner.Get("a"); !ok || v.(*Integer).Value != 1 {
		t.Errorf("inner a = %v, %v", v, ok)
	}

	if v, _ := inner.Get("b"); v.(*Integer).Value != 20 {
		t.Errorf("inner b = %v", v)
	}

	if v, _ := outer.Get("b"); v.(*Integer).Value != 2 {
		t.Errorf("outer b = %v", v)
	}

	if _, ok := outer.Get("c"); ok {
		t.Error("outer sees inner binding")
	}

	if _, ok := inner.Get("missing"); ok {
		t.Error("missing name resolved")
	}

	if inner.Has("a") || !inner.Has("c") {
		t.Error("Has must only consult the local frame")
	}

	if inner.Outer() != outer {
		t.Error("Outer() mismatch")
	}

	names := inner.Names()
	if len(names) != 3 || names[0] != "a" || names[2] != "c" {
		t.Errorf("Names() = %v", names)
	}
}

func TestError(t *testing.T) {
	err := NewError(TypeMismatch, token.Pos{Line: 1, Column: 3}, "Integer + Boolean")

	if got := err.Error(); got != "TypeMismatch: Integer + Boolean on line 1, column 3" {
		t.Errorf("Error() = %q", got)
	}

	if !errors.Is(err, ErrTypeMismatch) || errors.Is(err, ErrName) {
		t.Error("errors.Is does not match by kind")
	}

	unplaced := NewError(InvalidNumberOfArguments, token.Pos{}, "Expected 1, got 2")
	if got := unplaced.Error(); got != "InvalidNumberOfArguments: Expected 1, got 2" {
		t.Errorf("Error() = %q", got)
	}

	placed := unplaced.At(token.Pos{Line: 2, Column: 1})
	if placed.Pos.Line != 2 || unplaced.Pos.Line != 0 {
		t.Error("At must copy")
	}

	if placed.At(token.Pos{Line: 9, Column: 9}) != placed {
		t.Error("At must keep an existing position")
	}
}
