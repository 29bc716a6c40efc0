package repl

import (
	"regexp"
	"slices"
	"testing"

	"github.com/ardnew/wml/lang"
)

var ansiSeq = regexp.MustCompile("\x1b\\[[0-9;]*m")

func stripANSI(s string) string { return ansiSeq.ReplaceAllString(s, "") }

func TestDetectFunctionCall(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		cursor     int
		wantName   string
		wantIndex  int
		wantInCall bool
	}{
		{"no call", "greeting", 8, "", 0, false},
		{"first arg", "add(", 4, "add", 0, true},
		{"first arg with value", "add(1", 5, "add", 0, true},
		{"second arg", "add(1,", 6, "add", 1, true},
		{"second arg with value", "add(1, 2", 8, "add", 1, true},
		{"closed call", "add(1, 2)", 9, "", 0, false},
		{"nested inner", "outer(inner(1, ", 15, "inner", 1, true},
		{"nested outer", "outer(inner(1, 2), ", 19, "outer", 1, true},
		{"grouping paren", "(1 + ", 5, "", 0, false},
		{"cursor before call", "add(1, 2", 2, "", 0, false},
		{"after assignment", "int x = add(", 12, "add", 0, true},
		{"underscore name", "my_fn(a, b, ", 12, "my_fn", 2, true},
		{"cursor beyond input", "f(", 10, "f", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectFunctionCall(tt.input, tt.cursor)

			if got.inCall != tt.wantInCall || got.name != tt.wantName || got.argIndex != tt.wantIndex {
				t.Errorf("detectFunctionCall(%q, %d) = %+v, want {%s %d %v}",
					tt.input, tt.cursor, got, tt.wantName, tt.wantIndex, tt.wantInCall)
			}
		})
	}
}

func TestGetSignature(t *testing.T) {
	in := lang.New()

	_, err := in.Run(t.Context(), `
		Any add = action(int x, y) { x + y };
		Any noop = action() { };
		str greeting = 'hello';
	`)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		fn     string
		want   []string
		wantOK bool
	}{
		{"typed action", "add", []string{"int x", "y"}, true},
		{"no parameters", "noop", []string{}, true},
		{"builtin length", "length", []string{"s"}, true},
		{"builtin prefix", "prefix", []string{"list", "...items"}, true},
		{"not callable", "greeting", nil, false},
		{"unbound", "doesnotexist", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := getSignature(in, tt.fn)
			if ok != tt.wantOK {
				t.Fatalf("getSignature(%q) ok = %v, want %v", tt.fn, ok, tt.wantOK)
			}

			if !slices.Equal(got, tt.want) && len(got)+len(tt.want) > 0 {
				t.Errorf("getSignature(%q) = %q, want %q", tt.fn, got, tt.want)
			}
		})
	}
}

func TestRenderSignatureHint(t *testing.T) {
	tests := []struct {
		name   string
		fn     string
		params []string
		arg    int
		want   string
	}{
		{"no params", "noop", nil, 0, "noop()"},
		{"two params", "add", []string{"int x", "y"}, 1, "add(int x, y)"},
		{"variadic", "prefix", []string{"list", "...items"}, 3, "prefix(list, ...items)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stripANSI(renderSignatureHint(tt.fn, tt.params, tt.arg))
			if got != tt.want {
				t.Errorf("renderSignatureHint() = %q, want %q", got, tt.want)
			}
		})
	}
}
