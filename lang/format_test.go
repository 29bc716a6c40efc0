package lang

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/wml/lang/ast"
	"github.com/ardnew/wml/lang/parser"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		indent int
		want   string
	}{
		{
			name:   "statements",
			input:  "int a = 1; str b = 'x';a + b;",
			indent: 2,
			want:   "int a = 1;\nstr b = 'x';\na + b;\n",
		},
		{
			name:   "precedence",
			input:  "(1 + 2) * 3; 1 + (2 * 3); 1 - (2 - 3); (1 - 2) - 3; -(a + b); (-a)(b);",
			indent: 0,
			want:   "(1 + 2) * 3; 1 + 2 * 3; 1 - (2 - 3); 1 - 2 - 3; -(a + b); (-a)(b);\n",
		},
		{
			name:   "action",
			input:  "Any f = action(int n, m) { if (n > m) { return n; } else { return m; }; };",
			indent: 4,
			want: "Any f = action(int n, m) {\n" +
				"    if (n > m) {\n" +
				"        return n;\n" +
				"    } else {\n" +
				"        return m;\n" +
				"    };\n" +
				"};\n",
		},
		{
			name:   "model",
			input:  "model Child(Parent) { int x = 1; }; model Empty {}; x;",
			indent: 2,
			want:   "model Child(Parent) {\n  int x = 1;\n};\n\nmodel Empty { };\n\nx;\n",
		},
		{
			name:   "compact",
			input:  "Any f = action() { return; }; f();",
			indent: 0,
			want:   "Any f = action() { return; }; f();\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program, errs := parser.Parse(tt.input)
			if len(errs) > 0 {
				t.Fatalf("parse errors: %v", errs)
			}

			var buf bytes.Buffer
			if err := Format(t.Context(), &buf, program, tt.indent); err != nil {
				t.Fatal(err)
			}

			if buf.String() != tt.want {
				t.Errorf("got\n%s\nwant\n%s", buf.String(), tt.want)
			}

			reparsed, errs := parser.Parse(buf.String())
			if len(errs) > 0 {
				t.Fatalf("formatted output does not parse: %v", errs)
			}

			if reparsed.String() != program.String() {
				t.Errorf("round trip changed the program:\n%s\n%s", reparsed.String(), program.String())
			}
		})
	}
}

func TestFormatJSON(t *testing.T) {
	program, err := ParseString(t.Context(), "int x = -1;", WithCache(false))
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := FormatJSON(t.Context(), &buf, program, 2); err != nil {
		t.Fatal(err)
	}

	var tree struct {
		Node       string `json:"node"`
		Statements []struct {
			Node  string `json:"node"`
			Type  string `json:"type"`
			Name  string `json:"name"`
			Pos   string `json:"pos"`
			Value struct {
				Node     string `json:"node"`
				Operator string `json:"operator"`
			} `json:"value"`
		} `json:"statements"`
	}

	if err := json.Unmarshal(buf.Bytes(), &tree); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}

	if tree.Node != "Program" || len(tree.Statements) != 1 {
		t.Fatalf("tree = %+v", tree)
	}

	s := tree.Statements[0]
	if s.Node != "SetStatement" || s.Type != "int" || s.Name != "x" || s.Pos != "1:1" ||
		s.Value.Node != "Prefix" || s.Value.Operator != "-" {
		t.Errorf("statement = %+v", s)
	}
}

func TestFormatYAML(t *testing.T) {
	program, err := ParseString(t.Context(), "f(1, 'a');", WithCache(false))
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := FormatYAML(t.Context(), &buf, program, 2); err != nil {
		t.Fatal(err)
	}

	var tree map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &tree); err != nil {
		t.Fatalf("invalid YAML: %v\n%s", err, buf.String())
	}

	stmts, _ := tree["statements"].([]any)
	if len(stmts) != 1 {
		t.Fatalf("tree = %v", tree)
	}

	call, _ := stmts[0].(map[string]any)["expression"].(map[string]any)
	if call["node"] != "Call" {
		t.Errorf("expression = %v", call)
	}

	if args, _ := call["arguments"].([]any); len(args) != 2 {
		t.Errorf("arguments = %v", call["arguments"])
	}
}

func TestFormatTokens(t *testing.T) {
	var buf bytes.Buffer
	if err := FormatTokens(t.Context(), &buf, "int x = 5;"); err != nil {
		t.Fatal(err)
	}

	want := []string{
		`1:1 int_type "int"`,
		`1:5 variable "x"`,
		`1:7 assign "="`,
		`1:9 int_value "5"`,
		`1:10 semicolon ";"`,
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != len(want)+1 {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want)+1, buf.String())
	}

	for i, w := range want {
		if lines[i] != w {
			t.Errorf("line %d = %q, want %q", i, lines[i], w)
		}
	}

	if !strings.Contains(lines[len(lines)-1], "eof") {
		t.Errorf("last line = %q, want eof", lines[len(lines)-1])
	}
}

func TestParseCache(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	first, err := ParseString(t.Context(), "1 + 2;")
	if err != nil {
		t.Fatal(err)
	}

	second, err := ParseReader(t.Context(), strings.NewReader("1 + 2;"))
	if err != nil {
		t.Fatal(err)
	}

	if first != second {
		t.Error("identical sources were parsed twice")
	}

	uncached, err := ParseString(t.Context(), "1 + 2;", WithCache(false))
	if err != nil {
		t.Fatal(err)
	}

	if uncached == first {
		t.Error("WithCache(false) returned the cached program")
	}

	ClearCache()

	third, err := ParseString(t.Context(), "1 + 2;")
	if err != nil {
		t.Fatal(err)
	}

	if third == first {
		t.Error("ClearCache kept the cached program")
	}
}

func TestParseCacheEvictsOldest(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	first, err := ParseString(t.Context(), "0;")
	if err != nil {
		t.Fatal(err)
	}

	var last *ast.Program

	for i := 1; i <= CacheSize; i++ {
		if last, err = ParseString(t.Context(), strconv.Itoa(i)+";"); err != nil {
			t.Fatal(err)
		}
	}

	entries := 0

	programs.Range(func(_, _ any) bool {
		entries++

		return true
	})

	if entries != CacheSize {
		t.Errorf("cache holds %d programs, want %d", entries, CacheSize)
	}

	again, err := ParseString(t.Context(), "0;")
	if err != nil {
		t.Fatal(err)
	}

	if again == first {
		t.Error("oldest program was not evicted")
	}

	latest, err := ParseString(t.Context(), strconv.Itoa(CacheSize)+";")
	if err != nil {
		t.Fatal(err)
	}

	if latest != last {
		t.Error("most recent program was evicted")
	}
}
