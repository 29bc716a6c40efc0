package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/ardnew/wml/lang"
)

func TestFlagValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"nil", nil, nil},
		{"bool", true, true},
		{"string", "debug", "debug"},
		{"uint", uint64(500), "500"},
		{"negative", int64(-3), "-3"},
		{"float", 1.25, "1.25"},
		{"list", []any{"a", uint64(2)}, "a,2"},
		{"map", map[string]any{"B": uint64(2), "A": "x"}, "A=x;B=2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := flagValue(tt.in); got != tt.want {
				t.Errorf("flagValue(%v) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestResolveYAML(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantLevel string
		wantDepth int
		wantPaths string
		wantConst map[string]string
	}{
		{
			name:      "hyphenated",
			content:   "log-level: debug\nmax-depth: 500\n",
			wantLevel: "debug",
			wantDepth: 500,
		},
		{
			name:      "underscored",
			content:   "log_level: warn\nmax_depth: 7\nsearch-paths: [a, b]\n",
			wantLevel: "warn",
			wantDepth: 7,
			wantPaths: "a,b",
		},
		{
			name:      "constants",
			content:   "const:\n  BASE: 40\n  NAME: '\"x\"'\n",
			wantLevel: "info",
			wantDepth: 100,
			wantConst: map[string]string{"BASE": "40", "NAME": `"x"`},
		},
		{
			name:      "not a mapping",
			content:   "- just\n- a list\n",
			wantLevel: "info",
			wantDepth: 100,
		},
		{
			name:      "empty",
			content:   "",
			wantLevel: "info",
			wantDepth: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o600); err != nil {
				t.Fatal(err)
			}

			var cli struct {
				LogLevel    string            `default:"info"`
				MaxDepth    int               `default:"100"`
				SearchPaths string            ``
				Const       map[string]string ``
			}

			parser, err := kong.New(&cli, kong.Configuration(resolve(t.Context()), path))
			if err != nil {
				t.Fatal(err)
			}

			if _, err := parser.Parse(nil); err != nil {
				t.Fatal(err)
			}

			if cli.LogLevel != tt.wantLevel || cli.MaxDepth != tt.wantDepth || cli.SearchPaths != tt.wantPaths {
				t.Errorf("got (%q, %d, %q), want (%q, %d, %q)",
					cli.LogLevel, cli.MaxDepth, cli.SearchPaths,
					tt.wantLevel, tt.wantDepth, tt.wantPaths)
			}

			for k, v := range tt.wantConst {
				if cli.Const[k] != v {
					t.Errorf("const %s = %q, want %q", k, cli.Const[k], v)
				}
			}
		})
	}
}

func TestResolveCommandLineWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("max-depth: 500\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	var cli struct {
		MaxDepth int `default:"100"`
	}

	parser, err := kong.New(&cli, kong.Configuration(resolve(t.Context()), path))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := parser.Parse([]string{"--max-depth=9"}); err != nil {
		t.Fatal(err)
	}

	if cli.MaxDepth != 9 {
		t.Errorf("MaxDepth = %d, want 9", cli.MaxDepth)
	}
}

func TestInterpreterConstants(t *testing.T) {
	cli := CLI{
		MaxDepth: lang.DefaultMaxDepth,
		Const: map[string]string{
			"BASE":   "40",
			"DOUBLE": "BASE * 2",
			"GREET":  `"hi"`,
		},
	}

	in, err := cli.interpreter(t.Context())
	if err != nil {
		t.Fatal(err)
	}

	v, err := in.Run(t.Context(), "DOUBLE + 2;")
	if err != nil || v.Inspect() != "82" {
		t.Errorf("DOUBLE + 2 = %v, %v; want 82", v, err)
	}

	tests := []struct {
		name  string
		consts map[string]string
	}{
		{"variable name", map[string]string{"lower": "1"}},
		{"model name", map[string]string{"Model": "1"}},
		{"bad expression", map[string]string{"BAD": "1 +"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bad := CLI{MaxDepth: lang.DefaultMaxDepth, Const: tt.consts}

			if _, err := bad.interpreter(t.Context()); !errors.Is(err, ErrConst) {
				t.Errorf("err = %v, want ErrConst", err)
			}
		})
	}
}

func TestLogScan(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantLevel  string
		wantFormat string
		wantPretty bool
		wantCaller bool
	}{
		{"separate values", []string{"run", "--log-level", "debug", "--log-format", "json"}, "debug", "json", true, false},
		{"assigned values", []string{"--log-level=warn", "--no-log-pretty", "--log-caller"}, "warn", "", false, true},
		{"negated assignment", []string{"--no-log-caller=false", "--log-pretty=false"}, "", "", false, true},
		{"value looks like flag", []string{"--log-level", "--log-caller"}, "", "", true, true},
		{"unrelated", []string{"-D", "X=1", "file.wml"}, "", "", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := logConfig{Pretty: true}
			conf.scan(tt.args)

			if string(conf.Level) != tt.wantLevel || string(conf.Format) != tt.wantFormat ||
				conf.Pretty != tt.wantPretty || conf.Caller != tt.wantCaller {
				t.Errorf("scan(%s) = %+v", strings.Join(tt.args, " "), conf)
			}
		})
	}
}
