package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/wml/lang"
)

func TestRunFiles(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		files   map[string]string
		order   []string
		stdout  string
		stderr  string
		wantErr bool
	}{
		{
			name:   "result printed",
			files:  map[string]string{"a.wml": "5 + 5 * 2;"},
			order:  []string{"a.wml"},
			stdout: "15\n",
		},
		{
			name:  "shared environment",
			files: map[string]string{"b.wml": "int base = 40;", "c.wml": "base + 2;"},
			order: []string{"b.wml", "c.wml"},
			// b.wml produces no value
			stdout: "42\n",
		},
		{
			name:    "evaluation error",
			files:   map[string]string{"d.wml": "5 + True;"},
			order:   []string{"d.wml"},
			stderr:  "TypeMismatch: Integer + Boolean on line 1, column 3\n",
			wantErr: true,
		},
		{
			name:    "parse error",
			files:   map[string]string{"e.wml": "int x = ;"},
			order:   []string{"e.wml"},
			stderr:  "ParseError: Expected an expression after `=` at line 1, column 7\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paths := make([]string, 0, len(tt.order))
			for _, name := range tt.order {
				paths = append(paths, writeFile(t, dir, name, tt.files[name]))
			}

			var out, errOut bytes.Buffer

			ctx := WithInterpreter(newContext(t, &out, &errOut, nil), lang.New())

			err := (&Run{Files: paths}).Run(ctx)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Run() error = %v, wantErr %v", err, tt.wantErr)
			}

			if tt.wantErr && !errors.Is(err, ErrRun) {
				t.Errorf("err = %v, want ErrRun", err)
			}

			if out.String() != tt.stdout {
				t.Errorf("stdout = %q, want %q", out.String(), tt.stdout)
			}

			if !strings.HasPrefix(errOut.String(), tt.stderr) {
				t.Errorf("stderr = %q, want prefix %q", errOut.String(), tt.stderr)
			}
		})
	}
}

func TestRunStopsAtFailure(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.wml", "missing;")
	good := writeFile(t, dir, "good.wml", "1;")

	var out, errOut bytes.Buffer

	ctx := newContext(t, &out, &errOut, nil)

	if err := (&Run{Files: []string{bad, good}}).Run(ctx); !errors.Is(err, ErrRun) {
		t.Fatalf("err = %v, want ErrRun", err)
	}

	if out.Len() != 0 {
		t.Errorf("stdout = %q, want nothing after failure", out.String())
	}

	if !strings.HasPrefix(errOut.String(), "NameError: ") {
		t.Errorf("stderr = %q, want NameError", errOut.String())
	}
}

func TestOnlyStdin(t *testing.T) {
	tests := []struct {
		paths []string
		want  bool
	}{
		{nil, true},
		{[]string{"-"}, true},
		{[]string{"-", "-"}, true},
		{[]string{"-", "a.wml"}, false},
		{[]string{"a.wml"}, false},
	}

	for _, tt := range tests {
		if got := onlyStdin(tt.paths); got != tt.want {
			t.Errorf("onlyStdin(%q) = %v, want %v", tt.paths, got, tt.want)
		}
	}
}
