package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
)

// newContext returns a context carrying an empty kong application that
// writes to stdout and stderr.
func newContext(t *testing.T, stdout, stderr io.Writer, vars kong.Vars) context.Context {
	t.Helper()

	var cli struct{}

	parser, err := kong.New(&cli, kong.Writers(stdout, stderr), vars)
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(nil)
	if err != nil {
		t.Fatal(err)
	}

	return WithContext(t.Context(), ktx)
}

// writeFile creates a file named name under dir with the given content.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

// readSources reads each source in order.
func readSources(t *testing.T, srcs sources) []string {
	t.Helper()

	got := make([]string, 0, len(srcs))

	for _, src := range srcs {
		if src.name == stdinSource {
			got = append(got, stdinSource)

			continue
		}

		b, err := io.ReadAll(src)
		if err != nil {
			t.Fatal(err)
		}

		got = append(got, string(b))
	}

	return got
}

func TestOpenSources(t *testing.T) {
	dir := t.TempDir()

	first := writeFile(t, dir, "first.wml", "first")
	second := writeFile(t, dir, "second.wml", "second")
	link := filepath.Join(dir, "link.wml")

	if err := os.Symlink(first, link); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		paths []string
		want  []string
	}{
		{"single", []string{first}, []string{"first"}},
		{"ordered", []string{second, first}, []string{"second", "first"}},
		{"duplicate", []string{first, first}, []string{"first"}},
		{"symlink", []string{first, link, second}, []string{"first", "second"}},
		{"stdin last", []string{"-", first}, []string{"first", "-"}},
		{"stdin collapsed", []string{"-", first, "-"}, []string{"first", "-"}},
		{"missing skipped", []string{filepath.Join(dir, "missing"), second}, []string{"second"}},
		{"default stdin", nil, []string{"-"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srcs, err := openSources(t.Context(), tt.paths)
			if err != nil {
				t.Fatal(err)
			}
			defer srcs.Close()

			got := readSources(t, srcs)
			if len(got) != len(tt.want) {
				t.Fatalf("got %q, want %q", got, tt.want)
			}

			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("source %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestOpenSourcesRelativeAbsolute(t *testing.T) {
	dir := t.TempDir()
	abs := writeFile(t, dir, "prog.wml", "prog")

	t.Chdir(dir)

	srcs, err := openSources(t.Context(), []string{"prog.wml", abs, "./prog.wml"})
	if err != nil {
		t.Fatal(err)
	}
	defer srcs.Close()

	if len(srcs) != 1 {
		t.Errorf("got %d sources, want 1", len(srcs))
	}
}

func TestOpenSourcesNoneReadable(t *testing.T) {
	dir := t.TempDir()

	_, err := openSources(t.Context(), []string{
		filepath.Join(dir, "a"),
		filepath.Join(dir, "b"),
	})
	if !errors.Is(err, ErrNoSource) {
		t.Errorf("err = %v, want ErrNoSource", err)
	}
}

func TestStreams(t *testing.T) {
	var out, errOut bytes.Buffer

	ctx := newContext(t, &out, &errOut, nil)

	if stdout(ctx) != &out {
		t.Error("stdout does not use the kong writer")
	}

	if stderr(ctx) != &errOut {
		t.Error("stderr does not use the kong writer")
	}

	if stdout(t.Context()) != os.Stdout {
		t.Error("stdout without kong context is not os.Stdout")
	}
}

func TestErrorIs(t *testing.T) {
	err := ErrWriteConfig.Wrap(ErrFileExists)

	if !errors.Is(err, ErrWriteConfig) {
		t.Error("wrapped error does not match its sentinel")
	}

	if !errors.Is(err, ErrFileExists) {
		t.Error("wrapped error does not match its cause")
	}

	if errors.Is(err, ErrRun) {
		t.Error("wrapped error matches an unrelated sentinel")
	}

	if want := "write configuration file: file exists (use --force to overwrite)"; err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}
