package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/spf13/afero"
)

func TestWithContext(t *testing.T) {
	if got := kongContextFrom(context.Background()); got != nil {
		t.Errorf("kongContextFrom(empty) = %v, want nil", got)
	}

	var cli struct{}

	parser, err := kong.New(&cli)
	if err != nil {
		t.Fatal(err)
	}

	kctx, err := parser.Parse(nil)
	if err != nil {
		t.Fatal(err)
	}

	if got := kongContextFrom(WithContext(context.Background(), kctx)); got != kctx {
		t.Errorf("kongContextFrom() = %v, want %v", got, kctx)
	}
}

func TestOverlayFs(t *testing.T) {
	dir := writeFiles(t, map[string]string{"real.ini": "a = 1\n"})
	virtual := filepath.Join(dir, "virtual.ini")

	fs, err := OverlayFs(virtual, []byte("b = 2\n"))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		path string
		want string
	}{
		{virtual, "b = 2\n"},
		{filepath.Join(dir, "real.ini"), "a = 1\n"},
	}

	for _, tt := range tests {
		t.Run(filepath.Base(tt.path), func(t *testing.T) {
			got, err := afero.ReadFile(fs, tt.path)
			if err != nil {
				t.Fatalf("ReadFile(%q) error = %v", tt.path, err)
			}

			if string(got) != tt.want {
				t.Errorf("ReadFile(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}

	if _, err := os.Stat(virtual); !os.IsNotExist(err) {
		t.Errorf("overlay file leaked to disk: %v", err)
	}
}

func TestOptionsLoad_StdinIncludesWorkingDir(t *testing.T) {
	dir := writeFiles(t, map[string]string{"common.ini": "shared = yes\n"})
	t.Chdir(dir)

	var o Options

	l, tr, err := o.load(context.Background(), stdinSource,
		strings.NewReader("[app]\nbase = $<common>\n"))
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}

	if got, _ := tr.Lookup("app.base.shared", "."); got != true {
		t.Errorf("app.base.shared = %v, want true", got)
	}

	if got, _ := l.Table().Get("app.base.shared"); got != true {
		t.Errorf("table app.base.shared = %v, want true", got)
	}
}
