package browse

import (
	"os"
	"path/filepath"
	"testing"
)

func TestHistory_Persistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)

	h := NewHistory(path)
	for _, q := range []string{"alpha", "beta", "alpha", "  ", "gamma", "gamma"} {
		if _, err := h.Write(q); err != nil {
			t.Fatalf("Write(%q): %v", q, err)
		}
	}

	want := []string{"beta", "alpha", "gamma"}

	if h.Len() != len(want) {
		t.Fatalf("Len() = %d, want %d", h.Len(), len(want))
	}

	reloaded := NewHistory(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	for i, w := range want {
		got, err := reloaded.GetLine(i)
		if err != nil || got != w {
			t.Errorf("GetLine(%d) = %q, %v, want %q", i, got, err, w)
		}
	}

	if _, err := reloaded.GetLine(len(want)); err != ErrOutOfBounds {
		t.Errorf("GetLine past end error = %v, want %v", err, ErrOutOfBounds)
	}
}

func TestHistory_LoadMissing(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), "absent"))
	if err := h.Load(); err != nil {
		t.Errorf("Load of missing file: %v", err)
	}

	if h.Len() != 0 {
		t.Errorf("Len() = %d, want 0", h.Len())
	}
}

func TestHistory_InMemory(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	h := NewHistory("")
	if _, err := h.Write("query"); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}

	if len(entries) != 0 || h.Len() != 1 {
		t.Errorf("in-memory history wrote %d files, kept %d entries", len(entries), h.Len())
	}
}
