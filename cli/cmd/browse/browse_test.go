package browse

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/dotini/log"
)

var sample = []Row{
	{"name", "demo"},
	{"server.host", "localhost"},
	{"server.port", "8080"},
	{"db.port", "5432"},
}

func testModel(t *testing.T) model {
	t.Helper()

	return newModel(context.Background(), sample, NewHistory(""), log.Make(nil))
}

func typeText(m model, s string) model {
	for _, r := range s {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(model)
	}

	return m
}

func press(m model, k tea.KeyType) (model, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: k})

	return next.(model), cmd
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"empty_keeps_order", "", []string{"name", "server.host", "server.port", "db.port"}},
		{"blank_keeps_order", "  ", []string{"name", "server.host", "server.port", "db.port"}},
		{"exact", "db.port", []string{"db.port"}},
		{"fuzzy", "svport", []string{"server.port"}},
		{"none", "zzz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, m := range filter(tt.query, rows(sample)) {
				got = append(got, m.Str)
			}

			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("filter(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestModel_Navigation(t *testing.T) {
	m := testModel(t)

	m, _ = press(m, tea.KeyUp)
	if m.cursor != 0 {
		t.Errorf("cursor above first row = %d, want 0", m.cursor)
	}

	for range 10 {
		m, _ = press(m, tea.KeyDown)
	}

	if m.cursor != len(sample)-1 {
		t.Errorf("cursor past last row = %d, want %d", m.cursor, len(sample)-1)
	}

	row, ok := m.selected()
	if !ok || row.Path != "db.port" {
		t.Errorf("selected() = %v, %v, want db.port", row, ok)
	}
}

func TestModel_Scroll(t *testing.T) {
	m := testModel(t)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: chromeLines + 2})
	m = next.(model)

	m, _ = press(m, tea.KeyPgDown)

	if m.cursor != 2 || m.offset != 1 {
		t.Errorf("after page down cursor=%d offset=%d, want 2 and 1", m.cursor, m.offset)
	}

	view := m.View()
	if strings.Contains(view, "name") {
		t.Errorf("scrolled view still shows first row:\n%s", view)
	}

	if !strings.Contains(view, "server.port") {
		t.Errorf("scrolled view hides cursor row:\n%s", view)
	}
}

func TestModel_FilterAndSelect(t *testing.T) {
	m := typeText(testModel(t), "port")

	if len(m.matches) != 2 {
		t.Fatalf("matches for %q = %d, want 2", "port", len(m.matches))
	}

	m, cmd := press(m, tea.KeyEnter)
	if cmd == nil {
		t.Fatal("enter on a match returned no command")
	}

	if m.history.Len() != 1 {
		t.Errorf("history length = %d, want 1", m.history.Len())
	}

	if !strings.Contains(m.View(), "2/4") {
		t.Errorf("status line missing match count:\n%s", m.View())
	}
}

func TestModel_Escape(t *testing.T) {
	m := typeText(testModel(t), "db")

	m, cmd := press(m, tea.KeyEsc)
	if m.quitting || cmd != nil {
		t.Fatal("escape with a filter should clear it, not quit")
	}

	if m.input.Value() != "" || len(m.matches) != len(sample) {
		t.Errorf("escape left filter %q with %d matches", m.input.Value(), len(m.matches))
	}

	m, _ = press(m, tea.KeyEsc)
	if !m.quitting {
		t.Error("escape on an empty filter should quit")
	}

	if m.View() != "" {
		t.Errorf("View() after quit = %q, want empty", m.View())
	}
}

func TestModel_History(t *testing.T) {
	h := NewHistory("")
	for _, q := range []string{"db", "server"} {
		if _, err := h.Write(q); err != nil {
			t.Fatal(err)
		}
	}

	m := newModel(context.Background(), sample, h, log.Make(nil))

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyUp, Alt: true})
	m = next.(model)

	if m.input.Value() != "server" {
		t.Errorf("first recall = %q, want %q", m.input.Value(), "server")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp, Alt: true})
	m = next.(model)

	if m.input.Value() != "db" {
		t.Errorf("second recall = %q, want %q", m.input.Value(), "db")
	}

	for range 2 {
		next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown, Alt: true})
		m = next.(model)
	}

	if m.input.Value() != "" {
		t.Errorf("recall past newest = %q, want empty", m.input.Value())
	}
}

func TestRun_NoEntries(t *testing.T) {
	empty := func(context.Context) ([]Row, error) { return nil, nil }

	err := Run(context.Background(), "", empty, "", log.Make(nil))
	if !errors.Is(err, ErrNoEntries) {
		t.Errorf("Run() error = %v, want %v", err, ErrNoEntries)
	}
}

func TestRun_LoadError(t *testing.T) {
	failed := errors.New("boom")
	load := func(context.Context) ([]Row, error) { return nil, failed }

	err := Run(context.Background(), "x.ini", load, "", log.Make(nil))
	if !errors.Is(err, failed) {
		t.Errorf("Run() error = %v, want %v", err, failed)
	}
}

func TestModel_Reload(t *testing.T) {
	m := typeText(testModel(t), "port")

	next, _ := m.Update(reloadMsg{rows: []Row{{"db.port", "6543"}}})
	m = next.(model)

	if m.rows.Len() != 1 || len(m.matches) != 1 {
		t.Fatalf("after reload rows=%d matches=%d, want 1 and 1", m.rows.Len(), len(m.matches))
	}

	if !strings.Contains(m.View(), "reloaded 1 paths") {
		t.Errorf("reload status missing:\n%s", m.View())
	}

	next, _ = m.Update(reloadMsg{err: errors.New("bad file")})
	m = next.(model)

	if m.rows.Len() != 1 || !strings.Contains(m.View(), "reload failed: bad file") {
		t.Errorf("failed reload changed rows or hid error:\n%s", m.View())
	}

	m, _ = press(m, tea.KeyDown)
	if strings.Contains(m.View(), "reload failed") {
		t.Error("status survived a keypress")
	}
}

func TestModel_EditDisabled(t *testing.T) {
	m := testModel(t)

	if _, cmd := press(m, tea.KeyCtrlE); cmd != nil {
		t.Error("edit without a file returned a command")
	}
}

func TestEditorCommand(t *testing.T) {
	tests := []struct {
		editor string
		want   []string
	}{
		{"", []string{defaultEditor, "a.ini"}},
		{"nano", []string{"nano", "a.ini"}},
		{"code --wait", []string{"code", "--wait", "a.ini"}},
	}

	for _, tt := range tests {
		t.Run(tt.editor, func(t *testing.T) {
			t.Setenv("EDITOR", tt.editor)

			got := editorCommand(context.Background(), "a.ini").Args
			if strings.Join(got, " ") != strings.Join(tt.want, " ") {
				t.Errorf("editorCommand() args = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderRow_Truncates(t *testing.T) {
	got := renderRow(
		filter("", rows(sample))[1],
		strings.Repeat("x", 100),
		len("server.host"), 30, false,
	)

	if !strings.Contains(got, "...") {
		t.Errorf("long value not truncated: %q", got)
	}
}
