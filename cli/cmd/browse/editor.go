package browse

import (
	"context"
	"os"
	"os/exec"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

const defaultEditor = "vi"

// LoadFunc resolves the browsed document into rows.
type LoadFunc func(ctx context.Context) ([]Row, error)

// reloadMsg carries the rows resolved after an edit, or the reason there
// are none.
type reloadMsg struct {
	rows []Row
	err  error
}

// editorCommand returns the command line that edits path, taken from
// $EDITOR (which may carry arguments) or [defaultEditor].
func editorCommand(ctx context.Context, path string) *exec.Cmd {
	args := strings.Fields(os.Getenv("EDITOR"))
	if len(args) == 0 {
		args = []string{defaultEditor}
	}

	return exec.CommandContext(ctx, args[0], append(args[1:], path)...)
}

// edit suspends the program, opens the browsed file in the user's editor and
// reloads it once the editor exits.
func (m model) edit() tea.Cmd {
	ctx := m.ctxFunc()

	return tea.ExecProcess(editorCommand(ctx, m.file), func(err error) tea.Msg {
		if err != nil {
			return reloadMsg{err: err}
		}

		rows, err := m.load(ctx)

		return reloadMsg{rows: rows, err: err}
	})
}
