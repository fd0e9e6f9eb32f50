package browse

import (
	"context"
	"log/slog"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/dotini/log"
)

// Row is one resolved path and the text form of its value.
type Row struct {
	Path  string
	Value string
}

// rows adapts a row list to [fuzzy.Source] by matching on paths.
type rows []Row

func (r rows) String(i int) string { return r[i].Path }

func (r rows) Len() int { return len(r) }

// Run starts the browser over the rows of file produced by load. The edit
// key opens file in the user's editor and calls load again; an empty file
// disables editing. Accepted filter queries persist in cacheDir unless it is
// empty.
func Run(
	ctx context.Context,
	file string,
	load LoadFunc,
	cacheDir string,
	logger log.Logger,
	opts ...tea.ProgramOption,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	entries, err := load(ctx)
	if err != nil {
		return err
	}

	logger.TraceContext(
		ctx,
		"browse start",
		slog.String("file", file),
		slog.String("cache_dir", cacheDir),
		slog.Int("entry_count", len(entries)),
	)

	if len(entries) == 0 {
		return ErrNoEntries
	}

	var historyPath string
	if cacheDir != "" {
		historyPath = filepath.Join(cacheDir, baseHistory)
	}

	history := NewHistory(historyPath)
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history",
			slog.String("path", historyPath),
			slog.Any("error", err),
		)
	}

	m := newModel(ctx, entries, history, logger)
	m.file, m.load = file, load

	p := tea.NewProgram(m, append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)...)
	_, err = p.Run()

	return err
}
