package cmd

import (
	"context"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/dotini/cli/cmd/browse"
	"github.com/ardnew/dotini/dotini"
	"github.com/ardnew/dotini/log"
)

// Browse opens an interactive viewer over the resolution table of a
// document.
type Browse struct {
	File string `arg:"" default:"." help:"INI file or directory to load"`

	Options `embed:""`
}

// Run executes the browse command.
func (c *Browse) Run(ctx context.Context, s Streams) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	load := func(ctx context.Context) ([]browse.Row, error) {
		l, _, err := c.load(ctx, c.File, s.In)
		if err != nil {
			return nil, err
		}

		return tableRows(l.Table()), nil
	}

	// A document read from stdin cannot be edited and reloaded.
	file := c.File

	switch info, err := os.Stat(file); {
	case file == stdinSource:
		file = ""
	case err == nil && info.IsDir():
		file = filepath.Join(file, dotini.DefaultFilename)
	}

	var cacheDir string
	if ktx := kongContextFrom(ctx); ktx != nil {
		cacheDir = ktx.Model.Vars()[CacheIdentifier]
	}

	return browse.Run(ctx, file, load, cacheDir, log.Default(),
		tea.WithOutput(s.Out),
	)
}

// tableRows lists the resolution table in resolution order.
func tableRows(t *dotini.Table) []browse.Row {
	out := make([]browse.Row, 0, t.Len())

	for path, v := range t.All() {
		out = append(out, browse.Row{Path: path, Value: dotini.Format(v)})
	}

	return out
}
