package dotini

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/afero"

	"github.com/ardnew/dotini/parse"
	"github.com/ardnew/dotini/tree"
)

// Loader resolves INI files into trees.
//
// A Loader owns one resolution [Table] that persists across every Load call
// and every include made through it. It is not safe for concurrent use.
type Loader struct {
	config

	table *Table
	stack []string // canonical paths of the files being loaded
}

// New returns a Loader configured by opts.
func New(opts ...Option) *Loader {
	return &Loader{
		config: makeConfig(opts...),
		table:  newTable(),
	}
}

// Set loads filename with a fresh Loader that materializes every resolved
// scalar, into [Constants] unless [WithRegistry] is given.
func Set(
	ctx context.Context,
	filename, prefix string,
	opts ...Option,
) (*tree.Tree, error) {
	return New(append([]Option{WithMaterialize(true)}, opts...)...).
		Load(ctx, filename, prefix)
}

// Load loads filename with a fresh Loader configured by opts.
func Load(
	ctx context.Context,
	filename, prefix string,
	opts ...Option,
) (*tree.Tree, error) {
	return New(opts...).Load(ctx, filename, prefix)
}

// Table returns the resolution table of l.
func (l *Loader) Table() *Table { return l.table }

// Separator returns the namespace path separator of l.
func (l *Loader) Separator() string { return l.separator }

// Load parses filename and resolves every value in it, recording each
// resolved scalar under prefix in the loader's table.
//
// A directory is replaced with its [DefaultFilename]. A non-empty prefix is
// terminated with the separator if it is not already. On failure, no tree
// is returned.
func (l *Loader) Load(
	ctx context.Context,
	filename, prefix string,
) (*tree.Tree, error) {
	if prefix != "" && !strings.HasSuffix(prefix, l.separator) {
		prefix += l.separator
	}

	return l.load(ctx, filename, prefix)
}

func (l *Loader) load(
	ctx context.Context,
	filename, prefix string,
) (*tree.Tree, error) {
	path, err := l.locate(filename)
	if err != nil {
		return nil, err
	}

	if depth := len(l.stack); depth > l.maxDepth {
		return nil, ErrMaxDepthExceeded.With(
			slog.String("file", path),
			slog.Int("depth", depth),
		)
	}

	canon := l.canonical(path)

	for i, p := range l.stack {
		if p == canon {
			chain := append(l.stack[i:len(l.stack):len(l.stack)], canon)

			return nil, ErrCyclicInclude.With(
				slog.String("file", path),
				slog.String("chain", strings.Join(chain, " -> ")),
			)
		}
	}

	l.stack = append(l.stack, canon)
	defer func() { l.stack = l.stack[:len(l.stack)-1] }()

	l.logger.TraceContext(ctx, "load",
		slog.String("file", path),
		slog.String("prefix", prefix),
		slog.Int("depth", len(l.stack)-1),
	)

	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return nil, ErrRead.Wrap(err).With(slog.String("file", path))
	}

	raw, err := parse.Parse(path, data)
	if err != nil {
		return nil, ErrParse.Wrap(err).With(slog.String("file", path))
	}

	return l.flatten(ctx, raw, prefix, filepath.Dir(path))
}

// locate resolves filename to an existing regular file, rewriting a
// directory to its default file.
func (l *Loader) locate(filename string) (string, error) {
	info, err := l.fs.Stat(filename)
	if err == nil && info.IsDir() {
		filename = filepath.Join(filename, DefaultFilename)
		info, err = l.fs.Stat(filename)
	}

	switch {
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, syscall.ENOTDIR):
		// ENOTDIR: a parent component of filename is a regular file.
		return "", ErrNotFound.With(slog.String("file", filename))
	case err != nil:
		return "", ErrRead.Wrap(err).With(slog.String("file", filename))
	case info.IsDir():
		return "", ErrNotFound.With(slog.String("file", filename))
	}

	return filename, nil
}

// canonical returns the key used to detect include cycles: the absolute
// path, with symlinks resolved on the OS filesystem.
func (l *Loader) canonical(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}

	if _, ok := l.fs.(*afero.OsFs); ok {
		if resolved, err := filepath.EvalSymlinks(abs); err == nil {
			return resolved
		}
	}

	return abs
}
