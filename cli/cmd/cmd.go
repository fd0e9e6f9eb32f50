package cmd

import (
	"context"
	"io"
	"log/slog"
	"maps"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/spf13/afero"

	"github.com/ardnew/dotini/dotini"
	"github.com/ardnew/dotini/log"
	"github.com/ardnew/dotini/tree"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// Streams are the standard input and output of a command.
type Streams struct {
	In  io.Reader
	Out io.Writer
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// stdinName is the base name a document read from stdin is loaded as.
// Includes in it resolve relative to the working directory.
const stdinName = "stdin" + dotini.IncludeExt

// Options are the resolution flags shared by the commands that load a
// document.
type Options struct {
	Namespace string            `default:""             help:"Prefix of every resolved path"               short:"n"`
	Var       map[string]string `help:"Context variable for $$[NAME] (repeatable)" placeholder:"NAME=VALUE" short:"v"`
	Separator string            `default:"${separator}" help:"Namespace path separator"`
}

// Vars returns the kong variables referenced by [Options] tags.
func (Options) Vars() kong.Vars {
	return kong.Vars{"separator": dotini.DefaultSeparator}
}

// load resolves file with a fresh Loader configured by o, followed by opts.
// A file named "-" is read from in.
func (o *Options) load(
	ctx context.Context,
	file string,
	in io.Reader,
	opts ...dotini.Option,
) (*dotini.Loader, *tree.Tree, error) {
	vars := dotini.DefaultContext()
	maps.Copy(vars, o.Var)

	opts = append([]dotini.Option{
		dotini.WithContext(vars),
		dotini.WithSeparator(o.Separator),
		dotini.WithLogger(log.Default()),
	}, opts...)

	name := file

	if name == stdinSource {
		data, err := io.ReadAll(in)
		if err != nil {
			return nil, nil, ErrReadInput.Wrap(err)
		}

		wd, err := os.Getwd()
		if err != nil {
			return nil, nil, ErrReadInput.Wrap(err)
		}

		name = filepath.Join(wd, stdinName)

		fs, err := OverlayFs(name, data)
		if err != nil {
			return nil, nil, ErrReadInput.Wrap(err)
		}

		opts = append(opts, dotini.WithFs(fs))
	}

	log.DebugContext(ctx, "load source",
		slog.String("file", name),
		slog.String("namespace", o.Namespace),
		slog.Int("vars", len(o.Var)),
	)

	l := dotini.New(opts...)

	t, err := l.Load(ctx, name, o.Namespace)
	if err != nil {
		return nil, nil, err
	}

	return l, t, nil
}

// OverlayFs returns a read-only view of the OS filesystem with one in-memory
// file at path holding data. Relative references from that file still reach
// the real files around it.
func OverlayFs(path string, data []byte) (afero.Fs, error) {
	layer := afero.NewMemMapFs()

	err := afero.WriteFile(layer, path, data, 0o600)
	if err != nil {
		return nil, err
	}

	return afero.NewCopyOnWriteFs(afero.NewReadOnlyFs(afero.NewOsFs()), layer), nil
}
