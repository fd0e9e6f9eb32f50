package dotini

import (
	"os"

	"github.com/spf13/afero"

	"github.com/ardnew/dotini/log"
)

// DefaultSeparator joins the keys of a namespace path.
const DefaultSeparator = "."

// DefaultMaxDepth bounds how deeply includes may nest.
const DefaultMaxDepth = 32

// DefaultFilename is loaded when a directory is given instead of a file.
const DefaultFilename = ".ini"

// IncludeExt is appended to every include path.
const IncludeExt = ".ini"

// LookupFunc returns the value of a named variable and whether it is set.
type LookupFunc func(name string) (string, bool)

// Option applies a configuration option to config.
type Option func(config) config

// config holds the settings of a [Loader].
type config struct {
	registry    Registry
	fs          afero.Fs
	lookupEnv   LookupFunc
	context     map[string]string
	logger      log.Logger
	separator   string
	maxDepth    int
	materialize bool
}

func makeConfig(opts ...Option) config {
	c := config{
		registry:  Constants,
		fs:        afero.NewOsFs(),
		lookupEnv: os.LookupEnv,
		logger:    log.Default(),
		separator: DefaultSeparator,
		maxDepth:  DefaultMaxDepth,
	}

	for _, opt := range opts {
		if opt != nil {
			c = opt(c)
		}
	}

	if c.context == nil {
		c.context = DefaultContext()
	}

	return c
}

// WithMaterialize returns a functional option that controls whether every
// resolved scalar is defined as a constant in the loader's [Registry].
func WithMaterialize(enable bool) Option {
	return func(c config) config {
		c.materialize = enable

		return c
	}
}

// WithRegistry returns a functional option that sets the [Registry] used for
// materialized constants. A nil registry keeps [Constants].
func WithRegistry(r Registry) Option {
	return func(c config) config {
		if r != nil {
			c.registry = r
		}

		return c
	}
}

// WithFs returns a functional option that sets the filesystem files and
// includes are read from. A nil fs keeps the OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(c config) config {
		if fs != nil {
			c.fs = fs
		}

		return c
	}
}

// WithLookupEnv returns a functional option that sets the source of ${NAME}
// references. A nil function keeps [os.LookupEnv].
func WithLookupEnv(fn LookupFunc) Option {
	return func(c config) config {
		if fn != nil {
			c.lookupEnv = fn
		}

		return c
	}
}

// WithContext returns a functional option that sets the source of $[NAME]
// references. The map is not copied. Without this option, [DefaultContext]
// is used.
func WithContext(vars map[string]string) Option {
	return func(c config) config {
		c.context = vars

		return c
	}
}

// WithSeparator returns a functional option that sets the namespace path
// separator. An empty separator keeps [DefaultSeparator].
func WithSeparator(sep string) Option {
	return func(c config) config {
		if sep != "" {
			c.separator = sep
		}

		return c
	}
}

// WithMaxDepth returns a functional option that limits include nesting.
// Non-positive values keep [DefaultMaxDepth].
func WithMaxDepth(depth int) Option {
	return func(c config) config {
		if depth > 0 {
			c.maxDepth = depth
		}

		return c
	}
}

// WithLogger returns a functional option that sets the logger used for
// trace output and registry warnings.
func WithLogger(logger log.Logger) Option {
	return func(c config) config {
		c.logger = logger

		return c
	}
}
