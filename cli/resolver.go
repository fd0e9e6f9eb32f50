package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/samber/lo"
	"github.com/tidwall/jsonc"

	"github.com/ardnew/dotini/cli/cmd"
	"github.com/ardnew/dotini/dotini"
	"github.com/ardnew/dotini/log"
	"github.com/ardnew/dotini/tree"
)

// resolve returns a [kong.ConfigurationLoader] that reads flag defaults
// from the named section of the dotini file at path.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx, path, "config"), path)
//
// The file is resolved by dotini itself, so references and includes work
// as in any other document. Includes are relative to the directory of path.
// Values are converted as follows:
//   - Flag names with hyphens (e.g., "log-level") may use underscores
//     in the config file (e.g., "log_level")
//   - Booleans are passed through
//   - Arrays ("key[] = value") become lists of text
//   - Sub-sections ("key[name] = value") become maps of text
//   - Everything else is passed as text for kong to parse
//
// Example config file:
//
//	[config]
//	log-level  = debug
//	log_format = json
//	log-pretty = true
//
// Command-line flags override config file values.
func resolve(
	ctx context.Context,
	path, section string,
) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}

		fs, err := cmd.OverlayFs(path, data)
		if err != nil {
			return nil, err
		}

		t, err := dotini.Load(ctx, path, "", dotini.WithFs(fs))
		if err != nil {
			// Unusable config - warn and fall back to defaults
			log.WarnContext(ctx, "ignoring configuration file",
				slog.String("file", path),
				slog.Any("error", err),
			)

			return config{}, nil
		}

		sub, ok := t.Get(section)
		if !ok {
			return config{}, nil
		}

		sec, ok := sub.(*tree.Tree)
		if !ok {
			return config{}, nil
		}

		return configFrom(sec), nil
	}
}

// config implements [kong.Resolver] for dotini configs.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	// No validation needed - the config was already parsed successfully
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	// Kong flags use hyphens (e.g., "log-level") but config keys
	// may use underscores. Try both forms.
	name := flag.Name
	underscoreName := strings.ReplaceAll(name, "-", "_")

	// Look up the value in our config
	if value, ok := r[name]; ok {
		return value, nil
	}

	// Try underscore variant
	if value, ok := r[underscoreName]; ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}

// configFrom converts a resolved section to flag values.
func configFrom(sec *tree.Tree) config {
	result := make(config, sec.Len())

	for key, v := range sec.All() {
		result[key] = flagValue(v)
	}

	return result
}

// flagValue converts a resolved value to a form kong can map onto a flag.
// Kong requires numbers as strings for parsing.
func flagValue(v any) any {
	switch x := v.(type) {
	case bool:
		return x

	case []any:
		return lo.Map(x, func(e any, _ int) any { return dotini.Format(e) })

	case *tree.Tree:
		return lo.MapValues(x.Map(), func(e any, _ string) any {
			return dotini.Format(e)
		})

	default:
		return dotini.Format(x)
	}
}

// jsonConfig loads flag defaults from a JSON file that may carry comments
// and trailing commas.
func jsonConfig(r io.Reader) (kong.Resolver, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	return kong.JSON(bytes.NewReader(jsonc.ToJSON(data)))
}
