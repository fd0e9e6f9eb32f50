package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/samber/lo"
	"gopkg.in/ini.v1"

	"github.com/ardnew/dotini/log"
	"github.com/ardnew/dotini/profile"
)

// Init generates a configuration file with current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	// Check if file exists and force not set
	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	cfg, err := i.buildConfig(ctx)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	err = os.MkdirAll(filepath.Dir(confPath), 0o700)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	err = cfg.SaveTo(confPath)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(
		ctx,
		"initialized configuration file",
		slog.String("path", confPath),
	)

	return nil
}

// buildConfig constructs the config section from current flag values.
// List flags become "name[] = value" keys and map flags "name[key] = value"
// keys, so the file reads back into the same shapes.
func (i *Init) buildConfig(ctx context.Context) (*ini.File, error) {
	ktx := kongContextFrom(ctx)

	cfg := ini.Empty(ini.LoadOptions{AllowShadows: true})

	sec, err := cfg.NewSection(ConfigIdentifier)
	if err != nil {
		return nil, err
	}

	prefixIgnore := []string{"help", profile.Tag}

	flags := lo.Filter(ktx.Model.Flags, func(flag *kong.Flag, _ int) bool {
		return !flag.Hidden && !lo.SomeBy(prefixIgnore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		})
	})

	for _, flag := range flags {
		err := writeFlag(sec, flag.Name, ktx.FlagValue(flag))
		if err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// writeFlag adds the keys representing val to sec. Unset and empty values
// are skipped.
func writeFlag(sec *ini.Section, name string, val any) error {
	if m, ok := val.(map[string]string); ok {
		for _, k := range slices.Sorted(maps.Keys(m)) {
			_, err := sec.NewKey(name+"["+k+"]", m[k])
			if err != nil {
				return err
			}
		}

		return nil
	}

	vals, list := flagText(val)
	if len(vals) == 0 {
		return nil
	}

	if !list {
		_, err := sec.NewKey(name, vals[0])

		return err
	}

	key, err := sec.NewKey(name+"[]", vals[0])
	if err != nil {
		return err
	}

	for _, v := range vals[1:] {
		err := key.AddShadow(v)
		if err != nil {
			return err
		}
	}

	return nil
}

// flagText returns the text form of a flag value and whether the value is a
// list.
func flagText(val any) (vals []string, list bool) {
	switch v := val.(type) {
	case nil:
		return nil, false

	case bool:
		return []string{strconv.FormatBool(v)}, false

	case string:
		if v == "" {
			return nil, false
		}

		return []string{v}, false

	case []string:
		return v, true

	case []int:
		return lo.Map(v, func(n int, _ int) string { return strconv.Itoa(n) }), true

	case []int64:
		return lo.Map(v, func(n int64, _ int) string {
			return strconv.FormatInt(n, 10)
		}), true

	case []float64:
		return lo.Map(v, func(n float64, _ int) string {
			return strconv.FormatFloat(n, 'f', -1, 64)
		}), true

	case []bool:
		return lo.Map(v, func(b bool, _ int) string {
			return strconv.FormatBool(b)
		}), true

	default:
		return []string{fmt.Sprint(v)}, false
	}
}
