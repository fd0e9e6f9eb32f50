package dotini

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
)

// includeTarget returns the path named by a whole-value $<path> reference.
func includeTarget(s string) (string, bool) {
	if len(s) < 4 || !strings.HasPrefix(s, "$<") || !strings.HasSuffix(s, ">") {
		return "", false
	}

	return s[2 : len(s)-1], true
}

// include loads the file named by v when v is a $<path> reference and
// returns its tree. Any other value is returned unchanged.
//
// The path gets [IncludeExt] appended and, unless absolute, is relative to
// dir. Failures of the nested load are returned as is.
func (l *Loader) include(
	ctx context.Context,
	v any,
	prefix, dir string,
) (any, error) {
	s, ok := v.(string)
	if !ok {
		return v, nil
	}

	target, ok := includeTarget(s)
	if !ok {
		return v, nil
	}

	path := target + IncludeExt
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}

	l.logger.TraceContext(ctx, "include",
		slog.String("target", target),
		slog.String("file", path),
		slog.String("prefix", prefix),
	)

	sub, err := l.load(ctx, path, prefix)
	if err != nil {
		return nil, err
	}

	return sub, nil
}
