package dotini

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ardnew/dotini/tree"
)

// flatten resolves every value of t in place, in key order. Sub-trees are
// resolved completely before the next sibling, so a value can reference
// anything declared before it.
func (l *Loader) flatten(
	ctx context.Context,
	t *tree.Tree,
	prefix, dir string,
) (*tree.Tree, error) {
	for key, val := range t.All() {
		v, err := l.resolve(ctx, val, prefix, key, dir)
		if err != nil {
			return nil, err
		}

		t.Set(key, v)
	}

	return t, nil
}

// resolve returns the final form of the value at prefix+key and records it
// if it is a scalar. Array elements are resolved as children keyed by index.
func (l *Loader) resolve(
	ctx context.Context,
	val any,
	prefix, key, dir string,
) (any, error) {
	child := prefix + key + l.separator

	switch v := val.(type) {
	case *tree.Tree:
		return l.flatten(ctx, v, child, dir)

	case []any:
		for i, e := range v {
			r, err := l.resolve(ctx, e, child, strconv.Itoa(i), dir)
			if err != nil {
				return nil, err
			}

			v[i] = r
		}

		return v, nil

	case string:
		r, err := l.include(ctx, l.substituter(ctx).substitute(v), child, dir)
		if err != nil {
			return nil, err
		}

		if _, ok := r.(*tree.Tree); ok {
			return r, nil
		}

		val = r
	}

	l.record(ctx, prefix, key, val)

	return val, nil
}

// record adds a resolved scalar to the table under prefix+key and, when
// materializing, defines it as the constant prefix+upper(key). Null values
// are neither recorded nor defined. A refused definition is logged and
// ignored.
func (l *Loader) record(ctx context.Context, prefix, key string, v any) {
	if v == nil {
		return
	}

	l.table.set(prefix+key, v)

	if !l.materialize {
		return
	}

	name := prefix + strings.ToUpper(key)

	if err := l.registry.Define(name, v); err != nil {
		l.logger.WarnContext(ctx, "define",
			slog.String("name", name),
			slog.Any("error", err),
		)

		return
	}

	l.logger.TraceContext(ctx, "define",
		slog.String("name", name),
		slog.Any("value", v),
	)
}

func (l *Loader) substituter(ctx context.Context) substituter {
	return substituter{
		env:  l.lookupEnv,
		vars: mapLookup(l.context),
		self: l.table.Get,
		sep:  l.separator,
		miss: func(kind, name string) {
			l.logger.TraceContext(ctx, "substitution miss",
				slog.String("kind", kind),
				slog.String("name", name),
			)
		},
	}
}
