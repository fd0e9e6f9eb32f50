package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/expr-lang/expr"
	"github.com/samber/lo"

	"github.com/ardnew/dotini/dotini"
	"github.com/ardnew/dotini/log"
)

// tableIdentifier names the flat resolution table in the environment of an
// expression evaluated by [Get].
const tableIdentifier = "table"

// Get evaluates an expression against a resolved document.
//
// The environment of the expression is the resolved tree as native maps, so
// nested values are reached with member access (server.port), plus the flat
// resolution table as table (table["server.port"]). A top-level document
// key named table is shadowed by the resolution table; its value remains
// reachable as table["table"].
type Get struct {
	File string `arg:"" help:"INI file or directory to load ('-' for stdin)"`
	Expr string `arg:"" help:"Expression to evaluate"`

	Options `embed:""`
}

// Run executes the get command.
func (c *Get) Run(ctx context.Context, s Streams) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	l, t, err := c.load(ctx, c.File, s.In)
	if err != nil {
		return err
	}

	doc := t.Map()
	if _, ok := doc[tableIdentifier]; ok {
		log.WarnContext(ctx, "document key shadowed by resolution table",
			slog.String("key", tableIdentifier),
		)
	}

	env := lo.Assign(
		doc,
		map[string]any{tableIdentifier: l.Table().Map()},
	)

	result, err := evaluate(c.Expr, env)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(s.Out, formatResult(result))
	if err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

// evaluate compiles source against env and runs it.
func evaluate(source string, env map[string]any) (any, error) {
	program, err := expr.Compile(source, expr.Env(env))
	if err != nil {
		return nil, ErrCompileExpr.Wrap(err).
			With(slog.String("source", source))
	}

	result, err := expr.Run(program, env)
	if err != nil {
		return nil, ErrEvalExpr.Wrap(err).
			With(slog.String("source", source))
	}

	return result, nil
}

// formatResult renders scalars as plain text and collections as JSON.
func formatResult(v any) string {
	switch v.(type) {
	case map[string]any, []any:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}

		return string(data)

	default:
		return dotini.Format(v)
	}
}
