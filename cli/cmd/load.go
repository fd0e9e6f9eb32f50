package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fxamacker/cbor/v2"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/dotini/dotini"
	"github.com/ardnew/dotini/log"
	"github.com/ardnew/dotini/tree"
)

// Output formats of the load command.
const (
	formatJSON  = "json"
	formatYAML  = "yaml"
	formatCBOR  = "cbor"
	formatTable = "table"
	formatConst = "const"
	formatEnv   = "env"
)

// Load resolves a document and prints the result.
//
// Constants are materialized only for the const and env formats, which
// print them; the other formats print the resolved tree or table.
type Load struct {
	File string `arg:"" default:"." help:"INI file or directory to load ('-' for stdin)"`

	Options `embed:""`

	Format string `default:"json" enum:"json,yaml,cbor,table,const,env" help:"Output format (${enum})" short:"o"`
	Indent int    `default:"2"    help:"Indent width for JSON and YAML output"                          short:"i"`
}

// Run executes the load command.
func (c *Load) Run(ctx context.Context, s Streams) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	var (
		opts   []dotini.Option
		consts *dotini.MapRegistry
		export bytes.Buffer
	)

	switch c.Format {
	case formatConst:
		consts = dotini.NewMapRegistry()
		opts = append(opts,
			dotini.WithMaterialize(true),
			dotini.WithRegistry(consts),
		)

	case formatEnv:
		opts = append(opts,
			dotini.WithMaterialize(true),
			dotini.WithRegistry(dotini.EnvRegistry{Setenv: exportTo(&export)}),
		)
	}

	l, t, err := c.load(ctx, c.File, s.In, opts...)
	if err != nil {
		return err
	}

	log.DebugContext(ctx, "resolved",
		slog.String("format", c.Format),
		slog.Int("paths", l.Table().Len()),
	)

	switch c.Format {
	case formatJSON:
		return writeJSON(s.Out, t, c.Indent)

	case formatYAML:
		return writeYAML(ctx, s.Out, t, c.Indent)

	case formatCBOR:
		return writeCBOR(s.Out, t)

	case formatTable:
		return writeTable(s.Out, []string{"PATH", "VALUE"}, l.Table().All())

	case formatConst:
		return writeTable(s.Out, []string{"NAME", "VALUE"}, consts.All())

	case formatEnv:
		_, err = export.WriteTo(s.Out)
		if err != nil {
			return ErrWriteOutput.Wrap(err)
		}

		return nil

	default:
		return ErrUnknownFmt.With(slog.String("format", c.Format))
	}
}

func writeJSON(w io.Writer, t *tree.Tree, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(t, "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(t)
	}

	if err != nil {
		return ErrJSONMarshal.Wrap(err)
	}

	_, err = fmt.Fprintln(w, string(data))
	if err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

func writeYAML(ctx context.Context, w io.Writer, t *tree.Tree, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, t, opts...)
	if err != nil {
		return ErrYAMLMarshal.Wrap(err)
	}

	_, err = fmt.Fprint(w, string(data))
	if err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

func writeCBOR(w io.Writer, t *tree.Tree) error {
	data, err := cbor.Marshal(t)
	if err != nil {
		return ErrCBORMarshal.Wrap(err)
	}

	_, err = w.Write(data)
	if err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

// writeTable prints rows as a bordered two-column table.
func writeTable(w io.Writer, headers []string, rows iter.Seq2[string, any]) error {
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...)

	for k, v := range rows {
		tbl.Row(k, dotini.Format(v))
	}

	_, err := fmt.Fprintln(w, tbl.String())
	if err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

// exportTo returns a setenv function that prints a POSIX shell export
// statement to w instead of changing the environment.
func exportTo(w io.Writer) func(key, value string) error {
	return func(key, value string) error {
		_, err := fmt.Fprintf(w, "export %s=%s\n", key, shellQuote(value))

		return err
	}
}

// shellQuote wraps s in single quotes, escaping embedded single quotes.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
