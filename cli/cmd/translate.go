package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/defconf/lang"
	"github.com/ardnew/defconf/log"
)

// Translate holds the flags shared by the commands that translate sources.
type Translate struct {
	Output string `default:"-" help:"Output file, or '-' for stdout."            short:"o"`
	Indent int    `default:"2" help:"Indent width, or 0 for single-line output." short:"i"`
	Strict bool   `help:"Fail if the sources define no structure."             short:"S"`
}

// formatter writes a document to w. The Format* methods of [lang.Document]
// all have this shape.
type formatter func(*lang.Document, context.Context, io.Writer, int) error

// YAML translates sources to YAML.
type YAML struct {
	Source []string `arg:"" default:"-" help:"Source file(s), or '-' for stdin." name:"source" optional:""`

	Translate `embed:""`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) error {
	return y.run(ctx, "yaml", y.Source, (*lang.Document).FormatYAML)
}

// JSON translates sources to JSON.
type JSON struct {
	Source []string `arg:"" default:"-" help:"Source file(s), or '-' for stdin." name:"source" optional:""`

	Translate `embed:""`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) error {
	return j.run(ctx, "json", j.Source, (*lang.Document).FormatJSON)
}

// Fmt rewrites sources as a single canonical dict statement, with every
// constant reference resolved.
type Fmt struct {
	Source []string `arg:"" default:"-" help:"Source file(s), or '-' for stdin." name:"source" optional:""`

	Translate `embed:""`
}

// Run executes the fmt command.
func (f *Fmt) Run(ctx context.Context) error {
	return f.run(ctx, "native", f.Source, (*lang.Document).Format)
}

func (t *Translate) run(
	ctx context.Context,
	format string,
	paths []string,
	write formatter,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	std := streamsFrom(ctx)

	doc, err := translate(ctx, paths, std.in, t.Strict)
	if err != nil {
		return err
	}

	out, err := openOutput(t.Output, std.out)
	if err != nil {
		return err
	}

	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = ErrWriteOutput.Wrap(cerr).With(slog.String("path", t.Output))
		}
	}()

	if err := write(doc, ctx, out, t.Indent); err != nil {
		return ErrWriteOutput.Wrap(err).With(
			slog.String("path", t.Output),
			slog.String("format", format),
		)
	}

	log.DebugContext(ctx, "translated",
		slog.String("format", format),
		slog.String("output", t.Output),
		slog.Int("statements", doc.Statements),
		slog.Int("constants", len(doc.Constants)),
		slog.Bool("empty", doc.Empty()),
	)

	return nil
}

// translate parses the concatenated sources named by paths.
//
// An empty document is a valid result unless strict is set, in which case
// it fails with [lang.ErrNoStructure].
func translate(
	ctx context.Context,
	paths []string,
	in io.Reader,
	strict bool,
) (*lang.Document, error) {
	srcs, err := openSources(paths, in)
	if err != nil {
		return nil, err
	}
	defer srcs.Close()

	doc, err := lang.ParseReader(ctx, srcs.Reader(), lang.WithLogger(log.Default()))
	if err != nil {
		return nil, lang.WrapError(err).With(slog.String("source", srcs.String()))
	}

	if strict && doc.Empty() {
		return nil, lang.ErrNoStructure.With(slog.String("source", srcs.String()))
	}

	return doc, nil
}
