package cmd

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/ardnew/defconf/cli/cmd/repl"
	"github.com/ardnew/defconf/lang"
	"github.com/ardnew/defconf/log"
)

// Repl starts an interactive session.
type Repl struct {
	Source []string `arg:"" help:"Source file(s) to load before the session starts." name:"source" optional:""`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	source, err := readSources(r.Source, streamsFrom(ctx).in)
	if err != nil {
		return err
	}

	var historyPath string
	if dir := kongVar(ctx, CacheIdentifier); dir != "" {
		historyPath = filepath.Join(dir, repl.HistoryFile)
	}

	log.DebugContext(ctx, "starting repl",
		slog.Int("source_bytes", len(source)),
		slog.String("history", historyPath),
	)

	return repl.Run(ctx, source, historyPath, log.With(log.Component("repl")))
}

// readSources returns the concatenated text of the sources named by paths,
// or "" if there are none.
func readSources(paths []string, in io.Reader) (string, error) {
	if len(paths) == 0 {
		return "", nil
	}

	srcs, err := openSources(paths, in)
	if err != nil {
		return "", err
	}
	defer srcs.Close()

	data, err := io.ReadAll(srcs.Reader())
	if err != nil {
		return "", lang.ErrReadInput.Wrap(err).With(slog.String("source", srcs.String()))
	}

	return string(data), nil
}
