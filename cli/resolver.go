package cli

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/defconf/lang"
	"github.com/ardnew/defconf/log"
)

// resolve returns a kong configuration loader for config files written in
// the defconf language itself.
//
// Each entry of the document's root dict sets the flag of the same name.
// Hyphens in flag names may be written as underscores, integers are passed
// to kong as decimal text, and lists are joined with commas. Nested dicts
// have no flag equivalent and are ignored. Constants may be used as usual:
//
//	def LEVEL = "debug";
//	{
//	  log_level = ^LEVEL,
//	  log_pretty = "false",
//	  indent = 4
//	}
//
// A config file that fails to parse is reported and otherwise ignored, so a
// broken config never prevents the command line from working. Command-line
// flags override config file values.
func resolve(ctx context.Context) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		doc, err := lang.ParseReader(ctx, r, lang.WithLogger(log.Default()))
		if err != nil {
			log.WarnContext(ctx, "ignoring invalid config file",
				slog.Any("error", err),
			)

			return config{}, nil
		}

		if doc.Empty() {
			return config{}, nil
		}

		cfg := make(config, doc.Root.Len())

		for key, val := range doc.Root.Entries() {
			if flag, ok := flagValue(val); ok {
				cfg[key] = flag
			}
		}

		log.TraceContext(ctx, "config file loaded", slog.Int("flags", len(cfg)))

		return cfg, nil
	}
}

// flagValue converts a value to the text form kong expects from resolvers.
func flagValue(v *lang.Value) (string, bool) {
	switch v.Kind {
	case lang.KindInteger:
		return strconv.FormatInt(v.Int, 10), true

	case lang.KindText:
		return v.Text, true

	case lang.KindList:
		items := make([]string, 0, len(v.Items))

		for _, item := range v.Items {
			s, ok := flagValue(item)
			if !ok || item.Kind == lang.KindList {
				return "", false
			}

			items = append(items, s)
		}

		return strings.Join(items, ","), true

	default:
		return "", false
	}
}

// config implements [kong.Resolver] for defconf config files.
type config map[string]string

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	for _, name := range []string{
		flag.Name,
		strings.ReplaceAll(flag.Name, "-", "_"),
	} {
		if value, ok := c[name]; ok {
			return value, nil
		}
	}

	return nil, nil
}
