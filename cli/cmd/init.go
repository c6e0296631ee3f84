package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"reflect"
	"slices"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/defconf/lang"
	"github.com/ardnew/defconf/log"
	"github.com/ardnew/defconf/pkg"
	"github.com/ardnew/defconf/profile"
)

// defaultConfigIndent is the indent width of the generated configuration.
const defaultConfigIndent = 2

// ignoredFlags are flag name prefixes never written to the configuration.
var ignoredFlags = []string{"help", "version", profile.Tag}

// Init writes the current global flag values to the configuration file.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	confPath := kongVar(ctx, ConfigIdentifier)
	if confPath == "" {
		return ErrWriteConfig.With(slog.String("reason", "no configuration path"))
	}

	if _, err := os.Stat(confPath); err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath), slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	file, err := os.Create(confPath)
	if err != nil {
		return ErrWriteConfig.With(slog.String("file", confPath)).Wrap(err)
	}
	defer file.Close()

	doc := &lang.Document{Root: flagDict(kongContextFrom(ctx))}

	if _, err := fmt.Fprintf(file, "%% %s configuration\n", pkg.Name); err != nil {
		return ErrWriteConfig.With(slog.String("file", confPath)).Wrap(err)
	}

	if err := doc.Format(ctx, file, defaultConfigIndent); err != nil {
		return ErrWriteConfig.With(slog.String("file", confPath)).Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("path", confPath),
		slog.Int("flags", doc.Root.Len()),
	)

	return nil
}

// flagDict returns a dict of the application's global flags and their
// current values. Flags without a value, hidden flags and the ignoredFlags
// are left out.
func flagDict(ktx *kong.Context) *lang.Value {
	dict := lang.NewDict()

	if ktx == nil || ktx.Model == nil {
		return dict
	}

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(ignoredFlags, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		if v := flagValue(ktx.FlagValue(flag)); v != nil {
			dict.Set(flag.Name, v)
		}
	}

	return dict
}

// flagValue converts a parsed flag value to a language value, or nil if it
// has no meaningful representation.
//
// The language has no boolean or negative literals, so those are written as
// text, which the configuration loader hands back to kong unchanged.
func flagValue(val any) *lang.Value {
	if val == nil {
		return nil
	}

	rv := reflect.ValueOf(val)

	switch rv.Kind() {
	case reflect.String:
		if rv.Len() == 0 {
			return nil
		}

		return lang.NewText(rv.String())

	case reflect.Bool:
		return lang.NewText(fmt.Sprint(rv.Bool()))

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if n := rv.Int(); n >= 0 {
			return lang.NewInteger(n)
		}

		return lang.NewText(fmt.Sprint(rv.Int()))

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if n := rv.Uint(); n <= math.MaxInt64 {
			return lang.NewInteger(int64(n))
		}

		return lang.NewText(fmt.Sprint(rv.Uint()))

	case reflect.Slice, reflect.Array:
		if rv.Len() == 0 {
			return nil
		}

		items := make([]*lang.Value, 0, rv.Len())

		for i := range rv.Len() {
			if item := flagValue(rv.Index(i).Interface()); item != nil {
				items = append(items, item)
			}
		}

		return lang.NewList(items...)

	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}

		return flagValue(rv.Elem().Interface())

	default:
		return lang.NewText(fmt.Sprint(val))
	}
}
