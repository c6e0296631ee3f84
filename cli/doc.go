// Package cli contains the command line interface for defconf.
//
// # Usage
//
// Without a subcommand, defconf translates its sources to YAML:
//
//	defconf app.conf base.conf
//	defconf json --indent=0 app.conf
//	defconf fmt - < app.conf
//
// A source of "-" (the default) reads standard input. The same file named
// twice, including through a symlink, is read once.
//
// # Configuration File
//
// Flag defaults are read from the defconf configuration file in the user's
// configuration directory, written in the defconf language itself:
//
//	{ log_level = "debug", log_pretty = "true" }
//
// Keys of the root dict name flags, with underscores or hyphens. Scalars and
// flat lists are used as flag values; nested structure is ignored. An
// unreadable configuration file is logged and skipped. Use the init
// subcommand to write a file holding the current flag values.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, etc.)
//   - --log-pretty: Colorize and align log output
//   - --log-caller: Include caller information in log output
//
// Logging flags are applied before the command line is parsed, so messages
// logged while parsing honor them.
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o defconf .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory
//
// # Examples
//
//	# Strict translation to indented JSON
//	defconf json --strict --indent=4 app.conf
//
//	# Debug logging with CPU profiling
//	defconf --log-level=debug --pprof-mode=cpu app.conf
package cli
