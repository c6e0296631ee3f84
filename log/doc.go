// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// A [Logger] is an immutable value configured with functional options at
// creation time. Derive new loggers with [Logger.Wrap] and [Logger.With].
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("translation complete", slog.Int("keys", 3))
//
// # Configuration
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
// # Levels
//
// In addition to the four [log/slog] levels, [LevelTrace] sits below
// [LevelDebug] and is used for per-statement parser diagnostics.
//
// # Output Formats
//
// [FormatText] (default) and [FormatJSON] are supported. With
// [WithPretty] enabled (default), output is styled with lipgloss, which only
// emits color when the output is a terminal.
//
// # Package-Level Logger
//
// The package-level functions such as [Info] and [Trace] log through a
// default logger writing to [os.Stderr]. Reconfigure it with [Config].
package log
