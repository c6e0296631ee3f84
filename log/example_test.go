package log_test

import (
	"log/slog"
	"os"

	"github.com/ardnew/defconf/log"
)

func Example_levels() {
	logger := log.Make(os.Stdout,
		log.WithLevel(log.LevelWarn),
		log.WithTimeLayout("none"),
		log.WithPretty(false))

	logger.Info("info message")
	logger.Warn("warning message", slog.String("key", "value"))
	// Output:
	// level=WARN msg="warning message" key=value
}

func Example_component() {
	logger := log.Make(os.Stdout,
		log.WithFormat(log.FormatJSON),
		log.WithTimeLayout("none"),
		log.WithPretty(false))

	logger.With(log.Component("lang")).Info("parse complete", slog.Int("statements", 2))
	// Output:
	// {"level":"INFO","msg":"parse complete","component":"lang","statements":2}
}

func Example_trace() {
	logger := log.Make(os.Stdout,
		log.WithLevel(log.LevelTrace),
		log.WithTimeLayout("none"),
		log.WithPretty(false))

	logger.Trace("cache lookup", slog.Bool("cache_hit", true))
	// Output:
	// level=TRACE msg="cache lookup" cache_hit=true
}
