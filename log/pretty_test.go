package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// Output to a buffer is not a terminal, so styles render as plain text.

func TestPrettyText_Fields(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatText), WithTimeLayout("none"))
	logger.Warn("disk low", slog.Int("free", 3), slog.Bool("ok", false))

	got := strings.TrimSpace(buf.String())
	want := "level=WARN msg=disk low free=3 ok=false"

	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestPrettyText_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatText), WithTimeLayout("none"))
	grouped := slog.New(logger.Handler().WithGroup("req").WithAttrs([]slog.Attr{
		slog.String("id", "7"),
	}))

	grouped.Info("handled", slog.Int("status", 200))

	got := strings.TrimSpace(buf.String())
	want := "level=INFO msg=handled req.id=7 req.status=200"

	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestPrettyJSON_Fields(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatJSON), WithTimeLayout("none"))
	logger.Error("failed", slog.String("path", "/tmp/x"))

	want := "{\n" +
		`  "level": ERROR,` + "\n" +
		`  "msg": failed,` + "\n" +
		`  "path": /tmp/x` + "\n" +
		"}\n"

	if buf.String() != want {
		t.Errorf("got  %q\nwant %q", buf.String(), want)
	}
}

func TestPretty_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithLevel(LevelWarn))
	logger.Info("hidden")
	logger.Debug("hidden")

	if buf.Len() > 0 {
		t.Errorf("unexpected output: %q", buf.String())
	}

	logger = logger.Wrap(WithLevel(LevelTrace), WithTimeLayout("none"))
	logger.Trace("shown")

	if !strings.Contains(buf.String(), "level=TRACE") {
		t.Errorf("trace not rendered by name: %q", buf.String())
	}
}
