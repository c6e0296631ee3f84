package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles used by the pretty handlers.
//
// Styles are bound to a renderer for the handler's output, so color is only
// emitted when that output is a terminal.
type palette struct {
	key    lipgloss.Style
	text   lipgloss.Style
	number lipgloss.Style
	truthy lipgloss.Style
	falsy  lipgloss.Style
	time   lipgloss.Style
	source lipgloss.Style
	level  map[slog.Level]lipgloss.Style
}

func newPalette(w io.Writer) *palette {
	r := lipgloss.NewRenderer(w)

	fg := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c))
	}

	return &palette{
		key:     fg("8"),
		text:    fg("6"),
		number:  fg("3"),
		truthy:  fg("2"),
		falsy:   fg("1"),
		time:    fg("4"),
		source:  fg("5"),
		level: map[slog.Level]lipgloss.Style{
			slog.Level(LevelTrace): fg("5"),
			slog.LevelDebug:        fg("4"),
			slog.LevelInfo:         fg("2").Bold(true),
			slog.LevelWarn:         fg("3").Bold(true),
			slog.LevelError:        fg("1").Bold(true),
		},
	}
}

// levelStyle returns the style of the nearest defined level at or below l.
func (p *palette) levelStyle(l slog.Level) lipgloss.Style {
	switch {
	case l >= slog.LevelError:
		return p.level[slog.LevelError]
	case l >= slog.LevelWarn:
		return p.level[slog.LevelWarn]
	case l >= slog.LevelInfo:
		return p.level[slog.LevelInfo]
	case l >= slog.LevelDebug:
		return p.level[slog.LevelDebug]
	default:
		return p.level[slog.Level(LevelTrace)]
	}
}

// value renders v with the style of its kind.
func (p *palette) value(v slog.Value) string {
	v = v.Resolve()

	switch v.Kind() {
	case slog.KindString:
		return p.text.Render(v.String())

	case slog.KindInt64:
		return p.number.Render(strconv.FormatInt(v.Int64(), 10))

	case slog.KindUint64:
		return p.number.Render(strconv.FormatUint(v.Uint64(), 10))

	case slog.KindFloat64:
		return p.number.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64))

	case slog.KindBool:
		if v.Bool() {
			return p.truthy.Render("true")
		}

		return p.falsy.Render("false")

	case slog.KindDuration:
		return p.time.Render(v.Duration().String())

	case slog.KindTime:
		return p.time.Render(v.Time().String())

	default:
		return p.text.Render(v.String())
	}
}

// handlerState is shared by the pretty handlers: options, output, the
// attributes added with WithAttrs, and the group prefix.
type handlerState struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	style  *palette
	attrs  []slog.Attr
	groups []string
}

func newHandlerState(w io.Writer, opts *slog.HandlerOptions) handlerState {
	return handlerState{
		opts:  *opts,
		mu:    &sync.Mutex{},
		w:     w,
		style: newPalette(w),
	}
}

func (h handlerState) enabled(level slog.Level) bool {
	floor := slog.LevelInfo
	if h.opts.Level != nil {
		floor = h.opts.Level.Level()
	}

	return level >= floor
}

func (h handlerState) withAttrs(attrs []slog.Attr) handlerState {
	h.attrs = append(h.attrs[:len(h.attrs):len(h.attrs)], h.qualify(attrs)...)

	return h
}

func (h handlerState) withGroup(name string) handlerState {
	if name != "" {
		h.groups = append(h.groups[:len(h.groups):len(h.groups)], name)
	}

	return h
}

// qualify prefixes attribute keys with the open groups.
func (h handlerState) qualify(attrs []slog.Attr) []slog.Attr {
	if len(h.groups) == 0 {
		return attrs
	}

	prefix := ""
	for _, g := range h.groups {
		prefix += g + "."
	}

	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = slog.Attr{Key: prefix + a.Key, Value: a.Value}
	}

	return out
}

// fields collects the attributes of r, in output order, after ReplaceAttr.
func (h handlerState) fields(r slog.Record) []slog.Attr {
	var out []slog.Attr

	add := func(a slog.Attr) {
		if h.opts.ReplaceAttr != nil && a.Value.Kind() != slog.KindGroup {
			a = h.opts.ReplaceAttr(h.groups, a)
		}

		if a.Key != "" {
			out = append(out, a)
		}
	}

	if !r.Time.IsZero() {
		add(slog.Time(slog.TimeKey, r.Time))
	}

	add(slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			add(slog.String(slog.SourceKey, fmt.Sprintf("%s:%d", src.File, src.Line)))
		}
	}

	add(slog.String(slog.MessageKey, r.Message))

	for _, a := range h.attrs {
		add(a)
	}

	var recAttrs []slog.Attr

	r.Attrs(func(a slog.Attr) bool {
		recAttrs = append(recAttrs, a)

		return true
	})

	for _, a := range h.qualify(recAttrs) {
		add(a)
	}

	return out
}

func (h handlerState) write(buf *bytes.Buffer) error {
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

// render styles one field value, coloring the level by severity.
func (h handlerState) render(a slog.Attr, level slog.Level) string {
	switch a.Key {
	case slog.LevelKey:
		return h.style.levelStyle(level).Render(a.Value.String())

	case slog.TimeKey:
		return h.style.time.Render(a.Value.String())

	case slog.SourceKey:
		return h.style.source.Render(a.Value.String())

	default:
		return h.style.value(a.Value)
	}
}

// prettyTextHandler writes one line per record as unquoted key=value pairs.
type prettyTextHandler struct{ handlerState }

func newPrettyTextHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) *prettyTextHandler {
	return &prettyTextHandler{newHandlerState(w, opts)}
}

func (h *prettyTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.enabled(level)
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	for i, a := range h.fields(r) {
		if i > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(h.style.key.Render(a.Key))
		buf.WriteByte('=')
		buf.WriteString(h.render(a, r.Level))
	}

	return h.write(&buf)
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyTextHandler{h.withAttrs(attrs)}
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	return &prettyTextHandler{h.withGroup(name)}
}

// prettyJSONHandler writes each record as an indented JSON-like object with
// unquoted, styled values.
type prettyJSONHandler struct{ handlerState }

func newPrettyJSONHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) *prettyJSONHandler {
	return &prettyJSONHandler{newHandlerState(w, opts)}
}

func (h *prettyJSONHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.enabled(level)
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	buf.WriteString("{")

	for i, a := range h.fields(r) {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, _ := json.Marshal(a.Key)

		buf.WriteString("\n  ")
		buf.WriteString(h.style.key.Render(string(key)))
		buf.WriteString(": ")
		buf.WriteString(h.render(a, r.Level))
	}

	buf.WriteString("\n}")

	return h.write(&buf)
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyJSONHandler{h.withAttrs(attrs)}
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	return &prettyJSONHandler{h.withGroup(name)}
}
