package log

import (
	"slices"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"trace", LevelTrace},
		{"TRACE", LevelTrace},
		{" debug ", LevelDebug},
		{"info", LevelInfo},
		{"WARN", LevelWarn},
		{"error", LevelError},
		{"info+2", Level(2)},
		{"bogus", DefaultLevel},
		{"", DefaultLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLevel_TextRoundTrip(t *testing.T) {
	for name := range Levels() {
		var l Level

		if err := l.UnmarshalText([]byte(name)); err != nil {
			t.Fatalf("UnmarshalText(%q): %v", name, err)
		}

		text, err := l.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText: %v", err)
		}

		if string(text) != name {
			t.Errorf("round trip of %q gave %q", name, text)
		}
	}
}

func TestLevels_Order(t *testing.T) {
	got := slices.Collect(Levels())
	want := []string{"trace", "debug", "info", "warn", "error"}

	if !slices.Equal(got, want) {
		t.Errorf("Levels() = %v, want %v", got, want)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{"text", FormatText},
		{" Text ", FormatText},
		{"yaml", DefaultFormat},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseFormat(tt.in); got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}

	if got := slices.Collect(Formats()); !slices.Equal(got, []string{"text", "json"}) {
		t.Errorf("Formats() = %v", got)
	}
}

func TestConfig_formatTime(t *testing.T) {
	ts := time.Date(2024, 3, 5, 14, 7, 9, 123456789, time.UTC)

	tests := []struct {
		name   string
		layout string
		want   string
	}{
		{"rfc3339 named", "RFC3339", "2024-03-05T14:07:09Z"},
		{"rfc3339 punctuated", "rfc-3339", "2024-03-05T14:07:09Z"},
		{"rfc3339 nano", "RFC3339Nano", "2024-03-05T14:07:09.123456789Z"},
		{"kitchen", "Kitchen", "2:07PM"},
		{"datetime", "DateTime", "2024-03-05 14:07:09"},
		{"custom", "2006/01/02", "2024/03/05"},
		{"none", "none", ""},
		{"empty", "", ""},
		{"blank", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := makeFormatTimeFunc(tt.layout)(ts); got != tt.want {
				t.Errorf("layout %q: got %q, want %q", tt.layout, got, tt.want)
			}
		})
	}
}

func TestConfig_Defaults(t *testing.T) {
	c := makeConfig(nil)

	if c.output == nil {
		t.Error("nil writer should be replaced with io.Discard")
	}

	if c.level != DefaultLevel {
		t.Errorf("level = %v, want %v", c.level, DefaultLevel)
	}

	if c.format != DefaultFormat {
		t.Errorf("format = %v, want %v", c.format, DefaultFormat)
	}

	if c.caller != DefaultCaller || c.pretty != DefaultPretty {
		t.Errorf("caller = %v, pretty = %v", c.caller, c.pretty)
	}
}

func TestConfig_OptionsDoNotShareState(t *testing.T) {
	base := makeConfig(nil, WithLevel(LevelWarn))
	derived := apply(base, WithLevel(LevelTrace), WithFormat(FormatJSON))

	if base.level != LevelWarn || base.format != DefaultFormat {
		t.Errorf("base config was modified: %+v", base)
	}

	if derived.level != LevelTrace || derived.format != FormatJSON {
		t.Errorf("derived config not applied: %+v", derived)
	}
}

func BenchmarkConfig_formatTime(b *testing.B) {
	format := makeFormatTimeFunc("RFC3339Nano")
	now := time.Now()

	for b.Loop() {
		_ = format(now)
	}
}
