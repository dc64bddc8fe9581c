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
		{in: "trace", want: LevelTrace},
		{in: " TRACE ", want: LevelTrace},
		{in: "debug", want: LevelDebug},
		{in: "Info", want: LevelInfo},
		{in: "warn", want: LevelWarn},
		{in: "error", want: LevelError},
		{in: "warn+2", want: LevelWarn + 2},
		{in: "bogus", want: DefaultLevel},
		{in: "", want: DefaultLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLevel_Label(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{level: LevelTrace, want: "TRACE"},
		{level: LevelError, want: "ERROR"},
		{level: LevelWarn + 2, want: "WARN+2"},
	}

	for _, tt := range tests {
		if got := tt.level.label(); got != tt.want {
			t.Errorf("label(%d) = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if ParseFormat("JSON") != FormatJSON || ParseFormat("text") != FormatText {
		t.Error("known formats not parsed")
	}

	if ParseFormat("xml") != DefaultFormat {
		t.Error("unknown format did not yield the default")
	}
}

func TestNames(t *testing.T) {
	levels := slices.Collect(Levels())
	if !slices.Equal(levels, []string{"trace", "debug", "info", "warn", "error"}) {
		t.Errorf("Levels() = %v", levels)
	}

	formats := slices.Collect(Formats())
	if !slices.Equal(formats, []string{"text", "json"}) {
		t.Errorf("Formats() = %v", formats)
	}
}

func TestMakeFormatTime(t *testing.T) {
	ts := time.Date(2024, 3, 15, 9, 4, 5, 0, time.UTC)

	tests := []struct {
		layout string
		want   string
	}{
		{layout: "RFC3339", want: "2024-03-15T09:04:05Z"},
		{layout: "kitchen", want: "9:04AM"},
		{layout: "DateTime", want: "2024-03-15 09:04:05"},
		{layout: "2006/01/02", want: "2024/03/15"},
		{layout: "none", want: ""},
		{layout: "  ", want: ""},
	}

	for _, tt := range tests {
		if got := makeFormatTime(tt.layout)(ts); got != tt.want {
			t.Errorf("layout %q: got %q, want %q", tt.layout, got, tt.want)
		}
	}
}
