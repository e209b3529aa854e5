package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARNING": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestSetupJSON(t *testing.T) {
	var buf bytes.Buffer
	l := Setup("warn", "json", &buf)
	l.Info("dropped")
	l.Warn("kept", "file", "a.csv")
	out := buf.String()
	if strings.Contains(out, "dropped") || !strings.Contains(out, `"file":"a.csv"`) {
		t.Fatalf("unexpected output %s", out)
	}
}
