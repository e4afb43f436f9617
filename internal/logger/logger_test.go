package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/gravitas-games/aftermath/internal/config"
)

func TestParseLogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"loud":  slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLogLevel(in); got != want {
			t.Fatalf("%q: expected %v, got %v", in, want, got)
		}
	}
}

func TestInitWriterJSON(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	var buf bytes.Buffer
	l := InitWriter(&buf, config.LogConfig{Level: "warn", JSON: true})
	l.Info("dropped")
	l.Warn("kept", "player", "prussia")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("expected one JSON record, got %q: %v", buf.String(), err)
	}
	if rec["msg"] != "kept" || rec["player"] != "prussia" {
		t.Fatalf("unexpected record %v", rec)
	}
}
