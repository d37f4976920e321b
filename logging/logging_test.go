package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "info", Format: "json", Output: &buf}).
		With(String("gateway", "nokia"))

	log.Debug(context.Background(), "dropped")
	log.Info(context.Background(), "observed cells", Int("cells", 3), Err(errors.New("partial")))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
	}

	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if rec["msg"] != "observed cells" {
		t.Errorf("msg = %v", rec["msg"])
	}
	if rec["gateway"] != "nokia" {
		t.Errorf("gateway = %v", rec["gateway"])
	}
	if rec["cells"] != float64(3) {
		t.Errorf("cells = %v", rec["cells"])
	}
	if rec["error"] != "partial" {
		t.Errorf("error = %v", rec["error"])
	}
}

func TestTextLoggerDefault(t *testing.T) {
	var buf bytes.Buffer
	New(Config{Output: &buf}).Warn(context.Background(), "slow gateway")
	if !strings.Contains(buf.String(), "level=WARN") || !strings.Contains(buf.String(), "slow gateway") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestNoop(t *testing.T) {
	log := Noop().With(String("k", "v"))
	log.Error(context.Background(), "nothing happens")
}
