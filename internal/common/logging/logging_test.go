package logging

import (
	"bytes"
	"encoding/json"
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
		{" WARN ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestHandlerPerEnvironment(t *testing.T) {
	var buf bytes.Buffer
	newTo(&buf, "production", "info").Info("render: done", "figures", 2)
	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("production log is not JSON: %q", buf.String())
	}
	if rec["msg"] != "render: done" || rec["figures"] != 2.0 {
		t.Errorf("record = %v", rec)
	}

	buf.Reset()
	dev := newTo(&buf, "development", "warn")
	dev.Info("hidden")
	dev.Warn("shown", "index", 1)
	if out := buf.String(); strings.Contains(out, "hidden") || !strings.Contains(out, "msg=shown index=1") {
		t.Errorf("development log = %q", out)
	}
}
