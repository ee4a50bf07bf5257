package telemetry

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/diogo/mcchat/internal/config"
)

func TestNewLogger_JSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "mcchat.log")
	cfg := config.LogConfig{Level: "info", Format: "json", File: path}

	log, closer, err := NewLogger(cfg)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}

	log.Info("test message", "key", "value")
	log.Debug("filtered out")
	if err := closer(); err != nil {
		t.Fatalf("closer: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 log line, got %d: %s", len(lines), data)
	}

	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("invalid JSON: %v, output: %s", err, lines[0])
	}
	if entry["msg"] != "test message" {
		t.Errorf("msg = %q, want %q", entry["msg"], "test message")
	}
	if entry["key"] != "value" {
		t.Errorf("key = %v, want value", entry["key"])
	}
}

func TestNewLogger_TextFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mcchat.log")
	log, closer, err := NewLogger(config.LogConfig{Level: "debug", Format: "text", File: path})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	log.Debug("hello", "n", 1)
	_ = closer()

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "msg=hello") {
		t.Errorf("expected text handler output, got %q", data)
	}
}

func TestNewLogger_EmptyPath(t *testing.T) {
	if _, _, err := NewLogger(config.LogConfig{}); err == nil {
		t.Error("expected error for empty log path")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestDiscardLogger(t *testing.T) {
	log := DiscardLogger()
	if log.Enabled(context.Background(), slog.LevelError) {
		t.Error("DiscardLogger should not enable any level")
	}
}
