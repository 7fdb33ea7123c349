package logging

import (
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func useLogFile(t *testing.T) string {
	t.Helper()
	prev := Path()
	path := filepath.Join(t.TempDir(), "nested", "test.log")
	Configure(path)
	t.Cleanup(func() {
		Configure(prev)
		SetTraceEnabled(false)
	})
	return path
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"":      slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for name, want := range cases {
		got, err := ParseLevel(name)
		if err != nil {
			t.Fatalf("%q: unexpected error %v", name, err)
		}
		if got != want {
			t.Fatalf("%q: expected %v, got %v", name, want, got)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestTraceWritesOnlyWhenEnabled(t *testing.T) {
	path := useLogFile(t)
	Trace("ignored", nil)
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected no log file while tracing is off, got %v", err)
	}
	SetTraceEnabled(true)
	Trace("menu.load", map[string]interface{}{"nodes": 3})
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	var entry struct {
		Event   string                 `json:"event"`
		Payload map[string]interface{} `json:"payload"`
	}
	if err := json.Unmarshal(data, &entry); err != nil {
		t.Fatalf("decode trace entry: %v", err)
	}
	if entry.Event != "menu.load" || entry.Payload["nodes"] != float64(3) {
		t.Fatalf("unexpected entry %+v", entry)
	}
}

func TestNewLoggerRespectsLevel(t *testing.T) {
	path := useLogFile(t)
	logger := NewLogger(slog.LevelWarn)
	logger.Info("hidden")
	logger.Warn("shown", "file", "main.menu")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if strings.Contains(out, "hidden") {
		t.Fatalf("info record should be filtered: %q", out)
	}
	if !strings.Contains(out, "msg=shown") || !strings.Contains(out, "file=main.menu") {
		t.Fatalf("warn record missing: %q", out)
	}
}

func TestErrorAppends(t *testing.T) {
	path := useLogFile(t)
	Error(errors.New("first"))
	Error(nil)
	Error(errors.New("second"))
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 || !strings.HasSuffix(lines[1], "ERROR second") {
		t.Fatalf("unexpected log contents %q", lines)
	}
}
