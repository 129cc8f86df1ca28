package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/unkn0wn-root/pickterm/internal/errdef"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want slog.Level
		ok   bool
	}{
		{"", slog.LevelInfo, true},
		{"DEBUG", slog.LevelDebug, true},
		{"warning", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"off", levelOff, true},
		{"loud", slog.LevelInfo, false},
	}
	for _, tc := range cases {
		got, ok := ParseLevel(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("ParseLevel(%q) = %v,%v want %v,%v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelWarn)
	logger.Info("hidden")
	logger.Warn("shown", "count", 2)
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info should be filtered, got %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "count=2") {
		t.Fatalf("expected warn record, got %q", out)
	}
}

func TestOpenWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "pickterm.log")
	logger, closer, err := Open(path, "debug")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	logger.Debug("loaded", "records", 3)
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "records=3") {
		t.Fatalf("unexpected log content %q", data)
	}
}

func TestOpenDisabledAndInvalid(t *testing.T) {
	if _, closer, err := Open("", "info"); err != nil || closer == nil {
		t.Fatalf("expected discard logger, got %v", err)
	}
	if _, _, err := Open("x.log", "loud"); !errdef.Is(err, errdef.CodeConfig) {
		t.Fatalf("expected config error, got %v", err)
	}
}
