package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/unkn0wn-root/pickterm/internal/errdef"
)

// levelOff sits above every standard level.
const levelOff = slog.Level(100)

func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: levelOff}))
}

// Open appends to path, creating parent directories. The returned closer
// must be closed by the caller. An empty path or level "off" disables
// logging.
func Open(path, level string) (*slog.Logger, io.Closer, error) {
	lvl, ok := ParseLevel(level)
	if !ok {
		return Discard(), nopCloser{}, errdef.New(errdef.CodeConfig, "unknown log level %q", level)
	}
	if path == "" || lvl == levelOff {
		return Discard(), nopCloser{}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Discard(), nopCloser{}, errdef.Wrap(errdef.CodeConfig, err, "create log dir")
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return Discard(), nopCloser{}, errdef.Wrap(errdef.CodeConfig, err, "open log file")
	}
	return New(f, lvl), f, nil
}

// ParseLevel accepts debug, info, warn, error and off (case-insensitive).
// An empty value means info.
func ParseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "", "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	case "off", "none":
		return levelOff, true
	default:
		return slog.LevelInfo, false
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
