// Package logging builds the structured loggers navstack writes through.
//
// Loggers emit JSON records whose level is held in a [slog.LevelVar], so it
// can be raised or lowered while containers keep their logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strings"
	"sync"
)

var (
	defaultOnce  sync.Once
	defaultLog   *slog.Logger
	defaultLevel *slog.LevelVar
)

// New returns a JSON logger writing to w and the LevelVar controlling it.
// A nil w writes to stderr.
func New(w io.Writer, level slog.Level) (*slog.Logger, *slog.LevelVar) {
	if w == nil {
		w = os.Stderr
	}
	lv := &slog.LevelVar{}
	lv.Set(level)
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     lv,
		AddSource: false,
	})
	return slog.New(handler), lv
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	// slog.DiscardHandler needs Go 1.24; this handler is never enabled.
	return slog.New(slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(math.MaxInt32),
	}))
}

// Default returns the process-wide logger, created on first use at info
// level on stderr.
func Default() *slog.Logger {
	defaultOnce.Do(func() {
		defaultLog, defaultLevel = New(os.Stderr, slog.LevelInfo)
	})
	return defaultLog
}

// SetLevel sets the level of the Default logger.
func SetLevel(level slog.Level) {
	Default()
	defaultLevel.Set(level)
}

// ParseLevel parses debug, info, warn (or warning) and error, ignoring
// case. "" is info.
func ParseLevel(raw string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", raw)
	}
}
