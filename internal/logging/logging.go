package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

const componentKey = "component"

// Setup installs the process-wide logger. levelName is parsed with ParseLevel,
// format is "text" or "json", and a nil w logs to stderr.
func Setup(w io.Writer, levelName, format string) error {
	level, err := ParseLevel(levelName)
	if err != nil {
		return err
	}
	if w == nil {
		w = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text":
		handler = slog.NewTextHandler(w, opts)
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		return fmt.Errorf("unknown log format %q", format)
	}

	slog.SetDefault(slog.New(handler))
	return nil
}

// New tags the current default logger with component. Loggers are derived at
// construction time, so Setup must run before the pipeline is built.
func New(component string) *slog.Logger {
	return slog.Default().With(componentKey, component)
}

// ParseLevel maps debug, info, warning and error (any case) to a slog level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
}
