package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// parseOutput maps LOG_OUTPUT to a writer. Unknown values log to stdout.
func parseOutput(o string) io.Writer {
	switch strings.ToLower(strings.TrimSpace(o)) {
	case "stderr":
		return os.Stderr
	case "discard", "none":
		return io.Discard
	default:
		return os.Stdout
	}
}

// parseLevel accepts slog level names, including offsets such as "INFO+2",
// plus WARNING as an alias for WARN. Anything else is INFO.
func parseLevel(s string) slog.Level {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "WARNING" {
		return slog.LevelWarn
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}
