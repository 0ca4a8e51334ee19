// Package logger configures the process-wide charmbracelet logger.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Setup installs the default logger writing to w (stderr when nil).
// format "json" selects the JSON formatter, anything else is text.
func Setup(w io.Writer, level, format string) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "2006-01-02 15:04:05",
		Level:           ParseLevel(level),
	})
	if strings.EqualFold(format, "json") {
		l.SetFormatter(log.JSONFormatter)
	}
	log.SetDefault(l)
	return l
}

func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}
