package main

import (
	"io"
	"log/slog"
	"strings"

	"github.com/dcvalino/mysite/config"
)

// newLogger builds the process logger from the log section. It does not set
// the global logger.
func newLogger(cfg config.LogSection, outW io.Writer) *slog.Logger {
	level, err := cfg.SlogLevel()
	if err != nil {
		level = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(outW, handlerOpts)
	} else {
		handler = slog.NewTextHandler(outW, handlerOpts)
	}

	return slog.New(handler)
}

// accessLogFormat is the fiber logger line. Request bodies and auth headers
// are left out since they carry passwords and session cookies.
func accessLogFormat() string {
	format := []string{
		// Timestamp
		"${time}",

		// Response metadata
		"${status}|${latency}",

		// Client info
		"${ip}",

		// Transfer size
		"${bytesReceived}|${bytesSent}",

		// Request details
		"${method}|${path}",

		// errors
		"${error}",
	}
	return strings.Join(format, "|") + "\n"
}
