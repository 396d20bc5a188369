/*
Copyright © 2025 Preflight Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package logging configures the process-wide structured logger.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// SetDefaultStructuredLogger installs a JSON slog handler as the default
// logger, tagged with the service name and version. The log level is read
// from the LOG_LEVEL environment variable (debug, info, warn, error) and
// defaults to info.
func SetDefaultStructuredLogger(name, version string) {
	level := ParseLevel(os.Getenv("LOG_LEVEL"))

	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})

	logger := slog.New(handler).With(
		slog.String("service", name),
		slog.String("version", version),
	)

	slog.SetDefault(logger)
}

// ParseLevel converts a level string into a slog.Level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
