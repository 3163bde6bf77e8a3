// Package logger provides the structured slog logger for the service. Logs
// are written in JSON to a size-rotated file and mirrored to stderr.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// New creates a JSON slog.Logger writing to <logDir>/notimail.log with
// rotation, tee'd to stderr. The directory is created if it does not exist.
func New(logDir string, level slog.Level) (*slog.Logger, error) {
	if err := os.MkdirAll(logDir, 0750); err != nil {
		return nil, fmt.Errorf("creating log directory %q: %w", logDir, err)
	}

	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "notimail.log"),
		MaxSize:    20, // megabytes
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	}

	handler := slog.NewJSONHandler(io.MultiWriter(os.Stderr, rotator), &slog.HandlerOptions{Level: level})
	return slog.New(handler), nil
}
