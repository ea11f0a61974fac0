// Package logger provides a wrapper around logrus for structured logging.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileOptions configures rotation of the optional log file
type FileOptions struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// NewLogger creates a new configured logger instance
func NewLogger(logLevel string) *logrus.Logger {
	logger := logrus.New()

	logger.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logger.Warnf("Invalid log level '%s', defaulting to info", logLevel)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	// Use JSON formatter for structured logging in production
	if os.Getenv("ENVIRONMENT") == "production" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}

	return logger
}

// AttachFile tees log output into a rotating file in addition to stdout.
// An empty path leaves the logger unchanged.
func AttachFile(logger *logrus.Logger, opts FileOptions) error {
	if opts.Path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return err
	}

	if opts.MaxSizeMB == 0 {
		opts.MaxSizeMB = 100
	}

	fileWriter := &lumberjack.Logger{
		Filename:   opts.Path,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Compress:   opts.Compress,
	}
	// No ANSI escapes in the file
	if text, ok := logger.Formatter.(*logrus.TextFormatter); ok {
		text.ForceColors = false
		text.DisableColors = true
	}
	logger.SetOutput(io.MultiWriter(os.Stdout, fileWriter))
	return nil
}
