// Package log provides category-tagged structured logging backed by logrus.
//
// Calls take a category, a message and alternating key/value fields:
//
//	log.Info(log.CatTimer, "countdown started", "duration", d)
package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// Category groups related log messages.
type Category string

const (
	CatTimer    Category = "timer"    // Countdown, ticks and drift handling
	CatPhase    Category = "phase"    // State machine transitions
	CatPreset   Category = "preset"   // Preset selection and edits
	CatConfig   Category = "config"   // Configuration loading/saving
	CatStorage  Category = "storage"  // Preset file and journal persistence
	CatPlatform Category = "platform" // Single instance, URL commands, autostart
	CatUI       Category = "ui"       // Tray, notifications, console
	CatSound    Category = "sound"    // Audio feedback
)

var logger = newLogger(os.Stderr)

func newLogger(out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02T15:04:05",
	})
	return l
}

// Init directs log output to path and sets the minimum level.
// Returns a cleanup function that closes the log file.
func Init(path string, level string) (func(), error) {
	if err := SetLevel(level); err != nil {
		return nil, err
	}
	if path == "" {
		return func() {}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) //nolint:gosec // G304: user-configured log path
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	logger.SetOutput(file)
	return func() {
		logger.SetOutput(os.Stderr)
		_ = file.Close()
	}, nil
}

// SetOutput replaces the log destination.
func SetOutput(out io.Writer) {
	logger.SetOutput(out)
}

// SetLevel sets the minimum level by name ("debug", "info", "warn", "error").
func SetLevel(level string) error {
	if strings.TrimSpace(level) == "" {
		return nil
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}
	logger.SetLevel(parsed)
	return nil
}

// SetExitFunc replaces the function Fatal calls after logging.
func SetExitFunc(exit func(int)) {
	logger.ExitFunc = exit
}

// Debug logs at debug level.
func Debug(cat Category, msg string, fields ...any) {
	entry(cat, fields).Debug(msg)
}

// Info logs at info level.
func Info(cat Category, msg string, fields ...any) {
	entry(cat, fields).Info(msg)
}

// Warn logs at warning level.
func Warn(cat Category, msg string, fields ...any) {
	entry(cat, fields).Warn(msg)
}

// Error logs at error level.
func Error(cat Category, msg string, fields ...any) {
	entry(cat, fields).Error(msg)
}

// ErrorErr logs an error with the error value.
func ErrorErr(cat Category, msg string, err error, fields ...any) {
	entry(cat, fields).WithError(err).Error(msg)
}

// Fatal logs err and terminates the process through the exit func.
func Fatal(cat Category, msg string, err error, fields ...any) {
	entry(cat, fields).WithError(err).Fatal(msg)
}

func entry(cat Category, fields []any) *logrus.Entry {
	data := logrus.Fields{"cat": string(cat)}
	for i := 0; i+1 < len(fields); i += 2 {
		data[fmt.Sprint(fields[i])] = fields[i+1]
	}
	if len(fields)%2 != 0 {
		data[fmt.Sprint(fields[len(fields)-1])] = "<missing>"
	}
	return logger.WithFields(data)
}
