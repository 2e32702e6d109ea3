package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	// Logger is the global logger instance
	Logger *log.Logger

	// sink is the rotating log file, nil when logging to a caller-supplied writer
	sink *lumberjack.Logger
)

// Options configures Init.
type Options struct {
	Dir        string // directory for dailybugle.log
	Level      string // debug, info, warn, error
	MaxSizeMB  int
	MaxBackups int
}

// Init initializes the logging system with a rotating file under opts.Dir.
// The TUI owns stdout, so nothing is written to the terminal.
func Init(opts Options) error {
	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	sink = &lumberjack.Logger{
		Filename:   filepath.Join(opts.Dir, "dailybugle.log"),
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		Compress:   false,
	}

	if err := InitWriter(sink, opts.Level); err != nil {
		sink.Close()
		sink = nil
		return err
	}

	Logger.Info("Daily Bugle started", "version", "0.1.0")
	return nil
}

// InitWriter points the global logger at w. Used directly by tests and by
// one-shot CLI commands that log to stderr.
func InitWriter(w io.Writer, level string) error {
	lvl := log.InfoLevel
	if level != "" {
		parsed, err := log.ParseLevel(level)
		if err != nil {
			return fmt.Errorf("parse log level %q: %w", level, err)
		}
		lvl = parsed
	}

	Logger = log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           lvl,
	})
	return nil
}

// Close closes the log file
func Close() {
	if Logger != nil {
		Logger.Info("Daily Bugle shutting down")
	}
	if sink != nil {
		sink.Close()
		sink = nil
		Logger = nil
	}
}

// Info logs an info message
func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

// Debug logs a debug message
func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

// Warn logs a warning message
func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

// Error logs an error message
func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}
