package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// TODO: Allow configuration of log level (env var or config file)

var defaultLogger *slog.Logger

// logFilePath determines the path for the application log file based on XDG spec.
func logFilePath() (string, error) {
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("could not get user home directory: %w", err)
		}
		stateDir = filepath.Join(homeDir, ".local", "state")
	}

	return filepath.Join(stateDir, "runwrap", "app.log"), nil
}

// setupLogging configures the default logger to write to the state file,
// stderr, or both.
func setupLogging(logToFile bool, logToStderr bool) {
	if !logToFile && !logToStderr {
		logToStderr = true
	}

	var writers []io.Writer

	if logToFile {
		path, err := logFilePath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error determining log file path: %v. File logging disabled.\n", err)
		} else if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
			fmt.Fprintf(os.Stderr, "Error creating log directory %s: %v. File logging disabled.\n", filepath.Dir(path), err)
		} else {
			file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0640)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error opening log file %s: %v. File logging disabled.\n", path, err)
			} else {
				// The handle stays open for the process lifetime; the OS
				// closes it on exit, which is fine for a one-shot CLI.
				writers = append(writers, file)
			}
		}
	}

	if logToStderr {
		writers = append(writers, os.Stderr)
	}

	var finalWriter io.Writer
	switch len(writers) {
	case 0:
		finalWriter = os.Stderr
	case 1:
		finalWriter = writers[0]
	default:
		finalWriter = io.MultiWriter(writers...)
	}

	handler := slog.NewJSONHandler(finalWriter, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	defaultLogger = slog.New(handler)
}

// InitLogger initializes the logger based on the execution mode.
// TUI mode must not log to stderr, it would corrupt the display.
func InitLogger(isTUI bool) {
	setupLogging(true, !isTUI)
}

// SetLogger replaces the default logger instance. Intended for tests.
func SetLogger(l *slog.Logger) {
	defaultLogger = l
}

// checkLogger guards against use before InitLogger.
func checkLogger() {
	if defaultLogger == nil {
		InitLogger(false)
	}
}

// Info logs an informational message.
func Info(msg string, args ...any) {
	checkLogger()
	defaultLogger.Info(msg, args...)
}

// Infof logs a formatted informational message.
func Infof(format string, v ...interface{}) {
	checkLogger()
	defaultLogger.Info(fmt.Sprintf(format, v...))
}

// Error logs an error message.
func Error(msg string, args ...any) {
	checkLogger()
	defaultLogger.Error(msg, args...)
}

// Errorf logs a formatted error message.
func Errorf(format string, v ...interface{}) {
	checkLogger()
	defaultLogger.Error(fmt.Sprintf(format, v...))
}

// Debug logs a debug message.
func Debug(msg string, args ...any) {
	checkLogger()
	defaultLogger.Debug(msg, args...)
}

// Warn logs a warning message.
func Warn(msg string, args ...any) {
	checkLogger()
	defaultLogger.Warn(msg, args...)
}

// Warnf logs a formatted warning message.
func Warnf(format string, v ...interface{}) {
	checkLogger()
	defaultLogger.Warn(fmt.Sprintf(format, v...))
}
