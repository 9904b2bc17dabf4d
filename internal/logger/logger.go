package logger

import (
	"log/slog"
	"os"
)

var (
	globalLogger *slog.Logger
	verboseMode  bool
)

// Init initializes the global logger with verbose mode setting.
// Non-verbose mode still reports warnings and errors; stdout stays
// reserved for command output.
func Init(verbose bool) {
	verboseMode = verbose

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	globalLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(globalLogger)
}

func ensureInit() {
	if globalLogger == nil {
		Init(false)
	}
}

// Debug logs debug messages only in verbose mode
func Debug(msg string, args ...any) {
	ensureInit()
	globalLogger.Debug(msg, args...)
}

// Info logs info messages only in verbose mode
func Info(msg string, args ...any) {
	ensureInit()
	globalLogger.Info(msg, args...)
}

// Warn logs warning messages
func Warn(msg string, args ...any) {
	ensureInit()
	globalLogger.Warn(msg, args...)
}

// Error always logs error messages regardless of verbose mode
func Error(msg string, args ...any) {
	ensureInit()
	globalLogger.Error(msg, args...)
}

// IsVerbose returns whether verbose mode is enabled
func IsVerbose() bool {
	return verboseMode
}
