// Package logger provides process logging for the Artemis CLI.
// Warnings and errors are always written. When verbose mode is enabled via
// the --verbose flag, debug and info messages are written too, so users can
// follow a detection run through its states.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
	sugar             = build(output, verbose)
)

func build(w io.Writer, v bool) *zap.SugaredLogger {
	level := zapcore.WarnLevel
	if v {
		level = zapcore.DebugLevel
	}
	encoderCfg := zapcore.EncoderConfig{
		LevelKey:         "level",
		MessageKey:       "msg",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		ConsoleSeparator: " ",
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.AddSync(w), level)
	return zap.New(core).Sugar()
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	sugar = build(output, verbose)
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	sugar = build(output, verbose)
}

// Sugar returns the underlying structured logger.
func Sugar() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

// Debug writes a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	Sugar().Debugf(format, args...)
}

// Section writes a section header if verbose mode is enabled.
func Section(name string) {
	Sugar().Debugf("=== %s ===", name)
}

// Info writes an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	Sugar().Infof(format, args...)
}

// Warn writes a warning message.
func Warn(format string, args ...any) {
	Sugar().Warnf(format, args...)
}

// Error writes an error message.
func Error(format string, args ...any) {
	Sugar().Errorf(format, args...)
}

// Transition logs a state machine transition.
func Transition(runID, from, to string) {
	Sugar().Infow(fmt.Sprintf("run %s: %s -> %s", runID, from, to), "run", runID, "from", from, "to", to)
}
