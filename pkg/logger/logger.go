package logger

import (
	"strings"
	"sync"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu           sync.RWMutex
	globalLogger logr.Logger
	zapLogger    *zap.Logger
)

// ParseLevel maps a level name to a zap level. Unknown names map to info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Init initializes the global logger. Output goes to stderr; stdout belongs
// to the stdio transport.
func Init(level string) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(ParseLevel(level))
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	zl, err := cfg.Build()
	if err != nil {
		dev := zap.NewDevelopmentConfig()
		dev.Level = zap.NewAtomicLevelAt(ParseLevel(level))
		zl, _ = dev.Build()
	}

	mu.Lock()
	defer mu.Unlock()
	zapLogger = zl
	globalLogger = zapr.NewLogger(zl)
}

// Get returns the global logger instance
func Get() logr.Logger {
	mu.RLock()
	l := globalLogger
	mu.RUnlock()
	if l.GetSink() == nil {
		Init("info")
		return Get()
	}
	return l
}

// LogExecCommand logs information about an exec command being executed
func LogExecCommand(command string, args []string, caller string) {
	Get().V(1).Info("executing command",
		"command", command,
		"args", args,
		"caller", caller,
	)
}

// LogExecCommandResult logs the result of an exec command
func LogExecCommandResult(command string, args []string, output string, err error, duration float64, caller string) {
	if err != nil {
		Get().Error(err, "command execution failed",
			"command", command,
			"args", args,
			"duration_seconds", duration,
			"caller", caller,
		)
		return
	}
	Get().Info("command execution finished",
		"command", command,
		"args", args,
		"output_size", len(output),
		"duration_seconds", duration,
		"caller", caller,
	)
}

// Sync flushes buffered log entries.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	if zapLogger != nil {
		_ = zapLogger.Sync()
	}
}
