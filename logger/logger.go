// Package logger holds the process-wide zap logger.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Output formats accepted by InitLogger.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// No-op until InitLogger runs, so packages can log from tests.
var zapLog = zap.NewNop()

// InitLogger installs a logger at level. Console output is for people at a terminal; json is
// for the server when its logs are collected.
func InitLogger(level zapcore.Level, format string) error {
	var config zap.Config
	switch format {
	case FormatConsole, "":
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("Jan _2 15:04:05.000000000")
	case FormatJSON:
		config = zap.NewProductionConfig()
		config.Sampling = nil
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	default:
		return fmt.Errorf("unknown log format %q", format)
	}
	config.Level = zap.NewAtomicLevelAt(level)
	config.EncoderConfig.TimeKey = "time"
	config.EncoderConfig.StacktraceKey = "" // stack traces are logged explicitly on panics

	built, err := config.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}
	zapLog = built
	return nil
}

// Replace swaps in l, which must not carry the package caller skip, and returns a func
// restoring the previous logger.
func Replace(l *zap.Logger) (restore func()) {
	prev := zapLog
	zapLog = l.WithOptions(zap.AddCallerSkip(1))
	return func() { zapLog = prev }
}

// L returns the underlying logger, e.g. for middleware that wants its own copy.
func L() *zap.Logger {
	return zapLog.WithOptions(zap.AddCallerSkip(-1))
}

// With returns a logger carrying the given fields on every entry.
func With(fields ...zap.Field) *zap.Logger {
	return L().With(fields...)
}

func Info(message string, fields ...zap.Field) {
	zapLog.Info(message, fields...)
}

func Warn(message string, fields ...zap.Field) {
	zapLog.Warn(message, fields...)
}

func Debug(message string, fields ...zap.Field) {
	zapLog.Debug(message, fields...)
}

func Error(message string, fields ...zap.Field) {
	zapLog.Error(message, fields...)
}

func Fatal(message string, fields ...zap.Field) {
	zapLog.Fatal(message, fields...)
}

// Sync flushes any buffered log entries
func Sync() error {
	return zapLog.Sync()
}
