// Package loggerx constructs the platform's logr.Logger, backed by zap.
// Every service takes a logr.Logger rather than a concrete *zap.Logger so
// the logging backend stays swappable, matching the rest of the ambient
// stack's dependency-injection convention.
package loggerx

import (
	"fmt"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a logr.Logger at the given level ("debug", "info", "warn",
// "error") rendering in the given format ("json" or "console").
func New(level, format string) (logr.Logger, error) {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		return logr.Logger{}, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	switch format {
	case "console":
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	case "", "json":
		cfg.Encoding = "json"
	default:
		return logr.Logger{}, fmt.Errorf("unsupported log format %q", format)
	}

	zl, err := cfg.Build()
	if err != nil {
		return logr.Logger{}, fmt.Errorf("building zap logger: %w", err)
	}

	return zapr.NewLogger(zl), nil
}

// Noop returns a logr.Logger that discards everything, used in tests and
// as a safe default when construction fails non-fatally.
func Noop() logr.Logger {
	return logr.Discard()
}
