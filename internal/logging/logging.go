// Package logging builds the process logger: a logr.Logger backed by zap.
package logging

import (
	"fmt"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures the logger behavior
type Options struct {
	// Development switches to a human-readable console encoder
	Development bool
	// Level is a zap level name: debug, info, warn or error. Debug enables
	// logr verbosity 1.
	Level string
}

// DefaultOptions returns JSON logging at info level
func DefaultOptions() Options {
	return Options{Level: "info"}
}

// Setup builds the logger. The returned function flushes buffered entries
// and should be deferred by main.
func Setup(opts Options) (logr.Logger, func(), error) {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		parsed, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return logr.Discard(), func() {}, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = parsed
	}

	cfg := zap.NewProductionConfig()
	if opts.Development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	zapLog, err := cfg.Build()
	if err != nil {
		return logr.Discard(), func() {}, fmt.Errorf("failed to build logger: %w", err)
	}

	return zapr.NewLogger(zapLog), func() { _ = zapLog.Sync() }, nil
}
