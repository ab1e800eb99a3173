// Package logging holds the process-wide structured logger.
package logging

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// logger is a safe no-op until Initialize is called, so packages can log at
// load time without nil checks.
var logger = zap.NewNop().Sugar()

// L returns the current logger.
func L() *zap.SugaredLogger {
	return logger
}

// Initialize replaces the global logger with a console logger at the given
// level ("debug", "info", "warn", "error"). Unknown levels fall back to info.
func Initialize(level string) error {
	lvl := zapcore.InfoLevel
	switch strings.ToLower(level) {
	case "debug":
		lvl = zapcore.DebugLevel
	case "warn", "warning":
		lvl = zapcore.WarnLevel
	case "error":
		lvl = zapcore.ErrorLevel
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = true

	l, err := cfg.Build()
	if err != nil {
		return err
	}
	logger = l.Sugar()
	return nil
}
