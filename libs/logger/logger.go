// Package logger holds the process-wide structured logger
package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// Logger is the service logger. It is a no-op logger until Init is called.
var Logger = zap.NewNop()

// Init builds a production JSON logger with the given level ("debug", "info", "warn", "error")
func Init(level string) error {
	atomicLevel, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = atomicLevel

	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}

	Logger = l
	return nil
}

// Sync flushes buffered log entries
func Sync() {
	_ = Logger.Sync()
}
