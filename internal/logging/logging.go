// Package logging builds the zap loggers used across sibyl.
//
// The pipeline writes structured records (event kind, query excerpt,
// failed rule, attempt count) and never reads them back.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a production logger. Verbose lowers the level to debug.
func New(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}

// Nop returns a logger that discards everything. Used in tests and by
// callers that pass no logger.
func Nop() *zap.Logger {
	return zap.NewNop()
}
