// Package stmdblog is a thin structured-logging facade over go.uber.org/zap,
// used for the warn/error logging the engine emits on the error paths that
// are absorbed rather than propagated (dropped channel sends, per-file read
// failures during a query).
package stmdblog

import "go.uber.org/zap"

// Logger is the subset of *zap.Logger the engine depends on, kept narrow so
// callers can swap in zap.NewNop() in tests without pulling in sinks.
type Logger interface {
	Warn(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
	Info(msg string, fields ...zap.Field)
}

// New builds a production zap.Logger suitable for the engine's default
// construction path.
func New() Logger {
	l, err := zap.NewProduction()
	if err != nil {
		return zap.NewNop()
	}

	return l
}

// Nop returns a logger that discards everything, for tests and for callers
// that wire their own observability.
func Nop() Logger {
	return zap.NewNop()
}

// Field re-exports so callers don't need a separate zap import for the
// common cases used throughout the engine.
var (
	String = zap.String
	Int    = zap.Int
	Int64  = zap.Int64
	Uint32 = zap.Uint32
	Error  = zap.Error
	Bool   = zap.Bool
)
