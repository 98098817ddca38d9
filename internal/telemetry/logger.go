// Package telemetry wires zap logging and Prometheus metrics for the
// pattern database, the ambient observability stack used by pck/tiered and
// cmd/patterndb.
package telemetry

import "go.uber.org/zap"

// NewLogger builds the application's base logger. Production gets JSON
// output at info level; development gets console output at debug level,
// mirroring the two zap presets most callers reach for.
func NewLogger(development bool) (*zap.Logger, error) {
	if development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// Noop returns a logger that discards everything, for tests and callers
// that don't want telemetry wired in.
func Noop() *zap.Logger {
	return zap.NewNop()
}
