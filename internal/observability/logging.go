// Package observability builds the process logger and the scoped child
// loggers the combat server hands to each encounter.
package observability

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cory-johannsen/litany/internal/config"
)

var formats = map[string]func() zap.Config{
	"json":    zap.NewProductionConfig,
	"console": zap.NewDevelopmentConfig,
}

// NewLogger builds the process logger. Every entry carries a "service"
// field when service is non-empty.
//
// Precondition: cfg.Level is one of "debug", "info", "warn", "error" and
// cfg.Format is "json" or "console".
func NewLogger(cfg config.LoggingConfig, service string) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
	}
	base, ok := formats[cfg.Format]
	if !ok {
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	zc := base()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	// Dice draws are logged one per roll at debug; sampling would drop them.
	if level == zapcore.DebugLevel {
		zc.Sampling = nil
	}
	if service != "" {
		zc.InitialFields = map[string]any{"service": service}
	}

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}

// EncounterLogger scopes base to one encounter session.
func EncounterLogger(base *zap.Logger, sessionID, playerID string) *zap.Logger {
	return base.Named("encounter").With(
		zap.String("session", sessionID),
		zap.String("player", playerID),
	)
}
