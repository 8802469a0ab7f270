package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps a zap sugared logger
type Logger struct {
	*zap.SugaredLogger
	base *zap.Logger
}

// New creates a logger for the given level and mode (development or production)
func New(level, mode string) (*Logger, error) {
	var cfg zap.Config
	if mode == "development" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	parsedLevel, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	cfg.Level = zap.NewAtomicLevelAt(parsedLevel)

	base, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return &Logger{
		SugaredLogger: base.Sugar(),
		base:          base,
	}, nil
}

// Close flushes any buffered log entries
func (l *Logger) Close() {
	// Sync errors on stderr are expected on some platforms and are ignored
	_ = l.base.Sync()
}
