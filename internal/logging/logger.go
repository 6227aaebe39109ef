// Package logging builds the zap loggers used across the service.
package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds configuration for the logger
type Config struct {
	Level       string // debug, info, warn or error
	Environment string // "development" switches to a console encoder
	Service     string
	Output      zapcore.WriteSyncer // Defaults to stdout
}

// New creates a new logger with the given configuration
func New(cfg Config) (*zap.Logger, error) {
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	out := cfg.Output
	if out == nil {
		out = zapcore.Lock(os.Stdout)
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var encoder zapcore.Encoder
	opts := []zap.Option{zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)}
	if cfg.Environment == "development" {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
		opts = append(opts, zap.Development())
	} else {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	logger := zap.New(zapcore.NewCore(encoder, out, level), opts...)

	fields := []zap.Field{zap.String("environment", cfg.Environment)}
	if cfg.Service != "" {
		fields = append(fields, zap.String("service", cfg.Service))
	}
	return logger.With(fields...), nil
}

// ParseLevel converts a level name to a zap.AtomicLevel
func ParseLevel(level string) (zap.AtomicLevel, error) {
	switch level {
	case "debug":
		return zap.NewAtomicLevelAt(zapcore.DebugLevel), nil
	case "info":
		return zap.NewAtomicLevelAt(zapcore.InfoLevel), nil
	case "warn":
		return zap.NewAtomicLevelAt(zapcore.WarnLevel), nil
	case "error":
		return zap.NewAtomicLevelAt(zapcore.ErrorLevel), nil
	default:
		return zap.AtomicLevel{}, fmt.Errorf("unknown log level %q", level)
	}
}
