// Package log is the process-wide zap logger. Entries below error go to stdout, the rest
// to stderr.
package log

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	EncodingConsole = "console"
	EncodingJSON    = "json"
)

var l *zap.Logger

func init() {
	logger, err := build(zapcore.InfoLevel, EncodingConsole)
	if err != nil {
		panic(err)
	}

	replace(logger)

	if _, err := zap.RedirectStdLogAt(logger, zapcore.InfoLevel); err != nil {
		panic(err)
	}
}

// Init replaces the package logger with one built for the given level ("debug", "info",
// "warn", "error") and encoding ("console" or "json").
func Init(level, encoding string) error {
	logLevel, err := zapcore.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %w", err)
	}

	logger, err := build(logLevel, encoding)
	if err != nil {
		return err
	}

	replace(logger)

	return nil
}

func replace(logger *zap.Logger) {
	l = logger
	zap.ReplaceGlobals(logger)
}

func build(minLevel zapcore.Level, encoding string) (*zap.Logger, error) {
	encoder, err := newEncoder(encoding)
	if err != nil {
		return nil, err
	}

	belowError := zap.LevelEnablerFunc(func(level zapcore.Level) bool {
		return level >= minLevel && level < zapcore.ErrorLevel
	})
	errorAndAbove := zap.LevelEnablerFunc(func(level zapcore.Level) bool {
		return level >= zapcore.ErrorLevel
	})

	core := zapcore.NewTee(
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), belowError),
		zapcore.NewCore(encoder.Clone(), zapcore.Lock(os.Stderr), errorAndAbove),
	)

	// The package-level helpers add one frame.
	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)), nil
}

func newEncoder(encoding string) (zapcore.Encoder, error) {
	cfg := zapcore.EncoderConfig{
		MessageKey:     "message",
		LevelKey:       "level",
		TimeKey:        "time",
		CallerKey:      "caller",
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}

	switch encoding {
	case EncodingJSON:
		return zapcore.NewJSONEncoder(cfg), nil
	case EncodingConsole:
		return zapcore.NewConsoleEncoder(cfg), nil
	}

	return nil, fmt.Errorf("unknown log encoding %q", encoding)
}

func Debug(msg string, fields ...zap.Field) { l.Debug(msg, fields...) }
func Info(msg string, fields ...zap.Field)  { l.Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { l.Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { l.Error(msg, fields...) }
func Fatal(msg string, fields ...zap.Field) { l.Fatal(msg, fields...) }

func Sync() error {
	return l.Sync()
}
