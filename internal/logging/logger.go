// ABOUTME: Structured logging setup built on zap with lumberjack rotation.
// ABOUTME: JSON records go to a rotating file; errors also reach stderr.

package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/harper/promptlib/internal/config"
)

// New builds a logger from cfg. The returned closer flushes and closes the log file.
func New(cfg config.LogConfig) (*zap.Logger, io.Closer, error) {
	return build(cfg, os.Stderr)
}

// build tees the rotating file core with a console core on console.
// The console only sees records at cfg.Console or above, so events the CLI
// already reports to the user stay in the file.
func build(cfg config.LogConfig, console zapcore.WriteSyncer) (*zap.Logger, io.Closer, error) {
	level, err := parseLevel(cfg.Level, zapcore.InfoLevel)
	if err != nil {
		return nil, nil, err
	}
	consoleLevel, err := parseLevel(cfg.Console, zapcore.ErrorLevel)
	if err != nil {
		return nil, nil, err
	}

	consoleCore := zapcore.NewCore(consoleEncoder(), zapcore.Lock(console), consoleLevel)
	if cfg.File == "" {
		return zap.New(consoleCore), nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o750); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}

	rotator := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}

	core := zapcore.NewTee(
		zapcore.NewCore(jsonEncoder(), zapcore.AddSync(rotator), level),
		consoleCore,
	)
	return zap.New(core, zap.AddCaller()), rotator, nil
}

func parseLevel(text string, fallback zapcore.Level) (zapcore.Level, error) {
	if text == "" {
		return fallback, nil
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(text)); err != nil {
		return level, fmt.Errorf("invalid log level %q: %w", text, err)
	}
	return level, nil
}

// Writer builds a logger writing JSON records to w at the given level. Used by tests.
func Writer(w io.Writer, level zapcore.Level) *zap.Logger {
	return zap.New(zapcore.NewCore(jsonEncoder(), zapcore.AddSync(w), level))
}

func jsonEncoder() zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewJSONEncoder(encoderConfig)
}

func consoleEncoder() zapcore.Encoder {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.TimeKey = ""
	encoderConfig.CallerKey = ""
	return zapcore.NewConsoleEncoder(encoderConfig)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
