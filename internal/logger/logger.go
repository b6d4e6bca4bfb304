// Package logger builds the zap logger shared by the server and preview.
package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ParseLevel maps a level name to a zap level, defaulting to info.
func ParseLevel(name string) zapcore.Level {
	switch strings.ToUpper(name) {
	case "DEBUG":
		return zapcore.DebugLevel
	case "WARN":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

// New returns a console logger on stderr, or a JSON logger appending to
// file when one is given.
func New(level, file string) (*zap.Logger, error) {
	lvl := ParseLevel(level)

	if file != "" {
		cfg := zap.Config{
			Level:            zap.NewAtomicLevelAt(lvl),
			Encoding:         "json",
			EncoderConfig:    encoderConfig(),
			OutputPaths:      []string{file},
			ErrorOutputPaths: []string{file},
		}
		return cfg.Build()
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig()), zapcore.AddSync(os.Stderr), lvl)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

// Discard is used where output would corrupt a full-screen terminal UI and
// no log file was configured.
func Discard() *zap.Logger {
	return zap.NewNop()
}
