// Package core provides the process-wide logger used by the estate packages.
package core

import (
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger   *zap.Logger
	helper   *zap.Logger // logger with one frame skipped for the package-level helpers
	loggerMu sync.RWMutex
)

func init() {
	l, err := productionConfig().Build()
	if err != nil {
		l = zap.NewNop()
	}
	SetLogger(l)
}

func productionConfig() zap.Config {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.CallerKey = "caller"
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	return config
}

// ParseLevel converts a level name to a zap level. Unknown names map to info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// ConfigureLogger rebuilds the global logger.
func ConfigureLogger(development bool, level string, outputPaths ...string) (*zap.Logger, error) {
	var config zap.Config
	if development {
		config = zap.NewDevelopmentConfig()
	} else {
		config = productionConfig()
	}
	config.Level = zap.NewAtomicLevelAt(ParseLevel(level))
	if len(outputPaths) > 0 {
		config.OutputPaths = outputPaths
	}

	l, err := config.Build()
	if err != nil {
		return nil, err
	}
	SetLogger(l)
	return l, nil
}

// SetLogger replaces the global logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	loggerMu.Lock()
	logger = l
	helper = l.WithOptions(zap.AddCallerSkip(1))
	loggerMu.Unlock()
}

// GetLogger returns the global logger.
func GetLogger() *zap.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}

// Named returns a child of l named name. A nil l selects the global logger.
func Named(l *zap.Logger, name string) *zap.Logger {
	if l == nil {
		l = GetLogger()
	}
	return l.Named(name)
}

func helperLogger() *zap.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return helper
}

func Debug(msg string, fields ...zap.Field) {
	helperLogger().Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	helperLogger().Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	helperLogger().Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	helperLogger().Error(msg, fields...)
}
