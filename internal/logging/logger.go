// Package logging provides the ambient Logger interface shared by the
// cache and CLI layers, backed by go.uber.org/zap. The core engine (package
// sourcemap) never logs — per spec.md §5 it is a synchronous, unsynchronized
// value type — this is strictly for the adapters around it.
package logging

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the logging interface consumed by internal/cache and
// cmd/sourcemap-cli. Shaped after the teacher's pkg/lsp.Logger so call
// sites read the same way, just backed by zap's sugared logger instead of
// the standard library.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
}

type zapLogger struct {
	sugar *zap.SugaredLogger
}

// New builds a Logger at the given level ("debug", "info", "warn", "error";
// anything else defaults to "info").
func New(levelStr string) Logger {
	level := parseLevel(levelStr)

	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(cfg),
		zapcore.Lock(zapcore.AddSync(os.Stderr)),
		level,
	)

	logger := zap.New(core).Named("sourcemap")
	return &zapLogger{sugar: logger.Sugar()}
}

func parseLevel(levelStr string) zapcore.Level {
	switch strings.ToLower(levelStr) {
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

func (l *zapLogger) Debugf(format string, args ...interface{}) { l.sugar.Debugf(format, args...) }
func (l *zapLogger) Infof(format string, args ...interface{})  { l.sugar.Infof(format, args...) }
func (l *zapLogger) Warnf(format string, args ...interface{})  { l.sugar.Warnf(format, args...) }
func (l *zapLogger) Errorf(format string, args ...interface{}) { l.sugar.Errorf(format, args...) }
func (l *zapLogger) Fatalf(format string, args ...interface{}) { l.sugar.Fatalf(format, args...) }

// Nop returns a Logger that discards everything, useful as a zero-value
// default for components constructed without an explicit logger.
func Nop() Logger { return &zapLogger{sugar: zap.NewNop().Sugar()} }
