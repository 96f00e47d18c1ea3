// Package logging defines the key/value logger used across agentctx and
// adapters for concrete logging backends.
package logging

import "go.uber.org/zap"

// Logger is a leveled, structured logger. Args are alternating key/value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a no-op implementation of Logger.
type noopLogger struct{}

func (noopLogger) Debug(msg string, args ...any) {}
func (noopLogger) Info(msg string, args ...any)  {}
func (noopLogger) Warn(msg string, args ...any)  {}
func (noopLogger) Error(msg string, args ...any) {}

// Noop returns a Logger that discards everything.
func Noop() Logger {
	return noopLogger{}
}

// OrNoop returns l, or a no-op logger when l is nil.
func OrNoop(l Logger) Logger {
	if l == nil {
		return noopLogger{}
	}
	return l
}

// zapLogger adapts a zap.SugaredLogger.
type zapLogger struct {
	s *zap.SugaredLogger
}

// NewZap wraps a zap logger. A nil logger yields zap.NewNop.
func NewZap(l *zap.Logger) Logger {
	if l == nil {
		l = zap.NewNop()
	}
	return &zapLogger{s: l.Sugar()}
}

func (z *zapLogger) Debug(msg string, args ...any) { z.s.Debugw(msg, args...) }
func (z *zapLogger) Info(msg string, args ...any)  { z.s.Infow(msg, args...) }
func (z *zapLogger) Warn(msg string, args ...any)  { z.s.Warnw(msg, args...) }
func (z *zapLogger) Error(msg string, args ...any) { z.s.Errorw(msg, args...) }
