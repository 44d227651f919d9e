// Package logger wraps zap for agefetch diagnostics. Output is only produced
// when debug mode is enabled; otherwise every call is a no-op so nothing ever
// interrupts the banner.
package logger

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the subset of zap agefetch logs through.
type Logger interface {
	Debug(msg string, fields ...zap.Field)
	Debugf(template string, args ...interface{})
	Sync() error
}

type loggerImpl struct {
	base    *zap.Logger
	sugared *zap.SugaredLogger
}

// New returns a development logger writing to stderr when debug is true and a
// no-op logger otherwise. A logger that fails to build also degrades to no-op.
func New(debug bool) Logger {
	if !debug {
		return Nop()
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)

	base, err := cfg.Build(
		zap.AddStacktrace(zapcore.FatalLevel),
	)
	if err != nil {
		return Nop()
	}
	return Wrap(base)
}

// Nop returns a logger that discards everything.
func Nop() Logger { return Wrap(zap.NewNop()) }

// Wrap adapts an existing zap logger, mostly useful for tests with an observer core.
func Wrap(base *zap.Logger) Logger {
	return &loggerImpl{
		base:    base,
		sugared: base.Sugar(),
	}
}

func (l *loggerImpl) Debug(msg string, fields ...zap.Field) { l.base.Debug(msg, fields...) }
func (l *loggerImpl) Debugf(t string, args ...interface{})  { l.sugared.Debugf(t, args...) }

func (l *loggerImpl) Sync() error { return l.base.Sync() }

// Field constructors re-exported so callers don't import zap directly.
func String(key, val string) zap.Field                 { return zap.String(key, val) }
func Duration(key string, val time.Duration) zap.Field { return zap.Duration(key, val) }
func Time(key string, val time.Time) zap.Field         { return zap.Time(key, val) }
func Error(err error) zap.Field                        { return zap.Error(err) }
