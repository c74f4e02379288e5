// Package log carries a slog.Logger through context.Context.
package log

import (
	"context"
	"os"
	"testing"

	"cdr.dev/slog"
	"cdr.dev/slog/sloggers/sloghuman"
	"cdr.dev/slog/sloggers/slogtest"
)

var _default = slog.Make(sloghuman.Sink(os.Stderr)).Named("studynotes")

type loggerKey struct{}

// Default returns the logger used when the context carries none.
func Default() slog.Logger { return _default }

func from(ctx context.Context) slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(slog.Logger); ok {
		return l
	}
	return _default
}

// Has reports whether ctx carries a logger.
func Has(ctx context.Context) bool {
	_, ok := ctx.Value(loggerKey{}).(slog.Logger)
	return ok
}

func With(ctx context.Context, l slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// WithTB calls With with the result of slogtest.Make.
func WithTB(ctx context.Context, t testing.TB) context.Context {
	return With(ctx, slogtest.Make(t, &slogtest.Options{IgnoreErrors: true}))
}

func Debug(ctx context.Context, msg string, fields ...slog.Field) {
	slog.Helper()
	from(ctx).Debug(ctx, msg, fields...)
}

func Info(ctx context.Context, msg string, fields ...slog.Field) {
	slog.Helper()
	from(ctx).Info(ctx, msg, fields...)
}

func Warn(ctx context.Context, msg string, fields ...slog.Field) {
	slog.Helper()
	from(ctx).Warn(ctx, msg, fields...)
}

func Error(ctx context.Context, msg string, fields ...slog.Field) {
	slog.Helper()
	from(ctx).Error(ctx, msg, fields...)
}

func Named(ctx context.Context, name string) context.Context {
	return With(ctx, from(ctx).Named(name))
}

func Leveled(ctx context.Context, level slog.Level) context.Context {
	return With(ctx, from(ctx).Leveled(level))
}

// Stderr returns ctx with a human-readable stderr logger, at debug level
// when debug is set.
func Stderr(ctx context.Context, debug bool) context.Context {
	l := slog.Make(sloghuman.Sink(os.Stderr)).Named("studynotes")
	if debug {
		l = l.Leveled(slog.LevelDebug)
	}
	return With(ctx, l)
}
