// Package logger provides the structured, levelled logger for bazaar, built
// on log/slog.
//
// Handlers are chosen by APP_ENV: human-readable text in development, JSON in
// production. When LOG_MONGO_URI is configured an asynchronous MongoDB sink
// is fanned in alongside stdout (see mongo_handler.go).
//
// WithCtx returns a logger pre-tagged with the request ID injected by the
// Logger middleware, so every line written from a handler or service is
// correlated:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("product created", "slug", p.Slug)
package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/shashiranjanraj/bazaar/config"
)

var L *slog.Logger

func init() {
	L = slog.New(baseHandler())
	slog.SetDefault(L)
}

func baseHandler() slog.Handler {
	switch config.AppEnv() {
	case "production", "prod":
		return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	default:
		return slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
}

// AttachMongoSink fans the given handler in alongside the stdout handler and
// installs the result as the package logger. Called once from server boot
// when LOG_MONGO_URI is set.
func AttachMongoSink(h slog.Handler) {
	L = slog.New(NewMultiHandler(baseHandler(), h))
	slog.SetDefault(L)
}

// ctxKey is the unexported key used to store a per-request *slog.Logger.
type ctxKey struct{}

// WithCtx returns the per-request logger stored in ctx by the Logger
// middleware, or the base logger when none is present.
func WithCtx(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores a *slog.Logger (pre-tagged with request_id) into ctx.
// Called by the Logger middleware; application code rarely needs it.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// Debug logs at DEBUG level using the base logger.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs at INFO level using the base logger.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs at WARN level using the base logger.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs at ERROR level using the base logger.
func Error(msg string, args ...any) { L.Error(msg, args...) }
