// Package logger provides a structured, levelled logger built on log/slog.
//
// In local environments records go to a human-readable text handler; in
// production they are emitted as JSON. When LOG_MONGO_URI is configured,
// Attach ships a copy of every record to MongoDB asynchronously.
package logger

import (
	"log/slog"
	"os"

	"github.com/rsharma-dev/zaika/config"
)

var L *slog.Logger

func init() {
	var handler slog.Handler

	switch config.AppEnv() {
	case "production", "prod":
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	default:
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}

	L = slog.New(handler)
	slog.SetDefault(L)
}

// Attach boots the optional Mongo log shipper and fans records out to it.
// Returns a close func; a no-op when LOG_MONGO_URI is unset or unreachable.
func Attach() func() {
	uri := config.LogMongoURI()
	if uri == "" {
		return func() {}
	}

	mh, err := NewMongoHandler(uri, config.LogMongoDB(), config.LogMongoCollection())
	if err != nil {
		L.Warn("logger: mongo handler disabled", "error", err)
		return func() {}
	}

	L = slog.New(NewMultiHandler(L.Handler(), mh))
	slog.SetDefault(L)
	return mh.Close
}

// Debug logs at DEBUG level.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs at INFO level.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs at WARN level.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs at ERROR level.
func Error(msg string, args ...any) { L.Error(msg, args...) }
