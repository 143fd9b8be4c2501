// Package logger provides structured logging infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package logger

import (
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog.Logger for structured logging
type Logger struct {
	*slog.Logger
}

// New creates a new logger based on environment
func New(env string) *Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	if strings.EqualFold(env, "development") {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithConversationID returns a logger bound to a conversation.
func (l *Logger) WithConversationID(conversationID string) *Logger {
	return &Logger{
		Logger: l.With(slog.String("conversation_id", conversationID)),
	}
}

// HTTPRequest logs an HTTP request
func (l *Logger) HTTPRequest(method, path string, status int, latencyMs float64, clientIP string) {
	l.Info("http_request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Float64("latency_ms", latencyMs),
		slog.String("client_ip", clientIP),
	)
}

// DatabaseError logs database errors
func (l *Logger) DatabaseError(operation string, err error) {
	l.Error("database_error",
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}

// RateLimitExceeded logs rate limit events
func (l *Logger) RateLimitExceeded(clientIP, path string) {
	l.Warn("rate_limit_exceeded",
		slog.String("client_ip", clientIP),
		slog.String("path", path),
	)
}

// CompletionFallback logs when the completion provider failed and the
// pipeline degraded to the local fallback reply.
func (l *Logger) CompletionFallback(conversationID string, err error) {
	l.Warn("completion_fallback",
		slog.String("conversation_id", conversationID),
		slog.String("error", err.Error()),
	)
}

// NotificationEvent logs the outcome of one owner-notification channel.
func (l *Logger) NotificationEvent(channel, conversationID string, err error) {
	if err == nil {
		l.Info("owner_notification",
			slog.String("channel", channel),
			slog.String("conversation_id", conversationID),
		)
		return
	}
	l.Warn("owner_notification",
		slog.String("channel", channel),
		slog.String("conversation_id", conversationID),
		slog.String("error", err.Error()),
	)
}
