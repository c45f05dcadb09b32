package site

import (
	"context"

	"github.com/zoobzio/capitan"

	"github.com/arshadyaseen/site/copilot"
	"github.com/arshadyaseen/site/internal/logger"
)

// LogCompletionEvents writes completion provider events to the logger.
// The returned func detaches the listeners.
func LogCompletionEvents() func() {
	started := capitan.Hook(copilot.CompletionStarted, func(_ context.Context, e *capitan.Event) {
		fields := completionFields(e)
		if lang, ok := copilot.LanguageKey.From(e); ok && lang != "" {
			fields["language"] = lang
		}
		logger.InfoWithFields("completion started", fields)
	})
	completed := capitan.Hook(copilot.CompletionCompleted, func(_ context.Context, e *capitan.Event) {
		logger.InfoWithFields("completion completed", completionFields(e))
	})
	failed := capitan.Hook(copilot.CompletionFailed, func(_ context.Context, e *capitan.Event) {
		fields := completionFields(e)
		if msg, ok := copilot.ErrorKey.From(e); ok {
			fields["error"] = msg
		}
		if code, ok := copilot.HTTPStatusCodeKey.From(e); ok {
			fields["status"] = code
		}
		logger.ErrorWithFields("completion failed", fields)
	})
	return func() {
		started.Close()
		completed.Close()
		failed.Close()
	}
}

func completionFields(e *capitan.Event) logger.Fields {
	fields := logger.Fields{}
	if id, ok := copilot.RequestIDKey.From(e); ok {
		fields["request_id"] = id
	}
	if p, ok := copilot.ProviderKey.From(e); ok {
		fields["provider"] = p
	}
	if m, ok := copilot.ModelKey.From(e); ok {
		fields["model"] = m
	}
	if d, ok := copilot.DurationMsKey.From(e); ok {
		fields["duration_ms"] = d
	}
	return fields
}
