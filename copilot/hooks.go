package copilot

import "github.com/zoobzio/capitan"

// Signals emitted around each provider call.
const (
	CompletionStarted   = capitan.Signal("copilot.completion.started")
	CompletionCompleted = capitan.Signal("copilot.completion.completed")
	CompletionFailed    = capitan.Signal("copilot.completion.failed")
)

// Keys for completion event fields.
var (
	RequestIDKey      = capitan.NewStringKey("copilot.request.id")
	ProviderKey       = capitan.NewStringKey("copilot.provider")
	ModelKey          = capitan.NewStringKey("copilot.model")
	LanguageKey       = capitan.NewStringKey("copilot.language")
	DurationMsKey     = capitan.NewIntKey("copilot.duration.ms")
	HTTPStatusCodeKey = capitan.NewIntKey("copilot.http.status.code")
	ErrorKey          = capitan.NewStringKey("copilot.error")
)
