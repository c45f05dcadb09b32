// Package copilot answers editor completion requests with an LLM.
//
// The HTTP layer treats request and response bodies as opaque JSON and
// hands them to a Provider. Providers understand the monacopilot body
//
//	{"completionMetadata": {"language": "javascript", "textBeforeCursor": "con", ...}}
//
// as well as a flat {"language", "code", "cursor"} form, and answer
// {"completion": "..."}.
package copilot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zoobzio/capitan"
)

// ErrMissingAPIKey is returned by every call of a provider built without a credential.
var ErrMissingAPIKey = errors.New("copilot: api key is not configured")

// StatusError is a non-200 answer from a provider API.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("status %d", e.Code)
	}
	return fmt.Sprintf("status %d: %s", e.Code, e.Message)
}

// Provider turns a JSON completion request into a JSON completion response.
type Provider interface {
	Complete(ctx context.Context, body []byte) ([]byte, error)
}

// Completion modes understood by the prompt builder.
const (
	ModeInsert   = "insert"
	ModeComplete = "complete"
	ModeContinue = "continue"
)

// RelatedFile is extra context the editor may send along.
type RelatedFile struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// EditorState describes how the completion will be applied.
type EditorState struct {
	CompletionMode string `json:"completionMode,omitempty"`
}

// CompletionMetadata is the editor context for one completion.
type CompletionMetadata struct {
	Filename         string        `json:"filename,omitempty"`
	Language         string        `json:"language,omitempty"`
	Technologies     []string      `json:"technologies,omitempty"`
	RelatedFiles     []RelatedFile `json:"relatedFiles,omitempty"`
	TextBeforeCursor string        `json:"textBeforeCursor"`
	TextAfterCursor  string        `json:"textAfterCursor"`
	EditorState      EditorState   `json:"editorState"`
}

// Request accepts both the nested monacopilot body and the flat form.
type Request struct {
	CompletionMetadata *CompletionMetadata `json:"completionMetadata,omitempty"`

	Language string `json:"language,omitempty"`
	Filename string `json:"filename,omitempty"`
	Code     string `json:"code,omitempty"`
	Cursor   *int   `json:"cursor,omitempty"` // rune offset into Code
}

// Response is what providers answer.
type Response struct {
	Completion string `json:"completion"`
}

// DecodeRequest parses body and normalizes it to CompletionMetadata.
func DecodeRequest(body []byte) (CompletionMetadata, error) {
	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		return CompletionMetadata{}, fmt.Errorf("copilot: decode request: %w", err)
	}
	return req.Metadata(), nil
}

// Metadata returns the nested metadata, deriving it from the flat fields
// when absent. The flat cursor is clamped to the code length.
func (r Request) Metadata() CompletionMetadata {
	var meta CompletionMetadata
	if r.CompletionMetadata != nil {
		meta = *r.CompletionMetadata
	} else {
		runes := []rune(r.Code)
		cursor := len(runes)
		if r.Cursor != nil {
			cursor = min(max(*r.Cursor, 0), len(runes))
		}
		meta = CompletionMetadata{
			Filename:         r.Filename,
			Language:         r.Language,
			TextBeforeCursor: string(runes[:cursor]),
			TextAfterCursor:  string(runes[cursor:]),
		}
	}
	if meta.EditorState.CompletionMode == "" {
		meta.EditorState.CompletionMode = ModeContinue
		if strings.TrimSpace(meta.TextAfterCursor) != "" {
			meta.EditorState.CompletionMode = ModeInsert
		}
	}
	return meta
}

// callFunc sends a prompt to a model and returns its raw text answer.
type callFunc func(ctx context.Context, p Prompt) (string, error)

// complete runs the shared decode, prompt, call, encode pipeline and
// emits lifecycle events around the model call.
func complete(ctx context.Context, provider, model, apiKey string, body []byte, call callFunc) ([]byte, error) {
	requestID := uuid.NewString()
	start := time.Now()

	fail := func(err error) ([]byte, error) {
		fields := []capitan.Field{
			RequestIDKey.Field(requestID),
			ProviderKey.Field(provider),
			ModelKey.Field(model),
			DurationMsKey.Field(int(time.Since(start).Milliseconds())),
			ErrorKey.Field(err.Error()),
		}
		var se *StatusError
		if errors.As(err, &se) {
			fields = append(fields, HTTPStatusCodeKey.Field(se.Code))
		}
		capitan.Error(ctx, CompletionFailed, fields...)
		return nil, err
	}

	if apiKey == "" {
		return fail(ErrMissingAPIKey)
	}
	meta, err := DecodeRequest(body)
	if err != nil {
		return fail(err)
	}

	capitan.Info(ctx, CompletionStarted,
		RequestIDKey.Field(requestID),
		ProviderKey.Field(provider),
		ModelKey.Field(model),
		LanguageKey.Field(meta.Language),
	)

	text, err := call(ctx, BuildPrompt(meta))
	if err != nil {
		return fail(fmt.Errorf("copilot: %s: %w", provider, err))
	}

	out, err := json.Marshal(Response{Completion: CleanCompletion(text)})
	if err != nil {
		return fail(fmt.Errorf("copilot: encode response: %w", err))
	}

	capitan.Info(ctx, CompletionCompleted,
		RequestIDKey.Field(requestID),
		ProviderKey.Field(provider),
		ModelKey.Field(model),
		DurationMsKey.Field(int(time.Since(start).Milliseconds())),
	)
	return out, nil
}
