package copilot

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zoobzio/capitan"
)

func intPtr(v int) *int { return &v }

func TestRequestMetadataFlat(t *testing.T) {
	tests := []struct {
		name   string
		req    Request
		before string
		after  string
		mode   string
	}{
		{"cursor at end", Request{Code: "con", Cursor: intPtr(3)}, "con", "", ModeContinue},
		{"cursor in middle", Request{Code: "foo(bar)", Cursor: intPtr(4)}, "foo(", "bar)", ModeInsert},
		{"no cursor", Request{Code: "let x"}, "let x", "", ModeContinue},
		{"negative cursor", Request{Code: "abc", Cursor: intPtr(-5)}, "", "abc", ModeInsert},
		{"cursor past end", Request{Code: "abc", Cursor: intPtr(99)}, "abc", "", ModeContinue},
		{"multibyte", Request{Code: "héllo", Cursor: intPtr(2)}, "hé", "llo", ModeInsert},
		{"whitespace after", Request{Code: "x\n  ", Cursor: intPtr(1)}, "x", "\n  ", ModeContinue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := tt.req.Metadata()
			assert.Equal(t, tt.before, meta.TextBeforeCursor)
			assert.Equal(t, tt.after, meta.TextAfterCursor)
			assert.Equal(t, tt.mode, meta.EditorState.CompletionMode)
		})
	}
}

func TestDecodeRequestNested(t *testing.T) {
	body := []byte(`{"completionMetadata":{"language":"typescript","filename":"a.ts","technologies":["react"],"textBeforeCursor":"const a","textAfterCursor":"","editorState":{"completionMode":"complete"}}}`)
	meta, err := DecodeRequest(body)
	require.NoError(t, err)
	assert.Equal(t, "typescript", meta.Language)
	assert.Equal(t, "a.ts", meta.Filename)
	assert.Equal(t, []string{"react"}, meta.Technologies)
	assert.Equal(t, ModeComplete, meta.EditorState.CompletionMode)
}

func TestDecodeRequestInvalid(t *testing.T) {
	_, err := DecodeRequest([]byte(`{"code":`))
	assert.Error(t, err)
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt(CompletionMetadata{
		Language:         "javascript",
		Filename:         "index.js",
		Technologies:     []string{"node"},
		TextBeforeCursor: "con",
		TextAfterCursor:  "\n",
		RelatedFiles:     []RelatedFile{{Path: "util.js", Content: "export const x = 1"}},
		EditorState:      EditorState{CompletionMode: ModeContinue},
	})
	assert.Contains(t, p.System, "node javascript")
	assert.Contains(t, p.User, "File: index.js")
	assert.Contains(t, p.User, "con"+CursorMarker+"\n")
	assert.Contains(t, p.User, "Related file util.js")
	assert.True(t, strings.HasPrefix(p.User, modeInstructions[ModeContinue]))
}

func TestBuildPromptUnknownMode(t *testing.T) {
	p := BuildPrompt(CompletionMetadata{EditorState: EditorState{CompletionMode: "weird"}})
	assert.True(t, strings.HasPrefix(p.User, modeInstructions[ModeContinue]))
	assert.Contains(t, p.System, "expert code programmer")
}

func TestCleanCompletion(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"sole.log()", "sole.log()"},
		{"```js\nsole.log()\n```", "sole.log()"},
		{"```\na\nb\n```", "a\nb"},
		{"sole" + CursorMarker + ".log()", "sole.log()"},
		{"  indented()", "  indented()"},
		{"```js\nunterminated", "unterminated"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanCompletion(tt.in), tt.in)
	}
}

func newGroqServer(t *testing.T, status int, reply string, seen *chatRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		if seen != nil {
			body, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(body, seen)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGroqComplete(t *testing.T) {
	var seen chatRequest
	srv := newGroqServer(t, http.StatusOK, `{"choices":[{"message":{"role":"assistant","content":"sole.log()"},"finish_reason":"stop"}]}`, &seen)
	g := NewGroq(GroqConfig{APIKey: "test-key", BaseURL: srv.URL})

	out, err := g.Complete(context.Background(), []byte(`{"code":"con","cursor":3,"language":"javascript"}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"completion":"sole.log()"}`, string(out))

	assert.Equal(t, DefaultGroqModel, seen.Model)
	require.Len(t, seen.Messages, 2)
	assert.Equal(t, "system", seen.Messages[0].Role)
	assert.Contains(t, seen.Messages[1].Content, "con"+CursorMarker)
	assert.Equal(t, 256, seen.MaxTokens)
}

func TestGroqMissingAPIKey(t *testing.T) {
	g := NewGroq(GroqConfig{BaseURL: "http://127.0.0.1:1"})
	_, err := g.Complete(context.Background(), []byte(`{"code":"con"}`))
	assert.ErrorIs(t, err, ErrMissingAPIKey)
	assert.Nil(t, g.client)
}

func TestGroqAPIError(t *testing.T) {
	srv := newGroqServer(t, http.StatusUnauthorized, `{"error":{"message":"Invalid API Key","type":"invalid_request_error"}}`, nil)
	g := NewGroq(GroqConfig{APIKey: "test-key", BaseURL: srv.URL})

	_, err := g.Complete(context.Background(), []byte(`{"code":"con"}`))
	var se *StatusError
	require.True(t, errors.As(err, &se), "err = %v", err)
	assert.Equal(t, http.StatusUnauthorized, se.Code)
	assert.Equal(t, "Invalid API Key", se.Message)
}

func TestGroqAPIErrorWithoutBody(t *testing.T) {
	srv := newGroqServer(t, http.StatusTooManyRequests, `rate limited`, nil)
	g := NewGroq(GroqConfig{APIKey: "test-key", BaseURL: srv.URL})

	_, err := g.Complete(context.Background(), []byte(`{"code":"con"}`))
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusTooManyRequests, se.Code)
	assert.Equal(t, "status 429", se.Error())
}

func TestGroqNoChoices(t *testing.T) {
	srv := newGroqServer(t, http.StatusOK, `{"choices":[]}`, nil)
	g := NewGroq(GroqConfig{APIKey: "test-key", BaseURL: srv.URL})
	_, err := g.Complete(context.Background(), []byte(`{"code":"con"}`))
	assert.Error(t, err)
}

func TestGroqMalformedBody(t *testing.T) {
	g := NewGroq(GroqConfig{APIKey: "test-key", BaseURL: "http://127.0.0.1:1"})
	_, err := g.Complete(context.Background(), []byte(`not json`))
	assert.Error(t, err)
}

func TestGeminiMissingAPIKey(t *testing.T) {
	g := NewGemini(GeminiConfig{})
	assert.Equal(t, DefaultGeminiModel, g.model)
	_, err := g.Complete(context.Background(), []byte(`{"code":"con"}`))
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestGeminiReusesClient(t *testing.T) {
	g := NewGemini(GeminiConfig{APIKey: "test-key"})
	assert.Nil(t, g.client)

	first, err := g.genaiClient(context.Background())
	require.NoError(t, err)
	second, err := g.genaiClient(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestCompletionHooks(t *testing.T) {
	srv := newGroqServer(t, http.StatusOK, `{"choices":[{"message":{"role":"assistant","content":"x"}}]}`, nil)
	g := NewGroq(GroqConfig{APIKey: "test-key", BaseURL: srv.URL, Model: "hook-model"})

	var wg sync.WaitGroup
	var mu sync.Mutex
	var model, provider string
	wg.Add(1)
	listener := capitan.Hook(CompletionCompleted, func(_ context.Context, e *capitan.Event) {
		defer wg.Done()
		mu.Lock()
		defer mu.Unlock()
		model, _ = ModelKey.From(e)
		provider, _ = ProviderKey.From(e)
	})
	defer listener.Close()

	_, err := g.Complete(context.Background(), []byte(`{"code":"a"}`))
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for completed hook")
	}
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "hook-model", model)
	assert.Equal(t, "groq", provider)
}
