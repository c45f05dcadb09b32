package copilot

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"
)

// DefaultGeminiModel is used when GeminiConfig.Model is empty.
const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiConfig holds configuration for the Gemini provider.
type GeminiConfig struct {
	APIKey      string
	Model       string
	Temperature float32 // defaults to 0.1
	MaxTokens   int32   // defaults to 256
}

// Gemini completes code through the Gemini API.
type Gemini struct {
	apiKey      string
	model       string
	temperature float32
	maxTokens   int32

	mu     sync.Mutex
	client *genai.Client
}

// NewGemini creates a Gemini provider. Like NewGroq it accepts an empty
// APIKey and fails at call time.
func NewGemini(cfg GeminiConfig) *Gemini {
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiModel
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.1
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 256
	}
	return &Gemini{
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}
}

// Name returns the provider identifier.
func (g *Gemini) Name() string {
	return "gemini"
}

// Complete implements Provider.
func (g *Gemini) Complete(ctx context.Context, body []byte) ([]byte, error) {
	return complete(ctx, g.Name(), g.model, g.apiKey, body, g.call)
}

// genaiClient returns the shared client, creating it on first use. A failed
// creation is retried on the next call.
func (g *Gemini) genaiClient(ctx context.Context) (*genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.client != nil {
		return g.client, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  g.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	g.client = client
	return client, nil
}

func (g *Gemini) call(ctx context.Context, p Prompt) (string, error) {
	client, err := g.genaiClient(ctx)
	if err != nil {
		return "", err
	}

	temperature := g.temperature
	result, err := client.Models.GenerateContent(
		ctx,
		g.model,
		genai.Text(p.User),
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: p.System}}},
			Temperature:       &temperature,
			MaxOutputTokens:   g.maxTokens,
		},
	)
	if err != nil {
		return "", err
	}
	text := result.Text()
	if strings.TrimSpace(text) == "" && len(result.Candidates) == 0 {
		return "", fmt.Errorf("response missing candidates")
	}
	return text, nil
}
