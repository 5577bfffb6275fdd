package textgen

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultGeminiModel is used when no model is configured for gemini
const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiConfig configures a GeminiGenerator
type GeminiConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
}

// GeminiGenerator produces text with Google's Gemini models
type GeminiGenerator struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiGenerator creates the client. Close releases it.
func NewGeminiGenerator(ctx context.Context, cfg GeminiConfig) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	name := cfg.Model
	if name == "" {
		name = DefaultGeminiModel
	}
	model := client.GenerativeModel(name)
	if cfg.Temperature > 0 {
		model.SetTemperature(float32(cfg.Temperature))
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	model.SetMaxOutputTokens(int32(maxTokens))

	return &GeminiGenerator{client: client, model: model}, nil
}

// Name identifies the provider in logs and metrics
func (g *GeminiGenerator) Name() string {
	return ProviderGemini
}

// Generate returns the text parts of the first candidate
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini generate: no candidates returned")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("gemini generate: response has no text content")
	}
	return b.String(), nil
}

// Close releases the underlying client
func (g *GeminiGenerator) Close() error {
	return g.client.Close()
}
