package textgen

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
)

// Anthropic defaults
const (
	DefaultAnthropicModel = "claude-sonnet-4-5-20250929"
	DefaultMaxTokens      = 4096
)

// AnthropicConfig configures an AnthropicGenerator
type AnthropicConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	MaxTokens   int
	Temperature float64
}

// AnthropicGenerator produces text with the Anthropic Messages API
type AnthropicGenerator struct {
	client      anthropic.Client
	model       string
	maxTokens   int64
	temperature float64
}

// NewAnthropicGenerator creates a generator. Empty fields take the defaults.
func NewAnthropicGenerator(cfg AnthropicConfig) *AnthropicGenerator {
	opts := []anthropicoption.RequestOption{anthropicoption.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, anthropicoption.WithBaseURL(cfg.BaseURL))
	}
	// retries are handled by PacedGenerator
	opts = append(opts, anthropicoption.WithMaxRetries(0))

	model := cfg.Model
	if model == "" {
		model = DefaultAnthropicModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	return &AnthropicGenerator{
		client:      anthropic.NewClient(opts...),
		model:       model,
		maxTokens:   int64(maxTokens),
		temperature: cfg.Temperature,
	}
}

// Name identifies the provider in logs and metrics
func (g *AnthropicGenerator) Name() string {
	return ProviderAnthropic
}

// Generate sends prompt as a single user message and returns the text blocks
// of the reply joined together.
func (g *AnthropicGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: g.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if g.temperature > 0 {
		params.Temperature = anthropic.Float(g.temperature)
	}

	msg, err := g.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic messages: %w", err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("anthropic messages: response has no text content")
	}
	return b.String(), nil
}
