// Package textgen adapts hosted language models to domain.TextGenerator.
package textgen

import (
	"context"
	"fmt"
	"io"

	"github.com/softwarescout/backend/config"
	infralogger "github.com/softwarescout/backend/internal/infrastructure/logger"
)

// Generator is a paced provider that must be closed after use
type Generator interface {
	Provider
	io.Closer
}

type closingGenerator struct {
	*PacedGenerator
	closer func() error
}

func (g closingGenerator) Close() error {
	if g.closer == nil {
		return nil
	}
	return g.closer()
}

// New builds the configured provider wrapped in a PacedGenerator
func New(ctx context.Context, cfg config.TextGenConfig, log infralogger.Logger, calls CallRecorder) (Generator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("textgen.api_key is required for provider %q", cfg.Provider)
	}

	paced := PacedConfig{
		RequestsPerMinute: cfg.RequestsPerMinute,
		MaxAttempts:       cfg.MaxAttempts,
		Timeout:           cfg.Timeout,
	}

	switch cfg.Provider {
	case ProviderAnthropic, "":
		gen := NewAnthropicGenerator(AnthropicConfig{
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			BaseURL:     cfg.BaseURL,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
		})
		return closingGenerator{PacedGenerator: NewPacedGenerator(gen, paced, log, calls)}, nil

	case ProviderGemini:
		gen, err := NewGeminiGenerator(ctx, GeminiConfig{
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
		})
		if err != nil {
			return nil, err
		}
		return closingGenerator{PacedGenerator: NewPacedGenerator(gen, paced, log, calls), closer: gen.Close}, nil

	default:
		return nil, fmt.Errorf("unknown textgen provider %q", cfg.Provider)
	}
}
