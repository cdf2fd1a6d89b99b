package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

var ErrEmptyCompletion = errors.New("model returned no content")

// Generator sends a single prompt to a hosted model and returns its text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Model() string
}

type GeneratorConfig struct {
	Provider string
	BaseURL  string
	APIKey   string
	Model    string
}

// NewGenerator builds the generator for cfg.Provider.
func NewGenerator(ctx context.Context, cfg GeneratorConfig) (Generator, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("llm api key is empty")
	}
	switch strings.ToLower(cfg.Provider) {
	case ProviderGemini, "":
		client, err := NewGenAIClient(ctx, cfg.APIKey)
		if err != nil {
			return nil, err
		}
		return NewGeminiGenerator(client, cfg.Model), nil
	case ProviderOpenAI:
		return NewOpenAICompatibleClient(ChatConfig{
			BaseURL: cfg.BaseURL,
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
		}), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
