// Package llm provides the reasoning-backend client and the query executor
// that runs one field-lookup prompt against it, including the bounded
// tool-call loop and structured-output extraction.
package llm

import (
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/scrypster/showscout/internal/config"
)

// NewBackend creates the reasoning backend used for tool-assisted field
// research.
func NewBackend(cfg config.LLMConfig) (llms.Model, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("llm: OpenAI API key required")
	}
	model, err := openai.New(
		openai.WithToken(cfg.OpenAIAPIKey),
		openai.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("llm: create openai model: %w", err)
	}
	return model, nil
}

// NewQuickBackend creates the faster backend used for quick event summaries,
// which never needs tools.
func NewQuickBackend(cfg config.LLMConfig) (llms.Model, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("llm: OpenAI API key required")
	}
	model, err := openai.New(
		openai.WithToken(cfg.OpenAIAPIKey),
		openai.WithModel(cfg.QuickModel),
	)
	if err != nil {
		return nil, fmt.Errorf("llm: create openai quick model: %w", err)
	}
	return model, nil
}
