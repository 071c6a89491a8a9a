package factory

import (
	"context"
	"fmt"
	"time"

	"shop-chatbot-be/pkg/llm"
	"shop-chatbot-be/pkg/llm/gemini"
	"shop-chatbot-be/pkg/llm/ollama"
)

type Config struct {
	Provider string
	Model    string
	BaseURL  string
	APIKey   string
	Timeout  time.Duration
}

// NewLLMProvider builds the configured provider. An empty or "none" provider
// returns nil: replies then come from templates only.
func NewLLMProvider(ctx context.Context, cfg Config) (llm.LLMProvider, error) {
	switch cfg.Provider {
	case "", "none":
		return nil, nil
	case "ollama":
		return ollama.NewOllamaProvider(cfg.BaseURL, cfg.Model, cfg.Timeout), nil
	case "gemini":
		p, err := gemini.NewGeminiProvider(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
