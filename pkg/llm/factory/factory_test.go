package factory

import (
	"context"
	"testing"

	"shop-chatbot-be/pkg/llm/ollama"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLLMProvider(t *testing.T) {
	t.Run("none", func(t *testing.T) {
		p, err := NewLLMProvider(context.Background(), Config{})
		require.NoError(t, err)
		assert.Nil(t, p)
	})

	t.Run("ollama defaults its url", func(t *testing.T) {
		p, err := NewLLMProvider(context.Background(), Config{Provider: "ollama", Model: "llama3"})
		require.NoError(t, err)
		o, isOllama := p.(*ollama.OllamaProvider)
		require.True(t, isOllama)
		assert.Equal(t, ollama.DefaultBaseURL, o.BaseURL)
	})

	t.Run("gemini needs a key", func(t *testing.T) {
		_, err := NewLLMProvider(context.Background(), Config{Provider: "gemini"})
		assert.Error(t, err)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := NewLLMProvider(context.Background(), Config{Provider: "gpt"})
		assert.ErrorContains(t, err, "unsupported")
	})
}
