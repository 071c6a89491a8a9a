// Package llm is the provider-agnostic chat model contract. The assistant
// calls it only when no reply template applies.
package llm

import "context"

type Message struct {
	Role    string // system, user or assistant
	Content string
}

type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

type LLMProvider interface {
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)
	// Generate is Chat with a single user message.
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}
