package llm

import (
	"context"
	"fmt"
)

// Prompt is a single-turn chat request: one fixed system role plus one
// user message. No multi-turn state, no streaming.
type Prompt struct {
	System string
	User   string
}

// Provider dispatches one prompt to a backend. Every adapter honors the
// same contract: the assistant's text on success, an *Error otherwise.
type Provider interface {
	Send(ctx context.Context, p Prompt) (string, error)
}

// New selects the adapter for cfg.Provider.
func New(cfg Config) (Provider, error) {
	switch cfg.Provider {
	case KindLlamaCpp:
		return newLlamaCpp(cfg), nil
	case KindOllama:
		return newOllama(cfg), nil
	case KindOpenAI:
		return newOpenAI(cfg), nil
	}
	return nil, &Error{
		Kind:     ErrUnsupportedProvider,
		Provider: cfg.Provider,
		Message:  fmt.Sprintf("unsupported provider %q: expected llama_cpp, ollama or openai", string(cfg.Provider)),
	}
}
