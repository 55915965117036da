package llm

import (
	"context"
	"net/http"
)

// llamaCpp talks to a local llama.cpp server over its OpenAI-compatible
// chat endpoint. No auth; the server hosts a single preloaded model, so
// no model field is sent.
type llamaCpp struct {
	cfg    Config
	client *http.Client
}

func newLlamaCpp(cfg Config) *llamaCpp {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultLlamaCppURL
	}
	return &llamaCpp{cfg: cfg, client: &http.Client{Timeout: cfg.timeout()}}
}

func (p *llamaCpp) Send(ctx context.Context, prompt Prompt) (string, error) {
	req := chatRequest{
		Messages:    chatMessages(prompt),
		Temperature: temperature,
		MaxTokens:   maxTokens,
		Stream:      false,
	}
	return postChatCompletion(ctx, p.client, p.cfg, req, true)
}
