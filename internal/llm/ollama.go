package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	ollamaapi "github.com/ollama/ollama/api"
)

// ollama supports two implementation paths behind one contract: the
// enriched native client library, and a thin HTTP fallback against the
// same OpenAI-compatible endpoint Ollama exposes. The model name is
// required on both paths.
type ollama struct {
	cfg    Config
	client *http.Client
}

func newOllama(cfg Config) *ollama {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultOllamaURL
	}
	return &ollama{cfg: cfg, client: &http.Client{Timeout: cfg.timeout()}}
}

func (p *ollama) Send(ctx context.Context, prompt Prompt) (string, error) {
	if p.cfg.OllamaNative {
		return p.sendNative(ctx, prompt)
	}
	req := chatRequest{
		Model:       p.cfg.Model,
		Messages:    chatMessages(prompt),
		Temperature: temperature,
		Stream:      false,
	}
	return postChatCompletion(ctx, p.client, p.cfg, req, false)
}

func (p *ollama) sendNative(ctx context.Context, prompt Prompt) (string, error) {
	base, err := url.Parse(p.cfg.BaseURL)
	if err != nil {
		return "", &Error{
			Kind:     ErrConnectionRefused,
			Provider: KindOllama,
			Message:  fmt.Sprintf("invalid Ollama base URL %q: %v", p.cfg.BaseURL, err),
		}
	}
	client := ollamaapi.NewClient(base, p.client)

	stream := false
	req := &ollamaapi.ChatRequest{
		Model: p.cfg.Model,
		Messages: []ollamaapi.Message{
			{Role: "system", Content: prompt.System},
			{Role: "user", Content: prompt.User},
		},
		Stream:  &stream,
		Options: map[string]any{"temperature": temperature},
	}

	var out strings.Builder
	err = client.Chat(ctx, req, func(resp ollamaapi.ChatResponse) error {
		out.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", p.classify(err)
	}
	return out.String(), nil
}

func (p *ollama) classify(err error) *Error {
	var statusErr ollamaapi.StatusError
	if errors.As(err, &statusErr) {
		return httpError(p.cfg, statusErr.StatusCode, statusErr.ErrorMessage)
	}
	return classifyTransport(p.cfg, err)
}
