package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Wire types for the OpenAI-compatible /v1/chat/completions shape that
// both llama.cpp and Ollama serve.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model,omitempty"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Stream      bool          `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	// Some servers answer 200 with an error envelope instead of choices.
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func chatMessages(p Prompt) []chatMessage {
	return []chatMessage{
		{Role: "system", Content: p.System},
		{Role: "user", Content: p.User},
	}
}

// postChatCompletion performs the shared OpenAI-compatible POST and
// normalizes every outcome. treat503AsBusy marks the llama.cpp quirk of
// answering 503 while the model is loading or another request runs.
func postChatCompletion(ctx context.Context, client *http.Client, cfg Config, req chatRequest, treat503AsBusy bool) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("llm: marshal request: %w", err)
	}

	url := strings.TrimRight(cfg.BaseURL, "/") + "/v1/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("llm: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(httpReq)
	if err != nil {
		return "", classifyTransport(cfg, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", classifyTransport(cfg, err)
	}

	if treat503AsBusy && resp.StatusCode == http.StatusServiceUnavailable {
		return "", busyError(cfg, resp.StatusCode, string(body))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", httpError(cfg, resp.StatusCode, string(body))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &Error{
			Kind:     ErrMalformedResponse,
			Provider: cfg.Provider,
			Message:  fmt.Sprintf("response is not valid JSON: %v", err),
		}
	}
	if parsed.Error != nil && parsed.Error.Message != "" {
		return "", httpError(cfg, resp.StatusCode, parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", &Error{
			Kind:     ErrMalformedResponse,
			Provider: cfg.Provider,
			Message:  "response has no choices[0].message.content; the backend may not be OpenAI-compatible",
		}
	}
	return parsed.Choices[0].Message.Content, nil
}
