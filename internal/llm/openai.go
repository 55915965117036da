package llm

import (
	"context"
	"errors"
	"net/http"

	goopenai "github.com/sashabaranov/go-openai"
)

// openAI talks to the hosted OpenAI API through the official client
// surface. The bearer key resolves from the explicit config value
// first, then the OPENAI_API_KEY environment variable; with neither,
// Send fails fast before touching the network.
type openAI struct {
	cfg Config
}

func newOpenAI(cfg Config) *openAI {
	return &openAI{cfg: cfg}
}

func (p *openAI) Send(ctx context.Context, prompt Prompt) (string, error) {
	key := p.cfg.ResolveAPIKey()
	if key == "" {
		return "", &Error{
			Kind:     ErrMissingCredential,
			Provider: KindOpenAI,
			Message:  "no OpenAI API key: set one in the provider configuration or export " + EnvOpenAIKey,
		}
	}

	clientCfg := goopenai.DefaultConfig(key)
	if p.cfg.BaseURL != "" {
		clientCfg.BaseURL = p.cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: p.cfg.timeout()}
	client := goopenai.NewClientWithConfig(clientCfg)

	resp, err := client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: p.cfg.Model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: prompt.System},
			{Role: goopenai.ChatMessageRoleUser, Content: prompt.User},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", p.classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", &Error{
			Kind:     ErrMalformedResponse,
			Provider: KindOpenAI,
			Message:  "completion has no choices",
		}
	}
	return resp.Choices[0].Message.Content, nil
}

func (p *openAI) classify(err error) *Error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return httpError(p.cfg, apiErr.HTTPStatusCode, apiErr.Message)
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		return httpError(p.cfg, reqErr.HTTPStatusCode, reqErr.Error())
	}
	return classifyTransport(p.cfg, err)
}
