// Package llm dispatches single-turn prompts to one of three
// chat-completion backends — a local llama.cpp server, Ollama, or the
// hosted OpenAI API — and normalizes every outcome into either the
// assistant's text or a classified *Error.
package llm

import (
	"fmt"
	"os"
	"time"
)

// Kind identifies a supported backend.
type Kind string

const (
	KindLlamaCpp Kind = "llama_cpp"
	KindOllama   Kind = "ollama"
	KindOpenAI   Kind = "openai"
)

// ParseKind validates a provider name from configuration or request
// input. Anything outside the fixed set is an UnsupportedProvider
// failure, not a crash.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindLlamaCpp, KindOllama, KindOpenAI:
		return Kind(s), nil
	}
	return "", &Error{
		Kind:     ErrUnsupportedProvider,
		Provider: Kind(s),
		Message:  fmt.Sprintf("unsupported provider %q: expected llama_cpp, ollama or openai", s),
	}
}

// Defaults shared across adapters.
const (
	DefaultLlamaCppURL = "http://localhost:8080"
	DefaultOllamaURL   = "http://localhost:11434"
	DefaultTimeout     = 120 * time.Second

	temperature = 0.7
	maxTokens   = 2048
)

// EnvOpenAIKey is the documented environment fallback for the OpenAI
// API key.
const EnvOpenAIKey = "OPENAI_API_KEY"

// Config selects and parameterizes a provider for one session. The API
// key is never serialized.
type Config struct {
	Provider Kind   `json:"provider"`
	Model    string `json:"model,omitempty"`
	BaseURL  string `json:"baseUrl,omitempty"`
	APIKey   string `json:"-"`

	// OllamaNative selects the enriched Ollama client library; when
	// false the adapter uses the thin OpenAI-compatible HTTP fallback.
	// Both paths honor the same success/failure contract.
	OllamaNative bool `json:"ollamaNative,omitempty"`

	Timeout time.Duration `json:"-"`
}

// DefaultConfig returns the per-provider defaults.
func DefaultConfig(kind Kind) Config {
	cfg := Config{Provider: kind, Timeout: DefaultTimeout}
	switch kind {
	case KindLlamaCpp:
		cfg.BaseURL = DefaultLlamaCppURL
	case KindOllama:
		cfg.BaseURL = DefaultOllamaURL
		cfg.Model = "llama3.2"
		cfg.OllamaNative = true
	case KindOpenAI:
		cfg.Model = "gpt-4o-mini"
	}
	return cfg
}

// ResolveAPIKey applies the fixed resolution order: explicit value,
// then environment, else empty.
func (c Config) ResolveAPIKey() string {
	if c.APIKey != "" {
		return c.APIKey
	}
	return os.Getenv(EnvOpenAIKey)
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}
