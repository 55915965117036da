package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPrompt = Prompt{System: "advisor", User: "hello"}

func asProviderError(t *testing.T, err error) *Error {
	t.Helper()
	var provErr *Error
	require.ErrorAs(t, err, &provErr)
	return provErr
}

func TestParseKind(t *testing.T) {
	for _, name := range []string{"llama_cpp", "ollama", "openai"} {
		kind, err := ParseKind(name)
		require.NoError(t, err)
		assert.Equal(t, Kind(name), kind)
	}

	_, err := ParseKind("gemini")
	provErr := asProviderError(t, err)
	assert.Equal(t, ErrUnsupportedProvider, provErr.Kind)
}

func TestNewUnsupportedProvider(t *testing.T) {
	_, err := New(Config{Provider: Kind("mystery")})
	provErr := asProviderError(t, err)
	assert.Equal(t, ErrUnsupportedProvider, provErr.Kind)
	assert.Contains(t, provErr.Message, "mystery")
}

func TestLlamaCppSuccess(t *testing.T) {
	var captured chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get("Authorization"), "local providers send no auth")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"X"}}]}`))
	}))
	defer srv.Close()

	p, err := New(Config{Provider: KindLlamaCpp, BaseURL: srv.URL})
	require.NoError(t, err)

	text, err := p.Send(context.Background(), testPrompt)
	require.NoError(t, err)
	assert.Equal(t, "X", text)

	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, "advisor", captured.Messages[0].Content)
	assert.Equal(t, "user", captured.Messages[1].Role)
	assert.Equal(t, "hello", captured.Messages[1].Content)
	assert.InDelta(t, 0.7, captured.Temperature, 1e-9)
	assert.Equal(t, 2048, captured.MaxTokens)
	assert.False(t, captured.Stream)
	assert.Empty(t, captured.Model, "llama.cpp hosts a single preloaded model")
}

func TestLlamaCpp503IsServerBusy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "loading model", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p, _ := New(Config{Provider: KindLlamaCpp, BaseURL: srv.URL})
	_, err := p.Send(context.Background(), testPrompt)

	provErr := asProviderError(t, err)
	assert.Equal(t, ErrServerBusy, provErr.Kind)
	assert.Equal(t, http.StatusServiceUnavailable, provErr.Status)
	assert.Contains(t, provErr.Message, "busy")
}

func TestHTTPErrorCarriesStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	p, _ := New(Config{Provider: KindLlamaCpp, BaseURL: srv.URL})
	_, err := p.Send(context.Background(), testPrompt)

	provErr := asProviderError(t, err)
	assert.Equal(t, ErrHTTP, provErr.Kind)
	assert.Equal(t, http.StatusNotFound, provErr.Status)
	assert.Contains(t, provErr.Body, "model not found")
}

func TestErrorEnvelopeOn200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":{"message":"context window exceeded"}}`))
	}))
	defer srv.Close()

	p, _ := New(Config{Provider: KindLlamaCpp, BaseURL: srv.URL})
	_, err := p.Send(context.Background(), testPrompt)

	provErr := asProviderError(t, err)
	assert.Equal(t, ErrHTTP, provErr.Kind)
	assert.Contains(t, provErr.Message, "context window exceeded")
}

func TestMalformedResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "<html>hi</html>"},
		{"json without choices", `{"ok":true}`},
		{"empty choices", `{"choices":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			p, _ := New(Config{Provider: KindLlamaCpp, BaseURL: srv.URL})
			_, err := p.Send(context.Background(), testPrompt)

			provErr := asProviderError(t, err)
			assert.Equal(t, ErrMalformedResponse, provErr.Kind)
		})
	}
}

func TestConnectionRefused(t *testing.T) {
	// Grab a URL that is guaranteed to refuse connections.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	p, _ := New(Config{Provider: KindLlamaCpp, BaseURL: url})
	_, err := p.Send(context.Background(), testPrompt)

	provErr := asProviderError(t, err)
	assert.Equal(t, ErrConnectionRefused, provErr.Kind)
	assert.Contains(t, provErr.Message, url, "message names the configured URL")
	assert.Contains(t, provErr.Message, "llama-server", "message carries the startup hint")
}

func TestTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	p, _ := New(Config{Provider: KindLlamaCpp, BaseURL: srv.URL, Timeout: 30 * time.Millisecond})
	_, err := p.Send(context.Background(), testPrompt)

	provErr := asProviderError(t, err)
	assert.Equal(t, ErrTimeout, provErr.Kind)
	assert.Contains(t, provErr.Message, "smaller model")
}

func TestOllamaHTTPFallback(t *testing.T) {
	var captured chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte(`{"choices":[{"message":{"content":"pong"}}]}`))
	}))
	defer srv.Close()

	p, err := New(Config{Provider: KindOllama, BaseURL: srv.URL, Model: "llama3.2", OllamaNative: false})
	require.NoError(t, err)

	text, err := p.Send(context.Background(), testPrompt)
	require.NoError(t, err)
	assert.Equal(t, "pong", text)
	assert.Equal(t, "llama3.2", captured.Model, "ollama requires the model name")
}

func TestOllamaHTTPFallback503IsPlainHTTPError(t *testing.T) {
	// 503-means-busy is a llama.cpp quirk; Ollama gets the generic
	// classification.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p, _ := New(Config{Provider: KindOllama, BaseURL: srv.URL, Model: "llama3.2", OllamaNative: false})
	_, err := p.Send(context.Background(), testPrompt)

	provErr := asProviderError(t, err)
	assert.Equal(t, ErrHTTP, provErr.Kind)
	assert.Equal(t, http.StatusServiceUnavailable, provErr.Status)
}

func TestOllamaNativeClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"model":"llama3.2","message":{"role":"assistant","content":"native pong"},"done":true}`))
	}))
	defer srv.Close()

	p, err := New(Config{Provider: KindOllama, BaseURL: srv.URL, Model: "llama3.2", OllamaNative: true})
	require.NoError(t, err)

	text, err := p.Send(context.Background(), testPrompt)
	require.NoError(t, err)
	assert.Equal(t, "native pong", text)
}

func TestOllamaNativeConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	p, _ := New(Config{Provider: KindOllama, BaseURL: url, Model: "llama3.2", OllamaNative: true})
	_, err := p.Send(context.Background(), testPrompt)

	provErr := asProviderError(t, err)
	assert.Equal(t, ErrConnectionRefused, provErr.Kind)
	assert.Contains(t, provErr.Message, "ollama serve")
}

func TestOpenAIMissingCredential(t *testing.T) {
	t.Setenv(EnvOpenAIKey, "")

	// Point at a dead URL: a credential failure must short-circuit
	// before any network activity, so the URL must not matter.
	p, err := New(Config{Provider: KindOpenAI, Model: "gpt-4o-mini", BaseURL: "http://127.0.0.1:1/v1"})
	require.NoError(t, err)

	_, err = p.Send(context.Background(), testPrompt)
	provErr := asProviderError(t, err)
	assert.Equal(t, ErrMissingCredential, provErr.Kind)
	assert.Contains(t, provErr.Message, EnvOpenAIKey)
}

func TestOpenAIKeyFromEnvironment(t *testing.T) {
	t.Setenv(EnvOpenAIKey, "sk-env-test")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-env-test", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "cloud pong"}, "finish_reason": "stop"}]
		}`))
	}))
	defer srv.Close()

	p, err := New(Config{Provider: KindOpenAI, Model: "gpt-4o-mini", BaseURL: srv.URL + "/v1"})
	require.NoError(t, err)

	text, err := p.Send(context.Background(), testPrompt)
	require.NoError(t, err)
	assert.Equal(t, "cloud pong", text)
}

func TestOpenAIExplicitKeyWinsOverEnvironment(t *testing.T) {
	t.Setenv(EnvOpenAIKey, "sk-env-test")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-explicit", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"index":0,"message":{"role":"assistant","content":"ok"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	p, _ := New(Config{Provider: KindOpenAI, Model: "gpt-4o-mini", APIKey: "sk-explicit", BaseURL: srv.URL + "/v1"})
	_, err := p.Send(context.Background(), testPrompt)
	require.NoError(t, err)
}

func TestDefaultConfig(t *testing.T) {
	llama := DefaultConfig(KindLlamaCpp)
	assert.Equal(t, DefaultLlamaCppURL, llama.BaseURL)
	assert.Equal(t, DefaultTimeout, llama.Timeout)

	ollama := DefaultConfig(KindOllama)
	assert.Equal(t, DefaultOllamaURL, ollama.BaseURL)
	assert.NotEmpty(t, ollama.Model)
	assert.True(t, ollama.OllamaNative)

	openai := DefaultConfig(KindOpenAI)
	assert.Empty(t, openai.BaseURL, "openai uses the hosted endpoint")
	assert.NotEmpty(t, openai.Model)
}
