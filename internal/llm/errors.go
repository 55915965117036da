package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
)

// ErrorKind is the closed set of pipeline failure classes.
type ErrorKind string

const (
	ErrConnectionRefused   ErrorKind = "connection_refused"
	ErrServerBusy          ErrorKind = "server_busy"
	ErrTimeout             ErrorKind = "timeout"
	ErrHTTP                ErrorKind = "http_error"
	ErrMissingCredential   ErrorKind = "missing_credential"
	ErrUnsupportedProvider ErrorKind = "unsupported_provider"
	ErrMalformedResponse   ErrorKind = "malformed_response"
)

// Error is a classified provider failure carrying a remediation-oriented
// message. Every failure is terminal for its invocation; nothing in the
// pipeline retries, the caller re-triggers explicitly.
type Error struct {
	Kind     ErrorKind
	Provider Kind
	Status   int    // HTTP status for ErrServerBusy / ErrHTTP
	Body     string // verbatim response body for ErrHTTP
	Message  string
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s [%s, HTTP %d]: %s", e.Provider, e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s [%s]: %s", e.Provider, e.Kind, e.Message)
}

// classifyTransport converts an error from the HTTP client into the
// taxonomy. Classification is structural — connection refusals and
// deadline expiry are told apart by error type, never by matching
// message substrings.
func classifyTransport(cfg Config, err error) *Error {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return refusedError(cfg)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return timeoutError(cfg)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return timeoutError(cfg)
	}
	// Hosts that fail without ECONNREFUSED (no route, DNS) still mean
	// the backend is not there.
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return refusedError(cfg)
	}
	return &Error{
		Kind:     ErrConnectionRefused,
		Provider: cfg.Provider,
		Message:  fmt.Sprintf("request to %s failed: %v. %s", endpointOf(cfg), err, startupHint(cfg.Provider)),
	}
}

func refusedError(cfg Config) *Error {
	return &Error{
		Kind:     ErrConnectionRefused,
		Provider: cfg.Provider,
		Message:  fmt.Sprintf("cannot reach the %s backend at %s. %s", cfg.Provider, endpointOf(cfg), startupHint(cfg.Provider)),
	}
}

func timeoutError(cfg Config) *Error {
	return &Error{
		Kind:     ErrTimeout,
		Provider: cfg.Provider,
		Message: fmt.Sprintf("no response from %s within the %s budget; reduce the requested output length or use a smaller model",
			endpointOf(cfg), cfg.timeout()),
	}
}

func busyError(cfg Config, status int, body string) *Error {
	return &Error{
		Kind:     ErrServerBusy,
		Provider: cfg.Provider,
		Status:   status,
		Body:     body,
		Message:  "the llama.cpp server is busy: it is still loading the model or handling another request; wait a moment and retry",
	}
}

func httpError(cfg Config, status int, body string) *Error {
	return &Error{
		Kind:     ErrHTTP,
		Provider: cfg.Provider,
		Status:   status,
		Body:     body,
		Message:  fmt.Sprintf("%s returned HTTP %d: %s", cfg.Provider, status, body),
	}
}

func endpointOf(cfg Config) string {
	if cfg.BaseURL != "" {
		return cfg.BaseURL
	}
	if cfg.Provider == KindOpenAI {
		return "https://api.openai.com/v1"
	}
	return cfg.BaseURL
}

func startupHint(kind Kind) string {
	switch kind {
	case KindLlamaCpp:
		return "Start the server first, e.g.: llama-server -m <model.gguf> --port 8080"
	case KindOllama:
		return "Start Ollama with 'ollama serve' and pull the model with 'ollama pull <model>'"
	case KindOpenAI:
		return "Check your network connection and proxy settings"
	}
	return ""
}
