package config

import (
	"os"
	"strconv"
	"time"

	"govassess/internal/llm"
)

// Config holds server-level settings.
type Config struct {
	HTTPPort string
}

// Load reads server configuration from the environment.
func Load() *Config {
	return &Config{
		HTTPPort: getEnvOrDefault("PORT", "8080"),
	}
}

// LLMFromEnv builds the initial provider configuration. The provider
// defaults to the local llama.cpp server; the OpenAI key is resolved at
// dispatch time (explicit config value first, then OPENAI_API_KEY).
func LLMFromEnv() (llm.Config, error) {
	kind, err := llm.ParseKind(getEnvOrDefault("LLM_PROVIDER", string(llm.KindLlamaCpp)))
	if err != nil {
		return llm.Config{}, err
	}

	cfg := llm.DefaultConfig(kind)
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("LLM_TIMEOUT_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			cfg.Timeout = time.Duration(secs) * time.Second
		}
	}
	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
