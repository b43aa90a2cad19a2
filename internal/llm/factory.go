package llm

import (
	"fmt"
	"log/slog"
	"time"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config holds configuration for creating an LLM client.
type Config struct {
	Provider  string        // "openai" (default) or "anthropic"
	Endpoint  string        // Base URL, e.g. "https://api.openai.com/v1"
	Model     string        // Model name
	APIKey    string        // Optional for local endpoints
	MaxTokens int           // Zero uses the provider default
	Timeout   time.Duration // Per-request timeout; zero disables it
}

// NewClient creates the client for cfg.Provider.
func NewClient(cfg *Config, logger *slog.Logger) (LLMClient, error) {
	switch cfg.Provider {
	case "", ProviderOpenAI:
		return NewOpenAIClient(cfg, logger)
	case ProviderAnthropic:
		return NewAnthropicClient(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
