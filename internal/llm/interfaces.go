// Package llm provides chat completion clients for OpenAI-compatible and
// Anthropic endpoints behind a single interface.
package llm

import (
	"context"
	"encoding/json"
)

// Request is a single-turn prompt.
type Request struct {
	System string
	User   string
}

// LLMClient defines the interface for LLM operations.
// Use this interface for dependency injection to enable mocking in tests.
type LLMClient interface {
	// Complete returns the assistant's text response.
	Complete(ctx context.Context, req Request) (string, error)

	// CompleteStructured forces a call of tool and returns its raw JSON arguments.
	CompleteStructured(ctx context.Context, req Request, tool ToolDefinition) (json.RawMessage, error)

	// Model returns the configured model name.
	Model() string
}

var (
	_ LLMClient = (*OpenAIClient)(nil)
	_ LLMClient = (*AnthropicClient)(nil)
)
