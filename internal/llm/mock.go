package llm

import (
	"context"
	"encoding/json"
)

// MockLLMClient is a configurable mock for testing LLM functionality.
// Set the function fields to control behavior in tests.
type MockLLMClient struct {
	// CompleteFunc is called when Complete is invoked.
	// If nil, returns an empty string and nil error.
	CompleteFunc func(ctx context.Context, req Request) (string, error)

	// CompleteStructuredFunc is called when CompleteStructured is invoked.
	// If nil, returns "{}" and nil error.
	CompleteStructuredFunc func(ctx context.Context, req Request, tool ToolDefinition) (json.RawMessage, error)

	// ModelName is returned by Model. Defaults to "mock-model".
	ModelName string

	// Call tracking for verification
	CompleteCalls           int
	CompleteStructuredCalls int
	LastRequest             Request
}

func NewMockLLMClient() *MockLLMClient {
	return &MockLLMClient{ModelName: "mock-model"}
}

func (m *MockLLMClient) Complete(ctx context.Context, req Request) (string, error) {
	m.CompleteCalls++
	m.LastRequest = req
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, req)
	}
	return "", nil
}

func (m *MockLLMClient) CompleteStructured(ctx context.Context, req Request, tool ToolDefinition) (json.RawMessage, error) {
	m.CompleteStructuredCalls++
	m.LastRequest = req
	if m.CompleteStructuredFunc != nil {
		return m.CompleteStructuredFunc(ctx, req, tool)
	}
	return json.RawMessage(`{}`), nil
}

func (m *MockLLMClient) Model() string {
	if m.ModelName == "" {
		return "mock-model"
	}
	return m.ModelName
}

var _ LLMClient = (*MockLLMClient)(nil)
