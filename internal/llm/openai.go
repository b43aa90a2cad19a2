package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	custom_errors "archgen/internal/errors"
)

// OpenAIClient talks to any OpenAI-compatible chat completions endpoint,
// including AI gateways that front other vendors.
type OpenAIClient struct {
	client    *openai.Client
	model     string
	maxTokens int
	timeout   time.Duration
	logger    *slog.Logger
}

// NewOpenAIClient creates a new OpenAI-compatible LLM client.
func NewOpenAIClient(cfg *Config, logger *slog.Logger) (*OpenAIClient, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = strings.TrimSuffix(cfg.Endpoint, "/")

	return &OpenAIClient{
		client:    openai.NewClientWithConfig(clientConfig),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		timeout:   cfg.Timeout,
		logger:    logger.With("component", "llm", "provider", ProviderOpenAI),
	}, nil
}

func (c *OpenAIClient) Model() string {
	return c.model
}

func (c *OpenAIClient) request(req Request) openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
		MaxTokens: c.maxTokens,
	}
}

// Complete generates a chat completion and returns the first choice's text.
func (c *OpenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	c.logger.Debug("LLM request", "model", c.model, "prompt_len", len(req.User))
	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, c.request(req))
	if err != nil {
		c.logger.Error("LLM request failed", "elapsed", time.Since(start), "error", err)
		return "", ClassifyError(err)
	}
	if len(resp.Choices) == 0 {
		return "", custom_errors.Upstream("AI response contained no choices", 0, nil)
	}

	c.logger.Info("LLM request completed",
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
		"elapsed", time.Since(start))

	return resp.Choices[0].Message.Content, nil
}

// CompleteStructured forces the model to call tool and returns its arguments.
func (c *OpenAIClient) CompleteStructured(ctx context.Context, req Request, tool ToolDefinition) (json.RawMessage, error) {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	chatReq := c.request(req)
	chatReq.Tools = []openai.Tool{{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        tool.Name,
			Description: tool.Description,
			Parameters:  tool.Parameters,
		},
	}}
	chatReq.ToolChoice = openai.ToolChoice{
		Type:     openai.ToolTypeFunction,
		Function: openai.ToolFunction{Name: tool.Name},
	}

	c.logger.Debug("LLM tool request", "model", c.model, "tool", tool.Name)
	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		c.logger.Error("LLM tool request failed", "elapsed", time.Since(start), "tool", tool.Name, "error", err)
		return nil, ClassifyError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, custom_errors.Parse("AI response contained no choices", nil)
	}

	for _, call := range resp.Choices[0].Message.ToolCalls {
		if call.Function.Name != tool.Name {
			continue
		}
		return decodeArguments(tool.Name, []byte(call.Function.Arguments))
	}
	return nil, custom_errors.Parse(fmt.Sprintf("AI response did not call %s", tool.Name), nil)
}

func decodeArguments(toolName string, raw []byte) (json.RawMessage, error) {
	if len(raw) == 0 || !json.Valid(raw) {
		return nil, custom_errors.Parse(fmt.Sprintf("invalid arguments for %s", toolName), nil)
	}
	return json.RawMessage(raw), nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
