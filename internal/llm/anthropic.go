package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/liushuangls/go-anthropic/v2"

	custom_errors "archgen/internal/errors"
)

const defaultAnthropicMaxTokens = 4096

// AnthropicClient talks to the Anthropic Messages API.
type AnthropicClient struct {
	client    *anthropic.Client
	model     string
	maxTokens int
	timeout   time.Duration
	logger    *slog.Logger
}

func NewAnthropicClient(cfg *Config, logger *slog.Logger) (*AnthropicClient, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	var opts []anthropic.ClientOption
	if cfg.Endpoint != "" {
		opts = append(opts, anthropic.WithBaseURL(strings.TrimSuffix(cfg.Endpoint, "/")))
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultAnthropicMaxTokens
	}

	return &AnthropicClient{
		client:    anthropic.NewClient(cfg.APIKey, opts...),
		model:     cfg.Model,
		maxTokens: maxTokens,
		timeout:   cfg.Timeout,
		logger:    logger.With("component", "llm", "provider", ProviderAnthropic),
	}, nil
}

func (c *AnthropicClient) Model() string {
	return c.model
}

func (c *AnthropicClient) request(req Request) anthropic.MessagesRequest {
	prompt := req.User
	return anthropic.MessagesRequest{
		Model:     anthropic.Model(c.model),
		System:    req.System,
		MaxTokens: c.maxTokens,
		Messages: []anthropic.Message{
			{Role: anthropic.RoleUser, Content: []anthropic.MessageContent{
				{Type: "text", Text: &prompt},
			}},
		},
	}
}

func (c *AnthropicClient) Complete(ctx context.Context, req Request) (string, error) {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.client.CreateMessages(ctx, c.request(req))
	if err != nil {
		c.logger.Error("LLM request failed", "elapsed", time.Since(start), "error", err)
		return "", ClassifyError(err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" && block.Text != nil {
			sb.WriteString(*block.Text)
		}
	}

	c.logger.Info("LLM request completed",
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
		"elapsed", time.Since(start))

	return sb.String(), nil
}

func (c *AnthropicClient) CompleteStructured(ctx context.Context, req Request, tool ToolDefinition) (json.RawMessage, error) {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	msgReq := c.request(req)
	msgReq.Tools = []anthropic.ToolDefinition{{
		Name:        tool.Name,
		Description: tool.Description,
		InputSchema: tool.Parameters,
	}}
	msgReq.ToolChoice = &anthropic.ToolChoice{Type: "tool", Name: tool.Name}

	start := time.Now()
	resp, err := c.client.CreateMessages(ctx, msgReq)
	if err != nil {
		c.logger.Error("LLM tool request failed", "elapsed", time.Since(start), "tool", tool.Name, "error", err)
		return nil, ClassifyError(err)
	}

	for _, block := range resp.Content {
		if block.Type != "tool_use" || block.MessageContentToolUse == nil {
			continue
		}
		if block.MessageContentToolUse.Name != tool.Name {
			continue
		}
		return decodeArguments(tool.Name, block.MessageContentToolUse.Input)
	}
	return nil, custom_errors.Parse(fmt.Sprintf("AI response did not call %s", tool.Name), nil)
}
