package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	custom_errors "archgen/internal/errors"
)

func newOpenAITestClient(t *testing.T, handler http.HandlerFunc) *OpenAIClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewOpenAIClient(&Config{
		Endpoint:  server.URL + "/v1/",
		Model:     "test-model",
		APIKey:    "sk-test",
		MaxTokens: 256,
		Timeout:   5 * time.Second,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return client
}

func TestOpenAIClient_Complete(t *testing.T) {
	client := newOpenAITestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "test-model", body["model"])
		msgs := body["messages"].([]any)
		require.Len(t, msgs, 2)
		assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
		assert.Equal(t, "be terse", msgs[0].(map[string]any)["content"])

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"graph TD\nA-->B"},"finish_reason":"stop"}],"usage":{"prompt_tokens":3,"completion_tokens":4,"total_tokens":7}}`)
	})

	out, err := client.Complete(context.Background(), Request{System: "be terse", User: "draw"})

	require.NoError(t, err)
	assert.Equal(t, "graph TD\nA-->B", out)
}

func TestOpenAIClient_CompleteStructured(t *testing.T) {
	tool := NewToolDefinition("explain_node", "Explain", map[string]ParameterProperty{
		"description": {Type: "string"},
	}, []string{"description"})

	t.Run("returns the forced tool call arguments", func(t *testing.T) {
		client := newOpenAITestClient(t, func(w http.ResponseWriter, r *http.Request) {
			raw, _ := io.ReadAll(r.Body)
			var body map[string]any
			require.NoError(t, json.Unmarshal(raw, &body))
			choice := body["tool_choice"].(map[string]any)
			assert.Equal(t, "explain_node", choice["function"].(map[string]any)["name"])

			fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","tool_calls":[{"id":"call_1","type":"function","function":{"name":"explain_node","arguments":"{\"description\":\"API layer\"}"}}]}}]}`)
		})

		raw, err := client.CompleteStructured(context.Background(), Request{User: "x"}, tool)

		require.NoError(t, err)
		assert.JSONEq(t, `{"description":"API layer"}`, string(raw))
	})

	t.Run("missing tool call is a parse error", func(t *testing.T) {
		client := newOpenAITestClient(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"I refuse"}}]}`)
		})

		_, err := client.CompleteStructured(context.Background(), Request{User: "x"}, tool)

		assert.ErrorIs(t, err, custom_errors.ErrParse)
	})

	t.Run("malformed arguments are a parse error", func(t *testing.T) {
		client := newOpenAITestClient(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","tool_calls":[{"id":"call_1","type":"function","function":{"name":"explain_node","arguments":"{not json"}}]}}]}`)
		})

		_, err := client.CompleteStructured(context.Background(), Request{User: "x"}, tool)

		assert.ErrorIs(t, err, custom_errors.ErrParse)
	})
}

func TestOpenAIClient_ErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"rate limited", http.StatusTooManyRequests, `{"error":{"message":"slow down","type":"rate_limit_error"}}`, custom_errors.ErrUpstreamRateLimited},
		{"quota via code", http.StatusTooManyRequests, `{"error":{"message":"You exceeded your current quota","type":"insufficient_quota","code":"insufficient_quota"}}`, custom_errors.ErrUpstreamQuotaExhausted},
		{"payment required", http.StatusPaymentRequired, `{"error":{"message":"Payment required"}}`, custom_errors.ErrUpstreamQuotaExhausted},
		{"server error", http.StatusBadGateway, `{"error":{"message":"bad gateway"}}`, custom_errors.ErrUpstream},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newOpenAITestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			})

			_, err := client.Complete(context.Background(), Request{User: "x"})

			assert.ErrorIs(t, err, tt.want)
		})
	}
}
