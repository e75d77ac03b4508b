package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propchat/internal/config"
)

func newTestOpenAI(t *testing.T, handler http.HandlerFunc) *OpenAIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewOpenAIClient(&config.OpenAIConfig{
		APIKey:      "sk-test",
		APIBase:     srv.URL + "/v1",
		ChatModel:   "gpt-test",
		Temperature: 0.1,
		MaxTokens:   200,
		JSONMode:    true,
		Timeout:     2 * time.Second,
		Enabled:     true,
	}, zerolog.Nop())
}

func TestOpenAIClient_Complete(t *testing.T) {
	var captured map[string]any
	client := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "cmpl-1",
			"object": "chat.completion",
			"model": "gpt-test",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "  {\"city\": \"Pune\"}  "}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
		}`))
	})

	got, err := client.Complete(context.Background(), "system prompt", "3bhk in pune")
	require.NoError(t, err)
	assert.Equal(t, `{"city": "Pune"}`, got)

	assert.Equal(t, "gpt-test", captured["model"])
	assert.Equal(t, map[string]any{"type": "json_object"}, captured["response_format"])
	messages := captured["messages"].([]any)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]any)["role"])
	assert.Equal(t, "3bhk in pune", messages[1].(map[string]any)["content"])
}

func TestOpenAIClient_Errors(t *testing.T) {
	t.Run("api error", func(t *testing.T) {
		client := newTestOpenAI(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error": {"message": "rate limited", "type": "rate_limit"}}`))
		})
		_, err := client.Complete(context.Background(), "s", "u")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "429")
	})

	t.Run("no choices", func(t *testing.T) {
		client := newTestOpenAI(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id": "x", "choices": []}`))
		})
		_, err := client.Complete(context.Background(), "s", "u")
		assert.Error(t, err)
	})

	t.Run("disabled", func(t *testing.T) {
		client := NewOpenAIClient(&config.OpenAIConfig{}, zerolog.Nop())
		_, err := client.Complete(context.Background(), "s", "u")
		assert.ErrorIs(t, err, ErrCompletionDisabled)
		assert.False(t, client.IsEnabled())
	})
}
