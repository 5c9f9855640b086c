package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatRequest struct {
	Model       string  `json:"model"`
	Temperature float32 `json:"temperature"`
	TopP        float32 `json:"top_p"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newChatServer(t *testing.T, status int, body string, captured *chatRequest, auth *string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		if auth != nil {
			*auth = r.Header.Get("Authorization")
		}
		if captured != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(captured))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAIClient_Generate(t *testing.T) {
	var req chatRequest
	var auth string
	srv := newChatServer(t, http.StatusOK, `{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"choices": [
			{"index": 0, "message": {"role": "assistant", "content": "yes (definitely)"}, "finish_reason": "stop"}
		]
	}`, &req, &auth)

	c := NewOpenAIClient("samba-key", srv.URL, Options{
		Model:        "Meta-Llama-3.1-8B-Instruct",
		SystemPrompt: "You are a helpful assistant.",
		Temperature:  0.1,
		TopP:         0.1,
	})

	out, err := c.Generate(context.Background(), "Is the topic discussed?")
	require.NoError(t, err)

	assert.Equal(t, "yes (definitely)", out)
	assert.Equal(t, "Bearer samba-key", auth)
	assert.Equal(t, "Meta-Llama-3.1-8B-Instruct", req.Model)
	assert.InDelta(t, 0.1, req.Temperature, 1e-6)
	assert.InDelta(t, 0.1, req.TopP, 1e-6)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, "system", req.Messages[0].Role)
	assert.Equal(t, "You are a helpful assistant.", req.Messages[0].Content)
	assert.Equal(t, "user", req.Messages[1].Role)
	assert.Equal(t, "Is the topic discussed?", req.Messages[1].Content)
}

func TestOpenAIClient_NoSystemPrompt(t *testing.T) {
	var req chatRequest
	srv := newChatServer(t, http.StatusOK, `{"choices": [{"message": {"role": "assistant", "content": "no"}}]}`, &req, nil)

	c := NewOpenAIClient("k", srv.URL, Options{Model: "m"})
	out, err := c.Generate(context.Background(), "prompt")
	require.NoError(t, err)

	assert.Equal(t, "no", out)
	require.Len(t, req.Messages, 1)
	assert.Equal(t, "user", req.Messages[0].Role)
}

func TestOpenAIClient_ZeroTemperatureIsSent(t *testing.T) {
	var raw map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices": [{"message": {"role": "assistant", "content": "no"}}]}`))
	}))
	t.Cleanup(srv.Close)

	c := NewOpenAIClient("k", srv.URL, Options{Model: "m", Temperature: 0, TopP: 0.1})
	_, err := c.Generate(context.Background(), "prompt")
	require.NoError(t, err)

	require.Contains(t, raw, "temperature")
	assert.InDelta(t, 0, raw["temperature"], 1e-6)
	assert.InDelta(t, 0.1, raw["top_p"], 1e-6)
}

func TestOpenAIClient_NoChoices(t *testing.T) {
	srv := newChatServer(t, http.StatusOK, `{"choices": []}`, nil, nil)

	c := NewOpenAIClient("k", srv.URL, Options{Model: "m"})
	_, err := c.Generate(context.Background(), "prompt")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no response choices")
}

func TestOpenAIClient_ErrorStatusIsClassified(t *testing.T) {
	limited := newChatServer(t, http.StatusTooManyRequests,
		`{"error": {"message": "rate limit exceeded", "type": "rate_limit_error"}}`, nil, nil)
	_, err := NewOpenAIClient("k", limited.URL, Options{Model: "m"}).Generate(context.Background(), "p")
	require.Error(t, err)
	assert.True(t, IsRetryable(err))

	unauthorized := newChatServer(t, http.StatusUnauthorized,
		`{"error": {"message": "invalid api key", "type": "invalid_request_error"}}`, nil, nil)
	_, err = NewOpenAIClient("bad", unauthorized.URL, Options{Model: "m"}).Generate(context.Background(), "p")
	require.Error(t, err)
	assert.False(t, IsRetryable(err))
}
