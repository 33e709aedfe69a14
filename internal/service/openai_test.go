package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentchat/internal/config"
	"rentchat/internal/model"
)

func testMessages() []model.ChatMessage {
	return []model.ChatMessage{
		{Role: model.RoleSystem, Content: "你是租房助手"},
		{Role: model.RoleUser, Content: "南山有什么房子"},
	}
}

func newTestClient(apiKey, baseURL string) *OpenAIClient {
	return NewOpenAIClient(&config.OpenAIConfig{
		APIKey:          apiKey,
		APIBase:         baseURL,
		ChatModel:       "test-model",
		ChatTemperature: 0.3,
		Timeout:         5,
	}, nil)
}

func completionBody(content string) string {
	resp := map[string]any{
		"id":    "cmpl-1",
		"model": "test-model",
		"choices": []map[string]any{
			{"index": 0, "message": map[string]string{"role": "assistant", "content": content}, "finish_reason": "stop"},
		},
		"usage": map[string]int{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
	}
	data, _ := json.Marshal(resp)
	return string(data)
}

func TestOpenAIClient_GenerateReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		assert.Len(t, req.Messages, 2)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody("  南山目前有三套房源。  ")))
	}))
	defer srv.Close()

	client := newTestClient("test-key", srv.URL)
	reply, err := client.GenerateReply(context.Background(), testMessages())
	require.NoError(t, err)
	assert.Equal(t, "南山目前有三套房源。", reply)
}

func TestOpenAIClient_NoAPIKey(t *testing.T) {
	client := newTestClient("", "http://unused")

	reply, err := client.GenerateReply(context.Background(), testMessages())
	require.NoError(t, err)
	assert.Contains(t, reply, "占位回复")
}

func TestOpenAIClient_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": "cmpl-2", "choices": []}`))
	}))
	defer srv.Close()

	client := newTestClient("test-key", srv.URL)
	reply, err := client.GenerateReply(context.Background(), testMessages())
	require.NoError(t, err)
	assert.Equal(t, emptyReplyText, reply)
}

func TestOpenAIClient_EmptyContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(completionBody("   ")))
	}))
	defer srv.Close()

	client := newTestClient("test-key", srv.URL)
	reply, err := client.GenerateReply(context.Background(), testMessages())
	require.NoError(t, err)
	assert.Equal(t, emptyReplyText, reply)
}

func TestOpenAIClient_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := newTestClient("test-key", srv.URL)
	_, err := client.GenerateReply(context.Background(), testMessages())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestOpenAIClient_InvalidMessages(t *testing.T) {
	client := newTestClient("test-key", "http://unused")

	_, err := client.GenerateReply(context.Background(), nil)
	assert.Error(t, err)

	_, err = client.GenerateReply(context.Background(), []model.ChatMessage{{Role: "", Content: "hi"}})
	assert.Error(t, err)
}
