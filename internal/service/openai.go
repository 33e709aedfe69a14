package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"rentchat/internal/config"
	"rentchat/internal/model"
)

const (
	noKeyPlaceholder = "（提示：还没有配置 OPENAI_API_KEY，目前是占位回复）当你配置好密钥和模型后，这里会返回真实大模型生成的答案。"
	emptyReplyText   = "抱歉，我暂时无法回答这个问题，请稍后再试。"
)

// OpenAIClient calls an OpenAI-compatible chat-completions API. DeepSeek and
// most self-hosted gateways speak the same protocol, so the provider is just
// a base URL and model name in config.
type OpenAIClient struct {
	cfg        *config.OpenAIConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewOpenAIClient creates a client from configuration.
func NewOpenAIClient(cfg *config.OpenAIConfig, logger *zap.Logger) *OpenAIClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OpenAIClient{
		cfg:    cfg,
		logger: logger,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
	}
}

// ChatCompletionRequest represents a chat completion request
type ChatCompletionRequest struct {
	Model       string              `json:"model"`
	Messages    []model.ChatMessage `json:"messages"`
	Temperature float64             `json:"temperature,omitempty"`
	MaxTokens   int                 `json:"max_tokens,omitempty"`
}

// ChatCompletionResponse represents the API response
type ChatCompletionResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index        int               `json:"index"`
		Message      model.ChatMessage `json:"message"`
		FinishReason string            `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// GenerateReply sends the conversation to the chat-completions endpoint and
// returns the generated text. A missing API key or an empty completion comes
// back as placeholder text with a nil error; transport and protocol failures
// return an error.
func (c *OpenAIClient) GenerateReply(ctx context.Context, messages []model.ChatMessage) (string, error) {
	if err := validateMessages(messages); err != nil {
		return "", err
	}

	if c.cfg.APIKey == "" {
		c.logger.Warn("no API key configured, returning placeholder reply")
		return noKeyPlaceholder, nil
	}

	req := ChatCompletionRequest{
		Model:       c.cfg.ChatModel,
		Messages:    messages,
		Temperature: c.cfg.ChatTemperature,
		MaxTokens:   c.cfg.ChatMaxTokens,
	}

	reqBody, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/chat/completions", strings.TrimRight(c.cfg.APIBase, "/"))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.cfg.APIKey))

	c.logger.Debug("chat completion request",
		zap.String("model", req.Model),
		zap.Int("messages", len(messages)),
	)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result ChatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(result.Choices) == 0 {
		c.logger.Warn("chat completion returned no choices")
		return emptyReplyText, nil
	}
	content := strings.TrimSpace(result.Choices[0].Message.Content)
	if content == "" {
		c.logger.Warn("chat completion returned empty content")
		return emptyReplyText, nil
	}

	c.logger.Debug("chat completion reply",
		zap.Int("length", len(content)),
		zap.Int("total_tokens", result.Usage.TotalTokens),
	)
	return content, nil
}
