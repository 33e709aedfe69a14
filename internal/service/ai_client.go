package service

import (
	"context"
	"fmt"

	"rentchat/internal/model"
)

// LLMClient is the interface for text-generation providers.
//
// Expected degraded conditions (no API key configured, empty completion) are
// returned as displayable placeholder text with a nil error, so callers can
// always render the result. Transport and protocol failures return a real
// error; the chat pipeline decides per call site whether to degrade or to
// surface a busy message.
type LLMClient interface {
	GenerateReply(ctx context.Context, messages []model.ChatMessage) (string, error)
}

// validateMessages enforces the gateway contract: a non-empty message list
// where every message carries a role.
func validateMessages(messages []model.ChatMessage) error {
	if len(messages) == 0 {
		return fmt.Errorf("messages must not be empty")
	}
	for i, m := range messages {
		if m.Role == "" {
			return fmt.Errorf("message %d has empty role", i)
		}
	}
	return nil
}

// Ensure OpenAIClient implements LLMClient
var _ LLMClient = (*OpenAIClient)(nil)
